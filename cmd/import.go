package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"flowdraw/internal/fileio"
)

func importCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "import <flowchart.txt> <out.json|out.yaml>",
		Short: "Convert a legacy FLOWCHART text file into a diagram document",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, out := args[0], args[1]
			if _, err := fileio.FormatFor(out); err != nil {
				return err
			}
			if _, err := os.Stat(out); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", out)
			}

			d, err := fileio.ImportFlowchartFile(in, nil)
			if err != nil {
				return err
			}
			if err := fileio.Save(out, d); err != nil {
				return err
			}
			Good.Fprintf(cmd.OutOrStdout(), "  ✓ imported %d shapes and %d connections into %s\n",
				len(d.Nodes), len(d.Edges), out)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite the output file")
	return cmd
}
