package cmd

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/spf13/cobra"

	"flowdraw/internal/diagram"
	"flowdraw/internal/fileio"
	"flowdraw/internal/scene"
	"flowdraw/internal/store"
	"flowdraw/internal/syncer"
)

const maxTextSide = 4096

func exportCmd() *cobra.Command {
	var pngPath, txtPath string

	cmd := &cobra.Command{
		Use:   "export <file>",
		Short: "Render a diagram to PNG or plain text",
		Example: "  flowdraw export plan.json --png plan.png\n" +
			"  flowdraw export plan.yaml --txt plan.txt",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if pngPath == "" && txtPath == "" {
				return errors.New("nothing to do: pass --png and/or --txt")
			}
			d, err := loadInput(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if pngPath != "" {
				if err := fileio.ExportPNG(pngPath, d); err != nil {
					return fmt.Errorf("export %s: %w", pngPath, err)
				}
				Good.Fprintf(out, "  ✓ wrote %s\n", pngPath)
			}
			if txtPath != "" {
				lines, err := renderText(d)
				if err != nil {
					return fmt.Errorf("export %s: %w", txtPath, err)
				}
				if err := fileio.ExportText(txtPath, lines); err != nil {
					return fmt.Errorf("export %s: %w", txtPath, err)
				}
				Good.Fprintf(out, "  ✓ wrote %s\n", txtPath)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&pngPath, "png", "", "write a PNG image to this path")
	cmd.Flags().StringVar(&txtPath, "txt", "", "write a text rendering to this path")
	return cmd
}

// loadInput reads a diagram document or imports a legacy FLOWCHART file.
func loadInput(path string) (*diagram.Diagram, error) {
	if isLegacy(path) {
		return fileio.ImportFlowchartFile(path, nil)
	}
	return fileio.Load(path)
}

// renderText draws the whole diagram at scale 1 with a one cell margin, the
// same way the editor draws its canvas.
func renderText(d *diagram.Diagram) ([]string, error) {
	s := store.New(store.WithDiagram(d.Clone()))
	g := scene.New()
	a := syncer.New(s, g)
	a.Attach()
	defer a.Detach()

	b, ok := g.Bounds()
	if !ok {
		return nil, fileio.ErrNothingToExport
	}
	g.SetView(scene.View{
		Scale:      1,
		TranslateX: scene.CellWidth - b.X,
		TranslateY: scene.CellHeight - b.Y,
	})
	cols := math.Ceil(b.Width/scene.CellWidth) + 2
	rows := math.Ceil(b.Height/scene.CellHeight) + 2
	if !(cols <= maxTextSide && rows <= maxTextSide) {
		return nil, fmt.Errorf("%.0fx%.0f cells, limit %d: %w", cols, rows, maxTextSide, fileio.ErrExportTooLarge)
	}
	return g.Render(int(cols), int(rows), scene.RenderOptions{}).Lines(), nil
}

func printf(w io.Writer, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
