package cmd

import (
	"maps"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"flowdraw/internal/diagram"
)

func infoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info <file>",
		Short: "Summarize a diagram file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := loadInput(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			printf(out, "%s %s\n\n", Brand.Sprint(d.Metadata.Name), Subtle.Sprint(args[0]))
			printf(out, "  Format version:  %s\n", d.Metadata.Version)
			if !d.Metadata.Created.IsZero() {
				printf(out, "  Created:         %s\n", d.Metadata.Created.Format(time.DateTime))
			}
			if !d.Metadata.Modified.IsZero() {
				printf(out, "  Modified:        %s\n", d.Metadata.Modified.Format(time.DateTime))
			}
			printf(out, "  Shapes:          %d\n", len(d.Nodes))
			for _, line := range shapeCounts(d.Nodes) {
				printf(out, "    %s\n", line)
			}
			printf(out, "  Connections:     %d\n", len(d.Edges))
			printf(out, "  Theme:           %s\n", d.Settings.Theme)
			printf(out, "  Zoom:            %d%%\n", int(d.Viewport.Scale*100+0.5))

			report := d.Clone().Normalize()
			if report.Clean() {
				Good.Fprintln(out, "\n  ✓ consistent")
				return nil
			}
			Warn.Fprintln(out, "\n  Repairs needed on load:")
			for _, p := range problems(report) {
				Warn.Fprintf(out, "    - %s\n", p)
			}
			return nil
		},
	}
}

func shapeCounts(nodes []diagram.Node) []string {
	counts := map[diagram.Shape]int{}
	for _, n := range nodes {
		counts[n.Style.ShapeOrDefault()]++
	}
	var lines []string
	for _, shape := range slices.Sorted(maps.Keys(counts)) {
		lines = append(lines, string(shape)+": "+strconv.Itoa(counts[shape]))
	}
	return lines
}

func problems(r diagram.Report) []string {
	var out []string
	add := func(what string, ids []string) {
		if len(ids) > 0 {
			out = append(out, what+": "+strings.Join(ids, ", "))
		}
	}
	add("duplicate ids", r.DuplicateIDs)
	add("dangling connections", r.DanglingEdges)
	add("stale selection", r.StaleSelection)
	add("invalid sizes", r.ResizedNodes)
	if r.ScaleClamped {
		out = append(out, "zoom out of range")
	}
	if r.ThemeReset {
		out = append(out, "unknown theme")
	}
	return out
}
