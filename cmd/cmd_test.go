package cmd

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flowdraw/internal/config"
	"flowdraw/internal/diagram"
	"flowdraw/internal/fileio"
)

const sample = `FLOWCHART
BOXES:2
2,1,10,3,Start
20,1,8,3,End
CONNECTIONS:1
0,1
`

func init() {
	color.NoColor = true
}

func run(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeSample(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "legacy.txt")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o644))
	return path
}

func TestImport(t *testing.T) {
	in := writeSample(t)
	out := filepath.Join(t.TempDir(), "chart.yaml")

	msg, err := run(t, importCmd(), in, out)
	require.NoError(t, err)
	assert.Contains(t, msg, "imported 2 shapes and 1 connections")

	d, err := fileio.Load(out)
	require.NoError(t, err)
	assert.Len(t, d.Nodes, 2)
	assert.Len(t, d.Edges, 1)

	_, err = run(t, importCmd(), in, out)
	assert.ErrorContains(t, err, "already exists")
	_, err = run(t, importCmd(), "--force", in, out)
	assert.NoError(t, err)
}

func TestImportRejectsUnknownFormat(t *testing.T) {
	_, err := run(t, importCmd(), writeSample(t), filepath.Join(t.TempDir(), "chart.xml"))
	assert.ErrorIs(t, err, fileio.ErrUnknownFormat)
}

func TestExport(t *testing.T) {
	in := writeSample(t)
	dir := t.TempDir()
	png := filepath.Join(dir, "chart.png")
	txt := filepath.Join(dir, "chart.txt")

	msg, err := run(t, exportCmd(), in, "--png", png, "--txt", txt)
	require.NoError(t, err)
	assert.Contains(t, msg, "wrote "+png)
	assert.FileExists(t, png)

	data, err := os.ReadFile(txt)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Start")
	assert.Contains(t, string(data), "End")
}

func TestExportNeedsATarget(t *testing.T) {
	_, err := run(t, exportCmd(), writeSample(t))
	assert.ErrorContains(t, err, "nothing to do")
}

func TestRenderTextEmptyDiagram(t *testing.T) {
	_, err := renderText(diagram.Default(time.Now()))
	assert.ErrorIs(t, err, fileio.ErrNothingToExport)
}

func TestRenderTextStartsAtOrigin(t *testing.T) {
	d := diagram.Default(time.Now())
	d.Nodes = append(d.Nodes, diagram.NewNode("a", diagram.NodePatch{
		X: diagram.Ptr(1000.0), Y: diagram.Ptr(1000.0),
		Width: diagram.Ptr(80.0), Height: diagram.Ptr(48.0),
		Value: diagram.Ptr("Far"),
	}))

	lines, err := renderText(d)
	require.NoError(t, err)
	require.Len(t, lines, 5)
	assert.Equal(t, 12, len([]rune(lines[0])))
	assert.Contains(t, strings.Join(lines, "\n"), "Far")
}

func TestRenderTextRejectsHugeExtent(t *testing.T) {
	d := diagram.Default(time.Now())
	for i, x := range []float64{0, 1e9} {
		d.Nodes = append(d.Nodes, diagram.NewNode(fmt.Sprint("n", i), diagram.NodePatch{
			X: diagram.Ptr(x), Width: diagram.Ptr(80.0), Height: diagram.Ptr(48.0),
		}))
	}

	_, err := renderText(d)
	assert.ErrorIs(t, err, fileio.ErrExportTooLarge)
}

func TestInfo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chart.json")
	d := diagram.Default(time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC))
	d.Metadata.Name = "Plan"
	d.Nodes = append(d.Nodes,
		diagram.NewNode("a", diagram.NodePatch{Value: diagram.Ptr("A")}),
		diagram.NewNode("b", diagram.NodePatch{Style: &diagram.NodeStyle{Shape: diagram.ShapeEllipse}}),
	)
	d.Edges = append(d.Edges, diagram.Edge{ID: "e", Source: "a", Target: "gone"})
	require.NoError(t, fileio.Save(path, d))

	out, err := run(t, infoCmd(), path)
	require.NoError(t, err)
	assert.Contains(t, out, "Plan")
	assert.Contains(t, out, "Shapes:          2")
	assert.Contains(t, out, "ellipse: 1")
	assert.Contains(t, out, "Connections:     1")
	assert.Contains(t, out, "dangling connections: e")
}

func TestOpenDiagram(t *testing.T) {
	cfg := config.Default()
	cfg.Diagram.ShowGrid = false
	dir := t.TempDir()

	d, bound, err := openDiagram("", cfg)
	require.NoError(t, err)
	assert.Empty(t, bound)
	assert.False(t, d.Settings.ShowGrid)

	missing := filepath.Join(dir, "new-plan.json")
	d, bound, err = openDiagram(missing, cfg)
	require.NoError(t, err)
	assert.Equal(t, missing, bound)
	assert.Equal(t, "new-plan", d.Metadata.Name)

	_, _, err = openDiagram(filepath.Join(dir, "new.xml"), cfg)
	assert.ErrorIs(t, err, fileio.ErrUnknownFormat)

	d, bound, err = openDiagram(writeSample(t), cfg)
	require.NoError(t, err)
	assert.Empty(t, bound)
	assert.Len(t, d.Nodes, 2)
}
