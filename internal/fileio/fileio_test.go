package fileio

import (
	"bytes"
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flowdraw/internal/diagram"
)

func sampleDiagram() *diagram.Diagram {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	d := diagram.Default(now)
	d.Metadata.Name = "Sample"
	d.Nodes = []diagram.Node{
		{ID: "a", X: 100, Y: 100, Width: 120, Height: 60, Value: "Start", Vertex: true,
			Style: diagram.NodeStyle{Shape: diagram.ShapeRectangle, FillColor: "#ff0000", Opacity: diagram.Ptr(0.5)}},
		{ID: "b", X: 400, Y: 100, Width: 100, Height: 100, Value: "Decide\nnow", Vertex: true,
			Style: diagram.NodeStyle{Shape: diagram.ShapeRhombus, Extra: map[string]string{"shadow": "1"}}},
	}
	d.Edges = []diagram.Edge{
		{ID: "e", Source: "a", Target: "b", Edge: true, Style: diagram.EdgeStyle{Dashed: true}},
	}
	d.Viewport = diagram.Viewport{Scale: 1.5, TranslateX: 10, TranslateY: -20}
	d.Selection.Cells = []string{"a"}
	d.Settings.Theme = "dark"
	return d
}

func TestSaveLoadRoundTrip(t *testing.T) {
	for _, ext := range []string{".json", ".yaml", ".yml"} {
		t.Run(ext, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "diagram"+ext)
			want := sampleDiagram()

			require.NoError(t, Save(path, want))
			got, err := Load(path)
			require.NoError(t, err)

			assert.Equal(t, want.Nodes, got.Nodes)
			assert.Equal(t, want.Edges, got.Edges)
			assert.Equal(t, want.Viewport, got.Viewport)
			assert.Equal(t, want.Selection, got.Selection)
			assert.Equal(t, want.Settings, got.Settings)
			assert.Equal(t, want.Themes, got.Themes)
			assert.True(t, want.Metadata.Modified.Equal(got.Metadata.Modified))
			assert.Equal(t, want.Metadata.Name, got.Metadata.Name)
		})
	}
}

func TestJSONUsesDocumentFieldNames(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, sampleDiagram(), FormatJSON))

	out := buf.String()
	assert.Contains(t, out, `"translateX": 10`)
	assert.Contains(t, out, `"snapToGrid": false`)
	assert.Contains(t, out, `"vertex": true`)
	assert.NotContains(t, out, "history")
}

func TestUnknownFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "diagram.xml")

	err := Save(path, sampleDiagram())
	assert.ErrorIs(t, err, ErrUnknownFormat)
	_, err = Load(path)
	assert.ErrorIs(t, err, ErrUnknownFormat)
	_, err = Decode(strings.NewReader("{}"), Format("toml"))
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestLoadReportsDecodeErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.json")
	require.NoError(t, os.WriteFile(path, []byte("{nodes"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken.json")
}

func counter() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("n%d", n)
	}
}

const legacy = `FLOWCHART
BOXES:3
2,1,10,3,Hello
20,1,8,4,#ff0000,Two\nlines
5,10,Tiny
CONNECTIONS:4
0,1,12,2,20,2,0,2
1,2,20,3,6,10,1,1|10:5
0,2
0,9
TEXTS:1
30,0,note, with comma
HIGHLIGHTS:1
1,1,3
PAN:4,2
`

func TestImportFlowchart(t *testing.T) {
	d, err := ImportFlowchart(strings.NewReader(legacy), counter())
	require.NoError(t, err)

	require.Len(t, d.Nodes, 4)
	hello := d.Nodes[0]
	assert.Equal(t, "n1", hello.ID)
	assert.Equal(t, "Hello", hello.Value)
	assert.Equal(t, 80.0, hello.Width)
	assert.Equal(t, 48.0, hello.Height)
	assert.Equal(t, 2*8+40.0, hello.X)
	assert.Equal(t, 16+24.0, hello.Y)

	assert.Equal(t, "Two\nlines", d.Nodes[1].Value)
	assert.Equal(t, 64.0, d.Nodes[1].Width)

	tiny := d.Nodes[2]
	assert.Equal(t, "Tiny", tiny.Value)
	assert.Equal(t, float64(minLegacyBoxWidth*8), tiny.Width)
	assert.Equal(t, 48.0, tiny.Height)

	note := d.Nodes[3]
	assert.Equal(t, " with comma", note.Value)
	assert.Equal(t, diagram.ShapeLabel, note.Style.Shape)

	require.Len(t, d.Edges, 3, "connection to a missing box is skipped")
	assert.Equal(t, "n1", d.Edges[0].Source)
	assert.Equal(t, "n2", d.Edges[0].Target)
	assert.True(t, d.Edges[0].Style.HasEndArrow())
	assert.Equal(t, "n3", d.Edges[1].Source, "start-only arrow is reversed")
	assert.Equal(t, "n2", d.Edges[1].Target)
	assert.True(t, d.Edges[2].Style.HasEndArrow(), "short form defaults to an end arrow")

	assert.Equal(t, -32.0, d.Viewport.TranslateX)
	assert.Equal(t, -32.0, d.Viewport.TranslateY)
	assert.True(t, d.Normalize().Clean())
}

func TestImportFlowchartWithoutArrows(t *testing.T) {
	in := "FLOWCHART\nBOXES:2\n0,0,8,3,A\n10,0,8,3,B\nCONNECTIONS:1\n0,1,8,1,10,1,0,0\n"

	d, err := ImportFlowchart(strings.NewReader(in), counter())
	require.NoError(t, err)

	require.Len(t, d.Edges, 1)
	assert.Equal(t, diagram.ArrowNone, d.Edges[0].Style.EndArrow)
}

func TestImportFlowchartRejectsGarbage(t *testing.T) {
	for name, in := range map[string]string{
		"header":     "NOPE\n",
		"empty":      "",
		"box count":  "FLOWCHART\nBOXES:x\n",
		"truncated":  "FLOWCHART\nBOXES:2\n0,0,8,3,A\n",
		"box":        "FLOWCHART\nBOXES:1\n0\n",
		"connection": "FLOWCHART\nBOXES:0\nCONNECTIONS:1\n1,2,3\n",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := ImportFlowchart(strings.NewReader(in), nil)
			assert.ErrorIs(t, err, ErrInvalidFlowchart)
		})
	}
}

func TestExportPNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.png")
	d := sampleDiagram()

	require.NoError(t, ExportPNG(path, d))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)

	// Nodes span x 40..450 and y 50..150, plus padding on each side.
	assert.Equal(t, 410+32, img.Bounds().Dx())
	assert.Equal(t, 100+32, img.Bounds().Dy())

	r, g, b, _ := img.At(0, 0).RGBA()
	assert.Equal(t, [3]uint32{0x11, 0x18, 0x27}, [3]uint32{r >> 8, g >> 8, b >> 8}, "dark theme background")
}

func TestExportPNGNothingToExport(t *testing.T) {
	var buf bytes.Buffer
	err := WritePNG(&buf, diagram.Default(time.Now()))
	assert.ErrorIs(t, err, ErrNothingToExport)
	assert.ErrorIs(t, WritePNG(&buf, nil), ErrNothingToExport)
}

func TestExportPNGRejectsHugeExtent(t *testing.T) {
	d := sampleDiagram()
	d.Nodes[1].X = 5e7

	err := WritePNG(&bytes.Buffer{}, d)

	assert.ErrorIs(t, err, ErrExportTooLarge)
}

func TestExportText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")

	require.NoError(t, ExportText(path, []string{"+--+  ", "|A |", "    "}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "+--+\n|A |\n\n", string(data))
	assert.ErrorIs(t, WriteText(&bytes.Buffer{}, nil), ErrNothingToExport)
}

func TestParseColor(t *testing.T) {
	c := parseColor("#f00", nil, 1)
	assert.Equal(t, "{255 0 0 255}", fmt.Sprint(c))

	fallback := parseColor("not-a-color", colorWhite{}, 0.5)
	assert.Equal(t, "{255 255 255 128}", fmt.Sprint(fallback))
}

type colorWhite struct{}

func (colorWhite) RGBA() (r, g, b, a uint32) { return 0xffff, 0xffff, 0xffff, 0xffff }
