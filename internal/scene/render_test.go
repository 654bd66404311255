package scene

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderRectangle(t *testing.T) {
	g := New()
	g.InsertVertex("a", Rect{Width: 80, Height: 48}, "A", Style{})

	lines := g.Render(12, 4, RenderOptions{}).Lines()

	assert.Equal(t, []string{
		"+--------+  ",
		"|   A    |  ",
		"+--------+  ",
		"            ",
	}, lines)
}

func TestRenderSelectedVertex(t *testing.T) {
	g := New()
	g.InsertVertex("a", Rect{Width: 80, Height: 48}, "A", Style{})
	g.SetSelection([]string{"a"})

	f := g.Render(12, 3, RenderOptions{})

	assert.Equal(t, "##########  ", f.Lines()[0])
	cell := f.At(4, 1)
	assert.Equal(t, 'A', cell.Rune)
	assert.Equal(t, MarkLabel, cell.Mark)
	assert.Equal(t, "a", cell.Owner)
	assert.True(t, cell.Selected)
}

func TestRenderEdgeWithArrow(t *testing.T) {
	g := twoVertices(t)
	g.InsertEdge("e", "a", "b", Style{EndArrow: true})

	f := g.Render(30, 3, RenderOptions{})

	assert.Equal(t, "|   A    |─────────▶|   B    |", f.Lines()[1])
	assert.Equal(t, "e", f.At(12, 1).Owner)
	assert.Equal(t, MarkArrow, f.At(19, 1).Mark)
}

func TestRenderEdgeRoutesAroundCorner(t *testing.T) {
	g := New()
	g.InsertVertex("a", Rect{Width: 80, Height: 48}, "", Style{})
	g.InsertVertex("b", Rect{X: 240, Y: 64, Width: 80, Height: 48}, "", Style{})
	g.InsertEdge("e", "a", "b", Style{Dashed: true})

	f := g.Render(42, 8, RenderOptions{})

	text := strings.Join(f.Lines(), "\n")
	assert.Contains(t, text, "┐")
	assert.Contains(t, text, "└")
	assert.Contains(t, text, "┄")
	assert.NotContains(t, text, "▶")
}

func TestRenderShapes(t *testing.T) {
	g := New()
	g.InsertVertex("o", Rect{Width: 80, Height: 48}, "", Style{Shape: ShapeEllipse})
	g.InsertVertex("d", Rect{X: 96, Width: 80, Height: 80}, "", Style{Shape: ShapeRhombus})
	g.InsertVertex("t", Rect{X: 200, Width: 80, Height: 16}, "hi", Style{Shape: ShapeLabel})

	f := g.Render(40, 6, RenderOptions{})
	lines := f.Lines()

	assert.Equal(t, '.', f.At(0, 0).Rune)
	assert.Equal(t, '(', f.At(0, 1).Rune)
	assert.Equal(t, '\'', f.At(0, 2).Rune)
	assert.Contains(t, lines[2], "<")
	assert.Contains(t, lines[2], ">")
	assert.Contains(t, lines[0], "hi")
	assert.Equal(t, MarkLabel, f.At(29, 0).Mark)
	assert.Equal(t, MarkNone, f.At(25, 0).Mark, "labels have no border or fill")
}

func TestRenderFollowsView(t *testing.T) {
	g := New()
	g.InsertVertex("a", Rect{Width: 80, Height: 48}, "A", Style{})
	g.SetView(View{Scale: 1, TranslateX: 16, TranslateY: 16})

	f := g.Render(14, 5, RenderOptions{})

	assert.Equal(t, "  +--------+  ", f.Lines()[1])
	assert.Equal(t, MarkNone, f.At(0, 0).Mark)
}

func TestRenderHugeVertexCostsOnlyTheFrame(t *testing.T) {
	g := New()
	g.InsertVertex("big", Rect{X: -4e7, Y: -4e7, Width: 8e7, Height: 8e7}, "", Style{})
	g.InsertVertex("wide", Rect{X: 16, Y: -4e7, Width: 4e9, Height: 8e7}, "", Style{Shape: ShapeEllipse})
	g.InsertVertex("tall", Rect{X: 400, Y: -1e9, Width: 4e8, Height: 2e9}, "", Style{Shape: ShapeRhombus})

	start := time.Now()
	f := g.Render(80, 24, RenderOptions{})
	assert.Less(t, time.Since(start), time.Second)

	assert.Equal(t, "big", f.At(0, 0).Owner)
	assert.Equal(t, MarkVertex, f.At(0, 23).Mark)
	assert.Equal(t, '(', f.At(2, 10).Rune)
	assert.Equal(t, "wide", f.At(3, 10).Owner)
}

func TestRenderEdgeToFarVertex(t *testing.T) {
	g := New()
	g.InsertVertex("a", Rect{Width: 80, Height: 48}, "", Style{})
	g.InsertVertex("b", Rect{X: 2e9, Width: 80, Height: 48}, "", Style{})
	g.InsertEdge("e", "a", "b", Style{EndArrow: true})

	start := time.Now()
	f := g.Render(20, 3, RenderOptions{})
	assert.Less(t, time.Since(start), 100*time.Millisecond)

	assert.Equal(t, "|        |──────────", f.Lines()[1])
	assert.Equal(t, "e", f.At(19, 1).Owner)
}

func TestRenderPartlyVisibleOutline(t *testing.T) {
	g := New()
	g.InsertVertex("a", Rect{X: -800, Y: -800, Width: 880, Height: 848}, "", Style{})

	f := g.Render(12, 4, RenderOptions{})

	assert.Equal(t, []string{
		"         |  ",
		"         |  ",
		"---------+  ",
		"            ",
	}, f.Lines())
}

func TestRenderGrid(t *testing.T) {
	g := New()

	f := g.Render(10, 4, RenderOptions{ShowGrid: true, GridSize: 32})

	assert.Equal(t, '·', f.At(0, 0).Rune)
	assert.Equal(t, '·', f.At(4, 2).Rune)
	assert.Equal(t, MarkGrid, f.At(4, 2).Mark)

	g.SetView(View{Scale: 0.1})
	f = g.Render(10, 4, RenderOptions{ShowGrid: true, GridSize: 20})
	assert.Equal(t, ' ', f.At(0, 0).Rune, "grid too dense to draw")
}

func TestRenderMinimap(t *testing.T) {
	g := twoVertices(t)

	f := g.RenderMinimap(10, 5, 40, 10)

	found := false
	for _, line := range f.Lines() {
		if strings.ContainsRune(line, '█') {
			found = true
		}
	}
	require.True(t, found)
	assert.Equal(t, 10, f.Width)

	empty := New().RenderMinimap(10, 5, 40, 10)
	assert.Equal(t, strings.Repeat(" ", 10), empty.Lines()[0])
}
