package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	events []Event
}

func (r *recorder) listen(g *Graph, kinds ...EventKind) {
	for _, k := range kinds {
		g.AddListener(k, func(e Event) { r.events = append(r.events, e) })
	}
}

func (r *recorder) kinds() []EventKind {
	out := make([]EventKind, len(r.events))
	for i, e := range r.events {
		out[i] = e.Kind
	}
	return out
}

var allEvents = []EventKind{
	EventMoveStart, EventCellsMoved, EventMoveEnd, EventCellsResized, EventConnect,
	EventSelectionChange, EventScaleAndTranslate, EventLabelChanged, EventClick,
}

func twoVertices(t *testing.T) *Graph {
	t.Helper()
	g := New()
	g.InsertVertex("a", Rect{X: 0, Y: 0, Width: 80, Height: 48}, "A", Style{})
	g.InsertVertex("b", Rect{X: 160, Y: 0, Width: 80, Height: 48}, "B", Style{})
	return g
}

func TestInsertAndRemove(t *testing.T) {
	g := twoVertices(t)
	require.True(t, g.InsertEdge("e", "a", "b", Style{EndArrow: true}))
	assert.False(t, g.InsertEdge("x", "a", "ghost", Style{}))
	assert.Equal(t, []string{"a", "b", "e"}, g.CellIDs())

	g.SetSelection([]string{"a", "e"})
	var r recorder
	r.listen(g, allEvents...)

	g.Remove([]string{"a"}, true)

	assert.Equal(t, []string{"b"}, g.CellIDs())
	assert.Empty(t, g.Selection())
	require.Len(t, r.events, 1)
	assert.Equal(t, EventSelectionChange, r.events[0].Kind)
}

func TestRemoveWithoutEdgesKeepsThem(t *testing.T) {
	g := twoVertices(t)
	g.InsertEdge("e", "a", "b", Style{})

	g.Remove([]string{"a"}, false)

	_, ok := g.Cell("e")
	assert.True(t, ok)
	assert.NotPanics(t, func() { g.Render(40, 5, RenderOptions{}) })
}

func TestProgrammaticChangesRaiseEvents(t *testing.T) {
	g := twoVertices(t)
	var r recorder
	r.listen(g, allEvents...)

	g.SetGeometry("a", Rect{X: 8, Y: 0, Width: 100, Height: 48})
	g.SetValue("a", "A2")
	g.SetSelection([]string{"b"})
	g.SetView(View{Scale: 2})

	assert.Equal(t, []EventKind{
		EventCellsMoved, EventCellsResized, EventLabelChanged, EventSelectionChange, EventScaleAndTranslate,
	}, r.kinds())
	assert.Equal(t, 8.0, r.events[0].DX)
	assert.Equal(t, "A2", r.events[2].Value)
	assert.Equal(t, []string{"b"}, r.events[3].Cells)
}

func TestNoEventsWithoutChange(t *testing.T) {
	g := twoVertices(t)
	g.SetSelection([]string{"a"})
	var r recorder
	r.listen(g, allEvents...)

	assert.False(t, g.SetGeometry("a", Rect{X: 0, Y: 0, Width: 80, Height: 48}))
	assert.False(t, g.SetValue("a", "A"))
	assert.False(t, g.SetStyle("a", Style{}))
	g.SetSelection([]string{"a", "ghost"})
	g.SetView(View{Scale: 1})

	assert.Empty(t, r.events)
}

func TestBeginUpdateDefersEvents(t *testing.T) {
	g := twoVertices(t)
	var r recorder
	r.listen(g, allEvents...)

	g.BeginUpdate()
	g.BeginUpdate()
	g.SetValue("a", "x")
	g.EndUpdate()
	assert.Empty(t, r.events)
	g.SetSelection([]string{"a"})
	g.EndUpdate()

	assert.Equal(t, []EventKind{EventLabelChanged, EventSelectionChange}, r.kinds())
}

func TestRemoveListener(t *testing.T) {
	g := twoVertices(t)
	calls := 0
	remove := g.AddListener(EventSelectionChange, func(Event) { calls++ })

	g.SetSelection([]string{"a"})
	remove()
	g.SetSelection([]string{"b"})

	assert.Equal(t, 1, calls)
}

func TestMoveGesture(t *testing.T) {
	g := twoVertices(t)
	g.SetSelection([]string{"a", "b"})
	var r recorder
	r.listen(g, allEvents...)

	require.True(t, g.BeginMove(nil))
	assert.True(t, g.Moving())
	g.DragBy(8, 0)
	g.DragBy(8, 16)
	assert.Equal(t, []EventKind{EventMoveStart}, r.kinds(), "dragging is a silent preview")

	a, _ := g.Cell("a")
	assert.Equal(t, Rect{X: 16, Y: 16, Width: 80, Height: 48}, a.Geometry)

	g.EndMove()

	assert.False(t, g.Moving())
	assert.Equal(t, []EventKind{EventMoveStart, EventCellsMoved, EventMoveEnd}, r.kinds())
	moved := r.events[1]
	assert.Equal(t, []string{"a", "b"}, moved.Cells)
	assert.Equal(t, 16.0, moved.DX)
	assert.Equal(t, 16.0, moved.DY)
}

func TestMoveSnapsToGrid(t *testing.T) {
	g := twoVertices(t)
	g.SetGrid(true, 20)

	g.BeginMove([]string{"a"})
	g.DragBy(13, 4)
	g.EndMove()

	a, _ := g.Cell("a")
	assert.Equal(t, 20.0, a.Geometry.X)
	assert.Equal(t, 0.0, a.Geometry.Y)
}

func TestMoveWithoutDisplacement(t *testing.T) {
	g := twoVertices(t)
	var r recorder
	r.listen(g, allEvents...)

	g.BeginMove([]string{"a"})
	g.EndMove()

	assert.Equal(t, []EventKind{EventMoveStart, EventMoveEnd}, r.kinds())
}

func TestCancelMove(t *testing.T) {
	g := twoVertices(t)
	g.BeginMove([]string{"a"})
	g.DragBy(40, 40)

	g.CancelMove()

	a, _ := g.Cell("a")
	assert.Equal(t, 0.0, a.Geometry.X)
	assert.False(t, g.BeginMove([]string{"ghost"}))
}

func TestResizeGesture(t *testing.T) {
	g := twoVertices(t)
	var r recorder
	r.listen(g, allEvents...)

	require.True(t, g.BeginResize("a"))
	assert.False(t, g.BeginMove([]string{"a"}), "one gesture at a time")
	g.ResizeBy(-500, 16)
	g.EndResize()

	a, _ := g.Cell("a")
	assert.Equal(t, Rect{X: 0, Y: 0, Width: MinSize, Height: 64}, a.Geometry)
	assert.Equal(t, []EventKind{EventCellsResized}, r.kinds())

	g.BeginResize("a")
	g.ResizeBy(8, 8)
	g.CancelResize()
	a, _ = g.Cell("a")
	assert.Equal(t, float64(MinSize), a.Geometry.Width)
}

func TestConnect(t *testing.T) {
	g := twoVertices(t)
	var r recorder
	r.listen(g, EventConnect)

	id, ok := g.Connect("a", "b", Style{EndArrow: true})
	require.True(t, ok)

	edge, found := g.Cell(id)
	require.True(t, found)
	assert.True(t, edge.Edge)
	require.Len(t, r.events, 1)
	assert.Equal(t, id, r.events[0].EdgeID)
	assert.Equal(t, "a", r.events[0].Source)
	assert.Equal(t, "b", r.events[0].Target)

	_, ok = g.Connect("a", "a", Style{})
	assert.False(t, ok)
	_, ok = g.Connect("a", id, Style{})
	assert.False(t, ok, "edges are not terminals")
}

func TestClick(t *testing.T) {
	g := twoVertices(t)
	var r recorder
	r.listen(g, EventClick, EventSelectionChange)

	g.Click(Point{X: 10, Y: 10}, false)
	assert.Equal(t, []string{"a"}, g.Selection())

	g.Click(Point{X: 170, Y: 10}, true)
	assert.Equal(t, []string{"a", "b"}, g.Selection())

	g.Click(Point{X: 500, Y: 500}, false)
	assert.Empty(t, g.Selection())

	last := r.events[len(r.events)-1]
	assert.Equal(t, EventClick, last.Kind)
	assert.Empty(t, last.CellID)
	assert.Equal(t, Point{X: 500, Y: 500}, last.Point)
}

func TestViewConversions(t *testing.T) {
	v := View{Scale: 2, TranslateX: 16, TranslateY: -32}

	p := Point{X: 10, Y: 20}
	assert.Equal(t, Point{X: 36, Y: 8}, v.ToScreen(p))
	assert.Equal(t, p, v.ToWorld(v.ToScreen(p)))

	col, row := v.WorldToCell(Point{X: 10, Y: 20})
	assert.Equal(t, 4, col)
	assert.Equal(t, 0, row)

	w := View{Scale: 1}.CellToWorld(2, 1)
	assert.Equal(t, Point{X: 20, Y: 24}, w)
}

func TestPanBy(t *testing.T) {
	g := New()
	var r recorder
	r.listen(g, EventScaleAndTranslate)

	g.PanBy(-2, 1)

	assert.Equal(t, View{Scale: 1, TranslateX: -16, TranslateY: 16}, g.View())
	require.Len(t, r.events, 1)
	assert.Equal(t, g.View(), r.events[0].View)
}

func TestVertexAtPrefersTopmost(t *testing.T) {
	g := New()
	g.InsertVertex("under", Rect{Width: 100, Height: 100}, "", Style{})
	g.InsertVertex("over", Rect{X: 50, Y: 50, Width: 100, Height: 100}, "", Style{})

	id, ok := g.VertexAt(Point{X: 60, Y: 60})
	require.True(t, ok)
	assert.Equal(t, "over", id)

	_, ok = g.VertexAt(Point{X: 500, Y: 0})
	assert.False(t, ok)
}

func TestCellAtFollowsView(t *testing.T) {
	g := New()
	g.InsertVertex("a", Rect{X: 80, Y: 80, Width: 40, Height: 40}, "", Style{})

	_, ok := g.CellAt(10, 5)
	assert.True(t, ok)
	_, ok = g.CellAt(5, 5)
	assert.False(t, ok)

	g.SetView(View{Scale: 2})
	_, ok = g.CellAt(20, 10)
	assert.True(t, ok)
	_, ok = g.CellAt(10, 5)
	assert.False(t, ok)
}

func TestBounds(t *testing.T) {
	g := twoVertices(t)
	b, ok := g.Bounds()
	require.True(t, ok)
	assert.Equal(t, Rect{X: 0, Y: 0, Width: 240, Height: 48}, b)

	_, ok = New().Bounds()
	assert.False(t, ok)
}
