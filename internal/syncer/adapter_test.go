package syncer

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flowdraw/internal/diagram"
	"flowdraw/internal/scene"
	"flowdraw/internal/store"
)

// recordingStore counts the writes the adapter makes.
type recordingStore struct {
	*store.Store
	writes []string
}

func (r *recordingStore) AddNode(p diagram.NodePatch) string {
	r.writes = append(r.writes, "AddNode")
	return r.Store.AddNode(p)
}

func (r *recordingStore) UpdateNode(id string, p diagram.NodePatch) {
	r.writes = append(r.writes, "UpdateNode")
	r.Store.UpdateNode(id, p)
}

func (r *recordingStore) AddEdge(p diagram.EdgePatch) (string, error) {
	r.writes = append(r.writes, "AddEdge")
	return r.Store.AddEdge(p)
}

func (r *recordingStore) SelectCells(ids []string) {
	r.writes = append(r.writes, "SelectCells")
	r.Store.SelectCells(ids)
}

func (r *recordingStore) ClearSelection() {
	r.writes = append(r.writes, "ClearSelection")
	r.Store.ClearSelection()
}

func (r *recordingStore) SetViewport(p diagram.ViewportPatch) {
	r.writes = append(r.writes, "SetViewport")
	r.Store.SetViewport(p)
}

type fixture struct {
	store   *recordingStore
	graph   *scene.Graph
	sched   *ManualScheduler
	adapter *Adapter
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	n := 0
	s := store.New(store.WithIDGenerator(func() string {
		n++
		return fmt.Sprintf("c%d", n)
	}))
	f := &fixture{
		store: &recordingStore{Store: s},
		graph: scene.New(),
		sched: &ManualScheduler{},
	}
	f.adapter = New(f.store, f.graph, WithScheduler(f.sched))
	f.adapter.Attach()
	t.Cleanup(f.adapter.Detach)
	return f
}

func (f *fixture) node(x, y float64) string {
	return f.store.Store.AddNode(diagram.NodePatch{X: diagram.Ptr(x), Y: diagram.Ptr(y), Width: diagram.Ptr(80.0), Height: diagram.Ptr(40.0)})
}

func (f *fixture) edge(t *testing.T, src, dst string) string {
	t.Helper()
	id, err := f.store.Store.AddEdge(diagram.EdgePatch{Source: &src, Target: &dst})
	require.NoError(t, err)
	return id
}

func TestAttachPushesExistingState(t *testing.T) {
	s := store.New()
	a := s.AddNode(diagram.NodePatch{Value: diagram.Ptr("A")})
	b := s.AddNode(diagram.NodePatch{X: diagram.Ptr(400.0)})
	e, err := s.AddEdge(diagram.EdgePatch{Source: &a, Target: &b})
	require.NoError(t, err)
	s.SelectCells([]string{a})
	s.SetViewport(diagram.ViewportPatch{Scale: diagram.Ptr(2.0), TranslateX: diagram.Ptr(8.0)})
	s.SetSnapToGrid(true)
	g := scene.New()

	New(s, g).Attach()

	c, ok := g.Cell(a)
	require.True(t, ok)
	assert.Equal(t, scene.Rect{X: 40, Y: 70, Width: 120, Height: 60}, c.Geometry)
	assert.Equal(t, "A", c.Value)
	edge, ok := g.Cell(e)
	require.True(t, ok)
	assert.Equal(t, b, edge.Target)
	assert.True(t, edge.Style.EndArrow)
	assert.Equal(t, []string{a}, g.Selection())
	assert.Equal(t, scene.View{Scale: 2, TranslateX: 8}, g.View())
	enabled, size := g.Grid()
	assert.True(t, enabled)
	assert.Equal(t, 20, size)
}

func TestStoreChangesReachWidgetWithoutEchoes(t *testing.T) {
	f := newFixture(t)
	a := f.node(100, 100)
	b := f.node(300, 100)
	e := f.edge(t, a, b)

	f.store.Store.UpdateNode(a, diagram.NodePatch{X: diagram.Ptr(140.0), Value: diagram.Ptr("moved")})
	f.store.Store.SelectCells([]string{a, e})
	f.store.Store.SetViewport(diagram.ViewportPatch{Scale: diagram.Ptr(3.0)})

	c, _ := f.graph.Cell(a)
	assert.Equal(t, scene.Rect{X: 100, Y: 80, Width: 80, Height: 40}, c.Geometry)
	assert.Equal(t, "moved", c.Value)
	assert.Equal(t, []string{a, e}, f.graph.Selection())
	assert.Equal(t, 3.0, f.graph.View().Scale)

	assert.Empty(t, f.store.writes, "widget echoes must not be written back")
	assert.Equal(t, PhaseIdle, f.adapter.Phase())
}

func TestDeleteNodeRemovesCellsFromWidget(t *testing.T) {
	f := newFixture(t)
	a := f.node(100, 100)
	b := f.node(300, 100)
	e := f.edge(t, a, b)

	f.store.Store.DeleteNode(a)

	_, okA := f.graph.Cell(a)
	_, okE := f.graph.Cell(e)
	assert.False(t, okA)
	assert.False(t, okE)
	assert.Equal(t, []string{b}, f.graph.CellIDs())
}

func TestStyleChangesReachWidget(t *testing.T) {
	f := newFixture(t)
	a := f.node(100, 100)

	f.store.Store.UpdateNode(a, diagram.NodePatch{Style: &diagram.NodeStyle{
		Shape:      diagram.ShapeLabel,
		FillColor:  "#ff0000",
		FontWeight: "bold",
		Opacity:    diagram.Ptr(0.5),
	}})

	c, _ := f.graph.Cell(a)
	assert.Equal(t, scene.ShapeLabel, c.Style.Shape)
	assert.Equal(t, scene.None, c.Style.FillColor)
	assert.Equal(t, scene.None, c.Style.StrokeColor)
	assert.True(t, c.Style.Bold)
	assert.Equal(t, 50, c.Style.Opacity)
}

func TestDragUpdatesStoreInOneStep(t *testing.T) {
	f := newFixture(t)
	a := f.node(100, 100)
	b := f.node(300, 100)
	f.store.Store.SelectCells([]string{a, b})
	hist := f.store.History().Len

	require.True(t, f.graph.BeginMove(nil))
	assert.True(t, f.adapter.GestureActive())
	f.graph.DragBy(16, 0)
	f.graph.DragBy(0, 32)
	f.graph.EndMove()

	for i, id := range []string{a, b} {
		cell, ok := f.store.GetCellByID(id)
		require.True(t, ok)
		assert.Equal(t, 100+200*float64(i)+16, cell.Node.X)
		assert.Equal(t, 132.0, cell.Node.Y)
	}
	assert.Equal(t, hist+1, f.store.History().Len)
	assert.True(t, f.adapter.GestureActive(), "guard outlives the move end")

	f.sched.Advance(DefaultGestureReleaseDelay)
	assert.False(t, f.adapter.GestureActive())
}

func TestResizeUpdatesSizeAndCenter(t *testing.T) {
	f := newFixture(t)
	a := f.node(100, 100)

	require.True(t, f.graph.BeginResize(a))
	f.graph.ResizeBy(40, 20)
	f.graph.EndResize()

	cell, _ := f.store.GetCellByID(a)
	assert.Equal(t, 120.0, cell.Node.Width)
	assert.Equal(t, 60.0, cell.Node.Height)
	assert.Equal(t, 120.0, cell.Node.X, "left edge stays put")
	assert.Equal(t, 110.0, cell.Node.Y)
}

func TestConnectCreatesStoreEdge(t *testing.T) {
	f := newFixture(t)
	a := f.node(100, 100)
	b := f.node(300, 100)

	provisional, ok := f.graph.Connect(a, b, scene.Style{EndArrow: true})
	require.True(t, ok)

	edges := f.store.Edges()
	require.Len(t, edges, 1)
	assert.Equal(t, a, edges[0].Source)
	assert.Equal(t, b, edges[0].Target)
	assert.True(t, edges[0].Style.HasEndArrow())

	_, stillThere := f.graph.Cell(provisional)
	assert.False(t, stillThere)
	authoritative, ok := f.graph.Cell(edges[0].ID)
	require.True(t, ok)
	assert.True(t, authoritative.Edge)
}

func TestConnectWithLineToolDropsArrow(t *testing.T) {
	f := newFixture(t)
	a := f.node(100, 100)
	b := f.node(300, 100)
	f.store.SetSelectedTool(store.ToolLine)

	f.graph.Connect(a, b, scene.Style{})

	edges := f.store.Edges()
	require.Len(t, edges, 1)
	assert.Equal(t, diagram.ArrowNone, edges[0].Style.EndArrow)
	c, _ := f.graph.Cell(edges[0].ID)
	assert.False(t, c.Style.EndArrow)
}

func TestWidgetSelectionReachesStore(t *testing.T) {
	f := newFixture(t)
	a := f.node(100, 100)
	b := f.node(300, 100)

	f.graph.SetSelection([]string{b, a})
	assert.Equal(t, []string{b, a}, f.store.Selection())

	f.graph.ClearSelection()
	assert.Empty(t, f.store.Selection())
	assert.Equal(t, []string{"SelectCells", "ClearSelection"}, f.store.writes)
}

func TestWidgetViewReachesStoreClamped(t *testing.T) {
	f := newFixture(t)

	f.graph.PanBy(2, 1)
	vp := f.store.Viewport()
	assert.Equal(t, 16.0, vp.TranslateX)
	assert.Equal(t, 16.0, vp.TranslateY)

	f.graph.SetView(scene.View{Scale: 99})
	assert.Equal(t, diagram.MaxScale, f.store.Viewport().Scale)
	assert.Equal(t, diagram.MaxScale, f.graph.View().Scale, "clamped scale is pushed back")
}

func TestLabelEditReachesStore(t *testing.T) {
	f := newFixture(t)
	a := f.node(100, 100)

	f.graph.SetValue(a, "renamed")

	cell, _ := f.store.GetCellByID(a)
	assert.Equal(t, "renamed", cell.Node.Value)
}

func TestClickWithShapeToolAddsNode(t *testing.T) {
	f := newFixture(t)
	f.store.SetSelectedTool(store.ToolOval)

	f.graph.Click(scene.Point{X: 500, Y: 300}, false)

	nodes := f.store.Nodes()
	require.Len(t, nodes, 1)
	n := nodes[0]
	assert.Equal(t, 500.0, n.X)
	assert.Equal(t, 300.0, n.Y)
	assert.Equal(t, "Circle", n.Value)
	assert.Equal(t, diagram.ShapeEllipse, n.Style.Shape)
	assert.Equal(t, []string{n.ID}, f.store.Selection())
	assert.Equal(t, []string{n.ID}, f.graph.Selection())
	_, ok := f.graph.Cell(n.ID)
	assert.True(t, ok)
}

func TestClickIgnoredForSelectToolAndCells(t *testing.T) {
	f := newFixture(t)
	a := f.node(100, 100)

	f.graph.Click(scene.Point{X: 500, Y: 500}, false)
	assert.Len(t, f.store.Nodes(), 1)

	f.store.SetSelectedTool(store.ToolNode)
	f.graph.Click(scene.Point{X: 100, Y: 100}, false)
	assert.Len(t, f.store.Nodes(), 1)
	assert.Equal(t, []string{a}, f.store.Selection())
}

func TestGestureGuardDefersRemoval(t *testing.T) {
	f := newFixture(t)
	a := f.node(100, 100)
	b := f.node(300, 100)
	e := f.edge(t, a, b)

	f.graph.BeginMove([]string{a})
	f.graph.DragBy(8, 0)
	f.store.Store.DeleteNode(b)

	_, ok := f.graph.Cell(b)
	assert.True(t, ok, "no deletions mid-drag")
	_, ok = f.graph.Cell(e)
	assert.True(t, ok)

	f.graph.EndMove()
	f.sched.Advance(DefaultGestureReleaseDelay / 2)
	_, ok = f.graph.Cell(b)
	assert.True(t, ok, "guard still held")

	f.sched.Advance(DefaultGestureReleaseDelay / 2)
	_, ok = f.graph.Cell(b)
	assert.False(t, ok)
	_, ok = f.graph.Cell(e)
	assert.False(t, ok)
}

func TestClickIgnoredDuringGesture(t *testing.T) {
	f := newFixture(t)
	a := f.node(100, 100)
	f.store.SetSelectedTool(store.ToolNode)

	f.graph.BeginMove([]string{a})
	f.graph.EndMove()
	f.graph.Click(scene.Point{X: 600, Y: 600}, false)
	assert.Len(t, f.store.Nodes(), 1)

	f.sched.Advance(time.Second)
	f.graph.Click(scene.Point{X: 600, Y: 600}, false)
	assert.Len(t, f.store.Nodes(), 2)
}

func TestNewMoveCancelsPendingRelease(t *testing.T) {
	f := newFixture(t)
	a := f.node(100, 100)

	f.graph.BeginMove([]string{a})
	f.graph.EndMove()
	f.graph.BeginMove([]string{a})
	f.sched.Advance(time.Second)

	assert.True(t, f.adapter.GestureActive())
	assert.Zero(t, f.sched.Pending())
}

func TestUndoAfterDragRestoresWidget(t *testing.T) {
	f := newFixture(t)
	a := f.node(100, 100)

	f.graph.BeginMove([]string{a})
	f.graph.DragBy(40, 0)
	f.graph.EndMove()
	f.sched.Advance(DefaultGestureReleaseDelay)

	f.store.Undo()

	c, _ := f.graph.Cell(a)
	assert.Equal(t, 60.0, c.Geometry.X)
}

func TestLoadDiagramReplacesWidgetContent(t *testing.T) {
	f := newFixture(t)
	old := f.node(100, 100)

	d := diagram.Default(time.Now())
	d.Nodes = []diagram.Node{{ID: "fresh", X: 0, Y: 0, Width: 40, Height: 40, Vertex: true}}
	d.Viewport = diagram.Viewport{Scale: 0.5}
	f.store.LoadDiagram(d)

	_, ok := f.graph.Cell(old)
	assert.False(t, ok)
	_, ok = f.graph.Cell("fresh")
	assert.True(t, ok)
	assert.Equal(t, 0.5, f.graph.View().Scale)
}

func TestDetachStopsSync(t *testing.T) {
	f := newFixture(t)
	f.adapter.Detach()

	a := f.node(100, 100)
	_, ok := f.graph.Cell(a)
	assert.False(t, ok)

	f.graph.PanBy(3, 0)
	assert.Equal(t, 0.0, f.store.Viewport().TranslateX)
}

func TestManualScheduler(t *testing.T) {
	var m ManualScheduler
	var order []string
	m.AfterFunc(20*time.Millisecond, func() { order = append(order, "late") })
	m.AfterFunc(10*time.Millisecond, func() { order = append(order, "early") })
	cancel := m.AfterFunc(5*time.Millisecond, func() { order = append(order, "cancelled") })
	cancel()

	m.Advance(15 * time.Millisecond)
	assert.Equal(t, []string{"early"}, order)
	m.Advance(time.Hour)
	assert.Equal(t, []string{"early", "late"}, order)
	assert.Zero(t, m.Pending())
}
