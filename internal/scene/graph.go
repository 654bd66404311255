// Package scene is a small retained-mode graph widget for the terminal. It
// owns its own cells, selection and view, paints them into a character
// frame and reports user gestures through events.
//
// Programmatic changes raise the same events as user gestures. Callers that
// mirror another model into the scene must ignore the echoes themselves.
package scene

import (
	"math"
	"slices"
)

// MinSize is the smallest width or height a vertex can be resized to.
const MinSize = 10

type Cell struct {
	ID       string
	Vertex   bool
	Edge     bool
	Geometry Rect
	Value    string
	Style    Style
	Source   string
	Target   string
}

type Graph struct {
	cells map[string]*Cell
	order []string

	selection []string
	view      View
	gridOn    bool
	gridSize  int

	listeners    []listenerEntry
	nextListener int
	updateDepth  int
	deferred     []Event

	move        *moveGesture
	resize      *resizeGesture
	provisional int
}

func New() *Graph {
	return &Graph{
		cells:     make(map[string]*Cell),
		selection: []string{},
		view:      View{Scale: 1},
		gridSize:  20,
	}
}

// BeginUpdate holds back events until the matching EndUpdate. Calls nest.
func (g *Graph) BeginUpdate() {
	g.updateDepth++
}

func (g *Graph) EndUpdate() {
	if g.updateDepth == 0 {
		return
	}
	g.updateDepth--
	if g.updateDepth > 0 {
		return
	}
	events := g.deferred
	g.deferred = nil
	for _, e := range events {
		g.fire(e)
	}
}

// Cell returns a copy of the cell with that id.
func (g *Graph) Cell(id string) (Cell, bool) {
	c, ok := g.cells[id]
	if !ok {
		return Cell{}, false
	}
	return *c, true
}

// CellIDs lists every cell in paint order.
func (g *Graph) CellIDs() []string {
	return slices.Clone(g.order)
}

func (g *Graph) Vertices() []Cell {
	return g.collect(func(c *Cell) bool { return c.Vertex })
}

func (g *Graph) Edges() []Cell {
	return g.collect(func(c *Cell) bool { return c.Edge })
}

func (g *Graph) collect(keep func(*Cell) bool) []Cell {
	out := []Cell{}
	for _, id := range g.order {
		if c := g.cells[id]; keep(c) {
			out = append(out, *c)
		}
	}
	return out
}

// InsertVertex adds a vertex, replacing any cell with the same id.
func (g *Graph) InsertVertex(id string, geo Rect, value string, style Style) {
	g.insert(&Cell{ID: id, Vertex: true, Geometry: geo, Value: value, Style: style})
}

// InsertEdge adds an edge between two cells. It returns false when either
// terminal is unknown.
func (g *Graph) InsertEdge(id, source, target string, style Style) bool {
	if _, ok := g.cells[source]; !ok {
		return false
	}
	if _, ok := g.cells[target]; !ok {
		return false
	}
	g.insert(&Cell{ID: id, Edge: true, Source: source, Target: target, Style: style})
	return true
}

func (g *Graph) insert(c *Cell) {
	if _, ok := g.cells[c.ID]; !ok {
		g.order = append(g.order, c.ID)
	}
	g.cells[c.ID] = c
}

// SetGeometry moves or resizes a vertex and raises CellsMoved and/or
// CellsResized for the parts that changed.
func (g *Graph) SetGeometry(id string, geo Rect) bool {
	c, ok := g.cells[id]
	if !ok || !c.Vertex || c.Geometry.Equal(geo) {
		return false
	}
	old := c.Geometry
	c.Geometry = geo
	if !near(old.X, geo.X) || !near(old.Y, geo.Y) {
		g.fire(Event{Kind: EventCellsMoved, Cells: []string{id}, DX: geo.X - old.X, DY: geo.Y - old.Y})
	}
	if !near(old.Width, geo.Width) || !near(old.Height, geo.Height) {
		g.fire(Event{Kind: EventCellsResized, Cells: []string{id}})
	}
	return true
}

// SetValue changes a cell label and raises LabelChanged.
func (g *Graph) SetValue(id, value string) bool {
	c, ok := g.cells[id]
	if !ok || c.Value == value {
		return false
	}
	c.Value = value
	g.fire(Event{Kind: EventLabelChanged, Cells: []string{id}, Value: value})
	return true
}

func (g *Graph) SetStyle(id string, style Style) bool {
	c, ok := g.cells[id]
	if !ok || c.Style == style {
		return false
	}
	c.Style = style
	return true
}

// SetTerminals reconnects an edge. Unknown terminals are refused.
func (g *Graph) SetTerminals(id, source, target string) bool {
	c, ok := g.cells[id]
	if !ok || !c.Edge || (c.Source == source && c.Target == target) {
		return false
	}
	if _, ok := g.cells[source]; !ok {
		return false
	}
	if _, ok := g.cells[target]; !ok {
		return false
	}
	c.Source, c.Target = source, target
	return true
}

// Remove deletes the given cells. With includeEdges, edges attached to a
// removed vertex go too; otherwise they stay and are not painted until their
// terminals come back.
func (g *Graph) Remove(ids []string, includeEdges bool) {
	gone := make(map[string]bool, len(ids))
	for _, id := range ids {
		if _, ok := g.cells[id]; ok {
			gone[id] = true
		}
	}
	if includeEdges {
		for _, c := range g.cells {
			if c.Edge && (gone[c.Source] || gone[c.Target]) {
				gone[c.ID] = true
			}
		}
	}
	if len(gone) == 0 {
		return
	}
	for id := range gone {
		delete(g.cells, id)
	}
	g.order = slices.DeleteFunc(g.order, func(id string) bool { return gone[id] })

	kept := slices.DeleteFunc(slices.Clone(g.selection), func(id string) bool { return gone[id] })
	if len(kept) != len(g.selection) {
		g.selection = kept
		g.fire(Event{Kind: EventSelectionChange, Cells: slices.Clone(kept)})
	}
}

func (g *Graph) Selection() []string {
	return slices.Clone(g.selection)
}

func (g *Graph) IsSelected(id string) bool {
	return slices.Contains(g.selection, id)
}

// SetSelection selects the given cells, dropping unknown ids, and raises
// SelectionChange when the selection differs.
func (g *Graph) SetSelection(ids []string) {
	next := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := g.cells[id]; ok && !slices.Contains(next, id) {
			next = append(next, id)
		}
	}
	if slices.Equal(next, g.selection) {
		return
	}
	g.selection = next
	g.fire(Event{Kind: EventSelectionChange, Cells: slices.Clone(next)})
}

func (g *Graph) ClearSelection() {
	g.SetSelection(nil)
}

// ToggleSelection adds or removes one cell from the selection.
func (g *Graph) ToggleSelection(id string) {
	if g.IsSelected(id) {
		g.SetSelection(slices.DeleteFunc(g.Selection(), func(s string) bool { return s == id }))
		return
	}
	g.SetSelection(append(g.Selection(), id))
}

func (g *Graph) View() View {
	return g.view
}

// SetView changes scale and translation and raises ScaleAndTranslate.
func (g *Graph) SetView(v View) {
	if v.Scale <= 0 {
		v.Scale = g.view.Scale
	}
	if near(v.Scale, g.view.Scale) && near(v.TranslateX, g.view.TranslateX) && near(v.TranslateY, g.view.TranslateY) {
		return
	}
	g.view = v
	g.fire(Event{Kind: EventScaleAndTranslate, View: v})
}

// PanBy shifts the view by whole terminal cells.
func (g *Graph) PanBy(cols, rows int) {
	v := g.view
	v.TranslateX += float64(cols * CellWidth)
	v.TranslateY += float64(rows * CellHeight)
	g.SetView(v)
}

// SetGrid turns snapping on or off. A non-positive size keeps the current one.
func (g *Graph) SetGrid(enabled bool, size int) {
	g.gridOn = enabled
	if size > 0 {
		g.gridSize = size
	}
}

func (g *Graph) Grid() (enabled bool, size int) {
	return g.gridOn, g.gridSize
}

func (g *Graph) snap(v float64) float64 {
	if !g.gridOn || g.gridSize <= 0 {
		return v
	}
	size := float64(g.gridSize)
	return math.Round(v/size) * size
}

// VertexAt returns the topmost vertex containing the world point.
func (g *Graph) VertexAt(p Point) (string, bool) {
	for i := len(g.order) - 1; i >= 0; i-- {
		c := g.cells[g.order[i]]
		if c.Vertex && c.Geometry.Contains(p) {
			return c.ID, true
		}
	}
	return "", false
}

// CellAt returns the topmost vertex under terminal cell (col, row).
func (g *Graph) CellAt(col, row int) (string, bool) {
	return g.VertexAt(g.view.CellToWorld(col, row))
}

// Bounds returns the union of every vertex rectangle.
func (g *Graph) Bounds() (Rect, bool) {
	var out Rect
	found := false
	for _, id := range g.order {
		c := g.cells[id]
		if !c.Vertex {
			continue
		}
		if !found {
			out, found = c.Geometry, true
			continue
		}
		x0 := min(out.X, c.Geometry.X)
		y0 := min(out.Y, c.Geometry.Y)
		x1 := max(out.X+out.Width, c.Geometry.X+c.Geometry.Width)
		y1 := max(out.Y+out.Height, c.Geometry.Y+c.Geometry.Height)
		out = Rect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
	}
	return out, found
}
