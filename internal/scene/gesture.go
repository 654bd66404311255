package scene

import (
	"fmt"
	"slices"
)

type moveGesture struct {
	ids    []string
	origin map[string]Rect
	dx, dy float64
}

type resizeGesture struct {
	id     string
	origin Rect
}

// Moving reports whether a move gesture is in progress.
func (g *Graph) Moving() bool {
	return g.move != nil
}

// Resizing reports whether a resize gesture is in progress.
func (g *Graph) Resizing() bool {
	return g.resize != nil
}

// BeginMove starts dragging the given vertices, or the selected vertices when
// ids is empty, and raises MoveStart.
func (g *Graph) BeginMove(ids []string) bool {
	if g.move != nil || g.resize != nil {
		return false
	}
	if len(ids) == 0 {
		ids = g.selection
	}
	m := &moveGesture{origin: make(map[string]Rect)}
	for _, id := range ids {
		if c, ok := g.cells[id]; ok && c.Vertex && !slices.Contains(m.ids, id) {
			m.ids = append(m.ids, id)
			m.origin[id] = c.Geometry
		}
	}
	if len(m.ids) == 0 {
		return false
	}
	g.move = m
	g.fire(Event{Kind: EventMoveStart, Cells: slices.Clone(m.ids)})
	return true
}

// DragBy moves the dragged vertices as a live preview. No event is raised
// until the drag ends.
func (g *Graph) DragBy(dx, dy float64) {
	if g.move == nil {
		return
	}
	g.move.dx += dx
	g.move.dy += dy
	for _, id := range g.move.ids {
		if c, ok := g.cells[id]; ok {
			c.Geometry = g.move.origin[id].Translate(g.move.dx, g.move.dy)
		}
	}
}

// EndMove drops the dragged vertices, snapping them to the grid when it is
// enabled, and raises CellsMoved (if anything moved) followed by MoveEnd.
func (g *Graph) EndMove() {
	m := g.move
	if m == nil {
		return
	}
	g.move = nil

	var moved []string
	for _, id := range m.ids {
		c, ok := g.cells[id]
		if !ok {
			continue
		}
		o := m.origin[id]
		geo := o.Translate(m.dx, m.dy)
		geo.X, geo.Y = g.snap(geo.X), g.snap(geo.Y)
		c.Geometry = geo
		if !near(geo.X, o.X) || !near(geo.Y, o.Y) {
			moved = append(moved, id)
		}
	}
	if len(moved) > 0 {
		g.fire(Event{Kind: EventCellsMoved, Cells: moved, DX: m.dx, DY: m.dy})
	}
	g.fire(Event{Kind: EventMoveEnd, Cells: slices.Clone(m.ids)})
}

// CancelMove puts the dragged vertices back and raises MoveEnd.
func (g *Graph) CancelMove() {
	m := g.move
	if m == nil {
		return
	}
	g.move = nil
	for _, id := range m.ids {
		if c, ok := g.cells[id]; ok {
			c.Geometry = m.origin[id]
		}
	}
	g.fire(Event{Kind: EventMoveEnd, Cells: slices.Clone(m.ids)})
}

// BeginResize starts resizing one vertex. The top-left corner stays fixed.
func (g *Graph) BeginResize(id string) bool {
	if g.move != nil || g.resize != nil {
		return false
	}
	c, ok := g.cells[id]
	if !ok || !c.Vertex {
		return false
	}
	g.resize = &resizeGesture{id: id, origin: c.Geometry}
	return true
}

func (g *Graph) ResizeBy(dw, dh float64) {
	if g.resize == nil {
		return
	}
	c, ok := g.cells[g.resize.id]
	if !ok {
		return
	}
	c.Geometry.Width = max(MinSize, c.Geometry.Width+dw)
	c.Geometry.Height = max(MinSize, c.Geometry.Height+dh)
}

// EndResize raises CellsResized when the size differs from where it started.
func (g *Graph) EndResize() {
	r := g.resize
	if r == nil {
		return
	}
	g.resize = nil
	c, ok := g.cells[r.id]
	if !ok {
		return
	}
	if near(c.Geometry.Width, r.origin.Width) && near(c.Geometry.Height, r.origin.Height) {
		return
	}
	g.fire(Event{Kind: EventCellsResized, Cells: []string{r.id}})
}

func (g *Graph) CancelResize() {
	r := g.resize
	if r == nil {
		return
	}
	g.resize = nil
	if c, ok := g.cells[r.id]; ok {
		c.Geometry = r.origin
	}
}

// Connect draws a provisional edge between two distinct vertices and raises
// Connect. The listener decides whether the edge stays.
func (g *Graph) Connect(source, target string, style Style) (string, bool) {
	if source == target {
		return "", false
	}
	for _, id := range []string{source, target} {
		if c, ok := g.cells[id]; !ok || !c.Vertex {
			return "", false
		}
	}
	g.provisional++
	id := fmt.Sprintf("provisional-%d", g.provisional)
	g.InsertEdge(id, source, target, style)
	g.fire(Event{Kind: EventConnect, EdgeID: id, Source: source, Target: target})
	return id, true
}

// Click selects the vertex under the world point, or clears the selection
// when the background was hit, and then raises Click. With additive the hit
// vertex is toggled instead and the background click keeps the selection.
func (g *Graph) Click(p Point, additive bool) {
	id, hit := g.VertexAt(p)
	switch {
	case hit && additive:
		g.ToggleSelection(id)
	case hit:
		g.SetSelection([]string{id})
	case !additive:
		g.ClearSelection()
	}
	g.fire(Event{Kind: EventClick, Point: p, CellID: id})
}
