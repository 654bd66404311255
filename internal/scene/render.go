package scene

import (
	"math"
	"strings"
)

// Mark tells the painter what a frame cell belongs to.
type Mark uint8

const (
	MarkNone Mark = iota
	MarkGrid
	MarkEdge
	MarkArrow
	MarkVertex
	MarkLabel
	MarkViewport
)

type FrameCell struct {
	Rune     rune
	Mark     Mark
	Owner    string
	Selected bool
}

// Frame is a rendered grid of terminal cells.
type Frame struct {
	Width  int
	Height int
	Cells  [][]FrameCell
}

func newFrame(width, height int) *Frame {
	width, height = max(width, 1), max(height, 1)
	f := &Frame{Width: width, Height: height, Cells: make([][]FrameCell, height)}
	for y := range f.Cells {
		row := make([]FrameCell, width)
		for x := range row {
			row[x].Rune = ' '
		}
		f.Cells[y] = row
	}
	return f
}

func (f *Frame) valid(x, y int) bool {
	return x >= 0 && y >= 0 && x < f.Width && y < f.Height
}

// At returns the cell at (col, row); outside the frame it is blank.
func (f *Frame) At(col, row int) FrameCell {
	if !f.valid(col, row) {
		return FrameCell{Rune: ' '}
	}
	return f.Cells[row][col]
}

func (f *Frame) set(x, y int, r rune, mark Mark, owner string, selected bool) {
	if f.valid(x, y) {
		f.Cells[y][x] = FrameCell{Rune: r, Mark: mark, Owner: owner, Selected: selected}
	}
}

// Lines returns the frame as plain text, one string per row.
func (f *Frame) Lines() []string {
	out := make([]string, f.Height)
	var b strings.Builder
	for y, row := range f.Cells {
		b.Reset()
		for _, c := range row {
			b.WriteRune(c.Rune)
		}
		out[y] = b.String()
	}
	return out
}

type RenderOptions struct {
	ShowGrid bool
	GridSize int
}

// box is a vertex rectangle in terminal cells.
type box struct {
	x, y, w, h int
}

func (b box) cx() int { return b.x + (b.w-1)/2 }
func (b box) cy() int { return b.y + (b.h-1)/2 }

func (g *Graph) boxOf(c *Cell) box {
	x0, y0 := g.view.WorldToCell(Point{X: c.Geometry.X, Y: c.Geometry.Y})
	x1, y1 := g.view.WorldToCell(Point{
		X: c.Geometry.X + c.Geometry.Width - epsilon,
		Y: c.Geometry.Y + c.Geometry.Height - epsilon,
	})
	return box{x: x0, y: y0, w: max(x1-x0+1, 1), h: max(y1-y0+1, 1)}
}

// Render paints the scene into a width×height frame: grid first, then edges,
// then vertices on top.
func (g *Graph) Render(width, height int, opts RenderOptions) *Frame {
	f := newFrame(width, height)
	if opts.ShowGrid {
		g.drawGrid(f, opts.GridSize)
	}

	boxes := make(map[string]box)
	for _, id := range g.order {
		if c := g.cells[id]; c.Vertex {
			boxes[id] = g.boxOf(c)
		}
	}
	for _, id := range g.order {
		c := g.cells[id]
		if !c.Edge {
			continue
		}
		from, okFrom := boxes[c.Source]
		to, okTo := boxes[c.Target]
		if !okFrom || !okTo {
			continue
		}
		drawEdge(f, c, from, to, g.IsSelected(c.ID))
	}
	for _, id := range g.order {
		c := g.cells[id]
		if c.Vertex {
			drawVertex(f, c, boxes[id], g.IsSelected(c.ID))
		}
	}
	return f
}

func (g *Graph) drawGrid(f *Frame, size int) {
	if size <= 0 {
		size = g.gridSize
	}
	step := float64(size)
	scale := g.view.scale()
	// Dots closer than a cell apart would fill the screen.
	if step*scale < CellWidth {
		return
	}
	topLeft := g.view.ToWorld(Point{})
	bottomRight := g.view.ToWorld(Point{X: float64(f.Width * CellWidth), Y: float64(f.Height * CellHeight)})
	for wy := math.Ceil(topLeft.Y/step) * step; wy < bottomRight.Y; wy += step {
		for wx := math.Ceil(topLeft.X/step) * step; wx < bottomRight.X; wx += step {
			x, y := g.view.WorldToCell(Point{X: wx, Y: wy})
			f.set(x, y, '·', MarkGrid, "", false)
		}
	}
}

type cellPoint struct {
	x, y int
}

// anchors picks the sides an edge leaves and enters by, based on which axis
// separates the two centers more, and returns the cells just outside them.
func anchors(from, to box) (start, end cellPoint, horizontal bool) {
	dx := to.cx() - from.cx()
	dy := to.cy() - from.cy()
	if abs(dx) > abs(dy) {
		if dx > 0 {
			return cellPoint{from.x + from.w, from.cy()}, cellPoint{to.x - 1, to.cy()}, true
		}
		return cellPoint{from.x - 1, from.cy()}, cellPoint{to.x + to.w, to.cy()}, true
	}
	if dy > 0 {
		return cellPoint{from.cx(), from.y + from.h}, cellPoint{to.cx(), to.y - 1}, false
	}
	return cellPoint{from.cx(), from.y - 1}, cellPoint{to.cx(), to.y + to.h}, false
}

// route returns the corner points of an orthogonal path from start to end.
func route(start, end cellPoint, horizontal bool) []cellPoint {
	if start.x == end.x || start.y == end.y {
		return []cellPoint{start, end}
	}
	if horizontal {
		mid := (start.x + end.x) / 2
		return []cellPoint{start, {mid, start.y}, {mid, end.y}, end}
	}
	mid := (start.y + end.y) / 2
	return []cellPoint{start, {start.x, mid}, {end.x, mid}, end}
}

func drawEdge(f *Frame, c *Cell, from, to box, selected bool) {
	start, end, horizontal := anchors(from, to)
	points := route(start, end, horizontal)

	hch, vch := '─', '│'
	if c.Style.Dashed {
		hch, vch = '┄', '┆'
	}
	put := func(x, y int, r rune) {
		f.set(x, y, r, MarkEdge, c.ID, selected)
	}

	for i := 0; i < len(points)-1; i++ {
		a, b := points[i], points[i+1]
		if a.y == b.y {
			if a.y < 0 || a.y >= f.Height {
				continue
			}
			x0, x1 := f.clipX(min(a.x, b.x), max(a.x, b.x)+1)
			for x := x0; x < x1; x++ {
				put(x, a.y, hch)
			}
		} else {
			if a.x < 0 || a.x >= f.Width {
				continue
			}
			y0, y1 := f.clipY(min(a.y, b.y), max(a.y, b.y)+1)
			for y := y0; y < y1; y++ {
				put(a.x, y, vch)
			}
		}
	}
	for i := 1; i < len(points)-1; i++ {
		put(points[i].x, points[i].y, corner(points[i-1], points[i], points[i+1]))
	}

	if c.Style.EndArrow {
		f.set(end.x, end.y, arrowHead(end, to, horizontal), MarkArrow, c.ID, selected)
	}
}

// clipX and clipY intersect the half-open span [lo, hi) with the frame, so
// drawing cost follows the frame size and not the geometry.
func (f *Frame) clipX(lo, hi int) (int, int) {
	return max(lo, 0), min(hi, f.Width)
}

func (f *Frame) clipY(lo, hi int) (int, int) {
	return max(lo, 0), min(hi, f.Height)
}

func corner(prev, at, next cellPoint) rune {
	if prev.y == at.y {
		// horizontal then vertical
		switch {
		case prev.x < at.x && next.y > at.y:
			return '┐'
		case prev.x < at.x:
			return '┘'
		case next.y > at.y:
			return '┌'
		default:
			return '└'
		}
	}
	switch {
	case prev.y < at.y && next.x > at.x:
		return '└'
	case prev.y < at.y:
		return '┘'
	case next.x > at.x:
		return '┌'
	default:
		return '┐'
	}
}

// arrowHead points from the end cell into the target box.
func arrowHead(end cellPoint, to box, horizontal bool) rune {
	switch {
	case horizontal && end.x < to.x:
		return '▶'
	case horizontal:
		return '◀'
	case end.y < to.y:
		return '▼'
	default:
		return '▲'
	}
}

func drawVertex(f *Frame, c *Cell, b box, selected bool) {
	x0, x1 := f.clipX(b.x, b.x+b.w)
	y0, y1 := f.clipY(b.y, b.y+b.h)
	if x0 >= x1 || y0 >= y1 {
		return
	}
	shape := c.Style.shape()
	if shape != ShapeLabel {
		for y := y0; y < y1; y++ {
			for x := x0; x < x1; x++ {
				f.set(x, y, ' ', MarkVertex, c.ID, selected)
			}
		}
	}
	if c.Style.Stroked() {
		switch shape {
		case ShapeEllipse:
			drawEllipse(f, c.ID, b, selected)
		case ShapeRhombus:
			drawRhombus(f, c.ID, b, selected)
		default:
			drawRectangle(f, c.ID, b, selected)
		}
	}
	drawLabel(f, c, b, selected)
}

// drawOutline draws the four sides of b, visiting only the cells of each
// side that fall inside the frame. Corners are drawn last.
func drawOutline(f *Frame, id string, b box, selected bool, top, bottom, left, right rune, corners [4]rune) {
	right0, bottom0 := b.x+b.w-1, b.y+b.h-1
	x0, x1 := f.clipX(b.x+1, right0)
	for x := x0; x < x1; x++ {
		f.set(x, b.y, top, MarkVertex, id, selected)
		f.set(x, bottom0, bottom, MarkVertex, id, selected)
	}
	y0, y1 := f.clipY(b.y+1, bottom0)
	for y := y0; y < y1; y++ {
		f.set(right0, y, right, MarkVertex, id, selected)
		f.set(b.x, y, left, MarkVertex, id, selected)
	}
	f.set(b.x, b.y, corners[0], MarkVertex, id, selected)
	f.set(right0, b.y, corners[1], MarkVertex, id, selected)
	f.set(b.x, bottom0, corners[2], MarkVertex, id, selected)
	f.set(right0, bottom0, corners[3], MarkVertex, id, selected)
}

func drawRectangle(f *Frame, id string, b box, selected bool) {
	edge, horizontal, vertical := '+', '-', '|'
	if selected {
		edge, horizontal, vertical = '#', '#', '#'
	}
	if b.h == 1 {
		x0, x1 := f.clipX(b.x, b.x+b.w)
		for x := x0; x < x1; x++ {
			f.set(x, b.y, horizontal, MarkVertex, id, selected)
		}
		f.set(b.x, b.y, edge, MarkVertex, id, selected)
		f.set(b.x+b.w-1, b.y, edge, MarkVertex, id, selected)
		return
	}
	drawOutline(f, id, b, selected, horizontal, horizontal, vertical, vertical, [4]rune{edge, edge, edge, edge})
}

func drawEllipse(f *Frame, id string, b box, selected bool) {
	horizontal := '-'
	if selected {
		horizontal = '#'
	}
	if b.h <= 2 {
		// too flat for a top and bottom: just the sides
		y0, y1 := f.clipY(b.y, b.y+b.h)
		for y := y0; y < y1; y++ {
			f.set(b.x+b.w-1, y, ')', MarkVertex, id, selected)
			f.set(b.x, y, '(', MarkVertex, id, selected)
		}
		return
	}
	drawOutline(f, id, b, selected, horizontal, horizontal, '(', ')', [4]rune{'.', '.', '\'', '\''})
}

func drawRhombus(f *Frame, id string, b box, selected bool) {
	mid := float64(b.h-1) / 2
	halfWidth := float64(b.w-1) / 2
	y0, y1 := f.clipY(b.y, b.y+b.h)
	for y := y0; y < y1; y++ {
		row := float64(y - b.y)
		frac := 1 - math.Abs(row-mid)/(mid+1)
		half := int(frac * halfWidth)
		left := b.x + (b.w-1)/2 - half
		right := b.x + b.w/2 + half

		var l, r rune
		switch {
		case row < mid:
			l, r = '/', '\\'
		case row > mid:
			l, r = '\\', '/'
		default:
			l, r = '<', '>'
		}
		if selected {
			l, r = '#', '#'
		}
		if left >= right {
			ch := '^'
			if row > mid {
				ch = 'v'
			}
			if selected {
				ch = '#'
			}
			f.set(left, y, ch, MarkVertex, id, selected)
			continue
		}
		f.set(left, y, l, MarkVertex, id, selected)
		f.set(right, y, r, MarkVertex, id, selected)
	}
}

// drawLabel centers the value inside the vertex, one line per row,
// truncating what does not fit.
func drawLabel(f *Frame, c *Cell, b box, selected bool) {
	if c.Value == "" {
		return
	}
	innerX, innerY, innerW, innerH := b.x, b.y, b.w, b.h
	if c.Style.Stroked() {
		innerX, innerW = b.x+1, b.w-2
		if b.h >= 3 {
			innerY, innerH = b.y+1, b.h-2
		}
	}
	if innerW < 1 || innerH < 1 {
		return
	}
	lines := strings.Split(c.Value, "\n")
	if len(lines) > innerH {
		lines = lines[:innerH]
	}
	top := innerY + (innerH-len(lines))/2
	for i, line := range lines {
		y := top + i
		if y < 0 || y >= f.Height {
			continue
		}
		runes := []rune(line)
		if len(runes) > innerW {
			runes = runes[:innerW]
		}
		left := innerX + (innerW-len(runes))/2
		x0, x1 := f.clipX(left, left+len(runes))
		for x := x0; x < x1; x++ {
			f.set(x, y, runes[x-left], MarkLabel, c.ID, selected)
		}
	}
}

// RenderMinimap paints every vertex scaled into a width×height frame and
// outlines the part of the world visible in a viewCols×viewRows canvas.
func (g *Graph) RenderMinimap(width, height, viewCols, viewRows int) *Frame {
	f := newFrame(width, height)
	bounds, ok := g.Bounds()
	if !ok {
		return f
	}
	topLeft := g.view.ToWorld(Point{})
	bottomRight := g.view.ToWorld(Point{X: float64(viewCols * CellWidth), Y: float64(viewRows * CellHeight)})
	x0 := min(bounds.X, topLeft.X)
	y0 := min(bounds.Y, topLeft.Y)
	x1 := max(bounds.X+bounds.Width, bottomRight.X)
	y1 := max(bounds.Y+bounds.Height, bottomRight.Y)

	sx := float64(f.Width) / max(x1-x0, 1)
	sy := float64(f.Height) / max(y1-y0, 1)
	toCell := func(p Point) (int, int) {
		x := int((p.X - x0) * sx)
		y := int((p.Y - y0) * sy)
		return min(x, f.Width-1), min(y, f.Height-1)
	}

	vx0, vy0 := toCell(topLeft)
	vx1, vy1 := toCell(bottomRight)
	for x := vx0; x <= vx1; x++ {
		f.set(x, vy0, '·', MarkViewport, "", false)
		f.set(x, vy1, '·', MarkViewport, "", false)
	}
	for y := vy0; y <= vy1; y++ {
		f.set(vx0, y, '·', MarkViewport, "", false)
		f.set(vx1, y, '·', MarkViewport, "", false)
	}

	for _, c := range g.Vertices() {
		cx0, cy0 := toCell(Point{X: c.Geometry.X, Y: c.Geometry.Y})
		cx1, cy1 := toCell(Point{X: c.Geometry.X + c.Geometry.Width, Y: c.Geometry.Y + c.Geometry.Height})
		for y := cy0; y <= cy1; y++ {
			for x := cx0; x <= cx1; x++ {
				f.set(x, y, '█', MarkVertex, c.ID, g.IsSelected(c.ID))
			}
		}
	}
	return f
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
