package scene

import "math"

// A terminal character cell covers CellWidth×CellHeight screen units.
const (
	CellWidth  = 8
	CellHeight = 16
)

type Point struct {
	X, Y float64
}

// Rect is a top-left anchored rectangle in world units.
type Rect struct {
	X, Y, Width, Height float64
}

func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.X+r.Width && p.Y >= r.Y && p.Y < r.Y+r.Height
}

func (r Rect) Center() Point {
	return Point{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

func (r Rect) Translate(dx, dy float64) Rect {
	r.X += dx
	r.Y += dy
	return r
}

const epsilon = 1e-6

// Equal compares two rectangles with a small tolerance so that a center to
// top-left round trip does not count as a change.
func (r Rect) Equal(o Rect) bool {
	return near(r.X, o.X) && near(r.Y, o.Y) && near(r.Width, o.Width) && near(r.Height, o.Height)
}

func near(a, b float64) bool {
	return math.Abs(a-b) < epsilon
}

// View maps world coordinates to screen units: screen = world*Scale + Translate.
type View struct {
	Scale      float64
	TranslateX float64
	TranslateY float64
}

func (v View) scale() float64 {
	if v.Scale <= 0 {
		return 1
	}
	return v.Scale
}

func (v View) ToScreen(p Point) Point {
	s := v.scale()
	return Point{X: p.X*s + v.TranslateX, Y: p.Y*s + v.TranslateY}
}

func (v View) ToWorld(p Point) Point {
	s := v.scale()
	return Point{X: (p.X - v.TranslateX) / s, Y: (p.Y - v.TranslateY) / s}
}

// CellToWorld returns the world point under the middle of terminal cell (col, row).
func (v View) CellToWorld(col, row int) Point {
	return v.ToWorld(Point{
		X: (float64(col) + 0.5) * CellWidth,
		Y: (float64(row) + 0.5) * CellHeight,
	})
}

// maxCell bounds cell coordinates so far-away geometry cannot overflow
// the integer arithmetic of the renderer.
const maxCell = 1 << 30

// WorldToCell returns the terminal cell containing world point p.
func (v View) WorldToCell(p Point) (col, row int) {
	s := v.ToScreen(p)
	return clampCell(s.X / CellWidth), clampCell(s.Y / CellHeight)
}

func clampCell(v float64) int {
	switch {
	case math.IsNaN(v):
		return 0
	case v > maxCell:
		return maxCell
	case v < -maxCell:
		return -maxCell
	}
	return int(math.Floor(v))
}
