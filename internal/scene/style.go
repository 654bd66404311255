package scene

type Shape string

const (
	ShapeRectangle Shape = "rectangle"
	ShapeEllipse   Shape = "ellipse"
	ShapeRhombus   Shape = "rhombus"
	ShapeLabel     Shape = "label"
)

// None disables a fill or stroke color.
const None = "none"

// Style is the widget's own view of how a cell is painted. It is a flat,
// comparable value so that callers can skip redundant updates with ==.
type Style struct {
	Shape       Shape
	FillColor   string
	StrokeColor string
	FontColor   string
	FontSize    float64
	FontFamily  string
	Bold        bool
	// Opacity in percent; 0 is treated as fully opaque.
	Opacity  int
	Rotation float64
	Rounded  bool

	Dashed   bool
	EndArrow bool
}

func (s Style) shape() Shape {
	switch s.Shape {
	case ShapeEllipse, ShapeRhombus, ShapeLabel:
		return s.Shape
	}
	return ShapeRectangle
}

// Stroked reports whether the cell has a visible border.
func (s Style) Stroked() bool {
	return s.StrokeColor != None && s.shape() != ShapeLabel
}
