package diagram

import "maps"

// StyleSchemaVersion is bumped whenever a recognized style key is added or
// changes meaning. Keys not in the schema survive in Extra.
const StyleSchemaVersion = 1

type Shape string

const (
	ShapeRectangle Shape = "rectangle"
	ShapeEllipse   Shape = "ellipse"
	ShapeRhombus   Shape = "rhombus"
	ShapeLabel     Shape = "label"
)

func (s Shape) Valid() bool {
	switch s {
	case ShapeRectangle, ShapeEllipse, ShapeRhombus, ShapeLabel:
		return true
	}
	return false
}

type Arrow string

const (
	ArrowBlock Arrow = "block"
	ArrowNone  Arrow = "none"
)

type NodeStyle struct {
	Shape       Shape             `json:"shape,omitempty" yaml:"shape,omitempty"`
	FillColor   string            `json:"fillColor,omitempty" yaml:"fillColor,omitempty"`
	StrokeColor string            `json:"strokeColor,omitempty" yaml:"strokeColor,omitempty"`
	FontColor   string            `json:"fontColor,omitempty" yaml:"fontColor,omitempty"`
	FontSize    float64           `json:"fontSize,omitempty" yaml:"fontSize,omitempty"`
	FontFamily  string            `json:"fontFamily,omitempty" yaml:"fontFamily,omitempty"`
	FontWeight  string            `json:"fontWeight,omitempty" yaml:"fontWeight,omitempty"`
	Opacity     *float64          `json:"opacity,omitempty" yaml:"opacity,omitempty"`
	Rotation    float64           `json:"rotation,omitempty" yaml:"rotation,omitempty"`
	Extra       map[string]string `json:"extra,omitempty" yaml:"extra,omitempty"`
}

func (s NodeStyle) Clone() NodeStyle {
	out := s
	if s.Opacity != nil {
		out.Opacity = Ptr(*s.Opacity)
	}
	out.Extra = maps.Clone(s.Extra)
	return out
}

// Equal compares opacity by value and treats a nil Extra like an empty one.
func (s NodeStyle) Equal(o NodeStyle) bool {
	if (s.Opacity == nil) != (o.Opacity == nil) || s.Opacity != nil && *s.Opacity != *o.Opacity {
		return false
	}
	return s.Shape == o.Shape && s.FillColor == o.FillColor && s.StrokeColor == o.StrokeColor &&
		s.FontColor == o.FontColor && s.FontSize == o.FontSize && s.FontFamily == o.FontFamily &&
		s.FontWeight == o.FontWeight && s.Rotation == o.Rotation && maps.Equal(s.Extra, o.Extra)
}

// ShapeOrDefault returns the shape, treating an empty or unknown value as a rectangle.
func (s NodeStyle) ShapeOrDefault() Shape {
	if s.Shape.Valid() {
		return s.Shape
	}
	return ShapeRectangle
}

// Bold reports whether the font weight asks for bold text.
func (s NodeStyle) Bold() bool {
	return s.FontWeight == "bold"
}

// OpacityOrDefault returns the opacity in [0,1]; unset means fully opaque.
func (s NodeStyle) OpacityOrDefault() float64 {
	if s.Opacity == nil {
		return 1
	}
	return clamp01(*s.Opacity)
}

func (s *NodeStyle) normalize() {
	if s.Opacity != nil {
		s.Opacity = Ptr(clamp01(*s.Opacity))
	}
}

type EdgeStyle struct {
	LineColor string            `json:"lineColor,omitempty" yaml:"lineColor,omitempty"`
	EndArrow  Arrow             `json:"endArrow,omitempty" yaml:"endArrow,omitempty"`
	Dashed    bool              `json:"dashed,omitempty" yaml:"dashed,omitempty"`
	Extra     map[string]string `json:"extra,omitempty" yaml:"extra,omitempty"`
}

func (s EdgeStyle) Clone() EdgeStyle {
	out := s
	out.Extra = maps.Clone(s.Extra)
	return out
}

func (s EdgeStyle) Equal(o EdgeStyle) bool {
	return s.LineColor == o.LineColor && s.EndArrow == o.EndArrow && s.Dashed == o.Dashed &&
		maps.Equal(s.Extra, o.Extra)
}

// HasEndArrow reports whether the edge is drawn with an arrowhead at its target.
func (s EdgeStyle) HasEndArrow() bool {
	return s.EndArrow != ArrowNone
}

func clamp01(v float64) float64 {
	if v != v {
		return 1
	}
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
