package syncer

import (
	"math"

	"flowdraw/internal/diagram"
	"flowdraw/internal/scene"
)

// TopLeft converts a center-anchored node into the widget's geometry.
func TopLeft(n diagram.Node) scene.Rect {
	return scene.Rect{
		X:      n.X - n.Width/2,
		Y:      n.Y - n.Height/2,
		Width:  n.Width,
		Height: n.Height,
	}
}

// CenterPatch converts widget geometry back into a node position. With
// withSize the size is patched as well.
func CenterPatch(r scene.Rect, withSize bool) diagram.NodePatch {
	c := r.Center()
	p := diagram.NodePatch{X: diagram.Ptr(c.X), Y: diagram.Ptr(c.Y)}
	if withSize {
		p.Width = diagram.Ptr(r.Width)
		p.Height = diagram.Ptr(r.Height)
	}
	return p
}

func VertexStyle(s diagram.NodeStyle) scene.Style {
	shape := s.ShapeOrDefault()
	out := scene.Style{
		Shape:       scene.Shape(shape),
		FillColor:   s.FillColor,
		StrokeColor: s.StrokeColor,
		FontColor:   s.FontColor,
		FontSize:    s.FontSize,
		FontFamily:  s.FontFamily,
		Bold:        s.Bold(),
		Opacity:     int(math.Round(s.OpacityOrDefault() * 100)),
		Rotation:    s.Rotation,
		Rounded:     true,
	}
	if shape == diagram.ShapeLabel {
		out.FillColor = scene.None
		out.StrokeColor = scene.None
		out.Rounded = false
	}
	return out
}

func EdgeStyle(s diagram.EdgeStyle) scene.Style {
	return scene.Style{
		StrokeColor: s.LineColor,
		Dashed:      s.Dashed,
		EndArrow:    s.HasEndArrow(),
		Rounded:     true,
	}
}
