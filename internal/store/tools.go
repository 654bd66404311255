package store

import "flowdraw/internal/diagram"

type Tool string

const (
	ToolSelect  Tool = "select"
	ToolNode    Tool = "add-node"
	ToolOval    Tool = "add-oval"
	ToolRhombus Tool = "add-rhombus"
	ToolText    Tool = "add-text"
	ToolEdge    Tool = "add-edge"
	ToolLine    Tool = "add-line"
)

// Connects reports whether the tool draws connections instead of shapes.
func (t Tool) Connects() bool {
	return t == ToolEdge || t == ToolLine
}

// Preset describes the node a creation tool drops on the canvas.
type Preset struct {
	Value  string
	Width  float64
	Height float64
	Style  diagram.NodeStyle
}

// Patch places the preset with its center at (x, y).
func (p Preset) Patch(x, y float64) diagram.NodePatch {
	style := p.Style.Clone()
	return diagram.NodePatch{
		X:      diagram.Ptr(x),
		Y:      diagram.Ptr(y),
		Width:  diagram.Ptr(p.Width),
		Height: diagram.Ptr(p.Height),
		Value:  diagram.Ptr(p.Value),
		Style:  &style,
	}
}

func PresetFor(t Tool) (Preset, bool) {
	switch t {
	case ToolNode:
		return Preset{Value: "Rectangle", Width: 120, Height: 60, Style: diagram.NodeStyle{Shape: diagram.ShapeRectangle}}, true
	case ToolOval:
		return Preset{Value: "Circle", Width: 100, Height: 100, Style: diagram.NodeStyle{Shape: diagram.ShapeEllipse}}, true
	case ToolRhombus:
		return Preset{Value: "Diamond", Width: 100, Height: 100, Style: diagram.NodeStyle{Shape: diagram.ShapeRhombus}}, true
	case ToolText:
		return Preset{Value: "Text", Width: 120, Height: 30, Style: diagram.NodeStyle{Shape: diagram.ShapeLabel}}, true
	}
	return Preset{}, false
}

func (s *Store) SetSelectedTool(t Tool) {
	if s.tool == t {
		return
	}
	s.tool = t
	s.emit(ChangeUI)
}

func (s *Store) SelectedTool() Tool {
	return s.tool
}

func (s *Store) SetLoading(loading bool) {
	if s.loading == loading {
		return
	}
	s.loading = loading
	s.emit(ChangeUI)
}

func (s *Store) Loading() bool {
	return s.loading
}

// SetError records the last user-visible error; nil clears it.
func (s *Store) SetError(err error) {
	if err == nil && s.err == nil {
		return
	}
	s.err = err
	s.emit(ChangeUI)
}

func (s *Store) Err() error {
	return s.err
}
