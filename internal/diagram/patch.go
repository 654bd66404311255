package diagram

// Default geometry and label of a node created without explicit fields.
const (
	DefaultNodeX      = 100
	DefaultNodeY      = 100
	DefaultNodeWidth  = 120
	DefaultNodeHeight = 60
	DefaultNodeValue  = "Node"
)

// NodePatch carries optional node fields. Nil fields are left untouched.
// Style, when set, replaces the whole style.
type NodePatch struct {
	X      *float64
	Y      *float64
	Width  *float64
	Height *float64
	Value  *string
	Style  *NodeStyle
}

// NewNode builds a node from the patch over the documented defaults.
func NewNode(id string, p NodePatch) Node {
	n := Node{
		ID:     id,
		X:      DefaultNodeX,
		Y:      DefaultNodeY,
		Width:  DefaultNodeWidth,
		Height: DefaultNodeHeight,
		Value:  DefaultNodeValue,
		Vertex: true,
	}
	p.Apply(&n)
	return n
}

// Apply merges the patch into n and reports whether anything changed.
// Non-positive sizes are ignored.
func (p NodePatch) Apply(n *Node) bool {
	changed := false
	if p.X != nil && *p.X != n.X {
		n.X = *p.X
		changed = true
	}
	if p.Y != nil && *p.Y != n.Y {
		n.Y = *p.Y
		changed = true
	}
	if p.Width != nil && *p.Width > 0 && *p.Width != n.Width {
		n.Width = *p.Width
		changed = true
	}
	if p.Height != nil && *p.Height > 0 && *p.Height != n.Height {
		n.Height = *p.Height
		changed = true
	}
	if p.Value != nil && *p.Value != n.Value {
		n.Value = *p.Value
		changed = true
	}
	if p.Style != nil {
		s := p.Style.Clone()
		s.normalize()
		if !s.Equal(n.Style) {
			n.Style = s
			changed = true
		}
	}
	return changed
}

type EdgePatch struct {
	Source *string
	Target *string
	Style  *EdgeStyle
}

func (p EdgePatch) Apply(e *Edge) bool {
	changed := false
	if p.Source != nil && *p.Source != e.Source {
		e.Source = *p.Source
		changed = true
	}
	if p.Target != nil && *p.Target != e.Target {
		e.Target = *p.Target
		changed = true
	}
	if p.Style != nil && !p.Style.Equal(e.Style) {
		e.Style = p.Style.Clone()
		changed = true
	}
	return changed
}

type ViewportPatch struct {
	Scale      *float64
	TranslateX *float64
	TranslateY *float64
}

// Apply merges the patch, clamping the scale at the point of write.
func (p ViewportPatch) Apply(v *Viewport) bool {
	before := *v
	if p.Scale != nil {
		v.Scale = ClampScale(*p.Scale)
	}
	if p.TranslateX != nil {
		v.TranslateX = *p.TranslateX
	}
	if p.TranslateY != nil {
		v.TranslateY = *p.TranslateY
	}
	return before != *v
}

type SettingsPatch struct {
	ShowGrid         *bool
	ShowMinimap      *bool
	ShowProperties   *bool
	SnapToGrid       *bool
	GridSize         *int
	Theme            *string
	AutoSave         *bool
	AutoSaveInterval *int
}

// Apply merges the patch. Non-positive grid sizes and intervals are ignored.
func (p SettingsPatch) Apply(s *Settings) bool {
	before := *s
	if p.ShowGrid != nil {
		s.ShowGrid = *p.ShowGrid
	}
	if p.ShowMinimap != nil {
		s.ShowMinimap = *p.ShowMinimap
	}
	if p.ShowProperties != nil {
		s.ShowProperties = *p.ShowProperties
	}
	if p.SnapToGrid != nil {
		s.SnapToGrid = *p.SnapToGrid
	}
	if p.GridSize != nil && *p.GridSize > 0 {
		s.GridSize = *p.GridSize
	}
	if p.Theme != nil {
		s.Theme = *p.Theme
	}
	if p.AutoSave != nil {
		s.AutoSave = *p.AutoSave
	}
	if p.AutoSaveInterval != nil && *p.AutoSaveInterval > 0 {
		s.AutoSaveInterval = *p.AutoSaveInterval
	}
	return before != *s
}
