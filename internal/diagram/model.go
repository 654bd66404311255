package diagram

import (
	"math"
	"time"
)

const (
	MinScale = 0.1
	MaxScale = 5.0

	DefaultMaxHistory = 50
	FormatVersion     = "1.0.0"
)

// Node is a vertex. X and Y are the center of the shape, not its top-left corner.
type Node struct {
	ID     string    `json:"id" yaml:"id"`
	X      float64   `json:"x" yaml:"x"`
	Y      float64   `json:"y" yaml:"y"`
	Width  float64   `json:"width" yaml:"width"`
	Height float64   `json:"height" yaml:"height"`
	Value  string    `json:"value" yaml:"value"`
	Style  NodeStyle `json:"style" yaml:"style"`
	Vertex bool      `json:"vertex" yaml:"vertex"`
}

// Bounds returns the top-left corner and the bottom-right corner of the node.
func (n Node) Bounds() (minX, minY, maxX, maxY float64) {
	return n.X - n.Width/2, n.Y - n.Height/2, n.X + n.Width/2, n.Y + n.Height/2
}

type Edge struct {
	ID     string    `json:"id" yaml:"id"`
	Source string    `json:"source" yaml:"source"`
	Target string    `json:"target" yaml:"target"`
	Style  EdgeStyle `json:"style" yaml:"style"`
	Edge   bool      `json:"edge" yaml:"edge"`
}

type Viewport struct {
	Scale      float64 `json:"scale" yaml:"scale"`
	TranslateX float64 `json:"translateX" yaml:"translateX"`
	TranslateY float64 `json:"translateY" yaml:"translateY"`
}

type Selection struct {
	Cells []string `json:"cells" yaml:"cells"`
}

type Settings struct {
	ShowGrid         bool   `json:"showGrid" yaml:"showGrid"`
	ShowMinimap      bool   `json:"showMinimap" yaml:"showMinimap"`
	ShowProperties   bool   `json:"showProperties" yaml:"showProperties"`
	SnapToGrid       bool   `json:"snapToGrid" yaml:"snapToGrid"`
	GridSize         int    `json:"gridSize" yaml:"gridSize"`
	Theme            string `json:"theme" yaml:"theme"`
	AutoSave         bool   `json:"autoSave" yaml:"autoSave"`
	AutoSaveInterval int    `json:"autoSaveInterval" yaml:"autoSaveInterval"` // milliseconds
}

type Metadata struct {
	Name        string    `json:"name" yaml:"name"`
	Created     time.Time `json:"created" yaml:"created"`
	Modified    time.Time `json:"modified" yaml:"modified"`
	Version     string    `json:"version" yaml:"version"`
	StyleSchema int       `json:"styleSchema,omitempty" yaml:"styleSchema,omitempty"`
}

// Diagram is the aggregate root. History is deliberately not part of it.
type Diagram struct {
	Nodes     []Node           `json:"nodes" yaml:"nodes"`
	Edges     []Edge           `json:"edges" yaml:"edges"`
	Viewport  Viewport         `json:"viewport" yaml:"viewport"`
	Selection Selection        `json:"selection" yaml:"selection"`
	Settings  Settings         `json:"settings" yaml:"settings"`
	Themes    map[string]Theme `json:"themes" yaml:"themes"`
	Metadata  Metadata         `json:"metadata" yaml:"metadata"`
}

// Default returns an empty diagram stamped with now.
func Default(now time.Time) *Diagram {
	return &Diagram{
		Nodes:     []Node{},
		Edges:     []Edge{},
		Viewport:  Viewport{Scale: 1},
		Selection: Selection{Cells: []string{}},
		Settings: Settings{
			ShowGrid:         true,
			ShowMinimap:      true,
			ShowProperties:   true,
			SnapToGrid:       false,
			GridSize:         20,
			Theme:            DefaultThemeName,
			AutoSave:         true,
			AutoSaveInterval: 30000,
		},
		Themes: BuiltinThemes(),
		Metadata: Metadata{
			Name:        "Untitled Diagram",
			Created:     now,
			Modified:    now,
			Version:     FormatVersion,
			StyleSchema: StyleSchemaVersion,
		},
	}
}

func (d *Diagram) NodeIndex(id string) int {
	for i := range d.Nodes {
		if d.Nodes[i].ID == id {
			return i
		}
	}
	return -1
}

func (d *Diagram) EdgeIndex(id string) int {
	for i := range d.Edges {
		if d.Edges[i].ID == id {
			return i
		}
	}
	return -1
}

func (d *Diagram) HasNode(id string) bool {
	return d.NodeIndex(id) != -1
}

// HasCell reports whether id names a node or an edge.
func (d *Diagram) HasCell(id string) bool {
	return d.NodeIndex(id) != -1 || d.EdgeIndex(id) != -1
}

// LiveSelection returns the selected ids that still exist, in selection order.
func (d *Diagram) LiveSelection() []string {
	ids := make([]string, 0, len(d.Selection.Cells))
	for _, id := range d.Selection.Cells {
		if d.HasCell(id) {
			ids = append(ids, id)
		}
	}
	return ids
}

// ClampScale keeps a zoom factor inside [MinScale, MaxScale]. NaN maps to 1.
func ClampScale(scale float64) float64 {
	if math.IsNaN(scale) {
		return 1
	}
	return math.Max(MinScale, math.Min(MaxScale, scale))
}

func Ptr[T any](v T) *T {
	return &v
}

// Cell is either a node or an edge; exactly one of the pointers is set.
type Cell struct {
	Node *Node
	Edge *Edge
}

func (c Cell) ID() string {
	switch {
	case c.Node != nil:
		return c.Node.ID
	case c.Edge != nil:
		return c.Edge.ID
	}
	return ""
}

func (c Cell) IsVertex() bool { return c.Node != nil }
func (c Cell) IsEdge() bool   { return c.Edge != nil }
