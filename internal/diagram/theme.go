package diagram

const DefaultThemeName = "default"

type StateColors struct {
	Selected string `json:"selected" yaml:"selected"`
	Default  string `json:"default" yaml:"default"`
	Hover    string `json:"hover" yaml:"hover"`
}

type ThemeColors struct {
	Background string      `json:"background" yaml:"background"`
	Grid       string      `json:"grid" yaml:"grid"`
	Node       StateColors `json:"node" yaml:"node"`
	Edge       StateColors `json:"edge" yaml:"edge"`
}

type ThemeStyles struct {
	Node NodeStyle `json:"node" yaml:"node"`
	Edge EdgeStyle `json:"edge" yaml:"edge"`
}

// Theme is a named bundle of colors and default styles.
type Theme struct {
	Name   string      `json:"name" yaml:"name"`
	Colors ThemeColors `json:"colors" yaml:"colors"`
	Styles ThemeStyles `json:"styles" yaml:"styles"`
}

func (t Theme) Clone() Theme {
	out := t
	out.Styles.Node = t.Styles.Node.Clone()
	out.Styles.Edge = t.Styles.Edge.Clone()
	return out
}

// BuiltinThemes returns fresh copies of the themes every new diagram starts with.
func BuiltinThemes() map[string]Theme {
	return map[string]Theme{
		"default": {
			Name: "default",
			Colors: ThemeColors{
				Background: "#ffffff",
				Grid:       "#e5e7eb",
				Node:       StateColors{Selected: "#2563eb", Default: "#1f2937", Hover: "#60a5fa"},
				Edge:       StateColors{Selected: "#2563eb", Default: "#4b5563", Hover: "#60a5fa"},
			},
			Styles: ThemeStyles{
				Node: NodeStyle{Shape: ShapeRectangle, FillColor: "#ffffff", StrokeColor: "#1f2937"},
				Edge: EdgeStyle{EndArrow: ArrowBlock},
			},
		},
		"dark": {
			Name: "dark",
			Colors: ThemeColors{
				Background: "#111827",
				Grid:       "#374151",
				Node:       StateColors{Selected: "#f59e0b", Default: "#e5e7eb", Hover: "#fbbf24"},
				Edge:       StateColors{Selected: "#f59e0b", Default: "#9ca3af", Hover: "#fbbf24"},
			},
			Styles: ThemeStyles{
				Node: NodeStyle{Shape: ShapeRectangle, FillColor: "#1f2937", StrokeColor: "#e5e7eb", FontColor: "#f9fafb"},
				Edge: EdgeStyle{EndArrow: ArrowBlock, LineColor: "#9ca3af"},
			},
		},
		"minimal": {
			Name: "minimal",
			Colors: ThemeColors{
				Background: "#fafafa",
				Grid:       "#f0f0f0",
				Node:       StateColors{Selected: "#000000", Default: "#6b7280", Hover: "#374151"},
				Edge:       StateColors{Selected: "#000000", Default: "#9ca3af", Hover: "#374151"},
			},
			Styles: ThemeStyles{
				Node: NodeStyle{Shape: ShapeRectangle, StrokeColor: "#6b7280"},
				Edge: EdgeStyle{EndArrow: ArrowNone},
			},
		},
		"colorful": {
			Name: "colorful",
			Colors: ThemeColors{
				Background: "#fff7ed",
				Grid:       "#fed7aa",
				Node:       StateColors{Selected: "#db2777", Default: "#7c3aed", Hover: "#a78bfa"},
				Edge:       StateColors{Selected: "#db2777", Default: "#059669", Hover: "#34d399"},
			},
			Styles: ThemeStyles{
				Node: NodeStyle{Shape: ShapeRectangle, FillColor: "#ede9fe", StrokeColor: "#7c3aed"},
				Edge: EdgeStyle{EndArrow: ArrowBlock, LineColor: "#059669"},
			},
		},
	}
}
