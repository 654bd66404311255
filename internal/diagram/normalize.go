package diagram

// Report lists what Normalize had to repair.
type Report struct {
	DuplicateIDs   []string
	DanglingEdges  []string
	StaleSelection []string
	ResizedNodes   []string
	ScaleClamped   bool
	ThemeReset     bool
}

func (r Report) Clean() bool {
	return len(r.DuplicateIDs) == 0 && len(r.DanglingEdges) == 0 && len(r.StaleSelection) == 0 &&
		len(r.ResizedNodes) == 0 && !r.ScaleClamped && !r.ThemeReset
}

// Normalize repairs a diagram that came from outside the store so that every
// invariant holds: ids are unique across cells, edges reference extant nodes,
// the selection only names extant cells, sizes are positive and the scale is
// in range. Missing collections are replaced with empty ones.
func (d *Diagram) Normalize() Report {
	var r Report

	seen := make(map[string]bool, len(d.Nodes)+len(d.Edges))
	nodes := make([]Node, 0, len(d.Nodes))
	for _, n := range d.Nodes {
		if n.ID == "" || seen[n.ID] {
			r.DuplicateIDs = append(r.DuplicateIDs, n.ID)
			continue
		}
		seen[n.ID] = true
		n.Vertex = true
		if n.Width <= 0 || n.Height <= 0 {
			if n.Width <= 0 {
				n.Width = DefaultNodeWidth
			}
			if n.Height <= 0 {
				n.Height = DefaultNodeHeight
			}
			r.ResizedNodes = append(r.ResizedNodes, n.ID)
		}
		n.Style.normalize()
		nodes = append(nodes, n)
	}
	nodeIDs := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		nodeIDs[n.ID] = true
	}

	edges := make([]Edge, 0, len(d.Edges))
	for _, e := range d.Edges {
		if e.ID == "" || seen[e.ID] {
			r.DuplicateIDs = append(r.DuplicateIDs, e.ID)
			continue
		}
		if !nodeIDs[e.Source] || !nodeIDs[e.Target] {
			r.DanglingEdges = append(r.DanglingEdges, e.ID)
			continue
		}
		seen[e.ID] = true
		e.Edge = true
		edges = append(edges, e)
	}
	d.Nodes, d.Edges = nodes, edges

	cells := make([]string, 0, len(d.Selection.Cells))
	for _, id := range d.Selection.Cells {
		if seen[id] {
			cells = append(cells, id)
		} else {
			r.StaleSelection = append(r.StaleSelection, id)
		}
	}
	d.Selection.Cells = cells

	if s := ClampScale(d.Viewport.Scale); s != d.Viewport.Scale || d.Viewport.Scale == 0 {
		if d.Viewport.Scale == 0 {
			s = 1
		}
		d.Viewport.Scale = s
		r.ScaleClamped = true
	}

	if d.Settings.GridSize <= 0 {
		d.Settings.GridSize = 20
	}
	if d.Themes == nil {
		d.Themes = BuiltinThemes()
	}
	if _, ok := d.Themes[d.Settings.Theme]; !ok {
		if _, ok := d.Themes[DefaultThemeName]; !ok {
			d.Themes[DefaultThemeName] = BuiltinThemes()[DefaultThemeName]
		}
		d.Settings.Theme = DefaultThemeName
		r.ThemeReset = true
	}
	if d.Metadata.Version == "" {
		d.Metadata.Version = FormatVersion
	}
	if d.Metadata.StyleSchema == 0 {
		d.Metadata.StyleSchema = StyleSchemaVersion
	}
	return r
}
