package diagram

import "slices"

func (n Node) Clone() Node {
	out := n
	out.Style = n.Style.Clone()
	return out
}

func (e Edge) Clone() Edge {
	out := e
	out.Style = e.Style.Clone()
	return out
}

func CloneNodes(nodes []Node) []Node {
	out := make([]Node, len(nodes))
	for i, n := range nodes {
		out[i] = n.Clone()
	}
	return out
}

func CloneEdges(edges []Edge) []Edge {
	out := make([]Edge, len(edges))
	for i, e := range edges {
		out[i] = e.Clone()
	}
	return out
}

func cloneIDs(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return slices.Clone(ids)
}

// Snapshot is the versioned part of a diagram: structure and selection.
// Viewport, settings and metadata are not versioned.
type Snapshot struct {
	Nodes     []Node
	Edges     []Edge
	Selection []string
}

// Clone returns a copy sharing no storage with s.
func (s Snapshot) Clone() Snapshot {
	return Snapshot{
		Nodes:     CloneNodes(s.Nodes),
		Edges:     CloneEdges(s.Edges),
		Selection: cloneIDs(s.Selection),
	}
}

// Snapshot captures the diagram's versioned content.
func (d *Diagram) Snapshot() Snapshot {
	return Snapshot{
		Nodes:     CloneNodes(d.Nodes),
		Edges:     CloneEdges(d.Edges),
		Selection: cloneIDs(d.Selection.Cells),
	}
}

// Restore replaces nodes, edges and selection with copies from s.
func (d *Diagram) Restore(s Snapshot) {
	d.Nodes = CloneNodes(s.Nodes)
	d.Edges = CloneEdges(s.Edges)
	d.Selection.Cells = cloneIDs(s.Selection)
}

func (d *Diagram) Clone() *Diagram {
	if d == nil {
		return nil
	}
	out := *d
	out.Nodes = CloneNodes(d.Nodes)
	out.Edges = CloneEdges(d.Edges)
	out.Selection.Cells = cloneIDs(d.Selection.Cells)
	out.Themes = make(map[string]Theme, len(d.Themes))
	for name, t := range d.Themes {
		out.Themes[name] = t.Clone()
	}
	return &out
}
