package store

import (
	"slices"

	"flowdraw/internal/diagram"
)

// SelectCells replaces the selection verbatim. Ids that do not exist are kept
// here and filtered out on read.
func (s *Store) SelectCells(ids []string) {
	next := append([]string{}, ids...)
	if slices.Equal(next, s.d.Selection.Cells) {
		return
	}
	s.d.Selection.Cells = next
	s.emit(ChangeSelection)
}

func (s *Store) SelectNode(id string) {
	s.SelectCells([]string{id})
}

func (s *Store) ClearSelection() {
	if len(s.d.Selection.Cells) == 0 {
		return
	}
	s.d.Selection.Cells = []string{}
	s.emit(ChangeSelection)
}

func (s *Store) SelectAll() {
	ids := make([]string, 0, len(s.d.Nodes)+len(s.d.Edges))
	for _, n := range s.d.Nodes {
		ids = append(ids, n.ID)
	}
	for _, e := range s.d.Edges {
		ids = append(ids, e.ID)
	}
	s.SelectCells(ids)
}

// Selection returns the selected ids that still name a cell.
func (s *Store) Selection() []string {
	return s.d.LiveSelection()
}

// GetSelectedCells returns copies of the selected nodes. Edges are not included.
func (s *Store) GetSelectedCells() []diagram.Node {
	selected := make(map[string]bool, len(s.d.Selection.Cells))
	for _, id := range s.d.Selection.Cells {
		selected[id] = true
	}
	out := []diagram.Node{}
	for _, n := range s.d.Nodes {
		if selected[n.ID] {
			out = append(out, n.Clone())
		}
	}
	return out
}

// GetCellByID returns a copy of the node or edge with that id.
func (s *Store) GetCellByID(id string) (diagram.Cell, bool) {
	if i := s.d.NodeIndex(id); i != -1 {
		n := s.d.Nodes[i].Clone()
		return diagram.Cell{Node: &n}, true
	}
	if i := s.d.EdgeIndex(id); i != -1 {
		e := s.d.Edges[i].Clone()
		return diagram.Cell{Edge: &e}, true
	}
	return diagram.Cell{}, false
}
