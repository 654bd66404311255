package store

import (
	"go.uber.org/zap"

	"flowdraw/internal/diagram"
)

// PasteOffset is how far each paste lands from the previous one.
const PasteOffset = 20

// clipboard lives in the store, not in the OS clipboard. It keeps the ids
// the cells had when copied so that pasted edges can be remapped.
type clipboard struct {
	nodes []diagram.Node
	edges []diagram.Edge
}

func (c clipboard) empty() bool {
	return len(c.nodes) == 0 && len(c.edges) == 0
}

// ClipboardSize reports how many nodes and edges are waiting to be pasted.
func (s *Store) ClipboardSize() (nodes, edges int) {
	return len(s.clip.nodes), len(s.clip.edges)
}

// CopyCells copies the selected nodes into the clipboard, together with the
// selected edges and every edge running between two selected nodes.
func (s *Store) CopyCells() {
	sel := s.d.LiveSelection()
	if len(sel) == 0 {
		return
	}
	ids := make(map[string]bool, len(sel))
	for _, id := range sel {
		ids[id] = true
	}
	var c clipboard
	for _, n := range s.d.Nodes {
		if ids[n.ID] {
			c.nodes = append(c.nodes, n.Clone())
		}
	}
	for _, e := range s.d.Edges {
		if ids[e.ID] || (ids[e.Source] && ids[e.Target]) {
			c.edges = append(c.edges, e.Clone())
		}
	}
	s.clip = c
	s.logger.Debug("cells copied", zap.Int("nodes", len(c.nodes)), zap.Int("edges", len(c.edges)))
	s.emit(ChangeClipboard)
}

// PasteCells inserts fresh copies of the clipboard, offset from the last
// paste, and selects them. Edges whose terminals were not both copied are
// dropped rather than pasted dangling.
func (s *Store) PasteCells() {
	if s.clip.empty() {
		return
	}
	remap := make(map[string]string, len(s.clip.nodes))
	pasted := make([]string, 0, len(s.clip.nodes)+len(s.clip.edges))

	for i := range s.clip.nodes {
		s.clip.nodes[i].X += PasteOffset
		s.clip.nodes[i].Y += PasteOffset
		n := s.clip.nodes[i].Clone()
		n.ID = s.newID()
		remap[s.clip.nodes[i].ID] = n.ID
		s.d.Nodes = append(s.d.Nodes, n)
		pasted = append(pasted, n.ID)
	}
	for _, ce := range s.clip.edges {
		src, okSrc := remap[ce.Source]
		dst, okDst := remap[ce.Target]
		if !okSrc || !okDst {
			continue
		}
		e := ce.Clone()
		e.ID = s.newID()
		e.Source, e.Target = src, dst
		s.d.Edges = append(s.d.Edges, e)
		pasted = append(pasted, e.ID)
	}
	if len(pasted) == 0 {
		return
	}

	s.d.Selection.Cells = pasted
	s.touch()
	s.commit()
	s.logger.Debug("cells pasted", zap.Int("cells", len(pasted)))
	s.emit(ChangeCells | ChangeSelection | ChangeClipboard | ChangeMetadata)
}

// CutCells copies the selection and then deletes it, cascading to edges of
// deleted nodes, as a single undoable step.
func (s *Store) CutCells() {
	if len(s.d.LiveSelection()) == 0 {
		return
	}
	s.Batch(func() {
		s.CopyCells()
		if !s.deleteCells(s.d.LiveSelection()) {
			return
		}
		s.touch()
		s.commit()
		s.emit(ChangeCells | ChangeSelection | ChangeMetadata)
	})
}
