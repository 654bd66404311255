package store

import (
	"errors"
	"fmt"
	"slices"

	"go.uber.org/zap"

	"flowdraw/internal/diagram"
)

var (
	ErrMissingTerminal = errors.New("edge terminal missing")
	ErrUnknownTerminal = errors.New("edge terminal does not name a node")
)

// AddNode appends a node built from p over the defaults and returns its new id.
func (s *Store) AddNode(p diagram.NodePatch) string {
	id := s.newID()
	s.d.Nodes = append(s.d.Nodes, diagram.NewNode(id, p))
	s.touch()
	s.commit()
	s.logger.Debug("node added", zap.String("op", "addNode"), zap.String("id", id))
	s.emit(ChangeCells | ChangeMetadata)
	return id
}

// UpdateNode merges p into the node. Unknown ids and empty patches are ignored.
func (s *Store) UpdateNode(id string, p diagram.NodePatch) {
	i := s.d.NodeIndex(id)
	if i == -1 {
		s.logger.Debug("update of unknown node ignored", zap.String("id", id))
		return
	}
	if !p.Apply(&s.d.Nodes[i]) {
		return
	}
	s.touch()
	s.commit()
	s.emit(ChangeCells | ChangeMetadata)
}

// DeleteNode removes the node together with every edge touching it, and
// drops all of them from the selection, in one step.
func (s *Store) DeleteNode(id string) {
	if s.d.NodeIndex(id) == -1 {
		return
	}
	removed := s.removeNodes(map[string]bool{id: true})
	s.touch()
	s.commit()
	s.logger.Debug("node deleted", zap.String("op", "deleteNode"), zap.String("id", id), zap.Int("edges", removed-1))
	s.emit(ChangeCells | ChangeSelection | ChangeMetadata)
}

// AddEdge connects two existing nodes. Nothing is stored when a terminal is
// missing or does not name a node.
func (s *Store) AddEdge(p diagram.EdgePatch) (string, error) {
	if p.Source == nil || *p.Source == "" || p.Target == nil || *p.Target == "" {
		s.logger.Warn("edge rejected", zap.Error(ErrMissingTerminal))
		return "", ErrMissingTerminal
	}
	for _, t := range []string{*p.Source, *p.Target} {
		if !s.d.HasNode(t) {
			err := fmt.Errorf("%w: %s", ErrUnknownTerminal, t)
			s.logger.Warn("edge rejected", zap.Error(err))
			return "", err
		}
	}
	id := s.newID()
	e := diagram.Edge{ID: id, Edge: true}
	p.Apply(&e)
	s.d.Edges = append(s.d.Edges, e)
	s.touch()
	s.commit()
	s.logger.Debug("edge added", zap.String("op", "addEdge"), zap.String("id", id),
		zap.String("source", e.Source), zap.String("target", e.Target))
	s.emit(ChangeCells | ChangeMetadata)
	return id, nil
}

// UpdateEdge merges p into the edge. A patch that would point a terminal at a
// missing node is ignored as a whole.
func (s *Store) UpdateEdge(id string, p diagram.EdgePatch) {
	i := s.d.EdgeIndex(id)
	if i == -1 {
		return
	}
	for _, t := range []*string{p.Source, p.Target} {
		if t != nil && !s.d.HasNode(*t) {
			s.logger.Warn("edge update rejected", zap.String("id", id), zap.String("terminal", *t))
			return
		}
	}
	if !p.Apply(&s.d.Edges[i]) {
		return
	}
	s.touch()
	s.commit()
	s.emit(ChangeCells | ChangeMetadata)
}

func (s *Store) DeleteEdge(id string) {
	i := s.d.EdgeIndex(id)
	if i == -1 {
		return
	}
	s.d.Edges = slices.Delete(s.d.Edges, i, i+1)
	s.d.Selection.Cells = slices.DeleteFunc(s.d.Selection.Cells, func(c string) bool { return c == id })
	s.touch()
	s.commit()
	s.emit(ChangeCells | ChangeSelection | ChangeMetadata)
}

// DeleteSelection removes the selected nodes (with their edges) and the
// selected edges as one undoable step.
func (s *Store) DeleteSelection() {
	if !s.deleteCells(s.d.LiveSelection()) {
		return
	}
	s.touch()
	s.commit()
	s.emit(ChangeCells | ChangeSelection | ChangeMetadata)
}

// deleteCells removes the given nodes and edges and clears the selection. It
// neither stamps nor commits.
func (s *Store) deleteCells(ids []string) bool {
	if len(ids) == 0 {
		return false
	}
	nodes := make(map[string]bool)
	edges := make(map[string]bool)
	for _, id := range ids {
		if s.d.HasNode(id) {
			nodes[id] = true
		} else if s.d.EdgeIndex(id) != -1 {
			edges[id] = true
		}
	}
	if len(nodes) == 0 && len(edges) == 0 {
		return false
	}
	s.d.Edges = slices.DeleteFunc(s.d.Edges, func(e diagram.Edge) bool { return edges[e.ID] })
	s.removeNodes(nodes)
	s.d.Selection.Cells = []string{}
	return true
}

// removeNodes deletes the nodes in ids plus every edge touching one of them
// and prunes the selection. It returns how many cells went away.
func (s *Store) removeNodes(ids map[string]bool) int {
	gone := make(map[string]bool, len(ids))
	s.d.Nodes = slices.DeleteFunc(s.d.Nodes, func(n diagram.Node) bool {
		if ids[n.ID] {
			gone[n.ID] = true
			return true
		}
		return false
	})
	s.d.Edges = slices.DeleteFunc(s.d.Edges, func(e diagram.Edge) bool {
		if ids[e.Source] || ids[e.Target] {
			gone[e.ID] = true
			return true
		}
		return false
	})
	s.d.Selection.Cells = slices.DeleteFunc(s.d.Selection.Cells, func(c string) bool { return gone[c] })
	return len(gone)
}

// FindPath is reserved for routing between two cells and currently always
// returns an empty path.
func (s *Store) FindPath(fromID, toID string) []string {
	return []string{}
}
