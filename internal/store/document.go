package store

import (
	"go.uber.org/zap"

	"flowdraw/internal/diagram"
)

// HistoryState is the undo/redo status shown by the UI.
type HistoryState struct {
	CanUndo    bool
	CanRedo    bool
	MaxHistory int
	Len        int
	Index      int
}

func (s *Store) History() HistoryState {
	return HistoryState{
		CanUndo:    s.hist.CanUndo(),
		CanRedo:    s.hist.CanRedo(),
		MaxHistory: s.hist.Max(),
		Len:        s.hist.Len(),
		Index:      s.hist.Index(),
	}
}

// SaveHistory pushes a snapshot of the current nodes, edges and selection.
// Inside a Batch the snapshot is deferred to the end of the batch.
func (s *Store) SaveHistory() {
	s.commit()
	s.flush()
}

// Undo restores nodes, edges and selection from the previous snapshot.
// Viewport, settings and themes are left alone.
func (s *Store) Undo() {
	snap, ok := s.hist.Undo()
	if !ok {
		return
	}
	s.d.Restore(snap)
	s.touch()
	s.emit(ChangeCells | ChangeSelection | ChangeHistory | ChangeMetadata)
}

func (s *Store) Redo() {
	snap, ok := s.hist.Redo()
	if !ok {
		return
	}
	s.d.Restore(snap)
	s.touch()
	s.emit(ChangeCells | ChangeSelection | ChangeHistory | ChangeMetadata)
}

// LoadDiagram replaces the whole diagram with a repaired copy of d and starts
// a new history from it.
func (s *Store) LoadDiagram(d *diagram.Diagram) {
	if d == nil {
		return
	}
	next := d.Clone()
	if r := next.Normalize(); !r.Clean() {
		s.logRepairs("loadDiagram", r)
	}
	s.replace(next)
	s.logger.Info("diagram loaded", zap.String("name", next.Metadata.Name),
		zap.Int("nodes", len(next.Nodes)), zap.Int("edges", len(next.Edges)))
}

// ExportDiagram returns a copy of the whole diagram.
func (s *Store) ExportDiagram() *diagram.Diagram {
	return s.d.Clone()
}

// ClearDiagram starts over from an empty default diagram.
func (s *Store) ClearDiagram() {
	s.replace(diagram.Default(s.now()))
}

func (s *Store) replace(d *diagram.Diagram) {
	s.d = d
	s.hist.Reset(d.Snapshot())
	s.emit(ChangeAll)
}

func (s *Store) Rename(name string) {
	if name == "" || name == s.d.Metadata.Name {
		return
	}
	s.d.Metadata.Name = name
	s.touch()
	s.emit(ChangeMetadata)
}

func (s *Store) Metadata() diagram.Metadata {
	return s.d.Metadata
}

func (s *Store) Nodes() []diagram.Node {
	return diagram.CloneNodes(s.d.Nodes)
}

func (s *Store) Edges() []diagram.Edge {
	return diagram.CloneEdges(s.d.Edges)
}
