// Package store holds the single authoritative copy of a diagram. Every
// mutation goes through a Store method; when a method returns, the diagram
// invariants hold again and subscribers have been told what changed.
//
// A Store is not safe for concurrent use. It is meant to be driven from one
// event loop.
package store

import (
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"flowdraw/internal/diagram"
	"flowdraw/internal/history"
)

// Change tells subscribers which parts of the state moved.
type Change uint16

const (
	ChangeCells Change = 1 << iota
	ChangeSelection
	ChangeViewport
	ChangeSettings
	ChangeThemes
	ChangeMetadata
	ChangeClipboard
	ChangeHistory
	ChangeUI
	ChangeReplaced

	ChangeAll = ChangeCells | ChangeSelection | ChangeViewport | ChangeSettings | ChangeThemes |
		ChangeMetadata | ChangeClipboard | ChangeHistory | ChangeUI | ChangeReplaced
)

func (c Change) Has(flag Change) bool {
	return c&flag != 0
}

type Option func(*Store)

func WithLogger(logger *zap.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

func WithIDGenerator(newID func() string) Option {
	return func(s *Store) {
		if newID != nil {
			s.newID = newID
		}
	}
}

func WithMaxHistory(max int) Option {
	return func(s *Store) {
		s.maxHistory = max
	}
}

// WithDiagram starts the store from a copy of d instead of an empty diagram.
func WithDiagram(d *diagram.Diagram) Option {
	return func(s *Store) {
		s.initial = d
	}
}

type subscriber struct {
	id int
	fn func(Change)
}

type Store struct {
	d       *diagram.Diagram
	hist    *history.Stack
	clip    clipboard
	tool    Tool
	loading bool
	err     error

	logger     *zap.Logger
	now        func() time.Time
	newID      func() string
	maxHistory int
	initial    *diagram.Diagram

	subs        []subscriber
	nextSubID   int
	pending     Change
	dispatching bool

	batchDepth int
	batchDirty bool
}

func New(opts ...Option) *Store {
	s := &Store{
		tool:       ToolSelect,
		logger:     zap.NewNop(),
		now:        time.Now,
		newID:      func() string { return uuid.New().String() },
		maxHistory: diagram.DefaultMaxHistory,
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.initial != nil {
		s.d = s.initial.Clone()
		if r := s.d.Normalize(); !r.Clean() {
			s.logRepairs("initial", r)
		}
		s.initial = nil
	} else {
		s.d = diagram.Default(s.now())
	}
	s.hist = history.New(s.maxHistory, s.d.Snapshot())
	return s
}

// Subscribe registers fn to be called after every state change. The returned
// function removes the subscription.
func (s *Store) Subscribe(fn func(Change)) func() {
	s.nextSubID++
	id := s.nextSubID
	s.subs = append(s.subs, subscriber{id: id, fn: fn})
	return func() {
		for i, sub := range s.subs {
			if sub.id == id {
				s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
				return
			}
		}
	}
}

// Batch runs fn and folds every history snapshot it would have pushed into a
// single one. Subscribers are notified once, after the outermost batch.
func (s *Store) Batch(fn func()) {
	s.batchDepth++
	defer func() {
		s.batchDepth--
		if s.batchDepth > 0 {
			return
		}
		if s.batchDirty {
			s.batchDirty = false
			s.saveSnapshot()
		}
		s.flush()
	}()
	fn()
}

func (s *Store) emit(c Change) {
	s.pending |= c
	s.flush()
}

// flush delivers pending changes unless a batch is open or a delivery is
// already running further up the stack; in that case the outer loop picks
// them up.
func (s *Store) flush() {
	if s.dispatching || s.batchDepth > 0 {
		return
	}
	s.dispatching = true
	defer func() { s.dispatching = false }()
	for s.pending != 0 {
		c := s.pending
		s.pending = 0
		subs := append([]subscriber(nil), s.subs...)
		for _, sub := range subs {
			sub.fn(c)
		}
	}
}

// touch stamps metadata.modified.
func (s *Store) touch() {
	s.d.Metadata.Modified = s.now()
}

// commit records a history snapshot for the structural change just made.
func (s *Store) commit() {
	if s.batchDepth > 0 {
		s.batchDirty = true
		return
	}
	s.saveSnapshot()
}

func (s *Store) saveSnapshot() {
	s.hist.Save(s.d.Snapshot())
	s.pending |= ChangeHistory
}

func (s *Store) logRepairs(op string, r diagram.Report) {
	s.logger.Warn("diagram repaired",
		zap.String("op", op),
		zap.Strings("duplicateIDs", r.DuplicateIDs),
		zap.Strings("danglingEdges", r.DanglingEdges),
		zap.Strings("staleSelection", r.StaleSelection),
		zap.Strings("resizedNodes", r.ResizedNodes),
		zap.Bool("scaleClamped", r.ScaleClamped),
		zap.Bool("themeReset", r.ThemeReset),
	)
}
