// Package history keeps a bounded, linear stack of diagram snapshots with a
// cursor. Saving after an undo discards the undone future; there is no
// branching.
package history

import "flowdraw/internal/diagram"

type Stack struct {
	entries []diagram.Snapshot
	index   int
	max     int
}

// New returns a stack holding only initial, with the cursor on it.
func New(max int, initial diagram.Snapshot) *Stack {
	if max < 1 {
		max = 1
	}
	return &Stack{
		entries: []diagram.Snapshot{initial.Clone()},
		max:     max,
	}
}

// Save truncates everything after the cursor, appends a copy of s and drops
// the oldest entries beyond the cap.
func (h *Stack) Save(s diagram.Snapshot) {
	h.entries = append(h.entries[:h.index+1], s.Clone())
	if over := len(h.entries) - h.max; over > 0 {
		clear(h.entries[:over])
		h.entries = h.entries[over:]
	}
	h.index = len(h.entries) - 1
}

// Undo moves the cursor back and returns a copy of the snapshot under it.
func (h *Stack) Undo() (diagram.Snapshot, bool) {
	if h.index <= 0 {
		return diagram.Snapshot{}, false
	}
	h.index--
	return h.entries[h.index].Clone(), true
}

func (h *Stack) Redo() (diagram.Snapshot, bool) {
	if h.index >= len(h.entries)-1 {
		return diagram.Snapshot{}, false
	}
	h.index++
	return h.entries[h.index].Clone(), true
}

// Reset drops every entry and starts over from s.
func (h *Stack) Reset(s diagram.Snapshot) {
	h.entries = []diagram.Snapshot{s.Clone()}
	h.index = 0
}

func (h *Stack) CanUndo() bool { return h.index > 0 }
func (h *Stack) CanRedo() bool { return h.index < len(h.entries)-1 }
func (h *Stack) Len() int      { return len(h.entries) }
func (h *Stack) Index() int    { return h.index }
func (h *Stack) Max() int      { return h.max }
