package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

type timerMsg struct{ id int }

// teaScheduler runs delayed functions on the bubbletea event loop: the timer
// goroutine only posts a message, and Update runs the function.
type teaScheduler struct {
	send  func(tea.Msg)
	next  int
	tasks map[int]*time.Timer
	fns   map[int]func()
}

func newTeaScheduler() *teaScheduler {
	return &teaScheduler{tasks: make(map[int]*time.Timer), fns: make(map[int]func())}
}

// AfterFunc runs fn right away until the program has been attached.
func (s *teaScheduler) AfterFunc(d time.Duration, fn func()) func() {
	if s.send == nil {
		fn()
		return func() {}
	}
	s.next++
	id := s.next
	send := s.send
	s.fns[id] = fn
	s.tasks[id] = time.AfterFunc(d, func() { send(timerMsg{id: id}) })
	return func() {
		if t, ok := s.tasks[id]; ok {
			t.Stop()
		}
		delete(s.tasks, id)
		delete(s.fns, id)
	}
}

func (s *teaScheduler) fire(id int) {
	fn, ok := s.fns[id]
	if !ok {
		return
	}
	delete(s.tasks, id)
	delete(s.fns, id)
	fn()
}
