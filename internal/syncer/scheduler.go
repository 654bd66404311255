package syncer

import (
	"slices"
	"time"
)

// Scheduler runs fn once after d. Implementations must call fn on the same
// event loop that drives the store.
type Scheduler interface {
	AfterFunc(d time.Duration, fn func()) (cancel func())
}

// Immediate runs every function right away, ignoring the delay.
type Immediate struct{}

func (Immediate) AfterFunc(_ time.Duration, fn func()) func() {
	fn()
	return func() {}
}

// ManualScheduler holds functions until Advance moves its clock past their
// deadline.
type ManualScheduler struct {
	now    time.Duration
	nextID int
	tasks  []manualTask
}

type manualTask struct {
	id  int
	due time.Duration
	fn  func()
}

func (m *ManualScheduler) AfterFunc(d time.Duration, fn func()) func() {
	m.nextID++
	id := m.nextID
	m.tasks = append(m.tasks, manualTask{id: id, due: m.now + d, fn: fn})
	return func() {
		m.tasks = slices.DeleteFunc(m.tasks, func(t manualTask) bool { return t.id == id })
	}
}

// Advance moves the clock forward and runs what became due, earliest first.
func (m *ManualScheduler) Advance(d time.Duration) {
	m.now += d
	for {
		i := -1
		for j, t := range m.tasks {
			if t.due <= m.now && (i == -1 || t.due < m.tasks[i].due) {
				i = j
			}
		}
		if i == -1 {
			return
		}
		t := m.tasks[i]
		m.tasks = slices.Delete(m.tasks, i, i+1)
		t.fn()
	}
}

func (m *ManualScheduler) Pending() int {
	return len(m.tasks)
}
