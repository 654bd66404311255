// Package tui is the terminal front end: a bubbletea program that drives the
// scene widget from the keyboard and mouse and draws it with lipgloss.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"flowdraw/internal/config"
	"flowdraw/internal/scene"
	"flowdraw/internal/store"
	"flowdraw/internal/syncer"
)

type Model struct {
	store   *store.Store
	graph   *scene.Graph
	adapter *syncer.Adapter
	sched   *teaScheduler
	cfg     *config.Config
	logger  *zap.Logger

	adapterSched syncer.Scheduler

	width   int
	height  int
	cursorX int
	cursorY int
	panMode bool
	mode    Mode

	help       bool
	helpScroll int

	editID     string
	editText   []rune
	editCursor int

	propIndex   int
	propEditing bool

	connectFrom string
	connectTool store.Tool

	mouseDrag  bool
	mouseLastX int
	mouseLastY int

	filename      string
	savedModified time.Time
	input         string
	fileOp        FileOperation
	pendingPath   string
	confirm       ConfirmAction
	message       string
}

type Option func(*Model)

func WithConfig(cfg *config.Config) Option {
	return func(m *Model) {
		if cfg != nil {
			m.cfg = cfg
		}
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(m *Model) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithFilename names the file the diagram was loaded from.
func WithFilename(path string) Option {
	return func(m *Model) {
		m.filename = path
	}
}

// WithScheduler replaces the event-loop scheduler used for the gesture guard.
func WithScheduler(s syncer.Scheduler) Option {
	return func(m *Model) {
		m.adapterSched = s
	}
}

// New wires a scene widget to s through a sync adapter.
func New(s *store.Store, opts ...Option) *Model {
	m := &Model{
		store:  s,
		graph:  scene.New(),
		sched:  newTeaScheduler(),
		cfg:    config.Default(),
		logger: zap.NewNop(),
		width:  80,
		height: 24,
	}
	for _, opt := range opts {
		opt(m)
	}
	var sched syncer.Scheduler = m.sched
	if m.adapterSched != nil {
		sched = m.adapterSched
	}
	m.adapter = syncer.New(s, m.graph,
		syncer.WithScheduler(sched),
		syncer.WithGestureReleaseDelay(m.cfg.GestureRelease()),
		syncer.WithLogger(m.logger.Named("sync")),
	)
	m.adapter.Attach()
	m.savedModified = s.Metadata().Modified
	return m
}

// Run starts the full-screen program and blocks until it quits.
func Run(s *store.Store, opts ...Option) error {
	m := New(s, opts...)
	defer m.adapter.Detach()

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	m.sched.send = p.Send
	_, err := p.Run()
	return err
}

func (m *Model) Init() tea.Cmd {
	return m.autosaveTick()
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ensureCursorInBounds()
		return m, nil
	case timerMsg:
		m.sched.fire(msg.id)
		return m, nil
	case autosaveMsg:
		m.autosave()
		return m, m.autosaveTick()
	case tea.MouseMsg:
		return m, m.handleMouse(msg)
	case tea.KeyMsg:
		return m, m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if m.help {
		return m.handleHelpKey(msg)
	}
	switch m.mode {
	case ModeEditing:
		return m.handleEditKey(msg)
	case ModeMove, ModeResize:
		return m.handleGestureKey(msg)
	case ModeConnect:
		return m.handleConnectKey(msg)
	case ModeFileInput:
		return m.handleFileKey(msg)
	case ModeConfirm:
		return m.handleConfirmKey(msg)
	case ModeProperties:
		return m.handlePropKey(msg)
	}
	return m.handleNormalKey(msg)
}

// dirty reports whether the diagram changed since it was last saved or loaded.
func (m *Model) dirty() bool {
	return !m.store.Metadata().Modified.Equal(m.savedModified)
}

func (m *Model) markSaved() {
	m.savedModified = m.store.Metadata().Modified
}

func (m *Model) setError(err error) {
	m.message = ""
	m.store.SetError(err)
	if err != nil {
		m.logger.Warn("operation failed", zap.Error(err))
	}
}

func (m *Model) setMessage(msg string) {
	m.store.SetError(nil)
	m.message = msg
}
