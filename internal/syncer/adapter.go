// Package syncer keeps a scene.Graph in step with a store.Store in both
// directions.
//
// Store changes are pushed into the widget by reconciling cells by id.
// Widget events are translated into store operations. The phase field makes
// the two directions mutually exclusive, so the events the widget raises
// while it is being updated are never fed back into the store, and the
// gesture guard stops a reconciliation pass from deleting cells while a drag
// is in flight.
package syncer

import (
	"time"

	"go.uber.org/zap"

	"flowdraw/internal/diagram"
	"flowdraw/internal/scene"
	"flowdraw/internal/store"
)

// DefaultGestureReleaseDelay bridges the gap between the end of a drag and
// the last position update it produces.
const DefaultGestureReleaseDelay = 100 * time.Millisecond

type Phase int

const (
	PhaseIdle Phase = iota
	PhaseApplyingToWidget
	PhaseApplyingFromWidget
)

func (p Phase) String() string {
	switch p {
	case PhaseApplyingToWidget:
		return "applyingToWidget"
	case PhaseApplyingFromWidget:
		return "applyingFromWidget"
	}
	return "idle"
}

// Widget is the part of the rendering widget the adapter drives.
type Widget interface {
	Cell(id string) (scene.Cell, bool)
	CellIDs() []string
	InsertVertex(id string, geo scene.Rect, value string, style scene.Style)
	InsertEdge(id, source, target string, style scene.Style) bool
	SetGeometry(id string, geo scene.Rect) bool
	SetValue(id, value string) bool
	SetStyle(id string, style scene.Style) bool
	SetTerminals(id, source, target string) bool
	Remove(ids []string, includeEdges bool)
	BeginUpdate()
	EndUpdate()
	SetSelection(ids []string)
	SetView(v scene.View)
	SetGrid(enabled bool, size int)
	AddListener(kind scene.EventKind, fn scene.Listener) func()
}

// Store is the part of the diagram store the adapter reads and writes.
type Store interface {
	Subscribe(fn func(store.Change)) func()
	Batch(fn func())

	Nodes() []diagram.Node
	Edges() []diagram.Edge
	Selection() []string
	Viewport() diagram.Viewport
	Settings() diagram.Settings
	SelectedTool() store.Tool

	AddNode(p diagram.NodePatch) string
	UpdateNode(id string, p diagram.NodePatch)
	AddEdge(p diagram.EdgePatch) (string, error)
	SelectCells(ids []string)
	ClearSelection()
	SetViewport(p diagram.ViewportPatch)
}

type Option func(*Adapter)

func WithScheduler(s Scheduler) Option {
	return func(a *Adapter) {
		if s != nil {
			a.sched = s
		}
	}
}

func WithGestureReleaseDelay(d time.Duration) Option {
	return func(a *Adapter) {
		if d >= 0 {
			a.delay = d
		}
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(a *Adapter) {
		if logger != nil {
			a.logger = logger
		}
	}
}

type Adapter struct {
	store  Store
	widget Widget
	sched  Scheduler
	delay  time.Duration
	logger *zap.Logger

	phase         Phase
	gesture       bool
	cancelRelease func()
	pending       store.Change
	detach        []func()
}

func New(s Store, w Widget, opts ...Option) *Adapter {
	a := &Adapter{
		store:  s,
		widget: w,
		sched:  Immediate{},
		delay:  DefaultGestureReleaseDelay,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *Adapter) Phase() Phase {
	return a.phase
}

// GestureActive reports whether the gesture guard is held.
func (a *Adapter) GestureActive() bool {
	return a.gesture
}

// Attach subscribes to both sides and pushes the whole store into the widget.
func (a *Adapter) Attach() {
	if len(a.detach) > 0 {
		return
	}
	a.detach = append(a.detach, a.store.Subscribe(a.onStoreChange))
	listen := func(kind scene.EventKind, fn scene.Listener) {
		a.detach = append(a.detach, a.widget.AddListener(kind, fn))
	}
	listen(scene.EventMoveStart, a.onMoveStart)
	listen(scene.EventMoveEnd, a.onMoveEnd)
	listen(scene.EventCellsMoved, a.onCellsMoved)
	listen(scene.EventCellsResized, a.onCellsResized)
	listen(scene.EventConnect, a.onConnect)
	listen(scene.EventSelectionChange, a.onSelectionChange)
	listen(scene.EventScaleAndTranslate, a.onScaleAndTranslate)
	listen(scene.EventLabelChanged, a.onLabelChanged)
	listen(scene.EventClick, a.onClick)
	a.Sync()
}

// Detach removes every subscription and cancels a pending gesture release.
func (a *Adapter) Detach() {
	for _, fn := range a.detach {
		fn()
	}
	a.detach = nil
	if a.cancelRelease != nil {
		a.cancelRelease()
		a.cancelRelease = nil
	}
	a.gesture = false
	a.pending = 0
}

// Sync pushes the complete store state into the widget.
func (a *Adapter) Sync() {
	a.onStoreChange(store.ChangeAll)
}

func (a *Adapter) onStoreChange(c store.Change) {
	if a.phase != PhaseIdle {
		a.pending |= c
		return
	}
	a.apply(c)
}

func (a *Adapter) apply(c store.Change) {
	a.phase = PhaseApplyingToWidget
	a.widget.BeginUpdate()
	defer func() {
		// EndUpdate delivers the widget's echoes while the phase still
		// marks them as ours.
		a.widget.EndUpdate()
		a.phase = PhaseIdle
	}()

	if c.Has(store.ChangeCells | store.ChangeReplaced) {
		a.reconcile()
	}
	if c.Has(store.ChangeSelection | store.ChangeCells | store.ChangeReplaced) {
		a.widget.SetSelection(a.store.Selection())
	}
	if c.Has(store.ChangeViewport | store.ChangeReplaced) {
		vp := a.store.Viewport()
		a.widget.SetView(scene.View{Scale: vp.Scale, TranslateX: vp.TranslateX, TranslateY: vp.TranslateY})
	}
	if c.Has(store.ChangeSettings | store.ChangeReplaced) {
		st := a.store.Settings()
		a.widget.SetGrid(st.SnapToGrid, st.GridSize)
	}
}

// reconcile upserts every node and edge by id, touching only what differs,
// and then removes widget cells the store no longer has. Removal is skipped
// while the gesture guard is held.
func (a *Adapter) reconcile() {
	keep := make(map[string]bool)
	for _, n := range a.store.Nodes() {
		keep[n.ID] = true
		geo := TopLeft(n)
		style := VertexStyle(n.Style)
		c, ok := a.widget.Cell(n.ID)
		if !ok || !c.Vertex {
			a.widget.InsertVertex(n.ID, geo, n.Value, style)
			continue
		}
		if !c.Geometry.Equal(geo) {
			a.widget.SetGeometry(n.ID, geo)
		}
		if c.Value != n.Value {
			a.widget.SetValue(n.ID, n.Value)
		}
		if c.Style != style {
			a.widget.SetStyle(n.ID, style)
		}
	}

	for _, e := range a.store.Edges() {
		keep[e.ID] = true
		style := EdgeStyle(e.Style)
		c, ok := a.widget.Cell(e.ID)
		if !ok || !c.Edge {
			if !a.widget.InsertEdge(e.ID, e.Source, e.Target, style) {
				a.logger.Debug("edge skipped, terminal not in widget", zap.String("id", e.ID))
			}
			continue
		}
		if c.Source != e.Source || c.Target != e.Target {
			a.widget.SetTerminals(e.ID, e.Source, e.Target)
		}
		if c.Style != style {
			a.widget.SetStyle(e.ID, style)
		}
	}

	if a.gesture {
		return
	}
	var stale []string
	for _, id := range a.widget.CellIDs() {
		if !keep[id] {
			stale = append(stale, id)
		}
	}
	if len(stale) > 0 {
		a.widget.Remove(stale, true)
	}
}

// fromWidget runs fn as the store's only writer. Widget events that arrive
// while the adapter is already busy are echoes and are dropped. Store
// changes made by fn are pushed back once it returns.
func (a *Adapter) fromWidget(e scene.Event, fn func()) {
	if a.phase != PhaseIdle {
		a.logger.Debug("widget event ignored", zap.Stringer("event", e.Kind), zap.Stringer("phase", a.phase))
		return
	}
	a.phase = PhaseApplyingFromWidget
	fn()
	a.phase = PhaseIdle
	a.flush()
}

func (a *Adapter) flush() {
	for a.pending != 0 && a.phase == PhaseIdle {
		c := a.pending
		a.pending = 0
		a.apply(c)
	}
}

func (a *Adapter) onMoveStart(e scene.Event) {
	a.fromWidget(e, func() {
		if a.cancelRelease != nil {
			a.cancelRelease()
			a.cancelRelease = nil
		}
		a.gesture = true
	})
}

func (a *Adapter) onMoveEnd(e scene.Event) {
	a.fromWidget(e, func() {
		if a.cancelRelease != nil {
			a.cancelRelease()
		}
		a.cancelRelease = a.sched.AfterFunc(a.delay, a.releaseGesture)
	})
}

func (a *Adapter) releaseGesture() {
	a.cancelRelease = nil
	if !a.gesture {
		return
	}
	a.gesture = false
	a.onStoreChange(store.ChangeCells)
}

func (a *Adapter) onCellsMoved(e scene.Event) {
	a.fromWidget(e, func() {
		a.updateGeometry(e.Cells, false)
	})
}

func (a *Adapter) onCellsResized(e scene.Event) {
	a.fromWidget(e, func() {
		a.updateGeometry(e.Cells, true)
	})
}

func (a *Adapter) updateGeometry(ids []string, withSize bool) {
	a.store.Batch(func() {
		for _, id := range ids {
			c, ok := a.widget.Cell(id)
			if !ok || !c.Vertex {
				continue
			}
			a.store.UpdateNode(id, CenterPatch(c.Geometry, withSize))
		}
	})
}

func (a *Adapter) onConnect(e scene.Event) {
	a.fromWidget(e, func() {
		p := diagram.EdgePatch{Source: diagram.Ptr(e.Source), Target: diagram.Ptr(e.Target)}
		if a.store.SelectedTool() == store.ToolLine {
			p.Style = &diagram.EdgeStyle{EndArrow: diagram.ArrowNone}
		}
		if _, err := a.store.AddEdge(p); err != nil {
			a.logger.Warn("connection dropped", zap.Error(err))
		}
		a.widget.Remove([]string{e.EdgeID}, false)
	})
}

func (a *Adapter) onSelectionChange(e scene.Event) {
	a.fromWidget(e, func() {
		if len(e.Cells) == 0 {
			a.store.ClearSelection()
			return
		}
		a.store.SelectCells(e.Cells)
	})
}

func (a *Adapter) onScaleAndTranslate(e scene.Event) {
	a.fromWidget(e, func() {
		a.store.SetViewport(diagram.ViewportPatch{
			Scale:      diagram.Ptr(e.View.Scale),
			TranslateX: diagram.Ptr(e.View.TranslateX),
			TranslateY: diagram.Ptr(e.View.TranslateY),
		})
	})
}

func (a *Adapter) onLabelChanged(e scene.Event) {
	a.fromWidget(e, func() {
		for _, id := range e.Cells {
			if c, ok := a.widget.Cell(id); ok && c.Vertex {
				a.store.UpdateNode(id, diagram.NodePatch{Value: diagram.Ptr(e.Value)})
			}
		}
	})
}

// onClick drops a new node from the active tool's preset on an empty spot
// and selects it. Clicks right after a drag are ignored.
func (a *Adapter) onClick(e scene.Event) {
	if a.gesture || e.CellID != "" {
		return
	}
	preset, ok := store.PresetFor(a.store.SelectedTool())
	if !ok {
		return
	}
	a.fromWidget(e, func() {
		id := a.store.AddNode(preset.Patch(e.Point.X, e.Point.Y))
		a.store.SelectCells([]string{id})
	})
}
