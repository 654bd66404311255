package scene

type EventKind int

const (
	EventMoveStart EventKind = iota
	EventCellsMoved
	EventMoveEnd
	EventCellsResized
	EventConnect
	EventSelectionChange
	EventScaleAndTranslate
	EventLabelChanged
	EventClick
)

var eventNames = [...]string{
	EventMoveStart:         "moveStart",
	EventCellsMoved:        "cellsMoved",
	EventMoveEnd:           "moveEnd",
	EventCellsResized:      "cellsResized",
	EventConnect:           "connect",
	EventSelectionChange:   "selectionChange",
	EventScaleAndTranslate: "scaleAndTranslate",
	EventLabelChanged:      "labelChanged",
	EventClick:             "click",
}

func (k EventKind) String() string {
	if k >= 0 && int(k) < len(eventNames) {
		return eventNames[k]
	}
	return "unknown"
}

// Event carries the properties of a widget notification. Which fields are
// set depends on Kind.
type Event struct {
	Kind EventKind

	// Cells moved, resized, relabeled or selected.
	Cells []string
	DX    float64
	DY    float64

	// Connect
	EdgeID string
	Source string
	Target string

	// ScaleAndTranslate
	View View

	// LabelChanged
	Value string

	// Click; CellID is empty when the click hit the background.
	Point  Point
	CellID string
}

type Listener func(Event)

type listenerEntry struct {
	id   int
	kind EventKind
	fn   Listener
}

// AddListener registers fn for events of the given kind and returns a
// function that removes it.
func (g *Graph) AddListener(kind EventKind, fn Listener) func() {
	g.nextListener++
	id := g.nextListener
	g.listeners = append(g.listeners, listenerEntry{id: id, kind: kind, fn: fn})
	return func() {
		for i, l := range g.listeners {
			if l.id == id {
				g.listeners = append(g.listeners[:i:i], g.listeners[i+1:]...)
				return
			}
		}
	}
}

// fire delivers e now, or queues it until the outermost EndUpdate.
func (g *Graph) fire(e Event) {
	if g.updateDepth > 0 {
		g.deferred = append(g.deferred, e)
		return
	}
	listeners := append([]listenerEntry(nil), g.listeners...)
	for _, l := range listeners {
		if l.kind == e.Kind {
			l.fn(e)
		}
	}
}
