package tui

import (
	"flowdraw/internal/scene"
)

// direction maps a navigation key to a unit step. ok is false for any other key.
func direction(key string) (dx, dy int, ok bool) {
	switch key {
	case "h", "left", "H", "shift+left":
		return -1, 0, true
	case "l", "right", "L", "shift+right":
		return 1, 0, true
	case "k", "up", "K", "shift+up":
		return 0, -1, true
	case "j", "down", "J", "shift+down":
		return 0, 1, true
	}
	return 0, 0, false
}

func moveSpeed(key string) int {
	switch key {
	case "H", "L", "K", "J", "shift+left", "shift+right", "shift+up", "shift+down":
		return 2
	default:
		return 1
	}
}

func (m *Model) handleNavigation(key string) bool {
	dx, dy, ok := direction(key)
	if !ok {
		return false
	}
	speed := moveSpeed(key)
	if m.panMode {
		// Panning moves the view, so content slides the other way.
		m.graph.PanBy(-dx*speed, -dy*speed)
		return true
	}
	m.cursorX += dx * speed
	m.cursorY += dy * speed
	m.ensureCursorInBounds()
	return true
}

func (m *Model) ensureCursorInBounds() {
	w, h := m.canvasSize()
	m.cursorX = max(0, min(m.cursorX, w-1))
	m.cursorY = max(0, min(m.cursorY, h-1))
}

// canvasSize is the drawing area left after the status line and side panel.
func (m *Model) canvasSize() (int, int) {
	w := m.width
	if m.sidePanelVisible() {
		w -= sidePanelWidth
	}
	return max(w, 1), max(m.height-1, 1)
}

func (m *Model) sidePanelVisible() bool {
	s := m.store.Settings()
	return (s.ShowProperties || s.ShowMinimap) && m.width >= sidePanelWidth+20
}

func (m *Model) cursorWorld() scene.Point {
	return m.graph.View().CellToWorld(m.cursorX, m.cursorY)
}

// vertexUnderCursor prefers the topmost vertex at the cursor.
func (m *Model) vertexUnderCursor() (string, bool) {
	return m.graph.CellAt(m.cursorX, m.cursorY)
}

// cellStep converts a number of terminal cells into world units at the
// current zoom.
func (m *Model) cellStep(cols, rows int) (float64, float64) {
	scale := m.graph.View().Scale
	if scale <= 0 {
		scale = 1
	}
	return float64(cols*scene.CellWidth) / scale, float64(rows*scene.CellHeight) / scale
}
