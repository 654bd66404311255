package tui

import (
	"fmt"
	"slices"

	tea "github.com/charmbracelet/bubbletea"

	"flowdraw/internal/scene"
	"flowdraw/internal/store"
)

func (m *Model) handleNormalKey(msg tea.KeyMsg) tea.Cmd {
	if msg.Type == tea.KeyEsc {
		m.panMode = false
		m.message = ""
		m.store.SetError(nil)
		m.graph.ClearSelection()
		return nil
	}

	key := msg.String()
	if m.handleNavigation(key) {
		return nil
	}
	if key != "z" {
		m.panMode = false
	}

	switch key {
	case "ctrl+c", "q":
		if m.cfg.Editor.Confirmations && m.dirty() {
			m.askConfirm(ConfirmQuit)
			return nil
		}
		return tea.Quit
	case "?":
		m.help = true
		m.helpScroll = 0
	case "z":
		m.panMode = !m.panMode

	case "b":
		m.place(store.ToolNode)
	case "O":
		m.place(store.ToolOval)
	case "D":
		m.place(store.ToolRhombus)
	case "t":
		if id, ok := m.place(store.ToolText); ok {
			m.startEdit(id, "")
		}

	case "enter", " ":
		m.graph.Click(m.cursorWorld(), false)
	case "v":
		m.graph.Click(m.cursorWorld(), true)
	case "ctrl+a":
		m.store.SelectAll()

	case "a", "A":
		id, ok := m.vertexUnderCursor()
		if !ok {
			m.setError(fmt.Errorf("no shape under the cursor to connect from"))
			return nil
		}
		m.connectTool = store.ToolEdge
		if key == "A" {
			m.connectTool = store.ToolLine
		}
		m.connectFrom = id
		m.store.SetSelectedTool(m.connectTool)
		m.mode = ModeConnect
	case "e":
		if id, ok := m.vertexUnderCursor(); ok {
			c, _ := m.graph.Cell(id)
			m.startEdit(id, c.Value)
		}
	case "m":
		m.startMove()
	case "i":
		m.startProps()
	case "r":
		if id, ok := m.vertexUnderCursor(); ok && m.graph.BeginResize(id) {
			m.graph.SetSelection([]string{id})
			m.mode = ModeResize
		}
	case "d", "delete":
		if !m.selectUnderCursorIfEmpty() {
			return nil
		}
		if m.cfg.Editor.Confirmations {
			m.askConfirm(ConfirmDelete)
			return nil
		}
		m.store.DeleteSelection()

	case "c":
		if m.selectUnderCursorIfEmpty() {
			m.store.CopyCells()
			n, e := m.store.ClipboardSize()
			m.setMessage(fmt.Sprintf("Copied %d shapes, %d connections", n, e))
		}
	case "x":
		if m.selectUnderCursorIfEmpty() {
			m.store.CutCells()
		}
	case "p":
		m.store.PasteCells()
	case "y":
		if id, ok := m.vertexUnderCursor(); ok {
			c, _ := m.graph.Cell(id)
			if err := writeClipboardText(c.Value); err != nil {
				m.setError(fmt.Errorf("clipboard: %w", err))
			} else {
				m.setMessage("Label copied to clipboard")
			}
		}
	case "u":
		m.store.Undo()
	case "U", "ctrl+r":
		m.store.Redo()

	case "+", "=":
		m.store.ZoomIn()
	case "-":
		m.store.ZoomOut()
	case "0":
		m.store.ResetZoom()
	case "f":
		w, h := m.canvasSize()
		m.store.ZoomToFit(float64(w*scene.CellWidth), float64(h*scene.CellHeight))

	case "g":
		m.store.SetShowGrid(!m.store.Settings().ShowGrid)
	case "G":
		snap := !m.store.Settings().SnapToGrid
		m.store.SetSnapToGrid(snap)
		m.setMessage(fmt.Sprintf("Snap to grid: %v", snap))
	case "P":
		m.store.SetShowProperties(!m.store.Settings().ShowProperties)
		m.ensureCursorInBounds()
	case "M":
		m.store.SetShowMinimap(!m.store.Settings().ShowMinimap)
		m.ensureCursorInBounds()
	case "T":
		m.cycleTheme()

	case "s":
		if m.filename != "" {
			m.saveTo(m.filename)
			return nil
		}
		m.askFile(FileOpSave)
	case "S":
		m.askFile(FileOpSave)
	case "o":
		m.askFile(FileOpOpen)
	case "n":
		if m.cfg.Editor.Confirmations && m.dirty() {
			m.askConfirm(ConfirmNewDiagram)
			return nil
		}
		m.newDiagram()
	case "E":
		m.askFile(FileOpExportPNG)
	case "X":
		m.askFile(FileOpExportText)
	}
	return nil
}

// place drops the tool's preset at the cursor through a widget click, the
// same path a mouse click on empty canvas takes, and returns the new node.
func (m *Model) place(tool store.Tool) (string, bool) {
	if _, hit := m.vertexUnderCursor(); hit {
		m.setError(fmt.Errorf("there is already a shape under the cursor"))
		return "", false
	}
	before := len(m.store.Nodes())
	m.store.SetSelectedTool(tool)
	m.graph.Click(m.cursorWorld(), false)
	m.store.SetSelectedTool(store.ToolSelect)
	if len(m.store.Nodes()) == before {
		return "", false
	}
	sel := m.store.Selection()
	if len(sel) != 1 {
		return "", false
	}
	return sel[0], true
}

func (m *Model) selectUnderCursorIfEmpty() bool {
	if len(m.store.Selection()) > 0 {
		return true
	}
	id, ok := m.vertexUnderCursor()
	if !ok {
		return false
	}
	m.graph.SetSelection([]string{id})
	return true
}

func (m *Model) startMove() {
	id, ok := m.vertexUnderCursor()
	if !ok {
		return
	}
	if !m.graph.IsSelected(id) {
		m.graph.SetSelection([]string{id})
	}
	if m.graph.BeginMove(nil) {
		m.mode = ModeMove
	}
}

// handleGestureKey drives an in-flight move or resize. The cursor travels
// with a moved shape so it stays on it.
func (m *Model) handleGestureKey(msg tea.KeyMsg) tea.Cmd {
	key := msg.String()
	switch {
	case msg.Type == tea.KeyEsc:
		if m.graph.Resizing() {
			m.graph.CancelResize()
		} else {
			m.graph.CancelMove()
		}
		m.mode = ModeNormal
		return nil
	case key == "enter":
		if m.graph.Resizing() {
			m.graph.EndResize()
		} else {
			m.graph.EndMove()
		}
		m.mode = ModeNormal
		return nil
	}

	dx, dy, ok := direction(key)
	if !ok {
		return nil
	}
	speed := moveSpeed(key)
	wx, wy := m.cellStep(dx*speed, dy*speed)
	if m.mode == ModeMove {
		m.graph.DragBy(wx, wy)
		m.cursorX += dx * speed
		m.cursorY += dy * speed
		m.ensureCursorInBounds()
	} else {
		m.graph.ResizeBy(wx, wy)
	}
	return nil
}

func (m *Model) handleConnectKey(msg tea.KeyMsg) tea.Cmd {
	key := msg.String()
	if msg.Type == tea.KeyEsc {
		m.endConnect()
		return nil
	}
	if m.handleNavigation(key) {
		return nil
	}
	switch key {
	case "a", "A", "enter", " ":
		to, ok := m.vertexUnderCursor()
		if !ok || to == m.connectFrom {
			m.setError(fmt.Errorf("move the cursor onto another shape"))
			return nil
		}
		style := scene.Style{EndArrow: m.connectTool == store.ToolEdge}
		m.graph.Connect(m.connectFrom, to, style)
		m.endConnect()
	}
	return nil
}

func (m *Model) endConnect() {
	m.connectFrom = ""
	m.store.SetSelectedTool(store.ToolSelect)
	m.mode = ModeNormal
}

func (m *Model) cycleTheme() {
	names := m.store.ThemeNames()
	if len(names) == 0 {
		return
	}
	i := slices.Index(names, m.store.Settings().Theme)
	next := names[(i+1)%len(names)]
	m.store.SetTheme(next)
	m.setMessage("Theme: " + next)
}

func (m *Model) askConfirm(a ConfirmAction) {
	m.confirm = a
	m.mode = ModeConfirm
}

func (m *Model) handleConfirmKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "y", "Y":
		m.mode = ModeNormal
		switch m.confirm {
		case ConfirmDelete:
			m.store.DeleteSelection()
		case ConfirmQuit:
			return tea.Quit
		case ConfirmNewDiagram:
			m.newDiagram()
		case ConfirmOverwriteFile:
			path := m.pendingPath
			m.pendingPath = ""
			m.runFileOp(path)
		}
	case "n", "N", "esc":
		m.mode = ModeNormal
		m.pendingPath = ""
	}
	return nil
}

func (m *Model) handleHelpKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "ctrl+c":
		return tea.Quit
	case "esc", "q", "?":
		m.help = false
	case "j", "down":
		m.helpScroll = min(m.helpScroll+1, max(len(helpLines)-1, 0))
	case "k", "up":
		m.helpScroll = max(m.helpScroll-1, 0)
	}
	return nil
}

// handleMouse lets a left drag move shapes, a click select or place, and the
// wheel zoom.
func (m *Model) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if m.mode != ModeNormal && !(m.mode == ModeMove && m.mouseDrag) {
		return nil
	}
	w, h := m.canvasSize()
	inside := msg.X < w && msg.Y < h

	switch msg.Type {
	case tea.MouseWheelUp:
		m.store.ZoomBy(zoomStep)
	case tea.MouseWheelDown:
		m.store.ZoomBy(1 / zoomStep)
	case tea.MouseLeft:
		if !inside {
			return nil
		}
		m.cursorX, m.cursorY = msg.X, msg.Y
		m.graph.Click(m.cursorWorld(), msg.Ctrl)
		if _, hit := m.vertexUnderCursor(); hit && !msg.Ctrl && m.graph.BeginMove(nil) {
			m.mode = ModeMove
			m.mouseDrag = true
			m.mouseLastX, m.mouseLastY = msg.X, msg.Y
		}
	case tea.MouseMotion:
		if !m.mouseDrag {
			return nil
		}
		wx, wy := m.cellStep(msg.X-m.mouseLastX, msg.Y-m.mouseLastY)
		m.graph.DragBy(wx, wy)
		m.mouseLastX, m.mouseLastY = msg.X, msg.Y
		m.cursorX, m.cursorY = msg.X, msg.Y
		m.ensureCursorInBounds()
	case tea.MouseRelease:
		if m.mouseDrag {
			m.graph.EndMove()
			m.mouseDrag = false
			m.mode = ModeNormal
		}
	}
	return nil
}
