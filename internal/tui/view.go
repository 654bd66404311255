package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"

	"flowdraw/internal/diagram"
	"flowdraw/internal/scene"
	"flowdraw/internal/store"
)

// palette holds the lipgloss styles derived from the active theme.
type palette struct {
	base     lipgloss.Style
	grid     lipgloss.Style
	node     lipgloss.Style
	nodeSel  lipgloss.Style
	edge     lipgloss.Style
	edgeSel  lipgloss.Style
	label    lipgloss.Style
	viewport lipgloss.Style
	cursor   lipgloss.Style
	status   lipgloss.Style
	errStyle lipgloss.Style
	panel    lipgloss.Style
}

func newPalette(t diagram.Theme) palette {
	bg := lipgloss.Color(t.Colors.Background)
	base := lipgloss.NewStyle().Background(bg)
	fg := func(c string) lipgloss.Style {
		return base.Foreground(lipgloss.Color(c))
	}
	return palette{
		base:     base,
		grid:     fg(blend(t.Colors.Background, t.Colors.Grid, 0.6)),
		node:     fg(t.Colors.Node.Default),
		nodeSel:  fg(t.Colors.Node.Selected).Bold(true),
		edge:     fg(t.Colors.Edge.Default),
		edgeSel:  fg(t.Colors.Edge.Selected).Bold(true),
		label:    fg(firstNonEmpty(t.Styles.Node.FontColor, t.Colors.Node.Default)),
		viewport: fg(t.Colors.Node.Hover),
		cursor:   lipgloss.NewStyle().Reverse(true),
		status:   lipgloss.NewStyle().Foreground(lipgloss.Color(t.Colors.Node.Default)),
		errStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("#dc2626")).Bold(true),
		panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(t.Colors.Edge.Default)).
			Padding(0, 1),
	}
}

// blend mixes two hex colors in Lab space; t=0 is a.
func blend(a, b string, t float64) string {
	ca, err1 := colorful.Hex(a)
	cb, err2 := colorful.Hex(b)
	if err1 != nil || err2 != nil {
		return b
	}
	return ca.BlendLab(cb, t).Clamped().Hex()
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func (p palette) styleFor(c scene.FrameCell) lipgloss.Style {
	switch c.Mark {
	case scene.MarkGrid:
		return p.grid
	case scene.MarkEdge, scene.MarkArrow:
		if c.Selected {
			return p.edgeSel
		}
		return p.edge
	case scene.MarkVertex:
		if c.Selected {
			return p.nodeSel
		}
		return p.node
	case scene.MarkLabel:
		if c.Selected {
			return p.nodeSel
		}
		return p.label
	case scene.MarkViewport:
		return p.viewport
	}
	return p.base
}

// paint styles a frame row by row, joining runs of cells that share a
// style so each run is rendered once.
func (p palette) paint(f *scene.Frame, cursorX, cursorY int, showCursor bool) []string {
	lines := make([]string, f.Height)
	for y, row := range f.Cells {
		var b strings.Builder
		var run []rune
		var runStyle lipgloss.Style
		runKey := -1
		flush := func() {
			if len(run) > 0 {
				b.WriteString(runStyle.Render(string(run)))
				run = run[:0]
			}
		}
		for x, c := range row {
			key := int(c.Mark) << 1
			if c.Selected {
				key |= 1
			}
			style := p.styleFor(c)
			if showCursor && x == cursorX && y == cursorY {
				key = -2
				style = p.cursor
			}
			if key != runKey {
				flush()
				runKey, runStyle = key, style
			}
			run = append(run, c.Rune)
		}
		flush()
		lines[y] = b.String()
	}
	return lines
}

func (m *Model) View() string {
	if m.help {
		return m.helpView()
	}
	pal := newPalette(m.store.Theme())
	w, h := m.canvasSize()
	frame := m.graph.Render(w, h, m.renderOptions())
	showCursor := m.mode != ModeFileInput && m.mode != ModeConfirm
	canvas := strings.Join(pal.paint(frame, m.cursorX, m.cursorY, showCursor), "\n")

	if m.sidePanelVisible() {
		canvas = lipgloss.JoinHorizontal(lipgloss.Top, canvas, m.sidePanel(pal, w, h))
	}
	return canvas + "\n" + m.statusLine(pal)
}

func (m *Model) sidePanel(pal palette, canvasW, canvasH int) string {
	s := m.store.Settings()
	inner := sidePanelWidth - 4
	var blocks []string
	if s.ShowProperties {
		blocks = append(blocks, pal.panel.Width(inner).Render(strings.Join(m.properties(pal, inner), "\n")))
	}
	if s.ShowMinimap {
		mini := m.graph.RenderMinimap(inner, minimapHeight, canvasW, canvasH)
		blocks = append(blocks, pal.panel.Width(inner).Render(strings.Join(pal.paint(mini, -1, -1, false), "\n")))
	}
	panel := lipgloss.JoinVertical(lipgloss.Left, blocks...)
	return lipgloss.NewStyle().MaxHeight(canvasH).Render(panel)
}

func (m *Model) properties(pal palette, width int) []string {
	meta := m.store.Metadata()
	hist := m.store.History()
	vp := m.store.Viewport()
	lines := []string{
		truncate(meta.Name, width),
		fmt.Sprintf("Shapes %d  Links %d", len(m.store.Nodes()), len(m.store.Edges())),
		fmt.Sprintf("Zoom %d%%  Tool %s", int(vp.Scale*100+0.5), m.store.SelectedTool()),
		fmt.Sprintf("History %d/%d", hist.Index+1, hist.Len),
		"",
	}

	sel := m.store.Selection()
	switch len(sel) {
	case 0:
		lines = append(lines, "Diagram")
	case 1:
		cell, ok := m.store.GetCellByID(sel[0])
		if !ok {
			return lines
		}
		if n := cell.Node; n != nil {
			lines = append(lines, "Shape "+shortID(n.ID))
		} else {
			e := cell.Edge
			lines = append(lines,
				"Link  "+shortID(e.ID),
				"From  "+m.nodeLabel(e.Source, width-6),
				"To    "+m.nodeLabel(e.Target, width-6),
			)
		}
	default:
		return append(lines, fmt.Sprintf("%d cells selected", len(sel)))
	}

	for i, f := range m.propFields() {
		value := strings.ReplaceAll(f.value, "\n", "⏎")
		active := m.mode == ModeProperties && i == m.propIndex
		if active && m.propEditing {
			value = m.input + "█"
		}
		if value == "" {
			value = "-"
		}
		line := truncate(fmt.Sprintf("%-8s %s", f.label, value), width)
		if active {
			line = pal.cursor.Render(line)
		}
		lines = append(lines, line)
	}
	return lines
}

func (m *Model) nodeLabel(id string, width int) string {
	if c, ok := m.store.GetCellByID(id); ok && c.Node != nil {
		return truncate(strings.ReplaceAll(c.Node.Value, "\n", " "), width)
	}
	return shortID(id)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func truncate(s string, width int) string {
	r := []rune(s)
	if width <= 0 || len(r) <= width {
		return s
	}
	if width == 1 {
		return "…"
	}
	return string(r[:width-1]) + "…"
}

func (m *Model) statusLine(pal palette) string {
	var status string
	switch m.mode {
	case ModeEditing:
		status = fmt.Sprintf("Mode: EDIT | %s | Enter=save, Ctrl+J=newline, Ctrl+V=paste, Esc=cancel", m.editDisplay())
	case ModeMove:
		status = "Mode: MOVE | hjkl/arrows=move, Enter=finish, Esc=cancel"
	case ModeResize:
		status = "Mode: RESIZE | hjkl/arrows=resize, Enter=finish, Esc=cancel"
	case ModeConnect:
		kind := "arrow"
		if m.connectTool == store.ToolLine {
			kind = "line"
		}
		status = fmt.Sprintf("Mode: CONNECT | %s from %s | move to a shape, a/Enter=connect, Esc=cancel", kind, m.nodeLabel(m.connectFrom, 20))
	case ModeFileInput:
		status = fmt.Sprintf("Mode: FILE | %s filename: %s█ | Enter=confirm, Esc=cancel", m.fileOp, m.input)
	case ModeConfirm:
		status = "Mode: CONFIRM | " + m.confirmQuestion()
	case ModeProperties:
		status = m.propStatus()
	default:
		mode := m.mode.String()
		if m.panMode {
			mode = "PAN"
		}
		name := m.store.Metadata().Name
		if m.filename != "" {
			name = m.filename
		}
		if m.dirty() {
			name += "*"
		}
		status = fmt.Sprintf("Mode: %s | Cursor: (%d,%d) | %s", mode, m.cursorX, m.cursorY, name)
		if m.message != "" {
			status += " | " + m.message
		} else if m.store.Err() == nil {
			status += " | ? for help | q to quit"
		}
	}
	if err := m.store.Err(); err != nil {
		status += " | " + pal.errStyle.Render("ERROR: "+err.Error())
	}
	return pal.status.Render(truncate(status, max(m.width, 1)))
}

func (m *Model) propStatus() string {
	fields := m.propFields()
	if len(fields) == 0 {
		return "Mode: PROPS"
	}
	f := fields[min(m.propIndex, len(fields)-1)]
	if m.propEditing {
		return fmt.Sprintf("Mode: PROPS | %s: %s█ | Enter=apply, Ctrl+U=clear, Esc=cancel", f.label, m.input)
	}
	status := fmt.Sprintf("Mode: PROPS | %s | j/k=field, Enter=edit, Esc=done", f.label)
	if m.message != "" {
		status += " | " + m.message
	}
	return status
}

func (m *Model) editDisplay() string {
	text := []rune(strings.ReplaceAll(string(m.editText), "\n", "⏎"))
	if m.editCursor >= len(text) {
		return string(text) + "█"
	}
	text[m.editCursor] = '█'
	return string(text)
}

func (m *Model) confirmQuestion() string {
	switch m.confirm {
	case ConfirmDelete:
		return fmt.Sprintf("Delete %d selected cells? (y/n)", len(m.store.Selection()))
	case ConfirmQuit:
		return "Quit with unsaved changes? (y/n)"
	case ConfirmNewDiagram:
		return "Start a new diagram? Unsaved changes will be lost. (y/n)"
	case ConfirmOverwriteFile:
		return fmt.Sprintf("File %s already exists. Overwrite? (y/n)", m.pendingPath)
	}
	return "(y/n)"
}

var helpLines = []string{
	"flowdraw help",
	"=============",
	"",
	"Navigation:",
	"  h/j/k/l, arrows  Move the cursor (Shift moves 2x faster)",
	"  z                Toggle pan mode; direction keys then move the view",
	"  +/- 0 f          Zoom in, zoom out, reset zoom, zoom to fit",
	"  mouse wheel      Zoom",
	"",
	"Shapes:",
	"  b                Rectangle at the cursor",
	"  O                Oval at the cursor",
	"  D                Diamond at the cursor",
	"  t                Text label at the cursor (starts editing)",
	"  e                Edit the label under the cursor",
	"  m                Move the selection (hjkl, Enter to drop, Esc to cancel)",
	"  r                Resize the shape under the cursor",
	"  mouse drag       Move shapes",
	"",
	"Connections:",
	"  a                Arrow from the shape under the cursor; press a again on the target",
	"  A                Same, as a plain line",
	"",
	"Selection and clipboard:",
	"  Enter/Space      Select the shape under the cursor (empty space clears)",
	"  v                Add or remove the shape under the cursor",
	"  Ctrl+A           Select everything",
	"  d                Delete the selection",
	"  c / x / p        Copy, cut, paste",
	"  y                Copy the label under the cursor to the system clipboard",
	"  u / U            Undo, redo",
	"",
	"View:",
	"  g / G            Toggle grid, toggle snap to grid",
	"  P / M            Toggle properties panel, minimap",
	"  i                Edit properties of the selected cell, or of the diagram",
	"                   when nothing is selected (j/k pick, Enter edits or toggles)",
	"  T                Next theme",
	"",
	"Files:",
	"  s / S            Save, save as (.json or .yaml)",
	"  o                Open a diagram, or import a legacy FLOWCHART .txt",
	"  n                New diagram",
	"  E / X            Export PNG, export text",
	"",
	"Label editing:",
	"  Enter saves, Ctrl+J inserts a newline, Ctrl+V pastes, Esc cancels",
	"",
	"  ?                Toggle this help",
	"  q / Ctrl+C       Quit",
}

func (m *Model) helpView() string {
	visible := max(m.height-1, 1)
	start := min(m.helpScroll, max(len(helpLines)-visible, 0))
	end := min(start+visible, len(helpLines))
	return strings.Join(helpLines[start:end], "\n") +
		fmt.Sprintf("\nHelp (%d-%d of %d lines) | j/k to scroll, Esc to close", start+1, end, len(helpLines))
}
