package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

func (m *Model) startEdit(id, text string) {
	m.editID = id
	m.editText = []rune(text)
	m.editCursor = len(m.editText)
	m.mode = ModeEditing
}

// handleEditKey owns every key while a label is being edited, so editor
// shortcuts never fire from inside a label.
func (m *Model) handleEditKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEsc:
		m.finishEdit(false)
	case tea.KeyEnter:
		m.finishEdit(true)
	case tea.KeyCtrlJ:
		m.insert([]rune{'\n'})
	case tea.KeyBackspace:
		if m.editCursor > 0 {
			m.editText = append(m.editText[:m.editCursor-1], m.editText[m.editCursor:]...)
			m.editCursor--
		}
	case tea.KeyDelete:
		if m.editCursor < len(m.editText) {
			m.editText = append(m.editText[:m.editCursor], m.editText[m.editCursor+1:]...)
		}
	case tea.KeyLeft:
		m.editCursor = max(m.editCursor-1, 0)
	case tea.KeyRight:
		m.editCursor = min(m.editCursor+1, len(m.editText))
	case tea.KeyHome, tea.KeyCtrlA:
		m.editCursor = 0
	case tea.KeyEnd, tea.KeyCtrlE:
		m.editCursor = len(m.editText)
	case tea.KeyCtrlV:
		text, err := readClipboardText()
		if err != nil {
			m.setError(fmt.Errorf("clipboard: %w", err))
			return nil
		}
		m.insert([]rune(cleanClipboardText(text)))
	case tea.KeySpace:
		m.insert([]rune{' '})
	case tea.KeyRunes:
		m.insert(msg.Runes)
	}
	return nil
}

func (m *Model) insert(r []rune) {
	text := make([]rune, 0, len(m.editText)+len(r))
	text = append(text, m.editText[:m.editCursor]...)
	text = append(text, r...)
	text = append(text, m.editText[m.editCursor:]...)
	m.editText = text
	m.editCursor += len(r)
}

// finishEdit commits through the widget so the change reaches the store the
// same way an in-place edit would.
func (m *Model) finishEdit(commit bool) {
	if commit {
		m.graph.SetValue(m.editID, string(m.editText))
	}
	m.editID = ""
	m.editText = nil
	m.editCursor = 0
	m.mode = ModeNormal
}
