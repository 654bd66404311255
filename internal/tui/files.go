package tui

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"flowdraw/internal/diagram"
	"flowdraw/internal/fileio"
	"flowdraw/internal/scene"
)

type autosaveMsg time.Time

func (m *Model) askFile(op FileOperation) {
	m.fileOp = op
	m.input = ""
	if op == FileOpSave && m.filename != "" {
		m.input = m.filename
	}
	m.mode = ModeFileInput
}

func (m *Model) handleFileKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEsc:
		m.mode = ModeNormal
		m.store.SetError(nil)
	case tea.KeyEnter:
		m.submitFile()
	case tea.KeyBackspace:
		if r := []rune(m.input); len(r) > 0 {
			m.input = string(r[:len(r)-1])
		}
	case tea.KeySpace:
		m.input += " "
	case tea.KeyRunes:
		m.input += string(msg.Runes)
	}
	return nil
}

// defaultExt is appended when the typed name has no extension.
func (op FileOperation) defaultExt() string {
	switch op {
	case FileOpExportPNG:
		return ".png"
	case FileOpExportText:
		return ".txt"
	default:
		return ".json"
	}
}

func (m *Model) submitFile() {
	name := strings.TrimSpace(m.input)
	if name == "" {
		m.setError(errors.New("enter a file name"))
		return
	}
	if filepath.Ext(name) == "" {
		name += m.fileOp.defaultExt()
	}
	path := m.cfg.SavePath(name)

	if m.fileOp != FileOpOpen && path != m.filename {
		if _, err := os.Stat(path); err == nil && m.cfg.Editor.Confirmations {
			m.pendingPath = path
			m.askConfirm(ConfirmOverwriteFile)
			return
		}
	}
	m.runFileOp(path)
}

// runFileOp leaves file input mode on success and stays in it on failure so
// the name can be corrected.
func (m *Model) runFileOp(path string) {
	var ok bool
	switch m.fileOp {
	case FileOpSave:
		ok = m.saveTo(path)
	case FileOpOpen:
		ok = m.open(path)
	case FileOpExportPNG:
		ok = m.exportPNG(path)
	case FileOpExportText:
		ok = m.exportText(path)
	}
	if ok {
		m.mode = ModeNormal
	} else {
		m.mode = ModeFileInput
	}
}

func (m *Model) saveTo(path string) bool {
	if err := fileio.Save(path, m.store.ExportDiagram()); err != nil {
		m.setError(err)
		return false
	}
	m.filename = path
	m.markSaved()
	m.setMessage("Saved " + filepath.Base(path))
	m.logger.Info("saved", zap.String("path", path))
	return true
}

// open loads a diagram document, or imports a legacy FLOWCHART .txt file.
// Imports are not bound to their source file so a save asks for a new name.
func (m *Model) open(path string) bool {
	m.store.SetLoading(true)
	defer m.store.SetLoading(false)

	var d *diagram.Diagram
	var err error
	if strings.EqualFold(filepath.Ext(path), ".txt") {
		d, err = fileio.ImportFlowchartFile(path, nil)
	} else {
		d, err = fileio.Load(path)
	}
	if errors.Is(err, fs.ErrNotExist) {
		err = fmt.Errorf("%s does not exist", path)
	}
	if err != nil {
		m.setError(err)
		return false
	}

	m.store.LoadDiagram(d)
	m.filename = path
	if strings.EqualFold(filepath.Ext(path), ".txt") {
		m.filename = ""
	}
	m.markSaved()
	m.cursorX, m.cursorY = 0, 0
	m.setMessage("Opened " + filepath.Base(path))
	return true
}

func (m *Model) exportPNG(path string) bool {
	if err := fileio.ExportPNG(path, m.store.ExportDiagram()); err != nil {
		m.setError(err)
		return false
	}
	m.setMessage("Exported " + filepath.Base(path))
	return true
}

func (m *Model) exportText(path string) bool {
	w, h := m.canvasSize()
	frame := m.graph.Render(w, h, m.renderOptions())
	if err := fileio.ExportText(path, frame.Lines()); err != nil {
		m.setError(err)
		return false
	}
	m.setMessage("Exported " + filepath.Base(path))
	return true
}

func (m *Model) newDiagram() {
	m.store.ClearDiagram()
	m.store.UpdateSettings(settingsPatch(m.cfg.Settings()))
	m.filename = ""
	m.markSaved()
	m.cursorX, m.cursorY = 0, 0
}

func settingsPatch(s diagram.Settings) diagram.SettingsPatch {
	return diagram.SettingsPatch{
		ShowGrid:         &s.ShowGrid,
		ShowMinimap:      &s.ShowMinimap,
		ShowProperties:   &s.ShowProperties,
		SnapToGrid:       &s.SnapToGrid,
		GridSize:         &s.GridSize,
		Theme:            &s.Theme,
		AutoSave:         &s.AutoSave,
		AutoSaveInterval: &s.AutoSaveInterval,
	}
}

func (m *Model) autosaveTick() tea.Cmd {
	interval := time.Duration(m.store.Settings().AutoSaveInterval) * time.Millisecond
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return tea.Tick(interval, func(t time.Time) tea.Msg { return autosaveMsg(t) })
}

// autosave writes the bound file when autosave is on and something changed.
func (m *Model) autosave() {
	if !m.store.Settings().AutoSave || m.filename == "" || !m.dirty() || m.mode != ModeNormal {
		return
	}
	if err := fileio.Save(m.filename, m.store.ExportDiagram()); err != nil {
		m.setError(fmt.Errorf("autosave: %w", err))
		return
	}
	m.markSaved()
	m.logger.Debug("autosaved", zap.String("path", m.filename))
}

func (m *Model) renderOptions() scene.RenderOptions {
	s := m.store.Settings()
	return scene.RenderOptions{ShowGrid: s.ShowGrid, GridSize: s.GridSize}
}
