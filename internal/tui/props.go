package tui

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/lucasb-eyer/go-colorful"

	"flowdraw/internal/diagram"
)

// propField is one editable row of the properties panel.
type propField struct {
	label string
	value string
	// toggle fields flip on Enter instead of opening the input.
	toggle bool
	apply  func(input string) error
}

// propFields lists the fields of the single selected cell, or the diagram
// settings when nothing is selected.
func (m *Model) propFields() []propField {
	sel := m.store.Selection()
	switch len(sel) {
	case 0:
		return m.settingsFields()
	case 1:
		cell, ok := m.store.GetCellByID(sel[0])
		if !ok {
			return nil
		}
		if cell.Node != nil {
			return m.nodeFields(*cell.Node)
		}
		return m.edgeFields(*cell.Edge)
	}
	return nil
}

func (m *Model) nodeFields(n diagram.Node) []propField {
	update := func(p diagram.NodePatch) error {
		m.store.UpdateNode(n.ID, p)
		return nil
	}
	number := func(positive bool, set func(p *diagram.NodePatch, v float64)) func(string) error {
		return func(in string) error {
			v, err := parseNumber(in, positive)
			if err != nil {
				return err
			}
			var p diagram.NodePatch
			set(&p, v)
			return update(p)
		}
	}
	style := func(edit func(s *diagram.NodeStyle, in string) error) func(string) error {
		return func(in string) error {
			s := n.Style.Clone()
			if err := edit(&s, strings.TrimSpace(in)); err != nil {
				return err
			}
			return update(diagram.NodePatch{Style: &s})
		}
	}
	opacity := 1.0
	if n.Style.Opacity != nil {
		opacity = *n.Style.Opacity
	}

	return []propField{
		{label: "Label", value: n.Value, apply: func(in string) error {
			return update(diagram.NodePatch{Value: &in})
		}},
		{label: "Shape", value: string(n.Style.ShapeOrDefault()), apply: style(func(s *diagram.NodeStyle, in string) error {
			shape := diagram.Shape(strings.ToLower(in))
			if !shape.Valid() {
				return fmt.Errorf("unknown shape %q", in)
			}
			s.Shape = shape
			return nil
		})},
		{label: "X", value: formatNumber(n.X), apply: number(false, func(p *diagram.NodePatch, v float64) { p.X = &v })},
		{label: "Y", value: formatNumber(n.Y), apply: number(false, func(p *diagram.NodePatch, v float64) { p.Y = &v })},
		{label: "Width", value: formatNumber(n.Width), apply: number(true, func(p *diagram.NodePatch, v float64) { p.Width = &v })},
		{label: "Height", value: formatNumber(n.Height), apply: number(true, func(p *diagram.NodePatch, v float64) { p.Height = &v })},
		{label: "Rotation", value: formatNumber(n.Style.Rotation), apply: style(func(s *diagram.NodeStyle, in string) error {
			v, err := parseNumber(in, false)
			s.Rotation = v
			return err
		})},
		{label: "Fill", value: n.Style.FillColor, apply: style(func(s *diagram.NodeStyle, in string) (err error) {
			s.FillColor, err = parseColor(in)
			return err
		})},
		{label: "Stroke", value: n.Style.StrokeColor, apply: style(func(s *diagram.NodeStyle, in string) (err error) {
			s.StrokeColor, err = parseColor(in)
			return err
		})},
		{label: "Opacity", value: formatNumber(opacity), apply: style(func(s *diagram.NodeStyle, in string) error {
			v, err := parseNumber(in, false)
			if err != nil {
				return err
			}
			if v < 0 || v > 1 {
				return errors.New("opacity must be between 0 and 1")
			}
			s.Opacity = diagram.Ptr(v)
			return nil
		})},
		{label: "FontSize", value: formatNumber(n.Style.FontSize), apply: style(func(s *diagram.NodeStyle, in string) error {
			v, err := parseNumber(in, true)
			s.FontSize = v
			return err
		})},
		{label: "Font", value: n.Style.FontFamily, apply: style(func(s *diagram.NodeStyle, in string) error {
			s.FontFamily = in
			return nil
		})},
		{label: "Weight", value: n.Style.FontWeight, apply: style(func(s *diagram.NodeStyle, in string) error {
			in = strings.ToLower(in)
			if in != "" && in != "normal" && in != "bold" {
				return fmt.Errorf("font weight %q is neither normal nor bold", in)
			}
			s.FontWeight = in
			return nil
		})},
	}
}

func (m *Model) edgeFields(e diagram.Edge) []propField {
	style := func(edit func(s *diagram.EdgeStyle, in string) error) func(string) error {
		return func(in string) error {
			s := e.Style.Clone()
			if err := edit(&s, strings.TrimSpace(in)); err != nil {
				return err
			}
			m.store.UpdateEdge(e.ID, diagram.EdgePatch{Style: &s})
			return nil
		}
	}
	arrow := string(diagram.ArrowNone)
	if e.Style.HasEndArrow() {
		arrow = string(diagram.ArrowBlock)
	}

	return []propField{
		{label: "Line", value: e.Style.LineColor, apply: style(func(s *diagram.EdgeStyle, in string) (err error) {
			s.LineColor, err = parseColor(in)
			return err
		})},
		{label: "Dashed", value: onOff(e.Style.Dashed), toggle: true, apply: style(func(s *diagram.EdgeStyle, _ string) error {
			s.Dashed = !s.Dashed
			return nil
		})},
		{label: "Arrow", value: arrow, toggle: true, apply: style(func(s *diagram.EdgeStyle, _ string) error {
			if s.HasEndArrow() {
				s.EndArrow = diagram.ArrowNone
			} else {
				s.EndArrow = diagram.ArrowBlock
			}
			return nil
		})},
	}
}

func (m *Model) settingsFields() []propField {
	st := m.store.Settings()
	update := func(p diagram.SettingsPatch) error {
		m.store.UpdateSettings(p)
		return nil
	}

	return []propField{
		{label: "Theme", value: st.Theme, apply: func(in string) error {
			in = strings.TrimSpace(in)
			if !slices.Contains(m.store.ThemeNames(), in) {
				return fmt.Errorf("unknown theme %q", in)
			}
			return update(diagram.SettingsPatch{Theme: &in})
		}},
		{label: "Grid", value: strconv.Itoa(st.GridSize), apply: func(in string) error {
			n, err := strconv.Atoi(strings.TrimSpace(in))
			if err != nil || n <= 0 {
				return fmt.Errorf("grid size %q is not a positive whole number", in)
			}
			return update(diagram.SettingsPatch{GridSize: &n})
		}},
		{label: "ShowGrid", value: onOff(st.ShowGrid), toggle: true, apply: func(string) error {
			return update(diagram.SettingsPatch{ShowGrid: diagram.Ptr(!st.ShowGrid)})
		}},
		{label: "Snap", value: onOff(st.SnapToGrid), toggle: true, apply: func(string) error {
			return update(diagram.SettingsPatch{SnapToGrid: diagram.Ptr(!st.SnapToGrid)})
		}},
	}
}

func (m *Model) startProps() {
	if n := len(m.store.Selection()); n > 1 {
		m.setError(fmt.Errorf("%d cells selected, select one to edit its properties", n))
		return
	}
	if !m.store.Settings().ShowProperties {
		m.store.SetShowProperties(true)
		m.ensureCursorInBounds()
	}
	m.propIndex = 0
	m.propEditing = false
	m.input = ""
	m.mode = ModeProperties
}

// handlePropKey walks the field list and, once a field is opened, owns every
// key until the value is applied or abandoned.
func (m *Model) handlePropKey(msg tea.KeyMsg) tea.Cmd {
	fields := m.propFields()
	if len(fields) == 0 {
		m.mode = ModeNormal
		m.propEditing = false
		return nil
	}
	m.propIndex = min(m.propIndex, len(fields)-1)
	f := fields[m.propIndex]

	if m.propEditing {
		switch msg.Type {
		case tea.KeyEsc:
			m.propEditing = false
			m.store.SetError(nil)
		case tea.KeyEnter:
			if m.applyProp(f, m.input) {
				m.propEditing = false
			}
		case tea.KeyBackspace:
			if r := []rune(m.input); len(r) > 0 {
				m.input = string(r[:len(r)-1])
			}
		case tea.KeyCtrlU:
			m.input = ""
		case tea.KeySpace:
			m.input += " "
		case tea.KeyRunes:
			m.input += string(msg.Runes)
		}
		return nil
	}

	switch msg.String() {
	case "esc", "i", "q":
		m.mode = ModeNormal
	case "j", "down", "tab":
		m.propIndex = (m.propIndex + 1) % len(fields)
	case "k", "up", "shift+tab":
		m.propIndex = (m.propIndex - 1 + len(fields)) % len(fields)
	case "enter", " ":
		if f.toggle {
			m.applyProp(f, "")
			return nil
		}
		m.input = f.value
		m.propEditing = true
	}
	return nil
}

func (m *Model) applyProp(f propField, input string) bool {
	if err := f.apply(input); err != nil {
		m.setError(fmt.Errorf("%s: %w", strings.ToLower(f.label), err))
		return false
	}
	m.setMessage(f.label + " updated")
	return true
}

func parseNumber(in string, positive bool) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(in), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%q is not a number", in)
	}
	if positive && v <= 0 {
		return 0, fmt.Errorf("%s must be greater than zero", formatNumber(v))
	}
	return v, nil
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// parseColor accepts #rgb or #rrggbb; empty clears the color.
func parseColor(in string) (string, error) {
	if in == "" {
		return "", nil
	}
	if _, err := colorful.Hex(in); err != nil {
		return "", fmt.Errorf("%q is not a hex color", in)
	}
	return strings.ToLower(in), nil
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
