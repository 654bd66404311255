package store

import (
	"slices"

	"go.uber.org/zap"

	"flowdraw/internal/diagram"
)

// UpdateSettings merges p into the settings. A theme name that does not
// resolve is dropped from the patch.
func (s *Store) UpdateSettings(p diagram.SettingsPatch) {
	if p.Theme != nil {
		if _, ok := s.d.Themes[*p.Theme]; !ok {
			s.logger.Debug("unknown theme ignored", zap.String("theme", *p.Theme))
			p.Theme = nil
		}
	}
	if !p.Apply(&s.d.Settings) {
		return
	}
	s.touch()
	s.emit(ChangeSettings | ChangeMetadata)
}

func (s *Store) Settings() diagram.Settings {
	return s.d.Settings
}

func (s *Store) SetShowGrid(show bool) {
	s.UpdateSettings(diagram.SettingsPatch{ShowGrid: &show})
}

func (s *Store) SetShowMinimap(show bool) {
	s.UpdateSettings(diagram.SettingsPatch{ShowMinimap: &show})
}

func (s *Store) SetShowProperties(show bool) {
	s.UpdateSettings(diagram.SettingsPatch{ShowProperties: &show})
}

func (s *Store) SetSnapToGrid(snap bool) {
	s.UpdateSettings(diagram.SettingsPatch{SnapToGrid: &snap})
}

// SetTheme activates a theme by name; unknown names are ignored.
func (s *Store) SetTheme(name string) {
	if _, ok := s.d.Themes[name]; !ok {
		return
	}
	s.UpdateSettings(diagram.SettingsPatch{Theme: &name})
}

// AddTheme inserts or replaces a theme.
func (s *Store) AddTheme(name string, theme diagram.Theme) {
	if name == "" {
		return
	}
	if theme.Name == "" {
		theme.Name = name
	}
	if s.d.Themes == nil {
		s.d.Themes = make(map[string]diagram.Theme)
	}
	s.d.Themes[name] = theme.Clone()
	s.touch()
	s.emit(ChangeThemes | ChangeMetadata)
}

// Theme returns the active theme.
func (s *Store) Theme() diagram.Theme {
	if t, ok := s.d.Themes[s.d.Settings.Theme]; ok {
		return t.Clone()
	}
	return diagram.BuiltinThemes()[diagram.DefaultThemeName]
}

// ThemeNames lists the available themes in a stable order.
func (s *Store) ThemeNames() []string {
	names := make([]string, 0, len(s.d.Themes))
	for name := range s.d.Themes {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
