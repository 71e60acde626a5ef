package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/mrossi/glowdesk/internal/store"
)

type settingsModel struct {
	store  *store.Store
	width  int
	height int

	settings store.Settings
	types    []store.TreatmentType
	cursor   int // over treatment types

	formActive bool
	form       *huh.Form
	formType   string // "prefs", "type", "edit_type"

	// Form values as pointers (survive value copies)
	sounds    *bool
	vibration *bool
	darkTheme *bool
	typeName  *string
	typeDesc  *string

	editingID string
}

func newSettingsModel(s *store.Store) settingsModel {
	so, vi, dk := false, false, false
	tn, td := "", ""
	return settingsModel{
		store:     s,
		sounds:    &so,
		vibration: &vi,
		darkTheme: &dk,
		typeName:  &tn,
		typeDesc:  &td,
	}
}

func (s *settingsModel) setSize(w, h int) {
	s.width = w
	s.height = h
}

func (s settingsModel) capturing() bool {
	return s.formActive
}

type settingsDataMsg struct {
	settings store.Settings
	types    []store.TreatmentType
}

func (s settingsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		return settingsDataMsg{
			settings: s.store.Settings(),
			types:    s.store.TreatmentTypes(),
		}
	}
}

func (s settingsModel) update(msg tea.Msg) (settingsModel, tea.Cmd) {
	if s.formActive && s.form != nil {
		return s.updateForm(msg)
	}

	switch msg := msg.(type) {
	case settingsDataMsg:
		s.settings = msg.settings
		s.types = msg.types
		if s.cursor >= len(s.types) {
			s.cursor = max(0, len(s.types)-1)
		}
		return s, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			if s.cursor > 0 {
				s.cursor--
			}
		case key.Matches(msg, keys.Down):
			if s.cursor < len(s.types)-1 {
				s.cursor++
			}
		case key.Matches(msg, keys.Enter):
			return s.showPrefsForm()
		case key.Matches(msg, keys.New):
			return s.showTypeForm(store.TreatmentType{}, false)
		case key.Matches(msg, keys.Edit):
			if s.cursor < len(s.types) {
				return s.showTypeForm(s.types[s.cursor], true)
			}
		case key.Matches(msg, keys.Delete):
			if s.cursor < len(s.types) {
				id := s.types[s.cursor].ID
				return s, func() tea.Msg {
					if err := s.store.DeleteTreatmentType(id); err != nil {
						return statusMsg{text: fmt.Sprintf("Delete error: %v", err), isError: true}
					}
					return clientsChangedMsg{}
				}
			}
		case key.Matches(msg, keys.Sort):
			return s, s.seed()
		}
	}
	return s, nil
}

func (s settingsModel) seed() tea.Cmd {
	return func() tea.Msg {
		if err := s.store.Seed(); err != nil {
			return statusMsg{text: fmt.Sprintf("Seed error: %v", err), isError: true}
		}
		return clientsChangedMsg{}
	}
}

func (s settingsModel) showPrefsForm() (settingsModel, tea.Cmd) {
	*s.sounds = s.settings.Sounds
	*s.vibration = s.settings.Vibration
	*s.darkTheme = s.settings.DarkTheme
	s.formType = "prefs"

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().Title("Notification sounds").Value(s.sounds),
			huh.NewConfirm().Title("Vibration").Value(s.vibration),
			huh.NewConfirm().Title("Dark theme").Value(s.darkTheme),
		).Title("Preferences"),
	).WithShowHelp(true).WithShowErrors(true)

	s.formActive = true
	return s, s.form.Init()
}

func (s settingsModel) showTypeForm(tt store.TreatmentType, editing bool) (settingsModel, tea.Cmd) {
	*s.typeName = tt.Name
	*s.typeDesc = tt.DefaultDescription
	if editing {
		s.formType = "edit_type"
		s.editingID = tt.ID
	} else {
		s.formType = "type"
	}

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Name").Value(s.typeName).
				Validate(func(v string) error {
					if strings.TrimSpace(v) == "" {
						return errors.New("name is required")
					}
					return nil
				}),
			huh.NewText().Title("Default description").Value(s.typeDesc).Lines(3),
		),
	).WithShowHelp(true).WithShowErrors(true)

	s.formActive = true
	return s, s.form.Init()
}

func (s settingsModel) updateForm(msg tea.Msg) (settingsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			s.formActive = false
			s.form = nil
			return s, nil
		}
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if s.form.State == huh.StateCompleted {
		s.formActive = false
		switch s.formType {
		case "prefs":
			return s, s.savePrefs()
		case "type":
			name, desc := *s.typeName, *s.typeDesc
			return s, func() tea.Msg {
				if _, err := s.store.AddTreatmentType(store.TreatmentType{Name: name, DefaultDescription: desc}); err != nil {
					return statusMsg{text: fmt.Sprintf("Save error: %v", err), isError: true}
				}
				return clientsChangedMsg{}
			}
		case "edit_type":
			name, desc := *s.typeName, *s.typeDesc
			id := s.editingID
			return s, func() tea.Msg {
				patch := store.TreatmentTypePatch{Name: &name, DefaultDescription: &desc}
				if _, err := s.store.UpdateTreatmentType(id, patch); err != nil {
					return statusMsg{text: fmt.Sprintf("Save error: %v", err), isError: true}
				}
				return clientsChangedMsg{}
			}
		}
	}

	return s, cmd
}

func (s settingsModel) savePrefs() tea.Cmd {
	sounds, vibration, dark := *s.sounds, *s.vibration, *s.darkTheme
	return func() tea.Msg {
		patch := store.SettingsPatch{Sounds: &sounds, Vibration: &vibration, DarkTheme: &dark}
		if _, err := s.store.UpdateSettings(patch); err != nil {
			return statusMsg{text: fmt.Sprintf("Save error: %v", err), isError: true}
		}
		return themeChangedMsg{dark: dark}
	}
}

func (s settingsModel) view() string {
	w := s.width - 4

	if s.formActive && s.form != nil {
		title := titleStyle.Render("Settings")
		if s.formType == "type" {
			title = titleStyle.Render("New Treatment Type")
		} else if s.formType == "edit_type" {
			title = titleStyle.Render("Edit Treatment Type")
		}
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", s.form.View()),
		)
	}

	var rows []string
	rows = append(rows, titleStyle.Render("Settings"))
	rows = append(rows, "")
	rows = append(rows, "  "+prefRow("Notification sounds", s.settings.Sounds))
	rows = append(rows, "  "+prefRow("Vibration", s.settings.Vibration))
	rows = append(rows, "  "+prefRow("Dark theme", s.settings.DarkTheme))
	rows = append(rows, "")
	rows = append(rows, titleStyle.Render(fmt.Sprintf("Treatment types (%d)", len(s.types))))

	if len(s.types) == 0 {
		rows = append(rows, mutedStyle.Render("  No types yet. Press n to add one, s to load samples."))
	} else {
		for i, tt := range s.types {
			cursor := "  "
			style := normalItemStyle
			if i == s.cursor {
				cursor = "> "
				style = selectedItemStyle
			}
			desc := ""
			if tt.DefaultDescription != "" {
				desc = mutedStyle.Render("  " + tt.DefaultDescription)
			}
			rows = append(rows, style.Render(cursor+tt.Name)+desc)
		}
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  enter: preferences  n: new type  e: rename  d: delete  s: sample data"))

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func prefRow(label string, on bool) string {
	l := lipgloss.NewStyle().Width(24).Render(label)
	v := errorStyle.Render("off")
	if on {
		v = successStyle.Render("on")
	}
	return fmt.Sprintf("%s %s", l, v)
}
