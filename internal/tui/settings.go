package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/blossom/internal/store"
	"github.com/sadopc/blossom/internal/todo"
)

type settingsModel struct {
	store  *store.Store
	width  int
	height int

	settings   []store.Setting
	formActive bool
	form       *huh.Form

	// Form values as pointers (survive value copies)
	defaultCategory *string
	defaultSection  *string
	filter          *string
}

func newSettingsModel(s *store.Store) settingsModel {
	dc, ds, f := "", "", ""
	return settingsModel{
		store:           s,
		defaultCategory: &dc,
		defaultSection:  &ds,
		filter:          &f,
	}
}

func (s *settingsModel) setSize(w, h int) {
	s.width = w
	s.height = h
}

type settingsDataMsg struct {
	settings []store.Setting
}

type settingsSavedMsg struct{}

func (s settingsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		settings, _ := s.store.GetAllSettings()
		return settingsDataMsg{settings: settings}
	}
}

func (s settingsModel) update(msg tea.Msg) (settingsModel, tea.Cmd) {
	if s.formActive && s.form != nil {
		return s.updateForm(msg)
	}

	switch msg := msg.(type) {
	case settingsDataMsg:
		s.settings = msg.settings
		return s, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Enter), key.Matches(msg, keys.New):
			return s.showForm()
		}
	}
	return s, nil
}

func (s settingsModel) showForm() (settingsModel, tea.Cmd) {
	*s.defaultCategory = s.store.SettingOr(store.SettingDefaultCategory, string(todo.CategoryImportant))
	*s.defaultSection = s.store.SettingOr(store.SettingDefaultSection, string(todo.SectionHousekeeping))
	*s.filter = s.store.SettingOr(store.SettingFilter, string(todo.FilterAll))

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().Title("Default category").Options(categoryOptions()...).Value(s.defaultCategory),
			huh.NewSelect[string]().Title("Default section").Options(sectionOptions()...).Value(s.defaultSection),
		).Title("New tasks"),
		huh.NewGroup(
			huh.NewSelect[string]().Title("Show").Options(filterOptions()...).Value(s.filter),
		).Title("Task list"),
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
		if err := s.saveSettings(); err != nil {
			return s, statusCmd(fmt.Sprintf("Settings not saved: %v", err), true)
		}
		return s, tea.Batch(s.refresh(), func() tea.Msg { return settingsSavedMsg{} })
	}

	return s, cmd
}

func (s settingsModel) saveSettings() error {
	values := []store.Setting{
		{Key: store.SettingDefaultCategory, Value: *s.defaultCategory},
		{Key: store.SettingDefaultSection, Value: *s.defaultSection},
		{Key: store.SettingFilter, Value: *s.filter},
	}
	for _, v := range values {
		if err := s.store.SetSetting(v.Key, v.Value); err != nil {
			return err
		}
	}
	return nil
}

func (s settingsModel) view() string {
	w := s.width - 4
	title := titleStyle.Render("Settings")

	if s.formActive && s.form != nil {
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", s.form.View()),
		)
	}

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")

	for _, setting := range s.settings {
		label := lipgloss.NewStyle().Width(24).Render(setting.Key)
		value := highlightStyle.Render(formatSettingValue(setting.Key, setting.Value))
		rows = append(rows, fmt.Sprintf("  %s %s", label, value))
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("Press enter to edit settings"))

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func formatSettingValue(k, v string) string {
	switch k {
	case store.SettingDefaultCategory:
		return todo.Category(v).Label()
	case store.SettingDefaultSection:
		return todo.Section(v).Label()
	case store.SettingFilter:
		return filterLabel(todo.Filter(v))
	}
	return v
}
