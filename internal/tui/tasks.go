package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/sadopc/blossom/internal/persist"
	"github.com/sadopc/blossom/internal/store"
	"github.com/sadopc/blossom/internal/todo"
)

type tasksModel struct {
	store  *store.Store
	list   *todo.List
	bridge *persist.Bridge
	logger *log.Logger
	width  int
	height int

	tasks  []todo.Task
	filter todo.Filter
	cursor int // index into visible()

	formActive bool
	form       *huh.Form

	// Form field pointers (survive value copies)
	formText     *string
	formCategory *string
	formSection  *string
}

func newTasksModel(s *store.Store, list *todo.List, bridge *persist.Bridge, logger *log.Logger) tasksModel {
	text, cat, sec := "", string(todo.CategoryImportant), string(todo.SectionHousekeeping)
	return tasksModel{
		store:        s,
		list:         list,
		bridge:       bridge,
		logger:       logger,
		filter:       todo.FilterAll,
		formText:     &text,
		formCategory: &cat,
		formSection:  &sec,
	}
}

func (m *tasksModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

func (m tasksModel) refresh() tea.Cmd {
	return func() tea.Msg {
		return tasksDataMsg{
			tasks:  m.list.Snapshot(),
			filter: todo.Filter(m.store.SettingOr(store.SettingFilter, string(todo.FilterAll))),
		}
	}
}

// visible returns the filtered tasks in on-screen order: grouped by
// section, insertion order within a section.
func (m tasksModel) visible() []todo.Task {
	var out []todo.Task
	for _, g := range todo.GroupBySection(todo.FilterByStatus(m.tasks, m.filter)) {
		out = append(out, g.Tasks...)
	}
	return out
}

func (m tasksModel) selected() (todo.Task, bool) {
	rows := m.visible()
	if m.cursor < 0 || m.cursor >= len(rows) {
		return todo.Task{}, false
	}
	return rows[m.cursor], true
}

func (m *tasksModel) clampCursor() {
	if n := len(m.visible()); m.cursor >= n {
		m.cursor = max(0, n-1)
	}
}

func (m tasksModel) update(msg tea.Msg) (tasksModel, tea.Cmd) {
	if msg, ok := msg.(tasksDataMsg); ok {
		m.tasks = msg.tasks
		m.filter = msg.filter
		m.clampCursor()
		return m, nil
	}

	if m.formActive && m.form != nil {
		return m.updateForm(msg)
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		return m.updateList(msg)
	}
	return m, nil
}

func (m tasksModel) updateList(msg tea.KeyMsg) (tasksModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, keys.Down):
		if m.cursor < len(m.visible())-1 {
			m.cursor++
		}
	case key.Matches(msg, keys.New):
		return m.showNewTaskForm()
	case key.Matches(msg, keys.ToggleStarted):
		return m.toggle(todo.FieldStarted)
	case key.Matches(msg, keys.ToggleInProgress):
		return m.toggle(todo.FieldInProgress)
	case key.Matches(msg, keys.ToggleCompleted):
		return m.toggle(todo.FieldCompleted)
	case key.Matches(msg, keys.Delete):
		if t, ok := m.selected(); ok && m.list.Remove(t.ID) {
			m.logger.Debug("task removed", "id", t.ID)
			return m.mutated()
		}
	case key.Matches(msg, keys.Filter):
		m.filter = m.filter.Next()
		m.cursor = 0
		if err := m.store.SetSetting(store.SettingFilter, string(m.filter)); err != nil {
			return m, statusCmd(fmt.Sprintf("Filter not saved: %v", err), true)
		}
	}
	return m, nil
}

func (m tasksModel) toggle(f todo.Field) (tasksModel, tea.Cmd) {
	t, ok := m.selected()
	if !ok || !m.list.Toggle(t.ID, f) {
		return m, nil
	}
	m.logger.Debug("task toggled", "id", t.ID, "field", f)
	return m.mutated()
}

// mutated reloads the snapshot after a list change and surfaces a failed
// save on the status line.
func (m tasksModel) mutated() (tasksModel, tea.Cmd) {
	m.tasks = m.list.Snapshot()
	m.clampCursor()
	if err := m.bridge.Err(); err != nil {
		return m, statusCmd(fmt.Sprintf("Save failed: %v", err), true)
	}
	return m, nil
}

func (m tasksModel) showNewTaskForm() (tasksModel, tea.Cmd) {
	*m.formText = ""
	*m.formCategory = m.store.SettingOr(store.SettingDefaultCategory, string(todo.CategoryImportant))
	*m.formSection = m.store.SettingOr(store.SettingDefaultSection, string(todo.SectionHousekeeping))

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Task").Placeholder("Enter a new task").Value(m.formText),
			huh.NewSelect[string]().Title("Category").Options(categoryOptions()...).Value(m.formCategory),
			huh.NewSelect[string]().Title("Section").Options(sectionOptions()...).Value(m.formSection),
		),
	).WithShowHelp(true).WithShowErrors(true)

	m.formActive = true
	return m, m.form.Init()
}

func (m tasksModel) updateForm(msg tea.Msg) (tasksModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			m.formActive = false
			m.form = nil
			return m, nil
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		m.formActive = false
		m.form = nil
		t, ok := m.list.Add(*m.formText, todo.Category(*m.formCategory), todo.Section(*m.formSection))
		if !ok {
			return m, nil
		}
		m.logger.Debug("task added", "id", t.ID, "section", t.Section)
		return m.mutated()
	}

	return m, cmd
}

func categoryOptions() []huh.Option[string] {
	opts := make([]huh.Option[string], len(todo.Categories))
	for i, c := range todo.Categories {
		opts[i] = huh.NewOption(c.Label(), string(c))
	}
	return opts
}

func sectionOptions() []huh.Option[string] {
	opts := make([]huh.Option[string], len(todo.Sections))
	for i, s := range todo.Sections {
		opts[i] = huh.NewOption(s.Label(), string(s))
	}
	return opts
}

func filterOptions() []huh.Option[string] {
	opts := make([]huh.Option[string], len(todo.Filters))
	for i, f := range todo.Filters {
		opts[i] = huh.NewOption(filterLabel(f), string(f))
	}
	return opts
}

func filterLabel(f todo.Filter) string {
	switch f {
	case todo.FilterCompleted:
		return "Completed"
	case todo.FilterIncomplete:
		return "Incomplete"
	}
	return "All"
}

func (m tasksModel) view() string {
	w := m.width - 4

	if m.formActive && m.form != nil {
		title := titleStyle.Render("New Task")
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", m.form.View()),
		)
	}

	title := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("Tasks"), "  ",
		mutedStyle.Render("filter: "), highlightStyle.Render(filterLabel(m.filter)),
	)

	rows := []string{title, ""}
	if len(m.tasks) == 0 {
		rows = append(rows, mutedStyle.Render("No tasks yet. Press n to add one."))
		return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
	}

	textWidth := max(10, w-40)
	rowFmt := fmt.Sprintf("%%s%%-12s %%-%ds %%s %%s %%s", textWidth)
	rows = append(rows, mutedStyle.Render(fmt.Sprintf(rowFmt, "  ", "Category", "Task", "Str", "Prg", "Don")))

	idx := 0
	for _, g := range todo.GroupBySection(todo.FilterByStatus(m.tasks, m.filter)) {
		rows = append(rows, "", sectionStyle(string(g.Section)).Render(g.Section.Label()))
		if len(g.Tasks) == 0 {
			rows = append(rows, mutedStyle.Render("  (empty)"))
		}
		for _, t := range g.Tasks {
			rows = append(rows, m.renderRow(t, idx == m.cursor, textWidth))
			idx++
		}
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  n: new  s/i/c: toggle  d: delete  f: filter"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (m tasksModel) renderRow(t todo.Task, selected bool, textWidth int) string {
	d := todo.Present(t)

	cursor := "  "
	style := normalItemStyle
	if selected {
		cursor = "> "
		style = selectedItemStyle
	}

	text := fmt.Sprintf("%-*s", textWidth, truncate(d.Text, textWidth))
	if d.CrossedOut {
		text = crossedOutStyle.Render(text)
	} else {
		text = style.Render(text)
	}

	return style.Render(fmt.Sprintf("%s%-12s ", cursor, truncate(d.Category, 12))) +
		text + " " +
		fmt.Sprintf("%s %s %s", checkbox(d.Started), checkbox(d.InProgress), checkbox(d.Completed))
}
