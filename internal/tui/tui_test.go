package tui

import (
	"errors"
	"io"
	"os"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/sadopc/blossom/internal/persist"
	"github.com/sadopc/blossom/internal/store"
	"github.com/sadopc/blossom/internal/todo"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.NewMemory()
	if err != nil {
		t.Fatalf("new memory store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

type testEnv struct {
	store  *store.Store
	list   *todo.List
	bridge *persist.Bridge
	logger *log.Logger
}

func newTestEnv(t *testing.T) testEnv {
	t.Helper()
	s := newTestStore(t)
	logger := log.New(io.Discard)
	bridge := persist.NewBridge(s, "tasks", logger)
	return testEnv{store: s, list: bridge.Hydrate(), bridge: bridge, logger: logger}
}

func (e testEnv) app() App {
	return NewApp(e.store, e.list, e.bridge, e.logger)
}

// tasks returns a sized tasks model loaded with the current list.
func (e testEnv) tasks(t *testing.T) tasksModel {
	t.Helper()
	m := newTasksModel(e.store, e.list, e.bridge, e.logger)
	m.setSize(120, 40)
	m, _ = m.update(m.refresh()())
	return m
}

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

// failingKV rejects every write.
type failingKV struct{}

func (failingKV) Get(string) ([]byte, bool, error) { return nil, false, nil }
func (failingKV) Put(string, []byte) error        { return errors.New("disk full") }

// ============================================================
// Tasks view
// ============================================================

func TestTasksRefreshLoadsSnapshotAndFilter(t *testing.T) {
	e := newTestEnv(t)
	e.list.Add("one", todo.CategoryUrgent, todo.SectionResearch)
	e.store.SetSetting(store.SettingFilter, "completed")

	m := e.tasks(t)
	if len(m.tasks) != 1 {
		t.Fatalf("expected 1 task, got %d", len(m.tasks))
	}
	if m.filter != todo.FilterCompleted {
		t.Fatalf("filter = %q, want completed", m.filter)
	}
	if len(m.visible()) != 0 {
		t.Fatal("incomplete task should be hidden by the completed filter")
	}
}

func TestTasksVisibleOrder(t *testing.T) {
	e := newTestEnv(t)
	e.list.Add("paper", todo.CategoryUrgent, todo.SectionResearch)
	e.list.Add("dishes", todo.CategoryImportant, todo.SectionHousekeeping)
	e.list.Add("laundry", todo.CategoryImportant, todo.SectionHousekeeping)

	m := e.tasks(t)
	var got []string
	for _, task := range m.visible() {
		got = append(got, task.Text)
	}
	want := "dishes,laundry,paper"
	if strings.Join(got, ",") != want {
		t.Fatalf("visible order = %v, want %s", got, want)
	}
}

func TestTasksCursorMovement(t *testing.T) {
	e := newTestEnv(t)
	e.list.Add("a", todo.CategoryUrgent, todo.SectionProjects)
	e.list.Add("b", todo.CategoryUrgent, todo.SectionProjects)

	m := e.tasks(t)
	m, _ = m.update(tea.KeyMsg{Type: tea.KeyUp})
	if m.cursor != 0 {
		t.Fatal("cursor should not move above the first row")
	}
	m, _ = m.update(runeKey('j'))
	m, _ = m.update(tea.KeyMsg{Type: tea.KeyDown})
	if m.cursor != 1 {
		t.Fatalf("cursor = %d, want 1", m.cursor)
	}
	if sel, _ := m.selected(); sel.Text != "b" {
		t.Fatalf("selected %q, want b", sel.Text)
	}
}

func TestTasksToggleKeys(t *testing.T) {
	e := newTestEnv(t)
	task, _ := e.list.Add("ship", todo.CategoryUrgent, todo.SectionProjects)
	m := e.tasks(t)

	tests := []struct {
		key   tea.KeyMsg
		field todo.Field
	}{
		{runeKey('s'), todo.FieldStarted},
		{runeKey('i'), todo.FieldInProgress},
		{runeKey('c'), todo.FieldCompleted},
	}
	for _, tt := range tests {
		m, _ = m.update(tt.key)
		got, _ := e.list.Get(task.ID)
		if !got.Flag(tt.field) {
			t.Fatalf("%v should be set after key %q", tt.field, tt.key.String())
		}
	}

	// Space toggles completed back off.
	m, _ = m.update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	if got, _ := e.list.Get(task.ID); got.Completed {
		t.Fatal("space should toggle completed")
	}
	if m.tasks[0].Completed {
		t.Fatal("model snapshot not refreshed after toggle")
	}

	persisted := e.bridge.Load()
	if len(persisted) != 1 || !persisted[0].Started || !persisted[0].InProgress {
		t.Fatalf("toggles not persisted: %+v", persisted)
	}
}

func TestTasksDeleteKey(t *testing.T) {
	e := newTestEnv(t)
	e.list.Add("a", todo.CategoryUrgent, todo.SectionProjects)
	b, _ := e.list.Add("b", todo.CategoryUrgent, todo.SectionProjects)

	m := e.tasks(t)
	m, _ = m.update(runeKey('j'))
	m, _ = m.update(runeKey('d'))

	if _, ok := e.list.Get(b.ID); ok {
		t.Fatal("selected task should be removed")
	}
	if m.cursor != 0 {
		t.Fatalf("cursor should clamp to last row, got %d", m.cursor)
	}
}

func TestTasksKeysOnEmptyList(t *testing.T) {
	e := newTestEnv(t)
	m := e.tasks(t)
	for _, r := range "sicd" {
		var cmd tea.Cmd
		m, cmd = m.update(runeKey(r))
		if cmd != nil {
			t.Fatalf("key %q on empty list should be a no-op", r)
		}
	}
	if _, found, _ := e.store.Get("tasks"); found {
		t.Fatal("nothing should be persisted")
	}
}

func TestTasksFilterKey(t *testing.T) {
	e := newTestEnv(t)
	done, _ := e.list.Add("done", todo.CategoryUrgent, todo.SectionProjects)
	e.list.Add("open", todo.CategoryUrgent, todo.SectionProjects)
	e.list.Toggle(done.ID, todo.FieldCompleted)

	m := e.tasks(t)
	m, _ = m.update(runeKey('f'))
	if m.filter != todo.FilterCompleted {
		t.Fatalf("filter = %q, want completed", m.filter)
	}
	if v := m.visible(); len(v) != 1 || v[0].Text != "done" {
		t.Fatalf("completed filter shows %+v", v)
	}
	if got := e.store.SettingOr(store.SettingFilter, ""); got != "completed" {
		t.Fatalf("filter setting = %q, want completed", got)
	}

	m, _ = m.update(runeKey('f'))
	if v := m.visible(); len(v) != 1 || v[0].Text != "open" {
		t.Fatalf("incomplete filter shows %+v", v)
	}

	m, _ = m.update(runeKey('f'))
	if m.filter != todo.FilterAll || len(m.visible()) != 2 {
		t.Fatal("filter should wrap back to all")
	}
}

func TestTasksSaveErrorSurfacesStatus(t *testing.T) {
	s := newTestStore(t)
	logger := log.New(io.Discard)
	bridge := persist.NewBridge(failingKV{}, "tasks", logger)
	list := todo.NewList([]todo.Task{{ID: 1, Text: "x", Category: todo.CategoryUrgent, Section: todo.SectionProjects}})
	bridge.Attach(list)

	m := newTasksModel(s, list, bridge, logger)
	m, _ = m.update(m.refresh()())
	_, cmd := m.update(runeKey('c'))
	if cmd == nil {
		t.Fatal("expected a status command after a failed save")
	}
	msg, ok := cmd().(statusMsg)
	if !ok || !msg.isError || !strings.Contains(msg.text, "disk full") {
		t.Fatalf("unexpected status: %+v", msg)
	}
	// The in-memory change still stands.
	if got, _ := list.Get(1); !got.Completed {
		t.Fatal("toggle should apply even when saving fails")
	}
}

func TestTasksNewFormUsesDefaults(t *testing.T) {
	e := newTestEnv(t)
	e.store.SetSetting(store.SettingDefaultCategory, "not_urgent")
	e.store.SetSetting(store.SettingDefaultSection, "research")

	m := e.tasks(t)
	m, _ = m.update(runeKey('n'))
	if !m.formActive || m.form == nil {
		t.Fatal("n should open the new task form")
	}
	if *m.formCategory != "not_urgent" || *m.formSection != "research" {
		t.Fatalf("form defaults = %q/%q", *m.formCategory, *m.formSection)
	}
	if !strings.Contains(m.view(), "New Task") {
		t.Fatal("form view should be shown")
	}

	m, _ = m.update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.formActive {
		t.Fatal("esc should cancel the form")
	}
	if e.list.Len() != 0 {
		t.Fatal("cancelled form should not add a task")
	}
}

func TestTasksView(t *testing.T) {
	e := newTestEnv(t)
	m := e.tasks(t)
	if !strings.Contains(m.view(), "No tasks yet") {
		t.Fatal("empty list should show a hint")
	}

	task, _ := e.list.Add("Water plants", todo.CategoryNotUrgent, todo.SectionHousekeeping)
	e.list.Toggle(task.ID, todo.FieldCompleted)
	m, _ = m.update(m.refresh()())

	out := m.view()
	for _, want := range []string{"Housekeeping", "Research", "Projects", "Water plants", "not urgent", "[x]"} {
		if !strings.Contains(out, want) {
			t.Fatalf("view missing %q:\n%s", want, out)
		}
	}
}

// ============================================================
// Summary view
// ============================================================

func TestCountBySection(t *testing.T) {
	tasks := []todo.Task{
		{ID: 1, Section: todo.SectionResearch, Started: true},
		{ID: 2, Section: todo.SectionResearch, Completed: true},
		{ID: 3, Section: todo.SectionProjects, InProgress: true},
	}
	counts := countBySection(tasks)
	if len(counts) != 3 {
		t.Fatalf("expected one count per section, got %d", len(counts))
	}
	if counts[0].section != todo.SectionHousekeeping || counts[0].total != 0 {
		t.Fatalf("housekeeping = %+v", counts[0])
	}
	r := counts[1]
	if r.total != 2 || r.started != 1 || r.completed != 1 || r.open() != 1 {
		t.Fatalf("research = %+v", r)
	}
	if counts[2].inProgress != 1 {
		t.Fatalf("projects = %+v", counts[2])
	}
}

func TestSummaryView(t *testing.T) {
	e := newTestEnv(t)
	m := newSummaryModel(e.store, e.list, e.bridge.Key())
	m.setSize(120, 40)
	m, _ = m.update(m.refresh()())
	if !strings.Contains(m.view(), "Nothing to summarize") {
		t.Fatal("empty summary should show a hint")
	}
	if !m.lastSaved.IsZero() {
		t.Fatal("nothing has been saved yet")
	}

	task, _ := e.list.Add("a", todo.CategoryUrgent, todo.SectionResearch)
	e.list.Add("b", todo.CategoryUrgent, todo.SectionResearch)
	e.list.Toggle(task.ID, todo.FieldCompleted)
	m, _ = m.update(m.refresh()())

	out := m.view()
	if !strings.Contains(out, "1/2 done") {
		t.Fatalf("summary missing progress:\n%s", out)
	}
	if !strings.Contains(out, "Research") {
		t.Fatal("summary missing section row")
	}
	if m.lastSaved.IsZero() || !strings.Contains(out, "Last saved") {
		t.Fatal("summary should report the last save")
	}
}

// ============================================================
// Settings view
// ============================================================

func TestSettingsRefresh(t *testing.T) {
	s := newTestStore(t)
	m := newSettingsModel(s)
	m.setSize(120, 40)
	m, _ = m.update(m.refresh()())
	if len(m.settings) != 3 {
		t.Fatalf("expected 3 settings, got %d", len(m.settings))
	}
	if !strings.Contains(m.view(), "Housekeeping") {
		t.Fatal("settings view should render labels")
	}
}

func TestSettingsShowFormAndSave(t *testing.T) {
	s := newTestStore(t)
	m := newSettingsModel(s)
	m, _ = m.update(tea.KeyMsg{Type: tea.KeyEnter})
	if !m.formActive {
		t.Fatal("enter should open the settings form")
	}
	if *m.defaultCategory != "important" || *m.filter != "all" {
		t.Fatalf("form not loaded from store: %q %q", *m.defaultCategory, *m.filter)
	}

	*m.defaultSection = "projects"
	*m.filter = "incomplete"
	if err := m.saveSettings(); err != nil {
		t.Fatal(err)
	}
	if v, _ := s.GetSetting(store.SettingDefaultSection); v != "projects" {
		t.Fatalf("default_section = %q", v)
	}
	if v, _ := s.GetSetting(store.SettingFilter); v != "incomplete" {
		t.Fatalf("filter = %q", v)
	}
}

func TestFormatSettingValue(t *testing.T) {
	tests := []struct {
		key, value, want string
	}{
		{store.SettingDefaultCategory, "not_urgent", "not urgent"},
		{store.SettingDefaultSection, "research", "Research"},
		{store.SettingFilter, "incomplete", "Incomplete"},
		{store.SettingFilter, "bogus", "All"},
		{"other", "x", "x"},
	}
	for _, tt := range tests {
		if got := formatSettingValue(tt.key, tt.value); got != tt.want {
			t.Fatalf("formatSettingValue(%q, %q) = %q, want %q", tt.key, tt.value, got, tt.want)
		}
	}
}

// ============================================================
// App model
// ============================================================

func TestNewApp(t *testing.T) {
	app := newTestEnv(t).app()

	if app.activeView != viewTasks {
		t.Fatal("default view should be tasks")
	}
	if app.showHelp {
		t.Fatal("help should be hidden by default")
	}
	if app.exportPicking {
		t.Fatal("export picker should be hidden by default")
	}
	if app.isFormActive() {
		t.Fatal("no forms should be active initially")
	}
}

func TestAppViewStates(t *testing.T) {
	app := newTestEnv(t).app()
	app.width = 120
	app.height = 40

	for v := range viewNames {
		app.activeView = viewState(v)
		if app.View() == "" {
			t.Fatalf("view %d rendered empty", v)
		}
	}
}

func TestAppTabSwitching(t *testing.T) {
	app := newTestEnv(t).app()

	model, cmd := app.Update(runeKey('2'))
	app = model.(App)
	if app.activeView != viewSummary || cmd == nil {
		t.Fatal("2 should switch to summary and refresh it")
	}

	model, _ = app.Update(tea.KeyMsg{Type: tea.KeyTab})
	app = model.(App)
	if app.activeView != viewSettings {
		t.Fatal("tab should advance to settings")
	}

	model, _ = app.Update(tea.KeyMsg{Type: tea.KeyTab})
	if model.(App).activeView != viewTasks {
		t.Fatal("tab should wrap to tasks")
	}
}

func TestAppRoutesDataMessages(t *testing.T) {
	e := newTestEnv(t)
	e.list.Add("a", todo.CategoryUrgent, todo.SectionResearch)
	app := e.app()
	app.activeView = viewSettings

	model, _ := app.Update(app.Init()())
	if len(model.(App).tasks.tasks) != 1 {
		t.Fatal("task data should reach the tasks view while another view is active")
	}
}

func TestAppSettingsSaved(t *testing.T) {
	app := newTestEnv(t).app()
	model, cmd := app.Update(settingsSavedMsg{})
	if model.(App).status != "Settings saved" {
		t.Fatal("expected settings saved status")
	}
	if _, ok := cmd().(tasksDataMsg); !ok {
		t.Fatal("saving settings should reload the tasks view")
	}
}

func TestAppRenderHeaderContainsAllTabs(t *testing.T) {
	app := newTestEnv(t).app()
	app.width = 120
	app.height = 40

	header := app.renderHeader()
	for _, name := range viewNames {
		if !strings.Contains(header, name) {
			t.Fatalf("header missing tab %q", name)
		}
	}
}

func TestAppLoadingState(t *testing.T) {
	app := newTestEnv(t).app()
	if output := app.View(); output != "Loading..." {
		t.Fatalf("expected 'Loading...', got %q", output)
	}
}

func TestAppStatusMessage(t *testing.T) {
	app := newTestEnv(t).app()
	app.width = 120
	app.height = 40

	model, _ := app.Update(statusMsg{text: "test status"})
	if !strings.Contains(model.(App).renderFooter(), "test status") {
		t.Fatal("footer should contain status message")
	}
}

func TestAppExport(t *testing.T) {
	e := newTestEnv(t)
	e.list.Add("a", todo.CategoryUrgent, todo.SectionResearch)
	app := e.app()
	app.exportDir = t.TempDir()

	model, _ := app.Update(runeKey('e'))
	app = model.(App)
	if !app.exportPicking {
		t.Fatal("e should open the export picker")
	}

	model, _ = app.Update(tea.KeyMsg{Type: tea.KeyDown})
	app = model.(App)
	model, cmd := app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	app = model.(App)
	if app.exportPicking || cmd == nil {
		t.Fatal("enter should close the picker and export")
	}

	done, ok := cmd().(exportDoneMsg)
	if !ok {
		t.Fatal("expected export to succeed")
	}
	if !strings.HasSuffix(done.path, ".json") {
		t.Fatalf("second format should be JSON, got %s", done.path)
	}
	if _, err := os.Stat(done.path); err != nil {
		t.Fatalf("export file missing: %v", err)
	}
}

func TestAppExportPickerCancel(t *testing.T) {
	app := newTestEnv(t).app()
	model, _ := app.Update(runeKey('e'))
	model, cmd := model.(App).Update(tea.KeyMsg{Type: tea.KeyEsc})
	if model.(App).exportPicking || cmd != nil {
		t.Fatal("esc should close the picker without exporting")
	}
}

// ============================================================
// Helpers
// ============================================================

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"hello", 10, "hello"},
		{"hello", 5, "hello"},
		{"hello", 4, "hel…"},
		{"hello", 1, "…"},
		{"hello", 0, ""},
		{"héllo wörld", 6, "héllo…"},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.n); got != tt.want {
			t.Fatalf("truncate(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
		}
	}
}

func TestCheckbox(t *testing.T) {
	if checkbox(true) != "[x]" || checkbox(false) != "[ ]" {
		t.Fatal("unexpected checkbox rendering")
	}
}

// ============================================================
// Key bindings
// ============================================================

func TestKeyMapShortHelp(t *testing.T) {
	if len(keys.ShortHelp()) == 0 {
		t.Fatal("short help should have bindings")
	}
}

func TestKeyMapFullHelp(t *testing.T) {
	groups := keys.FullHelp()
	if len(groups) == 0 {
		t.Fatal("full help should have groups")
	}
	for i, g := range groups {
		if len(g) == 0 {
			t.Fatalf("full help group %d is empty", i)
		}
	}
}

// ============================================================
// Styles (smoke test, just verify they don't panic)
// ============================================================

func TestStylesRender(t *testing.T) {
	styles := []struct {
		name string
		fn   func() string
	}{
		{"activeTab", func() string { return activeTabStyle.Render("test") }},
		{"inactiveTab", func() string { return inactiveTabStyle.Render("test") }},
		{"panel", func() string { return panelStyle.Render("test") }},
		{"activePanel", func() string { return activePanelStyle.Render("test") }},
		{"title", func() string { return titleStyle.Render("test") }},
		{"success", func() string { return successStyle.Render("test") }},
		{"warning", func() string { return warningStyle.Render("test") }},
		{"error", func() string { return errorStyle.Render("test") }},
		{"muted", func() string { return mutedStyle.Render("test") }},
		{"highlight", func() string { return highlightStyle.Render("test") }},
		{"header", func() string { return headerStyle.Render("test") }},
		{"footer", func() string { return footerStyle.Render("test") }},
		{"sectionHeader", func() string { return sectionStyle("research").Render("test") }},
		{"crossedOut", func() string { return crossedOutStyle.Render("test") }},
		{"selectedItem", func() string { return selectedItemStyle.Render("test") }},
		{"normalItem", func() string { return normalItemStyle.Render("test") }},
	}

	for _, s := range styles {
		if s.fn() == "" {
			t.Fatalf("style %q rendered empty", s.name)
		}
	}
}
