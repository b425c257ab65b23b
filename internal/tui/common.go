package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sadopc/blossom/internal/todo"
)

// viewState represents the currently active view.
type viewState int

const (
	viewTasks viewState = iota
	viewSummary
	viewSettings
)

var viewNames = []string{"Tasks", "Summary", "Settings"}

// --- Messages ---

type tasksDataMsg struct {
	tasks  []todo.Task
	filter todo.Filter
}

type statusMsg struct {
	text    string
	isError bool
}

type exportDoneMsg struct {
	path string
}

// --- Helpers ---

func statusCmd(text string, isError bool) tea.Cmd {
	return func() tea.Msg { return statusMsg{text: text, isError: isError} }
}

func checkbox(on bool) string {
	if on {
		return "[x]"
	}
	return "[ ]"
}

// truncate shortens s to at most n runes, marking the cut with an ellipsis.
func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 {
		return ""
	}
	if len(r) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	return string(r[:n-1]) + "…"
}
