package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/blossom/internal/store"
	"github.com/sadopc/blossom/internal/todo"
)

// sectionCount tallies the flags of one section's tasks.
type sectionCount struct {
	section    todo.Section
	total      int
	started    int
	inProgress int
	completed  int
}

func (c sectionCount) open() int { return c.total - c.completed }

func countBySection(tasks []todo.Task) []sectionCount {
	groups := todo.GroupBySection(tasks)
	counts := make([]sectionCount, len(groups))
	for i, g := range groups {
		c := sectionCount{section: g.Section, total: len(g.Tasks)}
		for _, t := range g.Tasks {
			if t.Started {
				c.started++
			}
			if t.InProgress {
				c.inProgress++
			}
			if t.Completed {
				c.completed++
			}
		}
		counts[i] = c
	}
	return counts
}

type summaryModel struct {
	store  *store.Store
	list   *todo.List
	key    string // storage key of the persisted list
	width  int
	height int

	counts    []sectionCount
	lastSaved time.Time
	chart     barchart.Model
}

func newSummaryModel(s *store.Store, list *todo.List, key string) summaryModel {
	return summaryModel{
		store: s,
		list:  list,
		key:   key,
		chart: barchart.New(60, 12),
	}
}

func (m *summaryModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

type summaryDataMsg struct {
	counts    []sectionCount
	lastSaved time.Time
}

func (m summaryModel) refresh() tea.Cmd {
	return func() tea.Msg {
		// Zero when the list has never been saved.
		saved, _ := m.store.UpdatedAt(m.key)
		return summaryDataMsg{counts: countBySection(m.list.Snapshot()), lastSaved: saved}
	}
}

func (m summaryModel) update(msg tea.Msg) (summaryModel, tea.Cmd) {
	if msg, ok := msg.(summaryDataMsg); ok {
		m.counts = msg.counts
		m.lastSaved = msg.lastSaved
		m.buildChart()
	}
	return m, nil
}

func (m *summaryModel) buildChart() {
	chartWidth := max(20, m.width-8)
	chartHeight := 10
	if m.height > 30 {
		chartHeight = 14
	}

	m.chart = barchart.New(chartWidth, chartHeight)

	openStyle := lipgloss.NewStyle().Foreground(colorWarning)
	doneStyle := lipgloss.NewStyle().Foreground(colorSuccess)

	bars := make([]barchart.BarData, 0, len(m.counts))
	for _, c := range m.counts {
		bars = append(bars, barchart.BarData{
			Label: c.section.Label(),
			Values: []barchart.BarValue{
				{Name: "Open", Value: float64(c.open()), Style: openStyle},
				{Name: "Done", Value: float64(c.completed), Style: doneStyle},
			},
		})
	}

	m.chart.PushAll(bars)
	m.chart.Draw()
}

func (m summaryModel) view() string {
	w := m.width - 4
	title := titleStyle.Render("Summary")

	total, done := 0, 0
	for _, c := range m.counts {
		total += c.total
		done += c.completed
	}
	if total == 0 {
		return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
			title, "", mutedStyle.Render("Nothing to summarize yet."),
		))
	}

	progress := successStyle.Render(fmt.Sprintf("%d/%d done", done, total))
	header := lipgloss.JoinHorizontal(lipgloss.Bottom, title, "  ", progress)

	legend := "  " + warningStyle.Render("●") + " Open  " + successStyle.Render("●") + " Done"

	saved := mutedStyle.Render("  Not saved yet")
	if !m.lastSaved.IsZero() {
		saved = mutedStyle.Render("  Last saved " + m.lastSaved.Local().Format("Jan 02, 15:04:05"))
	}

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
		header, "", m.chart.View(), "", legend, "", m.renderTable(w), "", saved,
	))
}

func (m summaryModel) renderTable(w int) string {
	var rows []string
	rows = append(rows, mutedStyle.Render(fmt.Sprintf("  %-14s %6s %8s %12s %10s", "Section", "Tasks", "Started", "In progress", "Completed")))
	rows = append(rows, mutedStyle.Render("  "+strings.Repeat("─", min(w-6, 54))))

	for _, c := range m.counts {
		dot := lipgloss.NewStyle().Foreground(sectionColors[string(c.section)]).Render("●")
		rows = append(rows, fmt.Sprintf("  %s %-12s %6d %8d %12d %10d",
			dot, c.section.Label(), c.total, c.started, c.inProgress, c.completed,
		))
	}

	return strings.Join(rows, "\n")
}
