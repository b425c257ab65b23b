package todo

// FilterByStatus returns the tasks whose completed flag satisfies f, in
// input order. Unknown filters pass everything.
func FilterByStatus(tasks []Task, f Filter) []Task {
	out := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		switch f {
		case FilterCompleted:
			if !t.Completed {
				continue
			}
		case FilterIncomplete:
			if t.Completed {
				continue
			}
		}
		out = append(out, t)
	}
	return out
}

// GroupBySection partitions tasks into one group per section, always in
// Sections order, each keeping input order. Tasks with an unknown section
// are left out.
func GroupBySection(tasks []Task) []Group {
	groups := make([]Group, len(Sections))
	idx := make(map[Section]int, len(Sections))
	for i, s := range Sections {
		groups[i] = Group{Section: s}
		idx[s] = i
	}
	for _, t := range tasks {
		if i, ok := idx[t.Section]; ok {
			groups[i].Tasks = append(groups[i].Tasks, t)
		}
	}
	return groups
}

// Present derives the display form of a task.
func Present(t Task) Display {
	return Display{
		Section:    t.Section.Label(),
		Category:   t.CategoryLabel(),
		Text:       t.Text,
		Started:    t.Started,
		InProgress: t.InProgress,
		Completed:  t.Completed,
		CrossedOut: t.Completed,
	}
}
