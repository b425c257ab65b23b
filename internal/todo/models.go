package todo

import (
	"fmt"
	"strings"
)

type Category string

const (
	CategoryImportant Category = "important"
	CategoryUrgent    Category = "urgent"
	CategoryNotUrgent Category = "not_urgent"
)

// Categories lists every category in display order.
var Categories = []Category{CategoryImportant, CategoryUrgent, CategoryNotUrgent}

func (c Category) Valid() bool {
	switch c {
	case CategoryImportant, CategoryUrgent, CategoryNotUrgent:
		return true
	}
	return false
}

// Label renders the category for display, underscores as spaces.
func (c Category) Label() string {
	return strings.ReplaceAll(string(c), "_", " ")
}

type Section string

const (
	SectionHousekeeping Section = "housekeeping"
	SectionResearch     Section = "research"
	SectionProjects     Section = "projects"
)

// Sections lists every section in display order.
var Sections = []Section{SectionHousekeeping, SectionResearch, SectionProjects}

func (s Section) Valid() bool {
	switch s {
	case SectionHousekeeping, SectionResearch, SectionProjects:
		return true
	}
	return false
}

func (s Section) Label() string {
	switch s {
	case SectionHousekeeping:
		return "Housekeeping"
	case SectionResearch:
		return "Research"
	case SectionProjects:
		return "Projects"
	}
	return string(s)
}

// Field names one of the three independent progress flags of a task.
type Field int

const (
	FieldStarted Field = iota
	FieldInProgress
	FieldCompleted
)

var fieldNames = map[Field]string{
	FieldStarted:    "started",
	FieldInProgress: "inProgress",
	FieldCompleted:  "completed",
}

func (f Field) String() string {
	if name, ok := fieldNames[f]; ok {
		return name
	}
	return fmt.Sprintf("Field(%d)", int(f))
}

// ParseField maps the persisted flag name back to a Field.
func ParseField(name string) (Field, error) {
	for f, n := range fieldNames {
		if n == name {
			return f, nil
		}
	}
	return 0, fmt.Errorf("unknown field %q", name)
}

type Filter string

const (
	FilterAll        Filter = "all"
	FilterCompleted  Filter = "completed"
	FilterIncomplete Filter = "incomplete"
)

// Filters lists the filters in the order the UI cycles through them.
var Filters = []Filter{FilterAll, FilterCompleted, FilterIncomplete}

// Next returns the filter after f, wrapping around.
func (f Filter) Next() Filter {
	for i, v := range Filters {
		if v == f {
			return Filters[(i+1)%len(Filters)]
		}
	}
	return FilterAll
}

// Task is a single to-do item. The JSON shape is the persisted record
// format and must not change.
type Task struct {
	ID         int64    `json:"id"`
	Text       string   `json:"text"`
	Category   Category `json:"category"`
	Section    Section  `json:"section"`
	Started    bool     `json:"started"`
	InProgress bool     `json:"inProgress"`
	Completed  bool     `json:"completed"`
}

// Flag reports the value of field f.
func (t Task) Flag(f Field) bool {
	switch f {
	case FieldStarted:
		return t.Started
	case FieldInProgress:
		return t.InProgress
	case FieldCompleted:
		return t.Completed
	}
	return false
}

// flip negates field f and reports whether f was a known field.
func (t *Task) flip(f Field) bool {
	switch f {
	case FieldStarted:
		t.Started = !t.Started
	case FieldInProgress:
		t.InProgress = !t.InProgress
	case FieldCompleted:
		t.Completed = !t.Completed
	default:
		return false
	}
	return true
}

func (t Task) CategoryLabel() string {
	return t.Category.Label()
}

// Group is one display partition of the list.
type Group struct {
	Section Section
	Tasks   []Task
}

// Display is the per-task view handed to the rendering layer.
type Display struct {
	Section    string
	Category   string
	Text       string
	Started    bool
	InProgress bool
	Completed  bool
	CrossedOut bool
}
