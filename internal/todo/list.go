// Package todo holds the task list and the pure views derived from it.
package todo

import (
	"strings"
	"sync"
	"time"
)

// List is the authoritative, insertion-ordered task list.
//
// Mutations and subscriber notifications run under one lock, so
// subscribers observe snapshots in mutation order. A subscriber must not
// call back into the List.
type List struct {
	mu        sync.Mutex
	tasks     []Task
	lastID    int64
	now       func() time.Time
	observers []func([]Task)
}

type Option func(*List)

// WithClock replaces the wall clock used to mint task ids.
func WithClock(now func() time.Time) Option {
	return func(l *List) { l.now = now }
}

// NewList builds a list from a hydrated snapshot. The slice is copied.
func NewList(tasks []Task, opts ...Option) *List {
	l := &List{
		tasks: append([]Task(nil), tasks...),
		now:   time.Now,
	}
	for _, t := range l.tasks {
		if t.ID > l.lastID {
			l.lastID = t.ID
		}
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Subscribe registers fn to be called once after every committed mutation
// with the post-mutation snapshot.
func (l *List) Subscribe(fn func([]Task)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.observers = append(l.observers, fn)
}

// Add appends a new task. Text that is empty after trimming is rejected
// without mutation and ok is false.
func (l *List) Add(text string, category Category, section Section) (task Task, ok bool) {
	if strings.TrimSpace(text) == "" {
		return Task{}, false
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	task = Task{
		ID:       l.nextID(),
		Text:     text,
		Category: category,
		Section:  section,
	}
	l.tasks = append(l.tasks, task)
	l.notify()
	return task, true
}

// Toggle flips one flag of the task with the given id. It is a no-op when
// no task matches.
func (l *List) Toggle(id int64, field Field) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	i := l.index(id)
	if i < 0 {
		return false
	}
	if !l.tasks[i].flip(field) {
		return false
	}
	l.notify()
	return true
}

// Remove deletes the task with the given id, keeping the order of the
// rest. It is a no-op when no task matches.
func (l *List) Remove(id int64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	i := l.index(id)
	if i < 0 {
		return false
	}
	l.tasks = append(l.tasks[:i:i], l.tasks[i+1:]...)
	l.notify()
	return true
}

// Get returns the task with the given id.
func (l *List) Get(id int64) (Task, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if i := l.index(id); i >= 0 {
		return l.tasks[i], true
	}
	return Task{}, false
}

func (l *List) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.tasks)
}

// Snapshot returns a copy of the current list.
func (l *List) Snapshot() []Task {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.snapshot()
}

func (l *List) snapshot() []Task {
	return append([]Task(nil), l.tasks...)
}

func (l *List) index(id int64) int {
	for i, t := range l.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// nextID mints a millisecond timestamp id, bumped past the last id handed
// out when the clock has not moved forward.
func (l *List) nextID() int64 {
	id := l.now().UnixMilli()
	if id <= l.lastID {
		id = l.lastID + 1
	}
	l.lastID = id
	return id
}

func (l *List) notify() {
	if len(l.observers) == 0 {
		return
	}
	snap := l.snapshot()
	for _, fn := range l.observers {
		fn(snap)
	}
}
