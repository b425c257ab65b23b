// Package persist keeps a key-value store in step with the task list:
// load once at startup, save the whole list after every mutation.
package persist

import (
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/sadopc/blossom/internal/todo"
)

// KV is the byte-string storage the bridge reads and writes.
type KV interface {
	Get(key string) ([]byte, bool, error)
	Put(key string, value []byte) error
}

type Bridge struct {
	kv     KV
	key    string
	logger *log.Logger

	mu      sync.Mutex
	lastErr error
}

func NewBridge(kv KV, key string, logger *log.Logger) *Bridge {
	return &Bridge{
		kv:     kv,
		key:    key,
		logger: logger.With("key", key),
	}
}

func (b *Bridge) Key() string { return b.key }

// Load reads the persisted list. A missing entry, an unreadable store, or
// malformed data all yield an empty list; the latter two are logged.
func (b *Bridge) Load() []todo.Task {
	data, found, err := b.kv.Get(b.key)
	if err != nil {
		b.logger.Warn("reading persisted tasks failed, starting empty", "err", err)
		return nil
	}
	if !found {
		b.logger.Debug("no persisted tasks")
		return nil
	}

	tasks, err := Decode(data)
	if err != nil {
		b.logger.Warn("discarding malformed persisted tasks, starting empty", "err", err, "bytes", len(data))
		return nil
	}
	b.logger.Info("loaded tasks", "count", len(tasks))
	return tasks
}

// Save writes the full list under the bridge's key. An empty list is not
// written, so removing the last task leaves the previous entry in place.
func (b *Bridge) Save(tasks []todo.Task) error {
	if len(tasks) == 0 {
		b.logger.Debug("list empty, skipping save")
		return nil
	}
	data, err := Encode(tasks)
	if err != nil {
		return err
	}
	if err := b.kv.Put(b.key, data); err != nil {
		return fmt.Errorf("save tasks: %w", err)
	}
	b.logger.Debug("saved tasks", "count", len(tasks))
	return nil
}

// Observe is the on-mutation hook. The mutation is already committed, so
// a failed write is logged and kept for Err rather than returned.
func (b *Bridge) Observe(tasks []todo.Task) {
	err := b.Save(tasks)
	if err != nil {
		b.logger.Error("persisting tasks failed", "err", err)
	}
	b.mu.Lock()
	b.lastErr = err
	b.mu.Unlock()
}

// Err returns the result of the most recent save triggered by Observe.
func (b *Bridge) Err() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lastErr
}

// Attach subscribes the bridge to every mutation of list.
func (b *Bridge) Attach(list *todo.List) {
	list.Subscribe(b.Observe)
}

// Hydrate loads the persisted list, builds the task list from it, and
// attaches the bridge. The list accepts no mutation before loading ends.
func (b *Bridge) Hydrate(opts ...todo.Option) *todo.List {
	list := todo.NewList(b.Load(), opts...)
	b.Attach(list)
	return list
}
