package resource

import (
	"sync"

	"github.com/wippyai/cartridge-host/cell"
)

// Table maps monotonically assigned IDs to shared cells.
// Safe for concurrent Create and Find.
type Table[T any] struct {
	name      string
	entries   map[ID]*cell.Cell[T]
	observers []Observer
	next      ID
	mu        sync.RWMutex
	obsMu     sync.RWMutex
}

// NewTable creates an empty table. The name tags lifecycle events.
func NewTable[T any](name string) *Table[T] {
	return &Table[T]{
		name:    name,
		entries: make(map[ID]*cell.Cell[T]),
	}
}

// Name returns the table name.
func (t *Table[T]) Name() string {
	return t.name
}

// Create stores v behind a new cell and returns its ID together with a
// handle sharing the stored value.
func (t *Table[T]) Create(v T) (ID, *cell.Cell[T]) {
	c := cell.New(v)

	t.mu.Lock()
	id := t.next
	t.next++
	t.entries[id] = c
	t.mu.Unlock()

	t.notify(Event{Table: t.name, ID: id, Type: EventCreated})
	return id, c.Clone()
}

// Find looks up id without creating anything. The returned handle shares
// the stored value.
func (t *Table[T]) Find(id ID) (*cell.Cell[T], bool) {
	t.mu.RLock()
	c, ok := t.entries[id]
	if ok {
		c = c.Clone()
	}
	t.mu.RUnlock()

	if !ok {
		t.notify(Event{Table: t.name, ID: id, Type: EventMiss})
		return nil, false
	}
	return c, true
}

// Len returns the number of stored values.
func (t *Table[T]) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.entries)
}

// NextID returns the ID the next Create will assign.
func (t *Table[T]) NextID() ID {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.next
}

// Each calls fn for every entry in ascending ID order until fn returns false.
func (t *Table[T]) Each(fn func(ID, *cell.Cell[T]) bool) {
	t.mu.RLock()
	n := t.next
	t.mu.RUnlock()

	for id := ID(0); id < n; id++ {
		t.mu.RLock()
		c, ok := t.entries[id]
		t.mu.RUnlock()
		if ok && !fn(id, c) {
			return
		}
	}
}

// Subscribe adds an observer for lifecycle events.
func (t *Table[T]) Subscribe(o Observer) {
	t.obsMu.Lock()
	defer t.obsMu.Unlock()
	t.observers = append(t.observers, o)
}

// Unsubscribe removes an observer.
func (t *Table[T]) Unsubscribe(o Observer) {
	t.obsMu.Lock()
	defer t.obsMu.Unlock()
	for i, obs := range t.observers {
		if obs == o {
			t.observers = append(t.observers[:i], t.observers[i+1:]...)
			return
		}
	}
}

func (t *Table[T]) notify(e Event) {
	t.obsMu.RLock()
	defer t.obsMu.RUnlock()
	for _, o := range t.observers {
		o.OnResourceEvent(e)
	}
}
