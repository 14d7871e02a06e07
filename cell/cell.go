package cell

import (
	"sync/atomic"

	"github.com/wippyai/cartridge-host/errors"
)

// Cell is a shared handle to a single value with an exclusive-access guard.
// Handles created with Clone share the value; the value lives as long as
// the longest holder. A Cell is meant for one logical thread of control:
// the guard catches aliasing bugs, it is not a lock.
type Cell[T any] struct {
	box *box[T]
}

type box[T any] struct {
	value    T
	refs     atomic.Int32
	borrowed atomic.Bool
}

// New wraps v in a cell with a single holder.
func New[T any](v T) *Cell[T] {
	b := &box[T]{value: v}
	b.refs.Store(1)
	return &Cell[T]{box: b}
}

// With runs f with exclusive access to the value. The scope is closed on
// every exit path, including an error return or a panic in f.
// Opening a scope while another is open on the same value panics.
func (c *Cell[T]) With(f func(v *T) error) error {
	b := c.live()
	if checked {
		if !b.borrowed.CompareAndSwap(false, true) {
			panic(errors.Reentrant("cell: With called while another scope is open"))
		}
		defer b.borrowed.Store(false)
	}
	return f(&b.value)
}

// GetMut returns a pointer to the value for callers that structurally hold
// the only live handle. It panics if a With scope is open.
func (c *Cell[T]) GetMut() *T {
	b := c.live()
	if checked && b.borrowed.Load() {
		panic(errors.Reentrant("cell: GetMut called while a With scope is open"))
	}
	return &b.value
}

// Clone returns a new handle sharing the same value.
func (c *Cell[T]) Clone() *Cell[T] {
	b := c.live()
	b.refs.Add(1)
	return &Cell[T]{box: b}
}

// Release drops this handle. The handle must not be used afterwards.
func (c *Cell[T]) Release() {
	if c.box == nil {
		return
	}
	c.box.refs.Add(-1)
	c.box = nil
}

// Refs reports the number of live handles sharing the value.
func (c *Cell[T]) Refs() int {
	if c.box == nil {
		return 0
	}
	return int(c.box.refs.Load())
}

// Same reports whether both handles share one value.
func (c *Cell[T]) Same(other *Cell[T]) bool {
	return c != nil && other != nil && c.box != nil && c.box == other.box
}

// IntoInner unwraps the value if this is the last handle, consuming it.
// Otherwise it returns false and leaves the cell untouched.
func (c *Cell[T]) IntoInner() (T, bool) {
	var zero T
	b := c.live()
	if !b.refs.CompareAndSwap(1, 0) {
		return zero, false
	}
	v := b.value
	b.value = zero
	c.box = nil
	return v, true
}

func (c *Cell[T]) live() *box[T] {
	if c.box == nil {
		panic(errors.NotInitialized(errors.PhaseExecute, "cell handle"))
	}
	return c.box
}
