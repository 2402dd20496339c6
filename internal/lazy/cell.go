// Package lazy provides memo cells with single-construction semantics.
//
// A Cell runs its constructor at most once successfully. Concurrent first
// callers wait for the winner and observe the identical value. A constructor
// that fails or panics leaves the cell empty so a later call can retry.
package lazy

import (
	"sync"
	"sync/atomic"
)

// Cell holds one lazily constructed value. The zero value is ready to use.
type Cell[T any] struct {
	mu sync.Mutex
	v  atomic.Pointer[T]
}

// Get returns the cell value, running build when the cell is still empty.
func (c *Cell[T]) Get(build func() (T, error)) (T, error) {
	if p := c.v.Load(); p != nil {
		return *p, nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	// Another caller may have stored the value while we waited.
	if p := c.v.Load(); p != nil {
		return *p, nil
	}
	v, err := build()
	if err != nil {
		var zero T
		return zero, err
	}
	c.v.Store(&v)
	return v, nil
}

// Peek returns the value if it has been constructed already.
func (c *Cell[T]) Peek() (T, bool) {
	if p := c.v.Load(); p != nil {
		return *p, true
	}
	var zero T
	return zero, false
}

// Map is an append-only concurrent map whose values are built on first use,
// one Cell per key. Keys never get evicted.
type Map[K comparable, V any] struct {
	m sync.Map // K -> *Cell[V]
}

// Get returns the value for k, building it with build on first use.
func (m *Map[K, V]) Get(k K, build func() (V, error)) (V, error) {
	c, ok := m.m.Load(k)
	if !ok {
		c, _ = m.m.LoadOrStore(k, new(Cell[V]))
	}
	return c.(*Cell[V]).Get(build)
}

// Peek returns the value for k if it has been constructed.
func (m *Map[K, V]) Peek(k K) (V, bool) {
	c, ok := m.m.Load(k)
	if !ok {
		var zero V
		return zero, false
	}
	return c.(*Cell[V]).Peek()
}

// Len counts the constructed entries.
func (m *Map[K, V]) Len() int {
	n := 0
	m.m.Range(func(_, c any) bool {
		if _, ok := c.(*Cell[V]).Peek(); ok {
			n++
		}
		return true
	})
	return n
}
