package bindingcodec

import (
	"sync/atomic"

	"github.com/reoring/yangbind/binding"
	"github.com/reoring/yangbind/data"
	"github.com/reoring/yangbind/internal/lazy"
)

// Cache remembers the normalized subtrees computed for bound objects during
// ToNormalizedNode. Use NoopCache for objects serialized once and a
// MemoCache when the same objects are serialized repeatedly or reached
// through several paths. Bound objects must not be mutated while a
// MemoCache holding them is in use.
type Cache interface {
	node(p *Prototype, obj any, build func() (data.Node, error)) (data.Node, error)
}

type noopCache struct{}

// NoopCache returns a cache that always recomputes.
func NoopCache() Cache { return noopCache{} }

func (noopCache) node(_ *Prototype, _ any, build func() (data.Node, error)) (data.Node, error) {
	return build()
}

type cacheKey struct {
	proto *Prototype
	obj   any // pointer to the bound object
}

// MemoCache computes the subtree of each bound object at most once, keyed
// by the object's identity. It is safe for concurrent use.
//
// Entries hold strong references to their bound objects and subtrees and
// are never evicted: everything a MemoCache has seen stays reachable until
// the cache itself is dropped. Scope a cache to one batch of conversions.
// A failed computation is not stored and runs again on the next request.
type MemoCache struct {
	types  map[binding.TypeID]struct{}
	cells  lazy.Map[cacheKey, data.Node]
	builds atomic.Int64
}

// NewMemoCache returns a memoizing cache. When types are given only objects
// of those generated types are memoized.
func NewMemoCache(types ...binding.TypeID) *MemoCache {
	c := &MemoCache{}
	if len(types) > 0 {
		c.types = make(map[binding.TypeID]struct{}, len(types))
		for _, t := range types {
			c.types[t] = struct{}{}
		}
	}
	return c
}

func (c *MemoCache) node(p *Prototype, obj any, build func() (data.Node, error)) (data.Node, error) {
	if c.types != nil {
		if _, ok := c.types[binding.TypeIDOf(obj)]; !ok {
			return build()
		}
	}
	return c.cells.Get(cacheKey{proto: p, obj: obj}, func() (data.Node, error) {
		c.builds.Add(1)
		return build()
	})
}

// Len returns the number of memoized subtrees.
func (c *MemoCache) Len() int { return c.cells.Len() }

// Builds returns how many subtree computations the cache has started,
// failed ones included.
func (c *MemoCache) Builds() int { return int(c.builds.Load()) }
