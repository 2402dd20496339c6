// Package bindingcodec converts data and paths between the normalized tree
// (package data) and the bound representation (package binding).
//
// A Tree holds one Prototype per schema node, built eagerly by New. The
// heavier Codec Context of a prototype is built on first use and memoized;
// concurrent first callers observe the same instance. A Tree belongs to one
// schema generation: a schema reload builds a new Tree and leaves the old
// one untouched.
package bindingcodec

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/sirupsen/logrus"

	yangbind "github.com/reoring/yangbind"
	"github.com/reoring/yangbind/binding"
	"github.com/reoring/yangbind/internal/lazy"
	"github.com/reoring/yangbind/schema"
)

// CacheStrategy selects the per-object cache returned by Tree.NewCache.
type CacheStrategy int

const (
	// CacheNone recomputes every subtree.
	CacheNone CacheStrategy = iota
	// CacheMemo computes the subtree of each bound object at most once.
	CacheMemo
)

// Options configures a Tree. The zero value is usable.
type Options struct {
	// Logger receives context instantiation and diagnostics entries.
	// Defaults to the logrus standard logger.
	Logger logrus.FieldLogger
	// Cache selects the strategy of caches made by Tree.NewCache.
	Cache CacheStrategy
	// CacheableTypes limits memoization to these types; empty means all.
	CacheableTypes []binding.TypeID
}

// Tree is the codec tree of one schema generation.
type Tree struct {
	schema  *schema.Context
	runtime *binding.Runtime
	opt     Options
	log     logrus.FieldLogger

	arena  []*Prototype
	byNode map[*schema.Node]int
	shapes lazy.Map[reflect.Type, *structShape]
	warned sync.Map // warning key -> struct{}
}

// New builds the prototype tree for ctx with generated types from rt.
func New(ctx *schema.Context, rt *binding.Runtime, opt Options) (*Tree, error) {
	if ctx == nil {
		return nil, yangbind.InvalidArgument("", "nil schema context")
	}
	if rt == nil {
		rt = binding.NewRuntime(ctx)
	}
	if rt.Schema() != ctx {
		return nil, yangbind.InvalidArgument("", "runtime describes a different schema context")
	}
	log := opt.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	t := &Tree{
		schema:  ctx,
		runtime: rt,
		opt:     opt,
		log:     log.WithField("component", "bindingcodec"),
		byNode:  make(map[*schema.Node]int),
	}
	t.add(ctx.Root(), -1)
	return t, nil
}

func (t *Tree) add(n *schema.Node, parent int) {
	p := &Prototype{
		tree:   t,
		index:  len(t.arena),
		parent: parent,
		node:   n,
	}
	if typ, ok := t.runtime.TypeOf(n); ok {
		p.typ = typ
	}
	switch n.Kind {
	case schema.KindRoot, schema.KindCase, schema.KindAugmentation:
	default:
		p.key = nodeID(n.Name)
	}
	t.arena = append(t.arena, p)
	t.byNode[n] = p.index
	for _, c := range n.Children {
		t.add(c, p.index)
	}
	for _, a := range n.Augmentations {
		t.add(a, p.index)
	}
}

// Schema returns the schema generation of the tree.
func (t *Tree) Schema() *schema.Context { return t.schema }

// Runtime returns the generated-type metadata of the tree.
func (t *Tree) Runtime() *binding.Runtime { return t.runtime }

// Root returns the prototype of the schema root.
func (t *Tree) Root() *Prototype { return t.arena[0] }

// Prototype returns the prototype of n.
func (t *Tree) Prototype(n *schema.Node) (*Prototype, bool) {
	i, ok := t.byNode[n]
	if !ok {
		return nil, false
	}
	return t.arena[i], true
}

// PrototypeOf returns the prototype of the node generated type id binds.
func (t *Tree) PrototypeOf(id binding.TypeID) (*Prototype, bool) {
	n, ok := t.runtime.NodeOf(id)
	if !ok {
		return nil, false
	}
	return t.Prototype(n)
}

// Len returns the number of prototypes.
func (t *Tree) Len() int { return len(t.arena) }

// Instantiated counts the prototypes whose context has been built.
func (t *Tree) Instantiated() int {
	n := 0
	for _, p := range t.arena {
		if _, ok := p.ctx.Peek(); ok {
			n++
		}
	}
	return n
}

// NewCache returns an empty cache of the configured strategy.
func (t *Tree) NewCache() Cache {
	if t.opt.Cache == CacheMemo {
		return NewMemoCache(t.opt.CacheableTypes...)
	}
	return NoopCache()
}

func (t *Tree) proto(n *schema.Node) *Prototype {
	i, ok := t.byNode[n]
	if !ok {
		panic(fmt.Sprintf("bindingcodec: node %s is not part of this schema generation", n))
	}
	return t.arena[i]
}

func (t *Tree) warnOnce(key string, fields logrus.Fields, msg string) {
	if _, loaded := t.warned.LoadOrStore(key, struct{}{}); loaded {
		return
	}
	t.log.WithFields(fields).Warn(msg)
}
