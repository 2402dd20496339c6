package binding

import (
	"fmt"
	"reflect"

	yangbind "github.com/reoring/yangbind"
	"github.com/reoring/yangbind/schema"
)

// Runtime records which generated type binds which schema node, and the key
// type of every keyed list. It is filled once during setup and is read-only
// afterwards; Bind must not race with lookups.
type Runtime struct {
	ctx    *schema.Context
	byNode map[*schema.Node]TypeID
	byType map[TypeID]*schema.Node
	keys   map[*schema.Node]TypeID
}

// NewRuntime returns an empty runtime for ctx.
func NewRuntime(ctx *schema.Context) *Runtime {
	return &Runtime{
		ctx:    ctx,
		byNode: make(map[*schema.Node]TypeID),
		byType: make(map[TypeID]*schema.Node),
		keys:   make(map[*schema.Node]TypeID),
	}
}

// Schema returns the schema context the runtime describes.
func (r *Runtime) Schema() *schema.Context { return r.ctx }

// Bind records t as the generated type of n. Containers, list entries,
// cases, augmentations, notifications and rpc or action input and output
// bind struct types; choices bind the interface their cases implement.
//
// One type may bind several nodes of the same kind and local name, as
// happens when a grouping is used in several cases of a choice. NodeOf
// reports the first of them.
func (r *Runtime) Bind(n *schema.Node, t TypeID) error {
	if t.IsZero() {
		return fmt.Errorf("binding: zero type for %s", n)
	}
	want := reflect.Struct
	switch n.Kind {
	case schema.KindContainer, schema.KindList, schema.KindCase, schema.KindAugmentation,
		schema.KindNotification, schema.KindInput, schema.KindOutput:
	case schema.KindChoice:
		want = reflect.Interface
	default:
		return fmt.Errorf("binding: %s cannot bind a generated type", n)
	}
	if t.t.Kind() != want {
		return fmt.Errorf("binding: %s needs a %s type, got %s", n, want, t)
	}
	if prev, ok := r.byNode[n]; ok && prev != t {
		return fmt.Errorf("binding: %s already bound to %s", n, prev)
	}
	prev, ok := r.byType[t]
	if ok && prev != n && (prev.Kind != n.Kind || prev.Name.Local != n.Name.Local) {
		return fmt.Errorf("binding: %s already binds %s", t, prev)
	}
	r.byNode[n] = t
	if !ok {
		r.byType[t] = n
	}
	return nil
}

// BindKey records k as the key type of keyed list n. Key struct fields are
// tagged with the key leaf names.
func (r *Runtime) BindKey(n *schema.Node, k TypeID) error {
	if !n.IsKeyed() {
		return fmt.Errorf("binding: %s is not a keyed list", n)
	}
	if k.IsZero() || k.t.Kind() != reflect.Struct {
		return fmt.Errorf("binding: key of %s must be a struct, got %s", n, k)
	}
	r.keys[n] = k
	return nil
}

// TypeOf returns the generated type of n.
func (r *Runtime) TypeOf(n *schema.Node) (TypeID, bool) {
	t, ok := r.byNode[n]
	return t, ok
}

// NodeOf returns the schema node t is generated for.
func (r *Runtime) NodeOf(t TypeID) (*schema.Node, bool) {
	n, ok := r.byType[t]
	return n, ok
}

// KeyOf returns the key type of keyed list n.
func (r *Runtime) KeyOf(n *schema.Node) (TypeID, bool) {
	k, ok := r.keys[n]
	return k, ok
}

// Register binds T to the schema node at path.
func Register[T any](r *Runtime, path ...schema.QName) error {
	n, err := r.ctx.MustFind(path...)
	if err != nil {
		return err
	}
	return r.Bind(n, TypeOf[T]())
}

// RegisterKey binds key type K to the keyed list at path.
func RegisterKey[K any](r *Runtime, path ...schema.QName) error {
	n, err := r.ctx.MustFind(path...)
	if err != nil {
		return err
	}
	return r.BindKey(n, TypeOf[K]())
}

// MustRegister is like Register but panics on error. It is meant for
// package-level registration tables of generated code.
func MustRegister[T any](r *Runtime, path ...schema.QName) {
	if err := Register[T](r, path...); err != nil {
		panic(err)
	}
}

// Validate checks that every keyed list bound to a type also has a key
// type.
func (r *Runtime) Validate() error {
	var iss yangbind.Issues
	for n, t := range r.byNode {
		if !n.IsKeyed() {
			continue
		}
		if _, ok := r.keys[n]; !ok {
			iss = yangbind.AppendIssues(iss, yangbind.IssueAt(n.Name.String(), yangbind.CodeInvalidArgument,
				fmt.Sprintf("list type %s has no key type", t), nil))
		}
	}
	if len(iss) > 0 {
		return iss
	}
	return nil
}
