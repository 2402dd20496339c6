// Package binding describes the bound representation: generated Go types,
// the paths addressing their instances, and the runtime metadata linking
// them to schema nodes.
//
// A generated type is a struct whose fields carry `yang:"local-name"` tags:
//
//	type Top struct {
//	    Name  *string         `yang:"name"`  // leaf
//	    Tags  []string        `yang:"tags"`  // leaf-list
//	    Items []*Item         `yang:"item"`  // list
//	    Shape Shape           `yang:"shape"` // choice, implemented by case structs
//	    Blob  *binding.Opaque `yang:"blob"`  // anydata
//
//	    binding.Augmentations // augmentation instances by type
//	}
//
// Leaves are pointers, slices or values whose zero value means absent.
// Choice and case levels have no step in a bound Path; augmentations do.
package binding

import (
	"fmt"
	"maps"
	"reflect"
	"strings"

	"github.com/reoring/yangbind/data"
)

// TypeID identifies a generated type. The zero TypeID identifies nothing.
type TypeID struct {
	t reflect.Type
}

// TypeOf returns the TypeID of T.
func TypeOf[T any]() TypeID { return TypeID{t: reflect.TypeFor[T]()} }

// TypeFor returns the TypeID of t.
func TypeFor(t reflect.Type) TypeID { return TypeID{t: t} }

// TypeIDOf returns the TypeID of the dynamic type of obj, looking through
// one level of pointer.
func TypeIDOf(obj any) TypeID {
	t := reflect.TypeOf(obj)
	if t == nil {
		return TypeID{}
	}
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return TypeID{t: t}
}

// Type returns the underlying reflect.Type, nil for the zero TypeID.
func (id TypeID) Type() reflect.Type { return id.t }

// IsZero reports whether id identifies nothing.
func (id TypeID) IsZero() bool { return id.t == nil }

func (id TypeID) String() string {
	if id.t == nil {
		return "<none>"
	}
	return id.t.String()
}

// Step is one step of a bound path.
type Step struct {
	Type TypeID
	// Case qualifies a step whose type is introduced by a choice case. It
	// is optional unless the type is reachable through several cases.
	Case TypeID
	// Key is the key of a keyed list entry. A list step without a key
	// addresses all entries.
	Key any
}

// Of returns a step for T.
func Of[T any]() Step { return Step{Type: TypeOf[T]()} }

// In returns s qualified by case type c.
func (s Step) In(c TypeID) Step {
	s.Case = c
	return s
}

// WithKey returns s addressing the list entry with key k.
func (s Step) WithKey(k any) Step {
	s.Key = k
	return s
}

func (s Step) String() string {
	var b strings.Builder
	if !s.Case.IsZero() {
		fmt.Fprintf(&b, "%s:", s.Case)
	}
	b.WriteString(s.Type.String())
	if s.Key != nil {
		fmt.Fprintf(&b, "[%+v]", s.Key)
	}
	return b.String()
}

// Path is a bound instance identifier.
type Path []Step

// PathOf returns a path made of steps.
func PathOf(steps ...Step) Path { return Path(steps) }

func (p Path) String() string {
	parts := make([]string, len(p))
	for i, s := range p {
		parts[i] = s.String()
	}
	return "/" + strings.Join(parts, "/")
}

// Equal reports whether p and o have the same steps and keys.
func (p Path) Equal(o Path) bool {
	if len(p) != len(o) {
		return false
	}
	for i := range p {
		if p[i].Type != o[i].Type || p[i].Case != o[i].Case || !reflect.DeepEqual(p[i].Key, o[i].Key) {
			return false
		}
	}
	return true
}

// Append returns a new path with steps appended.
func (p Path) Append(steps ...Step) Path {
	out := make(Path, 0, len(p)+len(steps))
	out = append(out, p...)
	return append(out, steps...)
}

// Augmentations holds the augmentation instances attached to an object,
// keyed by augmentation type. Values are pointers to the augmentation
// structs.
type Augmentations map[TypeID]any

// Augmentation returns the augmentation of type T, if present.
func Augmentation[T any](a Augmentations) (*T, bool) {
	v, ok := a[TypeOf[T]()]
	if !ok {
		return nil, false
	}
	t, ok := v.(*T)
	return t, ok
}

// Augment attaches v, replacing any augmentation of the same type.
func Augment[T any](a *Augmentations, v *T) {
	if *a == nil {
		*a = make(Augmentations)
	}
	(*a)[TypeOf[T]()] = v
}

// Clone returns a shallow copy of a.
func (a Augmentations) Clone() Augmentations { return maps.Clone(a) }

// Opaque is an anydata or anyxml payload in the bound representation.
type Opaque struct {
	Model data.ObjectModel
	Body  any
}
