// Package data is the normalized tree: schema-agnostic, namespace-qualified
// nodes addressed by path arguments.
//
// Choices appear as their own level holding the content of exactly one
// case; cases and augmentations have no level of their own.
package data

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/reoring/yangbind/schema"
)

// PathArgument is one step of a normalized path. The implementations are
// NodeIdentifier, NodeIdentifierWithPredicates and NodeWithValue.
type PathArgument interface {
	NodeType() schema.QName
	String() string
	pathArgument()
}

// NodeIdentifier addresses a container, choice, leaf, anydata, or a list or
// leaf-list as a whole.
type NodeIdentifier struct {
	Name schema.QName
}

func (n NodeIdentifier) NodeType() schema.QName { return n.Name }
func (n NodeIdentifier) String() string         { return n.Name.String() }
func (NodeIdentifier) pathArgument()            {}

// KeyValue is one key leaf value of a list entry.
type KeyValue struct {
	Name  schema.QName
	Value any
}

// NodeIdentifierWithPredicates addresses one keyed list entry. Keys are in
// the list's declared key order.
type NodeIdentifierWithPredicates struct {
	Name schema.QName
	Keys []KeyValue
}

func (n NodeIdentifierWithPredicates) NodeType() schema.QName { return n.Name }

func (n NodeIdentifierWithPredicates) String() string {
	var b strings.Builder
	b.WriteString(n.Name.String())
	b.WriteByte('[')
	for i, k := range n.Keys {
		if i > 0 {
			b.WriteByte(',')
		}
		fmt.Fprintf(&b, "%s=%v", k.Name, k.Value)
	}
	b.WriteByte(']')
	return b.String()
}

func (NodeIdentifierWithPredicates) pathArgument() {}

// Key returns the value of key q.
func (n NodeIdentifierWithPredicates) Key(q schema.QName) (any, bool) {
	for _, k := range n.Keys {
		if k.Name == q {
			return k.Value, true
		}
	}
	return nil, false
}

// NodeWithValue addresses one leaf-list entry by its value.
type NodeWithValue struct {
	Name  schema.QName
	Value any
}

func (n NodeWithValue) NodeType() schema.QName { return n.Name }
func (n NodeWithValue) String() string         { return fmt.Sprintf("%s[%v]", n.Name, n.Value) }
func (NodeWithValue) pathArgument()            {}

// ArgumentsEqual compares path arguments by kind, name and values.
func ArgumentsEqual(a, b PathArgument) bool {
	switch x := a.(type) {
	case NodeIdentifier:
		y, ok := b.(NodeIdentifier)
		return ok && x == y
	case NodeIdentifierWithPredicates:
		y, ok := b.(NodeIdentifierWithPredicates)
		if !ok || x.Name != y.Name || len(x.Keys) != len(y.Keys) {
			return false
		}
		for i := range x.Keys {
			if x.Keys[i].Name != y.Keys[i].Name || !valueEqual(x.Keys[i].Value, y.Keys[i].Value) {
				return false
			}
		}
		return true
	case NodeWithValue:
		y, ok := b.(NodeWithValue)
		return ok && x.Name == y.Name && valueEqual(x.Value, y.Value)
	}
	return false
}

func valueEqual(a, b any) bool { return reflect.DeepEqual(a, b) }

// Path is an absolute normalized path.
type Path []PathArgument

// PathOf builds a path of NodeIdentifiers.
func PathOf(names ...schema.QName) Path {
	p := make(Path, len(names))
	for i, q := range names {
		p[i] = NodeIdentifier{Name: q}
	}
	return p
}

func (p Path) String() string {
	if len(p) == 0 {
		return "/"
	}
	var b strings.Builder
	for _, a := range p {
		b.WriteByte('/')
		b.WriteString(a.String())
	}
	return b.String()
}

// Equal reports whether p and o have equal arguments.
func (p Path) Equal(o Path) bool {
	if len(p) != len(o) {
		return false
	}
	for i := range p {
		if !ArgumentsEqual(p[i], o[i]) {
			return false
		}
	}
	return true
}

// Append returns a new path with args appended; p is not modified.
func (p Path) Append(args ...PathArgument) Path {
	out := make(Path, 0, len(p)+len(args))
	out = append(out, p...)
	return append(out, args...)
}

// Last returns the final argument, or nil for the root path.
func (p Path) Last() PathArgument {
	if len(p) == 0 {
		return nil
	}
	return p[len(p)-1]
}

// Parent returns p without its final argument.
func (p Path) Parent() Path {
	if len(p) == 0 {
		return nil
	}
	return p[:len(p)-1:len(p)-1]
}
