package data

import "github.com/reoring/yangbind/schema"

// Node is one node of the normalized tree. The implementations are
// *Container, *Choice, *MapNode, *MapEntry, *UnkeyedList,
// *UnkeyedListEntry, *LeafSet, *LeafSetEntry, *Leaf and *AnyData.
type Node interface {
	Identifier() PathArgument
	node()
}

// Parent is a node holding other nodes directly addressable by path
// argument.
type Parent interface {
	Node
	// Child returns the child addressed by arg.
	Child(arg PathArgument) (Node, bool)
}

// Container is a container, an rpc input or output, a notification body or
// the top level of a data tree.
type Container struct {
	ID       NodeIdentifier
	Children []Node
}

// Choice holds the content of the one case that is present.
type Choice struct {
	ID       NodeIdentifier
	Children []Node
}

// MapNode is a keyed list.
type MapNode struct {
	ID      NodeIdentifier
	Entries []*MapEntry
}

// MapEntry is one keyed list entry.
type MapEntry struct {
	ID       NodeIdentifierWithPredicates
	Children []Node
}

// UnkeyedList is a list without keys. Its entries cannot be addressed
// individually.
type UnkeyedList struct {
	ID      NodeIdentifier
	Entries []*UnkeyedListEntry
}

// UnkeyedListEntry is one entry of an unkeyed list; its identifier is the
// list's.
type UnkeyedListEntry struct {
	ID       NodeIdentifier
	Children []Node
}

// LeafSet is a leaf-list.
type LeafSet struct {
	ID      NodeIdentifier
	Entries []*LeafSetEntry
}

// LeafSetEntry is one leaf-list value.
type LeafSetEntry struct {
	ID NodeWithValue
}

// Leaf is a leaf value.
type Leaf struct {
	ID    NodeIdentifier
	Value any
}

// AnyData is an opaque payload tagged with the object model it is
// expressed in.
type AnyData struct {
	ID    NodeIdentifier
	Model ObjectModel
	Body  any
}

func (n *Container) Identifier() PathArgument        { return n.ID }
func (n *Choice) Identifier() PathArgument           { return n.ID }
func (n *MapNode) Identifier() PathArgument          { return n.ID }
func (n *MapEntry) Identifier() PathArgument         { return n.ID }
func (n *UnkeyedList) Identifier() PathArgument      { return n.ID }
func (n *UnkeyedListEntry) Identifier() PathArgument { return n.ID }
func (n *LeafSet) Identifier() PathArgument          { return n.ID }
func (n *LeafSetEntry) Identifier() PathArgument     { return n.ID }
func (n *Leaf) Identifier() PathArgument             { return n.ID }
func (n *AnyData) Identifier() PathArgument          { return n.ID }

func (*Container) node()        {}
func (*Choice) node()           {}
func (*MapNode) node()          {}
func (*MapEntry) node()         {}
func (*UnkeyedList) node()      {}
func (*UnkeyedListEntry) node() {}
func (*LeafSet) node()          {}
func (*LeafSetEntry) node()     {}
func (*Leaf) node()             {}
func (*AnyData) node()          {}

// Value returns the leaf-list value.
func (n *LeafSetEntry) Value() any { return n.ID.Value }

func childIn(children []Node, arg PathArgument) (Node, bool) {
	for _, c := range children {
		if ArgumentsEqual(c.Identifier(), arg) {
			return c, true
		}
	}
	return nil, false
}

func (n *Container) Child(arg PathArgument) (Node, bool)        { return childIn(n.Children, arg) }
func (n *Choice) Child(arg PathArgument) (Node, bool)           { return childIn(n.Children, arg) }
func (n *MapEntry) Child(arg PathArgument) (Node, bool)         { return childIn(n.Children, arg) }
func (n *UnkeyedListEntry) Child(arg PathArgument) (Node, bool) { return childIn(n.Children, arg) }

func (n *MapNode) Child(arg PathArgument) (Node, bool) {
	for _, e := range n.Entries {
		if ArgumentsEqual(e.ID, arg) {
			return e, true
		}
	}
	return nil, false
}

func (n *LeafSet) Child(arg PathArgument) (Node, bool) {
	for _, e := range n.Entries {
		if ArgumentsEqual(e.ID, arg) {
			return e, true
		}
	}
	return nil, false
}

// Children returns the direct children of the container-like nodes
// (*Container, *Choice, *MapEntry, *UnkeyedListEntry) and nil otherwise.
func Children(n Node) []Node {
	switch n := n.(type) {
	case *Container:
		return n.Children
	case *Choice:
		return n.Children
	case *MapEntry:
		return n.Children
	case *UnkeyedListEntry:
		return n.Children
	}
	return nil
}

// Find descends from n along rel.
func Find(n Node, rel Path) (Node, bool) {
	cur := n
	for _, arg := range rel {
		p, ok := cur.(Parent)
		if !ok {
			return nil, false
		}
		if cur, ok = p.Child(arg); !ok {
			return nil, false
		}
	}
	return cur, true
}

// NewContainer returns a container named q.
func NewContainer(q schema.QName, children ...Node) *Container {
	return &Container{ID: NodeIdentifier{Name: q}, Children: children}
}

// NewChoice returns a choice named q.
func NewChoice(q schema.QName, children ...Node) *Choice {
	return &Choice{ID: NodeIdentifier{Name: q}, Children: children}
}

// NewLeaf returns a leaf named q.
func NewLeaf(q schema.QName, v any) *Leaf {
	return &Leaf{ID: NodeIdentifier{Name: q}, Value: v}
}

// NewMapNode returns a keyed list named q.
func NewMapNode(q schema.QName, entries ...*MapEntry) *MapNode {
	return &MapNode{ID: NodeIdentifier{Name: q}, Entries: entries}
}

// NewMapEntry returns a list entry of q with the given keys. The key leaves
// are not added to children automatically.
func NewMapEntry(q schema.QName, keys []KeyValue, children ...Node) *MapEntry {
	return &MapEntry{ID: NodeIdentifierWithPredicates{Name: q, Keys: keys}, Children: children}
}

// NewUnkeyedList returns a keyless list named q.
func NewUnkeyedList(q schema.QName, entries ...*UnkeyedListEntry) *UnkeyedList {
	return &UnkeyedList{ID: NodeIdentifier{Name: q}, Entries: entries}
}

// NewUnkeyedEntry returns an entry of keyless list q.
func NewUnkeyedEntry(q schema.QName, children ...Node) *UnkeyedListEntry {
	return &UnkeyedListEntry{ID: NodeIdentifier{Name: q}, Children: children}
}

// NewLeafSet returns a leaf-list named q holding values.
func NewLeafSet(q schema.QName, values ...any) *LeafSet {
	ls := &LeafSet{ID: NodeIdentifier{Name: q}}
	for _, v := range values {
		ls.Entries = append(ls.Entries, &LeafSetEntry{ID: NodeWithValue{Name: q, Value: v}})
	}
	return ls
}

// NewAnyData returns an anydata node named q.
func NewAnyData(q schema.QName, model ObjectModel, body any) *AnyData {
	return &AnyData{ID: NodeIdentifier{Name: q}, Model: model, Body: body}
}
