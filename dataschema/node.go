package dataschema

import (
	yangbind "github.com/reoring/yangbind"
	"github.com/reoring/yangbind/internal/lazy"
	"github.com/reoring/yangbind/schema"
)

// Node is one level of the index. Implementations are *Container, *List,
// *ListItem, *LeafList, *LeafListEntry, *Choice, *Leaf and *AnyData.
type Node interface {
	// Statement returns the schema statement of the level. Entry levels
	// report the statement of their list or leaf-list.
	Statement() *schema.Node
	String() string

	enter(stack *schema.InferenceStack) error
}

// Composite is a level with addressable children.
type Composite interface {
	Node
	// Child returns the level of the child named q.
	Child(q schema.QName) (Node, error)
	// EnterChild is Child that also pushes the child onto stack.
	EnterChild(stack *schema.InferenceStack, q schema.QName) (Node, error)
	// Names lists the addressable child names in schema order.
	Names() []schema.QName
}

type base struct{ stmt *schema.Node }

func (b base) Statement() *schema.Node { return b.stmt }
func (b base) String() string          { return b.stmt.String() }

// schemaLevel enters the statement with stack.EnterSchemaTree.
type schemaLevel struct{ base }

func (l schemaLevel) enter(stack *schema.InferenceStack) error {
	_, err := stack.EnterSchemaTree(l.stmt.Name)
	return err
}

// entryLevel has no grammar position of its own.
type entryLevel struct{ base }

func (entryLevel) enter(*schema.InferenceStack) error { return nil }

// children is a lazily populated child index shared by the composite
// levels.
type children struct {
	parent *schema.Node
	byName lazy.Map[schema.QName, Node]
}

func (c *children) get(q schema.QName, find func(schema.QName) *schema.Node) (Node, error) {
	return c.byName.Get(q, func() (Node, error) {
		n := find(q)
		if n == nil {
			return nil, yangbind.SchemaMismatch(schemaPath(c.parent), q)
		}
		return newNode(n), nil
	})
}

func newNode(n *schema.Node) Node {
	switch n.Kind {
	case schema.KindList:
		l := &List{schemaLevel: schemaLevel{base{n}}}
		l.item = newListItem(n)
		return l
	case schema.KindLeafList:
		return &LeafList{
			schemaLevel: schemaLevel{base{n}},
			entry:       &LeafListEntry{entryLevel{base{n}}},
		}
	case schema.KindChoice:
		return newChoice(n)
	case schema.KindLeaf:
		return &Leaf{schemaLevel{base{n}}}
	case schema.KindAnyData, schema.KindAnyXML:
		return &AnyData{schemaLevel{base{n}}}
	default:
		return newContainer(n)
	}
}

// dataChild finds the child of a container-like statement: data children,
// augmentation children, rpc input and output, and the operations and
// notifications declared under it.
func dataChild(n *schema.Node, q schema.QName) *schema.Node {
	if c := n.DataChild(q); c != nil {
		return c
	}
	if c := n.Child(q); c != nil {
		switch c.Kind {
		case schema.KindRPC, schema.KindAction, schema.KindNotification:
			return c
		}
	}
	return nil
}

func dataNames(n *schema.Node) []schema.QName {
	var out []schema.QName
	for _, c := range n.Children {
		switch {
		case c.Kind.IsData():
		case c.Kind == schema.KindInput, c.Kind == schema.KindOutput:
		case c.Kind == schema.KindRPC, c.Kind == schema.KindAction, c.Kind == schema.KindNotification:
		default:
			continue
		}
		out = append(out, c.Name)
	}
	for _, a := range n.Augmentations {
		for _, c := range a.Children {
			if c.Kind.IsData() {
				out = append(out, c.Name)
			}
		}
	}
	return out
}

// Container is the level of the schema root, a container, a notification,
// an rpc or action, or an rpc input or output.
type Container struct {
	schemaLevel
	kids     children
	enforcer [2]lazy.Cell[*Enforcer]
}

func newContainer(n *schema.Node) *Container {
	return &Container{schemaLevel: schemaLevel{base{n}}, kids: children{parent: n}}
}

func (c *Container) Child(q schema.QName) (Node, error) {
	return c.kids.get(q, func(q schema.QName) *schema.Node { return dataChild(c.stmt, q) })
}

func (c *Container) EnterChild(stack *schema.InferenceStack, q schema.QName) (Node, error) {
	return enterChild(c, stack, q)
}

func (c *Container) Names() []schema.QName { return dataNames(c.stmt) }

// Presence reports whether the level is a presence container.
func (c *Container) Presence() bool {
	return c.stmt.Kind == schema.KindContainer && c.stmt.Presence
}

// Enforcer returns the mandatory-node check of a presence container for the
// given tree. It reports false for other levels and for presence containers
// without mandatory descendants in that tree. The check is built on first
// request and never run by the index itself.
func (c *Container) Enforcer(tree TreeType) (*Enforcer, bool) {
	if !c.Presence() || tree > Operational {
		return nil, false
	}
	e, _ := c.enforcer[tree].Get(func() (*Enforcer, error) {
		return newEnforcer(c.stmt, tree), nil
	})
	return e, e != nil
}

// List is the level of a keyed or keyless list. Its only child is the
// entry level, addressed by the list name.
type List struct {
	schemaLevel
	item *ListItem
}

func (l *List) Keyed() bool { return l.stmt.IsKeyed() }

// Item returns the entry level.
func (l *List) Item() *ListItem { return l.item }

func (l *List) Child(q schema.QName) (Node, error) {
	if q != l.stmt.Name {
		return nil, yangbind.SchemaMismatch(schemaPath(l.stmt), q)
	}
	return l.item, nil
}

func (l *List) EnterChild(stack *schema.InferenceStack, q schema.QName) (Node, error) {
	return enterChild(l, stack, q)
}

func (l *List) Names() []schema.QName { return []schema.QName{l.stmt.Name} }

// ListItem is the level of one list entry.
type ListItem struct {
	entryLevel
	kids children
}

func newListItem(n *schema.Node) *ListItem {
	return &ListItem{entryLevel: entryLevel{base{n}}, kids: children{parent: n}}
}

func (li *ListItem) Child(q schema.QName) (Node, error) {
	return li.kids.get(q, func(q schema.QName) *schema.Node { return dataChild(li.stmt, q) })
}

func (li *ListItem) EnterChild(stack *schema.InferenceStack, q schema.QName) (Node, error) {
	return enterChild(li, stack, q)
}

func (li *ListItem) Names() []schema.QName { return dataNames(li.stmt) }

// LeafList is the level of a leaf-list; its only child is the value level.
type LeafList struct {
	schemaLevel
	entry *LeafListEntry
}

func (l *LeafList) Entry() *LeafListEntry { return l.entry }

func (l *LeafList) Child(q schema.QName) (Node, error) {
	if q != l.stmt.Name {
		return nil, yangbind.SchemaMismatch(schemaPath(l.stmt), q)
	}
	return l.entry, nil
}

func (l *LeafList) EnterChild(stack *schema.InferenceStack, q schema.QName) (Node, error) {
	return enterChild(l, stack, q)
}

func (l *LeafList) Names() []schema.QName { return []schema.QName{l.stmt.Name} }

// LeafListEntry is the level of one leaf-list value.
type LeafListEntry struct{ entryLevel }

// Leaf is the level of a leaf.
type Leaf struct{ schemaLevel }

// AnyData is the level of an anydata or anyxml node.
type AnyData struct{ schemaLevel }

func enterChild(c Composite, stack *schema.InferenceStack, q schema.QName) (Node, error) {
	child, err := c.Child(q)
	if err != nil {
		return nil, err
	}
	if err := child.enter(stack); err != nil {
		return nil, err
	}
	return child, nil
}
