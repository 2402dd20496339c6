package schema

import (
	"fmt"

	yangbind "github.com/reoring/yangbind"
)

// Module groups the top-level statements of one modeling unit.
type Module struct {
	Name       string
	Namespace  string
	Prefix     string
	Identities []*Identity
	Nodes      []*Node
}

// Context is the effective schema: a read-only, fully cross-referenced set
// of modules. One Context is one schema generation.
type Context struct {
	modules    []*Module
	root       *Node
	identities map[QName]*Identity
}

// NewContext seals the given modules into a Context. It links parents,
// marks augmentation children and resolves identityref types; the node
// trees must not be mutated afterwards.
func NewContext(modules ...*Module) (*Context, error) {
	root := &Node{Kind: KindRoot}
	seen := make(map[QName]*Module)
	for _, m := range modules {
		for _, n := range m.Nodes {
			if prev, ok := seen[n.Name]; ok {
				return nil, fmt.Errorf("schema: %s declared by both %s and %s", n.Name, prev.Name, m.Name)
			}
			seen[n.Name] = m
			root.Children = append(root.Children, n)
		}
	}
	if err := link(root, nil, false); err != nil {
		return nil, err
	}
	c := &Context{modules: modules, root: root}
	if err := c.indexIdentities(); err != nil {
		return nil, err
	}
	if err := c.resolveTypes(root); err != nil {
		return nil, err
	}
	return c, nil
}

func link(n, parent *Node, augmenting bool) error {
	n.parent = parent
	if augmenting && n.Kind.IsData() {
		n.Augmenting = true
	}
	if n.Kind == KindList {
		for _, k := range n.Keys {
			c := n.Child(k)
			if c == nil || c.Kind != KindLeaf {
				return fmt.Errorf("schema: list %s declares key %s without a matching leaf", n.Name, k)
			}
		}
	}
	for _, c := range n.Children {
		if err := link(c, n, augmenting); err != nil {
			return err
		}
	}
	for _, a := range n.Augmentations {
		if a.Kind != KindAugmentation {
			return fmt.Errorf("schema: %s nests a %s as augmentation", n.Name, a.Kind)
		}
		if err := link(a, n, true); err != nil {
			return err
		}
	}
	return nil
}

// Modules returns the modules of this schema generation.
func (c *Context) Modules() []*Module { return c.modules }

// Module returns the module with the given namespace.
func (c *Context) Module(namespace string) *Module {
	for _, m := range c.modules {
		if m.Namespace == namespace {
			return m
		}
	}
	return nil
}

// Root returns the synthetic node holding all top-level statements.
func (c *Context) Root() *Node { return c.root }

// Find walks substatements by name from the root. Steps may name any child
// statement: data nodes, choices, cases, rpcs, input and output, and the
// augmentations of a node. Augmentation children are found under their
// target as well.
func (c *Context) Find(path ...QName) *Node {
	cur := c.root
	for _, q := range path {
		next := cur.Child(q)
		if next == nil {
			next = cur.DataChild(q)
		}
		if next == nil {
			next = cur.augmentation(q)
		}
		if next == nil {
			return nil
		}
		cur = next
	}
	return cur
}

// MustFind is like Find but fails with a schema mismatch when a step is
// missing.
func (c *Context) MustFind(path ...QName) (*Node, error) {
	if n := c.Find(path...); n != nil {
		return n, nil
	}
	return nil, yangbind.SchemaMismatch("", pathString(path))
}

type pathString []QName

func (p pathString) String() string {
	s := ""
	for _, q := range p {
		s += "/" + q.String()
	}
	return s
}
