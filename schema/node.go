package schema

// Node is one effective schema statement. Nodes are immutable once their
// Context has been built.
type Node struct {
	Name QName
	Kind Kind

	// Children holds data children, the cases of a choice, the input and
	// output of an rpc or action, and nested actions and notifications.
	Children []*Node
	// Augmentations nests the augment statements targeting this node. Their
	// children are also data children of this node in the normalized tree.
	Augmentations []*Node

	Keys        []QName // list keys in declared order; empty for keyless lists
	Presence    bool    // presence container
	State       bool    // config false
	Mandatory   bool
	MinElements int
	Type        *Type // leaf and leaf-list only

	// Augmenting is set on data nodes introduced by an augmentation.
	Augmenting bool

	parent *Node
}

// Parent returns the statement this node is a substatement of; augmentation
// children report their augmentation.
func (n *Node) Parent() *Node { return n.parent }

// IsKeyed reports whether n is a list with declared keys.
func (n *Node) IsKeyed() bool { return n.Kind == KindList && len(n.Keys) > 0 }

// IsConfig reports whether n belongs to configuration data, inheriting
// config false from ancestors.
func (n *Node) IsConfig() bool {
	for p := n; p != nil; p = p.parent {
		if p.State {
			return false
		}
	}
	return true
}

// Child returns the direct substatement named q, ignoring augmentations.
func (n *Node) Child(q QName) *Node {
	for _, c := range n.Children {
		if c.Name == q {
			return c
		}
	}
	return nil
}

// DataChild returns the data node named q that is a direct child of n in
// the normalized tree: own data children and augmentation children. Choices
// are returned as themselves; their case content is not searched.
func (n *Node) DataChild(q QName) *Node {
	for _, c := range n.Children {
		if c.Name == q && (c.Kind.IsData() || c.Kind == KindInput || c.Kind == KindOutput) {
			return c
		}
	}
	for _, a := range n.Augmentations {
		if c := a.Child(q); c != nil && c.Kind.IsData() {
			return c
		}
	}
	return nil
}

// DataChildren returns data children of n including augmentation children,
// in declaration order.
func (n *Node) DataChildren() []*Node {
	out := make([]*Node, 0, len(n.Children))
	for _, c := range n.Children {
		if c.Kind.IsData() {
			out = append(out, c)
		}
	}
	for _, a := range n.Augmentations {
		for _, c := range a.Children {
			if c.Kind.IsData() {
				out = append(out, c)
			}
		}
	}
	return out
}

// Case returns the case named q of choice n.
func (n *Node) Case(q QName) *Node {
	if n.Kind != KindChoice {
		return nil
	}
	for _, c := range n.Children {
		if c.Kind == KindCase && c.Name == q {
			return c
		}
	}
	return nil
}

// CaseOf returns the case of choice n whose subtree declares data node q,
// looking through nested choices. It returns the case and the node found.
func (n *Node) CaseOf(q QName) (*Node, *Node) {
	if n.Kind != KindChoice {
		return nil, nil
	}
	for _, cs := range n.Children {
		if cs.Kind != KindCase {
			continue
		}
		for _, c := range cs.DataChildren() {
			if c.Name == q {
				return cs, c
			}
			if c.Kind == KindChoice {
				if _, found := c.CaseOf(q); found != nil {
					return cs, c
				}
			}
		}
	}
	return nil, nil
}

func (n *Node) augmentation(q QName) *Node {
	for _, a := range n.Augmentations {
		if a.Name == q {
			return a
		}
	}
	return nil
}

// Key reports whether q is one of the declared keys of list n.
func (n *Node) Key(q QName) bool {
	for _, k := range n.Keys {
		if k == q {
			return true
		}
	}
	return false
}

func (n *Node) String() string {
	if n == nil {
		return "<nil>"
	}
	return n.Kind.String() + " " + n.Name.String()
}
