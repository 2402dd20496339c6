package dsl

import (
	"github.com/reoring/yangbind/schema"
)

// B builds one schema node.
type B struct {
	n        *schema.Node
	ns       string
	keys     []string
	children []*B
	augments []*B
}

func node(kind schema.Kind, name string, children []*B) *B {
	return &B{n: &schema.Node{Name: schema.QName{Local: name}, Kind: kind}, children: children}
}

// Container builds a container.
func Container(name string, children ...*B) *B { return node(schema.KindContainer, name, children) }

// List builds a list; keys name key leaves in declared order and may be empty.
func List(name string, keys []string, children ...*B) *B {
	b := node(schema.KindList, name, children)
	b.keys = keys
	return b
}

// Leaf builds a leaf of type t.
func Leaf(name string, t *schema.Type) *B {
	b := node(schema.KindLeaf, name, nil)
	b.n.Type = t
	return b
}

// LeafList builds a leaf-list of type t.
func LeafList(name string, t *schema.Type) *B {
	b := node(schema.KindLeafList, name, nil)
	b.n.Type = t
	return b
}

// Choice builds a choice from its cases.
func Choice(name string, cases ...*B) *B { return node(schema.KindChoice, name, cases) }

// Case builds a case.
func Case(name string, children ...*B) *B { return node(schema.KindCase, name, children) }

// AnyData builds an anydata node.
func AnyData(name string) *B { return node(schema.KindAnyData, name, nil) }

// AnyXML builds an anyxml node.
func AnyXML(name string) *B { return node(schema.KindAnyXML, name, nil) }

// Augment builds an augmentation; attach it to its target with Augmented.
func Augment(name string, children ...*B) *B { return node(schema.KindAugmentation, name, children) }

// Notification builds a notification.
func Notification(name string, children ...*B) *B {
	return node(schema.KindNotification, name, children)
}

// RPC builds an rpc with optional input and output.
func RPC(name string, input, output *B) *B { return operation(schema.KindRPC, name, input, output) }

// Action builds an action with optional input and output.
func Action(name string, input, output *B) *B {
	return operation(schema.KindAction, name, input, output)
}

func operation(kind schema.Kind, name string, input, output *B) *B {
	b := node(kind, name, nil)
	if input != nil {
		b.children = append(b.children, input)
	}
	if output != nil {
		b.children = append(b.children, output)
	}
	return b
}

// Input builds an rpc or action input.
func Input(children ...*B) *B { return node(schema.KindInput, "input", children) }

// Output builds an rpc or action output.
func Output(children ...*B) *B { return node(schema.KindOutput, "output", children) }

// Presence marks a container as presence container.
func (b *B) Presence() *B {
	b.n.Presence = true
	return b
}

// State marks the subtree as config false.
func (b *B) State() *B {
	b.n.State = true
	return b
}

// Mandatory marks a leaf, choice or anydata as mandatory.
func (b *B) Mandatory() *B {
	b.n.Mandatory = true
	return b
}

// MinElements sets the minimum entry count of a list or leaf-list.
func (b *B) MinElements(n int) *B {
	b.n.MinElements = n
	return b
}

// Namespace overrides the namespace of this node and its descendants.
func (b *B) Namespace(ns string) *B {
	b.ns = ns
	return b
}

// Augmented nests augmentations under this node.
func (b *B) Augmented(augs ...*B) *B {
	b.augments = append(b.augments, augs...)
	return b
}

// With appends children.
func (b *B) With(children ...*B) *B {
	b.children = append(b.children, children...)
	return b
}

// Module assembles a module, assigning namespaces to all nodes.
func Module(name, namespace string, nodes ...*B) *schema.Module {
	m := &schema.Module{Name: name, Namespace: namespace}
	for _, b := range nodes {
		m.Nodes = append(m.Nodes, b.build(namespace))
	}
	return m
}

func (b *B) build(ns string) *schema.Node {
	if b.ns != "" {
		ns = b.ns
	}
	n := b.n
	n.Name.Namespace = ns
	n.Keys = n.Keys[:0]
	for _, k := range b.keys {
		n.Keys = append(n.Keys, schema.QName{Namespace: ns, Local: k})
	}
	n.Children = n.Children[:0]
	for _, c := range b.children {
		n.Children = append(n.Children, c.build(ns))
	}
	n.Augmentations = n.Augmentations[:0]
	for _, a := range b.augments {
		n.Augmentations = append(n.Augmentations, a.build(ns))
	}
	return n
}
