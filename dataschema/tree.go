// Package dataschema indexes the schema by normalized path arguments.
//
// It mirrors the structure of the normalized tree: a list has an extra
// level for one entry, a leaf-list one for one value, and a choice is a
// level whose children are the content of its cases. Lookups work on
// schema statements and path arguments only, without generated types, and
// can push the entered statements onto a schema.InferenceStack.
//
// Levels are built on first lookup and cached, so the same path always
// yields the same Node.
package dataschema

import (
	"strings"

	yangbind "github.com/reoring/yangbind"
	"github.com/reoring/yangbind/data"
	"github.com/reoring/yangbind/schema"
)

// Tree is the index of one schema generation.
type Tree struct {
	ctx  *schema.Context
	root *Container
}

// NewTree returns the index of ctx.
func NewTree(ctx *schema.Context) *Tree {
	return &Tree{ctx: ctx, root: newContainer(ctx.Root())}
}

// Schema returns the indexed schema generation.
func (t *Tree) Schema() *schema.Context { return t.ctx }

// Root returns the level of the schema root.
func (t *Tree) Root() *Container { return t.root }

// Find returns the level addressed by p.
func (t *Tree) Find(p data.Path) (Node, error) {
	var cur Node = t.root
	for i, arg := range p {
		c, ok := cur.(Composite)
		if !ok {
			return nil, yangbind.SchemaMismatch(p[:i].String(), arg)
		}
		next, err := c.Child(arg.NodeType())
		if err != nil {
			return nil, err
		}
		cur = next
	}
	return cur, nil
}

// EnterPath resolves p like Find and pushes every statement on the way onto
// stack, which must be positioned at the schema root. Choices push their
// case as well; entry levels push nothing.
func (t *Tree) EnterPath(stack *schema.InferenceStack, p data.Path) (Node, error) {
	if stack.Len() != 0 {
		return nil, yangbind.InvalidArgument("", "inference stack is not at the schema root")
	}
	var cur Node = t.root
	for i, arg := range p {
		c, ok := cur.(Composite)
		if !ok {
			return nil, yangbind.SchemaMismatch(p[:i].String(), arg)
		}
		next, err := c.EnterChild(stack, arg.NodeType())
		if err != nil {
			return nil, err
		}
		cur = next
	}
	return cur, nil
}

// schemaPath renders the statement path of n.
func schemaPath(n *schema.Node) string {
	var parts []string
	for cur := n; cur != nil && cur.Kind != schema.KindRoot; cur = cur.Parent() {
		parts = append(parts, cur.Name.String())
	}
	if len(parts) == 0 {
		return "/"
	}
	var b strings.Builder
	for i := len(parts) - 1; i >= 0; i-- {
		b.WriteByte('/')
		b.WriteString(parts[i])
	}
	return b.String()
}
