package bindingcodec

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/reoring/yangbind/binding"
	"github.com/reoring/yangbind/data"
	"github.com/reoring/yangbind/internal/lazy"
	"github.com/reoring/yangbind/schema"
)

// Prototype is the immutable descriptor of one schema node: its statement,
// generated type, addressing key and the tree owning it. The Codec Context
// is built from it on first use.
type Prototype struct {
	tree   *Tree
	index  int
	parent int // arena index, -1 for the root
	node   *schema.Node
	typ    binding.TypeID
	key    data.PathArgument

	ctx lazy.Cell[Context]
}

func nodeID(q schema.QName) data.NodeIdentifier { return data.NodeIdentifier{Name: q} }

// Statement returns the schema node.
func (p *Prototype) Statement() *schema.Node { return p.node }

// Type returns the generated type, or the zero TypeID when the node has none.
func (p *Prototype) Type() binding.TypeID { return p.typ }

// AddressingKey returns the normalized path step of the node. Cases,
// augmentations and the root have none and return nil.
func (p *Prototype) AddressingKey() data.PathArgument { return p.key }

// Tree returns the tree that owns p.
func (p *Prototype) Tree() *Tree { return p.tree }

// Parent returns the prototype of the enclosing statement, nil for the root.
func (p *Prototype) Parent() *Prototype {
	if p.parent < 0 {
		return nil
	}
	return p.tree.arena[p.parent]
}

// augmentation returns the augmentation introducing p, if p is a direct
// child of one.
func (p *Prototype) augmentation() *Prototype {
	if pp := p.Parent(); pp != nil && pp.node.Kind == schema.KindAugmentation {
		return pp
	}
	return nil
}

// Path renders the schema path of p, including choice and case levels.
func (p *Prototype) Path() string {
	var parts []string
	for cur := p; cur != nil && cur.node.Kind != schema.KindRoot; cur = cur.Parent() {
		parts = append(parts, cur.node.Name.String())
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

func (p *Prototype) String() string { return p.node.Kind.String() + " " + p.Path() }

// Context returns the codec context of p, building it on first use.
// Construction runs at most once successfully; a failed attempt leaves
// the context unbuilt for a later retry.
func (p *Prototype) Context() (Context, error) {
	return p.ctx.Get(p.instantiate)
}

func (p *Prototype) instantiate() (Context, error) {
	ctx, err := newContext(p)
	if err != nil {
		p.tree.log.WithFields(logrus.Fields{
			"node": p.Path(),
			"kind": p.node.Kind.String(),
		}).WithError(err).Debug("codec context construction failed")
		return nil, err
	}
	p.tree.log.WithFields(logrus.Fields{
		"node": p.Path(),
		"kind": p.node.Kind.String(),
	}).Debug("codec context instantiated")
	return ctx, nil
}

func (p *Prototype) composite() (compositeContext, error) {
	ctx, err := p.Context()
	if err != nil {
		return nil, err
	}
	cc, ok := ctx.(compositeContext)
	if !ok {
		return nil, fmt.Errorf("bindingcodec: %s has no children", p)
	}
	return cc, nil
}
