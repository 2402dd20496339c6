package bindingcodec

import (
	"fmt"

	"github.com/sirupsen/logrus"

	yangbind "github.com/reoring/yangbind"
	"github.com/reoring/yangbind/binding"
	"github.com/reoring/yangbind/internal/lazy"
	"github.com/reoring/yangbind/schema"
)

// Context is the codec context of one prototype. The implementations are
// *RootContext, *ContainerContext, *ListContext, *ChoiceContext,
// *CaseContext, *AugmentationContext, *OperationContext, *LeafContext,
// *LeafListContext and *AnyDataContext.
type Context interface {
	Prototype() *Prototype
	codecContext()
}

// compositeContext is implemented by contexts with addressable children.
type compositeContext interface {
	Context
	base() *composite
}

// childRef is a prototype reached from a composite, with the transparent
// levels in between: choices and operations whose addressing keys precede
// the prototype's own in a normalized path.
type childRef struct {
	proto *Prototype
	via   []*Prototype
	cas   *Prototype // innermost case introducing proto
}

type typeKey struct {
	t, cas binding.TypeID
}

// composite holds the child indices shared by the container-like contexts.
type composite struct {
	proto   *Prototype
	shape   *structShape // nil when the node has no generated type
	byArg   lazy.Map[schema.QName, *Prototype]
	byType  lazy.Map[typeKey, childRef]
	matches lazy.Map[binding.TypeID, []childRef]
}

func (c *composite) base() *composite { return c }

// Prototype returns the prototype the context was built from.
func (c *composite) Prototype() *Prototype { return c.proto }

// Child returns the prototype of the normalized child named q: a data
// node, a choice, an rpc input or output, or an augmentation child.
func (c *composite) Child(q schema.QName) (*Prototype, error) {
	return c.byArg.Get(q, func() (*Prototype, error) {
		n := addressable(c.proto.node, q)
		if n == nil {
			return nil, yangbind.SchemaMismatch(c.proto.Path(), q)
		}
		return c.proto.tree.proto(n), nil
	})
}

// ChildOfType returns the prototype of the child whose generated type is t,
// looking through choices and operations.
func (c *composite) ChildOfType(t binding.TypeID) (*Prototype, error) {
	ref, err := c.childByType(t, binding.TypeID{})
	return ref.proto, err
}

func (c *composite) childByType(t, cas binding.TypeID) (childRef, error) {
	return c.byType.Get(typeKey{t, cas}, func() (childRef, error) {
		refs, err := c.typeMatches(t)
		if err != nil {
			return childRef{}, err
		}
		return c.proto.tree.pick(c.proto, refs, t, cas)
	})
}

func addressable(n *schema.Node, q schema.QName) *schema.Node {
	if c := n.Child(q); c != nil && c.Kind != schema.KindCase && c.Kind != schema.KindAugmentation {
		return c
	}
	return n.DataChild(q)
}

// typeMatches lists every way a child of generated type t is reachable
// without crossing another bound step. Choices resolve their part through
// their own context.
func (c *composite) typeMatches(t binding.TypeID) ([]childRef, error) {
	return c.matches.Get(t, func() ([]childRef, error) {
		var out []childRef
		tr := c.proto.tree
		for _, ch := range c.proto.node.Children {
			cp := tr.proto(ch)
			switch ch.Kind {
			case schema.KindContainer, schema.KindList, schema.KindNotification, schema.KindInput, schema.KindOutput:
				if cp.typ == t {
					out = append(out, childRef{proto: cp})
				}
			case schema.KindRPC, schema.KindAction:
				for _, io := range ch.Children {
					if iop := tr.proto(io); iop.typ == t {
						out = append(out, childRef{proto: iop, via: []*Prototype{cp}})
					}
				}
			case schema.KindChoice:
				cc, err := choiceContext(cp)
				if err != nil {
					return nil, err
				}
				refs, err := cc.typeMatches(t)
				if err != nil {
					return nil, err
				}
				for _, r := range refs {
					r.via = append([]*Prototype{cp}, r.via...)
					out = append(out, r)
				}
			}
		}
		for _, a := range c.proto.node.Augmentations {
			if ap := tr.proto(a); ap.typ == t {
				out = append(out, childRef{proto: ap})
			}
		}
		return out, nil
	})
}

// pick selects the match qualified by case type cas. Without a qualifier
// the first match in declaration order wins; several matches are logged
// once.
func (t *Tree) pick(parent *Prototype, refs []childRef, typ, cas binding.TypeID) (childRef, error) {
	if !cas.IsZero() {
		for _, r := range refs {
			if r.cas != nil && r.cas.typ == cas {
				return r, nil
			}
		}
		return childRef{}, yangbind.SchemaMismatch(parent.Path(), binding.Step{Type: typ, Case: cas})
	}
	switch len(refs) {
	case 0:
		return childRef{}, yangbind.SchemaMismatch(parent.Path(), typ)
	case 1:
		return refs[0], nil
	}
	t.warnOnce("ambiguous:"+parent.Path()+":"+typ.String(), logrus.Fields{
		"node":   parent.Path(),
		"type":   typ.String(),
		"chosen": refs[0].proto.Path(),
		"count":  len(refs),
	}, "generated type reachable through several cases, using the first; qualify the step with its case")
	return refs[0], nil
}

func (c *composite) init(p *Prototype) error {
	c.proto = p
	if p.typ.IsZero() {
		return nil
	}
	shape, err := p.tree.analyze(p.typ.Type())
	if err != nil {
		return fmt.Errorf("bindingcodec: %s: %w", p, err)
	}
	for name := range shape.fields {
		if !hasLocalChild(p.node, name) {
			return yangbind.SchemaMismatch(p.Path(), schema.QName{Namespace: p.node.Name.Namespace, Local: name})
		}
	}
	c.shape = shape
	return nil
}

func hasLocalChild(n *schema.Node, local string) bool {
	for _, c := range n.Children {
		if c.Name.Local == local && (c.Kind.IsData() || c.Kind == schema.KindChoice) {
			return true
		}
	}
	return false
}

// RootContext resolves top-level data, notifications and operations.
type RootContext struct{ composite }

// ContainerContext is a container, notification, or rpc input or output.
type ContainerContext struct{ composite }

// ListContext describes one entry of a list; the list's cardinality is
// handled by the data codec. Keyed lists convert between key structs and
// predicates.
type ListContext struct {
	composite
	keyType  binding.TypeID
	keyShape *structShape
}

// CaseContext is one case of a choice. It has no addressing key.
type CaseContext struct{ composite }

// AugmentationContext is transparent: its children are children of the
// augmented node in the normalized tree.
type AugmentationContext struct{ composite }

// OperationContext is an rpc or action; its children are input and output.
type OperationContext struct{ composite }

// LeafContext converts leaf values.
type LeafContext struct {
	proto *Prototype
	codec *valueCodec
}

// LeafListContext converts leaf-list values.
type LeafListContext struct {
	proto *Prototype
	codec *valueCodec
}

// AnyDataContext carries opaque payloads of the document object model.
type AnyDataContext struct {
	proto *Prototype
}

func (*RootContext) codecContext()         {}
func (*ContainerContext) codecContext()    {}
func (*ListContext) codecContext()         {}
func (*ChoiceContext) codecContext()       {}
func (*CaseContext) codecContext()         {}
func (*AugmentationContext) codecContext() {}
func (*OperationContext) codecContext()    {}
func (*LeafContext) codecContext()         {}
func (*LeafListContext) codecContext()     {}
func (*AnyDataContext) codecContext()      {}

func (c *LeafContext) Prototype() *Prototype     { return c.proto }
func (c *LeafListContext) Prototype() *Prototype { return c.proto }
func (c *AnyDataContext) Prototype() *Prototype  { return c.proto }

// Keyed reports whether entries are addressable by key.
func (c *ListContext) Keyed() bool { return c.proto.node.IsKeyed() }

// KeyType returns the generated key type, zero for keyless lists.
func (c *ListContext) KeyType() binding.TypeID { return c.keyType }

func newContext(p *Prototype) (Context, error) {
	var cc compositeContext
	switch p.node.Kind {
	case schema.KindRoot:
		cc = &RootContext{}
	case schema.KindContainer, schema.KindNotification, schema.KindInput, schema.KindOutput:
		cc = &ContainerContext{}
	case schema.KindList:
		return newListContext(p)
	case schema.KindChoice:
		return &ChoiceContext{proto: p}, nil
	case schema.KindCase:
		cc = &CaseContext{}
	case schema.KindAugmentation:
		cc = &AugmentationContext{}
	case schema.KindRPC, schema.KindAction:
		cc = &OperationContext{}
	case schema.KindLeaf:
		vc, err := newValueCodec(p.node)
		if err != nil {
			return nil, err
		}
		return &LeafContext{proto: p, codec: vc}, nil
	case schema.KindLeafList:
		vc, err := newValueCodec(p.node)
		if err != nil {
			return nil, err
		}
		return &LeafListContext{proto: p, codec: vc}, nil
	case schema.KindAnyData, schema.KindAnyXML:
		return &AnyDataContext{proto: p}, nil
	default:
		return nil, fmt.Errorf("bindingcodec: no codec context for %s", p)
	}
	if err := cc.base().init(p); err != nil {
		return nil, err
	}
	return cc, nil
}

func newListContext(p *Prototype) (*ListContext, error) {
	l := &ListContext{}
	if err := l.init(p); err != nil {
		return nil, err
	}
	if !p.node.IsKeyed() || p.typ.IsZero() {
		return l, nil
	}
	k, ok := p.tree.runtime.KeyOf(p.node)
	if !ok {
		return nil, yangbind.InvalidArgument(p.Path(), fmt.Sprintf("list type %s has no key type", p.typ))
	}
	shape, err := p.tree.analyze(k.Type())
	if err != nil {
		return nil, fmt.Errorf("bindingcodec: key of %s: %w", p, err)
	}
	for _, kq := range p.node.Keys {
		if _, ok := shape.fields[kq.Local]; !ok {
			return nil, yangbind.InvalidArgument(p.Path(), fmt.Sprintf("key type %s has no field for %s", k, kq))
		}
	}
	l.keyType = k
	l.keyShape = shape
	return l, nil
}
