package bindingcodec

import (
	"errors"

	yangbind "github.com/reoring/yangbind"
	"github.com/reoring/yangbind/binding"
	"github.com/reoring/yangbind/internal/lazy"
	"github.com/reoring/yangbind/schema"
)

var errNotInChoice = errors.New("bindingcodec: prototype is not inside the choice")

// ChoiceContext is a choice. In the normalized tree it is a level holding
// the content of one case; in the bound representation it is an interface
// field holding the case object. Lookups in either direction record the
// case introducing each descendant they return.
type ChoiceContext struct {
	proto *Prototype

	byArg   lazy.Map[schema.QName, *Prototype]
	matches lazy.Map[binding.TypeID, []childRef]
	cases   lazy.Map[binding.TypeID, *Prototype]
	owners  lazy.Map[*Prototype, *Prototype] // descendant -> case
}

// Prototype returns the prototype of the choice.
func (c *ChoiceContext) Prototype() *Prototype { return c.proto }

// Child returns the normalized child q of the choice level together with
// the case declaring it. Sibling cases may declare same-named children in
// different namespaces.
func (c *ChoiceContext) Child(q schema.QName) (child, cas *Prototype, err error) {
	child, err = c.byArg.Get(q, func() (*Prototype, error) {
		tr := c.proto.tree
		for _, cs := range c.proto.node.Children {
			if cs.Kind != schema.KindCase {
				continue
			}
			for _, d := range cs.DataChildren() {
				if d.Name == q {
					return tr.proto(d), nil
				}
			}
		}
		return nil, yangbind.SchemaMismatch(c.proto.Path(), q)
	})
	if err != nil {
		return nil, nil, err
	}
	cas, _ = c.CaseOf(child)
	return child, cas, nil
}

// typeMatches lists the descendants of the choice with generated type t,
// each with the case introducing it. Case types themselves match too.
// Matches inside nested choices carry the nested choice as a transparent
// level.
func (c *ChoiceContext) typeMatches(t binding.TypeID) ([]childRef, error) {
	return c.matches.Get(t, func() ([]childRef, error) {
		var out []childRef
		tr := c.proto.tree
		for _, cs := range c.proto.node.Children {
			if cs.Kind != schema.KindCase {
				continue
			}
			if csp := tr.proto(cs); csp.typ == t {
				out = append(out, c.ref(csp))
			}
			for _, ch := range cs.Children {
				cp := tr.proto(ch)
				switch ch.Kind {
				case schema.KindContainer, schema.KindList:
					if cp.typ == t {
						out = append(out, c.ref(cp))
					}
				case schema.KindChoice:
					nested, err := choiceContext(cp)
					if err != nil {
						return nil, err
					}
					refs, err := nested.typeMatches(t)
					if err != nil {
						return nil, err
					}
					for _, r := range refs {
						c.CaseOf(r.proto)
						r.via = append([]*Prototype{cp}, r.via...)
						out = append(out, r)
					}
				}
			}
			for _, a := range cs.Augmentations {
				if ap := tr.proto(a); ap.typ == t {
					out = append(out, c.ref(ap))
				}
			}
		}
		return out, nil
	})
}

func (c *ChoiceContext) ref(p *Prototype) childRef {
	cas, _ := c.CaseOf(p)
	return childRef{proto: p, cas: cas}
}

// CaseOfType returns the case whose generated type is t.
func (c *ChoiceContext) CaseOfType(t binding.TypeID) (*Prototype, error) {
	return c.cases.Get(t, func() (*Prototype, error) {
		for _, cs := range c.proto.node.Children {
			if cs.Kind != schema.KindCase {
				continue
			}
			if p := c.proto.tree.proto(cs); p.typ == t {
				return p, nil
			}
		}
		return nil, yangbind.SchemaMismatch(c.proto.Path(), t)
	})
}

// CaseOf returns the case of this choice that introduces p. A case is its
// own owner. It reports false when p does not lie inside the choice.
func (c *ChoiceContext) CaseOf(p *Prototype) (*Prototype, bool) {
	if p == nil {
		return nil, false
	}
	cas, err := c.owners.Get(p, func() (*Prototype, error) {
		for cur := p; cur != nil; cur = cur.Parent() {
			if cur.Parent() == c.proto && cur.node.Kind == schema.KindCase {
				return cur, nil
			}
		}
		return nil, errNotInChoice
	})
	return cas, err == nil
}

func choiceContext(p *Prototype) (*ChoiceContext, error) {
	ctx, err := p.Context()
	if err != nil {
		return nil, err
	}
	cc, ok := ctx.(*ChoiceContext)
	if !ok {
		return nil, yangbind.InvalidArgument(p.Path(), "not a choice")
	}
	return cc, nil
}
