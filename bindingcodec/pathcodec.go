package bindingcodec

import (
	"fmt"
	"reflect"

	yangbind "github.com/reoring/yangbind"
	"github.com/reoring/yangbind/binding"
	"github.com/reoring/yangbind/data"
	"github.com/reoring/yangbind/schema"
)

// ToBindingPath converts a normalized path to its bound form. ok is false
// when the path is valid but has no bound counterpart: it targets a leaf,
// a leaf-list, an opaque node or the entry level of a keyless list.
//
// Choice levels produce no step. A step is qualified with its case only
// when its type is reachable through several cases of the enclosing
// object, so converting the result back yields p again.
func (t *Tree) ToBindingPath(p data.Path) (binding.Path, bool, error) {
	var (
		out    binding.Path
		anchor = t.Root() // prototype of the last bound step
		cur    = t.Root()
		cas    *Prototype
	)
	for i := 0; i < len(p); i++ {
		arg := p[i]
		child, c, err := t.normalizedChild(cur, arg.NodeType())
		if err != nil {
			return nil, false, err
		}
		if c != nil {
			cas = c
		}
		switch child.node.Kind {
		case schema.KindLeaf, schema.KindLeafList, schema.KindAnyData, schema.KindAnyXML:
			return nil, false, nil
		}
		if aug := child.augmentation(); aug != nil {
			step, err := t.boundStep(anchor, aug, cas)
			if err != nil {
				return nil, false, err
			}
			out = append(out, step)
			anchor, cas = aug, nil
		}
		switch child.node.Kind {
		case schema.KindChoice, schema.KindRPC, schema.KindAction:
			if _, ok := arg.(data.NodeIdentifier); !ok {
				return nil, false, yangbind.InvalidArgument(child.Path(), fmt.Sprintf("unexpected path argument %s", arg))
			}
			cur = child
			continue
		}
		step, err := t.boundStep(anchor, child, cas)
		if err != nil {
			return nil, false, err
		}
		cas = nil
		if child.node.Kind == schema.KindList {
			if i+1 < len(p) {
				i++
				key, ok, err := t.entryKey(child, p[i])
				if err != nil || !ok {
					return nil, false, err
				}
				step.Key = key
			}
		} else if _, ok := arg.(data.NodeIdentifier); !ok {
			return nil, false, yangbind.InvalidArgument(child.Path(), fmt.Sprintf("unexpected path argument %s", arg))
		}
		out = append(out, step)
		anchor, cur = child, child
	}
	return out, true, nil
}

// normalizedChild resolves the normalized child q of cur. Through a choice
// level it also returns the case declaring the child.
func (t *Tree) normalizedChild(cur *Prototype, q schema.QName) (*Prototype, *Prototype, error) {
	ctx, err := cur.Context()
	if err != nil {
		return nil, nil, err
	}
	switch c := ctx.(type) {
	case *ChoiceContext:
		return c.Child(q)
	case compositeContext:
		child, err := c.base().Child(q)
		return child, nil, err
	}
	return nil, nil, yangbind.SchemaMismatch(cur.Path(), q)
}

// boundStep makes the step of child below anchor, qualified by cas when
// the type alone is ambiguous there.
func (t *Tree) boundStep(anchor, child, cas *Prototype) (binding.Step, error) {
	if child.typ.IsZero() {
		return binding.Step{}, yangbind.InvalidArgument(child.Path(), "no generated type bound")
	}
	step := binding.Step{Type: child.typ}
	if cas == nil {
		return step, nil
	}
	cc, err := anchor.composite()
	if err != nil {
		return binding.Step{}, err
	}
	refs, err := cc.base().typeMatches(child.typ)
	if err != nil {
		return binding.Step{}, err
	}
	if len(refs) > 1 {
		step.Case = cas.typ
	}
	return step, nil
}

// entryKey converts the entry step arg of list l to its key.
func (t *Tree) entryKey(l *Prototype, arg data.PathArgument) (any, bool, error) {
	if arg.NodeType() != l.node.Name {
		return nil, false, yangbind.InvalidArgument(l.Path(), fmt.Sprintf("expected an entry of the list, got %s", arg))
	}
	if !l.node.IsKeyed() {
		return nil, false, nil
	}
	id, ok := arg.(data.NodeIdentifierWithPredicates)
	if !ok {
		return nil, false, yangbind.InvalidArgument(l.Path(), fmt.Sprintf("keyed list entry without predicates: %s", arg))
	}
	lc, err := listContext(l)
	if err != nil {
		return nil, false, err
	}
	key, err := lc.bindKey(id)
	if err != nil {
		return nil, false, err
	}
	return key, true, nil
}

// ToNormalizedPath converts a bound path to its normalized form. Steps
// reached through choices are preceded by the choice levels; augmentation
// steps produce no argument.
func (t *Tree) ToNormalizedPath(p binding.Path) (data.Path, error) {
	_, out, err := t.resolveBinding(p)
	return out, err
}

// resolveBinding walks p and returns the prototype of its last step with
// the normalized path.
func (t *Tree) resolveBinding(p binding.Path) (*Prototype, data.Path, error) {
	cur := t.Root()
	out := data.Path{}
	open := false // last step is a list without an entry
	for _, s := range p {
		if open {
			return nil, nil, yangbind.InvalidArgument(cur.Path(), fmt.Sprintf("step %s below a list step without key", s))
		}
		cc, err := cur.composite()
		if err != nil {
			return nil, nil, err
		}
		ref, err := cc.base().childByType(s.Type, s.Case)
		if err != nil {
			return nil, nil, err
		}
		child := ref.proto
		for _, v := range ref.via {
			out = append(out, v.key)
		}
		switch child.node.Kind {
		case schema.KindCase:
			return nil, nil, yangbind.InvalidArgument(child.Path(), fmt.Sprintf("case type %s cannot be a path step", s.Type))
		case schema.KindAugmentation:
			if s.Key != nil {
				return nil, nil, yangbind.InvalidArgument(child.Path(), "key on an augmentation step")
			}
		case schema.KindList:
			out = append(out, child.key)
			if s.Key == nil {
				open = true
				break
			}
			lc, err := listContext(child)
			if err != nil {
				return nil, nil, err
			}
			id, err := lc.predicates(s.Key)
			if err != nil {
				return nil, nil, err
			}
			out = append(out, id)
		default:
			if s.Key != nil {
				return nil, nil, yangbind.InvalidArgument(child.Path(), "key on a step that is not a keyed list")
			}
			out = append(out, child.key)
		}
		cur = child
	}
	return cur, out, nil
}

func listContext(p *Prototype) (*ListContext, error) {
	ctx, err := p.Context()
	if err != nil {
		return nil, err
	}
	lc, ok := ctx.(*ListContext)
	if !ok {
		return nil, fmt.Errorf("bindingcodec: %s is not a list", p)
	}
	return lc, nil
}

// keyLeaf returns the context of key leaf q.
func (c *ListContext) keyLeaf(q schema.QName) (*LeafContext, error) {
	n := c.proto.node.Child(q)
	if n == nil || n.Kind != schema.KindLeaf {
		return nil, yangbind.SchemaMismatch(c.proto.Path(), q)
	}
	ctx, err := c.proto.tree.proto(n).Context()
	if err != nil {
		return nil, err
	}
	return ctx.(*LeafContext), nil
}

// bindKey builds the key struct addressed by id.
func (c *ListContext) bindKey(id data.NodeIdentifierWithPredicates) (any, error) {
	if c.keyShape == nil {
		return nil, yangbind.InvalidArgument(c.proto.Path(), "list has no key type")
	}
	if len(id.Keys) != len(c.proto.node.Keys) {
		return nil, yangbind.InvalidArgument(c.proto.Path(), fmt.Sprintf("%s: want %d keys", id, len(c.proto.node.Keys)))
	}
	kv := reflect.New(c.keyType.Type()).Elem()
	for _, kq := range c.proto.node.Keys {
		raw, ok := id.Key(kq)
		if !ok {
			return nil, yangbind.InvalidArgument(c.proto.Path(), fmt.Sprintf("%s: missing key %s", id, kq))
		}
		leaf, err := c.keyLeaf(kq)
		if err != nil {
			return nil, err
		}
		f, _ := c.keyShape.field(kv, kq.Local)
		v, err := leaf.codec.toBound(raw, valueType(f))
		if err != nil {
			return nil, withPath(err, leaf.proto.Path())
		}
		setField(f, v)
	}
	return kv.Interface(), nil
}

// predicates converts key struct key (or a pointer to it) to the entry
// argument.
func (c *ListContext) predicates(key any) (data.NodeIdentifierWithPredicates, error) {
	kv := reflect.ValueOf(key)
	if kv.Kind() == reflect.Pointer && !kv.IsNil() {
		kv = kv.Elem()
	}
	if c.keyShape == nil || kv.Type() != c.keyType.Type() {
		return data.NodeIdentifierWithPredicates{}, yangbind.InvalidArgument(c.proto.Path(),
			fmt.Sprintf("key %T does not match key type %s", key, c.keyType))
	}
	return c.entryID(c.keyShape, kv)
}

// entryID reads the key leaves of sv, a key struct or an entry object.
func (c *ListContext) entryID(shape *structShape, sv reflect.Value) (data.NodeIdentifierWithPredicates, error) {
	id := data.NodeIdentifierWithPredicates{Name: c.proto.node.Name}
	for _, kq := range c.proto.node.Keys {
		leaf, err := c.keyLeaf(kq)
		if err != nil {
			return id, err
		}
		f, ok := shape.field(sv, kq.Local)
		if !ok {
			return id, yangbind.InvalidArgument(c.proto.Path(), fmt.Sprintf("%s has no field for key %s", sv.Type(), kq))
		}
		if f.Kind() == reflect.Pointer {
			if f.IsNil() {
				return id, yangbind.InvalidArgument(leaf.proto.Path(), "key leaf is not set")
			}
			f = f.Elem()
		}
		v, err := leaf.codec.toNormalized(f)
		if err != nil {
			return id, withPath(err, leaf.proto.Path())
		}
		id.Keys = append(id.Keys, data.KeyValue{Name: kq, Value: v})
	}
	return id, nil
}
