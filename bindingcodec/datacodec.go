package bindingcodec

import (
	"fmt"
	"reflect"

	"github.com/sirupsen/logrus"

	yangbind "github.com/reoring/yangbind"
	"github.com/reoring/yangbind/binding"
	"github.com/reoring/yangbind/data"
	"github.com/reoring/yangbind/schema"
)

var opaqueType = reflect.TypeFor[*binding.Opaque]()

// ToNormalizedNode converts bound object obj, a pointer to the generated
// type of the last step of path, to its normalized node and path. The path
// may end at a container, a keyed list entry, a notification or an rpc
// input or output. A nil cache recomputes every subtree.
func (t *Tree) ToNormalizedNode(path binding.Path, obj any, cache Cache) (data.Path, data.Node, error) {
	if len(path) == 0 {
		return nil, nil, yangbind.InvalidArgument("", "empty path")
	}
	if cache == nil {
		cache = NoopCache()
	}
	p, npath, err := t.resolveBinding(path)
	if err != nil {
		return nil, nil, err
	}
	ptr := reflect.ValueOf(obj)
	if ptr.Kind() != reflect.Pointer || ptr.IsNil() || ptr.Type().Elem() != p.typ.Type() {
		return nil, nil, yangbind.InvalidArgument(p.Path(), fmt.Sprintf("object %T is not a pointer to %s", obj, p.typ))
	}
	w := &writer{tree: t, cache: cache}
	switch p.node.Kind {
	case schema.KindContainer, schema.KindNotification, schema.KindInput, schema.KindOutput:
	case schema.KindList:
		if !p.node.IsKeyed() || path[len(path)-1].Key == nil {
			return nil, nil, yangbind.InvalidArgument(p.Path(), "path does not address a single list entry")
		}
	default:
		return nil, nil, yangbind.InvalidArgument(p.Path(), fmt.Sprintf("cannot convert a %s on its own", p.node.Kind))
	}
	n, err := w.object(p, ptr)
	if err != nil {
		return nil, nil, err
	}
	if !data.ArgumentsEqual(n.Identifier(), npath.Last()) {
		return nil, nil, yangbind.InvalidArgument(p.Path(), fmt.Sprintf("object key %s does not match path %s", n.Identifier(), npath))
	}
	return npath, n, nil
}

type writer struct {
	tree  *Tree
	cache Cache
}

// object converts the container or list entry ptr points to.
func (w *writer) object(p *Prototype, ptr reflect.Value) (data.Node, error) {
	return w.cache.node(p, ptr.Interface(), func() (data.Node, error) {
		sv := ptr.Elem()
		children, err := w.children(p, sv)
		if err != nil {
			return nil, err
		}
		if p.node.Kind != schema.KindList {
			return &data.Container{ID: nodeID(p.node.Name), Children: children}, nil
		}
		if !p.node.IsKeyed() {
			return &data.UnkeyedListEntry{ID: nodeID(p.node.Name), Children: children}, nil
		}
		lc, err := listContext(p)
		if err != nil {
			return nil, err
		}
		id, err := lc.entryID(lc.shape, sv)
		if err != nil {
			return nil, err
		}
		return &data.MapEntry{ID: id, Children: children}, nil
	})
}

// children converts the fields of sv, in schema order, followed by the
// content of its augmentations.
func (w *writer) children(p *Prototype, sv reflect.Value) ([]data.Node, error) {
	cc, err := p.composite()
	if err != nil {
		return nil, err
	}
	shape := cc.base().shape
	if shape == nil {
		return nil, yangbind.InvalidArgument(p.Path(), "no generated type bound")
	}
	var out []data.Node
	for _, ch := range p.node.Children {
		if !ch.Kind.IsData() {
			continue
		}
		f, ok := shape.field(sv, ch.Name.Local)
		if !ok {
			continue
		}
		n, err := w.child(w.tree.proto(ch), f)
		if err != nil {
			return nil, err
		}
		if n != nil {
			out = append(out, n)
		}
	}
	af, ok := shape.augmentations(sv)
	if !ok || af.Len() == 0 {
		return out, nil
	}
	augs := af.Interface().(binding.Augmentations)
	used := 0
	for _, a := range p.node.Augmentations {
		ap := w.tree.proto(a)
		v, ok := augs[ap.typ]
		if ap.typ.IsZero() || !ok {
			continue
		}
		used++
		av := reflect.ValueOf(v)
		if av.Kind() != reflect.Pointer || av.IsNil() || av.Type().Elem() != ap.typ.Type() {
			return nil, yangbind.InvalidArgument(ap.Path(), fmt.Sprintf("augmentation %T is not a pointer to %s", v, ap.typ))
		}
		an, err := w.children(ap, av.Elem())
		if err != nil {
			return nil, err
		}
		out = append(out, an...)
	}
	if used != len(augs) {
		for id := range augs {
			if !w.augments(p, id) {
				return nil, yangbind.InvalidArgument(p.Path(), fmt.Sprintf("augmentation %s does not apply here", id))
			}
		}
	}
	return out, nil
}

func (w *writer) augments(p *Prototype, id binding.TypeID) bool {
	for _, a := range p.node.Augmentations {
		if w.tree.proto(a).typ == id {
			return true
		}
	}
	return false
}

// child converts field f of data child cp; absent fields yield nil.
func (w *writer) child(cp *Prototype, f reflect.Value) (data.Node, error) {
	q := cp.node.Name
	switch cp.node.Kind {
	case schema.KindLeaf:
		v, ok := fieldValue(f)
		if !ok {
			return nil, nil
		}
		vc, err := valueCodecOf(cp)
		if err != nil {
			return nil, err
		}
		nv, err := vc.toNormalized(v)
		if err != nil {
			return nil, withPath(err, cp.Path())
		}
		return data.NewLeaf(q, nv), nil

	case schema.KindLeafList:
		if f.Kind() != reflect.Slice {
			return nil, yangbind.InvalidArgument(cp.Path(), fmt.Sprintf("leaf-list field of type %s", f.Type()))
		}
		if f.Len() == 0 {
			return nil, nil
		}
		vc, err := valueCodecOf(cp)
		if err != nil {
			return nil, err
		}
		values := make([]any, 0, f.Len())
		for i := range f.Len() {
			e := f.Index(i)
			if e.Kind() == reflect.Pointer {
				if e.IsNil() {
					return nil, yangbind.InvalidArgument(cp.Path(), "nil leaf-list entry")
				}
				e = e.Elem()
			}
			nv, err := vc.toNormalized(e)
			if err != nil {
				return nil, withPath(err, cp.Path())
			}
			values = append(values, nv)
		}
		return data.NewLeafSet(q, values...), nil

	case schema.KindContainer:
		if f.Kind() != reflect.Pointer || f.IsNil() {
			return nil, nil
		}
		return w.object(cp, f)

	case schema.KindList:
		if f.Kind() != reflect.Slice {
			return nil, yangbind.InvalidArgument(cp.Path(), fmt.Sprintf("list field of type %s", f.Type()))
		}
		if f.Len() == 0 {
			return nil, nil
		}
		keyed := cp.node.IsKeyed()
		mn := &data.MapNode{ID: nodeID(q)}
		un := &data.UnkeyedList{ID: nodeID(q)}
		for i := range f.Len() {
			e := f.Index(i)
			if e.Kind() != reflect.Pointer {
				e = e.Addr()
			} else if e.IsNil() {
				return nil, yangbind.InvalidArgument(cp.Path(), "nil list entry")
			}
			n, err := w.object(cp, e)
			if err != nil {
				return nil, err
			}
			if keyed {
				mn.Entries = append(mn.Entries, n.(*data.MapEntry))
			} else {
				un.Entries = append(un.Entries, n.(*data.UnkeyedListEntry))
			}
		}
		if keyed {
			return mn, nil
		}
		return un, nil

	case schema.KindChoice:
		if f.Kind() != reflect.Interface || f.IsNil() {
			return nil, nil
		}
		return w.choice(cp, f.Elem())

	case schema.KindAnyData, schema.KindAnyXML:
		if f.Type() != opaqueType || f.IsNil() {
			return nil, nil
		}
		op := f.Interface().(*binding.Opaque)
		doc, err := w.tree.checkOpaque(cp, op.Model, op.Body)
		if err != nil {
			return nil, err
		}
		return data.NewAnyData(q, op.Model, doc.Clone()), nil
	}
	return nil, fmt.Errorf("bindingcodec: unexpected data child %s", cp)
}

// choice converts the case object held by a choice field.
func (w *writer) choice(cp *Prototype, obj reflect.Value) (data.Node, error) {
	if obj.Kind() != reflect.Pointer || obj.IsNil() {
		return nil, yangbind.InvalidArgument(cp.Path(), fmt.Sprintf("case object %s is not a pointer", obj.Type()))
	}
	cc, err := choiceContext(cp)
	if err != nil {
		return nil, err
	}
	cs, err := cc.CaseOfType(binding.TypeIDOf(obj.Interface()))
	if err != nil {
		return nil, err
	}
	return w.cache.node(cs, obj.Interface(), func() (data.Node, error) {
		children, err := w.children(cs, obj.Elem())
		if err != nil {
			return nil, err
		}
		return &data.Choice{ID: nodeID(cp.node.Name), Children: children}, nil
	})
}

// checkOpaque accepts payloads of the document object model only.
func (t *Tree) checkOpaque(p *Prototype, model data.ObjectModel, body any) (*data.Document, error) {
	if model != data.DocumentModel {
		t.log.WithFields(logrus.Fields{
			"node":  p.Path(),
			"model": string(model),
		}).Warn("rejected opaque payload")
		return nil, yangbind.UnsupportedObjectModel(p.Path(), string(model))
	}
	doc, ok := body.(*data.Document)
	if !ok || doc == nil {
		return nil, yangbind.InvalidArgument(p.Path(), fmt.Sprintf("document payload of type %T", body))
	}
	return doc, nil
}

func valueCodecOf(p *Prototype) (*valueCodec, error) {
	ctx, err := p.Context()
	if err != nil {
		return nil, err
	}
	switch c := ctx.(type) {
	case *LeafContext:
		return c.codec, nil
	case *LeafListContext:
		return c.codec, nil
	}
	return nil, fmt.Errorf("bindingcodec: %s has no value codec", p)
}

// FromNormalizedNode converts normalized node n found at path to a bound
// object, returned as a pointer to its generated type with its bound path.
// ok is false when path has no bound counterpart.
func (t *Tree) FromNormalizedNode(path data.Path, n data.Node) (binding.Path, any, bool, error) {
	bpath, ok, err := t.ToBindingPath(path)
	if err != nil || !ok {
		return nil, nil, false, err
	}
	if len(bpath) == 0 {
		return nil, nil, false, yangbind.InvalidArgument("/", "path does not address an object")
	}
	p, _, err := t.resolveBinding(bpath)
	if err != nil {
		return nil, nil, false, err
	}
	if !data.ArgumentsEqual(n.Identifier(), path.Last()) {
		return nil, nil, false, yangbind.InvalidArgument(p.Path(), fmt.Sprintf("node %s does not match path %s", n.Identifier(), path))
	}
	var children []data.Node
	switch nn := n.(type) {
	case *data.Container:
		children = nn.Children
	case *data.MapEntry:
		children = nn.Children
	default:
		return nil, nil, false, yangbind.InvalidArgument(p.Path(), fmt.Sprintf("cannot convert %T to %s", n, p.typ))
	}
	r := reader{tree: t}
	obj, err := r.object(p, children)
	if err != nil {
		return nil, nil, false, err
	}
	return bpath, obj.Interface(), true, nil
}

type reader struct {
	tree *Tree
}

// object allocates the generated type of p and fills it from children.
func (r reader) object(p *Prototype, children []data.Node) (reflect.Value, error) {
	if p.typ.IsZero() {
		return reflect.Value{}, yangbind.InvalidArgument(p.Path(), "no generated type bound")
	}
	ptr := reflect.New(p.typ.Type())
	if err := r.fill(p, ptr.Elem(), children); err != nil {
		return reflect.Value{}, err
	}
	return ptr, nil
}

func (r reader) fill(p *Prototype, sv reflect.Value, children []data.Node) error {
	cc, err := p.composite()
	if err != nil {
		return err
	}
	shape := cc.base().shape
	for _, n := range children {
		q := n.Identifier().NodeType()
		cp, err := cc.base().Child(q)
		if err != nil {
			return err
		}
		target, tshape := sv, shape
		if aug := cp.augmentation(); aug != nil {
			if target, tshape, err = r.augmentation(p, shape, sv, aug); err != nil {
				return err
			}
		}
		f, ok := tshape.field(target, q.Local)
		if !ok {
			return yangbind.InvalidArgument(cp.Path(), fmt.Sprintf("%s has no field for %s", target.Type(), q))
		}
		if err := r.set(cp, f, n); err != nil {
			return err
		}
	}
	return nil
}

// augmentation returns the augmentation object of sv for aug, creating it
// on first use.
func (r reader) augmentation(p *Prototype, shape *structShape, sv reflect.Value, aug *Prototype) (reflect.Value, *structShape, error) {
	af, ok := shape.augmentations(sv)
	if !ok || aug.typ.IsZero() {
		return reflect.Value{}, nil, yangbind.InvalidArgument(p.Path(), fmt.Sprintf("%s cannot hold %s", sv.Type(), aug))
	}
	cc, err := aug.composite()
	if err != nil {
		return reflect.Value{}, nil, err
	}
	if af.IsNil() {
		af.Set(reflect.ValueOf(make(binding.Augmentations)))
	}
	augs := af.Interface().(binding.Augmentations)
	v, ok := augs[aug.typ]
	if !ok {
		v = reflect.New(aug.typ.Type()).Interface()
		augs[aug.typ] = v
	}
	return reflect.ValueOf(v).Elem(), cc.base().shape, nil
}

func unexpected(cp *Prototype, n data.Node) error {
	return yangbind.InvalidArgument(cp.Path(), fmt.Sprintf("unexpected %T for %s", n, cp.node.Kind))
}

// set stores normalized node n of child cp in field f.
func (r reader) set(cp *Prototype, f reflect.Value, n data.Node) error {
	switch cp.node.Kind {
	case schema.KindLeaf:
		leaf, ok := n.(*data.Leaf)
		if !ok {
			return unexpected(cp, n)
		}
		vc, err := valueCodecOf(cp)
		if err != nil {
			return err
		}
		v, err := vc.toBound(leaf.Value, valueType(f))
		if err != nil {
			return withPath(err, cp.Path())
		}
		// A zero value in a non-pointer field reads back as absent.
		if f.Kind() != reflect.Pointer && v.IsZero() {
			return withPath(yangbind.InvalidValue(yangbind.CodeInvalidValue, fmt.Sprint(leaf.Value), map[string]any{
				"expected": "a pointer field for the zero value of " + f.Type().String(),
			}), cp.Path())
		}
		setField(f, v)

	case schema.KindLeafList:
		ls, ok := n.(*data.LeafSet)
		if !ok || f.Kind() != reflect.Slice {
			return unexpected(cp, n)
		}
		vc, err := valueCodecOf(cp)
		if err != nil {
			return err
		}
		out := reflect.MakeSlice(f.Type(), len(ls.Entries), len(ls.Entries))
		for i, e := range ls.Entries {
			ev := out.Index(i)
			v, err := vc.toBound(e.Value(), valueType(ev))
			if err != nil {
				return withPath(err, cp.Path())
			}
			setField(ev, v)
		}
		f.Set(out)

	case schema.KindContainer:
		c, ok := n.(*data.Container)
		if !ok {
			return unexpected(cp, n)
		}
		obj, err := r.object(cp, c.Children)
		if err != nil {
			return err
		}
		if !obj.Type().AssignableTo(f.Type()) {
			return unexpected(cp, n)
		}
		f.Set(obj)

	case schema.KindList:
		var entries [][]data.Node
		switch l := n.(type) {
		case *data.MapNode:
			for _, e := range l.Entries {
				entries = append(entries, e.Children)
			}
		case *data.UnkeyedList:
			for _, e := range l.Entries {
				entries = append(entries, e.Children)
			}
		default:
			return unexpected(cp, n)
		}
		if f.Kind() != reflect.Slice {
			return unexpected(cp, n)
		}
		out := reflect.MakeSlice(f.Type(), 0, len(entries))
		byValue := f.Type().Elem().Kind() != reflect.Pointer
		for _, children := range entries {
			obj, err := r.object(cp, children)
			if err != nil {
				return err
			}
			if byValue {
				obj = obj.Elem()
			}
			out = reflect.Append(out, obj)
		}
		f.Set(out)

	case schema.KindChoice:
		ch, ok := n.(*data.Choice)
		if !ok {
			return unexpected(cp, n)
		}
		if len(ch.Children) == 0 {
			return nil
		}
		return r.choice(cp, f, ch.Children)

	case schema.KindAnyData, schema.KindAnyXML:
		ad, ok := n.(*data.AnyData)
		if !ok || f.Type() != opaqueType {
			return unexpected(cp, n)
		}
		doc, err := r.tree.checkOpaque(cp, ad.Model, ad.Body)
		if err != nil {
			return err
		}
		f.Set(reflect.ValueOf(&binding.Opaque{Model: ad.Model, Body: doc.Clone()}))

	default:
		return unexpected(cp, n)
	}
	return nil
}

// choice builds the case object of choice cp. All children must belong to
// the same case.
func (r reader) choice(cp *Prototype, f reflect.Value, children []data.Node) error {
	cc, err := choiceContext(cp)
	if err != nil {
		return err
	}
	var cs *Prototype
	for _, n := range children {
		_, c, err := cc.Child(n.Identifier().NodeType())
		if err != nil {
			return err
		}
		if cs != nil && c != cs {
			return yangbind.InvalidArgument(cp.Path(), fmt.Sprintf("content of cases %s and %s mixed", cs.node.Name, c.node.Name))
		}
		cs = c
	}
	obj, err := r.object(cs, children)
	if err != nil {
		return err
	}
	if !obj.Type().AssignableTo(f.Type()) {
		return yangbind.InvalidArgument(cp.Path(), fmt.Sprintf("%s does not implement %s", obj.Type(), f.Type()))
	}
	f.Set(obj)
	return nil
}
