package bindingcodec

import (
	"fmt"
	"reflect"

	yangbind "github.com/reoring/yangbind"
	"github.com/reoring/yangbind/codec"
	"github.com/reoring/yangbind/schema"
)

var (
	bitsType    = reflect.TypeFor[codec.Bits]()
	decimalType = reflect.TypeFor[codec.Decimal64]()
	qnameType   = reflect.TypeFor[schema.QName]()
	anyType     = reflect.TypeFor[any]()
)

// canonicalTypes are the Go types of normalized leaf values.
var canonicalTypes = map[schema.BaseType]reflect.Type{
	schema.TypeString:      reflect.TypeFor[string](),
	schema.TypeBoolean:     reflect.TypeFor[bool](),
	schema.TypeInt8:        reflect.TypeFor[int8](),
	schema.TypeInt16:       reflect.TypeFor[int16](),
	schema.TypeInt32:       reflect.TypeFor[int32](),
	schema.TypeInt64:       reflect.TypeFor[int64](),
	schema.TypeUint8:       reflect.TypeFor[uint8](),
	schema.TypeUint16:      reflect.TypeFor[uint16](),
	schema.TypeUint32:      reflect.TypeFor[uint32](),
	schema.TypeUint64:      reflect.TypeFor[uint64](),
	schema.TypeDecimal64:   decimalType,
	schema.TypeBinary:      reflect.TypeFor[[]byte](),
	schema.TypeEmpty:       reflect.TypeFor[codec.Empty](),
	schema.TypeBits:        reflect.TypeFor[[]string](),
	schema.TypeEnumeration: reflect.TypeFor[string](),
	schema.TypeIdentityRef: qnameType,
}

// valueCodec converts the values of one leaf or leaf-list between the bound
// field and the normalized value.
//
// Normalized values use the canonical Go type of the base type. Bits are
// the set names in ascending position order, enumerations the assigned
// name and identityrefs a schema.QName. A union value is the normalized
// value of the first member type accepting it.
//
// Bound fields hold codec.Bits for bits, any integer or string kind for
// enumerations (value or name) and a type convertible to the canonical one
// otherwise. Union fields may also be interfaces; they then hold the bound
// form of the matching member.
type valueCodec struct {
	typ     *schema.Type
	scalar  codec.Codec[any]
	bits    *codec.BitsCodec
	enum    *codec.EnumCodec
	dec     *codec.DecimalCodec
	members []*valueCodec
}

func newValueCodec(n *schema.Node) (*valueCodec, error) {
	if n.Type == nil {
		return nil, fmt.Errorf("bindingcodec: %s has no type", n)
	}
	vc, err := newTypeCodec(n.Type)
	if err != nil {
		return nil, fmt.Errorf("bindingcodec: %s: %w", n, err)
	}
	return vc, nil
}

func newTypeCodec(t *schema.Type) (*valueCodec, error) {
	vc := &valueCodec{typ: t}
	var err error
	switch t.Base {
	case schema.TypeBits:
		vc.bits, err = codec.NewBits(t.Bits)
	case schema.TypeEnumeration:
		vc.enum, err = codec.NewEnum(t.Enums)
	case schema.TypeDecimal64:
		vc.dec, err = codec.NewDecimal(t.FractionDigits, t.Ranges)
	case schema.TypeUnion:
		for _, m := range t.Members {
			mc, err := newTypeCodec(m)
			if err != nil {
				return nil, err
			}
			vc.members = append(vc.members, mc)
		}
	default:
		vc.scalar, err = codec.For(t)
	}
	if err != nil {
		return nil, err
	}
	return vc, nil
}

// boundType is the type stored in an interface field for this codec.
func (c *valueCodec) boundType() reflect.Type {
	switch c.typ.Base {
	case schema.TypeBits:
		return bitsType
	case schema.TypeUnion:
		return anyType
	}
	return canonicalTypes[c.typ.Base]
}

func mismatch(v any, want string) error {
	return yangbind.InvalidValue(yangbind.CodeInvalidValue, fmt.Sprint(v), map[string]any{"expected": want})
}

// toNormalized converts bound value v.
func (c *valueCodec) toNormalized(v reflect.Value) (any, error) {
	switch c.typ.Base {
	case schema.TypeBits:
		if v.Type() != bitsType {
			return nil, mismatch(v.Interface(), bitsType.String())
		}
		return c.bits.NamesOf(v.Interface().(codec.Bits))
	case schema.TypeEnumeration:
		switch {
		case v.CanInt():
			i := v.Int()
			if int64(int32(i)) != i {
				return nil, mismatch(i, "int32")
			}
			return c.enum.NameOf(int32(i))
		case v.CanUint():
			u := v.Uint()
			if u > uint64(1<<31-1) {
				return nil, mismatch(u, "int32")
			}
			return c.enum.NameOf(int32(u))
		case v.Kind() == reflect.String:
			return c.enum.Parse(v.String())
		}
		return nil, mismatch(v.Interface(), "enumeration")
	case schema.TypeDecimal64:
		if !v.Type().ConvertibleTo(decimalType) {
			return nil, mismatch(v.Interface(), decimalType.String())
		}
		return c.dec.Check(v.Convert(decimalType).Interface().(codec.Decimal64))
	case schema.TypeUnion:
		if v.Kind() == reflect.Interface {
			if v.IsNil() {
				return nil, mismatch(nil, "a union member value")
			}
			v = v.Elem()
		}
		for _, m := range c.members {
			if nv, err := m.toNormalized(v); err == nil {
				return nv, nil
			}
		}
		return nil, mismatch(v.Interface(), "a union member value")
	}
	ct := canonicalTypes[c.typ.Base]
	if v.Kind() != ct.Kind() || !v.Type().ConvertibleTo(ct) {
		return nil, mismatch(v.Interface(), ct.String())
	}
	nv := v.Convert(ct).Interface()
	if _, err := c.scalar.Format(nv); err != nil {
		return nil, err
	}
	return nv, nil
}

// toBound converts normalized value nv into a value of type t.
func (c *valueCodec) toBound(nv any, t reflect.Type) (reflect.Value, error) {
	switch c.typ.Base {
	case schema.TypeBits:
		names, ok := nv.([]string)
		if !ok {
			return reflect.Value{}, mismatch(nv, "[]string")
		}
		if t != bitsType {
			return reflect.Value{}, mismatch(nv, t.String())
		}
		b, err := c.bits.FromNames(names)
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(b), nil
	case schema.TypeEnumeration:
		name, ok := nv.(string)
		if !ok {
			return reflect.Value{}, mismatch(nv, "string")
		}
		val, err := c.enum.Value(name)
		if err != nil {
			return reflect.Value{}, err
		}
		out := reflect.New(t).Elem()
		switch {
		case out.CanInt():
			if out.OverflowInt(int64(val)) {
				return reflect.Value{}, mismatch(val, t.String())
			}
			out.SetInt(int64(val))
		case out.CanUint():
			if val < 0 || out.OverflowUint(uint64(val)) {
				return reflect.Value{}, mismatch(val, t.String())
			}
			out.SetUint(uint64(val))
		case t.Kind() == reflect.String:
			out.SetString(name)
		default:
			return reflect.Value{}, mismatch(nv, t.String())
		}
		return out, nil
	case schema.TypeDecimal64:
		d, ok := nv.(codec.Decimal64)
		if !ok || !decimalType.ConvertibleTo(t) {
			return reflect.Value{}, mismatch(nv, t.String())
		}
		r, err := c.dec.Check(d)
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(r).Convert(t), nil
	case schema.TypeUnion:
		return c.unionToBound(nv, t)
	}
	if _, err := c.scalar.Format(nv); err != nil {
		return reflect.Value{}, err
	}
	rv := reflect.ValueOf(nv)
	if rv.Kind() != t.Kind() || !rv.Type().ConvertibleTo(t) {
		return reflect.Value{}, mismatch(nv, t.String())
	}
	return rv.Convert(t), nil
}

// unionToBound converts nv with the first member producing a value of type
// t. For interface types each member produces its own bound type.
func (c *valueCodec) unionToBound(nv any, t reflect.Type) (reflect.Value, error) {
	for _, m := range c.members {
		if t.Kind() != reflect.Interface {
			if out, err := m.toBound(nv, t); err == nil {
				return out, nil
			}
			continue
		}
		out, err := m.toBound(nv, m.boundType())
		if err != nil || !out.Type().AssignableTo(t) {
			continue
		}
		iv := reflect.New(t).Elem()
		iv.Set(out)
		return iv, nil
	}
	return reflect.Value{}, mismatch(nv, "a union member of "+t.String())
}

// fieldValue returns the value held by a leaf field. A nil pointer, and the
// zero value of a non-pointer field, are absent.
func fieldValue(f reflect.Value) (reflect.Value, bool) {
	if f.Kind() == reflect.Pointer {
		if f.IsNil() {
			return reflect.Value{}, false
		}
		return f.Elem(), true
	}
	if f.IsZero() {
		return reflect.Value{}, false
	}
	return f, true
}

// valueType is the type toBound must produce for field f.
func valueType(f reflect.Value) reflect.Type {
	if f.Kind() == reflect.Pointer {
		return f.Type().Elem()
	}
	return f.Type()
}

// setField stores v in f, allocating when f is a pointer.
func setField(f, v reflect.Value) {
	if f.Kind() == reflect.Pointer {
		p := reflect.New(f.Type().Elem())
		p.Elem().Set(v)
		f.Set(p)
		return
	}
	f.Set(v)
}

// withPath fills in the path of issues reported without one.
func withPath(err error, path string) error {
	iss, ok := yangbind.AsIssues(err)
	if !ok {
		return err
	}
	out := make(yangbind.Issues, len(iss))
	for i, it := range iss {
		if it.Path == "" {
			it.Path = path
		}
		out[i] = it
	}
	return out
}
