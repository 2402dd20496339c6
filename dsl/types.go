package dsl

import "github.com/reoring/yangbind/schema"

func base(b schema.BaseType) *schema.Type { return &schema.Type{Base: b} }

func String() *schema.Type  { return base(schema.TypeString) }
func Boolean() *schema.Type { return base(schema.TypeBoolean) }
func Binary() *schema.Type  { return base(schema.TypeBinary) }
func Empty() *schema.Type   { return base(schema.TypeEmpty) }
func Int8() *schema.Type    { return base(schema.TypeInt8) }
func Int16() *schema.Type   { return base(schema.TypeInt16) }
func Int32() *schema.Type   { return base(schema.TypeInt32) }
func Int64() *schema.Type   { return base(schema.TypeInt64) }
func Uint8() *schema.Type   { return base(schema.TypeUint8) }
func Uint16() *schema.Type  { return base(schema.TypeUint16) }
func Uint32() *schema.Type  { return base(schema.TypeUint32) }
func Uint64() *schema.Type  { return base(schema.TypeUint64) }

// Ranged attaches range restrictions to an integer or decimal type.
func Ranged(t *schema.Type, ranges ...schema.Range) *schema.Type {
	t.Ranges = append(t.Ranges, ranges...)
	return t
}

// Range builds an inclusive range from lexical bounds; "" leaves a side open.
func Range(min, max string) schema.Range { return schema.Range{Min: min, Max: max} }

// Decimal builds a decimal64 type with the given fraction digits.
func Decimal(fractionDigits int, ranges ...schema.Range) *schema.Type {
	return &schema.Type{Base: schema.TypeDecimal64, FractionDigits: fractionDigits, Ranges: ranges}
}

// Bits builds a bits type with positions assigned in declaration order.
func Bits(names ...string) *schema.Type {
	t := base(schema.TypeBits)
	for i, n := range names {
		t.Bits = append(t.Bits, schema.Bit{Name: n, Position: uint32(i)})
	}
	return t
}

// BitsAt builds a bits type with explicit positions.
func BitsAt(bits ...schema.Bit) *schema.Type {
	t := base(schema.TypeBits)
	t.Bits = append(t.Bits, bits...)
	return t
}

// Enumeration builds an enumeration with values assigned in declaration order.
func Enumeration(names ...string) *schema.Type {
	t := base(schema.TypeEnumeration)
	for i, n := range names {
		t.Enums = append(t.Enums, schema.Enum{Name: n, Value: int32(i)})
	}
	return t
}

// IdentityRef builds an identityref type accepting identities derived from
// every one of bases.
func IdentityRef(bases ...schema.QName) *schema.Type {
	t := base(schema.TypeIdentityRef)
	t.Bases = append(t.Bases, bases...)
	return t
}

// Union builds a union; values take the first member type that accepts
// them.
func Union(members ...*schema.Type) *schema.Type {
	t := base(schema.TypeUnion)
	t.Members = append(t.Members, members...)
	return t
}

// Identity declares an identity. Its namespace is assigned by Identities.
func Identity(name string, bases ...schema.QName) *schema.Identity {
	return &schema.Identity{Name: schema.QName{Local: name}, Bases: bases}
}

// Identities adds identities to m, placing those without a namespace in
// the module's namespace.
func Identities(m *schema.Module, ids ...*schema.Identity) *schema.Module {
	for _, id := range ids {
		if id.Name.Namespace == "" {
			id.Name.Namespace = m.Namespace
		}
		m.Identities = append(m.Identities, id)
	}
	return m
}
