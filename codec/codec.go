// Package codec provides the scalar value codecs used for leaf and
// leaf-list values. Each codec is a stateless Parse/Format pair
// parameterized by the constraints of one schema type.
//
// Parse accepts the lexical form and returns the typed value; Format checks
// a typed value against the same constraints and returns its canonical
// lexical form, so format(parse(s)) always re-serializes validly.
package codec

import (
	"fmt"
	"reflect"

	yangbind "github.com/reoring/yangbind"
	"github.com/reoring/yangbind/schema"
)

// Codec converts between the lexical form of a value and its typed form.
type Codec[T any] interface {
	Parse(s string) (T, error)
	Format(v T) (string, error)
}

// For returns the codec for t with its value type erased. The dynamic type
// of parsed values, and the type Format expects, is:
//
//	string        string
//	boolean       bool
//	int8..uint64  int8..uint64
//	decimal64     Decimal64
//	binary        []byte
//	empty         Empty
//	bits          Bits
//	enumeration   string (the assigned name)
//	identityref   schema.QName
//	union         the type of the first member accepting the value
func For(t *schema.Type) (Codec[any], error) {
	if t == nil {
		return nil, fmt.Errorf("codec: nil type")
	}
	switch t.Base {
	case schema.TypeString:
		return erase[string](NewString()), nil
	case schema.TypeBoolean:
		return erase[bool](NewBoolean()), nil
	case schema.TypeBinary:
		return erase[[]byte](NewBinary()), nil
	case schema.TypeEmpty:
		return erase[Empty](NewEmpty()), nil
	case schema.TypeInt8:
		return eraseOrErr[int8](NewInt[int8](t.Ranges))
	case schema.TypeInt16:
		return eraseOrErr[int16](NewInt[int16](t.Ranges))
	case schema.TypeInt32:
		return eraseOrErr[int32](NewInt[int32](t.Ranges))
	case schema.TypeInt64:
		return eraseOrErr[int64](NewInt[int64](t.Ranges))
	case schema.TypeUint8:
		return eraseOrErr[uint8](NewUint[uint8](t.Ranges))
	case schema.TypeUint16:
		return eraseOrErr[uint16](NewUint[uint16](t.Ranges))
	case schema.TypeUint32:
		return eraseOrErr[uint32](NewUint[uint32](t.Ranges))
	case schema.TypeUint64:
		return eraseOrErr[uint64](NewUint[uint64](t.Ranges))
	case schema.TypeDecimal64:
		return eraseOrErr[Decimal64](NewDecimal(t.FractionDigits, t.Ranges))
	case schema.TypeBits:
		return eraseOrErr[Bits](NewBits(t.Bits))
	case schema.TypeEnumeration:
		return eraseOrErr[string](NewEnum(t.Enums))
	case schema.TypeIdentityRef:
		return erase[schema.QName](NewIdentityRef(t.Identities)), nil
	case schema.TypeUnion:
		members := make([]Codec[any], 0, len(t.Members))
		for _, m := range t.Members {
			c, err := For(m)
			if err != nil {
				return nil, err
			}
			members = append(members, c)
		}
		return NewUnion(members...), nil
	}
	return nil, fmt.Errorf("codec: unsupported base type %s", t.Base)
}

func eraseOrErr[T any](c Codec[T], err error) (Codec[any], error) {
	if err != nil {
		return nil, err
	}
	return erase[T](c), nil
}

func erase[T any](c Codec[T]) Codec[any] { return erased[T]{c} }

type erased[T any] struct{ c Codec[T] }

func (e erased[T]) Parse(s string) (any, error) {
	v, err := e.c.Parse(s)
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (e erased[T]) Format(v any) (string, error) {
	t, ok := v.(T)
	if !ok {
		var zero T
		return "", yangbind.InvalidValue(yangbind.CodeInvalidValue, fmt.Sprint(v), map[string]any{
			"expected": reflect.TypeOf(zero).String(),
		})
	}
	return e.c.Format(t)
}
