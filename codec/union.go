package codec

import (
	"fmt"

	yangbind "github.com/reoring/yangbind"
)

// UnionCodec handles union values. Parse returns the value of the first
// member type accepting the text; Format uses the first member accepting
// the typed value. Member order is significant.
type UnionCodec struct {
	members []Codec[any]
}

// NewUnion returns the codec trying members in order.
func NewUnion(members ...Codec[any]) *UnionCodec {
	return &UnionCodec{members: members}
}

// Members returns the member codecs in order.
func (c *UnionCodec) Members() []Codec[any] { return c.members }

// Parse reads s with the first member that accepts it.
func (c *UnionCodec) Parse(s string) (any, error) {
	for _, m := range c.members {
		if v, err := m.Parse(s); err == nil {
			return v, nil
		}
	}
	return nil, yangbind.InvalidValue(yangbind.CodeInvalidValue, s, map[string]any{"expected": "a value of a union member type"})
}

// Format writes v with the first member that accepts it.
func (c *UnionCodec) Format(v any) (string, error) {
	for _, m := range c.members {
		if s, err := m.Format(v); err == nil {
			return s, nil
		}
	}
	return "", yangbind.InvalidValue(yangbind.CodeInvalidValue, fmt.Sprint(v), map[string]any{"expected": "a value of a union member type"})
}
