package codec

import (
	"encoding/base64"

	yangbind "github.com/reoring/yangbind"
)

// StringCodec passes strings through unchanged.
type StringCodec struct{}

// NewString returns the string codec.
func NewString() StringCodec { return StringCodec{} }

func (StringCodec) Parse(s string) (string, error)  { return s, nil }
func (StringCodec) Format(v string) (string, error) { return v, nil }

// BooleanCodec accepts exactly "true" and "false".
type BooleanCodec struct{}

// NewBoolean returns the boolean codec.
func NewBoolean() BooleanCodec { return BooleanCodec{} }

func (BooleanCodec) Parse(s string) (bool, error) {
	switch s {
	case "true":
		return true, nil
	case "false":
		return false, nil
	}
	return false, yangbind.InvalidValue(yangbind.CodeInvalidValue, s, map[string]any{
		"valid": []string{"true", "false"},
	})
}

func (BooleanCodec) Format(v bool) (string, error) {
	if v {
		return "true", nil
	}
	return "false", nil
}

// BinaryCodec maps base64 text to bytes.
type BinaryCodec struct{}

// NewBinary returns the binary codec.
func NewBinary() BinaryCodec { return BinaryCodec{} }

func (BinaryCodec) Parse(s string) ([]byte, error) {
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		iss := yangbind.InvalidValue(yangbind.CodeInvalidValue, s, nil)
		iss[0].Cause = err
		return nil, iss
	}
	return b, nil
}

func (BinaryCodec) Format(v []byte) (string, error) {
	return base64.StdEncoding.EncodeToString(v), nil
}

// Empty is the single value of the empty type.
type Empty struct{}

// EmptyCodec accepts only the empty string.
type EmptyCodec struct{}

// NewEmpty returns the empty codec.
func NewEmpty() EmptyCodec { return EmptyCodec{} }

func (EmptyCodec) Parse(s string) (Empty, error) {
	if s != "" {
		return Empty{}, yangbind.InvalidValue(yangbind.CodeInvalidValue, s, map[string]any{
			"valid": []string{""},
		})
	}
	return Empty{}, nil
}

func (EmptyCodec) Format(Empty) (string, error) { return "", nil }
