package codec

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"

	yangbind "github.com/reoring/yangbind"
	"github.com/reoring/yangbind/schema"
)

// Signed is the set of signed integer value types.
type Signed interface {
	~int8 | ~int16 | ~int32 | ~int64
}

// Unsigned is the set of unsigned integer value types.
type Unsigned interface {
	~uint8 | ~uint16 | ~uint32 | ~uint64
}

func isMinBound(s string) bool { return s == "" || s == "min" }
func isMaxBound(s string) bool { return s == "" || s == "max" }

func rangeText(r schema.Range) string {
	lo, hi := r.Min, r.Max
	if lo == "" {
		lo = "min"
	}
	if hi == "" {
		hi = "max"
	}
	if lo == hi {
		return lo
	}
	return lo + ".." + hi
}

func rangeTexts(rs []schema.Range) []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = rangeText(r)
	}
	return out
}

func bitSize[T any]() int {
	var zero T
	return reflect.TypeOf(zero).Bits()
}

func parseFailure(s string, err error, ranges []schema.Range) error {
	code := yangbind.CodeInvalidValue
	if errors.Is(err, strconv.ErrRange) {
		code = yangbind.CodeOutOfRange
	}
	iss := yangbind.InvalidValue(code, s, map[string]any{"ranges": rangeTexts(ranges)})
	iss[0].Cause = err
	return iss
}

type intRange struct{ min, max int64 }

// IntCodec parses signed integers of type T with an optional range
// restriction.
type IntCodec[T Signed] struct {
	bits   int
	decl   []schema.Range
	ranges []intRange
}

// NewInt returns the codec for a signed integer type restricted to ranges.
func NewInt[T Signed](ranges []schema.Range) (*IntCodec[T], error) {
	c := &IntCodec[T]{bits: bitSize[T](), decl: ranges}
	lo := int64(-1) << (c.bits - 1)
	hi := -(lo + 1)
	for _, r := range ranges {
		ir := intRange{min: lo, max: hi}
		var err error
		if !isMinBound(r.Min) {
			if ir.min, err = strconv.ParseInt(r.Min, 10, c.bits); err != nil {
				return nil, fmt.Errorf("codec: range bound %q: %w", r.Min, err)
			}
		}
		if !isMaxBound(r.Max) {
			if ir.max, err = strconv.ParseInt(r.Max, 10, c.bits); err != nil {
				return nil, fmt.Errorf("codec: range bound %q: %w", r.Max, err)
			}
		}
		c.ranges = append(c.ranges, ir)
	}
	return c, nil
}

func (c *IntCodec[T]) check(v int64) error {
	if len(c.ranges) == 0 {
		return nil
	}
	for _, r := range c.ranges {
		if v >= r.min && v <= r.max {
			return nil
		}
	}
	return yangbind.InvalidValue(yangbind.CodeOutOfRange, strconv.FormatInt(v, 10), map[string]any{
		"ranges": rangeTexts(c.decl),
	})
}

// Parse parses a decimal integer.
func (c *IntCodec[T]) Parse(s string) (T, error) {
	v, err := strconv.ParseInt(s, 10, c.bits)
	if err != nil {
		return 0, parseFailure(s, err, c.decl)
	}
	if err := c.check(v); err != nil {
		return 0, err
	}
	return T(v), nil
}

// Format renders v in decimal.
func (c *IntCodec[T]) Format(v T) (string, error) {
	if err := c.check(int64(v)); err != nil {
		return "", err
	}
	return strconv.FormatInt(int64(v), 10), nil
}

type uintRange struct{ min, max uint64 }

// UintCodec parses unsigned integers of type T with an optional range
// restriction.
type UintCodec[T Unsigned] struct {
	bits   int
	decl   []schema.Range
	ranges []uintRange
}

// NewUint returns the codec for an unsigned integer type restricted to
// ranges.
func NewUint[T Unsigned](ranges []schema.Range) (*UintCodec[T], error) {
	c := &UintCodec[T]{bits: bitSize[T](), decl: ranges}
	hi := uint64(1)<<(c.bits-1)<<1 - 1
	for _, r := range ranges {
		ur := uintRange{max: hi}
		var err error
		if !isMinBound(r.Min) {
			if ur.min, err = strconv.ParseUint(r.Min, 10, c.bits); err != nil {
				return nil, fmt.Errorf("codec: range bound %q: %w", r.Min, err)
			}
		}
		if !isMaxBound(r.Max) {
			if ur.max, err = strconv.ParseUint(r.Max, 10, c.bits); err != nil {
				return nil, fmt.Errorf("codec: range bound %q: %w", r.Max, err)
			}
		}
		c.ranges = append(c.ranges, ur)
	}
	return c, nil
}

func (c *UintCodec[T]) check(v uint64) error {
	if len(c.ranges) == 0 {
		return nil
	}
	for _, r := range c.ranges {
		if v >= r.min && v <= r.max {
			return nil
		}
	}
	return yangbind.InvalidValue(yangbind.CodeOutOfRange, strconv.FormatUint(v, 10), map[string]any{
		"ranges": rangeTexts(c.decl),
	})
}

// Parse parses a decimal unsigned integer. A leading '+' is accepted.
func (c *UintCodec[T]) Parse(s string) (T, error) {
	digits := s
	if len(digits) > 0 && digits[0] == '+' {
		digits = digits[1:]
	}
	v, err := strconv.ParseUint(digits, 10, c.bits)
	if err != nil {
		return 0, parseFailure(s, err, c.decl)
	}
	if err := c.check(v); err != nil {
		return 0, err
	}
	return T(v), nil
}

// Format renders v in decimal.
func (c *UintCodec[T]) Format(v T) (string, error) {
	if err := c.check(uint64(v)); err != nil {
		return "", err
	}
	return strconv.FormatUint(uint64(v), 10), nil
}
