package codec

import (
	"errors"
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"

	yangbind "github.com/reoring/yangbind"
	"github.com/reoring/yangbind/schema"
)

// MaxScale is the largest number of fraction digits a decimal64 may declare.
const MaxScale = 18

var pow10 = func() [MaxScale + 1]int64 {
	var p [MaxScale + 1]int64
	p[0] = 1
	for i := 1; i <= MaxScale; i++ {
		p[i] = p[i-1] * 10
	}
	return p
}()

var (
	errPrecision = errors.New("rescale would lose precision")
	errOverflow  = errors.New("value does not fit decimal64")
)

// Decimal64 is a fixed-point number: an unscaled 64-bit integer and the
// number of fraction digits it carries.
type Decimal64 struct {
	unscaled int64
	scale    uint8
}

// NewDecimal64 returns unscaled * 10^-scale. It panics if scale is outside
// 0..MaxScale.
func NewDecimal64(unscaled int64, scale int) Decimal64 {
	if scale < 0 || scale > MaxScale {
		panic(fmt.Sprintf("codec: decimal64 scale %d outside 0..%d", scale, MaxScale))
	}
	return Decimal64{unscaled: unscaled, scale: uint8(scale)}
}

// Unscaled returns the unscaled integer value.
func (d Decimal64) Unscaled() int64 { return d.unscaled }

// Scale returns the number of fraction digits.
func (d Decimal64) Scale() int { return int(d.scale) }

// Rescale returns d with exactly scale fraction digits. Dropping non-zero
// digits and overflowing the unscaled value are errors; nothing is rounded.
func (d Decimal64) Rescale(scale int) (Decimal64, error) {
	if scale < 0 || scale > MaxScale {
		return Decimal64{}, fmt.Errorf("codec: decimal64 scale %d outside 0..%d", scale, MaxScale)
	}
	cur := int(d.scale)
	switch {
	case scale == cur:
		return d, nil
	case scale < cur:
		div := pow10[cur-scale]
		if d.unscaled%div != 0 {
			return Decimal64{}, errPrecision
		}
		return Decimal64{unscaled: d.unscaled / div, scale: uint8(scale)}, nil
	}
	mul := pow10[scale-cur]
	if d.unscaled > math.MaxInt64/mul || d.unscaled < math.MinInt64/mul {
		return Decimal64{}, errOverflow
	}
	return Decimal64{unscaled: d.unscaled * mul, scale: uint8(scale)}, nil
}

// Cmp compares d and o numerically, regardless of scale.
func (d Decimal64) Cmp(o Decimal64) int {
	if d.scale == o.scale {
		switch {
		case d.unscaled < o.unscaled:
			return -1
		case d.unscaled > o.unscaled:
			return 1
		}
		return 0
	}
	a := big.NewInt(d.unscaled)
	b := big.NewInt(o.unscaled)
	if d.scale < o.scale {
		a.Mul(a, big.NewInt(pow10[o.scale-d.scale]))
	} else {
		b.Mul(b, big.NewInt(pow10[d.scale-o.scale]))
	}
	return a.Cmp(b)
}

// Equal reports whether d and o are numerically equal.
func (d Decimal64) Equal(o Decimal64) bool { return d.Cmp(o) == 0 }

// String renders d with exactly Scale fraction digits, and at least one.
func (d Decimal64) String() string {
	u := uint64(d.unscaled)
	neg := d.unscaled < 0
	if neg {
		u = ^u + 1
	}
	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	if d.scale == 0 {
		b.WriteString(strconv.FormatUint(u, 10))
		b.WriteString(".0")
		return b.String()
	}
	p := uint64(pow10[d.scale])
	b.WriteString(strconv.FormatUint(u/p, 10))
	b.WriteByte('.')
	frac := strconv.FormatUint(u%p, 10)
	b.WriteString(strings.Repeat("0", int(d.scale)-len(frac)))
	b.WriteString(frac)
	return b.String()
}

// ParseDecimal64 parses an optional sign, decimal digits and an optional
// fraction. Trailing fraction zeros are dropped, so the result carries the
// smallest scale that represents the value exactly.
func ParseDecimal64(s string) (Decimal64, error) {
	if s == "" {
		return Decimal64{}, errors.New("empty decimal")
	}
	i := 0
	neg := false
	switch s[0] {
	case '-':
		neg = true
		i++
	case '+':
		i++
	}
	intPart, fracPart, hasPoint := strings.Cut(s[i:], ".")
	if intPart == "" {
		return Decimal64{}, errors.New("missing integer digits")
	}
	if hasPoint && fracPart == "" {
		return Decimal64{}, errors.New("missing fraction digits")
	}
	fracPart = strings.TrimRight(fracPart, "0")
	if len(fracPart) > MaxScale {
		return Decimal64{}, errPrecision
	}
	var u uint64
	for _, part := range []string{intPart, fracPart} {
		for j := 0; j < len(part); j++ {
			ch := part[j]
			if ch < '0' || ch > '9' {
				return Decimal64{}, fmt.Errorf("illegal character %q", ch)
			}
			if u > (math.MaxUint64-9)/10 {
				return Decimal64{}, errOverflow
			}
			u = u*10 + uint64(ch-'0')
		}
	}
	limit := uint64(math.MaxInt64)
	if neg {
		limit++
	}
	if u > limit {
		return Decimal64{}, errOverflow
	}
	v := int64(u)
	if neg {
		v = int64(^u + 1)
	}
	return Decimal64{unscaled: v, scale: uint8(len(fracPart))}, nil
}

type decimalRange struct {
	min, max Decimal64
	hasMin   bool
	hasMax   bool
	text     string
}

func (r decimalRange) contains(v Decimal64) bool {
	if r.hasMin && v.Cmp(r.min) < 0 {
		return false
	}
	if r.hasMax && v.Cmp(r.max) > 0 {
		return false
	}
	return true
}

// DecimalCodec parses decimal64 values with a fixed number of fraction
// digits and an optional range restriction.
type DecimalCodec struct {
	scale  int
	ranges []decimalRange
}

// NewDecimal returns the codec for a decimal64 type with fractionDigits
// fraction digits restricted to ranges. An empty ranges slice means
// unrestricted.
func NewDecimal(fractionDigits int, ranges []schema.Range) (*DecimalCodec, error) {
	if fractionDigits < 1 || fractionDigits > MaxScale {
		return nil, fmt.Errorf("codec: decimal64 fraction-digits %d outside 1..%d", fractionDigits, MaxScale)
	}
	c := &DecimalCodec{scale: fractionDigits}
	for _, r := range ranges {
		dr := decimalRange{text: rangeText(r)}
		var err error
		if !isMinBound(r.Min) {
			dr.hasMin = true
			if dr.min, err = c.bound(r.Min); err != nil {
				return nil, err
			}
		}
		if !isMaxBound(r.Max) {
			dr.hasMax = true
			if dr.max, err = c.bound(r.Max); err != nil {
				return nil, err
			}
		}
		c.ranges = append(c.ranges, dr)
	}
	return c, nil
}

func (c *DecimalCodec) bound(s string) (Decimal64, error) {
	d, err := ParseDecimal64(s)
	if err == nil {
		d, err = d.Rescale(c.scale)
	}
	if err != nil {
		return Decimal64{}, fmt.Errorf("codec: decimal64 range bound %q: %w", s, err)
	}
	return d, nil
}

// FractionDigits returns the declared number of fraction digits.
func (c *DecimalCodec) FractionDigits() int { return c.scale }

// Check rescales v to the declared fraction digits and verifies the range
// restriction.
func (c *DecimalCodec) Check(v Decimal64) (Decimal64, error) {
	r, err := v.Rescale(c.scale)
	switch {
	case errors.Is(err, errPrecision):
		return Decimal64{}, c.fail(yangbind.CodePrecisionLoss, v.String(), err)
	case err != nil:
		return Decimal64{}, c.fail(yangbind.CodeOutOfRange, v.String(), err)
	}
	if len(c.ranges) == 0 {
		return r, nil
	}
	for _, rg := range c.ranges {
		if rg.contains(r) {
			return r, nil
		}
	}
	return Decimal64{}, c.fail(yangbind.CodeOutOfRange, r.String(), nil)
}

func (c *DecimalCodec) fail(code, raw string, cause error) error {
	iss := yangbind.InvalidValue(code, raw, map[string]any{
		"fraction-digits": c.scale,
		"ranges":          c.rangeTexts(),
	})
	iss[0].Cause = cause
	return iss
}

func (c *DecimalCodec) rangeTexts() []string {
	out := make([]string, len(c.ranges))
	for i, r := range c.ranges {
		out[i] = r.text
	}
	return out
}

// Parse parses s and rescales it to the declared fraction digits.
func (c *DecimalCodec) Parse(s string) (Decimal64, error) {
	d, err := ParseDecimal64(s)
	switch {
	case errors.Is(err, errPrecision):
		return Decimal64{}, c.fail(yangbind.CodePrecisionLoss, s, err)
	case errors.Is(err, errOverflow):
		return Decimal64{}, c.fail(yangbind.CodeOutOfRange, s, err)
	case err != nil:
		iss := yangbind.InvalidValue(yangbind.CodeInvalidValue, s, nil)
		iss[0].Cause = err
		return Decimal64{}, iss
	}
	return c.Check(d)
}

// Format renders v with exactly the declared fraction digits.
func (c *DecimalCodec) Format(v Decimal64) (string, error) {
	r, err := c.Check(v)
	if err != nil {
		return "", err
	}
	return r.String(), nil
}
