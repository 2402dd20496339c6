package codec

import (
	"fmt"
	"math/bits"
	"slices"
	"strings"

	yangbind "github.com/reoring/yangbind"
	"github.com/reoring/yangbind/schema"
)

// Width is the storage selected for a bits value.
type Width uint8

const (
	// Width32 stores fewer than 32 bits in one 32-bit word.
	Width32 Width = iota
	// Width64 stores fewer than 64 bits in one 64-bit word.
	Width64
	// WidthArray stores 64 or more bits in an array of 64-bit words.
	WidthArray
)

func (w Width) String() string {
	switch w {
	case Width32:
		return "word32"
	case Width64:
		return "word64"
	case WidthArray:
		return "array"
	}
	return fmt.Sprintf("Width(%d)", uint8(w))
}

// WidthFor returns the storage used for n declared bits.
func WidthFor(n int) Width {
	switch {
	case n < 32:
		return Width32
	case n < 64:
		return Width64
	}
	return WidthArray
}

// Bits is a fixed-size set of bits. Bit i is the i-th declared bit in
// ascending position order. The zero value has no bits; use NewBitsValue or
// BitsCodec.Zero to obtain a value of the right size.
type Bits struct {
	n     int
	width Width
	w32   uint32
	w64   uint64
	words []uint64
}

// NewBitsValue returns an empty value holding n bits.
func NewBitsValue(n int) Bits {
	if n < 0 {
		panic("codec: negative bit count")
	}
	b := Bits{n: n, width: WidthFor(n)}
	if b.width == WidthArray {
		b.words = make([]uint64, (n+63)/64)
	}
	return b
}

// Len returns the number of bits in the set.
func (b Bits) Len() int { return b.n }

// Width returns the storage selected for b.
func (b Bits) Width() Width { return b.width }

func (b Bits) check(i int) {
	if i < 0 || i >= b.n {
		panic(fmt.Sprintf("codec: bit %d out of range [0,%d)", i, b.n))
	}
}

// Set sets bit i.
func (b *Bits) Set(i int) {
	b.check(i)
	switch b.width {
	case Width32:
		b.w32 |= 1 << uint(i)
	case Width64:
		b.w64 |= 1 << uint(i)
	default:
		b.words[i/64] |= 1 << uint(i%64)
	}
}

// Clear clears bit i.
func (b *Bits) Clear(i int) {
	b.check(i)
	switch b.width {
	case Width32:
		b.w32 &^= 1 << uint(i)
	case Width64:
		b.w64 &^= 1 << uint(i)
	default:
		b.words[i/64] &^= 1 << uint(i%64)
	}
}

// Test reports whether bit i is set.
func (b Bits) Test(i int) bool {
	b.check(i)
	switch b.width {
	case Width32:
		return b.w32&(1<<uint(i)) != 0
	case Width64:
		return b.w64&(1<<uint(i)) != 0
	default:
		return b.words[i/64]&(1<<uint(i%64)) != 0
	}
}

// Count returns the number of set bits.
func (b Bits) Count() int {
	switch b.width {
	case Width32:
		return bits.OnesCount32(b.w32)
	case Width64:
		return bits.OnesCount64(b.w64)
	}
	c := 0
	for _, w := range b.words {
		c += bits.OnesCount64(w)
	}
	return c
}

// SetAll sets every bit.
func (b *Bits) SetAll() {
	switch b.width {
	case Width32:
		b.w32 = uint32(1)<<uint(b.n) - 1
	case Width64:
		b.w64 = uint64(1)<<uint(b.n) - 1
	default:
		for i := range b.words {
			b.words[i] = ^uint64(0)
		}
		if r := b.n % 64; r != 0 {
			b.words[len(b.words)-1] = uint64(1)<<uint(r) - 1
		}
	}
}

// All reports whether every bit is set.
func (b Bits) All() bool { return b.Count() == b.n }

// Equal reports whether b and o have the same size and the same bits set.
func (b Bits) Equal(o Bits) bool {
	if b.n != o.n {
		return false
	}
	switch b.width {
	case Width32:
		return b.w32 == o.w32
	case Width64:
		return b.w64 == o.w64
	}
	return slices.Equal(b.words, o.words)
}

// Clone returns a copy of b that shares no storage with it.
func (b Bits) Clone() Bits {
	c := b
	if b.words != nil {
		c.words = slices.Clone(b.words)
	}
	return c
}

// BitsCodec maps between whitespace separated bit names and Bits values.
type BitsCodec struct {
	names []string // by index, ascending position
	index map[string]int
}

// NewBits returns the codec for a bits type declaring the given bits.
func NewBits(declared []schema.Bit) (*BitsCodec, error) {
	if len(declared) == 0 {
		return nil, fmt.Errorf("codec: bits type declares no bits")
	}
	sorted := slices.Clone(declared)
	slices.SortStableFunc(sorted, func(a, b schema.Bit) int {
		switch {
		case a.Position < b.Position:
			return -1
		case a.Position > b.Position:
			return 1
		}
		return 0
	})
	c := &BitsCodec{names: make([]string, len(sorted)), index: make(map[string]int, len(sorted))}
	for i, b := range sorted {
		if i > 0 && sorted[i-1].Position == b.Position {
			return nil, fmt.Errorf("codec: bits %s and %s share position %d", sorted[i-1].Name, b.Name, b.Position)
		}
		if _, dup := c.index[b.Name]; dup {
			return nil, fmt.Errorf("codec: bit %s declared twice", b.Name)
		}
		c.names[i] = b.Name
		c.index[b.Name] = i
	}
	return c, nil
}

// Names returns the declared bit names in ascending position order.
func (c *BitsCodec) Names() []string { return slices.Clone(c.names) }

// Index returns the index of the named bit.
func (c *BitsCodec) Index(name string) (int, bool) {
	i, ok := c.index[name]
	return i, ok
}

// Zero returns an empty value sized for this type.
func (c *BitsCodec) Zero() Bits { return NewBitsValue(len(c.names)) }

// FromNames builds a value with the named bits set. Names may repeat and
// come in any order.
func (c *BitsCodec) FromNames(names []string) (Bits, error) {
	v := c.Zero()
	for _, name := range names {
		i, ok := c.index[name]
		if !ok {
			return Bits{}, yangbind.InvalidValue(yangbind.CodeUnknownName, name, map[string]any{
				"valid": c.Names(),
			})
		}
		v.Set(i)
	}
	if v.Count() == len(c.names) {
		all := c.Zero()
		all.SetAll()
		return all, nil
	}
	return v, nil
}

// NamesOf returns the names of the bits set in v in ascending position
// order.
func (c *BitsCodec) NamesOf(v Bits) ([]string, error) {
	if v.Len() != len(c.names) {
		return nil, yangbind.InvalidValue(yangbind.CodeInvalidValue, fmt.Sprintf("%d bits", v.Len()), map[string]any{
			"expected": len(c.names),
		})
	}
	out := make([]string, 0, v.Count())
	for i, name := range c.names {
		if v.Test(i) {
			out = append(out, name)
		}
	}
	return out, nil
}

// Parse parses a whitespace separated list of bit names.
func (c *BitsCodec) Parse(s string) (Bits, error) {
	return c.FromNames(strings.Fields(s))
}

// Format renders v as bit names separated by single spaces.
func (c *BitsCodec) Format(v Bits) (string, error) {
	names, err := c.NamesOf(v)
	if err != nil {
		return "", err
	}
	return strings.Join(names, " "), nil
}
