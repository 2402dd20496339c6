package codec

import (
	"fmt"
	"go/token"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	yangbind "github.com/reoring/yangbind"
	"github.com/reoring/yangbind/schema"
)

// MapEnumNames assigns a Go identifier to every enumeration name.
//
// The friendly mapping camel-cases each name ("oper-up" becomes "OperUp").
// It is used only when it yields a valid, distinct identifier for every
// name in the set. Otherwise every name is mapped with the escaping scheme
// instead: a name that is a valid identifier without '_' maps to itself,
// anything else is prefixed with '_' and each rune that is not a letter or
// digit, '_' included, is written as _HEX_. The escaping scheme is a
// bijection for any set of names.
//
// Repeated names in the input map to the same identifier. An empty name is
// an error.
func MapEnumNames(names []string) (map[string]string, error) {
	out := make(map[string]string, len(names))
	taken := make(map[string]string, len(names))
	friendly := true
	for _, name := range names {
		if name == "" {
			return nil, fmt.Errorf("codec: empty enumeration name")
		}
		if !friendly {
			continue
		}
		if _, seen := out[name]; seen {
			continue
		}
		id := friendlyName(name)
		if prev, clash := taken[id]; !token.IsIdentifier(id) || clash && prev != name {
			friendly = false
			continue
		}
		taken[id] = name
		out[name] = id
	}
	if friendly {
		return out, nil
	}
	clear(out)
	for _, name := range names {
		out[name] = escapeName(name)
	}
	return out, nil
}

func friendlyName(name string) string {
	var b strings.Builder
	for _, part := range strings.FieldsFunc(name, func(r rune) bool {
		return strings.ContainsRune(" _.-/", r)
	}) {
		r, size := utf8.DecodeRuneInString(part)
		b.WriteRune(unicode.ToUpper(r))
		b.WriteString(part[size:])
	}
	s := b.String()
	if s != "" && s[0] >= '0' && s[0] <= '9' {
		s = "_" + s
	}
	return s
}

func escapeName(name string) string {
	if !strings.ContainsRune(name, '_') && token.IsIdentifier(name) {
		return name
	}
	var b strings.Builder
	b.WriteByte('_')
	for _, r := range name {
		if r != '_' && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			b.WriteRune(r)
			continue
		}
		b.WriteByte('_')
		b.WriteString(strings.ToUpper(strconv.FormatInt(int64(r), 16)))
		b.WriteByte('_')
	}
	return b.String()
}

// EnumCodec validates enumeration names and maps them to their assigned
// values and Go identifiers.
type EnumCodec struct {
	enums  []schema.Enum
	byName map[string]int32
	byVal  map[int32]string
	ids    map[string]string
	names  map[string]string
}

// NewEnum returns the codec for an enumeration declaring enums.
func NewEnum(enums []schema.Enum) (*EnumCodec, error) {
	if len(enums) == 0 {
		return nil, fmt.Errorf("codec: enumeration declares no names")
	}
	c := &EnumCodec{
		enums:  enums,
		byName: make(map[string]int32, len(enums)),
		byVal:  make(map[int32]string, len(enums)),
		names:  make(map[string]string, len(enums)),
	}
	list := make([]string, len(enums))
	for i, e := range enums {
		if _, dup := c.byName[e.Name]; dup {
			return nil, fmt.Errorf("codec: enumeration name %q declared twice", e.Name)
		}
		if prev, dup := c.byVal[e.Value]; dup {
			return nil, fmt.Errorf("codec: enumeration names %q and %q share value %d", prev, e.Name, e.Value)
		}
		c.byName[e.Name] = e.Value
		c.byVal[e.Value] = e.Name
		list[i] = e.Name
	}
	ids, err := MapEnumNames(list)
	if err != nil {
		return nil, err
	}
	c.ids = ids
	for name, id := range ids {
		c.names[id] = name
	}
	return c, nil
}

func (c *EnumCodec) validNames() []string {
	out := make([]string, len(c.enums))
	for i, e := range c.enums {
		out[i] = e.Name
	}
	return out
}

func (c *EnumCodec) unknown(raw string) error {
	return yangbind.InvalidValue(yangbind.CodeUnknownName, raw, map[string]any{"valid": c.validNames()})
}

// Parse checks that s is a declared name.
func (c *EnumCodec) Parse(s string) (string, error) {
	if _, ok := c.byName[s]; !ok {
		return "", c.unknown(s)
	}
	return s, nil
}

// Format checks that v is a declared name.
func (c *EnumCodec) Format(v string) (string, error) { return c.Parse(v) }

// Value returns the value assigned to name.
func (c *EnumCodec) Value(name string) (int32, error) {
	v, ok := c.byName[name]
	if !ok {
		return 0, c.unknown(name)
	}
	return v, nil
}

// NameOf returns the name assigned value v.
func (c *EnumCodec) NameOf(v int32) (string, error) {
	name, ok := c.byVal[v]
	if !ok {
		return "", c.unknown(strconv.FormatInt(int64(v), 10))
	}
	return name, nil
}

// Identifier returns the Go identifier of name.
func (c *EnumCodec) Identifier(name string) (string, bool) {
	id, ok := c.ids[name]
	return id, ok
}

// Name returns the enumeration name behind identifier id.
func (c *EnumCodec) Name(id string) (string, bool) {
	name, ok := c.names[id]
	return name, ok
}
