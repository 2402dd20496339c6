package codec

import (
	"fmt"
	"strings"

	yangbind "github.com/reoring/yangbind"
	"github.com/reoring/yangbind/schema"
)

// IdentityRefCodec validates identityref values against the identities a
// type accepts. The lexical form is the QName text "(namespace)name"; a bare
// name parses when exactly one accepted identity carries it.
type IdentityRefCodec struct {
	valid   []schema.QName
	ok      map[schema.QName]struct{}
	byLocal map[string][]schema.QName
}

// NewIdentityRef returns the codec accepting the identities in valid.
func NewIdentityRef(valid []schema.QName) *IdentityRefCodec {
	c := &IdentityRefCodec{
		valid:   valid,
		ok:      make(map[schema.QName]struct{}, len(valid)),
		byLocal: make(map[string][]schema.QName, len(valid)),
	}
	for _, q := range valid {
		c.ok[q] = struct{}{}
		c.byLocal[q.Local] = append(c.byLocal[q.Local], q)
	}
	return c
}

func (c *IdentityRefCodec) unknown(raw string) error {
	names := make([]string, len(c.valid))
	for i, q := range c.valid {
		names[i] = q.String()
	}
	return yangbind.InvalidValue(yangbind.CodeUnknownName, raw, map[string]any{"valid": names})
}

// Parse reads an identity name.
func (c *IdentityRefCodec) Parse(s string) (schema.QName, error) {
	if rest, ok := strings.CutPrefix(s, "("); ok {
		ns, local, found := strings.Cut(rest, ")")
		if !found || local == "" {
			return schema.QName{}, yangbind.InvalidValue(yangbind.CodeInvalidValue, s, map[string]any{
				"expected": "(namespace)name",
			})
		}
		q := schema.QName{Namespace: ns, Local: local}
		if _, ok := c.ok[q]; !ok {
			return schema.QName{}, c.unknown(s)
		}
		return q, nil
	}
	switch cands := c.byLocal[s]; len(cands) {
	case 1:
		return cands[0], nil
	case 0:
		return schema.QName{}, c.unknown(s)
	default:
		return schema.QName{}, yangbind.InvalidValue(yangbind.CodeInvalidValue, s, map[string]any{
			"expected": fmt.Sprintf("a qualified name, %d identities are named %s", len(cands), s),
		})
	}
}

// Format checks that v is accepted and returns its qualified text.
func (c *IdentityRefCodec) Format(v schema.QName) (string, error) {
	if _, ok := c.ok[v]; !ok {
		return "", c.unknown(v.String())
	}
	return v.String(), nil
}
