package data

import (
	"bytes"
	"fmt"
	"reflect"

	json "github.com/goccy/go-json"
)

// ObjectModel tags the representation of an opaque payload.
type ObjectModel string

// DocumentModel is the generic structured-document model. Bodies tagged
// with it are *Document values.
const DocumentModel ObjectModel = "document"

// Document is a structured document fragment: JSON-shaped values made of
// map[string]any, []any, string, json.Number, bool and nil.
type Document struct {
	Value any
}

// ParseDocument decodes a JSON fragment. Numbers are kept as json.Number so
// that nothing is rounded. Objects repeating a member name are rejected.
func ParseDocument(b []byte) (*Document, error) {
	if ptr, key, ok := duplicateKey(b); ok {
		return nil, fmt.Errorf("data: duplicate key %q in object %s", key, ptr)
	}
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("data: decode document: %w", err)
	}
	if dec.More() {
		return nil, fmt.Errorf("data: trailing content after document")
	}
	return &Document{Value: v}, nil
}

// MustParseDocument is like ParseDocument but panics on error.
func MustParseDocument(s string) *Document {
	d, err := ParseDocument([]byte(s))
	if err != nil {
		panic(err)
	}
	return d
}

// MarshalJSON encodes the fragment.
func (d *Document) MarshalJSON() ([]byte, error) {
	if d == nil {
		return []byte("null"), nil
	}
	return json.Marshal(d.Value)
}

// UnmarshalJSON decodes a fragment into d.
func (d *Document) UnmarshalJSON(b []byte) error {
	p, err := ParseDocument(b)
	if err != nil {
		return err
	}
	d.Value = p.Value
	return nil
}

// Equal reports whether d and o hold the same fragment.
func (d *Document) Equal(o *Document) bool {
	if d == nil || o == nil {
		return d == o
	}
	return reflect.DeepEqual(d.Value, o.Value)
}

// Clone returns a deep copy of d.
func (d *Document) Clone() *Document {
	if d == nil {
		return nil
	}
	return &Document{Value: cloneValue(d.Value)}
}

func cloneValue(v any) any {
	switch v := v.(type) {
	case map[string]any:
		m := make(map[string]any, len(v))
		for k, e := range v {
			m[k] = cloneValue(e)
		}
		return m
	case []any:
		s := make([]any, len(v))
		for i, e := range v {
			s[i] = cloneValue(e)
		}
		return s
	}
	return v
}
