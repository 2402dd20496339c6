package bindingcodec

import (
	"fmt"
	"reflect"

	"github.com/reoring/yangbind/binding"
)

var augmentationsType = reflect.TypeFor[binding.Augmentations]()

// structShape is the field layout of a generated struct.
type structShape struct {
	typ    reflect.Type
	fields map[string][]int // yang local name -> field index
	augs   []int            // index of the binding.Augmentations field, nil when absent
}

// analyze returns the shape of struct type rt, reading it once per tree.
func (t *Tree) analyze(rt reflect.Type) (*structShape, error) {
	return t.shapes.Get(rt, func() (*structShape, error) { return readShape(rt) })
}

// readShape reads the `yang` tags of struct type t. Tags on promoted fields
// of embedded structs count as the struct's own.
func readShape(t reflect.Type) (*structShape, error) {
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("generated type %s is not a struct", t)
	}
	s := &structShape{typ: t, fields: make(map[string][]int)}
	for _, f := range reflect.VisibleFields(t) {
		if f.Type == augmentationsType {
			if s.augs != nil {
				return nil, fmt.Errorf("%s has two augmentation fields", t)
			}
			s.augs = f.Index
			continue
		}
		name, ok := f.Tag.Lookup("yang")
		if !ok || name == "-" {
			continue
		}
		if !f.IsExported() {
			return nil, fmt.Errorf("%s.%s is tagged but not exported", t, f.Name)
		}
		if _, dup := s.fields[name]; dup {
			return nil, fmt.Errorf("%s tags %q twice", t, name)
		}
		s.fields[name] = f.Index
	}
	return s, nil
}

// field returns the field of struct value sv tagged local.
func (s *structShape) field(sv reflect.Value, local string) (reflect.Value, bool) {
	idx, ok := s.fields[local]
	if !ok {
		return reflect.Value{}, false
	}
	return sv.FieldByIndex(idx), true
}

// augmentations returns the augmentation map field of sv.
func (s *structShape) augmentations(sv reflect.Value) (reflect.Value, bool) {
	if s.augs == nil {
		return reflect.Value{}, false
	}
	return sv.FieldByIndex(s.augs), true
}
