package schema

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// Effective schema documents are emitted by the schema compiler. Each node
// is a mapping with exactly one kind key naming the statement, e.g.
//
//	modules:
//	  - name: example
//	    namespace: urn:example
//	    nodes:
//	      - container: top
//	        children:
//	          - leaf: name
//	            type: {base: string}
//
// Augmentations are already nested under their target node. Identity names
// are the only references: a bare name belongs to the declaring module and
// "prefix:name" to the module with that prefix.

type document struct {
	Modules []docModule `yaml:"modules" json:"modules"`
}

type docModule struct {
	Name       string        `yaml:"name" json:"name"`
	Namespace  string        `yaml:"namespace" json:"namespace"`
	Prefix     string        `yaml:"prefix" json:"prefix"`
	Identities []docIdentity `yaml:"identities" json:"identities"`
	Nodes      []docNode     `yaml:"nodes" json:"nodes"`
}

type docIdentity struct {
	Name  string   `yaml:"name" json:"name"`
	Bases []string `yaml:"bases" json:"bases"`
}

type docNode struct {
	Container    string `yaml:"container" json:"container"`
	List         string `yaml:"list" json:"list"`
	Leaf         string `yaml:"leaf" json:"leaf"`
	LeafList     string `yaml:"leaf-list" json:"leaf-list"`
	Choice       string `yaml:"choice" json:"choice"`
	Case         string `yaml:"case" json:"case"`
	AnyData      string `yaml:"anydata" json:"anydata"`
	AnyXML       string `yaml:"anyxml" json:"anyxml"`
	Augment      string `yaml:"augment" json:"augment"`
	Notification string `yaml:"notification" json:"notification"`
	RPC          string `yaml:"rpc" json:"rpc"`
	Action       string `yaml:"action" json:"action"`
	Input        *bool  `yaml:"input" json:"input"`
	Output       *bool  `yaml:"output" json:"output"`

	Namespace     string    `yaml:"namespace" json:"namespace"`
	Keys          []string  `yaml:"keys" json:"keys"`
	Presence      bool      `yaml:"presence" json:"presence"`
	Config        *bool     `yaml:"config" json:"config"`
	Mandatory     bool      `yaml:"mandatory" json:"mandatory"`
	MinElements   int       `yaml:"min-elements" json:"min-elements"`
	Type          *docType  `yaml:"type" json:"type"`
	Children      []docNode `yaml:"children" json:"children"`
	Augmentations []docNode `yaml:"augmentations" json:"augmentations"`
}

type docType struct {
	Name           string     `yaml:"name" json:"name"`
	Base           string     `yaml:"base" json:"base"`
	FractionDigits int        `yaml:"fraction-digits" json:"fraction-digits"`
	Ranges         []docRange `yaml:"ranges" json:"ranges"`
	Bits           []docBit   `yaml:"bits" json:"bits"`
	Enums          []docEnum  `yaml:"enums" json:"enums"`
	Bases          []string   `yaml:"bases" json:"bases"`
	Types          []docType  `yaml:"types" json:"types"`
}

type docRange struct {
	Min string `yaml:"min" json:"min"`
	Max string `yaml:"max" json:"max"`
}

type docBit struct {
	Name     string  `yaml:"name" json:"name"`
	Position *uint32 `yaml:"position" json:"position"`
}

type docEnum struct {
	Name  string `yaml:"name" json:"name"`
	Value *int32 `yaml:"value" json:"value"`
}

// LoadYAML reads an effective schema document in YAML form.
func LoadYAML(r io.Reader) (*Context, error) {
	var doc document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("schema: empty document")
		}
		return nil, fmt.Errorf("schema: decode yaml: %w", err)
	}
	return doc.build()
}

// LoadJSON reads an effective schema document in JSON form.
func LoadJSON(b []byte) (*Context, error) {
	var doc document
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("schema: decode json: %w", err)
	}
	return doc.build()
}

func (d *document) build() (*Context, error) {
	if len(d.Modules) == 0 {
		return nil, errors.New("schema: document declares no modules")
	}
	prefixes := make(map[string]string, len(d.Modules))
	for _, dm := range d.Modules {
		if dm.Prefix != "" {
			prefixes[dm.Prefix] = dm.Namespace
		}
	}
	mods := make([]*Module, 0, len(d.Modules))
	for _, dm := range d.Modules {
		if dm.Namespace == "" {
			return nil, fmt.Errorf("schema: module %q has no namespace", dm.Name)
		}
		r := resolver{ns: dm.Namespace, prefixes: prefixes}
		m := &Module{Name: dm.Name, Namespace: dm.Namespace, Prefix: dm.Prefix}
		for _, di := range dm.Identities {
			id := &Identity{Name: QName{Namespace: dm.Namespace, Local: di.Name}}
			for _, b := range di.Bases {
				q, err := r.resolve(b)
				if err != nil {
					return nil, fmt.Errorf("schema: module %s: identity %s: %w", dm.Name, di.Name, err)
				}
				id.Bases = append(id.Bases, q)
			}
			m.Identities = append(m.Identities, id)
		}
		for i := range dm.Nodes {
			n, err := dm.Nodes[i].build(dm.Namespace, r)
			if err != nil {
				return nil, fmt.Errorf("schema: module %s: %w", dm.Name, err)
			}
			m.Nodes = append(m.Nodes, n)
		}
		mods = append(mods, m)
	}
	return NewContext(mods...)
}

// resolver turns identity references into QNames.
type resolver struct {
	ns       string
	prefixes map[string]string
}

func (r resolver) resolve(ref string) (QName, error) {
	prefix, local, ok := strings.Cut(ref, ":")
	if !ok {
		return QName{Namespace: r.ns, Local: ref}, nil
	}
	ns, known := r.prefixes[prefix]
	if !known {
		return QName{}, fmt.Errorf("unknown module prefix in %q", ref)
	}
	return QName{Namespace: ns, Local: local}, nil
}

func (d *docNode) kindAndName() (Kind, string, error) {
	type cand struct {
		kind Kind
		name string
	}
	var found []cand
	add := func(k Kind, name string) {
		if name != "" {
			found = append(found, cand{k, name})
		}
	}
	add(KindContainer, d.Container)
	add(KindList, d.List)
	add(KindLeaf, d.Leaf)
	add(KindLeafList, d.LeafList)
	add(KindChoice, d.Choice)
	add(KindCase, d.Case)
	add(KindAnyData, d.AnyData)
	add(KindAnyXML, d.AnyXML)
	add(KindAugmentation, d.Augment)
	add(KindNotification, d.Notification)
	add(KindRPC, d.RPC)
	add(KindAction, d.Action)
	if d.Input != nil && *d.Input {
		add(KindInput, "input")
	}
	if d.Output != nil && *d.Output {
		add(KindOutput, "output")
	}
	if len(found) != 1 {
		return 0, "", fmt.Errorf("node must carry exactly one kind key, found %d", len(found))
	}
	return found[0].kind, found[0].name, nil
}

func (d *docNode) build(ns string, r resolver) (*Node, error) {
	kind, name, err := d.kindAndName()
	if err != nil {
		return nil, err
	}
	if d.Namespace != "" {
		ns = d.Namespace
	}
	n := &Node{
		Name:        QName{Namespace: ns, Local: name},
		Kind:        kind,
		Presence:    d.Presence,
		State:       d.Config != nil && !*d.Config,
		Mandatory:   d.Mandatory,
		MinElements: d.MinElements,
	}
	for _, k := range d.Keys {
		n.Keys = append(n.Keys, QName{Namespace: ns, Local: k})
	}
	switch kind {
	case KindLeaf, KindLeafList:
		if d.Type == nil {
			return nil, fmt.Errorf("%s %s has no type", kind, name)
		}
		t, err := d.Type.build(r)
		if err != nil {
			return nil, fmt.Errorf("%s %s: %w", kind, name, err)
		}
		n.Type = t
	default:
		if d.Type != nil {
			return nil, fmt.Errorf("%s %s cannot carry a type", kind, name)
		}
	}
	for i := range d.Children {
		c, err := d.Children[i].build(ns, r)
		if err != nil {
			return nil, err
		}
		n.Children = append(n.Children, c)
	}
	for i := range d.Augmentations {
		a, err := d.Augmentations[i].build(ns, r)
		if err != nil {
			return nil, err
		}
		n.Augmentations = append(n.Augmentations, a)
	}
	return n, nil
}

func (d *docType) build(r resolver) (*Type, error) {
	base, ok := ParseBaseType(d.Base)
	if !ok {
		return nil, fmt.Errorf("unknown base type %q", d.Base)
	}
	t := &Type{Name: d.Name, Base: base, FractionDigits: d.FractionDigits}
	for _, r := range d.Ranges {
		t.Ranges = append(t.Ranges, Range(r))
	}
	var next uint32
	for _, b := range d.Bits {
		pos := next
		if b.Position != nil {
			pos = *b.Position
		}
		t.Bits = append(t.Bits, Bit{Name: b.Name, Position: pos})
		next = pos + 1
	}
	var nextVal int32
	for _, e := range d.Enums {
		v := nextVal
		if e.Value != nil {
			v = *e.Value
		}
		t.Enums = append(t.Enums, Enum{Name: e.Name, Value: v})
		nextVal = v + 1
	}
	switch base {
	case TypeDecimal64:
		if t.FractionDigits < 1 || t.FractionDigits > 18 {
			return nil, fmt.Errorf("decimal64 fraction-digits %d outside 1..18", t.FractionDigits)
		}
	case TypeBits:
		if len(t.Bits) == 0 {
			return nil, errors.New("bits type declares no bits")
		}
	case TypeEnumeration:
		if len(t.Enums) == 0 {
			return nil, errors.New("enumeration type declares no names")
		}
	case TypeIdentityRef:
		for _, b := range d.Bases {
			q, err := r.resolve(b)
			if err != nil {
				return nil, err
			}
			t.Bases = append(t.Bases, q)
		}
	case TypeUnion:
		for i := range d.Types {
			m, err := d.Types[i].build(r)
			if err != nil {
				return nil, fmt.Errorf("union member %d: %w", i, err)
			}
			t.Members = append(t.Members, m)
		}
	}
	return t, nil
}
