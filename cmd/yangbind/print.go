package main

import (
	"fmt"
	"io"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/reoring/yangbind/dataschema"
)

// level is the printable form of one index level.
type level struct {
	Name      string   `json:"name"`
	Kind      string   `json:"kind"`
	Presence  bool     `json:"presence,omitempty"`
	Mandatory []string `json:"mandatory,omitempty"`
	Children  []*level `json:"children,omitempty"`
}

func kindOf(n dataschema.Node) string {
	switch n := n.(type) {
	case *dataschema.Container:
		return n.Statement().Kind.String()
	case *dataschema.List:
		if n.Keyed() {
			return "list"
		}
		return "list (keyless)"
	case *dataschema.ListItem:
		return "entry"
	case *dataschema.LeafListEntry:
		return "value"
	}
	return n.Statement().Kind.String()
}

func build(n dataschema.Node, name string, tt dataschema.TreeType) (*level, error) {
	l := &level{Name: name, Kind: kindOf(n)}
	if c, ok := n.(*dataschema.Container); ok {
		l.Presence = c.Presence()
		if e, ok := c.Enforcer(tt); ok {
			for _, p := range e.Paths() {
				l.Mandatory = append(l.Mandatory, p.String())
			}
		}
	}
	comp, ok := n.(dataschema.Composite)
	if !ok {
		return l, nil
	}
	for _, q := range comp.Names() {
		child, err := comp.Child(q)
		if err != nil {
			return nil, err
		}
		cl, err := build(child, q.String(), tt)
		if err != nil {
			return nil, err
		}
		l.Children = append(l.Children, cl)
	}
	return l, nil
}

func writeJSON(w io.Writer, tree *dataschema.Tree, tt dataschema.TreeType) error {
	root, err := build(tree.Root(), "/", tt)
	if err != nil {
		return err
	}
	b, err := json.MarshalIndent(root, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%s\n", b)
	return err
}

func writeText(w io.Writer, tree *dataschema.Tree, tt dataschema.TreeType) error {
	root, err := build(tree.Root(), "/", tt)
	if err != nil {
		return err
	}
	var b strings.Builder
	var walk func(l *level, depth int)
	walk = func(l *level, depth int) {
		indent := strings.Repeat("  ", depth)
		fmt.Fprintf(&b, "%s%s %s", indent, l.Name, l.Kind)
		if l.Presence {
			b.WriteString(" presence")
		}
		b.WriteByte('\n')
		for _, m := range l.Mandatory {
			fmt.Fprintf(&b, "%s  ! %s\n", indent, m)
		}
		for _, c := range l.Children {
			walk(c, depth+1)
		}
	}
	walk(root, 0)
	_, err = io.WriteString(w, b.String())
	return err
}
