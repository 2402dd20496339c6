package dataschema

import (
	yangbind "github.com/reoring/yangbind"
	"github.com/reoring/yangbind/data"
	"github.com/reoring/yangbind/schema"
)

// TreeType selects the data tree an Enforcer checks.
type TreeType uint8

const (
	// Configuration ignores config false nodes.
	Configuration TreeType = iota
	// Operational checks configuration and state nodes.
	Operational
)

func (t TreeType) String() string {
	if t == Operational {
		return "operational"
	}
	return "configuration"
}

// Enforcer checks that the mandatory descendants of a presence container
// exist. Mandatory nodes below non-presence containers count as well;
// presence containers and lists below it have checks of their own.
type Enforcer struct {
	stmt  *schema.Node
	tree  TreeType
	paths []data.Path
}

// newEnforcer returns nil when n has no mandatory descendants in tree.
func newEnforcer(n *schema.Node, tree TreeType) *Enforcer {
	e := &Enforcer{stmt: n, tree: tree}
	e.collect(n, nil)
	if len(e.paths) == 0 {
		return nil
	}
	return e
}

func (e *Enforcer) collect(n *schema.Node, prefix data.Path) {
	for _, c := range n.DataChildren() {
		if e.tree == Configuration && !c.IsConfig() {
			continue
		}
		p := prefix.Append(data.NodeIdentifier{Name: c.Name})
		switch c.Kind {
		case schema.KindContainer:
			if !c.Presence {
				e.collect(c, p)
			}
		case schema.KindLeaf, schema.KindChoice, schema.KindAnyData, schema.KindAnyXML:
			if c.Mandatory {
				e.paths = append(e.paths, p)
			}
		case schema.KindList, schema.KindLeafList:
			if c.MinElements > 0 {
				e.paths = append(e.paths, p)
			}
		}
	}
}

// Paths returns the checked paths relative to the container.
func (e *Enforcer) Paths() []data.Path {
	return append([]data.Path(nil), e.paths...)
}

// Tree returns the data tree the enforcer checks.
func (e *Enforcer) Tree() TreeType { return e.tree }

// Enforce reports every mandatory descendant missing from n, which must be
// the container itself.
func (e *Enforcer) Enforce(n data.Node) error {
	at := schemaPath(e.stmt)
	if n == nil || n.Identifier().NodeType() != e.stmt.Name {
		return yangbind.InvalidArgument(at, "node is not an instance of "+e.stmt.Name.String())
	}
	var iss yangbind.Issues
	for _, p := range e.paths {
		if _, ok := data.Find(n, p); !ok {
			iss = yangbind.AppendIssues(iss, yangbind.MissingMandatory(at, p.String()))
		}
	}
	if len(iss) > 0 {
		return iss
	}
	return nil
}
