package dataschema

import (
	"sync"

	"github.com/reoring/yangbind/schema"
)

// Choice is the level of a choice. Its children are the data nodes of all
// its cases; the case itself never appears in a normalized path.
type Choice struct {
	base
	kids children

	once   sync.Once
	caseOf map[schema.QName]*schema.Node
	names  []schema.QName
}

func newChoice(n *schema.Node) *Choice {
	return &Choice{base: base{n}, kids: children{parent: n}}
}

func (c *Choice) enter(stack *schema.InferenceStack) error {
	_, err := stack.EnterChoice(c.stmt.Name)
	return err
}

func (c *Choice) index() {
	c.once.Do(func() {
		c.caseOf = make(map[schema.QName]*schema.Node)
		for _, cs := range c.stmt.Children {
			if cs.Kind != schema.KindCase {
				continue
			}
			for _, n := range cs.DataChildren() {
				if _, dup := c.caseOf[n.Name]; dup {
					continue
				}
				c.caseOf[n.Name] = cs
				c.names = append(c.names, n.Name)
			}
		}
	})
}

// CaseOf returns the case whose content declares q.
func (c *Choice) CaseOf(q schema.QName) (*schema.Node, bool) {
	c.index()
	cs, ok := c.caseOf[q]
	return cs, ok
}

func (c *Choice) Child(q schema.QName) (Node, error) {
	return c.kids.get(q, func(q schema.QName) *schema.Node {
		cs, ok := c.CaseOf(q)
		if !ok {
			return nil
		}
		return cs.DataChild(q)
	})
}

// EnterChild pushes the case owning q and then q itself.
func (c *Choice) EnterChild(stack *schema.InferenceStack, q schema.QName) (Node, error) {
	child, err := c.Child(q)
	if err != nil {
		return nil, err
	}
	cs, _ := c.CaseOf(q)
	if _, err := stack.EnterSchemaTree(cs.Name); err != nil {
		return nil, err
	}
	if err := child.enter(stack); err != nil {
		return nil, err
	}
	return child, nil
}

func (c *Choice) Names() []schema.QName {
	c.index()
	return append([]schema.QName(nil), c.names...)
}
