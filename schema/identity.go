package schema

import "fmt"

func (c *Context) indexIdentities() error {
	c.identities = make(map[QName]*Identity)
	for _, m := range c.modules {
		for _, id := range m.Identities {
			if _, dup := c.identities[id.Name]; dup {
				return fmt.Errorf("schema: identity %s declared twice", id.Name)
			}
			c.identities[id.Name] = id
		}
	}
	for _, m := range c.modules {
		for _, id := range m.Identities {
			for _, b := range id.Bases {
				if _, ok := c.identities[b]; !ok {
					return fmt.Errorf("schema: identity %s derives from unknown identity %s", id.Name, b)
				}
			}
			if c.DerivedFrom(id.Name, id.Name) {
				return fmt.Errorf("schema: identity %s derives from itself", id.Name)
			}
		}
	}
	return nil
}

// Identity returns the identity named q.
func (c *Context) Identity(q QName) (*Identity, bool) {
	id, ok := c.identities[q]
	return id, ok
}

// DerivedFrom reports whether identity id derives from base, directly or
// through other identities. An identity does not derive from itself.
func (c *Context) DerivedFrom(id, base QName) bool {
	return c.derives(id, base, make(map[QName]bool))
}

func (c *Context) derives(id, base QName, seen map[QName]bool) bool {
	n, ok := c.identities[id]
	if !ok {
		return false
	}
	for _, b := range n.Bases {
		if b == base {
			return true
		}
		if seen[b] {
			continue
		}
		seen[b] = true
		if c.derives(b, base, seen) {
			return true
		}
	}
	return false
}

// Derived lists the identities deriving from every one of bases, in
// module and declaration order.
func (c *Context) Derived(bases ...QName) []QName {
	var out []QName
	for _, m := range c.modules {
	next:
		for _, id := range m.Identities {
			for _, b := range bases {
				if !c.DerivedFrom(id.Name, b) {
					continue next
				}
			}
			out = append(out, id.Name)
		}
	}
	return out
}

func (c *Context) resolveTypes(n *Node) error {
	if n.Type != nil {
		if err := c.resolveType(n.Type); err != nil {
			return fmt.Errorf("schema: %s: %w", n.Name, err)
		}
	}
	for _, ch := range n.Children {
		if err := c.resolveTypes(ch); err != nil {
			return err
		}
	}
	for _, a := range n.Augmentations {
		if err := c.resolveTypes(a); err != nil {
			return err
		}
	}
	return nil
}

func (c *Context) resolveType(t *Type) error {
	switch t.Base {
	case TypeIdentityRef:
		if len(t.Bases) == 0 {
			return fmt.Errorf("identityref without base")
		}
		for _, b := range t.Bases {
			if _, ok := c.identities[b]; !ok {
				return fmt.Errorf("identityref base %s is not declared", b)
			}
		}
		t.Identities = c.Derived(t.Bases...)
	case TypeUnion:
		if len(t.Members) == 0 {
			return fmt.Errorf("union declares no member types")
		}
		for _, m := range t.Members {
			if m == nil {
				return fmt.Errorf("union member without type")
			}
			if err := c.resolveType(m); err != nil {
				return err
			}
		}
	}
	return nil
}
