package schema

import (
	"fmt"

	yangbind "github.com/reoring/yangbind"
)

// InferenceStack is a caller-owned cursor over the schema tree. It tracks
// the statements entered so far, including choice and case levels which have
// no data of their own.
type InferenceStack struct {
	ctx   *Context
	nodes []*Node
}

// NewInferenceStack returns an empty stack positioned at the schema root.
func NewInferenceStack(ctx *Context) *InferenceStack {
	return &InferenceStack{ctx: ctx}
}

// Len returns the number of entered statements.
func (s *InferenceStack) Len() int { return len(s.nodes) }

// Current returns the most recently entered statement.
func (s *InferenceStack) Current() (*Node, bool) {
	if len(s.nodes) == 0 {
		return nil, false
	}
	return s.nodes[len(s.nodes)-1], true
}

func (s *InferenceStack) parent() *Node {
	if n, ok := s.Current(); ok {
		return n
	}
	return s.ctx.root
}

// EnterSchemaTree enters the substatement named q of the current statement:
// a data node, a case when the current statement is a choice, an rpc input
// or output, or an augmentation child.
func (s *InferenceStack) EnterSchemaTree(q QName) (*Node, error) {
	p := s.parent()
	n := p.Child(q)
	if n == nil {
		n = p.DataChild(q)
	}
	if n == nil || n.Kind == KindChoice {
		return nil, s.mismatch(q)
	}
	s.nodes = append(s.nodes, n)
	return n, nil
}

// EnterChoice enters the choice named q. The choice may be a direct child of
// the current statement or nested in a case of the current choice.
func (s *InferenceStack) EnterChoice(q QName) (*Node, error) {
	p := s.parent()
	n := p.DataChild(q)
	if n == nil && p.Kind == KindChoice {
		for _, cs := range p.Children {
			if c := cs.DataChild(q); c != nil {
				n = c
				break
			}
		}
	}
	if n == nil || n.Kind != KindChoice {
		return nil, s.mismatch(q)
	}
	s.nodes = append(s.nodes, n)
	return n, nil
}

// Exit pops the current statement.
func (s *InferenceStack) Exit() (*Node, error) {
	n, ok := s.Current()
	if !ok {
		return nil, fmt.Errorf("schema: exit from empty inference stack")
	}
	s.nodes = s.nodes[:len(s.nodes)-1]
	return n, nil
}

// Path returns the names of the entered statements.
func (s *InferenceStack) Path() []QName {
	out := make([]QName, len(s.nodes))
	for i, n := range s.nodes {
		out[i] = n.Name
	}
	return out
}

// Copy returns an independent stack at the same position.
func (s *InferenceStack) Copy() *InferenceStack {
	return &InferenceStack{ctx: s.ctx, nodes: append([]*Node(nil), s.nodes...)}
}

func (s *InferenceStack) mismatch(q QName) error {
	return yangbind.SchemaMismatch(pathString(s.Path()).String(), q)
}
