package compiler

import "fmt"

// Handler produces the effect of one bound node for a backend. Handlers of
// composite nodes visit b.Children() in order; results flow through the
// backend's shared state rather than return values.
type Handler interface {
	Visit(b *Binding) error
}

// HandlerFactory hands out a fresh handler for a node.
type HandlerFactory interface {
	HandlerFor(n Node) (Handler, error)
}

// HandlerTable is the usual HandlerFactory: one constructor per node kind.
// Constructors normally close over the backend context.
type HandlerTable map[NodeKind]func() Handler

func (t HandlerTable) HandlerFor(n Node) (Handler, error) {
	newHandler, ok := t[n.Kind()]
	if !ok || newHandler == nil {
		return nil, fmt.Errorf("%w %s", ErrNoHandler, n.Kind())
	}
	return newHandler(), nil
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(b *Binding) error

func (f HandlerFunc) Visit(b *Binding) error { return f(b) }

// Binding pairs a node with the handler assigned to it for one traversal.
// Bindings live only as long as the traversal; nodes never hold them, so the
// same tree can be bound to several backends at once.
type Binding struct {
	node     Node
	handler  Handler
	children []*Binding
}

func (b *Binding) Node() Node           { return b.node }
func (b *Binding) Handler() Handler     { return b.handler }
func (b *Binding) Children() []*Binding { return b.children }
func (b *Binding) Visit() error         { return b.handler.Visit(b) }

// VisitChildren visits every child binding in order and stops at the first
// error.
func (b *Binding) VisitChildren() error {
	for _, c := range b.children {
		if err := c.Visit(); err != nil {
			return err
		}
	}
	return nil
}

// Bind assigns one handler from f to every node of the tree rooted at n.
func Bind(n Node, f HandlerFactory) (*Binding, error) {
	h, err := f.HandlerFor(n)
	if err != nil {
		return nil, err
	}
	b := &Binding{node: n, handler: h}
	kids := Children(n)
	if len(kids) > 0 {
		b.children = make([]*Binding, len(kids))
		for i, c := range kids {
			cb, err := Bind(c, f)
			if err != nil {
				return nil, err
			}
			b.children[i] = cb
		}
	}
	return b, nil
}

// Walk binds the tree to f and visits the root.
func Walk(n Node, f HandlerFactory) error {
	b, err := Bind(n, f)
	if err != nil {
		return err
	}
	return b.Visit()
}
