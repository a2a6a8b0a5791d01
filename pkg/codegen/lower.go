package codegen

import "gobf/pkg/compiler"

// cellModulus is the number of values a cell can hold.
const cellModulus = 256

// lowerer is the code-generation context. Handlers append to the statement
// list on top of the stack; a Loop pushes a fresh list for its body.
type lowerer struct {
	cfg   TargetConfig
	stack []*[]Stmt
}

func (l *lowerer) emit(s Stmt) {
	top := l.stack[len(l.stack)-1]
	*top = append(*top, s)
}

func (l *lowerer) buffer() Expr  { return &Name{Name: l.cfg.BufferVar} }
func (l *lowerer) pointer() Expr { return &Name{Name: l.cfg.PointerVar} }
func (l *lowerer) cell() Expr    { return &Index{Seq: l.buffer(), Index: l.pointer()} }

// Handlers returns the lowering dispatch table.
func (l *lowerer) Handlers() compiler.HandlerTable {
	children := func() compiler.Handler {
		return compiler.HandlerFunc(func(b *compiler.Binding) error { return b.VisitChildren() })
	}
	return compiler.HandlerTable{
		compiler.ROOT:          func() compiler.Handler { return compiler.HandlerFunc(l.visitRoot) },
		compiler.SEQUENCE:      children,
		compiler.LOOP:          func() compiler.Handler { return compiler.HandlerFunc(l.visitLoop) },
		compiler.MOVE:          func() compiler.Handler { return compiler.HandlerFunc(l.visitMove) },
		compiler.AUGMENT:       func() compiler.Handler { return compiler.HandlerFunc(l.visitAugment) },
		compiler.GET_CHAR_NODE: func() compiler.Handler { return compiler.HandlerFunc(l.visitGetChar) },
		compiler.PUT_CHAR_NODE: func() compiler.Handler { return compiler.HandlerFunc(l.visitPutChar) },
	}
}

func (l *lowerer) visitRoot(b *compiler.Binding) error {
	l.emit(&Declare{
		Name:  l.cfg.BufferVar,
		Value: &Call{Func: l.cfg.BufferFactory, Args: []Expr{&Const{Value: l.cfg.TapeSize}}},
	})
	l.emit(&Declare{Name: l.cfg.PointerVar, Value: &Const{Value: l.cfg.StartIndex}})
	return b.VisitChildren()
}

func (l *lowerer) visitLoop(b *compiler.Binding) error {
	var body []Stmt
	l.stack = append(l.stack, &body)
	err := b.VisitChildren()
	l.stack = l.stack[:len(l.stack)-1]
	if err != nil {
		return err
	}
	if len(body) == 0 {
		body = []Stmt{&Pass{}}
	}
	l.emit(&While{Cond: &NotZero{X: l.cell()}, Body: body})
	return nil
}

// step builds Target op= |delta|, reducing the constant when a modulus is
// in force. A step that reduces to nothing emits nothing.
func step(target Expr, delta, modulus int) Stmt {
	op := "+"
	if delta < 0 {
		op, delta = "-", -delta
	}
	if modulus > 0 {
		delta %= modulus
	}
	if delta == 0 {
		return nil
	}
	return &AugAssign{Target: target, Op: op, Value: &Const{Value: delta}, Modulus: modulus}
}

func (l *lowerer) visitMove(b *compiler.Binding) error {
	modulus := 0
	if l.cfg.WrapPointer {
		modulus = l.cfg.TapeSize
	}
	if s := step(l.pointer(), b.Node().(*compiler.Move).Delta, modulus); s != nil {
		l.emit(s)
	}
	return nil
}

func (l *lowerer) visitAugment(b *compiler.Binding) error {
	if s := step(l.cell(), b.Node().(*compiler.Augment).Delta, cellModulus); s != nil {
		l.emit(s)
	}
	return nil
}

func (l *lowerer) visitGetChar(*compiler.Binding) error {
	l.emit(&Assign{Target: l.cell(), Value: &ReadChar{}})
	return nil
}

func (l *lowerer) visitPutChar(*compiler.Binding) error {
	l.emit(&Print{Value: l.cell()})
	return nil
}

// Lower translates the tree rooted at root into a Module. cfg is completed
// with defaults and validated first.
func Lower(root compiler.Node, cfg TargetConfig) (*Module, error) {
	cfg, err := cfg.WithDefaults()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	mod := &Module{Config: cfg}
	l := &lowerer{cfg: cfg, stack: []*[]Stmt{&mod.Body}}
	if err := compiler.Walk(root, l.Handlers()); err != nil {
		return nil, err
	}
	return mod, nil
}
