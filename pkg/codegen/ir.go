package codegen

import (
	"fmt"
	"strings"
)

// Module is a lowered program: a flat list of top-level statements plus the
// configuration it was lowered with. Renderers turn it into host source.
type Module struct {
	Config TargetConfig
	Body   []Stmt
}

// Stmt is a statement of the host-neutral IR.
type Stmt interface {
	stmt()
	String() string
}

// Expr is an expression of the host-neutral IR.
type Expr interface {
	expr()
	String() string
}

// Declare introduces a variable. It only appears at the top level.
type Declare struct {
	Name  string
	Value Expr
}

// Assign stores Value into Target (a Name or an Index).
type Assign struct {
	Target Expr
	Value  Expr
}

// AugAssign applies Target = Target Op Value. Op is "+" or "-". A non-zero
// Modulus reduces the result into [0, Modulus); hosts whose storage type
// already wraps at that modulus may render the plain form.
type AugAssign struct {
	Target  Expr
	Op      string
	Value   Expr
	Modulus int
}

// While repeats Body while Cond holds. Body is never empty; lowering puts a
// Pass there instead.
type While struct {
	Cond Expr
	Body []Stmt
}

// Print writes Value as a single byte without a trailing newline.
type Print struct {
	Value Expr
}

type Pass struct{}

func (*Declare) stmt()   {}
func (*Assign) stmt()    {}
func (*AugAssign) stmt() {}
func (*While) stmt()     {}
func (*Print) stmt()     {}
func (*Pass) stmt()      {}

type Name struct {
	Name string
}

// Index is Seq[Index].
type Index struct {
	Seq   Expr
	Index Expr
}

type Const struct {
	Value int
}

// Call invokes a named host function, such as the tape factory.
type Call struct {
	Func string
	Args []Expr
}

// NotZero is true when X is non-zero.
type NotZero struct {
	X Expr
}

// ReadChar is the code of one byte read from standard input.
type ReadChar struct{}

func (*Name) expr()     {}
func (*Index) expr()    {}
func (*Const) expr()    {}
func (*Call) expr()     {}
func (*NotZero) expr()  {}
func (*ReadChar) expr() {}

func (d *Declare) String() string { return fmt.Sprintf("(declare %s %s)", d.Name, d.Value) }
func (a *Assign) String() string  { return fmt.Sprintf("(assign %s %s)", a.Target, a.Value) }
func (a *AugAssign) String() string {
	if a.Modulus > 0 {
		return fmt.Sprintf("(%s= %s %s mod %d)", a.Op, a.Target, a.Value, a.Modulus)
	}
	return fmt.Sprintf("(%s= %s %s)", a.Op, a.Target, a.Value)
}
func (w *While) String() string {
	parts := make([]string, 0, len(w.Body)+1)
	parts = append(parts, w.Cond.String())
	for _, s := range w.Body {
		parts = append(parts, s.String())
	}
	return "(while " + strings.Join(parts, " ") + ")"
}
func (p *Print) String() string { return fmt.Sprintf("(print %s)", p.Value) }
func (*Pass) String() string    { return "(pass)" }

func (n *Name) String() string    { return n.Name }
func (i *Index) String() string   { return fmt.Sprintf("%s[%s]", i.Seq, i.Index) }
func (c *Const) String() string   { return fmt.Sprint(c.Value) }
func (n *NotZero) String() string { return fmt.Sprintf("(!= %s 0)", n.X) }
func (*ReadChar) String() string  { return "(readchar)" }
func (c *Call) String() string {
	args := make([]string, len(c.Args))
	for i, a := range c.Args {
		args[i] = a.String()
	}
	return fmt.Sprintf("%s(%s)", c.Func, strings.Join(args, ", "))
}

// String renders the module body one statement per line, for dumps.
func (m *Module) String() string {
	var sb strings.Builder
	for _, s := range m.Body {
		sb.WriteString(s.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}
