package codegen

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
)

var (
	// ErrEndOfInput mirrors the non-zero exit of generated programs.
	ErrEndOfInput = errors.New("end of input")
	// ErrIndexOutOfRange mirrors the bounds check of the Go target.
	ErrIndexOutOfRange = errors.New("index out of range")
)

// value is either a scalar or a tape.
type value struct {
	n    int
	tape []byte
}

// evaluator interprets a Module the way both renderers' output behaves on a
// conforming host. It exists so lowering can be checked without a toolchain.
type evaluator struct {
	factory string
	env     map[string]*value
	in      io.ByteReader
	out     io.Writer
}

// Eval interprets mod, reading stdin bytes from in and writing stdout bytes
// to out.
func Eval(mod *Module, in io.Reader, out io.Writer) error {
	if in == nil {
		in = bytes.NewReader(nil)
	}
	if out == nil {
		out = io.Discard
	}
	br, ok := in.(io.ByteReader)
	if !ok {
		br = bufio.NewReader(in)
	}
	ev := &evaluator{
		factory: mod.Config.BufferFactory,
		env:     make(map[string]*value),
		in:      br,
		out:     out,
	}
	return ev.block(mod.Body)
}

func (ev *evaluator) block(stmts []Stmt) error {
	for _, s := range stmts {
		if err := ev.stmt(s); err != nil {
			return err
		}
	}
	return nil
}

func (ev *evaluator) stmt(s Stmt) error {
	switch s := s.(type) {
	case *Declare:
		v, err := ev.eval(s.Value)
		if err != nil {
			return err
		}
		ev.env[s.Name] = v
	case *Assign:
		v, err := ev.eval(s.Value)
		if err != nil {
			return err
		}
		return ev.store(s.Target, v.n)
	case *AugAssign:
		cur, err := ev.eval(s.Target)
		if err != nil {
			return err
		}
		d, err := ev.eval(s.Value)
		if err != nil {
			return err
		}
		n := cur.n + d.n
		if s.Op == "-" {
			n = cur.n - d.n
		}
		if s.Modulus > 0 {
			n = ((n % s.Modulus) + s.Modulus) % s.Modulus
		}
		return ev.store(s.Target, n)
	case *While:
		for {
			c, err := ev.eval(s.Cond)
			if err != nil {
				return err
			}
			if c.n == 0 {
				return nil
			}
			if err := ev.block(s.Body); err != nil {
				return err
			}
		}
	case *Print:
		v, err := ev.eval(s.Value)
		if err != nil {
			return err
		}
		if _, err := ev.out.Write([]byte{byte(v.n)}); err != nil {
			return err
		}
	case *Pass:
	default:
		return fmt.Errorf("eval: unsupported statement %T", s)
	}
	return nil
}

func (ev *evaluator) lookup(name string) (*value, error) {
	v, ok := ev.env[name]
	if !ok {
		return nil, fmt.Errorf("eval: undefined name %q", name)
	}
	return v, nil
}

// slot resolves an Index expression to its tape and position.
func (ev *evaluator) slot(e *Index) ([]byte, int, error) {
	seq, err := ev.eval(e.Seq)
	if err != nil {
		return nil, 0, err
	}
	idx, err := ev.eval(e.Index)
	if err != nil {
		return nil, 0, err
	}
	if seq.tape == nil {
		return nil, 0, fmt.Errorf("eval: %s is not a tape", e.Seq)
	}
	if idx.n < 0 || idx.n >= len(seq.tape) {
		return nil, 0, fmt.Errorf("%w: %d with length %d", ErrIndexOutOfRange, idx.n, len(seq.tape))
	}
	return seq.tape, idx.n, nil
}

func (ev *evaluator) store(target Expr, n int) error {
	switch t := target.(type) {
	case *Name:
		v, err := ev.lookup(t.Name)
		if err != nil {
			return err
		}
		v.n = n
		return nil
	case *Index:
		tape, i, err := ev.slot(t)
		if err != nil {
			return err
		}
		tape[i] = byte(n)
		return nil
	}
	return fmt.Errorf("eval: cannot assign to %s", target)
}

func (ev *evaluator) eval(e Expr) (*value, error) {
	switch e := e.(type) {
	case *Name:
		return ev.lookup(e.Name)
	case *Const:
		return &value{n: e.Value}, nil
	case *Index:
		tape, i, err := ev.slot(e)
		if err != nil {
			return nil, err
		}
		return &value{n: int(tape[i])}, nil
	case *Call:
		if e.Func != ev.factory || len(e.Args) != 1 {
			return nil, fmt.Errorf("eval: unknown call %s", e)
		}
		size, err := ev.eval(e.Args[0])
		if err != nil {
			return nil, err
		}
		return &value{tape: make([]byte, size.n)}, nil
	case *NotZero:
		x, err := ev.eval(e.X)
		if err != nil {
			return nil, err
		}
		if x.n != 0 {
			return &value{n: 1}, nil
		}
		return &value{n: 0}, nil
	case *ReadChar:
		c, err := ev.in.ReadByte()
		if errors.Is(err, io.EOF) {
			return nil, ErrEndOfInput
		}
		if err != nil {
			return nil, err
		}
		return &value{n: int(c)}, nil
	}
	return nil, fmt.Errorf("eval: unsupported expression %T", e)
}
