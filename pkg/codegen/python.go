package codegen

import (
	"fmt"
	"strings"
)

// pyPreamble mirrors goPreamble: byte-oriented stdin and stdout, and a
// non-zero exit when input runs out.
const pyPreamble = `# Code generated by gobf. DO NOT EDIT.
import sys


def read_byte():
    c = sys.stdin.buffer.read(1)
    if not c:
        sys.stdout.buffer.flush()
        sys.stderr.write("end of input\n")
        sys.exit(1)
    return c[0]


def put_byte(b):
    sys.stdout.buffer.write(bytes((b,)))
`

const pyIndent = "    "

type pyRenderer struct {
	out    strings.Builder
	indent int
}

func (r *pyRenderer) line(format string, args ...any) {
	r.out.WriteString(strings.Repeat(pyIndent, r.indent))
	fmt.Fprintf(&r.out, format+"\n", args...)
}

func (r *pyRenderer) expr(e Expr) (string, error) {
	switch e := e.(type) {
	case *Name:
		return e.Name, nil
	case *Const:
		return fmt.Sprint(e.Value), nil
	case *Index:
		seq, err := r.expr(e.Seq)
		if err != nil {
			return "", err
		}
		idx, err := r.expr(e.Index)
		if err != nil {
			return "", err
		}
		return seq + "[" + idx + "]", nil
	case *Call:
		args := make([]string, len(e.Args))
		for i, a := range e.Args {
			s, err := r.expr(a)
			if err != nil {
				return "", err
			}
			args[i] = s
		}
		return e.Func + "(" + strings.Join(args, ", ") + ")", nil
	case *NotZero:
		x, err := r.expr(e.X)
		if err != nil {
			return "", err
		}
		return x + " != 0", nil
	case *ReadChar:
		return "read_byte()", nil
	}
	return "", fmt.Errorf("python: unsupported expression %T", e)
}

func (r *pyRenderer) stmt(s Stmt) error {
	switch s := s.(type) {
	case *Declare:
		v, err := r.expr(s.Value)
		if err != nil {
			return err
		}
		r.line("%s = %s", s.Name, v)
	case *Assign:
		t, err := r.expr(s.Target)
		if err != nil {
			return err
		}
		v, err := r.expr(s.Value)
		if err != nil {
			return err
		}
		r.line("%s = %s", t, v)
	case *AugAssign:
		t, err := r.expr(s.Target)
		if err != nil {
			return err
		}
		v, err := r.expr(s.Value)
		if err != nil {
			return err
		}
		// bytearray rejects values outside range(256), so cells always take
		// the modular form.
		if s.Modulus == 0 {
			r.line("%s %s= %s", t, s.Op, v)
		} else {
			r.line("%s = (%s %s %s) %% %d", t, t, s.Op, v, s.Modulus)
		}
	case *While:
		c, err := r.expr(s.Cond)
		if err != nil {
			return err
		}
		r.line("while %s:", c)
		r.indent++
		for _, st := range s.Body {
			if err := r.stmt(st); err != nil {
				return err
			}
		}
		r.indent--
	case *Print:
		v, err := r.expr(s.Value)
		if err != nil {
			return err
		}
		r.line("put_byte(%s)", v)
	case *Pass:
		r.line("pass")
	default:
		return fmt.Errorf("python: unsupported statement %T", s)
	}
	return nil
}

// RenderPython renders mod as a Python 3 script.
func RenderPython(mod *Module) (string, error) {
	r := &pyRenderer{}
	r.out.WriteString(pyPreamble)
	if f := mod.Config.BufferFactory; f != "bytearray" {
		r.line("")
		r.line("")
		r.line("def %s(n):", f)
		r.line("%sreturn bytearray(n)", pyIndent)
	}
	r.line("")
	r.line("")
	for _, s := range mod.Body {
		if err := r.stmt(s); err != nil {
			return "", err
		}
	}
	r.line("sys.stdout.buffer.flush()")
	return r.out.String(), nil
}
