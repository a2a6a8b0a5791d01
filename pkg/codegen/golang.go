package codegen

import (
	"fmt"
	"go/format"
	"strings"
)

// goPreamble is the runtime every generated Go program carries. Output is
// buffered and flushed on exit, including the end-of-input exit.
const goPreamble = `// Code generated by gobf. DO NOT EDIT.

package main

import (
	"bufio"
	"fmt"
	"os"
)

var (
	stdin  = bufio.NewReader(os.Stdin)
	stdout = bufio.NewWriter(os.Stdout)
)

func readByte() byte {
	c, err := stdin.ReadByte()
	if err != nil {
		stdout.Flush()
		fmt.Fprintln(os.Stderr, "end of input")
		os.Exit(1)
	}
	return c
}
`

// goRenderer emits Go source. Top-level declarations become package
// variables so programs that never touch the tape still compile.
type goRenderer struct {
	out    strings.Builder
	indent int
}

func (r *goRenderer) line(format string, args ...any) {
	r.out.WriteString(strings.Repeat("\t", r.indent))
	fmt.Fprintf(&r.out, format+"\n", args...)
}

func (r *goRenderer) expr(e Expr) (string, error) {
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
		return "readByte()", nil
	}
	return "", fmt.Errorf("go: unsupported expression %T", e)
}

// isCell reports whether e indexes the tape; cells are bytes in Go and wrap
// at 256 on their own.
func (r *goRenderer) isCell(e Expr) bool {
	_, ok := e.(*Index)
	return ok
}

func (r *goRenderer) stmt(s Stmt) error {
	switch s := s.(type) {
	case *Declare:
		v, err := r.expr(s.Value)
		if err != nil {
			return err
		}
		r.line("%s := %s", s.Name, v)
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
		switch {
		case s.Modulus == 0 || (s.Modulus == cellModulus && r.isCell(s.Target)):
			r.line("%s %s= %s", t, s.Op, v)
		case s.Op == "+":
			r.line("%s = (%s + %s) %% %d", t, t, v, s.Modulus)
		default:
			r.line("%s = (%s + %d - %s) %% %d", t, t, s.Modulus, v, s.Modulus)
		}
	case *While:
		c, err := r.expr(s.Cond)
		if err != nil {
			return err
		}
		r.line("for %s {", c)
		r.indent++
		for _, st := range s.Body {
			if err := r.stmt(st); err != nil {
				return err
			}
		}
		r.indent--
		r.line("}")
	case *Print:
		v, err := r.expr(s.Value)
		if err != nil {
			return err
		}
		r.line("stdout.WriteByte(%s)", v)
	case *Pass:
		// an empty Go block needs no placeholder
	default:
		return fmt.Errorf("go: unsupported statement %T", s)
	}
	return nil
}

// RenderGo renders mod as a gofmt-formatted Go main package.
func RenderGo(mod *Module) (string, error) {
	r := &goRenderer{}
	r.out.WriteString(goPreamble)
	r.line("")
	r.line("func %s(n int) []byte { return make([]byte, n) }", mod.Config.BufferFactory)

	var body []Stmt
	for _, s := range mod.Body {
		if d, ok := s.(*Declare); ok {
			v, err := r.expr(d.Value)
			if err != nil {
				return "", err
			}
			r.line("")
			r.line("var %s = %s", d.Name, v)
			continue
		}
		body = append(body, s)
	}

	r.line("")
	r.line("func main() {")
	r.indent++
	r.line("defer stdout.Flush()")
	for _, s := range body {
		if err := r.stmt(s); err != nil {
			return "", err
		}
	}
	r.indent--
	r.line("}")

	src, err := format.Source([]byte(r.out.String()))
	if err != nil {
		return "", fmt.Errorf("gofmt generated source: %w", err)
	}
	return string(src), nil
}
