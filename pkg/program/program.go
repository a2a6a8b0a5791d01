// Package program is the public face of the toolchain: compile source once,
// then run it or generate host code from it any number of times.
package program

import (
	"context"
	"io"

	"gobf/pkg/codegen"
	"gobf/pkg/compiler"
	"gobf/pkg/machine"
)

// Program is a compiled, immutable tree. It is safe to share between
// goroutines.
type Program struct {
	root      *compiler.Root
	optimized bool
}

// Compile tokenizes and parses src.
func Compile(src string) (*Program, error) {
	root, err := compiler.Compile(src)
	if err != nil {
		return nil, err
	}
	return &Program{root: root}, nil
}

// Optimize returns a new program over the folded tree. The receiver is left
// untouched; optimizing twice is a no-op.
func (p *Program) Optimize() *Program {
	if p.optimized {
		return p
	}
	return &Program{root: p.root.Optimize().(*compiler.Root), optimized: true}
}

func (p *Program) Root() *compiler.Root { return p.root }
func (p *Program) Optimized() bool      { return p.optimized }
func (p *Program) String() string       { return p.root.String() }

// Run executes the program on a default machine.
func (p *Program) Run(in io.Reader, out io.Writer) error {
	_, err := p.RunContext(context.Background(), in, out)
	return err
}

// RunContext executes the program on a machine built from opts and returns
// the machine so callers can inspect the final tape. The machine is returned
// even when the run fails.
func (p *Program) RunContext(ctx context.Context, in io.Reader, out io.Writer, opts ...machine.Option) (*machine.Machine, error) {
	base := make([]machine.Option, 0, len(opts)+2)
	if in != nil {
		base = append(base, machine.WithInput(in))
	}
	if out != nil {
		base = append(base, machine.WithOutput(out))
	}
	m := machine.New(append(base, opts...)...)
	return m, m.Run(ctx, p.root)
}

// GenerateSource lowers the program into host source for cfg.
func (p *Program) GenerateSource(cfg codegen.TargetConfig) (string, error) {
	return codegen.Generate(p.root, cfg)
}
