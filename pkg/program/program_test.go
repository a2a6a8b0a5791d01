package program

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"gobf/pkg/codegen"
	"gobf/pkg/compiler"
	"gobf/pkg/machine"
)

func TestCompileErrors(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		wantErr error
	}{
		{"Invalid Character", "+a", compiler.ErrInvalidCharacter},
		{"Unmatched Close", "]", compiler.ErrUnmatchedCloseBracket},
		{"Unclosed Loop", "[", compiler.ErrUnclosedLoop},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Compile(tt.src)
			if p != nil {
				t.Errorf("expected nil program")
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v; want %v", err, tt.wantErr)
			}
		})
	}
}

func TestRun(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		input string
		want  string
	}{
		{"Three Plus Print", "+++.", "", "\x03"},
		{"Echo", ",.", "A", "A"},
		{"Add Two Digits", ",>,[-<+>]<------------------------------------------------.", "34", "7"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Compile(tt.src)
			if err != nil {
				t.Fatal(err)
			}
			for _, prog := range []*Program{p, p.Optimize()} {
				var out bytes.Buffer
				if err := prog.Run(strings.NewReader(tt.input), &out); err != nil {
					t.Fatalf("Run (optimized=%v) error: %v", prog.Optimized(), err)
				}
				if out.String() != tt.want {
					t.Errorf("Run (optimized=%v) = %q; want %q", prog.Optimized(), out.String(), tt.want)
				}
			}
		})
	}
}

func TestOptimizeLeavesOriginal(t *testing.T) {
	p, err := Compile("++>><<")
	if err != nil {
		t.Fatal(err)
	}
	before := p.String()
	o := p.Optimize()
	if p.String() != before || p.Optimized() {
		t.Errorf("Optimize changed the receiver: %s", p)
	}
	if got, want := o.String(), "(root (seq (augment 2)))"; got != want {
		t.Errorf("optimized = %s; want %s", got, want)
	}
	if o.Optimize() != o {
		t.Errorf("optimizing an optimized program should return it as is")
	}
}

func TestRunContextReturnsMachine(t *testing.T) {
	p, err := Compile("+>++<[-]")
	if err != nil {
		t.Fatal(err)
	}
	m, err := p.RunContext(context.Background(), nil, nil, machine.WithPolicy(machine.PolicyStrict))
	if err != nil {
		t.Fatal(err)
	}
	if m.Policy() != machine.PolicyStrict || m.Cell(1) != 2 || m.CurrentCell() != 0 {
		t.Errorf("policy %v cell1 %d cell0 %d", m.Policy(), m.Cell(1), m.CurrentCell())
	}

	m, err = p.RunContext(context.Background(), nil, nil, machine.WithMaxSteps(3))
	if !errors.Is(err, machine.ErrStepLimit) {
		t.Errorf("error = %v; want ErrStepLimit", err)
	}
	if m == nil || m.Steps() != 3 {
		t.Errorf("expected the stopped machine back")
	}
}

func TestGenerateSource(t *testing.T) {
	p, err := Compile("+.")
	if err != nil {
		t.Fatal(err)
	}
	src, err := p.GenerateSource(codegen.TargetConfig{Language: "python"})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(src, "put_byte(buffer[pointer])") {
		t.Errorf("unexpected python:\n%s", src)
	}
	if _, err := p.GenerateSource(codegen.TargetConfig{Language: "brainfuck"}); !errors.Is(err, codegen.ErrUnknownLanguage) {
		t.Errorf("error = %v; want ErrUnknownLanguage", err)
	}
}
