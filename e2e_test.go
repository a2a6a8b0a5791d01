package main

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"gobf/pkg/cli"
	"gobf/pkg/codegen"
	"gobf/pkg/compiler"
	"gobf/pkg/program"
	"gobf/pkg/utils"
)

var programs = []struct {
	file  string
	input string
	want  string
}{
	{"hello.b", "", "Hello World!\n"},
	{"line.b", "abc\n", "abc"},
	{"add.b", "34", "7"},
	{"reverse.b", "abc\n", "cba"},
	{"countdown.b", "", "9876543210"},
}

func loadProgram(t *testing.T, name string) *program.Program {
	t.Helper()
	src, err := utils.ReadSource(filepath.Join("_programs", name))
	if err != nil {
		t.Fatalf("Failed to read source: %v", err)
	}
	p, err := program.Compile(src)
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	return p
}

func TestPrograms(t *testing.T) {
	for _, tt := range programs {
		t.Run(tt.file, func(t *testing.T) {
			p := loadProgram(t, tt.file)
			for _, opt := range []bool{false, true} {
				prog := p
				if opt {
					prog = p.Optimize()
				}

				var out bytes.Buffer
				if err := prog.Run(strings.NewReader(tt.input), &out); err != nil {
					t.Fatalf("run (optimized %v) failed: %v", opt, err)
				}
				if out.String() != tt.want {
					t.Errorf("machine output (optimized %v) = %q; want %q", opt, out.String(), tt.want)
				}

				for _, lang := range []string{codegen.LanguageGo, codegen.LanguagePython} {
					mod, err := codegen.Lower(prog.Root(), codegen.TargetConfig{Language: lang, WrapPointer: true})
					if err != nil {
						t.Fatalf("Lower(%s) failed: %v", lang, err)
					}
					var gen bytes.Buffer
					if err := codegen.Eval(mod, strings.NewReader(tt.input), &gen); err != nil {
						t.Fatalf("Eval(%s) failed: %v", lang, err)
					}
					if gen.String() != tt.want {
						t.Errorf("lowered %s output (optimized %v) = %q; want %q", lang, opt, gen.String(), tt.want)
					}
				}
			}
		})
	}
}

func TestCLIPrograms(t *testing.T) {
	t.Setenv("GOBF_CONFIG", "")
	t.Setenv("HOME", t.TempDir())
	for _, tt := range programs {
		t.Run(tt.file, func(t *testing.T) {
			var out, errOut bytes.Buffer
			cmd := cli.NewRootCommand()
			cmd.SetArgs([]string{"run", "-O", filepath.Join("_programs", tt.file)})
			cmd.SetIn(strings.NewReader(tt.input))
			cmd.SetOut(&out)
			cmd.SetErr(&errOut)
			if err := cmd.ExecuteContext(context.Background()); err != nil {
				t.Fatalf("gobf run failed: %v (%s)", err, errOut.String())
			}
			if out.String() != tt.want {
				t.Errorf("gobf run output = %q; want %q", out.String(), tt.want)
			}
		})
	}
}

func TestCommentedProgram(t *testing.T) {
	src, err := utils.ReadSource(filepath.Join("_programs", "comments.b"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := program.Compile(src); !errors.Is(err, compiler.ErrInvalidCharacter) {
		t.Fatalf("expected ErrInvalidCharacter, got %v", err)
	}

	p, err := program.Compile(compiler.StripComments(src))
	if err != nil {
		t.Fatalf("Compile after stripping failed: %v", err)
	}
	var out bytes.Buffer
	if err := p.Run(nil, &out); err != nil {
		t.Fatal(err)
	}
	if out.String() != "A" {
		t.Errorf("output = %q; want %q", out.String(), "A")
	}
}
