package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestDump(t *testing.T) {
	var buf bytes.Buffer
	if err := dump(&buf, testSource, "python"); err != nil {
		t.Fatalf("dump: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"Tokens (24)",
		"AST (",
		"Optimized AST (",
		"(augment 8)",
		"Lowered",
		"Generated python",
		"put_byte(buffer[pointer])",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("dump missing %q:\n%s", want, out)
		}
	}
	if strings.Index(out, "Optimized AST") < strings.Index(out, "Tokens") {
		t.Error("stages out of order")
	}
}

func TestDumpErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		lang string
		want string
	}{
		{"Bad Character", "+x", "go", "tokenize error"},
		{"Unmatched", "]", "go", "parse error"},
		{"Bad Language", "+", "fortran", "lowering error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := dump(&bytes.Buffer{}, tt.src, tt.lang)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("dump error = %v; want %q", err, tt.want)
			}
		})
	}
}
