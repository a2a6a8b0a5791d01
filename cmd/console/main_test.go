package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestConsole(t *testing.T) {
	dir := t.TempDir()
	prog := filepath.Join(dir, "prog.b")
	if err := os.WriteFile(prog, []byte("++++++++[>++++++++<-]>+."), 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name     string
		args     []string
		stdin    string
		wantCode int
		wantOut  string
		contains []string
	}{
		{name: "Code Flag", args: []string{"-c", "+++[>++++++++++<-]>+++."}, wantOut: "!"},
		{name: "File Flag", args: []string{"-f", prog}, wantOut: "A"},
		{name: "Optimized", args: []string{"-o", "-f", prog}, wantOut: "A"},
		{name: "Echo", args: []string{"-c", ",.,."}, stdin: "ok", wantOut: "ok"},
		{name: "End Of Input", args: []string{"-c", ","}, wantCode: 1},
		{name: "No Input Flag", args: nil, wantCode: 2},
		{name: "Both Input Flags", args: []string{"-c", "+", "-f", prog}, wantCode: 2},
		{name: "Both Targets", args: []string{"-c", "+", "-py", "-go"}, wantCode: 2},
		{name: "Syntax Error", args: []string{"-c", "[["}, wantCode: 1},
		{name: "Strict Policy", args: []string{"-policy", "strict", "-c", "<"}, wantCode: 1},
		{name: "Bad Policy", args: []string{"-policy", "round", "-c", "+"}, wantCode: 2},
		{name: "Python", args: []string{"-py", "-c", "+."}, contains: []string{"import sys", "put_byte(buffer[pointer])"}},
		{name: "Go", args: []string{"-go", "-o", "-c", "++."}, contains: []string{"package main", "buffer[pointer] += 2"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			code := run(tt.args, strings.NewReader(tt.stdin), &stdout, &stderr)
			if code != tt.wantCode {
				t.Fatalf("exit code = %d; want %d (stderr %q)", code, tt.wantCode, stderr.String())
			}
			if tt.wantOut != "" && stdout.String() != tt.wantOut {
				t.Errorf("stdout = %q; want %q", stdout.String(), tt.wantOut)
			}
			for _, want := range tt.contains {
				if !strings.Contains(stdout.String(), want) {
					t.Errorf("stdout missing %q:\n%s", want, stdout.String())
				}
			}
		})
	}
}

func TestConsoleWritesFile(t *testing.T) {
	out := filepath.Join(t.TempDir(), "gen", "prog.py")
	var stdout, stderr bytes.Buffer
	if code := run([]string{"-py", "-c", "+.", "-out", out}, nil, &stdout, &stderr); code != 0 {
		t.Fatalf("exit code %d: %s", code, stderr.String())
	}
	if stdout.Len() != 0 {
		t.Errorf("stdout should be empty, got %q", stdout.String())
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "# Code generated by gobf") {
		t.Errorf("unexpected file contents:\n%s", data)
	}
}
