package utils

import (
	"os"
	"path/filepath"
	"testing"
)

func TestGetPathInfo(t *testing.T) {
	full, dir, err := GetPathInfo("a/../b/prog.b")
	if err != nil {
		t.Fatal(err)
	}
	if !filepath.IsAbs(full) || filepath.Base(full) != "prog.b" {
		t.Errorf("fullPath = %q", full)
	}
	if filepath.Base(dir) != "b" {
		t.Errorf("parentDir = %q; want it to end in b", dir)
	}
}

func TestWriteOutputAndReadSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "deeper", "out.b")
	if err := WriteOutput(path, []byte("+++.")); err != nil {
		t.Fatalf("WriteOutput: %v", err)
	}
	src, err := ReadSource(path)
	if err != nil {
		t.Fatalf("ReadSource: %v", err)
	}
	if src != "+++." {
		t.Errorf("ReadSource = %q; want %q", src, "+++.")
	}

	if _, err := ReadSource(filepath.Join(t.TempDir(), "missing.b")); !os.IsNotExist(unwrapAll(err)) {
		t.Errorf("expected a not-exist error, got %v", err)
	}
}

func unwrapAll(err error) error {
	for {
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return err
		}
		err = u.Unwrap()
	}
}
