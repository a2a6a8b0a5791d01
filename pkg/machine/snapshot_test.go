package machine

import (
	"archive/zip"
	"bytes"
	"path/filepath"
	"testing"
)

func TestSnapshotRoundTrip(t *testing.T) {
	m1, _, err := runSource(t, "+++>++>+<<", "", WithMaxSteps(500), WithRunID("run-1"))
	if err != nil {
		t.Fatal(err)
	}

	data, err := m1.SnapshotToBytes()
	if err != nil {
		t.Fatalf("SnapshotToBytes: %v", err)
	}

	m2 := New()
	if err := m2.RestoreFromBytes(data); err != nil {
		t.Fatalf("RestoreFromBytes: %v", err)
	}

	if m2.Pointer() != m1.Pointer() {
		t.Errorf("Pointer: got %d, want %d", m2.Pointer(), m1.Pointer())
	}
	if m2.Steps() != m1.Steps() {
		t.Errorf("Steps: got %d, want %d", m2.Steps(), m1.Steps())
	}
	if m2.RunID() != "run-1" {
		t.Errorf("RunID: got %q, want run-1", m2.RunID())
	}
	if got := m2.Window(0, 4); !bytes.Equal(got, []byte{3, 2, 1, 0}) {
		t.Errorf("tape: got %v, want [3 2 1 0]", got)
	}
}

func TestSnapshotGrowTape(t *testing.T) {
	m1, _, err := runSource(t, "<<<<<+++>>>>>>>>>>-", "", WithPolicy(PolicyGrow))
	if err != nil {
		t.Fatal(err)
	}
	data, err := m1.SnapshotToBytes()
	if err != nil {
		t.Fatalf("SnapshotToBytes: %v", err)
	}

	m2 := New()
	if err := m2.RestoreFromBytes(data); err != nil {
		t.Fatalf("RestoreFromBytes: %v", err)
	}
	if m2.Policy() != PolicyGrow {
		t.Fatalf("Policy: got %v, want grow", m2.Policy())
	}
	if m2.Cell(-5) != 3 || m2.Cell(5) != 255 || m2.Cell(0) != 0 {
		t.Errorf("cells: got %d %d %d, want 3 255 0", m2.Cell(-5), m2.Cell(5), m2.Cell(0))
	}
	if m2.Pointer() != 5 {
		t.Errorf("Pointer: got %d, want 5", m2.Pointer())
	}
}

func TestSnapshotFile(t *testing.T) {
	m1, _, err := runSource(t, "++++++++[>++++++++<-]>+", "")
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "tape.zip")
	if err := m1.SnapshotToFile(path); err != nil {
		t.Fatalf("SnapshotToFile: %v", err)
	}
	m2 := New()
	if err := m2.RestoreFromFile(path); err != nil {
		t.Fatalf("RestoreFromFile: %v", err)
	}
	if m2.CurrentCell() != 'A' {
		t.Errorf("current cell: got %d, want %d", m2.CurrentCell(), 'A')
	}
}

func TestRestoreRejectsBadArchives(t *testing.T) {
	m := New()
	if err := m.RestoreFromBytes([]byte("not a zip")); err == nil {
		t.Error("expected error for non-zip data")
	}

	buf := new(bytes.Buffer)
	zw := zip.NewWriter(buf)
	if err := writeZipEntry(zw, "tape.bin", []byte{1, 2, 3}); err != nil {
		t.Fatal(err)
	}
	zw.Close()
	if err := m.RestoreFromBytes(buf.Bytes()); err == nil {
		t.Error("expected error for missing machine_state.json")
	}

	buf.Reset()
	zw = zip.NewWriter(buf)
	writeZipEntry(zw, "machine_state.json", []byte(`{"policy":"wrap","tape_size":4,"length":4}`))
	writeZipEntry(zw, "tape.bin", []byte{1, 2})
	zw.Close()
	if err := m.RestoreFromBytes(buf.Bytes()); err == nil {
		t.Error("expected error for truncated tape.bin")
	}
	if m.TapeSize() != DefaultTapeSize {
		t.Errorf("failed restore changed the tape size to %d", m.TapeSize())
	}

	fixedTests := []struct {
		name  string
		state string
		tape  []byte
	}{
		{"Pointer Past End", `{"policy":"strict","tape_size":10,"pointer":50,"length":0}`, nil},
		{"Negative Pointer", `{"policy":"wrap","tape_size":10,"pointer":-1,"length":0}`, nil},
		{"Negative Origin", `{"policy":"strict","tape_size":10,"origin":-2,"length":2}`, []byte{1, 2}},
		{"Cells Past End", `{"policy":"wrap","tape_size":4,"origin":2,"length":4}`, []byte{1, 2, 3, 4}},
	}
	for _, tt := range fixedTests {
		t.Run(tt.name, func(t *testing.T) {
			buf := new(bytes.Buffer)
			zw := zip.NewWriter(buf)
			writeZipEntry(zw, "machine_state.json", []byte(tt.state))
			writeZipEntry(zw, "tape.bin", tt.tape)
			zw.Close()

			m := New()
			if err := m.RestoreFromBytes(buf.Bytes()); err == nil {
				t.Fatalf("expected error restoring %s", tt.state)
			}
			if m.Pointer() != 0 || m.TapeSize() != DefaultTapeSize {
				t.Errorf("failed restore changed the machine: pointer %d size %d", m.Pointer(), m.TapeSize())
			}
		})
	}

	// a grow tape has no bounds to check
	buf.Reset()
	zw = zip.NewWriter(buf)
	writeZipEntry(zw, "machine_state.json", []byte(`{"policy":"grow","pointer":-50,"origin":-52,"length":2}`))
	writeZipEntry(zw, "tape.bin", []byte{7, 9})
	zw.Close()
	g := New()
	if err := g.RestoreFromBytes(buf.Bytes()); err != nil {
		t.Fatalf("grow restore failed: %v", err)
	}
	if g.Pointer() != -50 || g.Cell(-52) != 7 || g.Cell(-51) != 9 {
		t.Errorf("grow restore: pointer %d cells %d %d", g.Pointer(), g.Cell(-52), g.Cell(-51))
	}
}
