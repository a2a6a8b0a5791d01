package machine

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func TestTapeImage(t *testing.T) {
	m, _, err := runSource(t, "+++>>-<", "")
	if err != nil {
		t.Fatal(err)
	}

	img := m.TapeImage(0)
	b := img.Bounds()
	if b.Dx() != DefaultImageCols || b.Dy() != DefaultTapeSize/DefaultImageCols {
		t.Fatalf("bounds %v; want %dx%d", b, DefaultImageCols, DefaultTapeSize/DefaultImageCols)
	}
	if got := img.GrayAt(0, 0).Y; got != 3 {
		t.Errorf("cell 0: gray %d; want 3", got)
	}
	// pointer on a zero cell shows white
	if got := img.GrayAt(1, 0).Y; got != 0xFF {
		t.Errorf("cell 1 (pointer): gray %d; want 255", got)
	}
	if got := img.GrayAt(2, 0).Y; got != 255 {
		t.Errorf("cell 2: gray %d; want 255", got)
	}
	if got := img.GrayAt(3, 0).Y; got != 0 {
		t.Errorf("cell 3: gray %d; want 0", got)
	}
}

func TestTapeImageRows(t *testing.T) {
	m, _, err := runSource(t, ">>>>>+", "", WithTapeSize(12))
	if err != nil {
		t.Fatal(err)
	}
	img := m.TapeImage(4)
	if b := img.Bounds(); b.Dx() != 4 || b.Dy() != 3 {
		t.Fatalf("bounds %v; want 4x3", b)
	}
	// cell 5 is at (1, 1) and holds the pointer on a non-zero value
	if got := img.GrayAt(1, 1).Y; got != 0 {
		t.Errorf("cell 5: gray %d; want 0", got)
	}
}

func TestSaveTapePNG(t *testing.T) {
	m, _, err := runSource(t, "+", "", WithPolicy(PolicyGrow))
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "tape.png")
	if err := m.SaveTapePNG(path, 16); err != nil {
		t.Fatalf("SaveTapePNG: %v", err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 16 || b.Dy() != 1 {
		t.Errorf("bounds %v; want 16x1", b)
	}
}
