package machine

import (
	"image"
	"image/color"
	"image/png"
	"os"

	"gobf/pkg/grid"
)

// DefaultImageCols is the tape image width used when cols is not positive.
const DefaultImageCols = 200

// TapeImage renders the tape extent as a grayscale grid, one pixel per cell,
// cols cells per row. A cell's value is its gray level; the cell under the
// pointer is drawn white on a zero cell and black otherwise so it stays
// visible.
func (m *Machine) TapeImage(cols int) *image.Gray {
	if cols <= 0 {
		cols = DefaultImageCols
	}
	lo, hi := m.Extent()
	n := hi - lo
	img := image.NewGray(image.Rect(0, 0, cols, max(grid.Rows(n, cols), 1)))
	for i := 0; i < n; i++ {
		x, y := grid.GetGridCoords(i, cols)
		v := m.tape.get(lo + i)
		if lo+i == m.ptr {
			if v == 0 {
				v = 0xFF
			} else {
				v = 0
			}
		}
		img.SetGray(x, y, color.Gray{Y: v})
	}
	return img
}

// SaveTapePNG encodes TapeImage(cols) as a PNG and writes it to filename.
func (m *Machine) SaveTapePNG(filename string, cols int) error {
	img := m.TapeImage(cols)
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, img)
}
