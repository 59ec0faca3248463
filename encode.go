package zxingffi

import (
	"image"

	"github.com/makiuchi-d/gozxing"
)

// EncodeOptions configures barcode encoding behavior.
type EncodeOptions struct {
	// ECCLevel is the error correction level on a 0 (lowest) to 8 (highest)
	// scale, mapped onto each format's own levels. Nil or out of range leaves
	// the writer default.
	ECCLevel *int

	// ErrorCorrection names the error correction level directly in the
	// format's own terms, e.g. "L", "M", "Q", "H" for QR Code. It takes
	// precedence over ECCLevel.
	ErrorCorrection string

	// CharacterSet specifies the character set to use when encoding.
	CharacterSet string

	// Margin specifies the margin (quiet zone) in modules around the barcode.
	// Nil or negative leaves the writer default.
	Margin *int
}

// Matrix is a rendered symbol: a grid of dark and light cells.
type Matrix struct {
	bits *gozxing.BitMatrix
}

// Width returns the number of columns.
func (m *Matrix) Width() int { return m.bits.GetWidth() }

// Height returns the number of rows.
func (m *Matrix) Height() int { return m.bits.GetHeight() }

// Get reports whether the cell at (x, y) is dark.
func (m *Matrix) Get(x, y int) bool { return m.bits.Get(x, y) }

// Cells flattens the matrix row by row, 1 for dark cells and 0 for light.
func (m *Matrix) Cells() []int8 {
	w, h := m.Width(), m.Height()
	cells := make([]int8, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if m.Get(x, y) {
				cells[y*w+x] = 1
			}
		}
	}
	return cells
}

// Image converts the matrix to a grayscale image where dark cells are black
// (0) and light cells are white (255).
func (m *Matrix) Image() *image.Gray {
	w, h := m.Width(), m.Height()
	img := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+w]
		for x := range row {
			if !m.Get(x, y) {
				row[x] = 0xFF
			}
		}
	}
	return img
}
