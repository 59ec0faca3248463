package ffi

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ericlevine/zxingffi"
)

var qrFormat = int(zxingffi.FormatQRCode)

// canvas is a white luminance buffer.
type canvas struct {
	pix    []byte
	width  int
	height int
}

func newCanvas(width, height int) *canvas {
	pix := make([]byte, width*height)
	for i := range pix {
		pix[i] = 0xFF
	}
	return &canvas{pix: pix, width: width, height: height}
}

// paste draws the encoded cells with their top left corner at (x, y).
func (c *canvas) paste(res EncodeResult, x, y int) {
	for r := 0; r < res.Height; r++ {
		for col := 0; col < res.Width; col++ {
			if res.Data[r*res.Width+col] == 1 {
				c.pix[(y+r)*c.width+x+col] = 0
			}
		}
	}
}

func (c *canvas) at(x, y int) byte { return c.pix[y*c.width+x] }

func (c *canvas) fill(x0, y0, x1, y1 int, v byte) {
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			c.pix[y*c.width+x] = v
		}
	}
}

func encodeQR(t testing.TB, text string, size, margin int) EncodeResult {
	t.Helper()
	res := EncodeBarcode(text, EncodeParams{Width: size, Height: size, Format: qrFormat, Margin: margin, ECCLevel: 1})
	require.True(t, res.IsValid, "encode %q: %s", text, res.Error)
	return res
}

// symbolImage renders text as a QR code with a quiet border of white pixels.
func symbolImage(t testing.TB, text string, border int) *canvas {
	res := encodeQR(t, text, 200, 4)
	c := newCanvas(res.Width+2*border, res.Height+2*border)
	c.paste(res, border, border)
	return c
}

// corruptSymbol overwrites the lower right data area of the QR symbol whose
// bounding box starts inside the given cell with a checkerboard.
func (c *canvas) corruptSymbol(t testing.TB, cellX, cellY, cellSize int) {
	t.Helper()
	x0, y0 := -1, -1
	for y := cellY; y < cellY+cellSize && x0 < 0; y++ {
		for x := cellX; x < cellX+cellSize; x++ {
			if c.at(x, y) == 0 {
				x0, y0 = x, y
				break
			}
		}
	}
	require.GreaterOrEqual(t, x0, 0, "no symbol in cell")
	run := 0
	for x := x0; c.at(x, y0) == 0; x++ {
		run++
	}
	module := run / 7
	last := x0
	for x := x0; x < cellX+cellSize; x++ {
		if c.at(x, y0) == 0 {
			last = x
		}
	}
	dimension := (last - x0 + 1) / module
	for r := 9; r < dimension; r++ {
		for col := 9; col < dimension; col++ {
			v := byte(0xFF)
			if (r+col)%2 == 0 {
				v = 0
			}
			c.fill(x0+col*module, y0+r*module, x0+(col+1)*module, y0+(r+1)*module, v)
		}
	}
}

// gridImage lays four QR symbols out in a 2x2 grid of 256 pixel cells and
// corrupts the one at index bad, if any.
func gridImage(t testing.TB, texts [4]string, bad int) *canvas {
	c := newCanvas(512, 512)
	for i, text := range texts {
		res := encodeQR(t, text, 200, 2)
		cx, cy := (i%2)*256, (i/2)*256
		c.paste(res, cx+(256-res.Width)/2, cy+(256-res.Height)/2)
		if i == bad {
			c.corruptSymbol(t, cx, cy, 256)
		}
	}
	return c
}
