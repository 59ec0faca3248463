package zxingffi

import (
	"errors"
	"image"

	"github.com/makiuchi-d/gozxing"
)

// ImageView is a non-owning view over an 8-bit luminance buffer. A view
// produced by Cropped remembers where it sits in the source image so that
// decoded positions can be reported in source coordinates.
type ImageView struct {
	data   []byte
	width  int
	height int
	stride int
	offset int
	left   int
	top    int
}

// NewImageView wraps a row-major luminance buffer of width*height bytes. A
// shorter buffer is padded with white so the view never reads past it.
func NewImageView(data []byte, width, height int) ImageView {
	width = max(width, 0)
	height = max(height, 0)
	if len(data) < width*height {
		padded := make([]byte, width*height)
		n := copy(padded, data)
		for i := n; i < len(padded); i++ {
			padded[i] = 0xFF
		}
		data = padded
	}
	return ImageView{data: data, width: width, height: height, stride: width}
}

// NewImageViewFromImage converts img to luminance. *image.Gray pixels are
// copied as is; other images use (306*R + 601*G + 117*B + 0x200) >> 10 on
// 8-bit components, with fully transparent pixels forced to white.
func NewImageViewFromImage(img image.Image) ImageView {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	lum := make([]byte, w*h)

	if gray, ok := img.(*image.Gray); ok {
		for y := 0; y < h; y++ {
			off := gray.PixOffset(bounds.Min.X, bounds.Min.Y+y)
			copy(lum[y*w:(y+1)*w], gray.Pix[off:off+w])
		}
		return NewImageView(lum, w, h)
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, b, a := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			if a == 0 {
				lum[y*w+x] = 0xFF
				continue
			}
			r8, g8, b8 := r>>8, g>>8, b>>8
			lum[y*w+x] = byte((306*r8 + 601*g8 + 117*b8 + 0x200) >> 10)
		}
	}
	return NewImageView(lum, w, h)
}

// Width returns the width of the view.
func (v ImageView) Width() int { return v.width }

// Height returns the height of the view.
func (v ImageView) Height() int { return v.height }

// Left returns the x offset of the view within its source image.
func (v ImageView) Left() int { return v.left }

// Top returns the y offset of the view within its source image.
func (v ImageView) Top() int { return v.top }

// At returns the luminance at (x, y) of the view.
func (v ImageView) At(x, y int) byte {
	return v.data[v.offset+y*v.stride+x]
}

// Cropped narrows the view to the given rectangle, clamped to the view bounds.
func (v ImageView) Cropped(left, top, width, height int) ImageView {
	left = clamp(left, 0, v.width)
	top = clamp(top, 0, v.height)
	width = clamp(width, 0, v.width-left)
	height = clamp(height, 0, v.height-top)
	return ImageView{
		data:   v.data,
		width:  width,
		height: height,
		stride: v.stride,
		offset: v.offset + top*v.stride + left,
		left:   v.left + left,
		top:    v.top + top,
	}
}

// CenterCropped returns the centered width x height sub view when
// 0 < width < Width() and 0 < height < Height(); otherwise v is returned
// unchanged.
func (v ImageView) CenterCropped(width, height int) ImageView {
	if width <= 0 || height <= 0 || width >= v.width || height >= v.height {
		return v
	}
	return v.Cropped(v.width/2-width/2, v.height/2-height/2, width, height)
}

// Rotated returns a copy of the view rotated clockwise by deg, which is
// rounded down to a multiple of 90.
func (v ImageView) Rotated(deg int) ImageView {
	return v.transformed(transform{rotate: normalizeRotation(deg)})
}

// Inverted returns a copy of the view with light and dark swapped.
func (v ImageView) Inverted() ImageView {
	return v.transformed(transform{invert: true})
}

// Mirrored returns a copy of the view flipped left to right.
func (v ImageView) Mirrored() ImageView {
	return v.transformed(transform{mirror: true})
}

// Gray copies the view into an *image.Gray.
func (v ImageView) Gray() *image.Gray {
	img := image.NewGray(image.Rect(0, 0, v.width, v.height))
	if src, err := v.luminanceSource(transform{}); err == nil {
		copy(img.Pix, src.GetMatrix())
	}
	return img
}

func (v ImageView) transformed(t transform) ImageView {
	src, err := v.luminanceSource(t)
	if err != nil {
		return ImageView{}
	}
	return NewImageView(matrixCopy(src), src.GetWidth(), src.GetHeight())
}

var errEmptyView = errors.New("empty image view")

// luminanceSource presents the view to the engine with t applied. The
// identity transform shares the view's buffer; every other transform works
// on a copy.
func (v ImageView) luminanceSource(t transform) (gozxing.LuminanceSource, error) {
	if v.width == 0 || v.height == 0 || v.stride == 0 {
		return nil, errEmptyView
	}
	src, err := gozxing.NewPlanarYUVLuminanceSource(v.data, v.stride, len(v.data)/v.stride,
		v.offset%v.stride, v.offset/v.stride, v.width, v.height, false)
	if err != nil {
		return nil, err
	}
	if turns := (4 - t.rotate/90) % 4; turns > 0 {
		w, h := src.GetWidth(), src.GetHeight()
		gray := &image.Gray{Pix: matrixCopy(src), Stride: w, Rect: image.Rect(0, 0, w, h)}
		src = gozxing.NewLuminanceSourceFromImage(gray)
		for i := 0; i < turns; i++ {
			if src, err = src.RotateCounterClockwise(); err != nil {
				return nil, err
			}
		}
	}
	if t.mirror {
		w, h := src.GetWidth(), src.GetHeight()
		// reversing rewrites the buffer in place
		if src, err = gozxing.NewPlanarYUVLuminanceSource(matrixCopy(src), w, h, 0, 0, w, h, true); err != nil {
			return nil, err
		}
	}
	if t.invert {
		src = src.Invert()
	}
	return src, nil
}

// matrixCopy returns the source's pixels as a fresh row-major buffer of
// exactly width*height bytes.
func matrixCopy(src gozxing.LuminanceSource) []byte {
	pix := make([]byte, src.GetWidth()*src.GetHeight())
	copy(pix, src.GetMatrix())
	return pix
}

// transform describes one decode pass: a clockwise rotation, then an optional
// left to right flip, with optional inversion of luminance.
type transform struct {
	rotate int
	mirror bool
	invert bool
}

func normalizeRotation(deg int) int {
	return ((deg/90)%4 + 4) % 4 * 90
}

// size returns the output dimensions for a w x h input.
func (t transform) size(w, h int) (int, int) {
	if t.rotate == 90 || t.rotate == 270 {
		return h, w
	}
	return w, h
}

// sourcePoint maps an output coordinate back to input coordinates.
func (t transform) sourcePoint(x, y float64, w, h int) (float64, float64) {
	if t.mirror {
		ow, _ := t.size(w, h)
		x = float64(ow-1) - x
	}
	switch t.rotate {
	case 90:
		return y, float64(h-1) - x
	case 180:
		return float64(w-1) - x, float64(h-1) - y
	case 270:
		return float64(w-1) - y, x
	default:
		return x, y
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
