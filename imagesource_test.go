package zxingffi

import (
	"image"
	"image/color"
	"testing"
)

// gradient returns a w x h view where each pixel holds y*w+x modulo 256.
func gradient(w, h int) ImageView {
	data := make([]byte, w*h)
	for i := range data {
		data[i] = byte(i)
	}
	return NewImageView(data, w, h)
}

func TestImageViewCropped(t *testing.T) {
	v := gradient(10, 8)
	c := v.Cropped(2, 3, 4, 2)
	if c.Width() != 4 || c.Height() != 2 {
		t.Fatalf("size: got %dx%d, want 4x2", c.Width(), c.Height())
	}
	if c.Left() != 2 || c.Top() != 3 {
		t.Fatalf("origin: got (%d,%d), want (2,3)", c.Left(), c.Top())
	}
	if got, want := c.At(0, 0), v.At(2, 3); got != want {
		t.Errorf("At(0,0): got %d, want %d", got, want)
	}
	if got, want := c.At(3, 1), v.At(5, 4); got != want {
		t.Errorf("At(3,1): got %d, want %d", got, want)
	}

	nested := c.Cropped(1, 1, 2, 1)
	if nested.Left() != 3 || nested.Top() != 4 {
		t.Errorf("nested origin: got (%d,%d), want (3,4)", nested.Left(), nested.Top())
	}
	if nested.At(0, 0) != v.At(3, 4) {
		t.Errorf("nested At(0,0) mismatch")
	}
}

func TestImageViewCroppedClamps(t *testing.T) {
	v := gradient(10, 8)
	c := v.Cropped(8, 6, 50, 50)
	if c.Width() != 2 || c.Height() != 2 {
		t.Fatalf("size: got %dx%d, want 2x2", c.Width(), c.Height())
	}
	empty := v.Cropped(20, -5, 3, 3)
	if empty.Width() != 0 {
		t.Fatalf("expected empty width, got %d", empty.Width())
	}
}

func TestImageViewCenterCropped(t *testing.T) {
	v := gradient(640, 480)
	c := v.CenterCropped(200, 100)
	if c.Width() != 200 || c.Height() != 100 {
		t.Fatalf("size: got %dx%d", c.Width(), c.Height())
	}
	if c.Left() != 220 || c.Top() != 190 {
		t.Fatalf("origin: got (%d,%d), want (220,190)", c.Left(), c.Top())
	}

	unchanged := []struct{ w, h int }{
		{0, 0}, {0, 100}, {200, 0}, {640, 100}, {200, 480}, {700, 500}, {-1, 10},
	}
	for _, tc := range unchanged {
		got := v.CenterCropped(tc.w, tc.h)
		if got.Width() != 640 || got.Height() != 480 || got.Left() != 0 || got.Top() != 0 {
			t.Errorf("CenterCropped(%d,%d) changed the view: %dx%d at (%d,%d)",
				tc.w, tc.h, got.Width(), got.Height(), got.Left(), got.Top())
		}
	}
}

func TestNewImageViewPadsShortBuffer(t *testing.T) {
	v := NewImageView([]byte{1, 2, 3}, 2, 2)
	if v.At(0, 0) != 1 || v.At(0, 1) != 3 {
		t.Fatal("copied pixels mismatch")
	}
	if v.At(1, 1) != 0xFF {
		t.Fatalf("padding: got %d, want 255", v.At(1, 1))
	}
}

func TestImageViewRotated(t *testing.T) {
	// 3x2:
	// 0 1 2
	// 3 4 5
	v := NewImageView([]byte{0, 1, 2, 3, 4, 5}, 3, 2)

	r90 := v.Rotated(90)
	if r90.Width() != 2 || r90.Height() != 3 {
		t.Fatalf("90: size %dx%d", r90.Width(), r90.Height())
	}
	// clockwise:
	// 3 0
	// 4 1
	// 5 2
	want90 := [][]byte{{3, 0}, {4, 1}, {5, 2}}
	for y, row := range want90 {
		for x, p := range row {
			if got := r90.At(x, y); got != p {
				t.Errorf("90: At(%d,%d) = %d, want %d", x, y, got, p)
			}
		}
	}

	r180 := v.Rotated(180)
	if r180.At(0, 0) != 5 || r180.At(2, 1) != 0 {
		t.Errorf("180: corners %d %d", r180.At(0, 0), r180.At(2, 1))
	}

	r270 := v.Rotated(-90)
	// 2 5
	// 1 4
	// 0 3
	if r270.At(0, 0) != 2 || r270.At(1, 0) != 5 || r270.At(0, 2) != 0 {
		t.Errorf("270: got %d %d %d", r270.At(0, 0), r270.At(1, 0), r270.At(0, 2))
	}
}

func TestImageViewInvertedMirrored(t *testing.T) {
	v := NewImageView([]byte{0, 100, 255, 10, 20, 30}, 3, 2)
	inv := v.Inverted()
	if inv.At(0, 0) != 255 || inv.At(1, 0) != 155 || inv.At(2, 0) != 0 {
		t.Errorf("inverted row: %d %d %d", inv.At(0, 0), inv.At(1, 0), inv.At(2, 0))
	}
	m := v.Mirrored()
	if m.At(0, 1) != 30 || m.At(2, 1) != 10 {
		t.Errorf("mirrored row: %d %d", m.At(0, 1), m.At(2, 1))
	}
}

func TestTransformSourcePointRoundTrip(t *testing.T) {
	const w, h = 7, 5
	v := gradient(w, h)
	for _, tr := range []transform{
		{}, {rotate: 90}, {rotate: 180}, {rotate: 270},
		{mirror: true}, {rotate: 90, mirror: true}, {rotate: 180, mirror: true}, {rotate: 270, mirror: true},
	} {
		out := v.transformed(tr)
		ow, oh := tr.size(w, h)
		if out.Width() != ow || out.Height() != oh {
			t.Fatalf("%+v: size %dx%d, want %dx%d", tr, out.Width(), out.Height(), ow, oh)
		}
		for y := 0; y < oh; y++ {
			for x := 0; x < ow; x++ {
				sx, sy := tr.sourcePoint(float64(x), float64(y), w, h)
				if got, want := out.At(x, y), v.At(int(sx), int(sy)); got != want {
					t.Fatalf("%+v: pixel (%d,%d) maps to (%v,%v): got %d, want %d", tr, x, y, sx, sy, got, want)
				}
			}
		}
	}
}

func TestTransformedLeavesSourceUntouched(t *testing.T) {
	data := []byte{0, 1, 2, 3, 4, 5, 6, 7, 8}
	v := NewImageView(data, 3, 3)
	crop := v.Cropped(1, 0, 2, 3)
	for _, out := range []ImageView{v.Mirrored(), crop.Mirrored(), v.Rotated(90), v.Inverted()} {
		if out.Width() == 0 {
			t.Fatal("empty transformed view")
		}
	}
	for i, p := range data {
		if p != byte(i) {
			t.Fatalf("source buffer changed: %v", data)
		}
	}
	m := crop.Mirrored()
	if m.At(0, 0) != 2 || m.At(1, 0) != 1 || m.At(0, 2) != 8 {
		t.Errorf("mirrored crop: %d %d %d", m.At(0, 0), m.At(1, 0), m.At(0, 2))
	}
}

func TestLuminanceSourceOfCroppedView(t *testing.T) {
	v := gradient(10, 10).Cropped(2, 2, 3, 3)
	src, err := v.luminanceSource(transform{rotate: 90, invert: true})
	if err != nil {
		t.Fatal(err)
	}
	if src.GetWidth() != 3 || src.GetHeight() != 3 {
		t.Fatalf("size %dx%d", src.GetWidth(), src.GetHeight())
	}
	// clockwise, the bottom-left pixel (2,4) lands top-left
	if got := src.GetMatrix()[0]; got != 0xFF-42 {
		t.Errorf("top-left: got %d, want %d", got, 0xFF-42)
	}
	if _, err := NewImageView(nil, 0, 0).luminanceSource(transform{}); err == nil {
		t.Error("empty view should have no luminance source")
	}
}

func TestGrayOfCroppedView(t *testing.T) {
	v := gradient(10, 10).Cropped(2, 2, 3, 3)
	img := v.Gray()
	if img.Bounds() != image.Rect(0, 0, 3, 3) {
		t.Fatalf("bounds: %v", img.Bounds())
	}
	if img.GrayAt(0, 0).Y != 22 || img.GrayAt(2, 2).Y != 44 {
		t.Errorf("pixels: %d %d", img.GrayAt(0, 0).Y, img.GrayAt(2, 2).Y)
	}
}

func TestNewImageViewFromImage(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	img.Set(0, 0, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
	img.Set(1, 0, color.NRGBA{A: 0})
	v := NewImageViewFromImage(img)
	if v.At(0, 0) != 0xFF {
		t.Errorf("white: got %d", v.At(0, 0))
	}
	if v.At(1, 0) != 0xFF {
		t.Errorf("transparent: got %d", v.At(1, 0))
	}

	gray := image.NewGray(image.Rect(5, 5, 7, 6))
	gray.SetGray(6, 5, color.Gray{Y: 42})
	gv := NewImageViewFromImage(gray)
	if gv.Width() != 2 || gv.At(1, 0) != 42 {
		t.Errorf("gray: width %d, pixel %d", gv.Width(), gv.At(1, 0))
	}
}
