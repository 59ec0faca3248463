package zxingffi

import (
	"errors"
	"fmt"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/multi"
	multiqr "github.com/makiuchi-d/gozxing/multi/qrcode"
)

const (
	minDimensionToRecur = 100
	maxDepth            = 4
)

// ReadBarcodes decodes every symbol it can locate in view. When QR Code is
// among the requested formats, the multi-symbol QR Code detector runs first.
// Then, after one symbol is found, the areas left, above, right and below it
// are searched recursively; a region that yields nothing is split in half
// along its longer side. A symbol found more than once is reported once, so
// distinct symbols with the same payload are all kept. With
// hints.ReturnErrors, symbols that were located but could not be decoded are
// included as invalid results.
func ReadBarcodes(view ImageView, hints DecodeHints) []*Result {
	s := &multiSearch{hints: hints, limit: hints.MaxNumberOfSymbols}
	if hints.Formats.orAny().Has(FormatQRCode) {
		s.readQRCodes(view)
	}
	s.search(view, 0)
	return s.results
}

type multiSearch struct {
	hints   DecodeHints
	limit   int
	results []*Result
}

func (s *multiSearch) full() bool {
	return s.limit > 0 && len(s.results) >= s.limit
}

// readQRCodes records the QR Codes of the first pass in which the multi
// detector decodes any.
func (s *multiSearch) readQRCodes(view ImageView) {
	if view.Width() == 0 || view.Height() == 0 {
		return
	}
	hints := s.hints.WithFormats(FormatQRCode)
	engineHints := hints.engineHints()
	reader := multiqr.NewQRCodeMultiReader()
	for _, t := range hints.passes() {
		bmp, err := binaryBitmap(view, t)
		if err != nil {
			return
		}
		raws, err := safeDecodeMultiple(reader, bmp, engineHints)
		if err != nil || len(raws) == 0 {
			continue
		}
		for _, raw := range raws {
			s.add(convertEngineResult(raw, view, t, engineHints))
		}
		return
	}
}

// safeDecodeMultiple recovers from engine panics on malformed input.
func safeDecodeMultiple(reader multi.MultipleBarcodeReader, bmp *gozxing.BinaryBitmap, hints map[gozxing.DecodeHintType]interface{}) (results []*gozxing.Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			results = nil
			err = fmt.Errorf("%w: decoder panic: %v", ErrFormat, r)
		}
	}()
	return reader.DecodeMultiple(bmp, hints)
}

// search decodes region and reports whether anything was recorded for it or
// any of its sub regions.
func (s *multiSearch) search(region ImageView, depth int) bool {
	if depth > maxDepth || s.full() || region.Width() == 0 || region.Height() == 0 {
		return false
	}

	result, err := decodePasses(region, s.hints)
	if err != nil {
		found := false
		for _, half := range split(region) {
			if s.search(half, depth+1) {
				found = true
			}
		}
		if !found && s.hints.ReturnErrors && !errors.Is(err, ErrNotFound) {
			s.add(NewErrorResult(err, regionPosition(region)))
			found = true
		}
		return found
	}

	s.add(result)

	minX, minY, maxX, maxY := result.Position.Bounds()
	minX -= region.Left()
	maxX -= region.Left()
	minY -= region.Top()
	maxY -= region.Top()
	width, height := region.Width(), region.Height()

	// left of the symbol
	if minX > minDimensionToRecur {
		s.search(region.Cropped(0, 0, minX, height), depth+1)
	}
	// above
	if minY > minDimensionToRecur {
		s.search(region.Cropped(0, 0, width, minY), depth+1)
	}
	// right
	if maxX < width-minDimensionToRecur {
		s.search(region.Cropped(maxX, 0, width-maxX, height), depth+1)
	}
	// below
	if maxY < height-minDimensionToRecur {
		s.search(region.Cropped(0, maxY, width, height-maxY), depth+1)
	}
	return true
}

// add records result unless it is a symbol already recorded.
func (s *multiSearch) add(result *Result) {
	if s.full() {
		return
	}
	for _, existing := range s.results {
		if existing.IsValid() == result.IsValid() && sameSymbol(existing, result) {
			return
		}
	}
	s.results = append(s.results, result)
}

// sameSymbol reports whether a and b are two reads of one symbol: the same
// format at overlapping positions. A linear symbol is reported as the row it
// was scanned along, so parallel rows with the same text closer together
// than half the row length also match.
func sameSymbol(a, b *Result) bool {
	if a.Format != b.Format {
		return false
	}
	if a.Position.IsZero() || b.Position.IsZero() {
		return a.Text == b.Text
	}
	ax0, ay0, ax1, ay1 := a.Position.Bounds()
	bx0, by0, bx1, by1 := b.Position.Bounds()
	gapX := max(bx0-ax1, ax0-bx1)
	gapY := max(by0-ay1, ay0-by1)
	switch {
	case gapX <= 0 && gapY <= 0:
		return true
	case a.Text != b.Text:
		return false
	case ay0 == ay1 && by0 == by1 && gapX <= 0:
		return gapY <= max(ax1-ax0, bx1-bx0)/2
	case ax0 == ax1 && bx0 == bx1 && gapY <= 0:
		return gapX <= max(ay1-ay0, by1-by0)/2
	}
	return false
}

// split halves region along its longer side, or returns nothing when the
// halves would fall below the recursion threshold.
func split(region ImageView) []ImageView {
	w, h := region.Width(), region.Height()
	switch {
	case w >= h && w >= 2*minDimensionToRecur:
		return []ImageView{
			region.Cropped(0, 0, w/2, h),
			region.Cropped(w/2, 0, w-w/2, h),
		}
	case h > w && h >= 2*minDimensionToRecur:
		return []ImageView{
			region.Cropped(0, 0, w, h/2),
			region.Cropped(0, h/2, w, h-h/2),
		}
	}
	return nil
}

// regionPosition reports the corners of region in source coordinates.
func regionPosition(region ImageView) Position {
	l, t := region.Left(), region.Top()
	r, b := l+region.Width()-1, t+region.Height()-1
	return Position{
		TopLeft:     Point{l, t},
		TopRight:    Point{r, t},
		BottomRight: Point{r, b},
		BottomLeft:  Point{l, b},
	}
}
