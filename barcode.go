// Package zxingffi adapts the gozxing barcode engine to the flat, caller-owned
// records handed across the C boundary by cmd/zxingffi.
package zxingffi

import (
	"fmt"
	"math"
	"math/bits"
	"strings"
	"time"

	"github.com/makiuchi-d/gozxing"
)

// Format represents a barcode format. Values are bit flags so that a single
// Format can also describe a set of formats to look for.
type Format int

const (
	FormatNone            Format = 0
	FormatAztec           Format = 1 << 0
	FormatCodabar         Format = 1 << 1
	FormatCode39          Format = 1 << 2
	FormatCode93          Format = 1 << 3
	FormatCode128         Format = 1 << 4
	FormatDataBar         Format = 1 << 5
	FormatDataBarExpanded Format = 1 << 6
	FormatDataMatrix      Format = 1 << 7
	FormatEAN8            Format = 1 << 8
	FormatEAN13           Format = 1 << 9
	FormatITF             Format = 1 << 10
	FormatMaxiCode        Format = 1 << 11
	FormatPDF417          Format = 1 << 12
	FormatQRCode          Format = 1 << 13
	FormatUPCA            Format = 1 << 14
	FormatUPCE            Format = 1 << 15

	// FormatAny matches every format this package knows about.
	FormatAny = FormatAztec | FormatCodabar | FormatCode39 | FormatCode93 |
		FormatCode128 | FormatDataBar | FormatDataBarExpanded | FormatDataMatrix |
		FormatEAN8 | FormatEAN13 | FormatITF | FormatMaxiCode | FormatPDF417 |
		FormatQRCode | FormatUPCA | FormatUPCE
)

var formatNames = map[Format]string{
	FormatAztec:           "AZTEC",
	FormatCodabar:         "CODABAR",
	FormatCode39:          "CODE_39",
	FormatCode93:          "CODE_93",
	FormatCode128:         "CODE_128",
	FormatDataBar:         "DATA_BAR",
	FormatDataBarExpanded: "DATA_BAR_EXPANDED",
	FormatDataMatrix:      "DATA_MATRIX",
	FormatEAN8:            "EAN_8",
	FormatEAN13:           "EAN_13",
	FormatITF:             "ITF",
	FormatMaxiCode:        "MAXICODE",
	FormatPDF417:          "PDF_417",
	FormatQRCode:          "QR_CODE",
	FormatUPCA:            "UPC_A",
	FormatUPCE:            "UPC_E",
}

var engineFormats = map[Format]gozxing.BarcodeFormat{
	FormatAztec:           gozxing.BarcodeFormat_AZTEC,
	FormatCodabar:         gozxing.BarcodeFormat_CODABAR,
	FormatCode39:          gozxing.BarcodeFormat_CODE_39,
	FormatCode93:          gozxing.BarcodeFormat_CODE_93,
	FormatCode128:         gozxing.BarcodeFormat_CODE_128,
	FormatDataBar:         gozxing.BarcodeFormat_RSS_14,
	FormatDataBarExpanded: gozxing.BarcodeFormat_RSS_EXPANDED,
	FormatDataMatrix:      gozxing.BarcodeFormat_DATA_MATRIX,
	FormatEAN8:            gozxing.BarcodeFormat_EAN_8,
	FormatEAN13:           gozxing.BarcodeFormat_EAN_13,
	FormatITF:             gozxing.BarcodeFormat_ITF,
	FormatMaxiCode:        gozxing.BarcodeFormat_MAXICODE,
	FormatPDF417:          gozxing.BarcodeFormat_PDF_417,
	FormatQRCode:          gozxing.BarcodeFormat_QR_CODE,
	FormatUPCA:            gozxing.BarcodeFormat_UPC_A,
	FormatUPCE:            gozxing.BarcodeFormat_UPC_E,
}

// String returns the name of the barcode format. Sets of formats are joined
// with '|'.
func (f Format) String() string {
	if f == FormatNone {
		return "NONE"
	}
	if name, ok := formatNames[f]; ok {
		return name
	}
	var names []string
	for _, single := range f.Split() {
		names = append(names, formatNames[single])
	}
	if len(names) == 0 {
		return "UNKNOWN"
	}
	return strings.Join(names, "|")
}

// Has reports whether every flag of other is set in f.
func (f Format) Has(other Format) bool {
	return other != FormatNone && f&other == other
}

// IsSingle reports whether f names exactly one known format.
func (f Format) IsSingle() bool {
	_, ok := formatNames[f]
	return ok
}

// Split returns the individual known formats contained in f, lowest bit first.
func (f Format) Split() []Format {
	var out []Format
	for rest := uint(f & FormatAny); rest != 0; rest &= rest - 1 {
		out = append(out, Format(1)<<bits.TrailingZeros(rest))
	}
	return out
}

// orAny treats an empty filter as "any format". Bits naming no known format
// are dropped, so a filter made only of them matches nothing.
func (f Format) orAny() Format {
	if f == FormatNone {
		return FormatAny
	}
	return f & FormatAny
}

func (f Format) engineFormat() (gozxing.BarcodeFormat, bool) {
	bf, ok := engineFormats[f]
	return bf, ok
}

func formatFromEngine(bf gozxing.BarcodeFormat) Format {
	for f, candidate := range engineFormats {
		if candidate == bf {
			return f
		}
	}
	return FormatNone
}

// ParseFormat parses a comma or '|' separated list of format names such as
// "QR_CODE", "qrcode" or "ean-13". An empty string yields FormatNone.
func ParseFormat(s string) (Format, error) {
	var f Format
	for _, part := range strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == '|' }) {
		key := normalizeFormatName(part)
		if key == "" {
			continue
		}
		if key == "ANY" {
			f |= FormatAny
			continue
		}
		found := false
		for candidate, name := range formatNames {
			if normalizeFormatName(name) == key {
				f |= candidate
				found = true
				break
			}
		}
		if !found {
			return FormatNone, fmt.Errorf("unknown barcode format %q", strings.TrimSpace(part))
		}
	}
	return f, nil
}

func normalizeFormatName(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	return strings.NewReplacer("_", "", "-", "", " ", "").Replace(s)
}

// ResultMetadataKey identifies a type of metadata about a barcode result.
type ResultMetadataKey int

const (
	MetadataOther ResultMetadataKey = iota
	MetadataOrientation
	MetadataErrorCorrectionLevel
)

// ResultPoint represents a point of interest in an image.
type ResultPoint struct {
	X, Y float64
}

// Point is an integer pixel coordinate.
type Point struct {
	X, Y int
}

// Position is the quadrilateral a symbol occupies in the source image.
type Position struct {
	TopLeft     Point
	TopRight    Point
	BottomRight Point
	BottomLeft  Point
}

// Translate shifts every corner by (dx, dy).
func (p Position) Translate(dx, dy int) Position {
	move := func(pt Point) Point { return Point{pt.X + dx, pt.Y + dy} }
	return Position{move(p.TopLeft), move(p.TopRight), move(p.BottomRight), move(p.BottomLeft)}
}

// Bounds returns the axis aligned bounding box of the position as
// (minX, minY, maxX, maxY).
func (p Position) Bounds() (minX, minY, maxX, maxY int) {
	corners := [4]Point{p.TopLeft, p.TopRight, p.BottomRight, p.BottomLeft}
	minX, minY = corners[0].X, corners[0].Y
	maxX, maxY = minX, minY
	for _, c := range corners[1:] {
		minX = min(minX, c.X)
		minY = min(minY, c.Y)
		maxX = max(maxX, c.X)
		maxY = max(maxY, c.Y)
	}
	return minX, minY, maxX, maxY
}

// IsZero reports whether no corner has been set.
func (p Position) IsZero() bool {
	return p == Position{}
}

// positionFromPoints derives the four corners from the engine's result points.
// QR Code reports its finder patterns as bottom-left, top-left, top-right,
// followed by an optional alignment pattern. Data Matrix reports its corners
// as top-left, bottom-left, bottom-right, top-right. Linear formats report the
// start and end of the scanned row.
func positionFromPoints(points []ResultPoint, format Format) Position {
	switch {
	case len(points) == 0:
		return Position{}
	case len(points) == 1:
		c := roundPoint(points[0])
		return Position{c, c, c, c}
	case len(points) == 2:
		left, right := roundPoint(points[0]), roundPoint(points[1])
		if left.X > right.X {
			left, right = right, left
		}
		return Position{TopLeft: left, TopRight: right, BottomRight: right, BottomLeft: left}
	case format == FormatQRCode:
		bl, tl, tr := points[0], points[1], points[2]
		br := ResultPoint{X: tr.X + bl.X - tl.X, Y: tr.Y + bl.Y - tl.Y}
		return Position{TopLeft: roundPoint(tl), TopRight: roundPoint(tr), BottomRight: roundPoint(br), BottomLeft: roundPoint(bl)}
	case format == FormatDataMatrix && len(points) == 4:
		return Position{
			TopLeft:     roundPoint(points[0]),
			TopRight:    roundPoint(points[3]),
			BottomRight: roundPoint(points[2]),
			BottomLeft:  roundPoint(points[1]),
		}
	default:
		return extremeCorners(points)
	}
}

func roundPoint(p ResultPoint) Point {
	return Point{int(math.Round(p.X)), int(math.Round(p.Y))}
}

// extremeCorners picks, for each corner, the point furthest in that
// corner's diagonal direction.
func extremeCorners(points []ResultPoint) Position {
	var tl, tr, br, bl ResultPoint
	for i, p := range points {
		if i == 0 || p.X+p.Y < tl.X+tl.Y {
			tl = p
		}
		if i == 0 || p.X+p.Y > br.X+br.Y {
			br = p
		}
		if i == 0 || p.X-p.Y > tr.X-tr.Y {
			tr = p
		}
		if i == 0 || p.X-p.Y < bl.X-bl.Y {
			bl = p
		}
	}
	return Position{TopLeft: roundPoint(tl), TopRight: roundPoint(tr), BottomRight: roundPoint(br), BottomLeft: roundPoint(bl)}
}

// Result encapsulates the outcome of one decode attempt. A Result with a
// non-nil Err is invalid; its other fields carry whatever the engine produced.
type Result struct {
	Text      string
	RawBytes  []byte
	Format    Format
	Position  Position
	Err       error
	Inverted  bool
	Mirrored  bool
	Metadata  map[ResultMetadataKey]interface{}
	Timestamp time.Time
}

// NewResult creates a valid Result.
func NewResult(text string, rawBytes []byte, position Position, format Format) *Result {
	return &Result{
		Text:      text,
		RawBytes:  rawBytes,
		Format:    format,
		Position:  position,
		Metadata:  make(map[ResultMetadataKey]interface{}),
		Timestamp: time.Now(),
	}
}

// NewErrorResult creates an invalid Result carrying err.
func NewErrorResult(err error, position Position) *Result {
	if err == nil {
		err = ErrNotFound
	}
	return &Result{
		Position:  position,
		Err:       err,
		Metadata:  make(map[ResultMetadataKey]interface{}),
		Timestamp: time.Now(),
	}
}

// IsValid reports whether the symbol was decoded successfully.
func (r *Result) IsValid() bool {
	return r.Err == nil
}

// ErrorMessage returns the failure diagnostic, or "" for a valid result.
func (r *Result) ErrorMessage() string {
	if r.Err == nil {
		return ""
	}
	return r.Err.Error()
}

// Bytes returns the byte payload: the engine's raw bytes when it reports them,
// otherwise the UTF-8 text.
func (r *Result) Bytes() []byte {
	if len(r.RawBytes) > 0 {
		return r.RawBytes
	}
	if r.Text == "" {
		return nil
	}
	return []byte(r.Text)
}

// PutMetadata adds a metadata key/value pair.
func (r *Result) PutMetadata(key ResultMetadataKey, value interface{}) {
	if r.Metadata == nil {
		r.Metadata = make(map[ResultMetadataKey]interface{})
	}
	r.Metadata[key] = value
}
