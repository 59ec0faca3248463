package zxingffi

import (
	"fmt"

	"github.com/makiuchi-d/gozxing"

	"github.com/ericlevine/zxingffi/charset"
)

// readerFactory creates an engine reader. Factories receive the engine hints
// so that composite readers can narrow themselves to the requested formats.
type readerFactory func(hints map[gozxing.DecodeHintType]interface{}) gozxing.Reader

type readerEntry struct {
	formats Format
	factory readerFactory
}

var readerFactories []readerEntry

// RegisterReader registers a reader factory able to decode any of formats.
// Readers are tried in registration order.
func RegisterReader(formats Format, factory readerFactory) {
	readerFactories = append(readerFactories, readerEntry{formats: formats, factory: factory})
}

// buildReaders creates one reader per registered factory that covers at
// least one of formats.
func buildReaders(formats Format, hints map[gozxing.DecodeHintType]interface{}) []gozxing.Reader {
	var readers []gozxing.Reader
	formats = formats.orAny()
	for _, entry := range readerFactories {
		if entry.formats&formats != 0 {
			readers = append(readers, entry.factory(hints))
		}
	}
	return readers
}

// ReadBarcode decodes at most one symbol from view. The returned Result is
// never nil: when nothing is decoded it is invalid and, with
// hints.ReturnErrors, carries the most informative failure seen across all
// decode passes. Positions are reported in the coordinates of the image the
// view was cropped from.
func ReadBarcode(view ImageView, hints DecodeHints) *Result {
	result, err := decodePasses(view, hints)
	if err == nil {
		return result
	}
	if !hints.ReturnErrors {
		err = ErrNotFound
	}
	return NewErrorResult(err, Position{})
}

// decodePasses runs every pass hints ask for until one decodes.
func decodePasses(view ImageView, hints DecodeHints) (*Result, error) {
	if view.Width() == 0 || view.Height() == 0 {
		return nil, ErrNotFound
	}
	engineHints := hints.engineHints()
	readers := buildReaders(hints.Formats, engineHints)
	if len(readers) == 0 {
		// nothing registered can read the requested formats
		return nil, ErrNotFound
	}
	var failure error = ErrNotFound
	for _, pass := range hints.passes() {
		result, err := decodeOnce(view, pass, readers, engineHints)
		if err == nil {
			return result, nil
		}
		failure = moreSevere(failure, err)
	}
	return nil, failure
}

// binaryBitmap binarizes view as seen through t.
func binaryBitmap(view ImageView, t transform) (*gozxing.BinaryBitmap, error) {
	src, err := view.luminanceSource(t)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	bmp, err := gozxing.NewBinaryBitmap(gozxing.NewHybridBinarizer(src))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	return bmp, nil
}

// decodeOnce offers view, as seen through t, to each reader in turn.
func decodeOnce(view ImageView, t transform, readers []gozxing.Reader, hints map[gozxing.DecodeHintType]interface{}) (*Result, error) {
	bmp, err := binaryBitmap(view, t)
	if err != nil {
		return nil, err
	}
	var failure error = ErrNotFound
	for _, reader := range readers {
		raw, err := safeDecode(reader, bmp, hints)
		reader.Reset()
		if err != nil {
			failure = moreSevere(failure, classifyDecodeError(err))
			continue
		}
		return convertEngineResult(raw, view, t, hints), nil
	}
	return nil, failure
}

// safeDecode recovers from engine panics on malformed input.
func safeDecode(reader gozxing.Reader, bmp *gozxing.BinaryBitmap, hints map[gozxing.DecodeHintType]interface{}) (result *gozxing.Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = fmt.Errorf("%w: decoder panic: %v", ErrFormat, r)
		}
	}()
	result, err = reader.Decode(bmp, hints)
	if err == nil && result == nil {
		err = ErrNotFound
	}
	return result, err
}

// convertEngineResult maps an engine result found in the t-transformed
// rendering of view back into source image coordinates.
func convertEngineResult(raw *gozxing.Result, view ImageView, t transform, hints map[gozxing.DecodeHintType]interface{}) *Result {
	var points []ResultPoint
	for _, p := range raw.GetResultPoints() {
		if p == nil {
			continue
		}
		x, y := t.sourcePoint(p.GetX(), p.GetY(), view.Width(), view.Height())
		points = append(points, ResultPoint{X: x, Y: y})
	}
	format := formatFromEngine(raw.GetBarcodeFormat())
	position := positionFromPoints(points, format).Translate(view.Left(), view.Top())

	text := raw.GetText()
	if name, ok := hints[gozxing.DecodeHintType_CHARACTER_SET].(string); ok && format == FormatDataMatrix {
		text = recodeByteSegment(raw, name)
	}
	result := NewResult(text, raw.GetRawBytes(), position, format)
	result.Inverted = t.invert
	result.Mirrored = t.mirror
	result.PutMetadata(MetadataOrientation, t.rotate)
	for key, value := range raw.GetResultMetadata() {
		switch key {
		case gozxing.ResultMetadataType_ORIENTATION:
			if deg, ok := value.(int); ok {
				result.PutMetadata(MetadataOrientation, normalizeRotation(deg+t.rotate))
			}
		case gozxing.ResultMetadataType_ERROR_CORRECTION_LEVEL:
			result.PutMetadata(MetadataErrorCorrectionLevel, fmt.Sprint(value))
		}
	}
	return result
}

// recodeByteSegment reads a payload made of a single byte segment in the
// character set called name. The Data Matrix decoder always reads byte
// segments as ISO-8859-1.
func recodeByteSegment(raw *gozxing.Result, name string) string {
	text := raw.GetText()
	segments, ok := raw.GetResultMetadata()[gozxing.ResultMetadataType_BYTE_SEGMENTS].([][]byte)
	if !ok || len(segments) != 1 {
		return text
	}
	if latin1, err := charset.DecodeBytes(segments[0], charset.ECIISO8859_1.Name); err != nil || latin1 != text {
		return text
	}
	decoded, err := charset.DecodeBytes(segments[0], name)
	if err != nil {
		return text
	}
	return decoded
}
