package zxingffi

import (
	"fmt"
	"strings"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/qrcode/decoder"

	"github.com/ericlevine/zxingffi/charset"
)

// writerFactory is a function that creates an engine writer.
type writerFactory func() gozxing.Writer

var writerFactories = map[Format]writerFactory{}

// RegisterWriter registers a writer factory for the given format.
func RegisterWriter(format Format, factory writerFactory) {
	writerFactories[format] = factory
}

// Encode encodes contents into a symbol of the given format. width and height
// are minimum sizes in pixels; writers may return a larger matrix. Engine
// panics are reported as errors wrapping ErrWriter.
func Encode(contents string, format Format, width, height int, opts *EncodeOptions) (matrix *Matrix, err error) {
	if opts == nil {
		opts = &EncodeOptions{}
	}
	factory, ok := writerFactories[format]
	if !ok {
		return nil, fmt.Errorf("no writer registered for format %s: %w", format, ErrWriter)
	}
	bf, _ := format.engineFormat()
	if opts.CharacterSet != "" {
		if err := charset.CanEncode(contents, opts.CharacterSet); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrWriter, err)
		}
	}
	hints, err := opts.engineHints(format)
	if err != nil {
		return nil, err
	}

	defer func() {
		if r := recover(); r != nil {
			matrix = nil
			err = fmt.Errorf("%w: encoder panic: %v", ErrWriter, r)
		}
	}()
	bits, err := factory().Encode(contents, bf, width, height, hints)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWriter, err)
	}
	if bits == nil {
		return nil, fmt.Errorf("%w: writer returned no matrix", ErrWriter)
	}
	return &Matrix{bits: bits}, nil
}

func (o *EncodeOptions) engineHints(format Format) (map[gozxing.EncodeHintType]interface{}, error) {
	hints := make(map[gozxing.EncodeHintType]interface{})
	if o.Margin != nil && *o.Margin >= 0 {
		hints[gozxing.EncodeHintType_MARGIN] = *o.Margin
	}
	if o.CharacterSet != "" {
		name, err := charset.Canonical(o.CharacterSet)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrWriter, err)
		}
		hints[gozxing.EncodeHintType_CHARACTER_SET] = name
	}
	if format == FormatQRCode {
		level, ok, err := o.qrLevel()
		if err != nil {
			return nil, err
		}
		if ok {
			hints[gozxing.EncodeHintType_ERROR_CORRECTION] = level
		}
	}
	return hints, nil
}

var qrLevels = []decoder.ErrorCorrectionLevel{
	decoder.ErrorCorrectionLevel_L,
	decoder.ErrorCorrectionLevel_M,
	decoder.ErrorCorrectionLevel_Q,
	decoder.ErrorCorrectionLevel_H,
}

// qrLevel picks the QR Code error correction level. On the 0..8 scale, 0-2
// is L, 3-4 M, 5-6 Q and 7-8 H.
func (o *EncodeOptions) qrLevel() (decoder.ErrorCorrectionLevel, bool, error) {
	if o.ErrorCorrection != "" {
		switch strings.ToUpper(o.ErrorCorrection) {
		case "L":
			return decoder.ErrorCorrectionLevel_L, true, nil
		case "M":
			return decoder.ErrorCorrectionLevel_M, true, nil
		case "Q":
			return decoder.ErrorCorrectionLevel_Q, true, nil
		case "H":
			return decoder.ErrorCorrectionLevel_H, true, nil
		}
		return decoder.ErrorCorrectionLevel_L, false, fmt.Errorf("invalid QR error correction level %q: %w", o.ErrorCorrection, ErrWriter)
	}
	if o.ECCLevel == nil || *o.ECCLevel < 0 || *o.ECCLevel > 8 {
		return decoder.ErrorCorrectionLevel_L, false, nil
	}
	return qrLevels[max(*o.ECCLevel-1, 0)/2], true, nil
}
