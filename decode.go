package zxingffi

import (
	"github.com/makiuchi-d/gozxing"

	"github.com/ericlevine/zxingffi/charset"
)

// DecodeHints configures barcode decoding behavior.
type DecodeHints struct {
	// Formats limits which formats to look for. FormatNone means any.
	Formats Format

	// TryHarder enables spending more time looking for barcodes, including a
	// pass over the mirrored image.
	TryHarder bool

	// TryRotate also tries the image rotated by 90, 270 and 180 degrees.
	TryRotate bool

	// TryInvert also tries the image with light and dark swapped.
	TryInvert bool

	// PureBarcode hints that the image contains only the barcode with minimal
	// border and no rotation.
	PureBarcode bool

	// CharacterSet names the character set for byte segments that carry no
	// ECI. Unknown names are ignored.
	CharacterSet string

	// AssumeGS1 assumes data is GS1 formatted.
	AssumeGS1 bool

	// ReturnErrors keeps symbols that were located but could not be decoded.
	ReturnErrors bool

	// MaxNumberOfSymbols caps ReadBarcodes. Zero means no limit.
	MaxNumberOfSymbols int
}

// WithFormats returns a copy of h restricted to formats.
func (h DecodeHints) WithFormats(formats Format) DecodeHints {
	h.Formats = formats
	return h
}

// WithTryHarder returns a copy of h with TryHarder set.
func (h DecodeHints) WithTryHarder(v bool) DecodeHints {
	h.TryHarder = v
	return h
}

// WithTryRotate returns a copy of h with TryRotate set.
func (h DecodeHints) WithTryRotate(v bool) DecodeHints {
	h.TryRotate = v
	return h
}

// WithTryInvert returns a copy of h with TryInvert set.
func (h DecodeHints) WithTryInvert(v bool) DecodeHints {
	h.TryInvert = v
	return h
}

// WithPureBarcode returns a copy of h with PureBarcode set.
func (h DecodeHints) WithPureBarcode(v bool) DecodeHints {
	h.PureBarcode = v
	return h
}

// WithCharacterSet returns a copy of h decoding text in the named character set.
func (h DecodeHints) WithCharacterSet(name string) DecodeHints {
	h.CharacterSet = name
	return h
}

// WithAssumeGS1 returns a copy of h with AssumeGS1 set.
func (h DecodeHints) WithAssumeGS1(v bool) DecodeHints {
	h.AssumeGS1 = v
	return h
}

// WithReturnErrors returns a copy of h with ReturnErrors set.
func (h DecodeHints) WithReturnErrors(v bool) DecodeHints {
	h.ReturnErrors = v
	return h
}

// WithMaxNumberOfSymbols returns a copy of h with MaxNumberOfSymbols set.
func (h DecodeHints) WithMaxNumberOfSymbols(n int) DecodeHints {
	h.MaxNumberOfSymbols = n
	return h
}

// passes lists the image transforms to try, in order, until one decodes.
func (h DecodeHints) passes() []transform {
	out := []transform{{}}
	if h.TryRotate {
		out = append(out, transform{rotate: 90}, transform{rotate: 270}, transform{rotate: 180})
	}
	if h.TryInvert {
		out = append(out, transform{invert: true})
		if h.TryRotate {
			out = append(out,
				transform{rotate: 90, invert: true},
				transform{rotate: 270, invert: true},
				transform{rotate: 180, invert: true})
		}
	}
	if h.TryHarder {
		out = append(out, transform{mirror: true})
	}
	return out
}

func (h DecodeHints) engineHints() map[gozxing.DecodeHintType]interface{} {
	m := make(map[gozxing.DecodeHintType]interface{})
	if h.TryHarder {
		m[gozxing.DecodeHintType_TRY_HARDER] = true
	}
	if h.PureBarcode {
		m[gozxing.DecodeHintType_PURE_BARCODE] = true
	}
	if h.AssumeGS1 {
		m[gozxing.DecodeHintType_ASSUME_GS1] = true
	}
	if h.CharacterSet != "" {
		if name, err := charset.Canonical(h.CharacterSet); err == nil {
			m[gozxing.DecodeHintType_CHARACTER_SET] = name
		}
	}
	var possible []gozxing.BarcodeFormat
	for _, f := range h.Formats.orAny().Split() {
		if bf, ok := f.engineFormat(); ok {
			possible = append(possible, bf)
		}
	}
	m[gozxing.DecodeHintType_POSSIBLE_FORMATS] = possible
	return m
}
