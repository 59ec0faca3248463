package ffi

import (
	"github.com/sirupsen/logrus"

	"github.com/ericlevine/zxingffi"
	"github.com/ericlevine/zxingffi/internal/instrument"
)

// ReadParams describes the luminance buffer handed to ReadBarcode and
// ReadBarcodes and how to search it. Width and Height must be positive; this
// is the caller's contract and is not checked.
type ReadParams struct {
	// Format is a set of format flags; 0 means any format.
	Format     int
	Width      int
	Height     int
	CropWidth  int
	CropHeight int
	TryHarder  bool
	TryRotate  bool
	TryInvert  bool

	// PureBarcode, CharacterSet and AssumeGS1 have no C counterpart; only Go
	// callers set them.
	PureBarcode  bool
	CharacterSet string
	AssumeGS1    bool
}

func (p ReadParams) hints() zxingffi.DecodeHints {
	return zxingffi.DecodeHints{}.
		WithFormats(zxingffi.Format(p.Format)).
		WithTryHarder(p.TryHarder).
		WithTryRotate(p.TryRotate).
		WithTryInvert(p.TryInvert).
		WithPureBarcode(p.PureBarcode).
		WithCharacterSet(p.CharacterSet).
		WithAssumeGS1(p.AssumeGS1).
		WithReturnErrors(true)
}

// view copies buf into private storage and applies the centered crop. A
// buffer shorter than Width*Height is padded rather than read past.
func (p ReadParams) view(buf []byte) zxingffi.ImageView {
	data := make([]byte, min(len(buf), max(p.Width, 0)*max(p.Height, 0)))
	copy(data, buf)
	return zxingffi.NewImageView(data, p.Width, p.Height).CenterCropped(p.CropWidth, p.CropHeight)
}

func (p ReadParams) stamp(code *CodeResult, duration int) {
	code.Duration = duration
	code.Pos.ImageWidth = p.Width
	code.Pos.ImageHeight = p.Height
}

// ReadBarcode decodes at most one symbol from buf, a row-major luminance
// buffer of p.Width*p.Height bytes. It never fails: when nothing is decoded
// the result is invalid and Error says why. buf is not retained.
func ReadBarcode(buf []byte, p ReadParams) CodeResult {
	sw := instrument.Start()
	view := p.view(buf)
	result := zxingffi.ReadBarcode(view, p.hints().WithMaxNumberOfSymbols(1))
	code := ConvertResult(result)
	p.stamp(&code, sw.Millis())

	instrument.Observe("read_barcode", code.IsValid, sw.Elapsed())
	if code.IsValid {
		instrument.CountSymbols("read_barcode", 1)
	}
	instrument.WithFields(logrus.Fields{
		"op":         "readBarcode",
		"elapsed_ms": code.Duration,
		"valid":      code.IsValid,
	}).Infof("Read Barcode in: %d ms", code.Duration)
	return code
}

// ReadBarcodes decodes every symbol it can find in buf. Candidates that were
// located but could not be decoded are dropped. buf is not retained.
func ReadBarcodes(buf []byte, p ReadParams) CodeResults {
	sw := instrument.Start()
	view := p.view(buf)
	results := zxingffi.ReadBarcodes(view, p.hints())
	duration := sw.Millis()

	codes := make([]CodeResult, 0, len(results))
	for _, r := range results {
		if !r.IsValid() {
			continue
		}
		code := ConvertResult(r)
		p.stamp(&code, duration)
		codes = append(codes, code)
	}

	instrument.Observe("read_barcodes", len(codes) > 0, sw.Elapsed())
	instrument.CountSymbols("read_barcodes", len(codes))
	instrument.WithFields(logrus.Fields{
		"op":         "readBarcodes",
		"elapsed_ms": duration,
		"count":      len(codes),
	}).Infof("Read Barcodes in: %d ms", duration)
	return CodeResults{Count: len(codes), Results: codes, Duration: duration}
}
