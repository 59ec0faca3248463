package ffi

import (
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/ericlevine/zxingffi"
	"github.com/ericlevine/zxingffi/internal/instrument"
)

// EncodeParams configures EncodeBarcode. A negative Margin and an ECCLevel
// outside 0..8 leave the writer defaults.
type EncodeParams struct {
	Width    int
	Height   int
	Format   int
	Margin   int
	ECCLevel int
}

// EncodeBarcode renders text as a symbol of p.Format. Writer errors and
// panics are returned as a failed EncodeResult.
func EncodeBarcode(text string, p EncodeParams) EncodeResult {
	sw := instrument.Start()
	res := EncodeResult{Text: strings.Clone(text), Format: p.Format}

	opts := &zxingffi.EncodeOptions{CharacterSet: "UTF-8"}
	if p.Margin >= 0 {
		margin := p.Margin
		opts.Margin = &margin
	}
	if p.ECCLevel >= 0 && p.ECCLevel <= 8 {
		ecc := p.ECCLevel
		opts.ECCLevel = &ecc
	}

	matrix, err := zxingffi.Encode(text, zxingffi.Format(p.Format), p.Width, p.Height, opts)
	if err != nil {
		res.Error = strings.Clone(err.Error())
		instrument.WithFields(logrus.Fields{"op": "encodeBarcode"}).
			Warnf("Can't encode text: %s\nError: %s", text, res.Error)
	} else {
		res.Data = matrix.Cells()
		res.Width = matrix.Width()
		res.Height = matrix.Height()
		res.Length = len(res.Data)
		res.IsValid = true
	}

	elapsed := sw.Millis()
	instrument.Observe("encode_barcode", res.IsValid, sw.Elapsed())
	instrument.WithFields(logrus.Fields{
		"op":         "encodeBarcode",
		"elapsed_ms": elapsed,
		"valid":      res.IsValid,
	}).Infof("Encode Barcode in: %d ms", elapsed)
	return res
}
