package zxingffi

import (
	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/aztec"
	"github.com/makiuchi-d/gozxing/datamatrix"
	"github.com/makiuchi-d/gozxing/oned"
	"github.com/makiuchi-d/gozxing/qrcode"
)

// FormatUPCEAN is the family decoded by the combined UPC/EAN reader.
const FormatUPCEAN = FormatEAN8 | FormatEAN13 | FormatUPCA | FormatUPCE

func init() {
	RegisterReader(FormatQRCode, func(map[gozxing.DecodeHintType]interface{}) gozxing.Reader {
		return qrcode.NewQRCodeReader()
	})
	RegisterReader(FormatDataMatrix, func(map[gozxing.DecodeHintType]interface{}) gozxing.Reader {
		return datamatrix.NewDataMatrixReader()
	})
	RegisterReader(FormatAztec, func(map[gozxing.DecodeHintType]interface{}) gozxing.Reader {
		return aztec.NewAztecReader()
	})
	RegisterReader(FormatUPCEAN, func(hints map[gozxing.DecodeHintType]interface{}) gozxing.Reader {
		return oned.NewMultiFormatUPCEANReader(hints)
	})
	RegisterReader(FormatCode128, func(map[gozxing.DecodeHintType]interface{}) gozxing.Reader {
		return oned.NewCode128Reader()
	})
	RegisterReader(FormatCode39, func(map[gozxing.DecodeHintType]interface{}) gozxing.Reader {
		return oned.NewCode39Reader()
	})
	RegisterReader(FormatCode93, func(map[gozxing.DecodeHintType]interface{}) gozxing.Reader {
		return oned.NewCode93Reader()
	})
	RegisterReader(FormatITF, func(map[gozxing.DecodeHintType]interface{}) gozxing.Reader {
		return oned.NewITFReader()
	})
	RegisterReader(FormatCodabar, func(map[gozxing.DecodeHintType]interface{}) gozxing.Reader {
		return oned.NewCodaBarReader()
	})

	RegisterWriter(FormatQRCode, func() gozxing.Writer { return qrcode.NewQRCodeWriter() })
	RegisterWriter(FormatDataMatrix, func() gozxing.Writer { return datamatrix.NewDataMatrixWriter() })
	RegisterWriter(FormatCode128, func() gozxing.Writer { return oned.NewCode128Writer() })
	RegisterWriter(FormatCode39, func() gozxing.Writer { return oned.NewCode39Writer() })
	RegisterWriter(FormatCode93, func() gozxing.Writer { return oned.NewCode93Writer() })
	RegisterWriter(FormatCodabar, func() gozxing.Writer { return oned.NewCodaBarWriter() })
	RegisterWriter(FormatEAN8, func() gozxing.Writer { return oned.NewEAN8Writer() })
	RegisterWriter(FormatEAN13, func() gozxing.Writer { return oned.NewEAN13Writer() })
	RegisterWriter(FormatUPCA, func() gozxing.Writer { return oned.NewUPCAWriter() })
	RegisterWriter(FormatUPCE, func() gozxing.Writer { return oned.NewUPCEWriter() })
	RegisterWriter(FormatITF, func() gozxing.Writer { return oned.NewITFWriter() })
}
