package main

import (
	"bytes"
	"fmt"
	"image"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/jung-kurt/gofpdf"
	"github.com/spf13/cobra"

	"github.com/ericlevine/zxingffi"
	"github.com/ericlevine/zxingffi/ffi"
	"github.com/ericlevine/zxingffi/internal/config"
)

// mmPerPixel places one image pixel per CSS pixel on the PDF page.
const mmPerPixel = 25.4 / 96

func newEncodeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "encode <text> <output-file>",
		Short: "Render text as a barcode image or PDF",
		Long: `encode renders text as a barcode. The output type follows the file
extension: .png, .jpg, .gif, .bmp, .tif or .pdf.`,
		Args: cobra.ExactArgs(2),
		RunE: a.runEncode,
	}
	d := config.DefaultConfig().Encode
	f := cmd.Flags()
	f.String("format", d.Format, "barcode format")
	f.Int("width", d.Width, "minimum width in pixels (0 for the natural size)")
	f.Int("height", d.Height, "minimum height in pixels (0 for the natural size)")
	f.Int("margin", d.Margin, "quiet zone (-1 for the writer default)")
	f.Int("ecc", d.ECCLevel, "error correction level 0-8 (-1 for the writer default)")
	return cmd
}

func (a *app) runEncode(cmd *cobra.Command, args []string) (err error) {
	defer a.flushMetrics(&err)
	text, path := args[0], args[1]

	res := ffi.EncodeBarcode(text, a.cfg.Encode.EncodeParams())
	if !res.IsValid {
		return fmt.Errorf("encode %q: %s", text, res.Error)
	}

	img := cellsImage(res)
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		err = writePDF(img, path)
	} else {
		err = imaging.Save(img, path)
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %dx%d %s to %s\n", res.Width, res.Height, zxingffi.Format(res.Format), path)
	return nil
}

// cellsImage paints dark cells black and light cells white.
func cellsImage(res ffi.EncodeResult) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, res.Width, res.Height))
	for i, cell := range res.Data {
		if cell == 0 {
			img.Pix[i] = 0xFF
		}
	}
	return img
}

// writePDF places img on a page of exactly its size.
func writePDF(img image.Image, path string) error {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(95)); err != nil {
		return fmt.Errorf("jpeg encoding failed: %w", err)
	}

	w := float64(img.Bounds().Dx()) * mmPerPixel
	h := float64(img.Bounds().Dy()) * mmPerPixel
	size := gofpdf.SizeType{Wd: w, Ht: h}

	pdf := gofpdf.NewCustom(&gofpdf.InitType{UnitStr: "mm", Size: size})
	pdf.AddPageFormat("P", size)
	opts := gofpdf.ImageOptions{ImageType: "JPEG", ReadDpi: true}
	pdf.RegisterImageOptionsReader("barcode.jpg", opts, &buf)
	pdf.ImageOptions("barcode.jpg", 0, 0, w, h, false, opts, 0, "")
	return pdf.OutputFileAndClose(path)
}
