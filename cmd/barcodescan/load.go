package main

import (
	"fmt"
	"image"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/sirupsen/logrus"

	"github.com/ericlevine/zxingffi"
	"github.com/ericlevine/zxingffi/internal/instrument"

	// Additional decoders for image.Decode, which imaging uses.
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// source is one picture found in an input file. Images embedded in a PDF are
// named file#n.
type source struct {
	name string
	img  image.Image
}

func loadSources(path string) ([]source, error) {
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		return loadPDF(path)
	}
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, err
	}
	return []source{{name: path, img: img}}, nil
}

// loadPDF decodes every image embedded in the document, page by page.
// Embedded images in formats image.Decode does not know are skipped.
func loadPDF(path string) ([]source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	pages, err := api.ExtractImagesRaw(f, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("extract images: %w", err)
	}

	var out []source
	for _, images := range pages {
		for _, objNr := range slices.Sorted(maps.Keys(images)) {
			img, err := imaging.Decode(images[objNr], imaging.AutoOrientation(true))
			if err != nil {
				instrument.WithFields(logrus.Fields{"file": path, "object": objNr}).
					Warnf("skipping embedded image: %v", err)
				continue
			}
			out = append(out, source{name: fmt.Sprintf("%s#%d", path, len(out)+1), img: img})
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no decodable images in %s", path)
	}
	return out, nil
}

// luminance converts img to the row-major 8-bit buffer the decode operations
// take.
func luminance(img image.Image) (buf []byte, width, height int) {
	gray := zxingffi.NewImageViewFromImage(img).Gray()
	return gray.Pix, gray.Rect.Dx(), gray.Rect.Dy()
}
