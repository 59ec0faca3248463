package main

import (
	"fmt"
	"image"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ericlevine/zxingffi"
	"github.com/ericlevine/zxingffi/ffi"
	"github.com/ericlevine/zxingffi/internal/config"
)

// symbol is one decoded barcode as printed by the scan command.
type symbol struct {
	Source     string  `yaml:"source"`
	Format     string  `yaml:"format"`
	Text       string  `yaml:"text"`
	Position   []point `yaml:"position,flow"`
	Inverted   bool    `yaml:"inverted,omitempty"`
	Mirrored   bool    `yaml:"mirrored,omitempty"`
	DurationMS int     `yaml:"duration_ms"`
}

type point struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
}

func newSymbol(src string, code ffi.CodeResult) symbol {
	s := symbol{
		Source:     src,
		Format:     zxingffi.Format(code.Format).String(),
		Text:       code.Text,
		Inverted:   code.IsInverted,
		Mirrored:   code.IsMirrored,
		DurationMS: code.Duration,
	}
	if p := code.Pos; p != nil {
		s.Position = []point{
			{p.TopLeftX, p.TopLeftY},
			{p.TopRightX, p.TopRightY},
			{p.BottomRightX, p.BottomRightY},
			{p.BottomLeftX, p.BottomLeftY},
		}
	}
	return s
}

func (a *app) runScan(cmd *cobra.Command, args []string) (err error) {
	if len(args) == 0 {
		return cmd.Help()
	}
	defer a.flushMetrics(&err)

	symbols := []symbol{}
	failed := false
	for _, path := range args {
		found, err := a.scanFile(path)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: error: %v\n", path, err)
			failed = true
			continue
		}
		if len(found) == 0 {
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: no barcodes found\n", path)
			failed = true
			continue
		}
		symbols = append(symbols, found...)
	}

	if err := writeSymbols(cmd.OutOrStdout(), symbols, a.cfg.Scan.Output, len(args) > 1); err != nil {
		return err
	}
	if failed {
		return errScanFailed
	}
	return nil
}

func (a *app) scanFile(path string) ([]symbol, error) {
	sources, err := loadSources(path)
	if err != nil {
		return nil, err
	}
	var out []symbol
	for _, src := range sources {
		for _, code := range decodeImage(src.img, a.cfg.Scan) {
			out = append(out, newSymbol(src.name, code))
		}
	}
	return out, nil
}

// decodeImage returns the valid symbols in img: all of them with multi set,
// otherwise at most one.
func decodeImage(img image.Image, scan config.ScanConfig) []ffi.CodeResult {
	buf, w, h := luminance(img)
	p := scan.ReadParams(w, h)
	if scan.Multi {
		return ffi.ReadBarcodes(buf, p).Results
	}
	if code := ffi.ReadBarcode(buf, p); code.IsValid {
		return []ffi.CodeResult{code}
	}
	return nil
}

func writeSymbols(w io.Writer, symbols []symbol, output string, withSource bool) error {
	if strings.EqualFold(output, config.OutputYAML) {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(symbols); err != nil {
			return err
		}
		return enc.Close()
	}
	for _, s := range symbols {
		if withSource {
			fmt.Fprintf(w, "%s: ", s.Source)
		}
		fmt.Fprintf(w, "[%s] %s\n", s.Format, s.Text)
	}
	return nil
}
