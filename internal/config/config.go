// Package config holds the settings of the barcodescan command and loads
// them from defaults, an optional config file, BARCODESCAN_* environment
// variables and command line flags.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ericlevine/zxingffi"
	"github.com/ericlevine/zxingffi/charset"
	"github.com/ericlevine/zxingffi/ffi"
)

// Config is the complete barcodescan configuration.
type Config struct {
	LogLevel    string `mapstructure:"log_level" yaml:"log_level"`
	Verbose     bool   `mapstructure:"verbose" yaml:"verbose"`
	MetricsFile string `mapstructure:"metrics_file" yaml:"metrics_file"`

	Scan   ScanConfig   `mapstructure:"scan" yaml:"scan"`
	Encode EncodeConfig `mapstructure:"encode" yaml:"encode"`
}

// ScanConfig configures decoding.
type ScanConfig struct {
	// Formats is a comma separated list of format names; empty means any.
	Formats    string `mapstructure:"formats" yaml:"formats"`
	TryHarder  bool   `mapstructure:"try_harder" yaml:"try_harder"`
	TryRotate  bool   `mapstructure:"try_rotate" yaml:"try_rotate"`
	TryInvert  bool   `mapstructure:"try_invert" yaml:"try_invert"`
	Multi      bool   `mapstructure:"multi" yaml:"multi"`
	CropWidth  int    `mapstructure:"crop_width" yaml:"crop_width"`
	CropHeight int    `mapstructure:"crop_height" yaml:"crop_height"`
	Output     string `mapstructure:"output" yaml:"output"`

	PureBarcode bool `mapstructure:"pure_barcode" yaml:"pure_barcode"`
	// CharacterSet decodes byte segments without an ECI; empty keeps the
	// engine's guess.
	CharacterSet string `mapstructure:"character_set" yaml:"character_set"`
	AssumeGS1    bool   `mapstructure:"assume_gs1" yaml:"assume_gs1"`
}

// EncodeConfig holds the defaults of the encode command.
type EncodeConfig struct {
	Format   string `mapstructure:"format" yaml:"format"`
	Width    int    `mapstructure:"width" yaml:"width"`
	Height   int    `mapstructure:"height" yaml:"height"`
	Margin   int    `mapstructure:"margin" yaml:"margin"`
	ECCLevel int    `mapstructure:"ecc_level" yaml:"ecc_level"`
}

const (
	OutputText = "text"
	OutputYAML = "yaml"
)

var logLevels = []string{"trace", "debug", "info", "warn", "warning", "error", "fatal", "panic"}

// DefaultConfig returns the built in defaults.
func DefaultConfig() Config {
	return Config{
		LogLevel: "warn",
		Scan: ScanConfig{
			TryHarder: true,
			TryRotate: true,
			Output:    OutputText,
		},
		Encode: EncodeConfig{
			Format:   "QR_CODE",
			Width:    256,
			Height:   256,
			Margin:   -1,
			ECCLevel: -1,
		},
	}
}

// Validate checks the configuration for values the commands cannot use.
func (c *Config) Validate() error {
	var errs []error
	if !contains(logLevels, strings.ToLower(c.LogLevel)) {
		errs = append(errs, fmt.Errorf("log_level: unknown level %q", c.LogLevel))
	}
	if _, err := zxingffi.ParseFormat(c.Scan.Formats); err != nil {
		errs = append(errs, fmt.Errorf("scan.formats: %w", err))
	}
	if c.Scan.CharacterSet != "" {
		if _, err := charset.Canonical(c.Scan.CharacterSet); err != nil {
			errs = append(errs, fmt.Errorf("scan.character_set: %w", err))
		}
	}
	if c.Scan.CropWidth < 0 || c.Scan.CropHeight < 0 {
		errs = append(errs, errors.New("scan: crop dimensions must not be negative"))
	}
	switch strings.ToLower(c.Scan.Output) {
	case OutputText, OutputYAML:
	default:
		errs = append(errs, fmt.Errorf("scan.output: must be %q or %q, got %q", OutputText, OutputYAML, c.Scan.Output))
	}
	if f, err := zxingffi.ParseFormat(c.Encode.Format); err != nil {
		errs = append(errs, fmt.Errorf("encode.format: %w", err))
	} else if !f.IsSingle() {
		errs = append(errs, fmt.Errorf("encode.format: need exactly one format, got %q", c.Encode.Format))
	}
	if c.Encode.Width < 0 || c.Encode.Height < 0 {
		errs = append(errs, errors.New("encode: dimensions must not be negative"))
	}
	if c.Encode.ECCLevel > 8 {
		errs = append(errs, fmt.Errorf("encode.ecc_level: must be at most 8, got %d", c.Encode.ECCLevel))
	}
	return errors.Join(errs...)
}

// ReadParams builds the decode parameters for a width x height luminance
// buffer. The configuration must have been validated.
func (s ScanConfig) ReadParams(width, height int) ffi.ReadParams {
	formats, _ := zxingffi.ParseFormat(s.Formats)
	return ffi.ReadParams{
		Format:     int(formats),
		Width:      width,
		Height:     height,
		CropWidth:  s.CropWidth,
		CropHeight: s.CropHeight,
		TryHarder:  s.TryHarder,
		TryRotate:  s.TryRotate,
		TryInvert:  s.TryInvert,

		PureBarcode:  s.PureBarcode,
		CharacterSet: s.CharacterSet,
		AssumeGS1:    s.AssumeGS1,
	}
}

// EncodeParams builds the encode parameters. The configuration must have been
// validated.
func (e EncodeConfig) EncodeParams() ffi.EncodeParams {
	format, _ := zxingffi.ParseFormat(e.Format)
	return ffi.EncodeParams{
		Width:    e.Width,
		Height:   e.Height,
		Format:   int(format),
		Margin:   e.Margin,
		ECCLevel: e.ECCLevel,
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
