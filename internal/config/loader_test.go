package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericlevine/zxingffi"
)

func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)

	cfg, err := NewLoader().Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), *cfg)
}

func TestLoadYAMLFile(t *testing.T) {
	isolate(t)
	path := writeConfig(t, "scan.yaml", `
log_level: debug
metrics_file: /tmp/barcodescan.prom
scan:
  formats: qr_code,ean-13
  try_invert: true
  crop_width: 300
  crop_height: 200
  output: yaml
  pure_barcode: true
  character_set: shift_jis
  assume_gs1: true
encode:
  format: DATA_MATRIX
  margin: 2
`)

	l := NewLoader()
	cfg, err := l.Load(path)
	require.NoError(t, err)
	assert.Equal(t, path, l.ConfigFileUsed())

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "/tmp/barcodescan.prom", cfg.MetricsFile)
	assert.True(t, cfg.Scan.TryInvert)
	assert.True(t, cfg.Scan.TryHarder, "unset keys keep their defaults")
	assert.Equal(t, OutputYAML, cfg.Scan.Output)

	p := cfg.Scan.ReadParams(640, 480)
	assert.Equal(t, int(zxingffi.FormatQRCode|zxingffi.FormatEAN13), p.Format)
	assert.Equal(t, 640, p.Width)
	assert.Equal(t, 480, p.Height)
	assert.Equal(t, 300, p.CropWidth)
	assert.Equal(t, 200, p.CropHeight)
	assert.True(t, p.PureBarcode)
	assert.Equal(t, "shift_jis", p.CharacterSet)
	assert.True(t, p.AssumeGS1)

	e := cfg.Encode.EncodeParams()
	assert.Equal(t, int(zxingffi.FormatDataMatrix), e.Format)
	assert.Equal(t, 2, e.Margin)
	assert.Equal(t, -1, e.ECCLevel)
	assert.Equal(t, 256, e.Width)
}

func TestLoadSearchPath(t *testing.T) {
	isolate(t)
	require.NoError(t, os.WriteFile("barcodescan.yaml", []byte("scan:\n  multi: true\n"), 0o600))

	l := NewLoader()
	cfg, err := l.Load("")
	require.NoError(t, err)
	assert.True(t, cfg.Scan.Multi)
	assert.NotEmpty(t, l.ConfigFileUsed())
}

func TestLoadEnvironment(t *testing.T) {
	isolate(t)
	t.Setenv("BARCODESCAN_LOG_LEVEL", "error")
	t.Setenv("BARCODESCAN_SCAN_TRY_ROTATE", "false")
	t.Setenv("BARCODESCAN_ENCODE_WIDTH", "512")

	cfg, err := NewLoader().Load("")
	require.NoError(t, err)
	assert.Equal(t, "error", cfg.LogLevel)
	assert.False(t, cfg.Scan.TryRotate)
	assert.Equal(t, 512, cfg.Encode.Width)
}

func TestLoadFlagOverridesEnvironment(t *testing.T) {
	isolate(t)
	t.Setenv("BARCODESCAN_SCAN_OUTPUT", "text")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("output", OutputText, "")
	require.NoError(t, flags.Parse([]string{"--output", "yaml"}))

	l := NewLoader()
	require.NoError(t, l.BindFlag("scan.output", flags.Lookup("output")))
	cfg, err := l.Load("")
	require.NoError(t, err)
	assert.Equal(t, OutputYAML, cfg.Scan.Output)
}

func TestBindFlagMissing(t *testing.T) {
	assert.Error(t, NewLoader().BindFlag("scan.output", nil))
}

func TestLoadMissingFile(t *testing.T) {
	isolate(t)
	_, err := NewLoader().Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoadMalformedFile(t *testing.T) {
	isolate(t)
	path := writeConfig(t, "bad.yaml", "scan: [unterminated\n")
	_, err := NewLoader().Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"log level", func(c *Config) { c.LogLevel = "loud" }},
		{"scan formats", func(c *Config) { c.Scan.Formats = "QR_CODE,BOGUS" }},
		{"negative crop", func(c *Config) { c.Scan.CropWidth = -1 }},
		{"character set", func(c *Config) { c.Scan.CharacterSet = "klingon" }},
		{"output", func(c *Config) { c.Scan.Output = "json" }},
		{"encode format", func(c *Config) { c.Encode.Format = "NOPE" }},
		{"encode format set", func(c *Config) { c.Encode.Format = "QR_CODE,EAN_8" }},
		{"negative width", func(c *Config) { c.Encode.Height = -3 }},
		{"ecc level", func(c *Config) { c.Encode.ECCLevel = 9 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}

	cfg := DefaultConfig()
	assert.NoError(t, cfg.Validate())
}

func TestSearchPathsUseXDG(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	paths := SearchPaths()
	assert.Equal(t, ".", paths[0])
	assert.Contains(t, paths, filepath.Join(dir, "barcodescan"))
}
