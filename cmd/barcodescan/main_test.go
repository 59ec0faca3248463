package main

import (
	"bytes"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/ericlevine/zxingffi/ffi"
)

// run executes barcodescan with args and returns what it printed.
func run(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	var out, errOut bytes.Buffer
	root := newRootCmd()
	root.SetArgs(args)
	root.SetOut(&out)
	root.SetErr(&errOut)
	err = root.Execute()
	return out.String(), errOut.String(), err
}

func encodeFile(t *testing.T, text, name string, extra ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	args := append([]string{"encode", text, path}, extra...)
	stdout, _, err := run(t, args...)
	require.NoError(t, err)
	assert.Contains(t, stdout, path)
	return path
}

func blankFile(t *testing.T) string {
	t.Helper()
	img := imaging.New(120, 120, color.White)
	path := filepath.Join(t.TempDir(), "blank.png")
	require.NoError(t, imaging.Save(img, path))
	return path
}

func TestScanEncodedPNG(t *testing.T) {
	path := encodeFile(t, "hello barcodescan", "qr.png")

	stdout, _, err := run(t, path)
	require.NoError(t, err)
	assert.Equal(t, "[QR_CODE] hello barcodescan\n", stdout)
}

func TestScanYAMLOutput(t *testing.T) {
	path := encodeFile(t, "4006381333931", "ean.png", "--format", "EAN_13", "--width", "300", "--height", "120")

	stdout, _, err := run(t, "-o", "yaml", path)
	require.NoError(t, err)

	var symbols []symbol
	require.NoError(t, yaml.Unmarshal([]byte(stdout), &symbols))
	require.Len(t, symbols, 1)
	assert.Equal(t, "EAN_13", symbols[0].Format)
	assert.Equal(t, "4006381333931", symbols[0].Text)
	assert.Equal(t, path, symbols[0].Source)
	assert.Len(t, symbols[0].Position, 4)
}

func TestScanSeveralFilesPrefixesSource(t *testing.T) {
	a := encodeFile(t, "first", "a.png")
	b := encodeFile(t, "second", "b.png")

	stdout, _, err := run(t, a, b)
	require.NoError(t, err)
	assert.Equal(t, a+": [QR_CODE] first\n"+b+": [QR_CODE] second\n", stdout)
}

func TestScanPDF(t *testing.T) {
	path := encodeFile(t, "inside a pdf", "qr.pdf")

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(raw, []byte("%PDF")))

	stdout, _, err := run(t, path)
	require.NoError(t, err)
	assert.Equal(t, "[QR_CODE] inside a pdf\n", stdout)
}

func TestScanMulti(t *testing.T) {
	dir := t.TempDir()
	sheet := imaging.New(512, 256, color.White)
	for i, text := range []string{"left", "right"} {
		cell, err := imaging.Open(encodeFile(t, text, "cell.png", "--width", "200", "--height", "200"))
		require.NoError(t, err)
		sheet = imaging.Paste(sheet, cell, image.Pt(i*256+28, 28))
	}
	path := filepath.Join(dir, "sheet.png")
	require.NoError(t, imaging.Save(sheet, path))

	stdout, _, err := run(t, "--multi", "-o", "yaml", path)
	require.NoError(t, err)

	var symbols []symbol
	require.NoError(t, yaml.Unmarshal([]byte(stdout), &symbols))
	var texts []string
	for _, s := range symbols {
		texts = append(texts, s.Text)
	}
	assert.ElementsMatch(t, []string{"left", "right"}, texts)
}

func TestScanNothingFound(t *testing.T) {
	stdout, stderr, err := run(t, blankFile(t))
	assert.ErrorIs(t, err, errScanFailed)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "no barcodes found")
}

func TestScanMissingFile(t *testing.T) {
	_, stderr, err := run(t, filepath.Join(t.TempDir(), "absent.png"))
	assert.ErrorIs(t, err, errScanFailed)
	assert.Contains(t, stderr, "error:")
}

func TestScanFormatFilter(t *testing.T) {
	path := encodeFile(t, "only qr", "qr.png")

	_, _, err := run(t, "--formats", "CODE_128", path)
	assert.ErrorIs(t, err, errScanFailed)
}

func TestScanDecodeHintFlags(t *testing.T) {
	path := encodeFile(t, "pure symbol", "qr.png")

	stdout, _, err := run(t, "--pure", "--charset", "ISO-8859-1", "--gs1=false", path)
	require.NoError(t, err)
	assert.Equal(t, "[QR_CODE] pure symbol\n", stdout)

	_, _, err = run(t, "--charset", "klingon", path)
	require.Error(t, err)
	assert.NotErrorIs(t, err, errScanFailed)
}

func TestScanWritesMetrics(t *testing.T) {
	path := encodeFile(t, "metrics", "qr.png")
	metrics := filepath.Join(t.TempDir(), "barcodescan.prom")

	_, _, err := run(t, "--metrics-file", metrics, path)
	require.NoError(t, err)

	raw, err := os.ReadFile(metrics)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "zxingffi_operation_duration_seconds")
}

func TestScanVerboseLogs(t *testing.T) {
	path := encodeFile(t, "logged", "qr.png")

	_, stderr, err := run(t, "-v", path)
	require.NoError(t, err)
	assert.Contains(t, stderr, "Read Barcode in:")
}

func TestInvalidConfig(t *testing.T) {
	_, _, err := run(t, "--formats", "NOT_A_FORMAT", blankFile(t))
	require.Error(t, err)
	assert.NotErrorIs(t, err, errScanFailed)
}

func TestEncodeFailure(t *testing.T) {
	_, _, err := run(t, "encode", "not digits", filepath.Join(t.TempDir(), "x.png"), "--format", "EAN_13")
	assert.Error(t, err)
}

func TestEncodeImageSize(t *testing.T) {
	path := encodeFile(t, "sized", "qr.png", "--width", "300", "--height", "300")

	img, err := imaging.Open(path)
	require.NoError(t, err)
	assert.Equal(t, 300, img.Bounds().Dx())
	assert.Equal(t, 300, img.Bounds().Dy())
}

func TestBench(t *testing.T) {
	path := encodeFile(t, "bench", "qr.png")

	stdout, _, err := run(t, "bench", "-n", "3", path)
	require.NoError(t, err)
	assert.Contains(t, stdout, "MEAN_MS")
	assert.Contains(t, stdout, path)
}

func TestBenchYAML(t *testing.T) {
	path := encodeFile(t, "bench", "qr.png")

	stdout, _, err := run(t, "bench", "-n", "4", "-o", "yaml", path)
	require.NoError(t, err)

	var stats []benchStats
	require.NoError(t, yaml.Unmarshal([]byte(stdout), &stats))
	require.Len(t, stats, 1)
	assert.Equal(t, 4, stats[0].Runs)
	assert.Equal(t, 1, stats[0].Found)
	assert.LessOrEqual(t, stats[0].P50, stats[0].P95)
}

func TestBenchRejectsSingleRun(t *testing.T) {
	_, _, err := run(t, "bench", "-n", "1", blankFile(t))
	assert.Error(t, err)
}

func TestVersion(t *testing.T) {
	stdout, _, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "barcodescan "+ffi.Version+"\n", stdout)
}

func TestCellsImage(t *testing.T) {
	img := cellsImage(ffi.EncodeResult{Width: 2, Height: 2, Data: []int8{1, 0, 0, 1}})
	assert.Equal(t, []uint8{0, 0xFF, 0xFF, 0}, img.Pix)
}
