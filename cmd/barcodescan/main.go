// Command barcodescan detects and decodes barcodes in image and PDF files and
// renders text as barcodes, using the same operations the C library exports.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ericlevine/zxingffi/ffi"
	"github.com/ericlevine/zxingffi/internal/config"
	"github.com/ericlevine/zxingffi/internal/instrument"
)

// errScanFailed reports that at least one input produced no barcode. The
// per-file diagnostics have already been printed.
var errScanFailed = errors.New("one or more files produced no barcodes")

// flagKeys maps configuration keys to the flags that override them.
var flagKeys = map[string]string{
	"log_level":          "log-level",
	"verbose":            "verbose",
	"metrics_file":       "metrics-file",
	"scan.formats":       "formats",
	"scan.try_harder":    "try-harder",
	"scan.try_rotate":    "try-rotate",
	"scan.try_invert":    "try-invert",
	"scan.multi":         "multi",
	"scan.crop_width":    "crop-width",
	"scan.crop_height":   "crop-height",
	"scan.output":        "output",
	"scan.pure_barcode":  "pure",
	"scan.character_set": "charset",
	"scan.assume_gs1":    "gs1",
	"encode.format":      "format",
	"encode.width":       "width",
	"encode.height":      "height",
	"encode.margin":      "margin",
	"encode.ecc_level":   "ecc",
}

type app struct {
	loader  *config.Loader
	cfgFile string
	cfg     *config.Config
}

func newRootCmd() *cobra.Command {
	a := &app{loader: config.NewLoader()}
	d := config.DefaultConfig()

	root := &cobra.Command{
		Use:   "barcodescan [flags] <file> [file...]",
		Short: "Detect and decode barcodes in image and PDF files",
		Long: `barcodescan decodes barcodes in PNG, JPEG, GIF, BMP, TIFF and WebP images
and in images embedded in PDF files.

Settings are read from barcodescan.yaml (see --config), BARCODESCAN_*
environment variables and flags, in increasing order of precedence.

Examples:
  barcodescan label.png
  barcodescan --multi -o yaml sheet.pdf
  barcodescan encode "hello" hello.png
  barcodescan bench -n 50 label.png`,
		Version:           ffi.Version,
		Args:              cobra.ArbitraryArgs,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		RunE:              a.runScan,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.cfgFile, "config", "", "config file (default is barcodescan.yaml in ., $XDG_CONFIG_HOME/barcodescan, /etc/barcodescan)")
	pf.String("log-level", d.LogLevel, "log level (trace, debug, info, warn, error)")
	pf.BoolP("verbose", "v", d.Verbose, "verbose output (equivalent to --log-level=debug)")
	pf.String("metrics-file", d.MetricsFile, "write Prometheus metrics in text format to this file")

	addScanFlags(root)
	root.AddCommand(newEncodeCmd(a), newBenchCmd(a), newVersionCmd())
	return root
}

func addScanFlags(cmd *cobra.Command) {
	d := config.DefaultConfig().Scan
	f := cmd.Flags()
	f.String("formats", d.Formats, "comma separated formats to look for (default any)")
	f.Bool("try-harder", d.TryHarder, "spend more time looking for barcodes")
	f.Bool("try-rotate", d.TryRotate, "also try the image rotated by 90, 180 and 270 degrees")
	f.Bool("try-invert", d.TryInvert, "also try the image with light and dark swapped")
	f.Bool("multi", d.Multi, "report every barcode in an image, not only the first")
	f.Int("crop-width", d.CropWidth, "decode only a centered region this wide (0 for the whole image)")
	f.Int("crop-height", d.CropHeight, "decode only a centered region this high (0 for the whole image)")
	f.StringP("output", "o", d.Output, "output format: text or yaml")
	f.Bool("pure", d.PureBarcode, "the image holds a single unrotated barcode with little border")
	f.String("charset", d.CharacterSet, "character set for byte data that carries no ECI, e.g. Shift_JIS")
	f.Bool("gs1", d.AssumeGS1, "treat the payload as GS1 data")
}

// setup binds the flags of the running command, loads the configuration and
// points the shared logger at stderr.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	for key, name := range flagKeys {
		if f := cmd.Flags().Lookup(name); f != nil {
			if err := a.loader.BindFlag(key, f); err != nil {
				return err
			}
		}
	}

	cfg, err := a.loader.Load(a.cfgFile)
	if err != nil {
		return err
	}
	a.cfg = cfg

	level := cfg.LogLevel
	if cfg.Verbose {
		level = "debug"
	}
	if err := instrument.SetLevel(level); err != nil {
		return err
	}
	instrument.SetOutput(cmd.ErrOrStderr())
	if used := a.loader.ConfigFileUsed(); used != "" {
		instrument.Logger().Debugf("using config file %s", used)
	}
	return nil
}

// flushMetrics writes the metrics file when one is configured.
func (a *app) flushMetrics(err *error) {
	if a.cfg == nil || a.cfg.MetricsFile == "" {
		return
	}
	if werr := instrument.WriteMetrics(a.cfg.MetricsFile); werr != nil && *err == nil {
		*err = fmt.Errorf("write metrics: %w", werr)
	}
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if !errors.Is(err, errScanFailed) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}
