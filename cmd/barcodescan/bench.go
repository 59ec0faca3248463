package main

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/stat"
	"gopkg.in/yaml.v3"

	"github.com/ericlevine/zxingffi/internal/config"
	"github.com/ericlevine/zxingffi/internal/instrument"
)

// benchStats summarizes repeated decodes of one source. Times are in
// milliseconds.
type benchStats struct {
	Source string  `yaml:"source"`
	Runs   int     `yaml:"runs"`
	Found  int     `yaml:"found"`
	Mean   float64 `yaml:"mean_ms"`
	StdDev float64 `yaml:"stddev_ms"`
	P50    float64 `yaml:"p50_ms"`
	P95    float64 `yaml:"p95_ms"`
}

func newBenchCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bench <file> [file...]",
		Short: "Time repeated decodes and report latency statistics",
		Args:  cobra.MinimumNArgs(1),
		RunE:  a.runBench,
	}
	cmd.Flags().IntP("runs", "n", 20, "decodes per image (at least 2)")
	addScanFlags(cmd)
	return cmd
}

func (a *app) runBench(cmd *cobra.Command, args []string) (err error) {
	defer a.flushMetrics(&err)
	runs, err := cmd.Flags().GetInt("runs")
	if err != nil {
		return err
	}
	if runs < 2 {
		return errors.New("--runs must be at least 2")
	}

	var all []benchStats
	for _, path := range args {
		sources, err := loadSources(path)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		for _, src := range sources {
			all = append(all, benchSource(src, a.cfg.Scan, runs))
		}
	}
	return writeBench(cmd.OutOrStdout(), all, a.cfg.Scan.Output)
}

func benchSource(src source, scan config.ScanConfig, runs int) benchStats {
	times := make([]float64, runs)
	found := 0
	for i := range times {
		sw := instrument.Start()
		found = len(decodeImage(src.img, scan))
		times[i] = float64(sw.Elapsed().Microseconds()) / 1000
	}
	sort.Float64s(times)
	mean, std := stat.MeanStdDev(times, nil)
	return benchStats{
		Source: src.name,
		Runs:   runs,
		Found:  found,
		Mean:   mean,
		StdDev: std,
		P50:    stat.Quantile(0.5, stat.Empirical, times, nil),
		P95:    stat.Quantile(0.95, stat.Empirical, times, nil),
	}
}

func writeBench(w io.Writer, all []benchStats, output string) error {
	if strings.EqualFold(output, config.OutputYAML) {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(all); err != nil {
			return err
		}
		return enc.Close()
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SOURCE\tRUNS\tFOUND\tMEAN_MS\tSTDDEV_MS\tP50_MS\tP95_MS")
	for _, s := range all {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%.2f\t%.2f\t%.2f\t%.2f\n", s.Source, s.Runs, s.Found, s.Mean, s.StdDev, s.P50, s.P95)
	}
	return tw.Flush()
}
