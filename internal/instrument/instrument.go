// Package instrument owns the process-wide logger and metrics shared by the
// boundary operations.
package instrument

import (
	"io"
	"os"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/sirupsen/logrus"
)

var (
	logger  = newLogger()
	enabled atomic.Bool

	// Registry holds the operation metrics. It is private to this library so
	// that embedding it never collides with the host's default registry.
	Registry = prometheus.NewRegistry()

	operationDuration = promauto.With(Registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "zxingffi_operation_duration_seconds",
			Help:    "Duration of barcode operations in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 14),
		},
		[]string{"op", "status"},
	)

	symbolsDecoded = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "zxingffi_symbols_decoded_total",
			Help: "Total number of symbols returned by decode operations",
		},
		[]string{"op"},
	)
)

func newLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	l.SetLevel(logrus.InfoLevel)
	l.SetFormatter(&logrus.TextFormatter{
		DisableColors:   true,
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	return l
}

// Logger returns the shared logger. Output is discarded until logging is
// enabled.
func Logger() *logrus.Logger {
	return logger
}

// SetLogEnabled turns diagnostic output on (to stderr) or off.
func SetLogEnabled(on bool) {
	if on {
		SetOutput(os.Stderr)
		return
	}
	enabled.Store(false)
	logger.SetOutput(io.Discard)
}

// SetOutput enables logging to w.
func SetOutput(w io.Writer) {
	logger.SetOutput(w)
	enabled.Store(true)
}

// LogEnabled reports whether diagnostic output is on.
func LogEnabled() bool {
	return enabled.Load()
}

// SetLevel parses and applies a logrus level name.
func SetLevel(level string) error {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return err
	}
	logger.SetLevel(lvl)
	return nil
}

// WithFields creates a new entry with the given fields.
func WithFields(fields logrus.Fields) *logrus.Entry {
	return logger.WithFields(fields)
}

// Stopwatch measures wall-clock time from its start.
type Stopwatch struct {
	start time.Time
}

// Start starts a stopwatch.
func Start() Stopwatch {
	return Stopwatch{start: time.Now()}
}

// Elapsed returns the time since Start.
func (s Stopwatch) Elapsed() time.Duration {
	return time.Since(s.start)
}

// Millis returns the elapsed time in whole milliseconds, never negative.
func (s Stopwatch) Millis() int {
	return max(int(s.Elapsed()/time.Millisecond), 0)
}

// Observe records one operation in the duration histogram.
func Observe(op string, ok bool, d time.Duration) {
	status := "ok"
	if !ok {
		status = "failed"
	}
	operationDuration.WithLabelValues(op, status).Observe(d.Seconds())
}

// CountSymbols adds n to the number of symbols op returned.
func CountSymbols(op string, n int) {
	symbolsDecoded.WithLabelValues(op).Add(float64(n))
}

// WriteMetrics writes the registry in the Prometheus text format to path.
func WriteMetrics(path string) error {
	return prometheus.WriteToTextfile(path, Registry)
}
