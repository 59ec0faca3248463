package zxingffi

import (
	"errors"
	"fmt"

	"github.com/makiuchi-d/gozxing"
)

var (
	// ErrNotFound is returned when a barcode is not found in the image.
	ErrNotFound = errors.New("barcode not found")

	// ErrChecksum is returned when a barcode's checksum does not match.
	ErrChecksum = errors.New("checksum error")

	// ErrFormat is returned when a barcode cannot be decoded due to format issues.
	ErrFormat = errors.New("format error")

	// ErrWriter is returned when a barcode cannot be encoded.
	ErrWriter = errors.New("writer error")
)

// classifyDecodeError maps an engine failure onto the package sentinels.
// Anything that is not a checksum or format exception counts as not found.
func classifyDecodeError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrChecksum) || errors.Is(err, ErrFormat) {
		return err
	}
	var checksum gozxing.ChecksumException
	if errors.As(err, &checksum) {
		return fmt.Errorf("%w: %v", ErrChecksum, err)
	}
	var format gozxing.FormatException
	if errors.As(err, &format) {
		return fmt.Errorf("%w: %v", ErrFormat, err)
	}
	return ErrNotFound
}

// severity orders decode failures: a symbol that was located but failed its
// checksum says more than one with a format error, which says more than none.
func severity(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, ErrChecksum):
		return 3
	case errors.Is(err, ErrFormat):
		return 2
	default:
		return 1
	}
}

// moreSevere returns whichever of a and b carries more information.
func moreSevere(a, b error) error {
	if severity(b) > severity(a) {
		return b
	}
	return a
}
