package charset

import (
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/transform"
)

// Lookup returns the x/text encoding for the character set called name. A nil
// encoding with a nil error means x/text has no codec for a known ECI.
func Lookup(name string) (encoding.Encoding, error) {
	canonical, err := Canonical(name)
	if err != nil {
		return nil, err
	}
	enc, err := ianaindex.IANA.Encoding(canonical)
	if err != nil {
		return nil, nil
	}
	return enc, nil
}

// CanEncode reports, as an error, whether text is representable in the
// character set called name.
func CanEncode(text, name string) error {
	canonical, err := Canonical(name)
	if err != nil {
		return err
	}
	switch canonical {
	case ECIUTF8.Name:
		if !utf8.ValidString(text) {
			return fmt.Errorf("charset: text is not valid UTF-8")
		}
		return nil
	case ECIASCII.Name:
		for i, r := range text {
			if r >= utf8.RuneSelf {
				return fmt.Errorf("charset: %q at offset %d is not representable in %s", r, i, canonical)
			}
		}
		return nil
	}
	enc, err := Lookup(canonical)
	if err != nil || enc == nil {
		return err
	}
	if _, _, err := transform.String(enc.NewEncoder(), text); err != nil {
		return fmt.Errorf("charset: text is not representable in %s: %w", canonical, err)
	}
	return nil
}

// DecodeBytes converts data from the character set called name to UTF-8.
func DecodeBytes(data []byte, name string) (string, error) {
	enc, err := Lookup(name)
	if err != nil {
		return "", err
	}
	if enc == nil {
		return string(data), nil
	}
	decoded, _, err := transform.Bytes(enc.NewDecoder(), data)
	if err != nil {
		return "", fmt.Errorf("charset: decoding %s: %w", name, err)
	}
	return string(decoded), nil
}
