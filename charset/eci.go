// Package charset resolves character set names against the ECI table and
// checks that text can be represented in a given character set.
package charset

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrFormatECI indicates an invalid ECI value.
	ErrFormatECI = errors.New("charset: invalid ECI value")

	// ErrUnknown is returned for a character set name outside the ECI table.
	ErrUnknown = errors.New("charset: unknown character set")
)

// ECI represents a Character Set Extended Channel Interpretation.
type ECI struct {
	Value   int
	Name    string // IANA name, as understood by the engine and by x/text
	Aliases []string
}

// pre-defined ECIs
var (
	ECICp437      = &ECI{0, "IBM437", []string{"Cp437"}}
	ECIISO8859_1  = &ECI{1, "ISO-8859-1", []string{"ISO8859_1", "latin1"}}
	ECIISO8859_2  = &ECI{4, "ISO-8859-2", []string{"ISO8859_2"}}
	ECIISO8859_3  = &ECI{5, "ISO-8859-3", []string{"ISO8859_3"}}
	ECIISO8859_4  = &ECI{6, "ISO-8859-4", []string{"ISO8859_4"}}
	ECIISO8859_5  = &ECI{7, "ISO-8859-5", []string{"ISO8859_5"}}
	ECIISO8859_6  = &ECI{8, "ISO-8859-6", []string{"ISO8859_6"}}
	ECIISO8859_7  = &ECI{9, "ISO-8859-7", []string{"ISO8859_7"}}
	ECIISO8859_8  = &ECI{10, "ISO-8859-8", []string{"ISO8859_8"}}
	ECIISO8859_9  = &ECI{11, "ISO-8859-9", []string{"ISO8859_9"}}
	ECIISO8859_10 = &ECI{12, "ISO-8859-10", []string{"ISO8859_10"}}
	ECIISO8859_13 = &ECI{15, "ISO-8859-13", []string{"ISO8859_13"}}
	ECIISO8859_14 = &ECI{16, "ISO-8859-14", []string{"ISO8859_14"}}
	ECIISO8859_15 = &ECI{17, "ISO-8859-15", []string{"ISO8859_15"}}
	ECIISO8859_16 = &ECI{18, "ISO-8859-16", []string{"ISO8859_16"}}
	ECISJIS       = &ECI{20, "Shift_JIS", []string{"SJIS"}}
	ECICp1250     = &ECI{21, "windows-1250", []string{"Cp1250"}}
	ECICp1251     = &ECI{22, "windows-1251", []string{"Cp1251"}}
	ECICp1252     = &ECI{23, "windows-1252", []string{"Cp1252"}}
	ECICp1256     = &ECI{24, "windows-1256", []string{"Cp1256"}}
	ECIUTF16BE    = &ECI{25, "UTF-16BE", []string{"UnicodeBigUnmarked", "UnicodeBig"}}
	ECIUTF8       = &ECI{26, "UTF-8", []string{"UTF8"}}
	ECIASCII      = &ECI{27, "US-ASCII", []string{"ASCII"}}
	ECIBig5       = &ECI{28, "Big5", nil}
	ECIGB18030    = &ECI{29, "GB18030", []string{"GB2312", "EUC_CN", "GBK"}}
	ECIEUC_KR     = &ECI{30, "EUC-KR", []string{"EUC_KR"}}
)

var (
	valueToECI map[int]*ECI
	nameToECI  map[string]*ECI
)

func init() {
	valueToECI = make(map[int]*ECI)
	nameToECI = make(map[string]*ECI)

	allECIs := []*ECI{
		ECICp437, ECIISO8859_1, ECIISO8859_2, ECIISO8859_3, ECIISO8859_4,
		ECIISO8859_5, ECIISO8859_6, ECIISO8859_7, ECIISO8859_8, ECIISO8859_9,
		ECIISO8859_10, ECIISO8859_13, ECIISO8859_14,
		ECIISO8859_15, ECIISO8859_16, ECISJIS, ECICp1250, ECICp1251,
		ECICp1252, ECICp1256, ECIUTF16BE, ECIUTF8, ECIASCII, ECIBig5,
		ECIGB18030, ECIEUC_KR,
	}

	// Some character sets answer to more than one ECI value.
	extraValues := map[*ECI][]int{
		ECICp437:     {0, 2},
		ECIISO8859_1: {1, 3},
		ECIASCII:     {27, 170},
	}

	for _, eci := range allECIs {
		if vals, ok := extraValues[eci]; ok {
			for _, v := range vals {
				valueToECI[v] = eci
			}
		} else {
			valueToECI[eci.Value] = eci
		}
		nameToECI[fold(eci.Name)] = eci
		for _, alias := range eci.Aliases {
			nameToECI[fold(alias)] = eci
		}
	}
}

func fold(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// GetECIByValue returns the ECI for the given value, or an error if invalid.
func GetECIByValue(value int) (*ECI, error) {
	if value < 0 || value >= 900 {
		return nil, ErrFormatECI
	}
	return valueToECI[value], nil
}

// GetECIByName returns the ECI for the given encoding name, ignoring case.
func GetECIByName(name string) *ECI {
	return nameToECI[fold(name)]
}

// Canonical returns the IANA name of the character set called name.
func Canonical(name string) (string, error) {
	eci := GetECIByName(name)
	if eci == nil {
		return "", fmt.Errorf("%w: %q", ErrUnknown, name)
	}
	return eci.Name, nil
}
