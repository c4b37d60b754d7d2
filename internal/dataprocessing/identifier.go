package dataprocessing

import (
	"fmt"
	"regexp"
	"strconv"
)

// identifierPattern matches the registry's patient code: exactly 3 or 4 ASCII digits.
var identifierPattern = regexp.MustCompile(`^\d{3,4}$`)

// DecodedID is the year/serial pair encoded in a patient identifier.
type DecodedID struct {
	Year   int `json:"year"`
	Serial int `json:"serial"`
}

// centuryBoundary is the fixed cutoff for the 4-digit form: leading digits
// 00-30 map to 2000-2030, 31-99 map to 1931-1999. Not configurable.
const centuryBoundary = 30

// DecodeIdentifier decodes a 3- or 4-digit patient identifier into its
// admission year and serial number.
//
// The 3-digit form "DSS" carries only the last digit of the year and is always
// mapped into the 2000s ("814" → year 2008, serial 14). Years outside
// 2000-2009 cannot be represented in that form; this is a known limitation of
// the source encoding, not something to repair here.
//
// The 4-digit form "YYSS" uses the century boundary ("2456" → 2024/56,
// "9912" → 1999/12). Any input that is not exactly 3 or 4 ASCII digits is an
// invalid format error.
func DecodeIdentifier(id string) (DecodedID, error) {
	if !identifierPattern.MatchString(id) {
		return DecodedID{}, fmt.Errorf("invalid identifier format: %q", id)
	}

	var year int
	switch len(id) {
	case 3:
		d, _ := strconv.Atoi(id[:1])
		year = 2000 + d
	case 4:
		yy, _ := strconv.Atoi(id[:2])
		if yy <= centuryBoundary {
			year = 2000 + yy
		} else {
			year = 1900 + yy
		}
	}

	serial, _ := strconv.Atoi(id[len(id)-2:])
	return DecodedID{Year: year, Serial: serial}, nil
}
