package dataprocessing

import (
	"strings"
	"time"
)

// DateConfidence classifies how a date string was parsed.
type DateConfidence string

const (
	// ConfidenceStrict means the string matched the canonical DD-MM-YYYY
	// format exactly and denoted a real calendar date.
	ConfidenceStrict DateConfidence = "strict"
	// ConfidenceFallback means one of the retry formats parsed the string.
	ConfidenceFallback DateConfidence = "fallback"
	// ConfidenceUnparseable means no format produced a real calendar date.
	ConfidenceUnparseable DateConfidence = "unparseable"
)

// ParsedDate is the result of parsing one free-form date string. When
// Confidence is ConfidenceUnparseable the Time field is the zero value and
// must not be used.
type ParsedDate struct {
	Time       time.Time
	Confidence DateConfidence
}

// Valid reports whether the date parsed at all, strictly or via fallback.
func (p ParsedDate) Valid() bool {
	return p.Confidence != ConfidenceUnparseable
}

// canonicalDateLayout is zero-padded day-month-year, the registry's house format.
const canonicalDateLayout = "02-01-2006"

// fallbackDateLayouts are retried in order when the canonical format fails.
var fallbackDateLayouts = []string{
	"2006-01-02", // year first
	"2-1-2006",   // 1-2 digit day/month
}

// nullMarkers are literal strings the source uses for missing dates.
var nullMarkers = map[string]bool{
	"":     true,
	"nan":  true,
	"None": true,
}

// ParseDate turns a free-form date string into a ParsedDate. It is a pure
// function and never fails: blank values, null markers and garbage all come
// back as ConfidenceUnparseable, which callers are expected to handle as an
// ordinary result.
func ParseDate(raw string) ParsedDate {
	s := strings.TrimSpace(raw)
	if nullMarkers[s] {
		return ParsedDate{Confidence: ConfidenceUnparseable}
	}

	if isStrictDayMonthYear(s) {
		if t, err := time.Parse(canonicalDateLayout, s); err == nil {
			return ParsedDate{Time: t, Confidence: ConfidenceStrict}
		}
	}

	for _, layout := range fallbackDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return ParsedDate{Time: t, Confidence: ConfidenceFallback}
		}
	}

	return ParsedDate{Confidence: ConfidenceUnparseable}
}

// isStrictDayMonthYear reports whether s has the exact shape DD-MM-YYYY with
// zero-padded two-digit day and month. Calendar validity is left to time.Parse.
func isStrictDayMonthYear(s string) bool {
	parts := strings.Split(s, "-")
	if len(parts) != 3 {
		return false
	}
	return len(parts[0]) == 2 && allDigits(parts[0]) &&
		len(parts[1]) == 2 && allDigits(parts[1]) &&
		len(parts[2]) == 4 && allDigits(parts[2])
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}
