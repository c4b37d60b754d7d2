package dataprocessing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestParseDateStrict(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want time.Time
	}{
		{"canonical", "05-03-2020", date(2020, time.March, 5)},
		{"end of year", "31-12-1999", date(1999, time.December, 31)},
		{"surrounding whitespace", "  05-03-2020  ", date(2020, time.March, 5)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseDate(tt.raw)
			require.True(t, got.Valid())
			assert.Equal(t, ConfidenceStrict, got.Confidence)
			assert.Equal(t, tt.want, got.Time)
		})
	}
}

func TestParseDateFallback(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want time.Time
	}{
		{"year first", "2020-03-05", date(2020, time.March, 5)},
		{"unpadded day and month", "5-3-2020", date(2020, time.March, 5)},
		{"unpadded day only", "5-03-2020", date(2020, time.March, 5)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseDate(tt.raw)
			require.True(t, got.Valid())
			assert.Equal(t, ConfidenceFallback, got.Confidence)
			assert.Equal(t, tt.want, got.Time)
		})
	}
}

// The same calendar date is recoverable from all three shapes; only the
// confidence differs.
func TestParseDateShapesAgree(t *testing.T) {
	strict := ParseDate("05-03-2020")
	yearFirst := ParseDate("2020-03-05")
	unpadded := ParseDate("5-3-2020")

	require.True(t, strict.Valid())
	assert.Equal(t, strict.Time, yearFirst.Time)
	assert.Equal(t, strict.Time, unpadded.Time)
}

func TestParseDateUnparseable(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"empty", ""},
		{"whitespace only", "   "},
		{"nan marker", "nan"},
		{"none marker", "None"},
		{"impossible month", "31-13-2020"},
		{"impossible day", "32-01-2020"},
		{"not a leap year", "29-02-2019"},
		{"two digit year", "05-03-20"},
		{"free text", "early March"},
		{"slashes", "05/03/2020"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseDate(tt.raw)
			assert.False(t, got.Valid())
			assert.Equal(t, ConfidenceUnparseable, got.Confidence)
			assert.True(t, got.Time.IsZero())
		})
	}
}

func TestParseDateLeapDay(t *testing.T) {
	got := ParseDate("29-02-2020")
	require.True(t, got.Valid())
	assert.Equal(t, ConfidenceStrict, got.Confidence)
	assert.Equal(t, date(2020, time.February, 29), got.Time)
}
