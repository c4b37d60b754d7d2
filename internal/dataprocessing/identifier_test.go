package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeIdentifier(t *testing.T) {
	tests := []struct {
		name   string
		id     string
		year   int
		serial int
	}{
		{"three digit form", "814", 2008, 14},
		{"three digit low serial", "005", 2000, 5},
		{"three digit year nine", "950", 2009, 50},
		{"four digit this century", "2456", 2024, 56},
		{"four digit at boundary", "3001", 2030, 1},
		{"four digit past boundary", "3101", 1931, 1},
		{"four digit last century", "9912", 1999, 12},
		{"four digit year zero", "0007", 2000, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dec, err := DecodeIdentifier(tt.id)
			require.NoError(t, err)
			assert.Equal(t, tt.year, dec.Year)
			assert.Equal(t, tt.serial, dec.Serial)
		})
	}
}

func TestDecodeIdentifierInvalid(t *testing.T) {
	tests := []struct {
		name string
		id   string
	}{
		{"too short", "12"},
		{"too long", "12345"},
		{"letters", "abc"},
		{"mixed", "81a"},
		{"empty", ""},
		{"signed", "-814"},
		{"internal space", "8 14"},
		{"decimal", "81.4"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeIdentifier(tt.id)
			assert.Error(t, err)
		})
	}
}
