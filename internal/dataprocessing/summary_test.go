package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildSummaryCounts(t *testing.T) {
	records := []RawRecord{
		{Row: 2, ID: "814"},
		{Row: 3, ID: "815"},
		{Row: 4, ID: "2456"},
		{Row: 5, ID: "abc"},
	}
	findings := []Finding{
		{Row: 5, Column: ColID, Kind: FindingInvalidFormat},
		{Row: 2, Column: ColProcesso, Kind: FindingDuplicate, Rows: []int{2, 3}},
		{Row: 3, Column: ColDataEnt, Kind: FindingEmpty},
	}

	s := BuildSummary(records, findings)

	assert.Equal(t, 4, s.TotalRows)
	assert.Equal(t, 2, s.Valid3Digit)
	assert.Equal(t, 1, s.Valid4Digit)
	assert.Equal(t, 1, s.ByKind[FindingInvalidFormat])
	assert.Equal(t, 1, s.ByKind[FindingDuplicate])
	assert.Equal(t, 1, s.ByColumn[ColID])
	assert.Equal(t, 1, s.ByColumn[ColProcesso])
	assert.Equal(t, 1, s.DuplicateGroups)
}

func TestBuildSummaryYearSeries(t *testing.T) {
	// 2008 has serials 1, 2 and 5; serials 3 and 4 are missing.
	records := []RawRecord{
		{Row: 2, ID: "801"},
		{Row: 3, ID: "802"},
		{Row: 4, ID: "805"},
		{Row: 5, ID: "9912"},
	}

	s := BuildSummary(records, nil)
	require.Len(t, s.YearSeries, 2)

	// Years come out sorted ascending.
	first := s.YearSeries[0]
	assert.Equal(t, 1999, first.Year)
	assert.Equal(t, 1, first.Count)
	assert.Equal(t, 12, first.MinSerial)
	assert.Equal(t, 12, first.MaxSerial)
	assert.Len(t, first.Missing, 11) // 1 through 11

	second := s.YearSeries[1]
	assert.Equal(t, 2008, second.Year)
	assert.Equal(t, 3, second.Count)
	assert.Equal(t, 1, second.MinSerial)
	assert.Equal(t, 5, second.MaxSerial)
	assert.Equal(t, []int{3, 4}, second.Missing)

	assert.Equal(t, 13, s.MissingSerials)
}

func TestBuildSummaryIgnoresUndecodableIDs(t *testing.T) {
	records := []RawRecord{
		{Row: 2, ID: "abc"},
		{Row: 3, ID: ""},
		{Row: 4, ID: "12345"},
	}

	s := BuildSummary(records, nil)
	assert.Equal(t, 0, s.Valid3Digit)
	assert.Equal(t, 0, s.Valid4Digit)
	assert.Empty(t, s.YearSeries)
}

func TestBuildSummaryEmptyInput(t *testing.T) {
	s := BuildSummary(nil, nil)
	assert.Equal(t, 0, s.TotalRows)
	assert.Empty(t, s.YearSeries)
	assert.NotNil(t, s.ByKind)
	assert.NotNil(t, s.ByColumn)
}
