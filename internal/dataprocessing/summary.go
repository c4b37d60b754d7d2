package dataprocessing

import (
	"sort"
	"strings"
)

// YearSeries describes the identifiers decoded for one admission year: how
// many there are, the serial range they span, and which serials are missing
// from 1 up to the highest seen. Gaps are informational; a missing serial
// usually means a paper record never made it into the registry.
type YearSeries struct {
	Year      int   `json:"year"`
	Count     int   `json:"count"`
	MinSerial int   `json:"min_serial"`
	MaxSerial int   `json:"max_serial"`
	Missing   []int `json:"missing,omitempty"`
}

// Summary aggregates one validation pass: totals per finding kind, per-column
// breakdown, identifier statistics and the year-by-year series analysis. It is
// derivable purely from the records and the findings list.
type Summary struct {
	TotalRows       int                 `json:"total_rows"`
	ByKind          map[FindingKind]int `json:"by_kind"`
	ByColumn        map[string]int      `json:"by_column"`
	Valid3Digit     int                 `json:"valid_3_digit"`
	Valid4Digit     int                 `json:"valid_4_digit"`
	YearSeries      []YearSeries        `json:"year_series"`
	DuplicateGroups int                 `json:"duplicate_groups"`
	MissingSerials  int                 `json:"missing_serials"`
}

// BuildSummary computes the summary for one pass over the source.
func BuildSummary(records []RawRecord, findings []Finding) Summary {
	s := Summary{
		TotalRows: len(records),
		ByKind:    make(map[FindingKind]int),
		ByColumn:  make(map[string]int),
	}

	for _, f := range findings {
		s.ByKind[f.Kind]++
		s.ByColumn[f.Column]++
		if f.Kind == FindingDuplicate {
			s.DuplicateGroups++
		}
	}

	serialsByYear := make(map[int][]int)
	for _, rec := range records {
		id := strings.TrimSpace(rec.ID)
		dec, err := DecodeIdentifier(id)
		if err != nil {
			continue
		}
		if len(id) == 3 {
			s.Valid3Digit++
		} else {
			s.Valid4Digit++
		}
		serialsByYear[dec.Year] = append(serialsByYear[dec.Year], dec.Serial)
	}

	years := make([]int, 0, len(serialsByYear))
	for year := range serialsByYear {
		years = append(years, year)
	}
	sort.Ints(years)

	for _, year := range years {
		serials := serialsByYear[year]
		sort.Ints(serials)

		series := YearSeries{
			Year:      year,
			Count:     len(serials),
			MinSerial: serials[0],
			MaxSerial: serials[len(serials)-1],
		}

		seen := make(map[int]bool, len(serials))
		for _, serial := range serials {
			seen[serial] = true
		}
		for serial := 1; serial <= series.MaxSerial; serial++ {
			if !seen[serial] {
				series.Missing = append(series.Missing, serial)
			}
		}
		s.MissingSerials += len(series.Missing)
		s.YearSeries = append(s.YearSeries, series)
	}

	return s
}
