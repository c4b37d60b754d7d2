package dataprocessing

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSets = CategoricalSets{
	Sexo:      []string{"M", "F"},
	Destino:   []string{"domicilio", "transferido", "obito"},
	Origem:    []string{"domicilio", "hospital"},
	Etiologia: []string{"fogo", "liquido", "eletrica"},
	EntVMI:    []string{"sim", "nao"},
	LesaoInal: []string{"sim", "nao"},
}

// newTestEngine pins the clock so the identifier year window is stable.
func newTestEngine() *Engine {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	e := NewEngine(logger, DefaultColumns(testSets), DefaultOrderRules())
	e.now = func() time.Time {
		return time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC)
	}
	return e
}

func findByKind(findings []Finding, kind FindingKind) []Finding {
	var out []Finding
	for _, f := range findings {
		if f.Kind == kind {
			out = append(out, f)
		}
	}
	return out
}

func specFor(t *testing.T, e *Engine, column string) ColumnSpec {
	t.Helper()
	for _, spec := range e.Columns() {
		if spec.Column == column {
			return spec
		}
	}
	t.Fatalf("no spec for column %s", column)
	return ColumnSpec{}
}

func TestCheckColumnEmptyValues(t *testing.T) {
	e := newTestEngine()
	records := []RawRecord{
		{Row: 2, ID: ""},
		{Row: 3, ID: "nan"},
		{Row: 4, ID: "None"},
		{Row: 5, ID: "814"},
	}

	findings := e.CheckColumn(specFor(t, e, ColID), records)
	empties := findByKind(findings, FindingEmpty)
	require.Len(t, empties, 3)
	assert.Equal(t, 2, empties[0].Row)
	assert.Equal(t, 3, empties[1].Row)
	assert.Equal(t, 4, empties[2].Row)
}

// A blank value produces exactly one empty finding, never an additional
// format finding for the same cell.
func TestCheckColumnBlankSkipsChain(t *testing.T) {
	e := newTestEngine()
	records := []RawRecord{{Row: 2, ID: ""}}

	findings := e.CheckColumn(specFor(t, e, ColID), records)
	require.Len(t, findings, 1)
	assert.Equal(t, FindingEmpty, findings[0].Kind)
}

// A blank value in a column without an empty check is simply skipped.
func TestCheckColumnBlankOptionalColumn(t *testing.T) {
	e := newTestEngine()
	records := []RawRecord{{Row: 2, DataAlta: ""}}

	findings := e.CheckColumn(specFor(t, e, ColDataAlta), records)
	assert.Empty(t, findings)
}

func TestCheckColumnIdentifierFormat(t *testing.T) {
	e := newTestEngine()
	records := []RawRecord{
		{Row: 2, ID: "abc"},
		{Row: 3, ID: "12345"},
		{Row: 4, ID: "81.4"},
		{Row: 5, ID: "814"},
	}

	findings := e.CheckColumn(specFor(t, e, ColID), records)
	invalid := findByKind(findings, FindingInvalidFormat)
	require.Len(t, invalid, 3)
	assert.Equal(t, 2, invalid[0].Row)
}

func TestCheckColumnIdentifierYearWindow(t *testing.T) {
	e := newTestEngine()
	records := []RawRecord{
		{Row: 2, ID: "2756"}, // 2027, after the pinned clock
		{Row: 3, ID: "2656"}, // 2026, at the boundary
		{Row: 4, ID: "9912"}, // 1999
	}

	findings := e.CheckColumn(specFor(t, e, ColID), records)
	out := findByKind(findings, FindingOutOfRange)
	require.Len(t, out, 1)
	assert.Equal(t, 2, out[0].Row)
}

func TestCheckColumnDateChain(t *testing.T) {
	e := newTestEngine()
	records := []RawRecord{
		{Row: 2, DataEnt: "10-01-2008"},
		{Row: 3, DataEnt: "2008-01-10"},
		{Row: 4, DataEnt: "31-13-2020"},
	}

	findings := e.CheckColumn(specFor(t, e, ColDataEnt), records)
	require.Len(t, findings, 1)
	assert.Equal(t, FindingInvalidFormat, findings[0].Kind)
	assert.Equal(t, 4, findings[0].Row)
}

func TestCheckColumnSurfaceRange(t *testing.T) {
	e := newTestEngine()
	records := []RawRecord{
		{Row: 2, ASCQ: "30"},
		{Row: 3, ASCQ: "30,5"},
		{Row: 4, ASCQ: "150"},
		{Row: 5, ASCQ: "0.5"},
		{Row: 6, ASCQ: "abc"},
	}

	findings := e.CheckColumn(specFor(t, e, ColASCQ), records)
	out := findByKind(findings, FindingOutOfRange)
	require.Len(t, out, 2)
	assert.Equal(t, 4, out[0].Row)
	assert.Equal(t, 5, out[1].Row)

	invalid := findByKind(findings, FindingInvalidFormat)
	require.Len(t, invalid, 1)
	assert.Equal(t, 6, invalid[0].Row)
}

func TestCheckColumnCategorical(t *testing.T) {
	e := newTestEngine()
	records := []RawRecord{
		{Row: 2, Sexo: "M"},
		{Row: 3, Sexo: "f"}, // case-insensitive match
		{Row: 4, Sexo: "X"},
	}

	findings := e.CheckColumn(specFor(t, e, ColSexo), records)
	out := findByKind(findings, FindingOutOfRange)
	require.Len(t, out, 1)
	assert.Equal(t, 4, out[0].Row)
}

// An unconfigured expected set disables the categorical check instead of
// rejecting everything.
func TestCheckColumnCategoricalUnconfigured(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	e := NewEngine(logger, DefaultColumns(CategoricalSets{}), DefaultOrderRules())

	records := []RawRecord{{Row: 2, Destino: "anything at all"}}
	findings := e.CheckColumn(specFor(t, e, ColDestino), records)
	assert.Empty(t, findings)
}

func TestCheckDuplicateGroups(t *testing.T) {
	e := newTestEngine()
	records := []RawRecord{
		{Row: 2, Processo: "100"},
		{Row: 3, Processo: "100"},
		{Row: 4, Processo: "200"},
		{Row: 5, Processo: " 100 "}, // trimmed into the same group
	}

	findings := e.CheckColumn(specFor(t, e, ColProcesso), records)
	dups := findByKind(findings, FindingDuplicate)
	require.Len(t, dups, 1)
	assert.Equal(t, 2, dups[0].Row)
	assert.Equal(t, []int{2, 3, 5}, dups[0].Rows)
}

func TestCheckYearConsistency(t *testing.T) {
	e := newTestEngine()
	records := []RawRecord{
		{Row: 2, ID: "814", DataEnt: "10-01-2008"},
		{Row: 3, ID: "815", DataEnt: "10-01-2009"}, // identifier says 2008
		{Row: 4, ID: "abc", DataEnt: "10-01-2009"}, // undecodable, excluded
	}

	findings := e.CheckCrossField(records)
	mismatches := findByKind(findings, FindingYearMismatch)
	require.Len(t, mismatches, 1)
	assert.Equal(t, 3, mismatches[0].Row)
	assert.Equal(t, ColDataEnt, mismatches[0].Column)
}

func TestCheckSequenceViolation(t *testing.T) {
	e := newTestEngine()
	records := []RawRecord{
		{Row: 2, ID: "814", DataEnt: "10-01-2008"},
		{Row: 3, ID: "815", DataEnt: "05-01-2008"}, // earlier than 814
		{Row: 4, ID: "816", DataEnt: "20-01-2008"},
	}

	findings := findByKind(e.CheckCrossField(records), FindingSequenceViolation)
	require.Len(t, findings, 1)
	assert.Equal(t, 3, findings[0].Row)
	assert.Equal(t, []int{3, 2}, findings[0].Rows)
}

// The running maximum survives a dip: a later row below the maximum is judged
// against the maximum, not against its immediate predecessor.
func TestCheckSequenceRunningMaximum(t *testing.T) {
	e := newTestEngine()
	records := []RawRecord{
		{Row: 2, ID: "814", DataEnt: "20-01-2008"},
		{Row: 3, ID: "815", DataEnt: "05-01-2008"},
		{Row: 4, ID: "816", DataEnt: "10-01-2008"}, // after 815 but before 814
	}

	findings := findByKind(e.CheckCrossField(records), FindingSequenceViolation)
	require.Len(t, findings, 2)
	assert.Equal(t, []int{3, 2}, findings[0].Rows)
	assert.Equal(t, []int{4, 2}, findings[1].Rows)
}

// Rows are walked in numeric identifier order, not source order.
func TestCheckSequenceSortsByIdentifier(t *testing.T) {
	e := newTestEngine()
	records := []RawRecord{
		{Row: 2, ID: "815", DataEnt: "10-01-2008"},
		{Row: 3, ID: "814", DataEnt: "05-01-2008"},
	}

	findings := findByKind(e.CheckCrossField(records), FindingSequenceViolation)
	assert.Empty(t, findings)
}

func TestCheckOrderingRules(t *testing.T) {
	e := newTestEngine()

	tests := []struct {
		name       string
		record     RawRecord
		violations int
	}{
		{
			name:       "discharge after admission",
			record:     RawRecord{Row: 2, DataEnt: "10-01-2008", DataAlta: "25-01-2008"},
			violations: 0,
		},
		{
			name:       "same-day discharge rejected",
			record:     RawRecord{Row: 2, DataEnt: "10-01-2008", DataAlta: "10-01-2008"},
			violations: 1,
		},
		{
			name:       "discharge before admission",
			record:     RawRecord{Row: 2, DataEnt: "10-01-2008", DataAlta: "05-01-2008"},
			violations: 1,
		},
		{
			name:       "admission before birth",
			record:     RawRecord{Row: 2, DataEnt: "10-01-2008", DataNasc: "01-01-2010"},
			violations: 1,
		},
		{
			name:       "same-day burn allowed",
			record:     RawRecord{Row: 2, DataEnt: "10-01-2008", DataQueim: "10-01-2008"},
			violations: 0,
		},
		{
			name:       "burn after admission",
			record:     RawRecord{Row: 2, DataEnt: "10-01-2008", DataQueim: "12-01-2008"},
			violations: 1,
		},
		{
			name:       "unparseable reference excluded",
			record:     RawRecord{Row: 2, DataEnt: "10-01-2008", DataAlta: "nan"},
			violations: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			findings := findByKind(e.CheckCrossField([]RawRecord{tt.record}), FindingNotAfterReference)
			assert.Len(t, findings, tt.violations)
		})
	}
}

// CheckAll twice over the same input produces the identical findings list.
func TestCheckAllDeterministic(t *testing.T) {
	e := newTestEngine()
	records := []RawRecord{
		{Row: 2, ID: "814", Processo: "100", Nome: "A", DataEnt: "10-01-2008", Sexo: "F"},
		{Row: 3, ID: "814", Processo: "100", Nome: "", DataEnt: "05-01-2008", Sexo: "X"},
		{Row: 4, ID: "abc", Processo: "200", Nome: "C", DataEnt: "31-13-2020", Sexo: "M"},
	}

	first := e.CheckAll(records)
	second := e.CheckAll(records)
	assert.Equal(t, first, second)
}
