package dataprocessing

import (
	"fmt"
	"log/slog"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

// CheckKind tags one entry in a column's check chain. The engine interprets
// the chain in order; the first failing check stops the chain for that row so
// later checks never see a value that already failed validation.
type CheckKind string

const (
	// CheckEmpty flags blank or null-marker values. When present it always
	// runs first; a blank value skips every other check for that row/column.
	CheckEmpty CheckKind = "empty"
	// CheckFormat matches the value against a column-specific pattern.
	CheckFormat CheckKind = "format"
	// CheckDate requires the value to parse at least in fallback mode.
	CheckDate CheckKind = "date"
	// CheckYearWindow decodes the identifier and requires its year to fall
	// inside the representable window [1900, current year].
	CheckYearWindow CheckKind = "year_window"
	// CheckRange compares a numeric value against a closed interval.
	CheckRange CheckKind = "range"
	// CheckCategorical requires the value to match a configured expected set,
	// case-insensitively. An empty set disables the check.
	CheckCategorical CheckKind = "categorical"
)

// Check is one tagged check in a column chain.
type Check struct {
	Kind    CheckKind
	Pattern *regexp.Regexp // CheckFormat
	Min     float64        // CheckRange
	Max     float64        // CheckRange
	Allowed []string       // CheckCategorical
}

// ColumnSpec declares the check chain for one source column.
type ColumnSpec struct {
	Column          string
	Checks          []Check
	TrackDuplicates bool
}

// OrderRule declares an ordering constraint between two date columns: the
// value in Column is expected to come after the one in Reference. Strict
// rejects equal dates as well.
type OrderRule struct {
	Column    string
	Reference string
	Strict    bool
}

// CategoricalSets holds the externally configured expected-value sets. A nil
// or empty slice disables the corresponding categorical check rather than
// rejecting every value.
type CategoricalSets struct {
	Sexo      []string
	Destino   []string
	Origem    []string
	Etiologia []string
	EntVMI    []string
	LesaoInal []string
}

var (
	identifierFormat = regexp.MustCompile(`^\d{3,4}$`)
	integerFormat    = regexp.MustCompile(`^\d+$`)
	decimalFormat    = regexp.MustCompile(`^\d+([.,]\d+)?$`)
)

// DefaultColumns returns the registry's per-column check chains.
func DefaultColumns(sets CategoricalSets) []ColumnSpec {
	return []ColumnSpec{
		{
			Column: ColID,
			Checks: []Check{
				{Kind: CheckEmpty},
				{Kind: CheckFormat, Pattern: identifierFormat},
				{Kind: CheckYearWindow},
			},
			TrackDuplicates: true,
		},
		{
			Column: ColProcesso,
			Checks: []Check{
				{Kind: CheckEmpty},
				{Kind: CheckFormat, Pattern: integerFormat},
			},
			TrackDuplicates: true,
		},
		{
			Column: ColNome,
			Checks: []Check{{Kind: CheckEmpty}},
		},
		{
			Column: ColDataEnt,
			Checks: []Check{{Kind: CheckEmpty}, {Kind: CheckDate}},
		},
		{
			Column: ColDataAlta,
			Checks: []Check{{Kind: CheckDate}},
		},
		{
			Column: ColDataNasc,
			Checks: []Check{{Kind: CheckDate}},
		},
		{
			Column: ColDataQueim,
			Checks: []Check{{Kind: CheckDate}},
		},
		{
			Column: ColSexo,
			Checks: []Check{
				{Kind: CheckEmpty},
				{Kind: CheckCategorical, Allowed: sets.Sexo},
			},
		},
		{
			Column: ColDestino,
			Checks: []Check{{Kind: CheckCategorical, Allowed: sets.Destino}},
		},
		{
			Column: ColOrigem,
			Checks: []Check{{Kind: CheckCategorical, Allowed: sets.Origem}},
		},
		{
			Column: ColASCQ,
			Checks: []Check{
				{Kind: CheckFormat, Pattern: decimalFormat},
				{Kind: CheckRange, Min: 1, Max: 100},
			},
		},
		{
			Column: ColEtiologia,
			Checks: []Check{{Kind: CheckCategorical, Allowed: sets.Etiologia}},
		},
		{
			Column: ColEntVMI,
			Checks: []Check{{Kind: CheckCategorical, Allowed: sets.EntVMI}},
		},
		{
			Column: ColLesaoInal,
			Checks: []Check{{Kind: CheckCategorical, Allowed: sets.LesaoInal}},
		},
	}
}

// DefaultOrderRules returns the registry's date ordering constraints.
// Discharge must come strictly after admission; same-day burn and day-of-birth
// admissions are legal, so the other two rules allow equality.
func DefaultOrderRules() []OrderRule {
	return []OrderRule{
		{Column: ColDataAlta, Reference: ColDataEnt, Strict: true},
		{Column: ColDataEnt, Reference: ColDataNasc},
		{Column: ColDataEnt, Reference: ColDataQueim},
	}
}

// Engine runs declared check chains over all rows and emits findings. It never
// fails fast: every row of every column is checked regardless of earlier
// failures, and the findings list is the complete account of one pass.
type Engine struct {
	logger  *slog.Logger
	columns []ColumnSpec
	orders  []OrderRule
	now     func() time.Time
}

// NewEngine creates a rule engine over the given column chains and ordering
// rules.
func NewEngine(logger *slog.Logger, columns []ColumnSpec, orders []OrderRule) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		logger:  logger,
		columns: columns,
		orders:  orders,
		now:     time.Now,
	}
}

// Columns exposes the declared column specs so callers can drive per-column
// progress.
func (e *Engine) Columns() []ColumnSpec {
	return e.columns
}

// CheckAll runs every column chain, duplicate grouping and cross-field rule,
// returning the full findings list.
func (e *Engine) CheckAll(records []RawRecord) []Finding {
	var findings []Finding
	for _, spec := range e.columns {
		findings = append(findings, e.CheckColumn(spec, records)...)
	}
	findings = append(findings, e.CheckCrossField(records)...)

	e.logger.Debug("validation pass complete",
		slog.Int("rows", len(records)),
		slog.Int("findings", len(findings)))
	return findings
}

// CheckColumn runs one column's chain over all rows, then its duplicate-group
// check when declared.
func (e *Engine) CheckColumn(spec ColumnSpec, records []RawRecord) []Finding {
	var findings []Finding

	hasEmpty := false
	for _, c := range spec.Checks {
		if c.Kind == CheckEmpty {
			hasEmpty = true
		}
	}

	for _, rec := range records {
		value := strings.TrimSpace(rec.Field(spec.Column))
		if nullMarkers[value] {
			if hasEmpty {
				findings = append(findings, Finding{
					Row:    rec.Row,
					Column: spec.Column,
					Kind:   FindingEmpty,
					Detail: "value is empty",
				})
			}
			// A blank value cannot meaningfully fail format or range checks.
			continue
		}

		if f := e.runChain(spec, rec.Row, value); f != nil {
			findings = append(findings, *f)
		}
	}

	if spec.TrackDuplicates {
		findings = append(findings, e.checkDuplicates(spec.Column, records)...)
	}

	return findings
}

// runChain interprets the non-empty checks for one value. The first failure
// wins: a format failure suppresses the range check because the value never
// validated as a number in the first place.
func (e *Engine) runChain(spec ColumnSpec, row int, value string) *Finding {
	for _, c := range spec.Checks {
		switch c.Kind {
		case CheckEmpty:
			// handled by the caller

		case CheckFormat:
			if !c.Pattern.MatchString(value) {
				return &Finding{
					Row:    row,
					Column: spec.Column,
					Kind:   FindingInvalidFormat,
					Detail: fmt.Sprintf("value %q does not match the expected format", value),
				}
			}

		case CheckDate:
			if !ParseDate(value).Valid() {
				return &Finding{
					Row:    row,
					Column: spec.Column,
					Kind:   FindingInvalidFormat,
					Detail: fmt.Sprintf("value %q is not a parseable date", value),
				}
			}

		case CheckYearWindow:
			dec, err := DecodeIdentifier(value)
			if err != nil {
				return &Finding{
					Row:    row,
					Column: spec.Column,
					Kind:   FindingInvalidFormat,
					Detail: fmt.Sprintf("identifier %q is not 3 or 4 digits", value),
				}
			}
			if maxYear := e.now().Year(); dec.Year < 1900 || dec.Year > maxYear {
				return &Finding{
					Row:    row,
					Column: spec.Column,
					Kind:   FindingOutOfRange,
					Detail: fmt.Sprintf("identifier year %d outside [1900, %d]", dec.Year, maxYear),
				}
			}

		case CheckRange:
			v, err := parseDecimal(value)
			if err != nil {
				return &Finding{
					Row:    row,
					Column: spec.Column,
					Kind:   FindingInvalidFormat,
					Detail: fmt.Sprintf("value %q is not numeric", value),
				}
			}
			if v < c.Min || v > c.Max {
				return &Finding{
					Row:    row,
					Column: spec.Column,
					Kind:   FindingOutOfRange,
					Detail: fmt.Sprintf("value %s outside [%g, %g]", value, c.Min, c.Max),
				}
			}

		case CheckCategorical:
			if len(c.Allowed) == 0 {
				continue // no configured set disables the check
			}
			if !matchesSet(value, c.Allowed) {
				return &Finding{
					Row:    row,
					Column: spec.Column,
					Kind:   FindingOutOfRange,
					Detail: fmt.Sprintf("value %q not in expected set %v", value, c.Allowed),
				}
			}
		}
	}
	return nil
}

// checkDuplicates groups rows by trimmed value and reports each group of size
// greater than one as a single finding carrying every member row. Duplicates
// are reported, not rejected: the registry legitimately repeats values for
// readmissions.
func (e *Engine) checkDuplicates(column string, records []RawRecord) []Finding {
	groups := make(map[string][]int)
	for _, rec := range records {
		value := strings.TrimSpace(rec.Field(column))
		if nullMarkers[value] {
			continue
		}
		groups[value] = append(groups[value], rec.Row)
	}

	values := make([]string, 0, len(groups))
	for v, rows := range groups {
		if len(rows) > 1 {
			values = append(values, v)
		}
	}
	sort.Strings(values)

	findings := make([]Finding, 0, len(values))
	for _, v := range values {
		rows := groups[v]
		findings = append(findings, Finding{
			Row:    rows[0],
			Column: column,
			Kind:   FindingDuplicate,
			Detail: fmt.Sprintf("value %q appears %d times", v, len(rows)),
			Rows:   rows,
		})
	}
	return findings
}

// CheckCrossField evaluates the rules that relate columns to each other:
// identifier/admission year consistency, sequence monotonicity and the date
// ordering constraints. Each rule only considers rows whose underlying values
// are individually valid; a row that failed its own column checks is excluded
// here, not flagged again.
func (e *Engine) CheckCrossField(records []RawRecord) []Finding {
	var findings []Finding
	findings = append(findings, e.checkYearConsistency(records)...)
	findings = append(findings, e.checkSequence(records)...)
	for _, rule := range e.orders {
		findings = append(findings, e.checkOrdering(rule, records)...)
	}
	return findings
}

func (e *Engine) checkYearConsistency(records []RawRecord) []Finding {
	var findings []Finding
	for _, rec := range records {
		dec, err := DecodeIdentifier(strings.TrimSpace(rec.ID))
		if err != nil {
			continue
		}
		adm := ParseDate(rec.DataEnt)
		if !adm.Valid() {
			continue
		}
		if adm.Time.Year() != dec.Year {
			findings = append(findings, Finding{
				Row:    rec.Row,
				Column: ColDataEnt,
				Kind:   FindingYearMismatch,
				Detail: fmt.Sprintf("admission year %d does not match identifier year %d (ID %s)",
					adm.Time.Year(), dec.Year, strings.TrimSpace(rec.ID)),
			})
		}
	}
	return findings
}

// checkSequence walks rows in ascending numeric identifier order and requires
// the running maximum admission date never to decrease. The accumulator is
// threaded strictly in that order; rows with an unparseable identifier or
// admission date are excluded from the walk rather than flagged.
func (e *Engine) checkSequence(records []RawRecord) []Finding {
	type entry struct {
		row   int
		id    string
		numID int
		date  time.Time
	}

	var entries []entry
	for _, rec := range records {
		id := strings.TrimSpace(rec.ID)
		if !identifierFormat.MatchString(id) {
			continue
		}
		adm := ParseDate(rec.DataEnt)
		if !adm.Valid() {
			continue
		}
		numID, _ := strconv.Atoi(id)
		entries = append(entries, entry{row: rec.Row, id: id, numID: numID, date: adm.Time})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].numID < entries[j].numID
	})

	var findings []Finding
	var maxEntry entry
	for i, cur := range entries {
		if i == 0 {
			maxEntry = cur
			continue
		}
		if cur.date.Before(maxEntry.date) {
			findings = append(findings, Finding{
				Row:    cur.row,
				Column: ColDataEnt,
				Kind:   FindingSequenceViolation,
				Detail: fmt.Sprintf("admission %s (ID %s) precedes %s set by ID %s",
					cur.date.Format(canonicalDateLayout), cur.id,
					maxEntry.date.Format(canonicalDateLayout), maxEntry.id),
				Rows: []int{cur.row, maxEntry.row},
			})
			continue
		}
		if cur.date.After(maxEntry.date) {
			maxEntry = cur
		}
	}
	return findings
}

func (e *Engine) checkOrdering(rule OrderRule, records []RawRecord) []Finding {
	var findings []Finding
	for _, rec := range records {
		later := ParseDate(rec.Field(rule.Column))
		ref := ParseDate(rec.Field(rule.Reference))
		if !later.Valid() || !ref.Valid() {
			continue
		}

		violated := later.Time.Before(ref.Time)
		if rule.Strict {
			violated = !later.Time.After(ref.Time)
		}
		if violated {
			findings = append(findings, Finding{
				Row:    rec.Row,
				Column: rule.Column,
				Kind:   FindingNotAfterReference,
				Detail: fmt.Sprintf("%s %s is not after %s %s",
					rule.Column, later.Time.Format(canonicalDateLayout),
					rule.Reference, ref.Time.Format(canonicalDateLayout)),
			})
		}
	}
	return findings
}

// matchesSet reports whether value matches one of the expected values,
// ignoring case and surrounding whitespace.
func matchesSet(value string, allowed []string) bool {
	for _, a := range allowed {
		if strings.EqualFold(value, strings.TrimSpace(a)) {
			return true
		}
	}
	return false
}

// parseDecimal parses a numeric cell, accepting both decimal comma and point.
func parseDecimal(value string) (float64, error) {
	return strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(value), ",", "."), 64)
}
