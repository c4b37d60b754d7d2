package exporter

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"burnreg/internal/dataprocessing"
	"burnreg/internal/errors"
)

// reportKindOrder fixes the section order so a rerun over unchanged input
// produces an identical report.
var reportKindOrder = []dataprocessing.FindingKind{
	dataprocessing.FindingEmpty,
	dataprocessing.FindingInvalidFormat,
	dataprocessing.FindingOutOfRange,
	dataprocessing.FindingDuplicate,
	dataprocessing.FindingYearMismatch,
	dataprocessing.FindingSequenceViolation,
	dataprocessing.FindingNotAfterReference,
}

var kindTitles = map[dataprocessing.FindingKind]string{
	dataprocessing.FindingEmpty:             "Empty values",
	dataprocessing.FindingInvalidFormat:     "Invalid formats",
	dataprocessing.FindingOutOfRange:        "Out-of-range values",
	dataprocessing.FindingDuplicate:         "Duplicate groups",
	dataprocessing.FindingYearMismatch:      "Identifier/admission year mismatches",
	dataprocessing.FindingSequenceViolation: "Admission sequence violations",
	dataprocessing.FindingNotAfterReference: "Date ordering violations",
}

// EmitReport renders the findings summary as a plain-text report. Every line
// is derivable from the findings list and the summary, so the report needs no
// access to the source rows.
func (e *Exporter) EmitReport(ctx context.Context, summary dataprocessing.Summary, findings []dataprocessing.Finding) error {
	if e.reportPath == "" {
		return nil
	}

	var b strings.Builder
	e.writeOverview(&b, summary)
	e.writeColumnBreakdown(&b, summary)
	e.writeKindSections(&b, findings)
	e.writeYearSeries(&b, summary)

	if err := os.MkdirAll(filepath.Dir(e.reportPath), 0755); err != nil {
		return errors.NewStorageError("failed to create report directory", err)
	}
	if err := os.WriteFile(e.reportPath, []byte(b.String()), 0644); err != nil {
		return errors.NewStorageError("failed to write findings report", err)
	}

	e.logger.InfoContext(ctx, "findings report written",
		slog.String("path", e.reportPath),
		slog.Int("findings", len(findings)))
	return nil
}

func (e *Exporter) writeOverview(b *strings.Builder, summary dataprocessing.Summary) {
	section(b, "Overview")
	fmt.Fprintf(b, "%-28s %6d\n", "Total rows", summary.TotalRows)
	fmt.Fprintf(b, "%-28s %6d\n", "Valid 3-digit identifiers", summary.Valid3Digit)
	fmt.Fprintf(b, "%-28s %6d\n", "Valid 4-digit identifiers", summary.Valid4Digit)
	fmt.Fprintf(b, "%-28s %6d\n", "Years covered", len(summary.YearSeries))
	fmt.Fprintf(b, "%-28s %6d\n", "Duplicate groups", summary.DuplicateGroups)
	fmt.Fprintf(b, "%-28s %6d\n", "Missing serials", summary.MissingSerials)
	for _, kind := range reportKindOrder {
		if n := summary.ByKind[kind]; n > 0 {
			fmt.Fprintf(b, "%-28s %6d\n", kindTitles[kind], n)
		}
	}
	b.WriteString("\n")
}

func (e *Exporter) writeColumnBreakdown(b *strings.Builder, summary dataprocessing.Summary) {
	if len(summary.ByColumn) == 0 {
		return
	}
	section(b, "Findings by column")

	columns := make([]string, 0, len(summary.ByColumn))
	for col := range summary.ByColumn {
		columns = append(columns, col)
	}
	sort.Strings(columns)
	for _, col := range columns {
		fmt.Fprintf(b, "%-28s %6d\n", col, summary.ByColumn[col])
	}
	b.WriteString("\n")
}

func (e *Exporter) writeKindSections(b *strings.Builder, findings []dataprocessing.Finding) {
	for _, kind := range reportKindOrder {
		var matched []dataprocessing.Finding
		for _, f := range findings {
			if f.Kind == kind {
				matched = append(matched, f)
			}
		}
		if len(matched) == 0 {
			continue
		}

		section(b, kindTitles[kind])
		shown := matched
		if len(shown) > e.previewRows {
			shown = shown[:e.previewRows]
		}
		for _, f := range shown {
			if len(f.Rows) > 0 {
				fmt.Fprintf(b, "rows %s  %s: %s\n", joinRows(f.Rows), f.Column, f.Detail)
			} else {
				fmt.Fprintf(b, "row %d  %s: %s\n", f.Row, f.Column, f.Detail)
			}
		}
		if rest := len(matched) - len(shown); rest > 0 {
			fmt.Fprintf(b, "... and %d more\n", rest)
		}
		b.WriteString("\n")
	}
}

func (e *Exporter) writeYearSeries(b *strings.Builder, summary dataprocessing.Summary) {
	if len(summary.YearSeries) == 0 {
		return
	}
	section(b, "Year series")
	fmt.Fprintf(b, "%-6s %-6s %-12s %s\n", "year", "count", "serials", "missing")
	for _, ys := range summary.YearSeries {
		missing := "none"
		if len(ys.Missing) > 0 {
			missing = joinRows(ys.Missing)
		}
		fmt.Fprintf(b, "%-6d %-6d %02d-%02d        %s\n",
			ys.Year, ys.Count, ys.MinSerial, ys.MaxSerial, missing)
	}
	b.WriteString("\n")
}

func section(b *strings.Builder, title string) {
	b.WriteString(title + "\n")
	b.WriteString(strings.Repeat("-", len(title)) + "\n")
}

func joinRows(rows []int) string {
	parts := make([]string, len(rows))
	for i, r := range rows {
		parts[i] = fmt.Sprintf("%d", r)
	}
	return strings.Join(parts, ", ")
}
