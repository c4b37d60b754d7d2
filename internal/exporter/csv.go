// Package exporter writes the pipeline's outputs: the clean dataset CSV and
// the human-readable findings report. It implements operations.Emitter.
package exporter

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"burnreg/internal/dataprocessing"
	"burnreg/internal/errors"
)

// cleanHeader is the output column order. ent_VMI is renamed to env_VMI on
// the way out, and the three derived columns are appended last.
var cleanHeader = []string{
	"ID", "year", "serial_id", "processo", "nome", "data_ent", "data_alta",
	"destino", "sexo", "data_nasc", "data_queim", "origem", "ASCQ",
	"etiologia", "env_VMI", "lesao_inal", "idade", "dias_queim", "BAUX",
}

// backupSuffixLayout is the timestamp appended to a displaced output file.
const backupSuffixLayout = "20060102_150405"

// Exporter writes clean datasets and findings reports to configured paths.
// An empty path disables that output, which lets the quality CLI emit a
// report without touching the clean dataset.
type Exporter struct {
	logger      *slog.Logger
	cleanPath   string
	reportPath  string
	previewRows int
	now         func() time.Time
}

// New creates an exporter. previewRows bounds how many offending rows each
// report section lists before truncating.
func New(logger *slog.Logger, cleanPath, reportPath string, previewRows int) *Exporter {
	if logger == nil {
		logger = slog.Default()
	}
	if previewRows <= 0 {
		previewRows = 10
	}
	return &Exporter{
		logger:      logger.With(slog.String("component", "exporter")),
		cleanPath:   cleanPath,
		reportPath:  reportPath,
		previewRows: previewRows,
		now:         time.Now,
	}
}

// EmitClean writes the clean dataset. A previously existing output file is
// renamed aside with a timestamp suffix rather than overwritten silently.
func (e *Exporter) EmitClean(ctx context.Context, records []dataprocessing.CleanRecord) error {
	if e.cleanPath == "" {
		return nil
	}

	if err := e.backupAside(ctx, e.cleanPath); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(e.cleanPath), 0755); err != nil {
		return errors.NewStorageError("failed to create output directory", err)
	}

	file, err := os.Create(e.cleanPath)
	if err != nil {
		return errors.NewStorageError("failed to create clean dataset file", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write(cleanHeader); err != nil {
		return errors.NewStorageError("failed to write clean dataset header", err)
	}

	for i, rec := range records {
		if err := writer.Write(cleanRow(rec)); err != nil {
			return errors.NewStorageError(fmt.Sprintf("failed to write clean row %d", i), err)
		}
	}
	if err := writer.Error(); err != nil {
		return errors.NewStorageError("failed to flush clean dataset", err)
	}

	e.logger.InfoContext(ctx, "clean dataset written",
		slog.String("path", e.cleanPath),
		slog.Int("rows", len(records)))
	return nil
}

// cleanRow serializes one clean record. Absent derived values become empty
// cells; the severity score keeps one decimal place.
func cleanRow(rec dataprocessing.CleanRecord) []string {
	return []string{
		rec.ID,
		intCell(rec.Year),
		intCell(rec.SerialID),
		rec.Processo,
		rec.Nome,
		rec.DataEnt,
		rec.DataAlta,
		rec.Destino,
		rec.Sexo,
		rec.DataNasc,
		rec.DataQueim,
		rec.Origem,
		rec.ASCQ,
		rec.Etiologia,
		rec.EnvVMI,
		rec.LesaoInal,
		intCell(rec.Idade),
		intCell(rec.DiasQueim),
		floatCell(rec.BAUX),
	}
}

func intCell(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func floatCell(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', 1, 64)
}

// backupAside renames an existing file to <stem>_backup_<timestamp><ext>.
func (e *Exporter) backupAside(ctx context.Context, path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}

	ext := filepath.Ext(path)
	stem := strings.TrimSuffix(path, ext)
	backupPath := fmt.Sprintf("%s_backup_%s%s", stem, e.now().Format(backupSuffixLayout), ext)

	if err := os.Rename(path, backupPath); err != nil {
		return errors.NewStorageError("failed to back up previous output", err)
	}

	e.logger.InfoContext(ctx, "previous output backed up",
		slog.String("path", path),
		slog.String("backup", backupPath))
	return nil
}
