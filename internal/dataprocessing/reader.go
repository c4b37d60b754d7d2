package dataprocessing

import (
	"encoding/csv"
	"io"
	"log/slog"
	"os"
	"strings"

	"burnreg/internal/errors"
)

// recognizedColumns is the set of header names the reader maps into RawRecord
// fields. Extra columns in the source are ignored; missing ones read as blank.
var recognizedColumns = []string{
	ColID, ColProcesso, ColNome, ColDataEnt, ColDataAlta, ColDestino,
	ColSexo, ColDataNasc, ColDataQueim, ColOrigem, ColASCQ, ColEtiologia,
	ColEntVMI, ColLesaoInal,
}

// ReadSource loads the registry CSV into RawRecords. This is the one place in
// the pipeline where an error is fatal: a missing file or an unusable header
// means there is no dataset to validate.
func ReadSource(path string, logger *slog.Logger) ([]RawRecord, error) {
	if logger == nil {
		logger = slog.Default()
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, errors.NewStorageError("source dataset unavailable", err)
	}
	defer f.Close()

	records, err := readRows(f)
	if err != nil {
		return nil, err
	}

	logger.Info("source dataset loaded",
		slog.String("path", path),
		slog.Int("rows", len(records)))
	return records, nil
}

func readRows(r io.Reader) ([]RawRecord, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // ragged rows are a data problem, not a load failure

	header, err := cr.Read()
	if err != nil {
		return nil, errors.NewParsingError("source dataset has no readable header", err)
	}

	columnMap := mapHeader(header)
	if len(columnMap) == 0 {
		return nil, errors.NewParsingError("source header contains no recognized columns", nil)
	}

	var records []RawRecord
	row := 1 // header row
	for {
		fields, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.NewParsingError("source dataset is not readable", err)
		}
		row++

		cell := func(col string) string {
			idx, ok := columnMap[col]
			if !ok || idx >= len(fields) {
				return ""
			}
			return fields[idx]
		}

		records = append(records, RawRecord{
			Row:       row,
			ID:        cell(ColID),
			Processo:  cell(ColProcesso),
			Nome:      cell(ColNome),
			DataEnt:   cell(ColDataEnt),
			DataAlta:  cell(ColDataAlta),
			Destino:   cell(ColDestino),
			Sexo:      cell(ColSexo),
			DataNasc:  cell(ColDataNasc),
			DataQueim: cell(ColDataQueim),
			Origem:    cell(ColOrigem),
			ASCQ:      cell(ColASCQ),
			Etiologia: cell(ColEtiologia),
			EntVMI:    cell(ColEntVMI),
			LesaoInal: cell(ColLesaoInal),
		})
	}

	return records, nil
}

// mapHeader maps recognized column names to their positions. The match strips
// a UTF-8 BOM and surrounding whitespace but is otherwise exact.
func mapHeader(header []string) map[string]int {
	columnMap := make(map[string]int)
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\uFEFF"))
		for _, col := range recognizedColumns {
			if name == col {
				if _, seen := columnMap[col]; !seen {
					columnMap[col] = i
				}
			}
		}
	}
	return columnMap
}
