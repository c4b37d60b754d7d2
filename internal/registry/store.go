// Package registry persists clean admission records in SQLite and exposes
// ordinary create-read-update-delete semantics keyed by the patient
// identifier. It consumes the pipeline's clean dataset as rows; it applies no
// validation of its own.
package registry

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"burnreg/internal/dataprocessing"
	"burnreg/internal/errors"
)

// ErrNotFound signals that no record exists for the requested identifier.
var ErrNotFound = errors.NewNotFoundError("admission record")

const schema = `
CREATE TABLE IF NOT EXISTS admissions (
	id          TEXT PRIMARY KEY,
	year        INTEGER,
	serial_id   INTEGER,
	processo    TEXT NOT NULL DEFAULT '',
	nome        TEXT NOT NULL DEFAULT '',
	data_ent    TEXT NOT NULL DEFAULT '',
	data_alta   TEXT NOT NULL DEFAULT '',
	destino     TEXT NOT NULL DEFAULT '',
	sexo        TEXT NOT NULL DEFAULT '',
	data_nasc   TEXT NOT NULL DEFAULT '',
	data_queim  TEXT NOT NULL DEFAULT '',
	origem      TEXT NOT NULL DEFAULT '',
	ascq        TEXT NOT NULL DEFAULT '',
	etiologia   TEXT NOT NULL DEFAULT '',
	env_vmi     TEXT NOT NULL DEFAULT '',
	lesao_inal  TEXT NOT NULL DEFAULT '',
	idade       INTEGER,
	dias_queim  INTEGER,
	baux        REAL
);
CREATE INDEX IF NOT EXISTS idx_admissions_sexo ON admissions(sexo);
`

const recordColumns = `id, year, serial_id, processo, nome, data_ent, data_alta,
	destino, sexo, data_nasc, data_queim, origem, ascq, etiologia, env_vmi,
	lesao_inal, idade, dias_queim, baux`

// Store is a SQLite-backed admission registry.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// Open opens (creating if needed) the registry database and ensures the
// schema exists.
func Open(path string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, errors.NewStorageError("failed to create database directory", err)
		}
	}

	dsn := path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, errors.NewStorageError("failed to open registry database", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, errors.NewStorageError("failed to apply registry schema", err)
	}

	return &Store{db: db, logger: logger.With(slog.String("component", "registry"))}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// ImportClean replaces the registry contents with the given clean dataset.
// Rows without an identifier cannot be keyed and are skipped; the import is
// wholesale, matching the pipeline's overwrite-on-emit contract.
func (s *Store) ImportClean(ctx context.Context, records []dataprocessing.CleanRecord) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, errors.NewStorageError("failed to begin import transaction", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM admissions"); err != nil {
		return 0, errors.NewStorageError("failed to clear registry", err)
	}

	stmt, err := tx.PrepareContext(ctx, insertQuery("INSERT OR REPLACE"))
	if err != nil {
		return 0, errors.NewStorageError("failed to prepare import statement", err)
	}
	defer stmt.Close()

	imported := 0
	skipped := 0
	for _, rec := range records {
		if strings.TrimSpace(rec.ID) == "" {
			skipped++
			continue
		}
		if _, err := stmt.ExecContext(ctx, recordArgs(rec)...); err != nil {
			return 0, errors.NewStorageError(fmt.Sprintf("failed to import record %s", rec.ID), err)
		}
		imported++
	}

	if err := tx.Commit(); err != nil {
		return 0, errors.NewStorageError("failed to commit import", err)
	}

	s.logger.InfoContext(ctx, "clean dataset imported",
		slog.Int("imported", imported),
		slog.Int("skipped", skipped))
	return imported, nil
}

// Get retrieves one record by identifier.
func (s *Store) Get(ctx context.Context, id string) (dataprocessing.CleanRecord, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+recordColumns+" FROM admissions WHERE id = ?", id)
	rec, err := scanRecord(row)
	if err == sql.ErrNoRows {
		return dataprocessing.CleanRecord{}, ErrNotFound
	}
	if err != nil {
		return dataprocessing.CleanRecord{}, errors.NewStorageError("failed to read record", err)
	}
	return rec, nil
}

// List returns all records, optionally filtered by sexo, ordered by
// identifier.
func (s *Store) List(ctx context.Context, sexo string) ([]dataprocessing.CleanRecord, error) {
	query := "SELECT " + recordColumns + " FROM admissions"
	args := []any{}
	if sexo != "" {
		query += " WHERE sexo = ?"
		args = append(args, sexo)
	}
	query += " ORDER BY id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.NewStorageError("failed to list records", err)
	}
	defer rows.Close()

	var records []dataprocessing.CleanRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, errors.NewStorageError("failed to scan record", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Create inserts a new record. An existing identifier is a validation error.
func (s *Store) Create(ctx context.Context, rec dataprocessing.CleanRecord) error {
	if strings.TrimSpace(rec.ID) == "" {
		return errors.NewAppValidationError("record identifier must not be empty")
	}
	_, err := s.db.ExecContext(ctx, insertQuery("INSERT"), recordArgs(rec)...)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint") {
			return errors.NewAppValidationError(fmt.Sprintf("record %s already exists", rec.ID))
		}
		return errors.NewStorageError("failed to create record", err)
	}
	return nil
}

// Update replaces an existing record by identifier.
func (s *Store) Update(ctx context.Context, id string, rec dataprocessing.CleanRecord) error {
	rec.ID = id
	res, err := s.db.ExecContext(ctx, `
		UPDATE admissions SET year=?, serial_id=?, processo=?, nome=?, data_ent=?,
			data_alta=?, destino=?, sexo=?, data_nasc=?, data_queim=?, origem=?,
			ascq=?, etiologia=?, env_vmi=?, lesao_inal=?, idade=?, dias_queim=?, baux=?
		WHERE id = ?`,
		rec.Year, rec.SerialID, rec.Processo, rec.Nome, rec.DataEnt,
		rec.DataAlta, rec.Destino, rec.Sexo, rec.DataNasc, rec.DataQueim, rec.Origem,
		rec.ASCQ, rec.Etiologia, rec.EnvVMI, rec.LesaoInal, rec.Idade, rec.DiasQueim, rec.BAUX,
		id)
	if err != nil {
		return errors.NewStorageError("failed to update record", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a record by identifier.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM admissions WHERE id = ?", id)
	if err != nil {
		return errors.NewStorageError("failed to delete record", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func insertQuery(verb string) string {
	return verb + ` INTO admissions (` + recordColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
}

func recordArgs(rec dataprocessing.CleanRecord) []any {
	return []any{
		rec.ID, rec.Year, rec.SerialID, rec.Processo, rec.Nome, rec.DataEnt,
		rec.DataAlta, rec.Destino, rec.Sexo, rec.DataNasc, rec.DataQueim,
		rec.Origem, rec.ASCQ, rec.Etiologia, rec.EnvVMI, rec.LesaoInal,
		rec.Idade, rec.DiasQueim, rec.BAUX,
	}
}

// scanner covers *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (dataprocessing.CleanRecord, error) {
	var rec dataprocessing.CleanRecord
	var year, serial, idade, dias sql.NullInt64
	var baux sql.NullFloat64

	err := row.Scan(
		&rec.ID, &year, &serial, &rec.Processo, &rec.Nome, &rec.DataEnt,
		&rec.DataAlta, &rec.Destino, &rec.Sexo, &rec.DataNasc, &rec.DataQueim,
		&rec.Origem, &rec.ASCQ, &rec.Etiologia, &rec.EnvVMI, &rec.LesaoInal,
		&idade, &dias, &baux,
	)
	if err != nil {
		return dataprocessing.CleanRecord{}, err
	}

	rec.Year = nullableInt(year)
	rec.SerialID = nullableInt(serial)
	rec.Idade = nullableInt(idade)
	rec.DiasQueim = nullableInt(dias)
	if baux.Valid {
		v := baux.Float64
		rec.BAUX = &v
	}
	return rec, nil
}

func nullableInt(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	n := int(v.Int64)
	return &n
}
