// Package store keeps a SQLite snapshot of a loaded dataset so later sessions
// can read survey records and the hospital directory without the CSV sources.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/ravisuresh229/hospital-benchmark-tool/hcahps"
	"github.com/ravisuresh229/hospital-benchmark-tool/source"
)

// ErrEmptySnapshot is returned when the database holds no imported data.
var ErrEmptySnapshot = errors.New("snapshot is empty: run import first")

// Store is a SQLite snapshot database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the snapshot at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path+"?mode=rwc")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	s := &Store{db: db}
	if err := s.createTables(context.Background()); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}
	return s, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createTables(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS survey_records (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		facility_id TEXT NOT NULL,
		state TEXT NOT NULL,
		measure_id TEXT NOT NULL,
		answer_percent REAL
	);

	CREATE INDEX IF NOT EXISTS idx_survey_measure ON survey_records(measure_id);

	CREATE TABLE IF NOT EXISTS hospitals (
		position INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		facility_id TEXT NOT NULL,
		state TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS imports (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		imported_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		record_count INTEGER NOT NULL,
		hospital_count INTEGER NOT NULL
	);
	`
	_, err := s.db.ExecContext(ctx, schema)
	return err
}

// Import replaces the snapshot with ds in a single transaction.
func (s *Store) Import(ctx context.Context, ds *source.Dataset) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin import: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	for _, stmt := range []string{"DELETE FROM survey_records", "DELETE FROM hospitals"} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("clear snapshot: %w", err)
		}
	}

	recStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO survey_records (facility_id, state, measure_id, answer_percent) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer recStmt.Close()
	for _, r := range ds.Records {
		var pct sql.NullFloat64
		if r.AnswerPercent != nil {
			pct = sql.NullFloat64{Float64: *r.AnswerPercent, Valid: true}
		}
		if _, err := recStmt.ExecContext(ctx, r.FacilityID, r.State, r.MeasureID, pct); err != nil {
			return fmt.Errorf("insert survey record: %w", err)
		}
	}

	hospStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO hospitals (position, name, facility_id, state) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer hospStmt.Close()
	for i, h := range ds.Directory.Hospitals() {
		if _, err := hospStmt.ExecContext(ctx, i, h.Name, h.FacilityID, h.State); err != nil {
			return fmt.Errorf("insert hospital: %w", err)
		}
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO imports (record_count, hospital_count) VALUES (?, ?)`,
		len(ds.Records), ds.Directory.Len()); err != nil {
		return fmt.Errorf("record import: %w", err)
	}

	return tx.Commit()
}

// Load reads the snapshot back into a dataset. Records come back in import
// order so aggregation over a snapshot matches aggregation over the source.
func (s *Store) Load(ctx context.Context) (*source.Dataset, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT facility_id, state, measure_id, answer_percent FROM survey_records ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query survey records: %w", err)
	}
	defer rows.Close()

	var records []hcahps.SurveyRecord
	for rows.Next() {
		var (
			r   hcahps.SurveyRecord
			pct sql.NullFloat64
		)
		if err := rows.Scan(&r.FacilityID, &r.State, &r.MeasureID, &pct); err != nil {
			return nil, fmt.Errorf("scan survey record: %w", err)
		}
		if pct.Valid {
			v := pct.Float64
			r.AnswerPercent = &v
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	hrows, err := s.db.QueryContext(ctx, `SELECT name, facility_id, state FROM hospitals ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query hospitals: %w", err)
	}
	defer hrows.Close()

	var hospitals []hcahps.Hospital
	for hrows.Next() {
		var h hcahps.Hospital
		if err := hrows.Scan(&h.Name, &h.FacilityID, &h.State); err != nil {
			return nil, fmt.Errorf("scan hospital: %w", err)
		}
		hospitals = append(hospitals, h)
	}
	if err := hrows.Err(); err != nil {
		return nil, err
	}

	if len(records) == 0 && len(hospitals) == 0 {
		return nil, ErrEmptySnapshot
	}
	return &source.Dataset{Records: records, Directory: hcahps.NewDirectory(hospitals)}, nil
}

// LastImport returns the time of the most recent import.
func (s *Store) LastImport(ctx context.Context) (time.Time, error) {
	var ts sql.NullString
	err := s.db.QueryRowContext(ctx, `SELECT MAX(imported_at) FROM imports`).Scan(&ts)
	if err != nil {
		return time.Time{}, err
	}
	if !ts.Valid {
		return time.Time{}, ErrEmptySnapshot
	}
	for _, layout := range []string{"2006-01-02 15:04:05", time.RFC3339Nano} {
		if t, err := time.Parse(layout, ts.String); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("parse import time %q", ts.String)
}
