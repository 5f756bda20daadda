// Package sqlite persists audit records in a single local table. The
// deployment is single-process, single-writer; nothing here coordinates
// concurrent writers across instances.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"certifier/internal/audit"
)

const schema = `
CREATE TABLE IF NOT EXISTS audit_log (
	id              INTEGER PRIMARY KEY AUTOINCREMENT,
	timestamp       TEXT    NOT NULL,
	filename        TEXT    NOT NULL,
	total_rows      INTEGER NOT NULL,
	anomalies_found INTEGER NOT NULL,
	risk_value      REAL    NOT NULL,
	user            TEXT    NOT NULL,
	hash_signature  TEXT    NOT NULL
)`

// Store implements audit.Store over a local SQLite file.
type Store struct {
	db *sql.DB
}

// New opens (creating if needed) the database at path and ensures the
// audit_log table exists.
func New(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create audit_log table: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Append inserts one audit record. Records are never updated or deleted.
func (s *Store) Append(ctx context.Context, record audit.Record) error {
	query := `
		INSERT INTO audit_log (timestamp, filename, total_rows, anomalies_found, risk_value, user, hash_signature)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query,
		record.Timestamp,
		record.Filename,
		record.TotalRows,
		record.AnomaliesFound,
		record.RiskValue,
		record.User,
		record.HashSignature,
	)
	if err != nil {
		return fmt.Errorf("insert audit record: %w", err)
	}
	return nil
}

// List returns all audit records, most recent first.
func (s *Store) List(ctx context.Context) ([]audit.Record, error) {
	query := `
		SELECT id, timestamp, filename, total_rows, anomalies_found, risk_value, user, hash_signature
		FROM audit_log
		ORDER BY id DESC
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query audit records: %w", err)
	}
	defer rows.Close()

	var records []audit.Record
	for rows.Next() {
		var record audit.Record
		err := rows.Scan(
			&record.ID,
			&record.Timestamp,
			&record.Filename,
			&record.TotalRows,
			&record.AnomaliesFound,
			&record.RiskValue,
			&record.User,
			&record.HashSignature,
		)
		if err != nil {
			return nil, fmt.Errorf("scan audit record: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit records: %w", err)
	}
	return records, nil
}
