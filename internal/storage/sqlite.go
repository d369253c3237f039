package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

type SQLiteStore struct {
	db *sql.DB
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore creates or opens a SQLite database.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		return nil, err
	}

	s := &SQLiteStore{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to init schema: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) initSchema() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS units (
			path TEXT PRIMARY KEY,
			content_hash TEXT NOT NULL,
			printed TEXT,
			warnings JSON,
			status TEXT NOT NULL,
			error TEXT,
			updated_at INTEGER
		);`,
		`CREATE INDEX IF NOT EXISTS idx_units_status ON units(status);`,
	}

	for _, q := range queries {
		if _, err := s.db.Exec(q); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteStore) SaveUnit(ctx context.Context, r *Record) error {
	warnings, err := json.Marshal(r.Warnings)
	if err != nil {
		return fmt.Errorf("failed to encode warnings: %w", err)
	}
	if r.UpdatedAt.IsZero() {
		r.UpdatedAt = time.Now()
	}
	printed := r.Printed
	if r.Status == StatusFailed {
		printed = ""
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO units (path, content_hash, printed, warnings, status, error, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			content_hash=excluded.content_hash,
			printed=excluded.printed,
			warnings=excluded.warnings,
			status=excluded.status,
			error=excluded.error,
			updated_at=excluded.updated_at
	`, r.Path, r.ContentHash, printed, warnings, string(r.Status), r.Error, r.UpdatedAt.UnixNano())
	if err != nil {
		return fmt.Errorf("failed to save unit %s: %w", r.Path, err)
	}
	return nil
}

const selectUnits = "SELECT path, content_hash, printed, warnings, status, error, updated_at FROM units"

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (*Record, error) {
	var r Record
	var printed, errText sql.NullString
	var warnings []byte
	var status string
	var updated int64
	if err := row.Scan(&r.Path, &r.ContentHash, &printed, &warnings, &status, &errText, &updated); err != nil {
		return nil, err
	}
	r.Printed = printed.String
	r.Error = errText.String
	r.Status = Status(status)
	r.UpdatedAt = time.Unix(0, updated)
	if len(warnings) > 0 {
		if err := json.Unmarshal(warnings, &r.Warnings); err != nil {
			return nil, fmt.Errorf("failed to decode warnings of %s: %w", r.Path, err)
		}
	}
	return &r, nil
}

func (s *SQLiteStore) GetUnit(ctx context.Context, path string) (*Record, error) {
	r, err := scanRecord(s.db.QueryRowContext(ctx, selectUnits+" WHERE path = ?", path))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load unit %s: %w", path, err)
	}
	return r, nil
}

func (s *SQLiteStore) IsFresh(ctx context.Context, path, hash string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM units WHERE path = ? AND content_hash = ? AND status = ?",
		path, hash, string(StatusConverted)).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("failed to check unit %s: %w", path, err)
	}
	return n > 0, nil
}

func (s *SQLiteStore) ListUnits(ctx context.Context) ([]*Record, error) {
	rows, err := s.db.QueryContext(ctx, selectUnits+" ORDER BY path")
	if err != nil {
		return nil, fmt.Errorf("failed to query units: %w", err)
	}
	defer rows.Close()

	var out []*Record
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan unit: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) DeleteUnits(ctx context.Context, paths []string) error {
	if len(paths) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, "DELETE FROM units WHERE path = ?")
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, p := range paths {
		if _, err := stmt.ExecContext(ctx, p); err != nil {
			return err
		}
	}

	return tx.Commit()
}
