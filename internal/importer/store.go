package importer

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ziadkadry99/sitenav/internal/db"
)

// Store persists the import log.
type Store struct {
	db *db.DB
}

// NewStore creates an import log store.
func NewStore(database *db.DB) *Store {
	return &Store{db: database}
}

// Record appends an entry, filling its id and timestamp when unset.
func (s *Store) Record(ctx context.Context, e LogEntry) (*LogEntry, error) {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.Status == "" {
		e.Status = StatusCompleted
	}
	if e.ImportedAt.IsZero() {
		e.ImportedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO import_log (id, source_path, content_path, output_file, status, error, content_hash, imported_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.SourcePath, e.ContentPath, e.OutputFile, string(e.Status), e.Error, e.ContentHash, e.ImportedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting import log entry: %w", err)
	}
	return &e, nil
}

const logColumns = `id, source_path, content_path, output_file, status, error, content_hash, imported_at`

// List returns the most recent entries first. A limit of 0 returns all.
func (s *Store) List(ctx context.Context, limit int) ([]LogEntry, error) {
	query := `SELECT ` + logColumns + ` FROM import_log ORDER BY imported_at DESC, rowid DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing import log: %w", err)
	}
	defer rows.Close()

	var entries []LogEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *e)
	}
	return entries, rows.Err()
}

// Latest returns the newest entry for a source path, nil when it was
// never imported.
func (s *Store) Latest(ctx context.Context, sourcePath string) (*LogEntry, error) {
	return s.first(ctx, `SELECT `+logColumns+` FROM import_log WHERE source_path = ?
		 ORDER BY imported_at DESC, rowid DESC LIMIT 1`, sourcePath)
}

// LastCompleted returns the newest completed entry for a source path,
// nil when it was never imported successfully.
func (s *Store) LastCompleted(ctx context.Context, sourcePath string) (*LogEntry, error) {
	return s.first(ctx, `SELECT `+logColumns+` FROM import_log WHERE source_path = ? AND status = ?
		 ORDER BY imported_at DESC, rowid DESC LIMIT 1`, sourcePath, string(StatusCompleted))
}

func (s *Store) first(ctx context.Context, query string, args ...any) (*LogEntry, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("getting import log entry: %w", err)
	}
	defer rows.Close()
	if !rows.Next() {
		return nil, rows.Err()
	}
	return scanEntry(rows)
}

func scanEntry(rows *sql.Rows) (*LogEntry, error) {
	var e LogEntry
	var status string
	if err := rows.Scan(&e.ID, &e.SourcePath, &e.ContentPath, &e.OutputFile, &status, &e.Error, &e.ContentHash, &e.ImportedAt); err != nil {
		return nil, fmt.Errorf("scanning import log entry: %w", err)
	}
	e.Status = Status(status)
	return &e, nil
}
