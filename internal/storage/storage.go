// Package storage persists per-visitor key/value pairs. It stands in for
// browser local storage: values are opaque strings, keys are namespaced by
// the anonymous visitor identifier.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/ziadkadry99/sitenav/internal/db"
)

// Store is a visitor-partitioned key/value store.
type Store interface {
	Get(ctx context.Context, visitorID, key string) (value string, ok bool, err error)
	Set(ctx context.Context, visitorID, key, value string) error
	Remove(ctx context.Context, visitorID, key string) error
}

// KV is the view of a Store for a single visitor.
type KV interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// SQL is a Store backed by the visitor_storage table.
type SQL struct {
	db *db.DB
}

// NewSQL creates a Store on top of an opened database.
func NewSQL(database *db.DB) *SQL {
	return &SQL{db: database}
}

func (s *SQL) Get(ctx context.Context, visitorID, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM visitor_storage WHERE visitor_id = ? AND key = ?`,
		visitorID, key,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("reading %s: %w", key, err)
	}
	return value, true, nil
}

func (s *SQL) Set(ctx context.Context, visitorID, key, value string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO visitor_storage (visitor_id, key, value, updated_at)
		 VALUES (?, ?, ?, datetime('now'))
		 ON CONFLICT(visitor_id, key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		visitorID, key, value,
	)
	if err != nil {
		return fmt.Errorf("writing %s: %w", key, err)
	}
	return nil
}

func (s *SQL) Remove(ctx context.Context, visitorID, key string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM visitor_storage WHERE visitor_id = ? AND key = ?`,
		visitorID, key,
	)
	if err != nil {
		return fmt.Errorf("removing %s: %w", key, err)
	}
	return nil
}

// Memory is an in-process Store for tests and the stdio tool server.
type Memory struct {
	mu   sync.RWMutex
	data map[string]map[string]string
}

// NewMemory returns an empty in-memory Store.
func NewMemory() *Memory {
	return &Memory{data: make(map[string]map[string]string)}
}

func (m *Memory) Get(_ context.Context, visitorID, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[visitorID][key]
	return v, ok, nil
}

func (m *Memory) Set(_ context.Context, visitorID, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data[visitorID] == nil {
		m.data[visitorID] = make(map[string]string)
	}
	m.data[visitorID][key] = value
	return nil
}

func (m *Memory) Remove(_ context.Context, visitorID, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data[visitorID], key)
	return nil
}

// Local is one visitor's slice of a Store.
type Local struct {
	store     Store
	visitorID string
}

// Scoped returns the KV view of store for visitorID.
func Scoped(store Store, visitorID string) Local {
	return Local{store: store, visitorID: visitorID}
}

func (l Local) Get(ctx context.Context, key string) (string, bool, error) {
	return l.store.Get(ctx, l.visitorID, key)
}

func (l Local) Set(ctx context.Context, key, value string) error {
	return l.store.Set(ctx, l.visitorID, key, value)
}

func (l Local) Remove(ctx context.Context, key string) error {
	return l.store.Remove(ctx, l.visitorID, key)
}
