// Package recent keeps a visitor's most recent search terms.
package recent

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ziadkadry99/sitenav/internal/logging"
	"github.com/ziadkadry99/sitenav/internal/storage"
)

const (
	// Key is the storage key holding the JSON array of terms.
	Key = "coveo-recent-queries"
	// Max is the number of terms kept.
	Max = 3
)

// Store reads and writes the recent-search list of one visitor.
type Store struct {
	kv storage.KV
}

// New returns a Store over a visitor's storage.
func New(kv storage.KV) *Store {
	return &Store{kv: kv}
}

// Get returns the stored terms, most recent first. Absent, unreadable or
// corrupt values yield an empty list.
func (s *Store) Get(ctx context.Context) []string {
	raw, ok, err := s.kv.Get(ctx, Key)
	if err != nil {
		logging.FromContext(ctx).Error(err, "reading recent searches")
		return []string{}
	}
	if !ok {
		return []string{}
	}
	var terms []string
	if err := json.Unmarshal([]byte(raw), &terms); err != nil {
		logging.FromContext(ctx).V(1).Info("discarding corrupt recent searches", "error", err.Error())
		return []string{}
	}
	if terms == nil {
		return []string{}
	}
	return terms
}

// Record moves term to the front of the list, dropping any earlier
// occurrence and anything past Max.
func (s *Store) Record(ctx context.Context, term string) error {
	terms := []string{term}
	for _, t := range s.Get(ctx) {
		if t != term {
			terms = append(terms, t)
		}
	}
	if len(terms) > Max {
		terms = terms[:Max]
	}

	data, err := json.Marshal(terms)
	if err != nil {
		return fmt.Errorf("encoding recent searches: %w", err)
	}
	if err := s.kv.Set(ctx, Key, string(data)); err != nil {
		return fmt.Errorf("saving recent searches: %w", err)
	}
	return nil
}

// Clear removes the stored list.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.kv.Remove(ctx, Key); err != nil {
		return fmt.Errorf("clearing recent searches: %w", err)
	}
	return nil
}
