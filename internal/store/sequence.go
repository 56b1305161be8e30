package store

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Sequences issues ids from the counters table. The upsert increments and
// returns in one statement, so concurrent callers always get distinct values.
type Sequences struct {
	db *sqlx.DB
}

// NewSequences wraps an open database handle.
func NewSequences(db *sqlx.DB) *Sequences {
	return &Sequences{db: db}
}

func (s *Sequences) Next(ctx context.Context, name string) (int64, error) {
	var value int64
	err := s.db.GetContext(ctx, &value, `
		INSERT INTO counters (name, value) VALUES ($1, 1)
		ON CONFLICT (name) DO UPDATE SET value = counters.value + 1
		RETURNING value
	`, name)
	if err != nil {
		return 0, fmt.Errorf("next %s id: %w", name, err)
	}
	return value, nil
}
