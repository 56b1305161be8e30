package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/vilarso/cropservicebot/internal/listing"
)

// Listings is the Postgres-backed ListingStore.
type Listings struct {
	db *sqlx.DB
}

// NewListings wraps an open database handle.
func NewListings(db *sqlx.DB) *Listings {
	return &Listings{db: db}
}

func (s *Listings) Insert(ctx context.Context, l *listing.Listing) error {
	_, err := s.db.NamedExecContext(ctx, `
		INSERT INTO listings
			(id, owner_id, owner_handle, kind, category, description, contact, created_at)
		VALUES
			(:id, :owner_id, :owner_handle, :kind, :category, :description, :contact, :created_at)
	`, l)
	if err != nil {
		return fmt.Errorf("insert listing: %w", err)
	}
	return nil
}

func (s *Listings) FindByID(ctx context.Context, id int64) (*listing.Listing, error) {
	var l listing.Listing
	err := s.db.GetContext(ctx, &l, `SELECT * FROM listings WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find listing %d: %w", id, err)
	}
	return &l, nil
}

func (s *Listings) FindByCategory(ctx context.Context, category string, offset, limit int) ([]listing.Listing, int, error) {
	var total int
	if err := s.db.GetContext(ctx, &total,
		`SELECT COUNT(*) FROM listings WHERE category = $1`, category); err != nil {
		return nil, 0, fmt.Errorf("count by category: %w", err)
	}
	items := []listing.Listing{}
	err := s.db.SelectContext(ctx, &items, `
		SELECT * FROM listings
		WHERE category = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`, category, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("select by category: %w", err)
	}
	return items, total, nil
}

func (s *Listings) FindByOwner(ctx context.Context, ownerID int64, offset, limit int) ([]listing.Listing, int, error) {
	total, err := s.CountByOwner(ctx, ownerID)
	if err != nil {
		return nil, 0, err
	}
	items := []listing.Listing{}
	err = s.db.SelectContext(ctx, &items, `
		SELECT * FROM listings
		WHERE owner_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`, ownerID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("select by owner: %w", err)
	}
	return items, total, nil
}

func (s *Listings) CountByOwner(ctx context.Context, ownerID int64) (int, error) {
	var total int
	err := s.db.GetContext(ctx, &total,
		`SELECT COUNT(*) FROM listings WHERE owner_id = $1`, ownerID)
	if err != nil {
		return 0, fmt.Errorf("count by owner: %w", err)
	}
	return total, nil
}

func (s *Listings) CountAll(ctx context.Context) (int, error) {
	var total int
	if err := s.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM listings`); err != nil {
		return 0, fmt.Errorf("count listings: %w", err)
	}
	return total, nil
}

func (s *Listings) UpdateDescription(ctx context.Context, id, ownerID int64, text string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE listings SET description = $1 WHERE id = $2 AND owner_id = $3
	`, text, id, ownerID)
	if err != nil {
		return false, fmt.Errorf("update description: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("update description: %w", err)
	}
	return n > 0, nil
}

func (s *Listings) DeleteOne(ctx context.Context, id, ownerID int64) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM listings WHERE id = $1 AND owner_id = $2
	`, id, ownerID)
	if err != nil {
		return false, fmt.Errorf("delete listing: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete listing: %w", err)
	}
	return n > 0, nil
}

func (s *Listings) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM listings WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("delete expired: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete expired: %w", err)
	}
	return n, nil
}
