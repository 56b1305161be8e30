// Package store persists listings, sessions, and id sequences.
//
// The Postgres implementations are the production backends; the Memory*
// types back tests with the same semantics (ordering, counts, ownership
// checks) so flow tests run without a database.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/vilarso/cropservicebot/internal/listing"
	"github.com/vilarso/cropservicebot/internal/session"
)

// ErrNotFound is returned when a lookup matches nothing.
var ErrNotFound = errors.New("not found")

// SeqListings names the sequence that issues listing ids.
const SeqListings = "listings"

// ListingStore is the persistence interface for classified ads.
// Paged queries return the items of the requested window plus the total
// match count, so callers never page in memory.
type ListingStore interface {
	Insert(ctx context.Context, l *listing.Listing) error
	FindByID(ctx context.Context, id int64) (*listing.Listing, error)
	FindByCategory(ctx context.Context, category string, offset, limit int) ([]listing.Listing, int, error)
	FindByOwner(ctx context.Context, ownerID int64, offset, limit int) ([]listing.Listing, int, error)
	CountByOwner(ctx context.Context, ownerID int64) (int, error)
	CountAll(ctx context.Context) (int, error)
	// UpdateDescription rewrites the description of the owner's listing.
	// It reports false when no such listing exists anymore.
	UpdateDescription(ctx context.Context, id, ownerID int64, text string) (bool, error)
	// DeleteOne removes the owner's listing and reports whether a row went away.
	DeleteOne(ctx context.Context, id, ownerID int64) (bool, error)
	// DeleteOlderThan removes listings created before the cutoff and returns the count.
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// SequenceStore issues monotonically increasing ids per named sequence.
type SequenceStore interface {
	Next(ctx context.Context, name string) (int64, error)
}

// SessionStore persists per-user conversation state.
type SessionStore interface {
	// Get returns the user's session or ErrNotFound.
	Get(ctx context.Context, userID int64) (*session.Session, error)
	Save(ctx context.Context, s *session.Session) error
	Delete(ctx context.Context, userID int64) error
}
