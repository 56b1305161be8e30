package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/vilarso/cropservicebot/internal/listing"
	"github.com/vilarso/cropservicebot/internal/session"
)

// MemoryListings is an in-memory ListingStore with the same ordering and
// ownership semantics as the Postgres one. Used by tests.
type MemoryListings struct {
	mu    sync.Mutex
	items map[int64]listing.Listing
}

func NewMemoryListings() *MemoryListings {
	return &MemoryListings{items: make(map[int64]listing.Listing)}
}

func (s *MemoryListings) Insert(_ context.Context, l *listing.Listing) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[l.ID] = *l
	return nil
}

func (s *MemoryListings) FindByID(_ context.Context, id int64) (*listing.Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &l, nil
}

// sorted returns matching items newest first, ties broken by higher id.
func (s *MemoryListings) sorted(match func(listing.Listing) bool) []listing.Listing {
	var out []listing.Listing
	for _, l := range s.items {
		if match(l) {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

func page(all []listing.Listing, offset, limit int) []listing.Listing {
	if offset >= len(all) {
		return []listing.Listing{}
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end]
}

func (s *MemoryListings) FindByCategory(_ context.Context, category string, offset, limit int) ([]listing.Listing, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	all := s.sorted(func(l listing.Listing) bool { return l.Category == category })
	return page(all, offset, limit), len(all), nil
}

func (s *MemoryListings) FindByOwner(_ context.Context, ownerID int64, offset, limit int) ([]listing.Listing, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	all := s.sorted(func(l listing.Listing) bool { return l.OwnerID == ownerID })
	return page(all, offset, limit), len(all), nil
}

func (s *MemoryListings) CountByOwner(_ context.Context, ownerID int64) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, l := range s.items {
		if l.OwnerID == ownerID {
			n++
		}
	}
	return n, nil
}

func (s *MemoryListings) CountAll(context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items), nil
}

func (s *MemoryListings) UpdateDescription(_ context.Context, id, ownerID int64, text string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.items[id]
	if !ok || l.OwnerID != ownerID {
		return false, nil
	}
	l.Description = text
	s.items[id] = l
	return true, nil
}

func (s *MemoryListings) DeleteOne(_ context.Context, id, ownerID int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.items[id]
	if !ok || l.OwnerID != ownerID {
		return false, nil
	}
	delete(s.items, id)
	return true, nil
}

func (s *MemoryListings) DeleteOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for id, l := range s.items {
		if l.CreatedAt.Before(cutoff) {
			delete(s.items, id)
			n++
		}
	}
	return n, nil
}

// MemorySequences issues ids from process-local counters.
type MemorySequences struct {
	mu     sync.Mutex
	values map[string]int64
}

func NewMemorySequences() *MemorySequences {
	return &MemorySequences{values: make(map[string]int64)}
}

func (s *MemorySequences) Next(_ context.Context, name string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[name]++
	return s.values[name], nil
}

// MemorySessions keeps sessions in a map. Save stores a copy so callers
// can keep mutating their session, same as with the database round-trip.
type MemorySessions struct {
	mu       sync.Mutex
	sessions map[int64]session.Session
}

func NewMemorySessions() *MemorySessions {
	return &MemorySessions{sessions: make(map[int64]session.Session)}
}

func (s *MemorySessions) Get(_ context.Context, userID int64) (*session.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[userID]
	if !ok {
		return nil, ErrNotFound
	}
	return &sess, nil
}

func (s *MemorySessions) Save(_ context.Context, sess *session.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.UserID] = *sess
	return nil
}

func (s *MemorySessions) Delete(_ context.Context, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, userID)
	return nil
}
