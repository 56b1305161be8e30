package store

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vilarso/cropservicebot/internal/listing"
	"github.com/vilarso/cropservicebot/internal/session"
)

func seedListings(t *testing.T, s *MemoryListings, n int, category string, ownerID int64) {
	t.Helper()
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		err := s.Insert(context.Background(), &listing.Listing{
			ID:          int64(i + 1),
			OwnerID:     ownerID,
			Kind:        listing.KindJobOffer,
			Category:    category,
			Description: fmt.Sprintf("listing %d", i+1),
			CreatedAt:   base.Add(time.Duration(i) * time.Minute),
		})
		require.NoError(t, err)
	}
}

func TestMemoryListingsPaging(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryListings()
	seedListings(t, s, 12, "Other", 7)

	// Newest first, so the first page starts at id 12.
	items, total, err := s.FindByCategory(ctx, "Other", 0, 5)
	require.NoError(t, err)
	assert.Equal(t, 12, total)
	require.Len(t, items, 5)
	assert.Equal(t, int64(12), items[0].ID)
	assert.Equal(t, int64(8), items[4].ID)

	items, total, err = s.FindByCategory(ctx, "Other", 10, 5)
	require.NoError(t, err)
	assert.Equal(t, 12, total)
	assert.Len(t, items, 2)

	items, total, err = s.FindByCategory(ctx, "Other", 50, 5)
	require.NoError(t, err)
	assert.Equal(t, 12, total)
	assert.Empty(t, items)

	items, total, err = s.FindByCategory(ctx, "Education", 0, 5)
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, items)
}

func TestMemoryListingsOwnership(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryListings()
	seedListings(t, s, 3, "Other", 7)

	ok, err := s.UpdateDescription(ctx, 2, 999, "hijack")
	require.NoError(t, err)
	assert.False(t, ok, "foreign owner must not update")

	ok, err = s.UpdateDescription(ctx, 2, 7, "fixed")
	require.NoError(t, err)
	assert.True(t, ok)
	got, err := s.FindByID(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "fixed", got.Description)

	ok, err = s.DeleteOne(ctx, 2, 999)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = s.DeleteOne(ctx, 2, 7)
	require.NoError(t, err)
	assert.True(t, ok)
	_, err = s.FindByID(ctx, 2)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryListingsRetention(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryListings()
	now := time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC)

	require.NoError(t, s.Insert(ctx, &listing.Listing{ID: 1, Category: "Other", CreatedAt: now.Add(-8 * 24 * time.Hour)}))
	require.NoError(t, s.Insert(ctx, &listing.Listing{ID: 2, Category: "Other", CreatedAt: now.Add(-6 * 24 * time.Hour)}))

	removed, err := s.DeleteOlderThan(ctx, now.Add(-listing.RetentionAge))
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	_, err = s.FindByID(ctx, 1)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.FindByID(ctx, 2)
	assert.NoError(t, err)
}

func TestMemorySequencesConcurrent(t *testing.T) {
	s := NewMemorySequences()
	const n = 64

	ids := make(chan int64, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id, err := s.Next(context.Background(), SeqListings)
			assert.NoError(t, err)
			ids <- id
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[int64]bool, n)
	for id := range ids {
		assert.False(t, seen[id], "duplicate id %d", id)
		seen[id] = true
	}
	assert.Len(t, seen, n)
}

func TestMemorySessionsRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewMemorySessions()

	_, err := s.Get(ctx, 42)
	assert.ErrorIs(t, err, ErrNotFound)

	sess := session.New(42, 100)
	sess.StartCreation()
	sess.SetDraftKind(listing.KindJobRequest)
	require.NoError(t, s.Save(ctx, sess))

	// Mutations after Save must not leak into the stored copy.
	sess.ToMainMenu()

	got, err := s.Get(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, session.StepChooseCategoryCreate, got.Step)
	assert.Equal(t, listing.KindJobRequest, got.Draft.Kind)

	require.NoError(t, s.Delete(ctx, 42))
	_, err = s.Get(ctx, 42)
	assert.ErrorIs(t, err, ErrNotFound)
}
