package sweeper

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vilarso/cropservicebot/internal/listing"
	"github.com/vilarso/cropservicebot/internal/store"
)

func TestSweepOnce(t *testing.T) {
	ctx := context.Background()
	listings := store.NewMemoryListings()
	now := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)

	require.NoError(t, listings.Insert(ctx, &listing.Listing{
		ID: 1, Category: "Other", Description: "stale",
		CreatedAt: now.Add(-8 * 24 * time.Hour),
	}))
	require.NoError(t, listings.Insert(ctx, &listing.Listing{
		ID: 2, Category: "Other", Description: "fresh",
		CreatedAt: now.Add(-6 * 24 * time.Hour),
	}))

	s := New(listings, 0, 0)
	s.now = func() time.Time { return now }

	removed, err := s.SweepOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	_, err = listings.FindByID(ctx, 1)
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = listings.FindByID(ctx, 2)
	assert.NoError(t, err)

	// Second pass finds nothing new.
	removed, err = s.SweepOnce(ctx)
	require.NoError(t, err)
	assert.Zero(t, removed)
}

func TestSweepBoundaryIsExclusive(t *testing.T) {
	ctx := context.Background()
	listings := store.NewMemoryListings()
	now := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)

	// Created exactly at the cutoff: not yet past the retention age.
	require.NoError(t, listings.Insert(ctx, &listing.Listing{
		ID: 1, Category: "Other", CreatedAt: now.Add(-listing.RetentionAge),
	}))

	s := New(listings, 0, 0)
	s.now = func() time.Time { return now }

	removed, err := s.SweepOnce(ctx)
	require.NoError(t, err)
	assert.Zero(t, removed)
}

func TestRunSweepsImmediatelyAndStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	listings := store.NewMemoryListings()
	now := time.Now().UTC()
	require.NoError(t, listings.Insert(context.Background(), &listing.Listing{
		ID: 1, Category: "Other", CreatedAt: now.Add(-8 * 24 * time.Hour),
	}))

	s := New(listings, time.Hour, 0)

	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	// The initial sweep runs before the first tick.
	assert.Eventually(t, func() bool {
		_, err := listings.FindByID(context.Background(), 1)
		return err != nil
	}, time.Second, 10*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop after cancel")
	}
}
