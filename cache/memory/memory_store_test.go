package memory

import (
	"context"
	"testing"
	"time"

	"github.com/cruisedesk/sales-service/cache"
	"github.com/cruisedesk/sales-service/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionRoundTrip(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	session := &model.SalesSession{
		ID:        "sess-1",
		CompanyID: "co-1",
		Phase:     model.PhaseSelection,
		Cart: []model.CartItem{
			{ID: "item-1", CabinID: "cab-1", Quote: model.Quote{Currency: "USD", Total: 216000}},
		},
	}
	require.NoError(t, store.SaveSession(ctx, session, time.Minute))

	loaded, err := store.GetSession(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, model.PhaseSelection, loaded.Phase)
	require.Len(t, loaded.Cart, 1)
	assert.Equal(t, int64(216000), loaded.Cart[0].Quote.Total)

	// Stored sessions are snapshots, not shared pointers.
	session.Phase = model.PhaseConfirmed
	reloaded, err := store.GetSession(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, model.PhaseSelection, reloaded.Phase)
}

func TestUnknownAndDeletedSessions(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	_, err := store.GetSession(ctx, "missing")
	assert.ErrorIs(t, err, cache.ErrSessionNotFound)

	require.NoError(t, store.SaveSession(ctx, &model.SalesSession{ID: "sess-1"}, 0))
	require.NoError(t, store.DeleteSession(ctx, "sess-1"))

	_, err = store.GetSession(ctx, "sess-1")
	assert.ErrorIs(t, err, cache.ErrSessionNotFound)
}

func TestSessionExpiry(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.SaveSession(ctx, &model.SalesSession{ID: "sess-1"}, 10*time.Millisecond))
	time.Sleep(30 * time.Millisecond)

	_, err := store.GetSession(ctx, "sess-1")
	assert.ErrorIs(t, err, cache.ErrSessionNotFound)
}

func TestAvailabilityCacheMissHitInvalidate(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	_, ok, err := store.GetUnavailableCabins(ctx, "sl-1")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.SetUnavailableCabins(ctx, "sl-1", []string{"cab-2"}, time.Minute))
	ids, ok, err := store.GetUnavailableCabins(ctx, "sl-1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []string{"cab-2"}, ids)

	require.NoError(t, store.InvalidateUnavailableCabins(ctx, "sl-1"))
	_, ok, err = store.GetUnavailableCabins(ctx, "sl-1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestEmptyUnavailableSetIsStillAHit(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.SetUnavailableCabins(ctx, "sl-1", []string{}, time.Minute))
	ids, ok, err := store.GetUnavailableCabins(ctx, "sl-1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, ids)
}
