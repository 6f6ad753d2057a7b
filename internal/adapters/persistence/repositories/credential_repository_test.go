package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shomvob-wagely/internal/adapters/persistence/models"
)

func TestMemoryCredentialStore_RoundTrip(t *testing.T) {
	store := NewMemoryCredentialStore()
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "dev-1", models.KeyAccessToken, "tok-abc", nil))

	v, err := store.Get(ctx, "dev-1", models.KeyAccessToken)
	require.NoError(t, err)
	assert.Equal(t, "tok-abc", v)

	// Other devices never see it.
	v, err = store.Get(ctx, "dev-2", models.KeyAccessToken)
	require.NoError(t, err)
	assert.Empty(t, v)
}

func TestMemoryCredentialStore_MissingKeyReadsEmpty(t *testing.T) {
	store := NewMemoryCredentialStore()
	v, err := store.Get(context.Background(), "dev-1", models.KeyUserID)
	require.NoError(t, err)
	assert.Empty(t, v)
}

func TestMemoryCredentialStore_SetManyAndClear(t *testing.T) {
	store := NewMemoryCredentialStore()
	ctx := context.Background()

	require.NoError(t, store.SetMany(ctx, "dev-1", map[string]string{
		models.KeyPhoneNumber: "8801712345678",
		models.KeyUserID:      "emp-77",
	}, nil))

	all, err := store.GetAll(ctx, "dev-1")
	require.NoError(t, err)
	assert.Len(t, all, 2)
	assert.Equal(t, "emp-77", all[models.KeyUserID])

	require.NoError(t, store.Clear(ctx, "dev-1"))

	all, err = store.GetAll(ctx, "dev-1")
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestMemoryCredentialStore_Expiry(t *testing.T) {
	store := NewMemoryCredentialStore()
	ctx := context.Background()

	past := time.Now().Add(-time.Minute)
	future := time.Now().Add(time.Hour)
	require.NoError(t, store.Set(ctx, "dev-1", models.KeyAccessToken, "stale", &past))
	require.NoError(t, store.Set(ctx, "dev-1", models.KeyRefreshToken, "fresh", &future))

	v, err := store.Get(ctx, "dev-1", models.KeyAccessToken)
	require.NoError(t, err)
	assert.Empty(t, v, "expired value must read as absent")

	all, err := store.GetAll(ctx, "dev-1")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{models.KeyRefreshToken: "fresh"}, all)

	removed, err := store.DeleteExpired(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, removed)
}

func TestMemoryCredentialStore_Overwrite(t *testing.T) {
	store := NewMemoryCredentialStore()
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "dev-1", models.KeyAccessToken, "old", nil))
	require.NoError(t, store.Set(ctx, "dev-1", models.KeyAccessToken, "new", nil))

	v, err := store.Get(ctx, "dev-1", models.KeyAccessToken)
	require.NoError(t, err)
	assert.Equal(t, "new", v)
}
