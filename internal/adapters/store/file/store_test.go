package file

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/whosinhq/whosin/internal/ports"
)

func newTestStore(t *testing.T, maxBytes int) *Store {
	t.Helper()
	return NewStore(filepath.Join(t.TempDir(), "cache.json"), maxBytes)
}

func TestStoreSetGetRoundTrip(t *testing.T) {
	store := newTestStore(t, 0)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "k1", `{"expiresAt":"2024-01-01T00:00:00","data":1}`))

	value, err := store.Get(ctx, "k1")
	require.NoError(t, err)
	assert.Equal(t, `{"expiresAt":"2024-01-01T00:00:00","data":1}`, value)
}

func TestStoreGetMissingKey(t *testing.T) {
	store := newTestStore(t, 0)

	_, err := store.Get(context.Background(), "nope")
	require.ErrorIs(t, err, ports.ErrKeyNotFound)
}

func TestStorePersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")
	ctx := context.Background()

	first := NewStore(path, 0)
	require.NoError(t, first.Set(ctx, "k1", "v1"))

	second := NewStore(path, 0)
	value, err := second.Get(ctx, "k1")
	require.NoError(t, err)
	assert.Equal(t, "v1", value)
}

func TestStoreDeleteIsIdempotent(t *testing.T) {
	store := newTestStore(t, 0)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "k1", "v1"))
	require.NoError(t, store.Delete(ctx, "k1"))
	require.NoError(t, store.Delete(ctx, "k1"))

	_, err := store.Get(ctx, "k1")
	require.ErrorIs(t, err, ports.ErrKeyNotFound)
}

func TestStoreKeysAndClear(t *testing.T) {
	store := newTestStore(t, 0)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "a", "1"))
	require.NoError(t, store.Set(ctx, "b", "2"))

	keys, err := store.Keys(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a", "b"}, keys)

	require.NoError(t, store.Clear(ctx))
	keys, err = store.Keys(ctx)
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestStoreSetOverBudgetFailsWithQuotaExceeded(t *testing.T) {
	store := newTestStore(t, 64)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "small", "x"))

	err := store.Set(ctx, "big", strings.Repeat("y", 256))
	require.ErrorIs(t, err, ports.ErrQuotaExceeded)

	// The failed write left the store untouched.
	value, getErr := store.Get(ctx, "small")
	require.NoError(t, getErr)
	assert.Equal(t, "x", value)
	_, getErr = store.Get(ctx, "big")
	require.ErrorIs(t, getErr, ports.ErrKeyNotFound)
}

func TestStoreCancelledContext(t *testing.T) {
	store := newTestStore(t, 0)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.ErrorIs(t, store.Set(ctx, "k", "v"), context.Canceled)
	_, err := store.Get(ctx, "k")
	require.ErrorIs(t, err, context.Canceled)
}
