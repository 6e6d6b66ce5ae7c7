package bolt_test

import (
	"path/filepath"
	"testing"

	"github.com/iamNilotpal/kvs/internal/backend/bolt"
	kvserrors "github.com/iamNilotpal/kvs/pkg/errors"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *bolt.Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bolt.db")
	store, err := bolt.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSetThenGet(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Set("a", "1"))

	value, ok, err := store.Get("a")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "1", value)
}

func TestGetMissingKey(t *testing.T) {
	store := newTestStore(t)
	_, ok, err := store.Get("missing")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestOverwriteReturnsLatestValue(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Set("a", "1"))
	require.NoError(t, store.Set("a", "2"))

	value, ok, err := store.Get("a")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "2", value)
}

func TestRemoveThenGetIsAbsent(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Set("a", "1"))
	require.NoError(t, store.Remove("a"))

	_, ok, err := store.Get("a")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestRemoveAbsentKeyFails(t *testing.T) {
	store := newTestStore(t)
	err := store.Remove("missing")
	require.Error(t, err)
	require.True(t, kvserrors.IsIndexError(err))
}

func TestReopenPreservesContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bolt.db")
	store, err := bolt.Open(path)
	require.NoError(t, err)
	require.NoError(t, store.Set("a", "1"))
	require.NoError(t, store.Close())

	reopened, err := bolt.Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	value, ok, err := reopened.Get("a")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "1", value)
}
