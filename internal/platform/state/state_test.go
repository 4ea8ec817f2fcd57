package state

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSQLiteRoundTrip(t *testing.T) {
	store, err := OpenSQLite(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	_, ok, err := store.Get(KeyToken)
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, store.Set(KeyToken, "abc"))
	value, ok, err := store.Get(KeyToken)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "abc", value)

	// Overwrite
	require.NoError(t, store.Set(KeyToken, "def"))
	value, _, err = store.Get(KeyToken)
	require.NoError(t, err)
	require.Equal(t, "def", value)

	require.NoError(t, store.Delete(KeyToken))
	_, ok, err = store.Get(KeyToken)
	require.NoError(t, err)
	require.False(t, ok)

	// Deleting a missing key is a no-op.
	require.NoError(t, store.Delete(KeyToken))
}

func TestSQLitePersistsAcrossOpens(t *testing.T) {
	dir := t.TempDir()

	store, err := OpenSQLite(dir)
	require.NoError(t, err)
	require.NoError(t, store.Set(KeyDarkMode, "true"))
	require.NoError(t, store.Close())

	reopened, err := OpenSQLite(dir)
	require.NoError(t, err)
	defer reopened.Close()

	value, ok, err := reopened.Get(KeyDarkMode)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "true", value)
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()
	require.NoError(t, store.Set(KeyUser, `{"id":"1"}`))

	value, ok, err := store.Get(KeyUser)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, `{"id":"1"}`, value)

	require.NoError(t, store.Delete(KeyUser))
	_, ok, _ = store.Get(KeyUser)
	require.False(t, ok)
}
