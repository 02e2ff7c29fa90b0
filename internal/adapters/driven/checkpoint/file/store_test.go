package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blockpipe/blockpipe/internal/core/domain"
)

func newTempStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(filepath.Join(t.TempDir(), "last_synced_block.txt"))
}

func TestStore_Initialize_WritesValue(t *testing.T) {
	store := newTempStore(t)

	require.NoError(t, store.Initialize(-1))

	value, err := store.Read()
	require.NoError(t, err)
	assert.Equal(t, int64(-1), value)

	// One integer plus a line terminator, nothing else.
	data, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Equal(t, "-1\n", string(data))
}

func TestStore_Initialize_ConflictLeavesFileUntouched(t *testing.T) {
	store := newTempStore(t)
	require.NoError(t, store.Initialize(42))

	err := store.Initialize(100)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrCheckpointConflict)

	value, err := store.Read()
	require.NoError(t, err)
	assert.Equal(t, int64(42), value)
}

func TestStore_Exists(t *testing.T) {
	store := newTempStore(t)

	exists, err := store.Exists()
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, store.Write(7))

	exists, err = store.Exists()
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestStore_Read_MissingFile(t *testing.T) {
	store := newTempStore(t)

	_, err := store.Read()
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrCheckpointUnreadable)
}

func TestStore_Read_GarbageContent(t *testing.T) {
	store := newTempStore(t)
	require.NoError(t, os.WriteFile(store.Path(), []byte("not-a-number\n"), 0o644))

	_, err := store.Read()
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrCheckpointUnreadable)
}

func TestStore_Read_ToleratesWhitespace(t *testing.T) {
	store := newTempStore(t)
	require.NoError(t, os.WriteFile(store.Path(), []byte("  1234 \n"), 0o644))

	value, err := store.Read()
	require.NoError(t, err)
	assert.Equal(t, int64(1234), value)
}

func TestStore_Write_OverwritesInFull(t *testing.T) {
	store := newTempStore(t)

	require.NoError(t, store.Write(100))
	require.NoError(t, store.Write(250))

	value, err := store.Read()
	require.NoError(t, err)
	assert.Equal(t, int64(250), value)

	data, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Equal(t, "250\n", string(data))
}
