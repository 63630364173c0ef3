package badger

import (
	"context"
	"testing"

	"github.com/poiesic/docflow/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupObjectStore(t *testing.T) storage.ObjectStore {
	t.Helper()

	backend, err := OpenBackend("", true)
	require.NoError(t, err)
	t.Cleanup(func() { backend.Close() })

	return NewObjectStore(backend)
}

func TestObjectStore_PutAndGet(t *testing.T) {
	store := setupObjectStore(t)
	ctx := context.Background()

	key, err := store.Put(ctx, "raw/doc-1", []byte("raw document bytes"))
	require.NoError(t, err)
	assert.Equal(t, "raw/doc-1", key)

	data, err := store.Get(ctx, "raw/doc-1")
	require.NoError(t, err)
	assert.Equal(t, []byte("raw document bytes"), data)
}

func TestObjectStore_GetNotFound(t *testing.T) {
	store := setupObjectStore(t)

	_, err := store.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestObjectStore_PutOverwrites(t *testing.T) {
	store := setupObjectStore(t)
	ctx := context.Background()

	_, err := store.Put(ctx, "markdown/doc-1.md", []byte("v1"))
	require.NoError(t, err)
	_, err = store.Put(ctx, "markdown/doc-1.md", []byte("v2"))
	require.NoError(t, err)

	data, err := store.Get(ctx, "markdown/doc-1.md")
	require.NoError(t, err)
	assert.Equal(t, []byte("v2"), data)
}

func TestObjectStore_Delete(t *testing.T) {
	store := setupObjectStore(t)
	ctx := context.Background()

	_, err := store.Put(ctx, "raw/doc-1", []byte("bytes"))
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, "raw/doc-1"))

	_, err = store.Get(ctx, "raw/doc-1")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	// Deleting a missing key is not an error
	assert.NoError(t, store.Delete(ctx, "raw/doc-1"))
}
