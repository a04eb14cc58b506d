package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, err := NewLocal(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Put(ctx, "a.png", []byte("png-bytes"), "image/png"))

	obj, err := store.Get(ctx, "a.png")
	require.NoError(t, err)
	assert.Equal(t, []byte("png-bytes"), obj.Data)
	assert.Equal(t, int64(9), obj.Size)
	assert.False(t, obj.ModTime.IsZero())

	require.NoError(t, store.Delete(ctx, "a.png"))
	assert.ErrorIs(t, store.Delete(ctx, "a.png"), ErrNotExist)

	_, err = store.Get(ctx, "a.png")
	assert.ErrorIs(t, err, ErrNotExist)
}

func TestLocalRejectsTraversal(t *testing.T) {
	ctx := context.Background()
	parent := t.TempDir()
	root := filepath.Join(parent, "uploads")
	store, err := NewLocal(root)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(parent, "secret.txt"), []byte("x"), 0o644))

	for _, name := range []string{"../secret.txt", "..", "sub/a.png", `..\secret.txt`, ""} {
		_, err := store.Get(ctx, name)
		assert.ErrorIs(t, err, ErrInvalidName, name)
		assert.ErrorIs(t, store.Put(ctx, name, []byte("x"), ""), ErrInvalidName, name)
	}

	_, err = os.Stat(filepath.Join(parent, "secret.txt"))
	assert.NoError(t, err)
}

func TestLocalPutHonorsCancelledContext(t *testing.T) {
	store, err := NewLocal(t.TempDir())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err = store.Put(ctx, "late.png", []byte("png-bytes"), "image/png")
	assert.ErrorIs(t, err, context.Canceled)

	_, err = os.Stat(filepath.Join(store.Root, "late.png"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
