package profile

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/imgshare/gallery-client/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nested", "profile.db")
	store, err := Open(context.Background(), path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store, path
}

func TestStore_SetGetDelete(t *testing.T) {
	store, _ := openTestStore(t)
	ctx := context.Background()

	_, found, err := store.Get(ctx, "imgshare:session")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, store.Set(ctx, "imgshare:session", `{"userId":"u1"}`))
	require.NoError(t, store.Set(ctx, "imgshare:session", `{"userId":"u2"}`))

	v, found, err := store.Get(ctx, "imgshare:session")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `{"userId":"u2"}`, v)

	require.NoError(t, store.Delete(ctx, "imgshare:session"))
	_, found, err = store.Get(ctx, "imgshare:session")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestStore_PersistsAcrossReopen(t *testing.T) {
	store, path := openTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, "k", "v"))
	require.NoError(t, store.Close())

	reopened, err := Open(ctx, path)
	require.NoError(t, err)
	defer reopened.Close()

	v, found, err := reopened.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "v", v)
}

func TestStore_Validation(t *testing.T) {
	_, err := Open(context.Background(), "")
	require.Error(t, err)

	store, _ := openTestStore(t)
	require.Error(t, store.Set(context.Background(), "", "v"))
}

func TestStore_StampsUpdatedAt(t *testing.T) {
	store, _ := openTestStore(t)
	store.now = testutil.FixedTimeFunc(testutil.TestTime())
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "imgshare:cookies", `[]`))

	var updated int64
	require.NoError(t, store.db.QueryRowContext(ctx,
		"SELECT updated_at FROM kv WHERE key = ?", "imgshare:cookies").Scan(&updated))
	assert.Equal(t, testutil.TestTime().UnixMilli(), updated)
}
