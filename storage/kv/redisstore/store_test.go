package redisstore

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/edumatch/core/session"
)

func newTestStore(t *testing.T, namespace string) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	store := New(redis.NewClient(&redis.Options{Addr: mr.Addr()}), namespace)
	t.Cleanup(func() { _ = store.Close() })
	return store, mr
}

func TestStore(t *testing.T) {
	ctx := context.Background()
	store, mr := newTestStore(t, "")

	_, err := store.Get(ctx)
	assert.Equal(t, session.ErrNoToken, err)

	require.NoError(t, store.Set(ctx, "tok-1"))
	got, err := store.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tok-1", got)
	mr.CheckGet(t, "edumatch:token", "tok-1")

	require.NoError(t, store.Delete(ctx))
	assert.False(t, mr.Exists("edumatch:token"))
	_, err = store.Get(ctx)
	assert.Equal(t, session.ErrNoToken, err)

	// deleting twice is fine
	assert.NoError(t, store.Delete(ctx))
}

func TestStore_namespace(t *testing.T) {
	ctx := context.Background()
	store, mr := newTestStore(t, "alice")

	require.NoError(t, store.Set(ctx, "tok-2"))
	mr.CheckGet(t, "edumatch:alice:token", "tok-2")
	assert.False(t, mr.Exists("edumatch:token"))
}

func TestOpen(t *testing.T) {
	mr := miniredis.RunT(t)

	store, err := Open(context.Background(), "redis://"+mr.Addr()+"/0", "")
	require.NoError(t, err)
	defer store.Close()
	require.NoError(t, store.Set(context.Background(), "tok-3"))
	mr.CheckGet(t, "edumatch:token", "tok-3")

	_, err = Open(context.Background(), "not a url", "")
	assert.Error(t, err)
}

func TestStore_sessionManager(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t, "")
	require.NoError(t, store.Set(ctx, "restored-token"))

	mgr := session.NewManager(nil, store)
	st, err := mgr.Restore(ctx)
	require.NoError(t, err)
	assert.True(t, st.Authenticated)
	assert.Nil(t, st.User)
	assert.Equal(t, "restored-token", st.Token)

	require.NoError(t, mgr.Logout(ctx))
	_, err = store.Get(ctx)
	assert.Equal(t, session.ErrNoToken, err)
}
