package redis

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nandanugg/hushbot/module/hushbot/internal/repository/database"
)

func setupRedis(t *testing.T) (*KVRepo, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewKVRepo(client), mr
}

func TestKVRepo_PutThenGet(t *testing.T) {
	repo, mr := setupRedis(t)
	ctx := context.Background()

	require.NoError(t, repo.Put(ctx, database.GeofenceListKey, []byte(`[{"name":"Home"}]`)))

	got, err := repo.Get(ctx, database.GeofenceListKey)
	require.NoError(t, err)
	assert.Equal(t, `[{"name":"Home"}]`, string(got))

	raw, err := mr.Get(database.GeofenceListKey)
	require.NoError(t, err)
	assert.Equal(t, `[{"name":"Home"}]`, raw)
}

func TestKVRepo_PutOverwrites(t *testing.T) {
	repo, _ := setupRedis(t)
	ctx := context.Background()

	require.NoError(t, repo.Put(ctx, "k", []byte("one")))
	require.NoError(t, repo.Put(ctx, "k", []byte("two")))

	got, err := repo.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "two", string(got))
}

func TestKVRepo_GetMissing(t *testing.T) {
	repo, _ := setupRedis(t)

	_, err := repo.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, database.ErrNotFound)
}

func TestKVRepo_ServerDown(t *testing.T) {
	repo, mr := setupRedis(t)
	mr.Close()

	_, err := repo.Get(context.Background(), "k")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, database.ErrNotFound)
}
