package redis

import (
	"context"
	"errors"

	goredis "github.com/redis/go-redis/v9"

	"github.com/nandanugg/hushbot/module/hushbot/internal/repository/database"
)

var _ database.KVStore = (*KVRepo)(nil)

type KVRepo struct {
	client *goredis.Client
}

func NewKVRepo(client *goredis.Client) *KVRepo {
	return &KVRepo{client: client}
}

func (r *KVRepo) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, database.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return value, nil
}

func (r *KVRepo) Put(ctx context.Context, key string, value []byte) error {
	return r.client.Set(ctx, key, value, 0).Err()
}
