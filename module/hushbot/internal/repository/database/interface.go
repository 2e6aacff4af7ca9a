package database

import (
	"context"
	"errors"

	"github.com/nandanugg/hushbot/module/hushbot/domain"
)

var ErrNotFound = errors.New("not found")

type LocationRepository interface {
	Insert(ctx context.Context, loc *domain.DeviceLocation) error
	GetLatest(ctx context.Context, deviceID string) (*domain.DeviceLocation, error)
	GetHistory(ctx context.Context, query *domain.HistoryQuery) ([]domain.DeviceLocation, error)
}

// KVStore holds opaque values under string keys. Get returns ErrNotFound
// for a missing key.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
}
