package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/nandanugg/hushbot/module/hushbot/internal/repository/database"
)

var _ database.KVStore = (*KVRepo)(nil)

// KVRepo keeps the key-value entries in a local SQLite file. It suits a
// single-device install that runs without Postgres or Redis. The *sql.DB
// must be limited to one open connection when it points at ":memory:".
type KVRepo struct {
	db *sql.DB
}

func NewKVRepo(db *sql.DB) (*KVRepo, error) {
	repo := &KVRepo{db: db}
	if err := repo.initialize(); err != nil {
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return repo, nil
}

func (r *KVRepo) initialize() error {
	_, err := r.db.Exec(`
	CREATE TABLE IF NOT EXISTS kv_store (
		key TEXT PRIMARY KEY,
		value BLOB NOT NULL,
		updated_at INTEGER NOT NULL
	)`)
	return err
}

func (r *KVRepo) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := r.db.QueryRowContext(ctx, "SELECT value FROM kv_store WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, database.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select value: %w", err)
	}
	return value, nil
}

func (r *KVRepo) Put(ctx context.Context, key string, value []byte) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO kv_store (key, value, updated_at) VALUES (?, ?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at",
		key, value, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("upsert value: %w", err)
	}
	return nil
}
