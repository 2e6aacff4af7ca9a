package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/nandanugg/hushbot/module/hushbot/domain"
)

const GeofenceListKey = "hushbot:geofences"

// GeofenceRepo persists the whole geofence list as one JSON value.
type GeofenceRepo struct {
	kv KVStore
}

func NewGeofenceRepo(kv KVStore) *GeofenceRepo {
	return &GeofenceRepo{kv: kv}
}

// Load returns found=false when nothing has been saved yet.
func (r *GeofenceRepo) Load(ctx context.Context) ([]domain.GeofenceRecord, bool, error) {
	raw, err := r.kv.Get(ctx, GeofenceListKey)
	if errors.Is(err, ErrNotFound) {
		return []domain.GeofenceRecord{}, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("load geofences: %w", err)
	}

	records, err := DecodeGeofences(raw)
	if err != nil {
		return nil, false, err
	}
	return records, true, nil
}

func (r *GeofenceRepo) Save(ctx context.Context, records []domain.GeofenceRecord) error {
	raw, err := EncodeGeofences(records)
	if err != nil {
		return err
	}
	if err := r.kv.Put(ctx, GeofenceListKey, raw); err != nil {
		return fmt.Errorf("save geofences: %w", err)
	}
	return nil
}

func EncodeGeofences(records []domain.GeofenceRecord) ([]byte, error) {
	if records == nil {
		records = []domain.GeofenceRecord{}
	}
	raw, err := json.Marshal(records)
	if err != nil {
		return nil, fmt.Errorf("marshal geofences: %w", err)
	}
	return raw, nil
}

func DecodeGeofences(raw []byte) ([]domain.GeofenceRecord, error) {
	records := []domain.GeofenceRecord{}
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("unmarshal geofences: %w", err)
	}
	return records, nil
}
