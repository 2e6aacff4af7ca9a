package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/nandanugg/hushbot/module/hushbot/domain"
	"github.com/nandanugg/hushbot/module/hushbot/internal/repository/database"
)

var _ database.LocationRepository = (*LocationRepo)(nil)

type LocationRepo struct {
	db *sql.DB
}

func NewLocationRepo(db *sql.DB) *LocationRepo {
	return &LocationRepo{db: db}
}

func (r *LocationRepo) Insert(ctx context.Context, loc *domain.DeviceLocation) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO device_locations (device_id, latitude, longitude, accuracy, timestamp) VALUES ($1, $2, $3, $4, $5)`,
		loc.DeviceID, loc.Location.Lat, loc.Location.Lon, loc.Location.Accuracy, loc.Location.Timestamp,
	)
	return err
}

func (r *LocationRepo) GetLatest(ctx context.Context, deviceID string) (*domain.DeviceLocation, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT device_id, latitude, longitude, accuracy, timestamp FROM device_locations WHERE device_id = $1 ORDER BY timestamp DESC LIMIT 1`,
		deviceID,
	)

	var dl domain.DeviceLocation
	err := row.Scan(&dl.DeviceID, &dl.Location.Lat, &dl.Location.Lon, &dl.Location.Accuracy, &dl.Location.Timestamp)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, database.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &dl, nil
}

func (r *LocationRepo) GetHistory(ctx context.Context, query *domain.HistoryQuery) ([]domain.DeviceLocation, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT device_id, latitude, longitude, accuracy, timestamp FROM device_locations WHERE device_id = $1 AND timestamp >= $2 AND timestamp <= $3 ORDER BY timestamp ASC`,
		query.DeviceID, query.Start, query.End,
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var results []domain.DeviceLocation
	for rows.Next() {
		var dl domain.DeviceLocation
		if err := rows.Scan(&dl.DeviceID, &dl.Location.Lat, &dl.Location.Lon, &dl.Location.Accuracy, &dl.Location.Timestamp); err != nil {
			return nil, err
		}
		results = append(results, dl)
	}
	return results, rows.Err()
}
