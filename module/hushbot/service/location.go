package service

import (
	"context"
	"errors"

	"github.com/nandanugg/hushbot/module/hushbot/domain"
	"github.com/nandanugg/hushbot/module/hushbot/internal/repository/database"
)

type LocationService struct {
	repo database.LocationRepository
}

func NewLocationService(repo database.LocationRepository) *LocationService {
	return &LocationService{repo: repo}
}

func (s *LocationService) SaveLocation(ctx context.Context, dl *domain.DeviceLocation) error {
	return s.repo.Insert(ctx, dl)
}

// GetLatest returns the last known location, or ErrLocationUnavailable if the
// device has never reported one.
func (s *LocationService) GetLatest(ctx context.Context, deviceID string) (*domain.DeviceLocation, error) {
	dl, err := s.repo.GetLatest(ctx, deviceID)
	if errors.Is(err, database.ErrNotFound) {
		return nil, ErrLocationUnavailable
	}
	return dl, err
}

func (s *LocationService) GetHistory(ctx context.Context, query *domain.HistoryQuery) ([]domain.DeviceLocation, error) {
	return s.repo.GetHistory(ctx, query)
}
