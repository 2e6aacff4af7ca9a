package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/nandanugg/hushbot/module/hushbot/domain"
	"github.com/nandanugg/hushbot/module/hushbot/internal/metrics"
)

type developerDevice interface {
	State() domain.DeviceState
	OpenSettings(ctx context.Context, screen domain.SettingsScreen) error
}

type locationChecker interface {
	CheckAndPublish(ctx context.Context, dl *domain.DeviceLocation) error
}

type geofenceGetter interface {
	Get(name string) (domain.GeofenceRecord, error)
}

// MockLocationService injects fabricated locations for manual testing. It
// only works when the service was started with mock locations allowed and
// the device reports the developer option as enabled.
type MockLocationService struct {
	allowed   bool
	deviceID  string
	device    developerDevice
	monitor   locationChecker
	geofences geofenceGetter
	now       func() time.Time
	messenger

	mu         sync.Mutex
	registered bool
	current    *domain.Location
}

func NewMockLocationService(allowed bool, deviceID string, device developerDevice, monitor locationChecker, geofences geofenceGetter, n notifier, log *zap.Logger) *MockLocationService {
	return &MockLocationService{
		allowed:   allowed,
		deviceID:  deviceID,
		device:    device,
		monitor:   monitor,
		geofences: geofences,
		now:       time.Now,
		messenger: messenger{notifier: n, log: log},
	}
}

func (s *MockLocationService) Available() bool {
	return s.allowed && s.device.State().MockLocationAllowed
}

func (s *MockLocationService) Enable(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enableLocked(ctx)
}

func (s *MockLocationService) enableLocked(ctx context.Context) error {
	if !s.Available() {
		s.toast(ctx, fmt.Sprintf("Failed to enable mock location: %v", ErrMockLocationDisabled), true)
		return ErrMockLocationDisabled
	}
	if !s.registered {
		s.registered = true
		s.log.Info("mock location provider registered")
		s.toast(ctx, "Mock location enabled", false)
	}
	return nil
}

// SetLocation registers the mock provider if needed, makes (lat, lon) the
// display location and feeds it to the region monitor.
func (s *MockLocationService) SetLocation(ctx context.Context, lat, lon float64) (*domain.Location, error) {
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return nil, fmt.Errorf("%w: latitude %f, longitude %f", ErrInvalidLocation, lat, lon)
	}

	s.mu.Lock()
	if err := s.enableLocked(ctx); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	loc := &domain.Location{Lat: lat, Lon: lon, Accuracy: 1, Timestamp: s.now()}
	s.current = loc
	s.mu.Unlock()

	metrics.LocationsReceived.WithLabelValues("mock").Inc()
	dl := &domain.DeviceLocation{DeviceID: s.deviceID, Location: *loc}
	if err := s.monitor.CheckAndPublish(ctx, dl); err != nil {
		s.log.Error("mock location check", zap.Error(err))
		s.toast(ctx, fmt.Sprintf("Failed to set mock location: %v", err), true)
		return nil, err
	}

	s.toast(ctx, fmt.Sprintf("Mock location set to: %v, %v", lat, lon), false)
	return loc, nil
}

// SetInside moves the mock location to the center of the named geofence.
func (s *MockLocationService) SetInside(ctx context.Context, name string) (*domain.Location, error) {
	rec, err := s.enabledGeofence(name)
	if err != nil {
		return nil, err
	}
	return s.SetLocation(ctx, rec.Latitude, rec.Longitude)
}

// SetOutside moves the mock location twice the radius plus ten metres north
// of the named geofence's center.
func (s *MockLocationService) SetOutside(ctx context.Context, name string) (*domain.Location, error) {
	rec, err := s.enabledGeofence(name)
	if err != nil {
		return nil, err
	}
	lat, lon := pointNorthOf(rec.Latitude, rec.Longitude, float64(rec.Radius)*2+10)
	return s.SetLocation(ctx, lat, lon)
}

func (s *MockLocationService) enabledGeofence(name string) (domain.GeofenceRecord, error) {
	rec, err := s.geofences.Get(name)
	if err != nil {
		return domain.GeofenceRecord{}, err
	}
	if !rec.Enabled {
		return domain.GeofenceRecord{}, ErrGeofenceDisabled
	}
	return rec, nil
}

// Disable clears the mock location and unregisters the provider.
func (s *MockLocationService) Disable(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = nil
	s.registered = false
	s.log.Info("mock location provider unregistered")
	s.toast(ctx, "Mock location disabled", false)
}

func (s *MockLocationService) Current() (*domain.Location, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return nil, false
	}
	loc := *s.current
	return &loc, true
}

// OpenDeveloperSettings asks the device to show the developer options screen
// where mock locations are switched on.
func (s *MockLocationService) OpenDeveloperSettings(ctx context.Context) error {
	return s.device.OpenSettings(ctx, domain.SettingsDeveloper)
}
