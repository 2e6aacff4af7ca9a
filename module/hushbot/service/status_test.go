package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/nandanugg/hushbot/module/hushbot/domain"
)

type staticGeofences []domain.GeofenceRecord

func (s staticGeofences) List() []domain.GeofenceRecord { return s }

type mockLatest struct {
	getLatestFn func(ctx context.Context, deviceID string) (*domain.DeviceLocation, error)
}

func (m *mockLatest) GetLatest(ctx context.Context, deviceID string) (*domain.DeviceLocation, error) {
	return m.getLatestFn(ctx, deviceID)
}

type fixedMock struct {
	loc *domain.Location
}

func (f fixedMock) Current() (*domain.Location, bool) { return f.loc, f.loc != nil }

type fixedDND domain.DNDView

func (f fixedDND) View() domain.DNDView { return domain.DNDView(f) }

func latestAt(lat, lon float64) *mockLatest {
	return &mockLatest{getLatestFn: func(_ context.Context, deviceID string) (*domain.DeviceLocation, error) {
		return &domain.DeviceLocation{DeviceID: deviceID, Location: domain.Location{Lat: lat, Lon: lon, Timestamp: time.Unix(1715003456, 0)}}, nil
	}}
}

func TestEvaluateRegion_Examples(t *testing.T) {
	view := EvaluateRegion(home, &domain.Location{Lat: 37.0, Lon: -122.0})
	assert.Equal(t, domain.RegionInside, view.Status)
	require.NotNil(t, view.DistanceMeters)
	assert.InDelta(t, 0, *view.DistanceMeters, 1e-9)

	view = EvaluateRegion(home, &domain.Location{Lat: 37.0018, Lon: -122.0})
	assert.Equal(t, domain.RegionOutside, view.Status)
	assert.InDelta(t, 200, *view.DistanceMeters, 5)
}

func TestEvaluateRegion_BoundaryIsInside(t *testing.T) {
	loc := &domain.Location{Lat: 37.0004, Lon: -122.0}
	d := haversine(loc.Lat, loc.Lon, home.Latitude, home.Longitude)

	rec := home
	rec.Radius = float32(d) + 0.01
	assert.Equal(t, domain.RegionInside, EvaluateRegion(rec, loc).Status)
}

func TestEvaluateRegion_DisabledAndUnknown(t *testing.T) {
	disabled := home
	disabled.Enabled = false
	assert.Equal(t, domain.RegionDisabled, EvaluateRegion(disabled, &domain.Location{Lat: 37, Lon: -122}).Status)
	assert.Equal(t, domain.RegionDisabled, EvaluateRegion(disabled, nil).Status)

	view := EvaluateRegion(home, nil)
	assert.Equal(t, domain.RegionUnknown, view.Status)
	assert.Nil(t, view.DistanceMeters)
}

func TestScreen_UsesLastKnownLocation(t *testing.T) {
	dnd := fixedDND{Status: domain.DNDAllNotifications, PermissionGranted: true}
	svc := NewStatusService("pixel-7", staticGeofences{home}, latestAt(37.0, -122.0), fixedMock{}, dnd, zaptest.NewLogger(t))

	screen, err := svc.Screen(context.Background())
	require.NoError(t, err)
	require.NotNil(t, screen.CurrentLocation)
	assert.False(t, screen.MockLocation)
	assert.True(t, screen.Estimate)
	require.Len(t, screen.Regions, 1)
	assert.Equal(t, domain.RegionInside, screen.Regions[0].Status)
	assert.Equal(t, domain.DNDView(dnd), screen.DND)
}

func TestScreen_MockLocationWins(t *testing.T) {
	mock := fixedMock{loc: &domain.Location{Lat: 37.0018, Lon: -122.0}}
	svc := NewStatusService("pixel-7", staticGeofences{home}, latestAt(37.0, -122.0), mock, fixedDND{}, zaptest.NewLogger(t))

	screen, err := svc.Screen(context.Background())
	require.NoError(t, err)
	assert.True(t, screen.MockLocation)
	assert.Equal(t, domain.RegionOutside, screen.Regions[0].Status)
}

func TestScreen_NoLocation(t *testing.T) {
	latest := &mockLatest{getLatestFn: func(_ context.Context, _ string) (*domain.DeviceLocation, error) {
		return nil, ErrLocationUnavailable
	}}
	svc := NewStatusService("pixel-7", staticGeofences{home}, latest, fixedMock{}, fixedDND{}, zaptest.NewLogger(t))

	screen, err := svc.Screen(context.Background())
	require.NoError(t, err)
	assert.Nil(t, screen.CurrentLocation)
	assert.Equal(t, domain.RegionUnknown, screen.Regions[0].Status)
}

func TestScreen_LocationError(t *testing.T) {
	latest := &mockLatest{getLatestFn: func(_ context.Context, _ string) (*domain.DeviceLocation, error) {
		return nil, errors.New("db error")
	}}
	svc := NewStatusService("pixel-7", staticGeofences{home}, latest, fixedMock{}, fixedDND{}, zaptest.NewLogger(t))

	_, err := svc.Screen(context.Background())
	assert.Error(t, err)
}
