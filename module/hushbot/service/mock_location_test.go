package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/nandanugg/hushbot/module/hushbot/domain"
)

type mockChecker struct {
	checked []*domain.DeviceLocation
	err     error
}

func (m *mockChecker) CheckAndPublish(_ context.Context, dl *domain.DeviceLocation) error {
	m.checked = append(m.checked, dl)
	return m.err
}

type mapGeofences map[string]domain.GeofenceRecord

func (m mapGeofences) Get(name string) (domain.GeofenceRecord, error) {
	rec, ok := m[name]
	if !ok {
		return domain.GeofenceRecord{}, ErrGeofenceNotFound
	}
	return rec, nil
}

func newTestMockService(t *testing.T, allowed bool, dev *mockDevice, checker *mockChecker, geofences mapGeofences) (*MockLocationService, *mockNotifier) {
	t.Helper()
	n := &mockNotifier{}
	return NewMockLocationService(allowed, "pixel-7", dev, checker, geofences, n, zaptest.NewLogger(t)), n
}

func TestMockSetLocation(t *testing.T) {
	checker := &mockChecker{}
	svc, n := newTestMockService(t, true, grantedDevice(), checker, nil)

	loc, err := svc.SetLocation(context.Background(), 37.0, -122.0)
	require.NoError(t, err)
	assert.Equal(t, 37.0, loc.Lat)
	assert.Equal(t, 1.0, loc.Accuracy)

	require.Len(t, checker.checked, 1)
	assert.Equal(t, "pixel-7", checker.checked[0].DeviceID)

	current, ok := svc.Current()
	assert.True(t, ok)
	assert.Equal(t, -122.0, current.Lon)

	assert.Equal(t, []string{"Mock location enabled", "Mock location set to: 37, -122"}, n.messages(domain.NotificationToast))
}

func TestMockSetLocation_Gated(t *testing.T) {
	tests := []struct {
		name      string
		allowed   bool
		devOption bool
	}{
		{"service flag off", false, true},
		{"developer option off", true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dev := grantedDevice()
			dev.state.MockLocationAllowed = tt.devOption
			checker := &mockChecker{}
			svc, n := newTestMockService(t, tt.allowed, dev, checker, nil)

			_, err := svc.SetLocation(context.Background(), 37.0, -122.0)
			assert.ErrorIs(t, err, ErrMockLocationDisabled)
			assert.Empty(t, checker.checked)
			_, ok := svc.Current()
			assert.False(t, ok)
			assert.Len(t, n.messages(domain.NotificationToast), 1)
		})
	}
}

func TestMockSetLocation_OutOfRange(t *testing.T) {
	svc, _ := newTestMockService(t, true, grantedDevice(), &mockChecker{}, nil)

	_, err := svc.SetLocation(context.Background(), 120, 0)
	assert.ErrorIs(t, err, ErrInvalidLocation)
}

func TestMockSetLocation_CheckFailure(t *testing.T) {
	checker := &mockChecker{err: errors.New("rabbitmq down")}
	svc, n := newTestMockService(t, true, grantedDevice(), checker, nil)

	_, err := svc.SetLocation(context.Background(), 37.0, -122.0)
	assert.Error(t, err)
	assert.Contains(t, n.messages(domain.NotificationToast), "Failed to set mock location: rabbitmq down")
}

func TestMockInsideOutside(t *testing.T) {
	checker := &mockChecker{}
	svc, _ := newTestMockService(t, true, grantedDevice(), checker, mapGeofences{"Home": home})
	ctx := context.Background()

	loc, err := svc.SetInside(ctx, "Home")
	require.NoError(t, err)
	assert.Equal(t, domain.RegionInside, EvaluateRegion(home, loc).Status)

	loc, err = svc.SetOutside(ctx, "Home")
	require.NoError(t, err)
	assert.Equal(t, domain.RegionOutside, EvaluateRegion(home, loc).Status)
	assert.InDelta(t, 110, haversine(home.Latitude, home.Longitude, loc.Lat, loc.Lon), 1)
}

func TestMockInsideOutside_Errors(t *testing.T) {
	disabled := home
	disabled.Enabled = false
	svc, _ := newTestMockService(t, true, grantedDevice(), &mockChecker{}, mapGeofences{"Home": disabled})

	_, err := svc.SetInside(context.Background(), "Nowhere")
	assert.ErrorIs(t, err, ErrGeofenceNotFound)

	_, err = svc.SetOutside(context.Background(), "Home")
	assert.ErrorIs(t, err, ErrGeofenceDisabled)
}

func TestMockDisable(t *testing.T) {
	svc, n := newTestMockService(t, true, grantedDevice(), &mockChecker{}, nil)
	ctx := context.Background()

	_, err := svc.SetLocation(ctx, 37.0, -122.0)
	require.NoError(t, err)

	svc.Disable(ctx)
	_, ok := svc.Current()
	assert.False(t, ok)
	assert.Contains(t, n.messages(domain.NotificationToast), "Mock location disabled")

	// re-enabling after a disable announces the provider again
	_, err = svc.SetLocation(ctx, 37.0, -122.0)
	require.NoError(t, err)
	enabled := 0
	for _, msg := range n.messages(domain.NotificationToast) {
		if msg == "Mock location enabled" {
			enabled++
		}
	}
	assert.Equal(t, 2, enabled)
}

func TestMockOpenDeveloperSettings(t *testing.T) {
	dev := grantedDevice()
	svc, _ := newTestMockService(t, true, dev, &mockChecker{}, nil)

	require.NoError(t, svc.OpenDeveloperSettings(context.Background()))
	assert.Equal(t, []domain.SettingsScreen{domain.SettingsDeveloper}, dev.screens)
}
