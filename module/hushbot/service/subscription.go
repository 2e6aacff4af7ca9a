package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/nandanugg/hushbot/module/hushbot/domain"
	"github.com/nandanugg/hushbot/module/hushbot/internal/metrics"
)

type regionRegistry interface {
	AddRegion(ctx context.Context, r domain.Region) error
	RemoveRegions(ctx context.Context, names ...string) error
}

type deviceStateSource interface {
	State() domain.DeviceState
}

// SubscriptionManager registers geofence records with the region monitor.
// Results are reported to the user through toasts; callers only get a bool.
type SubscriptionManager struct {
	registry regionRegistry
	device   deviceStateSource
	messenger
}

func NewSubscriptionManager(registry regionRegistry, device deviceStateSource, n notifier, log *zap.Logger) *SubscriptionManager {
	return &SubscriptionManager{
		registry:  registry,
		device:    device,
		messenger: messenger{notifier: n, log: log},
	}
}

func (m *SubscriptionManager) Subscribe(ctx context.Context, rec domain.GeofenceRecord) bool {
	if !rec.Enabled {
		return false
	}

	if !m.device.State().LocationPermission {
		m.log.Warn("subscribe skipped: location permission not granted", zap.String("geofence", rec.Name))
		m.toast(ctx, "Location permission not granted", false)
		metrics.Subscriptions.WithLabelValues("subscribe", metrics.Result(false)).Inc()
		return false
	}

	if err := m.registry.AddRegion(ctx, domain.RegionFromRecord(rec)); err != nil {
		m.log.Error("subscribe geofence", zap.String("geofence", rec.Name), zap.Error(err))
		m.toast(ctx, fmt.Sprintf("Failed to add geofence: %v", err), false)
		metrics.Subscriptions.WithLabelValues("subscribe", metrics.Result(false)).Inc()
		return false
	}

	m.log.Info("geofence subscribed", zap.String("geofence", rec.Name))
	m.toast(ctx, fmt.Sprintf("Geofence '%s' added", rec.Name), false)
	metrics.Subscriptions.WithLabelValues("subscribe", metrics.Result(true)).Inc()
	return true
}

func (m *SubscriptionManager) Unsubscribe(ctx context.Context, name string) bool {
	if err := m.registry.RemoveRegions(ctx, name); err != nil {
		m.log.Error("unsubscribe geofence", zap.String("geofence", name), zap.Error(err))
		m.toast(ctx, fmt.Sprintf("Failed to remove geofence: %v", err), false)
		metrics.Subscriptions.WithLabelValues("unsubscribe", metrics.Result(false)).Inc()
		return false
	}

	m.log.Info("geofence unsubscribed", zap.String("geofence", name))
	m.toast(ctx, fmt.Sprintf("Geofence '%s' removed from system", name), false)
	metrics.Subscriptions.WithLabelValues("unsubscribe", metrics.Result(true)).Inc()
	return true
}
