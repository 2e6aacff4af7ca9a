package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"go.uber.org/zap"
)

type permissionChecker interface {
	HasPermission() bool
}

type resubscriber interface {
	ResubscribeAll(ctx context.Context) int
}

type permissionState struct {
	policyAccess       bool
	locationPermission bool
}

// PermissionWatcher polls the device's permission state. Grants happen on
// the device with no callback, so polling is the only way to notice them.
// When location permission turns on, enabled geofences are re-subscribed.
type PermissionWatcher struct {
	scheduler gocron.Scheduler
	interval  time.Duration
	dnd       permissionChecker
	device    deviceStateSource
	geofences resubscriber
	log       *zap.Logger

	mu     sync.Mutex
	last   permissionState
	primed bool
}

func NewPermissionWatcher(interval time.Duration, dnd permissionChecker, device deviceStateSource, geofences resubscriber, log *zap.Logger) (*PermissionWatcher, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}
	return &PermissionWatcher{
		scheduler: s,
		interval:  interval,
		dnd:       dnd,
		device:    device,
		geofences: geofences,
		log:       log,
	}, nil
}

// Baseline records the current permission state that later polls compare
// against. Take it before the initial geofence subscription so a grant that
// lands in between is still seen as a change.
func (w *PermissionWatcher) Baseline() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.last = w.read()
	w.primed = true
}

// Start begins polling. Without a prior Baseline call the current state
// becomes the baseline.
func (w *PermissionWatcher) Start() error {
	w.mu.Lock()
	if !w.primed {
		w.last = w.read()
		w.primed = true
	}
	w.mu.Unlock()

	_, err := w.scheduler.NewJob(
		gocron.DurationJob(w.interval),
		gocron.NewTask(w.Check, context.Background()),
		gocron.WithName("permission-poll"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("schedule permission poll: %w", err)
	}
	w.scheduler.Start()
	return nil
}

func (w *PermissionWatcher) Stop() error {
	return w.scheduler.Shutdown()
}

func (w *PermissionWatcher) Check(ctx context.Context) {
	w.mu.Lock()
	prev := w.last
	current := w.read()
	w.last = current
	w.mu.Unlock()

	if current.policyAccess != prev.policyAccess {
		w.log.Info("DND policy access changed", zap.Bool("granted", current.policyAccess))
	}
	if current.locationPermission != prev.locationPermission {
		w.log.Info("location permission changed", zap.Bool("granted", current.locationPermission))
		if current.locationPermission {
			n := w.geofences.ResubscribeAll(ctx)
			w.log.Info("geofences re-subscribed", zap.Int("count", n))
		}
	}
}

func (w *PermissionWatcher) read() permissionState {
	return permissionState{
		policyAccess:       w.dnd.HasPermission(),
		locationPermission: w.device.State().LocationPermission,
	}
}
