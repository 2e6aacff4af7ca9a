package service

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/nandanugg/hushbot/module/hushbot/domain"
)

type geofenceRepository interface {
	Load(ctx context.Context) ([]domain.GeofenceRecord, bool, error)
	Save(ctx context.Context, records []domain.GeofenceRecord) error
}

type regionSubscriber interface {
	Subscribe(ctx context.Context, rec domain.GeofenceRecord) bool
	Unsubscribe(ctx context.Context, name string) bool
}

// GeofenceService owns the geofence list. Every mutation persists the full
// list before the new snapshot becomes visible.
type GeofenceService struct {
	repo geofenceRepository
	subs regionSubscriber
	messenger

	mu       sync.Mutex
	snapshot atomic.Pointer[geofenceSnapshot]
}

func NewGeofenceService(repo geofenceRepository, subs regionSubscriber, n notifier, log *zap.Logger) *GeofenceService {
	s := &GeofenceService{
		repo:      repo,
		subs:      subs,
		messenger: messenger{notifier: n, log: log},
	}
	s.snapshot.Store(newGeofenceSnapshot(nil))
	return s
}

// Init loads the persisted list, falling back to seed when nothing has been
// saved yet, and re-subscribes every enabled record.
func (s *GeofenceService) Init(ctx context.Context, seed []domain.GeofenceRecord) error {
	s.mu.Lock()
	records, found, err := s.repo.Load(ctx)
	if err != nil {
		s.mu.Unlock()
		return err
	}

	snap := newGeofenceSnapshot(records)
	if !found && len(seed) > 0 {
		for _, rec := range seed {
			if err := validateRecord(rec); err != nil {
				s.mu.Unlock()
				return fmt.Errorf("seed %q: %w", rec.Name, err)
			}
			if snap, err = snap.apply(addGeofence(rec)); err != nil {
				s.mu.Unlock()
				return fmt.Errorf("seed %q: %w", rec.Name, err)
			}
		}
		if err := s.repo.Save(ctx, snap.Records()); err != nil {
			s.mu.Unlock()
			return err
		}
		s.log.Info("geofences seeded", zap.Int("count", len(seed)))
	}
	s.snapshot.Store(snap)
	s.mu.Unlock()

	n := s.ResubscribeAll(ctx)
	s.log.Info("geofences loaded", zap.Int("count", len(snap.records)), zap.Int("subscribed", n))
	return nil
}

// ResubscribeAll subscribes every enabled record and returns how many
// subscriptions succeeded.
func (s *GeofenceService) ResubscribeAll(ctx context.Context) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, rec := range s.snapshot.Load().records {
		if rec.Enabled && s.subs.Subscribe(ctx, rec) {
			n++
		}
	}
	return n
}

func (s *GeofenceService) List() []domain.GeofenceRecord {
	return s.snapshot.Load().Records()
}

func (s *GeofenceService) Get(name string) (domain.GeofenceRecord, error) {
	rec, ok := s.snapshot.Load().find(name)
	if !ok {
		return domain.GeofenceRecord{}, ErrGeofenceNotFound
	}
	return rec, nil
}

func (s *GeofenceService) Add(ctx context.Context, rec domain.GeofenceRecord) (domain.GeofenceRecord, error) {
	if err := validateRecord(rec); err != nil {
		return domain.GeofenceRecord{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.commit(ctx, addGeofence(rec)); err != nil {
		return domain.GeofenceRecord{}, err
	}
	s.log.Info("geofence added", zap.String("geofence", rec.Name), zap.Bool("enabled", rec.Enabled))
	s.subs.Subscribe(ctx, rec)
	return rec, nil
}

// SetEnabled flips the enabled flag. Setting the current value again is a
// no-op and touches neither storage nor the region monitor.
func (s *GeofenceService) SetEnabled(ctx context.Context, name string, enabled bool) (domain.GeofenceRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.snapshot.Load().find(name)
	if !ok {
		return domain.GeofenceRecord{}, ErrGeofenceNotFound
	}
	if rec.Enabled == enabled {
		return rec, nil
	}

	if err := s.commit(ctx, setGeofenceEnabled(name, enabled)); err != nil {
		return domain.GeofenceRecord{}, err
	}
	rec.Enabled = enabled
	s.log.Info("geofence toggled", zap.String("geofence", name), zap.Bool("enabled", enabled))

	if enabled {
		s.subs.Subscribe(ctx, rec)
	} else {
		s.subs.Unsubscribe(ctx, name)
	}
	return rec, nil
}

func (s *GeofenceService) Remove(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.snapshot.Load().find(name); !ok {
		return ErrGeofenceNotFound
	}

	if err := s.commit(ctx, removeGeofence(name)); err != nil {
		return err
	}
	s.subs.Unsubscribe(ctx, name)
	s.log.Info("geofence removed", zap.String("geofence", name))
	s.toast(ctx, fmt.Sprintf("Geofence '%s' removed", name), false)
	return nil
}

// commit must be called with s.mu held.
func (s *GeofenceService) commit(ctx context.Context, update geofenceUpdate) error {
	next, err := s.snapshot.Load().apply(update)
	if err != nil {
		return err
	}
	if err := s.repo.Save(ctx, next.records); err != nil {
		return err
	}
	s.snapshot.Store(next)
	return nil
}

func validateRecord(rec domain.GeofenceRecord) error {
	if err := validate.Struct(rec); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidGeofence, err)
	}
	return nil
}
