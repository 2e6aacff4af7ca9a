package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/nandanugg/hushbot/module/hushbot/domain"
	"github.com/nandanugg/hushbot/module/hushbot/internal/metrics"
	"github.com/nandanugg/hushbot/module/hushbot/internal/repository/publisher"
)

type monitoredRegion struct {
	region domain.Region
	// inside is nil until the region has seen its first location.
	inside *bool
}

// RegionMonitor watches registered regions against incoming device
// locations and publishes enter/exit transitions. A region that sees its
// first location while the device is inside fires Enter; one that starts
// outside stays silent until the device crosses in.
type RegionMonitor struct {
	publisher publisher.TransitionPublisher
	log       *zap.Logger
	now       func() time.Time

	// mu guards evaluation only. Publishing happens after it is released, so
	// two concurrent callers (the location subscriber and mock injection) may
	// publish their events in a different order than they were evaluated.
	mu      sync.Mutex
	regions map[string]*monitoredRegion
}

// pendingTransition is an evaluated event plus the inside state each of its
// regions had before evaluation.
type pendingTransition struct {
	event *domain.TransitionEvent
	prev  map[*monitoredRegion]*bool
}

func NewRegionMonitor(pub publisher.TransitionPublisher, log *zap.Logger) *RegionMonitor {
	return &RegionMonitor{
		publisher: pub,
		log:       log,
		now:       time.Now,
		regions:   map[string]*monitoredRegion{},
	}
}

// AddRegion registers r, replacing any region with the same name.
func (m *RegionMonitor) AddRegion(_ context.Context, r domain.Region) error {
	if err := validate.Struct(r); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRegion, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.regions[r.Name] = &monitoredRegion{region: r}
	metrics.MonitoredRegions.Set(float64(len(m.regions)))
	return nil
}

// RemoveRegions unregisters the named regions. Unknown names are ignored.
func (m *RegionMonitor) RemoveRegions(_ context.Context, names ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, name := range names {
		delete(m.regions, name)
	}
	metrics.MonitoredRegions.Set(float64(len(m.regions)))
	return nil
}

func (m *RegionMonitor) Regions() []domain.Region {
	m.mu.Lock()
	defer m.mu.Unlock()

	regions := make([]domain.Region, 0, len(m.regions))
	for _, mr := range m.regions {
		regions = append(regions, mr.region)
	}
	sort.Slice(regions, func(i, j int) bool { return regions[i].Name < regions[j].Name })
	return regions
}

// CheckAndPublish evaluates dl against every region and publishes the
// resulting transitions. If a publish fails, the regions of that event and
// of any unpublished ones revert to their previous state so the next
// reading emits them again.
func (m *RegionMonitor) CheckAndPublish(ctx context.Context, dl *domain.DeviceLocation) error {
	pending := m.evaluate(dl)
	for i, p := range pending {
		if err := m.publisher.PublishTransition(ctx, p.event); err != nil {
			m.rollback(pending[i:])
			return err
		}
		metrics.TransitionsPublished.WithLabelValues(string(p.event.Kind)).Inc()
		m.log.Info("transition published",
			zap.String("kind", string(p.event.Kind)),
			zap.Strings("regions", p.event.RegionNames))
	}
	return nil
}

func (m *RegionMonitor) evaluate(dl *domain.DeviceLocation) []pendingTransition {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	names := make([]string, 0, len(m.regions))
	for name := range m.regions {
		names = append(names, name)
	}
	sort.Strings(names)

	var entered, exited []string
	prevs := map[string]*bool{}
	for _, name := range names {
		mr := m.regions[name]
		if !mr.region.ExpiresAt.IsZero() && now.After(mr.region.ExpiresAt) {
			delete(m.regions, name)
			continue
		}

		dist := haversine(dl.Location.Lat, dl.Location.Lon, mr.region.Lat, mr.region.Lon)
		inside := dist <= mr.region.Radius
		prev := mr.inside
		mr.inside = &inside

		switch {
		case inside && (prev == nil || !*prev):
			if mr.region.Transitions&domain.TransitionEnter != 0 {
				entered = append(entered, name)
				prevs[name] = prev
			}
		case !inside && prev != nil && *prev:
			if mr.region.Transitions&domain.TransitionExit != 0 {
				exited = append(exited, name)
				prevs[name] = prev
			}
		}
	}
	metrics.MonitoredRegions.Set(float64(len(m.regions)))

	var pending []pendingTransition
	if len(entered) > 0 {
		pending = append(pending, m.newPending(domain.TransitionKindEnter, entered, prevs, dl))
	}
	if len(exited) > 0 {
		pending = append(pending, m.newPending(domain.TransitionKindExit, exited, prevs, dl))
	}
	return pending
}

// newPending must be called with m.mu held.
func (m *RegionMonitor) newPending(kind domain.TransitionKind, names []string, prevs map[string]*bool, dl *domain.DeviceLocation) pendingTransition {
	prev := make(map[*monitoredRegion]*bool, len(names))
	for _, name := range names {
		prev[m.regions[name]] = prevs[name]
	}
	return pendingTransition{event: newTransition(kind, names, dl), prev: prev}
}

// rollback restores the pre-evaluation state of the given transitions'
// regions. A region replaced or removed in the meantime is left alone.
func (m *RegionMonitor) rollback(pending []pendingTransition) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range pending {
		for mr, prev := range p.prev {
			if m.regions[mr.region.Name] == mr {
				mr.inside = prev
			}
		}
	}
}

func newTransition(kind domain.TransitionKind, names []string, dl *domain.DeviceLocation) *domain.TransitionEvent {
	return &domain.TransitionEvent{
		RegionNames: names,
		Kind:        kind,
		Location:    dl.Location,
		Timestamp:   dl.Location.Timestamp.Unix(),
	}
}
