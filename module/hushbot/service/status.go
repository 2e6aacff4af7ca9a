package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/nandanugg/hushbot/module/hushbot/domain"
)

type latestLocationSource interface {
	GetLatest(ctx context.Context, deviceID string) (*domain.DeviceLocation, error)
}

type mockLocationSource interface {
	Current() (*domain.Location, bool)
}

type geofenceLister interface {
	List() []domain.GeofenceRecord
}

type dndViewer interface {
	View() domain.DNDView
}

// StatusService builds the status screen. Inside/outside is estimated from
// the distance to the display location and is independent of the region
// monitor and of the actual DND state.
type StatusService struct {
	deviceID  string
	geofences geofenceLister
	locations latestLocationSource
	mock      mockLocationSource
	dnd       dndViewer
	log       *zap.Logger
}

func NewStatusService(deviceID string, geofences geofenceLister, locations latestLocationSource, mock mockLocationSource, dnd dndViewer, log *zap.Logger) *StatusService {
	return &StatusService{
		deviceID:  deviceID,
		geofences: geofences,
		locations: locations,
		mock:      mock,
		dnd:       dnd,
		log:       log,
	}
}

// CurrentLocation prefers an active mock location over the last known one.
// It returns ErrLocationUnavailable when neither exists.
func (s *StatusService) CurrentLocation(ctx context.Context) (*domain.Location, bool, error) {
	if loc, ok := s.mock.Current(); ok {
		return loc, true, nil
	}

	dl, err := s.locations.GetLatest(ctx, s.deviceID)
	if err != nil {
		return nil, false, err
	}
	return &dl.Location, false, nil
}

func (s *StatusService) Screen(ctx context.Context) (*domain.Screen, error) {
	loc, mock, err := s.CurrentLocation(ctx)
	if err != nil && !errors.Is(err, ErrLocationUnavailable) {
		return nil, err
	}

	records := s.geofences.List()
	screen := &domain.Screen{
		CurrentLocation: loc,
		MockLocation:    mock,
		Estimate:        true,
		Regions:         make([]domain.RegionView, 0, len(records)),
		DND:             s.dnd.View(),
	}
	for _, rec := range records {
		screen.Regions = append(screen.Regions, EvaluateRegion(rec, loc))
	}
	return screen, nil
}

// EvaluateRegion estimates whether loc lies within rec. A nil loc yields
// UNKNOWN for enabled records.
func EvaluateRegion(rec domain.GeofenceRecord, loc *domain.Location) domain.RegionView {
	view := domain.RegionView{Record: rec}
	if loc != nil {
		d := haversine(loc.Lat, loc.Lon, rec.Latitude, rec.Longitude)
		view.DistanceMeters = &d
	}

	switch {
	case !rec.Enabled:
		view.Status = domain.RegionDisabled
	case view.DistanceMeters == nil:
		view.Status = domain.RegionUnknown
	case *view.DistanceMeters <= float64(rec.Radius):
		view.Status = domain.RegionInside
	default:
		view.Status = domain.RegionOutside
	}
	return view
}
