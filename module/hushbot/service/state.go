package service

import "github.com/nandanugg/hushbot/module/hushbot/domain"

// geofenceSnapshot is an immutable view of the geofence list. Updates
// produce a new snapshot and leave the old one untouched.
type geofenceSnapshot struct {
	records []domain.GeofenceRecord
}

// geofenceUpdate receives a private copy of the records and returns the
// next list.
type geofenceUpdate func(records []domain.GeofenceRecord) ([]domain.GeofenceRecord, error)

func newGeofenceSnapshot(records []domain.GeofenceRecord) *geofenceSnapshot {
	return &geofenceSnapshot{records: cloneRecords(records)}
}

func (s *geofenceSnapshot) apply(update geofenceUpdate) (*geofenceSnapshot, error) {
	next, err := update(s.Records())
	if err != nil {
		return nil, err
	}
	return &geofenceSnapshot{records: next}, nil
}

func (s *geofenceSnapshot) Records() []domain.GeofenceRecord {
	return cloneRecords(s.records)
}

func (s *geofenceSnapshot) find(name string) (domain.GeofenceRecord, bool) {
	i := indexOf(s.records, name)
	if i < 0 {
		return domain.GeofenceRecord{}, false
	}
	return s.records[i], true
}

func addGeofence(rec domain.GeofenceRecord) geofenceUpdate {
	return func(records []domain.GeofenceRecord) ([]domain.GeofenceRecord, error) {
		if indexOf(records, rec.Name) >= 0 {
			return nil, ErrGeofenceExists
		}
		return append(records, rec), nil
	}
}

func setGeofenceEnabled(name string, enabled bool) geofenceUpdate {
	return func(records []domain.GeofenceRecord) ([]domain.GeofenceRecord, error) {
		i := indexOf(records, name)
		if i < 0 {
			return nil, ErrGeofenceNotFound
		}
		records[i].Enabled = enabled
		return records, nil
	}
}

func removeGeofence(name string) geofenceUpdate {
	return func(records []domain.GeofenceRecord) ([]domain.GeofenceRecord, error) {
		i := indexOf(records, name)
		if i < 0 {
			return nil, ErrGeofenceNotFound
		}
		return append(records[:i], records[i+1:]...), nil
	}
}

func indexOf(records []domain.GeofenceRecord, name string) int {
	for i, r := range records {
		if r.Name == name {
			return i
		}
	}
	return -1
}

func cloneRecords(records []domain.GeofenceRecord) []domain.GeofenceRecord {
	out := make([]domain.GeofenceRecord, len(records))
	copy(out, records)
	return out
}
