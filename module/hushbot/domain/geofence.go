package domain

import "time"

// DefaultRadius is used when a geofence is added without a radius.
const DefaultRadius float32 = 50

type GeofenceRecord struct {
	Name      string  `json:"name" validate:"required"`
	Latitude  float64 `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude float64 `json:"longitude" validate:"gte=-180,lte=180"`
	Radius    float32 `json:"radius" validate:"gt=0"`
	Enabled   bool    `json:"enabled"`
}

type TransitionMask uint8

const (
	TransitionEnter TransitionMask = 1 << iota
	TransitionExit
)

// Region is a circular area registered with the region monitor.
type Region struct {
	Name        string         `validate:"required"`
	Lat         float64        `validate:"gte=-90,lte=90"`
	Lon         float64        `validate:"gte=-180,lte=180"`
	Radius      float64        `validate:"gt=0"`
	Transitions TransitionMask `validate:"gt=0"`
	// ExpiresAt of zero means the region never expires.
	ExpiresAt time.Time
}

func RegionFromRecord(rec GeofenceRecord) Region {
	return Region{
		Name:        rec.Name,
		Lat:         rec.Latitude,
		Lon:         rec.Longitude,
		Radius:      float64(rec.Radius),
		Transitions: TransitionEnter | TransitionExit,
	}
}

type TransitionKind string

const (
	TransitionKindEnter TransitionKind = "enter"
	TransitionKindExit  TransitionKind = "exit"
)

type TransitionEvent struct {
	RegionNames []string       `json:"region_names"`
	Kind        TransitionKind `json:"kind"`
	Location    Location       `json:"location"`
	Timestamp   int64          `json:"timestamp"`
	Error       string         `json:"error,omitempty"`
}

type RegionStatus string

const (
	RegionInside   RegionStatus = "INSIDE"
	RegionOutside  RegionStatus = "OUTSIDE"
	RegionDisabled RegionStatus = "DISABLED"
	RegionUnknown  RegionStatus = "UNKNOWN"
)
