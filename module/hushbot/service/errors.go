package service

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

var (
	ErrGeofenceExists       = errors.New("geofence already exists")
	ErrGeofenceNotFound     = errors.New("geofence not found")
	ErrGeofenceDisabled     = errors.New("geofence is disabled")
	ErrInvalidGeofence      = errors.New("invalid geofence")
	ErrInvalidRegion        = errors.New("invalid region")
	ErrInvalidLocation      = errors.New("invalid location")
	ErrLocationUnavailable  = errors.New("current location unavailable")
	ErrMockLocationDisabled = errors.New("mock location is not enabled")
)

var validate = validator.New()
