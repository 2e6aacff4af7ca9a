package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nandanugg/hushbot/module/hushbot/service"
)

func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrGeofenceNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrGeofenceExists), errors.Is(err, service.ErrGeofenceDisabled):
		return http.StatusConflict
	case errors.Is(err, service.ErrInvalidGeofence), errors.Is(err, service.ErrInvalidLocation):
		return http.StatusUnprocessableEntity
	case errors.Is(err, service.ErrLocationUnavailable):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrMockLocationDisabled):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// writeError responds with the status mapped from err. Unmapped errors are
// reported as fallback so storage and broker details stay out of responses.
func writeError(c *gin.Context, err error, fallback string) {
	code := statusFor(err)
	msg := err.Error()
	if code == http.StatusInternalServerError {
		_ = c.Error(err)
		msg = fallback
	}
	c.JSON(code, gin.H{"error": msg})
}
