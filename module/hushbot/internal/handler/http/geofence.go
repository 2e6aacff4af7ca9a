package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nandanugg/hushbot/module/hushbot/domain"
)

type geofenceService interface {
	List() []domain.GeofenceRecord
	Add(ctx context.Context, rec domain.GeofenceRecord) (domain.GeofenceRecord, error)
	SetEnabled(ctx context.Context, name string, enabled bool) (domain.GeofenceRecord, error)
	Remove(ctx context.Context, name string) error
}

type currentLocator interface {
	CurrentLocation(ctx context.Context) (*domain.Location, bool, error)
}

// addGeofenceRequest mirrors the add dialog. Omitted coordinates are filled
// from the current location and an omitted radius gets the default.
type addGeofenceRequest struct {
	Name      string   `json:"name"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Radius    *float32 `json:"radius"`
	Enabled   *bool    `json:"enabled"`
}

type toggleGeofenceRequest struct {
	Enabled *bool `json:"enabled"`
}

type GeofenceHandler struct {
	geofenceSvc geofenceService
	locator     currentLocator
}

func NewGeofenceHandler(geofenceSvc geofenceService, locator currentLocator) *GeofenceHandler {
	return &GeofenceHandler{geofenceSvc: geofenceSvc, locator: locator}
}

func (h *GeofenceHandler) Register(r *gin.RouterGroup) {
	r.GET("/geofences", h.List)
	r.POST("/geofences", h.Add)
	r.PATCH("/geofences/:name", h.Toggle)
	r.DELETE("/geofences/:name", h.Remove)
}

func (h *GeofenceHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, h.geofenceSvc.List())
}

func (h *GeofenceHandler) Add(c *gin.Context) {
	var req addGeofenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid geofence: " + err.Error()})
		return
	}

	rec, err := h.toRecord(c.Request.Context(), &req)
	if err != nil {
		writeError(c, err, "failed to add geofence")
		return
	}

	rec, err = h.geofenceSvc.Add(c.Request.Context(), rec)
	if err != nil {
		writeError(c, err, "failed to add geofence")
		return
	}
	c.JSON(http.StatusCreated, rec)
}

func (h *GeofenceHandler) toRecord(ctx context.Context, req *addGeofenceRequest) (domain.GeofenceRecord, error) {
	rec := domain.GeofenceRecord{
		Name:    req.Name,
		Radius:  domain.DefaultRadius,
		Enabled: true,
	}
	if req.Radius != nil {
		rec.Radius = *req.Radius
	}
	if req.Enabled != nil {
		rec.Enabled = *req.Enabled
	}

	if req.Latitude == nil || req.Longitude == nil {
		loc, _, err := h.locator.CurrentLocation(ctx)
		if err != nil {
			return domain.GeofenceRecord{}, err
		}
		rec.Latitude, rec.Longitude = loc.Lat, loc.Lon
	}
	if req.Latitude != nil {
		rec.Latitude = *req.Latitude
	}
	if req.Longitude != nil {
		rec.Longitude = *req.Longitude
	}
	return rec, nil
}

func (h *GeofenceHandler) Toggle(c *gin.Context) {
	var req toggleGeofenceRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Enabled == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "enabled is required"})
		return
	}

	rec, err := h.geofenceSvc.SetEnabled(c.Request.Context(), c.Param("name"), *req.Enabled)
	if err != nil {
		writeError(c, err, "failed to update geofence")
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (h *GeofenceHandler) Remove(c *gin.Context) {
	if err := h.geofenceSvc.Remove(c.Request.Context(), c.Param("name")); err != nil {
		writeError(c, err, "failed to remove geofence")
		return
	}
	c.Status(http.StatusNoContent)
}
