package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nandanugg/hushbot/module/hushbot/domain"
	"github.com/nandanugg/hushbot/module/hushbot/service"
)

type locationService interface {
	GetLatest(ctx context.Context, deviceID string) (*domain.DeviceLocation, error)
	GetHistory(ctx context.Context, query *domain.HistoryQuery) ([]domain.DeviceLocation, error)
}

type locationResponse struct {
	DeviceID  string  `json:"device_id"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Accuracy  float64 `json:"accuracy"`
	Timestamp int64   `json:"timestamp"`
}

type LocationHandler struct {
	deviceID    string
	locationSvc locationService
}

func NewLocationHandler(deviceID string, locationSvc locationService) *LocationHandler {
	return &LocationHandler{deviceID: deviceID, locationSvc: locationSvc}
}

func (h *LocationHandler) Register(r *gin.RouterGroup) {
	r.GET("/locations/latest", h.GetLatestLocation)
	r.GET("/locations/history", h.GetHistory)
}

func (h *LocationHandler) GetLatestLocation(c *gin.Context) {
	dl, err := h.locationSvc.GetLatest(c.Request.Context(), h.deviceID)
	if errors.Is(err, service.ErrLocationUnavailable) {
		c.JSON(http.StatusNotFound, gin.H{"error": "no location reported"})
		return
	}
	if err != nil {
		writeError(c, err, "failed to fetch location")
		return
	}

	c.JSON(http.StatusOK, toLocationResponse(dl))
}

func (h *LocationHandler) GetHistory(c *gin.Context) {
	start, err := strconv.ParseInt(c.Query("start"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start parameter"})
		return
	}

	end, err := strconv.ParseInt(c.Query("end"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end parameter"})
		return
	}

	query := &domain.HistoryQuery{
		DeviceID: h.deviceID,
		Start:    time.Unix(start, 0),
		End:      time.Unix(end, 0),
	}

	locations, err := h.locationSvc.GetHistory(c.Request.Context(), query)
	if err != nil {
		writeError(c, err, "failed to fetch history")
		return
	}

	results := make([]locationResponse, len(locations))
	for i, dl := range locations {
		results[i] = toLocationResponse(&dl)
	}
	c.JSON(http.StatusOK, results)
}

func toLocationResponse(dl *domain.DeviceLocation) locationResponse {
	return locationResponse{
		DeviceID:  dl.DeviceID,
		Latitude:  dl.Location.Lat,
		Longitude: dl.Location.Lon,
		Accuracy:  dl.Location.Accuracy,
		Timestamp: dl.Location.Timestamp.Unix(),
	}
}
