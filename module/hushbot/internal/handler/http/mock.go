package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nandanugg/hushbot/module/hushbot/domain"
)

type mockInjector interface {
	Available() bool
	Current() (*domain.Location, bool)
	SetLocation(ctx context.Context, lat, lon float64) (*domain.Location, error)
	SetInside(ctx context.Context, name string) (*domain.Location, error)
	SetOutside(ctx context.Context, name string) (*domain.Location, error)
	Disable(ctx context.Context)
	OpenDeveloperSettings(ctx context.Context) error
}

type mockLocationRequest struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

type mockStateResponse struct {
	Available bool             `json:"available"`
	Active    bool             `json:"active"`
	Location  *domain.Location `json:"location,omitempty"`
}

type MockHandler struct {
	mockSvc mockInjector
}

func NewMockHandler(mockSvc mockInjector) *MockHandler {
	return &MockHandler{mockSvc: mockSvc}
}

func (h *MockHandler) Register(r *gin.RouterGroup) {
	r.GET("/mock", h.GetMock)
	r.POST("/mock/location", h.SetLocation)
	r.POST("/mock/settings", h.OpenSettings)
	r.DELETE("/mock", h.Disable)
	r.POST("/geofences/:name/mock/inside", h.SetInside)
	r.POST("/geofences/:name/mock/outside", h.SetOutside)
}

func (h *MockHandler) GetMock(c *gin.Context) {
	loc, active := h.mockSvc.Current()
	c.JSON(http.StatusOK, mockStateResponse{
		Available: h.mockSvc.Available(),
		Active:    active,
		Location:  loc,
	})
}

func (h *MockHandler) SetLocation(c *gin.Context) {
	var req mockLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid location: " + err.Error()})
		return
	}
	if req.Latitude == nil || req.Longitude == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "latitude and longitude are required"})
		return
	}

	loc, err := h.mockSvc.SetLocation(c.Request.Context(), *req.Latitude, *req.Longitude)
	if err != nil {
		writeError(c, err, "failed to set mock location")
		return
	}
	c.JSON(http.StatusOK, loc)
}

func (h *MockHandler) SetInside(c *gin.Context) {
	loc, err := h.mockSvc.SetInside(c.Request.Context(), c.Param("name"))
	if err != nil {
		writeError(c, err, "failed to set mock location")
		return
	}
	c.JSON(http.StatusOK, loc)
}

func (h *MockHandler) SetOutside(c *gin.Context) {
	loc, err := h.mockSvc.SetOutside(c.Request.Context(), c.Param("name"))
	if err != nil {
		writeError(c, err, "failed to set mock location")
		return
	}
	c.JSON(http.StatusOK, loc)
}

func (h *MockHandler) Disable(c *gin.Context) {
	h.mockSvc.Disable(c.Request.Context())
	c.Status(http.StatusNoContent)
}

func (h *MockHandler) OpenSettings(c *gin.Context) {
	if err := h.mockSvc.OpenDeveloperSettings(c.Request.Context()); err != nil {
		writeError(c, err, "failed to open developer settings")
		return
	}
	c.Status(http.StatusAccepted)
}
