package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nandanugg/hushbot/module/hushbot/domain"
)

type statusService interface {
	Screen(ctx context.Context) (*domain.Screen, error)
}

type dndController interface {
	View() domain.DNDView
	RequestPermission(ctx context.Context)
}

type StatusHandler struct {
	statusSvc statusService
	dnd       dndController
}

func NewStatusHandler(statusSvc statusService, dnd dndController) *StatusHandler {
	return &StatusHandler{statusSvc: statusSvc, dnd: dnd}
}

func (h *StatusHandler) Register(r *gin.RouterGroup) {
	r.GET("/status", h.GetStatus)
	r.GET("/dnd", h.GetDND)
	r.POST("/dnd/permission", h.RequestPermission)
}

func (h *StatusHandler) GetStatus(c *gin.Context) {
	screen, err := h.statusSvc.Screen(c.Request.Context())
	if err != nil {
		writeError(c, err, "failed to build status")
		return
	}
	c.JSON(http.StatusOK, screen)
}

func (h *StatusHandler) GetDND(c *gin.Context) {
	c.JSON(http.StatusOK, h.dnd.View())
}

// RequestPermission opens the policy access screen on the device. The grant
// is picked up later by polling, so the response is the current view.
func (h *StatusHandler) RequestPermission(c *gin.Context) {
	h.dnd.RequestPermission(c.Request.Context())
	c.JSON(http.StatusAccepted, h.dnd.View())
}
