package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/nandanugg/hushbot/module/hushbot/domain"
	"github.com/nandanugg/hushbot/module/hushbot/internal/metrics"
)

const transitionAlertTitle = "Geofence Alert"

type dndToggler interface {
	Enable(ctx context.Context) bool
	Disable(ctx context.Context) bool
}

// TransitionHandler reacts to region transitions by toggling DND. It keeps no
// state between events and never retries.
type TransitionHandler struct {
	dnd dndToggler
	messenger
}

func NewTransitionHandler(dnd dndToggler, n notifier, log *zap.Logger) *TransitionHandler {
	return &TransitionHandler{
		dnd:       dnd,
		messenger: messenger{notifier: n, log: log},
	}
}

func (h *TransitionHandler) Handle(ctx context.Context, event *domain.TransitionEvent) {
	if event.Error != "" {
		h.log.Error("geofencing error", zap.String("error", event.Error))
		h.toast(ctx, "Geofence error: "+event.Error, true)
		return
	}

	if event.Kind != domain.TransitionKindEnter && event.Kind != domain.TransitionKindExit {
		h.log.Warn("unknown transition type", zap.String("kind", string(event.Kind)))
		return
	}
	metrics.TransitionsHandled.WithLabelValues(string(event.Kind)).Inc()

	for _, name := range event.RegionNames {
		var message string
		if event.Kind == domain.TransitionKindEnter {
			h.log.Info("entered region, activating DND", zap.String("geofence", name))
			if h.dnd.Enable(ctx) {
				message = fmt.Sprintf("Entered %s - DND activated", name)
			} else {
				message = fmt.Sprintf("Entered %s - DND activation failed (check permissions)", name)
			}
		} else {
			h.log.Info("exited region, deactivating DND", zap.String("geofence", name))
			if h.dnd.Disable(ctx) {
				message = fmt.Sprintf("Exited %s - DND deactivated", name)
			} else {
				message = fmt.Sprintf("Exited %s - DND deactivation failed (check permissions)", name)
			}
		}

		h.notify(ctx, transitionAlertTitle, message)
		h.toast(ctx, message, true)
	}
}
