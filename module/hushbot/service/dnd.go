package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/nandanugg/hushbot/module/hushbot/domain"
	"github.com/nandanugg/hushbot/module/hushbot/internal/metrics"
)

type policyDevice interface {
	State() domain.DeviceState
	SetInterruptionFilter(ctx context.Context, filter domain.InterruptionFilter) error
	OpenSettings(ctx context.Context, screen domain.SettingsScreen) error
}

// DNDController toggles the device's interruption filter. It never returns
// errors: every failure is logged and reported as false.
type DNDController struct {
	device policyDevice
	log    *zap.Logger
}

func NewDNDController(device policyDevice, log *zap.Logger) *DNDController {
	return &DNDController{device: device, log: log}
}

func (c *DNDController) Enable(ctx context.Context) bool {
	return c.apply(ctx, "enable", domain.FilterNone)
}

func (c *DNDController) Disable(ctx context.Context) bool {
	return c.apply(ctx, "disable", domain.FilterAll)
}

func (c *DNDController) apply(ctx context.Context, action string, filter domain.InterruptionFilter) (ok bool) {
	defer func() { metrics.DNDToggles.WithLabelValues(action, metrics.Result(ok)).Inc() }()

	state := c.device.State()
	if !supportsPolicy(state) {
		c.log.Warn("DND control not available on this OS version",
			zap.String("action", action), zap.Int("api_level", state.APILevel))
		return false
	}
	if !state.PolicyAccess {
		c.log.Warn("DND permission not granted", zap.String("action", action))
		return false
	}

	if err := c.device.SetInterruptionFilter(ctx, filter); err != nil {
		c.log.Error("set interruption filter", zap.String("action", action), zap.Error(err))
		return false
	}
	c.log.Info("DND updated", zap.String("action", action))
	return true
}

func (c *DNDController) HasPermission() bool {
	state := c.device.State()
	return supportsPolicy(state) && state.PolicyAccess
}

// RequestPermission asks the device to open the policy access settings
// screen. There is no grant callback; poll HasPermission afterwards.
func (c *DNDController) RequestPermission(ctx context.Context) {
	if !supportsPolicy(c.device.State()) {
		return
	}
	if err := c.device.OpenSettings(ctx, domain.SettingsPolicyAccess); err != nil {
		c.log.Error("open policy access settings", zap.Error(err))
	}
}

func (c *DNDController) CurrentStatus() domain.DNDStatus {
	state := c.device.State()
	if !supportsPolicy(state) {
		return domain.DNDNotSupported
	}
	if !state.PolicyAccess {
		return domain.DNDNoPermission
	}

	switch state.InterruptionFilter {
	case domain.FilterNone:
		return domain.DNDTotalSilence
	case domain.FilterPriority:
		return domain.DNDPriorityOnly
	case domain.FilterAlarms:
		return domain.DNDAlarmsOnly
	case domain.FilterAll:
		return domain.DNDAllNotifications
	default:
		return domain.DNDUnknown
	}
}

func (c *DNDController) View() domain.DNDView {
	return domain.DNDView{
		Status:            c.CurrentStatus(),
		PermissionGranted: c.HasPermission(),
	}
}

func supportsPolicy(state domain.DeviceState) bool {
	return state.APILevel >= domain.MinPolicyAPILevel
}
