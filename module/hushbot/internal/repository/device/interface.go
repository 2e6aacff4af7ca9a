package device

import (
	"context"

	"github.com/nandanugg/hushbot/module/hushbot/domain"
)

// Gateway is the service's view of the paired device: its last reported
// state plus the commands the device agent understands.
type Gateway interface {
	State() domain.DeviceState
	UpdateState(state domain.DeviceState)
	SetInterruptionFilter(ctx context.Context, filter domain.InterruptionFilter) error
	OpenSettings(ctx context.Context, screen domain.SettingsScreen) error
	Notify(ctx context.Context, n domain.Notification) error
}
