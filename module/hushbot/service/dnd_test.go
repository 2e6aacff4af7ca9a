package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zaptest"

	"github.com/nandanugg/hushbot/module/hushbot/domain"
)

func TestDNDEnable(t *testing.T) {
	dev := grantedDevice()
	c := NewDNDController(dev, zaptest.NewLogger(t))

	assert.True(t, c.Enable(context.Background()))
	assert.True(t, c.Disable(context.Background()))
	assert.Equal(t, []domain.InterruptionFilter{domain.FilterNone, domain.FilterAll}, dev.filters)
}

func TestDNDWithoutPermission_SkipsDeviceCall(t *testing.T) {
	dev := grantedDevice()
	dev.state.PolicyAccess = false
	c := NewDNDController(dev, zaptest.NewLogger(t))

	assert.False(t, c.HasPermission())
	assert.False(t, c.Enable(context.Background()))
	assert.False(t, c.Disable(context.Background()))
	assert.Empty(t, dev.filters)
}

func TestDNDUnsupportedOS(t *testing.T) {
	dev := grantedDevice()
	dev.state.APILevel = 22
	c := NewDNDController(dev, zaptest.NewLogger(t))

	assert.False(t, c.HasPermission())
	assert.False(t, c.Enable(context.Background()))
	assert.Empty(t, dev.filters)
	assert.Equal(t, domain.DNDNotSupported, c.CurrentStatus())

	c.RequestPermission(context.Background())
	assert.Empty(t, dev.screens)
}

func TestDNDDeviceError(t *testing.T) {
	dev := grantedDevice()
	dev.setErr = errors.New("not connected")
	c := NewDNDController(dev, zaptest.NewLogger(t))

	assert.False(t, c.Enable(context.Background()))
	assert.Len(t, dev.filters, 1)
}

func TestDNDRequestPermission(t *testing.T) {
	dev := grantedDevice()
	dev.state.PolicyAccess = false
	c := NewDNDController(dev, zaptest.NewLogger(t))

	c.RequestPermission(context.Background())
	assert.Equal(t, []domain.SettingsScreen{domain.SettingsPolicyAccess}, dev.screens)

	dev.settingErr = errors.New("not connected")
	c.RequestPermission(context.Background())
	assert.Len(t, dev.screens, 2)
}

func TestDNDCurrentStatus(t *testing.T) {
	tests := []struct {
		filter domain.InterruptionFilter
		want   domain.DNDStatus
	}{
		{domain.FilterNone, domain.DNDTotalSilence},
		{domain.FilterPriority, domain.DNDPriorityOnly},
		{domain.FilterAlarms, domain.DNDAlarmsOnly},
		{domain.FilterAll, domain.DNDAllNotifications},
		{domain.FilterUnknown, domain.DNDUnknown},
		{domain.InterruptionFilter(42), domain.DNDUnknown},
	}

	for _, tt := range tests {
		t.Run(string(tt.want), func(t *testing.T) {
			dev := grantedDevice()
			dev.state.InterruptionFilter = tt.filter
			c := NewDNDController(dev, zaptest.NewLogger(t))
			assert.Equal(t, tt.want, c.CurrentStatus())
		})
	}

	dev := grantedDevice()
	dev.state.PolicyAccess = false
	c := NewDNDController(dev, zaptest.NewLogger(t))
	assert.Equal(t, domain.DNDNoPermission, c.CurrentStatus())
	assert.Equal(t, domain.DNDView{Status: domain.DNDNoPermission, PermissionGranted: false}, c.View())
}
