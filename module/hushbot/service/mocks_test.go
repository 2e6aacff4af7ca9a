package service

import (
	"context"
	"sync"

	"github.com/nandanugg/hushbot/module/hushbot/domain"
)

type mockNotifier struct {
	mu   sync.Mutex
	sent []domain.Notification
	err  error
}

func (m *mockNotifier) Notify(_ context.Context, n domain.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, n)
	return m.err
}

func (m *mockNotifier) messages(kind domain.NotificationKind) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []string
	for _, n := range m.sent {
		if n.Kind == kind {
			out = append(out, n.Message)
		}
	}
	return out
}

type mockDevice struct {
	state      domain.DeviceState
	filters    []domain.InterruptionFilter
	screens    []domain.SettingsScreen
	setErr     error
	settingErr error
}

func (m *mockDevice) State() domain.DeviceState { return m.state }

func (m *mockDevice) SetInterruptionFilter(_ context.Context, f domain.InterruptionFilter) error {
	m.filters = append(m.filters, f)
	return m.setErr
}

func (m *mockDevice) OpenSettings(_ context.Context, screen domain.SettingsScreen) error {
	m.screens = append(m.screens, screen)
	return m.settingErr
}

func grantedDevice() *mockDevice {
	return &mockDevice{state: domain.DeviceState{
		DeviceID:            "pixel-7",
		APILevel:            34,
		LocationPermission:  true,
		PolicyAccess:        true,
		MockLocationAllowed: true,
		InterruptionFilter:  domain.FilterAll,
	}}
}

type mockTransitionPublisher struct {
	publishFn func(ctx context.Context, event *domain.TransitionEvent) error
	calls     []*domain.TransitionEvent
}

func (m *mockTransitionPublisher) PublishTransition(ctx context.Context, event *domain.TransitionEvent) error {
	m.calls = append(m.calls, event)
	if m.publishFn != nil {
		return m.publishFn(ctx, event)
	}
	return nil
}
