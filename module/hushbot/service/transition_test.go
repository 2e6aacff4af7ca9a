package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zaptest"

	"github.com/nandanugg/hushbot/module/hushbot/domain"
)

type mockDND struct {
	ok       bool
	enables  int
	disables int
}

func (m *mockDND) Enable(_ context.Context) bool {
	m.enables++
	return m.ok
}

func (m *mockDND) Disable(_ context.Context) bool {
	m.disables++
	return m.ok
}

func TestHandle_EnterEnablesDND(t *testing.T) {
	dnd := &mockDND{ok: true}
	n := &mockNotifier{}
	h := NewTransitionHandler(dnd, n, zaptest.NewLogger(t))

	h.Handle(context.Background(), &domain.TransitionEvent{Kind: domain.TransitionKindEnter, RegionNames: []string{"Home"}})

	assert.Equal(t, 1, dnd.enables)
	assert.Equal(t, 0, dnd.disables)
	assert.Equal(t, []string{"Entered Home - DND activated"}, n.messages(domain.NotificationPost))
	assert.Equal(t, []string{"Entered Home - DND activated"}, n.messages(domain.NotificationToast))
	assert.Equal(t, transitionAlertTitle, n.sent[0].Title)
	assert.True(t, n.sent[1].Long)
}

func TestHandle_ExitDisablesDND(t *testing.T) {
	dnd := &mockDND{ok: true}
	n := &mockNotifier{}
	h := NewTransitionHandler(dnd, n, zaptest.NewLogger(t))

	h.Handle(context.Background(), &domain.TransitionEvent{Kind: domain.TransitionKindExit, RegionNames: []string{"Home"}})

	assert.Equal(t, 0, dnd.enables)
	assert.Equal(t, 1, dnd.disables)
	assert.Equal(t, []string{"Exited Home - DND deactivated"}, n.messages(domain.NotificationPost))
}

func TestHandle_FailureMessages(t *testing.T) {
	dnd := &mockDND{ok: false}
	n := &mockNotifier{}
	h := NewTransitionHandler(dnd, n, zaptest.NewLogger(t))

	h.Handle(context.Background(), &domain.TransitionEvent{Kind: domain.TransitionKindEnter, RegionNames: []string{"Home"}})
	h.Handle(context.Background(), &domain.TransitionEvent{Kind: domain.TransitionKindExit, RegionNames: []string{"Home"}})

	assert.Equal(t, []string{
		"Entered Home - DND activation failed (check permissions)",
		"Exited Home - DND deactivation failed (check permissions)",
	}, n.messages(domain.NotificationPost))
	// failures are reported once and never retried
	assert.Equal(t, 1, dnd.enables)
	assert.Equal(t, 1, dnd.disables)
}

func TestHandle_OneCallPerRegion(t *testing.T) {
	dnd := &mockDND{ok: true}
	h := NewTransitionHandler(dnd, &mockNotifier{}, zaptest.NewLogger(t))

	h.Handle(context.Background(), &domain.TransitionEvent{Kind: domain.TransitionKindEnter, RegionNames: []string{"Home", "Neighbourhood"}})

	assert.Equal(t, 2, dnd.enables)
	assert.Equal(t, 0, dnd.disables)
}

func TestHandle_UnknownKindIsIgnored(t *testing.T) {
	dnd := &mockDND{ok: true}
	n := &mockNotifier{}
	h := NewTransitionHandler(dnd, n, zaptest.NewLogger(t))

	h.Handle(context.Background(), &domain.TransitionEvent{Kind: "dwell", RegionNames: []string{"Home"}})

	assert.Equal(t, 0, dnd.enables)
	assert.Equal(t, 0, dnd.disables)
	assert.Empty(t, n.sent)
}

func TestHandle_ErrorEvent(t *testing.T) {
	dnd := &mockDND{ok: true}
	n := &mockNotifier{}
	h := NewTransitionHandler(dnd, n, zaptest.NewLogger(t))

	h.Handle(context.Background(), &domain.TransitionEvent{Kind: domain.TransitionKindEnter, RegionNames: []string{"Home"}, Error: "1000"})

	assert.Equal(t, 0, dnd.enables)
	assert.Equal(t, []string{"Geofence error: 1000"}, n.messages(domain.NotificationToast))
}
