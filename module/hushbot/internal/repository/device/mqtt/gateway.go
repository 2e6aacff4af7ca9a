package mqtt

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/nandanugg/hushbot/module/hushbot/domain"
	"github.com/nandanugg/hushbot/module/hushbot/internal/repository/device"
)

var _ device.Gateway = (*Gateway)(nil)

const (
	commandSetInterruptionFilter = "set_interruption_filter"
	commandOpenSettings          = "open_settings"
)

type commandMessage struct {
	Type   string                     `json:"type"`
	Filter *domain.InterruptionFilter `json:"filter,omitempty"`
	Screen domain.SettingsScreen      `json:"screen,omitempty"`
}

type Gateway struct {
	client   pahomqtt.Client
	deviceID string

	mu    sync.RWMutex
	state domain.DeviceState
}

func NewGateway(client pahomqtt.Client, deviceID string) *Gateway {
	return &Gateway{
		client:   client,
		deviceID: deviceID,
		state:    domain.DeviceState{DeviceID: deviceID},
	}
}

func (g *Gateway) State() domain.DeviceState {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.state
}

func (g *Gateway) UpdateState(state domain.DeviceState) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.state = state
}

func (g *Gateway) SetInterruptionFilter(ctx context.Context, filter domain.InterruptionFilter) error {
	return g.publish(ctx, domain.CommandTopic(g.deviceID), commandMessage{
		Type:   commandSetInterruptionFilter,
		Filter: &filter,
	})
}

func (g *Gateway) OpenSettings(ctx context.Context, screen domain.SettingsScreen) error {
	return g.publish(ctx, domain.CommandTopic(g.deviceID), commandMessage{
		Type:   commandOpenSettings,
		Screen: screen,
	})
}

func (g *Gateway) Notify(ctx context.Context, n domain.Notification) error {
	return g.publish(ctx, domain.NotifyTopic(g.deviceID), n)
}

func (g *Gateway) publish(ctx context.Context, topic string, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", topic, err)
	}

	token := g.client.Publish(topic, 1, false, payload)
	select {
	case <-token.Done():
		if err := token.Error(); err != nil {
			return fmt.Errorf("publish %s: %w", topic, err)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
