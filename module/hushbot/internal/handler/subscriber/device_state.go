package subscriber

import (
	"encoding/json"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"

	"github.com/nandanugg/hushbot/module/hushbot/domain"
)

type stateUpdater interface {
	UpdateState(state domain.DeviceState)
}

// DeviceStateSubscriber keeps the gateway's cached device state current. The
// agent publishes its state retained, so a fresh subscription receives the
// last report immediately.
type DeviceStateSubscriber struct {
	client   mqtt.Client
	deviceID string
	gateway  stateUpdater
	log      *zap.Logger
}

func NewDeviceStateSubscriber(client mqtt.Client, deviceID string, gateway stateUpdater, log *zap.Logger) *DeviceStateSubscriber {
	return &DeviceStateSubscriber{
		client:   client,
		deviceID: deviceID,
		gateway:  gateway,
		log:      log,
	}
}

func (s *DeviceStateSubscriber) Start() error {
	token := s.client.Subscribe(domain.StateTopic(s.deviceID), 1, s.handleMessage)
	token.Wait()
	return token.Error()
}

func (s *DeviceStateSubscriber) handleMessage(_ mqtt.Client, msg mqtt.Message) {
	var state domain.DeviceState
	if err := json.Unmarshal(msg.Payload(), &state); err != nil {
		s.log.Warn("invalid device state", zap.String("topic", msg.Topic()), zap.Error(err))
		return
	}
	if state.DeviceID != "" && state.DeviceID != s.deviceID {
		s.log.Warn("device state for another device", zap.String("device_id", state.DeviceID))
		return
	}
	state.DeviceID = s.deviceID

	s.gateway.UpdateState(state)
	s.log.Debug("device state updated",
		zap.Int("api_level", state.APILevel),
		zap.Bool("location_permission", state.LocationPermission),
		zap.Bool("policy_access", state.PolicyAccess),
		zap.Int("interruption_filter", int(state.InterruptionFilter)),
	)
}
