package subscriber

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"

	"github.com/nandanugg/hushbot/module/hushbot/domain"
	"github.com/nandanugg/hushbot/module/hushbot/internal/metrics"
)

type locationService interface {
	SaveLocation(ctx context.Context, dl *domain.DeviceLocation) error
}

type regionMonitor interface {
	CheckAndPublish(ctx context.Context, dl *domain.DeviceLocation) error
}

type locationMessage struct {
	DeviceID  string  `json:"device_id"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Accuracy  float64 `json:"accuracy"`
	Timestamp int64   `json:"timestamp"`
}

type LocationSubscriber struct {
	client      mqtt.Client
	topic       string
	locationSvc locationService
	monitor     regionMonitor
	log         *zap.Logger
}

func NewLocationSubscriber(client mqtt.Client, deviceID string, locationSvc locationService, monitor regionMonitor, log *zap.Logger) *LocationSubscriber {
	return &LocationSubscriber{
		client:      client,
		topic:       domain.LocationTopic(deviceID),
		locationSvc: locationSvc,
		monitor:     monitor,
		log:         log,
	}
}

func (s *LocationSubscriber) Start() error {
	token := s.client.Subscribe(s.topic, 1, s.handleMessage)
	token.Wait()
	return token.Error()
}

func (s *LocationSubscriber) handleMessage(_ mqtt.Client, msg mqtt.Message) {
	var raw locationMessage
	if err := json.Unmarshal(msg.Payload(), &raw); err != nil {
		s.log.Warn("invalid location message", zap.String("topic", msg.Topic()), zap.Error(err))
		return
	}

	if err := validateLocationMessage(&raw); err != nil {
		s.log.Warn("location validation", zap.Error(err))
		return
	}
	metrics.LocationsReceived.WithLabelValues("gps").Inc()

	dl := &domain.DeviceLocation{
		DeviceID: raw.DeviceID,
		Location: domain.Location{
			Lat:       raw.Latitude,
			Lon:       raw.Longitude,
			Accuracy:  raw.Accuracy,
			Timestamp: time.Unix(raw.Timestamp, 0),
		},
	}

	ctx := context.Background()

	if err := s.locationSvc.SaveLocation(ctx, dl); err != nil {
		s.log.Error("save location", zap.String("device_id", dl.DeviceID), zap.Error(err))
		return
	}

	if err := s.monitor.CheckAndPublish(ctx, dl); err != nil {
		s.log.Error("region check", zap.String("device_id", dl.DeviceID), zap.Error(err))
	}
}

func validateLocationMessage(msg *locationMessage) error {
	if msg.DeviceID == "" {
		return fmt.Errorf("device_id: required")
	}
	if msg.Latitude < -90 || msg.Latitude > 90 {
		return fmt.Errorf("latitude: must be between -90 and 90")
	}
	if msg.Longitude < -180 || msg.Longitude > 180 {
		return fmt.Errorf("longitude: must be between -180 and 180")
	}
	if msg.Accuracy < 0 {
		return fmt.Errorf("accuracy: must not be negative")
	}
	if msg.Timestamp <= 0 {
		return fmt.Errorf("timestamp: must be positive")
	}
	return nil
}
