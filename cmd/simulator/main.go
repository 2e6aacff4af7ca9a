package main

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	mqtt "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"

	"github.com/nandanugg/hushbot/module/hushbot/domain"
)

const metersPerDegree = 111000

type locationMessage struct {
	DeviceID  string  `json:"device_id"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Accuracy  float64 `json:"accuracy"`
	Timestamp int64   `json:"timestamp"`
}

type commandMessage struct {
	Type   string                     `json:"type"`
	Filter *domain.InterruptionFilter `json:"filter,omitempty"`
	Screen domain.SettingsScreen      `json:"screen,omitempty"`
}

type StateFlags struct {
	APILevel           int  `help:"Reported platform API level." default:"34"`
	LocationPermission bool `help:"Report location permission as granted." default:"true" negatable:""`
	PolicyAccess       bool `help:"Report DND policy access as granted." default:"true" negatable:""`
	MockAllowed        bool `help:"Report the mock location developer option as on." negatable:""`
	Filter             int  `help:"Reported interruption filter (1 all, 2 priority, 3 none, 4 alarms)." default:"1"`
}

func (f StateFlags) state(deviceID string) domain.DeviceState {
	return domain.DeviceState{
		DeviceID:            deviceID,
		APILevel:            f.APILevel,
		LocationPermission:  f.LocationPermission,
		PolicyAccess:        f.PolicyAccess,
		MockLocationAllowed: f.MockAllowed,
		InterruptionFilter:  domain.InterruptionFilter(f.Filter),
		ReportedAt:          time.Now(),
	}
}

var CLI struct {
	Broker   string `help:"MQTT broker URL." default:"tcp://localhost:1883" env:"MQTT_BROKER"`
	DeviceID string `help:"Device to simulate." default:"device-1" env:"DEVICE_ID"`
	Verbose  bool   `short:"v" help:"Enable debug logging."`

	Walk struct {
		Lat      float64       `help:"Center latitude." required:""`
		Lon      float64       `help:"Center longitude." required:""`
		Orbit    float64       `help:"Orbit radius in meters around the center; 0 stays put." default:"0"`
		Points   int           `help:"Readings per orbit." default:"12"`
		Interval time.Duration `help:"Time between readings." default:"5s"`
		Count    int           `help:"Readings to publish; 0 runs until interrupted." default:"0"`
		Accuracy float64       `help:"Reported accuracy in meters." default:"10"`
	} `cmd:"" help:"Publish location readings around a point."`

	State struct {
		Device StateFlags `embed:""`
	} `cmd:"" help:"Publish the retained device state once."`

	Agent struct {
		Device StateFlags `embed:""`
	} `cmd:"" help:"Act as the device agent: publish state, apply commands and print notifications."`
}

func main() {
	kctx := kong.Parse(&CLI, kong.Description("Simulates the hushbot device agent over MQTT."))

	logger, err := newLogger(CLI.Verbose)
	kctx.FatalIfErrorf(err)
	defer func() { _ = logger.Sync() }()

	client, err := connect(CLI.Broker, "hushbot-simulator-"+CLI.DeviceID)
	kctx.FatalIfErrorf(err)
	defer client.Disconnect(250)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	switch kctx.Command() {
	case "walk":
		err = runWalk(ctx, client, logger)
	case "state":
		err = publishState(client, CLI.State.Device.state(CLI.DeviceID))
		if err == nil {
			logger.Info("state published", zap.String("topic", domain.StateTopic(CLI.DeviceID)))
		}
	case "agent":
		err = runAgent(ctx, client, logger, CLI.Agent.Device.state(CLI.DeviceID))
	}
	kctx.FatalIfErrorf(err)
}

func newLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	if !verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	return cfg.Build()
}

func connect(broker, clientID string) (mqtt.Client, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("mqtt connect: %w", token.Error())
	}
	return client, nil
}

func publish(client mqtt.Client, topic string, retained bool, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return err
	}
	token := client.Publish(topic, 1, retained, payload)
	token.Wait()
	return token.Error()
}

func publishState(client mqtt.Client, state domain.DeviceState) error {
	return publish(client, domain.StateTopic(state.DeviceID), true, state)
}

func runWalk(ctx context.Context, client mqtt.Client, logger *zap.Logger) error {
	w := CLI.Walk
	if w.Points <= 0 {
		w.Points = 1
	}
	topic := domain.LocationTopic(CLI.DeviceID)

	ticker := time.NewTicker(w.Interval)
	defer ticker.Stop()

	for i := 0; w.Count == 0 || i < w.Count; i++ {
		lat, lon := orbitPoint(w.Lat, w.Lon, w.Orbit, 2*math.Pi*float64(i)/float64(w.Points))
		msg := locationMessage{
			DeviceID:  CLI.DeviceID,
			Latitude:  lat,
			Longitude: lon,
			Accuracy:  w.Accuracy,
			Timestamp: time.Now().Unix(),
		}
		if err := publish(client, topic, false, msg); err != nil {
			return fmt.Errorf("publish location: %w", err)
		}
		logger.Info("location published", zap.Float64("lat", lat), zap.Float64("lon", lon))

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
	return nil
}

// orbitPoint returns the point meters away from the center at the given
// bearing in radians, measured clockwise from north.
func orbitPoint(lat, lon, meters, bearing float64) (float64, float64) {
	dLat := meters * math.Cos(bearing) / metersPerDegree
	dLon := meters * math.Sin(bearing) / (metersPerDegree * math.Cos(lat*math.Pi/180))
	return lat + dLat, lon + dLon
}

func runAgent(ctx context.Context, client mqtt.Client, logger *zap.Logger, state domain.DeviceState) error {
	var mu sync.Mutex
	if err := publishState(client, state); err != nil {
		return fmt.Errorf("publish state: %w", err)
	}

	onCommand := func(_ mqtt.Client, msg mqtt.Message) {
		var cmd commandMessage
		if err := json.Unmarshal(msg.Payload(), &cmd); err != nil {
			logger.Warn("invalid command", zap.Error(err))
			return
		}

		switch cmd.Type {
		case "set_interruption_filter":
			if cmd.Filter == nil {
				logger.Warn("set_interruption_filter without filter")
				return
			}
			mu.Lock()
			state.InterruptionFilter = *cmd.Filter
			state.ReportedAt = time.Now()
			next := state
			mu.Unlock()
			if err := publishState(client, next); err != nil {
				logger.Error("publish state", zap.Error(err))
				return
			}
			logger.Info("interruption filter set", zap.Int("filter", int(*cmd.Filter)))
		case "open_settings":
			logger.Info("settings screen opened", zap.String("screen", string(cmd.Screen)))
		default:
			logger.Warn("unknown command", zap.String("type", cmd.Type))
		}
	}

	onNotify := func(_ mqtt.Client, msg mqtt.Message) {
		var n domain.Notification
		if err := json.Unmarshal(msg.Payload(), &n); err != nil {
			logger.Warn("invalid notification", zap.Error(err))
			return
		}
		logger.Info(string(n.Kind), zap.String("title", n.Title), zap.String("message", n.Message))
	}

	if token := client.Subscribe(domain.CommandTopic(state.DeviceID), 1, onCommand); token.Wait() && token.Error() != nil {
		return fmt.Errorf("subscribe commands: %w", token.Error())
	}
	if token := client.Subscribe(domain.NotifyTopic(state.DeviceID), 1, onNotify); token.Wait() && token.Error() != nil {
		return fmt.Errorf("subscribe notifications: %w", token.Error())
	}

	logger.Info("agent running", zap.String("device_id", state.DeviceID))
	<-ctx.Done()
	return nil
}
