package hushbot

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/gin-gonic/gin"
	amqp "github.com/rabbitmq/amqp091-go"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/nandanugg/hushbot/module/hushbot/domain"
	"github.com/nandanugg/hushbot/module/hushbot/internal/handler/consumer"
	handler "github.com/nandanugg/hushbot/module/hushbot/internal/handler/http"
	"github.com/nandanugg/hushbot/module/hushbot/internal/handler/subscriber"
	"github.com/nandanugg/hushbot/module/hushbot/internal/repository/database"
	"github.com/nandanugg/hushbot/module/hushbot/internal/repository/database/postgres"
	"github.com/nandanugg/hushbot/module/hushbot/internal/repository/database/redis"
	"github.com/nandanugg/hushbot/module/hushbot/internal/repository/database/sqlite"
	devicemqtt "github.com/nandanugg/hushbot/module/hushbot/internal/repository/device/mqtt"
	"github.com/nandanugg/hushbot/module/hushbot/internal/repository/publisher/rabbitmq"
	"github.com/nandanugg/hushbot/module/hushbot/service"
)

// Options carries the per-install settings. Redis or SQLite must be set when
// StoreDriver selects them.
type Options struct {
	DeviceID               string
	StoreDriver            string
	Redis                  *goredis.Client
	SQLite                 *sql.DB
	MockLocationEnabled    bool
	PermissionPollInterval time.Duration
	Logger                 *zap.Logger
}

type Module struct {
	LocationSvc *service.LocationService
	GeofenceSvc *service.GeofenceService
	Monitor     *service.RegionMonitor

	handlers          []routeRegistrar
	locationSub       *subscriber.LocationSubscriber
	stateSub          *subscriber.DeviceStateSubscriber
	transitionConsume *consumer.TransitionConsumer
	watcher           *service.PermissionWatcher
	log               *zap.Logger
}

type routeRegistrar interface {
	Register(r *gin.RouterGroup)
}

func Build(ctx context.Context, db *sql.DB, amqpConn *amqp.Connection, mqttClient mqtt.Client, opts Options) (*Module, error) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	if err := postgres.EnsureSchema(ctx, db); err != nil {
		return nil, err
	}

	kv, err := newKVStore(db, opts)
	if err != nil {
		return nil, err
	}

	transitionPub, err := rabbitmq.NewTransitionPublisher(amqpConn)
	if err != nil {
		return nil, fmt.Errorf("transition publisher: %w", err)
	}

	gateway := devicemqtt.NewGateway(mqttClient, opts.DeviceID)

	locationSvc := service.NewLocationService(postgres.NewLocationRepo(db))
	monitor := service.NewRegionMonitor(transitionPub, log.Named("monitor"))
	subs := service.NewSubscriptionManager(monitor, gateway, gateway, log.Named("subscription"))
	geofenceSvc := service.NewGeofenceService(database.NewGeofenceRepo(kv), subs, gateway, log.Named("geofence"))
	dnd := service.NewDNDController(gateway, log.Named("dnd"))
	transitionHandler := service.NewTransitionHandler(dnd, gateway, log.Named("transition"))
	mockSvc := service.NewMockLocationService(opts.MockLocationEnabled, opts.DeviceID, gateway, monitor, geofenceSvc, gateway, log.Named("mock"))
	statusSvc := service.NewStatusService(opts.DeviceID, geofenceSvc, locationSvc, mockSvc, dnd, log.Named("status"))

	watcher, err := service.NewPermissionWatcher(opts.PermissionPollInterval, dnd, gateway, geofenceSvc, log.Named("permission"))
	if err != nil {
		return nil, fmt.Errorf("permission watcher: %w", err)
	}

	return &Module{
		LocationSvc: locationSvc,
		GeofenceSvc: geofenceSvc,
		Monitor:     monitor,
		handlers: []routeRegistrar{
			handler.NewStatusHandler(statusSvc, dnd),
			handler.NewGeofenceHandler(geofenceSvc, statusSvc),
			handler.NewMockHandler(mockSvc),
			handler.NewLocationHandler(opts.DeviceID, locationSvc),
		},
		locationSub:       subscriber.NewLocationSubscriber(mqttClient, opts.DeviceID, locationSvc, monitor, log.Named("location")),
		stateSub:          subscriber.NewDeviceStateSubscriber(mqttClient, opts.DeviceID, gateway, log.Named("device")),
		transitionConsume: consumer.NewTransitionConsumer(amqpConn, transitionHandler, log.Named("consumer")),
		watcher:           watcher,
		log:               log,
	}, nil
}

func newKVStore(db *sql.DB, opts Options) (database.KVStore, error) {
	switch opts.StoreDriver {
	case "", "postgres":
		return postgres.NewKVRepo(db), nil
	case "redis":
		if opts.Redis == nil {
			return nil, errors.New("redis store selected without a redis client")
		}
		return redis.NewKVRepo(opts.Redis), nil
	case "sqlite":
		if opts.SQLite == nil {
			return nil, errors.New("sqlite store selected without a sqlite database")
		}
		return sqlite.NewKVRepo(opts.SQLite)
	default:
		return nil, fmt.Errorf("unknown store driver %q", opts.StoreDriver)
	}
}

func (m *Module) RegisterRoutes(r *gin.RouterGroup) {
	for _, h := range m.handlers {
		h.Register(r)
	}
}

// StartSubscribers starts the device state subscription first so the
// retained state is cached before locations and transitions arrive.
func (m *Module) StartSubscribers(ctx context.Context) error {
	if err := m.stateSub.Start(); err != nil {
		return fmt.Errorf("device state subscriber: %w", err)
	}
	if err := m.locationSub.Start(); err != nil {
		return fmt.Errorf("location subscriber: %w", err)
	}
	if err := m.transitionConsume.Start(ctx); err != nil {
		return fmt.Errorf("transition consumer: %w", err)
	}
	return nil
}

// Init loads the geofence list, seeding it on first run, and starts the
// permission watcher.
func (m *Module) Init(ctx context.Context, seed []domain.GeofenceRecord) error {
	m.watcher.Baseline()
	if err := m.GeofenceSvc.Init(ctx, seed); err != nil {
		return fmt.Errorf("load geofences: %w", err)
	}
	if err := m.watcher.Start(); err != nil {
		return err
	}
	return nil
}

func (m *Module) Close() {
	if err := m.watcher.Stop(); err != nil {
		m.log.Warn("stop permission watcher", zap.Error(err))
	}
	if err := m.transitionConsume.Close(); err != nil {
		m.log.Warn("close transition consumer", zap.Error(err))
	}
}
