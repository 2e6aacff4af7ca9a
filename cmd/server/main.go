package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/nandanugg/hushbot/config"
	"github.com/nandanugg/hushbot/module/hushbot"
)

func main() {
	cfg := config.Load()

	logger, err := config.NewLogger(cfg)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := config.NewPostgres(cfg)
	if err != nil {
		logger.Fatal("postgres", zap.Error(err))
	}
	defer func() { _ = db.Close() }()

	amqpConn, err := config.NewRabbitMQ(cfg)
	if err != nil {
		logger.Fatal("rabbitmq", zap.Error(err))
	}
	defer func() { _ = amqpConn.Close() }()

	mqttClient, err := config.NewMQTT(cfg)
	if err != nil {
		logger.Fatal("mqtt", zap.Error(err))
	}
	defer mqttClient.Disconnect(250)

	health := config.NewHealthChecker(db, amqpConn, mqttClient)
	opts := hushbot.Options{
		DeviceID:               cfg.DeviceID,
		StoreDriver:            cfg.StoreDriver,
		MockLocationEnabled:    cfg.MockLocationEnabled,
		PermissionPollInterval: cfg.PermissionPollInterval,
		Logger:                 logger,
	}

	switch cfg.StoreDriver {
	case config.StoreRedis:
		var client *goredis.Client
		client, err = config.NewRedis(cfg)
		if err != nil {
			logger.Fatal("redis", zap.Error(err))
		}
		defer func() { _ = client.Close() }()
		opts.Redis = client
		health.WithRedis(client)
	case config.StoreSQLite:
		var sqliteDB *sql.DB
		sqliteDB, err = config.NewSQLite(cfg)
		if err != nil {
			logger.Fatal("sqlite", zap.Error(err))
		}
		defer func() { _ = sqliteDB.Close() }()
		opts.SQLite = sqliteDB
		health.WithSQLite(sqliteDB)
	}

	seed, err := config.LoadGeofenceSeed(cfg.GeofenceSeedFile)
	if err != nil {
		logger.Fatal("geofence seed", zap.Error(err))
	}

	hushbotModule, err := hushbot.Build(ctx, db, amqpConn, mqttClient, opts)
	if err != nil {
		logger.Fatal("hushbot module", zap.Error(err))
	}
	defer hushbotModule.Close()

	if err := hushbotModule.StartSubscribers(ctx); err != nil {
		logger.Fatal("start subscribers", zap.Error(err))
	}

	if err := hushbotModule.Init(ctx, seed); err != nil {
		logger.Fatal("init", zap.Error(err))
	}

	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(logger))

	health.Register(r)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	hushbotModule.RegisterRoutes(&r.RouterGroup)

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("listening", zap.String("addr", srv.Addr), zap.String("device_id", cfg.DeviceID))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("server shutdown", zap.Error(err))
	}
}

func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("error", c.Errors.String()))
			logger.Error("request", fields...)
			return
		}
		logger.Debug("request", fields...)
	}
}
