package config

import (
	"database/sql"
	"net/http"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/gin-gonic/gin"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
)

type HealthChecker struct {
	db       *sql.DB
	amqpConn *amqp.Connection
	mqtt     mqtt.Client
	redis    *redis.Client
	sqlite   *sql.DB
}

func NewHealthChecker(db *sql.DB, amqpConn *amqp.Connection, mqttClient mqtt.Client) *HealthChecker {
	return &HealthChecker{db: db, amqpConn: amqpConn, mqtt: mqttClient}
}

// WithRedis adds the geofence store's Redis client to the report.
func (h *HealthChecker) WithRedis(client *redis.Client) *HealthChecker {
	h.redis = client
	return h
}

// WithSQLite adds the geofence store's SQLite database to the report.
func (h *HealthChecker) WithSQLite(db *sql.DB) *HealthChecker {
	h.sqlite = db
	return h
}

func (h *HealthChecker) Register(r *gin.Engine) {
	r.GET("/healthz", h.Handle)
}

func (h *HealthChecker) Handle(c *gin.Context) {
	status := http.StatusOK
	deps := gin.H{}
	ctx := c.Request.Context()

	down := func(name, reason string) {
		deps[name] = gin.H{"status": "down", "error": reason}
		status = http.StatusServiceUnavailable
	}
	up := func(name string) {
		deps[name] = gin.H{"status": "up"}
	}

	if err := h.db.PingContext(ctx); err != nil {
		down("postgres", err.Error())
	} else {
		up("postgres")
	}

	if h.amqpConn.IsClosed() {
		down("rabbitmq", "connection closed")
	} else {
		up("rabbitmq")
	}

	if !h.mqtt.IsConnected() {
		down("mqtt", "not connected")
	} else {
		up("mqtt")
	}

	if h.redis != nil {
		if err := h.redis.Ping(ctx).Err(); err != nil {
			down("redis", err.Error())
		} else {
			up("redis")
		}
	}

	if h.sqlite != nil {
		if err := h.sqlite.PingContext(ctx); err != nil {
			down("sqlite", err.Error())
		} else {
			up("sqlite")
		}
	}

	overall := "healthy"
	if status != http.StatusOK {
		overall = "unhealthy"
	}

	c.JSON(status, gin.H{
		"status":       overall,
		"dependencies": deps,
	})
}
