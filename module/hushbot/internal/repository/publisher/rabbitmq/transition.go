package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/nandanugg/hushbot/module/hushbot/domain"
	"github.com/nandanugg/hushbot/module/hushbot/internal/repository/publisher"
)

var _ publisher.TransitionPublisher = (*TransitionPublisher)(nil)

const (
	ExchangeName = "hushbot.events"
	QueueName    = "geofence_transitions"
)

type amqpChannel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

type TransitionPublisher struct {
	ch amqpChannel
}

// DeclareTopology declares the fanout exchange and the durable transition
// queue bound to it.
func DeclareTopology(ch *amqp.Channel) error {
	if err := ch.ExchangeDeclare(ExchangeName, "fanout", true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}

	if _, err := ch.QueueDeclare(QueueName, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}

	if err := ch.QueueBind(QueueName, "", ExchangeName, false, nil); err != nil {
		return fmt.Errorf("bind queue: %w", err)
	}
	return nil
}

func NewTransitionPublisher(conn *amqp.Connection) (*TransitionPublisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("rabbitmq channel: %w", err)
	}

	if err := DeclareTopology(ch); err != nil {
		return nil, err
	}

	return &TransitionPublisher{ch: ch}, nil
}

type transitionMessage struct {
	RegionNames []string              `json:"region_names"`
	Kind        domain.TransitionKind `json:"kind"`
	Location    transitionLocation    `json:"location"`
	Timestamp   int64                 `json:"timestamp"`
	Error       string                `json:"error,omitempty"`
}

type transitionLocation struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

func (p *TransitionPublisher) PublishTransition(ctx context.Context, event *domain.TransitionEvent) error {
	body, err := EncodeTransition(event)
	if err != nil {
		return err
	}

	return p.ch.PublishWithContext(ctx, ExchangeName, "", false, false, amqp.Publishing{
		ContentType: "application/json",
		Body:        body,
	})
}

func EncodeTransition(event *domain.TransitionEvent) ([]byte, error) {
	msg := transitionMessage{
		RegionNames: event.RegionNames,
		Kind:        event.Kind,
		Location: transitionLocation{
			Latitude:  event.Location.Lat,
			Longitude: event.Location.Lon,
		},
		Timestamp: event.Timestamp,
		Error:     event.Error,
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("marshal transition: %w", err)
	}
	return body, nil
}

func DecodeTransition(body []byte) (*domain.TransitionEvent, error) {
	var msg transitionMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		return nil, fmt.Errorf("unmarshal transition: %w", err)
	}
	return &domain.TransitionEvent{
		RegionNames: msg.RegionNames,
		Kind:        msg.Kind,
		Location: domain.Location{
			Lat: msg.Location.Latitude,
			Lon: msg.Location.Longitude,
		},
		Timestamp: msg.Timestamp,
		Error:     msg.Error,
	}, nil
}
