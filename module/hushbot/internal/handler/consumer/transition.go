package consumer

import (
	"context"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/nandanugg/hushbot/module/hushbot/domain"
	"github.com/nandanugg/hushbot/module/hushbot/internal/repository/publisher/rabbitmq"
)

type transitionHandler interface {
	Handle(ctx context.Context, event *domain.TransitionEvent)
}

// TransitionConsumer delivers region transition events from the durable
// queue to the transition handler, one at a time.
type TransitionConsumer struct {
	conn    *amqp.Connection
	ch      *amqp.Channel
	handler transitionHandler
	log     *zap.Logger
	done    chan struct{}
}

func NewTransitionConsumer(conn *amqp.Connection, handler transitionHandler, log *zap.Logger) *TransitionConsumer {
	return &TransitionConsumer{
		conn:    conn,
		handler: handler,
		log:     log,
		done:    make(chan struct{}),
	}
}

func (c *TransitionConsumer) Start(ctx context.Context) error {
	ch, err := c.conn.Channel()
	if err != nil {
		return fmt.Errorf("rabbitmq channel: %w", err)
	}

	if err := rabbitmq.DeclareTopology(ch); err != nil {
		_ = ch.Close()
		return err
	}

	if err := ch.Qos(1, 0, false); err != nil {
		_ = ch.Close()
		return fmt.Errorf("qos: %w", err)
	}

	msgs, err := ch.Consume(rabbitmq.QueueName, "", false, false, false, false, nil)
	if err != nil {
		_ = ch.Close()
		return fmt.Errorf("consume: %w", err)
	}
	c.ch = ch

	c.log.Info("consuming transitions", zap.String("queue", rabbitmq.QueueName))
	go c.run(ctx, msgs)
	return nil
}

func (c *TransitionConsumer) run(ctx context.Context, msgs <-chan amqp.Delivery) {
	defer close(c.done)
	for msg := range msgs {
		c.handleDelivery(ctx, msg)
	}
	c.log.Info("transition consumer stopped")
}

func (c *TransitionConsumer) handleDelivery(ctx context.Context, msg amqp.Delivery) {
	event, err := rabbitmq.DecodeTransition(msg.Body)
	if err != nil {
		c.log.Warn("invalid transition message", zap.Error(err))
		if err := msg.Nack(false, false); err != nil {
			c.log.Error("nack transition", zap.Error(err))
		}
		return
	}

	c.handler.Handle(ctx, event)

	if err := msg.Ack(false); err != nil {
		c.log.Error("ack transition", zap.Error(err))
	}
}

// Close stops consuming and waits for the in-flight delivery to finish.
func (c *TransitionConsumer) Close() error {
	if c.ch == nil {
		return nil
	}
	err := c.ch.Close()
	<-c.done
	return err
}
