package consumer

import (
	"context"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/nandanugg/hushbot/module/hushbot/domain"
	"github.com/nandanugg/hushbot/module/hushbot/internal/repository/publisher/rabbitmq"
)

type mockHandler struct {
	handleFn func(ctx context.Context, event *domain.TransitionEvent)
}

func (m *mockHandler) Handle(ctx context.Context, event *domain.TransitionEvent) {
	m.handleFn(ctx, event)
}

type fakeAcker struct {
	acks    int
	nacks   int
	requeue bool
}

func (f *fakeAcker) Ack(uint64, bool) error { f.acks++; return nil }

func (f *fakeAcker) Nack(_ uint64, _ bool, requeue bool) error {
	f.nacks++
	f.requeue = requeue
	return nil
}

func (f *fakeAcker) Reject(uint64, bool) error { return nil }

func TestHandleDelivery_Success(t *testing.T) {
	var got *domain.TransitionEvent
	c := &TransitionConsumer{
		handler: &mockHandler{handleFn: func(_ context.Context, event *domain.TransitionEvent) {
			got = event
		}},
		log: zap.NewNop(),
	}

	body, err := rabbitmq.EncodeTransition(&domain.TransitionEvent{
		RegionNames: []string{"Home"},
		Kind:        domain.TransitionKindEnter,
		Location:    domain.Location{Lat: 37, Lon: -122},
		Timestamp:   1715003456,
	})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	acker := &fakeAcker{}
	c.handleDelivery(context.Background(), amqp.Delivery{Acknowledger: acker, Body: body})

	if got == nil {
		t.Fatal("expected Handle to be called")
	}
	if got.Kind != domain.TransitionKindEnter || len(got.RegionNames) != 1 || got.RegionNames[0] != "Home" {
		t.Errorf("unexpected event %+v", got)
	}
	if acker.acks != 1 || acker.nacks != 0 {
		t.Errorf("expected one ack, got acks=%d nacks=%d", acker.acks, acker.nacks)
	}
}

func TestHandleDelivery_InvalidBody(t *testing.T) {
	c := &TransitionConsumer{
		handler: &mockHandler{handleFn: func(_ context.Context, _ *domain.TransitionEvent) {
			t.Fatal("Handle should not be called for an invalid body")
		}},
		log: zap.NewNop(),
	}

	acker := &fakeAcker{}
	c.handleDelivery(context.Background(), amqp.Delivery{Acknowledger: acker, Body: []byte("invalid")})

	if acker.nacks != 1 || acker.requeue {
		t.Errorf("expected one nack without requeue, got nacks=%d requeue=%v", acker.nacks, acker.requeue)
	}
	if acker.acks != 0 {
		t.Errorf("expected no ack, got %d", acker.acks)
	}
}
