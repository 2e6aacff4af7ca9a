package service

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nandanugg/hushbot/module/hushbot/domain"
)

type notifier interface {
	Notify(ctx context.Context, n domain.Notification) error
}

// messenger surfaces user-visible messages on the device. Delivery failures
// are logged and dropped.
type messenger struct {
	notifier notifier
	log      *zap.Logger
}

func (m messenger) toast(ctx context.Context, message string, long bool) {
	m.send(ctx, domain.Notification{
		ID:      uuid.NewString(),
		Kind:    domain.NotificationToast,
		Message: message,
		Long:    long,
	})
}

func (m messenger) notify(ctx context.Context, title, message string) {
	m.send(ctx, domain.Notification{
		ID:      uuid.NewString(),
		Kind:    domain.NotificationPost,
		Title:   title,
		Message: message,
	})
}

func (m messenger) send(ctx context.Context, n domain.Notification) {
	if m.notifier == nil {
		return
	}
	if err := m.notifier.Notify(ctx, n); err != nil {
		m.log.Warn("deliver notification", zap.String("kind", string(n.Kind)), zap.Error(err))
	}
}
