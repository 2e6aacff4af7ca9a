package publisher

import (
	"context"

	"github.com/nandanugg/hushbot/module/hushbot/domain"
)

type TransitionPublisher interface {
	PublishTransition(ctx context.Context, event *domain.TransitionEvent) error
}
