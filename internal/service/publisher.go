package service

import (
	"context"

	"finbook/internal/amqp"
)

// Publisher emits record mutation events. The AMQP client satisfies it;
// a no-op stands in when messaging is not configured.
type Publisher interface {
	PublishRecordEvent(ctx context.Context, event *amqp.RecordEvent) error
}

// NopPublisher discards every event.
type NopPublisher struct{}

func (NopPublisher) PublishRecordEvent(context.Context, *amqp.RecordEvent) error {
	return nil
}
