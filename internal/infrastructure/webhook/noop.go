package webhook

import (
	"context"

	"github.com/keerthi-manne/EL-management-System/internal/application/ports"
)

// NoopEmitter discards notification events when WEBHOOK_URL is not set.
type NoopEmitter struct{}

// NewNoopEmitter returns a WebhookEmitter that discards all events.
func NewNoopEmitter() *NoopEmitter {
	return &NoopEmitter{}
}

// Emit implements ports.WebhookEmitter.
func (e *NoopEmitter) Emit(ctx context.Context, event ports.NotificationEvent) error {
	return nil
}

var _ ports.WebhookEmitter = (*NoopEmitter)(nil)
