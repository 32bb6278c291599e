package ports

import "context"

// NotificationEvent is the payload forwarded to an external webhook when
// a notification is delivered by the worker.
type NotificationEvent struct {
	NotificationID int64
	UserID         string
	Message        string
	Type           string
}

// WebhookEmitter forwards notification events to an external endpoint.
type WebhookEmitter interface {
	Emit(ctx context.Context, event NotificationEvent) error
}
