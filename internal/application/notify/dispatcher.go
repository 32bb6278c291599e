package notify

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/keerthi-manne/EL-management-System/internal/application/ports"
	"github.com/keerthi-manne/EL-management-System/internal/domain"
)

// Dispatcher is the single write path for notifications. Delivery is
// best-effort and at-most-once: a failed write is logged and dropped so
// the business transaction that triggered it still succeeds.
type Dispatcher struct {
	notifications ports.NotificationRepository
	enqueuer      ports.TaskEnqueuer
	log           zerolog.Logger
}

// NewDispatcher builds a dispatcher. enqueuer may be a noop when no
// queue backend is configured.
func NewDispatcher(notifications ports.NotificationRepository, enqueuer ports.TaskEnqueuer, log zerolog.Logger) *Dispatcher {
	return &Dispatcher{notifications: notifications, enqueuer: enqueuer, log: log}
}

// Dispatch persists one Unread notification for the recipient and queues
// its out-of-band delivery. It never returns an error.
func (d *Dispatcher) Dispatch(ctx context.Context, recipientID, message, typ string, data domain.NotificationData) {
	if typ == "" {
		typ = domain.NotificationTypeInfo
	}
	n := &domain.Notification{
		UserID:  recipientID,
		Message: message,
		Type:    typ,
		Data:    data,
		Status:  domain.NotificationUnread,
	}
	if err := d.notifications.Create(ctx, n); err != nil {
		d.log.Warn().Err(err).
			Str("recipient", recipientID).
			Str("type", typ).
			Msg("notification write failed; dropping")
		return
	}
	if err := d.enqueuer.EnqueueDeliverNotification(ctx, *n); err != nil {
		d.log.Warn().Err(err).
			Int64("notification_id", n.ID).
			Msg("enqueue notification delivery failed")
	}
}
