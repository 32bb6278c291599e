package queue

import (
	"context"

	"github.com/keerthi-manne/EL-management-System/internal/application/ports"
	"github.com/keerthi-manne/EL-management-System/internal/domain"
)

// NoopEnqueuer is a no-op enqueuer when Redis/Asynq is not configured.
type NoopEnqueuer struct{}

func NewNoopEnqueuer() *NoopEnqueuer {
	return &NoopEnqueuer{}
}

func (q *NoopEnqueuer) EnqueueDeliverNotification(ctx context.Context, n domain.Notification) error {
	return nil
}

var _ ports.TaskEnqueuer = (*NoopEnqueuer)(nil)
