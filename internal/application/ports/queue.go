package ports

import (
	"context"

	"github.com/keerthi-manne/EL-management-System/internal/domain"
)

// TaskEnqueuer enqueues async delivery tasks (email/push mirror of the
// in-app notification). Enqueue failures are logged by callers, never
// surfaced to the business workflow.
type TaskEnqueuer interface {
	EnqueueDeliverNotification(ctx context.Context, n domain.Notification) error
}
