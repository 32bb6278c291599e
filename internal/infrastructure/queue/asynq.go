package queue

import (
	"context"
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"

	"github.com/keerthi-manne/EL-management-System/internal/application/ports"
	"github.com/keerthi-manne/EL-management-System/internal/domain"
)

const TypeDeliverNotification = "notification:deliver"

// deliverPayload is the task body for TypeDeliverNotification.
type deliverPayload struct {
	NotificationID int64     `json:"notification_id"`
	UserID         string    `json:"user_id"`
	Message        string    `json:"message"`
	Type           string    `json:"type"`
	CreatedAt      time.Time `json:"created_at"`
}

type TaskEnqueuer struct {
	client *asynq.Client
	log    zerolog.Logger
}

func NewAsynqEnqueuer(redisOpt asynq.RedisClientOpt, log zerolog.Logger) (*TaskEnqueuer, error) {
	client := asynq.NewClient(redisOpt)
	return &TaskEnqueuer{client: client, log: log}, nil
}

func (q *TaskEnqueuer) Close() error {
	return q.client.Close()
}

// EnqueueDeliverNotification mirrors a stored notification onto the
// delivery queue. The in-app row is already committed; queue failures
// are reported but never undo it.
func (q *TaskEnqueuer) EnqueueDeliverNotification(ctx context.Context, n domain.Notification) error {
	payload, _ := json.Marshal(deliverPayload{
		NotificationID: n.ID,
		UserID:         n.UserID,
		Message:        n.Message,
		Type:           n.Type,
		CreatedAt:      n.CreatedAt,
	})
	task := asynq.NewTask(TypeDeliverNotification, payload)
	_, err := q.client.EnqueueContext(ctx, task)
	if err != nil {
		q.log.Warn().Err(err).Int64("notification_id", n.ID).Msg("enqueue notification delivery failed")
		return err
	}
	return nil
}

var _ ports.TaskEnqueuer = (*TaskEnqueuer)(nil)
