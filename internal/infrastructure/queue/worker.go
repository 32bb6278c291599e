package queue

import (
	"context"
	"encoding/json"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"

	"github.com/keerthi-manne/EL-management-System/internal/application/ports"
)

// Worker runs Asynq task handlers for out-of-band notification delivery.
type Worker struct {
	srv     *asynq.Server
	mux     *asynq.ServeMux
	emitter ports.WebhookEmitter
	log     zerolog.Logger
}

// NewWorker creates an Asynq server and registers handlers. Call Run() to start.
func NewWorker(redisOpt asynq.RedisClientOpt, emitter ports.WebhookEmitter, log zerolog.Logger) *Worker {
	srv := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: 2,
		LogLevel:    asynq.InfoLevel,
	})
	mux := asynq.NewServeMux()
	w := &Worker{srv: srv, mux: mux, emitter: emitter, log: log}
	mux.HandleFunc(TypeDeliverNotification, w.handleDeliverNotification)
	return w
}

func (w *Worker) handleDeliverNotification(ctx context.Context, t *asynq.Task) error {
	var p deliverPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		w.log.Error().Err(err).Msg("notification delivery payload invalid")
		return err
	}
	// Dev: log the delivery; production forwards to the configured webhook
	// (email/push gateway) when one is set.
	w.log.Info().
		Int64("notification_id", p.NotificationID).
		Str("user_id", p.UserID).
		Str("type", p.Type).
		Msg("delivering notification")
	if w.emitter == nil {
		return nil
	}
	return w.emitter.Emit(ctx, ports.NotificationEvent{
		NotificationID: p.NotificationID,
		UserID:         p.UserID,
		Message:        p.Message,
		Type:           p.Type,
	})
}

// Run blocks until shutdown. Use Shutdown for graceful stop.
func (w *Worker) Run() error {
	return w.srv.Run(w.mux)
}

// Shutdown stops the worker.
func (w *Worker) Shutdown() {
	w.srv.Shutdown()
}
