package notify

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/keerthi-manne/EL-management-System/internal/application/ports"
	"github.com/keerthi-manne/EL-management-System/internal/domain"
)

// FeedConfig holds the polling knobs for the live feed.
type FeedConfig struct {
	// PollInterval is the sleep between store polls.
	PollInterval time.Duration
	// BatchSize caps rows emitted per poll.
	BatchSize int
}

// DefaultFeedConfig matches the historical behavior: 2s polls, 5 rows.
func DefaultFeedConfig() FeedConfig {
	return FeedConfig{PollInterval: 2 * time.Second, BatchSize: 5}
}

// Emitter receives feed events. Any returned error tears the feed down.
type Emitter interface {
	// Notification pushes one unread row.
	Notification(n domain.Notification) error
	// Heartbeat marks an idle poll so the connection stays distinguishable
	// from a dead one.
	Heartbeat() error
	// Error reports a terminal store failure before the feed closes.
	Error(msg string) error
}

// Feed streams unread notifications by polling the store. The watermark
// (highest id emitted) lives on the connection and starts at zero, so a
// fresh connection re-delivers every currently-unread row across all
// users; recipients filter client-side. That trust boundary is inherited
// from the original deployment.
type Feed struct {
	notifications ports.NotificationRepository
	cfg           FeedConfig
	log           zerolog.Logger
}

// NewFeed builds a feed poller. Zero config fields fall back to defaults.
func NewFeed(notifications ports.NotificationRepository, cfg FeedConfig, log zerolog.Logger) *Feed {
	def := DefaultFeedConfig()
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = def.PollInterval
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = def.BatchSize
	}
	return &Feed{notifications: notifications, cfg: cfg, log: log}
}

// Run polls until ctx is canceled (client disconnect) or the store or
// emitter fails. It never completes naturally.
func (f *Feed) Run(ctx context.Context, e Emitter) error {
	var lastID int64
	for {
		rows, err := f.notifications.ListUnreadAfter(ctx, lastID, f.cfg.BatchSize)
		if err != nil {
			f.log.Error().Err(err).Msg("feed poll failed")
			_ = e.Error("stream error")
			return err
		}
		if len(rows) == 0 {
			if err := e.Heartbeat(); err != nil {
				return err
			}
		}
		for _, n := range rows {
			if err := e.Notification(n); err != nil {
				return err
			}
			lastID = n.ID
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(f.cfg.PollInterval):
		}
	}
}
