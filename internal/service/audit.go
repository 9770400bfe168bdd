package service

import (
	"context"
	"time"

	"user_manager/internal/logger"
	"user_manager/internal/models"
	"user_manager/internal/repository"

	"github.com/google/uuid"
)

// recorder stores an audit event and announces it on the feed. Neither step
// can fail the mutation that triggered it.
type recorder struct {
	events repository.EventRepo
	feed   *EventFeed
	log    *logger.Logger
	now    func() time.Time
}

func newRecorder(events repository.EventRepo, feed *EventFeed, log *logger.Logger) recorder {
	if log == nil {
		log = logger.Nop()
	}
	return recorder{events: events, feed: feed, log: log, now: time.Now}
}

func (r recorder) record(ctx context.Context, e models.UserEvent) {
	e.EventID = uuid.NewString()
	e.OccurredAt = r.now().UTC()

	if r.events != nil {
		if err := r.events.Append(ctx, e); err != nil {
			r.log.Warnw("audit_append_failed", "type", e.Type, "user_id", e.UserID, "err", err)
		}
	}
	if r.feed != nil {
		if dropped := r.feed.Publish(e); dropped > 0 {
			r.log.Debugw("feed_subscribers_lagging", "type", e.Type, "dropped", dropped)
		}
	}
}
