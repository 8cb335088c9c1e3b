package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gradeflow/gradeflow-backend/internal/config"
	"github.com/gradeflow/gradeflow-backend/internal/model"
	"github.com/gradeflow/gradeflow-backend/internal/repository"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// NotificationWorker consumes notify_grade_release_queue and persists
// delivered notifications to PostgreSQL.
type NotificationWorker struct {
	notifications *repository.NotificationRepository
	rdb           *redis.Client
	log           zerolog.Logger
}

// NewNotificationWorker creates a new NotificationWorker.
func NewNotificationWorker(notifications *repository.NotificationRepository, rdb *redis.Client, log zerolog.Logger) *NotificationWorker {
	return &NotificationWorker{
		notifications: notifications,
		rdb:           rdb,
		log:           log.With().Str("component", "notification_worker").Logger(),
	}
}

// Start begins the infinite worker loop. Call in a goroutine.
func (w *NotificationWorker) Start(ctx context.Context) {
	w.log.Info().Msg("Worker started")

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Worker stopping...")
			// Drain remaining items before exit.
			w.drain(context.Background())
			w.log.Info().Msg("Worker stopped")
			return
		default:
			w.processNext(ctx)
		}
	}
}

func (w *NotificationWorker) processNext(ctx context.Context) {
	// BLPop blocks until an item is available or timeout (1 second).
	result, err := w.rdb.BLPop(ctx, time.Second, config.WorkerKey.NotifyGradeReleaseQueue).Result()
	if err != nil {
		if err != redis.Nil && ctx.Err() == nil {
			w.log.Error().Err(err).Msg("BLPop error")
		}
		return
	}

	if len(result) < 2 {
		return
	}

	if err := w.deliver(ctx, []byte(result[1])); err != nil {
		w.log.Error().Err(err).Msg("Deliver error, retrying in 5s")
		// Push back to queue for retry.
		w.rdb.RPush(ctx, config.WorkerKey.NotifyGradeReleaseQueue, result[1])
		time.Sleep(5 * time.Second)
	}
}

func (w *NotificationWorker) deliver(ctx context.Context, raw []byte) error {
	var note model.GradeReleaseNote
	if err := json.Unmarshal(raw, &note); err != nil {
		// A payload that never parses would loop forever; log and drop it.
		w.log.Error().Err(err).Msg("Unmarshal error, dropping item")
		return nil
	}

	return w.notifications.InsertSent(ctx, note.StudentID, "grade_release",
		json.RawMessage(raw), model.ChannelInApp, time.Now().UTC())
}

// drain processes all remaining items in the queue before shutdown.
func (w *NotificationWorker) drain(ctx context.Context) {
	drained := 0
	for {
		result, err := w.rdb.LPop(ctx, config.WorkerKey.NotifyGradeReleaseQueue).Result()
		if err != nil {
			break
		}

		if err := w.deliver(ctx, []byte(result)); err != nil {
			w.log.Error().Err(err).Msg("Drain deliver error")
			w.rdb.RPush(ctx, config.WorkerKey.NotifyGradeReleaseQueue, result)
			break
		}
		drained++
	}

	if drained > 0 {
		w.log.Info().Int("count", drained).Msg("Drained remaining items")
	}
}
