package service

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/gradeflow/gradeflow-backend/internal/config"
	"github.com/gradeflow/gradeflow-backend/internal/model"
	"github.com/gradeflow/gradeflow-backend/internal/repository"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// NotificationService queues outbound notifications and reads delivered
// ones. Sends go through Redis; the notification worker persists them.
type NotificationService struct {
	notifications *repository.NotificationRepository
	rdb           *redis.Client
	log           zerolog.Logger
}

// NewNotificationService creates a new NotificationService.
func NewNotificationService(notifications *repository.NotificationRepository, rdb *redis.Client, log zerolog.Logger) *NotificationService {
	return &NotificationService{
		notifications: notifications,
		rdb:           rdb,
		log:           log.With().Str("component", "notification_service").Logger(),
	}
}

// NotifyGradeRelease queues a grade-release notice for the student.
func (s *NotificationService) NotifyGradeRelease(ctx context.Context, note model.GradeReleaseNote) error {
	payload, err := json.Marshal(note)
	if err != nil {
		return err
	}
	return s.rdb.LPush(ctx, config.WorkerKey.NotifyGradeReleaseQueue, payload).Err()
}

// ListForUser returns the most recent notifications delivered to a user.
func (s *NotificationService) ListForUser(ctx context.Context, userID uuid.UUID, limit int) ([]model.Notification, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.notifications.ListByUser(ctx, userID, limit)
}
