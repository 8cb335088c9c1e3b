package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// NotificationChannel enumerates delivery channels.
type NotificationChannel string

const (
	ChannelEmail NotificationChannel = "email"
	ChannelInApp NotificationChannel = "in_app"
)

// NotificationStatus enumerates delivery states.
type NotificationStatus string

const (
	NotificationPending NotificationStatus = "pending"
	NotificationSent    NotificationStatus = "sent"
	NotificationFailed  NotificationStatus = "failed"
)

// Notification is one queued or delivered message to a user.
type Notification struct {
	ID        uuid.UUID           `json:"id"`
	UserID    uuid.UUID           `json:"user_id"`
	Type      string              `json:"type"`
	Payload   json.RawMessage     `json:"payload"`
	Channel   NotificationChannel `json:"channel"`
	Status    NotificationStatus  `json:"status"`
	SentAt    *time.Time          `json:"sent_at,omitempty"`
	Error     *string             `json:"error,omitempty"`
	CreatedAt time.Time           `json:"created_at"`
	UpdatedAt time.Time           `json:"updated_at"`
}

// GradeReleaseNote is the payload pushed to the notification queue when a
// grade is released.
type GradeReleaseNote struct {
	StudentID       uuid.UUID `json:"student_id"`
	AssignmentTitle string    `json:"assignment_title"`
	ClassID         uuid.UUID `json:"class_id"`
	Score           *float64  `json:"score"`
	LetterGrade     *string   `json:"letter_grade"`
}
