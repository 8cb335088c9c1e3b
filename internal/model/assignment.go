package model

import (
	"time"

	"github.com/google/uuid"
)

// AssignmentType enumerates the kinds of gradeable work.
type AssignmentType string

const (
	AssignmentProject AssignmentType = "project"
	AssignmentTask    AssignmentType = "task"
	AssignmentTest    AssignmentType = "test"
)

// GradingSchema enumerates how an assignment is scored.
type GradingSchema string

const (
	GradingPoints     GradingSchema = "points"
	GradingPercentage GradingSchema = "percentage"
	GradingPassFail   GradingSchema = "pass_fail"
)

// Assignment represents a gradeable unit of work owned by a class.
type Assignment struct {
	ID            uuid.UUID      `json:"id"`
	ClassID       uuid.UUID      `json:"class_id"`
	Title         string         `json:"title"`
	Description   string         `json:"description"`
	Type          AssignmentType `json:"type"`
	DueAt         time.Time      `json:"due_at"`
	PublishAt     *time.Time     `json:"publish_at,omitempty"`
	GradingSchema GradingSchema  `json:"grading_schema"`
	MaxPoints     float64        `json:"max_points"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

// CreateAssignmentRequest is the payload for creating an assignment.
type CreateAssignmentRequest struct {
	Title         string         `json:"title" binding:"required,min=2,max=200"`
	Description   string         `json:"description" binding:"omitempty,max=5000"`
	Type          AssignmentType `json:"type" binding:"omitempty,oneof=project task test"`
	DueAt         time.Time      `json:"due_at" binding:"required"`
	PublishAt     *time.Time     `json:"publish_at" binding:"omitempty"`
	GradingSchema GradingSchema  `json:"grading_schema" binding:"omitempty,oneof=points percentage pass_fail"`
	MaxPoints     *float64       `json:"max_points" binding:"omitempty,gt=0"`
}

// UpdateAssignmentRequest is the payload for partially updating an assignment.
type UpdateAssignmentRequest struct {
	Title         *string        `json:"title" binding:"omitempty,min=2,max=200"`
	Description   *string        `json:"description" binding:"omitempty,max=5000"`
	Type          AssignmentType `json:"type" binding:"omitempty,oneof=project task test"`
	DueAt         *time.Time     `json:"due_at" binding:"omitempty"`
	PublishAt     *time.Time     `json:"publish_at" binding:"omitempty"`
	GradingSchema GradingSchema  `json:"grading_schema" binding:"omitempty,oneof=points percentage pass_fail"`
	MaxPoints     *float64       `json:"max_points" binding:"omitempty,gt=0"`
}
