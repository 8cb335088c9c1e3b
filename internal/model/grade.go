package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// GradeStatus enumerates the states of a grade record.
type GradeStatus string

const (
	GradeStatusDraft    GradeStatus = "draft"
	GradeStatusPending  GradeStatus = "pending_release"
	GradeStatusReleased GradeStatus = "released"
)

// GradeHistoryEntry is one immutable snapshot appended on every grade
// mutation. The history sequence is never truncated or reordered.
type GradeHistoryEntry struct {
	Status      GradeStatus `json:"status"`
	Score       *float64    `json:"score"`
	LetterGrade *string     `json:"letter_grade"`
	Feedback    string      `json:"feedback"`
	ActorID     *uuid.UUID  `json:"actor_id"`
	ChangedAt   time.Time   `json:"changed_at"`
}

// Grade is the evaluation record for one (assignment, student) pair.
type Grade struct {
	ID           uuid.UUID           `json:"id"`
	AssignmentID uuid.UUID           `json:"assignment_id"`
	StudentID    uuid.UUID           `json:"student_id"`
	Score        *float64            `json:"score"`
	LetterGrade  *string             `json:"letter_grade"`
	Feedback     string              `json:"feedback"`
	Status       GradeStatus         `json:"status"`
	ReleasedAt   *time.Time          `json:"released_at,omitempty"`
	History      []GradeHistoryEntry `json:"history"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
}

// EffectiveStatus reports the status of a student's work on an assignment
// even when no grade row exists yet. It is a tagged value so the "no grade"
// case cannot be confused with a real pending_release grade.
type EffectiveStatus struct {
	HasGrade bool
	Status   GradeStatus
}

// EffectiveStatusOf derives the effective status for an optional grade.
func EffectiveStatusOf(g *Grade) EffectiveStatus {
	if g == nil {
		return EffectiveStatus{}
	}
	return EffectiveStatus{HasGrade: true, Status: g.Status}
}

// MarshalJSON encodes the no-grade variant as the pending_release literal,
// matching what clients already consume.
func (s EffectiveStatus) MarshalJSON() ([]byte, error) {
	status := s.Status
	if !s.HasGrade {
		status = GradeStatusPending
	}
	return []byte(`"` + string(status) + `"`), nil
}

// UnmarshalJSON decodes the wire form. The pending_release literal cannot
// distinguish the no-grade variant from a real pending grade; decoding picks
// the no-grade one, which re-encodes identically.
func (s *EffectiveStatus) UnmarshalJSON(data []byte) error {
	var status GradeStatus
	if err := json.Unmarshal(data, &status); err != nil {
		return err
	}
	s.Status = status
	s.HasGrade = status != GradeStatusPending
	return nil
}

// AssignmentGradeRow is one row of the per-assignment grade listing: every
// student that appears in either the class roster or the grade collection.
type AssignmentGradeRow struct {
	StudentID  uuid.UUID       `json:"student_id"`
	Student    *User           `json:"student"`
	Enrollment *Enrollment     `json:"enrollment"`
	Status     EffectiveStatus `json:"status"`
	Grade      *Grade          `json:"grade"`
}

// ClassSummary is the denormalized class block attached to overview rows.
type ClassSummary struct {
	ClassID           uuid.UUID          `json:"class_id"`
	Title             string             `json:"title"`
	Code              string             `json:"code"`
	PrimaryInstructor *InstructorSummary `json:"primary_instructor"`
}

// InstructorSummary is the minimal instructor projection used in summaries.
type InstructorSummary struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

// AssignmentOverviewRow is one row of a student's cross-class assignment
// feed, ordered by due date.
type AssignmentOverviewRow struct {
	AssignmentID  uuid.UUID       `json:"assignment_id"`
	ClassID       uuid.UUID       `json:"class_id"`
	Title         string          `json:"title"`
	Description   string          `json:"description"`
	DueAt         time.Time       `json:"due_at"`
	PublishAt     *time.Time      `json:"publish_at,omitempty"`
	GradingSchema GradingSchema   `json:"grading_schema"`
	MaxPoints     float64         `json:"max_points"`
	Status        EffectiveStatus `json:"status"`
	Grade         *Grade          `json:"grade"`
	Class         *ClassSummary   `json:"class"`
}

// UpsertGradeRequest is the payload for creating or updating a grade.
type UpsertGradeRequest struct {
	StudentID   uuid.UUID   `json:"student_id" binding:"required"`
	Score       *float64    `json:"score" binding:"omitempty"`
	LetterGrade *string     `json:"letter_grade" binding:"omitempty,max=10"`
	Feedback    *string     `json:"feedback" binding:"omitempty,max=5000"`
	Status      GradeStatus `json:"status" binding:"omitempty,oneof=draft pending_release released"`
}

// ReleaseGradeRequest is the payload for releasing a grade to its student.
type ReleaseGradeRequest struct {
	ReleaseAt *time.Time `json:"release_at" binding:"omitempty"`
	Feedback  *string    `json:"feedback" binding:"omitempty,max=5000"`
}
