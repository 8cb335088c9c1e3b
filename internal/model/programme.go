package model

import (
	"time"

	"github.com/google/uuid"
)

// Programme represents a degree programme.
type Programme struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Cohort represents one intake of a programme. Labels are unique per programme.
type Cohort struct {
	ID          uuid.UUID `json:"id"`
	ProgrammeID uuid.UUID `json:"programme_id"`
	Label       string    `json:"label"`
	StartAt     time.Time `json:"start_at"`
	EndAt       time.Time `json:"end_at"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateProgrammeRequest is the payload for creating a programme.
type CreateProgrammeRequest struct {
	Name        string `json:"name" binding:"required,min=2,max=160"`
	Description string `json:"description" binding:"omitempty,max=2000"`
}

// CreateCohortRequest is the payload for creating a cohort within a programme.
type CreateCohortRequest struct {
	Label   string    `json:"label" binding:"required,min=1,max=80"`
	StartAt time.Time `json:"start_at" binding:"required"`
	EndAt   time.Time `json:"end_at" binding:"required,gtfield=StartAt"`
}
