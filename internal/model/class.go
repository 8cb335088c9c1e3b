package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Class represents a taught class within a cohort.
type Class struct {
	ID            uuid.UUID       `json:"id"`
	CohortID      uuid.UUID       `json:"cohort_id"`
	Title         string          `json:"title"`
	Code          string          `json:"code"`
	InstructorIDs []uuid.UUID     `json:"instructor_ids"`
	ScheduleMeta  json.RawMessage `json:"schedule_meta"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// HasInstructor reports whether the given user is assigned to this class.
func (c *Class) HasInstructor(id uuid.UUID) bool {
	for _, iid := range c.InstructorIDs {
		if iid == id {
			return true
		}
	}
	return false
}

// ClassWithInstructors is a class decorated with resolved instructor profiles.
// Instructors is positionally aligned with InstructorIDs; unresolvable ids
// map to nil.
type ClassWithInstructors struct {
	Class
	Instructors []*User `json:"instructors"`
}

// EnrollmentStatus enumerates the lifecycle states of an enrollment.
type EnrollmentStatus string

const (
	EnrollmentActive    EnrollmentStatus = "active"
	EnrollmentCompleted EnrollmentStatus = "completed"
	EnrollmentDropped   EnrollmentStatus = "dropped"
)

// Enrollment links a student to a class. One row per (class, student) pair.
type Enrollment struct {
	ID        uuid.UUID        `json:"id"`
	ClassID   uuid.UUID        `json:"class_id"`
	StudentID uuid.UUID        `json:"student_id"`
	Status    EnrollmentStatus `json:"status"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// EnrollmentWithStudent is an enrollment decorated with the student profile.
type EnrollmentWithStudent struct {
	Enrollment
	Student *User `json:"student"`
}

// CreateClassRequest is the payload for creating a class.
type CreateClassRequest struct {
	CohortID      uuid.UUID       `json:"cohort_id" binding:"required"`
	Title         string          `json:"title" binding:"required,min=2,max=200"`
	Code          string          `json:"code" binding:"required,min=2,max=40"`
	InstructorIDs []uuid.UUID     `json:"instructor_ids" binding:"omitempty"`
	ScheduleMeta  json.RawMessage `json:"schedule_meta" binding:"omitempty"`
}

// EnrollStudentRequest enrolls a student into a class by id or email.
type EnrollStudentRequest struct {
	StudentID    *uuid.UUID       `json:"student_id" binding:"omitempty"`
	StudentEmail string           `json:"student_email" binding:"omitempty,email"`
	Status       EnrollmentStatus `json:"status" binding:"omitempty,oneof=active completed dropped"`
}
