package model

import (
	"time"

	"github.com/google/uuid"
)

// StudentGroup is a named set of students within a class. Names are unique
// per class; every member must be enrolled in the class at the time of
// create or membership update.
type StudentGroup struct {
	ID          uuid.UUID   `json:"id"`
	ClassID     uuid.UUID   `json:"class_id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	MemberIDs   []uuid.UUID `json:"member_ids"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// GraderGroup is a named set of grading staff within a class. Every grader
// must be in the class's instructor list at the time of create or update.
type GraderGroup struct {
	ID          uuid.UUID   `json:"id"`
	ClassID     uuid.UUID   `json:"class_id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	GraderIDs   []uuid.UUID `json:"grader_ids"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// GroupBundle pairs one student group with one grader group within a class.
// The (class, student group, grader group) triple is unique.
type GroupBundle struct {
	ID             uuid.UUID `json:"id"`
	ClassID        uuid.UUID `json:"class_id"`
	StudentGroupID uuid.UUID `json:"student_group_id"`
	GraderGroupID  uuid.UUID `json:"grader_group_id"`
	Notes          string    `json:"notes"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// StudentGroupWithMembers is a student group decorated with resolved member
// profiles, positionally aligned with MemberIDs (nil for unresolvable ids).
type StudentGroupWithMembers struct {
	StudentGroup
	Members []*User `json:"members"`
}

// GraderGroupWithGraders is a grader group decorated with resolved grader
// profiles, positionally aligned with GraderIDs (nil for unresolvable ids).
type GraderGroupWithGraders struct {
	GraderGroup
	Graders []*User `json:"graders"`
}

// GroupBundleExpanded is a bundle with both referenced groups fully
// decorated.
type GroupBundleExpanded struct {
	GroupBundle
	StudentGroup *StudentGroupWithMembers `json:"student_group"`
	GraderGroup  *GraderGroupWithGraders  `json:"grader_group"`
}

// CreateStudentGroupRequest is the payload for creating a student group.
type CreateStudentGroupRequest struct {
	Name        string      `json:"name" binding:"required,min=1,max=120"`
	Description string      `json:"description" binding:"omitempty,max=2000"`
	MemberIDs   []uuid.UUID `json:"member_ids" binding:"omitempty"`
}

// UpdateStudentGroupMembersRequest fully replaces a group's member list.
type UpdateStudentGroupMembersRequest struct {
	MemberIDs []uuid.UUID `json:"member_ids" binding:"required"`
}

// CreateGraderGroupRequest is the payload for creating a grader group.
type CreateGraderGroupRequest struct {
	Name        string      `json:"name" binding:"required,min=1,max=120"`
	Description string      `json:"description" binding:"omitempty,max=2000"`
	GraderIDs   []uuid.UUID `json:"grader_ids" binding:"required,min=1"`
}

// UpdateGraderGroupRequest partially updates a grader group.
type UpdateGraderGroupRequest struct {
	Name        *string     `json:"name" binding:"omitempty,min=1,max=120"`
	Description *string     `json:"description" binding:"omitempty,max=2000"`
	GraderIDs   []uuid.UUID `json:"grader_ids" binding:"omitempty"`
}

// CreateGroupBundleRequest is the payload for pairing a student group with a
// grader group.
type CreateGroupBundleRequest struct {
	StudentGroupID uuid.UUID `json:"student_group_id" binding:"required"`
	GraderGroupID  uuid.UUID `json:"grader_group_id" binding:"required"`
	Notes          string    `json:"notes" binding:"omitempty,max=2000"`
}
