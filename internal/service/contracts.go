package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/gradeflow/gradeflow-backend/internal/model"
	"github.com/gradeflow/gradeflow-backend/internal/repository"
)

// The grading core only touches its collaborators through these interfaces.
// The pgx repositories satisfy them in production; tests swap in in-memory
// fakes.

// IdentityDirectory resolves user profiles by id.
type IdentityDirectory interface {
	ResolveByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	// ResolveMany silently drops unresolvable ids.
	ResolveMany(ctx context.Context, ids []uuid.UUID) ([]model.User, error)
}

// ClassRegistry reads classes and enrollments. The grading core treats both
// as read-only foreign state.
type ClassRegistry interface {
	GetClass(ctx context.Context, id uuid.UUID) (*model.Class, error)
	// FindEnrollment returns (nil, nil) when no enrollment row exists.
	FindEnrollment(ctx context.Context, classID, studentID uuid.UUID) (*model.Enrollment, error)
	ListEnrollmentsByClass(ctx context.Context, classID uuid.UUID) ([]model.Enrollment, error)
	ListEnrollmentsByStudent(ctx context.Context, studentID uuid.UUID) ([]model.Enrollment, error)
	ListClassesByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Class, error)
	FilterEnrolledStudents(ctx context.Context, classID uuid.UUID, studentIDs []uuid.UUID) ([]uuid.UUID, error)
}

// AssignmentCatalog resolves assignment metadata.
type AssignmentCatalog interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.Assignment, error)
	// FindByIDForInstructor fails with model.ErrNotClassInstructor when the
	// instructor is not assigned to the assignment's class.
	FindByIDForInstructor(ctx context.Context, id, instructorID uuid.UUID) (*model.Assignment, error)
	ListByClassIDs(ctx context.Context, classIDs []uuid.UUID) ([]model.Assignment, error)
}

// NotificationSink is the best-effort side channel fired on grade release.
// Errors are swallowed by the caller; a failed notification never rolls
// back a release.
type NotificationSink interface {
	NotifyGradeRelease(ctx context.Context, note model.GradeReleaseNote) error
}

// GradeStore persists grade records. Upsert and Release must each append
// their history entry atomically with the field update for a single
// (assignment, student) key.
type GradeStore interface {
	Upsert(ctx context.Context, p repository.UpsertGradeParams) (*model.Grade, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Grade, error)
	Release(ctx context.Context, id uuid.UUID, releasedAt time.Time, feedback *string, entry model.GradeHistoryEntry) (*model.Grade, error)
	ListByAssignment(ctx context.Context, assignmentID uuid.UUID) ([]model.Grade, error)
	ListByStudent(ctx context.Context, studentID uuid.UUID) ([]model.Grade, error)
	ListForStudentByAssignmentIDs(ctx context.Context, studentID uuid.UUID, assignmentIDs []uuid.UUID) ([]model.Grade, error)
}

// GroupStore persists student groups, grader groups, and bundles.
type GroupStore interface {
	CreateStudentGroup(ctx context.Context, g *model.StudentGroup) error
	GetStudentGroup(ctx context.Context, classID, groupID uuid.UUID) (*model.StudentGroup, error)
	ReplaceStudentGroupMembers(ctx context.Context, classID, groupID uuid.UUID, memberIDs []uuid.UUID) (*model.StudentGroup, error)
	ListStudentGroups(ctx context.Context, classID uuid.UUID) ([]model.StudentGroup, error)
	ListStudentGroupsByIDs(ctx context.Context, ids []uuid.UUID) ([]model.StudentGroup, error)

	CreateGraderGroup(ctx context.Context, g *model.GraderGroup) error
	GetGraderGroup(ctx context.Context, classID, groupID uuid.UUID) (*model.GraderGroup, error)
	UpdateGraderGroup(ctx context.Context, g *model.GraderGroup) error
	ListGraderGroups(ctx context.Context, classID uuid.UUID) ([]model.GraderGroup, error)
	ListGraderGroupsByIDs(ctx context.Context, ids []uuid.UUID) ([]model.GraderGroup, error)

	CreateBundle(ctx context.Context, b *model.GroupBundle) error
	ListBundles(ctx context.Context, classID uuid.UUID) ([]model.GroupBundle, error)
}
