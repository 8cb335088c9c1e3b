package model

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Domain errors. Repositories and services translate storage errors into
// these so callers never see raw driver error text.
var (
	ErrUserNotFound         = errors.New("user not found")
	ErrProgrammeNotFound    = errors.New("programme not found")
	ErrCohortNotFound       = errors.New("cohort not found")
	ErrClassNotFound        = errors.New("class not found")
	ErrAssignmentNotFound   = errors.New("assignment not found")
	ErrGradeNotFound        = errors.New("grade not found")
	ErrStudentGroupNotFound = errors.New("student group not found")
	ErrGraderGroupNotFound  = errors.New("grader group not found")

	// ErrNotEnrolled rejects a grade write for a student without an
	// enrollment row in the assignment's class.
	ErrNotEnrolled = errors.New("student is not enrolled in this class")

	// ErrNotClassInstructor rejects an instructor-scoped call when the
	// caller is not assigned to the relevant class.
	ErrNotClassInstructor = errors.New("caller is not an instructor of this class")

	// Unique-key conflicts.
	ErrDuplicateEmail     = errors.New("email already in use")
	ErrDuplicateProgramme = errors.New("programme name already exists")
	ErrDuplicateCohort    = errors.New("cohort label already exists for programme")
	ErrDuplicateClassCode = errors.New("class code already exists")
	ErrDuplicateGroupName = errors.New("group name already exists for class")
	ErrDuplicateBundle    = errors.New("bundle already exists for this group pair")
)

// MembershipError reports every invalid id of a group membership write in a
// single failure, so callers can fix the whole payload at once.
type MembershipError struct {
	// Kind is "member" for student groups, "grader" for grader groups.
	Kind       string
	MissingIDs []uuid.UUID
}

func (e *MembershipError) Error() string {
	ids := make([]string, len(e.MissingIDs))
	for i, id := range e.MissingIDs {
		ids[i] = id.String()
	}
	return fmt.Sprintf("invalid %s ids: %s", e.Kind, strings.Join(ids, ", "))
}

// Reason returns the per-id explanation for this membership failure.
func (e *MembershipError) Reason() string {
	if e.Kind == "grader" {
		return "not an instructor of this class"
	}
	return "not enrolled in this class"
}

// Is lets errors.Is treat any MembershipError as a not-found class failure.
func (e *MembershipError) Is(target error) bool {
	return target == ErrUserNotFound
}
