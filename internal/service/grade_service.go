package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gradeflow/gradeflow-backend/internal/config"
	"github.com/gradeflow/gradeflow-backend/internal/model"
	"github.com/gradeflow/gradeflow-backend/internal/repository"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// GradeService is the grade ledger: it owns the per-(assignment, student)
// grade record, its status machine, and its append-only history.
type GradeService struct {
	grades    GradeStore
	catalog   AssignmentCatalog
	registry  ClassRegistry
	directory IdentityDirectory
	sink      NotificationSink
	rdb       *redis.Client
	log       zerolog.Logger
}

// NewGradeService creates a new GradeService. rdb may be nil; it is only
// used to invalidate the overview cache on writes.
func NewGradeService(
	grades GradeStore,
	catalog AssignmentCatalog,
	registry ClassRegistry,
	directory IdentityDirectory,
	sink NotificationSink,
	rdb *redis.Client,
	log zerolog.Logger,
) *GradeService {
	return &GradeService{
		grades:    grades,
		catalog:   catalog,
		registry:  registry,
		directory: directory,
		sink:      sink,
		rdb:       rdb,
		log:       log.With().Str("component", "grade_service").Logger(),
	}
}

// invalidateOverview drops the student's cached overview after a grade
// write. Best effort.
func (s *GradeService) invalidateOverview(ctx context.Context, studentID uuid.UUID) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, config.CacheKey.StudentOverviewKey(studentID)).Err(); err != nil {
		s.log.Debug().Err(err).Msg("overview cache invalidation failed")
	}
}

// resolveAssignment applies the caller's scope to assignment resolution.
func (s *GradeService) resolveAssignment(ctx context.Context, assignmentID uuid.UUID, scope Scope) (*model.Assignment, error) {
	if instructorID, ok := scope.RestrictedTo(); ok {
		return s.catalog.FindByIDForInstructor(ctx, assignmentID, instructorID)
	}
	return s.catalog.FindByID(ctx, assignmentID)
}

// UpsertGrade creates or updates the grade for (assignment, student). The
// student must hold an enrollment row in the assignment's class. Every call
// appends exactly one history entry capturing the post-write state.
func (s *GradeService) UpsertGrade(ctx context.Context, assignmentID uuid.UUID, req model.UpsertGradeRequest, actorID uuid.UUID, scope Scope) (*model.Grade, error) {
	assignment, err := s.resolveAssignment(ctx, assignmentID, scope)
	if err != nil {
		return nil, err
	}

	if _, err := s.directory.ResolveByID(ctx, req.StudentID); err != nil {
		return nil, err
	}

	enrollment, err := s.registry.FindEnrollment(ctx, assignment.ClassID, req.StudentID)
	if err != nil {
		return nil, err
	}
	if enrollment == nil {
		return nil, model.ErrNotEnrolled
	}

	status := req.Status
	if status == "" {
		status = model.GradeStatusDraft
	}
	feedback := ""
	if req.Feedback != nil {
		feedback = *req.Feedback
	}
	actor := actorID

	grade, err := s.grades.Upsert(ctx, repository.UpsertGradeParams{
		AssignmentID: assignmentID,
		StudentID:    req.StudentID,
		Score:        req.Score,
		LetterGrade:  req.LetterGrade,
		Feedback:     feedback,
		Status:       status,
		Entry: model.GradeHistoryEntry{
			Status:      status,
			Score:       req.Score,
			LetterGrade: req.LetterGrade,
			Feedback:    feedback,
			ActorID:     &actor,
			ChangedAt:   time.Now().UTC(),
		},
	})
	if err != nil {
		return nil, err
	}

	s.invalidateOverview(ctx, req.StudentID)
	return grade, nil
}

// ListGradesForAssignment returns one row per student appearing in either
// the class roster or the grade collection for the assignment. A grade for
// a since-unenrolled student stays visible. Rows are ordered by student
// display name (case-insensitive); students with no resolvable profile sort
// last, ties break on raw id.
func (s *GradeService) ListGradesForAssignment(ctx context.Context, assignmentID uuid.UUID, scope Scope) ([]model.AssignmentGradeRow, error) {
	assignment, err := s.resolveAssignment(ctx, assignmentID, scope)
	if err != nil {
		return nil, err
	}

	grades, err := s.grades.ListByAssignment(ctx, assignmentID)
	if err != nil {
		return nil, err
	}
	enrollments, err := s.registry.ListEnrollmentsByClass(ctx, assignment.ClassID)
	if err != nil {
		return nil, err
	}

	enrollmentByStudent := make(map[uuid.UUID]*model.Enrollment, len(enrollments))
	for i := range enrollments {
		enrollmentByStudent[enrollments[i].StudentID] = &enrollments[i]
	}
	gradeByStudent := make(map[uuid.UUID]*model.Grade, len(grades))
	for i := range grades {
		gradeByStudent[grades[i].StudentID] = &grades[i]
	}

	seen := make(map[uuid.UUID]bool)
	var studentIDs []uuid.UUID
	for _, e := range enrollments {
		if !seen[e.StudentID] {
			seen[e.StudentID] = true
			studentIDs = append(studentIDs, e.StudentID)
		}
	}
	for _, g := range grades {
		if !seen[g.StudentID] {
			seen[g.StudentID] = true
			studentIDs = append(studentIDs, g.StudentID)
		}
	}
	if len(studentIDs) == 0 {
		return []model.AssignmentGradeRow{}, nil
	}

	students, err := s.directory.ResolveMany(ctx, studentIDs)
	if err != nil {
		return nil, err
	}
	studentByID := make(map[uuid.UUID]*model.User, len(students))
	for i := range students {
		studentByID[students[i].ID] = &students[i]
	}

	sort.Slice(studentIDs, func(i, j int) bool {
		return lessByStudentName(studentIDs[i], studentIDs[j], studentByID)
	})

	rows := make([]model.AssignmentGradeRow, 0, len(studentIDs))
	for _, id := range studentIDs {
		grade := gradeByStudent[id]
		rows = append(rows, model.AssignmentGradeRow{
			StudentID:  id,
			Student:    studentByID[id],
			Enrollment: enrollmentByStudent[id],
			Status:     model.EffectiveStatusOf(grade),
			Grade:      grade,
		})
	}
	return rows, nil
}

// lessByStudentName orders named students case-insensitively before
// unnamed ones, breaking ties on the raw id.
func lessByStudentName(a, b uuid.UUID, byID map[uuid.UUID]*model.User) bool {
	ua, ub := byID[a], byID[b]
	nameA, nameB := "", ""
	if ua != nil {
		nameA = ua.Name
	}
	if ub != nil {
		nameB = ub.Name
	}
	switch {
	case nameA != "" && nameB != "":
		la, lb := strings.ToLower(nameA), strings.ToLower(nameB)
		if la != lb {
			return la < lb
		}
		return a.String() < b.String()
	case nameA != "":
		return true
	case nameB != "":
		return false
	default:
		return a.String() < b.String()
	}
}

// ReleaseGrade marks a grade released, appends the release history entry,
// and fires the notification side channel. The release is committed in the
// ledger regardless of notification outcome, and re-releasing an already
// released grade is permitted (each release appends its own entry).
func (s *GradeService) ReleaseGrade(ctx context.Context, gradeID uuid.UUID, req model.ReleaseGradeRequest, actorID uuid.UUID, scope Scope) (*model.Grade, error) {
	grade, err := s.grades.GetByID(ctx, gradeID)
	if err != nil {
		return nil, err
	}

	if instructorID, ok := scope.RestrictedTo(); ok {
		if _, err := s.catalog.FindByIDForInstructor(ctx, grade.AssignmentID, instructorID); err != nil {
			return nil, err
		}
	}

	releasedAt := time.Now().UTC()
	if req.ReleaseAt != nil {
		releasedAt = *req.ReleaseAt
	}
	feedback := grade.Feedback
	if req.Feedback != nil {
		feedback = *req.Feedback
	}
	actor := actorID

	updated, err := s.grades.Release(ctx, gradeID, releasedAt, req.Feedback, model.GradeHistoryEntry{
		Status:      model.GradeStatusReleased,
		Score:       grade.Score,
		LetterGrade: grade.LetterGrade,
		Feedback:    feedback,
		ActorID:     &actor,
		ChangedAt:   releasedAt,
	})
	if err != nil {
		return nil, err
	}

	s.invalidateOverview(ctx, updated.StudentID)
	s.notifyRelease(ctx, updated)
	return updated, nil
}

// notifyRelease dispatches the release notification. Failures are logged
// and never surfaced: the release is already a committed fact.
func (s *GradeService) notifyRelease(ctx context.Context, grade *model.Grade) {
	assignment, err := s.catalog.FindByID(ctx, grade.AssignmentID)
	if err != nil {
		s.log.Warn().Err(err).
			Str("grade_id", grade.ID.String()).
			Msg("Assignment lookup for release notification failed")
		return
	}

	err = s.sink.NotifyGradeRelease(ctx, model.GradeReleaseNote{
		StudentID:       grade.StudentID,
		AssignmentTitle: assignment.Title,
		ClassID:         assignment.ClassID,
		Score:           grade.Score,
		LetterGrade:     grade.LetterGrade,
	})
	if err != nil {
		s.log.Warn().Err(err).
			Str("grade_id", grade.ID.String()).
			Str("student_id", grade.StudentID.String()).
			Msg("Release notification failed")
	}
}

// ListGradesForStudent returns every grade recorded for the student.
func (s *GradeService) ListGradesForStudent(ctx context.Context, studentID uuid.UUID) ([]model.Grade, error) {
	if _, err := s.directory.ResolveByID(ctx, studentID); err != nil {
		return nil, err
	}
	grades, err := s.grades.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if grades == nil {
		grades = []model.Grade{}
	}
	return grades, nil
}
