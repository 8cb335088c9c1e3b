package service

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/gradeflow/gradeflow-backend/internal/config"
	"github.com/gradeflow/gradeflow-backend/internal/model"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// overviewCacheTTL bounds staleness between a grade write and the cache
// invalidation catching up.
const overviewCacheTTL = 30 * time.Second

// OverviewService joins enrollments, assignments, grades, classes, and
// instructor profiles into a single per-student feed. It is read-only and
// side-effect free. Results are cached in Redis for a short TTL; grade
// writes invalidate the student's entry.
type OverviewService struct {
	grades    GradeStore
	catalog   AssignmentCatalog
	registry  ClassRegistry
	directory IdentityDirectory
	rdb       *redis.Client
	log       zerolog.Logger
}

// NewOverviewService creates a new OverviewService. rdb may be nil to
// disable caching.
func NewOverviewService(
	grades GradeStore,
	catalog AssignmentCatalog,
	registry ClassRegistry,
	directory IdentityDirectory,
	rdb *redis.Client,
	log zerolog.Logger,
) *OverviewService {
	return &OverviewService{
		grades:    grades,
		catalog:   catalog,
		registry:  registry,
		directory: directory,
		rdb:       rdb,
		log:       log.With().Str("component", "overview_service").Logger(),
	}
}

// GetStudentAssignmentOverview returns one row per assignment across all of
// the student's enrolled classes, ordered ascending by due date. Equal due
// dates keep the catalog's stable order (due date, then creation time).
func (s *OverviewService) GetStudentAssignmentOverview(ctx context.Context, studentID uuid.UUID) ([]model.AssignmentOverviewRow, error) {
	if _, err := s.directory.ResolveByID(ctx, studentID); err != nil {
		return nil, err
	}

	if cached, ok := s.fromCache(ctx, studentID); ok {
		return cached, nil
	}

	enrollments, err := s.registry.ListEnrollmentsByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if len(enrollments) == 0 {
		return []model.AssignmentOverviewRow{}, nil
	}

	classIDs := make([]uuid.UUID, 0, len(enrollments))
	seenClass := make(map[uuid.UUID]bool, len(enrollments))
	for _, e := range enrollments {
		if !seenClass[e.ClassID] {
			seenClass[e.ClassID] = true
			classIDs = append(classIDs, e.ClassID)
		}
	}

	assignments, err := s.catalog.ListByClassIDs(ctx, classIDs)
	if err != nil {
		return nil, err
	}
	if len(assignments) == 0 {
		return []model.AssignmentOverviewRow{}, nil
	}

	assignmentIDs := make([]uuid.UUID, len(assignments))
	for i, a := range assignments {
		assignmentIDs[i] = a.ID
	}
	grades, err := s.grades.ListForStudentByAssignmentIDs(ctx, studentID, assignmentIDs)
	if err != nil {
		return nil, err
	}
	gradeByAssignment := make(map[uuid.UUID]*model.Grade, len(grades))
	for i := range grades {
		gradeByAssignment[grades[i].AssignmentID] = &grades[i]
	}

	classes, err := s.registry.ListClassesByIDs(ctx, classIDs)
	if err != nil {
		return nil, err
	}
	classByID := make(map[uuid.UUID]*model.Class, len(classes))
	var instructorIDs []uuid.UUID
	seenInstructor := make(map[uuid.UUID]bool)
	for i := range classes {
		classByID[classes[i].ID] = &classes[i]
		for _, iid := range classes[i].InstructorIDs {
			if !seenInstructor[iid] {
				seenInstructor[iid] = true
				instructorIDs = append(instructorIDs, iid)
			}
		}
	}

	instructors, err := s.directory.ResolveMany(ctx, instructorIDs)
	if err != nil {
		return nil, err
	}
	instructorByID := make(map[uuid.UUID]*model.User, len(instructors))
	for i := range instructors {
		instructorByID[instructors[i].ID] = &instructors[i]
	}

	sort.SliceStable(assignments, func(i, j int) bool {
		return assignments[i].DueAt.Before(assignments[j].DueAt)
	})

	rows := make([]model.AssignmentOverviewRow, 0, len(assignments))
	for _, a := range assignments {
		grade := gradeByAssignment[a.ID]
		rows = append(rows, model.AssignmentOverviewRow{
			AssignmentID:  a.ID,
			ClassID:       a.ClassID,
			Title:         a.Title,
			Description:   a.Description,
			DueAt:         a.DueAt,
			PublishAt:     a.PublishAt,
			GradingSchema: a.GradingSchema,
			MaxPoints:     a.MaxPoints,
			Status:        model.EffectiveStatusOf(grade),
			Grade:         grade,
			Class:         summarizeClass(classByID[a.ClassID], instructorByID),
		})
	}

	s.toCache(ctx, studentID, rows)
	return rows, nil
}

// fromCache fetches a cached overview. Cache failures fall through to the
// live query.
func (s *OverviewService) fromCache(ctx context.Context, studentID uuid.UUID) ([]model.AssignmentOverviewRow, bool) {
	if s.rdb == nil {
		return nil, false
	}
	raw, err := s.rdb.Get(ctx, config.CacheKey.StudentOverviewKey(studentID)).Result()
	if err != nil {
		if err != redis.Nil {
			s.log.Debug().Err(err).Msg("overview cache read failed")
		}
		return nil, false
	}
	var rows []model.AssignmentOverviewRow
	if err := json.Unmarshal([]byte(raw), &rows); err != nil {
		return nil, false
	}
	return rows, true
}

func (s *OverviewService) toCache(ctx context.Context, studentID uuid.UUID, rows []model.AssignmentOverviewRow) {
	if s.rdb == nil {
		return
	}
	raw, err := json.Marshal(rows)
	if err != nil {
		return
	}
	if err := s.rdb.Set(ctx, config.CacheKey.StudentOverviewKey(studentID), raw, overviewCacheTTL).Err(); err != nil {
		s.log.Debug().Err(err).Msg("overview cache write failed")
	}
}

// summarizeClass builds the denormalized class block of an overview row.
// The primary instructor is the first entry of the class's instructor list.
func summarizeClass(class *model.Class, instructorByID map[uuid.UUID]*model.User) *model.ClassSummary {
	if class == nil {
		return nil
	}
	summary := &model.ClassSummary{
		ClassID: class.ID,
		Title:   class.Title,
		Code:    class.Code,
	}
	if len(class.InstructorIDs) > 0 {
		if instructor := instructorByID[class.InstructorIDs[0]]; instructor != nil {
			summary.PrimaryInstructor = &model.InstructorSummary{
				ID:    instructor.ID,
				Name:  instructor.Name,
				Email: instructor.Email,
			}
		}
	}
	return summary
}
