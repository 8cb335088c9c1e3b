package service

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"github.com/gradeflow/gradeflow-backend/internal/model"
	"github.com/gradeflow/gradeflow-backend/internal/repository"
	"github.com/rs/zerolog"
)

// Class management errors.
var (
	ErrInstructorRequired        = errors.New("at least one instructor is required")
	ErrStudentIdentifierRequired = errors.New("student_id or student_email is required")
	ErrNotAStudent               = errors.New("user is not a student account")
	ErrNotATeacher               = errors.New("instructor is not a teacher account")
)

// ClassService manages classes and enrollments.
type ClassService struct {
	classes    *repository.ClassRepository
	programmes *repository.ProgrammeRepository
	users      *repository.UserRepository
	log        zerolog.Logger
}

// NewClassService creates a new ClassService.
func NewClassService(classes *repository.ClassRepository, programmes *repository.ProgrammeRepository, users *repository.UserRepository, log zerolog.Logger) *ClassService {
	return &ClassService{
		classes:    classes,
		programmes: programmes,
		users:      users,
		log:        log.With().Str("component", "class_service").Logger(),
	}
}

// CreateClass creates a class inside a cohort. A teacher creating a class
// always becomes its sole instructor; admins must name the instructors
// explicitly.
func (s *ClassService) CreateClass(ctx context.Context, actor *Claims, req model.CreateClassRequest) (*model.ClassWithInstructors, error) {
	if _, err := s.programmes.GetCohort(ctx, req.CohortID); err != nil {
		return nil, err
	}

	instructorIDs := req.InstructorIDs
	if actor.Role == model.RoleTeacher {
		instructorIDs = []uuid.UUID{actor.UserID}
	}
	if len(instructorIDs) == 0 {
		return nil, ErrInstructorRequired
	}
	if err := s.ensureTeachers(ctx, instructorIDs); err != nil {
		return nil, err
	}

	meta := req.ScheduleMeta
	if meta == nil {
		meta = json.RawMessage(`{}`)
	}

	class := &model.Class{
		CohortID:      req.CohortID,
		Title:         req.Title,
		Code:          req.Code,
		InstructorIDs: instructorIDs,
		ScheduleMeta:  meta,
	}
	if err := s.classes.CreateClass(ctx, class); err != nil {
		return nil, err
	}
	return s.decorateClass(ctx, class)
}

// GetClass fetches a class with resolved instructor profiles.
func (s *ClassService) GetClass(ctx context.Context, id uuid.UUID) (*model.ClassWithInstructors, error) {
	class, err := s.classes.GetClass(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.decorateClass(ctx, class)
}

// ListClasses lists classes, optionally filtered by cohort and instructor.
func (s *ClassService) ListClasses(ctx context.Context, cohortID, instructorID *uuid.UUID) ([]model.Class, error) {
	return s.classes.ListClasses(ctx, cohortID, instructorID)
}

// EnrollStudent enrolls a student into a class, identified by id or email.
// Enrolling an already-enrolled student updates the enrollment status
// instead of failing.
func (s *ClassService) EnrollStudent(ctx context.Context, classID uuid.UUID, req model.EnrollStudentRequest) (*model.EnrollmentWithStudent, error) {
	if _, err := s.classes.GetClass(ctx, classID); err != nil {
		return nil, err
	}

	var student *model.User
	var err error
	switch {
	case req.StudentID != nil:
		student, err = s.users.ResolveByID(ctx, *req.StudentID)
	case req.StudentEmail != "":
		student, err = s.users.FindByEmail(ctx, req.StudentEmail)
	default:
		return nil, ErrStudentIdentifierRequired
	}
	if err != nil {
		return nil, err
	}
	if student.Role != model.RoleStudent {
		return nil, ErrNotAStudent
	}

	status := req.Status
	if status == "" {
		status = model.EnrollmentActive
	}

	enrollment, err := s.classes.UpsertEnrollment(ctx, classID, student.ID, status)
	if err != nil {
		return nil, err
	}
	return &model.EnrollmentWithStudent{Enrollment: *enrollment, Student: student}, nil
}

// ListEnrollments returns the class roster with student profiles resolved.
func (s *ClassService) ListEnrollments(ctx context.Context, classID uuid.UUID) ([]model.EnrollmentWithStudent, error) {
	if _, err := s.classes.GetClass(ctx, classID); err != nil {
		return nil, err
	}
	enrollments, err := s.classes.ListEnrollmentsByClass(ctx, classID)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(enrollments))
	for _, e := range enrollments {
		ids = append(ids, e.StudentID)
	}
	users, err := s.users.ResolveMany(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*model.User, len(users))
	for i := range users {
		byID[users[i].ID] = &users[i]
	}

	result := make([]model.EnrollmentWithStudent, 0, len(enrollments))
	for _, e := range enrollments {
		result = append(result, model.EnrollmentWithStudent{Enrollment: e, Student: byID[e.StudentID]})
	}
	return result, nil
}

// ensureTeachers verifies that every id resolves to an active teacher
// account.
func (s *ClassService) ensureTeachers(ctx context.Context, ids []uuid.UUID) error {
	users, err := s.users.ResolveMany(ctx, ids)
	if err != nil {
		return err
	}
	byID := make(map[uuid.UUID]model.UserRole, len(users))
	for _, u := range users {
		byID[u.ID] = u.Role
	}
	for _, id := range ids {
		role, ok := byID[id]
		if !ok {
			return model.ErrUserNotFound
		}
		if role != model.RoleTeacher && role != model.RoleAdmin {
			return ErrNotATeacher
		}
	}
	return nil
}

func (s *ClassService) decorateClass(ctx context.Context, class *model.Class) (*model.ClassWithInstructors, error) {
	users, err := s.users.ResolveMany(ctx, class.InstructorIDs)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*model.User, len(users))
	for i := range users {
		byID[users[i].ID] = &users[i]
	}

	instructors := make([]*model.User, len(class.InstructorIDs))
	for i, id := range class.InstructorIDs {
		instructors[i] = byID[id]
	}
	return &model.ClassWithInstructors{Class: *class, Instructors: instructors}, nil
}
