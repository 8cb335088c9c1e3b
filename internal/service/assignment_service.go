package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/gradeflow/gradeflow-backend/internal/model"
	"github.com/gradeflow/gradeflow-backend/internal/repository"
	"github.com/rs/zerolog"
)

// AssignmentService manages the assignment catalog of a class.
type AssignmentService struct {
	assignments *repository.AssignmentRepository
	classes     *repository.ClassRepository
	log         zerolog.Logger
}

// NewAssignmentService creates a new AssignmentService.
func NewAssignmentService(assignments *repository.AssignmentRepository, classes *repository.ClassRepository, log zerolog.Logger) *AssignmentService {
	return &AssignmentService{
		assignments: assignments,
		classes:     classes,
		log:         log.With().Str("component", "assignment_service").Logger(),
	}
}

// CreateAssignment creates an assignment under a class. An instructor scope
// must match the class's instructor list.
func (s *AssignmentService) CreateAssignment(ctx context.Context, scope Scope, classID uuid.UUID, req model.CreateAssignmentRequest) (*model.Assignment, error) {
	class, err := s.classes.GetClass(ctx, classID)
	if err != nil {
		return nil, err
	}
	if instructorID, ok := scope.RestrictedTo(); ok && !class.HasInstructor(instructorID) {
		return nil, model.ErrNotClassInstructor
	}

	assignment := &model.Assignment{
		ClassID:       classID,
		Title:         req.Title,
		Description:   req.Description,
		Type:          req.Type,
		DueAt:         req.DueAt,
		PublishAt:     req.PublishAt,
		GradingSchema: req.GradingSchema,
	}
	if assignment.Type == "" {
		assignment.Type = model.AssignmentTask
	}
	if assignment.GradingSchema == "" {
		assignment.GradingSchema = model.GradingPoints
	}
	assignment.MaxPoints = 100
	if req.MaxPoints != nil {
		assignment.MaxPoints = *req.MaxPoints
	}

	if err := s.assignments.Create(ctx, assignment); err != nil {
		return nil, err
	}
	return assignment, nil
}

// UpdateAssignment partially updates an assignment.
func (s *AssignmentService) UpdateAssignment(ctx context.Context, scope Scope, id uuid.UUID, req model.UpdateAssignmentRequest) (*model.Assignment, error) {
	assignment, err := s.findForScope(ctx, scope, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		assignment.Title = *req.Title
	}
	if req.Description != nil {
		assignment.Description = *req.Description
	}
	if req.Type != "" {
		assignment.Type = req.Type
	}
	if req.DueAt != nil {
		assignment.DueAt = *req.DueAt
	}
	if req.PublishAt != nil {
		assignment.PublishAt = req.PublishAt
	}
	if req.GradingSchema != "" {
		assignment.GradingSchema = req.GradingSchema
	}
	if req.MaxPoints != nil {
		assignment.MaxPoints = *req.MaxPoints
	}

	if err := s.assignments.Update(ctx, assignment); err != nil {
		return nil, err
	}
	return assignment, nil
}

// GetAssignment fetches a single assignment.
func (s *AssignmentService) GetAssignment(ctx context.Context, scope Scope, id uuid.UUID) (*model.Assignment, error) {
	return s.findForScope(ctx, scope, id)
}

// ListAssignments lists the assignments of a class.
func (s *AssignmentService) ListAssignments(ctx context.Context, classID uuid.UUID) ([]model.Assignment, error) {
	if _, err := s.classes.GetClass(ctx, classID); err != nil {
		return nil, err
	}
	return s.assignments.ListByClass(ctx, classID)
}

func (s *AssignmentService) findForScope(ctx context.Context, scope Scope, id uuid.UUID) (*model.Assignment, error) {
	if instructorID, ok := scope.RestrictedTo(); ok {
		return s.assignments.FindByIDForInstructor(ctx, id, instructorID)
	}
	return s.assignments.FindByID(ctx, id)
}
