package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/gradeflow/gradeflow-backend/internal/model"
	"github.com/gradeflow/gradeflow-backend/internal/repository"
	"github.com/rs/zerolog"
)

// ProgrammeService manages degree programmes and their cohorts.
type ProgrammeService struct {
	programmes *repository.ProgrammeRepository
	log        zerolog.Logger
}

// NewProgrammeService creates a new ProgrammeService.
func NewProgrammeService(programmes *repository.ProgrammeRepository, log zerolog.Logger) *ProgrammeService {
	return &ProgrammeService{
		programmes: programmes,
		log:        log.With().Str("component", "programme_service").Logger(),
	}
}

// CreateProgramme creates a programme. Names are unique.
func (s *ProgrammeService) CreateProgramme(ctx context.Context, req model.CreateProgrammeRequest) (*model.Programme, error) {
	programme := &model.Programme{
		Name:        req.Name,
		Description: req.Description,
	}
	if err := s.programmes.CreateProgramme(ctx, programme); err != nil {
		return nil, err
	}
	return programme, nil
}

// ListProgrammes lists all programmes.
func (s *ProgrammeService) ListProgrammes(ctx context.Context) ([]model.Programme, error) {
	return s.programmes.ListProgrammes(ctx)
}

// CreateCohort creates a cohort under a programme. Labels are unique per
// programme.
func (s *ProgrammeService) CreateCohort(ctx context.Context, programmeID uuid.UUID, req model.CreateCohortRequest) (*model.Cohort, error) {
	if _, err := s.programmes.GetProgramme(ctx, programmeID); err != nil {
		return nil, err
	}

	cohort := &model.Cohort{
		ProgrammeID: programmeID,
		Label:       req.Label,
		StartAt:     req.StartAt,
		EndAt:       req.EndAt,
	}
	if err := s.programmes.CreateCohort(ctx, cohort); err != nil {
		return nil, err
	}
	return cohort, nil
}

// ListCohorts lists the cohorts of a programme.
func (s *ProgrammeService) ListCohorts(ctx context.Context, programmeID uuid.UUID) ([]model.Cohort, error) {
	if _, err := s.programmes.GetProgramme(ctx, programmeID); err != nil {
		return nil, err
	}
	return s.programmes.ListCohorts(ctx, programmeID)
}
