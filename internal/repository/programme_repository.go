package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/gradeflow/gradeflow-backend/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ProgrammeRepository handles programme and cohort data access.
type ProgrammeRepository struct {
	pool *pgxpool.Pool
}

// NewProgrammeRepository creates a new ProgrammeRepository.
func NewProgrammeRepository(pool *pgxpool.Pool) *ProgrammeRepository {
	return &ProgrammeRepository{pool: pool}
}

// CreateProgramme inserts a new programme.
func (r *ProgrammeRepository) CreateProgramme(ctx context.Context, p *model.Programme) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO programmes (name, description) VALUES ($1, $2)
		 RETURNING id, created_at, updated_at`,
		p.Name, p.Description,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if isUniqueViolation(err) {
		return model.ErrDuplicateProgramme
	}
	return err
}

// ListProgrammes returns all programmes ordered by name.
func (r *ProgrammeRepository) ListProgrammes(ctx context.Context) ([]model.Programme, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, description, created_at, updated_at
		 FROM programmes ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var programmes []model.Programme
	for rows.Next() {
		var p model.Programme
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		programmes = append(programmes, p)
	}
	return programmes, rows.Err()
}

// GetProgramme retrieves a programme by id.
func (r *ProgrammeRepository) GetProgramme(ctx context.Context, id uuid.UUID) (*model.Programme, error) {
	p := &model.Programme{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, description, created_at, updated_at
		 FROM programmes WHERE id = $1`, id,
	).Scan(&p.ID, &p.Name, &p.Description, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrProgrammeNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// CreateCohort inserts a new cohort under a programme.
func (r *ProgrammeRepository) CreateCohort(ctx context.Context, c *model.Cohort) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO cohorts (programme_id, label, start_at, end_at)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at, updated_at`,
		c.ProgrammeID, c.Label, c.StartAt, c.EndAt,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if isUniqueViolation(err) {
		return model.ErrDuplicateCohort
	}
	return err
}

// GetCohort retrieves a cohort by id.
func (r *ProgrammeRepository) GetCohort(ctx context.Context, id uuid.UUID) (*model.Cohort, error) {
	c := &model.Cohort{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, programme_id, label, start_at, end_at, created_at, updated_at
		 FROM cohorts WHERE id = $1`, id,
	).Scan(&c.ID, &c.ProgrammeID, &c.Label, &c.StartAt, &c.EndAt, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrCohortNotFound
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

// ListCohorts returns the cohorts of a programme ordered by start date.
func (r *ProgrammeRepository) ListCohorts(ctx context.Context, programmeID uuid.UUID) ([]model.Cohort, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, programme_id, label, start_at, end_at, created_at, updated_at
		 FROM cohorts WHERE programme_id = $1 ORDER BY start_at`, programmeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cohorts []model.Cohort
	for rows.Next() {
		var c model.Cohort
		if err := rows.Scan(&c.ID, &c.ProgrammeID, &c.Label, &c.StartAt, &c.EndAt,
			&c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		cohorts = append(cohorts, c)
	}
	return cohorts, rows.Err()
}
