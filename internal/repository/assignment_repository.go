package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/gradeflow/gradeflow-backend/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AssignmentRepository handles assignment data access.
type AssignmentRepository struct {
	pool *pgxpool.Pool
}

// NewAssignmentRepository creates a new AssignmentRepository.
func NewAssignmentRepository(pool *pgxpool.Pool) *AssignmentRepository {
	return &AssignmentRepository{pool: pool}
}

const assignmentColumns = `id, class_id, title, description, type, due_at, publish_at,
       grading_schema, max_points, created_at, updated_at`

func scanAssignment(row pgx.Row) (*model.Assignment, error) {
	a := &model.Assignment{}
	err := row.Scan(&a.ID, &a.ClassID, &a.Title, &a.Description, &a.Type, &a.DueAt,
		&a.PublishAt, &a.GradingSchema, &a.MaxPoints, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// FindByID retrieves an assignment by id.
func (r *AssignmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Assignment, error) {
	a, err := scanAssignment(r.pool.QueryRow(ctx,
		`SELECT `+assignmentColumns+` FROM assignments WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrAssignmentNotFound
	}
	return a, err
}

// FindByIDForInstructor retrieves an assignment only when the given
// instructor is assigned to its class. A row that exists but belongs to
// another instructor's class is reported as not an instructor, so callers
// can distinguish "missing" from "not yours".
func (r *AssignmentRepository) FindByIDForInstructor(ctx context.Context, id, instructorID uuid.UUID) (*model.Assignment, error) {
	a, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	var ok bool
	err = r.pool.QueryRow(ctx,
		`SELECT $2 = ANY(instructor_ids) FROM classes WHERE id = $1`,
		a.ClassID, instructorID).Scan(&ok)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrClassNotFound
	}
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, model.ErrNotClassInstructor
	}
	return a, nil
}

// Create inserts a new assignment.
func (r *AssignmentRepository) Create(ctx context.Context, a *model.Assignment) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO assignments (class_id, title, description, type, due_at, publish_at, grading_schema, max_points)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id, created_at, updated_at`,
		a.ClassID, a.Title, a.Description, a.Type, a.DueAt, a.PublishAt,
		a.GradingSchema, a.MaxPoints,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
}

// Update rewrites the mutable fields of an assignment.
func (r *AssignmentRepository) Update(ctx context.Context, a *model.Assignment) error {
	err := r.pool.QueryRow(ctx,
		`UPDATE assignments
		 SET title = $2, description = $3, type = $4, due_at = $5, publish_at = $6,
		     grading_schema = $7, max_points = $8, updated_at = NOW()
		 WHERE id = $1
		 RETURNING updated_at`,
		a.ID, a.Title, a.Description, a.Type, a.DueAt, a.PublishAt,
		a.GradingSchema, a.MaxPoints,
	).Scan(&a.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.ErrAssignmentNotFound
	}
	return err
}

// ListByClass returns a class's assignments ordered by due date.
func (r *AssignmentRepository) ListByClass(ctx context.Context, classID uuid.UUID) ([]model.Assignment, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+assignmentColumns+` FROM assignments
		 WHERE class_id = $1 ORDER BY due_at, created_at`, classID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectAssignments(rows)
}

// ListByClassIDs returns the assignments of the given classes ordered by due
// date. The order is the stable input for the overview sort.
func (r *AssignmentRepository) ListByClassIDs(ctx context.Context, classIDs []uuid.UUID) ([]model.Assignment, error) {
	if len(classIDs) == 0 {
		return nil, nil
	}
	rows, err := r.pool.Query(ctx,
		`SELECT `+assignmentColumns+` FROM assignments
		 WHERE class_id = ANY($1) ORDER BY due_at, created_at`, classIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectAssignments(rows)
}

func collectAssignments(rows pgx.Rows) ([]model.Assignment, error) {
	var assignments []model.Assignment
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, err
		}
		assignments = append(assignments, *a)
	}
	return assignments, rows.Err()
}
