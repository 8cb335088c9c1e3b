package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/gradeflow/gradeflow-backend/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// GradeRepository owns the grades collection and its append-only history.
type GradeRepository struct {
	pool *pgxpool.Pool
}

// NewGradeRepository creates a new GradeRepository.
func NewGradeRepository(pool *pgxpool.Pool) *GradeRepository {
	return &GradeRepository{pool: pool}
}

const gradeColumns = `id, assignment_id, student_id, score, letter_grade, feedback,
       status, released_at, history, created_at, updated_at`

func scanGrade(row pgx.Row) (*model.Grade, error) {
	g := &model.Grade{}
	var history []byte
	err := row.Scan(&g.ID, &g.AssignmentID, &g.StudentID, &g.Score, &g.LetterGrade,
		&g.Feedback, &g.Status, &g.ReleasedAt, &history, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(history, &g.History); err != nil {
		return nil, fmt.Errorf("decode history: %w", err)
	}
	return g, nil
}

// UpsertGradeParams carries the new field values and the history entry for
// one upsert.
type UpsertGradeParams struct {
	AssignmentID uuid.UUID
	StudentID    uuid.UUID
	Score        *float64
	LetterGrade  *string
	Feedback     string
	Status       model.GradeStatus
	Entry        model.GradeHistoryEntry
}

// Upsert creates or updates the grade for (assignment, student) and appends
// the history entry in the same statement. A single INSERT ... ON CONFLICT
// keeps the read-modify-write atomic per key: two concurrent upserts can
// never lose a history append.
func (r *GradeRepository) Upsert(ctx context.Context, p UpsertGradeParams) (*model.Grade, error) {
	entryJSON, err := json.Marshal(p.Entry)
	if err != nil {
		return nil, fmt.Errorf("encode history entry: %w", err)
	}

	row := r.pool.QueryRow(ctx,
		`INSERT INTO grades (assignment_id, student_id, score, letter_grade, feedback, status, history)
		 VALUES ($1, $2, $3, $4, $5, $6, jsonb_build_array($7::jsonb))
		 ON CONFLICT (assignment_id, student_id) DO UPDATE
		 SET score        = EXCLUDED.score,
		     letter_grade = EXCLUDED.letter_grade,
		     feedback     = EXCLUDED.feedback,
		     status       = EXCLUDED.status,
		     history      = grades.history || $7::jsonb,
		     updated_at   = NOW()
		 RETURNING `+gradeColumns,
		p.AssignmentID, p.StudentID, p.Score, p.LetterGrade, p.Feedback, p.Status, entryJSON,
	)
	return scanGrade(row)
}

// GetByID retrieves a grade with its full history.
func (r *GradeRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Grade, error) {
	g, err := scanGrade(r.pool.QueryRow(ctx,
		`SELECT `+gradeColumns+` FROM grades WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrGradeNotFound
	}
	return g, err
}

// Release marks a grade released and appends the release history entry in
// one UPDATE. Feedback is only overwritten when a non-nil value is given.
func (r *GradeRepository) Release(ctx context.Context, id uuid.UUID, releasedAt time.Time, feedback *string, entry model.GradeHistoryEntry) (*model.Grade, error) {
	entryJSON, err := json.Marshal(entry)
	if err != nil {
		return nil, fmt.Errorf("encode history entry: %w", err)
	}

	g, err := scanGrade(r.pool.QueryRow(ctx,
		`UPDATE grades
		 SET status      = $2,
		     released_at = $3,
		     feedback    = COALESCE($4, feedback),
		     history     = history || $5::jsonb,
		     updated_at  = NOW()
		 WHERE id = $1
		 RETURNING `+gradeColumns,
		id, model.GradeStatusReleased, releasedAt, feedback, entryJSON,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrGradeNotFound
	}
	return g, err
}

// ListByAssignment returns all grades recorded for an assignment.
func (r *GradeRepository) ListByAssignment(ctx context.Context, assignmentID uuid.UUID) ([]model.Grade, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+gradeColumns+` FROM grades WHERE assignment_id = $1`, assignmentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectGrades(rows)
}

// ListByStudent returns all grades recorded for a student across classes.
func (r *GradeRepository) ListByStudent(ctx context.Context, studentID uuid.UUID) ([]model.Grade, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+gradeColumns+` FROM grades WHERE student_id = $1
		 ORDER BY created_at`, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectGrades(rows)
}

// ListForStudentByAssignmentIDs returns the student's grades limited to the
// given assignments. Used by the overview aggregation.
func (r *GradeRepository) ListForStudentByAssignmentIDs(ctx context.Context, studentID uuid.UUID, assignmentIDs []uuid.UUID) ([]model.Grade, error) {
	if len(assignmentIDs) == 0 {
		return nil, nil
	}
	rows, err := r.pool.Query(ctx,
		`SELECT `+gradeColumns+` FROM grades
		 WHERE student_id = $1 AND assignment_id = ANY($2)`, studentID, assignmentIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectGrades(rows)
}

func collectGrades(rows pgx.Rows) ([]model.Grade, error) {
	var grades []model.Grade
	for rows.Next() {
		g, err := scanGrade(rows)
		if err != nil {
			return nil, err
		}
		grades = append(grades, *g)
	}
	return grades, rows.Err()
}
