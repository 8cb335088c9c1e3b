package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/gradeflow/gradeflow-backend/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ClassRepository handles class and enrollment data access. The grading core
// reads classes and enrollments through it but never mutates them.
type ClassRepository struct {
	pool *pgxpool.Pool
}

// NewClassRepository creates a new ClassRepository.
func NewClassRepository(pool *pgxpool.Pool) *ClassRepository {
	return &ClassRepository{pool: pool}
}

const classColumns = `id, cohort_id, title, code, instructor_ids, schedule_meta, created_at, updated_at`

func scanClass(row pgx.Row) (*model.Class, error) {
	c := &model.Class{}
	err := row.Scan(&c.ID, &c.CohortID, &c.Title, &c.Code, &c.InstructorIDs,
		&c.ScheduleMeta, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// GetClass retrieves a class by id.
func (r *ClassRepository) GetClass(ctx context.Context, id uuid.UUID) (*model.Class, error) {
	c, err := scanClass(r.pool.QueryRow(ctx,
		`SELECT `+classColumns+` FROM classes WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrClassNotFound
	}
	return c, err
}

// CreateClass inserts a new class. Codes are stored uppercased and must be
// unique.
func (r *ClassRepository) CreateClass(ctx context.Context, c *model.Class) error {
	meta := c.ScheduleMeta
	if len(meta) == 0 {
		meta = []byte(`{}`)
	}
	err := r.pool.QueryRow(ctx,
		`INSERT INTO classes (cohort_id, title, code, instructor_ids, schedule_meta)
		 VALUES ($1, $2, UPPER(TRIM($3)), $4, $5)
		 RETURNING id, code, schedule_meta, created_at, updated_at`,
		c.CohortID, c.Title, c.Code, c.InstructorIDs, meta,
	).Scan(&c.ID, &c.Code, &c.ScheduleMeta, &c.CreatedAt, &c.UpdatedAt)
	if isUniqueViolation(err) {
		return model.ErrDuplicateClassCode
	}
	return err
}

// ListClasses returns classes ordered by title, optionally filtered by
// cohort and/or instructor membership.
func (r *ClassRepository) ListClasses(ctx context.Context, cohortID, instructorID *uuid.UUID) ([]model.Class, error) {
	query := `SELECT ` + classColumns + ` FROM classes WHERE 1=1`
	var args []interface{}
	if cohortID != nil {
		args = append(args, *cohortID)
		query += ` AND cohort_id = $1`
	}
	if instructorID != nil {
		args = append(args, *instructorID)
		if len(args) == 1 {
			query += ` AND $1 = ANY(instructor_ids)`
		} else {
			query += ` AND $2 = ANY(instructor_ids)`
		}
	}
	query += ` ORDER BY title`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var classes []model.Class
	for rows.Next() {
		c, err := scanClass(rows)
		if err != nil {
			return nil, err
		}
		classes = append(classes, *c)
	}
	return classes, rows.Err()
}

// ListClassesByIDs retrieves classes by id. Used by the overview
// aggregation to batch-resolve the classes its assignments reference.
func (r *ClassRepository) ListClassesByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Class, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := r.pool.Query(ctx,
		`SELECT `+classColumns+` FROM classes WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var classes []model.Class
	for rows.Next() {
		c, err := scanClass(rows)
		if err != nil {
			return nil, err
		}
		classes = append(classes, *c)
	}
	return classes, rows.Err()
}

const enrollmentColumns = `id, class_id, student_id, status, created_at, updated_at`

func scanEnrollment(row pgx.Row) (*model.Enrollment, error) {
	e := &model.Enrollment{}
	err := row.Scan(&e.ID, &e.ClassID, &e.StudentID, &e.Status, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return e, nil
}

// FindEnrollment returns the enrollment for (class, student), or nil when
// the student has no enrollment row in that class.
func (r *ClassRepository) FindEnrollment(ctx context.Context, classID, studentID uuid.UUID) (*model.Enrollment, error) {
	e, err := scanEnrollment(r.pool.QueryRow(ctx,
		`SELECT `+enrollmentColumns+` FROM enrollments
		 WHERE class_id = $1 AND student_id = $2`, classID, studentID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return e, err
}

// UpsertEnrollment enrolls a student or updates the status of an existing
// enrollment, keyed by (class, student).
func (r *ClassRepository) UpsertEnrollment(ctx context.Context, classID, studentID uuid.UUID, status model.EnrollmentStatus) (*model.Enrollment, error) {
	return scanEnrollment(r.pool.QueryRow(ctx,
		`INSERT INTO enrollments (class_id, student_id, status)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (class_id, student_id) DO UPDATE
		 SET status = EXCLUDED.status, updated_at = NOW()
		 RETURNING `+enrollmentColumns,
		classID, studentID, status))
}

// ListEnrollmentsByClass returns all enrollment rows of a class.
func (r *ClassRepository) ListEnrollmentsByClass(ctx context.Context, classID uuid.UUID) ([]model.Enrollment, error) {
	return r.listEnrollments(ctx,
		`SELECT `+enrollmentColumns+` FROM enrollments WHERE class_id = $1`, classID)
}

// ListEnrollmentsByStudent returns all enrollment rows of a student.
func (r *ClassRepository) ListEnrollmentsByStudent(ctx context.Context, studentID uuid.UUID) ([]model.Enrollment, error) {
	return r.listEnrollments(ctx,
		`SELECT `+enrollmentColumns+` FROM enrollments WHERE student_id = $1`, studentID)
}

// FilterEnrolledStudents returns the subset of studentIDs that have an
// enrollment row in the class. Used to validate group memberships in one
// round trip.
func (r *ClassRepository) FilterEnrolledStudents(ctx context.Context, classID uuid.UUID, studentIDs []uuid.UUID) ([]uuid.UUID, error) {
	if len(studentIDs) == 0 {
		return nil, nil
	}
	rows, err := r.pool.Query(ctx,
		`SELECT student_id FROM enrollments
		 WHERE class_id = $1 AND student_id = ANY($2)`, classID, studentIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var enrolled []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		enrolled = append(enrolled, id)
	}
	return enrolled, rows.Err()
}

func (r *ClassRepository) listEnrollments(ctx context.Context, query string, arg interface{}) ([]model.Enrollment, error) {
	rows, err := r.pool.Query(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var enrollments []model.Enrollment
	for rows.Next() {
		e, err := scanEnrollment(rows)
		if err != nil {
			return nil, err
		}
		enrollments = append(enrollments, *e)
	}
	return enrollments, rows.Err()
}
