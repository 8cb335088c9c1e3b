package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/gradeflow/gradeflow-backend/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// GroupRepository owns the student_groups, grader_groups, and group_bundles
// collections.
type GroupRepository struct {
	pool *pgxpool.Pool
}

// NewGroupRepository creates a new GroupRepository.
func NewGroupRepository(pool *pgxpool.Pool) *GroupRepository {
	return &GroupRepository{pool: pool}
}

const studentGroupColumns = `id, class_id, name, description, member_ids, created_at, updated_at`

func scanStudentGroup(row pgx.Row) (*model.StudentGroup, error) {
	g := &model.StudentGroup{}
	err := row.Scan(&g.ID, &g.ClassID, &g.Name, &g.Description, &g.MemberIDs,
		&g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return g, nil
}

// CreateStudentGroup inserts a student group. Names are unique per class.
func (r *GroupRepository) CreateStudentGroup(ctx context.Context, g *model.StudentGroup) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO student_groups (class_id, name, description, member_ids)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at, updated_at`,
		g.ClassID, g.Name, g.Description, g.MemberIDs,
	).Scan(&g.ID, &g.CreatedAt, &g.UpdatedAt)
	if isUniqueViolation(err) {
		return model.ErrDuplicateGroupName
	}
	return err
}

// GetStudentGroup retrieves a student group scoped to its class.
func (r *GroupRepository) GetStudentGroup(ctx context.Context, classID, groupID uuid.UUID) (*model.StudentGroup, error) {
	g, err := scanStudentGroup(r.pool.QueryRow(ctx,
		`SELECT `+studentGroupColumns+` FROM student_groups
		 WHERE id = $1 AND class_id = $2`, groupID, classID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrStudentGroupNotFound
	}
	return g, err
}

// ReplaceStudentGroupMembers fully replaces a group's member set.
func (r *GroupRepository) ReplaceStudentGroupMembers(ctx context.Context, classID, groupID uuid.UUID, memberIDs []uuid.UUID) (*model.StudentGroup, error) {
	g, err := scanStudentGroup(r.pool.QueryRow(ctx,
		`UPDATE student_groups SET member_ids = $3, updated_at = NOW()
		 WHERE id = $1 AND class_id = $2
		 RETURNING `+studentGroupColumns,
		groupID, classID, memberIDs))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrStudentGroupNotFound
	}
	return g, err
}

// ListStudentGroups returns a class's student groups ordered by name.
func (r *GroupRepository) ListStudentGroups(ctx context.Context, classID uuid.UUID) ([]model.StudentGroup, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+studentGroupColumns+` FROM student_groups
		 WHERE class_id = $1 ORDER BY name`, classID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var groups []model.StudentGroup
	for rows.Next() {
		g, err := scanStudentGroup(rows)
		if err != nil {
			return nil, err
		}
		groups = append(groups, *g)
	}
	return groups, rows.Err()
}

// ListStudentGroupsByIDs retrieves student groups by id, unscoped. Used for
// bundle decoration.
func (r *GroupRepository) ListStudentGroupsByIDs(ctx context.Context, ids []uuid.UUID) ([]model.StudentGroup, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := r.pool.Query(ctx,
		`SELECT `+studentGroupColumns+` FROM student_groups WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var groups []model.StudentGroup
	for rows.Next() {
		g, err := scanStudentGroup(rows)
		if err != nil {
			return nil, err
		}
		groups = append(groups, *g)
	}
	return groups, rows.Err()
}

const graderGroupColumns = `id, class_id, name, description, grader_ids, created_at, updated_at`

func scanGraderGroup(row pgx.Row) (*model.GraderGroup, error) {
	g := &model.GraderGroup{}
	err := row.Scan(&g.ID, &g.ClassID, &g.Name, &g.Description, &g.GraderIDs,
		&g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return g, nil
}

// CreateGraderGroup inserts a grader group. Names are unique per class.
func (r *GroupRepository) CreateGraderGroup(ctx context.Context, g *model.GraderGroup) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO grader_groups (class_id, name, description, grader_ids)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at, updated_at`,
		g.ClassID, g.Name, g.Description, g.GraderIDs,
	).Scan(&g.ID, &g.CreatedAt, &g.UpdatedAt)
	if isUniqueViolation(err) {
		return model.ErrDuplicateGroupName
	}
	return err
}

// GetGraderGroup retrieves a grader group scoped to its class.
func (r *GroupRepository) GetGraderGroup(ctx context.Context, classID, groupID uuid.UUID) (*model.GraderGroup, error) {
	g, err := scanGraderGroup(r.pool.QueryRow(ctx,
		`SELECT `+graderGroupColumns+` FROM grader_groups
		 WHERE id = $1 AND class_id = $2`, groupID, classID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrGraderGroupNotFound
	}
	return g, err
}

// UpdateGraderGroup rewrites a grader group's fields.
func (r *GroupRepository) UpdateGraderGroup(ctx context.Context, g *model.GraderGroup) error {
	err := r.pool.QueryRow(ctx,
		`UPDATE grader_groups
		 SET name = $3, description = $4, grader_ids = $5, updated_at = NOW()
		 WHERE id = $1 AND class_id = $2
		 RETURNING updated_at`,
		g.ID, g.ClassID, g.Name, g.Description, g.GraderIDs,
	).Scan(&g.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.ErrGraderGroupNotFound
	}
	if isUniqueViolation(err) {
		return model.ErrDuplicateGroupName
	}
	return err
}

// ListGraderGroups returns a class's grader groups ordered by name.
func (r *GroupRepository) ListGraderGroups(ctx context.Context, classID uuid.UUID) ([]model.GraderGroup, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+graderGroupColumns+` FROM grader_groups
		 WHERE class_id = $1 ORDER BY name`, classID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var groups []model.GraderGroup
	for rows.Next() {
		g, err := scanGraderGroup(rows)
		if err != nil {
			return nil, err
		}
		groups = append(groups, *g)
	}
	return groups, rows.Err()
}

// ListGraderGroupsByIDs retrieves grader groups by id, unscoped. Used for
// bundle decoration.
func (r *GroupRepository) ListGraderGroupsByIDs(ctx context.Context, ids []uuid.UUID) ([]model.GraderGroup, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := r.pool.Query(ctx,
		`SELECT `+graderGroupColumns+` FROM grader_groups WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var groups []model.GraderGroup
	for rows.Next() {
		g, err := scanGraderGroup(rows)
		if err != nil {
			return nil, err
		}
		groups = append(groups, *g)
	}
	return groups, rows.Err()
}

const bundleColumns = `id, class_id, student_group_id, grader_group_id, notes, created_at, updated_at`

// CreateBundle inserts a group bundle. The (class, student group, grader
// group) triple is unique.
func (r *GroupRepository) CreateBundle(ctx context.Context, b *model.GroupBundle) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO group_bundles (class_id, student_group_id, grader_group_id, notes)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at, updated_at`,
		b.ClassID, b.StudentGroupID, b.GraderGroupID, b.Notes,
	).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
	if isUniqueViolation(err) {
		return model.ErrDuplicateBundle
	}
	return err
}

// ListBundles returns a class's group bundles in creation order.
func (r *GroupRepository) ListBundles(ctx context.Context, classID uuid.UUID) ([]model.GroupBundle, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+bundleColumns+` FROM group_bundles
		 WHERE class_id = $1 ORDER BY created_at`, classID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bundles []model.GroupBundle
	for rows.Next() {
		var b model.GroupBundle
		if err := rows.Scan(&b.ID, &b.ClassID, &b.StudentGroupID, &b.GraderGroupID,
			&b.Notes, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, err
		}
		bundles = append(bundles, b)
	}
	return bundles, rows.Err()
}
