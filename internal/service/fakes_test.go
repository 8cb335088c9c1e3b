package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gradeflow/gradeflow-backend/internal/model"
	"github.com/gradeflow/gradeflow-backend/internal/repository"
)

// In-memory fakes for the collaborator interfaces. They implement the same
// error contracts as the pgx repositories.

type fakeDirectory struct {
	users map[uuid.UUID]model.User
}

func newFakeDirectory(users ...model.User) *fakeDirectory {
	d := &fakeDirectory{users: make(map[uuid.UUID]model.User)}
	for _, u := range users {
		d.users[u.ID] = u
	}
	return d
}

func (d *fakeDirectory) ResolveByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	u, ok := d.users[id]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	return &u, nil
}

func (d *fakeDirectory) ResolveMany(_ context.Context, ids []uuid.UUID) ([]model.User, error) {
	var out []model.User
	for _, id := range ids {
		if u, ok := d.users[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

type fakeRegistry struct {
	classes     map[uuid.UUID]model.Class
	enrollments []model.Enrollment
}

func newFakeRegistry(classes ...model.Class) *fakeRegistry {
	r := &fakeRegistry{classes: make(map[uuid.UUID]model.Class)}
	for _, c := range classes {
		r.classes[c.ID] = c
	}
	return r
}

func (r *fakeRegistry) enroll(classID, studentID uuid.UUID) {
	r.enrollments = append(r.enrollments, model.Enrollment{
		ID:        uuid.New(),
		ClassID:   classID,
		StudentID: studentID,
		Status:    model.EnrollmentActive,
	})
}

func (r *fakeRegistry) GetClass(_ context.Context, id uuid.UUID) (*model.Class, error) {
	c, ok := r.classes[id]
	if !ok {
		return nil, model.ErrClassNotFound
	}
	return &c, nil
}

func (r *fakeRegistry) FindEnrollment(_ context.Context, classID, studentID uuid.UUID) (*model.Enrollment, error) {
	for i := range r.enrollments {
		if r.enrollments[i].ClassID == classID && r.enrollments[i].StudentID == studentID {
			return &r.enrollments[i], nil
		}
	}
	return nil, nil
}

func (r *fakeRegistry) ListEnrollmentsByClass(_ context.Context, classID uuid.UUID) ([]model.Enrollment, error) {
	var out []model.Enrollment
	for _, e := range r.enrollments {
		if e.ClassID == classID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *fakeRegistry) ListEnrollmentsByStudent(_ context.Context, studentID uuid.UUID) ([]model.Enrollment, error) {
	var out []model.Enrollment
	for _, e := range r.enrollments {
		if e.StudentID == studentID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *fakeRegistry) ListClassesByIDs(_ context.Context, ids []uuid.UUID) ([]model.Class, error) {
	var out []model.Class
	for _, id := range ids {
		if c, ok := r.classes[id]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *fakeRegistry) FilterEnrolledStudents(_ context.Context, classID uuid.UUID, studentIDs []uuid.UUID) ([]uuid.UUID, error) {
	enrolled := make(map[uuid.UUID]bool)
	for _, e := range r.enrollments {
		if e.ClassID == classID {
			enrolled[e.StudentID] = true
		}
	}
	var out []uuid.UUID
	for _, id := range studentIDs {
		if enrolled[id] {
			out = append(out, id)
		}
	}
	return out, nil
}

type fakeCatalog struct {
	assignments []model.Assignment
	classes     *fakeRegistry
}

func newFakeCatalog(classes *fakeRegistry, assignments ...model.Assignment) *fakeCatalog {
	return &fakeCatalog{assignments: assignments, classes: classes}
}

func (c *fakeCatalog) FindByID(_ context.Context, id uuid.UUID) (*model.Assignment, error) {
	for _, a := range c.assignments {
		if a.ID == id {
			out := a
			return &out, nil
		}
	}
	return nil, model.ErrAssignmentNotFound
}

func (c *fakeCatalog) FindByIDForInstructor(ctx context.Context, id, instructorID uuid.UUID) (*model.Assignment, error) {
	a, err := c.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	class, ok := c.classes.classes[a.ClassID]
	if !ok {
		return nil, model.ErrClassNotFound
	}
	if !class.HasInstructor(instructorID) {
		return nil, model.ErrNotClassInstructor
	}
	return a, nil
}

// ListByClassIDs mirrors the catalog's stable (due date, creation time)
// ordering.
func (c *fakeCatalog) ListByClassIDs(_ context.Context, classIDs []uuid.UUID) ([]model.Assignment, error) {
	wanted := make(map[uuid.UUID]bool, len(classIDs))
	for _, id := range classIDs {
		wanted[id] = true
	}
	var out []model.Assignment
	for _, a := range c.assignments {
		if wanted[a.ClassID] {
			out = append(out, a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].DueAt.Equal(out[j].DueAt) {
			return out[i].DueAt.Before(out[j].DueAt)
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

type fakeSink struct {
	mu    sync.Mutex
	notes []model.GradeReleaseNote
	err   error
}

func (s *fakeSink) NotifyGradeRelease(_ context.Context, note model.GradeReleaseNote) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.notes = append(s.notes, note)
	return nil
}

// fakeGradeStore mimics the single-statement atomicity of the real store: a
// mutex guards each upsert's read-modify-write so history appends are never
// lost.
type fakeGradeStore struct {
	mu     sync.Mutex
	grades map[uuid.UUID]*model.Grade
}

func newFakeGradeStore() *fakeGradeStore {
	return &fakeGradeStore{grades: make(map[uuid.UUID]*model.Grade)}
}

func (s *fakeGradeStore) find(assignmentID, studentID uuid.UUID) *model.Grade {
	for _, g := range s.grades {
		if g.AssignmentID == assignmentID && g.StudentID == studentID {
			return g
		}
	}
	return nil
}

func (s *fakeGradeStore) Upsert(_ context.Context, p repository.UpsertGradeParams) (*model.Grade, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	g := s.find(p.AssignmentID, p.StudentID)
	if g == nil {
		g = &model.Grade{
			ID:           uuid.New(),
			AssignmentID: p.AssignmentID,
			StudentID:    p.StudentID,
			CreatedAt:    time.Now().UTC(),
		}
		s.grades[g.ID] = g
	}
	g.Score = p.Score
	g.LetterGrade = p.LetterGrade
	g.Feedback = p.Feedback
	g.Status = p.Status
	g.History = append(g.History, p.Entry)
	g.UpdatedAt = time.Now().UTC()

	out := *g
	return &out, nil
}

func (s *fakeGradeStore) GetByID(_ context.Context, id uuid.UUID) (*model.Grade, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.grades[id]
	if !ok {
		return nil, model.ErrGradeNotFound
	}
	out := *g
	return &out, nil
}

func (s *fakeGradeStore) Release(_ context.Context, id uuid.UUID, releasedAt time.Time, feedback *string, entry model.GradeHistoryEntry) (*model.Grade, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.grades[id]
	if !ok {
		return nil, model.ErrGradeNotFound
	}
	g.Status = model.GradeStatusReleased
	g.ReleasedAt = &releasedAt
	if feedback != nil {
		g.Feedback = *feedback
	}
	g.History = append(g.History, entry)
	g.UpdatedAt = time.Now().UTC()

	out := *g
	return &out, nil
}

func (s *fakeGradeStore) ListByAssignment(_ context.Context, assignmentID uuid.UUID) ([]model.Grade, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Grade
	for _, g := range s.grades {
		if g.AssignmentID == assignmentID {
			out = append(out, *g)
		}
	}
	return out, nil
}

func (s *fakeGradeStore) ListByStudent(_ context.Context, studentID uuid.UUID) ([]model.Grade, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Grade
	for _, g := range s.grades {
		if g.StudentID == studentID {
			out = append(out, *g)
		}
	}
	return out, nil
}

func (s *fakeGradeStore) ListForStudentByAssignmentIDs(_ context.Context, studentID uuid.UUID, assignmentIDs []uuid.UUID) ([]model.Grade, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	wanted := make(map[uuid.UUID]bool, len(assignmentIDs))
	for _, id := range assignmentIDs {
		wanted[id] = true
	}
	var out []model.Grade
	for _, g := range s.grades {
		if g.StudentID == studentID && wanted[g.AssignmentID] {
			out = append(out, *g)
		}
	}
	return out, nil
}

type fakeGroupStore struct {
	mu            sync.Mutex
	studentGroups map[uuid.UUID]*model.StudentGroup
	graderGroups  map[uuid.UUID]*model.GraderGroup
	bundles       map[uuid.UUID]*model.GroupBundle
}

func newFakeGroupStore() *fakeGroupStore {
	return &fakeGroupStore{
		studentGroups: make(map[uuid.UUID]*model.StudentGroup),
		graderGroups:  make(map[uuid.UUID]*model.GraderGroup),
		bundles:       make(map[uuid.UUID]*model.GroupBundle),
	}
}

func (s *fakeGroupStore) CreateStudentGroup(_ context.Context, g *model.StudentGroup) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.studentGroups {
		if existing.ClassID == g.ClassID && existing.Name == g.Name {
			return model.ErrDuplicateGroupName
		}
	}
	g.ID = uuid.New()
	g.CreatedAt = time.Now().UTC()
	g.UpdatedAt = g.CreatedAt
	cp := *g
	s.studentGroups[g.ID] = &cp
	return nil
}

func (s *fakeGroupStore) GetStudentGroup(_ context.Context, classID, groupID uuid.UUID) (*model.StudentGroup, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.studentGroups[groupID]
	if !ok || g.ClassID != classID {
		return nil, model.ErrStudentGroupNotFound
	}
	out := *g
	return &out, nil
}

func (s *fakeGroupStore) ReplaceStudentGroupMembers(_ context.Context, classID, groupID uuid.UUID, memberIDs []uuid.UUID) (*model.StudentGroup, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.studentGroups[groupID]
	if !ok || g.ClassID != classID {
		return nil, model.ErrStudentGroupNotFound
	}
	g.MemberIDs = memberIDs
	g.UpdatedAt = time.Now().UTC()
	out := *g
	return &out, nil
}

func (s *fakeGroupStore) ListStudentGroups(_ context.Context, classID uuid.UUID) ([]model.StudentGroup, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.StudentGroup
	for _, g := range s.studentGroups {
		if g.ClassID == classID {
			out = append(out, *g)
		}
	}
	return out, nil
}

func (s *fakeGroupStore) ListStudentGroupsByIDs(_ context.Context, ids []uuid.UUID) ([]model.StudentGroup, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.StudentGroup
	for _, id := range ids {
		if g, ok := s.studentGroups[id]; ok {
			out = append(out, *g)
		}
	}
	return out, nil
}

func (s *fakeGroupStore) CreateGraderGroup(_ context.Context, g *model.GraderGroup) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.graderGroups {
		if existing.ClassID == g.ClassID && existing.Name == g.Name {
			return model.ErrDuplicateGroupName
		}
	}
	g.ID = uuid.New()
	g.CreatedAt = time.Now().UTC()
	g.UpdatedAt = g.CreatedAt
	cp := *g
	s.graderGroups[g.ID] = &cp
	return nil
}

func (s *fakeGroupStore) GetGraderGroup(_ context.Context, classID, groupID uuid.UUID) (*model.GraderGroup, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.graderGroups[groupID]
	if !ok || g.ClassID != classID {
		return nil, model.ErrGraderGroupNotFound
	}
	out := *g
	return &out, nil
}

func (s *fakeGroupStore) UpdateGraderGroup(_ context.Context, g *model.GraderGroup) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.graderGroups[g.ID]
	if !ok || existing.ClassID != g.ClassID {
		return model.ErrGraderGroupNotFound
	}
	cp := *g
	cp.UpdatedAt = time.Now().UTC()
	s.graderGroups[g.ID] = &cp
	return nil
}

func (s *fakeGroupStore) ListGraderGroups(_ context.Context, classID uuid.UUID) ([]model.GraderGroup, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.GraderGroup
	for _, g := range s.graderGroups {
		if g.ClassID == classID {
			out = append(out, *g)
		}
	}
	return out, nil
}

func (s *fakeGroupStore) ListGraderGroupsByIDs(_ context.Context, ids []uuid.UUID) ([]model.GraderGroup, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.GraderGroup
	for _, id := range ids {
		if g, ok := s.graderGroups[id]; ok {
			out = append(out, *g)
		}
	}
	return out, nil
}

func (s *fakeGroupStore) CreateBundle(_ context.Context, b *model.GroupBundle) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.bundles {
		if existing.ClassID == b.ClassID &&
			existing.StudentGroupID == b.StudentGroupID &&
			existing.GraderGroupID == b.GraderGroupID {
			return model.ErrDuplicateBundle
		}
	}
	b.ID = uuid.New()
	b.CreatedAt = time.Now().UTC()
	b.UpdatedAt = b.CreatedAt
	cp := *b
	s.bundles[b.ID] = &cp
	return nil
}

func (s *fakeGroupStore) ListBundles(_ context.Context, classID uuid.UUID) ([]model.GroupBundle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.GroupBundle
	for _, b := range s.bundles {
		if b.ClassID == classID {
			out = append(out, *b)
		}
	}
	return out, nil
}
