package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/gradeflow/gradeflow-backend/internal/model"
	"github.com/rs/zerolog"
)

func newGradeFixture() (*GradeService, *fakeGradeStore, *fakeRegistry, *fakeCatalog, *fakeDirectory, *fakeSink, model.Class, model.Assignment, model.User) {
	instructorID := uuid.New()
	class := model.Class{ID: uuid.New(), Title: "Distributed Systems", Code: "SE-DS-301", InstructorIDs: []uuid.UUID{instructorID}}
	assignment := model.Assignment{ID: uuid.New(), ClassID: class.ID, Title: "Raft Lab"}
	student := model.User{ID: uuid.New(), Name: "Ada Lovelace", Email: "ada@example.edu", Role: model.RoleStudent}

	registry := newFakeRegistry(class)
	registry.enroll(class.ID, student.ID)
	catalog := newFakeCatalog(registry, assignment)
	directory := newFakeDirectory(student)
	store := newFakeGradeStore()
	sink := &fakeSink{}

	svc := NewGradeService(store, catalog, registry, directory, sink, nil, zerolog.Nop())
	return svc, store, registry, catalog, directory, sink, class, assignment, student
}

func floatPtr(v float64) *float64 { return &v }
func strPtr(v string) *string     { return &v }

func TestUpsertGradeAppendsOneHistoryEntryPerCall(t *testing.T) {
	svc, _, _, _, _, _, _, assignment, student := newGradeFixture()
	ctx := context.Background()
	actor := uuid.New()

	first, err := svc.UpsertGrade(ctx, assignment.ID, model.UpsertGradeRequest{
		StudentID: student.ID,
		Score:     floatPtr(72),
	}, actor, UnrestrictedScope())
	if err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	if len(first.History) != 1 {
		t.Fatalf("expected 1 history entry, got %d", len(first.History))
	}
	if first.Status != model.GradeStatusDraft {
		t.Fatalf("expected draft default, got %s", first.Status)
	}

	second, err := svc.UpsertGrade(ctx, assignment.ID, model.UpsertGradeRequest{
		StudentID: student.ID,
		Score:     floatPtr(85),
		Feedback:  strPtr("much improved"),
		Status:    model.GradeStatusPending,
	}, actor, UnrestrictedScope())
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("upsert created a second record for the same key")
	}
	if len(second.History) != 2 {
		t.Fatalf("expected 2 history entries, got %d", len(second.History))
	}
	last := second.History[1]
	if last.Status != model.GradeStatusPending || last.Feedback != "much improved" {
		t.Fatalf("history entry does not capture post-write state: %+v", last)
	}
	if last.ActorID == nil || *last.ActorID != actor {
		t.Fatalf("history entry lost the actor id")
	}
	if *second.Score != 85 {
		t.Fatalf("expected score 85, got %v", *second.Score)
	}
}

func TestUpsertGradeRejectsUnenrolledStudent(t *testing.T) {
	svc, store, _, _, directory, _, _, assignment, _ := newGradeFixture()

	outsider := model.User{ID: uuid.New(), Name: "Walk In", Role: model.RoleStudent}
	directory.users[outsider.ID] = outsider

	_, err := svc.UpsertGrade(context.Background(), assignment.ID, model.UpsertGradeRequest{
		StudentID: outsider.ID,
	}, uuid.New(), UnrestrictedScope())
	if !errors.Is(err, model.ErrNotEnrolled) {
		t.Fatalf("expected ErrNotEnrolled, got %v", err)
	}
	if len(store.grades) != 0 {
		t.Fatalf("rejected upsert must not write a grade")
	}
}

func TestUpsertGradeUnknownStudent(t *testing.T) {
	svc, _, _, _, _, _, _, assignment, _ := newGradeFixture()

	_, err := svc.UpsertGrade(context.Background(), assignment.ID, model.UpsertGradeRequest{
		StudentID: uuid.New(),
	}, uuid.New(), UnrestrictedScope())
	if !errors.Is(err, model.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUpsertGradeInstructorScope(t *testing.T) {
	svc, _, _, _, _, _, class, assignment, student := newGradeFixture()
	ctx := context.Background()

	_, err := svc.UpsertGrade(ctx, assignment.ID, model.UpsertGradeRequest{
		StudentID: student.ID,
	}, uuid.New(), InstructorScope(uuid.New()))
	if !errors.Is(err, model.ErrNotClassInstructor) {
		t.Fatalf("expected ErrNotClassInstructor for outside instructor, got %v", err)
	}

	if _, err := svc.UpsertGrade(ctx, assignment.ID, model.UpsertGradeRequest{
		StudentID: student.ID,
	}, class.InstructorIDs[0], InstructorScope(class.InstructorIDs[0])); err != nil {
		t.Fatalf("assigned instructor should pass scope check: %v", err)
	}
}

func TestReleaseGradeAppendsEntryAndNotifiesOnce(t *testing.T) {
	svc, _, _, _, _, sink, _, assignment, student := newGradeFixture()
	ctx := context.Background()
	actor := uuid.New()

	grade, err := svc.UpsertGrade(ctx, assignment.ID, model.UpsertGradeRequest{
		StudentID: student.ID,
		Score:     floatPtr(91),
	}, actor, UnrestrictedScope())
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}

	released, err := svc.ReleaseGrade(ctx, grade.ID, model.ReleaseGradeRequest{
		Feedback: strPtr("great work"),
	}, actor, UnrestrictedScope())
	if err != nil {
		t.Fatalf("release: %v", err)
	}
	if released.Status != model.GradeStatusReleased {
		t.Fatalf("expected released status, got %s", released.Status)
	}
	if released.ReleasedAt == nil {
		t.Fatalf("release must stamp released_at")
	}
	if released.Feedback != "great work" {
		t.Fatalf("release feedback override not applied: %q", released.Feedback)
	}
	if len(released.History) != 2 {
		t.Fatalf("expected 2 history entries after release, got %d", len(released.History))
	}

	if len(sink.notes) != 1 {
		t.Fatalf("expected exactly one notification, got %d", len(sink.notes))
	}
	note := sink.notes[0]
	if note.StudentID != student.ID || note.AssignmentTitle != assignment.Title || note.ClassID != assignment.ClassID {
		t.Fatalf("notification payload mismatch: %+v", note)
	}
}

func TestReleaseGradeSurvivesNotificationFailure(t *testing.T) {
	svc, store, _, _, _, sink, _, assignment, student := newGradeFixture()
	ctx := context.Background()

	grade, err := svc.UpsertGrade(ctx, assignment.ID, model.UpsertGradeRequest{
		StudentID: student.ID,
	}, uuid.New(), UnrestrictedScope())
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}

	sink.err = errors.New("queue unavailable")
	released, err := svc.ReleaseGrade(ctx, grade.ID, model.ReleaseGradeRequest{}, uuid.New(), UnrestrictedScope())
	if err != nil {
		t.Fatalf("release must not fail on notification error: %v", err)
	}
	if released.Status != model.GradeStatusReleased {
		t.Fatalf("expected released status, got %s", released.Status)
	}

	persisted, err := store.GetByID(ctx, grade.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if persisted.Status != model.GradeStatusReleased {
		t.Fatalf("release was not committed in the ledger")
	}
}

func TestReleaseGradeUnknownID(t *testing.T) {
	svc, _, _, _, _, _, _, _, _ := newGradeFixture()

	_, err := svc.ReleaseGrade(context.Background(), uuid.New(), model.ReleaseGradeRequest{}, uuid.New(), UnrestrictedScope())
	if !errors.Is(err, model.ErrGradeNotFound) {
		t.Fatalf("expected ErrGradeNotFound, got %v", err)
	}
}

func TestListGradesForAssignmentUnionsRosterAndGrades(t *testing.T) {
	svc, _, registry, _, directory, _, class, assignment, graded := newGradeFixture()
	ctx := context.Background()

	// Enrolled but never graded.
	ungraded := model.User{ID: uuid.New(), Name: "Zed Shaw", Role: model.RoleStudent}
	directory.users[ungraded.ID] = ungraded
	registry.enroll(class.ID, ungraded.ID)

	// Graded while enrolled, then dropped: the row must survive.
	dropped := model.User{ID: uuid.New(), Name: "Mia Chen", Role: model.RoleStudent}
	directory.users[dropped.ID] = dropped
	registry.enroll(class.ID, dropped.ID)

	for _, id := range []uuid.UUID{graded.ID, dropped.ID} {
		if _, err := svc.UpsertGrade(ctx, assignment.ID, model.UpsertGradeRequest{
			StudentID: id,
			Score:     floatPtr(80),
		}, uuid.New(), UnrestrictedScope()); err != nil {
			t.Fatalf("upsert: %v", err)
		}
	}
	registry.enrollments = registry.enrollments[:2] // drop Mia's enrollment row

	rows, err := svc.ListGradesForAssignment(ctx, assignment.ID, UnrestrictedScope())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows (roster union grades), got %d", len(rows))
	}

	// Name order: Ada, Mia, Zed.
	wantOrder := []uuid.UUID{graded.ID, dropped.ID, ungraded.ID}
	for i, want := range wantOrder {
		if rows[i].StudentID != want {
			t.Fatalf("row %d: expected student %s, got %s", i, want, rows[i].StudentID)
		}
	}

	byStudent := make(map[uuid.UUID]model.AssignmentGradeRow, len(rows))
	for _, r := range rows {
		byStudent[r.StudentID] = r
	}
	if byStudent[ungraded.ID].Grade != nil {
		t.Fatalf("ungraded student must carry a nil grade")
	}
	if byStudent[ungraded.ID].Status.HasGrade {
		t.Fatalf("ungraded student must report the no-grade status")
	}
	if byStudent[dropped.ID].Grade == nil {
		t.Fatalf("dropped student's grade must stay visible")
	}
	if byStudent[dropped.ID].Enrollment != nil {
		t.Fatalf("dropped student must carry a nil enrollment")
	}
}

func TestListGradesForAssignmentEmptyClass(t *testing.T) {
	svc, _, registry, _, _, _, _, assignment, _ := newGradeFixture()
	registry.enrollments = nil

	rows, err := svc.ListGradesForAssignment(context.Background(), assignment.ID, UnrestrictedScope())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if rows == nil || len(rows) != 0 {
		t.Fatalf("expected empty non-nil slice, got %v", rows)
	}
}

func TestListGradesForStudent(t *testing.T) {
	svc, _, _, _, _, _, _, assignment, student := newGradeFixture()
	ctx := context.Background()

	grades, err := svc.ListGradesForStudent(ctx, student.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if grades == nil || len(grades) != 0 {
		t.Fatalf("expected empty non-nil slice, got %v", grades)
	}

	if _, err := svc.UpsertGrade(ctx, assignment.ID, model.UpsertGradeRequest{
		StudentID: student.ID,
	}, uuid.New(), UnrestrictedScope()); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	grades, err = svc.ListGradesForStudent(ctx, student.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(grades) != 1 {
		t.Fatalf("expected 1 grade, got %d", len(grades))
	}

	if _, err := svc.ListGradesForStudent(ctx, uuid.New()); !errors.Is(err, model.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound for unknown student, got %v", err)
	}
}

func TestConcurrentUpsertsLoseNoHistory(t *testing.T) {
	svc, store, _, _, _, _, _, assignment, student := newGradeFixture()
	ctx := context.Background()

	const writers = 16
	var wg sync.WaitGroup
	wg.Add(writers)
	for i := 0; i < writers; i++ {
		go func(score float64) {
			defer wg.Done()
			_, err := svc.UpsertGrade(ctx, assignment.ID, model.UpsertGradeRequest{
				StudentID: student.ID,
				Score:     floatPtr(score),
			}, uuid.New(), UnrestrictedScope())
			if err != nil {
				t.Errorf("concurrent upsert: %v", err)
			}
		}(float64(i))
	}
	wg.Wait()

	if len(store.grades) != 1 {
		t.Fatalf("expected a single grade record, got %d", len(store.grades))
	}
	for _, g := range store.grades {
		if len(g.History) != writers {
			t.Fatalf("expected %d history entries, got %d", writers, len(g.History))
		}
	}
}
