package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gradeflow/gradeflow-backend/internal/model"
	"github.com/rs/zerolog"
)

func TestOverviewEmptyForUnenrolledStudent(t *testing.T) {
	student := model.User{ID: uuid.New(), Name: "Solo Student", Role: model.RoleStudent}
	registry := newFakeRegistry()
	svc := NewOverviewService(newFakeGradeStore(), newFakeCatalog(registry), registry, newFakeDirectory(student), nil, zerolog.Nop())

	rows, err := svc.GetStudentAssignmentOverview(context.Background(), student.ID)
	if err != nil {
		t.Fatalf("overview: %v", err)
	}
	if rows == nil || len(rows) != 0 {
		t.Fatalf("expected empty non-nil slice, got %v", rows)
	}
}

func TestOverviewUnknownStudent(t *testing.T) {
	registry := newFakeRegistry()
	svc := NewOverviewService(newFakeGradeStore(), newFakeCatalog(registry), registry, newFakeDirectory(), nil, zerolog.Nop())

	_, err := svc.GetStudentAssignmentOverview(context.Background(), uuid.New())
	if !errors.Is(err, model.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestOverviewOrdersByDueDateAcrossClasses(t *testing.T) {
	instructorA := model.User{ID: uuid.New(), Name: "Prof. Knuth", Email: "knuth@example.edu", Role: model.RoleTeacher}
	instructorB := model.User{ID: uuid.New(), Name: "Prof. Liskov", Email: "liskov@example.edu", Role: model.RoleTeacher}
	student := model.User{ID: uuid.New(), Name: "Ada Lovelace", Role: model.RoleStudent}

	classA := model.Class{ID: uuid.New(), Title: "Algorithms", Code: "CS-ALG-201", InstructorIDs: []uuid.UUID{instructorA.ID}}
	classB := model.Class{ID: uuid.New(), Title: "Databases", Code: "CS-DB-210", InstructorIDs: []uuid.UUID{instructorB.ID, instructorA.ID}}

	base := time.Date(2026, time.September, 1, 12, 0, 0, 0, time.UTC)
	early := model.Assignment{ID: uuid.New(), ClassID: classB.ID, Title: "Schema Design", DueAt: base, CreatedAt: base}
	// Same due date as `early` but created later: must sort after it.
	earlyTie := model.Assignment{ID: uuid.New(), ClassID: classA.ID, Title: "Sorting Lab", DueAt: base, CreatedAt: base.Add(time.Hour)}
	late := model.Assignment{ID: uuid.New(), ClassID: classA.ID, Title: "Graph Lab", DueAt: base.AddDate(0, 0, 7), CreatedAt: base}

	registry := newFakeRegistry(classA, classB)
	registry.enroll(classA.ID, student.ID)
	registry.enroll(classB.ID, student.ID)
	catalog := newFakeCatalog(registry, late, early, earlyTie)
	directory := newFakeDirectory(student, instructorA, instructorB)
	store := newFakeGradeStore()

	gradeSvc := NewGradeService(store, catalog, registry, directory, &fakeSink{}, nil, zerolog.Nop())
	if _, err := gradeSvc.UpsertGrade(context.Background(), early.ID, model.UpsertGradeRequest{
		StudentID: student.ID,
		Score:     floatPtr(95),
		Status:    model.GradeStatusReleased,
	}, uuid.New(), UnrestrictedScope()); err != nil {
		t.Fatalf("seed grade: %v", err)
	}

	svc := NewOverviewService(store, catalog, registry, directory, nil, zerolog.Nop())
	rows, err := svc.GetStudentAssignmentOverview(context.Background(), student.ID)
	if err != nil {
		t.Fatalf("overview: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}

	wantOrder := []uuid.UUID{early.ID, earlyTie.ID, late.ID}
	for i, want := range wantOrder {
		if rows[i].AssignmentID != want {
			t.Fatalf("row %d: expected assignment %s, got %s", i, want, rows[i].AssignmentID)
		}
	}

	// Graded row carries the grade and its real status.
	if rows[0].Grade == nil || !rows[0].Status.HasGrade || rows[0].Status.Status != model.GradeStatusReleased {
		t.Fatalf("graded row lost its grade: %+v", rows[0])
	}
	// Ungraded rows report the no-grade status and no grade payload.
	for _, r := range rows[1:] {
		if r.Grade != nil || r.Status.HasGrade {
			t.Fatalf("ungraded row must carry no grade: %+v", r)
		}
	}

	// Class summaries name the primary (first-listed) instructor.
	if rows[0].Class == nil || rows[0].Class.Code != classB.Code {
		t.Fatalf("row 0 class summary mismatch: %+v", rows[0].Class)
	}
	if rows[0].Class.PrimaryInstructor == nil || rows[0].Class.PrimaryInstructor.ID != instructorB.ID {
		t.Fatalf("expected first-listed instructor as primary, got %+v", rows[0].Class.PrimaryInstructor)
	}
	if rows[1].Class.PrimaryInstructor == nil || rows[1].Class.PrimaryInstructor.ID != instructorA.ID {
		t.Fatalf("classA primary instructor mismatch: %+v", rows[1].Class.PrimaryInstructor)
	}
}

func TestOverviewStatusSerialization(t *testing.T) {
	student := model.User{ID: uuid.New(), Name: "Ada Lovelace", Role: model.RoleStudent}
	class := model.Class{ID: uuid.New(), Title: "Algorithms", Code: "CS-ALG-201"}
	assignment := model.Assignment{ID: uuid.New(), ClassID: class.ID, Title: "Sorting Lab", DueAt: time.Now().UTC()}

	registry := newFakeRegistry(class)
	registry.enroll(class.ID, student.ID)
	catalog := newFakeCatalog(registry, assignment)
	svc := NewOverviewService(newFakeGradeStore(), catalog, registry, newFakeDirectory(student), nil, zerolog.Nop())

	rows, err := svc.GetStudentAssignmentOverview(context.Background(), student.ID)
	if err != nil {
		t.Fatalf("overview: %v", err)
	}
	raw, err := rows[0].Status.MarshalJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(raw) != `"pending_release"` {
		t.Fatalf("no-grade status must serialize as pending_release, got %s", raw)
	}
}
