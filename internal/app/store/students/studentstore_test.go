package studentstore_test

import (
	"errors"
	"testing"

	"github.com/dalemusser/rollcall/internal/app/store/attendance"
	"github.com/dalemusser/rollcall/internal/app/store/docstore"
	"github.com/dalemusser/rollcall/internal/app/store/students"
	"github.com/dalemusser/rollcall/internal/domain/models"
	"github.com/dalemusser/rollcall/internal/testutil"
)

func TestCreateAndGet(t *testing.T) {
	db := testutil.SetupTestStore(t)
	store := studentstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, "alice", models.Student{
		StudentID: " S001 ",
		Name:      "  Jordan Lee ",
		Course:    "CS101",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.StudentID != "S001" || created.Name != "Jordan Lee" {
		t.Errorf("fields not trimmed: %+v", created)
	}
	if created.CreatedBy != "alice" {
		t.Errorf("created_by = %q", created.CreatedBy)
	}

	got, err := store.Get(ctx, "alice", "S001")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Name != "Jordan Lee" {
		t.Errorf("name = %q", got.Name)
	}

	if _, err := store.Get(ctx, "bob", "S001"); !errors.Is(err, studentstore.ErrStudentNotFound) {
		t.Errorf("cross-owner get error = %v, want %v", err, studentstore.ErrStudentNotFound)
	}
}

func TestCreateValidation(t *testing.T) {
	db := testutil.SetupTestStore(t)
	store := studentstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.Create(ctx, "alice", models.Student{Name: "No ID"}); err == nil {
		t.Error("missing student ID accepted")
	}
	if _, err := store.Create(ctx, "alice", models.Student{StudentID: "S001"}); err == nil {
		t.Error("missing name accepted")
	}
}

func TestDuplicatePerOwner(t *testing.T) {
	db := testutil.SetupTestStore(t)
	store := studentstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.Create(ctx, "alice", models.Student{StudentID: "S001", Name: "Jordan"}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	_, err := store.Create(ctx, "alice", models.Student{StudentID: "S001", Name: "Other"})
	if !errors.Is(err, studentstore.ErrDuplicateStudent) {
		t.Errorf("duplicate error = %v, want %v", err, studentstore.ErrDuplicateStudent)
	}

	// A different teacher may reuse the same student ID.
	if _, err := store.Create(ctx, "bob", models.Student{StudentID: "S001", Name: "Jordan"}); err != nil {
		t.Errorf("cross-owner create failed: %v", err)
	}
}

func TestListByOwnerSorted(t *testing.T) {
	db := testutil.SetupTestStore(t)
	store := studentstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	for _, s := range []models.Student{
		{StudentID: "S002", Name: "Zoe"},
		{StudentID: "S001", Name: "Amir"},
		{StudentID: "S003", Name: "Mia"},
	} {
		if _, err := store.Create(ctx, "alice", s); err != nil {
			t.Fatalf("Create %s: %v", s.StudentID, err)
		}
	}
	if _, err := store.Create(ctx, "bob", models.Student{StudentID: "S009", Name: "Nope"}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	list, err := store.ListByOwner(ctx, "alice")
	if err != nil {
		t.Fatalf("ListByOwner: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("got %d students, want 3", len(list))
	}
	for i, want := range []string{"Amir", "Mia", "Zoe"} {
		if list[i].Name != want {
			t.Errorf("list[%d].Name = %q, want %q", i, list[i].Name, want)
		}
	}

	n, err := store.Count(ctx, "alice")
	if err != nil || n != 3 {
		t.Errorf("Count = %d, %v; want 3", n, err)
	}
}

func TestDeleteCascadesAttendance(t *testing.T) {
	db := testutil.SetupTestStore(t)
	store := studentstore.New(db)
	marks := attendancestore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.Create(ctx, "alice", models.Student{StudentID: "S001", Name: "Jordan"}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := marks.Mark(ctx, "alice", "S001", "2026-09-01", models.AttendancePresent); err != nil {
		t.Fatalf("Mark: %v", err)
	}

	if err := store.Delete(ctx, db, "alice", "S001"); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	if _, err := store.Get(ctx, "alice", "S001"); !errors.Is(err, studentstore.ErrStudentNotFound) {
		t.Error("student still present after delete")
	}
	n, err := db.Collection(docstore.ColAttendance).Count(ctx, docstore.Filter{
		docstore.Eq("student_id", "S001"),
		docstore.Eq("created_by", "alice"),
	})
	if err != nil || n != 0 {
		t.Errorf("attendance count after delete = %d, %v; want 0", n, err)
	}

	if err := store.Delete(ctx, db, "alice", "S001"); !errors.Is(err, studentstore.ErrStudentNotFound) {
		t.Errorf("second delete error = %v, want %v", err, studentstore.ErrStudentNotFound)
	}
}
