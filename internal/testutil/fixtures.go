package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/dalemusser/rollcall/internal/app/store/docstore"
	"github.com/dalemusser/rollcall/internal/app/system/normalize"
	"github.com/dalemusser/rollcall/internal/app/system/passhash"
	"github.com/dalemusser/rollcall/internal/app/system/secrets"
	"github.com/dalemusser/rollcall/internal/domain/models"
)

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db docstore.DB
	t  *testing.T
}

// NewFixtures creates a Fixtures instance for the given test store.
func NewFixtures(t *testing.T, db docstore.DB) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying store for direct access in tests.
func (f *Fixtures) DB() docstore.DB { return f.db }

// CreateUser inserts an active user with the given password already hashed.
func (f *Fixtures) CreateUser(ctx context.Context, username, password, email, name, role string) models.User {
	f.t.Helper()

	hash, err := passhash.Hash(password)
	if err != nil {
		f.t.Fatalf("failed to hash fixture password: %v", err)
	}
	u := models.User{
		UserID:    secrets.NewUserID(),
		Username:  normalize.Username(username),
		Password:  hash,
		Email:     normalize.Email(email),
		Name:      name,
		Role:      role,
		Status:    models.StatusActive,
		CreatedAt: time.Now().UTC(),
	}
	if err := f.db.Collection(docstore.ColUsers).InsertOne(ctx, u); err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	return u
}

// CreateTeacher inserts an active teacher account.
func (f *Fixtures) CreateTeacher(ctx context.Context, username, password, email, name string) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, username, password, email, name, models.RoleTeacher)
}

// CreateInactiveUser inserts a teacher whose account is inactive.
func (f *Fixtures) CreateInactiveUser(ctx context.Context, username, password, email string) models.User {
	f.t.Helper()
	u := f.CreateTeacher(ctx, username, password, email, "Inactive User")
	f.PatchUser(ctx, u.Username, docstore.Set{"status": models.StatusInactive})
	u.Status = models.StatusInactive
	return u
}

// CreateStudent inserts a roster entry owned by the given teacher.
func (f *Fixtures) CreateStudent(ctx context.Context, studentID, name, course, createdBy string) models.Student {
	f.t.Helper()

	s := models.Student{
		StudentID: studentID,
		Name:      name,
		Course:    course,
		CreatedBy: createdBy,
		CreatedAt: time.Now().UTC(),
	}
	if err := f.db.Collection(docstore.ColStudents).InsertOne(ctx, s); err != nil {
		f.t.Fatalf("failed to create test student: %v", err)
	}
	return s
}

// PatchUser applies raw field updates to a user document, for tests that
// need to age tokens or backdate lockouts.
func (f *Fixtures) PatchUser(ctx context.Context, username string, set docstore.Set) {
	f.t.Helper()

	matched, err := f.db.Collection(docstore.ColUsers).UpdateOne(ctx,
		docstore.Filter{docstore.Eq("username", username)}, set, false)
	if err != nil {
		f.t.Fatalf("failed to patch test user: %v", err)
	}
	if matched == 0 {
		f.t.Fatalf("patch matched no user %q", username)
	}
}

// LoadUser reads a user document back for assertions.
func (f *Fixtures) LoadUser(ctx context.Context, username string) models.User {
	f.t.Helper()

	var u models.User
	err := f.db.Collection(docstore.ColUsers).FindOne(ctx,
		docstore.Filter{docstore.Eq("username", username)}, &u)
	if err != nil {
		f.t.Fatalf("failed to load test user %q: %v", username, err)
	}
	return u
}
