// Package studentstore persists the per-teacher student roster.
package studentstore

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/dalemusser/rollcall/internal/app/store/docstore"
	"github.com/dalemusser/rollcall/internal/app/system/normalize"
	"github.com/dalemusser/rollcall/internal/domain/models"
)

var (
	// ErrDuplicateStudent is returned when the teacher already has a roster
	// entry with this student ID.
	ErrDuplicateStudent = errors.New("A student with this ID already exists")
	ErrStudentNotFound  = errors.New("Student not found")

	errBadStudentID = errors.New("Student ID is required")
	errBadName      = errors.New("Student name is required")
)

type Store struct {
	c docstore.Collection
}

func New(db docstore.DB) *Store {
	return &Store{c: db.Collection(docstore.ColStudents)}
}

// Create inserts a roster entry scoped to owner. Student IDs are unique per
// teacher, not globally.
func (s *Store) Create(ctx context.Context, owner string, student models.Student) (models.Student, error) {
	student.StudentID = strings.TrimSpace(student.StudentID)
	student.Name = normalize.Name(student.Name)
	student.Course = strings.TrimSpace(student.Course)
	student.CreatedBy = owner

	if student.StudentID == "" {
		return models.Student{}, errBadStudentID
	}
	if student.Name == "" {
		return models.Student{}, errBadName
	}

	var existing models.Student
	err := s.c.FindOne(ctx, docstore.Filter{
		docstore.Eq("student_id", student.StudentID),
		docstore.Eq("created_by", owner),
	}, &existing)
	if err == nil {
		return models.Student{}, ErrDuplicateStudent
	}
	if err != docstore.ErrNoDocuments {
		return models.Student{}, err
	}

	student.CreatedAt = time.Now().UTC()
	if err := s.c.InsertOne(ctx, student); err != nil {
		return models.Student{}, err
	}
	return student, nil
}

// Get loads one of owner's roster entries by student ID.
func (s *Store) Get(ctx context.Context, owner, studentID string) (*models.Student, error) {
	var st models.Student
	err := s.c.FindOne(ctx, docstore.Filter{
		docstore.Eq("student_id", strings.TrimSpace(studentID)),
		docstore.Eq("created_by", owner),
	}, &st)
	if err == docstore.ErrNoDocuments {
		return nil, ErrStudentNotFound
	}
	if err != nil {
		return nil, err
	}
	return &st, nil
}

// ListByOwner returns the teacher's roster sorted by name.
func (s *Store) ListByOwner(ctx context.Context, owner string) ([]models.Student, error) {
	var out []models.Student
	err := s.c.Find(ctx, docstore.Filter{docstore.Eq("created_by", owner)}, &out)
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Delete removes one of owner's roster entries and its attendance history.
func (s *Store) Delete(ctx context.Context, db docstore.DB, owner, studentID string) error {
	studentID = strings.TrimSpace(studentID)

	n, err := s.c.DeleteMany(ctx, docstore.Filter{
		docstore.Eq("student_id", studentID),
		docstore.Eq("created_by", owner),
	})
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrStudentNotFound
	}

	// Attendance history goes with the roster entry.
	_, err = db.Collection(docstore.ColAttendance).DeleteMany(ctx, docstore.Filter{
		docstore.Eq("student_id", studentID),
		docstore.Eq("created_by", owner),
	})
	return err
}

// Count returns the size of the teacher's roster.
func (s *Store) Count(ctx context.Context, owner string) (int64, error) {
	return s.c.Count(ctx, docstore.Filter{docstore.Eq("created_by", owner)})
}
