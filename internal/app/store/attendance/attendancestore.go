// Package attendancestore persists daily attendance marks.
package attendancestore

import (
	"context"
	"sort"
	"time"

	"github.com/dalemusser/rollcall/internal/app/store/docstore"
	"github.com/dalemusser/rollcall/internal/domain/models"
)

// DateFormat is the canonical form attendance dates are stored in.
const DateFormat = "2006-01-02"

type Store struct {
	c docstore.Collection
}

func New(db docstore.DB) *Store {
	return &Store{c: db.Collection(docstore.ColAttendance)}
}

// Mark records a student's status for a date. One mark per (student, date,
// teacher): re-marking the same student upserts in place, so a scan followed
// by a manual correction leaves a single record.
func (s *Store) Mark(ctx context.Context, owner, studentID, date, status string) error {
	_, err := s.c.UpdateOne(ctx,
		docstore.Filter{
			docstore.Eq("student_id", studentID),
			docstore.Eq("date", date),
			docstore.Eq("created_by", owner),
		},
		docstore.Set{
			"status":    status,
			"marked_at": time.Now().UTC(),
		},
		true)
	return err
}

// ListByDate returns the teacher's marks for one date, sorted by student ID.
func (s *Store) ListByDate(ctx context.Context, owner, date string) ([]models.Attendance, error) {
	var out []models.Attendance
	err := s.c.Find(ctx, docstore.Filter{
		docstore.Eq("created_by", owner),
		docstore.Eq("date", date),
	}, &out)
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StudentID < out[j].StudentID })
	return out, nil
}

// ListByStudent returns one student's history, newest date first.
func (s *Store) ListByStudent(ctx context.Context, owner, studentID string) ([]models.Attendance, error) {
	var out []models.Attendance
	err := s.c.Find(ctx, docstore.Filter{
		docstore.Eq("created_by", owner),
		docstore.Eq("student_id", studentID),
	}, &out)
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	return out, nil
}

// Summary is the present/absent tally for one date.
type Summary struct {
	Date    string
	Present int
	Absent  int
}

// Summarize tallies a teacher's marks for one date.
func (s *Store) Summarize(ctx context.Context, owner, date string) (Summary, error) {
	marks, err := s.ListByDate(ctx, owner, date)
	if err != nil {
		return Summary{}, err
	}
	sum := Summary{Date: date}
	for _, m := range marks {
		switch m.Status {
		case models.AttendancePresent:
			sum.Present++
		case models.AttendanceAbsent:
			sum.Absent++
		}
	}
	return sum, nil
}
