// internal/domain/models/attendance.go
package models

import "time"

// AttendanceStatus values.
const (
	AttendancePresent = "present"
	AttendanceAbsent  = "absent"
)

// Attendance records one student's status on one date for one teacher.
// (student_id, date, created_by) is unique: re-marking the same student on
// the same day updates the existing record.
type Attendance struct {
	StudentID string    `bson:"student_id" json:"student_id"`
	Date      string    `bson:"date" json:"date"` // YYYY-MM-DD
	Status    string    `bson:"status" json:"status"`
	CreatedBy string    `bson:"created_by" json:"created_by"`
	MarkedAt  time.Time `bson:"marked_at" json:"marked_at"`
}
