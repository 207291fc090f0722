// internal/domain/models/student.go
package models

import "time"

// Student is a roster entry. StudentID is the value encoded in the
// student's QR code or barcode. CreatedBy scopes the record to the teacher
// who owns it: two teachers may each have a student with the same ID.
type Student struct {
	StudentID string    `bson:"student_id" json:"student_id"`
	Name      string    `bson:"name" json:"name"`
	Course    string    `bson:"course" json:"course"`
	CreatedBy string    `bson:"created_by" json:"created_by"` // owning teacher's username
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
