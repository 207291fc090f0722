// internal/domain/models/sharelink.go
package models

import "time"

// ShareLink is a short-lived link a teacher hands out so a day's attendance
// can be viewed without signing in. Stored in a TTL collection: once
// ExpiresAt passes the document is excluded from reads and purged.
type ShareLink struct {
	LinkID    string    `bson:"link_id" json:"link_id"`
	Date      string    `bson:"date" json:"date"` // YYYY-MM-DD
	CreatedBy string    `bson:"created_by" json:"created_by"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"`
}

// ScanSession groups scans taken in one sitting so the scan page can show
// what was just marked. Also TTL-bound on ExpiresAt.
type ScanSession struct {
	SessionID string    `bson:"session_id" json:"session_id"`
	CreatedBy string    `bson:"created_by" json:"created_by"`
	Date      string    `bson:"date" json:"date"`
	Scans     int       `bson:"scans" json:"scans"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"`
}
