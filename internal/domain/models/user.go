// internal/domain/models/user.go
package models

import "time"

// Roles a user account can hold.
const (
	RoleAdmin   = "admin"
	RoleTeacher = "teacher"
)

// Account statuses.
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// User is one account document. UserID is the stable identifier other
// records reference; it never changes even if the username does.
//
// reset_token and token_expiry are always set and cleared together, and at
// most one reset token is live per user (issuing a new one overwrites the
// old).
type User struct {
	UserID   string `bson:"user_id" json:"user_id"`
	Username string `bson:"username" json:"username"`
	Password string `bson:"password" json:"password"` // hash, never the plaintext
	Email    string `bson:"email" json:"email"`       // normalized lowercase
	Name     string `bson:"name" json:"name"`
	Role     string `bson:"role" json:"role"`
	Status   string `bson:"status" json:"status"`

	CreatedAt    time.Time  `bson:"created_at" json:"created_at"`
	LastLogin    *time.Time `bson:"last_login" json:"last_login"`
	LastModified *time.Time `bson:"last_modified" json:"last_modified"`

	FailedAttempts int        `bson:"failed_attempts" json:"failed_attempts"`
	IsLocked       bool       `bson:"is_locked" json:"is_locked"`
	LockoutUntil   *time.Time `bson:"lockout_until" json:"lockout_until"`

	ResetToken  *string    `bson:"reset_token" json:"reset_token"`
	TokenExpiry *time.Time `bson:"token_expiry" json:"token_expiry"`
}

// DisplayName is what outbound email greets the user with.
func (u *User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	return u.Username
}
