// internal/app/accounts/errors.go
package accounts

import (
	"errors"
	"fmt"
	"time"
)

// These error messages render directly to end users, so they are phrased as
// reasons rather than Go-style lowercase diagnostics. Authentication
// failures are deliberately information-minimal: nothing discloses whether
// the username or the password was the wrong half.
var (
	ErrUsernameTooShort = errors.New("Username must be at least 3 characters")
	ErrInvalidEmail     = errors.New("Invalid email format")
	ErrUsernameTaken    = errors.New("Username already exists")
	ErrEmailTaken       = errors.New("Email already exists")
	ErrInvalidRole      = errors.New("Invalid role")

	ErrUserNotFound    = errors.New("User not found")
	ErrAccountInactive = errors.New("Account is inactive")
	ErrInvalidPassword = errors.New("Invalid password")
	ErrCurrentPassword = errors.New("Current password is incorrect")

	ErrEmailNotFound     = errors.New("Email not found")
	ErrNoResetToken      = errors.New("No reset token provided")
	ErrInvalidResetToken = errors.New("Invalid reset token")
	ErrResetTokenExpired = errors.New("Reset token has expired")

	ErrPasswordEmpty = errors.New("Password cannot be empty")
	ErrPasswordWeak  = errors.New("Password must contain at least one uppercase letter, one lowercase letter, one number, and one special character")

	// ErrStoreUnavailable stands in for any backend failure; the real error
	// goes to the log, never to the user.
	ErrStoreUnavailable = errors.New("Account service is temporarily unavailable, please try again")
)

// LockedError reports a lockout along with the instant it lifts.
type LockedError struct {
	Until time.Time
}

func (e *LockedError) Error() string {
	return fmt.Sprintf("Account locked until %s", e.Until.Format("Jan 2, 2006 15:04 MST"))
}

// IsLocked reports whether err is a lockout failure and returns its expiry.
func IsLocked(err error) (time.Time, bool) {
	var le *LockedError
	if errors.As(err, &le) {
		return le.Until, true
	}
	return time.Time{}, false
}
