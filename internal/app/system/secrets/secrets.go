// Package secrets generates the random identifiers the app hands out:
// stable user IDs and single-use URL-safe tokens.
package secrets

import (
	"crypto/rand"
	"encoding/base64"

	"github.com/google/uuid"
)

// ResetTokenBytes is the entropy of a password-reset token.
const ResetTokenBytes = 32

// NewUserID returns a random UUID used as a user's stable identifier.
func NewUserID() string {
	return uuid.NewString()
}

// NewToken returns n cryptographically random bytes encoded URL-safe
// without padding, so the result embeds in a link with no further escaping.
// Panics if the system's random source fails, as the process cannot safely
// continue minting credentials without one.
func NewToken(n int) string {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		panic("crypto/rand.Read failed: " + err.Error())
	}
	return base64.RawURLEncoding.EncodeToString(b)
}

// NewResetToken returns a password-reset token at the standard length.
func NewResetToken() string {
	return NewToken(ResetTokenBytes)
}
