// internal/app/accounts/validate.go
package accounts

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

// emailPattern accepts conventional addresses: local part, "@", domain with
// at least one dot and a 2+ letter TLD.
var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// passwordSymbols is the fixed set of special characters a password may
// (and must) draw from.
const passwordSymbols = "@$!%*?&"

func validEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// validatePassword enforces the strength policy: minimum length, at least
// one lowercase letter, one uppercase letter, one digit, and one symbol
// from passwordSymbols, with no characters outside that alphabet.
func (m *Manager) validatePassword(password string) error {
	if password == "" {
		return ErrPasswordEmpty
	}
	if len(password) < m.cfg.PasswordMinLength {
		return fmt.Errorf("Password must be at least %d characters", m.cfg.PasswordMinLength)
	}

	var hasLower, hasUpper, hasDigit, hasSymbol bool
	for _, r := range password {
		switch {
		case r >= 'a' && r <= 'z':
			hasLower = true
		case r >= 'A' && r <= 'Z':
			hasUpper = true
		case unicode.IsDigit(r) && r < 128:
			hasDigit = true
		case strings.ContainsRune(passwordSymbols, r):
			hasSymbol = true
		default:
			return ErrPasswordWeak
		}
	}
	if !hasLower || !hasUpper || !hasDigit || !hasSymbol {
		return ErrPasswordWeak
	}
	return nil
}
