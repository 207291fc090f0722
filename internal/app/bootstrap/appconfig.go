// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// WAFFLE's CoreConfig handles framework-level settings (ports, TLS, logging,
// CORS). AppConfig is everything specific to RollCall: where attendance data
// lives, how sessions are signed, how reset emails go out, and the account
// security policy.
type AppConfig struct {
	// Document store configuration. When MongoDB is unreachable the app
	// falls back to a JSON-file store rooted at DataDir.
	MongoURI      string
	MongoDatabase string
	DataDir       string

	// Session management configuration
	SessionKey    string // secret key for signing session cookies
	SessionDomain string // cookie domain (blank means current host)

	// Email/SMTP configuration for password-reset mail
	MailSMTPHost string
	MailSMTPPort int
	MailSMTPUser string
	MailSMTPPass string
	MailFrom     string
	MailFromName string

	// Base URL used when building links in emails and share links,
	// e.g. "https://rollcall.example.edu".
	BaseURL string

	// Display name shown in page titles and email subjects.
	SiteName string

	// Account security policy
	MaxLoginAttempts  int
	LockoutDuration   time.Duration
	ResetTokenExpiry  time.Duration
	PasswordMinLength int

	// Lifetimes for shared sheets and scan check-in sessions
	ShareLinkExpiry   time.Duration
	ScanSessionExpiry time.Duration

	// How often the background sweeper clears expired reset tokens
	TokenSweepInterval time.Duration
}
