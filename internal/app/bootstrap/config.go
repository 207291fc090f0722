// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"time"

	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for RollCall.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, session_key, etc.
//   - Environment variables: ROLLCALL_MONGO_URI, ROLLCALL_SESSION_KEY, etc.
//   - Command-line flags: --mongo_uri, --session_key, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "rollcall", Desc: "MongoDB database name"},
	{Name: "data_dir", Default: "./data", Desc: "Directory for the JSON-file store used when MongoDB is unavailable"},

	{Name: "session_key", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "Session signing key (must be strong in production)"},
	{Name: "session_domain", Default: "", Desc: "Session cookie domain (blank means current host)"},

	// Email/SMTP configuration
	{Name: "mail_smtp_host", Default: "localhost", Desc: "SMTP server host"},
	{Name: "mail_smtp_port", Default: 1025, Desc: "SMTP server port"},
	{Name: "mail_smtp_user", Default: "", Desc: "SMTP username"},
	{Name: "mail_smtp_pass", Default: "", Desc: "SMTP password"},
	{Name: "mail_from", Default: "noreply@rollcall.local", Desc: "From email address"},
	{Name: "mail_from_name", Default: "RollCall", Desc: "From display name"},

	{Name: "base_url", Default: "http://localhost:3000", Desc: "Base URL for email and share links"},
	{Name: "site_name", Default: "RollCall", Desc: "Display name used in page titles and email subjects"},

	// Account security policy
	{Name: "max_login_attempts", Default: 5, Desc: "Consecutive failed logins before temporary lockout"},
	{Name: "lockout_duration", Default: "30m", Desc: "How long a login lockout lasts (e.g., 30m, 1h)"},
	{Name: "reset_token_expiry", Default: "30m", Desc: "Password reset token validity window"},
	{Name: "password_min_length", Default: 8, Desc: "Minimum password length"},

	// Sharing and scan check-in
	{Name: "share_link_expiry", Default: "168h", Desc: "How long shared attendance sheets stay accessible"},
	{Name: "scan_session_expiry", Default: "2h", Desc: "How long a scan check-in session stays open"},

	{Name: "token_sweep_interval", Default: "10m", Desc: "How often expired reset tokens are swept"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig handles:
//   - Loading from .env files
//   - Loading from config.yaml/json/toml files
//   - Reading environment variables (WAFFLE_* for core, ROLLCALL_* for app)
//   - Parsing command-line flags
//   - Merging with precedence: flags > env > files > defaults
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "ROLLCALL", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:      appValues.String("mongo_uri"),
		MongoDatabase: appValues.String("mongo_database"),
		DataDir:       appValues.String("data_dir"),

		SessionKey:    appValues.String("session_key"),
		SessionDomain: appValues.String("session_domain"),

		MailSMTPHost: appValues.String("mail_smtp_host"),
		MailSMTPPort: appValues.Int("mail_smtp_port"),
		MailSMTPUser: appValues.String("mail_smtp_user"),
		MailSMTPPass: appValues.String("mail_smtp_pass"),
		MailFrom:     appValues.String("mail_from"),
		MailFromName: appValues.String("mail_from_name"),

		BaseURL:  appValues.String("base_url"),
		SiteName: appValues.String("site_name"),

		MaxLoginAttempts:  appValues.Int("max_login_attempts"),
		LockoutDuration:   appValues.Duration("lockout_duration", 30*time.Minute),
		ResetTokenExpiry:  appValues.Duration("reset_token_expiry", 30*time.Minute),
		PasswordMinLength: appValues.Int("password_min_length"),

		ShareLinkExpiry:   appValues.Duration("share_link_expiry", 7*24*time.Hour),
		ScanSessionExpiry: appValues.Duration("scan_session_expiry", 2*time.Hour),

		TokenSweepInterval: appValues.Duration("token_sweep_interval", 10*time.Minute),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// RollCall validates the MongoDB URI format to catch configuration errors
// early. An unreachable server is tolerated at runtime (the JSON-file store
// takes over), but a malformed URI is always a deployment mistake.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}

	if appCfg.MaxLoginAttempts < 1 {
		return fmt.Errorf("max_login_attempts must be at least 1, got %d", appCfg.MaxLoginAttempts)
	}
	if appCfg.PasswordMinLength < 1 {
		return fmt.Errorf("password_min_length must be at least 1, got %d", appCfg.PasswordMinLength)
	}

	return nil
}
