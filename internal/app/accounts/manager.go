// Package accounts is the credential core: account creation, rate-limited
// authentication with temporary lockout, password change, and the
// single-use reset-token lifecycle. It talks to persistence only through
// the docstore contract, so it runs unchanged on either backend.
package accounts

import (
	"context"
	"time"

	"github.com/dalemusser/rollcall/internal/app/store/docstore"
	"github.com/dalemusser/rollcall/internal/app/system/normalize"
	"github.com/dalemusser/rollcall/internal/app/system/passhash"
	"github.com/dalemusser/rollcall/internal/app/system/secrets"
	"github.com/dalemusser/rollcall/internal/domain/models"
	"go.uber.org/zap"
)

// Config holds the tunable security policy.
type Config struct {
	MaxLoginAttempts  int           // consecutive failures before lockout
	LockoutDuration   time.Duration // how long a lockout lasts
	ResetTokenTTL     time.Duration // reset-token validity window
	PasswordMinLength int
}

// DefaultConfig returns the stock policy.
func DefaultConfig() Config {
	return Config{
		MaxLoginAttempts:  5,
		LockoutDuration:   30 * time.Minute,
		ResetTokenTTL:     30 * time.Minute,
		PasswordMinLength: 8,
	}
}

// SessionInfo is the display data cached in a session after sign-in.
type SessionInfo struct {
	Username string
	Role     string
	Name     string
	Email    string
}

// Manager implements the credential operations. It is request-scoped and
// stateless between calls: every operation is one read followed by at most
// one write.
type Manager struct {
	users docstore.Collection
	cfg   Config
	log   *zap.Logger
}

// NewManager builds a Manager over the users collection of db. Zero config
// fields fall back to the defaults.
func NewManager(db docstore.DB, cfg Config, logger *zap.Logger) *Manager {
	def := DefaultConfig()
	if cfg.MaxLoginAttempts <= 0 {
		cfg.MaxLoginAttempts = def.MaxLoginAttempts
	}
	if cfg.LockoutDuration <= 0 {
		cfg.LockoutDuration = def.LockoutDuration
	}
	if cfg.ResetTokenTTL <= 0 {
		cfg.ResetTokenTTL = def.ResetTokenTTL
	}
	if cfg.PasswordMinLength <= 0 {
		cfg.PasswordMinLength = def.PasswordMinLength
	}
	return &Manager{
		users: db.Collection(docstore.ColUsers),
		cfg:   cfg,
		log:   logger,
	}
}

// storeErr logs the backend failure and collapses it to the generic reason
// users see.
func (m *Manager) storeErr(op string, err error) error {
	m.log.Error("user store operation failed", zap.String("op", op), zap.Error(err))
	return ErrStoreUnavailable
}

/* ─────────────────────────── account creation ─────────────────────────── */

// CreateUser registers a new account. Validation short-circuits in a fixed
// order: username length, email format, username taken, email taken,
// password strength. Nothing is written unless every check passes; the new
// account is active immediately (no email-verification step).
func (m *Manager) CreateUser(ctx context.Context, username, password, email, name, role string) error {
	username = normalize.Username(username)
	if len(username) < 3 {
		return ErrUsernameTooShort
	}

	email = normalize.Email(email)
	if !validEmail(email) {
		return ErrInvalidEmail
	}

	switch role {
	case "":
		role = models.RoleTeacher
	case models.RoleAdmin, models.RoleTeacher:
	default:
		return ErrInvalidRole
	}

	var existing models.User
	err := m.users.FindOne(ctx, docstore.Filter{docstore.Eq("username", username)}, &existing)
	if err == nil {
		return ErrUsernameTaken
	}
	if err != docstore.ErrNoDocuments {
		return m.storeErr("create: username lookup", err)
	}

	err = m.users.FindOne(ctx, docstore.Filter{docstore.Eq("email", email)}, &existing)
	if err == nil {
		return ErrEmailTaken
	}
	if err != docstore.ErrNoDocuments {
		return m.storeErr("create: email lookup", err)
	}

	if err := m.validatePassword(password); err != nil {
		return err
	}

	hash, err := passhash.Hash(password)
	if err != nil {
		return m.storeErr("create: hash", err)
	}

	u := models.User{
		UserID:    secrets.NewUserID(),
		Username:  username,
		Password:  hash,
		Email:     email,
		Name:      normalize.Name(name),
		Role:      role,
		Status:    models.StatusActive,
		CreatedAt: time.Now().UTC(),
	}
	if err := m.users.InsertOne(ctx, u); err != nil {
		return m.storeErr("create: insert", err)
	}

	m.log.Info("user created",
		zap.String("username", username),
		zap.String("role", role))
	return nil
}

/* ─────────────────────────── authentication ───────────────────────────── */

// loadForAuth runs the shared prelude of every authentication path:
// existence, lockout (lifting an elapsed one), and account status. The
// returned user reflects any lift that was persisted.
func (m *Manager) loadForAuth(ctx context.Context, username string) (*models.User, error) {
	username = normalize.Username(username)

	var u models.User
	err := m.users.FindOne(ctx, docstore.Filter{docstore.Eq("username", username)}, &u)
	if err == docstore.ErrNoDocuments {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, m.storeErr("auth: lookup", err)
	}

	if u.IsLocked {
		if u.LockoutUntil != nil && u.LockoutUntil.After(time.Now()) {
			return nil, &LockedError{Until: *u.LockoutUntil}
		}
		// Lockout has elapsed: lift it before evaluating anything else.
		_, err := m.users.UpdateOne(ctx,
			docstore.Filter{docstore.Eq("username", u.Username)},
			docstore.Set{"is_locked": false, "failed_attempts": 0, "lockout_until": nil},
			false)
		if err != nil {
			return nil, m.storeErr("auth: unlock", err)
		}
		u.IsLocked = false
		u.FailedAttempts = 0
		u.LockoutUntil = nil
	}

	if u.Status != models.StatusActive {
		return nil, ErrAccountInactive
	}
	return &u, nil
}

func sessionInfo(u *models.User) SessionInfo {
	return SessionInfo{
		Username: u.Username,
		Role:     u.Role,
		Name:     u.Name,
		Email:    u.Email,
	}
}

// Refresh re-validates an already-established session without a password:
// the account must still exist, be unlocked (an elapsed lockout is lifted),
// and be active. It never touches the attempt counters, so it is safe to
// call on every request that re-reads cached display data.
func (m *Manager) Refresh(ctx context.Context, username string) (SessionInfo, error) {
	u, err := m.loadForAuth(ctx, username)
	if err != nil {
		return SessionInfo{}, err
	}
	return sessionInfo(u), nil
}

// Authenticate verifies a username/password pair with rate limiting.
// A match zeroes the failure counter and records the login; a mismatch
// increments it and, at the configured maximum, locks the account until
// now + LockoutDuration. The increment is a conditional write filtered on
// the previously read counter, so racing failures cannot double-apply.
func (m *Manager) Authenticate(ctx context.Context, username, password string) (SessionInfo, error) {
	u, err := m.loadForAuth(ctx, username)
	if err != nil {
		return SessionInfo{}, err
	}

	if passhash.Verify(password, u.Password) {
		_, err := m.users.UpdateOne(ctx,
			docstore.Filter{docstore.Eq("username", u.Username)},
			docstore.Set{
				"last_login":      time.Now().UTC(),
				"failed_attempts": 0,
				"is_locked":       false,
				"lockout_until":   nil,
			},
			false)
		if err != nil {
			return SessionInfo{}, m.storeErr("auth: record login", err)
		}
		return sessionInfo(u), nil
	}

	attempts := u.FailedAttempts + 1
	set := docstore.Set{"failed_attempts": attempts}

	var lockedUntil time.Time
	if attempts >= m.cfg.MaxLoginAttempts {
		lockedUntil = time.Now().UTC().Add(m.cfg.LockoutDuration)
		set["is_locked"] = true
		set["lockout_until"] = lockedUntil
	}

	matched, err := m.users.UpdateOne(ctx,
		docstore.Filter{
			docstore.Eq("username", u.Username),
			docstore.Eq("failed_attempts", u.FailedAttempts),
		},
		set, false)
	if err != nil {
		return SessionInfo{}, m.storeErr("auth: record failure", err)
	}
	if matched == 0 {
		// Lost the race: a concurrent failure already recorded this attempt.
		m.log.Debug("failed-attempt counter raced", zap.String("username", u.Username))
	}

	if !lockedUntil.IsZero() {
		m.log.Warn("account locked after repeated failures",
			zap.String("username", u.Username),
			zap.Time("until", lockedUntil))
		return SessionInfo{}, &LockedError{Until: lockedUntil}
	}
	return SessionInfo{}, ErrInvalidPassword
}

/* ─────────────────────────── password change ──────────────────────────── */

// ChangePassword rotates a password after re-proving the current one. The
// re-proof goes through Authenticate, so a wrong current password counts
// as a failed login attempt and a locked or inactive account cannot rotate;
// every such failure surfaces as the same reason.
func (m *Manager) ChangePassword(ctx context.Context, username, currentPassword, newPassword string) error {
	if _, err := m.Authenticate(ctx, username, currentPassword); err != nil {
		if err == ErrStoreUnavailable {
			return err
		}
		return ErrCurrentPassword
	}

	if err := m.validatePassword(newPassword); err != nil {
		return err
	}

	hash, err := passhash.Hash(newPassword)
	if err != nil {
		return m.storeErr("change: hash", err)
	}
	_, err = m.users.UpdateOne(ctx,
		docstore.Filter{docstore.Eq("username", normalize.Username(username))},
		docstore.Set{
			"password":      hash,
			"last_modified": time.Now().UTC(),
		},
		false)
	if err != nil {
		return m.storeErr("change: update", err)
	}
	return nil
}

/* ──────────────────────── reset-token lifecycle ───────────────────────── */

// IssueResetToken mints a fresh single-use reset token for the account
// registered under email and returns it with the user's display name for
// the outbound message. Any previously issued token is overwritten, which
// is what enforces "at most one live token per user". Expiry is computed
// in UTC so the window doesn't drift with server timezone.
func (m *Manager) IssueResetToken(ctx context.Context, email string) (token, displayName string, err error) {
	email = normalize.Email(email)

	var u models.User
	ferr := m.users.FindOne(ctx, docstore.Filter{docstore.Eq("email", email)}, &u)
	if ferr == docstore.ErrNoDocuments {
		return "", "", ErrEmailNotFound
	}
	if ferr != nil {
		return "", "", m.storeErr("reset: email lookup", ferr)
	}

	token = secrets.NewResetToken()
	expiry := time.Now().UTC().Add(m.cfg.ResetTokenTTL)

	_, uerr := m.users.UpdateOne(ctx,
		docstore.Filter{docstore.Eq("email", email)},
		docstore.Set{"reset_token": token, "token_expiry": expiry},
		false)
	if uerr != nil {
		return "", "", m.storeErr("reset: store token", uerr)
	}

	m.log.Info("reset token issued", zap.String("username", u.Username))
	return token, u.DisplayName(), nil
}

// ValidateResetToken checks a token without consuming it, so a reset form
// can be rendered (and re-rendered) before submission.
func (m *Manager) ValidateResetToken(ctx context.Context, token string) (SessionInfo, error) {
	if token == "" {
		return SessionInfo{}, ErrNoResetToken
	}

	var u models.User
	err := m.users.FindOne(ctx, docstore.Filter{docstore.Eq("reset_token", token)}, &u)
	if err == docstore.ErrNoDocuments {
		return SessionInfo{}, ErrInvalidResetToken
	}
	if err != nil {
		return SessionInfo{}, m.storeErr("reset: token lookup", err)
	}

	if u.TokenExpiry == nil || !u.TokenExpiry.After(time.Now().UTC()) {
		return SessionInfo{}, ErrResetTokenExpired
	}
	return sessionInfo(&u), nil
}

// ResetPassword consumes a valid token: in one write it installs the new
// hash, clears the token pair, and clears any lockout, since proving
// control of the registered email outweighs a pending lockout. Strength is
// checked before the token so the caller sees the same precedence as
// creation and change.
func (m *Manager) ResetPassword(ctx context.Context, token, newPassword string) error {
	if err := m.validatePassword(newPassword); err != nil {
		return err
	}
	if _, err := m.ValidateResetToken(ctx, token); err != nil {
		return err
	}

	hash, err := passhash.Hash(newPassword)
	if err != nil {
		return m.storeErr("reset: hash", err)
	}
	_, uerr := m.users.UpdateOne(ctx,
		docstore.Filter{docstore.Eq("reset_token", token)},
		docstore.Set{
			"password":        hash,
			"reset_token":     nil,
			"token_expiry":    nil,
			"last_modified":   time.Now().UTC(),
			"is_locked":       false,
			"failed_attempts": 0,
			"lockout_until":   nil,
		},
		false)
	if uerr != nil {
		return m.storeErr("reset: update", uerr)
	}
	return nil
}

// ClearExpiredTokens nulls out every reset-token pair whose expiry has
// passed. Best-effort hygiene: an expired token is already rejected by
// ValidateResetToken, so failures here are logged and swallowed.
func (m *Manager) ClearExpiredTokens(ctx context.Context) {
	modified, err := m.users.UpdateMany(ctx,
		docstore.Filter{
			docstore.Exists("reset_token", true),
			docstore.Lt("token_expiry", time.Now().UTC()),
		},
		docstore.Set{"reset_token": nil, "token_expiry": nil})
	if err != nil {
		m.log.Debug("expired-token sweep failed", zap.Error(err))
		return
	}
	if modified > 0 {
		m.log.Info("cleared expired reset tokens", zap.Int64("count", modified))
	}
}
