// internal/app/features/passwordreset/handler.go
package passwordreset

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"

	"github.com/dalemusser/rollcall/internal/app/accounts"
	"github.com/dalemusser/rollcall/internal/app/system/mailer"
	"github.com/dalemusser/rollcall/internal/app/system/timeouts"
	"github.com/dalemusser/rollcall/internal/app/system/viewdata"
)

type Handler struct {
	Accounts *accounts.Manager
	Mailer   *mailer.Mailer
	BaseURL  string // public base URL for reset links
	TokenTTL time.Duration
	Log      *zap.Logger
}

func NewHandler(mgr *accounts.Manager, mail *mailer.Mailer, baseURL string, tokenTTL time.Duration, logger *zap.Logger) *Handler {
	return &Handler{
		Accounts: mgr,
		Mailer:   mail,
		BaseURL:  baseURL,
		TokenTTL: tokenTTL,
		Log:      logger,
	}
}

type forgotFormData struct {
	viewdata.BaseVM
	Error string
	Email string
	Sent  bool
}

type resetFormData struct {
	viewdata.BaseVM
	Error string
	Token string
	Done  bool
}

// formatExpiryDuration formats a time.Duration as a human-readable string,
// e.g. "30 minutes", "1 hour".
func formatExpiryDuration(d time.Duration) string {
	minutes := int(d.Minutes())
	if minutes < 60 {
		if minutes == 1 {
			return "1 minute"
		}
		return fmt.Sprintf("%d minutes", minutes)
	}
	hours := minutes / 60
	if hours == 1 {
		return "1 hour"
	}
	return fmt.Sprintf("%d hours", hours)
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /forgot-password                                                        |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeForgot(w http.ResponseWriter, r *http.Request) {
	templates.Render(w, r, "forgot_password", forgotFormData{
		BaseVM: viewdata.NewBaseVM(r, "Forgot Password", "/login"),
	})
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /forgot-password                                                       |
*─────────────────────────────────────────────────────────────────────────────*/

// HandleForgotPost issues a reset token and emails the link. The outcome
// shown to the browser is identical whether or not the email is registered,
// so the form cannot be used to enumerate accounts.
func (h *Handler) HandleForgotPost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderForgotWithError(w, r, "Invalid form data.", "")
		return
	}

	email := strings.TrimSpace(r.FormValue("email"))
	if email == "" {
		h.renderForgotWithError(w, r, "Please enter your email address.", email)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	// Whatever happens past this point, the browser sees the same generic
	// confirmation. Different outcomes for known and unknown addresses would
	// let anyone probe which emails have accounts.
	token, displayName, err := h.Accounts.IssueResetToken(ctx, email)
	switch {
	case errors.Is(err, accounts.ErrEmailNotFound):
		h.Log.Info("reset requested for unknown email")
	case err != nil:
		h.Log.Error("failed to issue reset token", zap.Error(err))
	default:
		msg := mailer.BuildResetEmail(mailer.ResetEmailData{
			SiteName:  viewdata.SiteName(),
			UserName:  displayName,
			ResetLink: mailer.ResetLink(h.BaseURL, token),
			ExpiresIn: formatExpiryDuration(h.TokenTTL),
		})
		msg.To = email
		if err := h.Mailer.Send(msg); err != nil {
			h.Log.Error("failed to send reset email", zap.Error(err))
		} else {
			h.Log.Info("reset email sent")
		}
	}

	templates.Render(w, r, "forgot_password", forgotFormData{
		BaseVM: viewdata.NewBaseVM(r, "Forgot Password", "/login"),
		Sent:   true,
	})
}

func (h *Handler) renderForgotWithError(w http.ResponseWriter, r *http.Request, msg, email string) {
	templates.Render(w, r, "forgot_password", forgotFormData{
		BaseVM: viewdata.NewBaseVM(r, "Forgot Password", "/login"),
		Error:  msg,
		Email:  email,
	})
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /reset-password?token=…                                                 |
*─────────────────────────────────────────────────────────────────────────────*/

// ServeReset validates the token before showing the new-password form, so a
// dead link fails immediately instead of after the user types a password.
func (h *Handler) ServeReset(w http.ResponseWriter, r *http.Request) {
	token := query.Get(r, "token")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if _, err := h.Accounts.ValidateResetToken(ctx, token); err != nil {
		templates.Render(w, r, "reset_password", resetFormData{
			BaseVM: viewdata.NewBaseVM(r, "Reset Password", "/login"),
			Error:  err.Error(),
		})
		return
	}

	templates.Render(w, r, "reset_password", resetFormData{
		BaseVM: viewdata.NewBaseVM(r, "Reset Password", "/login"),
		Token:  token,
	})
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /reset-password                                                        |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleResetPost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Redirect(w, r, "/forgot-password", http.StatusSeeOther)
		return
	}

	token := strings.TrimSpace(r.FormValue("token"))
	newPassword := r.FormValue("new_password")
	confirm := r.FormValue("confirm_password")

	if newPassword != confirm {
		h.renderResetWithError(w, r, "Passwords do not match.", token)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := h.Accounts.ResetPassword(ctx, token, newPassword); err != nil {
		h.renderResetWithError(w, r, err.Error(), token)
		return
	}

	h.Log.Info("password reset completed")
	templates.Render(w, r, "reset_password", resetFormData{
		BaseVM: viewdata.NewBaseVM(r, "Reset Password", "/login"),
		Done:   true,
	})
}

func (h *Handler) renderResetWithError(w http.ResponseWriter, r *http.Request, msg, token string) {
	templates.Render(w, r, "reset_password", resetFormData{
		BaseVM: viewdata.NewBaseVM(r, "Reset Password", "/login"),
		Error:  msg,
		Token:  token,
	})
}
