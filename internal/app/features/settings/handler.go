// internal/app/features/settings/handler.go
package settings

import (
	"context"
	"net/http"

	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"

	"github.com/dalemusser/rollcall/internal/app/accounts"
	"github.com/dalemusser/rollcall/internal/app/system/auth"
	"github.com/dalemusser/rollcall/internal/app/system/timeouts"
	"github.com/dalemusser/rollcall/internal/app/system/viewdata"
)

type Handler struct {
	Accounts *accounts.Manager
	Log      *zap.Logger
}

func NewHandler(mgr *accounts.Manager, logger *zap.Logger) *Handler {
	return &Handler{Accounts: mgr, Log: logger}
}

type settingsData struct {
	viewdata.BaseVM
	Error   string
	Success string
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /settings                                                               |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeSettings(w http.ResponseWriter, r *http.Request) {
	templates.Render(w, r, "settings", settingsData{
		BaseVM: viewdata.NewBaseVM(r, "Account Settings", "/dashboard"),
	})
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /settings/password                                                     |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleChangePassword(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	if err := r.ParseForm(); err != nil {
		h.render(w, r, "Invalid form data.", "")
		return
	}

	current := r.FormValue("current_password")
	newPassword := r.FormValue("new_password")
	confirm := r.FormValue("confirm_password")

	if newPassword != confirm {
		h.render(w, r, "New passwords do not match.", "")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := h.Accounts.ChangePassword(ctx, user.Username, current, newPassword); err != nil {
		h.render(w, r, err.Error(), "")
		return
	}

	h.Log.Info("password changed", zap.String("username", user.Username))
	h.render(w, r, "", "Your password has been updated.")
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, errMsg, success string) {
	templates.Render(w, r, "settings", settingsData{
		BaseVM:  viewdata.NewBaseVM(r, "Account Settings", "/dashboard"),
		Error:   errMsg,
		Success: success,
	})
}
