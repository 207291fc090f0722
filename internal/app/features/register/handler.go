// internal/app/features/register/handler.go
package register

import (
	"context"
	"net/http"
	"strings"

	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"

	"github.com/dalemusser/rollcall/internal/app/accounts"
	"github.com/dalemusser/rollcall/internal/app/system/htmlsanitize"
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

type registerFormData struct {
	viewdata.BaseVM
	Error    string
	Username string
	Email    string
	Name     string
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /register                                                               |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeRegister(w http.ResponseWriter, r *http.Request) {
	templates.Render(w, r, "register", registerFormData{
		BaseVM: viewdata.NewBaseVM(r, "Create Account", "/login"),
	})
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /register                                                              |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleRegisterPost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderFormWithError(w, r, "Invalid form data.", "", "", "")
		return
	}

	username := strings.TrimSpace(r.FormValue("username"))
	email := strings.TrimSpace(r.FormValue("email"))
	name := htmlsanitize.StripTags(r.FormValue("name"))
	password := r.FormValue("password")
	confirm := r.FormValue("confirm_password")

	if password != confirm {
		h.renderFormWithError(w, r, "Passwords do not match.", username, email, name)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	// Self-registration always creates a teacher; admins are provisioned
	// separately.
	err := h.Accounts.CreateUser(ctx, username, password, email, name, "")
	if err != nil {
		h.renderFormWithError(w, r, err.Error(), username, email, name)
		return
	}

	h.Log.Info("account registered", zap.String("username", username))
	http.Redirect(w, r, "/login?registered=1", http.StatusSeeOther)
}

func (h *Handler) renderFormWithError(w http.ResponseWriter, r *http.Request, msg, username, email, name string) {
	templates.Render(w, r, "register", registerFormData{
		BaseVM:   viewdata.NewBaseVM(r, "Create Account", "/login"),
		Error:    msg,
		Username: username,
		Email:    email,
		Name:     name,
	})
}
