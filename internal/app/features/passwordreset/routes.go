// internal/app/features/passwordreset/routes.go
package passwordreset

import "github.com/go-chi/chi/v5"

// ForgotRoutes serves the email-entry half of the flow, mounted at
// /forgot-password.
func ForgotRoutes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeForgot)
	r.Post("/", h.HandleForgotPost)
	return r
}

// ResetRoutes serves the token half of the flow, mounted at /reset-password.
func ResetRoutes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeReset)
	r.Post("/", h.HandleResetPost)
	return r
}
