// internal/app/features/settings/routes.go
package settings

import (
	"github.com/go-chi/chi/v5"

	"github.com/dalemusser/rollcall/internal/app/system/auth"
)

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(auth.RequireSignedIn)
	r.Get("/", h.ServeSettings)
	r.Post("/password", h.HandleChangePassword)
	return r
}
