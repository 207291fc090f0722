// internal/app/features/students/routes.go
package students

import (
	"github.com/go-chi/chi/v5"

	"github.com/dalemusser/rollcall/internal/app/system/auth"
)

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(auth.RequireSignedIn)
	r.Get("/", h.ServeRoster)
	r.Post("/", h.HandleAdd)
	r.Post("/{studentID}/delete", h.HandleDelete)
	return r
}
