// internal/app/features/attendance/routes.go
package attendance

import (
	"github.com/go-chi/chi/v5"

	"github.com/dalemusser/rollcall/internal/app/system/auth"
)

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(auth.RequireSignedIn)
	r.Get("/", h.ServeSheet)
	r.Post("/mark", h.HandleMark)
	r.Get("/history/{studentID}", h.ServeHistory)
	r.Post("/share", h.HandleCreateShare)
	r.Post("/scan", h.HandleStartScan)
	r.Post("/scan/{sessionID}", h.HandleScan)
	return r
}
