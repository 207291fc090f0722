// internal/app/features/share/routes.go
package share

import "github.com/go-chi/chi/v5"

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/{linkID}", h.ServeSharedSheet)
	return r
}
