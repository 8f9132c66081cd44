// internal/app/features/requests/routes.go
package requests

import (
	"github.com/dalemusser/ksef/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts under /requests. Role gating happens per handler so a
// refusal can redirect with a message instead of a bare 403.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Get("/", h.ServeList)
		pr.Get("/new", h.ServeNew)
		pr.Post("/new", h.HandleNew)
		pr.Get("/{id}", h.ServeDetail)
		pr.Post("/{id}", h.HandleAction)
	})
	return r
}
