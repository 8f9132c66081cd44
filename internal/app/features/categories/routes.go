// internal/app/features/categories/routes.go
package categories

import (
	"github.com/dalemusser/ksef/internal/app/system/auth"
	"github.com/dalemusser/ksef/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the catalog under /categories. Every route is admin-only.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Use(sm.RequireRole(models.RoleAdmin))

		pr.Get("/", h.ServeList)
		pr.Get("/new", h.ServeNew)
		pr.Post("/", h.HandleCreate)
		pr.Get("/{id}/edit", h.ServeEdit)
		pr.Post("/{id}/edit", h.HandleEdit)
		pr.Post("/{id}/delete", h.HandleDelete)
	})
	return r
}
