package activity

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/verda-api/verda/internal/shared"
)

// Guard is the access guard the routes run behind. rbac.Guard satisfies it.
type Guard interface {
	Authenticate(next http.Handler) http.Handler
	Authorize(allowed shared.RoleSet) func(http.Handler) http.Handler
}

// MountRoutes registers the log routes. Every route requires a valid token;
// listing all logs additionally requires the admin role.
func (h *Handler) MountRoutes(r chi.Router, guard Guard) {
	r.Group(func(r chi.Router) {
		r.Use(guard.Authenticate)
		r.Post("/", h.Create)
		r.Get("/my-logs", h.ListMine)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
		r.With(guard.Authorize(shared.AdminOnly)).Get("/", h.ListAll)
	})
}
