// internal/app/features/resource/routes.go
package resource

import (
	"github.com/go-chi/chi/v5"

	"github.com/baodpham/sanihub/internal/app/system/auth"
)

// Routes mounts the standard list and dialog endpoints. Extra route
// functions run inside the signed-in group so feature packages can add
// record actions (status transitions, approvals) behind the same guard.
func Routes[T any](h *Handler[T], sm *auth.SessionManager, extra ...func(chi.Router)) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)

		pr.Get("/", h.ServeList)
		pr.Get("/new", h.ServeOpenAdd)
		pr.Get("/{id}/view", h.ServeOpenView)
		pr.Get("/{id}/edit", h.ServeOpenEdit)

		pr.Post("/", h.ServeSubmit)
		pr.Post("/close", h.ServeClose)
		pr.Post("/{id}/delete", h.ServeDelete)

		for _, fn := range extra {
			fn(pr)
		}
	})

	return r
}
