// internal/app/features/requests/routes.go
package requests

import (
	"github.com/go-chi/chi/v5"

	"github.com/baodpham/sanihub/internal/app/features/resource"
	"github.com/baodpham/sanihub/internal/app/system/auth"
)

func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	return resource.Routes(h.Engine, sm, func(pr chi.Router) {
		pr.Post("/{id}/status/{code}", h.ServeTransition)
	})
}
