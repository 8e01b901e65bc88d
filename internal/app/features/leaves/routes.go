// internal/app/features/leaves/routes.go
package leaves

import (
	"github.com/go-chi/chi/v5"

	"github.com/baodpham/sanihub/internal/app/features/resource"
	"github.com/baodpham/sanihub/internal/app/system/auth"
)

func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	return resource.Routes(h.Engine, sm, func(pr chi.Router) {
		pr.Post("/{id}/approve", h.ServeApprove)
		pr.Post("/{id}/reject", h.ServeReject)
	})
}
