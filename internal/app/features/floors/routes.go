// internal/app/features/floors/routes.go
package floors

import (
	"github.com/go-chi/chi/v5"

	"github.com/baodpham/sanihub/internal/app/features/resource"
	"github.com/baodpham/sanihub/internal/app/system/auth"
)

func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	return resource.Routes(h.Engine, sm)
}
