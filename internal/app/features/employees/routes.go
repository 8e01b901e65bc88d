// internal/app/features/employees/routes.go
package employees

import (
	"github.com/go-chi/chi/v5"

	"github.com/baodpham/sanihub/internal/app/features/resource"
	"github.com/baodpham/sanihub/internal/app/system/auth"
)

func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	return resource.Routes(h.Engine, sm)
}
