// internal/app/features/logout/handler.go
package logout

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/baodpham/sanihub/internal/app/features/resource"
	"github.com/baodpham/sanihub/internal/app/system/auth"
)

// Handler clears the visitor's session and discards any per-session
// modal state the resource engines hold for it.
type Handler struct {
	Log        *zap.Logger
	SessionMgr *auth.SessionManager
	Droppers   []resource.SessionDropper
}

func NewHandler(sessionMgr *auth.SessionManager, droppers []resource.SessionDropper, logger *zap.Logger) *Handler {
	return &Handler{
		Log:        logger,
		SessionMgr: sessionMgr,
		Droppers:   droppers,
	}
}

// ServeLogout handles GET /logout.
func (h *Handler) ServeLogout(w http.ResponseWriter, r *http.Request) {
	// Release per-session dialog state before the session ID is gone.
	if sid := h.SessionMgr.SessionID(r); sid != "" {
		for _, d := range h.Droppers {
			d.DropSession(sid)
		}
	}

	if err := h.SessionMgr.SignOut(w, r); err != nil {
		h.Log.Error("logout: save session", zap.Error(err))
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}
