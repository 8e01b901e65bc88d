// internal/app/features/errors/errors.go
package errors

import (
	"net/http"

	"github.com/dalemusser/waffle/pantry/templates"

	"github.com/baodpham/sanihub/internal/app/system/authz"
)

// pageData is the basic view model for error pages.
type pageData struct {
	Title      string
	IsLoggedIn bool
	Role       string
	UserName   string
	Message    string
	BackURL    string
}

// Handler is the errors feature handler.
// No DB needed; it just renders templates.
type Handler struct{}

// NewHandler constructs an errors Handler.
func NewHandler() *Handler {
	return &Handler{}
}

// Forbidden renders a friendly "access denied" page.
// GET /forbidden
func (h *Handler) Forbidden(w http.ResponseWriter, r *http.Request) {
	role, name, _, signedIn := authz.UserCtx(r)

	data := pageData{
		Title:      "Access denied",
		IsLoggedIn: signedIn,
		Role:       role,
		UserName:   name,
		Message:    "You don't have permission to view this page.",
		BackURL:    "/",
	}

	templates.Render(w, r, "error_page", data)
}

// Unauthorized renders a friendly "sign in required" page.
// GET /unauthorized
func (h *Handler) Unauthorized(w http.ResponseWriter, r *http.Request) {
	role, name, _, signedIn := authz.UserCtx(r)

	data := pageData{
		Title:      "Sign in required",
		IsLoggedIn: signedIn,
		Role:       role,
		UserName:   name,
		Message:    "Please sign in to continue.",
		BackURL:    "/login",
	}

	templates.Render(w, r, "error_page", data)
}
