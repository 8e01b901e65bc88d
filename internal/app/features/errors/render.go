// internal/app/features/errors/render.go
package errors

import (
	"net/http"

	"github.com/dalemusser/waffle/pantry/httpnav"
	"github.com/dalemusser/waffle/pantry/templates"

	"github.com/baodpham/sanihub/internal/app/system/auth"
)

// RenderUnauthorized shows a friendly "sign in required" page.
// If backURL is empty, it will default to /login.
func RenderUnauthorized(w http.ResponseWriter, r *http.Request, backURL string) {
	u, signed := auth.CurrentUser(r)
	role, name := "", ""
	if signed && u != nil {
		role, name = u.Role, u.Name
	}
	if backURL == "" {
		backURL = "/login"
	}

	data := pageData{
		Title:      "Sign in required",
		IsLoggedIn: signed,
		Role:       role,
		UserName:   name,
		Message:    "Please sign in to continue.",
		BackURL:    backURL,
	}

	templates.Render(w, r, "error_page", data)
}

// RenderForbidden shows a friendly access error page with a message.
// If backURL is empty, it resolves a safe back URL with a default fallback.
func RenderForbidden(w http.ResponseWriter, r *http.Request, msg, backURL string) {
	u, signed := auth.CurrentUser(r)
	role, name := "", ""
	if signed && u != nil {
		role, name = u.Role, u.Name
	}
	if backURL == "" {
		backURL = httpnav.ResolveBackURL(r, "/")
	}

	data := pageData{
		Title:      "Access denied",
		IsLoggedIn: signed,
		Role:       role,
		UserName:   name,
		Message:    msg,
		BackURL:    backURL,
	}

	templates.Render(w, r, "error_page", data)
}

// RenderNotFound shows a friendly "not found" page.
func RenderNotFound(w http.ResponseWriter, r *http.Request, msg, backURL string) {
	u, signed := auth.CurrentUser(r)
	role, name := "", ""
	if signed && u != nil {
		role, name = u.Role, u.Name
	}
	if msg == "" {
		msg = "The page you were looking for does not exist."
	}
	if backURL == "" {
		backURL = "/"
	}

	data := pageData{
		Title:      "Not found",
		IsLoggedIn: signed,
		Role:       role,
		UserName:   name,
		Message:    msg,
		BackURL:    backURL,
	}

	w.WriteHeader(http.StatusNotFound)
	templates.Render(w, r, "error_page", data)
}
