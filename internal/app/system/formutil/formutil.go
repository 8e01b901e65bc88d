// internal/app/system/formutil/formutil.go

// Package formutil provides helpers for re-rendering forms after a
// failed validation: the operator's entered values echoed back, an
// error message, and the navigation context the form needs.
//
// Embed Base in a form data struct and populate it with SetBase:
//
//	type shiftFormData struct {
//		formutil.Base
//		Name  string
//		Start string
//	}
//
//	data := shiftFormData{Name: name, Start: start}
//	formutil.SetBase(&data.Base, r, "Add Shift", "/shifts")
//	data.SetError("Start time is required.")
//	templates.Render(w, r, "resource_form", data)
package formutil

import (
	"html/template"
	"net/http"

	"github.com/dalemusser/waffle/pantry/httpnav"
	"github.com/gorilla/csrf"

	"github.com/baodpham/sanihub/internal/app/system/authz"
)

// Base contains the common fields for form pages.
type Base struct {
	Title       string
	IsLoggedIn  bool
	Role        string
	UserName    string
	BackURL     string
	CurrentPath string
	CSRFToken   string
	Error       template.HTML
}

// SetBase populates the common fields from the request context.
func SetBase(b *Base, r *http.Request, title, backDefault string) {
	role, uname, _, signedIn := authz.UserCtx(r)
	b.Title = title
	b.IsLoggedIn = signedIn
	b.Role = role
	b.UserName = uname
	b.BackURL = httpnav.ResolveBackURL(r, backDefault)
	b.CurrentPath = httpnav.CurrentPath(r)
	b.CSRFToken = csrf.Token(r)
}

// SetError sets the error message shown above the form.
func (b *Base) SetError(msg string) {
	b.Error = template.HTML(msg)
}
