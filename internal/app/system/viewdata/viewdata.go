// internal/app/system/viewdata/viewdata.go
package viewdata

import (
	"net/http"

	"github.com/dalemusser/waffle/pantry/httpnav"
	"github.com/gorilla/csrf"

	"github.com/baodpham/sanihub/internal/app/system/authz"
	"github.com/baodpham/sanihub/internal/app/system/flash"
)

// SiteName is the console's display name.
const SiteName = "SaniHub"

// BaseVM contains common fields for all view models. Embed it in
// feature-specific view models:
//
//	type myPageData struct {
//	    viewdata.BaseVM
//	    // page-specific fields...
//	}
type BaseVM struct {
	SiteName string

	// User context (from auth middleware)
	IsLoggedIn bool
	Role       string
	UserName   string
	CanManage  bool

	// Page context
	Title       string
	BackURL     string
	CurrentPath string

	// CSRF protection
	CSRFToken string

	// One-shot notifications, auto-dismissed client side
	Toasts         []flash.Toast
	ToastDismissMS int
}

// NewBaseVM creates a populated BaseVM for a page. Pass the flash
// queue to drain pending toasts into the view; nil skips them.
func NewBaseVM(w http.ResponseWriter, r *http.Request, toasts *flash.Queue, title, backDefault string) BaseVM {
	role, name, _, signedIn := authz.UserCtx(r)

	vm := BaseVM{
		SiteName:       SiteName,
		IsLoggedIn:     signedIn,
		Role:           role,
		UserName:       name,
		CanManage:      authz.CanManage(r),
		Title:          title,
		BackURL:        httpnav.ResolveBackURL(r, backDefault),
		CurrentPath:    httpnav.CurrentPath(r),
		CSRFToken:      csrf.Token(r),
		ToastDismissMS: flash.DismissAfter,
	}

	if toasts != nil {
		vm.Toasts = toasts.Pop(w, r)
	}

	return vm
}
