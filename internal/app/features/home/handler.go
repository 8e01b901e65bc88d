// internal/app/features/home/handler.go
package home

import (
	"net/http"

	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"

	_ "github.com/baodpham/sanihub/internal/app/features/home/views"
	"github.com/baodpham/sanihub/internal/app/system/flash"
	"github.com/baodpham/sanihub/internal/app/system/viewdata"
)

// Handler holds dependencies needed to serve the home page.
type Handler struct {
	Toasts *flash.Queue
	Log    *zap.Logger
}

func NewHandler(toasts *flash.Queue, logger *zap.Logger) *Handler {
	return &Handler{
		Toasts: toasts,
		Log:    logger,
	}
}

// section is one tile on the landing page.
type section struct {
	Title string
	URL   string
	Blurb string
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET / – landing                                                             |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeRoot(w http.ResponseWriter, r *http.Request) {
	data := struct {
		viewdata.BaseVM
		Sections []section
	}{
		BaseVM: viewdata.NewBaseVM(w, r, h.Toasts, "Welcome", "/"),
		Sections: []section{
			{Title: "Floors", URL: "/floors", Blurb: "Storeys of the facility"},
			{Title: "Areas", URL: "/areas", Blurb: "Zones on each floor"},
			{Title: "Rooms", URL: "/rooms", Blurb: "Cleanable rooms"},
			{Title: "Restrooms", URL: "/restrooms", Blurb: "Restrooms and their cadence"},
			{Title: "Shifts", URL: "/shifts", Blurb: "Recurring work windows"},
			{Title: "Employees", URL: "/employees", Blurb: "Cleaning staff and console users"},
			{Title: "Assignments", URL: "/assignments", Blurb: "Who cleans what, when"},
			{Title: "Leave requests", URL: "/leaves", Blurb: "Time-off review"},
			{Title: "Maintenance requests", URL: "/requests", Blurb: "Reported issues and their lifecycle"},
		},
	}

	templates.Render(w, r, "home", data)
}
