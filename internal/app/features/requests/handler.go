// internal/app/features/requests/handler.go
package requests

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	uierrors "github.com/baodpham/sanihub/internal/app/features/errors"
	"github.com/baodpham/sanihub/internal/app/features/resource"
	requeststore "github.com/baodpham/sanihub/internal/app/store/requests"
	roomstore "github.com/baodpham/sanihub/internal/app/store/rooms"
	"github.com/baodpham/sanihub/internal/app/system/auth"
	"github.com/baodpham/sanihub/internal/app/system/authz"
	"github.com/baodpham/sanihub/internal/app/system/flash"
	"github.com/baodpham/sanihub/internal/app/system/htmlsanitize"
	"github.com/baodpham/sanihub/internal/app/system/listpage"
	"github.com/baodpham/sanihub/internal/app/system/modalflow"
	"github.com/baodpham/sanihub/internal/app/system/navigation"
	"github.com/baodpham/sanihub/internal/app/system/reqstatus"
	"github.com/baodpham/sanihub/internal/app/system/timeouts"
	"github.com/baodpham/sanihub/internal/domain/models"
)

// Handler serves the Maintenance requests section. Beyond the standard
// dialogs it moves requests along the reqstatus lifecycle.
type Handler struct {
	Engine *resource.Handler[models.MaintenanceRequest]
	Store  *requeststore.Store
	Log    *zap.Logger
}

func NewHandler(db *mongo.Database, sm *auth.SessionManager, toasts *flash.Queue, errLog *uierrors.ErrorLogger, log *zap.Logger) *Handler {
	store := requeststore.New(db)
	rooms := roomstore.New(db)

	roomOptions := func(ctx context.Context) ([]resource.Option, error) {
		list, err := rooms.List(ctx)
		if err != nil {
			return nil, err
		}
		opts := make([]resource.Option, 0, len(list))
		for _, rm := range list {
			opts = append(opts, resource.Option{
				Value: rm.ID.Hex(),
				Label: fmt.Sprintf("Room %d (%s)", rm.Number, rm.AreaName),
			})
		}
		return opts, nil
	}

	desc := resource.Descriptor[models.MaintenanceRequest]{
		Slug:     "requests",
		Singular: "maintenance request",
		Plural:   "Maintenance requests",

		Fields: []resource.FormField{
			{Name: "title", Label: "Title", Kind: resource.InputText, Required: true},
			{Name: "room_id", Label: "Room", Kind: resource.InputSelect, Required: true, Options: roomOptions},
			{Name: "description", Label: "Description", Kind: resource.InputTextarea},
			{Name: "requested_by", Label: "Requested by", Kind: resource.InputText},
		},

		Columns: []string{"Title", "Room", "Status", "Requested"},
		Cells: func(mr models.MaintenanceRequest) []string {
			return []string{
				mr.Title,
				strconv.Itoa(mr.RoomNumber),
				reqstatus.Label(reqstatus.Status(mr.StatusCode)),
				mr.RequestedAt.Format("2006-01-02"),
			}
		},

		Details: func(mr models.MaintenanceRequest) []resource.Detail {
			return []resource.Detail{
				{Label: "Tracking code", Value: mr.Code},
				{Label: "Title", Value: mr.Title},
				{Label: "Room", Value: strconv.Itoa(mr.RoomNumber)},
				{Label: "Description", HTML: htmlsanitize.SanitizeToHTML(mr.Description)},
				{Label: "Status", Value: reqstatus.Label(reqstatus.Status(mr.StatusCode))},
				{Label: "Requested by", Value: mr.RequestedBy},
				{Label: "Requested at", Value: mr.RequestedAt.Format("2006-01-02 15:04")},
			}
		},

		Actions: func(mr models.MaintenanceRequest) []resource.Action {
			from := reqstatus.Status(mr.StatusCode)
			next := reqstatus.NextStates(from)
			if len(next) == 0 {
				return nil
			}
			actions := make([]resource.Action, 0, len(next))
			for _, to := range next {
				style := "success"
				confirm := ""
				if to == reqstatus.Cancelled {
					style = "danger"
					confirm = "Cancel this maintenance request? This cannot be undone."
				}
				actions = append(actions, resource.Action{
					Label:   reqstatus.Label(to),
					URL:     fmt.Sprintf("/requests/%s/status/%d", mr.ID.Hex(), int(to)),
					Style:   style,
					Confirm: confirm,
				})
			}
			return actions
		},

		View: listpage.View[models.MaintenanceRequest]{
			Matches: func(mr models.MaintenanceRequest, needle string) bool {
				return strings.Contains(mr.TitleCI, needle) ||
					strings.Contains(mr.RequestedByCI, needle) ||
					strings.Contains(strconv.Itoa(mr.RoomNumber), needle) ||
					strings.Contains(listpage.Fold(mr.Code), needle)
			},
			Category: func(mr models.MaintenanceRequest) string {
				return strconv.Itoa(mr.StatusCode)
			},
			Label: func(mr models.MaintenanceRequest) string { return mr.Title },
			Less: func(a, b models.MaintenanceRequest) bool {
				return a.RequestedAt.After(b.RequestedAt)
			},
		},

		Tabs: []resource.Tab{
			{Value: strconv.Itoa(int(reqstatus.Sent)), Label: reqstatus.Label(reqstatus.Sent)},
			{Value: strconv.Itoa(int(reqstatus.Processing)), Label: reqstatus.Label(reqstatus.Processing)},
			{Value: strconv.Itoa(int(reqstatus.Resolved)), Label: reqstatus.Label(reqstatus.Resolved)},
			{Value: strconv.Itoa(int(reqstatus.Cancelled)), Label: reqstatus.Label(reqstatus.Cancelled)},
		},

		ID: func(mr models.MaintenanceRequest) string { return mr.ID.Hex() },
		Seed: func(mr models.MaintenanceRequest) modalflow.Draft {
			return modalflow.Draft{
				"title":        mr.Title,
				"room_id":      mr.RoomID.Hex(),
				"description":  mr.Description,
				"requested_by": mr.RequestedBy,
			}
		},
	}

	return &Handler{
		Engine: resource.NewHandler(desc, store, sm, toasts, errLog, log),
		Store:  store,
		Log:    log,
	}
}

// ServeTransition handles POST /requests/{id}/status/{code}: move the
// request to the requested lifecycle state. Illegal jumps are rejected
// by the store against the stored state, not the page the click came
// from.
func (h *Handler) ServeTransition(w http.ResponseWriter, r *http.Request) {
	if !authz.CanManage(r) {
		uierrors.RenderForbidden(w, r, "You don't have permission to process maintenance requests.", "/requests")
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	id := chi.URLParam(r, "id")
	code, err := strconv.Atoi(chi.URLParam(r, "code"))
	if err != nil {
		h.Engine.Flash(w, r, "Unknown request status.", modalflow.SeverityError)
		h.redirectBack(w, r)
		return
	}
	to := reqstatus.Status(code)
	if _, err := reqstatus.LabelOf(to); err != nil {
		h.Engine.Flash(w, r, "Unknown request status.", modalflow.SeverityError)
		h.redirectBack(w, r)
		return
	}

	// Cancellation is destructive; the dialog posts confirm=yes.
	if to == reqstatus.Cancelled && !resource.FormConfirmer(r).Confirm("cancel") {
		h.redirectBack(w, r)
		return
	}

	updated, err := h.Store.Transition(ctx, id, to)
	if err != nil {
		h.Engine.Flash(w, r, resource.TitleCase(err.Error()), modalflow.SeverityError)
	} else {
		h.Engine.Invalidate()
		h.Engine.Flash(w, r, fmt.Sprintf("Request marked %q.", reqstatus.Label(to)), modalflow.SeveritySuccess)

		// Keep an open view dialog in step with the new status.
		orch := h.Engine.Orchestrator(r)
		if orch.Phase() == modalflow.Viewing {
			if _, err := orch.OpenView(ctx, updated); err != nil {
				h.Log.Debug("view refresh after transition skipped", zap.Error(err))
			}
		}
	}
	h.redirectBack(w, r)
}

func (h *Handler) redirectBack(w http.ResponseWriter, r *http.Request) {
	back := navigation.SafeBackURL(r, navigation.ForResource("requests"))
	http.Redirect(w, r, back, http.StatusSeeOther)
}
