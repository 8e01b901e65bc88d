// internal/app/features/leaves/handler.go
package leaves

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	uierrors "github.com/baodpham/sanihub/internal/app/features/errors"
	"github.com/baodpham/sanihub/internal/app/features/resource"
	employeestore "github.com/baodpham/sanihub/internal/app/store/employees"
	leavestore "github.com/baodpham/sanihub/internal/app/store/leaves"
	"github.com/baodpham/sanihub/internal/app/system/auth"
	"github.com/baodpham/sanihub/internal/app/system/authz"
	"github.com/baodpham/sanihub/internal/app/system/flash"
	"github.com/baodpham/sanihub/internal/app/system/listpage"
	"github.com/baodpham/sanihub/internal/app/system/modalflow"
	"github.com/baodpham/sanihub/internal/app/system/navigation"
	"github.com/baodpham/sanihub/internal/app/system/timeouts"
	"github.com/baodpham/sanihub/internal/domain/models"
)

// Handler serves the Leave requests section. On top of the standard
// dialogs, pending requests can be approved or rejected.
type Handler struct {
	Engine *resource.Handler[models.LeaveRequest]
	Store  *leavestore.Store
	Log    *zap.Logger
}

func NewHandler(db *mongo.Database, sm *auth.SessionManager, toasts *flash.Queue, errLog *uierrors.ErrorLogger, log *zap.Logger) *Handler {
	store := leavestore.New(db)
	employees := employeestore.New(db)

	employeeOptions := func(ctx context.Context) ([]resource.Option, error) {
		list, err := employees.List(ctx)
		if err != nil {
			return nil, err
		}
		opts := make([]resource.Option, 0, len(list))
		for _, e := range list {
			opts = append(opts, resource.Option{Value: e.ID.Hex(), Label: e.FullName})
		}
		return opts, nil
	}

	desc := resource.Descriptor[models.LeaveRequest]{
		Slug:     "leaves",
		Singular: "leave request",
		Plural:   "Leave requests",

		Fields: []resource.FormField{
			{Name: "employee_id", Label: "Employee", Kind: resource.InputSelect, Required: true, Options: employeeOptions},
			{Name: "reason", Label: "Reason", Kind: resource.InputTextarea, Required: true},
			{Name: "start_date", Label: "First day off", Kind: resource.InputDate, Required: true},
			{Name: "end_date", Label: "Last day off", Kind: resource.InputDate, Required: true},
		},

		Columns: []string{"Employee", "From", "To", "Status"},
		Cells: func(lr models.LeaveRequest) []string {
			return []string{
				lr.EmployeeName,
				lr.StartDate.Format(leavestore.DateLayout),
				lr.EndDate.Format(leavestore.DateLayout),
				lr.Status,
			}
		},

		Details: func(lr models.LeaveRequest) []resource.Detail {
			return []resource.Detail{
				{Label: "Employee", Value: lr.EmployeeName},
				{Label: "Reason", Value: lr.Reason},
				{Label: "First day off", Value: lr.StartDate.Format(leavestore.DateLayout)},
				{Label: "Last day off", Value: lr.EndDate.Format(leavestore.DateLayout)},
				{Label: "Status", Value: lr.Status},
			}
		},

		Actions: func(lr models.LeaveRequest) []resource.Action {
			if lr.Status != models.LeavePending {
				return nil
			}
			base := "/leaves/" + lr.ID.Hex()
			return []resource.Action{
				{Label: "Approve", URL: base + "/approve", Style: "success"},
				{Label: "Reject", URL: base + "/reject", Style: "danger"},
			}
		},

		View: listpage.View[models.LeaveRequest]{
			Matches: func(lr models.LeaveRequest, needle string) bool {
				return strings.Contains(lr.EmployeeNameCI, needle) ||
					strings.Contains(listpage.Fold(lr.Reason), needle)
			},
			Category: func(lr models.LeaveRequest) string { return lr.Status },
			Label:    func(lr models.LeaveRequest) string { return lr.EmployeeName },
			Less: func(a, b models.LeaveRequest) bool {
				if !a.StartDate.Equal(b.StartDate) {
					return a.StartDate.After(b.StartDate)
				}
				return a.EmployeeNameCI < b.EmployeeNameCI
			},
		},

		Tabs: []resource.Tab{
			{Value: models.LeavePending, Label: "Pending"},
			{Value: models.LeaveApproved, Label: "Approved"},
			{Value: models.LeaveRejected, Label: "Rejected"},
		},

		ID: func(lr models.LeaveRequest) string { return lr.ID.Hex() },
		Seed: func(lr models.LeaveRequest) modalflow.Draft {
			return modalflow.Draft{
				"employee_id": lr.EmployeeID.Hex(),
				"reason":      lr.Reason,
				"start_date":  lr.StartDate.Format(leavestore.DateLayout),
				"end_date":    lr.EndDate.Format(leavestore.DateLayout),
			}
		},
	}

	return &Handler{
		Engine: resource.NewHandler(desc, store, sm, toasts, errLog, log),
		Store:  store,
		Log:    log,
	}
}

// ServeApprove handles POST /leaves/{id}/approve.
func (h *Handler) ServeApprove(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, models.LeaveApproved)
}

// ServeReject handles POST /leaves/{id}/reject.
func (h *Handler) ServeReject(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, models.LeaveRejected)
}

func (h *Handler) decide(w http.ResponseWriter, r *http.Request, status string) {
	if !authz.CanManage(r) {
		uierrors.RenderForbidden(w, r, "You don't have permission to decide leave requests.", "/leaves")
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	id := chi.URLParam(r, "id")
	decided, err := h.Store.Decide(ctx, id, status)
	if err != nil {
		h.Engine.Flash(w, r, resource.TitleCase(err.Error()), modalflow.SeverityError)
	} else {
		h.Engine.Invalidate()
		h.Engine.Flash(w, r, fmt.Sprintf("Leave request %s.", decided.Status), modalflow.SeveritySuccess)

		// Keep an open view dialog in step with the decision.
		orch := h.Engine.Orchestrator(r)
		if orch.Phase() == modalflow.Viewing {
			if _, err := orch.OpenView(ctx, decided); err != nil {
				h.Log.Debug("view refresh after decision skipped", zap.Error(err))
			}
		}
	}

	back := navigation.SafeBackURL(r, navigation.ForResource("leaves"))
	http.Redirect(w, r, back, http.StatusSeeOther)
}
