// internal/app/features/employees/handler.go
package employees

import (
	"strings"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	uierrors "github.com/baodpham/sanihub/internal/app/features/errors"
	"github.com/baodpham/sanihub/internal/app/features/resource"
	employeestore "github.com/baodpham/sanihub/internal/app/store/employees"
	"github.com/baodpham/sanihub/internal/app/system/auth"
	"github.com/baodpham/sanihub/internal/app/system/authz"
	"github.com/baodpham/sanihub/internal/app/system/flash"
	"github.com/baodpham/sanihub/internal/app/system/listpage"
	"github.com/baodpham/sanihub/internal/app/system/modalflow"
	"github.com/baodpham/sanihub/internal/domain/models"
)

// Handler serves the Employees section of the console.
type Handler struct {
	Engine *resource.Handler[models.Employee]
	Log    *zap.Logger
}

func NewHandler(db *mongo.Database, sm *auth.SessionManager, toasts *flash.Queue, errLog *uierrors.ErrorLogger, log *zap.Logger) *Handler {
	store := employeestore.New(db)

	desc := resource.Descriptor[models.Employee]{
		Slug:     "employees",
		Singular: "employee",
		Plural:   "Employees",

		Fields: []resource.FormField{
			{Name: "full_name", Label: "Full name", Kind: resource.InputText, Required: true},
			{Name: "email", Label: "Email", Kind: resource.InputEmail, Required: true},
			{Name: "phone", Label: "Phone", Kind: resource.InputText},
			{Name: "role", Label: "Role", Kind: resource.InputSelect, Required: true,
				Options: resource.StaticOptions(
					resource.Option{Value: authz.RoleAdmin, Label: "Admin"},
					resource.Option{Value: authz.RoleSupervisor, Label: "Supervisor"},
					resource.Option{Value: authz.RoleStaff, Label: "Staff"},
				)},
			{Name: "password", Label: "Password", Kind: resource.InputPassword,
				Hint: "Leave blank to keep the current password"},
			{Name: "status", Label: "Status", Kind: resource.InputSelect,
				Options: resource.StaticOptions(
					resource.Option{Value: "active", Label: "Active"},
					resource.Option{Value: "inactive", Label: "Inactive"},
				)},
		},

		Columns: []string{"Name", "Email", "Role", "Status"},
		Cells: func(e models.Employee) []string {
			return []string{e.FullName, e.Email, e.Role, e.Status}
		},

		Details: func(e models.Employee) []resource.Detail {
			return []resource.Detail{
				{Label: "Full name", Value: e.FullName},
				{Label: "Email", Value: e.Email},
				{Label: "Phone", Value: e.Phone},
				{Label: "Role", Value: e.Role},
				{Label: "Status", Value: e.Status},
			}
		},

		View: listpage.View[models.Employee]{
			Matches: func(e models.Employee, needle string) bool {
				return strings.Contains(e.FullNameCI, needle) ||
					strings.Contains(listpage.Fold(e.Email), needle) ||
					strings.Contains(e.Phone, needle)
			},
			Category: func(e models.Employee) string { return e.Role },
			Label:    func(e models.Employee) string { return e.FullName },
			Less: func(a, b models.Employee) bool {
				return a.FullNameCI < b.FullNameCI
			},
		},

		Tabs: []resource.Tab{
			{Value: authz.RoleAdmin, Label: "Admins"},
			{Value: authz.RoleSupervisor, Label: "Supervisors"},
			{Value: authz.RoleStaff, Label: "Staff"},
		},

		ID: func(e models.Employee) string { return e.ID.Hex() },
		Seed: func(e models.Employee) modalflow.Draft {
			return modalflow.Draft{
				"full_name": e.FullName,
				"email":     e.Email,
				"phone":     e.Phone,
				"role":      e.Role,
				"status":    e.Status,
			}
		},
	}

	return &Handler{
		Engine: resource.NewHandler(desc, store, sm, toasts, errLog, log),
		Log:    log,
	}
}
