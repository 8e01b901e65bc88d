// internal/app/features/assignments/handler.go
package assignments

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	uierrors "github.com/baodpham/sanihub/internal/app/features/errors"
	"github.com/baodpham/sanihub/internal/app/features/resource"
	assignmentstore "github.com/baodpham/sanihub/internal/app/store/assignments"
	employeestore "github.com/baodpham/sanihub/internal/app/store/employees"
	restroomstore "github.com/baodpham/sanihub/internal/app/store/restrooms"
	shiftstore "github.com/baodpham/sanihub/internal/app/store/shifts"
	"github.com/baodpham/sanihub/internal/app/system/auth"
	"github.com/baodpham/sanihub/internal/app/system/flash"
	"github.com/baodpham/sanihub/internal/app/system/listpage"
	"github.com/baodpham/sanihub/internal/app/system/modalflow"
	"github.com/baodpham/sanihub/internal/domain/models"
)

// Handler serves the cleaning schedule (Assignments) section.
type Handler struct {
	Engine *resource.Handler[models.Assignment]
	Log    *zap.Logger
}

func NewHandler(db *mongo.Database, sm *auth.SessionManager, toasts *flash.Queue, errLog *uierrors.ErrorLogger, log *zap.Logger) *Handler {
	store := assignmentstore.New(db)
	employees := employeestore.New(db)
	restrooms := restroomstore.New(db)
	shifts := shiftstore.New(db)

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
	restroomOptions := func(ctx context.Context) ([]resource.Option, error) {
		list, err := restrooms.List(ctx)
		if err != nil {
			return nil, err
		}
		opts := make([]resource.Option, 0, len(list))
		for _, rr := range list {
			opts = append(opts, resource.Option{
				Value: rr.ID.Hex(),
				Label: fmt.Sprintf("Restroom %d (%s)", rr.Number, rr.AreaName),
			})
		}
		return opts, nil
	}
	shiftOptions := func(ctx context.Context) ([]resource.Option, error) {
		list, err := shifts.List(ctx)
		if err != nil {
			return nil, err
		}
		opts := make([]resource.Option, 0, len(list))
		for _, s := range list {
			opts = append(opts, resource.Option{
				Value: s.ID.Hex(),
				Label: fmt.Sprintf("%s (%s - %s)", s.Name, s.StartTime, s.EndTime),
			})
		}
		return opts, nil
	}

	desc := resource.Descriptor[models.Assignment]{
		Slug:     "assignments",
		Singular: "assignment",
		Plural:   "Assignments",

		Fields: []resource.FormField{
			{Name: "employee_id", Label: "Employee", Kind: resource.InputSelect, Required: true, Options: employeeOptions},
			{Name: "restroom_id", Label: "Restroom", Kind: resource.InputSelect, Required: true, Options: restroomOptions},
			{Name: "shift_id", Label: "Shift", Kind: resource.InputSelect, Required: true, Options: shiftOptions},
			{Name: "date", Label: "Date", Kind: resource.InputDate, Required: true},
			{Name: "notes", Label: "Notes", Kind: resource.InputTextarea},
		},

		Columns: []string{"Date", "Employee", "Restroom", "Shift"},
		Cells: func(a models.Assignment) []string {
			return []string{
				a.Date.Format(assignmentstore.DateLayout),
				a.EmployeeName,
				strconv.Itoa(a.RestroomNumber),
				a.ShiftName,
			}
		},

		Details: func(a models.Assignment) []resource.Detail {
			return []resource.Detail{
				{Label: "Date", Value: a.Date.Format(assignmentstore.DateLayout)},
				{Label: "Employee", Value: a.EmployeeName},
				{Label: "Restroom", Value: strconv.Itoa(a.RestroomNumber)},
				{Label: "Shift", Value: a.ShiftName},
				{Label: "Notes", Value: a.Notes},
			}
		},

		View: listpage.View[models.Assignment]{
			Matches: func(a models.Assignment, needle string) bool {
				return strings.Contains(a.EmployeeNameCI, needle) ||
					strings.Contains(strconv.Itoa(a.RestroomNumber), needle) ||
					strings.Contains(listpage.Fold(a.ShiftName), needle) ||
					strings.Contains(a.Date.Format(assignmentstore.DateLayout), needle)
			},
			Category: func(a models.Assignment) string { return a.ShiftID.Hex() },
			Label:    func(a models.Assignment) string { return a.EmployeeName },
			Less: func(a, b models.Assignment) bool {
				if !a.Date.Equal(b.Date) {
					return a.Date.After(b.Date)
				}
				return a.EmployeeNameCI < b.EmployeeNameCI
			},
		},

		TabsFor: func(ctx context.Context) ([]resource.Tab, error) {
			list, err := shifts.List(ctx)
			if err != nil {
				return nil, err
			}
			tabs := make([]resource.Tab, 0, len(list))
			for _, s := range list {
				tabs = append(tabs, resource.Tab{Value: s.ID.Hex(), Label: s.Name})
			}
			return tabs, nil
		},

		ID: func(a models.Assignment) string { return a.ID.Hex() },
		Seed: func(a models.Assignment) modalflow.Draft {
			return modalflow.Draft{
				"employee_id": a.EmployeeID.Hex(),
				"restroom_id": a.RestroomID.Hex(),
				"shift_id":    a.ShiftID.Hex(),
				"date":        a.Date.Format(assignmentstore.DateLayout),
				"notes":       a.Notes,
			}
		},
	}

	return &Handler{
		Engine: resource.NewHandler(desc, store, sm, toasts, errLog, log),
		Log:    log,
	}
}
