// internal/app/features/shifts/handler.go
package shifts

import (
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	uierrors "github.com/baodpham/sanihub/internal/app/features/errors"
	"github.com/baodpham/sanihub/internal/app/features/resource"
	shiftstore "github.com/baodpham/sanihub/internal/app/store/shifts"
	"github.com/baodpham/sanihub/internal/app/system/auth"
	"github.com/baodpham/sanihub/internal/app/system/flash"
	"github.com/baodpham/sanihub/internal/app/system/listpage"
	"github.com/baodpham/sanihub/internal/app/system/modalflow"
	"github.com/baodpham/sanihub/internal/domain/models"
)

// Handler serves the Shifts section of the console.
type Handler struct {
	Engine *resource.Handler[models.Shift]
	Log    *zap.Logger
}

func NewHandler(db *mongo.Database, sm *auth.SessionManager, toasts *flash.Queue, errLog *uierrors.ErrorLogger, log *zap.Logger) *Handler {
	store := shiftstore.New(db)

	desc := resource.Descriptor[models.Shift]{
		Slug:     "shifts",
		Singular: "shift",
		Plural:   "Shifts",

		Fields: []resource.FormField{
			{Name: "name", Label: "Shift name", Kind: resource.InputText, Required: true},
			{Name: "start_time", Label: "Start time", Kind: resource.InputTime, Required: true, Hint: "24-hour clock, e.g. 06:00"},
			{Name: "end_time", Label: "End time", Kind: resource.InputTime, Required: true, Hint: "Shifts crossing midnight end before they start"},
			{Name: "description", Label: "Description", Kind: resource.InputTextarea},
			{Name: "status", Label: "Status", Kind: resource.InputSelect,
				Options: resource.StaticOptions(
					resource.Option{Value: "active", Label: "Active"},
					resource.Option{Value: "inactive", Label: "Inactive"},
				)},
		},

		Columns: []string{"Name", "Hours", "Status"},
		Cells: func(s models.Shift) []string {
			return []string{s.Name, fmt.Sprintf("%s - %s", s.StartTime, s.EndTime), s.Status}
		},

		Details: func(s models.Shift) []resource.Detail {
			return []resource.Detail{
				{Label: "Name", Value: s.Name},
				{Label: "Start time", Value: s.StartTime},
				{Label: "End time", Value: s.EndTime},
				{Label: "Description", Value: s.Description},
				{Label: "Status", Value: s.Status},
			}
		},

		View: listpage.View[models.Shift]{
			Matches: func(s models.Shift, needle string) bool {
				return strings.Contains(s.NameCI, needle) ||
					strings.Contains(s.StartTime, needle) ||
					strings.Contains(s.EndTime, needle)
			},
			Category: func(s models.Shift) string { return s.Status },
			Label:    func(s models.Shift) string { return s.Name },
			Less: func(a, b models.Shift) bool {
				if a.StartTime != b.StartTime {
					return a.StartTime < b.StartTime
				}
				return a.NameCI < b.NameCI
			},
		},

		Tabs: []resource.Tab{
			{Value: "active", Label: "Active"},
			{Value: "inactive", Label: "Inactive"},
		},

		ID: func(s models.Shift) string { return s.ID.Hex() },
		Seed: func(s models.Shift) modalflow.Draft {
			return modalflow.Draft{
				"name":        s.Name,
				"start_time":  s.StartTime,
				"end_time":    s.EndTime,
				"description": s.Description,
				"status":      s.Status,
			}
		},
	}

	return &Handler{
		Engine: resource.NewHandler(desc, store, sm, toasts, errLog, log),
		Log:    log,
	}
}
