// internal/app/features/floors/handler.go
package floors

import (
	"context"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	uierrors "github.com/baodpham/sanihub/internal/app/features/errors"
	"github.com/baodpham/sanihub/internal/app/features/resource"
	areastore "github.com/baodpham/sanihub/internal/app/store/areas"
	floorstore "github.com/baodpham/sanihub/internal/app/store/floors"
	"github.com/baodpham/sanihub/internal/app/system/auth"
	"github.com/baodpham/sanihub/internal/app/system/flash"
	"github.com/baodpham/sanihub/internal/app/system/htmlsanitize"
	"github.com/baodpham/sanihub/internal/app/system/listpage"
	"github.com/baodpham/sanihub/internal/app/system/modalflow"
	"github.com/baodpham/sanihub/internal/domain/models"
)

// Handler serves the Floors section of the console.
type Handler struct {
	Engine *resource.Handler[models.Floor]
	Log    *zap.Logger
}

// NewHandler wires the floor store into the resource engine. The view
// dialog also shows the areas on the floor.
func NewHandler(db *mongo.Database, sm *auth.SessionManager, toasts *flash.Queue, errLog *uierrors.ErrorLogger, log *zap.Logger) *Handler {
	store := floorstore.New(db)
	areas := areastore.New(db)

	desc := resource.Descriptor[models.Floor]{
		Slug:     "floors",
		Singular: "floor",
		Plural:   "Floors",

		Fields: []resource.FormField{
			{Name: "number", Label: "Floor number", Kind: resource.InputNumber, Required: true},
			{Name: "name", Label: "Floor name", Kind: resource.InputText, Required: true},
			{Name: "description", Label: "Description", Kind: resource.InputTextarea},
			{Name: "status", Label: "Status", Kind: resource.InputSelect,
				Options: resource.StaticOptions(
					resource.Option{Value: "active", Label: "Active"},
					resource.Option{Value: "inactive", Label: "Inactive"},
				)},
		},

		Columns: []string{"Number", "Name", "Status"},
		Cells: func(f models.Floor) []string {
			return []string{strconv.Itoa(f.Number), f.Name, f.Status}
		},

		Details: func(f models.Floor) []resource.Detail {
			return []resource.Detail{
				{Label: "Floor number", Value: strconv.Itoa(f.Number)},
				{Label: "Name", Value: f.Name},
				{Label: "Description", HTML: htmlsanitize.SanitizeToHTML(f.Description)},
				{Label: "Status", Value: f.Status},
			}
		},

		Panels: func(ctx context.Context, f models.Floor) ([]resource.Panel, error) {
			list, err := areas.ListByFloor(ctx, f.ID)
			if err != nil {
				return nil, err
			}
			rows := make([][]string, 0, len(list))
			for _, a := range list {
				rows = append(rows, []string{a.Name, a.Status})
			}
			return []resource.Panel{{
				Title:   "Areas on this floor",
				Columns: []string{"Name", "Status"},
				Rows:    rows,
				Empty:   "No areas yet.",
			}}, nil
		},

		View: listpage.View[models.Floor]{
			Matches: func(f models.Floor, needle string) bool {
				return strings.Contains(listpage.Fold(f.Name), needle) ||
					strings.Contains(strconv.Itoa(f.Number), needle)
			},
			Category: func(f models.Floor) string { return f.Status },
			Label:    func(f models.Floor) string { return f.Name },
			Less: func(a, b models.Floor) bool {
				return a.Number < b.Number
			},
		},

		Tabs: []resource.Tab{
			{Value: "active", Label: "Active"},
			{Value: "inactive", Label: "Inactive"},
		},

		ID: func(f models.Floor) string { return f.ID.Hex() },
		Seed: func(f models.Floor) modalflow.Draft {
			return modalflow.Draft{
				"number":      strconv.Itoa(f.Number),
				"name":        f.Name,
				"description": f.Description,
				"status":      f.Status,
			}
		},
	}

	return &Handler{
		Engine: resource.NewHandler(desc, store, sm, toasts, errLog, log),
		Log:    log,
	}
}
