// internal/app/features/areas/handler.go
package areas

import (
	"context"
	"fmt"
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

// Handler serves the Areas section of the console.
type Handler struct {
	Engine *resource.Handler[models.Area]
	Log    *zap.Logger
}

func NewHandler(db *mongo.Database, sm *auth.SessionManager, toasts *flash.Queue, errLog *uierrors.ErrorLogger, log *zap.Logger) *Handler {
	store := areastore.New(db)
	floors := floorstore.New(db)

	floorOptions := func(ctx context.Context) ([]resource.Option, error) {
		list, err := floors.List(ctx)
		if err != nil {
			return nil, err
		}
		opts := make([]resource.Option, 0, len(list))
		for _, f := range list {
			opts = append(opts, resource.Option{
				Value: f.ID.Hex(),
				Label: fmt.Sprintf("Floor %d - %s", f.Number, f.Name),
			})
		}
		return opts, nil
	}

	desc := resource.Descriptor[models.Area]{
		Slug:     "areas",
		Singular: "area",
		Plural:   "Areas",

		Fields: []resource.FormField{
			{Name: "name", Label: "Area name", Kind: resource.InputText, Required: true},
			{Name: "floor_id", Label: "Floor", Kind: resource.InputSelect, Required: true, Options: floorOptions},
			{Name: "description", Label: "Description", Kind: resource.InputTextarea},
			{Name: "status", Label: "Status", Kind: resource.InputSelect,
				Options: resource.StaticOptions(
					resource.Option{Value: "active", Label: "Active"},
					resource.Option{Value: "inactive", Label: "Inactive"},
				)},
		},

		Columns: []string{"Name", "Floor", "Status"},
		Cells: func(a models.Area) []string {
			return []string{a.Name, strconv.Itoa(a.FloorNumber), a.Status}
		},

		Details: func(a models.Area) []resource.Detail {
			return []resource.Detail{
				{Label: "Name", Value: a.Name},
				{Label: "Floor", Value: strconv.Itoa(a.FloorNumber)},
				{Label: "Description", HTML: htmlsanitize.SanitizeToHTML(a.Description)},
				{Label: "Status", Value: a.Status},
			}
		},

		View: listpage.View[models.Area]{
			Matches: func(a models.Area, needle string) bool {
				return strings.Contains(a.NameCI, needle) ||
					strings.Contains(strconv.Itoa(a.FloorNumber), needle)
			},
			Category: func(a models.Area) string { return a.Status },
			Label:    func(a models.Area) string { return a.Name },
			Less: func(a, b models.Area) bool {
				if a.FloorNumber != b.FloorNumber {
					return a.FloorNumber < b.FloorNumber
				}
				return a.NameCI < b.NameCI
			},
		},

		Tabs: []resource.Tab{
			{Value: "active", Label: "Active"},
			{Value: "inactive", Label: "Inactive"},
		},

		ID: func(a models.Area) string { return a.ID.Hex() },
		Seed: func(a models.Area) modalflow.Draft {
			return modalflow.Draft{
				"name":        a.Name,
				"floor_id":    a.FloorID.Hex(),
				"description": a.Description,
				"status":      a.Status,
			}
		},
	}

	return &Handler{
		Engine: resource.NewHandler(desc, store, sm, toasts, errLog, log),
		Log:    log,
	}
}
