// internal/app/features/restrooms/handler.go
package restrooms

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
	restroomstore "github.com/baodpham/sanihub/internal/app/store/restrooms"
	"github.com/baodpham/sanihub/internal/app/system/auth"
	"github.com/baodpham/sanihub/internal/app/system/flash"
	"github.com/baodpham/sanihub/internal/app/system/htmlsanitize"
	"github.com/baodpham/sanihub/internal/app/system/listpage"
	"github.com/baodpham/sanihub/internal/app/system/modalflow"
	"github.com/baodpham/sanihub/internal/domain/models"
)

// Handler serves the Restrooms section of the console.
type Handler struct {
	Engine *resource.Handler[models.Restroom]
	Log    *zap.Logger
}

func NewHandler(db *mongo.Database, sm *auth.SessionManager, toasts *flash.Queue, errLog *uierrors.ErrorLogger, log *zap.Logger) *Handler {
	store := restroomstore.New(db)
	areas := areastore.New(db)

	areaOptions := func(ctx context.Context) ([]resource.Option, error) {
		list, err := areas.List(ctx)
		if err != nil {
			return nil, err
		}
		opts := make([]resource.Option, 0, len(list))
		for _, a := range list {
			opts = append(opts, resource.Option{
				Value: a.ID.Hex(),
				Label: fmt.Sprintf("%s (floor %d)", a.Name, a.FloorNumber),
			})
		}
		return opts, nil
	}

	desc := resource.Descriptor[models.Restroom]{
		Slug:     "restrooms",
		Singular: "restroom",
		Plural:   "Restrooms",

		Fields: []resource.FormField{
			{Name: "number", Label: "Restroom number", Kind: resource.InputNumber, Required: true},
			{Name: "area_id", Label: "Area", Kind: resource.InputSelect, Required: true, Options: areaOptions},
			{Name: "description", Label: "Description", Kind: resource.InputTextarea},
			{Name: "status", Label: "Status", Kind: resource.InputSelect,
				Options: resource.StaticOptions(
					resource.Option{Value: "active", Label: "Active"},
					resource.Option{Value: "inactive", Label: "Inactive"},
				)},
		},

		Columns: []string{"Number", "Area", "Status"},
		Cells: func(rr models.Restroom) []string {
			return []string{strconv.Itoa(rr.Number), rr.AreaName, rr.Status}
		},

		Details: func(rr models.Restroom) []resource.Detail {
			return []resource.Detail{
				{Label: "Restroom number", Value: strconv.Itoa(rr.Number)},
				{Label: "Area", Value: rr.AreaName},
				{Label: "Description", HTML: htmlsanitize.SanitizeToHTML(rr.Description)},
				{Label: "Status", Value: rr.Status},
			}
		},

		View: listpage.View[models.Restroom]{
			Matches: func(rr models.Restroom, needle string) bool {
				return strings.Contains(strconv.Itoa(rr.Number), needle) ||
					strings.Contains(rr.AreaNameCI, needle)
			},
			Category: func(rr models.Restroom) string { return rr.Status },
			Label:    func(rr models.Restroom) string { return strconv.Itoa(rr.Number) },
			Less: func(a, b models.Restroom) bool {
				return a.Number < b.Number
			},
		},

		Tabs: []resource.Tab{
			{Value: "active", Label: "Active"},
			{Value: "inactive", Label: "Inactive"},
		},

		ID: func(rr models.Restroom) string { return rr.ID.Hex() },
		Seed: func(rr models.Restroom) modalflow.Draft {
			return modalflow.Draft{
				"number":      strconv.Itoa(rr.Number),
				"area_id":     rr.AreaID.Hex(),
				"description": rr.Description,
				"status":      rr.Status,
			}
		},
	}

	return &Handler{
		Engine: resource.NewHandler(desc, store, sm, toasts, errLog, log),
		Log:    log,
	}
}
