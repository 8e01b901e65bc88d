// internal/app/features/rooms/handler.go
package rooms

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
	roomstore "github.com/baodpham/sanihub/internal/app/store/rooms"
	"github.com/baodpham/sanihub/internal/app/system/auth"
	"github.com/baodpham/sanihub/internal/app/system/flash"
	"github.com/baodpham/sanihub/internal/app/system/htmlsanitize"
	"github.com/baodpham/sanihub/internal/app/system/listpage"
	"github.com/baodpham/sanihub/internal/app/system/modalflow"
	"github.com/baodpham/sanihub/internal/domain/models"
)

// Handler serves the Rooms section of the console.
type Handler struct {
	Engine *resource.Handler[models.Room]
	Log    *zap.Logger
}

func NewHandler(db *mongo.Database, sm *auth.SessionManager, toasts *flash.Queue, errLog *uierrors.ErrorLogger, log *zap.Logger) *Handler {
	store := roomstore.New(db)
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

	desc := resource.Descriptor[models.Room]{
		Slug:     "rooms",
		Singular: "room",
		Plural:   "Rooms",

		Fields: []resource.FormField{
			{Name: "number", Label: "Room number", Kind: resource.InputNumber, Required: true},
			{Name: "area_id", Label: "Area", Kind: resource.InputSelect, Required: true, Options: areaOptions},
			{Name: "description", Label: "Description", Kind: resource.InputTextarea},
			{Name: "status", Label: "Status", Kind: resource.InputSelect,
				Options: resource.StaticOptions(
					resource.Option{Value: "active", Label: "Active"},
					resource.Option{Value: "inactive", Label: "Inactive"},
				)},
		},

		Columns: []string{"Number", "Area", "Status"},
		Cells: func(rm models.Room) []string {
			return []string{strconv.Itoa(rm.Number), rm.AreaName, rm.Status}
		},

		Details: func(rm models.Room) []resource.Detail {
			return []resource.Detail{
				{Label: "Room number", Value: strconv.Itoa(rm.Number)},
				{Label: "Area", Value: rm.AreaName},
				{Label: "Description", HTML: htmlsanitize.SanitizeToHTML(rm.Description)},
				{Label: "Status", Value: rm.Status},
			}
		},

		View: listpage.View[models.Room]{
			Matches: func(rm models.Room, needle string) bool {
				return strings.Contains(strconv.Itoa(rm.Number), needle) ||
					strings.Contains(rm.AreaNameCI, needle)
			},
			Category: func(rm models.Room) string { return rm.Status },
			Label:    func(rm models.Room) string { return strconv.Itoa(rm.Number) },
			Less: func(a, b models.Room) bool {
				return a.Number < b.Number
			},
		},

		Tabs: []resource.Tab{
			{Value: "active", Label: "Active"},
			{Value: "inactive", Label: "Inactive"},
		},

		ID: func(rm models.Room) string { return rm.ID.Hex() },
		Seed: func(rm models.Room) modalflow.Draft {
			return modalflow.Draft{
				"number":      strconv.Itoa(rm.Number),
				"area_id":     rm.AreaID.Hex(),
				"description": rm.Description,
				"status":      rm.Status,
			}
		},
	}

	return &Handler{
		Engine: resource.NewHandler(desc, store, sm, toasts, errLog, log),
		Log:    log,
	}
}
