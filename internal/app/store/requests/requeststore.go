// internal/app/store/requests/requeststore.go
package requeststore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/baodpham/sanihub/internal/app/system/htmlsanitize"
	"github.com/baodpham/sanihub/internal/app/system/modalflow"
	"github.com/baodpham/sanihub/internal/app/system/reqstatus"
	"github.com/baodpham/sanihub/internal/domain/models"
)

type Store struct {
	c     *mongo.Collection
	rooms *mongo.Collection
}

var (
	ErrRequestNotFound = errors.New("maintenance request not found")
	ErrUnknownRoom     = errors.New("the selected room no longer exists")
	ErrDuplicateCode   = errors.New("a request with this tracking code already exists")
)

func New(db *mongo.Database) *Store {
	return &Store{
		c:     db.Collection("maintenance_requests"),
		rooms: db.Collection("rooms"),
	}
}

// List returns all maintenance requests, newest first.
func (s *Store) List(ctx context.Context) ([]models.MaintenanceRequest, error) {
	cur, err := s.c.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{
		{Key: "requested_at", Value: -1},
		{Key: "_id", Value: 1},
	}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var requests []models.MaintenanceRequest
	if err := cur.All(ctx, &requests); err != nil {
		return nil, err
	}
	return requests, nil
}

func (s *Store) GetByID(ctx context.Context, id string) (models.MaintenanceRequest, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.MaintenanceRequest{}, ErrRequestNotFound
	}
	var r models.MaintenanceRequest
	if err := s.c.FindOne(ctx, bson.M{"_id": oid}).Decode(&r); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.MaintenanceRequest{}, ErrRequestNotFound
		}
		return models.MaintenanceRequest{}, err
	}
	return r, nil
}

// GetByCode looks a request up by its shareable tracking code.
func (s *Store) GetByCode(ctx context.Context, code string) (models.MaintenanceRequest, error) {
	var r models.MaintenanceRequest
	err := s.c.FindOne(ctx, bson.M{"code": strings.TrimSpace(code)}).Decode(&r)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.MaintenanceRequest{}, ErrRequestNotFound
		}
		return models.MaintenanceRequest{}, err
	}
	return r, nil
}

// Create files a new request. It always enters the lifecycle at Sent
// and receives a fresh tracking code.
func (s *Store) Create(ctx context.Context, draft modalflow.Draft) (models.MaintenanceRequest, error) {
	r, err := s.fromDraft(ctx, draft)
	if err != nil {
		return models.MaintenanceRequest{}, err
	}

	now := time.Now().UTC()
	r.ID = primitive.NewObjectID()
	r.Code = uuid.NewString()
	r.StatusCode = int(reqstatus.Sent)
	r.RequestedAt = now
	r.CreatedAt = now
	r.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, r); err != nil {
		if wafflemongo.IsDup(err) {
			return models.MaintenanceRequest{}, ErrDuplicateCode
		}
		return models.MaintenanceRequest{}, err
	}
	return r, nil
}

// Update edits the request's descriptive fields. The lifecycle state
// moves only through Transition.
func (s *Store) Update(ctx context.Context, id string, draft modalflow.Draft) (models.MaintenanceRequest, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.MaintenanceRequest{}, ErrRequestNotFound
	}
	r, err := s.fromDraft(ctx, draft)
	if err != nil {
		return models.MaintenanceRequest{}, err
	}

	set := bson.M{
		"title":           r.Title,
		"title_ci":        r.TitleCI,
		"room_id":         r.RoomID,
		"room_number":     r.RoomNumber,
		"description":     r.Description,
		"requested_by":    r.RequestedBy,
		"requested_by_ci": r.RequestedByCI,
		"updated_at":      time.Now().UTC(),
	}
	res, err := s.c.UpdateByID(ctx, oid, bson.M{"$set": set})
	if err != nil {
		return models.MaintenanceRequest{}, err
	}
	if res.MatchedCount == 0 {
		return models.MaintenanceRequest{}, ErrRequestNotFound
	}
	return s.GetByID(ctx, id)
}

// Transition moves the request along the lifecycle. The legal moves
// are re-checked against the stored state so a stale page cannot force
// an illegal jump.
func (s *Store) Transition(ctx context.Context, id string, to reqstatus.Status) (models.MaintenanceRequest, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.MaintenanceRequest{}, ErrRequestNotFound
	}

	current, err := s.GetByID(ctx, id)
	if err != nil {
		return models.MaintenanceRequest{}, err
	}
	from := reqstatus.Status(current.StatusCode)
	if !reqstatus.CanTransition(from, to) {
		return models.MaintenanceRequest{}, fmt.Errorf(
			"a request marked %q cannot move to %q", reqstatus.Label(from), reqstatus.Label(to))
	}

	// Guard on the old status code so concurrent transitions cannot race.
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": oid, "status_code": int(from)},
		bson.M{"$set": bson.M{"status_code": int(to), "updated_at": time.Now().UTC()}},
	)
	if err != nil {
		return models.MaintenanceRequest{}, err
	}
	if res.MatchedCount == 0 {
		return models.MaintenanceRequest{}, errors.New("the request changed underneath you; reload and retry")
	}
	return s.GetByID(ctx, id)
}

func (s *Store) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrRequestNotFound
	}
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrRequestNotFound
	}
	return nil
}

func (s *Store) fromDraft(ctx context.Context, d modalflow.Draft) (models.MaintenanceRequest, error) {
	roomID, err := primitive.ObjectIDFromHex(strings.TrimSpace(d["room_id"]))
	if err != nil {
		return models.MaintenanceRequest{}, ErrUnknownRoom
	}
	var room models.Room
	if err := s.rooms.FindOne(ctx, bson.M{"_id": roomID}).Decode(&room); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.MaintenanceRequest{}, ErrUnknownRoom
		}
		return models.MaintenanceRequest{}, err
	}

	title := strings.TrimSpace(d["title"])
	requestedBy := strings.TrimSpace(d["requested_by"])
	return models.MaintenanceRequest{
		Title:         title,
		TitleCI:       text.Fold(title),
		RoomID:        room.ID,
		RoomNumber:    room.Number,
		Description:   htmlsanitize.Sanitize(strings.TrimSpace(d["description"])),
		RequestedBy:   requestedBy,
		RequestedByCI: text.Fold(requestedBy),
	}, nil
}
