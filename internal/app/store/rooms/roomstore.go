// internal/app/store/rooms/roomstore.go
package roomstore

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/baodpham/sanihub/internal/app/system/htmlsanitize"
	"github.com/baodpham/sanihub/internal/app/system/modalflow"
	"github.com/baodpham/sanihub/internal/domain/models"
)

type Store struct {
	c        *mongo.Collection
	areas    *mongo.Collection
	requests *mongo.Collection
}

var (
	ErrDuplicateRoomNumber = errors.New("a room with this number already exists")
	ErrRoomNotFound        = errors.New("room not found")
	ErrRoomHasRequests     = errors.New("room still has maintenance requests attached")
	ErrUnknownArea         = errors.New("the selected area no longer exists")
)

func New(db *mongo.Database) *Store {
	return &Store{
		c:        db.Collection("rooms"),
		areas:    db.Collection("areas"),
		requests: db.Collection("maintenance_requests"),
	}
}

// List returns all rooms in number order.
func (s *Store) List(ctx context.Context) ([]models.Room, error) {
	cur, err := s.c.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "number", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var rooms []models.Room
	if err := cur.All(ctx, &rooms); err != nil {
		return nil, err
	}
	return rooms, nil
}

func (s *Store) GetByID(ctx context.Context, id string) (models.Room, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.Room{}, ErrRoomNotFound
	}
	var r models.Room
	if err := s.c.FindOne(ctx, bson.M{"_id": oid}).Decode(&r); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Room{}, ErrRoomNotFound
		}
		return models.Room{}, err
	}
	return r, nil
}

func (s *Store) Create(ctx context.Context, draft modalflow.Draft) (models.Room, error) {
	r, err := s.fromDraft(ctx, draft)
	if err != nil {
		return models.Room{}, err
	}

	now := time.Now().UTC()
	r.ID = primitive.NewObjectID()
	r.CreatedAt = now
	r.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, r); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Room{}, ErrDuplicateRoomNumber
		}
		return models.Room{}, err
	}
	return r, nil
}

func (s *Store) Update(ctx context.Context, id string, draft modalflow.Draft) (models.Room, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.Room{}, ErrRoomNotFound
	}
	r, err := s.fromDraft(ctx, draft)
	if err != nil {
		return models.Room{}, err
	}

	set := bson.M{
		"number":       r.Number,
		"area_id":      r.AreaID,
		"area_name":    r.AreaName,
		"area_name_ci": r.AreaNameCI,
		"description":  r.Description,
		"status":       r.Status,
		"updated_at":   time.Now().UTC(),
	}
	res, err := s.c.UpdateByID(ctx, oid, bson.M{"$set": set})
	if err != nil {
		if wafflemongo.IsDup(err) {
			return models.Room{}, ErrDuplicateRoomNumber
		}
		return models.Room{}, err
	}
	if res.MatchedCount == 0 {
		return models.Room{}, ErrRoomNotFound
	}

	// Requests show the room number; keep it in sync after a renumber.
	if _, err := s.requests.UpdateMany(ctx,
		bson.M{"room_id": oid},
		bson.M{"$set": bson.M{"room_number": r.Number, "updated_at": time.Now().UTC()}},
	); err != nil {
		return models.Room{}, err
	}

	return s.GetByID(ctx, id)
}

// Delete refuses while maintenance requests still reference the room.
func (s *Store) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrRoomNotFound
	}
	n, err := s.requests.CountDocuments(ctx, bson.M{"room_id": oid})
	if err != nil {
		return err
	}
	if n > 0 {
		return ErrRoomHasRequests
	}
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrRoomNotFound
	}
	return nil
}

func (s *Store) fromDraft(ctx context.Context, d modalflow.Draft) (models.Room, error) {
	number, err := strconv.Atoi(strings.TrimSpace(d["number"]))
	if err != nil {
		return models.Room{}, errors.New("room number must be a whole number")
	}
	areaID, err := primitive.ObjectIDFromHex(strings.TrimSpace(d["area_id"]))
	if err != nil {
		return models.Room{}, ErrUnknownArea
	}
	var area models.Area
	if err := s.areas.FindOne(ctx, bson.M{"_id": areaID}).Decode(&area); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Room{}, ErrUnknownArea
		}
		return models.Room{}, err
	}

	status := strings.TrimSpace(d["status"])
	if status == "" {
		status = "active"
	}
	return models.Room{
		Number:      number,
		AreaID:      area.ID,
		AreaName:    area.Name,
		AreaNameCI:  area.NameCI,
		Description: htmlsanitize.Sanitize(strings.TrimSpace(d["description"])),
		Status:      status,
	}, nil
}
