// internal/app/store/areas/areastore.go
package areastore

import (
	"context"
	"errors"
	"strings"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/baodpham/sanihub/internal/app/system/htmlsanitize"
	"github.com/baodpham/sanihub/internal/app/system/modalflow"
	"github.com/baodpham/sanihub/internal/domain/models"
)

type Store struct {
	c         *mongo.Collection
	floors    *mongo.Collection
	rooms     *mongo.Collection
	restrooms *mongo.Collection
}

var (
	ErrDuplicateAreaName = errors.New("an area with this name already exists on the floor")
	ErrAreaNotFound      = errors.New("area not found")
	ErrAreaInUse         = errors.New("area still has rooms or restrooms assigned")
	ErrUnknownFloor      = errors.New("the selected floor no longer exists")
)

func New(db *mongo.Database) *Store {
	return &Store{
		c:         db.Collection("areas"),
		floors:    db.Collection("floors"),
		rooms:     db.Collection("rooms"),
		restrooms: db.Collection("restrooms"),
	}
}

// List returns all areas ordered by floor, then name.
func (s *Store) List(ctx context.Context) ([]models.Area, error) {
	cur, err := s.c.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{
		{Key: "floor_number", Value: 1},
		{Key: "name_ci", Value: 1},
	}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var areas []models.Area
	if err := cur.All(ctx, &areas); err != nil {
		return nil, err
	}
	return areas, nil
}

// ListByFloor returns the floor's areas ordered by name, for the
// nested area panel on the floor detail dialog.
func (s *Store) ListByFloor(ctx context.Context, floorID primitive.ObjectID) ([]models.Area, error) {
	cur, err := s.c.Find(ctx, bson.M{"floor_id": floorID},
		options.Find().SetSort(bson.D{{Key: "name_ci", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var areas []models.Area
	if err := cur.All(ctx, &areas); err != nil {
		return nil, err
	}
	return areas, nil
}

func (s *Store) GetByID(ctx context.Context, id string) (models.Area, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.Area{}, ErrAreaNotFound
	}
	var a models.Area
	if err := s.c.FindOne(ctx, bson.M{"_id": oid}).Decode(&a); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Area{}, ErrAreaNotFound
		}
		return models.Area{}, err
	}
	return a, nil
}

func (s *Store) Create(ctx context.Context, draft modalflow.Draft) (models.Area, error) {
	a, err := s.fromDraft(ctx, draft)
	if err != nil {
		return models.Area{}, err
	}

	now := time.Now().UTC()
	a.ID = primitive.NewObjectID()
	a.CreatedAt = now
	a.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, a); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Area{}, ErrDuplicateAreaName
		}
		return models.Area{}, err
	}
	return a, nil
}

func (s *Store) Update(ctx context.Context, id string, draft modalflow.Draft) (models.Area, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.Area{}, ErrAreaNotFound
	}
	a, err := s.fromDraft(ctx, draft)
	if err != nil {
		return models.Area{}, err
	}

	set := bson.M{
		"floor_id":     a.FloorID,
		"floor_number": a.FloorNumber,
		"name":         a.Name,
		"name_ci":      a.NameCI,
		"description":  a.Description,
		"status":       a.Status,
		"updated_at":   time.Now().UTC(),
	}
	res, err := s.c.UpdateByID(ctx, oid, bson.M{"$set": set})
	if err != nil {
		if wafflemongo.IsDup(err) {
			return models.Area{}, ErrDuplicateAreaName
		}
		return models.Area{}, err
	}
	if res.MatchedCount == 0 {
		return models.Area{}, ErrAreaNotFound
	}

	// Rooms and restrooms carry the area name for their list rows.
	sync := bson.M{"$set": bson.M{
		"area_name":    a.Name,
		"area_name_ci": a.NameCI,
		"updated_at":   time.Now().UTC(),
	}}
	if _, err := s.rooms.UpdateMany(ctx, bson.M{"area_id": oid}, sync); err != nil {
		return models.Area{}, err
	}
	if _, err := s.restrooms.UpdateMany(ctx, bson.M{"area_id": oid}, sync); err != nil {
		return models.Area{}, err
	}

	return s.GetByID(ctx, id)
}

// Delete refuses while rooms or restrooms still reference the area.
func (s *Store) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrAreaNotFound
	}
	nRooms, err := s.rooms.CountDocuments(ctx, bson.M{"area_id": oid})
	if err != nil {
		return err
	}
	nRestrooms, err := s.restrooms.CountDocuments(ctx, bson.M{"area_id": oid})
	if err != nil {
		return err
	}
	if nRooms+nRestrooms > 0 {
		return ErrAreaInUse
	}
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrAreaNotFound
	}
	return nil
}

func (s *Store) fromDraft(ctx context.Context, d modalflow.Draft) (models.Area, error) {
	floorID, err := primitive.ObjectIDFromHex(strings.TrimSpace(d["floor_id"]))
	if err != nil {
		return models.Area{}, ErrUnknownFloor
	}
	var floor models.Floor
	if err := s.floors.FindOne(ctx, bson.M{"_id": floorID}).Decode(&floor); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Area{}, ErrUnknownFloor
		}
		return models.Area{}, err
	}

	name := strings.TrimSpace(d["name"])
	status := strings.TrimSpace(d["status"])
	if status == "" {
		status = "active"
	}
	return models.Area{
		FloorID:     floor.ID,
		FloorNumber: floor.Number,
		Name:        name,
		NameCI:      text.Fold(name),
		Description: htmlsanitize.Sanitize(strings.TrimSpace(d["description"])),
		Status:      status,
	}, nil
}
