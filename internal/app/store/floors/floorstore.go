// internal/app/store/floors/floorstore.go
package floorstore

import (
	"context"
	"errors"
	"strconv"
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
	c     *mongo.Collection
	areas *mongo.Collection
}

var (
	ErrDuplicateFloorNumber = errors.New("a floor with this number already exists")
	ErrFloorNotFound        = errors.New("floor not found")
	ErrFloorHasAreas        = errors.New("floor still has areas assigned")
)

func New(db *mongo.Database) *Store {
	return &Store{
		c:     db.Collection("floors"),
		areas: db.Collection("areas"),
	}
}

// List returns all floors in building order.
func (s *Store) List(ctx context.Context) ([]models.Floor, error) {
	cur, err := s.c.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "number", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var floors []models.Floor
	if err := cur.All(ctx, &floors); err != nil {
		return nil, err
	}
	return floors, nil
}

func (s *Store) GetByID(ctx context.Context, id string) (models.Floor, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.Floor{}, ErrFloorNotFound
	}
	var f models.Floor
	if err := s.c.FindOne(ctx, bson.M{"_id": oid}).Decode(&f); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Floor{}, ErrFloorNotFound
		}
		return models.Floor{}, err
	}
	return f, nil
}

func (s *Store) Create(ctx context.Context, draft modalflow.Draft) (models.Floor, error) {
	f, err := fromDraft(draft)
	if err != nil {
		return models.Floor{}, err
	}

	now := time.Now().UTC()
	f.ID = primitive.NewObjectID()
	f.CreatedAt = now
	f.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, f); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Floor{}, ErrDuplicateFloorNumber
		}
		return models.Floor{}, err
	}
	return f, nil
}

func (s *Store) Update(ctx context.Context, id string, draft modalflow.Draft) (models.Floor, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.Floor{}, ErrFloorNotFound
	}
	f, err := fromDraft(draft)
	if err != nil {
		return models.Floor{}, err
	}

	set := bson.M{
		"number":      f.Number,
		"name":        f.Name,
		"name_ci":     f.NameCI,
		"description": f.Description,
		"status":      f.Status,
		"updated_at":  time.Now().UTC(),
	}
	res, err := s.c.UpdateByID(ctx, oid, bson.M{"$set": set})
	if err != nil {
		if wafflemongo.IsDup(err) {
			return models.Floor{}, ErrDuplicateFloorNumber
		}
		return models.Floor{}, err
	}
	if res.MatchedCount == 0 {
		return models.Floor{}, ErrFloorNotFound
	}

	// Keep the denormalized floor number on areas in sync.
	if _, err := s.areas.UpdateMany(ctx,
		bson.M{"floor_id": oid},
		bson.M{"$set": bson.M{"floor_number": f.Number, "updated_at": time.Now().UTC()}},
	); err != nil {
		return models.Floor{}, err
	}

	return s.GetByID(ctx, id)
}

// Delete refuses while areas still reference the floor; the operator
// must move or remove them first.
func (s *Store) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrFloorNotFound
	}
	n, err := s.areas.CountDocuments(ctx, bson.M{"floor_id": oid})
	if err != nil {
		return err
	}
	if n > 0 {
		return ErrFloorHasAreas
	}
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrFloorNotFound
	}
	return nil
}

func fromDraft(d modalflow.Draft) (models.Floor, error) {
	number, err := strconv.Atoi(strings.TrimSpace(d["number"]))
	if err != nil {
		return models.Floor{}, errors.New("floor number must be a whole number")
	}
	name := strings.TrimSpace(d["name"])
	status := strings.TrimSpace(d["status"])
	if status == "" {
		status = "active"
	}
	return models.Floor{
		Number:      number,
		Name:        name,
		NameCI:      text.Fold(name),
		Description: htmlsanitize.Sanitize(strings.TrimSpace(d["description"])),
		Status:      status,
	}, nil
}
