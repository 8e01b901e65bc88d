// internal/app/store/restrooms/restroomstore.go
package restroomstore

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
	c           *mongo.Collection
	areas       *mongo.Collection
	assignments *mongo.Collection
}

var (
	ErrDuplicateRestroomNumber = errors.New("a restroom with this number already exists")
	ErrRestroomNotFound        = errors.New("restroom not found")
	ErrRestroomHasAssignments  = errors.New("restroom still has cleaning assignments")
	ErrUnknownArea             = errors.New("the selected area no longer exists")
)

func New(db *mongo.Database) *Store {
	return &Store{
		c:           db.Collection("restrooms"),
		areas:       db.Collection("areas"),
		assignments: db.Collection("assignments"),
	}
}

// List returns all restrooms in number order.
func (s *Store) List(ctx context.Context) ([]models.Restroom, error) {
	cur, err := s.c.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "number", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var restrooms []models.Restroom
	if err := cur.All(ctx, &restrooms); err != nil {
		return nil, err
	}
	return restrooms, nil
}

func (s *Store) GetByID(ctx context.Context, id string) (models.Restroom, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.Restroom{}, ErrRestroomNotFound
	}
	var r models.Restroom
	if err := s.c.FindOne(ctx, bson.M{"_id": oid}).Decode(&r); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Restroom{}, ErrRestroomNotFound
		}
		return models.Restroom{}, err
	}
	return r, nil
}

func (s *Store) Create(ctx context.Context, draft modalflow.Draft) (models.Restroom, error) {
	r, err := s.fromDraft(ctx, draft)
	if err != nil {
		return models.Restroom{}, err
	}

	now := time.Now().UTC()
	r.ID = primitive.NewObjectID()
	r.CreatedAt = now
	r.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, r); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Restroom{}, ErrDuplicateRestroomNumber
		}
		return models.Restroom{}, err
	}
	return r, nil
}

func (s *Store) Update(ctx context.Context, id string, draft modalflow.Draft) (models.Restroom, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.Restroom{}, ErrRestroomNotFound
	}
	r, err := s.fromDraft(ctx, draft)
	if err != nil {
		return models.Restroom{}, err
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
			return models.Restroom{}, ErrDuplicateRestroomNumber
		}
		return models.Restroom{}, err
	}
	if res.MatchedCount == 0 {
		return models.Restroom{}, ErrRestroomNotFound
	}

	// Assignments list the restroom number; sync after a renumber.
	if _, err := s.assignments.UpdateMany(ctx,
		bson.M{"restroom_id": oid},
		bson.M{"$set": bson.M{"restroom_number": r.Number, "updated_at": time.Now().UTC()}},
	); err != nil {
		return models.Restroom{}, err
	}

	return s.GetByID(ctx, id)
}

// Delete refuses while cleaning assignments still reference the restroom.
func (s *Store) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrRestroomNotFound
	}
	n, err := s.assignments.CountDocuments(ctx, bson.M{"restroom_id": oid})
	if err != nil {
		return err
	}
	if n > 0 {
		return ErrRestroomHasAssignments
	}
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrRestroomNotFound
	}
	return nil
}

func (s *Store) fromDraft(ctx context.Context, d modalflow.Draft) (models.Restroom, error) {
	number, err := strconv.Atoi(strings.TrimSpace(d["number"]))
	if err != nil {
		return models.Restroom{}, errors.New("restroom number must be a whole number")
	}
	areaID, err := primitive.ObjectIDFromHex(strings.TrimSpace(d["area_id"]))
	if err != nil {
		return models.Restroom{}, ErrUnknownArea
	}
	var area models.Area
	if err := s.areas.FindOne(ctx, bson.M{"_id": areaID}).Decode(&area); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Restroom{}, ErrUnknownArea
		}
		return models.Restroom{}, err
	}

	status := strings.TrimSpace(d["status"])
	if status == "" {
		status = "active"
	}
	return models.Restroom{
		Number:      number,
		AreaID:      area.ID,
		AreaName:    area.Name,
		AreaNameCI:  area.NameCI,
		Description: htmlsanitize.Sanitize(strings.TrimSpace(d["description"])),
		Status:      status,
	}, nil
}
