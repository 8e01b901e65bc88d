// internal/app/store/shifts/shiftstore.go
package shiftstore

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

	"github.com/baodpham/sanihub/internal/app/system/inputval"
	"github.com/baodpham/sanihub/internal/app/system/modalflow"
	"github.com/baodpham/sanihub/internal/domain/models"
)

type Store struct {
	c           *mongo.Collection
	assignments *mongo.Collection
}

var (
	ErrDuplicateShiftName  = errors.New("a shift with this name already exists")
	ErrShiftNotFound       = errors.New("shift not found")
	ErrShiftHasAssignments = errors.New("shift still has cleaning assignments")
	ErrBadTimeOfDay        = errors.New("shift times must look like 06:00")
)

func New(db *mongo.Database) *Store {
	return &Store{
		c:           db.Collection("shifts"),
		assignments: db.Collection("assignments"),
	}
}

// List returns all shifts ordered by start time, then name.
func (s *Store) List(ctx context.Context) ([]models.Shift, error) {
	cur, err := s.c.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{
		{Key: "start_time", Value: 1},
		{Key: "name_ci", Value: 1},
	}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var shifts []models.Shift
	if err := cur.All(ctx, &shifts); err != nil {
		return nil, err
	}
	return shifts, nil
}

func (s *Store) GetByID(ctx context.Context, id string) (models.Shift, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.Shift{}, ErrShiftNotFound
	}
	var sh models.Shift
	if err := s.c.FindOne(ctx, bson.M{"_id": oid}).Decode(&sh); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Shift{}, ErrShiftNotFound
		}
		return models.Shift{}, err
	}
	return sh, nil
}

func (s *Store) Create(ctx context.Context, draft modalflow.Draft) (models.Shift, error) {
	sh, err := fromDraft(draft)
	if err != nil {
		return models.Shift{}, err
	}

	now := time.Now().UTC()
	sh.ID = primitive.NewObjectID()
	sh.CreatedAt = now
	sh.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, sh); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Shift{}, ErrDuplicateShiftName
		}
		return models.Shift{}, err
	}
	return sh, nil
}

func (s *Store) Update(ctx context.Context, id string, draft modalflow.Draft) (models.Shift, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.Shift{}, ErrShiftNotFound
	}
	sh, err := fromDraft(draft)
	if err != nil {
		return models.Shift{}, err
	}

	set := bson.M{
		"name":        sh.Name,
		"name_ci":     sh.NameCI,
		"start_time":  sh.StartTime,
		"end_time":    sh.EndTime,
		"description": sh.Description,
		"status":      sh.Status,
		"updated_at":  time.Now().UTC(),
	}
	res, err := s.c.UpdateByID(ctx, oid, bson.M{"$set": set})
	if err != nil {
		if wafflemongo.IsDup(err) {
			return models.Shift{}, ErrDuplicateShiftName
		}
		return models.Shift{}, err
	}
	if res.MatchedCount == 0 {
		return models.Shift{}, ErrShiftNotFound
	}

	// Assignments list the shift name; sync after a rename.
	if _, err := s.assignments.UpdateMany(ctx,
		bson.M{"shift_id": oid},
		bson.M{"$set": bson.M{"shift_name": sh.Name, "updated_at": time.Now().UTC()}},
	); err != nil {
		return models.Shift{}, err
	}

	return s.GetByID(ctx, id)
}

// Delete refuses while assignments still reference the shift.
func (s *Store) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrShiftNotFound
	}
	n, err := s.assignments.CountDocuments(ctx, bson.M{"shift_id": oid})
	if err != nil {
		return err
	}
	if n > 0 {
		return ErrShiftHasAssignments
	}
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrShiftNotFound
	}
	return nil
}

func fromDraft(d modalflow.Draft) (models.Shift, error) {
	name := strings.TrimSpace(d["name"])
	start := strings.TrimSpace(d["start_time"])
	end := strings.TrimSpace(d["end_time"])
	if !inputval.IsValidTimeOfDay(start) || !inputval.IsValidTimeOfDay(end) {
		return models.Shift{}, ErrBadTimeOfDay
	}
	status := strings.TrimSpace(d["status"])
	if status == "" {
		status = "active"
	}
	return models.Shift{
		Name:        name,
		NameCI:      text.Fold(name),
		StartTime:   start,
		EndTime:     end,
		Description: strings.TrimSpace(d["description"]),
		Status:      status,
	}, nil
}
