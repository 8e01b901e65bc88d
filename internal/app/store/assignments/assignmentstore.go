// internal/app/store/assignments/assignmentstore.go
package assignmentstore

import (
	"context"
	"errors"
	"strings"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/baodpham/sanihub/internal/app/system/modalflow"
	"github.com/baodpham/sanihub/internal/domain/models"
)

// DateLayout is the wire format for assignment dates in forms.
const DateLayout = "2006-01-02"

type Store struct {
	c         *mongo.Collection
	employees *mongo.Collection
	restrooms *mongo.Collection
	shifts    *mongo.Collection
}

var (
	ErrDuplicateAssignment = errors.New("this employee already holds that assignment")
	ErrAssignmentNotFound  = errors.New("assignment not found")
	ErrUnknownEmployee     = errors.New("the selected employee no longer exists")
	ErrUnknownRestroom     = errors.New("the selected restroom no longer exists")
	ErrUnknownShift        = errors.New("the selected shift no longer exists")
	ErrBadDate             = errors.New("date must look like 2026-01-31")
)

func New(db *mongo.Database) *Store {
	return &Store{
		c:         db.Collection("assignments"),
		employees: db.Collection("employees"),
		restrooms: db.Collection("restrooms"),
		shifts:    db.Collection("shifts"),
	}
}

// List returns all assignments, newest date first.
func (s *Store) List(ctx context.Context) ([]models.Assignment, error) {
	cur, err := s.c.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{
		{Key: "date", Value: -1},
		{Key: "employee_name_ci", Value: 1},
	}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var assignments []models.Assignment
	if err := cur.All(ctx, &assignments); err != nil {
		return nil, err
	}
	return assignments, nil
}

func (s *Store) GetByID(ctx context.Context, id string) (models.Assignment, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.Assignment{}, ErrAssignmentNotFound
	}
	var a models.Assignment
	if err := s.c.FindOne(ctx, bson.M{"_id": oid}).Decode(&a); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Assignment{}, ErrAssignmentNotFound
		}
		return models.Assignment{}, err
	}
	return a, nil
}

func (s *Store) Create(ctx context.Context, draft modalflow.Draft) (models.Assignment, error) {
	a, err := s.fromDraft(ctx, draft)
	if err != nil {
		return models.Assignment{}, err
	}

	now := time.Now().UTC()
	a.ID = primitive.NewObjectID()
	a.CreatedAt = now
	a.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, a); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Assignment{}, ErrDuplicateAssignment
		}
		return models.Assignment{}, err
	}
	return a, nil
}

func (s *Store) Update(ctx context.Context, id string, draft modalflow.Draft) (models.Assignment, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.Assignment{}, ErrAssignmentNotFound
	}
	a, err := s.fromDraft(ctx, draft)
	if err != nil {
		return models.Assignment{}, err
	}

	set := bson.M{
		"employee_id":      a.EmployeeID,
		"employee_name":    a.EmployeeName,
		"employee_name_ci": a.EmployeeNameCI,
		"restroom_id":      a.RestroomID,
		"restroom_number":  a.RestroomNumber,
		"shift_id":         a.ShiftID,
		"shift_name":       a.ShiftName,
		"date":             a.Date,
		"notes":            a.Notes,
		"updated_at":       time.Now().UTC(),
	}
	res, err := s.c.UpdateByID(ctx, oid, bson.M{"$set": set})
	if err != nil {
		if wafflemongo.IsDup(err) {
			return models.Assignment{}, ErrDuplicateAssignment
		}
		return models.Assignment{}, err
	}
	if res.MatchedCount == 0 {
		return models.Assignment{}, ErrAssignmentNotFound
	}
	return s.GetByID(ctx, id)
}

func (s *Store) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrAssignmentNotFound
	}
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrAssignmentNotFound
	}
	return nil
}

func (s *Store) fromDraft(ctx context.Context, d modalflow.Draft) (models.Assignment, error) {
	empID, err := primitive.ObjectIDFromHex(strings.TrimSpace(d["employee_id"]))
	if err != nil {
		return models.Assignment{}, ErrUnknownEmployee
	}
	var emp models.Employee
	if err := s.employees.FindOne(ctx, bson.M{"_id": empID}).Decode(&emp); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Assignment{}, ErrUnknownEmployee
		}
		return models.Assignment{}, err
	}

	restroomID, err := primitive.ObjectIDFromHex(strings.TrimSpace(d["restroom_id"]))
	if err != nil {
		return models.Assignment{}, ErrUnknownRestroom
	}
	var restroom models.Restroom
	if err := s.restrooms.FindOne(ctx, bson.M{"_id": restroomID}).Decode(&restroom); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Assignment{}, ErrUnknownRestroom
		}
		return models.Assignment{}, err
	}

	shiftID, err := primitive.ObjectIDFromHex(strings.TrimSpace(d["shift_id"]))
	if err != nil {
		return models.Assignment{}, ErrUnknownShift
	}
	var shift models.Shift
	if err := s.shifts.FindOne(ctx, bson.M{"_id": shiftID}).Decode(&shift); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Assignment{}, ErrUnknownShift
		}
		return models.Assignment{}, err
	}

	date, err := time.Parse(DateLayout, strings.TrimSpace(d["date"]))
	if err != nil {
		return models.Assignment{}, ErrBadDate
	}

	return models.Assignment{
		EmployeeID:     emp.ID,
		EmployeeName:   emp.FullName,
		EmployeeNameCI: emp.FullNameCI,
		RestroomID:     restroom.ID,
		RestroomNumber: restroom.Number,
		ShiftID:        shift.ID,
		ShiftName:      shift.Name,
		Date:           date,
		Notes:          strings.TrimSpace(d["notes"]),
	}, nil
}
