// internal/app/store/leaves/leavestore.go
package leavestore

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/baodpham/sanihub/internal/app/system/modalflow"
	"github.com/baodpham/sanihub/internal/domain/models"
)

// DateLayout is the wire format for leave dates in forms.
const DateLayout = "2006-01-02"

type Store struct {
	c         *mongo.Collection
	employees *mongo.Collection
}

var (
	ErrLeaveNotFound   = errors.New("leave request not found")
	ErrUnknownEmployee = errors.New("the selected employee no longer exists")
	ErrBadDate         = errors.New("dates must look like 2026-01-31")
	ErrBadDateRange    = errors.New("the end date falls before the start date")
	ErrBadLeaveStatus  = errors.New("leave status must be pending, approved, or rejected")
	ErrLeaveSettled    = errors.New("only pending leave requests can be decided")
)

func New(db *mongo.Database) *Store {
	return &Store{
		c:         db.Collection("leave_requests"),
		employees: db.Collection("employees"),
	}
}

// List returns all leave requests, newest start date first.
func (s *Store) List(ctx context.Context) ([]models.LeaveRequest, error) {
	cur, err := s.c.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{
		{Key: "start_date", Value: -1},
		{Key: "_id", Value: 1},
	}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var leaves []models.LeaveRequest
	if err := cur.All(ctx, &leaves); err != nil {
		return nil, err
	}
	return leaves, nil
}

func (s *Store) GetByID(ctx context.Context, id string) (models.LeaveRequest, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.LeaveRequest{}, ErrLeaveNotFound
	}
	var lr models.LeaveRequest
	if err := s.c.FindOne(ctx, bson.M{"_id": oid}).Decode(&lr); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.LeaveRequest{}, ErrLeaveNotFound
		}
		return models.LeaveRequest{}, err
	}
	return lr, nil
}

func (s *Store) Create(ctx context.Context, draft modalflow.Draft) (models.LeaveRequest, error) {
	lr, err := s.fromDraft(ctx, draft)
	if err != nil {
		return models.LeaveRequest{}, err
	}

	now := time.Now().UTC()
	lr.ID = primitive.NewObjectID()
	lr.Status = models.LeavePending
	lr.CreatedAt = now
	lr.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, lr); err != nil {
		return models.LeaveRequest{}, err
	}
	return lr, nil
}

func (s *Store) Update(ctx context.Context, id string, draft modalflow.Draft) (models.LeaveRequest, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.LeaveRequest{}, ErrLeaveNotFound
	}
	lr, err := s.fromDraft(ctx, draft)
	if err != nil {
		return models.LeaveRequest{}, err
	}

	set := bson.M{
		"employee_id":      lr.EmployeeID,
		"employee_name":    lr.EmployeeName,
		"employee_name_ci": lr.EmployeeNameCI,
		"reason":           lr.Reason,
		"start_date":       lr.StartDate,
		"end_date":         lr.EndDate,
		"updated_at":       time.Now().UTC(),
	}
	res, err := s.c.UpdateByID(ctx, oid, bson.M{"$set": set})
	if err != nil {
		return models.LeaveRequest{}, err
	}
	if res.MatchedCount == 0 {
		return models.LeaveRequest{}, ErrLeaveNotFound
	}
	return s.GetByID(ctx, id)
}

// Decide settles a pending leave request as approved or rejected.
func (s *Store) Decide(ctx context.Context, id string, status string) (models.LeaveRequest, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.LeaveRequest{}, ErrLeaveNotFound
	}
	if status != models.LeaveApproved && status != models.LeaveRejected {
		return models.LeaveRequest{}, ErrBadLeaveStatus
	}

	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": oid, "status": models.LeavePending},
		bson.M{"$set": bson.M{"status": status, "updated_at": time.Now().UTC()}},
	)
	if err != nil {
		return models.LeaveRequest{}, err
	}
	if res.MatchedCount == 0 {
		// Either gone or already settled; tell the caller which.
		if _, err := s.GetByID(ctx, id); err != nil {
			return models.LeaveRequest{}, err
		}
		return models.LeaveRequest{}, ErrLeaveSettled
	}
	return s.GetByID(ctx, id)
}

func (s *Store) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrLeaveNotFound
	}
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrLeaveNotFound
	}
	return nil
}

func (s *Store) fromDraft(ctx context.Context, d modalflow.Draft) (models.LeaveRequest, error) {
	empID, err := primitive.ObjectIDFromHex(strings.TrimSpace(d["employee_id"]))
	if err != nil {
		return models.LeaveRequest{}, ErrUnknownEmployee
	}
	var emp models.Employee
	if err := s.employees.FindOne(ctx, bson.M{"_id": empID}).Decode(&emp); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.LeaveRequest{}, ErrUnknownEmployee
		}
		return models.LeaveRequest{}, err
	}

	start, err := time.Parse(DateLayout, strings.TrimSpace(d["start_date"]))
	if err != nil {
		return models.LeaveRequest{}, ErrBadDate
	}
	end, err := time.Parse(DateLayout, strings.TrimSpace(d["end_date"]))
	if err != nil {
		return models.LeaveRequest{}, ErrBadDate
	}
	if end.Before(start) {
		return models.LeaveRequest{}, ErrBadDateRange
	}

	return models.LeaveRequest{
		EmployeeID:     emp.ID,
		EmployeeName:   emp.FullName,
		EmployeeNameCI: emp.FullNameCI,
		Reason:         strings.TrimSpace(d["reason"]),
		StartDate:      start,
		EndDate:        end,
	}, nil
}
