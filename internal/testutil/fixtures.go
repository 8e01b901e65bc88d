package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/waffle/pantry/text"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/baodpham/sanihub/internal/domain/models"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateFloor creates a test floor with the given number and name.
func (f *Fixtures) CreateFloor(ctx context.Context, number int, name string) models.Floor {
	f.t.Helper()

	now := time.Now().UTC()
	floor := models.Floor{
		ID:        primitive.NewObjectID(),
		Number:    number,
		Name:      name,
		NameCI:    text.Fold(name),
		Status:    "active",
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := f.db.Collection("floors").InsertOne(ctx, floor); err != nil {
		f.t.Fatalf("failed to create test floor: %v", err)
	}
	return floor
}

// CreateArea creates a test area on the given floor.
func (f *Fixtures) CreateArea(ctx context.Context, name string, floor models.Floor) models.Area {
	f.t.Helper()

	now := time.Now().UTC()
	area := models.Area{
		ID:          primitive.NewObjectID(),
		Name:        name,
		NameCI:      text.Fold(name),
		FloorID:     floor.ID,
		FloorNumber: floor.Number,
		Status:      "active",
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if _, err := f.db.Collection("areas").InsertOne(ctx, area); err != nil {
		f.t.Fatalf("failed to create test area: %v", err)
	}
	return area
}

// CreateRoom creates a test room in the given area.
func (f *Fixtures) CreateRoom(ctx context.Context, number int, area models.Area) models.Room {
	f.t.Helper()

	now := time.Now().UTC()
	room := models.Room{
		ID:         primitive.NewObjectID(),
		Number:     number,
		AreaID:     area.ID,
		AreaName:   area.Name,
		AreaNameCI: area.NameCI,
		Status:     "active",
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if _, err := f.db.Collection("rooms").InsertOne(ctx, room); err != nil {
		f.t.Fatalf("failed to create test room: %v", err)
	}
	return room
}

// CreateRestroom creates a test restroom in the given area.
func (f *Fixtures) CreateRestroom(ctx context.Context, number int, area models.Area) models.Restroom {
	f.t.Helper()

	now := time.Now().UTC()
	restroom := models.Restroom{
		ID:         primitive.NewObjectID(),
		Number:     number,
		AreaID:     area.ID,
		AreaName:   area.Name,
		AreaNameCI: area.NameCI,
		Status:     "active",
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if _, err := f.db.Collection("restrooms").InsertOne(ctx, restroom); err != nil {
		f.t.Fatalf("failed to create test restroom: %v", err)
	}
	return restroom
}

// CreateShift creates a test shift with the given boundaries ("15:04").
func (f *Fixtures) CreateShift(ctx context.Context, name, start, end string) models.Shift {
	f.t.Helper()

	now := time.Now().UTC()
	shift := models.Shift{
		ID:        primitive.NewObjectID(),
		Name:      name,
		NameCI:    text.Fold(name),
		StartTime: start,
		EndTime:   end,
		Status:    "active",
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := f.db.Collection("shifts").InsertOne(ctx, shift); err != nil {
		f.t.Fatalf("failed to create test shift: %v", err)
	}
	return shift
}

// CreateEmployee creates a test employee with the given role.
func (f *Fixtures) CreateEmployee(ctx context.Context, fullName, email, role string) models.Employee {
	f.t.Helper()

	now := time.Now().UTC()
	emp := models.Employee{
		ID:         primitive.NewObjectID(),
		FullName:   fullName,
		FullNameCI: text.Fold(fullName),
		Email:      email,
		Role:       role,
		Status:     "active",
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if _, err := f.db.Collection("employees").InsertOne(ctx, emp); err != nil {
		f.t.Fatalf("failed to create test employee: %v", err)
	}
	return emp
}

// CreateAssignment links an employee to a restroom and shift on a date.
func (f *Fixtures) CreateAssignment(ctx context.Context, emp models.Employee, restroom models.Restroom, shift models.Shift, date time.Time) models.Assignment {
	f.t.Helper()

	now := time.Now().UTC()
	asg := models.Assignment{
		ID:             primitive.NewObjectID(),
		EmployeeID:     emp.ID,
		EmployeeName:   emp.FullName,
		EmployeeNameCI: emp.FullNameCI,
		RestroomID:     restroom.ID,
		RestroomNumber: restroom.Number,
		ShiftID:        shift.ID,
		ShiftName:      shift.Name,
		Date:           date,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if _, err := f.db.Collection("assignments").InsertOne(ctx, asg); err != nil {
		f.t.Fatalf("failed to create test assignment: %v", err)
	}
	return asg
}

// CreateLeaveRequest creates a pending leave request for the employee.
func (f *Fixtures) CreateLeaveRequest(ctx context.Context, emp models.Employee, reason string, start, end time.Time) models.LeaveRequest {
	f.t.Helper()

	now := time.Now().UTC()
	lr := models.LeaveRequest{
		ID:           primitive.NewObjectID(),
		EmployeeID:   emp.ID,
		EmployeeName: emp.FullName,
		Reason:       reason,
		StartDate:    start,
		EndDate:      end,
		Status:       models.LeavePending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if _, err := f.db.Collection("leave_requests").InsertOne(ctx, lr); err != nil {
		f.t.Fatalf("failed to create test leave request: %v", err)
	}
	return lr
}

// CreateMaintenanceRequest creates a request for the room in the given
// lifecycle state.
func (f *Fixtures) CreateMaintenanceRequest(ctx context.Context, title string, room models.Room, statusCode int) models.MaintenanceRequest {
	f.t.Helper()

	now := time.Now().UTC()
	req := models.MaintenanceRequest{
		ID:            primitive.NewObjectID(),
		Code:          uuid.NewString(),
		Title:         title,
		TitleCI:       text.Fold(title),
		RoomID:        room.ID,
		RoomNumber:    room.Number,
		StatusCode:    statusCode,
		RequestedBy:   "Test Requester",
		RequestedByCI: text.Fold("Test Requester"),
		RequestedAt:   now,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if _, err := f.db.Collection("maintenance_requests").InsertOne(ctx, req); err != nil {
		f.t.Fatalf("failed to create test maintenance request: %v", err)
	}
	return req
}
