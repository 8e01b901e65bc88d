// internal/app/store/employees/employeestore.go
package employeestore

import (
	"context"
	"errors"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"

	"github.com/baodpham/sanihub/internal/app/system/inputval"
	"github.com/baodpham/sanihub/internal/app/system/modalflow"
	"github.com/baodpham/sanihub/internal/app/system/normalize"
	"github.com/baodpham/sanihub/internal/domain/models"
)

type Store struct {
	c           *mongo.Collection
	assignments *mongo.Collection
	leaves      *mongo.Collection
}

var (
	ErrDuplicateEmail         = errors.New("an employee with this email already exists")
	ErrEmployeeNotFound       = errors.New("employee not found")
	ErrEmployeeHasAssignments = errors.New("employee still has cleaning assignments")
	ErrBadEmail               = errors.New("email address is not valid")
	ErrBadRole                = errors.New("role must be admin, supervisor, or staff")
	ErrPasswordRequired       = errors.New("a password is required for new employees")
)

func New(db *mongo.Database) *Store {
	return &Store{
		c:           db.Collection("employees"),
		assignments: db.Collection("assignments"),
		leaves:      db.Collection("leave_requests"),
	}
}

// List returns all employees in name order.
func (s *Store) List(ctx context.Context) ([]models.Employee, error) {
	cur, err := s.c.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{
		{Key: "full_name_ci", Value: 1},
		{Key: "_id", Value: 1},
	}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var employees []models.Employee
	if err := cur.All(ctx, &employees); err != nil {
		return nil, err
	}
	return employees, nil
}

func (s *Store) GetByID(ctx context.Context, id string) (models.Employee, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.Employee{}, ErrEmployeeNotFound
	}
	var e models.Employee
	if err := s.c.FindOne(ctx, bson.M{"_id": oid}).Decode(&e); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Employee{}, ErrEmployeeNotFound
		}
		return models.Employee{}, err
	}
	return e, nil
}

// GetByEmail looks up the login identity.
func (s *Store) GetByEmail(ctx context.Context, email string) (models.Employee, error) {
	var e models.Employee
	err := s.c.FindOne(ctx, bson.M{"email": normalize.Email(email)}).Decode(&e)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Employee{}, ErrEmployeeNotFound
		}
		return models.Employee{}, err
	}
	return e, nil
}

func (s *Store) Create(ctx context.Context, draft modalflow.Draft) (models.Employee, error) {
	e, err := fromDraft(draft)
	if err != nil {
		return models.Employee{}, err
	}

	password := draft["password"]
	if password == "" {
		return models.Employee{}, ErrPasswordRequired
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.Employee{}, err
	}
	e.PasswordHash = string(hash)

	now := time.Now().UTC()
	e.ID = primitive.NewObjectID()
	e.CreatedAt = now
	e.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, e); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Employee{}, ErrDuplicateEmail
		}
		return models.Employee{}, err
	}
	return e, nil
}

func (s *Store) Update(ctx context.Context, id string, draft modalflow.Draft) (models.Employee, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.Employee{}, ErrEmployeeNotFound
	}
	e, err := fromDraft(draft)
	if err != nil {
		return models.Employee{}, err
	}

	set := bson.M{
		"full_name":    e.FullName,
		"full_name_ci": e.FullNameCI,
		"email":        e.Email,
		"phone":        e.Phone,
		"role":         e.Role,
		"status":       e.Status,
		"updated_at":   time.Now().UTC(),
	}
	// Blank password keeps the current credentials.
	if password := draft["password"]; password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return models.Employee{}, err
		}
		set["password_hash"] = string(hash)
	}

	res, err := s.c.UpdateByID(ctx, oid, bson.M{"$set": set})
	if err != nil {
		if wafflemongo.IsDup(err) {
			return models.Employee{}, ErrDuplicateEmail
		}
		return models.Employee{}, err
	}
	if res.MatchedCount == 0 {
		return models.Employee{}, ErrEmployeeNotFound
	}

	// Assignments and leave requests carry the employee name.
	sync := bson.M{"$set": bson.M{
		"employee_name":    e.FullName,
		"employee_name_ci": e.FullNameCI,
		"updated_at":       time.Now().UTC(),
	}}
	if _, err := s.assignments.UpdateMany(ctx, bson.M{"employee_id": oid}, sync); err != nil {
		return models.Employee{}, err
	}
	if _, err := s.leaves.UpdateMany(ctx, bson.M{"employee_id": oid}, sync); err != nil {
		return models.Employee{}, err
	}

	return s.GetByID(ctx, id)
}

// Delete refuses while assignments still reference the employee.
func (s *Store) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrEmployeeNotFound
	}
	n, err := s.assignments.CountDocuments(ctx, bson.M{"employee_id": oid})
	if err != nil {
		return err
	}
	if n > 0 {
		return ErrEmployeeHasAssignments
	}
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrEmployeeNotFound
	}
	return nil
}

// VerifyPassword checks a login attempt against the stored hash.
func VerifyPassword(e models.Employee, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(e.PasswordHash), []byte(password)) == nil
}

func fromDraft(d modalflow.Draft) (models.Employee, error) {
	name := normalize.Name(d["full_name"])
	email := normalize.Email(d["email"])
	if !inputval.IsValidEmail(email) {
		return models.Employee{}, ErrBadEmail
	}
	role := normalize.Role(d["role"])
	if !inputval.IsValidRole(role) {
		return models.Employee{}, ErrBadRole
	}
	status := normalize.Status(d["status"])
	if status == "" {
		status = "active"
	}
	return models.Employee{
		FullName:   name,
		FullNameCI: text.Fold(name),
		Email:      email,
		Phone:      normalize.Phone(d["phone"]),
		Role:       role,
		Status:     status,
	}, nil
}
