// internal/domain/models/assignment.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Assignment schedules one employee to clean one restroom during one
// shift on one date. Display names are denormalized for list search;
// stores refresh them on create/update.
type Assignment struct {
	ID             primitive.ObjectID `bson:"_id" json:"id"`
	EmployeeID     primitive.ObjectID `bson:"employee_id" json:"employee_id"`
	EmployeeName   string             `bson:"employee_name" json:"employee_name"`
	EmployeeNameCI string             `bson:"employee_name_ci" json:"employee_name_ci"`
	RestroomID     primitive.ObjectID `bson:"restroom_id" json:"restroom_id"`
	RestroomNumber int                `bson:"restroom_number" json:"restroom_number"`
	ShiftID        primitive.ObjectID `bson:"shift_id" json:"shift_id"`
	ShiftName      string             `bson:"shift_name" json:"shift_name"`
	Date           time.Time          `bson:"date" json:"date"`
	Notes          string             `bson:"notes" json:"notes"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
