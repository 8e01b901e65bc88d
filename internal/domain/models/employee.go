// internal/domain/models/employee.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Employee is a cleaning-operation staff member. Employees with a
// console role (admin or supervisor) can sign in to SaniHub; regular
// staff only appear in assignments and schedules.
type Employee struct {
	ID         primitive.ObjectID `bson:"_id" json:"id"`
	FullName   string             `bson:"full_name" json:"full_name"`
	FullNameCI string             `bson:"full_name_ci" json:"full_name_ci"`
	Email      string             `bson:"email" json:"email"`
	Phone      string             `bson:"phone" json:"phone"`

	// Role is one of "admin", "supervisor", "staff".
	Role string `bson:"role" json:"role"`

	// PasswordHash is a bcrypt hash; empty for staff without console access.
	PasswordHash string `bson:"password_hash,omitempty" json:"-"`

	Status string `bson:"status" json:"status"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
