// internal/domain/models/leaverequest.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Leave request review states.
const (
	LeavePending  = "pending"
	LeaveApproved = "approved"
	LeaveRejected = "rejected"
)

// LeaveRequest is an employee's request for time off, reviewed by a
// supervisor or admin.
type LeaveRequest struct {
	ID             primitive.ObjectID `bson:"_id" json:"id"`
	EmployeeID     primitive.ObjectID `bson:"employee_id" json:"employee_id"`
	EmployeeName   string             `bson:"employee_name" json:"employee_name"`
	EmployeeNameCI string             `bson:"employee_name_ci" json:"employee_name_ci"`
	Reason         string             `bson:"reason" json:"reason"`
	StartDate      time.Time          `bson:"start_date" json:"start_date"`
	EndDate        time.Time          `bson:"end_date" json:"end_date"`

	Status string `bson:"status" json:"status"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
