// internal/domain/models/maintrequest.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MaintenanceRequest is a reported maintenance issue for a room or
// restroom. StatusCode holds the backend's numeric lifecycle code; the
// reqstatus package owns the code↔label mapping and the transition
// rules. Code is a human-shareable tracking reference printed on the
// reporter's receipt.
type MaintenanceRequest struct {
	ID          primitive.ObjectID `bson:"_id" json:"id"`
	Code        string             `bson:"code" json:"code"`
	Title       string             `bson:"title" json:"title"`
	TitleCI     string             `bson:"title_ci" json:"title_ci"`
	RoomID      primitive.ObjectID `bson:"room_id" json:"room_id"`
	RoomNumber  int                `bson:"room_number" json:"room_number"`
	Description string             `bson:"description" json:"description"`

	StatusCode int `bson:"status_code" json:"status_code"`

	RequestedBy   string    `bson:"requested_by" json:"requested_by"`
	RequestedByCI string    `bson:"requested_by_ci" json:"requested_by_ci"`
	RequestedAt   time.Time `bson:"requested_at" json:"requested_at"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
