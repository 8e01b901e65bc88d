// internal/domain/models/shift.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Shift is a recurring work window (e.g. "Ca sáng" 06:00-14:00).
// StartTime/EndTime are wall-clock strings in "15:04" form; shifts that
// cross midnight have EndTime < StartTime.
type Shift struct {
	ID          primitive.ObjectID `bson:"_id" json:"id"`
	Name        string             `bson:"name" json:"name"`
	NameCI      string             `bson:"name_ci" json:"name_ci"`
	StartTime   string             `bson:"start_time" json:"start_time"`
	EndTime     string             `bson:"end_time" json:"end_time"`
	Description string             `bson:"description" json:"description"`

	Status string `bson:"status" json:"status"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
