// internal/domain/models/area.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Area is a named zone on a floor (lobby, east wing, cafeteria).
// Rooms and restrooms reference an area; assignments target the rooms
// and restrooms inside it.
type Area struct {
	ID          primitive.ObjectID `bson:"_id" json:"id"`
	FloorID     primitive.ObjectID `bson:"floor_id" json:"floor_id"`
	FloorNumber int                `bson:"floor_number" json:"floor_number"`
	Name        string             `bson:"name" json:"name"`
	NameCI      string             `bson:"name_ci" json:"name_ci"`
	Description string             `bson:"description" json:"description"`

	Status string `bson:"status" json:"status"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
