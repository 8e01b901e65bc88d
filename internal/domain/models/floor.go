// internal/domain/models/floor.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Floor is one storey of the facility. Areas, rooms, and restrooms all
// hang off a floor.
type Floor struct {
	ID          primitive.ObjectID `bson:"_id" json:"id"`
	Number      int                `bson:"number" json:"number"`
	Name        string             `bson:"name" json:"name"`
	NameCI      string             `bson:"name_ci" json:"name_ci"`
	Description string             `bson:"description" json:"description"`

	Status string `bson:"status" json:"status"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
