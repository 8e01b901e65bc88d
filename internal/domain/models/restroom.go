// internal/domain/models/restroom.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Restroom is a restroom inside an area. Restrooms are tracked apart
// from rooms because they carry their own cleaning cadence and are the
// usual target of maintenance requests.
type Restroom struct {
	ID          primitive.ObjectID `bson:"_id" json:"id"`
	Number      int                `bson:"number" json:"number"`
	AreaID      primitive.ObjectID `bson:"area_id" json:"area_id"`
	AreaName    string             `bson:"area_name" json:"area_name"`
	AreaNameCI  string             `bson:"area_name_ci" json:"area_name_ci"`
	Description string             `bson:"description" json:"description"`

	Status string `bson:"status" json:"status"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
