// internal/domain/models/room.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Room is a cleanable room inside an area.
//
// AreaName is denormalized onto the room document so list search can
// match it without a join; stores keep it in sync on create/update.
type Room struct {
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
