package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Cart holds a user's pending subscription selection. Business rule: at most
// one product at a time.
type Cart struct {
	ID        primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	User      primitive.ObjectID   `bson:"user" json:"user"`
	Products  []primitive.ObjectID `bson:"products" json:"products"`
	CreatedAt time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time            `bson:"updatedAt" json:"updatedAt"`
}
