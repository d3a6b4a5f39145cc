package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Order is an immutable fulfillment record created once per purchased
// product when a checkout completes.
type Order struct {
	ID        primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	User      primitive.ObjectID   `bson:"user" json:"user"`
	Products  []primitive.ObjectID `bson:"products" json:"products"`
	CreatedAt time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time            `bson:"updatedAt" json:"updatedAt"`
}
