package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User roles
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

type User struct {
	ID           primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Username     string               `bson:"username" json:"username"`
	Email        string               `bson:"email" json:"email"`
	Password     string               `bson:"password" json:"-"`
	Role         string               `bson:"role" json:"role"`
	ProfileImage string               `bson:"profileImage,omitempty" json:"profileImage,omitempty"`
	IsSubscribed bool                 `bson:"isSubscribed" json:"isSubscribed"`
	Cart         []primitive.ObjectID `bson:"cart" json:"cart"`
	CreatedAt    time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time            `bson:"updatedAt" json:"updatedAt"`
}
