package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Post species
const (
	SpecieDog   = "Perro"
	SpecieCat   = "Gato"
	SpecieOther = "Otro"
)

// Post conditions
const (
	ConditionLost     = "Perdido"
	ConditionFound    = "Encontrado"
	ConditionAdoption = "Adopción"
)

type Post struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title     string             `bson:"title" json:"title"`
	Content   string             `bson:"content" json:"content"`
	Specie    string             `bson:"specie" json:"specie"`
	Location  string             `bson:"location" json:"location"`
	Condition string             `bson:"condition" json:"condition"`
	Image     string             `bson:"image" json:"image"`
	Author    primitive.ObjectID `bson:"author" json:"author"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// ValidSpecie reports whether s is one of the accepted species.
func ValidSpecie(s string) bool {
	return s == SpecieDog || s == SpecieCat || s == SpecieOther
}

// ValidCondition reports whether c is one of the accepted conditions.
func ValidCondition(c string) bool {
	return c == ConditionLost || c == ConditionFound || c == ConditionAdoption
}
