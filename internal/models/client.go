package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Client represents a workshop customer.
type Client struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FirstName string             `bson:"first_name" json:"first_name"`
	LastName  string             `bson:"last_name" json:"last_name"`
	Phone     string             `bson:"phone" json:"phone"`
	Notes     string             `bson:"notes,omitempty" json:"notes,omitempty"`
}
