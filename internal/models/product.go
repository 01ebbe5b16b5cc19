package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Product is a watch listing in the "watches" collection.
type Product struct {
	ID      primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	Name    string             `json:"name" bson:"name" binding:"required"`
	Price   float64            `json:"price" bson:"price" binding:"gte=0"`
	Image   string             `json:"image" bson:"image"`
	Details string             `json:"details" bson:"details"`
}
