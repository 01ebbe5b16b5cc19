package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// CartItem is one product placed in a user's cart. Email is the owner.
type CartItem struct {
	ID       primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	Email    string             `json:"email" bson:"email" binding:"required,email"`
	ItemID   string             `json:"itemId" bson:"itemId" binding:"required"`
	Name     string             `json:"name" bson:"name"`
	Price    float64            `json:"price" bson:"price" binding:"gte=0"`
	Image    string             `json:"image,omitempty" bson:"image,omitempty"`
	Quantity int                `json:"quantity,omitempty" bson:"quantity,omitempty" binding:"gte=0"`
}
