package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const PaymentStatusPending = "service pending"

// PaymentRecord is written once per completed checkout and never updated.
// CartItems lists the cart document ids settled by the payment.
type PaymentRecord struct {
	ID            primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	Email         string             `json:"email" bson:"email" binding:"required,email"`
	TransactionID string             `json:"transactionId" bson:"transactionId" binding:"required"`
	Price         float64            `json:"price" bson:"price" binding:"gte=0"`
	Quantity      int                `json:"quantity" bson:"quantity" binding:"gte=0"`
	CartItems     []string           `json:"cartItems" bson:"cartItems" binding:"required,dive,objectid"`
	ItemNames     []string           `json:"itemNames,omitempty" bson:"itemNames,omitempty"`
	Status        string             `json:"status,omitempty" bson:"status,omitempty"`
	Date          time.Time          `json:"date" bson:"date"`
}

// CartObjectIDs converts CartItems to ObjectIDs.
func (p *PaymentRecord) CartObjectIDs() ([]primitive.ObjectID, error) {
	ids := make([]primitive.ObjectID, 0, len(p.CartItems))
	for _, hex := range p.CartItems {
		id, err := primitive.ObjectIDFromHex(hex)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
