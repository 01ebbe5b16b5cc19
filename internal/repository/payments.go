package repository

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"watchshop/internal/models"
)

type paymentRepository struct {
	coll *mongo.Collection
}

func NewPayments(coll *mongo.Collection) Payments {
	return &paymentRepository{coll: coll}
}

func (r *paymentRepository) Insert(ctx context.Context, p *models.PaymentRecord) (*mongo.InsertOneResult, error) {
	res, err := r.coll.InsertOne(ctx, p)
	return res, errors.Wrap(err, "insert payment")
}

func (r *paymentRepository) FindByEmail(ctx context.Context, email string) ([]models.PaymentRecord, error) {
	return findAll[models.PaymentRecord](ctx, r.coll, bson.M{"email": email})
}
