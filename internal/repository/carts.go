package repository

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"watchshop/internal/models"
)

type cartRepository struct {
	coll *mongo.Collection
}

func NewCarts(coll *mongo.Collection) Carts {
	return &cartRepository{coll: coll}
}

func (r *cartRepository) Insert(ctx context.Context, item *models.CartItem) (*mongo.InsertOneResult, error) {
	res, err := r.coll.InsertOne(ctx, item)
	return res, errors.Wrap(err, "insert cart item")
}

func (r *cartRepository) FindByEmail(ctx context.Context, email string) ([]models.CartItem, error) {
	return findAll[models.CartItem](ctx, r.coll, bson.M{"email": email})
}

func (r *cartRepository) Delete(ctx context.Context, id primitive.ObjectID) (*mongo.DeleteResult, error) {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	return res, errors.Wrap(err, "delete cart item")
}

func (r *cartRepository) DeleteMany(ctx context.Context, ids []primitive.ObjectID) (*mongo.DeleteResult, error) {
	res, err := r.coll.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}})
	return res, errors.Wrap(err, "delete cart items")
}
