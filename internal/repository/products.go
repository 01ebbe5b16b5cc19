package repository

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"watchshop/internal/models"
)

type productRepository struct {
	coll *mongo.Collection
}

func NewProducts(coll *mongo.Collection) Products {
	return &productRepository{coll: coll}
}

func (r *productRepository) FindAll(ctx context.Context) ([]models.Product, error) {
	return findAll[models.Product](ctx, r.coll, bson.M{})
}

func (r *productRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	return findOne[models.Product](ctx, r.coll, bson.M{"_id": id})
}

func (r *productRepository) Insert(ctx context.Context, p *models.Product) (*mongo.InsertOneResult, error) {
	res, err := r.coll.InsertOne(ctx, p)
	return res, errors.Wrap(err, "insert product")
}

// Upsert replaces the listing fields of id, creating the document when missing.
func (r *productRepository) Upsert(ctx context.Context, id primitive.ObjectID, p *models.Product) (*mongo.UpdateResult, error) {
	update := bson.M{"$set": bson.M{
		"name":    p.Name,
		"price":   p.Price,
		"image":   p.Image,
		"details": p.Details,
	}}
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, update, options.Update().SetUpsert(true))
	return res, errors.Wrap(err, "upsert product")
}

func (r *productRepository) Delete(ctx context.Context, id primitive.ObjectID) (*mongo.DeleteResult, error) {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	return res, errors.Wrap(err, "delete product")
}
