package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"watchshop/internal/models"
)

type reviewRepository struct {
	coll *mongo.Collection
}

func NewReviews(coll *mongo.Collection) Reviews {
	return &reviewRepository{coll: coll}
}

func (r *reviewRepository) FindAll(ctx context.Context) ([]models.Review, error) {
	return findAll[models.Review](ctx, r.coll, bson.M{})
}
