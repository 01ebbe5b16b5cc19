package repository

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"watchshop/internal/models"
)

type userRepository struct {
	coll *mongo.Collection
}

func NewUsers(coll *mongo.Collection) Users {
	return &userRepository{coll: coll}
}

func (r *userRepository) FindAll(ctx context.Context) ([]models.User, error) {
	return findAll[models.User](ctx, r.coll, bson.M{})
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return findOne[models.User](ctx, r.coll, bson.M{"email": email})
}

func (r *userRepository) Insert(ctx context.Context, u *models.User) (*mongo.InsertOneResult, error) {
	res, err := r.coll.InsertOne(ctx, u)
	return res, errors.Wrap(err, "insert user")
}

func (r *userRepository) SetRole(ctx context.Context, id primitive.ObjectID, role models.Role) (*mongo.UpdateResult, error) {
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"role": role}})
	return res, errors.Wrap(err, "set user role")
}

func (r *userRepository) Delete(ctx context.Context, id primitive.ObjectID) (*mongo.DeleteResult, error) {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	return res, errors.Wrap(err, "delete user")
}
