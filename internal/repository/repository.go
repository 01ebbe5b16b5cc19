// Package repository wraps the shop collections. Each method performs exactly one
// driver operation and returns the driver's result unchanged.
package repository

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"watchshop/internal/database"
	"watchshop/internal/models"
)

type Products interface {
	FindAll(ctx context.Context) ([]models.Product, error)
	// FindByID returns nil, nil when no document matches.
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
	Insert(ctx context.Context, p *models.Product) (*mongo.InsertOneResult, error)
	Upsert(ctx context.Context, id primitive.ObjectID, p *models.Product) (*mongo.UpdateResult, error)
	Delete(ctx context.Context, id primitive.ObjectID) (*mongo.DeleteResult, error)
}

type Reviews interface {
	FindAll(ctx context.Context) ([]models.Review, error)
}

type Carts interface {
	Insert(ctx context.Context, item *models.CartItem) (*mongo.InsertOneResult, error)
	FindByEmail(ctx context.Context, email string) ([]models.CartItem, error)
	Delete(ctx context.Context, id primitive.ObjectID) (*mongo.DeleteResult, error)
	DeleteMany(ctx context.Context, ids []primitive.ObjectID) (*mongo.DeleteResult, error)
}

type Users interface {
	FindAll(ctx context.Context) ([]models.User, error)
	// FindByEmail returns nil, nil when no document matches.
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Insert(ctx context.Context, u *models.User) (*mongo.InsertOneResult, error)
	SetRole(ctx context.Context, id primitive.ObjectID, role models.Role) (*mongo.UpdateResult, error)
	Delete(ctx context.Context, id primitive.ObjectID) (*mongo.DeleteResult, error)
}

type Payments interface {
	Insert(ctx context.Context, p *models.PaymentRecord) (*mongo.InsertOneResult, error)
	FindByEmail(ctx context.Context, email string) ([]models.PaymentRecord, error)
}

// Set groups the repositories handed to the handlers.
type Set struct {
	Products Products
	Reviews  Reviews
	Carts    Carts
	Users    Users
	Payments Payments
}

// NewMongoSet binds every repository to its collection in db.
func NewMongoSet(db *mongo.Database) Set {
	return Set{
		Products: NewProducts(db.Collection(database.ProductsCollection)),
		Reviews:  NewReviews(db.Collection(database.ReviewsCollection)),
		Carts:    NewCarts(db.Collection(database.CartsCollection)),
		Users:    NewUsers(db.Collection(database.UsersCollection)),
		Payments: NewPayments(db.Collection(database.PaymentsCollection)),
	}
}

// findAll decodes every document matching filter. The result is never nil so it
// serializes as [].
func findAll[T any](ctx context.Context, coll *mongo.Collection, filter any) ([]T, error) {
	cursor, err := coll.Find(ctx, filter)
	if err != nil {
		return nil, errors.Wrapf(err, "find %s", coll.Name())
	}

	out := []T{}
	if err := cursor.All(ctx, &out); err != nil {
		return nil, errors.Wrapf(err, "decode %s", coll.Name())
	}
	return out, nil
}

// findOne decodes the first document matching filter, or returns nil when none does.
func findOne[T any](ctx context.Context, coll *mongo.Collection, filter any) (*T, error) {
	var out T
	err := coll.FindOne(ctx, filter).Decode(&out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "find one %s", coll.Name())
	}
	return &out, nil
}
