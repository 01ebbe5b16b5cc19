package database

import (
	"context"
	"log/slog"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"watchshop/internal/config"
)

// Collection names in the shop database.
const (
	ProductsCollection = "watches"
	ReviewsCollection  = "reviews"
	CartsCollection    = "carts"
	UsersCollection    = "users"
	PaymentsCollection = "payments"
)

const connectTimeout = 30 * time.Second

// Mongo owns the client and the shop database handle.
type Mongo struct {
	Client *mongo.Client
	DB     *mongo.Database
}

// Connect dials MongoDB with the stable API v1 and pings the admin database.
func Connect(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Mongo, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	serverAPI := options.ServerAPI(options.ServerAPIVersion1).
		SetStrict(true).
		SetDeprecationErrors(true)
	opts := options.Client().
		ApplyURI(cfg.Mongo.URI).
		SetServerAPIOptions(serverAPI)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, errors.Wrap(err, "connect mongo")
	}

	if err := client.Database("admin").RunCommand(ctx, bson.D{{Key: "ping", Value: 1}}).Err(); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errors.Wrap(err, "ping mongo")
	}

	logger.Info("connected to MongoDB", slog.String("database", cfg.Mongo.Database))
	return &Mongo{Client: client, DB: client.Database(cfg.Mongo.Database)}, nil
}

// Close disconnects the client.
func (m *Mongo) Close(ctx context.Context) error {
	return errors.Wrap(m.Client.Disconnect(ctx), "disconnect mongo")
}
