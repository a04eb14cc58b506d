package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	CategoriesCollection = "categories"
	ProductsCollection   = "products"
	OrdersCollection     = "orders"
	ReviewsCollection    = "reviews"
	AdminsCollection     = "admins"
)

const opTimeout = 5 * time.Second

// Connect dials MongoDB and verifies the primary answers.
func Connect(uri string) (*mongo.Client, error) {
	if uri == "" {
		return nil, errors.New("MONGO_URI is required")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}
	return client, nil
}

// Health answers the liveness check.
type Health struct {
	db *mongo.Database
}

func NewHealth(db *mongo.Database) *Health {
	return &Health{db: db}
}

func (h *Health) Ping(ctx context.Context) error {
	return h.db.Client().Ping(ctx, readpref.Primary())
}
