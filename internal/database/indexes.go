package database

import (
	"context"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func ensureIndexes(db *mongo.Database, collection string, models ...mongo.IndexModel) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	names, err := db.Collection(collection).Indexes().CreateMany(ctx, models)
	if err != nil {
		slog.Error("index creation failed", "collection", collection, "error", err)
		return err
	}
	slog.Info("indexes ensured", "collection", collection, "indexes", names)
	return nil
}

func EnsureCategoryIndexes(db *mongo.Database) error {
	return ensureIndexes(db, CategoriesCollection, mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetName("name_unique").SetUnique(true),
	})
}

func EnsureProductIndexes(db *mongo.Database) error {
	return ensureIndexes(db, ProductsCollection,
		mongo.IndexModel{
			Keys:    bson.D{{Key: "active", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index().SetName("active_createdAt"),
		},
		mongo.IndexModel{
			Keys:    bson.D{{Key: "category._id", Value: 1}},
			Options: options.Index().SetName("category_index"),
		},
	)
}

func EnsureOrderIndexes(db *mongo.Database) error {
	return ensureIndexes(db, OrdersCollection, mongo.IndexModel{
		Keys:    bson.D{{Key: "status", Value: 1}, {Key: "createdAt", Value: -1}},
		Options: options.Index().SetName("status_createdAt"),
	})
}

func EnsureReviewIndexes(db *mongo.Database) error {
	return ensureIndexes(db, ReviewsCollection, mongo.IndexModel{
		Keys:    bson.D{{Key: "productId", Value: 1}, {Key: "createdAt", Value: -1}},
		Options: options.Index().SetName("productId_createdAt"),
	})
}

func EnsureAdminIndexes(db *mongo.Database) error {
	return ensureIndexes(db, AdminsCollection, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetName("email_unique").SetUnique(true),
	})
}

// EnsureIndexes runs every collection's index setup, logging failures without
// stopping at the first one.
func EnsureIndexes(db *mongo.Database) {
	for name, ensure := range map[string]func(*mongo.Database) error{
		CategoriesCollection: EnsureCategoryIndexes,
		ProductsCollection:   EnsureProductIndexes,
		OrdersCollection:     EnsureOrderIndexes,
		ReviewsCollection:    EnsureReviewIndexes,
		AdminsCollection:     EnsureAdminIndexes,
	} {
		if err := ensure(db); err != nil {
			slog.Warn("index warning", "collection", name, "error", err)
		}
	}
}
