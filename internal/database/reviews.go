package database

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"perfume-backend/internal/apperror"
	"perfume-backend/internal/models"
)

type ReviewStore struct {
	coll *mongo.Collection
}

func NewReviewStore(db *mongo.Database) *ReviewStore {
	return &ReviewStore{coll: db.Collection(ReviewsCollection)}
}

func (s *ReviewStore) InsertReview(ctx context.Context, review *models.Review) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if review.ID.IsZero() {
		review.ID = primitive.NewObjectID()
	}
	_, err := s.coll.InsertOne(ctx, review)
	return err
}

func (s *ReviewStore) FindReview(ctx context.Context, id primitive.ObjectID) (models.Review, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var review models.Review
	if err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&review); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Review{}, apperror.NotFound("review %s not found", id.Hex())
		}
		return models.Review{}, err
	}
	return review, nil
}

func (s *ReviewStore) ReplaceReview(ctx context.Context, review models.Review) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	res, err := s.coll.ReplaceOne(ctx, bson.M{"_id": review.ID}, review)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperror.NotFound("review %s not found", review.ID.Hex())
	}
	return nil
}

func (s *ReviewStore) DeleteReview(ctx context.Context, id primitive.ObjectID) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return apperror.NotFound("review %s not found", id.Hex())
	}
	return nil
}

func (s *ReviewStore) ListReviewsByProduct(ctx context.Context, productID primitive.ObjectID) ([]models.Review, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	cursor, err := s.coll.Find(ctx, bson.M{"productId": productID}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	reviews := make([]models.Review, 0)
	if err := cursor.All(ctx, &reviews); err != nil {
		return nil, err
	}
	return reviews, nil
}

// ReviewStats aggregates the average rating and count for a product. The
// average stays nil when the product has no reviews.
func (s *ReviewStore) ReviewStats(ctx context.Context, productID primitive.ObjectID) (models.ReviewStats, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"productId": productID}}},
		{{Key: "$group", Value: bson.M{
			"_id":     nil,
			"average": bson.M{"$avg": "$rating"},
			"count":   bson.M{"$sum": 1},
		}}},
	}
	cursor, err := s.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return models.ReviewStats{}, err
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Average *float64 `bson:"average"`
		Count   int64    `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return models.ReviewStats{}, err
	}
	if len(rows) == 0 {
		return models.ReviewStats{}, nil
	}
	return models.ReviewStats{Average: rows[0].Average, Count: rows[0].Count}, nil
}
