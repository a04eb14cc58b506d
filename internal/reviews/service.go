// Package reviews stores customer ratings and the per-product aggregates.
package reviews

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"perfume-backend/internal/apperror"
	"perfume-backend/internal/models"
)

const (
	MinRating = 1
	MaxRating = 5
)

type Store interface {
	InsertReview(ctx context.Context, review *models.Review) error
	FindReview(ctx context.Context, id primitive.ObjectID) (models.Review, error)
	ReplaceReview(ctx context.Context, review models.Review) error
	DeleteReview(ctx context.Context, id primitive.ObjectID) error
	ListReviewsByProduct(ctx context.Context, productID primitive.ObjectID) ([]models.Review, error)
	ReviewStats(ctx context.Context, productID primitive.ObjectID) (models.ReviewStats, error)
}

type ProductFinder interface {
	FindProduct(ctx context.Context, id primitive.ObjectID) (models.Product, error)
}

type Service struct {
	reviews  Store
	products ProductFinder
	logger   *slog.Logger
	now      func() time.Time
}

func NewService(reviews Store, products ProductFinder, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		reviews:  reviews,
		products: products,
		logger:   logger.With("component", "reviews"),
		now:      time.Now,
	}
}

type Input struct {
	ProductID     primitive.ObjectID
	CustomerName  string
	CustomerEmail string
	Rating        int
	Comment       string
}

func (in Input) validate() error {
	if strings.TrimSpace(in.CustomerName) == "" {
		return apperror.Validation("customerName is required")
	}
	if in.Rating < MinRating || in.Rating > MaxRating {
		return apperror.Validation("rating must be between %d and %d", MinRating, MaxRating)
	}
	return nil
}

// Create attaches a review to an existing product.
func (s *Service) Create(ctx context.Context, in Input) (models.Review, error) {
	if in.ProductID.IsZero() {
		return models.Review{}, apperror.Validation("productId is required")
	}
	if err := in.validate(); err != nil {
		return models.Review{}, err
	}
	if _, err := s.products.FindProduct(ctx, in.ProductID); err != nil {
		return models.Review{}, err
	}

	review := models.Review{
		ProductID:     in.ProductID,
		CustomerName:  strings.TrimSpace(in.CustomerName),
		CustomerEmail: strings.TrimSpace(in.CustomerEmail),
		Rating:        in.Rating,
		Comment:       in.Comment,
		CreatedAt:     s.now().UTC(),
	}
	if err := s.reviews.InsertReview(ctx, &review); err != nil {
		return models.Review{}, err
	}
	s.logger.Info("review created", "reviewId", review.ID.Hex(), "productId", review.ProductID.Hex(), "rating", review.Rating)
	return review, nil
}

func (s *Service) ListByProduct(ctx context.Context, productID primitive.ObjectID) ([]models.Review, error) {
	return s.reviews.ListReviewsByProduct(ctx, productID)
}

func (s *Service) GetByID(ctx context.Context, id primitive.ObjectID) (models.Review, error) {
	return s.reviews.FindReview(ctx, id)
}

// Update replaces the reviewer and the rating text; the product link and the
// creation time are kept.
func (s *Service) Update(ctx context.Context, id primitive.ObjectID, in Input) (models.Review, error) {
	if err := in.validate(); err != nil {
		return models.Review{}, err
	}
	review, err := s.reviews.FindReview(ctx, id)
	if err != nil {
		return models.Review{}, err
	}

	review.CustomerName = strings.TrimSpace(in.CustomerName)
	review.CustomerEmail = strings.TrimSpace(in.CustomerEmail)
	review.Rating = in.Rating
	review.Comment = in.Comment

	if err := s.reviews.ReplaceReview(ctx, review); err != nil {
		return models.Review{}, err
	}
	return review, nil
}

func (s *Service) Delete(ctx context.Context, id primitive.ObjectID) error {
	if err := s.reviews.DeleteReview(ctx, id); err != nil {
		return err
	}
	s.logger.Info("review deleted", "reviewId", id.Hex())
	return nil
}

func (s *Service) Stats(ctx context.Context, productID primitive.ObjectID) (models.ReviewStats, error) {
	return s.reviews.ReviewStats(ctx, productID)
}

// AverageRating is nil when the product has no reviews.
func (s *Service) AverageRating(ctx context.Context, productID primitive.ObjectID) (*float64, error) {
	stats, err := s.Stats(ctx, productID)
	if err != nil {
		return nil, err
	}
	return stats.Average, nil
}

func (s *Service) Count(ctx context.Context, productID primitive.ObjectID) (int64, error) {
	stats, err := s.Stats(ctx, productID)
	if err != nil {
		return 0, err
	}
	return stats.Count, nil
}
