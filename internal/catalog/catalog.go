// Package catalog manages products and their categories.
package catalog

import (
	"context"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"perfume-backend/internal/models"
)

type ProductStore interface {
	ListProducts(ctx context.Context, activeOnly bool) ([]models.Product, error)
	ListDiscounted(ctx context.Context) ([]models.Product, error)
	FindProduct(ctx context.Context, id primitive.ObjectID) (models.Product, error)
	InsertProduct(ctx context.Context, p *models.Product) error
	ReplaceProduct(ctx context.Context, p models.Product) error
	SetProductActive(ctx context.Context, id primitive.ObjectID, active bool) error
	DeleteProduct(ctx context.Context, id primitive.ObjectID) error
	RenameCategory(ctx context.Context, categoryID primitive.ObjectID, name string) error
	CountInCategory(ctx context.Context, categoryID primitive.ObjectID) (int64, error)
}

type CategoryStore interface {
	ListCategories(ctx context.Context) ([]models.Category, error)
	FindCategory(ctx context.Context, id primitive.ObjectID) (models.Category, error)
	FindCategoryByName(ctx context.Context, name string) (models.Category, error)
	InsertCategory(ctx context.Context, c *models.Category) error
	ReplaceCategory(ctx context.Context, c models.Category) error
	DeleteCategory(ctx context.Context, id primitive.ObjectID) error
}

// StockAlerter receives low-stock products. Implementations must not block.
type StockAlerter interface {
	PublishLowStock(p models.Product)
}

type Manager struct {
	products   ProductStore
	categories CategoryStore
	alerts     StockAlerter
	logger     *slog.Logger
	now        func() time.Time
}

func NewManager(products ProductStore, categories CategoryStore, alerts StockAlerter, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		products:   products,
		categories: categories,
		alerts:     alerts,
		logger:     logger.With("component", "catalog"),
		now:        time.Now,
	}
}
