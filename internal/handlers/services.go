package handlers

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"perfume-backend/internal/catalog"
	"perfume-backend/internal/images"
	"perfume-backend/internal/models"
	"perfume-backend/internal/orders"
	"perfume-backend/internal/reviews"
)

type ProductService interface {
	ListActive(ctx context.Context) ([]models.Product, error)
	ListAll(ctx context.Context) ([]models.Product, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (models.Product, error)
	ListPromotions(ctx context.Context, asOf models.Date) ([]models.Product, error)
	Create(ctx context.Context, in catalog.ProductInput) (models.Product, error)
	Update(ctx context.Context, id primitive.ObjectID, in catalog.ProductInput) (models.Product, error)
	SoftDelete(ctx context.Context, id primitive.ObjectID) error
	HardDelete(ctx context.Context, id primitive.ObjectID) error
}

type CategoryService interface {
	ListCategories(ctx context.Context) ([]models.Category, error)
	GetCategory(ctx context.Context, id primitive.ObjectID) (models.Category, error)
	CreateCategory(ctx context.Context, in catalog.CategoryInput) (models.Category, error)
	UpdateCategory(ctx context.Context, id primitive.ObjectID, in catalog.CategoryInput) (models.Category, error)
	DeleteCategory(ctx context.Context, id primitive.ObjectID) error
}

type OrderService interface {
	CreateOrder(ctx context.Context, in orders.CreateInput) (models.Order, error)
	GetOrder(ctx context.Context, id primitive.ObjectID) (models.Order, error)
	GetAllOrders(ctx context.Context) ([]models.Order, error)
	GetArchivedOrders(ctx context.Context) ([]models.Order, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.OrderStatus) (models.Order, error)
	DeleteOrder(ctx context.Context, id primitive.ObjectID) (bool, error)
	GetWeeklySales(ctx context.Context) ([]models.DailySales, error)
}

type ReviewService interface {
	Create(ctx context.Context, in reviews.Input) (models.Review, error)
	ListByProduct(ctx context.Context, productID primitive.ObjectID) ([]models.Review, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (models.Review, error)
	Update(ctx context.Context, id primitive.ObjectID, in reviews.Input) (models.Review, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	Stats(ctx context.Context, productID primitive.ObjectID) (models.ReviewStats, error)
}

type ImageService interface {
	Store(ctx context.Context, files []images.File) []string
	Retrieve(ctx context.Context, name string) (images.Image, error)
	Delete(ctx context.Context, name string) (bool, error)
}

type AdminFinder interface {
	FindAdminByEmail(ctx context.Context, email string) (models.Admin, error)
}
