// Package orders runs order creation and status changes together with the
// stock movements they imply.
package orders

import (
	"context"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"perfume-backend/internal/models"
)

type OrderStore interface {
	InsertOrder(ctx context.Context, order *models.Order) error
	FindOrder(ctx context.Context, id primitive.ObjectID) (models.Order, error)
	ReplaceOrder(ctx context.Context, order models.Order) error
	DeleteOrder(ctx context.Context, id primitive.ObjectID) (bool, error)
	ListOrdersWithStatus(ctx context.Context, status models.OrderStatus) ([]models.Order, error)
	ListOrdersExcludingStatus(ctx context.Context, status models.OrderStatus) ([]models.Order, error)
}

type StockStore interface {
	FindProduct(ctx context.Context, id primitive.ObjectID) (models.Product, error)
	DecrementStock(ctx context.Context, id primitive.ObjectID, quantity int) (models.Product, error)
	RestoreStock(ctx context.Context, id primitive.ObjectID, quantity int) (bool, error)
}

// Transactor runs fn atomically. fn may be invoked more than once.
type Transactor interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// Publisher receives post-commit events. Calls must return immediately.
type Publisher interface {
	PublishOrderCreated(order models.Order)
	PublishLowStock(product models.Product)
}

type Service struct {
	orders    OrderStore
	stock     StockStore
	tx        Transactor
	publisher Publisher
	logger    *slog.Logger
	now       func() time.Time
}

func NewService(orders OrderStore, stock StockStore, tx Transactor, publisher Publisher, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		orders:    orders,
		stock:     stock,
		tx:        tx,
		publisher: publisher,
		logger:    logger.With("component", "orders"),
		now:       time.Now,
	}
}

func (s *Service) GetOrder(ctx context.Context, id primitive.ObjectID) (models.Order, error) {
	return s.orders.FindOrder(ctx, id)
}

// GetAllOrders is the working list: everything not yet delivered.
func (s *Service) GetAllOrders(ctx context.Context) ([]models.Order, error) {
	return s.orders.ListOrdersExcludingStatus(ctx, models.StatusDelivered)
}

func (s *Service) GetArchivedOrders(ctx context.Context) ([]models.Order, error) {
	return s.orders.ListOrdersWithStatus(ctx, models.StatusDelivered)
}
