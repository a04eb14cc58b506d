package orders

import (
	"context"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"perfume-backend/internal/apperror"
	"perfume-backend/internal/models"
)

type ItemInput struct {
	ProductID primitive.ObjectID
	// Price is the unit price picked by the client, required for products
	// priced per variant.
	Price    *models.Money
	Quantity int
}

type CreateInput struct {
	CustomerName     string
	CustomerEmail    string
	CustomerPhone    string
	CustomerAddress  string
	CustomerLocation string
	Items            []ItemInput
}

// CreateOrder prices the items, stores the order and deducts stock in one
// transaction. Notifications go out only after the commit.
func (s *Service) CreateOrder(ctx context.Context, in CreateInput) (models.Order, error) {
	if len(in.Items) == 0 {
		return models.Order{}, apperror.Validation("order must contain at least one item")
	}
	for _, item := range in.Items {
		if item.ProductID.IsZero() {
			return models.Order{}, apperror.Validation("every item needs a product id")
		}
		if item.Quantity <= 0 {
			return models.Order{}, apperror.Validation("quantity must be greater than zero")
		}
	}

	var (
		order models.Order
		low   []models.Product
	)
	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		low = nil

		items, total, err := s.priceItems(ctx, in.Items)
		if err != nil {
			return err
		}

		now := s.now().UTC()
		order = models.Order{
			CustomerName:     strings.TrimSpace(in.CustomerName),
			CustomerEmail:    strings.TrimSpace(in.CustomerEmail),
			CustomerPhone:    strings.TrimSpace(in.CustomerPhone),
			CustomerAddress:  strings.TrimSpace(in.CustomerAddress),
			CustomerLocation: strings.TrimSpace(in.CustomerLocation),
			Items:            items,
			TotalAmount:      total,
			Status:           models.StatusPending,
			CreatedAt:        now,
			UpdatedAt:        now,
		}
		if err := s.orders.InsertOrder(ctx, &order); err != nil {
			return err
		}

		low, err = s.deductStock(ctx, order.Items)
		return err
	})
	if err != nil {
		return models.Order{}, err
	}

	s.logger.Info("order created", "orderId", order.ID.Hex(), "items", len(order.Items), "total", order.TotalAmount.String())
	s.publishLowStock(low)
	s.publisher.PublishOrderCreated(order)
	return order, nil
}

// priceItems loads each product and snapshots its unit price. A client
// price wins over the product's base price.
func (s *Service) priceItems(ctx context.Context, inputs []ItemInput) ([]models.OrderItem, models.Money, error) {
	items := make([]models.OrderItem, 0, len(inputs))
	var total models.Money

	for _, in := range inputs {
		product, err := s.stock.FindProduct(ctx, in.ProductID)
		if err != nil {
			return nil, models.Money{}, err
		}

		price := in.Price
		if price == nil {
			price = product.Price
		}
		if price == nil {
			return nil, models.Money{}, apperror.Validation("price is required for product %s (priced per variant)", product.ID.Hex())
		}
		if price.IsNegative() {
			return nil, models.Money{}, apperror.Validation("price must not be negative")
		}

		subtotal := price.Times(in.Quantity)
		total = total.Plus(subtotal)
		items = append(items, models.OrderItem{
			ID:          primitive.NewObjectID(),
			ProductID:   product.ID,
			ProductName: product.Name,
			ImageURL:    product.ImageURL,
			Price:       *price,
			Quantity:    in.Quantity,
			Subtotal:    subtotal,
		})
	}
	return items, total, nil
}
