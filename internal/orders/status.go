package orders

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"perfume-backend/internal/apperror"
	"perfume-backend/internal/models"
)

// UpdateStatus moves an order to status and applies the stock and delivery
// date side effects of the transition. If re-activating a cancelled order
// runs out of stock nothing is changed.
func (s *Service) UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.OrderStatus) (models.Order, error) {
	if !status.Valid() {
		return models.Order{}, apperror.Validation("invalid order status %q", status)
	}

	var (
		order models.Order
		low   []models.Product
	)
	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		low = nil

		var err error
		order, err = s.orders.FindOrder(ctx, id)
		if err != nil {
			return err
		}
		previous := order.Status
		now := s.now().UTC()

		switch {
		case status == models.StatusCancelled && previous != models.StatusCancelled:
			if err := s.restoreStock(ctx, order.Items); err != nil {
				return err
			}
			order.DeliveryDate = nil
		case previous == models.StatusCancelled && status != models.StatusCancelled:
			if low, err = s.deductStock(ctx, order.Items); err != nil {
				return err
			}
		}

		switch {
		case status == models.StatusDelivered && previous != models.StatusDelivered:
			order.DeliveryDate = &now
		case previous == models.StatusDelivered && status != models.StatusDelivered && status != models.StatusCancelled:
			order.DeliveryDate = nil
		}

		order.Status = status
		order.UpdatedAt = now
		return s.orders.ReplaceOrder(ctx, order)
	})
	if err != nil {
		return models.Order{}, err
	}

	s.logger.Info("order status updated", "orderId", id.Hex(), "status", status)
	s.publishLowStock(low)
	return order, nil
}

// DeleteOrder removes an order, giving its stock back unless it was already
// cancelled. It reports false when the order does not exist.
func (s *Service) DeleteOrder(ctx context.Context, id primitive.ObjectID) (bool, error) {
	var deleted bool
	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		deleted = false

		order, err := s.orders.FindOrder(ctx, id)
		if err != nil {
			if apperror.Is(err, apperror.KindNotFound) {
				return nil
			}
			return err
		}
		if order.Status != models.StatusCancelled {
			if err := s.restoreStock(ctx, order.Items); err != nil {
				return err
			}
		}
		deleted, err = s.orders.DeleteOrder(ctx, id)
		return err
	})
	if err != nil {
		return false, err
	}
	if deleted {
		s.logger.Info("order deleted", "orderId", id.Hex())
	}
	return deleted, nil
}
