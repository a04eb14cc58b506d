package orders

import (
	"context"

	"perfume-backend/internal/apperror"
	"perfume-backend/internal/models"
)

// deductStock takes every item's quantity off its product counter and
// returns the products that ended up low. Products tracked per variant are
// skipped.
func (s *Service) deductStock(ctx context.Context, items []models.OrderItem) ([]models.Product, error) {
	var low []models.Product
	for _, item := range items {
		product, err := s.stock.FindProduct(ctx, item.ProductID)
		if err != nil {
			return nil, err
		}
		if product.UsesVariantStock() {
			s.logger.Debug("product uses variant stock, skipping decrement", "productId", product.ID.Hex())
			continue
		}

		updated, err := s.stock.DecrementStock(ctx, item.ProductID, item.Quantity)
		if err != nil {
			return nil, err
		}
		remaining := updated.RemainingStock()
		if remaining < models.LowStockThreshold && updated.Active {
			low = append(low, updated)
		}
		if remaining == 0 {
			s.logger.Warn("product stock is now 0", "productId", updated.ID.Hex(), "name", updated.Name)
		}
	}
	return low, nil
}

// restoreStock puts every item's quantity back without any capacity check.
func (s *Service) restoreStock(ctx context.Context, items []models.OrderItem) error {
	for _, item := range items {
		restored, err := s.stock.RestoreStock(ctx, item.ProductID, item.Quantity)
		if err != nil {
			return err
		}
		if restored {
			s.logger.Debug("stock restored", "productId", item.ProductID.Hex(), "quantity", item.Quantity)
			continue
		}

		_, err = s.stock.FindProduct(ctx, item.ProductID)
		switch {
		case err == nil:
			s.logger.Debug("product uses variant stock, skipping restore", "productId", item.ProductID.Hex())
		case apperror.Is(err, apperror.KindNotFound):
			s.logger.Warn("product no longer exists, stock not restored", "productId", item.ProductID.Hex(), "quantity", item.Quantity)
		default:
			return err
		}
	}
	return nil
}

func (s *Service) publishLowStock(products []models.Product) {
	for _, p := range products {
		s.publisher.PublishLowStock(p)
	}
}
