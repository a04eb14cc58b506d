package catalog

import (
	"perfume-backend/internal/apperror"
	"perfume-backend/internal/models"
)

type promotionInput struct {
	DiscountPercentage *int
	OriginalPrice      *models.Money
	StartDate          *models.Date
	EndDate            *models.Date
}

func hasDiscount(discount *int) bool {
	return discount != nil && *discount > 0
}

func validatePromotion(input promotionInput) error {
	if !hasDiscount(input.DiscountPercentage) {
		return nil
	}
	if *input.DiscountPercentage > 100 {
		return apperror.Validation("discountPercentage must be between 0 and 100")
	}
	if input.OriginalPrice != nil && input.OriginalPrice.IsNegative() {
		return apperror.Validation("originalPrice must not be negative")
	}
	if input.StartDate != nil && input.EndDate != nil && input.EndDate.Before(input.StartDate.Time) {
		return apperror.Validation("promotionEndDate must not be before promotionStartDate")
	}
	return nil
}

// applyPromotion replaces the product's promotion fields as a unit. Without a
// positive discount every promotion field is cleared. An absent original
// price keeps the one already stored.
func applyPromotion(p *models.Product, input promotionInput) error {
	if input.DiscountPercentage != nil && *input.DiscountPercentage < 0 {
		return apperror.Validation("discountPercentage must be between 0 and 100")
	}
	if !hasDiscount(input.DiscountPercentage) {
		p.ClearPromotion()
		return nil
	}
	if err := validatePromotion(input); err != nil {
		return err
	}

	p.DiscountPercentage = input.DiscountPercentage
	p.PromotionStartDate = input.StartDate
	p.PromotionEndDate = input.EndDate
	if input.OriginalPrice != nil {
		p.OriginalPrice = input.OriginalPrice
	}
	return nil
}
