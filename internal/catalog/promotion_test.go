package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"perfume-backend/internal/apperror"
	"perfume-backend/internal/models"
)

func intPtr(v int) *int { return &v }

func datePtr(t *testing.T, value string) *models.Date {
	t.Helper()
	d, err := models.ParseDate(value)
	require.NoError(t, err)
	return &d
}

func TestApplyPromotionClearsUnitWithoutDiscount(t *testing.T) {
	for _, discount := range []*int{nil, intPtr(0)} {
		p := models.Product{
			DiscountPercentage: intPtr(30),
			OriginalPrice:      models.MoneyPtr(models.MustMoney("80")),
			PromotionStartDate: datePtr(t, "2024-01-01"),
			PromotionEndDate:   datePtr(t, "2024-01-31"),
		}

		require.NoError(t, applyPromotion(&p, promotionInput{
			DiscountPercentage: discount,
			OriginalPrice:      models.MoneyPtr(models.MustMoney("99")),
			StartDate:          datePtr(t, "2024-02-01"),
		}))

		assert.Nil(t, p.DiscountPercentage)
		assert.Nil(t, p.OriginalPrice)
		assert.Nil(t, p.PromotionStartDate)
		assert.Nil(t, p.PromotionEndDate)
	}
}

func TestApplyPromotionKeepsStoredOriginalPrice(t *testing.T) {
	p := models.Product{OriginalPrice: models.MoneyPtr(models.MustMoney("80"))}

	require.NoError(t, applyPromotion(&p, promotionInput{DiscountPercentage: intPtr(10)}))

	assert.Equal(t, 10, *p.DiscountPercentage)
	assert.Equal(t, "80", p.OriginalPrice.String())
}

func TestApplyPromotionRejectsInvalidInput(t *testing.T) {
	cases := []promotionInput{
		{DiscountPercentage: intPtr(101)},
		{DiscountPercentage: intPtr(-5)},
		{DiscountPercentage: intPtr(20), StartDate: datePtr(t, "2024-03-10"), EndDate: datePtr(t, "2024-03-01")},
	}
	for _, input := range cases {
		var p models.Product
		err := applyPromotion(&p, input)
		require.Error(t, err)
		assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
	}
}
