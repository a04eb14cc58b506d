package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"perfume-backend/internal/apperror"
	"perfume-backend/internal/models"
)

type fixture struct {
	manager    *Manager
	products   *memProducts
	categories *memCategories
	alerts     *recordingAlerter
	category   models.Category
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	f := fixture{
		products:   newMemProducts(),
		categories: newMemCategories(),
		alerts:     &recordingAlerter{},
	}
	f.manager = NewManager(f.products, f.categories, f.alerts, nil)
	f.manager.now = func() time.Time { return time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC) }

	category, err := f.manager.CreateCategory(context.Background(), CategoryInput{Name: "Oriental"})
	require.NoError(t, err)
	f.category = category
	return f
}

func (f fixture) create(t *testing.T, in ProductInput) models.Product {
	t.Helper()
	if in.CategoryID.IsZero() {
		in.CategoryID = f.category.ID
	}
	if in.Name == "" {
		in.Name = "Ambre"
	}
	p, err := f.manager.Create(context.Background(), in)
	require.NoError(t, err)
	return p
}

func TestCreateRequiresExistingCategory(t *testing.T) {
	f := newFixture(t)

	_, err := f.manager.Create(context.Background(), ProductInput{Name: "x"})
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))

	_, err = f.manager.Create(context.Background(), ProductInput{Name: "x", CategoryID: primitive.NewObjectID()})
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
}

func TestCreateSetsActiveAndClearsPromotionWithoutDiscount(t *testing.T) {
	f := newFixture(t)

	p := f.create(t, ProductInput{
		Stock:              intPtr(5),
		DiscountPercentage: intPtr(0),
		OriginalPrice:      models.MoneyPtr(models.MustMoney("100")),
		PromotionStartDate: datePtr(t, "2024-06-01"),
	})

	assert.True(t, p.Active)
	assert.Equal(t, "Oriental", p.Category.Name)
	assert.Nil(t, p.DiscountPercentage)
	assert.Nil(t, p.OriginalPrice)
	assert.Nil(t, p.PromotionStartDate)
}

func TestCreateCapsImageURLs(t *testing.T) {
	f := newFixture(t)

	p := f.create(t, ProductInput{ImageURLs: []string{"/1", "/2", "/3", "/4", "/5"}})

	assert.Len(t, p.ImageURLs, models.MaxProductImages)
	assert.Equal(t, "/1", p.ImageURL)
}

func TestListActiveFiltersUnavailableAndInactive(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	inStock := f.create(t, ProductInput{Name: "in stock", Stock: intPtr(2)})
	f.create(t, ProductInput{Name: "sold out", Stock: intPtr(0)})
	variant := f.create(t, ProductInput{Name: "variant", ImageDetails: models.ImageDetails{{URL: "/a", Quantity: intPtr(1)}}})
	f.create(t, ProductInput{Name: "variant sold out", ImageDetails: models.ImageDetails{{URL: "/a", Quantity: intPtr(0)}}})
	hidden := f.create(t, ProductInput{Name: "hidden", Stock: intPtr(9)})
	require.NoError(t, f.manager.SoftDelete(ctx, hidden.ID))

	active, err := f.manager.ListActive(ctx)
	require.NoError(t, err)
	ids := []primitive.ObjectID{}
	for _, p := range active {
		ids = append(ids, p.ID)
	}
	assert.Equal(t, []primitive.ObjectID{inStock.ID, variant.ID}, ids)

	all, err := f.manager.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 5)
}

func TestHardDeleteRemovesEverywhere(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.create(t, ProductInput{Stock: intPtr(3)})

	require.NoError(t, f.manager.HardDelete(ctx, p.ID))

	_, err := f.manager.GetByID(ctx, p.ID)
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
	all, err := f.manager.ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(f.manager.HardDelete(ctx, p.ID)))
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(f.manager.SoftDelete(ctx, p.ID)))
}

func TestListPromotionsWindow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	current := f.create(t, ProductInput{Name: "current", DiscountPercentage: intPtr(20), PromotionStartDate: datePtr(t, "2024-06-01"), PromotionEndDate: datePtr(t, "2024-06-30")})
	openEnded := f.create(t, ProductInput{Name: "open", DiscountPercentage: intPtr(10)})
	f.create(t, ProductInput{Name: "expired", DiscountPercentage: intPtr(15), PromotionEndDate: datePtr(t, "2024-05-31")})
	f.create(t, ProductInput{Name: "none"})

	asOf, err := models.ParseDate("2024-06-15")
	require.NoError(t, err)
	promoted, err := f.manager.ListPromotions(ctx, asOf)
	require.NoError(t, err)

	require.Len(t, promoted, 2)
	assert.Equal(t, current.ID, promoted[0].ID)
	assert.Equal(t, openEnded.ID, promoted[1].ID)
}

func TestUpdateReplacesImagesAndPromotion(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.create(t, ProductInput{
		Price:              models.MoneyPtr(models.MustMoney("40")),
		Stock:              intPtr(4),
		ImageURLs:          []string{"/old1", "/old2"},
		DiscountPercentage: intPtr(25),
		OriginalPrice:      models.MoneyPtr(models.MustMoney("50")),
	})

	other, err := f.manager.CreateCategory(ctx, CategoryInput{Name: "Floral"})
	require.NoError(t, err)

	updated, err := f.manager.Update(ctx, p.ID, ProductInput{
		Name:       "Ambre Nuit",
		CategoryID: other.ID,
		ImageURLs:  []string{"/new"},
	})
	require.NoError(t, err)

	assert.Equal(t, "Ambre Nuit", updated.Name)
	assert.Equal(t, "Floral", updated.Category.Name)
	assert.Equal(t, []string{"/new"}, []string(updated.ImageURLs))
	assert.Equal(t, "/new", updated.ImageURL)
	assert.Nil(t, updated.DiscountPercentage)
	assert.Nil(t, updated.OriginalPrice)
	assert.Equal(t, "40", updated.Price.String(), "price kept when not given")
	assert.Equal(t, 4, *updated.Stock)

	stored, err := f.manager.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, updated.Name, stored.Name)
}

func TestUpdateMissingProduct(t *testing.T) {
	f := newFixture(t)
	_, err := f.manager.Update(context.Background(), primitive.NewObjectID(), ProductInput{Name: "x"})
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
}

func TestUpdateTriggersLowStockAlertOnlyForLowVariants(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.create(t, ProductInput{})

	_, err := f.manager.Update(ctx, p.ID, ProductInput{Name: "a", ImageDetails: models.ImageDetails{{URL: "/a", Quantity: intPtr(0)}, {URL: "/b", Quantity: intPtr(7)}}})
	require.NoError(t, err)
	assert.Equal(t, 0, f.alerts.count(), "zero is out of stock, not low")

	_, err = f.manager.Update(ctx, p.ID, ProductInput{Name: "a", ImageDetails: models.ImageDetails{{URL: "/a", Quantity: intPtr(2)}}})
	require.NoError(t, err)
	assert.Equal(t, 1, f.alerts.count())

	_, err = f.manager.Update(ctx, p.ID, ProductInput{Name: "a", Active: boolPtr(false), ImageDetails: models.ImageDetails{{URL: "/a", Quantity: intPtr(1)}}})
	require.NoError(t, err)
	assert.Equal(t, 1, f.alerts.count(), "inactive products are not alerted")
}

func TestCategoryCRUD(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.manager.CreateCategory(ctx, CategoryInput{Name: " Oriental "})
	assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))

	floral, err := f.manager.CreateCategory(ctx, CategoryInput{Name: "Floral"})
	require.NoError(t, err)

	_, err = f.manager.UpdateCategory(ctx, floral.ID, CategoryInput{Name: "Oriental"})
	assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))

	p := f.create(t, ProductInput{CategoryID: floral.ID})
	renamed, err := f.manager.UpdateCategory(ctx, floral.ID, CategoryInput{Name: "Fleuri", Description: "fleurs"})
	require.NoError(t, err)
	assert.Equal(t, "Fleuri", renamed.Name)

	stored, err := f.manager.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Fleuri", stored.Category.Name)

	assert.Equal(t, apperror.KindConflict, apperror.KindOf(f.manager.DeleteCategory(ctx, floral.ID)))
	require.NoError(t, f.manager.HardDelete(ctx, p.ID))
	require.NoError(t, f.manager.DeleteCategory(ctx, floral.ID))
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(f.manager.DeleteCategory(ctx, floral.ID)))
}

func boolPtr(v bool) *bool { return &v }
