package catalog

import (
	"context"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"perfume-backend/internal/apperror"
	"perfume-backend/internal/models"
)

// ProductInput carries the client-supplied product fields. Image and
// promotion fields always replace what is stored.
type ProductInput struct {
	Name               string
	Description        string
	Price              *models.Money
	Stock              *int
	CategoryID         primitive.ObjectID
	ImageURL           string
	ImageURLs          []string
	ImageDetails       models.ImageDetails
	Fragrance          string
	Volume             *int
	Active             *bool
	DiscountPercentage *int
	OriginalPrice      *models.Money
	PromotionStartDate *models.Date
	PromotionEndDate   *models.Date
}

func (in ProductInput) promotion() promotionInput {
	return promotionInput{
		DiscountPercentage: in.DiscountPercentage,
		OriginalPrice:      in.OriginalPrice,
		StartDate:          in.PromotionStartDate,
		EndDate:            in.PromotionEndDate,
	}
}

func (in ProductInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return apperror.Validation("name is required")
	}
	if in.Price != nil && in.Price.IsNegative() {
		return apperror.Validation("price must not be negative")
	}
	if in.Stock != nil && *in.Stock < 0 {
		return apperror.Validation("stock must not be negative")
	}
	for _, detail := range in.ImageDetails {
		if detail.Quantity != nil && *detail.Quantity < 0 {
			return apperror.Validation("imageDetails quantity must not be negative")
		}
		if detail.Price != nil && detail.Price.IsNegative() {
			return apperror.Validation("imageDetails price must not be negative")
		}
	}
	return nil
}

// applyImages replaces every image field. The legacy URL list is capped and
// the first URL doubles as the main image when none is given.
func applyImages(p *models.Product, in ProductInput) {
	urls := in.ImageURLs
	if len(urls) > models.MaxProductImages {
		urls = urls[:models.MaxProductImages]
	}
	p.ImageURLs = append(models.StringList{}, urls...)
	p.ImageURL = strings.TrimSpace(in.ImageURL)
	if p.ImageURL == "" && len(p.ImageURLs) > 0 {
		p.ImageURL = p.ImageURLs[0]
	}
	p.ImageDetails = in.ImageDetails
}

// ListActive returns active products that still have something to sell.
func (m *Manager) ListActive(ctx context.Context) ([]models.Product, error) {
	products, err := m.products.ListProducts(ctx, true)
	if err != nil {
		return nil, err
	}
	available := make([]models.Product, 0, len(products))
	for _, p := range products {
		if p.Active && p.Available() {
			available = append(available, p)
		}
	}
	return available, nil
}

func (m *Manager) ListAll(ctx context.Context) ([]models.Product, error) {
	return m.products.ListProducts(ctx, false)
}

func (m *Manager) GetByID(ctx context.Context, id primitive.ObjectID) (models.Product, error) {
	return m.products.FindProduct(ctx, id)
}

// ListPromotions returns the active discounted products whose promotion
// window contains asOf.
func (m *Manager) ListPromotions(ctx context.Context, asOf models.Date) ([]models.Product, error) {
	products, err := m.products.ListDiscounted(ctx)
	if err != nil {
		return nil, err
	}
	promoted := make([]models.Product, 0, len(products))
	for _, p := range products {
		if p.OnPromotion(asOf) {
			promoted = append(promoted, p)
		}
	}
	return promoted, nil
}

func (m *Manager) Create(ctx context.Context, in ProductInput) (models.Product, error) {
	if in.CategoryID.IsZero() {
		return models.Product{}, apperror.Validation("category id is required")
	}
	if err := in.validate(); err != nil {
		return models.Product{}, err
	}
	category, err := m.categories.FindCategory(ctx, in.CategoryID)
	if err != nil {
		return models.Product{}, err
	}

	now := m.now().UTC()
	p := models.Product{
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Price:       in.Price,
		Stock:       in.Stock,
		Category:    category.Ref(),
		Fragrance:   in.Fragrance,
		Volume:      in.Volume,
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	applyImages(&p, in)
	if err := applyPromotion(&p, in.promotion()); err != nil {
		return models.Product{}, err
	}

	if err := m.products.InsertProduct(ctx, &p); err != nil {
		return models.Product{}, err
	}
	m.logger.Info("product created", "productId", p.ID.Hex(), "name", p.Name, "category", category.Name)
	return p, nil
}

// Update replaces the product's descriptive, image and promotion fields.
// Price and stock change only when given; the category only when a new id
// is given.
func (m *Manager) Update(ctx context.Context, id primitive.ObjectID, in ProductInput) (models.Product, error) {
	if err := in.validate(); err != nil {
		return models.Product{}, err
	}
	p, err := m.products.FindProduct(ctx, id)
	if err != nil {
		return models.Product{}, err
	}

	if !in.CategoryID.IsZero() && in.CategoryID != p.Category.ID {
		category, err := m.categories.FindCategory(ctx, in.CategoryID)
		if err != nil {
			return models.Product{}, err
		}
		p.Category = category.Ref()
	}

	p.Name = strings.TrimSpace(in.Name)
	p.Description = in.Description
	p.Fragrance = in.Fragrance
	p.Volume = in.Volume
	if in.Price != nil {
		p.Price = in.Price
	}
	if in.Stock != nil {
		p.Stock = in.Stock
	}
	if in.Active != nil {
		p.Active = *in.Active
	}
	applyImages(&p, in)
	if err := applyPromotion(&p, in.promotion()); err != nil {
		return models.Product{}, err
	}
	p.UpdatedAt = m.now().UTC()

	if err := m.products.ReplaceProduct(ctx, p); err != nil {
		return models.Product{}, err
	}
	m.logger.Info("product updated", "productId", p.ID.Hex())

	if p.Active && len(p.ImageDetails.LowStock()) > 0 {
		m.alerts.PublishLowStock(p)
	}
	return p, nil
}

// SoftDelete hides the product from the storefront but keeps the document.
func (m *Manager) SoftDelete(ctx context.Context, id primitive.ObjectID) error {
	if err := m.products.SetProductActive(ctx, id, false); err != nil {
		return err
	}
	m.logger.Info("product deactivated", "productId", id.Hex())
	return nil
}

func (m *Manager) HardDelete(ctx context.Context, id primitive.ObjectID) error {
	if err := m.products.DeleteProduct(ctx, id); err != nil {
		return err
	}
	m.logger.Info("product deleted", "productId", id.Hex())
	return nil
}
