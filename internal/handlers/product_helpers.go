package handlers

import (
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"perfume-backend/internal/apperror"
	"perfume-backend/internal/catalog"
	"perfume-backend/internal/models"
)

type idRef struct {
	ID string `json:"id"`
}

// productRequest is the product body the admin panel sends, either as JSON
// or as the "product" part of a multipart upload.
type productRequest struct {
	Name               string              `json:"name"`
	Description        string              `json:"description"`
	Price              *models.Money       `json:"price"`
	Stock              *int                `json:"stock"`
	Category           *idRef              `json:"category"`
	CategoryID         string              `json:"categoryId"`
	ImageURL           string              `json:"imageUrl"`
	ImageURLs          models.StringList   `json:"imageUrls"`
	ImageDetails       models.ImageDetails `json:"imageDetails"`
	Fragrance          string              `json:"fragrance"`
	Volume             *int                `json:"volume"`
	Active             *bool               `json:"active"`
	DiscountPercentage *int                `json:"discountPercentage"`
	OriginalPrice      *models.Money       `json:"originalPrice"`
	PromotionStartDate *models.Date        `json:"promotionStartDate"`
	PromotionEndDate   *models.Date        `json:"promotionEndDate"`
}

func (r productRequest) categoryID() (primitive.ObjectID, error) {
	raw := strings.TrimSpace(r.CategoryID)
	if r.Category != nil && strings.TrimSpace(r.Category.ID) != "" {
		raw = strings.TrimSpace(r.Category.ID)
	}
	if raw == "" {
		return primitive.NilObjectID, nil
	}
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return primitive.NilObjectID, apperror.Validation("invalid category id: %s", raw)
	}
	return id, nil
}

func (r productRequest) toInput() (catalog.ProductInput, error) {
	categoryID, err := r.categoryID()
	if err != nil {
		return catalog.ProductInput{}, err
	}
	return catalog.ProductInput{
		Name:               strings.TrimSpace(r.Name),
		Description:        strings.TrimSpace(r.Description),
		Price:              r.Price,
		Stock:              r.Stock,
		CategoryID:         categoryID,
		ImageURL:           r.ImageURL,
		ImageURLs:          r.ImageURLs,
		ImageDetails:       r.ImageDetails,
		Fragrance:          strings.TrimSpace(r.Fragrance),
		Volume:             r.Volume,
		Active:             r.Active,
		DiscountPercentage: r.DiscountPercentage,
		OriginalPrice:      r.OriginalPrice,
		PromotionStartDate: r.PromotionStartDate,
		PromotionEndDate:   r.PromotionEndDate,
	}, nil
}

// withUploadedImages makes freshly stored files the product's image list,
// the first one becoming the main image.
func (r *productRequest) withUploadedImages(urls []string) {
	if len(urls) == 0 {
		return
	}
	r.ImageURLs = models.StringList(urls)
	r.ImageURL = urls[0]
}
