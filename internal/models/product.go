package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MaxProductImages bounds both imageUrls and a single upload batch.
const MaxProductImages = 4

// CategoryRef is the category snapshot embedded in a product document.
type CategoryRef struct {
	ID   primitive.ObjectID `bson:"_id" json:"id"`
	Name string             `bson:"name" json:"name"`
}

type Product struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name               string             `bson:"name" json:"name"`
	Description        string             `bson:"description,omitempty" json:"description,omitempty"`
	Price              *Money             `bson:"price" json:"price"`
	Stock              *int               `bson:"stock" json:"stock"`
	Category           CategoryRef        `bson:"category" json:"category"`
	ImageURL           string             `bson:"imageUrl,omitempty" json:"imageUrl,omitempty"`
	ImageURLs          StringList         `bson:"imageUrls" json:"imageUrls"`
	ImageDetails       ImageDetails       `bson:"imageDetails" json:"imageDetails"`
	Fragrance          string             `bson:"fragrance,omitempty" json:"fragrance,omitempty"`
	Volume             *int               `bson:"volume,omitempty" json:"volume,omitempty"`
	Active             bool               `bson:"active" json:"active"`
	DiscountPercentage *int               `bson:"discountPercentage" json:"discountPercentage"`
	OriginalPrice      *Money             `bson:"originalPrice" json:"originalPrice"`
	PromotionStartDate *Date              `bson:"promotionStartDate" json:"promotionStartDate"`
	PromotionEndDate   *Date              `bson:"promotionEndDate" json:"promotionEndDate"`
	CreatedAt          time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt          time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// UsesVariantStock reports whether stock lives in imageDetails rather than
// the product-level counter. Variant data wins whenever it is present.
func (p Product) UsesVariantStock() bool {
	return len(p.ImageDetails) > 0 || p.Stock == nil
}

// Available reports whether the product has anything left to sell. Variant
// data wins whenever it is present.
func (p Product) Available() bool {
	if len(p.ImageDetails) > 0 {
		for _, detail := range p.ImageDetails {
			if detail.quantity() > 0 {
				return true
			}
		}
		return false
	}
	return p.Stock != nil && *p.Stock > 0
}

// RemainingStock is the sum of the positive variant quantities for variant
// products, otherwise the product-level counter.
func (p Product) RemainingStock() int {
	if p.UsesVariantStock() {
		return p.ImageDetails.TotalQuantity()
	}
	return *p.Stock
}

// OnPromotion reports whether a discount applies on the given day. A missing
// bound is open on that side.
func (p Product) OnPromotion(asOf Date) bool {
	if !p.Active || p.DiscountPercentage == nil || *p.DiscountPercentage <= 0 {
		return false
	}
	if p.PromotionStartDate != nil && asOf.Before(p.PromotionStartDate.Time) {
		return false
	}
	if p.PromotionEndDate != nil && asOf.After(p.PromotionEndDate.Time) {
		return false
	}
	return true
}

// ClearPromotion drops the discount and its dependent fields together.
func (p *Product) ClearPromotion() {
	p.DiscountPercentage = nil
	p.OriginalPrice = nil
	p.PromotionStartDate = nil
	p.PromotionEndDate = nil
}
