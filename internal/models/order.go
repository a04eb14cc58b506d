package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type OrderStatus string

const (
	StatusPending   OrderStatus = "PENDING"
	StatusConfirmed OrderStatus = "CONFIRMED"
	StatusShipped   OrderStatus = "SHIPPED"
	StatusDelivered OrderStatus = "DELIVERED"
	StatusCancelled OrderStatus = "CANCELLED"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// ParseOrderStatus is case-insensitive.
func ParseOrderStatus(value string) (OrderStatus, bool) {
	status := OrderStatus(strings.ToUpper(strings.TrimSpace(value)))
	return status, status.Valid()
}

// OrderItem is a line of an order. Price is the unit price at order time and
// may differ from the product's current price.
type OrderItem struct {
	ID          primitive.ObjectID `bson:"_id" json:"id"`
	ProductID   primitive.ObjectID `bson:"productId" json:"productId"`
	ProductName string             `bson:"productName" json:"productName"`
	ImageURL    string             `bson:"imageUrl,omitempty" json:"imageUrl,omitempty"`
	Price       Money              `bson:"price" json:"price"`
	Quantity    int                `bson:"quantity" json:"quantity"`
	Subtotal    Money              `bson:"subtotal" json:"subtotal"`
}

// Order embeds its items, so they are written and removed with it.
type Order struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CustomerName     string             `bson:"customerName" json:"customerName"`
	CustomerEmail    string             `bson:"customerEmail,omitempty" json:"customerEmail,omitempty"`
	CustomerPhone    string             `bson:"customerPhone,omitempty" json:"customerPhone,omitempty"`
	CustomerAddress  string             `bson:"customerAddress,omitempty" json:"customerAddress,omitempty"`
	CustomerLocation string             `bson:"customerLocation,omitempty" json:"customerLocation,omitempty"`
	Items            []OrderItem        `bson:"items" json:"items"`
	TotalAmount      Money              `bson:"totalAmount" json:"totalAmount"`
	Status           OrderStatus        `bson:"status" json:"status"`
	CreatedAt        time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time          `bson:"updatedAt" json:"updatedAt"`
	DeliveryDate     *time.Time         `bson:"deliveryDate" json:"deliveryDate"`
}

// EffectiveDate is the day an order counts for in sales figures.
func (o Order) EffectiveDate() time.Time {
	if o.DeliveryDate != nil {
		return *o.DeliveryDate
	}
	return o.CreatedAt
}

// DailySales is one day of the delivered-orders rollup. The label keeps the
// "month" key the admin dashboard reads.
type DailySales struct {
	Label      string `json:"month"`
	Date       string `json:"date"`
	TotalSales Money  `json:"totalSales"`
	OrderCount int    `json:"orderCount"`
}
