package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"perfume-backend/internal/apperror"
	"perfume-backend/internal/models"
	"perfume-backend/internal/orders"
)

/* =========================
   REQUEST DTOs
========================= */

// createOrderItemRequest accepts the product id flat or nested; anything
// else the client sends about the product is ignored.
type createOrderItemRequest struct {
	ProductID string        `json:"productId"`
	Product   *idRef        `json:"product"`
	Price     *models.Money `json:"price"`
	Quantity  int           `json:"quantity" binding:"gte=0"`
}

type createOrderRequest struct {
	CustomerName     string                   `json:"customerName" binding:"max=200"`
	CustomerEmail    string                   `json:"customerEmail" binding:"max=320"`
	CustomerPhone    string                   `json:"customerPhone" binding:"max=40"`
	CustomerAddress  string                   `json:"customerAddress"`
	CustomerLocation string                   `json:"customerLocation"`
	Items            []createOrderItemRequest `json:"items" binding:"dive"`
}

func (r createOrderItemRequest) productID() string {
	if r.Product != nil && strings.TrimSpace(r.Product.ID) != "" {
		return strings.TrimSpace(r.Product.ID)
	}
	return strings.TrimSpace(r.ProductID)
}

func buildOrderInput(req createOrderRequest) (orders.CreateInput, error) {
	in := orders.CreateInput{
		CustomerName:     req.CustomerName,
		CustomerEmail:    req.CustomerEmail,
		CustomerPhone:    req.CustomerPhone,
		CustomerAddress:  req.CustomerAddress,
		CustomerLocation: req.CustomerLocation,
		Items:            make([]orders.ItemInput, 0, len(req.Items)),
	}
	for i, item := range req.Items {
		raw := item.productID()
		if raw == "" {
			return orders.CreateInput{}, apperror.Validation("item %d: product id is required", i+1)
		}
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			return orders.CreateInput{}, apperror.Validation("item %d: invalid product id %q", i+1, raw)
		}
		in.Items = append(in.Items, orders.ItemInput{
			ProductID: id,
			Price:     item.Price,
			Quantity:  item.Quantity,
		})
	}
	return in, nil
}

/* =========================
   CREATE ORDER
========================= */

func CreateOrder(svc OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /orders"
		defer handlePanic(c, route)

		var req createOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, route, err)
			return
		}

		in, err := buildOrderInput(req)
		if err != nil {
			respondAppError(c, route, err)
			return
		}

		order, err := svc.CreateOrder(c.Request.Context(), in)
		if err != nil {
			respondAppError(c, route, err)
			return
		}

		logger.Info("order created", "route", route, "orderId", order.ID.Hex(), "total", order.TotalAmount.String())
		c.JSON(http.StatusCreated, order)
	}
}
