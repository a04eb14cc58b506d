package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"perfume-backend/internal/apperror"
	"perfume-backend/internal/reviews"
)

type reviewRequest struct {
	ProductID     string `json:"productId"`
	Product       *idRef `json:"product"`
	CustomerName  string `json:"customerName" binding:"required,max=200"`
	CustomerEmail string `json:"customerEmail" binding:"omitempty,email"`
	Rating        int    `json:"rating" binding:"required,min=1,max=5"`
	Comment       string `json:"comment" binding:"max=5000"`
}

func (r reviewRequest) toInput() (reviews.Input, error) {
	in := reviews.Input{
		CustomerName:  r.CustomerName,
		CustomerEmail: r.CustomerEmail,
		Rating:        r.Rating,
		Comment:       r.Comment,
	}
	raw := strings.TrimSpace(r.ProductID)
	if r.Product != nil && strings.TrimSpace(r.Product.ID) != "" {
		raw = strings.TrimSpace(r.Product.ID)
	}
	if raw == "" {
		return in, nil
	}
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return reviews.Input{}, apperror.Validation("invalid product id %q", raw)
	}
	in.ProductID = id
	return in, nil
}

func GetProductReviews(svc ReviewService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /reviews/product/:productId"
		defer handlePanic(c, route)

		productID, ok := parseObjectID(c, "productId", route)
		if !ok {
			return
		}
		list, err := svc.ListByProduct(c.Request.Context(), productID)
		if err != nil {
			respondAppError(c, route, err)
			return
		}
		c.JSON(http.StatusOK, list)
	}
}

func GetProductReviewStats(svc ReviewService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /reviews/product/:productId/stats"
		defer handlePanic(c, route)

		productID, ok := parseObjectID(c, "productId", route)
		if !ok {
			return
		}
		stats, err := svc.Stats(c.Request.Context(), productID)
		if err != nil {
			respondAppError(c, route, err)
			return
		}
		c.JSON(http.StatusOK, stats)
	}
}

func GetReview(svc ReviewService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /reviews/:id"
		defer handlePanic(c, route)

		id, ok := parseObjectID(c, "id", route)
		if !ok {
			return
		}
		review, err := svc.GetByID(c.Request.Context(), id)
		if err != nil {
			respondAppError(c, route, err)
			return
		}
		c.JSON(http.StatusOK, review)
	}
}

func CreateReview(svc ReviewService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /reviews"
		defer handlePanic(c, route)

		var req reviewRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, route, err)
			return
		}
		in, err := req.toInput()
		if err != nil {
			respondAppError(c, route, err)
			return
		}
		review, err := svc.Create(c.Request.Context(), in)
		if err != nil {
			respondAppError(c, route, err)
			return
		}
		c.JSON(http.StatusCreated, review)
	}
}

func UpdateReview(svc ReviewService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /reviews/:id"
		defer handlePanic(c, route)

		id, ok := parseObjectID(c, "id", route)
		if !ok {
			return
		}
		var req reviewRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, route, err)
			return
		}
		in, err := req.toInput()
		if err != nil {
			respondAppError(c, route, err)
			return
		}
		review, err := svc.Update(c.Request.Context(), id, in)
		if err != nil {
			respondAppError(c, route, err)
			return
		}
		c.JSON(http.StatusOK, review)
	}
}

func DeleteReview(svc ReviewService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /reviews/:id"
		defer handlePanic(c, route)

		id, ok := parseObjectID(c, "id", route)
		if !ok {
			return
		}
		if err := svc.Delete(c.Request.Context(), id); err != nil {
			respondAppError(c, route, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
