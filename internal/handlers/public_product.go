package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"perfume-backend/internal/apperror"
	"perfume-backend/internal/models"
)

func GetProducts(products ProductService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /products"
		defer handlePanic(c, route)

		list, err := products.ListActive(c.Request.Context())
		if err != nil {
			respondAppError(c, route, err)
			return
		}
		c.JSON(http.StatusOK, list)
	}
}

func GetProduct(products ProductService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /products/:id"
		defer handlePanic(c, route)

		id, ok := parseObjectID(c, "id", route)
		if !ok {
			return
		}
		product, err := products.GetByID(c.Request.Context(), id)
		if err != nil {
			respondAppError(c, route, err)
			return
		}
		c.JSON(http.StatusOK, product)
	}
}

// GetPromotions lists products on promotion today, or on the day given in
// ?date=YYYY-MM-DD.
func GetPromotions(products ProductService, now func() time.Time) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /products/promotions"
		defer handlePanic(c, route)

		asOf := models.NewDate(now())
		if raw := strings.TrimSpace(c.Query("date")); raw != "" {
			parsed, err := models.ParseDate(raw)
			if err != nil {
				respondWithError(c, http.StatusBadRequest, route, apperror.KindValidation, err.Error())
				return
			}
			asOf = parsed
		}

		list, err := products.ListPromotions(c.Request.Context(), asOf)
		if err != nil {
			respondAppError(c, route, err)
			return
		}
		c.JSON(http.StatusOK, list)
	}
}
