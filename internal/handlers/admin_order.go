package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"perfume-backend/internal/apperror"
	"perfume-backend/internal/models"
)

func GetOrders(svc OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /orders"
		defer handlePanic(c, route)

		list, err := svc.GetAllOrders(c.Request.Context())
		if err != nil {
			respondAppError(c, route, err)
			return
		}
		page, err := maybePaginate(c, list)
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, apperror.KindValidation, err.Error())
			return
		}
		c.JSON(http.StatusOK, page)
	}
}

func GetArchivedOrders(svc OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /orders/archived"
		defer handlePanic(c, route)

		list, err := svc.GetArchivedOrders(c.Request.Context())
		if err != nil {
			respondAppError(c, route, err)
			return
		}
		page, err := maybePaginate(c, list)
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, apperror.KindValidation, err.Error())
			return
		}
		c.JSON(http.StatusOK, page)
	}
}

func GetOrder(svc OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /orders/:id"
		defer handlePanic(c, route)

		id, ok := parseObjectID(c, "id", route)
		if !ok {
			return
		}
		order, err := svc.GetOrder(c.Request.Context(), id)
		if err != nil {
			respondAppError(c, route, err)
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

// UpdateOrderStatus takes the new status from ?status=.
func UpdateOrderStatus(svc OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /orders/:id/status"
		defer handlePanic(c, route)

		id, ok := parseObjectID(c, "id", route)
		if !ok {
			return
		}
		status, valid := models.ParseOrderStatus(c.Query("status"))
		if !valid {
			respondWithError(c, http.StatusBadRequest, route, apperror.KindValidation, "invalid status: "+c.Query("status"))
			return
		}

		order, err := svc.UpdateStatus(c.Request.Context(), id, status)
		if err != nil {
			respondAppError(c, route, err)
			return
		}
		logger.Info("order status changed", "route", route, "orderId", order.ID.Hex(), "status", order.Status)
		c.JSON(http.StatusOK, order)
	}
}

// DeleteOrder answers 1 when the order was removed and 404 with 0 when it
// did not exist.
func DeleteOrder(svc OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /orders/:id"
		defer handlePanic(c, route)

		id, ok := parseObjectID(c, "id", route)
		if !ok {
			return
		}
		deleted, err := svc.DeleteOrder(c.Request.Context(), id)
		if err != nil {
			respondAppError(c, route, err)
			return
		}
		if !deleted {
			c.JSON(http.StatusNotFound, 0)
			return
		}
		c.JSON(http.StatusOK, 1)
	}
}

// GetMonthlySales serves the rolling seven-day rollup under its historical
// route name.
func GetMonthlySales(svc OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /orders/sales/monthly"
		defer handlePanic(c, route)

		sales, err := svc.GetWeeklySales(c.Request.Context())
		if err != nil {
			respondAppError(c, route, err)
			return
		}
		c.JSON(http.StatusOK, sales)
	}
}
