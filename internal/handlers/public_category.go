package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func GetCategories(categories CategoryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /categories"
		defer handlePanic(c, route)

		list, err := categories.ListCategories(c.Request.Context())
		if err != nil {
			respondAppError(c, route, err)
			return
		}

		logger.Debug("returning categories", "route", route, "count", len(list))
		c.JSON(http.StatusOK, list)
	}
}

func GetCategory(categories CategoryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /categories/:id"
		defer handlePanic(c, route)

		id, ok := parseObjectID(c, "id", route)
		if !ok {
			return
		}
		category, err := categories.GetCategory(c.Request.Context(), id)
		if err != nil {
			respondAppError(c, route, err)
			return
		}
		c.JSON(http.StatusOK, category)
	}
}
