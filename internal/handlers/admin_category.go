package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"perfume-backend/internal/catalog"
)

type categoryRequest struct {
	Name        string `json:"name" binding:"required,max=120"`
	Description string `json:"description" binding:"max=2000"`
	ImageURL    string `json:"imageUrl"`
}

func (r categoryRequest) toInput() catalog.CategoryInput {
	return catalog.CategoryInput{
		Name:        strings.TrimSpace(r.Name),
		Description: strings.TrimSpace(r.Description),
		ImageURL:    strings.TrimSpace(r.ImageURL),
	}
}

func CreateCategory(categories CategoryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /categories"
		defer handlePanic(c, route)

		var req categoryRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, route, err)
			return
		}

		category, err := categories.CreateCategory(c.Request.Context(), req.toInput())
		if err != nil {
			respondAppError(c, route, err)
			return
		}
		c.JSON(http.StatusOK, category)
	}
}

func UpdateCategory(categories CategoryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /categories/:id"
		defer handlePanic(c, route)

		id, ok := parseObjectID(c, "id", route)
		if !ok {
			return
		}
		var req categoryRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, route, err)
			return
		}

		category, err := categories.UpdateCategory(c.Request.Context(), id, req.toInput())
		if err != nil {
			respondAppError(c, route, err)
			return
		}
		c.JSON(http.StatusOK, category)
	}
}

func DeleteCategory(categories CategoryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /categories/:id"
		defer handlePanic(c, route)

		id, ok := parseObjectID(c, "id", route)
		if !ok {
			return
		}
		if err := categories.DeleteCategory(c.Request.Context(), id); err != nil {
			respondAppError(c, route, err)
			return
		}
		c.Status(http.StatusOK)
	}
}
