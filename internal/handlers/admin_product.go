package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"perfume-backend/internal/apperror"
)

/* =======================
   GET (ADMIN) – LIST
======================= */

func GetAllProducts(products ProductService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /products/admin/all"
		defer handlePanic(c, route)

		list, err := products.ListAll(c.Request.Context())
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

/* =======================
   CREATE
======================= */

func CreateProduct(products ProductService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /products"
		defer handlePanic(c, route)

		var req productRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, route, err)
			return
		}
		createProduct(c, route, products, req)
	}
}

// CreateProductWithImages stores the uploaded files first and uses their
// URLs as the product's images.
func CreateProductWithImages(products ProductService, store ImageService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /products/with-images"
		defer handlePanic(c, route)

		input, err := parseMultipartProductRequest(c)
		if err != nil {
			respondMultipartError(c, route, err)
			return
		}
		if len(input.Files) > 0 {
			input.Product.withUploadedImages(store.Store(c.Request.Context(), input.Files))
		}
		createProduct(c, route, products, input.Product)
	}
}

func createProduct(c *gin.Context, route string, products ProductService, req productRequest) {
	in, err := req.toInput()
	if err != nil {
		respondAppError(c, route, err)
		return
	}
	product, err := products.Create(c.Request.Context(), in)
	if err != nil {
		respondAppError(c, route, err)
		return
	}
	logger.Info("product created", "route", route, "productId", product.ID.Hex())
	c.JSON(http.StatusOK, product)
}

/* =======================
   UPDATE
======================= */

func UpdateProduct(products ProductService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /products/:id"
		defer handlePanic(c, route)

		id, ok := parseObjectID(c, "id", route)
		if !ok {
			return
		}
		var req productRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, route, err)
			return
		}
		updateProduct(c, route, products, id, req)
	}
}

func UpdateProductWithImages(products ProductService, store ImageService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /products/:id/with-images"
		defer handlePanic(c, route)

		id, ok := parseObjectID(c, "id", route)
		if !ok {
			return
		}
		input, err := parseMultipartProductRequest(c)
		if err != nil {
			respondMultipartError(c, route, err)
			return
		}
		if len(input.Files) > 0 {
			input.Product.withUploadedImages(store.Store(c.Request.Context(), input.Files))
		}
		updateProduct(c, route, products, id, input.Product)
	}
}

func updateProduct(c *gin.Context, route string, products ProductService, id primitive.ObjectID, req productRequest) {
	in, err := req.toInput()
	if err != nil {
		respondAppError(c, route, err)
		return
	}
	product, err := products.Update(c.Request.Context(), id, in)
	if err != nil {
		respondAppError(c, route, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

/* =======================
   DELETE
======================= */

// DeleteProduct removes the document; the body is 1 as the admin panel
// expects.
func DeleteProduct(products ProductService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /products/:id"
		defer handlePanic(c, route)

		id, ok := parseObjectID(c, "id", route)
		if !ok {
			return
		}
		if err := products.HardDelete(c.Request.Context(), id); err != nil {
			respondAppError(c, route, err)
			return
		}
		c.JSON(http.StatusOK, 1)
	}
}

func SoftDeleteProduct(products ProductService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /products/:id/soft"
		defer handlePanic(c, route)

		id, ok := parseObjectID(c, "id", route)
		if !ok {
			return
		}
		if err := products.SoftDelete(c.Request.Context(), id); err != nil {
			respondAppError(c, route, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
