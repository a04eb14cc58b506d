package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"perfume-backend/internal/apperror"
)

const imageCacheControl = "public, max-age=31536000, immutable"

// ServeImage streams a stored image with long-lived cache headers. Stored
// names are unique, so the content behind a URL never changes.
func ServeImage(store ImageService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/images/:fileName"
		defer handlePanic(c, route)

		name := c.Param("fileName")
		img, err := store.Retrieve(c.Request.Context(), name)
		if err != nil {
			if !apperror.Is(err, apperror.KindNotFound) {
				logger.Error("image read failed", "route", route, "name", name, "error", err)
			}
			c.Header("Cache-Control", "no-cache")
			respondWithError(c, http.StatusNotFound, route, apperror.KindNotFound, "image not found")
			return
		}

		etag := fmt.Sprintf(`"%s-%d"`, img.Name, img.LastModified.UnixMilli())
		c.Header("Cache-Control", imageCacheControl)
		c.Header("ETag", etag)
		c.Header("Last-Modified", img.LastModified.UTC().Format(http.TimeFormat))
		c.Header("Vary", "Accept-Encoding")

		if match := c.GetHeader("If-None-Match"); match != "" && match == etag {
			c.Status(http.StatusNotModified)
			return
		}

		c.Header("Content-Length", strconv.FormatInt(img.Size, 10))
		c.Data(http.StatusOK, img.ContentType, img.Data)
	}
}

func DeleteImage(store ImageService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /api/images/:fileName"
		defer handlePanic(c, route)

		deleted, err := store.Delete(c.Request.Context(), c.Param("fileName"))
		if err != nil {
			respondAppError(c, route, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"deleted": deleted})
	}
}
