package handlers

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
)

var errInvalidPagination = errors.New("page and limit must be positive integers")

func parsePaginationParams(pageStr, limitStr string) (int64, int64, error) {
	page := int64(1)
	limit := int64(20)

	if pageStr != "" {
		p, err := strconv.ParseInt(pageStr, 10, 64)
		if err != nil || p < 1 {
			return 0, 0, errInvalidPagination
		}
		page = p
	}

	if limitStr != "" {
		l, err := strconv.ParseInt(limitStr, 10, 64)
		if err != nil || l < 1 {
			return 0, 0, errInvalidPagination
		}
		limit = l
	}

	return page, limit, nil
}

func paginate[T any](items []T, page, limit int64) []T {
	start := (page - 1) * limit
	if start >= int64(len(items)) {
		return []T{}
	}
	end := min(start+limit, int64(len(items)))
	return items[start:end]
}

// maybePaginate slices items only when the client asked for a page. The
// full count goes out in X-Total-Count so the body stays a plain array.
func maybePaginate[T any](c *gin.Context, items []T) ([]T, error) {
	pageStr, limitStr := c.Query("page"), c.Query("limit")
	if pageStr == "" && limitStr == "" {
		return items, nil
	}
	page, limit, err := parsePaginationParams(pageStr, limitStr)
	if err != nil {
		return nil, err
	}
	c.Header("X-Total-Count", strconv.Itoa(len(items)))
	return paginate(items, page, limit), nil
}
