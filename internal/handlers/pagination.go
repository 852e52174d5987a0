package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

var errInvalidPagination = errors.New("invalid pagination params")

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
		if err != nil || l < 1 || l > 200 {
			return 0, 0, errInvalidPagination
		}
		limit = l
	}

	return page, limit, nil
}

func paginate[T any](items []T, page, limit int64) []T {
	if page < 1 || limit < 1 || page-1 > int64(len(items))/limit {
		return []T{}
	}
	start := (page - 1) * limit
	if start >= int64(len(items)) {
		return []T{}
	}
	end := start + limit
	if end > int64(len(items)) {
		end = int64(len(items))
	}
	return items[start:end]
}

// respondList writes items as a bare array, or as a data/pagination envelope
// when both page and limit are given.
func respondList[T any](c *gin.Context, route string, items []T) {
	pageStr := c.Query("page")
	limitStr := c.Query("limit")
	if pageStr == "" || limitStr == "" {
		c.JSON(http.StatusOK, items)
		return
	}

	page, limit, err := parsePaginationParams(pageStr, limitStr)
	if err != nil {
		respondWithError(c, http.StatusBadRequest, route, err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"data": paginate(items, page, limit),
		"pagination": gin.H{
			"page":  page,
			"limit": limit,
			"total": len(items),
		},
	})
}
