package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront/internal/settings"
)

func GetPublicSettings(cfg *settings.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /settings"
		defer handlePanic(c, route)

		ctx, cancel := requestContext(c)
		defer cancel()

		current, err := cfg.Get(ctx)
		if err != nil {
			respondDomainError(c, route, "settings", err)
			return
		}
		c.JSON(http.StatusOK, current.Public())
	}
}

func GetSettings(cfg *settings.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /admin/api/settings"
		defer handlePanic(c, route)

		ctx, cancel := requestContext(c)
		defer cancel()

		current, err := cfg.Get(ctx)
		if err != nil {
			respondDomainError(c, route, "settings", err)
			return
		}
		c.JSON(http.StatusOK, current)
	}
}

// UpdateSettings applies a merge-patch; omitted fields keep their value.
func UpdateSettings(cfg *settings.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PATCH /admin/api/settings"
		defer handlePanic(c, route)

		var patch settings.Patch
		if err := c.ShouldBindJSON(&patch); err != nil {
			respondValidationError(c, err)
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		updated, err := cfg.Update(ctx, patch)
		if err != nil {
			respondDomainError(c, route, "settings", err)
			return
		}
		c.JSON(http.StatusOK, updated)
	}
}
