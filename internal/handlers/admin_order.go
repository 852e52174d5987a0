package handlers

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"storefront/internal/middleware"
	"storefront/internal/models"
	"storefront/internal/orders"
)

type statusRequest struct {
	Status string `json:"status" binding:"required"`
}

// GetOrders lists every order, newest first, optionally narrowed by ?status=.
func GetOrders(manager *orders.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /admin/api/orders"
		defer handlePanic(c, route)

		ctx, cancel := requestContext(c)
		defer cancel()

		list, err := manager.ListFor(ctx, middleware.ViewerFrom(c))
		if err != nil {
			respondDomainError(c, route, "order", err)
			return
		}

		if status := models.OrderStatus(strings.TrimSpace(c.Query("status"))); status != "" {
			filtered := make([]models.Order, 0, len(list))
			for _, o := range list {
				if o.Status == status {
					filtered = append(filtered, o)
				}
			}
			list = filtered
		}
		respondList(c, route, list)
	}
}

func UpdateOrderStatus(manager *orders.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PATCH /admin/api/orders/:id/status"
		defer handlePanic(c, route)

		var req statusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		status := models.OrderStatus(strings.ToLower(strings.TrimSpace(req.Status)))
		order, err := manager.Advance(ctx, c.Param("id"), status)
		if err != nil {
			respondDomainError(c, route, "order", err)
			return
		}

		log.Printf("[%s] order %s is %s", route, order.ID, order.Status)
		c.JSON(http.StatusOK, gin.H{
			"order":       order,
			"statusLabel": order.Status.Label(),
		})
	}
}

func DeleteOrder(manager *orders.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /admin/api/orders/:id"
		defer handlePanic(c, route)

		ctx, cancel := requestContext(c)
		defer cancel()

		if err := manager.Remove(ctx, c.Param("id")); err != nil {
			respondDomainError(c, route, "order", err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "order deleted"})
	}
}
