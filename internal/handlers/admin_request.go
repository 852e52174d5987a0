package handlers

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"storefront/internal/dubai"
	"storefront/internal/middleware"
	"storefront/internal/models"
	"storefront/internal/settings"
	"storefront/internal/whatsapp"
)

type quoteRequest struct {
	Price        *float64 `json:"price" binding:"required"`
	ShippingCost *float64 `json:"shippingCost" binding:"required"`
}

type adminRequestView struct {
	models.DubaiRequest
	StatusLabel string `json:"statusLabel"`
}

func GetDubaiRequests(manager *dubai.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /admin/api/requests"
		defer handlePanic(c, route)

		ctx, cancel := requestContext(c)
		defer cancel()

		list, err := manager.ListFor(ctx, middleware.ViewerFrom(c))
		if err != nil {
			respondDomainError(c, route, "request", err)
			return
		}

		status := models.RequestStatus(strings.TrimSpace(c.Query("status")))
		views := make([]adminRequestView, 0, len(list))
		for _, r := range list {
			if status != "" && r.Status != status {
				continue
			}
			views = append(views, adminRequestView{DubaiRequest: r, StatusLabel: r.Status.Label()})
		}
		respondList(c, route, views)
	}
}

// QuoteDubaiRequest attaches the price pair and returns the WhatsApp link the
// admin uses to send it to the customer.
func QuoteDubaiRequest(manager *dubai.Manager, cfg *settings.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /admin/api/requests/:id/quote"
		defer handlePanic(c, route)

		var req quoteRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		quoted, err := manager.Quote(ctx, c.Param("id"), *req.Price, *req.ShippingCost)
		if err != nil {
			respondDomainError(c, route, "request", err)
			return
		}

		current, err := cfg.Get(ctx)
		if err != nil {
			respondDomainError(c, route, "settings", err)
			return
		}

		log.Printf("[%s] request %s quoted", route, quoted.ID)
		c.JSON(http.StatusOK, gin.H{
			"request":      adminRequestView{DubaiRequest: quoted, StatusLabel: quoted.Status.Label()},
			"whatsappLink": whatsapp.Link(quoted.Phone, whatsapp.QuoteMessage(current.StoreName, quoted, current.DubaiShippingETA)),
		})
	}
}

func UpdateDubaiRequestStatus(manager *dubai.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PATCH /admin/api/requests/:id/status"
		defer handlePanic(c, route)

		var req statusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		status := models.RequestStatus(strings.ToLower(strings.TrimSpace(req.Status)))
		updated, err := manager.Advance(ctx, c.Param("id"), status)
		if err != nil {
			respondDomainError(c, route, "request", err)
			return
		}

		c.JSON(http.StatusOK, adminRequestView{DubaiRequest: updated, StatusLabel: updated.Status.Label()})
	}
}

func DeleteDubaiRequest(manager *dubai.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /admin/api/requests/:id"
		defer handlePanic(c, route)

		ctx, cancel := requestContext(c)
		defer cancel()

		if err := manager.Remove(ctx, c.Param("id")); err != nil {
			respondDomainError(c, route, "request", err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "request deleted"})
	}
}
