package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront/internal/dubai"
	"storefront/internal/middleware"
	"storefront/internal/session"
	"storefront/internal/settings"
	"storefront/internal/whatsapp"
)

func CreateDubaiRequest(manager *dubai.Manager, sessions *session.Service, cfg *settings.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /requests"
		defer handlePanic(c, route)

		var input dubai.Input
		if err := c.ShouldBindJSON(&input); err != nil {
			respondValidationError(c, err)
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		req, err := manager.Submit(ctx, input)
		if err != nil {
			respondDomainError(c, route, "request", err)
			return
		}

		token, err := sessions.SessionFor(ctx, middleware.ViewerFrom(c), req.UserID)
		if err != nil {
			respondDomainError(c, route, "request", err)
			return
		}

		current, err := cfg.Get(ctx)
		if err != nil {
			respondDomainError(c, route, "settings", err)
			return
		}

		log.Println("[DUBAI] [INFO] request created:", req.ID)
		c.JSON(http.StatusCreated, withSession(token, gin.H{
			"requestId":    req.ID,
			"request":      dubai.ForCustomer(req),
			"whatsappLink": whatsapp.Link(current.WhatsAppNumber, whatsapp.RequestMessage(current.StoreName, req)),
		}))
	}
}

// GetMyDubaiRequests lists the verified customer's requests using the
// customer status vocabulary.
func GetMyDubaiRequests(manager *dubai.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /requests/mine"
		defer handlePanic(c, route)

		ctx, cancel := requestContext(c)
		defer cancel()

		list, err := manager.ListFor(ctx, middleware.ViewerFrom(c))
		if err != nil {
			respondDomainError(c, route, "request", err)
			return
		}

		views := make([]dubai.CustomerView, 0, len(list))
		for _, r := range list {
			views = append(views, dubai.ForCustomer(r))
		}
		respondList(c, route, views)
	}
}
