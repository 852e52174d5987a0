package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"storefront/internal/catalog"
	"storefront/internal/models"
	"storefront/internal/settings"
	"storefront/internal/store"
	"storefront/internal/whatsapp"
)

// GetSupportLink returns a WhatsApp link to the store, optionally about one
// product given as ?productId=.
func GetSupportLink(products *catalog.Service, cfg *settings.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /support/whatsapp"
		defer handlePanic(c, route)

		ctx, cancel := requestContext(c)
		defer cancel()

		current, err := cfg.Get(ctx)
		if err != nil {
			respondDomainError(c, route, "settings", err)
			return
		}

		var product *models.Product
		if raw := strings.TrimSpace(c.Query("productId")); raw != "" {
			id, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				respondWithError(c, http.StatusBadRequest, route, "invalid productId")
				return
			}
			p, err := products.Get(ctx, id)
			switch {
			case err == nil:
				product = &p
			case !errors.Is(err, store.ErrNotFound):
				respondDomainError(c, route, "product", err)
				return
			}
		}

		c.JSON(http.StatusOK, gin.H{
			"link": whatsapp.Link(current.WhatsAppNumber, whatsapp.SupportMessage(current.StoreName, product)),
		})
	}
}
