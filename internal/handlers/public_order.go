package handlers

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront/internal/cart"
	"storefront/internal/catalog"
	"storefront/internal/middleware"
	"storefront/internal/models"
	"storefront/internal/orders"
	"storefront/internal/session"
	"storefront/internal/settings"
	"storefront/internal/whatsapp"
)

/* =========================
   REQUEST DTOs
========================= */

type cartLineRequest struct {
	ProductID int64 `json:"productId" binding:"required,gt=0"`
	Quantity  int   `json:"quantity" binding:"required,gt=0,lte=1000"`
}

type cartRequest struct {
	Items []cartLineRequest `json:"items" binding:"required,min=1,dive"`
}

type createOrderRequest struct {
	Customer models.OrderCustomer `json:"customer"`
	Items    []cartLineRequest    `json:"items" binding:"required,min=1,dive"`
}

// buildCart re-snapshots every line from the catalog so the client never
// decides the price, name or source of an item.
func buildCart(ctx context.Context, products *catalog.Service, lines []cartLineRequest) (*cart.Cart, error) {
	c := cart.New()
	for _, line := range lines {
		item, err := products.Snapshot(ctx, line.ProductID, line.Quantity)
		if err != nil {
			return nil, err
		}
		c.Add(item)
	}
	return c, nil
}

/* =========================
   PRICE CART
========================= */

func PriceCart(products *catalog.Service, cfg *settings.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /cart/price"
		defer handlePanic(c, route)

		var req cartRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		basket, err := buildCart(ctx, products, req.Items)
		if err != nil {
			respondDomainError(c, route, "product", err)
			return
		}
		fee, err := cfg.ShippingFee(ctx)
		if err != nil {
			respondDomainError(c, route, "settings", err)
			return
		}

		c.JSON(http.StatusOK, basket.Price(fee))
	}
}

/* =========================
   CREATE ORDER
========================= */

func CreateOrder(products *catalog.Service, manager *orders.Manager, sessions *session.Service, cfg *settings.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /orders"
		defer handlePanic(c, route)

		var req createOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		basket, err := buildCart(ctx, products, req.Items)
		if err != nil {
			respondDomainError(c, route, "product", err)
			return
		}

		order, err := manager.Submit(ctx, req.Customer, basket)
		if err != nil {
			respondDomainError(c, route, "order", err)
			return
		}

		token, err := sessions.SessionFor(ctx, middleware.ViewerFrom(c), order.UserID)
		if err != nil {
			respondDomainError(c, route, "order", err)
			return
		}

		current, err := cfg.Get(ctx)
		if err != nil {
			respondDomainError(c, route, "settings", err)
			return
		}

		log.Println("[ORDER] [INFO] order created:", order.ID)
		c.JSON(http.StatusCreated, withSession(token, gin.H{
			"orderId":      order.ID,
			"order":        order,
			"whatsappLink": whatsapp.Link(current.WhatsAppNumber, whatsapp.OrderMessage(current.StoreName, order)),
		}))
	}
}

/* =========================
   GET MY ORDERS
========================= */

// GetMyOrders lists the orders of the verified customer.
func GetMyOrders(manager *orders.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /orders/mine"
		defer handlePanic(c, route)

		ctx, cancel := requestContext(c)
		defer cancel()

		list, err := manager.ListFor(ctx, middleware.ViewerFrom(c))
		if err != nil {
			respondDomainError(c, route, "order", err)
			return
		}
		respondList(c, route, list)
	}
}
