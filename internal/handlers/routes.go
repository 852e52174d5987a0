package handlers

import (
	"github.com/gin-gonic/gin"

	"storefront/internal/catalog"
	"storefront/internal/dubai"
	"storefront/internal/media"
	"storefront/internal/metrics"
	"storefront/internal/middleware"
	"storefront/internal/orders"
	"storefront/internal/session"
	"storefront/internal/settings"
)

// Services bundles what the routes need. Media, Metrics and Ping are
// optional.
type Services struct {
	Catalog       *catalog.Service
	Orders        *orders.Manager
	Requests      *dubai.Manager
	Settings      *settings.Service
	Sessions      *session.Service
	Media         *media.Ingestor
	Metrics       *metrics.Metrics
	Ping          PingFunc
	SecureCookies bool
}

func RegisterRoutes(r *gin.Engine, s Services) {
	if s.Metrics != nil {
		r.Use(s.Metrics.Middleware())
		r.GET("/metrics", s.Metrics.Handler())
	}

	r.GET("/health", Health(s.Ping))

	r.GET("/products", GetProducts(s.Catalog))
	r.GET("/products/:id", GetProduct(s.Catalog))
	r.GET("/brands", GetBrands(s.Catalog))
	r.GET("/categories", GetCategories())
	r.GET("/settings", GetPublicSettings(s.Settings))
	r.GET("/support/whatsapp", GetSupportLink(s.Catalog, s.Settings))

	r.POST("/cart/price", PriceCart(s.Catalog, s.Settings))
	r.POST("/orders", middleware.OptionalAuth(s.Sessions), CreateOrder(s.Catalog, s.Orders, s.Sessions, s.Settings))
	r.POST("/requests", middleware.OptionalAuth(s.Sessions), CreateDubaiRequest(s.Requests, s.Sessions, s.Settings))

	customer := r.Group("/")
	customer.Use(middleware.CustomerAuth(s.Sessions))
	{
		customer.GET("/orders/mine", GetMyOrders(s.Orders))
		customer.GET("/requests/mine", GetMyDubaiRequests(s.Requests))
		customer.GET("/me", GetMe(s.Sessions))
		customer.POST("/session/refresh", RefreshSession(s.Sessions))
	}

	r.POST("/admin/login", AdminLogin(s.Sessions, s.SecureCookies))
	r.POST("/admin/logout", AdminLogout(s.SecureCookies))

	admin := r.Group("/admin/api")
	admin.Use(middleware.AdminAuth(s.Sessions))
	{
		admin.GET("/products", GetAllProducts(s.Catalog))
		admin.POST("/products", CreateProduct(s.Catalog, s.Media))
		admin.PUT("/products/:id", UpdateProduct(s.Catalog, s.Media))
		admin.DELETE("/products/:id", DeleteProduct(s.Catalog, s.Media))
		admin.POST("/uploads", UploadImage(s.Media))

		admin.GET("/orders", GetOrders(s.Orders))
		admin.PATCH("/orders/:id/status", UpdateOrderStatus(s.Orders))
		admin.DELETE("/orders/:id", DeleteOrder(s.Orders))

		admin.GET("/requests", GetDubaiRequests(s.Requests))
		admin.POST("/requests/:id/quote", QuoteDubaiRequest(s.Requests, s.Settings))
		admin.PATCH("/requests/:id/status", UpdateDubaiRequestStatus(s.Requests))
		admin.DELETE("/requests/:id", DeleteDubaiRequest(s.Requests))

		admin.GET("/settings", GetSettings(s.Settings))
		admin.PATCH("/settings", UpdateSettings(s.Settings))
		admin.PUT("/credentials", ChangeCredentials(s.Sessions))

		admin.GET("/sync/:collection", SyncRead(s.Catalog, s.Orders, s.Requests))
		admin.POST("/sync/:collection", SyncReplace(s.Catalog, s.Orders, s.Requests))
	}
}
