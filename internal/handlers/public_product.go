package handlers

import (
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"storefront/internal/catalog"
	"storefront/internal/models"
)

/*
GET /products
- filters: category, source, brand, gender, frameShape, movementType,
  strapMaterial, priceMin, priceMax, onSale, inStock, q, sort
- pagination only when page + limit are both given
*/
func GetProducts(products *catalog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /products"
		defer handlePanic(c, route)

		filter, err := catalog.ParseFilter(c.Request.URL.Query())
		if err != nil {
			respondDomainError(c, route, "product", err)
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		list, err := products.List(ctx, filter)
		if err != nil {
			respondDomainError(c, route, "product", err)
			return
		}

		log.Printf("[%s] returning %d products", route, len(list))
		respondList(c, route, list)
	}
}

func parseProductID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(c.Param("id")), 10, 64)
	if err != nil || id <= 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

func GetProduct(products *catalog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /products/:id"
		defer handlePanic(c, route)

		id, ok := parseProductID(c)
		if !ok {
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		product, err := products.Get(ctx, id)
		if err != nil {
			respondDomainError(c, route, "product", err)
			return
		}
		c.JSON(http.StatusOK, product)
	}
}

func GetBrands(products *catalog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /brands"
		defer handlePanic(c, route)

		category := models.Category(strings.ToLower(strings.TrimSpace(c.Query("category"))))
		if category != "" && !category.Valid() {
			respondWithError(c, http.StatusBadRequest, route, "unknown category")
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		brands, err := products.Brands(ctx, category)
		if err != nil {
			respondDomainError(c, route, "brand", err)
			return
		}
		c.JSON(http.StatusOK, brands)
	}
}
