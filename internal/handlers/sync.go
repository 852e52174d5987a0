package handlers

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront/internal/apperr"
	"storefront/internal/catalog"
	"storefront/internal/dubai"
	"storefront/internal/models"
	"storefront/internal/orders"
)

// syncTarget exposes one collection as a whole JSON array.
type syncTarget struct {
	read    func(ctx context.Context) (any, error)
	replace func(ctx context.Context, c *gin.Context) (int, error)
}

func replaceWith[T any](store func(context.Context, []T) error) func(context.Context, *gin.Context) (int, error) {
	return func(ctx context.Context, c *gin.Context) (int, error) {
		var records []T
		if err := c.ShouldBindJSON(&records); err != nil {
			return 0, apperr.Invalid("body", "must be a JSON array: "+err.Error())
		}
		if records == nil {
			records = []T{}
		}
		if err := store(ctx, records); err != nil {
			return 0, err
		}
		return len(records), nil
	}
}

func syncTargets(products *catalog.Service, orderManager *orders.Manager, requests *dubai.Manager) map[string]syncTarget {
	return map[string]syncTarget{
		"products": {
			read:    func(ctx context.Context) (any, error) { return products.All(ctx) },
			replace: replaceWith[models.Product](products.ReplaceAll),
		},
		"orders": {
			read:    func(ctx context.Context) (any, error) { return orderManager.All(ctx) },
			replace: replaceWith[models.Order](orderManager.ReplaceAll),
		},
		"requests": {
			read:    func(ctx context.Context) (any, error) { return requests.All(ctx) },
			replace: replaceWith[models.DubaiRequest](requests.ReplaceAll),
		},
	}
}

// SyncRead returns a collection as a plain array with no envelope.
func SyncRead(products *catalog.Service, orderManager *orders.Manager, requests *dubai.Manager) gin.HandlerFunc {
	targets := syncTargets(products, orderManager, requests)
	return func(c *gin.Context) {
		const route = "GET /admin/api/sync/:collection"
		defer handlePanic(c, route)

		target, ok := targets[c.Param("collection")]
		if !ok {
			respondWithError(c, http.StatusNotFound, route, "collection not found")
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		records, err := target.read(ctx)
		if err != nil {
			respondDomainError(c, route, "collection", err)
			return
		}
		c.JSON(http.StatusOK, records)
	}
}

// SyncReplace overwrites a collection with the posted array.
func SyncReplace(products *catalog.Service, orderManager *orders.Manager, requests *dubai.Manager) gin.HandlerFunc {
	targets := syncTargets(products, orderManager, requests)
	return func(c *gin.Context) {
		const route = "POST /admin/api/sync/:collection"
		defer handlePanic(c, route)

		name := c.Param("collection")
		target, ok := targets[name]
		if !ok {
			respondWithError(c, http.StatusNotFound, route, "collection not found")
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		count, err := target.replace(ctx, c)
		if err != nil {
			respondDomainError(c, route, name, err)
			return
		}

		log.Printf("[SYNC] [INFO] %s replaced with %d records", name, count)
		c.JSON(http.StatusOK, gin.H{"count": count})
	}
}
