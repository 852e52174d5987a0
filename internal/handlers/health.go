package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// PingFunc checks that the storage backend is reachable.
type PingFunc func(ctx context.Context) error

func Health(ping PingFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /health"
		if ping != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := ping(ctx); err != nil {
				respondWithError(c, http.StatusServiceUnavailable, route, "database unavailable")
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
