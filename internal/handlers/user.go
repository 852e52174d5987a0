package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront/internal/middleware"
	"storefront/internal/session"
)

// GetMe returns the customer identity behind the session token.
func GetMe(sessions *session.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /me"
		defer handlePanic(c, route)

		ctx, cancel := requestContext(c)
		defer cancel()

		user, err := sessions.User(ctx, middleware.ViewerFrom(c).UserID)
		if err != nil {
			respondDomainError(c, route, "user", err)
			return
		}

		c.JSON(http.StatusOK, user)
	}
}
