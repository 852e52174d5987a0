package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront/internal/middleware"
	"storefront/internal/session"
)

// RefreshSession swaps a still-valid customer token for a fresh one.
func RefreshSession(sessions *session.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /session/refresh"
		defer handlePanic(c, route)

		claims, ok := middleware.ClaimsFrom(c)
		if !ok || claims.Role != session.RoleCustomer {
			respondWithError(c, http.StatusForbidden, route, "customer session required")
			return
		}

		token, err := sessions.IssueCustomerToken(claims.UserID)
		if err != nil {
			respondDomainError(c, route, "user", err)
			return
		}

		c.JSON(http.StatusOK, token)
	}
}

// withSession adds the customer token to a creation response when one was
// issued for the caller.
func withSession(token *session.Token, body gin.H) gin.H {
	if token != nil {
		body["token"] = token.Value
		body["expiresAt"] = token.ExpiresAt
	}
	return body
}
