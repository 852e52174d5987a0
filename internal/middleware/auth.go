package middleware

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"storefront/internal/models"
	"storefront/internal/session"
)

// AdminCookie carries the admin token for browser sessions.
const AdminCookie = "admin_token"

const (
	claimsKey = "claims"
	viewerKey = "viewer"
)

// TokenParser verifies a raw token.
type TokenParser interface {
	Parse(raw string) (*session.Claims, error)
}

func bearerToken(c *gin.Context) (string, bool) {
	raw := strings.TrimSpace(c.GetHeader("Authorization"))
	if raw != "" {
		parts := strings.Fields(raw)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return "", false
		}
		return parts[1], true
	}
	if cookie, err := c.Cookie(AdminCookie); err == nil && cookie != "" {
		return cookie, true
	}
	return "", true
}

// AuthGuard accepts a token from the Authorization header or the admin cookie
// and requires one of allowedRoles, if any are given.
func AuthGuard(parser TokenParser, allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, wellFormed := bearerToken(c)
		if !wellFormed {
			log.Println("[AUTH] [ERROR] invalid token format")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			return
		}

		claims, err := parser.Parse(raw)
		if err != nil {
			log.Println("[AUTH] [ERROR] token validation failed:", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		if len(allowedRoles) > 0 {
			match := false
			for _, r := range allowedRoles {
				if claims.Role == r {
					match = true
					break
				}
			}
			if !match {
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
				return
			}
		}

		c.Set(claimsKey, claims)
		c.Set(viewerKey, claims.Viewer())
		c.Next()
	}
}

func AdminAuth(parser TokenParser) gin.HandlerFunc {
	return AuthGuard(parser, session.RoleAdmin)
}

// CustomerAuth admits customer tokens; admins pass too and see everything.
func CustomerAuth(parser TokenParser) gin.HandlerFunc {
	return AuthGuard(parser, session.RoleCustomer, session.RoleAdmin)
}

// OptionalAuth records the caller's claims when a valid token is present and
// lets anonymous or invalid callers through as anonymous.
func OptionalAuth(parser TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, wellFormed := bearerToken(c)
		if !wellFormed || raw == "" {
			c.Next()
			return
		}
		claims, err := parser.Parse(raw)
		if err != nil {
			log.Println("[AUTH] [WARN] ignoring invalid token:", err)
			c.Next()
			return
		}
		c.Set(claimsKey, claims)
		c.Set(viewerKey, claims.Viewer())
		c.Next()
	}
}

// ClaimsFrom returns the claims set by AuthGuard.
func ClaimsFrom(c *gin.Context) (*session.Claims, bool) {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*session.Claims)
	return claims, ok
}

// ViewerFrom returns the verified viewer, or an anonymous one.
func ViewerFrom(c *gin.Context) models.Viewer {
	if v, ok := c.Get(viewerKey); ok {
		if viewer, ok := v.(models.Viewer); ok {
			return viewer
		}
	}
	return models.Viewer{}
}
