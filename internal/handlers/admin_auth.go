package handlers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"storefront/internal/apperr"
	"storefront/internal/middleware"
	"storefront/internal/session"
)

type adminLoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type credentialsRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	Email           string `json:"email" binding:"required"`
	Password        string `json:"password" binding:"required"`
}

func setAdminCookie(c *gin.Context, value string, maxAge int, secure bool) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(middleware.AdminCookie, value, maxAge, "/", "", secure, true)
}

func AdminLogin(sessions *session.Service, secureCookie bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /admin/login"
		defer handlePanic(c, route)

		var req adminLoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		token, err := sessions.AdminLogin(ctx, req.Email, req.Password)
		if err != nil {
			respondDomainError(c, route, "admin", err)
			return
		}

		setAdminCookie(c, token.Value, int(time.Until(token.ExpiresAt).Seconds()), secureCookie)
		log.Println("[AUTH] [INFO] admin login succeeded")
		c.JSON(http.StatusOK, token)
	}
}

func AdminLogout(secureCookie bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		setAdminCookie(c, "", -1, secureCookie)
		c.JSON(http.StatusOK, gin.H{"message": "logged out"})
	}
}

// ChangeCredentials replaces the admin email and password. The current
// password must be supplied again.
func ChangeCredentials(sessions *session.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /admin/api/credentials"
		defer handlePanic(c, route)

		var req credentialsRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		if err := sessions.ChangeCredentials(ctx, req.CurrentPassword, req.Email, req.Password); err != nil {
			if errors.Is(err, apperr.ErrInvalidCredentials) {
				respondWithError(c, http.StatusUnauthorized, route, "current password is incorrect")
				return
			}
			respondDomainError(c, route, "admin", err)
			return
		}

		log.Println("[AUTH] [INFO] admin credentials changed")
		c.JSON(http.StatusOK, gin.H{"message": "credentials updated"})
	}
}
