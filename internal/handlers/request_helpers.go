package handlers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"storefront/internal/apperr"
	"storefront/internal/media"
	"storefront/internal/store"
)

const requestTimeout = 5 * time.Second

func handlePanic(c *gin.Context, route string) {
	if r := recover(); r != nil {
		log.Printf("[%s] panic recovered: %v", route, r)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

func requestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), requestTimeout)
}

func respondWithError(c *gin.Context, status int, route string, message string) {
	log.Printf("[%s] returning error %d: %s", route, status, message)
	c.AbortWithStatusJSON(status, gin.H{"error": message})
}

func respondValidationError(c *gin.Context, err error) {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		details := make([]string, 0, len(validationErrors))
		for _, fieldError := range validationErrors {
			field := lowerCamel(fieldError.Field())
			switch fieldError.Tag() {
			case "required":
				details = append(details, fmt.Sprintf("%s is required", field))
			case "min", "gt", "gte":
				details = append(details, fmt.Sprintf("%s must be at least %s", field, fieldError.Param()))
			case "max", "lt", "lte":
				details = append(details, fmt.Sprintf("%s must be at most %s", field, fieldError.Param()))
			default:
				details = append(details, fmt.Sprintf("%s is invalid", field))
			}
		}
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":   "validation failed",
			"details": details,
		})
		return
	}

	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid body", "details": err.Error()})
}

func lowerCamel(field string) string {
	if field == "" {
		return field
	}
	return strings.ToLower(field[:1]) + field[1:]
}

// respondDomainError maps service errors onto HTTP responses. what names the
// entity for not-found messages.
func respondDomainError(c *gin.Context, route, what string, err error) {
	var (
		validation *apperr.ValidationError
		stock      *apperr.OutOfStockError
		upload     *media.UploadError
	)

	switch {
	case errors.As(err, &validation):
		log.Printf("[%s] validation failed: %v", route, err)
		body := gin.H{"error": validation.Error()}
		if validation.Field != "" {
			body["field"] = validation.Field
		}
		c.AbortWithStatusJSON(http.StatusBadRequest, body)
	case errors.As(err, &stock):
		log.Printf("[%s] out of stock: %v", route, err)
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "الكمية المطلوبة غير متوفرة",
			"productId": stock.ProductID,
			"available": stock.Available,
			"requested": stock.Requested,
		})
	case errors.Is(err, store.ErrNotFound):
		respondWithError(c, http.StatusNotFound, route, what+" not found")
	case errors.Is(err, apperr.ErrInvalidTransition):
		respondWithError(c, http.StatusConflict, route, err.Error())
	case errors.Is(err, store.ErrConflict):
		respondWithError(c, http.StatusConflict, route, what+" was changed by another request, retry")
	case errors.Is(err, apperr.ErrUnknownStatus):
		respondWithError(c, http.StatusBadRequest, route, err.Error())
	case errors.Is(err, apperr.ErrInvalidCredentials):
		respondWithError(c, http.StatusUnauthorized, route, "invalid credentials")
	case errors.Is(err, media.ErrTooLarge), errors.Is(err, media.ErrTooManyPixels), errors.Is(err, media.ErrUnsupportedType), errors.Is(err, media.ErrDecode):
		respondWithError(c, http.StatusBadRequest, route, err.Error())
	case errors.As(err, &upload):
		respondWithError(c, http.StatusBadGateway, route, upload.Error())
	case errors.Is(err, context.DeadlineExceeded):
		respondWithError(c, http.StatusGatewayTimeout, route, "storage timeout")
	default:
		log.Printf("[%s] [ERROR] %v", route, err)
		respondWithError(c, http.StatusInternalServerError, route, "storage error")
	}
}
