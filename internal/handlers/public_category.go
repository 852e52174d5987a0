package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront/internal/models"
)

type categoryResponse struct {
	ID    models.Category `json:"id"`
	Label string          `json:"label"`
}

type sourceResponse struct {
	ID    models.Source `json:"id"`
	Label string        `json:"label"`
}

// GetCategories lists the fixed product lines and stock sources with their
// Arabic labels, in display order.
func GetCategories() gin.HandlerFunc {
	categories := make([]categoryResponse, 0, len(models.Categories))
	for _, cat := range models.Categories {
		categories = append(categories, categoryResponse{ID: cat, Label: cat.Label()})
	}
	sources := []sourceResponse{
		{ID: models.SourceLocal, Label: models.SourceLocal.Label()},
		{ID: models.SourceDubai, Label: models.SourceDubai.Label()},
	}

	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"categories": categories,
			"sources":    sources,
		})
	}
}
