package handlers

import (
	"log"
	"net/http"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"

	"storefront/internal/catalog"
	"storefront/internal/media"
)

func isMultipart(c *gin.Context) bool {
	return strings.HasPrefix(c.GetHeader("Content-Type"), "multipart/form-data")
}

func deref[T any](v *T) T {
	var zero T
	if v == nil {
		return zero
	}
	return *v
}

func productInputFromPatch(p catalog.ProductPatch) catalog.ProductInput {
	return catalog.ProductInput{
		Name:             deref(p.Name),
		Brand:            deref(p.Brand),
		Description:      deref(p.Description),
		Price:            deref(p.Price),
		OriginalPrice:    deref(p.OriginalPrice),
		Quantity:         deref(p.Quantity),
		Category:         deref(p.Category),
		Source:           deref(p.Source),
		Images:           deref(p.Images),
		Video:            deref(p.Video),
		Gender:           deref(p.Gender),
		ShippingDuration: deref(p.ShippingDuration),
		IsFullSet:        deref(p.IsFullSet),
		LensType:         deref(p.LensType),
		FrameMaterial:    deref(p.FrameMaterial),
		FrameShape:       deref(p.FrameShape),
		MovementType:     deref(p.MovementType),
		StrapMaterial:    deref(p.StrapMaterial),
		CaseMaterial:     deref(p.CaseMaterial),
		Longevity:        deref(p.Longevity),
		Volume:           deref(p.Volume),
		ScentNotes:       deref(p.ScentNotes),
	}
}

/* =======================
   GET (ADMIN) – LIST
======================= */

// GetAllProducts returns the full catalog for the back-office, honouring the
// same filters as the public listing.
func GetAllProducts(products *catalog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /admin/api/products"
		defer handlePanic(c, route)

		filter, err := catalog.ParseFilter(c.Request.URL.Query())
		if err != nil {
			respondDomainError(c, route, "product", err)
			return
		}
		if filter.Sort == "" {
			filter.Sort = catalog.SortNewest
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		list, err := products.List(ctx, filter)
		if err != nil {
			respondDomainError(c, route, "product", err)
			return
		}
		respondList(c, route, list)
	}
}

/* =======================
   CREATE
======================= */

func CreateProduct(products *catalog.Service, ingest *media.Ingestor) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /admin/api/products"
		defer handlePanic(c, route)

		ctx, cancel := requestContext(c)
		defer cancel()

		var (
			input    catalog.ProductInput
			uploaded []string
		)
		if isMultipart(c) {
			form, err := parseMultipartProductRequest(ctx, c, ingest)
			if err != nil {
				respondDomainError(c, route, "product", err)
				return
			}
			input = productInputFromPatch(form.Patch)
			uploaded = form.Uploaded
		} else if err := c.ShouldBindJSON(&input); err != nil {
			respondValidationError(c, err)
			return
		}

		product, err := products.Create(ctx, input)
		if err != nil {
			if ingest != nil {
				ingest.Discard(ctx, uploaded...)
			}
			respondDomainError(c, route, "product", err)
			return
		}

		c.JSON(http.StatusCreated, product)
	}
}

/* =======================
   UPDATE
======================= */

func UpdateProduct(products *catalog.Service, ingest *media.Ingestor) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /admin/api/products/:id"
		defer handlePanic(c, route)

		id, ok := parseProductID(c)
		if !ok {
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		var (
			patch    catalog.ProductPatch
			uploaded []string
		)
		if isMultipart(c) {
			form, err := parseMultipartProductRequest(ctx, c, ingest)
			if err != nil {
				respondDomainError(c, route, "product", err)
				return
			}
			patch = form.Patch
			uploaded = form.Uploaded
		} else if err := c.ShouldBindJSON(&patch); err != nil {
			respondValidationError(c, err)
			return
		}

		before, err := products.Get(ctx, id)
		if err != nil {
			respondDomainError(c, route, "product", err)
			return
		}

		updated, err := products.Update(ctx, id, patch)
		if err != nil {
			if ingest != nil {
				ingest.Discard(ctx, uploaded...)
			}
			respondDomainError(c, route, "product", err)
			return
		}

		if ingest != nil {
			var dropped []string
			for _, img := range before.Images {
				if !slices.Contains(updated.Images, img) {
					dropped = append(dropped, img)
				}
			}
			ingest.Discard(ctx, dropped...)
		}

		log.Printf("[%s] updated product %d", route, id)
		c.JSON(http.StatusOK, updated)
	}
}

/* =======================
   DELETE
======================= */

func DeleteProduct(products *catalog.Service, ingest *media.Ingestor) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /admin/api/products/:id"
		defer handlePanic(c, route)

		id, ok := parseProductID(c)
		if !ok {
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		deleted, err := products.Delete(ctx, id)
		if err != nil {
			respondDomainError(c, route, "product", err)
			return
		}
		if ingest != nil {
			ingest.Discard(ctx, deleted.Images...)
		}

		c.JSON(http.StatusOK, gin.H{"message": "product deleted"})
	}
}
