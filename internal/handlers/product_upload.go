package handlers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"storefront/internal/apperr"
	"storefront/internal/catalog"
	"storefront/internal/media"
	"storefront/internal/models"
)

const maxMultipartMemory = 32 << 20

type multipartProduct struct {
	Patch catalog.ProductPatch
	// Uploaded holds the images ingested while parsing, so they can be
	// discarded if the write fails.
	Uploaded []string
}

// lastPostForm returns the last value sent for key.
func lastPostForm(c *gin.Context, key string) (string, bool) {
	values, ok := c.GetPostFormArray(key)
	if !ok || len(values) == 0 {
		return "", false
	}
	return strings.TrimSpace(values[len(values)-1]), true
}

func formString(c *gin.Context, key string) *string {
	if value, ok := lastPostForm(c, key); ok {
		return &value
	}
	return nil
}

func formFloat(c *gin.Context, key string) (*float64, error) {
	value, ok := lastPostForm(c, key)
	if !ok || value == "" {
		return nil, nil
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, apperr.Invalid(key, "must be a number")
	}
	return &parsed, nil
}

func formInt(c *gin.Context, key string) (*int, error) {
	value, ok := lastPostForm(c, key)
	if !ok || value == "" {
		return nil, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return nil, apperr.Invalid(key, "must be a whole number")
	}
	return &parsed, nil
}

func formBool(c *gin.Context, key string) (*bool, error) {
	value, ok := lastPostForm(c, key)
	if !ok || value == "" {
		return nil, nil
	}
	parsed, err := parseBoolValue(value)
	if err != nil {
		return nil, apperr.Invalid(key, "must be true or false")
	}
	return &parsed, nil
}

func parseBoolValue(value string) (bool, error) {
	value = strings.TrimSpace(strings.ToLower(value))
	if value == "on" {
		return true, nil
	}
	return strconv.ParseBool(value)
}

// parseMultipartProductRequest reads an admin product form. Image files sent
// under "images" are ingested and appended to the image URLs sent under the
// same key.
func parseMultipartProductRequest(ctx context.Context, c *gin.Context, ingest *media.Ingestor) (multipartProduct, error) {
	if err := c.Request.ParseMultipartForm(maxMultipartMemory); err != nil {
		log.Println("[PRODUCT] [ERROR] multipart parse failed:", err)
		return multipartProduct{}, apperr.Invalid("", "invalid multipart form")
	}

	var (
		out multipartProduct
		p   = &out.Patch
		err error
	)

	p.Name = formString(c, "name")
	p.Brand = formString(c, "brand")
	p.Description = formString(c, "description")
	p.Video = formString(c, "video")
	p.Gender = formString(c, "gender")
	p.ShippingDuration = formString(c, "shippingDuration")
	p.LensType = formString(c, "lensType")
	p.FrameMaterial = formString(c, "frameMaterial")
	p.FrameShape = formString(c, "frameShape")
	p.MovementType = formString(c, "movementType")
	p.StrapMaterial = formString(c, "strapMaterial")
	p.CaseMaterial = formString(c, "caseMaterial")
	p.Longevity = formString(c, "longevity")
	p.Volume = formString(c, "volume")

	if value := formString(c, "category"); value != nil {
		category := models.Category(strings.ToLower(*value))
		p.Category = &category
	}
	if value := formString(c, "source"); value != nil {
		source := models.Source(strings.ToLower(*value))
		p.Source = &source
	}

	if p.Price, err = formFloat(c, "price"); err != nil {
		return multipartProduct{}, err
	}
	if p.OriginalPrice, err = formFloat(c, "originalPrice"); err != nil {
		return multipartProduct{}, err
	}
	if p.Quantity, err = formInt(c, "quantity"); err != nil {
		return multipartProduct{}, err
	}
	if p.IsFullSet, err = formBool(c, "isFullSet"); err != nil {
		return multipartProduct{}, err
	}

	if notes, ok := c.GetPostFormArray("scentNotes"); ok {
		var list []string
		for _, note := range notes {
			for _, part := range strings.Split(note, ",") {
				if part = strings.TrimSpace(part); part != "" {
					list = append(list, part)
				}
			}
		}
		p.ScentNotes = &list
	}

	urls, urlsSet := c.GetPostFormArray("images")
	var files []*multipart.FileHeader
	if c.Request.MultipartForm != nil {
		files = c.Request.MultipartForm.File["images"]
	}
	if urlsSet || len(files) > 0 {
		images := append([]string(nil), urls...)
		for _, file := range files {
			url, err := ingestFile(ctx, ingest, file)
			if err != nil {
				ingest.Discard(ctx, out.Uploaded...)
				return multipartProduct{}, err
			}
			out.Uploaded = append(out.Uploaded, url)
			images = append(images, url)
		}
		p.Images = &images
	}

	return out, nil
}

func ingestFile(ctx context.Context, ingest *media.Ingestor, file *multipart.FileHeader) (string, error) {
	if ingest == nil {
		return "", errors.New("image uploads are not configured")
	}
	in, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("open upload %s: %w", file.Filename, err)
	}
	defer in.Close()
	return ingest.Ingest(ctx, file.Filename, file.Size, in)
}

// UploadImage ingests a single image sent as "image" and returns its URL.
func UploadImage(ingest *media.Ingestor) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /admin/api/uploads"
		defer handlePanic(c, route)

		file, err := c.FormFile("image")
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "image file required")
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		url, err := ingestFile(ctx, ingest, file)
		if err != nil {
			respondDomainError(c, route, "image", err)
			return
		}

		log.Printf("[%s] stored %s as %s", route, file.Filename, url)
		c.JSON(http.StatusCreated, gin.H{"url": url})
	}
}
