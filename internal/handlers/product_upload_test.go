package handlers

import (
	"bytes"
	"errors"
	"mime/multipart"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"storefront/internal/apperr"
	"storefront/internal/models"
)

func newMultipartContext(t *testing.T, fill func(w *multipart.Writer)) *gin.Context {
	t.Helper()
	gin.SetMode(gin.TestMode)

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	fill(writer)
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	req := httptest.NewRequest("PUT", "/admin/api/products/1", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = req
	return c
}

func TestParseMultipartProductRequest_PicksLastValue(t *testing.T) {
	c := newMultipartContext(t, func(w *multipart.Writer) {
		_ = w.WriteField("isFullSet", "false")
		_ = w.WriteField("isFullSet", "true")
		_ = w.WriteField("price", "120")
		_ = w.WriteField("price", "99")
	})

	parsed, err := parseMultipartProductRequest(c.Request.Context(), c, nil)
	if err != nil {
		t.Fatalf("parseMultipartProductRequest returned error: %v", err)
	}
	if parsed.Patch.IsFullSet == nil || !*parsed.Patch.IsFullSet {
		t.Fatalf("expected isFullSet=true, got %+v", parsed.Patch.IsFullSet)
	}
	if parsed.Patch.Price == nil || *parsed.Patch.Price != 99 {
		t.Fatalf("expected price=99, got %+v", parsed.Patch.Price)
	}
}

func TestParseMultipartProductRequest_ReadsFields(t *testing.T) {
	c := newMultipartContext(t, func(w *multipart.Writer) {
		_ = w.WriteField("name", " عطر ")
		_ = w.WriteField("category", "Perfumes")
		_ = w.WriteField("source", "DUBAI")
		_ = w.WriteField("scentNotes", "oud, rose")
		_ = w.WriteField("scentNotes", "amber")
		_ = w.WriteField("images", "https://cdn.example.com/a.jpg")
	})

	parsed, err := parseMultipartProductRequest(c.Request.Context(), c, nil)
	if err != nil {
		t.Fatalf("parseMultipartProductRequest returned error: %v", err)
	}
	p := parsed.Patch
	if p.Name == nil || *p.Name != "عطر" {
		t.Fatalf("expected trimmed name, got %v", p.Name)
	}
	if p.Category == nil || *p.Category != models.CategoryPerfumes {
		t.Fatalf("expected perfumes category, got %v", p.Category)
	}
	if p.Source == nil || *p.Source != models.SourceDubai {
		t.Fatalf("expected dubai source, got %v", p.Source)
	}
	if p.ScentNotes == nil || len(*p.ScentNotes) != 3 {
		t.Fatalf("expected three scent notes, got %v", p.ScentNotes)
	}
	if p.Images == nil || len(*p.Images) != 1 {
		t.Fatalf("expected one image url, got %v", p.Images)
	}
	if p.Brand != nil {
		t.Fatalf("expected untouched brand, got %q", *p.Brand)
	}
}

func TestParseMultipartProductRequest_RejectsBadNumber(t *testing.T) {
	c := newMultipartContext(t, func(w *multipart.Writer) {
		_ = w.WriteField("quantity", "three")
	})

	_, err := parseMultipartProductRequest(c.Request.Context(), c, nil)
	var validation *apperr.ValidationError
	if !errors.As(err, &validation) || validation.Field != "quantity" {
		t.Fatalf("expected quantity validation error, got %v", err)
	}
}
