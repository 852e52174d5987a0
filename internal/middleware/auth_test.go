package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"storefront/internal/models"
	"storefront/internal/session"
	"storefront/internal/store"
)

func newSessions() *session.Service {
	return session.NewService(
		store.NewBinCollection[models.Admin](&store.MemoryBin{}),
		store.NewBinCollection[models.User](&store.MemoryBin{}),
		"middleware-secret", time.Hour, time.Hour,
	)
}

func newRouter(guard gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", guard, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"viewer": ViewerFrom(c)})
	})
	return r
}

func do(r *gin.Engine, mutate func(*http.Request)) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if mutate != nil {
		mutate(req)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestAdminAuthRejectsMissingAndMalformedTokens(t *testing.T) {
	r := newRouter(AdminAuth(newSessions()))

	if rec := do(r, nil); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}
	if rec := do(r, func(req *http.Request) { req.Header.Set("Authorization", "Token abc") }); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for malformed header, got %d", rec.Code)
	}
	if rec := do(r, func(req *http.Request) { req.Header.Set("Authorization", "Bearer forged") }); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for forged token, got %d", rec.Code)
	}
}

func TestAdminAuthRejectsCustomerToken(t *testing.T) {
	sessions := newSessions()
	r := newRouter(AdminAuth(sessions))

	token, err := sessions.IssueCustomerToken("USER-1")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	rec := do(r, func(req *http.Request) { req.Header.Set("Authorization", "Bearer "+token.Value) })
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for customer token on admin route, got %d", rec.Code)
	}
}

func TestCustomerAuthAcceptsHeaderToken(t *testing.T) {
	sessions := newSessions()
	r := newRouter(CustomerAuth(sessions))

	token, _ := sessions.IssueCustomerToken("USER-1")
	rec := do(r, func(req *http.Request) { req.Header.Set("Authorization", "bearer "+token.Value) })
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if body := rec.Body.String(); body != `{"viewer":{"UserID":"USER-1","Admin":false}}` {
		t.Fatalf("unexpected body %s", body)
	}
}

func TestAdminCookieIsAccepted(t *testing.T) {
	ctx := context.Background()
	sessions := newSessions()
	if err := sessions.SeedAdmin(ctx, "owner@example.com", "s3cret-pass"); err != nil {
		t.Fatalf("seed: %v", err)
	}
	token, err := sessions.AdminLogin(ctx, "owner@example.com", "s3cret-pass")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	r := newRouter(AdminAuth(sessions))
	rec := do(r, func(req *http.Request) {
		req.AddCookie(&http.Cookie{Name: AdminCookie, Value: token.Value})
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 with admin cookie, got %d", rec.Code)
	}
}

func TestOptionalAuthPassesAnonymousAndForgedCallers(t *testing.T) {
	sessions := newSessions()
	r := newRouter(OptionalAuth(sessions))

	for name, mutate := range map[string]func(*http.Request){
		"none":   nil,
		"forged": func(req *http.Request) { req.Header.Set("Authorization", "Bearer forged") },
	} {
		rec := do(r, mutate)
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", name, rec.Code)
		}
		if body := rec.Body.String(); strings.Contains(body, "USER-") {
			t.Fatalf("%s: anonymous caller got an identity: %s", name, body)
		}
	}

	token, err := sessions.IssueCustomerToken("USER-42")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	rec := do(r, func(req *http.Request) { req.Header.Set("Authorization", "Bearer "+token.Value) })
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "USER-42") {
		t.Fatalf("valid token not recorded: %d %s", rec.Code, rec.Body.String())
	}
}
