package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"storefront/internal/models"
)

func TestLifecycleCounters(t *testing.T) {
	m := New()

	m.OrderSubmitted(models.Order{Source: models.SourceLocal, Total: 1500})
	m.OrderSubmitted(models.Order{Source: models.SourceDubai, Total: 500})
	m.OrderAdvanced(models.OrderPending, models.OrderContacted)
	m.RequestSubmitted(models.DubaiRequest{})
	m.RequestQuoted(models.DubaiRequest{})

	if got := testutil.ToFloat64(m.ordersSubmitted.WithLabelValues("local")); got != 1 {
		t.Fatalf("expected 1 local order, got %v", got)
	}
	if got := testutil.ToFloat64(m.orderRevenue); got != 2000 {
		t.Fatalf("expected revenue 2000, got %v", got)
	}
	if got := testutil.ToFloat64(m.orderStatus.WithLabelValues("pending", "contacted")); got != 1 {
		t.Fatalf("expected one transition, got %v", got)
	}
	if testutil.ToFloat64(m.requests) != 1 || testutil.ToFloat64(m.quotes) != 1 {
		t.Fatal("expected request and quote counters to be 1")
	}
}

func TestTransitionHelpMatchesLabels(t *testing.T) {
	m := New()
	m.OrderAdvanced(models.OrderPending, models.OrderContacted)

	const want = `
# HELP storefront_order_transitions_total Order status transitions by source and target status.
# TYPE storefront_order_transitions_total counter
storefront_order_transitions_total{from="pending",to="contacted"} 1
`
	if err := testutil.CollectAndCompare(m.orderStatus, strings.NewReader(want), "storefront_order_transitions_total"); err != nil {
		t.Fatal(err)
	}
}

func TestMiddlewareAndHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := New()

	r := gin.New()
	r.Use(m.Middleware())
	r.GET("/products/:id", func(c *gin.Context) { c.Status(http.StatusNotFound) })
	r.GET("/metrics", m.Handler())

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/products/7", nil))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from /metrics, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `storefront_http_requests_total{code="404",method="GET",route="/products/:id"} 1`) {
		t.Fatalf("request counter missing from exposition:\n%s", body)
	}
}
