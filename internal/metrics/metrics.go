package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"storefront/internal/models"
)

// Metrics holds the service collectors on a private registry. It implements
// the lifecycle observers of the orders and dubai packages.
type Metrics struct {
	registry        *prometheus.Registry
	httpRequests    *prometheus.CounterVec
	httpDuration    *prometheus.HistogramVec
	ordersSubmitted *prometheus.CounterVec
	orderRevenue    prometheus.Counter
	orderStatus     *prometheus.CounterVec
	requests        prometheus.Counter
	quotes          prometheus.Counter
	requestStatus   *prometheus.CounterVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		httpRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "storefront_http_requests_total",
			Help: "HTTP requests by route, method and status code.",
		}, []string{"route", "method", "code"}),
		httpDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "storefront_http_request_duration_seconds",
			Help:    "HTTP request latency by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method"}),
		ordersSubmitted: f.NewCounterVec(prometheus.CounterOpts{
			Name: "storefront_orders_submitted_total",
			Help: "Orders submitted at checkout by source.",
		}, []string{"source"}),
		orderRevenue: f.NewCounter(prometheus.CounterOpts{
			Name: "storefront_order_value_total",
			Help: "Sum of submitted order totals.",
		}),
		orderStatus: f.NewCounterVec(prometheus.CounterOpts{
			Name: "storefront_order_transitions_total",
			Help: "Order status transitions by source and target status.",
		}, []string{"from", "to"}),
		requests: f.NewCounter(prometheus.CounterOpts{
			Name: "storefront_dubai_requests_submitted_total",
			Help: "Dubai sourcing requests submitted.",
		}),
		quotes: f.NewCounter(prometheus.CounterOpts{
			Name: "storefront_dubai_requests_quoted_total",
			Help: "Quotes attached to Dubai requests.",
		}),
		requestStatus: f.NewCounterVec(prometheus.CounterOpts{
			Name: "storefront_dubai_request_transitions_total",
			Help: "Dubai request status transitions by source and target status.",
		}, []string{"from", "to"}),
	}
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Middleware records count and latency for every request, keyed by the
// matched route pattern.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.httpRequests.WithLabelValues(route, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
		m.httpDuration.WithLabelValues(route, c.Request.Method).Observe(time.Since(start).Seconds())
	}
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() gin.HandlerFunc {
	h := promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}

func (m *Metrics) OrderSubmitted(o models.Order) {
	m.ordersSubmitted.WithLabelValues(string(o.Source)).Inc()
	if o.Total > 0 {
		m.orderRevenue.Add(o.Total)
	}
}

func (m *Metrics) OrderAdvanced(from, to models.OrderStatus) {
	m.orderStatus.WithLabelValues(string(from), string(to)).Inc()
}

func (m *Metrics) RequestSubmitted(models.DubaiRequest) {
	m.requests.Inc()
}

func (m *Metrics) RequestQuoted(models.DubaiRequest) {
	m.quotes.Inc()
}

func (m *Metrics) RequestAdvanced(from, to models.RequestStatus) {
	m.requestStatus.WithLabelValues(string(from), string(to)).Inc()
}
