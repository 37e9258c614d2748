// Package metrics exposes Prometheus counters for the site.
package metrics

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the collectors registered for one server.
type Metrics struct {
	registry  *prometheus.Registry
	requests  *prometheus.CounterVec
	pageViews *prometheus.CounterVec
}

// New creates the collectors on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tigerlilly",
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status.",
		}, []string{"method", "route", "status"}),
		pageViews: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tigerlilly",
			Name:      "page_views_total",
			Help:      "Public page renders by view.",
		}, []string{"view"}),
	}
	m.registry.MustRegister(m.requests, m.pageViews)
	return m
}

// Middleware counts every request by its route template.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.requests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
	}
}

// PageView records one render of a public view. Safe on a nil receiver.
func (m *Metrics) PageView(view string) {
	if m == nil {
		return
	}
	m.pageViews.WithLabelValues(view).Inc()
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
}
