package observability

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_http_requests_total",
			Help: "Total number of HTTP requests processed by the chat backend.",
		},
		[]string{"method", "route", "status"},
	)
	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "chat_http_request_duration_seconds",
			Help:    "HTTP request latencies in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route"},
	)
	mutationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_mutations_total",
			Help: "Total number of mutations processed, by outcome.",
		},
		[]string{"mutator", "status"},
	)
	staleGenerationsSwept = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "chat_stale_generations_swept_total",
			Help: "Messages moved from generating to failed by the sweeper.",
		},
	)
	upstreamErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_upstream_errors_total",
			Help: "Failures talking to external completion/search/image services.",
		},
		[]string{"service"},
	)
)

func init() {
	prometheus.MustRegister(
		httpRequestsTotal,
		httpRequestDuration,
		mutationsTotal,
		staleGenerationsSwept,
		upstreamErrorsTotal,
	)
}

func HTTPMetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		status := c.Writer.Status()

		httpRequestsTotal.WithLabelValues(c.Request.Method, route, strconv.Itoa(status)).Inc()
		httpRequestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	}
}

func IncMutation(mutator, status string) {
	mutationsTotal.WithLabelValues(mutator, status).Inc()
}

func AddStaleGenerationsSwept(n int64) {
	staleGenerationsSwept.Add(float64(n))
}

func IncUpstreamError(service string) {
	upstreamErrorsTotal.WithLabelValues(service).Inc()
}
