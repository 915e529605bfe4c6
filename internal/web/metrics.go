package web

import (
	"strconv"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/Zsh123456-BOOP/jnu-web/internal/web/handler"
)

var (
	httpMetricsOnce sync.Once //nolint:gochecknoglobals
	httpRequests    *prometheus.CounterVec
	httpDuration    *prometheus.HistogramVec
)

func registerHTTPMetrics() {
	httpMetricsOnce.Do(func() {
		httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Number of HTTP requests, by method and status code.",
		}, []string{"method", "code"})

		httpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests, by method.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method"})
	})
}

// requestMetrics counts requests and observes their duration. Routes are
// not used as labels to keep the cardinality bounded.
func requestMetrics() fiber.Handler {
	registerHTTPMetrics()

	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			status, _, _ = handler.Classify(err)
		}

		method := c.Method()
		httpRequests.WithLabelValues(method, strconv.Itoa(status)).Inc()
		httpDuration.WithLabelValues(method).Observe(time.Since(start).Seconds())

		return err
	}
}
