package middleware

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "crewops",
		Name:      "http_requests_total",
		Help:      "HTTP requests processed, by route, method and status.",
	}, []string{"route", "method", "status"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "crewops",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency, by route and method.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route", "method"})
)

// Metrics records a counter and latency histogram per request.  Routes
// are labeled by the registered path, not the raw URL, so ids do not
// explode the label cardinality.
func Metrics() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			route := c.Path()
			method := c.Request().Method
			status := c.Response().Status
			if err != nil {
				if he, ok := err.(*echo.HTTPError); ok {
					status = he.Code
				}
			}
			requestsTotal.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
			requestDuration.WithLabelValues(route, method).Observe(time.Since(start).Seconds())
			return err
		}
	}
}
