// Package metrics holds the prometheus collectors of the http api.
package metrics

import (
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Path is where the metrics are exposed.
const Path = "/metrics"

var (
	requests        *prometheus.CounterVec   //nolint:gochecknoglobals
	requestDuration *prometheus.HistogramVec //nolint:gochecknoglobals
	publicDataFails *prometheus.CounterVec   //nolint:gochecknoglobals
	registerOnce    sync.Once                //nolint:gochecknoglobals
)

func register() {
	registerOnce.Do(func() {
		requests = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Number of http requests, by method, route and status code.",
			},
			[]string{"method", "route", "code"},
		)
		requestDuration = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Duration of http requests, by method and route.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		)
		publicDataFails = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "public_data_failures_total",
				Help: "Number of failed sub reads of the public data endpoint, by key.",
			},
			[]string{"key"},
		)
	})
}

// Middleware counts and times every request by its route pattern.
func Middleware() fiber.Handler {
	register()

	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()

		if err != nil {
			status = fiber.StatusInternalServerError

			var fe *fiber.Error
			if errors.As(err, &fe) {
				status = fe.Code
			}
		}

		route := c.Route().Path
		requests.WithLabelValues(c.Method(), route, strconv.Itoa(status)).Inc()
		requestDuration.WithLabelValues(c.Method(), route).Observe(time.Since(start).Seconds())

		return err
	}
}

// PublicDataFailure counts a failed sub read of the public data endpoint.
func PublicDataFailure(key string) {
	register()
	publicDataFails.WithLabelValues(key).Inc()
}

// Handler serves the default prometheus registry.
func Handler() fiber.Handler {
	register()
	return adaptor.HTTPHandler(promhttp.Handler())
}
