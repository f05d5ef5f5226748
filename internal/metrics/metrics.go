package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns its registry so tests and multiple app instances do not collide.
type Metrics struct {
	registry        *prometheus.Registry
	requests        *prometheus.CounterVec
	latency         *prometheus.HistogramVec
	engagement      *prometheus.CounterVec
	uploads         prometheus.Counter
	publishFailures prometheus.Counter
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "clips_http_requests_total",
			Help: "HTTP requests by route, method and status",
		}, []string{"route", "method", "status"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "clips_http_request_duration_seconds",
			Help:    "HTTP request latency by route",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method"}),
		engagement: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "clips_engagement_total",
			Help: "Counter increments by kind (views, likes, downloads)",
		}, []string{"counter"}),
		uploads: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "clips_uploads_total",
			Help: "Videos uploaded",
		}),
		publishFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "clips_event_publish_failures_total",
			Help: "Events that could not be published",
		}),
	}
	m.registry.MustRegister(
		m.requests, m.latency, m.engagement, m.uploads, m.publishFailures,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) Engagement(counter string) { m.engagement.WithLabelValues(counter).Inc() }
func (m *Metrics) Upload()                   { m.uploads.Inc() }
func (m *Metrics) PublishFailure()           { m.publishFailures.Inc() }

// Middleware records every request under its route pattern, not the raw path.
func (m *Metrics) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		// render errors here so the recorded status is the one the client gets
		if err := c.Next(); err != nil {
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}
		route := c.Route().Path
		status := strconv.Itoa(c.Response().StatusCode())
		m.requests.WithLabelValues(route, c.Method(), status).Inc()
		m.latency.WithLabelValues(route, c.Method()).Observe(time.Since(start).Seconds())
		return nil
	}
}

// Handler exposes the registry for Prometheus scraping.
func (m *Metrics) Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
}
