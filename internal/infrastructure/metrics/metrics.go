// Package metrics holds the Prometheus collectors of the admin application.
package metrics

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "catalog_admin"

// Seed outcomes.
const (
	OutcomeSeeded    = "seeded"
	OutcomeExhausted = "exhausted"
)

type Metrics struct {
	registry *prometheus.Registry

	SeedAttempts prometheus.Counter
	SeedFailures prometheus.Counter
	SeedOutcomes *prometheus.CounterVec
	HTTPRequests *prometheus.CounterVec
}

// New registers every collector on a private registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	m := &Metrics{
		registry: reg,
		SeedAttempts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "seed_attempts_total",
			Help:      "Catalog seed attempts started.",
		}),
		SeedFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "seed_failures_total",
			Help:      "Catalog seed attempts that failed.",
		}),
		SeedOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "seed_outcomes_total",
			Help:      "Final result of catalog seeding runs.",
		}, []string{"outcome"}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
	}

	reg.MustRegister(m.SeedAttempts, m.SeedFailures, m.SeedOutcomes, m.HTTPRequests)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Middleware counts requests by their route template, not the raw path.
func (m *Metrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := next(c)

			status := c.Response().Status
			if err != nil {
				var he *echo.HTTPError
				if errors.As(err, &he) {
					status = he.Code
				} else {
					status = http.StatusInternalServerError
				}
			}
			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			m.HTTPRequests.WithLabelValues(c.Request().Method, route, strconv.Itoa(status)).Inc()

			return err
		}
	}
}

// RecordSeedAttempt counts one seeding pass.
func (m *Metrics) RecordSeedAttempt(err error) {
	m.SeedAttempts.Inc()
	if err != nil {
		m.SeedFailures.Inc()
	}
}

// RecordSeedOutcome counts the final result of a seeding run.
func (m *Metrics) RecordSeedOutcome(err error) {
	if err != nil {
		m.SeedOutcomes.WithLabelValues(OutcomeExhausted).Inc()
		return
	}
	m.SeedOutcomes.WithLabelValues(OutcomeSeeded).Inc()
}
