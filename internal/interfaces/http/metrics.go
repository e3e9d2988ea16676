package http

import (
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const loginRoute = "/api/auth/login"

// Metrics métricas HTTP del backend con registro propio (un registro por app; los tests crean varias).
type Metrics struct {
	registry *prometheus.Registry

	// RequestsTotal peticiones por método, ruta y código de estado.
	RequestsTotal *prometheus.CounterVec
	// RequestDuration latencia por método y ruta.
	RequestDuration *prometheus.HistogramVec
	// LoginAttempts intentos de login por resultado: success, rejected, error.
	LoginAttempts *prometheus.CounterVec
}

// NewMetrics crea y registra los colectores.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "opshub_http_requests_total",
				Help: "Total de peticiones HTTP por método, ruta y estado.",
			},
			[]string{"method", "route", "status"},
		),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "opshub_http_request_duration_seconds",
				Help:    "Latencia de las peticiones HTTP.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		LoginAttempts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "opshub_login_attempts_total",
				Help: "Intentos de login por resultado.",
			},
			[]string{"outcome"},
		),
	}
	m.registry.MustRegister(
		m.RequestsTotal,
		m.RequestDuration,
		m.LoginAttempts,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Middleware registra cada petición con la ruta declarada (no la URL) para acotar la cardinalidad.
func (m *Metrics) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			var fe *fiber.Error
			if errors.As(err, &fe) {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		// Method y Route son vistas sobre buffers de fasthttp que se reutilizan.
		method := utils.CopyString(c.Method())
		route := utils.CopyString(c.Route().Path)
		m.RequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
		m.RequestDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
		if route == loginRoute {
			m.LoginAttempts.WithLabelValues(loginOutcome(status)).Inc()
		}
		return err
	}
}

// Handler expone /metrics en formato Prometheus.
func (m *Metrics) Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
}

func loginOutcome(status int) string {
	switch {
	case status == fiber.StatusOK:
		return "success"
	case status == fiber.StatusUnauthorized || status == fiber.StatusBadRequest:
		return "rejected"
	default:
		return "error"
	}
}
