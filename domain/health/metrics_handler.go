package health

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsHandler exposes the Prometheus registry over HTTP.
type MetricsHandler struct {
	handler echo.HandlerFunc
}

// NewMetricsHandler creates a new metrics handler
func NewMetricsHandler() *MetricsHandler {
	return &MetricsHandler{
		handler: echo.WrapHandler(promhttp.Handler()),
	}
}

// Metrics serves the Prometheus exposition endpoint.
// GET /metrics
func (m *MetricsHandler) Metrics(c echo.Context) error {
	return m.handler(c)
}
