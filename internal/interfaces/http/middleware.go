package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/jhoicas/credit-risk-dashboard/internal/infrastructure/metrics"
	"github.com/jhoicas/credit-risk-dashboard/pkg/logger"
)

// HeaderRequestID cabecera de correlación de peticiones.
const HeaderRequestID = "X-Request-ID"

const (
	localsRequestID = "request_id"
	localsError     = "handler_error"
)

// RequestLogger asigna un request ID (o respeta el entrante), registra cada petición
// y alimenta las métricas HTTP. m puede ser nil. Debe registrarse antes de recover
// para que los pánicos también queden en el log y en las métricas.
func RequestLogger(log *logger.Logger, m *metrics.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		reqID := c.Get(HeaderRequestID)
		if reqID == "" {
			reqID = uuid.NewString()
		}
		c.Locals(localsRequestID, reqID)
		c.Set(HeaderRequestID, reqID)

		err := c.Next()
		if err != nil {
			c.Locals(localsError, err)
			// Deja que el ErrorHandler de fiber escriba la respuesta antes de medir el status.
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		status := c.Response().StatusCode()
		elapsed := time.Since(start)
		route := c.Route().Path
		m.ObserveHTTPRequest(c.Method(), route, status, elapsed)

		ev := log.Info()
		switch {
		case status >= 500:
			ev = log.Error()
		case status >= 400:
			ev = log.Warn()
		}
		if herr, ok := c.Locals(localsError).(error); ok {
			ev = ev.Err(herr)
		}
		ev.Str("request_id", reqID).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Str("route", route).
			Int("status", status).
			Dur("latency", elapsed).
			Msg("http request")
		return nil
	}
}

// GetRequestID devuelve el request ID asignado por RequestLogger.
func GetRequestID(c *fiber.Ctx) string {
	if v, ok := c.Locals(localsRequestID).(string); ok {
		return v
	}
	return ""
}
