package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/baisoft/marketplace-api/pkg/logger"
)

// RequestLogger registra cada petición con método, ruta, status y latencia.
func RequestLogger(log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		event := log.Info()
		if err != nil || c.Response().StatusCode() >= fiber.StatusInternalServerError {
			event = log.Error()
		}
		event.
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", c.Response().StatusCode()).
			Dur("latency", time.Since(start)).
			Str("request_id", c.GetRespHeader(fiber.HeaderXRequestID)).
			Msg("request")
		return err
	}
}
