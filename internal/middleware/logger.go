package middleware

import (
	"time"

	"github.com/bilgisen/rsswatch/internal/logger"
	"github.com/gofiber/fiber/v2"
)

// RequestLogger logs one line per handled request
func RequestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		status := c.Response().StatusCode()
		event := logger.Get().Info()
		if status >= fiber.StatusInternalServerError {
			event = logger.Get().Error()
		} else if status >= fiber.StatusBadRequest {
			event = logger.Get().Warn()
		}

		event.
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("ip", c.IP()).
			Msg("Request handled")

		return err
	}
}
