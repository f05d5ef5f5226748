package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

func ZapLogger(logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		latency := time.Since(start)

		fields := []zap.Field{
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.String("ip", c.IP()),
			zap.Int("status", c.Response().StatusCode()),
			zap.Duration("latency", latency),
		}
		if err != nil {
			// the status is only final after the error handler ran
			logger.Info("HTTP Request", append(fields, zap.NamedError("handler_error", err))...)
			return err
		}
		logger.Info("HTTP Request", fields...)
		return nil
	}
}
