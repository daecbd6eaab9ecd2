package middleware

import (
	"time"

	"github.com/cloudvault/backend/pkg/logger"
	"github.com/gofiber/fiber/v2"
)

func RequestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		requestID := logger.GenerateRequestID()
		c.Locals("requestID", requestID)

		err := c.Next()

		details := map[string]interface{}{
			"method":      c.Method(),
			"path":        c.Path(),
			"status_code": c.Response().StatusCode(),
			"latency_ms":  time.Since(start).Milliseconds(),
			"ip":          c.IP(),
			"request_id":  requestID,
		}

		userID := logger.GetUserIDFromContext(c)
		if userID != nil {
			if c.Response().StatusCode() >= 400 {
				logger.ErrorWithUser(*userID, "http_request", err, details)
			} else {
				logger.InfoWithUser(*userID, "http_request", details)
			}
		} else {
			if c.Response().StatusCode() >= 400 {
				logger.Error("http_request", err, details)
			} else {
				logger.Info("http_request", details)
			}
		}

		return err
	}
}

func SecurityLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()

		statusCode := c.Response().StatusCode()
		if statusCode != fiber.StatusUnauthorized && statusCode != fiber.StatusNotFound {
			return err
		}

		details := map[string]interface{}{
			"method": c.Method(),
			"path":   c.Path(),
			"ip":     c.IP(),
		}

		userID := logger.GetUserIDFromContext(c)
		if statusCode == fiber.StatusUnauthorized {
			details["reason"] = "unauthorized"
			if userID != nil {
				logger.WarnWithUser(*userID, "unauthorized_request", details)
			} else {
				logger.Warn("unauthorized_request", details)
			}
		} else {
			details["reason"] = "not_found"
			if userID != nil {
				logger.WarnWithUser(*userID, "not_found", details)
			}
		}

		return err
	}
}
