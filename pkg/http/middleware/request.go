package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const RequestIdKey = "request_id"

// RequestMiddleware set request id
func RequestMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		requestId := c.Get(fiber.HeaderXRequestID)
		if requestId == "" {
			requestId = uuid.New().String()
		}
		c.Request().Header.Set(fiber.HeaderXRequestID, requestId)
		c.Set(fiber.HeaderXRequestID, requestId)
		c.Locals(RequestIdKey, requestId)
		return c.Next()
	}
}
