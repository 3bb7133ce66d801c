package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// EnsureClientID stores the caller's client id in c.Locals("clientID"). The
// id comes from the X-Client-ID header or the clientId query parameter;
// anonymous callers get a fresh one, echoed back in the response header.
func EnsureClientID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		// Check if clientID is already set
		if c.Locals("clientID") != nil {
			return c.Next()
		}

		clientID := c.Get("X-Client-ID")
		if clientID == "" {
			clientID = c.Query("clientId")
		}
		if clientID == "" {
			clientID = uuid.New().String()
		}

		c.Set("X-Client-ID", clientID)
		c.Locals("clientID", clientID)
		return c.Next()
	}
}
