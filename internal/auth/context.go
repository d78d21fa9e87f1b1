package auth

import "github.com/gofiber/fiber/v2"

// Actor returns the identity the gateway attached to the request.
// Authentication itself happens upstream; the ledger only records who
// asked for a change.
func Actor(c *fiber.Ctx) string {
	if actor := c.Get("X-User-ID"); actor != "" {
		return actor
	}
	return "unknown"
}
