// recycle-rewards-system/middleware/sse_auth.go
package middleware

import (
	"log"
	"strings"

	"recycle-rewards-system/services"

	"github.com/gofiber/fiber/v2"
)

// SSEAuthMiddleware validates the `token` query param via the auth service.
// EventSource cannot set headers, so SSE routes authenticate from the query
// string instead of the gateway-forwarded context.
//
// Usage:
//
//	app.Get("/stream/points", middleware.SSEAuthMiddleware(authClient), profileService.StreamUserPointsSSE)
func SSEAuthMiddleware(authClient *services.AuthServiceClient) func(*fiber.Ctx) error {
	return func(c *fiber.Ctx) error {
		sessionToken := strings.TrimSpace(string(c.Request().URI().QueryArgs().Peek("token")))

		if sessionToken == "" {
			log.Printf("[SSEAuth] ❌ Missing token query param for %s", c.Path())
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Missing token in query",
			})
		}

		resp, err := authClient.ValidateSession(sessionToken)
		if err != nil {
			log.Printf("[SSEAuth] ❌ Validation failed for token (prefix: %.10s...): %v", sessionToken, err)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Unauthorized",
			})
		}

		// Attach to Fiber context (same keys as UserContextMiddleware)
		c.Locals("user_id", resp.UserID)
		c.Locals("user_email", resp.Email)
		c.Locals("user_roles", resp.Roles)

		return c.Next()
	}
}
