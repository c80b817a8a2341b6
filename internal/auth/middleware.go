package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// RequireUser guards a route with bearer-token authentication. On success the
// authenticated user id is available as c.Locals("user_id"). The store is not
// consulted here; a token is trusted until it expires.
func RequireUser(verifier TokenVerifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get("Authorization")
		if header == "" {
			return unauthorized(c, "Not authorized, token missing")
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return unauthorized(c, "Not authorized, token missing")
		}

		uid, err := verifier.Verify(parts[1])
		if err != nil {
			return unauthorized(c, "Invalid or expired token")
		}

		c.Locals("user_id", uid)
		return c.Next()
	}
}

// UserID returns the id stashed by RequireUser, or "" on unguarded routes.
func UserID(c *fiber.Ctx) string {
	uid, _ := c.Locals("user_id").(string)
	return strings.TrimSpace(uid)
}

// Auth failures are the one place the contract branches on HTTP status: they
// return 401, everything else returns 200 with success=false.
func unauthorized(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"success": false, "message": msg})
}
