package router

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

// CorsMiddleware configures CORS for the configured origin (default *).
func CorsMiddleware(origin string) fiber.Handler {
	origin = strings.TrimSpace(origin)
	if origin == "" {
		origin = "*"
	}

	return cors.New(cors.Config{
		AllowOrigins:     origin,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowCredentials: false,
	})
}

// RequestLogger logs method, path, status and latency for every request.
func RequestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		status := c.Response().StatusCode()
		log.Printf("%s %s %d %s", c.Method(), c.Path(), status, time.Since(start))
		return err
	}
}

// RequestTimeout puts a deadline on the request context so a stuck store or
// payment provider surfaces as an error instead of a hung request.
func RequestTimeout(d time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), d)
		defer cancel()
		c.SetUserContext(ctx)
		return c.Next()
	}
}

// RequireAdminKey guards operator-only routes with a shared header key.
// An unset key hard-fails rather than accidentally serving open.
func RequireAdminKey(key string) fiber.Handler {
	key = strings.TrimSpace(key)
	if key == "" {
		return func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusInternalServerError).
				JSON(fiber.Map{"success": false, "message": "ADMIN_API_KEY not set"})
		}
	}

	return func(c *fiber.Ctx) error {
		got := strings.TrimSpace(c.Get("X-Admin-Key"))
		if got == "" || got != key {
			return c.Status(fiber.StatusUnauthorized).
				JSON(fiber.Map{"success": false, "message": "invalid admin key"})
		}
		return c.Next()
	}
}
