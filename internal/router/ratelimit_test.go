package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/stretchr/testify/assert"
)

// limiterApp mounts the write limiter the way RegisterRoutes does: after the
// middleware that resolves the caller, so the key generator sees user_id.
func limiterApp() *fiber.App {
	app := fiber.New()
	app.Post("/write",
		func(c *fiber.Ctx) error {
			// c.Get returns a string backed by fasthttp's reusable request
			// buffer; copy it so the limiter's stored key can't mutate when
			// the buffer is reused by a later request.
			if uid := utils.CopyString(c.Get("X-Test-User")); uid != "" {
				c.Locals("user_id", uid)
			}
			return c.Next()
		},
		RateLimitWrite(),
		func(c *fiber.Ctx) error {
			return c.JSON(fiber.Map{"success": true})
		},
	)
	return app
}

func writeAs(t *testing.T, app *fiber.App, uid string) int {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/write", nil)
	if uid != "" {
		req.Header.Set("X-Test-User", uid)
	}
	res, err := app.Test(req)
	assert.NoError(t, err)
	return res.StatusCode
}

func TestRateLimitWritePerUser(t *testing.T) {
	app := limiterApp()

	// exhaust user-a's budget; all requests share one IP under app.Test
	for i := 0; i < 60; i++ {
		assert.Equal(t, http.StatusOK, writeAs(t, app, "user-a"))
	}
	assert.Equal(t, http.StatusTooManyRequests, writeAs(t, app, "user-a"))

	// a different user behind the same IP has its own budget
	assert.Equal(t, http.StatusOK, writeAs(t, app, "user-b"))
}

func TestRateLimitWriteFallsBackToIP(t *testing.T) {
	app := limiterApp()

	for i := 0; i < 60; i++ {
		assert.Equal(t, http.StatusOK, writeAs(t, app, ""))
	}
	assert.Equal(t, http.StatusTooManyRequests, writeAs(t, app, ""))
}

func TestRateLimitAuth(t *testing.T) {
	app := fiber.New()
	app.Post("/login", RateLimitAuth(), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"success": true})
	})

	for i := 0; i < 10; i++ {
		res, err := app.Test(httptest.NewRequest(http.MethodPost, "/login", nil))
		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, res.StatusCode)
	}
	res, err := app.Test(httptest.NewRequest(http.MethodPost, "/login", nil))
	assert.NoError(t, err)
	assert.Equal(t, http.StatusTooManyRequests, res.StatusCode)
}
