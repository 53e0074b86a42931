package auth_test

import (
	"net/http/httptest"
	"testing"

	"dms-storage/core/middleware/auth"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newApp(cfg auth.Config) *fiber.App {
	app := fiber.New()
	app.Use(auth.New(cfg))
	app.Get("/buckets/name", func(c *fiber.Ctx) error { return c.SendString("ok") })
	app.Get("/metrics", func(c *fiber.Ctx) error { return c.SendString("metrics") })
	return app
}

func TestAuth(t *testing.T) {
	tests := []struct {
		name   string
		cfg    auth.Config
		path   string
		key    string
		status int
	}{
		{"ValidKey", auth.Config{ApiKey: "secret"}, "/buckets/name", "secret", fiber.StatusOK},
		{"WrongKey", auth.Config{ApiKey: "secret"}, "/buckets/name", "nope", fiber.StatusUnauthorized},
		{"MissingKey", auth.Config{ApiKey: "secret"}, "/buckets/name", "", fiber.StatusUnauthorized},
		{"Disabled", auth.Config{}, "/buckets/name", "", fiber.StatusOK},
		{"SkippedPath", auth.Config{ApiKey: "secret", Skip: []string{"/metrics"}}, "/metrics", "", fiber.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", tt.path, nil)
			if tt.key != "" {
				req.Header.Set(auth.HeaderName, tt.key)
			}

			resp, err := newApp(tt.cfg).Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}
}
