package cmd

import (
	"net/http/httptest"
	"testing"

	"netsync/core/loader"
	"netsync/core/middleware/auth"
	"netsync/core/server"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pingFeature struct{}

func (pingFeature) Name() string { return "ping" }
func (pingFeature) IsEnabled() bool { return true }
func (pingFeature) Load(app fiber.Router) error {
	app.Get("/ping", func(c *fiber.Ctx) error { return c.SendString("pong") })
	return nil
}

func TestMountRoutes(t *testing.T) {
	app := fiber.New()
	mgr := loader.NewManager()
	mgr.Register(pingFeature{})
	require.NoError(t, mountRoutes(app, server.Config{ApiKey: "secret", MetricsPath: "/metrics"}, mgr))

	status := func(path, key string) int {
		req := httptest.NewRequest("GET", path, nil)
		if key != "" {
			req.Header.Set(auth.Header, key)
		}
		resp, err := app.Test(req)
		require.NoError(t, err)
		return resp.StatusCode
	}

	assert.Equal(t, 200, status("/metrics", ""))
	assert.Equal(t, 401, status("/ping", ""))
	assert.Equal(t, 401, status("/ping", "wrong"))
	assert.Equal(t, 200, status("/ping", "secret"))
}

func TestMountRoutes_MetricsDisabled(t *testing.T) {
	app := fiber.New()
	require.NoError(t, mountRoutes(app, server.Config{ApiKey: "secret"}, loader.NewManager()))

	resp, err := app.Test(httptest.NewRequest("GET", "/metrics", nil))
	require.NoError(t, err)
	assert.Equal(t, 401, resp.StatusCode)
}
