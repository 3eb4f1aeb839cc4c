package logger

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name  string
		cfg   Config
		debug bool
	}{
		{"DebugConsole", Config{Level: "debug", Format: "console"}, true},
		{"InfoJSON", Config{Level: "info", Format: "json"}, false},
		{"WarnDefaultFormat", Config{Level: "warn"}, false},
		{"UnknownLevel", Config{Level: "loud"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := New(&tt.cfg)
			require.NoError(t, err)
			require.NotNil(t, l)
			assert.Equal(t, tt.debug, l.Core().Enabled(zapcore.DebugLevel))
		})
	}
}

func TestWithRayID(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	base := zap.New(core)

	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		c.Locals("ray_id", "ray-123")
		WithRayID(base, c).Info("with ray")
		return c.SendStatus(fiber.StatusNoContent)
	})
	app.Get("/bare", func(c *fiber.Ctx) error {
		WithRayID(base, c).Info("without ray")
		return c.SendStatus(fiber.StatusNoContent)
	})

	_, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	_, err = app.Test(httptest.NewRequest("GET", "/bare", nil))
	require.NoError(t, err)

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "ray-123", entries[0].ContextMap()["ray_id"])
	_, ok := entries[1].ContextMap()["ray_id"]
	assert.False(t, ok)
}

func TestWithRun(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	base := zap.New(core)

	WithRun(base, "run-1").Info("scoped")
	WithRun(base, "").Info("unscoped")

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "run-1", entries[0].ContextMap()["run_id"])
	assert.Empty(t, entries[1].ContextMap())
}
