package fiberlog

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func TestLogger(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := logrus.New()
	logger.SetOutput(buf)
	logger.SetFormatter(&logrus.JSONFormatter{})

	app := fiber.New()
	app.Use(New(Config{Logger: logger, Tags: []string{TagStatus, TagMethod, TagPath, TagRoute}}))
	app.Get("/sessions/:id", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusLocked)
	})
	app.Get("/status", func(c *fiber.Ctx) error {
		c.Set(HeaderLogIgnore, "true")
		return c.SendStatus(fiber.StatusOK)
	})

	t.Run(`request log check`, func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/sessions/s1", nil))
		require.Nil(t, err)
		require.Equal(t, fiber.StatusLocked, resp.StatusCode)

		var entry map[string]interface{}
		require.Nil(t, json.Unmarshal(buf.Bytes(), &entry))
		require.Equal(t, "warning", entry["level"])
		require.Equal(t, "/sessions/s1", entry[TagPath])
		require.Equal(t, "/sessions/:id", entry[TagRoute])
		require.Equal(t, float64(fiber.StatusLocked), entry[TagStatus])
	})

	t.Run(`log ignore check`, func(t *testing.T) {
		buf.Reset()
		resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/status", nil))
		require.Nil(t, err)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
		require.Empty(t, resp.Header.Get(HeaderLogIgnore))
		require.Zero(t, buf.Len())
	})

	t.Run(`slow request check`, func(t *testing.T) {
		slowBuf := &bytes.Buffer{}
		slowLogger := logrus.New()
		slowLogger.SetOutput(slowBuf)
		slowLogger.SetFormatter(&logrus.JSONFormatter{})

		slowApp := fiber.New()
		slowApp.Use(New(Config{Logger: slowLogger, Tags: []string{TagStatus}, SlowThreshold: 10 * time.Millisecond}))
		slowApp.Get("/answer", func(c *fiber.Ctx) error {
			time.Sleep(30 * time.Millisecond)
			return c.SendStatus(fiber.StatusOK)
		})
		resp, err := slowApp.Test(httptest.NewRequest(fiber.MethodGet, "/answer", nil), -1)
		require.Nil(t, err)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)

		var entry map[string]interface{}
		require.Nil(t, json.Unmarshal(slowBuf.Bytes(), &entry))
		require.Equal(t, "warning", entry["level"])
		require.Equal(t, "медленный запрос api", entry["msg"])
	})
}
