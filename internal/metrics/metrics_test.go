package metrics

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsEndpoint(t *testing.T) {
	m := New()
	app := fiber.New()
	app.Use(m.Middleware())
	app.Get("/videos/:id", func(c *fiber.Ctx) error { return c.SendString("ok") })
	app.Get("/missing/:id", func(*fiber.Ctx) error { return fiber.ErrNotFound })
	app.Get("/metrics", m.Handler())

	resp, err := app.Test(httptest.NewRequest("GET", "/missing/x", nil))
	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)

	for _, id := range []string{"a", "b"} {
		resp, err := app.Test(httptest.NewRequest("GET", "/videos/"+id, nil))
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
	}
	m.Engagement("likes")
	m.Upload()

	resp, err = app.Test(httptest.NewRequest("GET", "/metrics", nil))
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	text := string(body)
	assert.Contains(t, text, `clips_http_requests_total{method="GET",route="/videos/:id",status="200"} 2`)
	assert.Contains(t, text, `clips_http_requests_total{method="GET",route="/missing/:id",status="404"} 1`)
	assert.Contains(t, text, `clips_engagement_total{counter="likes"} 1`)
	assert.Contains(t, text, "clips_uploads_total 1")
}
