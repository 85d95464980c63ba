package metrics

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddleware(t *testing.T) {
	app := fiber.New()
	app.Use(Middleware())
	app.Get("/api/news/:id", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	app.Get(Path, Handler())

	before := testutil.ToFloat64(requests.WithLabelValues(fiber.MethodGet, "/api/news/:id", "200"))

	for _, id := range []string{"1", "2"} {
		resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/api/news/"+id, nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	}

	after := testutil.ToFloat64(requests.WithLabelValues(fiber.MethodGet, "/api/news/:id", "200"))
	assert.InDelta(t, 2, after-before, 0.001, "requests are counted by route pattern")

	PublicDataFailure("news")

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, Path, nil))
	require.NoError(t, err)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "http_requests_total")
	assert.Contains(t, string(body), `public_data_failures_total{key="news"}`)
}
