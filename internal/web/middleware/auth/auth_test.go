package auth

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guit-county/guit-portal/internal/web/session"
)

func newSession(t *testing.T, role string) string {
	t.Helper()

	id, err := session.GenerateSessionID()
	require.NoError(t, err)

	data := &session.Data{User: session.User{ID: "u-" + role, Username: role, Role: role}}
	require.NoError(t, data.Write(id, time.Hour))

	return id
}

func setupApp(protect bool) *fiber.App {
	app := fiber.New()
	app.Use(Middleware)

	api := app.Group("/api", ProtectWrites(protect))
	ok := func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) }

	api.Get("/news", ok)
	api.Post("/news", ok)
	api.Put("/news/:id", ok)
	api.Delete("/news/:id", ok)
	api.Post("/news/:id/like", ok)
	api.Post("/messages", ok)
	api.Post("/newsletter", ok)
	api.Post("/auth/login", ok)
	api.Get("/me", RequireSession, ok)

	return app
}

func TestProtectWrites(t *testing.T) {
	session.Init(session.NewMemoryStorage())

	admin := newSession(t, "admin")
	member := newSession(t, "member")

	tests := []struct {
		name    string
		protect bool
		method  string
		path    string
		token   string
		want    int
	}{
		{"disabled", false, fiber.MethodPost, "/api/news", "", fiber.StatusOK},
		{"read", true, fiber.MethodGet, "/api/news", "", fiber.StatusOK},
		{"create anonymous", true, fiber.MethodPost, "/api/news", "", fiber.StatusUnauthorized},
		{"update member", true, fiber.MethodPut, "/api/news/1", member, fiber.StatusForbidden},
		{"delete admin", true, fiber.MethodDelete, "/api/news/1", admin, fiber.StatusOK},
		{"unknown token", true, fiber.MethodDelete, "/api/news/1", "nope", fiber.StatusUnauthorized},
		{"like", true, fiber.MethodPost, "/api/news/1/like", "", fiber.StatusOK},
		{"contact message", true, fiber.MethodPost, "/api/messages", "", fiber.StatusOK},
		{"newsletter", true, fiber.MethodPost, "/api/newsletter/", "", fiber.StatusOK},
		{"login", true, fiber.MethodPost, "/api/auth/login", "", fiber.StatusOK},
		{"session required", false, fiber.MethodGet, "/api/me", "", fiber.StatusUnauthorized},
		{"session present", false, fiber.MethodGet, "/api/me", member, fiber.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := setupApp(tt.protect)

			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.token != "" {
				req.Header.Set(fiber.HeaderAuthorization, "Bearer "+tt.token)
			}

			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}

func TestIsPublicSubmission(t *testing.T) {
	assert.True(t, IsPublicSubmission(fiber.MethodPost, "/api/news/abc/like"))
	assert.False(t, IsPublicSubmission(fiber.MethodPost, "/api/news//like"))
	assert.False(t, IsPublicSubmission(fiber.MethodPost, "/api/news/abc/unlike"))
	assert.False(t, IsPublicSubmission(fiber.MethodDelete, "/api/messages"))
	assert.True(t, IsPublicSubmission(fiber.MethodPost, "/api/auth/register"))
}
