package fiber_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guit-county/guit-portal/internal/logger"
	adapter "github.com/guit-county/guit-portal/internal/logger/adapter/fiber"
)

// accessLine is the json shape written by the middleware.
type accessLine struct {
	IP     string `json:"IP"`
	Status int    `json:"status"`
	URI    string `json:"URI"`
	Method string `json:"method"`
	Host   string `json:"host"`
	User   string `json:"user"`
	Error  string `json:"error"`
}

func consoleConfig() adapter.Config {
	return adapter.Config{
		Config: logger.Log{
			EnableAccessLogToConsole: true,
			DisableCheckAlive:        true,
			Console:                  logger.Console{Enabled: true},
		},
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		name       string
		config     adapter.Config
		targetPath string
		want       *accessLine
	}{
		{
			name:       "nothing enabled no output",
			targetPath: "/",
		},
		{
			name:       "root logged as json",
			config:     consoleConfig(),
			targetPath: "/",
			want:       &accessLine{IP: "0.0.0.0", Status: 200, URI: "/", Method: fiber.MethodGet, Host: "example.com"},
		},
		{
			name:       "query string kept",
			config:     consoleConfig(),
			targetPath: "/api/news?status=published",
			want: &accessLine{
				IP: "0.0.0.0", Status: 200, URI: "/api/news?status=published", Method: fiber.MethodGet, Host: "example.com",
			},
		},
		{
			name:       "double slash kept",
			config:     consoleConfig(),
			targetPath: "//api//news",
			want: &accessLine{
				IP: "0.0.0.0", Status: 404, URI: "//api//news", Method: fiber.MethodGet, Host: "example.com",
				Error: "Cannot GET //api//news",
			},
		},
		{
			name:       "checkalive skipped",
			config:     consoleConfig(),
			targetPath: "/checkalive",
		},
		{
			name:       "session user logged",
			config:     consoleConfig(),
			targetPath: "/whoami",
			want: &accessLine{
				IP: "0.0.0.0", Status: 200, URI: "/whoami", Method: fiber.MethodGet, Host: "example.com", User: "admin",
			},
		},
		{
			name:       "handler error logged",
			config:     consoleConfig(),
			targetPath: "/broken",
			want: &accessLine{
				IP: "0.0.0.0", Status: 503, URI: "/broken", Method: fiber.MethodGet, Host: "example.com",
				Error: "store unavailable",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output := runMiddleware(t, tt.targetPath, tt.config)

			if tt.want == nil {
				assert.Empty(t, output)
				return
			}

			require.NotEmpty(t, output)

			var got accessLine
			require.NoError(t, json.Unmarshal([]byte(output), &got))
			assert.Equal(t, *tt.want, got)
		})
	}
}

func runMiddleware(t *testing.T, targetPath string, adapterConfig adapter.Config) string {
	t.Helper()

	stdout := os.Stdout

	r, w, err := os.Pipe()
	require.NoError(t, err)

	os.Stdout = w

	app := fiber.New(fiber.Config{CaseSensitive: true, Immutable: true})
	app.Use(adapter.New(adapterConfig))

	app.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.SendString("hello test")
	})
	app.Get("/api/news", func(ctx *fiber.Ctx) error {
		return ctx.JSON([]string{})
	})
	app.Get("/checkalive", func(ctx *fiber.Ctx) error {
		return ctx.SendString("OK")
	})
	app.Get("/whoami", func(ctx *fiber.Ctx) error {
		ctx.Locals(adapter.LocalsUser, "admin")
		return ctx.SendString("admin")
	})
	app.Get("/broken", func(_ *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusServiceUnavailable, "store unavailable")
	})

	_, testErr := app.Test(httptest.NewRequest(fiber.MethodGet, targetPath, nil), -1)

	outC := make(chan string)

	go func() {
		var buf bytes.Buffer
		_, _ = io.Copy(&buf, r)
		outC <- buf.String()
	}()

	_ = w.Close()
	os.Stdout = stdout

	out := <-outC

	require.NoError(t, testErr)

	return out
}
