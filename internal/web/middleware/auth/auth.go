package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	fiberlogger "github.com/guit-county/guit-portal/internal/logger/adapter/fiber"
	"github.com/guit-county/guit-portal/internal/resource"
	"github.com/guit-county/guit-portal/internal/web/session"
)

const (
	// LocalsCurrentUser is the fiber.Locals key of the session user.
	LocalsCurrentUser = "CurrentUser"
	// LocalsToken is the fiber.Locals key of the session id.
	LocalsToken = "SessionToken"
)

// Middleware is a Fiber middleware that loads the session of the request.
func Middleware(c *fiber.Ctx) error {
	token := session.Token(c)
	if token == "" {
		return c.Next()
	}

	sessData := new(session.Data)
	if err := sessData.Read(token); err != nil {
		return c.Next()
	}

	c.Locals(LocalsCurrentUser, sessData.User)
	c.Locals(LocalsToken, token)
	c.Locals(fiberlogger.LocalsUser, sessData.User.Username)

	return c.Next()
}

// CurrentUser returns the session user of the request.
func CurrentUser(c *fiber.Ctx) (session.User, bool) {
	u, ok := c.Locals(LocalsCurrentUser).(session.User)
	return u, ok
}

// RequireSession rejects requests without a valid session.
func RequireSession(c *fiber.Ctx) error {
	if _, ok := CurrentUser(c); !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	return c.Next()
}

// RequireAdmin rejects requests without an admin session.
func RequireAdmin(c *fiber.Ctx) error {
	u, ok := CurrentUser(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	if u.Role != resource.RoleAdmin {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Forbidden"})
	}

	return c.Next()
}

// ProtectWrites returns a middleware applying RequireAdmin to mutating requests.
// With enabled false it lets everything through.
func ProtectWrites(enabled bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !enabled || !isWrite(c.Method()) || IsPublicSubmission(c.Method(), c.Path()) {
			return c.Next()
		}

		return RequireAdmin(c)
	}
}

func isWrite(method string) bool {
	switch method {
	case fiber.MethodPost, fiber.MethodPut, fiber.MethodPatch, fiber.MethodDelete:
		return true
	default:
		return false
	}
}

// IsPublicSubmission reports whether the request is one anonymous visitors may send.
func IsPublicSubmission(method, path string) bool {
	path = strings.TrimSuffix(strings.ToLower(path), "/")

	if strings.HasPrefix(path, "/api/auth/") {
		return true
	}

	if method != fiber.MethodPost {
		return false
	}

	switch path {
	case "/api/" + resource.CollectionMessages, "/api/" + resource.CollectionNewsletter:
		return true
	}

	rest, ok := strings.CutPrefix(path, "/api/"+resource.CollectionNews+"/")
	if !ok {
		return false
	}

	id, action, _ := strings.Cut(rest, "/")

	return id != "" && action == "like"
}
