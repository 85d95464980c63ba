// Package session keeps the server side sessions of logged in users and the
// login attempt counters in a fiber.Storage.
package session

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
)

const (
	// CookieName is the name of the session cookie.
	CookieName = "session"

	bearerPrefix = "Bearer "
	keyPrefix    = "sess:"
)

// ErrNoSession is returned when a session id is unknown or expired.
var ErrNoSession = errors.New("no session")

// Store is the global session store instance.
var Store *session.Store

// User is the part of an account kept in the session.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

// Data represents the session data structure.
type Data struct {
	User      User      `json:"user"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Write writes the session data for the given session ID with an expiration duration.
func (s *Data) Write(sessionID string, exp time.Duration) error {
	s.ExpiresAt = time.Now().Add(exp).UTC()

	out, err := json.Marshal(s)
	if err != nil {
		return err
	}

	return Store.Storage.Set(keyPrefix+sessionID, out, exp)
}

// Read reads the session data for the given session ID.
func (s *Data) Read(sessionID string) error {
	if sessionID == "" {
		return ErrNoSession
	}

	byteData, err := Store.Storage.Get(keyPrefix + sessionID)
	if err != nil {
		return err
	}

	if len(byteData) == 0 {
		return ErrNoSession
	}

	if err = json.Unmarshal(byteData, s); err != nil {
		return err
	}

	// not every storage drops expired entries on read
	if !s.ExpiresAt.IsZero() && time.Now().After(s.ExpiresAt) {
		return ErrNoSession
	}

	return nil
}

// Delete removes the session with the given ID.
func Delete(sessionID string) error {
	if sessionID == "" {
		return nil
	}

	return Store.Storage.Delete(keyPrefix + sessionID)
}

// Init initializes the session store with the provided storage backend.
func Init(storage fiber.Storage) {
	if storage == nil {
		panic("storage is nil")
	}

	Store = session.New(session.Config{
		Storage:    storage,
		CookieName: CookieName,
	})
}

// GenerateSessionID generates a new secure random session ID.
func GenerateSessionID() (string, error) {
	// 32 bytes = 256 bits
	b := make([]byte, 32) //nolint:mnd
	if _, err := rand.Read(b); err != nil {
		return "", err
	}

	return hex.EncodeToString(b), nil
}

// Token returns the session id of the request, from the session cookie or a
// bearer Authorization header.
func Token(c *fiber.Ctx) string {
	if auth := c.Get(fiber.HeaderAuthorization); strings.HasPrefix(auth, bearerPrefix) {
		return strings.TrimSpace(strings.TrimPrefix(auth, bearerPrefix))
	}

	return c.Cookies(CookieName)
}
