package handler

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/guit-county/guit-portal/internal/resource"
	"github.com/guit-county/guit-portal/internal/store"
)

// ErrNil is returned by Init when a dependency is missing.
var ErrNil = errors.New(ErrNilRCSMsg)

// NotFound answers 404 {"message": msg}.
func NotFound(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": msg})
}

// Error answers status {"error": msg}.
func Error(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(fiber.Map{"error": msg})
}

// IsClientError reports whether err was caused by the request body.
func IsClientError(err error) bool {
	return errors.Is(err, resource.ErrValidation) || errors.Is(err, store.ErrDuplicateKey)
}

// StoreError answers 400 for client errors and 500 for everything else.
func StoreError(c *fiber.Ctx, err error) error {
	if IsClientError(err) {
		return Error(c, fiber.StatusBadRequest, err.Error())
	}

	log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("store request failed")

	return Error(c, fiber.StatusInternalServerError, err.Error())
}

// ErrorHandler is the fiber error handler of the app. Errors returned by handlers
// become {"error": msg} with the fiber status code, 500 for other errors.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}

	if code >= fiber.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.Path()).Msg("request failed")
	}

	return Error(c, code, err.Error())
}

// Body returns the request body as JSON. Url encoded forms are converted to a
// JSON object of strings.
func Body(c *fiber.Ctx) ([]byte, error) {
	if !strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEApplicationForm) {
		return c.Body(), nil
	}

	form := make(map[string]string)
	c.Request().PostArgs().VisitAll(func(key, value []byte) {
		form[string(key)] = string(value)
	})

	return json.Marshal(form)
}
