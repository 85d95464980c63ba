// Package singleton serves the site settings and the commissioner save.
package singleton

import (
	"github.com/gofiber/fiber/v2"

	"github.com/guit-county/guit-portal/internal/config"
	ctrl "github.com/guit-county/guit-portal/internal/db/controller/singleton"
	"github.com/guit-county/guit-portal/internal/resource"
	"github.com/guit-county/guit-portal/internal/store"
	"github.com/guit-county/guit-portal/internal/web/handler"
)

// SettingsPath is the path of the settings below the api group.
const SettingsPath = "/" + resource.CollectionSettings

// Service is the singleton handler service.
type Service struct {
	cfg          *config.Config
	store        store.Store
	settings     resource.Descriptor
	commissioner resource.Descriptor
}

// Handler is the singleton handler.
var Handler = Service{}

// Init registers the settings routes. The commissioner save is mounted by the
// crud handler through SaveCommissioner.
func (s *Service) Init(router fiber.Router, cfg *config.Config, st store.Store) error {
	if router == nil || cfg == nil || st == nil {
		return handler.ErrNil
	}

	s.cfg = cfg
	s.store = st
	s.settings = resource.MustLookup(resource.CollectionSettings)
	s.commissioner = resource.MustLookup(resource.CollectionCommissioner)

	router.Get(SettingsPath, s.GetSettings)
	router.Put(SettingsPath, s.PutSettings)

	return nil
}

// GetSettings returns the settings, creating them empty on first access.
func (s *Service) GetSettings(c *fiber.Ctx) error {
	doc, err := ctrl.GetOrCreate(c.UserContext(), s.store, s.settings)
	if err != nil {
		return handler.Error(c, fiber.StatusInternalServerError, err.Error())
	}

	return s.send(c, fiber.StatusOK, s.settings, doc)
}

// PutSettings merges the body into the settings.
func (s *Service) PutSettings(c *fiber.Ctx) error {
	body, err := handler.Body(c)
	if err != nil {
		return handler.Error(c, fiber.StatusBadRequest, err.Error())
	}

	doc, _, err := ctrl.Save(c.UserContext(), s.store, s.settings, body)
	if err != nil {
		return singletonError(c, err)
	}

	return s.send(c, fiber.StatusOK, s.settings, doc)
}

// SaveCommissioner merges the body into the live commissioner (200) or creates
// it (201).
func (s *Service) SaveCommissioner(c *fiber.Ctx) error {
	body, err := handler.Body(c)
	if err != nil {
		return handler.Error(c, fiber.StatusBadRequest, err.Error())
	}

	doc, created, err := ctrl.Save(c.UserContext(), s.store, s.commissioner, body)
	if err != nil {
		return singletonError(c, err)
	}

	status := fiber.StatusOK
	if created {
		status = fiber.StatusCreated
	}

	return s.send(c, status, s.commissioner, doc)
}

// singleton writes only answer 400 for coercion errors
func singletonError(c *fiber.Ctx, err error) error {
	if handler.IsClientError(err) {
		return handler.Error(c, fiber.StatusBadRequest, err.Error())
	}

	return handler.Error(c, fiber.StatusInternalServerError, err.Error())
}

func (s *Service) send(c *fiber.Ctx, status int, d resource.Descriptor, doc store.Document) error {
	view, err := d.View(doc)
	if err != nil {
		return handler.Error(c, fiber.StatusInternalServerError, err.Error())
	}

	return c.Status(status).JSON(view)
}
