// Package crud mounts the list, get, create, update and delete routes of a resource.
package crud

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/guit-county/guit-portal/internal/config"
	"github.com/guit-county/guit-portal/internal/resource"
	"github.com/guit-county/guit-portal/internal/store"
	"github.com/guit-county/guit-portal/internal/web/handler"
)

const (
	idParam = "id"
	idPath  = "/:" + idParam

	msgNotFound = "Not Found"
	msgDeleted  = "Deleted successfully"
)

// list order of the admin panel
var recentFirst = store.Query{Order: store.Order{Field: store.OrderUpdated, Desc: true}}

// Service is the crud handler of one resource.
type Service struct {
	desc   resource.Descriptor
	cfg    *config.Config
	store  store.Store
	create fiber.Handler
}

// Option changes a Service.
type Option func(s *Service)

// WithCreate replaces the create route of the resource.
func WithCreate(h fiber.Handler) Option {
	return func(s *Service) {
		s.create = h
	}
}

// New returns the crud handler of the resource d.
func New(d resource.Descriptor, opts ...Option) *Service {
	s := &Service{desc: d}
	s.create = s.Create

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Init registers the routes below router/<resource>.
func (s *Service) Init(router fiber.Router, cfg *config.Config, st store.Store) error {
	if router == nil || cfg == nil || st == nil {
		return handler.ErrNil
	}

	s.cfg = cfg
	s.store = st

	router.Route("/"+s.desc.Name, func(r fiber.Router) {
		r.Get(handler.RouterRootPath, s.List)
		r.Get(idPath, s.Get)
		r.Post(handler.RouterRootPath, s.create)
		r.Put(idPath, s.Update)
		r.Delete(idPath, s.Delete)
	})

	return nil
}

// List returns every document of the resource, most recently updated first.
func (s *Service) List(c *fiber.Ctx) error {
	docs, err := s.store.List(c.UserContext(), s.desc.Name, recentFirst)
	if err != nil {
		return handler.StoreError(c, err)
	}

	views, err := s.desc.Views(docs)
	if err != nil {
		return handler.StoreError(c, err)
	}

	return c.JSON(views)
}

// Get returns one document.
func (s *Service) Get(c *fiber.Ctx) error {
	doc, err := s.store.Get(c.UserContext(), s.desc.Name, c.Params(idParam))
	if errors.Is(err, store.ErrNotFound) {
		return handler.NotFound(c, msgNotFound)
	}

	if err != nil {
		return handler.StoreError(c, err)
	}

	return s.send(c, fiber.StatusOK, doc)
}

// Create stores the body as a new document.
func (s *Service) Create(c *fiber.Ctx) error {
	body, err := handler.Body(c)
	if err != nil {
		return handler.Error(c, fiber.StatusBadRequest, err.Error())
	}

	doc, err := s.desc.NewDocument(body)
	if err != nil {
		return handler.StoreError(c, err)
	}

	if err = s.store.Create(c.UserContext(), &doc); err != nil {
		return handler.StoreError(c, err)
	}

	log.Debug().Str("resource", s.desc.Name).Str("id", doc.ID).Msg("document created")

	return s.send(c, fiber.StatusCreated, doc)
}

// Update merges the body into the document.
func (s *Service) Update(c *fiber.Ctx) error {
	body, err := handler.Body(c)
	if err != nil {
		return handler.Error(c, fiber.StatusBadRequest, err.Error())
	}

	doc, err := s.store.Update(c.UserContext(), s.desc.Name, c.Params(idParam), func(doc *store.Document) error {
		return s.desc.Merge(doc, body)
	})
	if errors.Is(err, store.ErrNotFound) {
		return handler.NotFound(c, msgNotFound)
	}

	if err != nil {
		return handler.StoreError(c, err)
	}

	return s.send(c, fiber.StatusOK, doc)
}

// Delete removes the document. Deleting a missing document succeeds.
func (s *Service) Delete(c *fiber.Ctx) error {
	if err := s.store.Delete(c.UserContext(), s.desc.Name, c.Params(idParam)); err != nil {
		return handler.StoreError(c, err)
	}

	return c.JSON(fiber.Map{"message": msgDeleted})
}

func (s *Service) send(c *fiber.Ctx, status int, doc store.Document) error {
	view, err := s.desc.View(doc)
	if err != nil {
		return handler.StoreError(c, err)
	}

	return c.Status(status).JSON(view)
}
