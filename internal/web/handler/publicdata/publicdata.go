// Package publicdata serves everything the public site renders in one response.
package publicdata

import (
	"context"
	"errors"
	"sync"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"

	"github.com/guit-county/guit-portal/internal/config"
	ctrl "github.com/guit-county/guit-portal/internal/db/controller/singleton"
	"github.com/guit-county/guit-portal/internal/metrics"
	"github.com/guit-county/guit-portal/internal/resource"
	"github.com/guit-county/guit-portal/internal/store"
	"github.com/guit-county/guit-portal/internal/tracing"
	"github.com/guit-county/guit-portal/internal/web/handler"
)

// Path is the path of the endpoint below the api group.
const Path = "/public-data"

// Stats are the counters shown on the home page.
type Stats struct {
	TotalStudents int64 `json:"totalStudents"`
	TotalNews     int64 `json:"totalNews"`
}

// Service is the public data handler service.
type Service struct {
	cfg   *config.Config
	store store.Store
	lists []resource.Descriptor
}

// Handler is the public data handler.
var Handler = Service{}

// Init registers the route.
func (s *Service) Init(router fiber.Router, cfg *config.Config, st store.Store) error {
	if router == nil || cfg == nil || st == nil {
		return handler.ErrNil
	}

	s.cfg = cfg
	s.store = st
	s.lists = s.lists[:0]

	for _, d := range resource.All() {
		if d.Public != nil {
			s.lists = append(s.lists, d)
		}
	}

	router.Get(Path, s.Get)

	return nil
}

// Get reads every public collection concurrently. A failed read is logged and
// replaced by its empty value, the endpoint itself always answers 200.
func (s *Service) Get(c *fiber.Ctx) error {
	ctx := c.UserContext()

	var (
		mu  sync.Mutex
		out = make(fiber.Map, len(s.lists)+3)
		g   errgroup.Group
	)

	set := func(key string, value any) {
		mu.Lock()
		out[key] = value
		mu.Unlock()
	}

	for _, d := range s.lists {
		g.Go(func() error {
			views, err := s.list(ctx, d)
			if err != nil {
				s.fail(d.Name, err)
				views = []resource.Entity{}
			}

			set(d.Name, views)

			return nil
		})
	}

	for _, name := range []string{resource.CollectionSettings, resource.CollectionCommissioner} {
		g.Go(func() error {
			view, err := s.singleton(ctx, resource.MustLookup(name))
			if err != nil {
				s.fail(name, err)
				view = nil
			}

			set(name, view)

			return nil
		})
	}

	var stats Stats

	g.Go(func() error {
		stats.TotalStudents = s.count(ctx, "stats.totalStudents", resource.CollectionStudents, resource.StatusActive)
		return nil
	})
	g.Go(func() error {
		stats.TotalNews = s.count(ctx, "stats.totalNews", resource.CollectionNews, resource.StatusPublished)
		return nil
	})

	_ = g.Wait()

	out["stats"] = stats

	return c.JSON(out)
}

func (s *Service) list(ctx context.Context, d resource.Descriptor) ([]resource.Entity, error) {
	ctx, span := tracing.Tracer().Start(ctx, "publicdata.list")
	span.SetAttributes(attribute.String("collection", d.Name))
	defer span.End()

	docs, err := s.store.List(ctx, d.Name, *d.Public)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	return d.Views(docs)
}

// singleton returns the live document or nil when there is none. It never creates one.
func (s *Service) singleton(ctx context.Context, d resource.Descriptor) (resource.Entity, error) {
	ctx, span := tracing.Tracer().Start(ctx, "publicdata.singleton")
	span.SetAttributes(attribute.String("collection", d.Name))
	defer span.End()

	doc, err := ctrl.Get(ctx, s.store, d)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}

	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	return d.View(doc)
}

func (s *Service) count(ctx context.Context, key, collection, status string) int64 {
	ctx, span := tracing.Tracer().Start(ctx, "publicdata.count")
	span.SetAttributes(attribute.String("collection", collection))
	defer span.End()

	n, err := s.store.Count(ctx, collection, store.Query{Status: status})
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		s.fail(key, err)

		return 0
	}

	return n
}

func (s *Service) fail(key string, err error) {
	metrics.PublicDataFailure(key)
	log.Warn().Err(err).Str("key", key).Msg("public data read failed")
}
