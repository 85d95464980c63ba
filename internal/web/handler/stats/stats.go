// Package stats serves the document counters of the admin dashboard.
package stats

import (
	"context"
	"sync"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/sync/errgroup"

	"github.com/guit-county/guit-portal/internal/config"
	"github.com/guit-county/guit-portal/internal/resource"
	"github.com/guit-county/guit-portal/internal/store"
	"github.com/guit-county/guit-portal/internal/web/handler"
)

// Path is the path of the endpoint below the api group.
const Path = "/stats"

// Counted are the collections counted in full.
var Counted = []string{
	resource.CollectionServices,
	resource.CollectionEducation,
	resource.CollectionHealthcare,
	resource.CollectionPoliticians,
	resource.CollectionNews,
	resource.CollectionArtists,
	resource.CollectionLeaders,
	resource.CollectionStudents,
	resource.CollectionUsers,
	resource.CollectionSlides,
	resource.CollectionPayams,
	resource.CollectionBomas,
	resource.CollectionSports,
	resource.CollectionMilitary,
	resource.CollectionHistory,
	resource.CollectionMessages,
	resource.CollectionCommissioner,
}

type counter struct {
	key        string
	collection string
	query      store.Query
}

func counters() []counter {
	out := make([]counter, 0, len(Counted)+2)
	for _, name := range Counted {
		out = append(out, counter{key: name, collection: name})
	}

	return append(out,
		counter{key: "unreadMessages", collection: resource.CollectionMessages, query: store.Query{NotStatus: resource.StatusRead}},
		counter{key: "publishedNews", collection: resource.CollectionNews, query: store.Query{Status: resource.StatusPublished}},
	)
}

// Service is the stats handler service.
type Service struct {
	cfg   *config.Config
	store store.Store
}

// Handler is the stats handler.
var Handler = Service{}

// Init registers the route.
func (s *Service) Init(router fiber.Router, cfg *config.Config, st store.Store) error {
	if router == nil || cfg == nil || st == nil {
		return handler.ErrNil
	}

	s.cfg = cfg
	s.store = st

	router.Get(Path, s.Get)

	return nil
}

// Count runs every counter concurrently. The first failure fails the whole result.
func Count(ctx context.Context, st store.Store) (map[string]int64, error) {
	list := counters()
	out := make(map[string]int64, len(list))

	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)

	for _, cnt := range list {
		g.Go(func() error {
			n, err := st.Count(ctx, cnt.collection, cnt.query)
			if err != nil {
				return err
			}

			mu.Lock()
			out[cnt.key] = n
			mu.Unlock()

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return out, nil
}

// Get answers the counters or 500 if one failed.
func (s *Service) Get(c *fiber.Ctx) error {
	out, err := Count(c.UserContext(), s.store)
	if err != nil {
		return handler.Error(c, fiber.StatusInternalServerError, err.Error())
	}

	return c.JSON(out)
}
