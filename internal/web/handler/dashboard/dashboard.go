// Package dashboard provides the dashboard page with the document counters and
// the latest news and messages.
package dashboard

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/guit-county/guit-portal/internal/config"
	"github.com/guit-county/guit-portal/internal/resource"
	"github.com/guit-county/guit-portal/internal/store"
	"github.com/guit-county/guit-portal/internal/web/handler"
	"github.com/guit-county/guit-portal/internal/web/handler/stats"
	"github.com/guit-county/guit-portal/internal/web/navigation"
)

const (
	// Path is the path to the dashboard page.
	Path = handler.RootPath + "dashboard"

	// TemplateName is the name of the dashboard template.
	TemplateName = "dashboard/dashboard"

	// RecentLimit is the number of recent records shown.
	RecentLimit = 5
)

// recentCollections are the collections the recent list is built from.
var recentCollections = []string{resource.CollectionNews, resource.CollectionMessages}

// Counter is one tile of the counter grid.
type Counter struct {
	Name  string
	Count int64
}

// Item is a recently updated record.
type Item struct {
	ID         string
	Collection string
	Title      string
	UpdatedAt  time.Time
	Ago        string
}

// Data represents the complete dashboard data.
type Data struct {
	Counters []Counter
	Recent   []Item
}

// Service is the dashboard handler service.
type Service struct {
	handler.Service
	cfg *config.Config
	st  store.Store
}

// Handler is the dashboard handler.
var Handler = Service{}

// Init initializes the dashboard handler.
func (s *Service) Init(router fiber.Router, cfg *config.Config, st store.Store) error {
	if router == nil || cfg == nil || st == nil {
		return handler.ErrNil
	}

	s.st = st
	s.cfg = cfg

	router.Get(Path, s.Get)

	return nil
}

// Get handles the dashboard page rendering.
func (s *Service) Get(c *fiber.Ctx) error {
	nav := navigation.NewContext(s.cfg.Title, "Dashboard", "dashboard").
		AddBreadcrumb("Home", handler.RootPath, false).
		AddBreadcrumb("Dashboard", Path, true)

	for _, d := range resource.All() {
		nav.AddMenuItem(label(d.Name), handler.APIPath+"/"+d.Name, d.Name)
	}

	data, err := s.load(c.UserContext())
	if err != nil {
		log.Error().Err(err).Msg("failed to load dashboard")

		return c.Status(fiber.StatusInternalServerError).SendString("Failed to load dashboard: " + err.Error())
	}

	log.Debug().
		Int("counters", len(data.Counters)).
		Int("recent", len(data.Recent)).
		Msg("dashboard data retrieved")

	return c.Render(TemplateName, fiber.Map{
		"Navigation": nav,
		"Data":       data,
	}, handler.BaseLayout)
}

func (s *Service) load(ctx context.Context) (Data, error) {
	var (
		data   Data
		counts map[string]int64
		recent []Item
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		counts, err = stats.Count(gctx, s.st)

		return err
	})

	g.Go(func() error {
		var err error
		recent, err = s.recent(gctx)

		return err
	})

	if err := g.Wait(); err != nil {
		return Data{}, err
	}

	data.Counters = make([]Counter, 0, len(counts))
	for name, n := range counts {
		data.Counters = append(data.Counters, Counter{Name: name, Count: n})
	}

	sort.Slice(data.Counters, func(i, j int) bool {
		return data.Counters[i].Name < data.Counters[j].Name
	})

	data.Recent = recent

	return data, nil
}

// recent returns the latest updated records of the recent collections.
func (s *Service) recent(ctx context.Context) ([]Item, error) {
	items := make([]Item, 0, RecentLimit*len(recentCollections))
	q := store.Query{Order: store.Order{Field: store.OrderUpdated, Desc: true}, Limit: RecentLimit}

	for _, name := range recentCollections {
		d := resource.MustLookup(name)

		docs, err := s.st.List(ctx, name, q)
		if err != nil {
			return nil, err
		}

		views, err := d.Views(docs)
		if err != nil {
			return nil, err
		}

		for _, e := range views {
			m := resource.MetaOf(e)
			items = append(items, Item{
				ID:         m.ID,
				Collection: name,
				Title:      resource.DisplayTitle(e),
				UpdatedAt:  m.UpdatedAt,
				Ago:        humanize.Time(m.UpdatedAt),
			})
		}
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].UpdatedAt.After(items[j].UpdatedAt)
	})

	if len(items) > RecentLimit {
		items = items[:RecentLimit]
	}

	return items, nil
}

func label(name string) string {
	if name == "" {
		return name
	}

	return strings.ToUpper(name[:1]) + name[1:]
}
