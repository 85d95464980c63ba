// Package like serves the like counter of news articles.
package like

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/guit-county/guit-portal/internal/config"
	"github.com/guit-county/guit-portal/internal/resource"
	"github.com/guit-county/guit-portal/internal/store"
	"github.com/guit-county/guit-portal/internal/web/handler"
)

// Path is the route below the api group.
const Path = "/" + resource.CollectionNews + "/:id/like"

// Service is the like handler service.
type Service struct {
	cfg   *config.Config
	store store.Store
	news  resource.Descriptor
}

// Handler is the like handler.
var Handler = Service{}

// Init registers the route.
func (s *Service) Init(router fiber.Router, cfg *config.Config, st store.Store) error {
	if router == nil || cfg == nil || st == nil {
		return handler.ErrNil
	}

	s.cfg = cfg
	s.store = st
	s.news = resource.MustLookup(resource.CollectionNews)

	router.Post(Path, s.Post)

	return nil
}

// Post increments the likes of the article in one store update.
func (s *Service) Post(c *fiber.Ctx) error {
	var likes resource.FlexInt

	_, err := s.store.Update(c.UserContext(), s.news.Name, c.Params("id"), func(doc *store.Document) error {
		return s.news.Mutate(doc, func(e resource.Entity) error {
			n := e.(*resource.News)
			n.Likes++
			likes = n.Likes

			return nil
		})
	})
	if errors.Is(err, store.ErrNotFound) {
		return handler.NotFound(c, "News not found")
	}

	if err != nil {
		return handler.Error(c, fiber.StatusInternalServerError, err.Error())
	}

	return c.JSON(fiber.Map{"success": true, "likes": likes})
}
