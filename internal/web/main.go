// Package web assembles the fiber app: middleware, the json api, the dashboard
// and the static files.
package web

import (
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/filesystem"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/template/html/v2"
	"github.com/rs/zerolog/log"

	"github.com/guit-county/guit-portal/internal/config"
	fiberlogger "github.com/guit-county/guit-portal/internal/logger/adapter/fiber"
	"github.com/guit-county/guit-portal/internal/metrics"
	"github.com/guit-county/guit-portal/internal/resource"
	"github.com/guit-county/guit-portal/internal/store"
	"github.com/guit-county/guit-portal/internal/tracing"
	"github.com/guit-county/guit-portal/internal/web/handler"
	"github.com/guit-county/guit-portal/internal/web/handler/crud"
	"github.com/guit-county/guit-portal/internal/web/handler/dashboard"
	"github.com/guit-county/guit-portal/internal/web/handler/like"
	"github.com/guit-county/guit-portal/internal/web/handler/login"
	"github.com/guit-county/guit-portal/internal/web/handler/logout"
	"github.com/guit-county/guit-portal/internal/web/handler/publicdata"
	"github.com/guit-county/guit-portal/internal/web/handler/singleton"
	"github.com/guit-county/guit-portal/internal/web/handler/stats"
	"github.com/guit-county/guit-portal/internal/web/handler/upload"
	"github.com/guit-county/guit-portal/internal/web/middleware/auth"
)

const (
	// CheckAlivePath answers the load balancer health check.
	CheckAlivePath = "/checkalive"

	staticPath = "/static"
	spaIndex   = "index.html"
)

// Service represents the web service.
type Service struct {
	App          *fiber.App
	cfg          *config.Config
	fastShutDown bool
	alive        atomic.Bool
	store        store.Store
}

// Start starts the web service on the given address and blocks until it stopped.
func (s *Service) Start(addr string) error {
	var (
		doneFiber = make(chan error)
	)

	s.alive.Store(true)

	go func() {
		err := s.App.Listen(addr)
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}

		doneFiber <- err
	}()

	return <-doneFiber // wait for fiber to stop
}

// WaitShutdown waits for SIGINT or SIGTERM and shuts the server down gracefully.
func (s *Service) WaitShutdown() {
	irqSig := make(chan os.Signal, 1)
	signal.Notify(irqSig, syscall.SIGINT, syscall.SIGTERM)

	sig := <-irqSig
	log.Info().Msgf("shutdown request (signal: %v)", sig)

	s.Shutdown()
}

// Shutdown stops the http server. Unless fastShutDown is set the health check
// answers 503 for the configured shutdown time first.
func (s *Service) Shutdown() {
	// Graceful shutdown for reverse proxies: set status to fail, so checkalive returns fail.
	if !s.fastShutDown {
		log.Info().Msgf(
			"graceful shutdown: return 503 while %d seconds to let LB to remove this pod from active targets",
			s.cfg.Webserver.ShutDownTime,
		)

		s.alive.Store(false)
		time.Sleep(time.Duration(s.cfg.Webserver.ShutDownTime) * time.Second)
	}

	log.Info().Msg("stopping http server ...")

	if err := s.App.Shutdown(); err != nil {
		log.Error().Err(err).Msg("")
	}

	log.Info().Msg("http server was stopped ... good bye...")
}

// SetFastShutDown skips the 503 phase of Shutdown.
func (s *Service) SetFastShutDown(fast bool) {
	s.fastShutDown = fast
}

// CheckAlive answers 200 while serving and 503 during shutdown.
func (s *Service) CheckAlive(c *fiber.Ctx) error {
	if !s.alive.Load() {
		return c.Status(fiber.StatusServiceUnavailable).SendString("shutting down")
	}

	return c.SendString("OK")
}

func newTemplateEngine(cfg *config.Config) *html.Engine {
	httpFS := http.FS(templateEmbedFS{embeddedTemplates})
	templateEngine := html.NewFileSystem(httpFS, ".gohtml")

	// in debug mode, use local filesystem for templates
	if cfg.DevMode {
		templateEngine = html.New("./internal/web/templates", ".gohtml")
		templateEngine.ShouldReload = true

		log.Warn().Msg("debug mode enabled: using local filesystem for templates")
	}

	templateEngine.AddFunc("comma", func(n int64) string {
		return humanize.Comma(n)
	})

	return templateEngine
}

// New creates the web service and registers every route.
func New(cfg *config.Config, st store.Store) (*Service, error) {
	if cfg == nil {
		panic("config cannot be nil")
	}

	if st == nil {
		panic("store cannot be nil")
	}

	title := cfg.Title
	if title == "" {
		title = "guit-portal"
	}

	// create fiber app
	app := fiber.New(
		fiber.Config{
			ReadBufferSize: 8192,
			AppName:        title,
			CaseSensitive:  true,
			Prefork:        false,
			Immutable:      true,
			BodyLimit:      cfg.Webserver.BodyLimit,
			ErrorHandler:   handler.ErrorHandler,
			Views:          newTemplateEngine(cfg),
		},
	)

	service := &Service{
		cfg:   cfg,
		App:   app,
		store: st,
	}
	service.alive.Store(true)

	if !cfg.Webserver.DisableRecover {
		app.Use(recover.New(recover.Config{EnableStackTrace: cfg.DevMode}))
	}

	app.Use(tracing.Middleware())
	app.Use(metrics.Middleware())
	app.Use(fiberlogger.New(fiberlogger.Config{Config: cfg.Log, CheckAliveURI: CheckAlivePath}))

	app.Get(CheckAlivePath, service.CheckAlive)
	app.Get(metrics.Path, metrics.Handler())

	// serve embedded static files
	app.Use(staticPath,
		filesystem.New(
			filesystem.Config{
				Root:       http.FS(embeddedStaticFiles),
				PathPrefix: "static",
				Browse:     cfg.Webserver.BrowseStatic,
			},
		),
	)

	// session lookup for every request, the api decides what needs one
	app.Use(auth.Middleware)

	api := app.Group(handler.APIPath,
		cors.New(cors.Config{AllowOrigins: cfg.Webserver.CORSOrigins}),
		auth.ProtectWrites(cfg.Auth.ProtectWrites),
	)

	if err := initAPI(api, cfg, st); err != nil {
		return nil, err
	}

	app.Static(upload.URLPrefix, cfg.Upload.Dir)

	if err := dashboard.Handler.Init(app, cfg, st); err != nil {
		return nil, err
	}

	if cfg.Public.Dir != "" {
		servePublic(app, cfg.Public.Dir)
	} else {
		// redirect root to dashboard
		app.Get(handler.RootPath, func(c *fiber.Ctx) error {
			return c.Redirect(dashboard.Path)
		})
	}

	return service, nil
}

func initAPI(api fiber.Router, cfg *config.Config, st store.Store) error {
	services := []handler.Service{
		&singleton.Handler,
		&publicdata.Handler,
		&stats.Handler,
		&like.Handler,
		&upload.Handler,
		&login.Handler,
		&logout.Handler,
	}

	for _, d := range resource.All() {
		switch d.Name {
		case resource.CollectionSettings:
			// served by the singleton handler only
			continue
		case resource.CollectionCommissioner:
			services = append(services, crud.New(d, crud.WithCreate(singleton.Handler.SaveCommissioner)))
		default:
			services = append(services, crud.New(d))
		}
	}

	for _, s := range services {
		if err := s.Init(api, cfg, st); err != nil {
			return err
		}
	}

	return nil
}

// servePublic serves the public site of dir. Unknown paths outside the api get
// its index.html so client side routes work.
func servePublic(app *fiber.App, dir string) {
	app.Static(handler.RootPath, dir)

	index := filepath.Join(dir, spaIndex)

	app.Get("*", func(c *fiber.Ctx) error {
		if strings.HasPrefix(c.Path(), handler.APIPath+"/") {
			return handler.NotFound(c, "Not Found")
		}

		return c.SendFile(index)
	})
}
