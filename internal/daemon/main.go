// Package daemon wires the store, the session storage and the web service
// together and runs them.
package daemon

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/guit-county/guit-portal/internal/config"
	"github.com/guit-county/guit-portal/internal/db"
	"github.com/guit-county/guit-portal/internal/store"
	"github.com/guit-county/guit-portal/internal/tracing"
	"github.com/guit-county/guit-portal/internal/web"
	"github.com/guit-county/guit-portal/internal/web/session"
)

const (
	defaultMongoTimeout = 10 * time.Second
	closeTimeout        = 5 * time.Second
)

// Daemon represents the main application daemon.
type Daemon struct {
	cfg        *config.Config
	webService *web.Service
	store      store.Store
	traceStop  tracing.ShutdownFunc
}

// Start runs the web service until SIGINT or SIGTERM and releases the
// resources afterwards.
func (d *Daemon) Start() error {
	go d.webService.WaitShutdown()

	err := d.webService.Start(fmt.Sprintf(":%d", d.cfg.Webserver.Port))

	d.Close()

	return err
}

// Close releases the store connection and flushes the tracer.
func (d *Daemon) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
	defer cancel()

	if err := d.store.Close(ctx); err != nil {
		log.Error().Err(err).Msg("failed to close store")
	}

	if d.traceStop != nil {
		if err := d.traceStop(ctx); err != nil {
			log.Error().Err(err).Msg("failed to flush traces")
		}
	}
}

// OpenStore opens the document store selected by cfg.Store.Engine. The gorm
// handle is nil for the mongo engine.
func OpenStore(ctx context.Context, cfg *config.Config) (store.Store, *gorm.DB, error) {
	switch cfg.Store.Engine {
	case config.StoreEngineMongo:
		timeout := cfg.Mongo.Timeout
		if timeout == 0 {
			timeout = defaultMongoTimeout
		}

		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		st, err := store.NewMongo(ctx, cfg.Mongo.URI, cfg.Mongo.Database)
		if err != nil {
			return nil, nil, err
		}

		return st, nil, nil
	default:
		gdb, err := db.Open(cfg.DB, cfg.DevMode)
		if err != nil {
			return nil, nil, err
		}

		return store.NewGorm(gdb), gdb, nil
	}
}

// New creates a new Daemon instance with the provided configuration.
func New(cfg *config.Config) (*Daemon, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}

	ctx := context.Background()

	traceStop, err := tracing.Init(ctx, cfg.Tracing, cfg.Log.ServiceName)
	if err != nil {
		return nil, err
	}

	st, gdb, err := OpenStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	log.Info().Str("engine", cfg.Store.Engine).Msg("document store opened")

	if cfg.Auth.SeedAdmin {
		if _, err = Seed(ctx, st); err != nil {
			return nil, errors.Wrap(err, "failed to seed admin")
		}
	}

	// Initialize fiber session store
	sessionStorage, err := session.NewStorage(cfg, gdb)
	if err != nil {
		return nil, err
	}

	session.Init(sessionStorage)

	webService, err := web.New(cfg, st)
	if err != nil {
		return nil, err
	}

	return &Daemon{
		cfg:        cfg,
		webService: webService,
		store:      st,
		traceStop:  traceStop,
	}, nil
}
