package session

import (
	"github.com/gofiber/fiber/v2"
	sessionmysql "github.com/gofiber/storage/mysql/v2"
	sessionpostgres "github.com/gofiber/storage/postgres/v3"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/guit-county/guit-portal/internal/config"
	"github.com/guit-county/guit-portal/internal/db/dsn"
)

// Storage engines.
const (
	EngineDB        = "db"
	EngineMemory    = "memory"
	EngineMySQL     = "mysql"
	EnginePostgres  = "postgres"
	EngineRedis     = "redis"
	EngineMemcached = "memcached"
)

// NewStorage returns the session storage selected by cfg.Webserver.Session.Engine.
// The db engine stores sessions next to the documents and needs gdb, the other
// engines ignore it.
func NewStorage(cfg *config.Config, gdb *gorm.DB) (fiber.Storage, error) {
	sc := cfg.Webserver.Session

	switch sc.Engine {
	case EngineDB, "":
		if gdb == nil {
			return nil, errors.New("session engine db needs the gorm store")
		}

		return NewGormStorage(gdb), nil
	case EngineMemory:
		return NewMemoryStorage(), nil
	case EngineMySQL:
		return sessionmysql.New(sessionmysql.Config{
			ConnectionURI: dsn.MySQL(cfg.DB),
			Table:         sc.Table,
		}), nil
	case EnginePostgres:
		return sessionpostgres.New(sessionpostgres.Config{
			ConnectionURI: dsn.PostgresURL(cfg.DB),
			Table:         sc.Table,
		}), nil
	case EngineRedis:
		return NewRedisStorage(sc.Redis.Addr, sc.Redis.Password, sc.Redis.DB), nil
	case EngineMemcached:
		return NewMemcachedStorage(sc.Memcached.Server), nil
	default:
		return nil, errors.Wrap(config.ErrUnknownSessionEngine, sc.Engine)
	}
}
