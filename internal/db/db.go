// Package db opens and migrates the relational database behind the gorm document store.
package db

import (
	"time"

	"github.com/glebarez/sqlite"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/guit-county/guit-portal/internal/config"
	"github.com/guit-county/guit-portal/internal/db/dsn"
	"github.com/guit-county/guit-portal/internal/db/models"
	"github.com/guit-county/guit-portal/internal/logger/adapter/stdlogger"
)

const defaultSlowThreshold = 300 * time.Millisecond

// ErrDBNil is returned when the database connection is nil.
var ErrDBNil = errors.New("database connection is nil")

// Dialector returns the gorm dialector for the configured engine.
func Dialector(cfg config.DB) (gorm.Dialector, error) {
	switch cfg.GormEngine {
	case config.GormEngineMySQL:
		return gormmysql.Open(dsn.MySQL(cfg)), nil
	case config.GormEnginePostgres:
		return postgres.Open(dsn.Postgres(cfg)), nil
	case config.GormEngineSQLite, "":
		path := cfg.Path
		if path == "" {
			path = "guit_county.db"
		}

		return sqlite.Open(path), nil
	default:
		return nil, errors.Wrap(config.ErrUnknownGormEngine, cfg.GormEngine)
	}
}

// Open connects to the configured database and migrates the schema.
func Open(cfg config.DB, devMode bool) (*gorm.DB, error) {
	dialector, err := Dialector(cfg)
	if err != nil {
		return nil, err
	}

	slow := cfg.SlowThreshold
	if slow == 0 {
		slow = defaultSlowThreshold
	}

	level := gormlogger.Warn
	if devMode {
		level = gormlogger.Info
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger: gormlogger.New(
			stdlogger.NewComponent("gorm", zerolog.WarnLevel),
			gormlogger.Config{
				SlowThreshold:             slow,
				LogLevel:                  level,
				IgnoreRecordNotFoundError: true,
			},
		),
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect database")
	}

	// sqlite allows a single writer, and every ":memory:" connection is a new database
	if dialector.Name() == config.GormEngineSQLite {
		sqlDB, errDB := db.DB()
		if errDB != nil {
			return nil, errors.Wrap(errDB, "failed to get sql db")
		}

		sqlDB.SetMaxOpenConns(1)
	}

	if err = Migrate(db); err != nil {
		return nil, err
	}

	return db, nil
}

// Migrate creates or updates the tables of the document store and the session storage.
func Migrate(db *gorm.DB) error {
	if db == nil {
		return ErrDBNil
	}

	if err := db.AutoMigrate(
		&models.Document{},
		&models.DocumentKey{},
		&models.Session{},
	); err != nil {
		return errors.Wrap(err, "failed to migrate database")
	}

	return nil
}
