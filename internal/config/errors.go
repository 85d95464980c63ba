package config

import (
	"errors"
)

var (
	// ErrEmptyURL error if config webserver.URL is empty.
	ErrEmptyURL = errors.New("toml config webserver.url can not be empty")

	// ErrWebServerPortCanNotBeZero error if config webserver listening port is 0.
	ErrWebServerPortCanNotBeZero = errors.New("toml config webserver.port listening port can not be 0")

	// ErrUnknownStoreEngine error if config store.engine is not gorm or mongo.
	ErrUnknownStoreEngine = errors.New("toml config store.engine must be gorm or mongo")

	// ErrUnknownGormEngine error if config db.gormengine is not supported.
	ErrUnknownGormEngine = errors.New("toml config db.gormengine must be sqlite, mysql or postgres")

	// ErrUnknownSessionEngine error if config webserver.session.engine is not supported.
	ErrUnknownSessionEngine = errors.New(
		"toml config webserver.session.engine must be db, memory, mysql, postgres, redis or memcached",
	)
)
