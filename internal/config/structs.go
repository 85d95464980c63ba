package config

import (
	"time"

	"github.com/guit-county/guit-portal/internal/logger"
)

// Session settings.
type Session struct {
	ExpiryTime time.Duration
	Engine     string // db, memory, mysql, postgres, redis, memcached
	Table      string // table name for sql based session engines

	Redis     Redis
	Memcached Memcached
}

// Redis holds the redis session storage settings.
type Redis struct {
	Addr     string
	Password string
	DB       int
}

// Memcached holds the memcached session storage settings.
type Memcached struct {
	Server string
}

// Config overall data structure.
type Config struct {
	DevMode   bool // enable dev mode for development
	DB        DB
	Mongo     Mongo
	Store     Store
	Log       logger.Log
	Title     string
	Webserver Webserver
	Upload    Upload
	Auth      Auth
	Tracing   Tracing
	Public    Public
}

// Webserver implement webserver settings.
type Webserver struct {
	BrowseStatic   bool    // enable static file browsing (for development purposes only)
	DisableRecover bool    // disable recover middleware
	Domain         string  // domain name for the webserver
	Port           int     // listening port for the webserver
	ShutDownTime   int     // wait time for shutdown
	URL            string  // base url for the webserver
	CORSOrigins    string  // allowed origins for /api, comma separated
	BodyLimit      int     // max request body size in bytes
	Session        Session // session settings
}

// Store selects the document store backend.
type Store struct {
	Engine string // gorm or mongo
}

// Upload holds the upload handler settings.
type Upload struct {
	Dir     string // directory the files are written to
	MaxSize int64  // max file size in bytes
}

// Auth holds the api authentication settings.
type Auth struct {
	ProtectWrites    bool          // require an admin session for mutating routes
	RegisterRole     string        // role given to self registered users
	MaxLoginAttempts int           // failed logins before lockout
	LockoutDuration  time.Duration // lockout window
	SeedAdmin        bool          // create the default admin when none exists
}

// Tracing holds the opentelemetry exporter settings.
type Tracing struct {
	Enabled     bool
	Endpoint    string  // otlp http endpoint, host:port
	Insecure    bool    // disable tls for the exporter
	SampleRatio float64 // 0..1, 0 means always sample
}

// Public holds the settings for serving the public site.
type Public struct {
	Dir string // directory with the public site, empty disables it
}
