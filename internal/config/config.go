// Package config handles input from etc/*.toml files
package config

import (
	"bytes"
	"encoding/json"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

const (
	// EnvConfigJSON is the env var holding a JSON document merged over main.toml.
	EnvConfigJSON = "GUIT_PORTAL_CONFIG_JSON"

	// StoreEngineGorm selects the gorm document store.
	StoreEngineGorm = "gorm"
	// StoreEngineMongo selects the mongodb document store.
	StoreEngineMongo = "mongo"

	// GormEngineSQLite selects the sqlite gorm driver.
	GormEngineSQLite = "sqlite"
	// GormEngineMySQL selects the mysql gorm driver.
	GormEngineMySQL = "mysql"
	// GormEnginePostgres selects the postgres gorm driver.
	GormEnginePostgres = "postgres"

	defaultShutDownTime     = 5
	defaultSessionExpiry    = time.Hour
	defaultUploadDir        = "./uploads"
	defaultUploadMaxSize    = 50 << 20
	defaultMaxLoginAttempts = 5
	defaultLockoutDuration  = 5 * time.Minute
	defaultRegisterRole     = "member"
	defaultSessionTable     = "sessions"
	defaultSessionEngine    = "db"
	defaultMongoDatabase    = "guit_county"
	bodyLimitOverhead       = 1 << 20
)

var sessionEngines = map[string]bool{
	"db":        true,
	"memory":    true,
	"mysql":     true,
	"postgres":  true,
	"redis":     true,
	"memcached": true,
}

// LoadEnv loads .env files into the process environment.
// Missing files are ignored.
func LoadEnv(files ...string) {
	if len(files) == 0 {
		files = []string{".env"}
	}

	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			continue
		}

		if err := godotenv.Load(f); err != nil {
			log.Warn().Err(err).Str("file", f).Msg("can't load env file")
		}
	}
}

// ReadConfig from config file.
func ReadConfig(path string) (Config, error) {
	var (
		c             Config
		JSONConfigEnv string
		err           error
	)

	// Read main configuration
	if path == "" {
		path = "./etc/"
	}

	if _, err = toml.DecodeFile(path+"main.toml", &c); err != nil {
		return Config{}, errors.Wrap(err, "failed to read main config file")
	}

	// override it from env
	JSONConfigEnv = os.Getenv(EnvConfigJSON)

	if JSONConfigEnv != "" {
		c, err = decodeAndMergeConfig(c, JSONConfigEnv)
		if err != nil {
			return c, err
		}
	}

	return c, validate(&c)
}

func decodeAndMergeConfig(c Config, configAsJSON string) (Config, error) {
	err := json.Unmarshal([]byte(configAsJSON), &c)
	if err != nil {
		return Config{}, errors.Wrap(err, "failed to decode config json from env")
	}

	return c, nil
}

// DumpConfig config as TOML String.
func DumpConfig(c *Config) (string, error) {
	var buffer bytes.Buffer
	t := toml.NewEncoder(&buffer)

	if err := t.Encode(c); err != nil {
		return "", err //nolint: wrapcheck
	}

	return buffer.String(), nil
}

// DumpConfigJSON config as JSON String.
func DumpConfigJSON(c *Config) (string, error) {
	var buffer bytes.Buffer
	j := json.NewEncoder(&buffer)
	j.SetIndent("", "  ")

	if err := j.Encode(c); err != nil {
		return "", err //nolint: wrapcheck
	}

	return buffer.String(), nil
}

// validate checks the settings the service can't start without
// and fills defaults for the optional ones.
func validate(c *Config) error {
	invalidErrMessage := "invalid config"

	if c.Webserver.Port == 0 {
		return errors.Wrap(ErrWebServerPortCanNotBeZero, invalidErrMessage)
	}

	if c.Webserver.URL == "" {
		return errors.Wrap(ErrEmptyURL, invalidErrMessage)
	}

	switch c.Store.Engine {
	case "":
		c.Store.Engine = StoreEngineGorm
	case StoreEngineGorm, StoreEngineMongo:
	default:
		return errors.Wrap(ErrUnknownStoreEngine, invalidErrMessage)
	}

	if c.Store.Engine == StoreEngineGorm {
		switch c.DB.GormEngine {
		case "":
			c.DB.GormEngine = GormEngineSQLite
		case GormEngineSQLite, GormEngineMySQL, GormEnginePostgres:
		default:
			return errors.Wrap(ErrUnknownGormEngine, invalidErrMessage)
		}
	}

	if c.Webserver.Session.Engine == "" {
		c.Webserver.Session.Engine = defaultSessionEngine
	}

	if !sessionEngines[c.Webserver.Session.Engine] {
		return errors.Wrap(ErrUnknownSessionEngine, invalidErrMessage)
	}

	setDefaults(c)

	return nil
}

func setDefaults(c *Config) {
	if c.Webserver.ShutDownTime == 0 {
		c.Webserver.ShutDownTime = defaultShutDownTime
	}

	if c.Webserver.Session.ExpiryTime == 0 {
		c.Webserver.Session.ExpiryTime = defaultSessionExpiry
	}

	if c.Webserver.Session.Table == "" {
		c.Webserver.Session.Table = defaultSessionTable
	}

	if c.Upload.Dir == "" {
		c.Upload.Dir = defaultUploadDir
	}

	if c.Upload.MaxSize == 0 {
		c.Upload.MaxSize = defaultUploadMaxSize
	}

	// multipart uploads need room for the form around the file
	if c.Webserver.BodyLimit == 0 {
		c.Webserver.BodyLimit = int(c.Upload.MaxSize) + bodyLimitOverhead
	}

	if c.Auth.MaxLoginAttempts == 0 {
		c.Auth.MaxLoginAttempts = defaultMaxLoginAttempts
	}

	if c.Auth.LockoutDuration == 0 {
		c.Auth.LockoutDuration = defaultLockoutDuration
	}

	if c.Auth.RegisterRole == "" {
		c.Auth.RegisterRole = defaultRegisterRole
	}

	if c.Mongo.Database == "" {
		c.Mongo.Database = defaultMongoDatabase
	}
}
