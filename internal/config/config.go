// Package config loads the catalogd service configuration from the
// environment, optionally seeded from a .env file.
package config

import (
	"os"
	"time"

	"github.com/friendsofgo/errors"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/nrfta/go-catalog"
	"github.com/nrfta/go-catalog/strategy"
)

// EnvPrefix prefixes every variable, e.g. CATALOG_HTTP_ADDR.
const EnvPrefix = "CATALOG"

// Config is the full service configuration. Nested groups add their name to
// the prefix, so HTTP.Addr reads CATALOG_HTTP_ADDR.
type Config struct {
	HTTP     HTTPConfig
	Strategy StrategyConfig
	Page     PageConfig
	DB       DBConfig
	Redis    RedisConfig
	Log      LogConfig

	// SeedFile is a YAML or JSON product list served from memory when no
	// database DSN is configured.
	SeedFile string `envconfig:"SEED_FILE"`
}

type HTTPConfig struct {
	Addr            string        `envconfig:"ADDR" default:":8080"`
	ReadTimeout     time.Duration `envconfig:"READ_TIMEOUT" default:"5s"`
	WriteTimeout    time.Duration `envconfig:"WRITE_TIMEOUT" default:"10s"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
}

type StrategyConfig struct {
	Threshold int `envconfig:"THRESHOLD" default:"100"`
}

type PageConfig struct {
	DefaultSize int `envconfig:"DEFAULT_SIZE" default:"12"`
	MaxSize     int `envconfig:"MAX_SIZE" default:"1000"`
}

// PageConfig converts the settings into the shared page limits.
func (p PageConfig) PageConfig() *catalog.PageConfig {
	return catalog.NewPageConfig().WithDefaultSize(p.DefaultSize).WithMaxSize(p.MaxSize)
}

type DBConfig struct {
	DSN             string        `envconfig:"DSN"`
	MaxOpenConns    int           `envconfig:"MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns    int           `envconfig:"MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"CONN_MAX_LIFETIME" default:"1h"`
	Migrate         bool          `envconfig:"MIGRATE" default:"false"`
}

type RedisConfig struct {
	URL       string        `envconfig:"URL"`
	TTL       time.Duration `envconfig:"TTL" default:"1m"`
	Namespace string        `envconfig:"NAMESPACE" default:"catalog"`
}

type LogConfig struct {
	Level  string `envconfig:"LEVEL" default:"info"`
	Format string `envconfig:"FORMAT" default:"json"`
}

// Load reads envFile, when it exists, then the process environment.
// Variables already set in the environment win over the file.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
			return nil, errors.Wrapf(err, "load %s", envFile)
		}
	}

	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, errors.Wrap(err, "parsing config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the service cannot run with.
func (c *Config) Validate() error {
	if c.DB.DSN == "" && c.SeedFile == "" {
		return errors.Errorf("one of %s_DB_DSN or %s_SEED_FILE is required", EnvPrefix, EnvPrefix)
	}
	if c.Strategy.Threshold < 0 {
		return errors.Errorf("strategy threshold must not be negative, got %d", c.Strategy.Threshold)
	}
	if c.Page.DefaultSize < 1 || c.Page.MaxSize < c.Page.DefaultSize {
		return errors.Errorf("page sizes must satisfy 1 <= default (%d) <= max (%d)",
			c.Page.DefaultSize, c.Page.MaxSize)
	}
	return nil
}

// SelectorOptions returns the strategy options the configuration implies.
func (c *Config) SelectorOptions() []strategy.Option {
	return []strategy.Option{
		strategy.WithThreshold(c.Strategy.Threshold),
		strategy.WithPageConfig(c.Page.PageConfig()),
	}
}
