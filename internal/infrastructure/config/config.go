package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

const (
	AdapterSQLite   = "sqlite"
	AdapterPostgres = "postgres"
	AdapterMongo    = "mongo"

	devJWTSecret = "dev-secret-change-me"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	Auth     AuthConfig
	Database DatabaseConfig
	Mongo    MongoConfig
	Redis    RedisConfig
}

type AuthConfig struct {
	JWTSecret       string        `env:"JWT_SECRET,        default=dev-secret-change-me"`
	AccessTokenTTL  time.Duration `env:"ACCESS_TOKEN_TTL,  default=5m"`
	RefreshTokenTTL time.Duration `env:"REFRESH_TOKEN_TTL, default=24h"`
}

type DatabaseConfig struct {
	Adapter     string `env:"DB_ADAPTER,   default=sqlite"`
	SQLitePath  string `env:"SQLITE_PATH,  default=./data/users.db"`
	PostgresDSN string `env:"POSTGRES_DSN"`
	AutoMigrate bool   `env:"AUTO_MIGRATE, default=true"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=users_api"`
}

// RedisConfig enables the identity cache when Addr is set.
type RedisConfig struct {
	Addr     string        `env:"REDIS_ADDR"`
	Password string        `env:"REDIS_PASSWORD"`
	DB       int           `env:"REDIS_DB,       default=0"`
	UserTTL  time.Duration `env:"USER_CACHE_TTL, default=5m"`
}

// Load reads configuration from environment variables and validates it.
func Load(ctx context.Context) (*Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Validate rejects unknown adapters, adapters missing their data source and
// the development JWT secret outside development.
func (c *Config) Validate() error {
	switch c.Database.Adapter {
	case AdapterSQLite:
		if c.Database.SQLitePath == "" {
			return errors.New("config: SQLITE_PATH is required for the sqlite adapter")
		}
	case AdapterPostgres:
		if c.Database.PostgresDSN == "" {
			return errors.New("config: POSTGRES_DSN is required for the postgres adapter")
		}
	case AdapterMongo:
		if c.Mongo.URI == "" || c.Mongo.Database == "" {
			return errors.New("config: MONGO_URI and MONGO_DB are required for the mongo adapter")
		}
	default:
		return fmt.Errorf("config: unknown DB_ADAPTER %q (supported: sqlite, postgres, mongo)", c.Database.Adapter)
	}

	if c.Auth.JWTSecret == "" {
		return errors.New("config: JWT_SECRET must not be empty")
	}
	if c.IsProduction() && c.Auth.JWTSecret == devJWTSecret {
		return errors.New("config: JWT_SECRET must be set in production")
	}
	if c.Auth.AccessTokenTTL <= 0 || c.Auth.RefreshTokenTTL <= 0 {
		return errors.New("config: token lifetimes must be positive")
	}
	return nil
}
