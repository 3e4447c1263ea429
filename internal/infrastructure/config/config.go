package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

const (
	DriverMongo  = "mongo"
	DriverSQLite = "sqlite"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	Auth   AuthConfig
	HTTP   HTTPConfig
	Store  StoreConfig
	Mongo  MongoConfig
	SQLite SQLiteConfig
	Redis  RedisConfig

	Reconcile ReconcileConfig
}

type AuthConfig struct {
	JWTSecret      string        `env:"JWT_SECRET, required"`
	JWTIssuer      string        `env:"JWT_ISSUER, default=forum-api"`
	AccessTokenTTL time.Duration `env:"ACCESS_TOKEN_TTL, default=30m"`
	BcryptCost     int           `env:"BCRYPT_COST, default=10"`
}

type HTTPConfig struct {
	RequestTimeout  time.Duration `env:"REQUEST_TIMEOUT,  default=5s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT, default=10s"`
}

type StoreConfig struct {
	Driver string `env:"STORE_DRIVER, default=mongo"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017/?replicaSet=rs0"`
	Database string `env:"MONGO_DB,  default=forum"`
}

type SQLiteConfig struct {
	Path string `env:"SQLITE_PATH, default=forum.db"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

type ReconcileConfig struct {
	Interval time.Duration `env:"RECONCILE_INTERVAL, default=10m"`
	Workers  int           `env:"RECONCILE_WORKERS,  default=4"`
}

// IsDevelopment reports whether human-friendly logging should be used.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return LoadWith(ctx, envconfig.OsLookuper())
}

// LoadWith reads configuration through the given lookuper.
func LoadWith(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: failed to load configuration: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Store.Driver {
	case DriverMongo, DriverSQLite:
	default:
		return fmt.Errorf("STORE_DRIVER must be %q or %q, got %q", DriverMongo, DriverSQLite, c.Store.Driver)
	}
	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("JWT_SECRET must be at least 32 bytes")
	}
	if c.Auth.AccessTokenTTL <= 0 {
		return fmt.Errorf("ACCESS_TOKEN_TTL must be positive")
	}
	if c.Reconcile.Interval < 0 {
		return fmt.Errorf("RECONCILE_INTERVAL must not be negative")
	}
	return nil
}
