package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type SessionMode string

const (
	// SessionModeStore validates every access token against the Redis session slots.
	SessionModeStore SessionMode = "store"
	// SessionModeStateless trusts the token signature alone.
	SessionModeStateless SessionMode = "stateless"
)

const (
	StoreDriverMemory   = "memory"
	StoreDriverPostgres = "postgres"
	StoreDriverMongo    = "mongo"
)

const (
	MetricsExporterNone   = "none"
	MetricsExporterStdout = "stdout"
)

const (
	DefaultAccessTokenTTL  = 900 * time.Second
	DefaultRefreshTokenTTL = 2592000 * time.Second
	DefaultBcryptCost      = 10
	DefaultMetricsInterval = 60 * time.Second
)

type Config struct {
	Env      string
	Port     string
	LogLevel string

	RedisURL  string
	RedisPass string
	RedisDB   int

	JWTSecret       string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	SessionMode     SessionMode
	BcryptCost      int

	StoreDriver   string
	DatabaseDSN   string
	MongoURI      string
	MongoDatabase string

	MetricsExporter string
	MetricsInterval time.Duration
}

func Load() (*Config, error) {
	cfg := &Config{
		Env:           getEnv("APP_ENV", "development"),
		Port:          getEnv("PORT", "5000"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		RedisURL:      getEnv("REDIS_URL", redisAddrFromHostPort()),
		RedisPass:     os.Getenv("REDIS_PASSWORD"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		SessionMode:   SessionMode(getEnv("SESSION_MODE", string(SessionModeStore))),
		StoreDriver:   getEnv("STORE_DRIVER", StoreDriverMemory),
		DatabaseDSN:   os.Getenv("DATABASE_URL"),
		MongoURI:      getEnv("MONGO_URI", "mongodb://127.0.0.1:27017"),
		MongoDatabase: getEnv("MONGO_DATABASE", "ritmo"),

		MetricsExporter: getEnv("METRICS_EXPORTER", MetricsExporterNone),
	}

	var err error
	if cfg.RedisDB, err = getEnvInt("REDIS_DB", 0); err != nil {
		return nil, err
	}
	if cfg.BcryptCost, err = getEnvInt("BCRYPT_COST", DefaultBcryptCost); err != nil {
		return nil, err
	}
	if cfg.AccessTokenTTL, err = getEnvSeconds("ACCESS_TOKEN_TTL", DefaultAccessTokenTTL); err != nil {
		return nil, err
	}
	if cfg.RefreshTokenTTL, err = getEnvSeconds("REFRESH_TOKEN_TTL", DefaultRefreshTokenTTL); err != nil {
		return nil, err
	}
	if cfg.MetricsInterval, err = getEnvSeconds("METRICS_INTERVAL", DefaultMetricsInterval); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.AccessTokenTTL <= 0 || c.RefreshTokenTTL <= 0 {
		return fmt.Errorf("token lifetimes must be positive")
	}
	if c.AccessTokenTTL > c.RefreshTokenTTL {
		return fmt.Errorf("access token lifetime must not exceed refresh token lifetime")
	}

	switch c.SessionMode {
	case SessionModeStore, SessionModeStateless:
	default:
		return fmt.Errorf("invalid SESSION_MODE: %s", c.SessionMode)
	}

	switch c.StoreDriver {
	case StoreDriverMemory, StoreDriverMongo:
	case StoreDriverPostgres:
		if c.DatabaseDSN == "" {
			return fmt.Errorf("DATABASE_URL is required for the postgres store")
		}
	default:
		return fmt.Errorf("invalid STORE_DRIVER: %s", c.StoreDriver)
	}

	switch c.MetricsExporter {
	case MetricsExporterNone:
	case MetricsExporterStdout:
		if c.MetricsInterval <= 0 {
			return fmt.Errorf("METRICS_INTERVAL must be positive")
		}
	default:
		return fmt.Errorf("invalid METRICS_EXPORTER: %s", c.MetricsExporter)
	}

	return nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func redisAddrFromHostPort() string {
	return getEnv("REDIS_HOST", "127.0.0.1") + ":" + getEnv("REDIS_PORT", "6379")
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %v", key, err)
	}
	return n, nil
}

// getEnvSeconds accepts either a plain number of seconds or a Go duration string.
func getEnvSeconds(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	if n, err := strconv.Atoi(v); err == nil {
		return time.Duration(n) * time.Second, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %v", key, err)
	}
	return d, nil
}
