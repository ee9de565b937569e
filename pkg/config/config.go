package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "bazarly"

	AppEnvDev  = "development"
	AppEnvProd = "production"
)

type Config struct {
	App       AppConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Cart      CartConfig
	Commerce  CommerceConfig
	Analytics AnalyticsConfig
	Spool     SpoolConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"BAZARLY_APP_ENV" required:"true"`
	Port         string `envconfig:"BAZARLY_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"BAZARLY_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"BAZARLY_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type RedisConfig struct {
	URL          string        `envconfig:"BAZARLY_REDIS_URL"`
	Address      string        `envconfig:"BAZARLY_REDIS_ADDR"`
	Password     string        `envconfig:"BAZARLY_REDIS_PASSWORD"`
	DB           int           `envconfig:"BAZARLY_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"BAZARLY_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"BAZARLY_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"BAZARLY_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"BAZARLY_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"BAZARLY_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// JWTConfig covers the platform-issued access tokens the API consumes. The
// backend only verifies tokens, it never mints them.
type JWTConfig struct {
	Secret string `envconfig:"BAZARLY_JWT_SECRET" required:"true"`
	Issuer string `envconfig:"BAZARLY_JWT_ISSUER"`
}

type CartConfig struct {
	StorageKey string        `envconfig:"BAZARLY_CART_STORAGE_KEY" default:"cart"`
	TTL        time.Duration `envconfig:"BAZARLY_CART_TTL" default:"720h"`
}

// CommerceConfig points at the commerce platform's REST API.
type CommerceConfig struct {
	BaseURL        string        `envconfig:"BAZARLY_COMMERCE_BASE_URL" required:"true"`
	ConsumerKey    string        `envconfig:"BAZARLY_COMMERCE_CONSUMER_KEY"`
	ConsumerSecret string        `envconfig:"BAZARLY_COMMERCE_CONSUMER_SECRET"`
	Timeout        time.Duration `envconfig:"BAZARLY_COMMERCE_TIMEOUT" default:"10s"`
}

type AnalyticsConfig struct {
	PixelURL       string        `envconfig:"BAZARLY_ANALYTICS_PIXEL_URL"`
	Currency       string        `envconfig:"BAZARLY_ANALYTICS_CURRENCY" default:"BDT"`
	BatchSize      int           `envconfig:"BAZARLY_ANALYTICS_BATCH_SIZE" default:"50"`
	PollInterval   time.Duration `envconfig:"BAZARLY_ANALYTICS_POLL_INTERVAL" default:"5s"`
	MaxAttempts    int           `envconfig:"BAZARLY_ANALYTICS_MAX_ATTEMPTS" default:"10"`
	RequestTimeout time.Duration `envconfig:"BAZARLY_ANALYTICS_REQUEST_TIMEOUT" default:"10s"`
}

type SpoolConfig struct {
	Path string `envconfig:"BAZARLY_SPOOL_PATH" default:"analytics_spool.db"`
}
