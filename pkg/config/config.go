package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
)

type Config struct {
	App     AppConfig
	API     APIConfig
	Session SessionConfig
	Pricing PricingConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Session.validate(); err != nil {
		return nil, err
	}
	if err := cfg.Pricing.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env      string `envconfig:"BAKESHOP_APP_ENV" default:"dev"`
	LogLevel string `envconfig:"BAKESHOP_LOG_LEVEL" default:"info"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type APIConfig struct {
	BaseURL        string        `envconfig:"BAKESHOP_API_BASE_URL" required:"true"`
	RequestTimeout time.Duration `envconfig:"BAKESHOP_API_REQUEST_TIMEOUT" default:"15s"`
}

type SessionConfig struct {
	Backend string `envconfig:"BAKESHOP_SESSION_BACKEND" default:"file"`
	// FilePath defaults to a per-user location under os.UserConfigDir.
	FilePath string `envconfig:"BAKESHOP_SESSION_FILE"`

	RedisURL          string        `envconfig:"BAKESHOP_SESSION_REDIS_URL"`
	RedisDialTimeout  time.Duration `envconfig:"BAKESHOP_SESSION_REDIS_DIAL_TIMEOUT" default:"5s"`
	RedisReadTimeout  time.Duration `envconfig:"BAKESHOP_SESSION_REDIS_READ_TIMEOUT" default:"5s"`
	RedisWriteTimeout time.Duration `envconfig:"BAKESHOP_SESSION_REDIS_WRITE_TIMEOUT" default:"5s"`
	TTL               time.Duration `envconfig:"BAKESHOP_SESSION_TTL" default:"720h"`
}

func (s SessionConfig) validate() error {
	switch s.Backend {
	case SessionBackendFile, SessionBackendMemory:
		return nil
	case SessionBackendRedis:
		if s.RedisURL == "" {
			return fmt.Errorf("%s is required for the redis session backend", EnvSessionRedisURL)
		}
		return nil
	default:
		return fmt.Errorf("unknown session backend %q", s.Backend)
	}
}

type PricingConfig struct {
	FreeShippingThreshold decimal.Decimal `envconfig:"BAKESHOP_FREE_SHIPPING_THRESHOLD" default:"500"`
	StandardShippingFee   decimal.Decimal `envconfig:"BAKESHOP_STANDARD_SHIPPING_FEE" default:"50"`
}

func (p PricingConfig) validate() error {
	if p.FreeShippingThreshold.IsNegative() {
		return fmt.Errorf("free shipping threshold must not be negative")
	}
	if p.StandardShippingFee.IsNegative() {
		return fmt.Errorf("standard shipping fee must not be negative")
	}
	return nil
}
