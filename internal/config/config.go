package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/nguyentranbao-ct/storefront/pkg/validator"
)

type Config struct {
	Server     ServerConfig     `envPrefix:"SERVER_"`
	Storefront StorefrontConfig `envPrefix:"STOREFRONT_"`
	Log        LogConfig        `envPrefix:"LOG_"`
}

// ServerConfig configures the catalog API.
type ServerConfig struct {
	Addr string `env:"ADDR" envDefault:":3001" validate:"required"`
	// CORSOriginPattern restricts allowed origins; empty allows any origin.
	CORSOriginPattern string `env:"CORS_ORIGIN_PATTERN"`
	PprofEnabled      bool   `env:"PPROF_ENABLED" envDefault:"false"`
	MetricsNamespace  string `env:"METRICS_NAMESPACE" envDefault:"storefront"`
}

// StorefrontConfig configures the storefront UI and its three upstream paths.
// The paths are handed to the fetch client untouched; relative ones are
// resolved against BaseURL by the client.
type StorefrontConfig struct {
	Addr         string `env:"ADDR" envDefault:":3000" validate:"required"`
	Title        string `env:"TITLE" envDefault:"StreamlinePay Store" validate:"required"`
	BaseURL      string `env:"BASE_URL" envDefault:"http://localhost:3001" validate:"required,url"`
	UserPath     string `env:"USER_PATH" envDefault:"/api/v1/user/profile" validate:"required,urlpath"`
	CartPath     string `env:"CART_PATH" envDefault:"/api/v1/cart/summary" validate:"required,urlpath"`
	ProductsPath string `env:"PRODUCTS_PATH" envDefault:"/api/v1/products" validate:"required,urlpath"`
	HealthPath   string `env:"HEALTH_PATH" envDefault:"/health" validate:"required,urlpath"`

	// RequestTimeout bounds each upstream fetch. Zero disables it.
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"0s" validate:"gte=0"`
	// RenderWait is how long GET / waits for the slices to settle before
	// serving whatever has resolved so far.
	RenderWait time.Duration `env:"RENDER_WAIT" envDefault:"3s" validate:"gt=0"`
}

type LogConfig struct {
	Level  string `env:"LEVEL" envDefault:"info" validate:"oneof=debug info warn error"`
	Format string `env:"FORMAT" envDefault:"json" validate:"oneof=json console"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := validator.NewValidator().Validate(cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}
