// Package config loads the sweeper configuration from the process
// environment, optionally seeded from a .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Environment keys.
const (
	EnvStrapiBaseURL   = "STRAPI_BASE_URL"
	EnvStrapiToken     = "STRAPI_TOKEN"
	EnvShopBaseURL     = "SHOP_BASE_URL"
	EnvShopAccessToken = "SHOP_ACCESS_TOKEN"
	EnvPageSize        = "SWEEP_PAGE_SIZE"
	EnvRecordDelay     = "SWEEP_RECORD_DELAY"
	EnvLogLevel        = "LOG_LEVEL"
	EnvLogPretty       = "LOG_PRETTY"
)

// DefaultPageSize is the listing page size used when SWEEP_PAGE_SIZE is unset.
const DefaultPageSize = 10

// Strapi holds the primary-system (content API) connection settings.
type Strapi struct {
	BaseURL string `validate:"required,url"`
	Token   string `validate:"required"`
}

// Shopify holds the secondary-system (commerce platform) connection settings.
type Shopify struct {
	BaseURL     string `validate:"required,url"`
	AccessToken string `validate:"required"`
}

// Config is the immutable process configuration. It is built once at
// startup and shared read-only by all page tasks.
type Config struct {
	Strapi  Strapi
	Shopify Shopify

	// PageSize is the listing page size for discovery and page fetches.
	PageSize int `validate:"min=1"`

	// RecordDelay is an optional fixed pause before each record is processed.
	RecordDelay time.Duration `validate:"min=0"`

	LogLevel  string
	LogPretty bool
}

// envKeys maps validated struct fields back to their environment keys so
// validation failures name the variable the operator has to set.
var envKeys = map[string]string{
	"Config.Strapi.BaseURL":      EnvStrapiBaseURL,
	"Config.Strapi.Token":        EnvStrapiToken,
	"Config.Shopify.BaseURL":     EnvShopBaseURL,
	"Config.Shopify.AccessToken": EnvShopAccessToken,
	"Config.PageSize":            EnvPageSize,
	"Config.RecordDelay":         EnvRecordDelay,
}

var validate = validator.New()

// LoadEnvFile seeds the process environment from the given .env files
// (default ".env"). Variables already set in the environment win; a
// missing file is not an error.
func LoadEnvFile(files ...string) {
	_ = godotenv.Load(files...)
}

// FromEnv builds and validates a Config from the process environment.
// A missing required key or an unparseable value is returned as an error
// before any network activity can happen.
func FromEnv() (*Config, error) {
	cfg := &Config{
		Strapi: Strapi{
			BaseURL: strings.TrimRight(os.Getenv(EnvStrapiBaseURL), "/"),
			Token:   os.Getenv(EnvStrapiToken),
		},
		Shopify: Shopify{
			BaseURL:     strings.TrimRight(os.Getenv(EnvShopBaseURL), "/"),
			AccessToken: os.Getenv(EnvShopAccessToken),
		},
		PageSize: DefaultPageSize,
		LogLevel: getenv(EnvLogLevel, "info"),
	}

	if v := os.Getenv(EnvPageSize); v != "" {
		size, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("%s: invalid page size %q: %w", EnvPageSize, v, err)
		}
		cfg.PageSize = size
	}

	if v := os.Getenv(EnvRecordDelay); v != "" {
		delay, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("%s: invalid duration %q: %w", EnvRecordDelay, v, err)
		}
		cfg.RecordDelay = delay
	}

	if v := os.Getenv(EnvLogPretty); v != "" {
		pretty, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("%s: invalid boolean %q: %w", EnvLogPretty, v, err)
		}
		cfg.LogPretty = pretty
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the configuration and reports the first problem by its
// environment key.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		field := verrs[0]
		key, ok := envKeys[field.StructNamespace()]
		if !ok {
			key = field.StructNamespace()
		}
		if field.Tag() == "required" {
			return fmt.Errorf("%s is not set", key)
		}
		return fmt.Errorf("%s: value %v failed %q validation", key, field.Value(), field.Tag())
	}

	return fmt.Errorf("invalid configuration: %w", err)
}

func getenv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}
