package internal

import (
	"fmt"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// Config represents the application configuration.
type Config struct {
	App   ApplicationConfig `yaml:"app"`
	Docs  DocsConfig        `yaml:"docs"`
	Cache CacheConfig       `yaml:"cache"`
	Fetch FetchConfig       `yaml:"fetch"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Docs.Validate(); err != nil {
		return err
	}
	if err := c.Cache.Validate(); err != nil {
		return err
	}
	return c.Fetch.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	HTTP     HTTPConfig `yaml:"http"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return c.HTTP.Validate()
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Port int `yaml:"port"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// DocsConfig holds the remote documentation origin settings.
type DocsConfig struct {
	// BaseURL is the documentation origin that relative page links resolve against.
	BaseURL string `yaml:"base_url"`
	// ToctreeURL is the root table-of-contents document.
	ToctreeURL string `yaml:"toctree_url"`
	UserAgent  string `yaml:"user_agent"`
}

// Validate validates the docs configuration.
func (c *DocsConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.BaseURL, validation.Required, is.URL),
		validation.Field(&c.ToctreeURL, validation.Required, is.URL),
		validation.Field(&c.UserAgent, validation.Required),
	)
}

// CacheConfig holds the on-disk cache root directory.
type CacheConfig struct {
	Dir string `yaml:"dir"`
}

// Validate validates the cache configuration.
func (c *CacheConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Dir, validation.Required),
	)
}

// FetchConfig holds page-fetch retry behaviour.
type FetchConfig struct {
	MaxAttempts    int `yaml:"max_attempts"`
	TimeoutSeconds int `yaml:"timeout_seconds"`
	BackoffSeconds int `yaml:"backoff_seconds"`
}

// Timeout returns the per-attempt request timeout.
func (c *FetchConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// BackoffBase returns the base delay for linear retry backoff.
func (c *FetchConfig) BackoffBase() time.Duration {
	return time.Duration(c.BackoffSeconds) * time.Second
}

// Validate validates the fetch configuration.
func (c *FetchConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.MaxAttempts, validation.Required, validation.Min(1), validation.Max(10)),
		validation.Field(&c.TimeoutSeconds, validation.Required, validation.Min(1)),
		validation.Field(&c.BackoffSeconds, validation.Min(0)),
	)
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			HTTP: HTTPConfig{
				Port: 8000,
			},
		},
		Docs: DocsConfig{
			BaseURL:    "https://help.autodesk.com",
			ToctreeURL: "https://help.autodesk.com/view/fusion360/ENU/data/toctree.json",
			UserAgent:  "fusion360-docs-mcp/1.0",
		},
		Cache: CacheConfig{
			Dir: "cache",
		},
		Fetch: FetchConfig{
			MaxAttempts:    3,
			TimeoutSeconds: 30,
			BackoffSeconds: 1,
		},
	}
}
