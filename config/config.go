package config

import (
	"os"
	"strings"
)

// AppConfig is the main application configuration struct that composes
// domain-specific configuration from separate files.
//
// Configuration is loaded from environment variables using the
// github.com/caarlos0/env library. See individual domain config
// files for details on available environment variables:
//   - api.go: Image-sharing API client configuration
//   - storage.go: Persisted client state and Redis configuration
//   - http.go: Viewer server and gallery view configuration
//   - observability.go: StatsD metrics configuration
//   - log.go: Logging configuration
type AppConfig struct {
	// IsDev controls development mode behavior (text logs, debug level).
	// Set DEV=true or NODE_ENV=development for development mode.
	IsDev bool `env:"DEV" envDefault:"false"`

	// API client configuration
	API APIConfig `envPrefix:"API_"`

	// Persisted state configuration
	Storage StorageConfig
	Redis   RedisConfig `envPrefix:"REDIS_"`

	// Gallery view configuration
	Gallery GalleryConfig

	// HTTP server configuration
	HTTP HTTPConfig

	// Observability configuration
	Observability ObservabilityConfig

	// Logging configuration
	Log LogConfig
}

// Sanitize applies guardrails to configuration values loaded from env.
// This should be called after loading configuration from environment variables.
func (c *AppConfig) Sanitize() {
	c.detectDevMode()

	c.API.Sanitize()
	c.Storage.Sanitize()
	c.Redis.Sanitize()
	c.Gallery.Sanitize()
	c.HTTP.Sanitize()
	c.Observability.Sanitize()
	c.Log.Sanitize(c.IsDev)
}

// detectDevMode checks both DEV and NODE_ENV environment variables.
// NODE_ENV is checked as a fallback (common in frontend tooling).
func (c *AppConfig) detectDevMode() {
	if !c.IsDev {
		nodeEnv := strings.ToLower(os.Getenv("NODE_ENV"))
		c.IsDev = nodeEnv == "development" || nodeEnv == "dev"
	}
}
