package config

import (
	"log/slog"
	"strings"
)

// LogFormat selects the slog handler.
type LogFormat string

const (
	LogFormatJSON LogFormat = "json"
	LogFormatText LogFormat = "text"
)

// LogConfig contains logging configuration.
type LogConfig struct {
	Level  string    `env:"LOG_LEVEL"  envDefault:""`
	Format LogFormat `env:"LOG_FORMAT" envDefault:""`
}

// Sanitize fills unset values. Development mode defaults to debug-level text logs.
func (c *LogConfig) Sanitize(isDev bool) {
	c.Level = strings.ToLower(strings.TrimSpace(c.Level))
	if c.Level == "" {
		c.Level = "info"
		if isDev {
			c.Level = "debug"
		}
	}

	c.Format = LogFormat(strings.ToLower(strings.TrimSpace(string(c.Format))))
	switch c.Format {
	case LogFormatJSON, LogFormatText:
	default:
		c.Format = LogFormatJSON
		if isDev {
			c.Format = LogFormatText
		}
	}
}

// SlogLevel maps Level onto a slog level. Unknown names resolve to info.
func (c LogConfig) SlogLevel() slog.Level {
	switch c.Level {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
