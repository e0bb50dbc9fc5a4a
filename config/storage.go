package config

import (
	"strings"
	"time"
)

// StorageBackend selects where persisted client state lives.
type StorageBackend string

const (
	// StorageBackendProfile keeps records in a per-profile SQLite file.
	StorageBackendProfile StorageBackend = "profile"
	// StorageBackendRedis shares records through Redis.
	StorageBackendRedis StorageBackend = "redis"
	// StorageBackendMemory keeps records for the life of the process only.
	StorageBackendMemory StorageBackend = "memory"
)

// StorageConfig contains configuration for the persisted session cache.
type StorageConfig struct {
	Backend StorageBackend `env:"STORAGE_BACKEND" envDefault:"profile"`

	// ProfilePath is the SQLite file used by the profile backend.
	// Empty resolves to <user config dir>/imgshare/profile.db at startup.
	ProfilePath string `env:"PROFILE_PATH" envDefault:""`

	// SessionKey holds the cached user record; CookieKey holds the API credential cookies.
	SessionKey string `env:"SESSION_KEY" envDefault:"imgshare:session"`
	CookieKey  string `env:"COOKIE_KEY"  envDefault:"imgshare:cookies"`

	// EncryptionKey seals persisted records with AES-256-GCM when set:
	// 32 raw bytes or their standard base64 encoding.
	EncryptionKey string `env:"STORAGE_ENCRYPTION_KEY" envDefault:""`
}

// Sanitize normalises the backend name and falls back to defaults for blank keys.
func (c *StorageConfig) Sanitize() {
	c.Backend = StorageBackend(strings.ToLower(strings.TrimSpace(string(c.Backend))))
	switch c.Backend {
	case StorageBackendProfile, StorageBackendRedis, StorageBackendMemory:
	default:
		c.Backend = StorageBackendProfile
	}

	c.ProfilePath = strings.TrimSpace(c.ProfilePath)
	c.SessionKey = strings.TrimSpace(c.SessionKey)
	if c.SessionKey == "" {
		c.SessionKey = "imgshare:session"
	}
	c.CookieKey = strings.TrimSpace(c.CookieKey)
	if c.CookieKey == "" {
		c.CookieKey = "imgshare:cookies"
	}
	c.EncryptionKey = strings.TrimSpace(c.EncryptionKey)
}

// RedisConfig contains Redis configuration.
type RedisConfig struct {
	URI                string        `env:"URI"                  envDefault:"localhost:6379"`
	Password           string        `env:"PASSWORD"             envDefault:""`
	DB                 int           `env:"DB"                   envDefault:"0"`
	KeyPrefix          string        `env:"KEY_PREFIX"           envDefault:"imgshare:"`
	SentinelNodes      []string      `env:"SENTINEL_NODES"       envDefault:"localhost:26379"`
	SentinelMasterName string        `env:"SENTINEL_MASTER_NAME" envDefault:"mymaster"`
	SentinelPassword   string        `env:"SENTINEL_PASSWORD"    envDefault:""`
	UseSentinel        bool          `env:"USE_SENTINEL"         envDefault:"false"`
	SessionTTL         time.Duration `env:"SESSION_TTL"          envDefault:"0s"`
}

// Sanitize drops blank sentinel nodes and negative values.
func (c *RedisConfig) Sanitize() {
	c.URI = strings.TrimSpace(c.URI)
	nodes := c.SentinelNodes[:0]
	for _, node := range c.SentinelNodes {
		if node = strings.TrimSpace(node); node != "" {
			nodes = append(nodes, node)
		}
	}
	c.SentinelNodes = nodes
	if c.UseSentinel && len(c.SentinelNodes) == 0 {
		c.UseSentinel = false
	}
	if c.DB < 0 {
		c.DB = 0
	}
	if c.SessionTTL < 0 {
		c.SessionTTL = 0
	}
}
