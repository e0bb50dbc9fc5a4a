package config

import (
	"strings"
	"time"
)

const (
	defaultAPITimeout         = 15 * time.Second
	defaultCommentConcurrency = 4
	maxCommentConcurrency     = 32
)

// APIConfig contains the image-sharing API client configuration.
// Variables are read with the API_ prefix (e.g. API_BASE_URL).
type APIConfig struct {
	// BaseURL is the origin of the image-sharing API. Credential cookies are
	// scoped to this origin.
	BaseURL string        `env:"BASE_URL" envDefault:"http://localhost:3000"`
	Timeout time.Duration `env:"TIMEOUT"  envDefault:"15s"`

	// UserPath, ItemsPath and CommentsPath are JMESPath expressions locating the
	// payload inside response bodies. Empty means the whole body.
	UserPath     string `env:"USER_PATH"     envDefault:""`
	ItemsPath    string `env:"ITEMS_PATH"    envDefault:""`
	CommentsPath string `env:"COMMENTS_PATH" envDefault:""`

	// GallerySource is the list endpoint loaded by the gallery view.
	GallerySource string `env:"GALLERY_SOURCE" envDefault:"/gallery"`

	// CountComments fetches per-image comments when the gallery payload carries no count.
	CountComments      bool `env:"COUNT_COMMENTS"      envDefault:"true"`
	CommentConcurrency int  `env:"COMMENT_CONCURRENCY" envDefault:"4"`

	UserAgent string `env:"USER_AGENT" envDefault:"imgshare-client"`
}

// Sanitize trims string values and clamps numeric ones.
func (c *APIConfig) Sanitize() {
	c.BaseURL = strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	c.UserPath = strings.TrimSpace(c.UserPath)
	c.ItemsPath = strings.TrimSpace(c.ItemsPath)
	c.CommentsPath = strings.TrimSpace(c.CommentsPath)
	c.UserAgent = strings.TrimSpace(c.UserAgent)

	c.GallerySource = strings.TrimSpace(c.GallerySource)
	if c.GallerySource == "" {
		c.GallerySource = "/gallery"
	}
	if c.Timeout <= 0 {
		c.Timeout = defaultAPITimeout
	}
	if c.CommentConcurrency < 1 {
		c.CommentConcurrency = defaultCommentConcurrency
	}
	if c.CommentConcurrency > maxCommentConcurrency {
		c.CommentConcurrency = maxCommentConcurrency
	}
}
