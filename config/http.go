package config

import "strings"

// HTTPConfig contains viewer server configuration.
type HTTPConfig struct {
	// Addr is the address to bind the HTTP server to.
	Addr string `env:"HTTP_ADDR" envDefault:"127.0.0.1:8080"`

	// LoginPath is where unauthenticated requests are redirected.
	LoginPath string `env:"HTTP_LOGIN_PATH" envDefault:"/login"`

	// Title is shown in the page header.
	Title string `env:"HTTP_TITLE" envDefault:"imgshare"`
}

// Sanitize applies guardrails to HTTP configuration values.
func (h *HTTPConfig) Sanitize() {
	h.Addr = strings.TrimSpace(h.Addr)
	if h.Addr == "" {
		h.Addr = "127.0.0.1:8080"
	}
	h.LoginPath = strings.TrimSpace(h.LoginPath)
	if h.LoginPath == "" || !strings.HasPrefix(h.LoginPath, "/") || strings.HasPrefix(h.LoginPath, "//") {
		h.LoginPath = "/login"
	}
	h.Title = strings.TrimSpace(h.Title)
	if h.Title == "" {
		h.Title = "imgshare"
	}
}

// GalleryConfig controls gallery pagination.
type GalleryConfig struct {
	PageSize   int `env:"GALLERY_PAGE_SIZE"   envDefault:"6"`
	WindowSize int `env:"GALLERY_WINDOW_SIZE" envDefault:"3"`
}

// Sanitize clamps pagination values to positive numbers.
func (g *GalleryConfig) Sanitize() {
	if g.PageSize < 1 {
		g.PageSize = 6
	}
	if g.WindowSize < 1 {
		g.WindowSize = 3
	}
}
