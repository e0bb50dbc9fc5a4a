package apiclient

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"sync"
	"time"

	"github.com/imgshare/gallery-client/internal/ports"
	"golang.org/x/net/publicsuffix"
)

const jarPersistTimeout = 2 * time.Second

// NewMemoryJar returns a cookie jar scoped by the public suffix list.
func NewMemoryJar() (*cookiejar.Jar, error) {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}
	return jar, nil
}

type storedCookie struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// PersistentJar is an http.CookieJar that mirrors the API origin's cookies
// into a KeyValueStore, so a CLI keeps its server session between runs.
type PersistentJar struct {
	mu     sync.Mutex
	jar    *cookiejar.Jar
	store  ports.KeyValueStore
	key    string
	origin *url.URL
	logger *slog.Logger
}

// NewPersistentJar creates the jar and restores cookies saved under key.
func NewPersistentJar(ctx context.Context, store ports.KeyValueStore, key string, origin *url.URL, logger *slog.Logger) (*PersistentJar, error) {
	jar, err := NewMemoryJar()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	pj := &PersistentJar{jar: jar, store: store, key: key, origin: origin, logger: logger}

	raw, found, err := store.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("load cookies: %w", err)
	}
	if !found {
		return pj, nil
	}

	var saved []storedCookie
	if err := json.Unmarshal([]byte(raw), &saved); err != nil {
		logger.WarnContext(ctx, "discarding unreadable cookie record", "error", err)
		if derr := store.Delete(ctx, key); derr != nil {
			logger.WarnContext(ctx, "delete cookie record failed", "error", derr)
		}
		return pj, nil
	}
	cookies := make([]*http.Cookie, 0, len(saved))
	for _, c := range saved {
		cookies = append(cookies, &http.Cookie{Name: c.Name, Value: c.Value, Path: "/"})
	}
	jar.SetCookies(origin, cookies)
	return pj, nil
}

// SetCookies implements http.CookieJar.
func (p *PersistentJar) SetCookies(u *url.URL, cookies []*http.Cookie) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.jar.SetCookies(u, cookies)
	if u.Host != p.origin.Host {
		return
	}
	p.persistLocked()
}

// Cookies implements http.CookieJar.
func (p *PersistentJar) Cookies(u *url.URL) []*http.Cookie {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.jar.Cookies(u)
}

// Reset drops every cookie and the persisted record.
func (p *PersistentJar) Reset(ctx context.Context) error {
	jar, err := NewMemoryJar()
	if err != nil {
		return err
	}
	p.mu.Lock()
	p.jar = jar
	p.mu.Unlock()
	if err := p.store.Delete(ctx, p.key); err != nil {
		return fmt.Errorf("delete cookies: %w", err)
	}
	return nil
}

func (p *PersistentJar) persistLocked() {
	current := p.jar.Cookies(p.origin)
	saved := make([]storedCookie, 0, len(current))
	for _, c := range current {
		saved = append(saved, storedCookie{Name: c.Name, Value: c.Value})
	}

	ctx, cancel := context.WithTimeout(context.Background(), jarPersistTimeout)
	defer cancel()

	if len(saved) == 0 {
		if err := p.store.Delete(ctx, p.key); err != nil {
			p.logger.WarnContext(ctx, "delete cookie record failed", "error", err)
		}
		return
	}
	buf, err := json.Marshal(saved)
	if err != nil {
		p.logger.WarnContext(ctx, "encode cookies failed", "error", err)
		return
	}
	if err := p.store.Set(ctx, p.key, string(buf)); err != nil {
		p.logger.WarnContext(ctx, "persist cookies failed", "error", err)
	}
}
