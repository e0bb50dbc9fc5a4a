// Package apiclient implements the identity and gallery ports against the
// image-sharing HTTP API.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	apperrors "github.com/imgshare/gallery-client/internal/errors"
	"github.com/imgshare/gallery-client/internal/observability/metrics"
	"github.com/imgshare/gallery-client/internal/observability/statsd"
	"github.com/imgshare/gallery-client/internal/ports"
	jmespath "github.com/jmespath-community/go-jmespath"
)

var (
	_ ports.IdentityAPI = (*Client)(nil)
	_ ports.GalleryAPI  = (*Client)(nil)
)

const maxErrorBody = 64 << 10

// Config captures the API client settings.
type Config struct {
	BaseURL string
	Timeout time.Duration
	// UserPath, ItemsPath and CommentsPath are JMESPath expressions locating the
	// payload inside response bodies. Empty means the whole body.
	UserPath     string
	ItemsPath    string
	CommentsPath string
	// CountComments fetches per-image comments when the gallery payload has no count.
	CountComments      bool
	CommentConcurrency int
	UserAgent          string
	// Jar carries credential cookies; nil uses a fresh in-memory jar.
	Jar    http.CookieJar
	Client *http.Client
	Logger *slog.Logger
	// Metrics receives per-call counters and timings; nil disables them.
	Metrics statsd.Sink
}

// Client talks to the image-sharing API.
type Client struct {
	base               *url.URL
	client             *http.Client
	userPath           string
	itemsPath          string
	commentsPath       string
	countComments      bool
	commentConcurrency int
	userAgent          string
	logger             *slog.Logger
	metrics            statsd.Sink
}

// NewClient builds an API client. Callers should pass a validated config.
func NewClient(cfg Config) (*Client, error) {
	raw := strings.TrimSpace(cfg.BaseURL)
	if raw == "" {
		return nil, errors.New("api base url is required")
	}
	base, err := url.Parse(raw)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid api base url %q", raw)
	}

	for _, expr := range []string{cfg.UserPath, cfg.ItemsPath, cfg.CommentsPath} {
		if strings.TrimSpace(expr) == "" {
			continue
		}
		if _, cerr := jmespath.Compile(expr); cerr != nil {
			return nil, fmt.Errorf("invalid payload path %q: %w", expr, cerr)
		}
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	hc := cfg.Client
	if hc == nil {
		jar := cfg.Jar
		if jar == nil {
			jar, err = NewMemoryJar()
			if err != nil {
				return nil, err
			}
		}
		hc = &http.Client{Timeout: timeout, Jar: jar}
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		base:               base,
		client:             hc,
		userPath:           strings.TrimSpace(cfg.UserPath),
		itemsPath:          strings.TrimSpace(cfg.ItemsPath),
		commentsPath:       strings.TrimSpace(cfg.CommentsPath),
		countComments:      cfg.CountComments,
		commentConcurrency: max(cfg.CommentConcurrency, 1),
		userAgent:          fallbackString(strings.TrimSpace(cfg.UserAgent), "imgshare-client"),
		logger:             logger,
		metrics:            cfg.Metrics,
	}, nil
}

func fallbackString(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

// request describes one API call.
type request struct {
	Method      string
	Path        string
	Route       string // metrics endpoint tag; empty uses Path
	Body        any
	RawBody     io.Reader
	ContentType string
}

// do performs the call and returns the response body of a 2xx answer.
// Non-2xx answers become transport errors carrying the server message.
func (c *Client) do(ctx context.Context, r request) (data []byte, err error) {
	start := time.Now()
	status := 0
	defer func() {
		metrics.EmitAPICall(c.metrics, metrics.APICall{
			Method:   r.Method,
			Endpoint: fallbackString(r.Route, r.Path),
			Status:   status,
			Duration: time.Since(start),
			Err:      err,
		})
	}()

	target := c.base.JoinPath(r.Path)

	body := r.RawBody
	contentType := r.ContentType
	if r.Body != nil {
		buf, err := json.Marshal(r.Body)
		if err != nil {
			return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "encode request")
		}
		body = bytes.NewReader(buf)
		contentType = "application/json"
	}

	req, err := http.NewRequestWithContext(ctx, r.Method, target.String(), body)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "create request")
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", requestID)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, apperrors.Transportf(err, "%s %s", r.Method, r.Path)
	}
	defer resp.Body.Close()
	status = resp.StatusCode

	c.logger.DebugContext(ctx, "api call",
		slog.String("method", r.Method),
		slog.String("path", r.Path),
		slog.Int("status", resp.StatusCode),
		slog.String("request_id", requestID),
		slog.Duration("duration", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, c.handleErrorResponse(resp)
	}

	data, err = io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.Transportf(err, "read %s %s", r.Method, r.Path)
	}
	return data, nil
}

// handleErrorResponse extracts the server's message so it can be shown verbatim.
func (c *Client) handleErrorResponse(resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	msg := ""
	if json.Unmarshal(data, &payload) == nil {
		msg = fallbackString(strings.TrimSpace(payload.Message), strings.TrimSpace(payload.Error))
	}
	if msg == "" {
		msg = strings.TrimSpace(string(data))
	}
	if msg == "" || len(msg) > 512 {
		msg = http.StatusText(resp.StatusCode)
	}
	return apperrors.Transport(resp.StatusCode, msg)
}

// decode locates the payload with the JMESPath expression and decodes it into dst.
func decode(data []byte, expr string, dst any) error {
	if strings.TrimSpace(expr) == "" {
		if err := json.Unmarshal(data, dst); err != nil {
			return apperrors.Decode(err, "decode response")
		}
		return nil
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return apperrors.Decode(err, "decode response")
	}
	found, err := jmespath.Search(expr, doc)
	if err != nil {
		return apperrors.Decode(err, "evaluate payload path "+expr)
	}
	if found == nil {
		return apperrors.Decode(fmt.Errorf("no value at %q", expr), "decode response")
	}
	buf, err := json.Marshal(found)
	if err != nil {
		return apperrors.Decode(err, "re-encode payload")
	}
	if err := json.Unmarshal(buf, dst); err != nil {
		return apperrors.Decode(err, "decode payload")
	}
	return nil
}
