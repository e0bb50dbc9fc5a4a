package httpx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"runtime/debug"
	"strings"
	"time"

	"github.com/google/uuid"
	domainauth "github.com/imgshare/gallery-client/internal/domain/auth"
	"github.com/imgshare/gallery-client/internal/service"
)

const requestIDHeader = "X-Request-ID"

// Logging returns a middleware that logs HTTP requests and responses.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			requestID := r.Header.Get(requestIDHeader)
			if requestID == "" {
				requestID = uuid.NewString()
			}
			w.Header().Set(requestIDHeader, requestID)

			const defaultHTTPStatus = 200
			ww := &respWriter{ResponseWriter: w, status: defaultHTTPStatus}
			next.ServeHTTP(ww, r)
			logger.Info("http",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.status),
				slog.String("request_id", requestID),
				slog.Duration("duration", time.Since(start)),
			)
		})
	}
}

type respWriter struct {
	http.ResponseWriter
	status int
}

func (w *respWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// Recover returns a middleware that recovers from panics and logs them.
func Recover(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.Error("panic",
						slog.Any("error", err),
						slog.String("path", r.URL.Path),
						slog.String("method", r.Method),
						slog.String("stack", string(debug.Stack())))
					http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// browserRequestKey is an unexported context key type for browser request detection.
type browserRequestKey struct{}

// BrowserDetection returns a middleware that records whether a request came
// from a browser (HTML) or an API client (JSON).
func BrowserDetection() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(r.Context(), browserRequestKey{}, isBrowserRequest(r))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// IsBrowserRequest returns true if the current request is from a browser.
func IsBrowserRequest(r *http.Request) bool {
	if isBrowser, ok := r.Context().Value(browserRequestKey{}).(bool); ok {
		return isBrowser
	}
	return isBrowserRequest(r)
}

// isBrowserRequest treats /api/ paths as API calls and otherwise goes by the
// Accept header; a missing Accept header counts as a browser.
func isBrowserRequest(r *http.Request) bool {
	if strings.HasPrefix(r.URL.Path, "/api/") {
		return false
	}
	if IsHTMX(r) {
		return true
	}
	accept := r.Header.Get("Accept")
	if accept == "" {
		return true
	}
	return strings.Contains(accept, "text/html")
}

// RequireSession gates next behind a Guard mounted for each request.
// Browser requests without a session are redirected to loginPath with a
// redirect_uri; API requests get a 401 JSON error. Handlers read the session
// with GetSessionFromContext.
func RequireSession(resolver service.SessionResolver, loginPath string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			guard := service.NewGuard(service.GuardOptions{Resolver: resolver, LoginPath: loginPath})
			defer guard.Unmount()
			guard.Mount(r.Context(), &guardResponder{w: w, r: r, next: next})
		})
	}
}

// guardResponder renders Guard outcomes as HTTP responses.
type guardResponder struct {
	w    http.ResponseWriter
	r    *http.Request
	next http.Handler
}

// Waiting writes nothing; the response is held until the session resolves.
func (g *guardResponder) Waiting() {}

func (g *guardResponder) Protected(sess domainauth.Session) {
	g.next.ServeHTTP(g.w, g.r.WithContext(SetSessionInContext(g.r.Context(), sess)))
}

func (g *guardResponder) Redirect(target string) {
	if IsBrowserRequest(g.r) {
		redirectToLogin(g.w, g.r, target)
		return
	}
	WriteError(g.w, ErrorParams{
		Code:    http.StatusUnauthorized,
		ErrCode: "authentication_required",
		Err:     errors.New("authentication required"),
	})
}

// redirectToLogin redirects browser requests to the login page with the current URL as redirect_uri.
func redirectToLogin(w http.ResponseWriter, r *http.Request, loginPath string) {
	redirectPath := safeRedirectPath(r.URL.RequestURI())
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		redirectPath = "/"
	}
	loginURL := loginPath + "?redirect_uri=" + url.QueryEscape(redirectPath)

	if IsHTMX(r) {
		SetHXRedirect(w, loginURL)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, loginURL, http.StatusSeeOther)
}

// safeRedirectPath allows only relative paths within the app.
func safeRedirectPath(candidate string) string {
	if candidate == "" {
		return "/"
	}
	// Browsers treat "\" like "/", so "/\evil.com" would leave the site.
	if strings.HasPrefix(candidate, "//") || strings.ContainsAny(candidate, "\\\t\r\n") {
		return "/"
	}
	u, err := url.Parse(candidate)
	if err != nil || u.IsAbs() || u.Host != "" || !strings.HasPrefix(u.Path, "/") {
		return "/"
	}
	return candidate
}
