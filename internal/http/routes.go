package httpx

import (
	"errors"
	"io/fs"
	"log/slog"
	"net/http"

	imgshare "github.com/imgshare/gallery-client"
	"github.com/imgshare/gallery-client/internal/service"
)

// DefaultTitle is shown in the page header.
const DefaultTitle = "imgshare"

// RouterServices holds everything the viewer router needs.
type RouterServices struct {
	Sessions service.SessionResolver
	Auth     AuthFlows
	Gallery  GallerySyncer
	// LoginPath is where unauthenticated browsers are sent. Defaults to /login.
	LoginPath string
	Title     string
	// TemplateFS overrides the embedded templates (tests, local development).
	TemplateFS fs.FS
	Logger     *slog.Logger
}

// NewRouter creates the viewer handler with logging, panic recovery and
// browser detection applied.
func NewRouter(services RouterServices) (http.Handler, error) {
	if services.Sessions == nil || services.Auth == nil || services.Gallery == nil {
		return nil, errors.New("sessions, auth and gallery services are required")
	}
	logger := services.Logger
	if logger == nil {
		logger = slog.Default()
	}
	loginPath := services.LoginPath
	if loginPath == "" {
		loginPath = "/login"
	}
	title := services.Title
	if title == "" {
		title = DefaultTitle
	}

	templateFS := services.TemplateFS
	if templateFS == nil {
		sub, err := fs.Sub(imgshare.TemplateFS, "web/templates")
		if err != nil {
			return nil, err
		}
		templateFS = sub
	}
	renderer, err := NewTemplateRenderer(TemplateRendererConfig{TemplateFS: templateFS, Logger: logger})
	if err != nil {
		return nil, err
	}

	authHandlers := &AuthHandlers{
		Svc:       services.Auth,
		Sessions:  services.Sessions,
		Renderer:  renderer,
		LoginPath: loginPath,
		Title:     title,
		Logger:    logger,
	}
	galleryHandlers := &GalleryHandlers{
		Sync:     services.Gallery,
		Renderer: renderer,
		Title:    title,
		Logger:   logger,
	}
	protect := RequireSession(services.Sessions, loginPath)

	mux := http.NewServeMux()
	mux.Handle("GET /healthz", http.HandlerFunc(healthHandler))
	mux.Handle("HEAD /healthz", http.HandlerFunc(healthHandler))

	mux.HandleFunc("GET "+loginPath, authHandlers.LoginPage)
	mux.HandleFunc("POST "+loginPath, authHandlers.LoginSubmit)
	mux.Handle("POST /logout", protect(http.HandlerFunc(authHandlers.Logout)))

	mux.Handle("GET /{$}", protect(http.HandlerFunc(galleryHandlers.Index)))
	mux.Handle("POST /images/{id}/delete", protect(http.HandlerFunc(galleryHandlers.Delete)))
	mux.Handle("GET /api/gallery", protect(http.HandlerFunc(galleryHandlers.API)))

	var handler http.Handler = mux
	handler = BrowserDetection()(handler)
	handler = Logging(logger)(handler)
	handler = Recover(logger)(handler)
	return handler, nil
}
