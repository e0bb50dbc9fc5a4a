package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/imgshare/gallery-client/config"
	"github.com/imgshare/gallery-client/internal/adapters/apiclient"
	"github.com/imgshare/gallery-client/internal/observability/statsd"
	"github.com/imgshare/gallery-client/internal/ports"
	"github.com/imgshare/gallery-client/internal/service"
)

// ServiceContainer holds all initialized services.
type ServiceContainer struct {
	API      *apiclient.Client
	Jar      *apiclient.PersistentJar
	Sessions *service.SessionStore
	Auth     *service.AuthService
	Images   *service.ImageService
	Gallery  *service.GallerySync
}

// ServiceDeps contains dependencies for NewServices.
type ServiceDeps struct {
	Config *config.AppConfig
	Store  ports.KeyValueStore
	Logger *slog.Logger
	// HTTPClient overrides the API transport; its Jar is replaced by the persistent jar.
	HTTPClient *http.Client
	// Metrics receives API and gallery metrics; nil disables them.
	Metrics statsd.Sink
}

// NewServices wires the API client, the persisted cookie jar and the domain services.
func NewServices(ctx context.Context, deps ServiceDeps) (ServiceContainer, error) {
	if deps.Config == nil {
		return ServiceContainer{}, errors.New("config is required")
	}
	if deps.Store == nil {
		return ServiceContainer{}, errors.New("store is required")
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	cfg := deps.Config

	origin, err := url.Parse(cfg.API.BaseURL)
	if err != nil || origin.Scheme == "" || origin.Host == "" {
		return ServiceContainer{}, fmt.Errorf("invalid api base url %q", cfg.API.BaseURL)
	}

	jar, err := apiclient.NewPersistentJar(ctx, deps.Store, cfg.Storage.CookieKey, origin, logger)
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("restore credentials: %w", err)
	}

	var hc *http.Client
	if deps.HTTPClient != nil {
		clone := *deps.HTTPClient
		clone.Jar = jar
		hc = &clone
	}

	api, err := apiclient.NewClient(apiclient.Config{
		BaseURL:            cfg.API.BaseURL,
		Timeout:            cfg.API.Timeout,
		UserPath:           cfg.API.UserPath,
		ItemsPath:          cfg.API.ItemsPath,
		CommentsPath:       cfg.API.CommentsPath,
		CountComments:      cfg.API.CountComments,
		CommentConcurrency: cfg.API.CommentConcurrency,
		UserAgent:          cfg.API.UserAgent,
		Jar:                jar,
		Client:             hc,
		Logger:             logger,
		Metrics:            deps.Metrics,
	})
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("create api client: %w", err)
	}

	sessions := service.NewSessionStore(service.SessionStoreOptions{
		Cache:    deps.Store,
		Identity: api,
		Config: service.SessionStoreConfig{
			Key:    cfg.Storage.SessionKey,
			Logger: logger,
		},
	})

	auth := service.NewAuthService(service.AuthServiceOptions{
		Identity: api,
		Sessions: sessions,
		Config: service.AuthServiceConfig{
			Credentials: jar,
			Logger:      logger,
		},
	})

	images := service.NewImageService(service.ImageServiceOptions{API: api, Logger: logger})

	gallery := service.NewGallerySync(service.GallerySyncOptions{
		API: api,
		Config: service.GallerySyncConfig{
			Source:     cfg.API.GallerySource,
			PageSize:   cfg.Gallery.PageSize,
			WindowSize: cfg.Gallery.WindowSize,
		},
		Logger:  logger,
		Metrics: deps.Metrics,
	})

	return ServiceContainer{
		API:      api,
		Jar:      jar,
		Sessions: sessions,
		Auth:     auth,
		Images:   images,
		Gallery:  gallery,
	}, nil
}

// MetricsOptions configures NewMetricsSink.
type MetricsOptions struct {
	Config config.ObservabilityMetricsConfig
	// Backend is attached to every metric as the storage tag.
	Backend config.StorageBackend
	Logger  *slog.Logger
}

// NewMetricsSink builds the StatsD client when metrics are enabled. A dial
// failure is logged and yields nil so metrics never block the client.
func NewMetricsSink(opts MetricsOptions) *statsd.Client {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if !opts.Config.IsEnabled() {
		return nil
	}
	obsLogger := logger.With("component", "observability")
	client, err := statsd.NewClient(statsd.Config{
		Enabled:    true,
		Address:    opts.Config.StatsdAddress,
		Prefix:     opts.Config.Prefix,
		GlobalTags: map[string]string{"storage": string(opts.Backend)},
		Logger:     obsLogger,
	})
	if err != nil {
		obsLogger.Error("failed to initialise statsd client", "error", err)
		return nil
	}
	return client
}
