package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/imgshare/gallery-client/config"
	"github.com/imgshare/gallery-client/internal/bootstrap"
	apperrors "github.com/imgshare/gallery-client/internal/errors"
	"github.com/imgshare/gallery-client/internal/observability/statsd"
	"github.com/spf13/cobra"
)

// storeOpener opens the persisted-state backend.
type storeOpener func(ctx context.Context, cfg config.AppConfig, logger *slog.Logger) (*bootstrap.Storage, error)

// app holds the lazily built dependencies of one CLI invocation.
type app struct {
	cfg       config.AppConfig
	cfgLoaded bool
	logOut    io.Writer
	openStore storeOpener

	logger   *slog.Logger
	storage  *bootstrap.Storage
	metrics  *statsd.Client
	services *bootstrap.ServiceContainer
}

// open loads configuration, opens storage and wires the services on first use.
func (a *app) open(ctx context.Context) (*bootstrap.ServiceContainer, error) {
	if a.services != nil {
		return a.services, nil
	}

	if !a.cfgLoaded {
		cfg, err := bootstrap.LoadConfig()
		if err != nil {
			return nil, err
		}
		a.cfg = cfg
		a.cfgLoaded = true
	}
	if a.logger == nil {
		a.logger = bootstrap.InitLogger(a.cfg.Log, a.logOut)
	}

	opener := a.openStore
	if opener == nil {
		opener = openConfiguredStore
	}
	storage, err := opener(ctx, a.cfg, a.logger)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	a.storage = storage

	deps := bootstrap.ServiceDeps{
		Config: &a.cfg,
		Store:  storage.Store,
		Logger: a.logger,
	}
	a.metrics = bootstrap.NewMetricsSink(bootstrap.MetricsOptions{
		Config:  a.cfg.Observability.Metrics,
		Backend: storage.Backend,
		Logger:  a.logger,
	})
	if a.metrics != nil {
		deps.Metrics = a.metrics
	}

	services, err := bootstrap.NewServices(ctx, deps)
	if err != nil {
		return nil, err
	}
	a.services = &services
	return a.services, nil
}

func openConfiguredStore(ctx context.Context, cfg config.AppConfig, logger *slog.Logger) (*bootstrap.Storage, error) {
	return bootstrap.OpenStorage(ctx, bootstrap.StorageOptions{
		Storage: cfg.Storage,
		Redis:   cfg.Redis,
		Logger:  logger,
	})
}

// close releases everything open opened.
func (a *app) close() error {
	if a.services != nil && a.services.Gallery != nil {
		a.services.Gallery.Close()
	}
	a.services = nil

	var errs []error
	if a.metrics != nil {
		if err := a.metrics.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close metrics: %w", err))
		}
		a.metrics = nil
	}
	if a.storage != nil {
		if err := a.storage.Close(); err != nil {
			errs = append(errs, err)
		}
		a.storage = nil
	}
	return errors.Join(errs...)
}

// run executes one CLI invocation and releases its resources.
func run(ctx context.Context, a *app, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	if cerr := a.close(); cerr != nil {
		err = errors.Join(err, fmt.Errorf("close: %w", cerr))
	}
	return err
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "imgshare",
		Short: "Command-line client for the image-sharing service",
		Long: `imgshare signs in to the image-sharing API and works with the gallery.

The session and the API credentials are kept in the profile store between
invocations, so "imgshare login" once is enough.

Configuration comes from the environment (or a .env file):
  API_BASE_URL       API origin (default http://localhost:3000)
  STORAGE_BACKEND    profile, redis or memory (default profile)
  PROFILE_PATH       SQLite profile file for the profile backend
  STORAGE_ENCRYPTION_KEY
                     32-byte key (raw or base64) sealing the stored session
  GALLERY_PAGE_SIZE  items per page (default 6)
  OBSERVABILITY_METRICS_ENABLED
                     send StatsD metrics (default false)`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newLoginCmd(a),
		newLogoutCmd(a),
		newWhoAmICmd(a),
		newRegisterCmd(a),
		newVerifyCmd(a),
		newGalleryCmd(a),
		newDeleteCmd(a),
		newUploadCmd(a),
		newCommentsCmd(a),
		newCommentCmd(a),
		newServeCmd(a),
	)
	return root
}

// describeError renders err for the terminal. Validation errors list every
// field message; API errors show the server's message verbatim.
func describeError(err error) string {
	if fields := apperrors.FieldMessages(err); len(fields) > 0 {
		lines := make([]string, 0, len(fields))
		for _, f := range fields {
			lines = append(lines, f.Message)
		}
		return strings.Join(lines, "; ")
	}
	if msg := apperrors.UserMessage(err); msg != "" {
		return msg
	}
	return err.Error()
}

func writef(w io.Writer, format string, args ...any) error {
	_, err := fmt.Fprintf(w, format, args...)
	return err
}

func writeln(w io.Writer, args ...any) error {
	_, err := fmt.Fprintln(w, args...)
	return err
}
