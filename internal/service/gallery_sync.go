package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/imgshare/gallery-client/internal/domain/gallery"
	apperrors "github.com/imgshare/gallery-client/internal/errors"
	"github.com/imgshare/gallery-client/internal/observability/metrics"
	"github.com/imgshare/gallery-client/internal/observability/statsd"
	"github.com/imgshare/gallery-client/internal/ports"
)

// ErrGalleryClosed is returned by operations on a closed GallerySync.
var ErrGalleryClosed = errors.New("gallery sync closed")

// Default paging for a gallery screen.
const (
	DefaultPageSize   = 6
	DefaultWindowSize = 3
)

// GallerySyncConfig holds the source and paging of one gallery screen.
type GallerySyncConfig struct {
	Source     string
	PageSize   int
	WindowSize int
}

// GallerySyncOptions groups dependencies for GallerySync.
type GallerySyncOptions struct {
	API     ports.GalleryAPI // Required
	Config  GallerySyncConfig
	Logger  *slog.Logger
	Metrics statsd.Sink // Optional
}

// tombstone records a confirmed delete so a load that was issued earlier but
// completes later cannot bring the item back.
type tombstone struct {
	seq uint64
	id  string
}

// GallerySync owns the state of one gallery screen: the fetched collection,
// the search query and pagination. Network calls run without the lock held;
// their results are applied on completion in sequence order.
type GallerySync struct {
	api     ports.GalleryAPI
	source  string
	logger  *slog.Logger
	metrics statsd.Sink

	mu      sync.Mutex
	state   gallery.State
	errMsg  string
	version uint64
	closed  bool

	seq           uint64 // last sequence number issued
	appliedLoad   uint64 // sequence of the load the collection came from
	loadsInFlight int
	tombstones    []tombstone
}

// NewGallerySync constructs a GallerySync with an empty collection.
func NewGallerySync(opts GallerySyncOptions) *GallerySync {
	if opts.API == nil {
		panic("gallery api is required")
	}
	pageSize := opts.Config.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	windowSize := opts.Config.WindowSize
	if windowSize <= 0 {
		windowSize = DefaultWindowSize
	}
	source := opts.Config.Source
	if source == "" {
		source = "/gallery"
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &GallerySync{
		api:     opts.API,
		source:  source,
		logger:  logger.With("component", "gallery_sync", "source", source),
		metrics: opts.Metrics,
		state:   gallery.NewState(pageSize, windowSize),
	}
}

// Load fetches the full collection and replaces the current one, returning
// to page 1 and the first window. On failure the collection is emptied and
// the error is kept as the view's error indicator. Loads are not retried.
func (g *GallerySync) Load(ctx context.Context) error {
	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		return ErrGalleryClosed
	}
	g.seq++
	seq := g.seq
	g.loadsInFlight++
	g.mu.Unlock()

	items, fetchErr := g.api.FetchGallery(ctx, g.source)

	g.mu.Lock()
	defer g.mu.Unlock()
	g.loadsInFlight--
	defer g.pruneTombstones()

	if g.closed {
		g.logger.DebugContext(ctx, "load completed after close", "seq", seq)
		return nil
	}
	if seq < g.appliedLoad {
		conflict := apperrors.StateConflict("load %d superseded by load %d", seq, g.appliedLoad)
		g.logger.DebugContext(ctx, "discarding stale load", "error", conflict)
		metrics.EmitSync(g.metrics, metrics.SyncEvent{Op: "load", Result: metrics.ResultStale})
		return nil
	}
	g.appliedLoad = seq

	if fetchErr != nil {
		g.state = g.state.WithItems(nil)
		g.errMsg = apperrors.UserMessage(fetchErr)
		g.version++
		g.logger.WarnContext(ctx, "gallery load failed", "error", fetchErr)
		metrics.EmitSync(g.metrics, metrics.SyncEvent{Op: "load", Result: metrics.ResultError, Err: fetchErr})
		return fetchErr
	}

	for _, t := range g.tombstones {
		if t.seq > seq {
			items, _ = gallery.Remove(items, t.id)
		}
	}
	g.state = g.state.WithItems(items)
	g.errMsg = ""
	g.version++
	g.logger.DebugContext(ctx, "gallery loaded", "seq", seq, "items", len(g.state.Items))
	metrics.EmitSync(g.metrics, metrics.SyncEvent{Op: "load", Result: metrics.ResultSuccess, Items: len(g.state.Items)})
	return nil
}

// pruneTombstones drops tombstones no pending load can still need.
func (g *GallerySync) pruneTombstones() {
	if g.loadsInFlight == 0 {
		g.tombstones = nil
		return
	}
	kept := g.tombstones[:0]
	for _, t := range g.tombstones {
		if t.seq > g.appliedLoad {
			kept = append(kept, t)
		}
	}
	g.tombstones = kept
}

// SetQuery sets the search query and returns to page 1.
func (g *GallerySync) SetQuery(q string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closed {
		return
	}
	g.state = g.state.WithQuery(q)
	g.version++
}

// Paginate moves to page, clamped to the valid range. Moving to the current
// page is a no-op. It reports whether the state changed.
func (g *GallerySync) Paginate(page int) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closed {
		return false
	}
	next := g.state.WithPage(page)
	if next.Page == g.state.Page && next.Window == g.state.Window {
		return false
	}
	g.state = next
	g.version++
	return true
}

// Delete removes the image on the server and, only once that succeeds, from
// the collection. The page is clamped so removing the last item of the last
// page moves back a page. On failure the collection is left untouched.
func (g *GallerySync) Delete(ctx context.Context, imageID string) error {
	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		return ErrGalleryClosed
	}
	g.seq++
	seq := g.seq
	g.mu.Unlock()

	err := g.api.DeleteImage(ctx, imageID)

	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closed {
		g.logger.DebugContext(ctx, "delete completed after close", "seq", seq, "image_id", imageID)
		return err
	}
	if err != nil {
		g.errMsg = apperrors.UserMessage(err)
		g.version++
		g.logger.WarnContext(ctx, "delete failed", "image_id", imageID, "error", err)
		metrics.EmitSync(g.metrics, metrics.SyncEvent{Op: "delete", Result: metrics.ResultError, Err: err})
		return err
	}

	if g.loadsInFlight > 0 {
		g.tombstones = append(g.tombstones, tombstone{seq: seq, id: imageID})
	}
	g.state, _ = g.state.Without(imageID)
	g.errMsg = ""
	g.version++
	g.logger.DebugContext(ctx, "image deleted", "seq", seq, "image_id", imageID)
	metrics.EmitSync(g.metrics, metrics.SyncEvent{Op: "delete", Result: metrics.ResultSuccess})
	return nil
}

// View returns a render-ready snapshot.
func (g *GallerySync) View() gallery.View {
	g.mu.Lock()
	defer g.mu.Unlock()
	v := gallery.Derive(g.state)
	v.Error = g.errMsg
	return v
}

// Version increases on every applied state change.
func (g *GallerySync) Version() uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.version
}

// Close tears the instance down. Results arriving afterwards are ignored.
func (g *GallerySync) Close() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.closed = true
	g.tombstones = nil
}
