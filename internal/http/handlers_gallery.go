package httpx

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"sync"

	"github.com/imgshare/gallery-client/internal/domain/gallery"
	"github.com/imgshare/gallery-client/internal/http/ui/viewmodel"
	"golang.org/x/sync/singleflight"
)

// GallerySyncer is the List Synchronizer surface the viewer drives.
type GallerySyncer interface {
	Load(ctx context.Context) error
	SetQuery(q string)
	Paginate(page int) bool
	Delete(ctx context.Context, imageID string) error
	View() gallery.View
}

// GalleryHandlers serves the gallery screen. The viewer is single-user, so
// one synchronizer backs every request.
type GalleryHandlers struct {
	Sync     GallerySyncer
	Renderer *TemplateRenderer
	Title    string
	Logger   *slog.Logger

	loadMu sync.Mutex
	loaded bool
	loads  singleflight.Group
}

func (h *GalleryHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// ensureLoaded performs the first load, or a reload when forced. Requests
// arriving while a load is in flight wait for it instead of rendering the
// empty collection. A failed load is not retried until the user asks for a
// refresh.
func (h *GalleryHandlers) ensureLoaded(ctx context.Context, force bool) {
	h.loadMu.Lock()
	need := force || !h.loaded
	h.loadMu.Unlock()
	if !need {
		return
	}
	_, err, _ := h.loads.Do("load", func() (any, error) {
		err := h.Sync.Load(context.WithoutCancel(ctx))
		h.loadMu.Lock()
		h.loaded = true
		h.loadMu.Unlock()
		return nil, err
	})
	if err != nil {
		h.logger().WarnContext(ctx, "gallery load failed", "error", err)
	}
}

// applyQuery mirrors the q and page query parameters into the synchronizer.
func (h *GalleryHandlers) applyQuery(values url.Values) {
	if q := values.Get("q"); q != h.Sync.View().Query {
		h.Sync.SetQuery(q)
	}
	if raw := values.Get("page"); raw != "" {
		if page, err := strconv.Atoi(raw); err == nil {
			h.Sync.Paginate(page)
		}
	}
}

// Index renders the gallery grid.
// GET /?q=<query>&page=<n>&refresh=1.
func (h *GalleryHandlers) Index(w http.ResponseWriter, r *http.Request) {
	values := r.URL.Query()
	h.ensureLoaded(r.Context(), values.Get("refresh") != "")
	h.applyQuery(values)

	v := h.Sync.View()
	_ = h.Renderer.Render(w, http.StatusOK, PageGallery, galleryPageData{
		Layout:     layoutFor(r.Context(), h.Title, PageGallery, "Gallery"),
		View:       v,
		Pagination: viewmodel.NewPagination(v, "/"),
	})
}

// Delete removes an image, then returns to the same query and page. A failed
// delete shows up as the gallery's inline error.
// POST /images/{id}/delete.
func (h *GalleryHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := h.Sync.Delete(r.Context(), id); err != nil {
		h.logger().WarnContext(r.Context(), "delete image failed", "image_id", id, "error", err)
	}

	v := h.Sync.View()
	q := url.Values{}
	if v.Query != "" {
		q.Set("q", v.Query)
	}
	q.Set("page", strconv.Itoa(v.Page))
	http.Redirect(w, r, "/?"+q.Encode(), http.StatusSeeOther)
}

// API returns the current gallery view as JSON.
// GET /api/gallery?q=<query>&page=<n>&refresh=1.
func (h *GalleryHandlers) API(w http.ResponseWriter, r *http.Request) {
	values := r.URL.Query()
	h.ensureLoaded(r.Context(), values.Get("refresh") != "")
	h.applyQuery(values)
	WriteJSON(w, http.StatusOK, h.Sync.View())
}
