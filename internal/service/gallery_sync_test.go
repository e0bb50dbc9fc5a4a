package service

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/imgshare/gallery-client/internal/domain/gallery"
	apperrors "github.com/imgshare/gallery-client/internal/errors"
	"github.com/imgshare/gallery-client/internal/mocks"
	"github.com/imgshare/gallery-client/internal/observability/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/mock/gomock"
)

func galleryItems(n int) []gallery.Item {
	items := make([]gallery.Item, n)
	for i := range items {
		items[i] = gallery.Item{
			ID:       fmt.Sprintf("img-%d", i+1),
			Title:    fmt.Sprintf("Picture %d", i+1),
			Category: "Misc",
		}
	}
	return items
}

func itemIDs(items []gallery.Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}

func newGallerySync(t *testing.T, pageSize, windowSize int) (*GallerySync, *mocks.MockGalleryAPI) {
	t.Helper()
	ctrl := gomock.NewController(t)
	api := mocks.NewMockGalleryAPI(ctrl)
	g := NewGallerySync(GallerySyncOptions{
		API:    api,
		Config: GallerySyncConfig{Source: "/gallery", PageSize: pageSize, WindowSize: windowSize},
	})
	return g, api
}

func TestGallerySync_LoadResetsPagination(t *testing.T) {
	g, api := newGallerySync(t, 2, 3)
	api.EXPECT().FetchGallery(gomock.Any(), "/gallery").Return(galleryItems(20), nil).Times(2)
	ctx := context.Background()

	require.NoError(t, g.Load(ctx))
	g.Paginate(5)
	require.Equal(t, 5, g.View().Page)

	require.NoError(t, g.Load(ctx))
	v := g.View()
	assert.Equal(t, 1, v.Page)
	assert.Equal(t, gallery.Window{Start: 1, End: 3}, v.Window)
	assert.Equal(t, 10, v.TotalPages)
	assert.Equal(t, []string{"img-1", "img-2"}, itemIDs(v.PageItems))
}

func TestGallerySync_LoadFailureEmptiesAndSurfacesError(t *testing.T) {
	g, api := newGallerySync(t, 6, 3)
	gomock.InOrder(
		api.EXPECT().FetchGallery(gomock.Any(), "/gallery").Return(galleryItems(4), nil),
		api.EXPECT().FetchGallery(gomock.Any(), "/gallery").Return(nil, apperrors.Transport(503, "Service unavailable")),
	)
	ctx := context.Background()

	require.NoError(t, g.Load(ctx))
	err := g.Load(ctx)
	require.Error(t, err)
	assert.True(t, apperrors.IsTransport(err))

	v := g.View()
	assert.True(t, v.Empty)
	assert.Empty(t, v.PageItems)
	assert.Equal(t, "Service unavailable", v.Error)
	assert.Equal(t, 1, v.TotalPages)

	// The view stays interactive.
	g.SetQuery("cat")
	assert.Equal(t, "cat", g.View().Query)
}

func TestGallerySync_SetQueryFiltersAndResetsPage(t *testing.T) {
	items := galleryItems(10)
	for _, i := range []int{1, 4, 8} {
		items[i].Category = "Nature"
	}
	g, api := newGallerySync(t, 2, 3)
	api.EXPECT().FetchGallery(gomock.Any(), "/gallery").Return(items, nil)

	require.NoError(t, g.Load(context.Background()))
	g.Paginate(4)
	require.Equal(t, 4, g.View().Page)

	g.SetQuery("nature")
	v := g.View()
	assert.Len(t, v.Filtered, 3)
	assert.Equal(t, []string{"img-2", "img-5", "img-9"}, itemIDs(v.Filtered))
	assert.Equal(t, 1, v.Page)
	assert.Equal(t, 2, v.TotalPages)
	assert.True(t, v.Window.Contains(1))
}

func TestGallerySync_DeleteLastItemOnLastPageMovesBack(t *testing.T) {
	g, api := newGallerySync(t, 6, 3)
	api.EXPECT().FetchGallery(gomock.Any(), "/gallery").Return(galleryItems(7), nil)
	api.EXPECT().DeleteImage(gomock.Any(), "img-7").Return(nil)
	ctx := context.Background()

	require.NoError(t, g.Load(ctx))
	assert.Equal(t, 2, g.View().TotalPages)

	require.True(t, g.Paginate(2))
	require.Equal(t, []string{"img-7"}, itemIDs(g.View().PageItems))

	require.NoError(t, g.Delete(ctx, "img-7"))
	v := g.View()
	assert.Equal(t, 1, v.Page)
	assert.Equal(t, 1, v.TotalPages)
	assert.Equal(t, gallery.Window{Start: 1, End: 1}, v.Window)
	assert.Len(t, v.PageItems, 6)
}

func TestGallerySync_DeleteFailureLeavesCollection(t *testing.T) {
	g, api := newGallerySync(t, 6, 3)
	api.EXPECT().FetchGallery(gomock.Any(), "/gallery").Return(galleryItems(3), nil)
	api.EXPECT().DeleteImage(gomock.Any(), "img-2").Return(apperrors.Transport(403, "Not your image"))
	ctx := context.Background()

	require.NoError(t, g.Load(ctx))
	err := g.Delete(ctx, "img-2")
	require.Error(t, err)

	v := g.View()
	assert.Equal(t, []string{"img-1", "img-2", "img-3"}, itemIDs(v.Filtered))
	assert.Equal(t, "Not your image", v.Error)
}

func TestGallerySync_PaginateCurrentPageIsNoop(t *testing.T) {
	g, api := newGallerySync(t, 2, 3)
	api.EXPECT().FetchGallery(gomock.Any(), "/gallery").Return(galleryItems(9), nil)
	require.NoError(t, g.Load(context.Background()))
	require.True(t, g.Paginate(2))

	before, version := g.View(), g.Version()
	assert.False(t, g.Paginate(2))
	assert.Equal(t, version, g.Version())
	assert.Equal(t, before, g.View())
}

func TestGallerySync_PaginateSlidesWindowByBlocks(t *testing.T) {
	g, api := newGallerySync(t, 2, 3)
	api.EXPECT().FetchGallery(gomock.Any(), "/gallery").Return(galleryItems(20), nil)
	require.NoError(t, g.Load(context.Background()))

	steps := []struct {
		page       int
		wantPage   int
		wantWindow gallery.Window
	}{
		{page: 3, wantPage: 3, wantWindow: gallery.Window{Start: 1, End: 3}},
		{page: 4, wantPage: 4, wantWindow: gallery.Window{Start: 4, End: 6}},
		{page: 3, wantPage: 3, wantWindow: gallery.Window{Start: 1, End: 3}},
		{page: 10, wantPage: 10, wantWindow: gallery.Window{Start: 10, End: 10}},
		{page: 99, wantPage: 10, wantWindow: gallery.Window{Start: 10, End: 10}},
		{page: -4, wantPage: 1, wantWindow: gallery.Window{Start: 1, End: 3}},
	}
	for _, s := range steps {
		g.Paginate(s.page)
		v := g.View()
		assert.Equal(t, s.wantPage, v.Page, "paginate(%d)", s.page)
		assert.Equal(t, s.wantWindow, v.Window, "paginate(%d)", s.page)
	}
}

func TestGallerySync_StaleLoadDoesNotClobberDelete(t *testing.T) {
	defer goleak.VerifyNone(t)

	g, api := newGallerySync(t, 6, 3)
	started := make(chan struct{})
	release := make(chan struct{})
	api.EXPECT().FetchGallery(gomock.Any(), "/gallery").DoAndReturn(func(context.Context, string) ([]gallery.Item, error) {
		close(started)
		<-release
		return galleryItems(4), nil
	})
	api.EXPECT().DeleteImage(gomock.Any(), "img-2").Return(nil)
	ctx := context.Background()

	loadErr := make(chan error)
	go func() { loadErr <- g.Load(ctx) }()
	<-started

	require.NoError(t, g.Delete(ctx, "img-2"))
	close(release)
	require.NoError(t, <-loadErr)

	assert.Equal(t, []string{"img-1", "img-3", "img-4"}, itemIDs(g.View().Filtered))
}

func TestGallerySync_OlderLoadCompletingLateIsDiscarded(t *testing.T) {
	defer goleak.VerifyNone(t)

	g, api := newGallerySync(t, 6, 3)
	started := make(chan struct{})
	release := make(chan struct{})
	var calls atomic.Int32
	api.EXPECT().FetchGallery(gomock.Any(), "/gallery").DoAndReturn(func(context.Context, string) ([]gallery.Item, error) {
		if calls.Add(1) == 1 {
			close(started)
			<-release
			return galleryItems(2), nil
		}
		return galleryItems(5), nil
	}).Times(2)
	ctx := context.Background()

	slow := make(chan error)
	go func() { slow <- g.Load(ctx) }()
	<-started

	require.NoError(t, g.Load(ctx))
	version := g.Version()

	close(release)
	require.NoError(t, <-slow)

	assert.Equal(t, version, g.Version())
	assert.Len(t, g.View().Filtered, 5)
}

func TestGallerySync_ResultsAfterCloseAreIgnored(t *testing.T) {
	defer goleak.VerifyNone(t)

	g, api := newGallerySync(t, 6, 3)
	started := make(chan struct{})
	release := make(chan struct{})
	api.EXPECT().FetchGallery(gomock.Any(), "/gallery").DoAndReturn(func(context.Context, string) ([]gallery.Item, error) {
		close(started)
		<-release
		return galleryItems(3), nil
	})

	done := make(chan error)
	go func() { done <- g.Load(context.Background()) }()
	<-started
	g.Close()
	close(release)

	require.NoError(t, <-done)
	assert.True(t, g.View().Empty)
	assert.ErrorIs(t, g.Load(context.Background()), ErrGalleryClosed)
	assert.ErrorIs(t, g.Delete(context.Background(), "img-1"), ErrGalleryClosed)
	assert.False(t, g.Paginate(2))
}

func TestGallerySync_Scenario(t *testing.T) {
	g, api := newGallerySync(t, 2, 3)
	api.EXPECT().FetchGallery(gomock.Any(), "/gallery").Return([]gallery.Item{
		{ID: "1", Title: "Cat", Category: "Animals"},
		{ID: "2", Title: "Dog", Category: "Animals"},
		{ID: "3", Title: "Tree", Category: "Nature"},
	}, nil)

	require.NoError(t, g.Load(context.Background()))
	v := g.View()
	assert.Equal(t, []string{"1", "2"}, itemIDs(v.PageItems))
	assert.Equal(t, 2, v.TotalPages)

	g.SetQuery("animals")
	v = g.View()
	assert.Equal(t, []string{"1", "2"}, itemIDs(v.Filtered))
	assert.Equal(t, 1, v.TotalPages)
	assert.Equal(t, 1, v.Page)
}

func TestGallerySync_EmptyCollectionShowsNoItems(t *testing.T) {
	g, api := newGallerySync(t, 6, 3)
	api.EXPECT().FetchGallery(gomock.Any(), "/gallery").Return(nil, nil)

	require.NoError(t, g.Load(context.Background()))
	v := g.View()
	assert.True(t, v.Empty)
	assert.Equal(t, 1, v.TotalPages)
	assert.Equal(t, gallery.Window{Start: 1, End: 1}, v.Window)
	assert.Empty(t, v.Error)
}

func TestGallerySync_EmitsSyncMetrics(t *testing.T) {
	ctrl := gomock.NewController(t)
	api := mocks.NewMockGalleryAPI(ctrl)
	rec := &metrics.Recorder{}
	g := NewGallerySync(GallerySyncOptions{
		API:     api,
		Config:  GallerySyncConfig{PageSize: 2},
		Metrics: rec,
	})
	ctx := context.Background()

	gomock.InOrder(
		api.EXPECT().FetchGallery(gomock.Any(), "/gallery").Return(galleryItems(3), nil),
		api.EXPECT().DeleteImage(gomock.Any(), "img-9").Return(apperrors.Transport(404, "Image not found")),
		api.EXPECT().DeleteImage(gomock.Any(), "img-1").Return(nil),
	)

	require.NoError(t, g.Load(ctx))
	require.Error(t, g.Delete(ctx, "img-9"))
	require.NoError(t, g.Delete(ctx, "img-1"))

	syncs := rec.Named("gallery.sync")
	require.Len(t, syncs, 3)
	assert.Equal(t, map[string]string{"op": "load", "result": "success"}, syncs[0].Tags)
	assert.Equal(t, map[string]string{"op": "delete", "result": "error", "error_class": "not_found"}, syncs[1].Tags)
	assert.Equal(t, map[string]string{"op": "delete", "result": "success"}, syncs[2].Tags)

	gauges := rec.Named("gallery.items")
	require.Len(t, gauges, 1)
	assert.InDelta(t, 3.0, gauges[0].Value, 0)
}
