package viewmodel

import (
	"fmt"
	"testing"

	"github.com/imgshare/gallery-client/internal/domain/gallery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func galleryState(n, page int) gallery.State {
	items := make([]gallery.Item, n)
	for i := range items {
		items[i] = gallery.Item{ID: fmt.Sprint(i + 1), Title: "Item", Category: "Misc"}
	}
	return gallery.NewState(2, 3).WithItems(items).WithPage(page)
}

func TestNewPagination_EmptyView(t *testing.T) {
	assert.Nil(t, NewPagination(gallery.Derive(gallery.NewState(2, 3)), "/"))
}

func TestNewPagination_MiddleBlock(t *testing.T) {
	v := gallery.Derive(galleryState(20, 5))
	p := NewPagination(v, "/")
	require.NotNil(t, p)

	assert.Equal(t, 9, p.StartIndex)
	assert.Equal(t, 10, p.EndIndex)
	assert.Equal(t, 20, p.TotalCount)
	assert.Equal(t, "/?page=4", p.PrevURL)
	assert.Equal(t, "/?page=6", p.NextURL)
	assert.Equal(t, "/?page=3", p.PrevBlockURL)
	assert.Equal(t, "/?page=7", p.NextBlockURL)
	require.Len(t, p.Pages, 3)
	assert.Equal(t, 4, p.Pages[0].Number)
	assert.True(t, p.Pages[1].Current)
}

func TestNewPagination_CarriesQuery(t *testing.T) {
	s := galleryState(6, 1).WithQuery("item")
	p := NewPagination(gallery.Derive(s), "/")
	require.NotNil(t, p)

	assert.Empty(t, p.PrevURL)
	assert.Empty(t, p.PrevBlockURL)
	assert.Equal(t, "/?page=2&q=item", p.NextURL)
}
