package viewmodel

import (
	"net/url"
	"strconv"

	"github.com/imgshare/gallery-client/internal/domain/gallery"
)

// PageLink is one numbered control in the page window.
type PageLink struct {
	Number  int
	URL     string
	Current bool
}

// Pagination contains pagination metadata for list views.
type Pagination struct {
	Page         int
	PageSize     int
	TotalPages   int
	HasPrev      bool
	HasNext      bool
	StartIndex   int
	EndIndex     int
	TotalCount   int
	PrevURL      string
	NextURL      string
	PrevBlockURL string
	NextBlockURL string
	Pages        []PageLink
}

// NewPagination builds the page controls for v. basePath is the list URL;
// the active query is carried on every link. It returns nil for an empty view.
func NewPagination(v gallery.View, basePath string) *Pagination {
	if v.Empty {
		return nil
	}
	link := func(page int) string {
		q := url.Values{}
		if v.Query != "" {
			q.Set("q", v.Query)
		}
		q.Set("page", strconv.Itoa(page))
		return basePath + "?" + q.Encode()
	}

	p := &Pagination{
		Page:       v.Page,
		PageSize:   v.PageSize,
		TotalPages: v.TotalPages,
		HasPrev:    v.HasPrev,
		HasNext:    v.HasNext,
		StartIndex: (v.Page-1)*v.PageSize + 1,
		EndIndex:   (v.Page-1)*v.PageSize + len(v.PageItems),
		TotalCount: v.Total,
	}
	if v.HasPrev {
		p.PrevURL = link(v.Page - 1)
	}
	if v.HasNext {
		p.NextURL = link(v.Page + 1)
	}
	if v.PrevBlock {
		p.PrevBlockURL = link(v.Window.Start - 1)
	}
	if v.NextBlock {
		p.NextBlockURL = link(v.Window.End + 1)
	}
	for _, n := range v.Pages {
		p.Pages = append(p.Pages, PageLink{Number: n, URL: link(n), Current: n == v.Page})
	}
	return p
}
