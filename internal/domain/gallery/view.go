package gallery

import (
	"strings"

	"golang.org/x/text/cases"
)

// Window is the contiguous block of page numbers shown as pagination controls.
type Window struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Contains reports whether page is inside the window.
func (w Window) Contains(page int) bool { return w.Start <= page && page <= w.End }

// State is the input of the gallery view derivation. Items is the full loaded
// collection in server order.
type State struct {
	Items      []Item
	Query      string
	Page       int
	PageSize   int
	WindowSize int
	Window     Window
}

// View is the derived, render-ready gallery state.
type View struct {
	Query      string `json:"query"`
	Filtered   []Item `json:"-"`
	PageItems  []Item `json:"items"`
	Total      int    `json:"total"`
	Page       int    `json:"page"`
	PageSize   int    `json:"pageSize"`
	TotalPages int    `json:"totalPages"`
	Window     Window `json:"window"`
	Pages      []int  `json:"pages"`
	HasPrev    bool   `json:"hasPrev"`
	HasNext    bool   `json:"hasNext"`
	PrevBlock  bool   `json:"prevBlock"`
	NextBlock  bool   `json:"nextBlock"`
	Empty      bool   `json:"empty"`
	Error      string `json:"error,omitempty"`
}

// NewState returns an empty state on page 1 with the given sizes.
// Non-positive sizes fall back to 1.
func NewState(pageSize, windowSize int) State {
	s := State{PageSize: max(pageSize, 1), WindowSize: max(windowSize, 1), Page: 1}
	s.Window = InitialWindow(s.WindowSize, 1)
	return s
}

// Filter returns the items whose title or category contains query under
// Unicode case folding. An empty (or blank) query matches everything.
func Filter(items []Item, query string) []Item {
	query = strings.TrimSpace(query)
	if query == "" {
		return items
	}
	fold := cases.Fold()
	needle := fold.String(query)
	out := make([]Item, 0, len(items))
	for _, it := range items {
		if strings.Contains(fold.String(it.Title), needle) || strings.Contains(fold.String(it.Category), needle) {
			out = append(out, it)
		}
	}
	return out
}

// TotalPages returns the page count for n items; an empty list still has one page.
func TotalPages(n, pageSize int) int {
	if pageSize < 1 {
		pageSize = 1
	}
	if n <= 0 {
		return 1
	}
	return (n + pageSize - 1) / pageSize
}

// InitialWindow is the first block of page controls.
func InitialWindow(windowSize, totalPages int) Window {
	return Window{Start: 1, End: max(1, min(windowSize, totalPages))}
}

// SlideWindow moves w forward or backward by whole windowSize blocks until it
// contains page. The window is never centred on the page. Start is clamped to
// 1 and End to totalPages.
func SlideWindow(w Window, page, windowSize, totalPages int) Window {
	windowSize = max(windowSize, 1)
	totalPages = max(totalPages, 1)
	page = clamp(page, 1, totalPages)

	start := max(w.Start, 1)
	for page < start {
		start -= windowSize
	}
	for page > start+windowSize-1 {
		start += windowSize
	}
	start = max(start, 1)
	end := min(start+windowSize-1, totalPages)
	return Window{Start: start, End: max(end, start)}
}

// Normalize returns s with Page clamped to the filtered page range and the
// window slid to contain it.
func (s State) Normalize() State {
	s.PageSize = max(s.PageSize, 1)
	s.WindowSize = max(s.WindowSize, 1)
	total := TotalPages(len(Filter(s.Items, s.Query)), s.PageSize)
	s.Page = clamp(s.Page, 1, total)
	s.Window = SlideWindow(s.Window, s.Page, s.WindowSize, total)
	return s
}

// WithItems replaces the collection and resets to page 1 and the first window.
func (s State) WithItems(items []Item) State {
	s.Items = Dedupe(items)
	return s.reset()
}

// WithQuery sets the search query and resets to page 1.
func (s State) WithQuery(q string) State {
	s.Query = q
	return s.reset()
}

// WithPage moves to page, clamped to the valid range, sliding the window.
func (s State) WithPage(page int) State {
	s.Page = page
	return s.Normalize()
}

// Without removes the item with id and keeps the current page when it still
// exists, otherwise moves back to the last page.
func (s State) Without(id string) (State, bool) {
	items, found := Remove(s.Items, id)
	if !found {
		return s, false
	}
	s.Items = items
	return s.Normalize(), true
}

func (s State) reset() State {
	s.PageSize = max(s.PageSize, 1)
	s.WindowSize = max(s.WindowSize, 1)
	s.Page = 1
	total := TotalPages(len(Filter(s.Items, s.Query)), s.PageSize)
	s.Window = InitialWindow(s.WindowSize, total)
	return s
}

// Derive computes the render-ready view of s. It does not mutate s.
func Derive(s State) View {
	s = s.Normalize()
	filtered := Filter(s.Items, s.Query)
	total := TotalPages(len(filtered), s.PageSize)

	lo := (s.Page - 1) * s.PageSize
	hi := min(lo+s.PageSize, len(filtered))
	var pageItems []Item
	if lo < hi {
		pageItems = append([]Item(nil), filtered[lo:hi]...)
	}

	pages := make([]int, 0, s.Window.End-s.Window.Start+1)
	for p := s.Window.Start; p <= s.Window.End; p++ {
		pages = append(pages, p)
	}

	return View{
		Query:      s.Query,
		Filtered:   filtered,
		PageItems:  pageItems,
		Total:      len(filtered),
		Page:       s.Page,
		PageSize:   s.PageSize,
		TotalPages: total,
		Window:     s.Window,
		Pages:      pages,
		HasPrev:    s.Page > 1,
		HasNext:    s.Page < total,
		PrevBlock:  s.Window.Start > 1,
		NextBlock:  s.Window.End < total,
		Empty:      len(filtered) == 0,
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
