package gallery

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixtureItems(n int) []Item {
	items := make([]Item, 0, n)
	for i := 1; i <= n; i++ {
		items = append(items, Item{ID: fmt.Sprint(i), Title: fmt.Sprintf("Image %d", i), Category: "Misc"})
	}
	return items
}

func ids(items []Item) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.ID)
	}
	return out
}

func TestFilter(t *testing.T) {
	items := []Item{
		{ID: "1", Title: "Cat", Category: "Animals"},
		{ID: "2", Title: "Dog", Category: "Animals"},
		{ID: "3", Title: "Tree", Category: "Nature"},
		{ID: "4", Title: "Nature walk", Category: "Travel"},
	}

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{name: "empty query returns all", query: "", want: []string{"1", "2", "3", "4"}},
		{name: "blank query returns all", query: "   ", want: []string{"1", "2", "3", "4"}},
		{name: "category match is case insensitive", query: "animals", want: []string{"1", "2"}},
		{name: "title or category", query: "NATURE", want: []string{"3", "4"}},
		{name: "substring", query: "ee", want: []string{"3"}},
		{name: "no match", query: "zebra", want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(Filter(items, tt.query)))
		})
	}
}

func TestFilter_UnicodeFolding(t *testing.T) {
	items := []Item{{ID: "1", Title: "Über", Category: "STÄDTE"}}
	assert.Len(t, Filter(items, "über"), 1)
	assert.Len(t, Filter(items, "städte"), 1)
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 1, TotalPages(0, 6))
	assert.Equal(t, 1, TotalPages(6, 6))
	assert.Equal(t, 2, TotalPages(7, 6))
	assert.Equal(t, 3, TotalPages(3, 0))
}

func TestSlideWindow(t *testing.T) {
	tests := []struct {
		name  string
		w     Window
		page  int
		total int
		want  Window
	}{
		{name: "inside window stays", w: Window{1, 3}, page: 2, total: 10, want: Window{1, 3}},
		{name: "next block", w: Window{1, 3}, page: 4, total: 10, want: Window{4, 6}},
		{name: "jump several blocks", w: Window{1, 3}, page: 8, total: 10, want: Window{7, 9}},
		{name: "last partial block clamps end", w: Window{7, 9}, page: 10, total: 10, want: Window{10, 10}},
		{name: "previous block", w: Window{4, 6}, page: 3, total: 10, want: Window{1, 3}},
		{name: "start never below one", w: Window{2, 4}, page: 1, total: 10, want: Window{1, 3}},
		{name: "zero window treated as first", w: Window{}, page: 1, total: 2, want: Window{1, 2}},
		{name: "page beyond total is clamped", w: Window{1, 3}, page: 9, total: 2, want: Window{1, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SlideWindow(tt.w, tt.page, 3, tt.total)
			assert.Equal(t, tt.want, got)
			assert.GreaterOrEqual(t, got.Start, 1)
		})
	}
}

func TestDerive_EmptyCollection(t *testing.T) {
	v := Derive(NewState(6, 3))
	assert.True(t, v.Empty)
	assert.Equal(t, 1, v.TotalPages)
	assert.Equal(t, 1, v.Page)
	assert.Equal(t, Window{1, 1}, v.Window)
	assert.Empty(t, v.PageItems)
	assert.Equal(t, []int{1}, v.Pages)
}

func TestDerive_SecondPage(t *testing.T) {
	s := NewState(6, 3).WithItems(fixtureItems(7)).WithPage(2)
	v := Derive(s)

	assert.Equal(t, 2, v.TotalPages)
	assert.Equal(t, 2, v.Page)
	assert.Equal(t, []string{"7"}, ids(v.PageItems))
	assert.True(t, v.HasPrev)
	assert.False(t, v.HasNext)
	assert.False(t, v.NextBlock)
	assert.Equal(t, []int{1, 2}, v.Pages)
}

func TestState_WithQueryResetsPage(t *testing.T) {
	items := fixtureItems(10)
	for i := 0; i < 3; i++ {
		items[i*3].Category = "Nature"
	}

	s := NewState(2, 3).WithItems(items).WithPage(4)
	require.Equal(t, 4, s.Page)
	require.Equal(t, Window{4, 5}, s.Window)

	s = s.WithQuery("nature")
	v := Derive(s)
	assert.Len(t, v.Filtered, 3)
	assert.Equal(t, 1, v.Page)
	assert.Equal(t, Window{1, 2}, v.Window)
}

func TestState_WithoutMovesBackWhenPageEmpties(t *testing.T) {
	s := NewState(6, 3).WithItems(fixtureItems(7)).WithPage(2)

	s, ok := s.Without("7")
	require.True(t, ok)
	v := Derive(s)
	assert.Equal(t, 1, v.Page)
	assert.Equal(t, 1, v.TotalPages)
	assert.Equal(t, Window{1, 1}, v.Window)

	_, ok = s.Without("missing")
	assert.False(t, ok)
}

func TestState_WithoutKeepsPageWhenStillValid(t *testing.T) {
	s := NewState(2, 3).WithItems(fixtureItems(6)).WithPage(2)

	s, ok := s.Without("1")
	require.True(t, ok)
	assert.Equal(t, 2, s.Page)
	assert.Equal(t, []string{"4", "5"}, ids(Derive(s).PageItems))
}

func TestDedupe(t *testing.T) {
	items := []Item{{ID: "a", Title: "first"}, {ID: "b", CommentCount: -2}, {ID: "a", Title: "second"}}
	got := Dedupe(items)
	require.Len(t, got, 2)
	assert.Equal(t, "first", got[0].Title)
	assert.Equal(t, 0, got[1].CommentCount)
}

func TestDerive_Scenario(t *testing.T) {
	items := []Item{
		{ID: "1", Title: "Cat", Category: "Animals"},
		{ID: "2", Title: "Dog", Category: "Animals"},
		{ID: "3", Title: "Tree", Category: "Nature"},
	}
	s := NewState(2, 3).WithItems(items)

	v := Derive(s)
	assert.Equal(t, []string{"1", "2"}, ids(v.PageItems))
	assert.Equal(t, 2, v.TotalPages)

	v = Derive(s.WithQuery("animals"))
	assert.Equal(t, []string{"1", "2"}, ids(v.Filtered))
	assert.Equal(t, 1, v.TotalPages)
	assert.Equal(t, 1, v.Page)
}

func TestDerive_DoesNotMutateInput(t *testing.T) {
	items := fixtureItems(3)
	s := NewState(2, 3).WithItems(items)
	v := Derive(s)
	v.PageItems[0].Title = "changed"
	assert.Equal(t, "Image 1", s.Items[0].Title)
}
