package gallery

// Package gallery contains the gallery domain types and the pure derivation of
// the paginated, searchable view from the loaded collection.

import "time"

// Item is one uploaded image with its metadata and a comment-count snapshot.
type Item struct {
	ID           string `json:"imageId"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	Category     string `json:"category"`
	ImageURL     string `json:"imageUrl"`
	UserID       string `json:"userId"`
	CommentCount int    `json:"commentCount"`
}

// Comment is a single comment on an image.
type Comment struct {
	ID        string    `json:"commentId"`
	ImageID   string    `json:"imageId"`
	UserID    string    `json:"userId"`
	UserName  string    `json:"userName"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

// Dedupe returns items with duplicate ids removed, keeping the first occurrence
// and the original order. Negative comment counts are clamped to zero.
func Dedupe(items []Item) []Item {
	seen := make(map[string]struct{}, len(items))
	out := make([]Item, 0, len(items))
	for _, it := range items {
		if _, dup := seen[it.ID]; dup {
			continue
		}
		seen[it.ID] = struct{}{}
		if it.CommentCount < 0 {
			it.CommentCount = 0
		}
		out = append(out, it)
	}
	return out
}

// Remove returns a copy of items without the item with the given id and
// whether it was present.
func Remove(items []Item, id string) ([]Item, bool) {
	out := make([]Item, 0, len(items))
	found := false
	for _, it := range items {
		if it.ID == id {
			found = true
			continue
		}
		out = append(out, it)
	}
	return out, found
}
