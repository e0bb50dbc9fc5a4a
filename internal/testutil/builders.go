package testutil

import (
	"fmt"

	domainauth "github.com/imgshare/gallery-client/internal/domain/auth"
	"github.com/imgshare/gallery-client/internal/domain/gallery"
)

// ItemBuilder provides a fluent interface for building gallery items in tests.
type ItemBuilder struct {
	item gallery.Item
}

// NewItem creates an ItemBuilder with sensible defaults.
func NewItem(id string) *ItemBuilder {
	return &ItemBuilder{item: gallery.Item{
		ID:       id,
		Title:    "Picture " + id,
		Category: "Misc",
		ImageURL: "/uploads/" + id + ".jpg",
		UserID:   "u1",
	}}
}

// WithTitle sets the title.
func (b *ItemBuilder) WithTitle(title string) *ItemBuilder {
	b.item.Title = title
	return b
}

// WithDescription sets the description.
func (b *ItemBuilder) WithDescription(description string) *ItemBuilder {
	b.item.Description = description
	return b
}

// WithCategory sets the category.
func (b *ItemBuilder) WithCategory(category string) *ItemBuilder {
	b.item.Category = category
	return b
}

// WithOwner sets the uploader id.
func (b *ItemBuilder) WithOwner(userID string) *ItemBuilder {
	b.item.UserID = userID
	return b
}

// WithComments sets the comment-count snapshot.
func (b *ItemBuilder) WithComments(n int) *ItemBuilder {
	b.item.CommentCount = n
	return b
}

// Build returns the item.
func (b *ItemBuilder) Build() gallery.Item {
	return b.item
}

// Items returns n default items with ids img-1..img-n.
func Items(n int) []gallery.Item {
	items := make([]gallery.Item, n)
	for i := range items {
		items[i] = NewItem(fmt.Sprintf("img-%d", i+1)).Build()
	}
	return items
}

// User returns a complete identity fixture.
func User(id string) domainauth.User {
	return domainauth.User{ID: id, Name: "User " + id, Email: id + "@example.com"}
}
