package ports

import (
	"context"
	"io"

	"github.com/imgshare/gallery-client/internal/domain/gallery"
)

// UploadInput groups the fields of an image upload.
// Content is read once while the request is encoded.
type UploadInput struct {
	Title       string    `json:"title"       validate:"required,max=120"`
	Description string    `json:"description" validate:"max=2000"`
	Category    string    `json:"category"    validate:"required,max=60"`
	FileName    string    `json:"file"        validate:"required"`
	Content     io.Reader `json:"-"`
}

// GalleryAPI is the image surface of the image-sharing API.
type GalleryAPI interface {
	// FetchGallery lists every item of the given source path, each with a
	// comment-count snapshot.
	FetchGallery(ctx context.Context, source string) ([]gallery.Item, error)

	// DeleteImage removes an image owned by the current user.
	DeleteImage(ctx context.Context, imageID string) error

	// UploadImage stores a new image and returns the created item.
	UploadImage(ctx context.Context, in UploadInput) (gallery.Item, error)

	// ListComments returns the comments of an image, oldest first.
	ListComments(ctx context.Context, imageID string) ([]gallery.Comment, error)

	// AddComment posts a comment on an image.
	AddComment(ctx context.Context, imageID, text string) (gallery.Comment, error)
}
