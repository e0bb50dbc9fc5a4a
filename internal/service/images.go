package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/imgshare/gallery-client/internal/domain/gallery"
	apperrors "github.com/imgshare/gallery-client/internal/errors"
	"github.com/imgshare/gallery-client/internal/ports"
)

// ImageServiceOptions groups dependencies for ImageService.
type ImageServiceOptions struct {
	API    ports.GalleryAPI // Required
	Logger *slog.Logger
}

// ImageService handles uploads and comments. Neither refreshes comment
// counts held by a GallerySync; the next Load picks them up.
type ImageService struct {
	api    ports.GalleryAPI
	logger *slog.Logger
}

// NewImageService constructs a new ImageService.
func NewImageService(opts ImageServiceOptions) *ImageService {
	if opts.API == nil {
		panic("gallery api is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &ImageService{api: opts.API, logger: logger.With("component", "image_service")}
}

// CommentInput holds the comment form fields.
type CommentInput struct {
	ImageID string `json:"imageId" validate:"required"`
	Text    string `json:"text"    validate:"required,max=1000"`
}

// Upload validates the form and uploads the image.
func (s *ImageService) Upload(ctx context.Context, in ports.UploadInput) (gallery.Item, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Category = strings.TrimSpace(in.Category)
	err := validateForm(in)
	if in.Content == nil {
		err = mergeFieldError(err, apperrors.FieldError{Field: "image", Message: "image is required"})
	}
	if err != nil {
		return gallery.Item{}, err
	}

	item, err := s.api.UploadImage(ctx, in)
	if err != nil {
		return gallery.Item{}, err
	}
	s.logger.InfoContext(ctx, "image uploaded", "image_id", item.ID)
	return item, nil
}

// Comments lists the comments of an image.
func (s *ImageService) Comments(ctx context.Context, imageID string) ([]gallery.Comment, error) {
	imageID = strings.TrimSpace(imageID)
	if imageID == "" {
		return nil, apperrors.ValidationField("imageId", "imageId is required")
	}
	return s.api.ListComments(ctx, imageID)
}

// AddComment validates and posts a comment.
func (s *ImageService) AddComment(ctx context.Context, in CommentInput) (gallery.Comment, error) {
	in.ImageID = strings.TrimSpace(in.ImageID)
	in.Text = strings.TrimSpace(in.Text)
	if err := validateForm(in); err != nil {
		return gallery.Comment{}, err
	}
	return s.api.AddComment(ctx, in.ImageID, in.Text)
}

// mergeFieldError appends fe to the field list of a validation error, or
// starts a new one.
func mergeFieldError(err error, fe apperrors.FieldError) error {
	fields := apperrors.FieldMessages(err)
	if err != nil && fields == nil {
		return err
	}
	return apperrors.Validation(append(fields, fe)...)
}
