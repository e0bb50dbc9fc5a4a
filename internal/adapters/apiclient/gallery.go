package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"

	"github.com/imgshare/gallery-client/internal/domain/gallery"
	apperrors "github.com/imgshare/gallery-client/internal/errors"
	"github.com/imgshare/gallery-client/internal/ports"
	"golang.org/x/sync/errgroup"
)

const (
	pathImages        = "/images"
	routeImage        = "/images/{id}"
	routeImageComment = "/images/{id}/comments"
)

// wireItem mirrors gallery.Item but keeps the count optional so a missing
// count can be filled in by a per-image comment fetch.
type wireItem struct {
	ID           string `json:"imageId"`
	LegacyID     string `json:"_id"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	Category     string `json:"category"`
	ImageURL     string `json:"imageUrl"`
	UserID       string `json:"userId"`
	CommentCount *int   `json:"commentCount"`
}

func (w wireItem) toItem() gallery.Item {
	it := gallery.Item{
		ID:          fallbackString(w.ID, w.LegacyID),
		Title:       w.Title,
		Description: w.Description,
		Category:    w.Category,
		ImageURL:    w.ImageURL,
		UserID:      w.UserID,
	}
	if w.CommentCount != nil {
		it.CommentCount = max(*w.CommentCount, 0)
	}
	return it
}

// FetchGallery lists the items at source. When the payload carries no comment
// count and counting is enabled, counts are fetched concurrently per image.
func (c *Client) FetchGallery(ctx context.Context, source string) ([]gallery.Item, error) {
	data, err := c.do(ctx, request{Method: http.MethodGet, Path: source})
	if err != nil {
		return nil, err
	}

	var wire []wireItem
	if err := decode(data, c.itemsPath, &wire); err != nil {
		return nil, err
	}

	items := make([]gallery.Item, len(wire))
	var missing []int
	for i, w := range wire {
		items[i] = w.toItem()
		if items[i].ID == "" {
			return nil, apperrors.Decode(fmt.Errorf("item %d has no id", i), "decode gallery")
		}
		if w.CommentCount == nil {
			missing = append(missing, i)
		}
	}

	if c.countComments && len(missing) > 0 {
		if err := c.fillCommentCounts(ctx, items, missing); err != nil {
			return nil, err
		}
	}
	return items, nil
}

func (c *Client) fillCommentCounts(ctx context.Context, items []gallery.Item, idx []int) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.commentConcurrency)
	for _, i := range idx {
		g.Go(func() error {
			comments, err := c.ListComments(gctx, items[i].ID)
			if err != nil {
				return fmt.Errorf("count comments for %s: %w", items[i].ID, err)
			}
			items[i].CommentCount = len(comments)
			return nil
		})
	}
	return g.Wait()
}

// DeleteImage removes the image.
func (c *Client) DeleteImage(ctx context.Context, imageID string) error {
	path, err := imagePath(imageID)
	if err != nil {
		return err
	}
	_, err = c.do(ctx, request{Method: http.MethodDelete, Path: path, Route: routeImage})
	return err
}

// UploadImage sends the image as multipart/form-data.
func (c *Client) UploadImage(ctx context.Context, in ports.UploadInput) (gallery.Item, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for _, f := range []struct{ name, value string }{
		{"title", in.Title},
		{"description", in.Description},
		{"category", in.Category},
	} {
		if err := mw.WriteField(f.name, f.value); err != nil {
			return gallery.Item{}, apperrors.Wrap(err, apperrors.ErrCodeInternal, "encode upload")
		}
	}
	part, err := mw.CreateFormFile("image", in.FileName)
	if err != nil {
		return gallery.Item{}, apperrors.Wrap(err, apperrors.ErrCodeInternal, "encode upload")
	}
	if _, err := io.Copy(part, in.Content); err != nil {
		return gallery.Item{}, apperrors.Wrap(err, apperrors.ErrCodeInternal, "read upload content")
	}
	if err := mw.Close(); err != nil {
		return gallery.Item{}, apperrors.Wrap(err, apperrors.ErrCodeInternal, "encode upload")
	}

	data, err := c.do(ctx, request{
		Method:      http.MethodPost,
		Path:        pathImages,
		RawBody:     &buf,
		ContentType: mw.FormDataContentType(),
	})
	if err != nil {
		return gallery.Item{}, err
	}

	var payload struct {
		Image *wireItem `json:"image"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return gallery.Item{}, apperrors.Decode(err, "decode upload response")
	}
	if payload.Image != nil {
		return payload.Image.toItem(), nil
	}
	var w wireItem
	if err := json.Unmarshal(data, &w); err != nil {
		return gallery.Item{}, apperrors.Decode(err, "decode upload response")
	}
	return w.toItem(), nil
}

// ListComments returns the comments of an image.
func (c *Client) ListComments(ctx context.Context, imageID string) ([]gallery.Comment, error) {
	path, err := imagePath(imageID)
	if err != nil {
		return nil, err
	}
	data, err := c.do(ctx, request{Method: http.MethodGet, Path: path + "/comments", Route: routeImageComment})
	if err != nil {
		return nil, err
	}
	var comments []gallery.Comment
	if err := decode(data, c.commentsPath, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

// AddComment posts a comment on an image.
func (c *Client) AddComment(ctx context.Context, imageID, text string) (gallery.Comment, error) {
	path, err := imagePath(imageID)
	if err != nil {
		return gallery.Comment{}, err
	}
	data, err := c.do(ctx, request{
		Method: http.MethodPost,
		Path:   path + "/comments",
		Route:  routeImageComment,
		Body:   map[string]string{"text": text},
	})
	if err != nil {
		return gallery.Comment{}, err
	}
	var payload struct {
		Comment *gallery.Comment `json:"comment"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return gallery.Comment{}, apperrors.Decode(err, "decode comment")
	}
	if payload.Comment != nil {
		return *payload.Comment, nil
	}
	var cm gallery.Comment
	if err := json.Unmarshal(data, &cm); err != nil {
		return gallery.Comment{}, apperrors.Decode(err, "decode comment")
	}
	return cm, nil
}

// imagePath builds /images/{id}. Dot segments are rejected because the
// request URL is cleaned and would otherwise address a different resource.
func imagePath(id string) (string, error) {
	switch strings.TrimSpace(id) {
	case "", ".", "..":
		return "", apperrors.ValidationField("imageId", "image id is invalid")
	}
	return pathImages + "/" + url.PathEscape(id), nil
}
