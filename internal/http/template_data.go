package httpx

import (
	"context"

	"github.com/imgshare/gallery-client/internal/domain/gallery"
	apperrors "github.com/imgshare/gallery-client/internal/errors"
	"github.com/imgshare/gallery-client/internal/http/ui/viewmodel"
)

// Page identifiers used in the layout.
const (
	PageGallery = "gallery"
	PageLogin   = "login"
	PageError   = "error"
)

type loginPageData struct {
	Layout      *viewmodel.Layout
	Action      string
	RedirectURI string
	Email       string
	Message     string
	Fields      []apperrors.FieldError
}

type galleryPageData struct {
	Layout     *viewmodel.Layout
	View       gallery.View
	Pagination *viewmodel.Pagination
}

type errorPageData struct {
	Layout  *viewmodel.Layout
	Heading string
	Message string
}

// layoutFor builds the shared chrome from the session in ctx.
func layoutFor(ctx context.Context, title, page, pageTitle string) *viewmodel.Layout {
	layout := &viewmodel.Layout{Title: title, PageTitle: pageTitle, CurrentPage: page}
	if u, ok := GetSessionFromContext(ctx).User(); ok {
		layout.IsAuthenticated = true
		layout.UserID = u.ID
		layout.User = &viewmodel.User{Name: u.Name, Email: u.Email}
	}
	return layout
}
