package httpx

import (
	"context"
	"log/slog"
	"net/http"

	domainauth "github.com/imgshare/gallery-client/internal/domain/auth"
	apperrors "github.com/imgshare/gallery-client/internal/errors"
	"github.com/imgshare/gallery-client/internal/ports"
	"github.com/imgshare/gallery-client/internal/service"
)

// AuthFlows is the subset of service.AuthService the viewer needs.
type AuthFlows interface {
	Login(ctx context.Context, in service.LoginInput) (domainauth.Session, error)
	Logout(ctx context.Context) (ports.LogoutResult, error)
}

// AuthHandlers serves the login form and logout.
type AuthHandlers struct {
	Svc       AuthFlows
	Sessions  service.SessionResolver
	Renderer  *TemplateRenderer
	LoginPath string
	Title     string
	Logger    *slog.Logger
}

func (h *AuthHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// LoginPage renders the sign-in form, or skips it when a session already exists.
// GET /login?redirect_uri=<optional_redirect>.
func (h *AuthHandlers) LoginPage(w http.ResponseWriter, r *http.Request) {
	redirectURI := safeRedirectPath(r.URL.Query().Get("redirect_uri"))
	if h.Sessions.Resolve(r.Context()).IsPresent() {
		http.Redirect(w, r, redirectURI, http.StatusSeeOther)
		return
	}
	h.renderLogin(w, r, http.StatusOK, loginPageData{RedirectURI: redirectURI})
}

// LoginSubmit authenticates the posted credentials.
// POST /login.
func (h *AuthHandlers) LoginSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderLogin(w, r, http.StatusBadRequest, loginPageData{Message: "Invalid form submission"})
		return
	}
	redirectURI := safeRedirectPath(r.PostForm.Get("redirect_uri"))
	in := service.LoginInput{
		Email:    r.PostForm.Get("email"),
		Password: r.PostForm.Get("password"),
	}

	_, err := h.Svc.Login(r.Context(), in)
	if err == nil {
		http.Redirect(w, r, redirectURI, http.StatusSeeOther)
		return
	}

	data := loginPageData{RedirectURI: redirectURI, Email: in.Email}
	if apperrors.IsValidation(err) {
		data.Fields = apperrors.FieldMessages(err)
	} else {
		h.logger().InfoContext(r.Context(), "login rejected", "error", err)
		data.Message = apperrors.UserMessage(err)
	}
	h.renderLogin(w, r, statusFor(err), data)
}

func (h *AuthHandlers) renderLogin(w http.ResponseWriter, r *http.Request, status int, data loginPageData) {
	data.Layout = layoutFor(r.Context(), h.Title, PageLogin, "Sign in")
	data.Action = h.LoginPath
	if data.RedirectURI == "" {
		data.RedirectURI = "/"
	}
	_ = h.Renderer.Render(w, status, PageLogin, data)
}

// Logout ends the session. When the API call fails the session is kept and
// the user is sent back to the gallery.
// POST /logout.
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	res, err := h.Svc.Logout(r.Context())
	if err != nil {
		h.logger().WarnContext(r.Context(), "logout failed", "error", err)
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	target := h.LoginPath
	if res.RedirectURL != "" {
		if safe := safeRedirectPath(res.RedirectURL); safe != "/" {
			target = safe
		}
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}
