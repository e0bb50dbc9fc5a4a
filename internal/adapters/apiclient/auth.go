package apiclient

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	domainauth "github.com/imgshare/gallery-client/internal/domain/auth"
	apperrors "github.com/imgshare/gallery-client/internal/errors"
	"github.com/imgshare/gallery-client/internal/ports"
)

const (
	pathWhoAmI    = "/auth/me"
	pathLogin     = "/auth/login"
	pathLogout    = "/auth/logout"
	pathRegister  = "/auth/register"
	pathVerifyOTP = "/auth/verify-otp"
)

// WhoAmI returns the user bound to the current credential cookies.
func (c *Client) WhoAmI(ctx context.Context) (domainauth.User, error) {
	data, err := c.do(ctx, request{Method: http.MethodGet, Path: pathWhoAmI})
	if err != nil {
		return domainauth.User{}, err
	}
	return c.decodeUser(data)
}

// Login posts the credentials and returns the authenticated user.
func (c *Client) Login(ctx context.Context, email, password string) (domainauth.User, error) {
	data, err := c.do(ctx, request{
		Method: http.MethodPost,
		Path:   pathLogin,
		Body:   map[string]string{"email": email, "password": password},
	})
	if err != nil {
		return domainauth.User{}, err
	}
	return c.decodeUser(data)
}

// Logout invalidates the server session and returns its optional redirect.
func (c *Client) Logout(ctx context.Context) (ports.LogoutResult, error) {
	data, err := c.do(ctx, request{Method: http.MethodPost, Path: pathLogout})
	if err != nil {
		return ports.LogoutResult{}, err
	}

	var payload struct {
		Redirect    string `json:"redirect"`
		RedirectURL string `json:"redirectUrl"`
	}
	if len(strings.TrimSpace(string(data))) > 0 {
		// The body is advisory; an unreadable one does not fail the logout.
		_ = json.Unmarshal(data, &payload)
	}
	return ports.LogoutResult{RedirectURL: fallbackString(payload.Redirect, payload.RedirectURL)}, nil
}

// Register creates an account; the server answers with an advisory message.
func (c *Client) Register(ctx context.Context, in ports.RegisterInput) (string, error) {
	data, err := c.do(ctx, request{Method: http.MethodPost, Path: pathRegister, Body: in})
	if err != nil {
		return "", err
	}
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return "", apperrors.Decode(err, "decode register response")
	}
	return payload.Message, nil
}

// VerifyOTP submits the one-time code and returns the now-authenticated user.
func (c *Client) VerifyOTP(ctx context.Context, email, code string) (domainauth.User, error) {
	data, err := c.do(ctx, request{
		Method: http.MethodPost,
		Path:   pathVerifyOTP,
		Body:   map[string]string{"email": email, "otp": code},
	})
	if err != nil {
		return domainauth.User{}, err
	}
	return c.decodeUser(data)
}

func (c *Client) decodeUser(data []byte) (domainauth.User, error) {
	var u domainauth.User
	if err := decode(data, c.userPath, &u); err != nil {
		return domainauth.User{}, err
	}
	if err := u.Validate(); err != nil {
		return domainauth.User{}, apperrors.Decode(err, "decode user")
	}
	return u, nil
}
