package ports

// Package ports defines interfaces (hexagonal ports) for the external
// collaborators of the gallery client. Implementations live in
// internal/adapters; orchestration in internal/service.

import (
	"context"

	domainauth "github.com/imgshare/gallery-client/internal/domain/auth"
)

// RegisterInput carries the registration form fields.
type RegisterInput struct {
	Name     string `json:"name"     validate:"required,max=64"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

// LogoutResult is the optional server answer to a logout.
type LogoutResult struct {
	RedirectURL string
}

// IdentityAPI is the authentication surface of the image-sharing API.
// Calls carry the client's credential context (cookies).
type IdentityAPI interface {
	// WhoAmI returns the user bound to the current credentials.
	WhoAmI(ctx context.Context) (domainauth.User, error)

	// Login establishes a server session. Error messages from the server are
	// preserved verbatim in the returned error.
	Login(ctx context.Context, email, password string) (domainauth.User, error)

	// Logout invalidates the server session.
	Logout(ctx context.Context) (LogoutResult, error)

	// Register creates an account and triggers OTP delivery. It returns the
	// server's advisory message.
	Register(ctx context.Context, in RegisterInput) (string, error)

	// VerifyOTP completes registration and establishes a server session.
	VerifyOTP(ctx context.Context, email, code string) (domainauth.User, error)
}

// KeyValueStore persists small client records (session, cookies) under
// well-known keys. Get reports found=false for a missing key.
type KeyValueStore interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}
