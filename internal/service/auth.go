package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	domainauth "github.com/imgshare/gallery-client/internal/domain/auth"
	"github.com/imgshare/gallery-client/internal/ports"
)

// SessionWriter persists and removes the client session.
type SessionWriter interface {
	Set(ctx context.Context, user domainauth.User) (domainauth.Session, error)
	Clear(ctx context.Context) error
}

// CredentialResetter drops transport credentials, such as a cookie jar.
type CredentialResetter interface {
	Reset(ctx context.Context) error
}

// AuthServiceOptions groups dependencies for AuthService.
type AuthServiceOptions struct {
	Identity ports.IdentityAPI // Required
	Sessions SessionWriter     // Required
	Config   AuthServiceConfig
}

// AuthServiceConfig holds optional AuthService collaborators.
type AuthServiceConfig struct {
	Credentials CredentialResetter // Optional: cleared on logout
	Logger      *slog.Logger
}

// AuthService runs the login, logout, registration and OTP flows and keeps
// the Session Store in step with the server.
type AuthService struct {
	identity    ports.IdentityAPI
	sessions    SessionWriter
	credentials CredentialResetter
	logger      *slog.Logger
}

// NewAuthService constructs a new AuthService.
func NewAuthService(opts AuthServiceOptions) *AuthService {
	if opts.Identity == nil {
		panic("identity api is required")
	}
	if opts.Sessions == nil {
		panic("session writer is required")
	}
	logger := opts.Config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthService{
		identity:    opts.Identity,
		sessions:    opts.Sessions,
		credentials: opts.Config.Credentials,
		logger:      logger.With("component", "auth_service"),
	}
}

// LoginInput holds login form fields.
type LoginInput struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// VerifyInput holds the OTP verification form fields.
type VerifyInput struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"otp"   validate:"required,numeric,min=4,max=10"`
}

// Login validates the form, authenticates against the API and stores the
// resulting session. Server errors are returned untouched so their message
// can be shown verbatim.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (domainauth.Session, error) {
	in.Email = strings.TrimSpace(in.Email)
	if err := validateForm(in); err != nil {
		return domainauth.Absent(), err
	}

	user, err := s.identity.Login(ctx, in.Email, in.Password)
	if err != nil {
		return domainauth.Absent(), err
	}
	sess, err := s.sessions.Set(ctx, user)
	if err != nil {
		return domainauth.Absent(), fmt.Errorf("store session: %w", err)
	}
	s.logger.InfoContext(ctx, "logged in", "user_id", user.ID)
	return sess, nil
}

// Logout invalidates the server session, then clears the client session.
// When the server call fails the client session is left untouched.
func (s *AuthService) Logout(ctx context.Context) (ports.LogoutResult, error) {
	res, err := s.identity.Logout(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "logout failed; keeping client session", "error", err)
		return ports.LogoutResult{}, err
	}
	if err := s.sessions.Clear(ctx); err != nil {
		return res, fmt.Errorf("clear session: %w", err)
	}
	if s.credentials != nil {
		if err := s.credentials.Reset(ctx); err != nil {
			s.logger.WarnContext(ctx, "reset credentials failed", "error", err)
		}
	}
	return res, nil
}

// Register validates the form and creates the account. The returned message
// comes from the server, typically telling the user to check for a code.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (string, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	if err := validateForm(in); err != nil {
		return "", err
	}
	return s.identity.Register(ctx, in)
}

// VerifyOTP completes a registration and stores the resulting session.
func (s *AuthService) VerifyOTP(ctx context.Context, in VerifyInput) (domainauth.Session, error) {
	in.Email = strings.TrimSpace(in.Email)
	in.Code = strings.TrimSpace(in.Code)
	if err := validateForm(in); err != nil {
		return domainauth.Absent(), err
	}

	user, err := s.identity.VerifyOTP(ctx, in.Email, in.Code)
	if err != nil {
		return domainauth.Absent(), err
	}
	sess, err := s.sessions.Set(ctx, user)
	if err != nil {
		return domainauth.Absent(), fmt.Errorf("store session: %w", err)
	}
	return sess, nil
}
