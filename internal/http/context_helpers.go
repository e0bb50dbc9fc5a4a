package httpx

import (
	"context"

	domainauth "github.com/imgshare/gallery-client/internal/domain/auth"
)

// sessionKey is an unexported context key type to avoid collisions across packages.
type sessionKey struct{}

// SetSessionInContext returns a child context that carries the given session.
// An absent session leaves ctx unchanged.
func SetSessionInContext(ctx context.Context, session domainauth.Session) context.Context {
	if !session.IsPresent() {
		return ctx
	}
	return context.WithValue(ctx, sessionKey{}, session)
}

// GetSessionFromContext returns the session placed by RequireSession, or Absent.
func GetSessionFromContext(ctx context.Context) domainauth.Session {
	if s, ok := ctx.Value(sessionKey{}).(domainauth.Session); ok {
		return s
	}
	return domainauth.Absent()
}
