package service

import (
	"context"
	"log/slog"
	"sync"

	domainauth "github.com/imgshare/gallery-client/internal/domain/auth"
)

// GuardState is the gating state of a protected view.
type GuardState int

const (
	// GuardPending is the initial state; only the waiting indicator may render.
	GuardPending GuardState = iota
	// GuardAuthenticated renders the protected view.
	GuardAuthenticated
	// GuardUnauthenticated redirects to the login entry point.
	GuardUnauthenticated
)

func (s GuardState) String() string {
	switch s {
	case GuardPending:
		return "pending"
	case GuardAuthenticated:
		return "authenticated"
	case GuardUnauthenticated:
		return "unauthenticated"
	default:
		return "unknown"
	}
}

// SessionResolver resolves the current session. Failures resolve to Absent.
type SessionResolver interface {
	Resolve(ctx context.Context) domainauth.Session
}

// GuardView is what a Guard renders into.
type GuardView interface {
	// Waiting shows the neutral indicator while the session is unresolved.
	Waiting()
	// Protected renders the wrapped content for an authenticated session.
	Protected(sess domainauth.Session)
	// Redirect sends the user to the login entry point.
	Redirect(target string)
}

// GuardOptions groups dependencies for Guard.
type GuardOptions struct {
	Resolver  SessionResolver // Required
	LoginPath string
	Logger    *slog.Logger
}

// Guard gates a protected view on a resolved session. A Guard evaluates once
// per mount; it is not re-evaluated when its inputs change.
type Guard struct {
	resolver  SessionResolver
	loginPath string
	logger    *slog.Logger

	mu        sync.Mutex
	state     GuardState
	session   domainauth.Session
	resolving bool
	unmounted bool
}

// NewGuard constructs a Guard in the Pending state.
func NewGuard(opts GuardOptions) *Guard {
	if opts.Resolver == nil {
		panic("session resolver is required")
	}
	loginPath := opts.LoginPath
	if loginPath == "" {
		loginPath = "/login"
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Guard{
		resolver:  opts.Resolver,
		loginPath: loginPath,
		logger:    logger,
	}
}

// Mount resolves the session and renders the outcome into view.
//
// While resolution is outstanding only view.Waiting is called. A Mount that
// overlaps an outstanding resolution returns GuardPending without issuing a
// second one, and a settled guard re-renders its outcome without resolving
// again. After Unmount nothing is rendered.
func (g *Guard) Mount(ctx context.Context, view GuardView) GuardState {
	g.mu.Lock()
	switch {
	case g.unmounted || g.resolving:
		state := g.state
		g.mu.Unlock()
		return state
	case g.state != GuardPending:
		state, sess := g.state, g.session
		g.mu.Unlock()
		g.render(view, state, sess)
		return state
	}
	g.resolving = true
	g.mu.Unlock()

	view.Waiting()
	sess := g.resolver.Resolve(ctx)

	g.mu.Lock()
	g.resolving = false
	if g.unmounted {
		g.mu.Unlock()
		g.logger.DebugContext(ctx, "guard resolved after unmount; ignoring")
		return GuardPending
	}
	g.session = sess
	g.state = GuardUnauthenticated
	if sess.IsPresent() {
		g.state = GuardAuthenticated
	}
	state := g.state
	g.mu.Unlock()

	g.logger.DebugContext(ctx, "guard settled", "state", state.String(), "session", sess.String())
	g.render(view, state, sess)
	return state
}

func (g *Guard) render(view GuardView, state GuardState, sess domainauth.Session) {
	switch state {
	case GuardAuthenticated:
		view.Protected(sess)
	case GuardUnauthenticated:
		view.Redirect(g.loginPath)
	}
}

// Unmount tears the guard down. A resolution completing afterwards is a no-op.
func (g *Guard) Unmount() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.unmounted = true
}

// State returns the current gating state.
func (g *Guard) State() GuardState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Session returns the resolved session; Absent unless authenticated.
func (g *Guard) Session() domainauth.Session {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.session
}

// LoginPath returns the redirect target used for unauthenticated views.
func (g *Guard) LoginPath() string { return g.loginPath }
