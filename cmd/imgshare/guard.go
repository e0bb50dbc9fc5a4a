package main

import (
	"context"
	"log/slog"

	domainauth "github.com/imgshare/gallery-client/internal/domain/auth"
	"github.com/imgshare/gallery-client/internal/service"
)

// cliGuardView records what the guard rendered. The terminal has no waiting
// indicator; a redirect becomes errNotLoggedIn.
type cliGuardView struct {
	session    domainauth.Session
	redirected bool
}

func (v *cliGuardView) Waiting() {}

func (v *cliGuardView) Protected(sess domainauth.Session) { v.session = sess }

func (v *cliGuardView) Redirect(string) { v.redirected = true }

// requireSession gates a protected command on a resolved session.
func requireSession(ctx context.Context, resolver service.SessionResolver, logger *slog.Logger) (domainauth.Session, error) {
	guard := service.NewGuard(service.GuardOptions{
		Resolver:  resolver,
		LoginPath: "imgshare login",
		Logger:    logger,
	})
	defer guard.Unmount()

	view := &cliGuardView{}
	if guard.Mount(ctx, view) != service.GuardAuthenticated || view.redirected {
		return domainauth.Absent(), errNotLoggedIn
	}
	return view.session, nil
}
