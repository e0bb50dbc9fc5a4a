package httpx

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"

	domainauth "github.com/imgshare/gallery-client/internal/domain/auth"
	"github.com/imgshare/gallery-client/internal/mocks"
	"github.com/imgshare/gallery-client/internal/ports"
	"github.com/imgshare/gallery-client/internal/service"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type staticResolver struct {
	sess  domainauth.Session
	calls int
}

func (r *staticResolver) Resolve(context.Context) domainauth.Session {
	r.calls++
	return r.sess
}

type fakeAuth struct {
	loginFn  func(context.Context, service.LoginInput) (domainauth.Session, error)
	logoutFn func(context.Context) (ports.LogoutResult, error)
}

func (f *fakeAuth) Login(ctx context.Context, in service.LoginInput) (domainauth.Session, error) {
	return f.loginFn(ctx, in)
}

func (f *fakeAuth) Logout(ctx context.Context) (ports.LogoutResult, error) {
	return f.logoutFn(ctx)
}

func testSession(t *testing.T) domainauth.Session {
	t.Helper()
	sess, err := domainauth.Present(domainauth.User{ID: "u1", Name: "Ada", Email: "ada@example.com"})
	require.NoError(t, err)
	return sess
}

type routerFixture struct {
	handler  http.Handler
	resolver *staticResolver
	auth     *fakeAuth
	api      *mocks.MockGalleryAPI
	sync     *service.GallerySync
}

func newRouterFixture(t *testing.T, sess domainauth.Session) *routerFixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	api := mocks.NewMockGalleryAPI(ctrl)
	sync := service.NewGallerySync(service.GallerySyncOptions{
		API:    api,
		Config: service.GallerySyncConfig{Source: "/gallery", PageSize: 2, WindowSize: 3},
	})
	f := &routerFixture{
		resolver: &staticResolver{sess: sess},
		auth:     &fakeAuth{},
		api:      api,
		sync:     sync,
	}
	handler, err := NewRouter(RouterServices{
		Sessions: f.resolver,
		Auth:     f.auth,
		Gallery:  sync,
	})
	require.NoError(t, err)
	f.handler = handler
	return f
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
