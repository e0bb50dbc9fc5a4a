package service

import (
	"context"
	"errors"
	"testing"

	"github.com/imgshare/gallery-client/internal/adapters/memory"
	domainauth "github.com/imgshare/gallery-client/internal/domain/auth"
	apperrors "github.com/imgshare/gallery-client/internal/errors"
	"github.com/imgshare/gallery-client/internal/mocks"
	"github.com/imgshare/gallery-client/internal/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type countingResetter struct {
	resets int
	err    error
}

func (r *countingResetter) Reset(context.Context) error {
	r.resets++
	return r.err
}

type authFixture struct {
	svc         *AuthService
	sessions    *SessionStore
	cache       *memory.Store
	identity    *mocks.MockIdentityAPI
	credentials *countingResetter
}

func newAuthFixture(t *testing.T) authFixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	identity := mocks.NewMockIdentityAPI(ctrl)
	cache := memory.NewStore()
	sessions := NewSessionStore(SessionStoreOptions{Cache: cache, Identity: identity})
	credentials := &countingResetter{}
	svc := NewAuthService(AuthServiceOptions{
		Identity: identity,
		Sessions: sessions,
		Config:   AuthServiceConfig{Credentials: credentials},
	})
	return authFixture{svc: svc, sessions: sessions, cache: cache, identity: identity, credentials: credentials}
}

func fieldNames(err error) []string {
	var names []string
	for _, f := range apperrors.FieldMessages(err) {
		names = append(names, f.Field)
	}
	return names
}

func TestAuthService_LoginValidationSkipsNetwork(t *testing.T) {
	tests := []struct {
		name       string
		input      LoginInput
		wantFields []string
	}{
		{name: "empty", input: LoginInput{}, wantFields: []string{"email", "password"}},
		{name: "bad email", input: LoginInput{Email: "ada", Password: "pw"}, wantFields: []string{"email"}},
		{name: "blank email", input: LoginInput{Email: "   ", Password: "pw"}, wantFields: []string{"email"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAuthFixture(t)

			_, err := f.svc.Login(context.Background(), tt.input)

			require.Error(t, err)
			assert.True(t, apperrors.IsValidation(err))
			assert.Equal(t, tt.wantFields, fieldNames(err))
		})
	}
}

func TestAuthService_LoginServerErrorIsVerbatim(t *testing.T) {
	f := newAuthFixture(t)
	f.identity.EXPECT().Login(gomock.Any(), "ada@example.com", "wrong").
		Return(domainauth.User{}, apperrors.Transport(400, "Invalid email or password"))

	sess, err := f.svc.Login(context.Background(), LoginInput{Email: " ada@example.com ", Password: "wrong"})

	require.Error(t, err)
	assert.False(t, sess.IsPresent())
	assert.Equal(t, "Invalid email or password", apperrors.UserMessage(err))
	assert.False(t, f.cache.Has(DefaultSessionKey))
}

func TestAuthService_LoginStoresSession(t *testing.T) {
	f := newAuthFixture(t)
	f.identity.EXPECT().Login(gomock.Any(), "ada@example.com", "secret").Return(ada, nil)

	sess, err := f.svc.Login(context.Background(), LoginInput{Email: "ada@example.com", Password: "secret"})

	require.NoError(t, err)
	assert.Equal(t, "u1", sess.UserID())
	assert.Equal(t, "u1", f.sessions.Load(context.Background()).UserID())
}

func TestAuthService_LoginRejectsPartialUser(t *testing.T) {
	f := newAuthFixture(t)
	f.identity.EXPECT().Login(gomock.Any(), gomock.Any(), gomock.Any()).Return(domainauth.User{ID: "u1"}, nil)

	_, err := f.svc.Login(context.Background(), LoginInput{Email: "ada@example.com", Password: "secret"})

	require.ErrorIs(t, err, domainauth.ErrPartialSession)
	assert.False(t, f.cache.Has(DefaultSessionKey))
}

func TestAuthService_LogoutFailureKeepsSession(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	_, err := f.sessions.Set(ctx, ada)
	require.NoError(t, err)
	f.identity.EXPECT().Logout(gomock.Any()).Return(ports.LogoutResult{}, apperrors.Transport(502, "Bad gateway"))

	_, err = f.svc.Logout(ctx)

	require.Error(t, err)
	assert.True(t, f.sessions.Load(ctx).IsPresent())
	assert.Zero(t, f.credentials.resets)
}

func TestAuthService_LogoutClearsSessionAndCredentials(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	_, err := f.sessions.Set(ctx, ada)
	require.NoError(t, err)
	f.identity.EXPECT().Logout(gomock.Any()).Return(ports.LogoutResult{RedirectURL: "/login"}, nil)

	res, err := f.svc.Logout(ctx)

	require.NoError(t, err)
	assert.Equal(t, "/login", res.RedirectURL)
	assert.False(t, f.sessions.Load(ctx).IsPresent())
	assert.Equal(t, 1, f.credentials.resets)
}

func TestAuthService_LogoutCredentialResetFailureIsAdvisory(t *testing.T) {
	f := newAuthFixture(t)
	f.credentials.err = errors.New("disk full")
	f.identity.EXPECT().Logout(gomock.Any()).Return(ports.LogoutResult{}, nil)

	_, err := f.svc.Logout(context.Background())

	require.NoError(t, err)
}

func TestAuthService_Register(t *testing.T) {
	t.Run("validation", func(t *testing.T) {
		f := newAuthFixture(t)
		_, err := f.svc.Register(context.Background(), ports.RegisterInput{Name: "Ada", Email: "ada@example.com", Password: "short"})
		require.Error(t, err)
		assert.Equal(t, []string{"password"}, fieldNames(err))
		assert.Equal(t, "password must be at least 8 characters", apperrors.UserMessage(err))
	})

	t.Run("success", func(t *testing.T) {
		f := newAuthFixture(t)
		in := ports.RegisterInput{Name: "Ada", Email: "ada@example.com", Password: "long enough"}
		f.identity.EXPECT().Register(gomock.Any(), in).Return("Check your inbox for a code", nil)

		msg, err := f.svc.Register(context.Background(), ports.RegisterInput{
			Name: " Ada ", Email: "ada@example.com", Password: "long enough",
		})
		require.NoError(t, err)
		assert.Equal(t, "Check your inbox for a code", msg)
	})
}

func TestAuthService_VerifyOTP(t *testing.T) {
	t.Run("non numeric code", func(t *testing.T) {
		f := newAuthFixture(t)
		_, err := f.svc.VerifyOTP(context.Background(), VerifyInput{Email: "ada@example.com", Code: "abcd"})
		require.Error(t, err)
		assert.Equal(t, []string{"otp"}, fieldNames(err))
	})

	t.Run("success stores session", func(t *testing.T) {
		f := newAuthFixture(t)
		f.identity.EXPECT().VerifyOTP(gomock.Any(), "ada@example.com", "123456").Return(ada, nil)

		sess, err := f.svc.VerifyOTP(context.Background(), VerifyInput{Email: "ada@example.com", Code: " 123456 "})
		require.NoError(t, err)
		assert.True(t, sess.IsPresent())
		assert.True(t, f.cache.Has(DefaultSessionKey))
	})

	t.Run("server rejection", func(t *testing.T) {
		f := newAuthFixture(t)
		f.identity.EXPECT().VerifyOTP(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(domainauth.User{}, apperrors.Transport(400, "Invalid or expired code"))

		_, err := f.svc.VerifyOTP(context.Background(), VerifyInput{Email: "ada@example.com", Code: "000000"})
		require.Error(t, err)
		assert.Equal(t, "Invalid or expired code", apperrors.UserMessage(err))
		assert.False(t, f.cache.Has(DefaultSessionKey))
	})
}
