package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"

	domainauth "github.com/imgshare/gallery-client/internal/domain/auth"
	"github.com/imgshare/gallery-client/internal/ports"
	"golang.org/x/sync/singleflight"
)

// DefaultSessionKey is the well-known key holding the persisted session record.
const DefaultSessionKey = "imgshare:session"

// Persisted values some writers leave behind instead of deleting the record.
var sessionSentinels = map[string]struct{}{
	"":          {},
	"undefined": {},
	"null":      {},
}

// SessionStoreOptions groups dependencies for SessionStore.
type SessionStoreOptions struct {
	Cache    ports.KeyValueStore // Required: persisted session cache
	Identity ports.IdentityAPI   // Required: whoami collaborator
	Config   SessionStoreConfig
}

// SessionStoreConfig holds optional SessionStore settings.
type SessionStoreConfig struct {
	Key    string
	Logger *slog.Logger
}

// SessionStore is the single source of truth for who is logged in.
// Reads and writes of the persisted record go through it so a stored
// session is always either a full user triple or nothing.
type SessionStore struct {
	cache    ports.KeyValueStore
	identity ports.IdentityAPI
	key      string
	logger   *slog.Logger

	resolving singleflight.Group

	mu sync.Mutex
	// epoch advances on every Set and Clear. A whoami answer is only
	// persisted when no write happened while it was in flight.
	epoch uint64
}

// NewSessionStore constructs a SessionStore.
func NewSessionStore(opts SessionStoreOptions) *SessionStore {
	if opts.Cache == nil {
		panic("session cache is required")
	}
	if opts.Identity == nil {
		panic("identity api is required")
	}
	key := strings.TrimSpace(opts.Config.Key)
	if key == "" {
		key = DefaultSessionKey
	}
	logger := opts.Config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionStore{
		cache:    opts.Cache,
		identity: opts.Identity,
		key:      key,
		logger:   logger.With("component", "session_store"),
	}
}

// Key returns the persisted record key.
func (s *SessionStore) Key() string { return s.key }

// Load reads the persisted session. Missing, sentinel, unparsable and
// partial records all read as Absent; the bad ones are removed.
func (s *SessionStore) Load(ctx context.Context) domainauth.Session {
	raw, found, err := s.cache.Get(ctx, s.key)
	if err != nil {
		s.logger.WarnContext(ctx, "session cache read failed", "error", err)
		return domainauth.Absent()
	}
	if !found {
		return domainauth.Absent()
	}

	if _, ok := sessionSentinels[strings.TrimSpace(raw)]; ok {
		s.discard(ctx, "sentinel")
		return domainauth.Absent()
	}

	var u domainauth.User
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		s.discard(ctx, "unparsable")
		return domainauth.Absent()
	}
	sess, err := domainauth.Present(u)
	if err != nil {
		s.discard(ctx, "partial")
		return domainauth.Absent()
	}
	return sess
}

func (s *SessionStore) discard(ctx context.Context, reason string) {
	s.logger.DebugContext(ctx, "discarding persisted session", "reason", reason)
	if err := s.cache.Delete(ctx, s.key); err != nil {
		s.logger.WarnContext(ctx, "session cache delete failed", "error", err)
	}
}

// Resolve returns the cached session without any network call when one is
// present. Otherwise it asks the identity API once; concurrent callers share
// that call. Every failure resolves to Absent and clears the cache.
func (s *SessionStore) Resolve(ctx context.Context) domainauth.Session {
	if sess := s.Load(ctx); sess.IsPresent() {
		return sess
	}

	// The call is shared, so one caller's cancellation must not fail the rest.
	shared := context.WithoutCancel(ctx)
	v, _, _ := s.resolving.Do(s.key, func() (any, error) {
		// A call that finished just before this one may have filled the cache.
		if sess := s.Load(shared); sess.IsPresent() {
			return sess, nil
		}
		return s.whoami(shared), nil
	})
	sess, _ := v.(domainauth.Session)
	return sess
}

func (s *SessionStore) whoami(ctx context.Context) domainauth.Session {
	issued := s.currentEpoch()

	user, err := s.identity.WhoAmI(ctx)
	if err == nil {
		var sess domainauth.Session
		sess, err = domainauth.Present(user)
		if err == nil {
			s.persistIfCurrent(ctx, issued, user)
			return sess
		}
	}

	s.logger.WarnContext(ctx, "session resolution failed", "error", err)
	s.clearIfCurrent(ctx, issued)
	return domainauth.Absent()
}

// Set persists a full session and returns it.
func (s *SessionStore) Set(ctx context.Context, user domainauth.User) (domainauth.Session, error) {
	sess, err := domainauth.Present(user)
	if err != nil {
		return domainauth.Absent(), err
	}
	buf, err := json.Marshal(user)
	if err != nil {
		return domainauth.Absent(), err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.epoch++
	if err := s.cache.Set(ctx, s.key, string(buf)); err != nil {
		return domainauth.Absent(), err
	}
	return sess, nil
}

// Clear removes the persisted session.
func (s *SessionStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.epoch++
	return s.cache.Delete(ctx, s.key)
}

func (s *SessionStore) currentEpoch() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.epoch
}

func (s *SessionStore) persistIfCurrent(ctx context.Context, issued uint64, user domainauth.User) {
	buf, err := json.Marshal(user)
	if err != nil {
		s.logger.WarnContext(ctx, "encode session failed", "error", err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.epoch != issued {
		s.logger.DebugContext(ctx, "session written during resolution; keeping newer write")
		return
	}
	if err := s.cache.Set(ctx, s.key, string(buf)); err != nil {
		s.logger.WarnContext(ctx, "persist session failed", "error", err)
	}
}

func (s *SessionStore) clearIfCurrent(ctx context.Context, issued uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.epoch != issued {
		return
	}
	if err := s.cache.Delete(ctx, s.key); err != nil {
		s.logger.WarnContext(ctx, "session cache delete failed", "error", err)
	}
}
