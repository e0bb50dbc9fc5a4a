// Package sealed encrypts persisted client records at rest. It wraps any
// KeyValueStore so the session and credential cookies never reach the
// profile file or Redis in the clear.
package sealed

import (
	"context"
	"log/slog"

	"github.com/imgshare/gallery-client/internal/ports"
)

var _ ports.KeyValueStore = (*Store)(nil)

// Options groups dependencies for Store.
type Options struct {
	Inner  ports.KeyValueStore // Required
	Cipher *Cipher             // Required
	Logger *slog.Logger
}

// Store seals values on Set and opens them on Get.
//
// Values written before encryption was enabled carry no version prefix and
// are returned as they are; the next Set replaces them with a sealed value.
// A sealed value that no longer opens, e.g. after a key change, reads as
// missing so the user is asked to sign in again.
type Store struct {
	inner  ports.KeyValueStore
	cipher *Cipher
	logger *slog.Logger
}

// NewStore wraps inner with encryption.
func NewStore(opts Options) *Store {
	if opts.Inner == nil {
		panic("inner store is required")
	}
	if opts.Cipher == nil {
		panic("cipher is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		inner:  opts.Inner,
		cipher: opts.Cipher,
		logger: logger.With("component", "sealed_store"),
	}
}

func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	raw, found, err := s.inner.Get(ctx, key)
	if err != nil || !found {
		return "", found, err
	}
	if !IsSealed(raw) {
		s.logger.DebugContext(ctx, "reading unsealed record", "key", key)
		return raw, true, nil
	}
	pt, err := s.cipher.Open(key, raw)
	if err != nil {
		s.logger.WarnContext(ctx, "ignoring record that does not decrypt", "key", key, "error", err)
		return "", false, nil
	}
	return string(pt), true, nil
}

func (s *Store) Set(ctx context.Context, key, value string) error {
	sealedValue, err := s.cipher.Seal(key, []byte(value))
	if err != nil {
		return err
	}
	return s.inner.Set(ctx, key, sealedValue)
}

func (s *Store) Delete(ctx context.Context, key string) error {
	return s.inner.Delete(ctx, key)
}
