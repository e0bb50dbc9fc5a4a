package redis

// Package redis provides Redis-based adapters for the gallery client.

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/imgshare/gallery-client/internal/ports"
	"github.com/redis/go-redis/v9"
)

var _ ports.KeyValueStore = (*KeyValueStore)(nil)

// KeyValueStore is a Redis-backed store for the persisted client records.
// Several client processes sharing one Redis see the same session.
type KeyValueStore struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// Options configures a KeyValueStore.
type Options struct {
	// Prefix is prepended to every key. Defaults to "imgshare:".
	Prefix string
	// TTL expires records after the given duration; zero keeps them until deleted.
	TTL time.Duration
}

// NewKeyValueStore creates a new Redis-based store.
func NewKeyValueStore(client redis.UniversalClient, opts Options) *KeyValueStore {
	prefix := opts.Prefix
	if prefix == "" {
		prefix = "imgshare:"
	}
	return &KeyValueStore{
		client: client,
		prefix: prefix,
		ttl:    max(opts.TTL, 0),
	}
}

func (s *KeyValueStore) Get(ctx context.Context, key string) (string, bool, error) {
	if key == "" {
		return "", false, nil
	}

	data, err := s.client.Get(ctx, s.prefix+key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("redis get: %w", err)
	}
	return data, true, nil
}

func (s *KeyValueStore) Set(ctx context.Context, key, value string) error {
	if key == "" {
		return errors.New("key cannot be empty")
	}
	if err := s.client.Set(ctx, s.prefix+key, value, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (s *KeyValueStore) Delete(ctx context.Context, key string) error {
	if key == "" {
		return nil // Nothing to delete
	}
	if err := s.client.Del(ctx, s.prefix+key).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}
