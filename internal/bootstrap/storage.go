package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/imgshare/gallery-client/config"
	"github.com/imgshare/gallery-client/internal/adapters/memory"
	"github.com/imgshare/gallery-client/internal/adapters/profile"
	redisstore "github.com/imgshare/gallery-client/internal/adapters/redis"
	"github.com/imgshare/gallery-client/internal/adapters/sealed"
	"github.com/imgshare/gallery-client/internal/ports"
	"github.com/redis/go-redis/v9"
)

// RedisConnectConfig contains configuration for ConnectRedis.
type RedisConnectConfig struct {
	Redis  config.RedisConfig
	Logger *slog.Logger
}

// ConnectRedis establishes a connection to Redis.
//
//nolint:ireturn // returning redis.UniversalClient lets us pick single or sentinel clients at runtime.
func ConnectRedis(ctx context.Context, cfg RedisConnectConfig) (redis.UniversalClient, error) {
	var (
		client   redis.UniversalClient
		addrDesc string
		err      error
	)

	if cfg.Redis.UseSentinel {
		client, addrDesc, err = newSentinelClient(cfg.Redis)
	} else {
		client, addrDesc, err = newDirectClient(cfg.Redis)
	}
	if err != nil {
		return nil, err
	}

	// Verify connection
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if pingErr := client.Ping(pingCtx).Err(); pingErr != nil {
		if closeErr := client.Close(); closeErr != nil {
			pingErr = errors.Join(pingErr, fmt.Errorf("close redis client: %w", closeErr))
		}
		return nil, fmt.Errorf("ping redis: %w", pingErr)
	}

	if cfg.Logger != nil {
		cfg.Logger.Info("redis connected", "addr", redactAddr(addrDesc))
	}

	return client, nil
}

// redactAddr strips credentials from a connection description.
func redactAddr(addr string) string {
	if u, err := url.Parse(addr); err == nil && u.User != nil {
		u.User = url.User("*")
		return u.Redacted()
	}
	if i := strings.LastIndex(addr, "@"); i > -1 {
		return addr[i+1:]
	}
	return addr
}

//nolint:ireturn // returning redis.UniversalClient keeps client selection flexible.
func newSentinelClient(cfg config.RedisConfig) (redis.UniversalClient, string, error) {
	if len(cfg.SentinelNodes) == 0 {
		return nil, "", errors.New("redis sentinel configuration requires at least one sentinel node")
	}

	opts := &redis.FailoverOptions{
		MasterName:       cfg.SentinelMasterName,
		SentinelAddrs:    cfg.SentinelNodes,
		Password:         cfg.Password,
		SentinelPassword: cfg.SentinelPassword,
		DB:               cfg.DB,
	}
	client := redis.NewFailoverClient(opts)
	return client, "sentinel:" + cfg.SentinelMasterName, nil
}

//nolint:ireturn // returning redis.UniversalClient keeps client selection flexible.
func newDirectClient(cfg config.RedisConfig) (redis.UniversalClient, string, error) {
	uri := strings.TrimSpace(cfg.URI)
	if uri == "" {
		return nil, "", errors.New("redis direct configuration requires a URI")
	}

	if isRedisURL(uri) {
		opt, err := redis.ParseURL(uri)
		if err != nil {
			return nil, "", fmt.Errorf("parse redis url: %w", err)
		}
		return redis.NewClient(opt), uri, nil
	}

	opts := &redis.Options{
		Addr:     uri,
		Password: cfg.Password,
		DB:       cfg.DB,
	}
	return redis.NewClient(opts), uri, nil
}

func isRedisURL(value string) bool {
	return strings.HasPrefix(value, "redis://") || strings.HasPrefix(value, "rediss://")
}

// StorageOptions contains configuration for OpenStorage.
type StorageOptions struct {
	Storage config.StorageConfig
	Redis   config.RedisConfig
	Logger  *slog.Logger
}

// Storage is the opened persisted-state backend.
type Storage struct {
	Backend config.StorageBackend
	Store   ports.KeyValueStore
	// Sealed reports whether records are encrypted at rest.
	Sealed  bool
	closers []func() error
}

// Close releases the backend connections.
func (s *Storage) Close() error {
	if s == nil {
		return nil
	}
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	s.closers = nil
	return errors.Join(errs...)
}

// OpenStorage opens the configured backend for persisted client state and,
// when an encryption key is configured, seals every record written to it.
func OpenStorage(ctx context.Context, opts StorageOptions) (*Storage, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var c *sealed.Cipher
	if opts.Storage.EncryptionKey != "" {
		key, err := sealed.ParseKey(opts.Storage.EncryptionKey)
		if err != nil {
			return nil, fmt.Errorf("storage encryption: %w", err)
		}
		if c, err = sealed.NewCipher(key); err != nil {
			return nil, fmt.Errorf("storage encryption: %w", err)
		}
	}

	storage, err := openBackend(ctx, opts, logger)
	if err != nil {
		return nil, err
	}
	if c != nil {
		storage.Store = sealed.NewStore(sealed.Options{Inner: storage.Store, Cipher: c, Logger: logger})
		storage.Sealed = true
	}
	return storage, nil
}

func openBackend(ctx context.Context, opts StorageOptions, logger *slog.Logger) (*Storage, error) {
	switch opts.Storage.Backend {
	case config.StorageBackendMemory:
		logger.Warn("using in-memory storage; the session is lost when the process exits")
		return &Storage{Backend: config.StorageBackendMemory, Store: memory.NewStore()}, nil

	case config.StorageBackendRedis:
		client, err := ConnectRedis(ctx, RedisConnectConfig{Redis: opts.Redis, Logger: logger})
		if err != nil {
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		store := redisstore.NewKeyValueStore(client, redisstore.Options{
			Prefix: opts.Redis.KeyPrefix,
			TTL:    opts.Redis.SessionTTL,
		})
		return &Storage{
			Backend: config.StorageBackendRedis,
			Store:   store,
			closers: []func() error{client.Close},
		}, nil

	default:
		path, err := profilePath(opts.Storage.ProfilePath)
		if err != nil {
			return nil, err
		}
		store, err := profile.Open(ctx, path)
		if err != nil {
			return nil, err
		}
		logger.Debug("profile storage opened", "path", path)
		return &Storage{
			Backend: config.StorageBackendProfile,
			Store:   store,
			closers: []func() error{store.Close},
		}, nil
	}
}

func profilePath(configured string) (string, error) {
	if configured != "" {
		return configured, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve profile dir: %w", err)
	}
	return filepath.Join(dir, "imgshare", "profile.db"), nil
}
