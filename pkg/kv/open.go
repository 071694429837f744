package kv

import (
	"context"

	"github.com/redis/go-redis/v9"

	skerrors "thoreinstein.com/skinscout/pkg/errors"
)

// Options selects and configures a backend for Open.
type Options struct {
	Backend     string // memory, file, sqlite or redis
	Path        string // file or sqlite location
	RedisURL    string
	RedisPrefix string
	Retry       skerrors.RetryConfig
}

// Open creates the Store described by opts. Connecting to Redis is retried
// with backoff; the local backends fail fast.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch opts.Backend {
	case BackendMemory:
		return NewMemoryStore(), nil

	case BackendFile, "":
		if opts.Path == "" {
			return nil, skerrors.NewConfigError("store.path", "a path is required for the file backend")
		}
		return NewFileStore(opts.Path), nil

	case BackendSQLite:
		if opts.Path == "" {
			return nil, skerrors.NewConfigError("store.path", "a path is required for the sqlite backend")
		}
		s, err := NewSQLiteStore(ctx, opts.Path)
		if err != nil {
			return nil, skerrors.NewStoreErrorWithCause(BackendSQLite, "Open", "failed to open database", err)
		}
		return s, nil

	case BackendRedis:
		if opts.RedisURL == "" {
			return nil, skerrors.NewConfigError("store.redis_url", "a URL is required for the redis backend")
		}
		if _, err := redis.ParseURL(opts.RedisURL); err != nil {
			return nil, skerrors.NewConfigErrorWithCause("store.redis_url", "invalid redis URL", err)
		}
		retry := opts.Retry
		if retry.MaxRetries == 0 && retry.BaseDelay == 0 {
			retry = skerrors.DefaultRetryConfig()
		}
		return skerrors.RetryWithResult(ctx, retry, func() (Store, error) {
			s, err := NewRedisStore(ctx, opts.RedisURL, opts.RedisPrefix)
			if err != nil {
				storeErr := skerrors.NewStoreErrorWithCause(BackendRedis, "Open", "failed to connect", err)
				storeErr.Retryable = true
				return nil, storeErr
			}
			return s, nil
		})

	default:
		return nil, skerrors.NewConfigError("store.backend", "unknown backend "+opts.Backend)
	}
}
