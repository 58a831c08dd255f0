package store

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"time"

	"github.com/redis/go-redis/v9"
)

// Options configures a RedisStore.
type Options struct {
	Addr         string
	Password     string
	DB           int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	// RetryAttempts bounds the reconnect loop run after a transient
	// failure. Zero means retry indefinitely, which is a deliberate
	// operational mode, not an accident.
	RetryAttempts int
	// RetryDelay is the pause between reconnect attempts.
	RetryDelay time.Duration
}

// RedisStore implements Store on a Redis backend. Cached scores live under
// plain string keys; interests are server-side lists read with LRANGE.
type RedisStore struct {
	client   *redis.Client
	logger   *slog.Logger
	attempts int
	delay    time.Duration
}

// NewRedisStore builds a RedisStore from opts. Connectivity is not checked
// here; the first operation (or a health probe) will report it.
func NewRedisStore(opts Options, logger *slog.Logger) *RedisStore {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	client := redis.NewClient(&redis.Options{
		Addr:         opts.Addr,
		Password:     opts.Password,
		DB:           opts.DB,
		DialTimeout:  opts.DialTimeout,
		ReadTimeout:  opts.ReadTimeout,
		WriteTimeout: opts.WriteTimeout,
	})
	return &RedisStore{
		client:   client,
		logger:   logger,
		attempts: opts.RetryAttempts,
		delay:    opts.RetryDelay,
	}
}

// CacheGet implements Store. Failures are logged and reported as a miss.
func (s *RedisStore) CacheGet(ctx context.Context, key string) (string, bool) {
	var val string
	err := s.withRetry(ctx, func() error {
		var err error
		val, err = s.client.Get(ctx, key).Result()
		return err
	})
	if errors.Is(err, redis.Nil) {
		return "", false
	}
	if err != nil {
		s.logger.Info("cache get skipped", "key", key, "error", err)
		return "", false
	}
	return val, true
}

// CacheSet implements Store. Failures are logged and swallowed.
func (s *RedisStore) CacheSet(ctx context.Context, key, value string, ttl time.Duration) bool {
	err := s.withRetry(ctx, func() error {
		return s.client.Set(ctx, key, value, ttl).Err()
	})
	if err != nil {
		s.logger.Info("cache set skipped", "key", key, "error", err)
		return false
	}
	return true
}

// Get implements Store. A missing key is an empty list; errors surviving the
// retry loop are surfaced to the caller.
func (s *RedisStore) Get(ctx context.Context, key string) ([]string, error) {
	var items []string
	err := s.withRetry(ctx, func() error {
		var err error
		items, err = s.client.LRange(ctx, key, 0, -1).Result()
		return err
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}

// Ping implements Store.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close releases the underlying connection pool.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

// withRetry runs op, retrying transient failures with a delay in between
// until the attempt budget is spent. redis.Nil and context cancellation are
// terminal.
func (s *RedisStore) withRetry(ctx context.Context, op func() error) error {
	err := op()
	for attempt := 1; retryable(err); attempt++ {
		if s.attempts > 0 && attempt > s.attempts {
			return err
		}
		s.logger.Info("retrying store operation", "attempt", attempt, "error", err)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(s.delay):
		}
		err = op()
	}
	return err
}

// retryable matches connection-level failures; server-side errors and
// redis.Nil surface immediately.
func retryable(err error) bool {
	if err == nil || errors.Is(err, redis.Nil) {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	return errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF)
}
