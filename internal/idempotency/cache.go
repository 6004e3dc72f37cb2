// Package idempotency stores responses of non-idempotent requests so that a
// retried request with the same key replays the first response instead of
// running again.
package idempotency

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/texdrill-api/internal/config"
)

// ErrInvalidTTL is returned by Set for a non-positive TTL.
var ErrInvalidTTL = errors.New("ttl must be positive")

// Entry is a stored response.
type Entry struct {
	Status      int       `json:"status"`
	ContentType string    `json:"content_type,omitempty"`
	Body        []byte    `json:"body"`
	RequestHash string    `json:"request_hash"`
	StoredAt    time.Time `json:"stored_at"`
}

// Cache maps keys to stored responses for a bounded time.
type Cache interface {
	// Get returns the entry for key and whether one exists and is unexpired.
	Get(ctx context.Context, key string) (Entry, bool, error)

	// Set stores entry under key for ttl, replacing any previous entry.
	Set(ctx context.Context, key string, entry Entry, ttl time.Duration) error

	// Close releases background resources.
	Close() error
}

// New builds the cache selected by cfg.Backend.
func New(ctx context.Context, cfg config.IdempotencyConfig, logger *slog.Logger) (Cache, error) {
	switch cfg.Backend {
	case config.IdempotencyMemory, "":
		return NewMemoryCache(cfg.SweepInterval(), logger)
	case config.IdempotencyRedis:
		client, err := OpenRedis(ctx, cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		return NewRedisCache(client, DefaultKeyPrefix, logger), nil
	default:
		return nil, fmt.Errorf("unknown idempotency backend %q", cfg.Backend)
	}
}
