package idempotency

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
)

type memoryItem struct {
	entry     Entry
	expiresAt time.Time
}

// MemoryCache is a process-local Cache. A gocron job removes expired
// entries every sweep interval; Get also ignores expired entries that the
// sweep has not reached yet.
type MemoryCache struct {
	mu        sync.Mutex
	items     map[string]memoryItem
	now       func() time.Time
	scheduler *gocron.Scheduler
	logger    *slog.Logger
}

var _ Cache = (*MemoryCache)(nil)

// NewMemoryCache creates a MemoryCache and starts its sweep job.
func NewMemoryCache(sweepInterval time.Duration, logger *slog.Logger) (*MemoryCache, error) {
	if sweepInterval <= 0 {
		return nil, fmt.Errorf("sweep interval must be positive, got %s", sweepInterval)
	}
	if logger == nil {
		logger = slog.Default()
	}

	c := &MemoryCache{
		items:     make(map[string]memoryItem),
		now:       time.Now,
		scheduler: gocron.NewScheduler(time.UTC),
		logger:    logger.With(slog.String("component", "idempotency_memory")),
	}

	if _, err := c.scheduler.Every(sweepInterval).WaitForSchedule().Do(c.Sweep); err != nil {
		return nil, fmt.Errorf("failed to schedule sweep: %w", err)
	}
	c.scheduler.StartAsync()
	return c, nil
}

// Get implements Cache.
func (c *MemoryCache) Get(_ context.Context, key string) (Entry, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	item, ok := c.items[key]
	if !ok || !c.now().Before(item.expiresAt) {
		return Entry{}, false, nil
	}
	return item.entry, true, nil
}

// Set implements Cache.
func (c *MemoryCache) Set(_ context.Context, key string, entry Entry, ttl time.Duration) error {
	if ttl <= 0 {
		return ErrInvalidTTL
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = memoryItem{entry: entry, expiresAt: c.now().Add(ttl)}
	return nil
}

// Sweep removes expired entries and returns how many it removed.
func (c *MemoryCache) Sweep() int {
	c.mu.Lock()
	now := c.now()
	removed := 0
	for key, item := range c.items {
		if !now.Before(item.expiresAt) {
			delete(c.items, key)
			removed++
		}
	}
	remaining := len(c.items)
	c.mu.Unlock()

	if removed > 0 {
		c.logger.Debug("swept expired idempotency entries",
			slog.Int("removed", removed),
			slog.Int("remaining", remaining))
	}
	return removed
}

// Len returns the number of stored entries, expired or not.
func (c *MemoryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Close stops the sweep job.
func (c *MemoryCache) Close() error {
	c.scheduler.Stop()
	return nil
}
