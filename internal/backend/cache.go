package backend

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Cache sits atop the client for read-heavy dashboard endpoints. Fetches
// for the same path inside the dedupe window share one result, concurrent
// fetches are collapsed through singleflight, and a failed refresh serves
// the last successful payload instead of an error. There is no automatic
// retry; the next caller after the window triggers the next fetch.
type Cache struct {
	client *Client
	window time.Duration
	logger *slog.Logger
	group  singleflight.Group

	mu      sync.RWMutex
	entries map[string]cacheEntry
}

type cacheEntry struct {
	payload   json.RawMessage
	fetchedAt time.Time
}

const defaultDedupeWindow = 10 * time.Second

// NewCache creates a cache over the given client.
func NewCache(client *Client, window time.Duration, logger *slog.Logger) *Cache {
	if window <= 0 {
		window = defaultDedupeWindow
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Cache{
		client:  client,
		window:  window,
		logger:  logger,
		entries: make(map[string]cacheEntry),
	}
}

// Get returns the payload for the path, serving from cache inside the
// dedupe window. On a refresh failure the previous successful payload is
// returned when one exists; the error surfaces only on a cold miss.
func (c *Cache) Get(ctx context.Context, path string) (json.RawMessage, error) {
	if path == "" {
		return nil, nil
	}

	c.mu.RLock()
	entry, ok := c.entries[path]
	c.mu.RUnlock()
	if ok && time.Since(entry.fetchedAt) < c.window {
		return entry.payload, nil
	}

	// The flight is shared by every concurrent caller for the path, so it
	// must not die with whichever caller happened to start it. The client
	// still applies its own per-request timeout.
	fetchCtx := context.WithoutCancel(ctx)
	result, err, _ := c.group.Do(path, func() (any, error) {
		payload, fetchErr := c.client.Get(fetchCtx, path)
		if fetchErr != nil {
			return nil, fetchErr
		}
		c.mu.Lock()
		c.entries[path] = cacheEntry{payload: payload, fetchedAt: time.Now()}
		c.mu.Unlock()
		return payload, nil
	})
	if err != nil {
		if ok {
			c.logger.WarnContext(ctx, "serving stale payload after refresh failure",
				"path", path,
				"error", err,
				"age_ms", time.Since(entry.fetchedAt).Milliseconds(),
			)
			return entry.payload, nil
		}
		return nil, err
	}
	return result.(json.RawMessage), nil
}

// Invalidate drops the cached payload for a path, forcing the next Get to
// hit the backend. An empty path drops every entry. Handlers call this
// after a successful mutation.
func (c *Cache) Invalidate(path string) {
	c.mu.Lock()
	if path == "" {
		c.entries = make(map[string]cacheEntry)
	} else {
		delete(c.entries, path)
	}
	c.mu.Unlock()
}
