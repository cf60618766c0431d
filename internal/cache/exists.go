// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// exists.go caches page-exists lookups by URL. Misses are cached too, so
// repeated probes for unknown URLs skip the database. Entries are dropped
// when a page is created or deleted.
package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"taxocms/internal/models"
)

const (
	// existsKeyPrefix is the Valkey key prefix for exists lookups.
	existsKeyPrefix = "exists:"

	// missingMarker is stored for URLs without a page.
	missingMarker = "-"

	// DefaultExistsTTL is how long a lookup stays cached.
	DefaultExistsTTL = 5 * time.Minute
)

// ExistsCache manages page-exists lookups in Valkey. A nil *ExistsCache is
// valid and never hits.
type ExistsCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewExistsCache creates a new exists cache backed by the given Valkey client.
func NewExistsCache(client *redis.Client, ttl time.Duration) *ExistsCache {
	if ttl == 0 {
		ttl = DefaultExistsTTL
	}
	return &ExistsCache{client: client, ttl: ttl}
}

// Get returns the cached lookup for url.
func (c *ExistsCache) Get(ctx context.Context, url string) (models.PageExists, bool) {
	if c == nil {
		return models.PageExists{}, false
	}
	val, err := c.client.Get(ctx, existsKeyPrefix+url).Result()
	if err == redis.Nil {
		return models.PageExists{}, false
	}
	if err != nil {
		slog.Warn("exists cache get error", "url", url, "error", err)
		return models.PageExists{}, false
	}
	if val == missingMarker {
		slog.Debug("exists cache hit", "url", url, "exists", false)
		return models.PageExists{}, true
	}
	id, err := uuid.Parse(val)
	if err != nil {
		slog.Warn("exists cache corrupt entry", "url", url, "value", val)
		return models.PageExists{}, false
	}
	slog.Debug("exists cache hit", "url", url, "exists", true)
	return models.PageExists{Exists: true, PageID: &id}, true
}

// Set stores a lookup result for url with the configured TTL.
func (c *ExistsCache) Set(ctx context.Context, url string, res models.PageExists) {
	if c == nil {
		return
	}
	val := missingMarker
	if res.Exists && res.PageID != nil {
		val = res.PageID.String()
	}
	if err := c.client.Set(ctx, existsKeyPrefix+url, val, c.ttl).Err(); err != nil {
		slog.Warn("exists cache set error", "url", url, "error", err)
	}
}

// Invalidate removes the lookup for one URL.
func (c *ExistsCache) Invalidate(ctx context.Context, url string) {
	if c == nil {
		return
	}
	if err := c.client.Del(ctx, existsKeyPrefix+url).Err(); err != nil {
		slog.Warn("exists cache invalidate error", "url", url, "error", err)
		return
	}
	slog.Debug("exists cache invalidated", "url", url)
}

// InvalidateAll removes every cached lookup by scanning for the prefix.
func (c *ExistsCache) InvalidateAll(ctx context.Context) {
	if c == nil {
		return
	}
	var cursor uint64
	var deleted int
	for {
		keys, nextCursor, err := c.client.Scan(ctx, cursor, existsKeyPrefix+"*", 100).Result()
		if err != nil {
			slog.Warn("exists cache scan error", "error", err)
			return
		}
		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				slog.Warn("exists cache bulk delete error", "error", err)
			}
			deleted += len(keys)
		}
		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}
	if deleted > 0 {
		slog.Info("exists cache cleared", "deleted", deleted)
	}
}
