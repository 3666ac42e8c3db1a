package metrics

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ignite/outreach-crm/internal/pkg/logger"
)

const cacheKeyPrefix = "dashboard:metrics:"

// SnapshotCache keeps recently computed dashboard snapshots in Redis so
// repeated dashboard loads inside the TTL skip the upstream fetches.
// Every cache error degrades to a recompute; the cache is never load
// bearing.
type SnapshotCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewSnapshotCache(rdb *redis.Client, ttl time.Duration) *SnapshotCache {
	return &SnapshotCache{rdb: rdb, ttl: ttl}
}

func cacheKey(from, to string) string {
	if from == "" && to == "" {
		return cacheKeyPrefix + "all"
	}
	return cacheKeyPrefix + from + ":" + to
}

// Get returns the cached snapshot for the range, or nil on miss or any
// cache error.
func (c *SnapshotCache) Get(ctx context.Context, from, to string) *DashboardMetrics {
	if c == nil || c.rdb == nil {
		return nil
	}

	raw, err := c.rdb.Get(ctx, cacheKey(from, to)).Bytes()
	if err != nil {
		if err != redis.Nil {
			logger.Warn("dashboard cache read failed", "error", err.Error())
		}
		return nil
	}

	var m DashboardMetrics
	if err := json.Unmarshal(raw, &m); err != nil {
		logger.Warn("dashboard cache entry corrupt, discarding", "error", err.Error())
		return nil
	}
	return &m
}

// Set stores the snapshot for the range. Failures are logged and
// swallowed.
func (c *SnapshotCache) Set(ctx context.Context, from, to string, m *DashboardMetrics) {
	if c == nil || c.rdb == nil || m == nil {
		return
	}

	raw, err := json.Marshal(m)
	if err != nil {
		logger.Warn("dashboard cache marshal failed", "error", err.Error())
		return
	}
	if err := c.rdb.Set(ctx, cacheKey(from, to), raw, c.ttl).Err(); err != nil {
		logger.Warn("dashboard cache write failed", "error", err.Error())
	}
}
