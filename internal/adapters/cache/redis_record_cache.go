package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"site-intel-service/internal/platform/obs"
	"site-intel-service/internal/ports"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const keyPrefix = "siteintel:records:"

// RecordCache decorates a RecordLookup with a Redis read-through cache.
// Failed lookups are never cached. Redis errors are logged and the call
// falls through to the wrapped lookup.
type RecordCache struct {
	next   ports.RecordLookup
	client *redis.Client
	ttl    time.Duration
}

func NewRecordCache(next ports.RecordLookup, client *redis.Client, ttl time.Duration) *RecordCache {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &RecordCache{next: next, client: client, ttl: ttl}
}

// NewRedisClient parses redisURL and verifies the connection.
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis: parse url: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis: ping: %w", err)
	}
	return client, nil
}

func (c *RecordCache) SearchByName(ctx context.Context, name, recordType string) ([]ports.Record, error) {
	key := cacheKey("name", strings.ToLower(strings.TrimSpace(name)), recordType)
	return cached(ctx, c, key, func() ([]ports.Record, error) {
		return c.next.SearchByName(ctx, name, recordType)
	})
}

func (c *RecordCache) SearchByProperty(ctx context.Context, propertyID, address string) ([]ports.Record, error) {
	key := cacheKey("property", strings.TrimSpace(propertyID), strings.ToLower(strings.TrimSpace(address)))
	return cached(ctx, c, key, func() ([]ports.Record, error) {
		return c.next.SearchByProperty(ctx, propertyID, address)
	})
}

func (c *RecordCache) SearchByDateRange(ctx context.Context, start, end time.Time, recordType string) ([]ports.Record, error) {
	key := cacheKey("date", start.Format("2006-01-02"), end.Format("2006-01-02"), recordType)
	return cached(ctx, c, key, func() ([]ports.Record, error) {
		return c.next.SearchByDateRange(ctx, start, end, recordType)
	})
}

func (c *RecordCache) GetDocument(ctx context.Context, id, source string) (*ports.Document, error) {
	key := cacheKey("document", id, source)
	return cached(ctx, c, key, func() (*ports.Document, error) {
		return c.next.GetDocument(ctx, id, source)
	})
}

func (c *RecordCache) RecordTypes(ctx context.Context) ([]string, error) {
	return cached(ctx, c, cacheKey("types"), func() ([]string, error) {
		return c.next.RecordTypes(ctx)
	})
}

func cached[T any](ctx context.Context, c *RecordCache, key string, load func() (T, error)) (T, error) {
	var out T

	raw, err := c.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		if jerr := json.Unmarshal(raw, &out); jerr == nil {
			return out, nil
		}
		obs.L().Warn("record cache: corrupt entry", zap.String("key", key))
	case !errors.Is(err, redis.Nil):
		obs.L().Warn("record cache: get failed", zap.String("key", key), zap.Error(err))
	}

	out, err = load()
	if err != nil {
		return out, err
	}

	b, err := json.Marshal(out)
	if err != nil {
		return out, nil
	}
	if err := c.client.Set(ctx, key, b, c.ttl).Err(); err != nil {
		obs.L().Warn("record cache: set failed", zap.String("key", key), zap.Error(err))
	}
	return out, nil
}

func cacheKey(op string, parts ...string) string {
	return keyPrefix + op + ":" + strings.Join(parts, "|")
}
