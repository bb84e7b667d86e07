package product

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ignite/campaign-studio/internal/pkg/logger"
)

// Cache is a Redis read-through cache for scraped product data, so repeated
// generation runs against the same URL skip the page fetch and the
// extraction/ranking model calls. A nil *Cache is a no-op.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCache creates a product cache with the given TTL.
func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	if ttl == 0 {
		ttl = time.Hour
	}
	return &Cache{client: client, ttl: ttl}
}

type cachedProduct struct {
	Info     Info `json:"info"`
	Degraded bool `json:"degraded"`
}

func cacheKey(productURL string) string {
	sum := sha256.Sum256([]byte(productURL))
	return "product:v1:" + hex.EncodeToString(sum[:])
}

// Get returns the cached product data for a URL, or ok=false on miss.
// Cache failures are treated as misses.
func (c *Cache) Get(ctx context.Context, productURL string) (Info, bool, bool) {
	if c == nil || c.client == nil {
		return Info{}, false, false
	}
	data, err := c.client.Get(ctx, cacheKey(productURL)).Bytes()
	if err != nil {
		if err != redis.Nil {
			logger.Warn("product cache read failed", "error", err)
		}
		return Info{}, false, false
	}
	var cached cachedProduct
	if err := json.Unmarshal(data, &cached); err != nil {
		return Info{}, false, false
	}
	return cached.Info, cached.Degraded, true
}

// Put stores product data for a URL. Failures are logged and ignored.
func (c *Cache) Put(ctx context.Context, productURL string, info Info, degraded bool) {
	if c == nil || c.client == nil {
		return
	}
	data, err := json.Marshal(cachedProduct{Info: info, Degraded: degraded})
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, cacheKey(productURL), data, c.ttl).Err(); err != nil {
		logger.Warn("product cache write failed", "error", err)
	}
}
