package actors

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	id "bitacora/pkg/domain"
)

const (
	cacheKeyPrefix  = "actor:"
	defaultCacheTTL = 5 * time.Minute
)

// CachedDirectory is a redis read-through layer over another Directory.
// Display names are hot on every feed render; caching them keeps the users
// table out of the read path. Cache failures fall through to the inner
// directory, never to the caller.
type CachedDirectory struct {
	inner  Directory
	client *redis.Client
	ttl    time.Duration
}

// CacheOption configures a CachedDirectory.
type CacheOption func(*CachedDirectory)

// WithTTL overrides the default cache entry lifetime.
func WithTTL(ttl time.Duration) CacheOption {
	return func(c *CachedDirectory) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// NewCachedDirectory wraps a directory with a redis cache.
func NewCachedDirectory(inner Directory, client *redis.Client, opts ...CacheOption) *CachedDirectory {
	cached := &CachedDirectory{
		inner:  inner,
		client: client,
		ttl:    defaultCacheTTL,
	}
	for _, opt := range opts {
		opt(cached)
	}
	return cached
}

func (c *CachedDirectory) FindByID(ctx context.Context, actorID id.ActorID) (*Actor, error) {
	key := cacheKeyPrefix + actorID.String()

	payload, err := c.client.Get(ctx, key).Bytes()
	if err == nil {
		var actor Actor
		if json.Unmarshal(payload, &actor) == nil {
			return &actor, nil
		}
		// Corrupt entry; treat as a miss and overwrite below.
	} else if !errors.Is(err, redis.Nil) && ctx.Err() != nil {
		return nil, ctx.Err()
	}

	actor, err := c.inner.FindByID(ctx, actorID)
	if err != nil {
		return nil, err
	}

	if encoded, err := json.Marshal(actor); err == nil {
		// Best-effort population; a failed SET only costs the next lookup.
		_ = c.client.Set(ctx, key, encoded, c.ttl).Err()
	}
	return actor, nil
}
