package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/farmlink/marketplace-api/internal/core/domain"
)

const catalogueTTL = 5 * time.Minute

// CatalogueCache is the cache-aside store for the public approved catalogue.
// Key format: catalogue:<kind>:<category> ("all" when no category filter).
// Keys are tracked per kind in a set so Invalidate can drop every category
// variant at once.
type CatalogueCache struct {
	client *redis.Client
}

func NewCatalogueCache(client *redis.Client) *CatalogueCache {
	return &CatalogueCache{client: client}
}

// GetApproved returns the cached catalogue, or (nil, nil) on a miss.
func (c *CatalogueCache) GetApproved(ctx context.Context, kind domain.Kind, category string) ([]domain.Listing, error) {
	raw, err := c.client.Get(ctx, c.key(kind, category)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("catalogue cache get: %w", err)
	}

	var listings []domain.Listing
	if err := json.Unmarshal(raw, &listings); err != nil {
		return nil, fmt.Errorf("catalogue cache decode: %w", err)
	}
	// An empty catalogue is stored as JSON null. Normalise it to a non-nil
	// slice so the caller reads it as a hit instead of a miss.
	if listings == nil {
		listings = []domain.Listing{}
	}
	for i := range listings {
		listings[i].Kind = kind
	}
	return listings, nil
}

// SetApproved stores the catalogue with a short TTL and registers the key
// for kind-wide invalidation.
func (c *CatalogueCache) SetApproved(ctx context.Context, kind domain.Kind, category string, listings []domain.Listing) error {
	raw, err := json.Marshal(listings)
	if err != nil {
		return fmt.Errorf("catalogue cache encode: %w", err)
	}

	key := c.key(kind, category)
	pipe := c.client.TxPipeline()
	pipe.Set(ctx, key, raw, catalogueTTL)
	pipe.SAdd(ctx, c.indexKey(kind), key)
	pipe.Expire(ctx, c.indexKey(kind), catalogueTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("catalogue cache set: %w", err)
	}
	return nil
}

// Invalidate drops every cached catalogue variant for the kind. Called after
// any approve, update, or delete.
func (c *CatalogueCache) Invalidate(ctx context.Context, kind domain.Kind) error {
	keys, err := c.client.SMembers(ctx, c.indexKey(kind)).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("catalogue cache invalidate: %w", err)
	}
	keys = append(keys, c.indexKey(kind))
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("catalogue cache invalidate: %w", err)
	}
	return nil
}

func (c *CatalogueCache) key(kind domain.Kind, category string) string {
	if category == "" {
		category = "all"
	}
	return fmt.Sprintf("catalogue:%s:%s", kind, category)
}

func (c *CatalogueCache) indexKey(kind domain.Kind) string {
	return fmt.Sprintf("catalogue:%s:keys", kind)
}
