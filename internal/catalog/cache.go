package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/maryaskin70/pharma-shop/internal/domain"
)

var ErrCacheMiss = errors.New("product not in cache")

// Cache is a redis-backed product-by-id cache. TTL jitter spreads out
// expirations so a popular snapshot does not fall out all at once.
type Cache struct {
	client  *redis.Client
	baseTTL time.Duration
}

func NewCache(client *redis.Client) *Cache {
	return &Cache{
		client:  client,
		baseTTL: 15 * time.Minute,
	}
}

func (c *Cache) Get(ctx context.Context, id string) (*domain.Product, error) {
	data, err := c.client.Get(ctx, cacheKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var product domain.Product
	if err := json.Unmarshal(data, &product); err != nil {
		return nil, fmt.Errorf("unmarshal product failed: %w", err)
	}

	return &product, nil
}

func (c *Cache) Set(ctx context.Context, product *domain.Product) error {
	data, err := json.Marshal(product)
	if err != nil {
		return fmt.Errorf("marshal product failed: %w", err)
	}

	jitter := time.Duration(rand.Intn(5)) * time.Minute
	ttl := c.baseTTL + jitter
	if err := c.client.Set(ctx, cacheKey(product.ID), string(data), ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (c *Cache) Delete(ctx context.Context, id string) error {
	if err := c.client.Del(ctx, cacheKey(id)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func cacheKey(id string) string {
	return fmt.Sprintf("product:%s", id)
}
