package catalog

import (
	"context"
	"errors"
	"log"

	"golang.org/x/sync/singleflight"

	"github.com/maryaskin70/pharma-shop/internal/domain"
)

// Service fronts the Index with a read-through product cache. Listing and
// filtering stay in memory; only by-id lookups go through redis.
type Service struct {
	index *Index
	cache *Cache
	sfg   singleflight.Group // Prevents cache stampede
}

func NewService(index *Index, cache *Cache) *Service {
	return &Service{
		index: index,
		cache: cache,
	}
}

func (s *Service) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	// Use singleflight to collapse concurrent cache misses for the same id
	v, err, _ := s.sfg.Do(id, func() (interface{}, error) {
		product, err := s.cache.Get(ctx, id)
		if err == nil {
			return product, nil
		}

		if !errors.Is(err, ErrCacheMiss) {
			log.Printf("cache get error: %v", err) // log cache error but continue
		}

		product, errFind := s.index.FindByID(id)
		if errFind != nil {
			return nil, errFind
		}

		go func() {
			if errSet := s.cache.Set(context.Background(), product); errSet != nil {
				log.Printf("cache set error: %v", errSet)
			}
		}()

		return product, nil
	})

	if err != nil {
		return nil, err
	}

	return v.(*domain.Product), nil
}

func (s *Service) Filter(c Criteria) []*domain.Product {
	return s.index.Filter(c)
}

func (s *Service) Related(productID string, limit int) []*domain.Product {
	return s.index.Related(productID, limit)
}

func (s *Service) Products() []*domain.Product {
	return s.index.Products()
}
