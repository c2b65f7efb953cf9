package cache

import (
	"context"
	"time"

	"lapakpos/terminal/internal/domain"
)

// SearchCache is an optional read-through cache in front of product search.
// The local store stays the source of truth; a cache miss or error just
// falls through to the store.
type SearchCache interface {
	Get(ctx context.Context, key string) ([]domain.Product, bool, error)
	Set(ctx context.Context, key string, products []domain.Product, ttl time.Duration) error
}

type NoopSearchCache struct{}

func (NoopSearchCache) Get(_ context.Context, _ string) ([]domain.Product, bool, error) {
	return nil, false, nil
}

func (NoopSearchCache) Set(_ context.Context, _ string, _ []domain.Product, _ time.Duration) error {
	return nil
}
