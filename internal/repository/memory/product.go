package memory

import (
	"context"
	"sync"

	"wishlist-backend/internal/domain"
)

type productRepository struct {
	mu       sync.RWMutex
	products map[int64]domain.Product
}

// NewProductRepository builds an in-memory product catalog, optionally
// pre-seeded.
func NewProductRepository(seed ...domain.Product) domain.ProductRepository {
	r := &productRepository{products: make(map[int64]domain.Product)}
	for _, p := range seed {
		r.products[p.ID] = p
	}
	return r
}

func (r *productRepository) GetSummary(_ context.Context, productID int64) (*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if p, ok := r.products[productID]; ok {
		return &p, nil
	}
	return nil, nil
}

func (r *productRepository) GetSummaries(_ context.Context, productIDs []int64) ([]domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Product, 0, len(productIDs))
	for _, id := range productIDs {
		if p, ok := r.products[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}
