package memory

import (
	"context"
	"sync"

	"wishlist-backend/internal/domain"
)

// wishlistRepository is the in-memory counterpart of the durable per-user
// store, used in tests and local development.
type wishlistRepository struct {
	mu    sync.RWMutex
	lists map[string][]int64 // userID -> IDs in insertion order
}

func NewWishlistRepository() domain.WishlistRepository {
	return &wishlistRepository{lists: make(map[string][]int64)}
}

func (r *wishlistRepository) ProductIDs(_ context.Context, userID string) ([]int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := r.lists[userID]
	out := make([]int64, len(ids))
	copy(out, ids)
	return out, nil
}

func (r *wishlistRepository) AddProduct(_ context.Context, userID string, productID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.add(userID, productID)
	return nil
}

func (r *wishlistRepository) AddProducts(_ context.Context, userID string, productIDs []int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range productIDs {
		r.add(userID, id)
	}
	return nil
}

func (r *wishlistRepository) add(userID string, productID int64) {
	for _, id := range r.lists[userID] {
		if id == productID {
			return
		}
	}
	r.lists[userID] = append(r.lists[userID], productID)
}

func (r *wishlistRepository) RemoveProduct(_ context.Context, userID string, productID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := r.lists[userID]
	kept := ids[:0]
	for _, id := range ids {
		if id != productID {
			kept = append(kept, id)
		}
	}
	r.lists[userID] = kept
	return nil
}

func (r *wishlistRepository) HasProduct(_ context.Context, userID string, productID int64) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, id := range r.lists[userID] {
		if id == productID {
			return true, nil
		}
	}
	return false, nil
}

func (r *wishlistRepository) CountProducts(_ context.Context, userID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.lists[userID]), nil
}
