package memory

import (
	"context"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"wishlist-backend/internal/domain"
)

// guestRepository is the in-process guest store, used when Redis is not
// configured (single-instance deployments) and throughout the tests. Each
// record is an insertion-ordered ID slice stored with its own TTL; the
// mutex keeps read-modify-write cycles atomic within the process.
type guestRepository struct {
	mu    sync.Mutex
	store *gocache.Cache
}

func NewGuestRepository() domain.GuestWishlistRepository {
	// Expired records only need to vanish from reads immediately; the
	// hourly sweep just reclaims memory.
	return &guestRepository{store: gocache.New(gocache.NoExpiration, time.Hour)}
}

func (r *guestRepository) get(token string) []int64 {
	if v, ok := r.store.Get(token); ok {
		return v.([]int64)
	}
	return nil
}

func (r *guestRepository) ProductIDs(_ context.Context, token string) ([]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := r.get(token)
	out := make([]int64, len(ids))
	copy(out, ids)
	return out, nil
}

func (r *guestRepository) AddProduct(_ context.Context, token string, productID int64, ttl time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := r.get(token)
	found := false
	for _, id := range ids {
		if id == productID {
			found = true
			break
		}
	}
	if !found {
		ids = append(ids, productID)
	}
	// Re-set even on a duplicate add so the TTL refreshes.
	r.store.Set(token, ids, ttl)
	return nil
}

func (r *guestRepository) RemoveProduct(_ context.Context, token string, productID int64, ttl time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := r.get(token)
	if ids == nil {
		return nil
	}
	kept := ids[:0]
	for _, id := range ids {
		if id != productID {
			kept = append(kept, id)
		}
	}
	r.store.Set(token, kept, ttl)
	return nil
}

func (r *guestRepository) HasProduct(_ context.Context, token string, productID int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range r.get(token) {
		if id == productID {
			return true, nil
		}
	}
	return false, nil
}

func (r *guestRepository) CountProducts(_ context.Context, token string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.get(token)), nil
}

func (r *guestRepository) TTL(_ context.Context, token string) (time.Duration, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, expiry, ok := r.store.GetWithExpiration(token)
	if !ok || expiry.IsZero() {
		return 0, nil
	}
	remaining := time.Until(expiry)
	if remaining < 0 {
		return 0, nil
	}
	return remaining, nil
}

func (r *guestRepository) Delete(_ context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.store.Delete(token)
	return nil
}
