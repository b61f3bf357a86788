package redis

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"wishlist-backend/internal/domain"
)

const keyPrefix = "wishlist:guest:"

// guestRepository stores each guest wishlist as a Redis set keyed by the
// session token. SADD/SREM are atomic per element, and every write
// refreshes the key's TTL, so the record expires only after a full idle
// window. A missing or expired key reads as an empty wishlist.
type guestRepository struct {
	client *redis.Client
}

func NewGuestRepository(client *redis.Client) domain.GuestWishlistRepository {
	return &guestRepository{client: client}
}

func key(token string) string {
	return keyPrefix + token
}

func (r *guestRepository) ProductIDs(ctx context.Context, token string) ([]int64, error) {
	if token == "" {
		return []int64{}, nil
	}
	members, err := r.client.SMembers(ctx, key(token)).Result()
	if err != nil {
		return nil, fmt.Errorf("redis smembers: %w", err)
	}

	ids := make([]int64, 0, len(members))
	for _, m := range members {
		id, err := strconv.ParseInt(m, 10, 64)
		if err != nil {
			continue // skip anything that is not a product ID
		}
		ids = append(ids, id)
	}
	// Set members come back unordered; sort for a stable listing.
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (r *guestRepository) AddProduct(ctx context.Context, token string, productID int64, ttl time.Duration) error {
	if token == "" {
		return fmt.Errorf("empty guest token")
	}
	pipe := r.client.TxPipeline()
	pipe.SAdd(ctx, key(token), productID)
	pipe.Expire(ctx, key(token), ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis sadd: %w", err)
	}
	return nil
}

func (r *guestRepository) RemoveProduct(ctx context.Context, token string, productID int64, ttl time.Duration) error {
	if token == "" {
		return nil
	}
	pipe := r.client.TxPipeline()
	pipe.SRem(ctx, key(token), productID)
	pipe.Expire(ctx, key(token), ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis srem: %w", err)
	}
	return nil
}

func (r *guestRepository) HasProduct(ctx context.Context, token string, productID int64) (bool, error) {
	if token == "" {
		return false, nil
	}
	ok, err := r.client.SIsMember(ctx, key(token), productID).Result()
	if err != nil {
		return false, fmt.Errorf("redis sismember: %w", err)
	}
	return ok, nil
}

func (r *guestRepository) CountProducts(ctx context.Context, token string) (int, error) {
	if token == "" {
		return 0, nil
	}
	n, err := r.client.SCard(ctx, key(token)).Result()
	if err != nil {
		return 0, fmt.Errorf("redis scard: %w", err)
	}
	return int(n), nil
}

func (r *guestRepository) TTL(ctx context.Context, token string) (time.Duration, error) {
	if token == "" {
		return 0, nil
	}
	ttl, err := r.client.TTL(ctx, key(token)).Result()
	if err != nil {
		return 0, fmt.Errorf("redis ttl: %w", err)
	}
	if ttl < 0 { // key absent or without expiry
		return 0, nil
	}
	return ttl, nil
}

func (r *guestRepository) Delete(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := r.client.Del(ctx, key(token)).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}
