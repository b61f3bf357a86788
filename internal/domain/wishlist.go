package domain

import (
	"context"
	"time"
)

// WishlistItem is a single wishlist entry joined with its product summary
// for rendering on the wishlist page. Items are kept in insertion order.
type WishlistItem struct {
	ProductID int64     `json:"productId"`
	Product   *Product  `json:"product,omitempty"`
	AddedAt   time.Time `json:"addedAt,omitempty"`
}

// WishlistRepository is the durable per-user store. A user's record has no
// expiration and persists until explicitly cleared. Mutations are atomic
// per element so concurrent requests against the same user cannot drop
// each other's writes.
type WishlistRepository interface {
	// ProductIDs returns the user's wishlist in insertion order. A user
	// with no record yet yields an empty slice, not an error.
	ProductIDs(ctx context.Context, userID string) ([]int64, error)
	AddProduct(ctx context.Context, userID string, productID int64) error
	// AddProducts inserts the given IDs, skipping ones already present.
	AddProducts(ctx context.Context, userID string, productIDs []int64) error
	RemoveProduct(ctx context.Context, userID string, productID int64) error
	HasProduct(ctx context.Context, userID string, productID int64) (bool, error)
	CountProducts(ctx context.Context, userID string) (int, error)
}

// GuestWishlistRepository is the time-limited per-guest store, keyed by the
// guest session token. Every write refreshes the record's TTL. Reading an
// expired or missing record yields an empty result, never an error.
type GuestWishlistRepository interface {
	ProductIDs(ctx context.Context, token string) ([]int64, error)
	AddProduct(ctx context.Context, token string, productID int64, ttl time.Duration) error
	RemoveProduct(ctx context.Context, token string, productID int64, ttl time.Duration) error
	HasProduct(ctx context.Context, token string, productID int64) (bool, error)
	CountProducts(ctx context.Context, token string) (int, error)
	// TTL returns the remaining lifetime of the record, or 0 when absent.
	TTL(ctx context.Context, token string) (time.Duration, error)
	// Delete drops the record entirely (used after a login-time merge).
	Delete(ctx context.Context, token string) error
}

// CartClient is the external cart collaborator. The wishlist service only
// orchestrates calls against it and reflects outcomes; cart state is not
// owned here.
type CartClient interface {
	// AddToCart returns true when the cart accepted the product.
	AddToCart(ctx context.Context, identity Identity, productID int64) (bool, error)
	// CartURL is the page the client should be sent to when the
	// redirect-to-cart setting is on.
	CartURL() string
}
