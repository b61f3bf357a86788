package usecase

import (
	"context"
	"fmt"
	"math"
	"time"

	"wishlist-backend/internal/domain"
	"wishlist-backend/internal/metrics"
	"wishlist-backend/pkg/cache"
	"wishlist-backend/pkg/logger"
)

// WishlistUsecase owns all wishlist writes. Handlers never touch the
// stores directly; they go through here so the uniqueness invariant, the
// guest TTL refresh and the configured policies apply uniformly.
type WishlistUsecase struct {
	users    domain.WishlistRepository
	guests   domain.GuestWishlistRepository
	products domain.ProductRepository
	cart     domain.CartClient
	memCache cache.CacheService
	settings domain.Settings

	productCacheTTL time.Duration
}

func NewWishlistUsecase(
	users domain.WishlistRepository,
	guests domain.GuestWishlistRepository,
	products domain.ProductRepository,
	cart domain.CartClient,
	memCache cache.CacheService,
	settings domain.Settings,
	productCacheTTL time.Duration,
) *WishlistUsecase {
	return &WishlistUsecase{
		users:           users,
		guests:          guests,
		products:        products,
		cart:            cart,
		memCache:        memCache,
		settings:        settings,
		productCacheTTL: productCacheTTL,
	}
}

func (u *WishlistUsecase) Settings() domain.Settings {
	return u.settings
}

// Products returns the identity's wishlist. An unresolved identity or an
// expired guest record reads as empty, never as an error.
func (u *WishlistUsecase) Products(ctx context.Context, identity domain.Identity) ([]int64, error) {
	if identity.Zero() {
		return []int64{}, nil
	}
	if identity.Authenticated() {
		return u.users.ProductIDs(ctx, identity.UserID)
	}
	return u.guests.ProductIDs(ctx, identity.GuestToken)
}

// Items joins the wishlist with product summaries for rendering.
func (u *WishlistUsecase) Items(ctx context.Context, identity domain.Identity) ([]domain.WishlistItem, error) {
	ids, err := u.Products(ctx, identity)
	if err != nil {
		return nil, err
	}

	items := make([]domain.WishlistItem, 0, len(ids))
	for _, id := range ids {
		p, err := u.ProductSummary(ctx, id)
		if err != nil {
			return nil, err
		}
		items = append(items, domain.WishlistItem{ProductID: id, Product: p})
	}
	return items, nil
}

// Add inserts a product. Adding an already-present product is a no-op on
// content, but for guests the write still refreshes the record's TTL.
func (u *WishlistUsecase) Add(ctx context.Context, identity domain.Identity, productID int64) error {
	if productID <= 0 {
		return fmt.Errorf("invalid product id %d", productID)
	}
	if identity.Zero() {
		return fmt.Errorf("no identity resolved")
	}
	if identity.Authenticated() {
		return u.users.AddProduct(ctx, identity.UserID, productID)
	}
	return u.guests.AddProduct(ctx, identity.GuestToken, productID, u.settings.GuestTTL)
}

// Remove drops a product. Removing an absent product leaves the record
// unchanged and raises no error.
func (u *WishlistUsecase) Remove(ctx context.Context, identity domain.Identity, productID int64) error {
	if productID <= 0 || identity.Zero() {
		return nil
	}
	if identity.Authenticated() {
		return u.users.RemoveProduct(ctx, identity.UserID, productID)
	}
	return u.guests.RemoveProduct(ctx, identity.GuestToken, productID, u.settings.GuestTTL)
}

func (u *WishlistUsecase) Contains(ctx context.Context, identity domain.Identity, productID int64) (bool, error) {
	if productID <= 0 || identity.Zero() {
		return false, nil
	}
	if identity.Authenticated() {
		return u.users.HasProduct(ctx, identity.UserID, productID)
	}
	return u.guests.HasProduct(ctx, identity.GuestToken, productID)
}

func (u *WishlistUsecase) Count(ctx context.Context, identity domain.Identity) (int, error) {
	if identity.Zero() {
		return 0, nil
	}
	if identity.Authenticated() {
		return u.users.CountProducts(ctx, identity.UserID)
	}
	return u.guests.CountProducts(ctx, identity.GuestToken)
}

// ToggleResult describes what an update did. Exactly one field is set.
type ToggleResult struct {
	Added             bool
	Removed           bool
	AlreadyInWishlist bool
}

// Toggle applies the update policy: absent products are added; present
// ones are either removed (remove_on_second_click) or reported as already
// in the wishlist.
func (u *WishlistUsecase) Toggle(ctx context.Context, identity domain.Identity, productID int64) (ToggleResult, error) {
	present, err := u.Contains(ctx, identity, productID)
	if err != nil {
		return ToggleResult{}, err
	}

	switch {
	case present && u.settings.RemoveOnSecondClick:
		if err := u.Remove(ctx, identity, productID); err != nil {
			return ToggleResult{}, err
		}
		metrics.WishlistOps.WithLabelValues("removed").Inc()
		return ToggleResult{Removed: true}, nil
	case present:
		metrics.WishlistOps.WithLabelValues("already_in_wishlist").Inc()
		return ToggleResult{AlreadyInWishlist: true}, nil
	default:
		if err := u.Add(ctx, identity, productID); err != nil {
			return ToggleResult{}, err
		}
		metrics.WishlistOps.WithLabelValues("added").Inc()
		return ToggleResult{Added: true}, nil
	}
}

// GuestSessionDays reports how many days remain before the guest record
// expires, for the {guest_session_in_days} placeholder. Zero for
// authenticated users or absent records.
func (u *WishlistUsecase) GuestSessionDays(ctx context.Context, identity domain.Identity) int {
	if identity.Authenticated() || identity.Zero() {
		return 0
	}
	ttl, err := u.guests.TTL(ctx, identity.GuestToken)
	if err != nil || ttl <= 0 {
		return 0
	}
	return int(math.Ceil(ttl.Hours() / 24))
}

// Merge unions the guest's wishlist into the user's durable record and
// drops the guest record unconditionally, even when it was empty. It runs
// synchronously during login, before any read is served to the
// authenticated session; a reversed order would orphan the guest data.
func (u *WishlistUsecase) Merge(ctx context.Context, userID, guestToken string) error {
	if guestToken == "" {
		return nil
	}

	ids, err := u.guests.ProductIDs(ctx, guestToken)
	if err != nil {
		return fmt.Errorf("read guest wishlist: %w", err)
	}
	if len(ids) > 0 {
		if err := u.users.AddProducts(ctx, userID, ids); err != nil {
			return fmt.Errorf("merge guest wishlist: %w", err)
		}
	}
	if err := u.guests.Delete(ctx, guestToken); err != nil {
		return fmt.Errorf("delete guest wishlist: %w", err)
	}

	metrics.Merges.Inc()
	logger.Get().Info().
		Str("user_id", userID).
		Int("merged_items", len(ids)).
		Msg("Guest wishlist merged")
	return nil
}

// CartAdd is the outcome of a single add-to-cart orchestration.
type CartAdd struct {
	Added   bool
	Removed bool
}

// AddToCart hands one product to the external cart. When the cart accepts
// it and remove_if_added_to_cart is on, the product also leaves the
// wishlist. Transport failures are reported as a plain "not added" so the
// caller can reflect them in the notice instead of failing the request.
func (u *WishlistUsecase) AddToCart(ctx context.Context, identity domain.Identity, productID int64) (CartAdd, error) {
	if productID <= 0 {
		return CartAdd{}, nil
	}

	added, err := u.cart.AddToCart(ctx, identity, productID)
	if err != nil {
		metrics.CartAdds.WithLabelValues("failed").Inc()
		logger.Get().Warn().Err(err).Int64("product_id", productID).Msg("Cart add failed")
		return CartAdd{}, nil
	}
	if !added {
		metrics.CartAdds.WithLabelValues("rejected").Inc()
		return CartAdd{}, nil
	}
	metrics.CartAdds.WithLabelValues("added").Inc()

	result := CartAdd{Added: true}
	if u.settings.RemoveIfAddedToCart {
		if err := u.Remove(ctx, identity, productID); err != nil {
			return result, err
		}
		result.Removed = true
	}
	return result, nil
}

// CartAllResult aggregates a cart_all batch.
type CartAllResult struct {
	Added   []int64
	Skipped []int64 // items the cart did not accept; they stay listed
	Removed bool    // at least one item left the wishlist
}

// AddAllToCart pushes every wishlist member to the cart, continuing past
// individual rejections.
func (u *WishlistUsecase) AddAllToCart(ctx context.Context, identity domain.Identity) (CartAllResult, error) {
	ids, err := u.Products(ctx, identity)
	if err != nil {
		return CartAllResult{}, err
	}

	var result CartAllResult
	for _, id := range ids {
		add, err := u.AddToCart(ctx, identity, id)
		if err != nil {
			return result, err
		}
		if add.Added {
			result.Added = append(result.Added, id)
			if add.Removed {
				result.Removed = true
			}
		} else {
			result.Skipped = append(result.Skipped, id)
		}
	}
	return result, nil
}

// CartURL exposes the collaborator's cart page for redirect directives.
func (u *WishlistUsecase) CartURL() string {
	return u.cart.CartURL()
}

// ProductSummary reads a product through the in-memory cache. Unknown
// products come back nil.
func (u *WishlistUsecase) ProductSummary(ctx context.Context, productID int64) (*domain.Product, error) {
	key := fmt.Sprintf("product:%d", productID)
	if v, ok := u.memCache.Get(key); ok {
		p := v.(domain.Product)
		return &p, nil
	}

	p, err := u.products.GetSummary(ctx, productID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, nil
	}
	u.memCache.Set(key, *p, u.productCacheTTL)
	return p, nil
}

// ProductName resolves the display name used in notice texts.
func (u *WishlistUsecase) ProductName(ctx context.Context, productID int64) string {
	p, err := u.ProductSummary(ctx, productID)
	if err != nil || p == nil {
		return fmt.Sprintf("Product #%d", productID)
	}
	return p.Name
}
