package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wishlist-backend/internal/domain"
	"wishlist-backend/internal/infrastructure/cache"
	"wishlist-backend/internal/repository/memory"
)

// fakeCart stands in for the cart collaborator. Products listed in reject
// are declined; err fails every call at the transport level.
type fakeCart struct {
	reject map[int64]bool
	err    error
	calls  []int64
}

func (f *fakeCart) AddToCart(_ context.Context, _ domain.Identity, productID int64) (bool, error) {
	f.calls = append(f.calls, productID)
	if f.err != nil {
		return false, f.err
	}
	return !f.reject[productID], nil
}

func (f *fakeCart) CartURL() string { return "http://shop.test/cart" }

func defaultSettings() domain.Settings {
	return domain.Settings{
		RemoveOnSecondClick: false,
		RemoveIfAddedToCart: true,
		RedirectToCart:      true,
		ButtonAction:        domain.ButtonActionPopup,
		ShowButtonIcon:      true,
		GuestTTL:            30 * 24 * time.Hour,
		WishlistPageURL:     "http://shop.test/wishlist",
	}
}

func newTestUsecase(settings domain.Settings, cart domain.CartClient, seed ...domain.Product) *WishlistUsecase {
	if cart == nil {
		cart = &fakeCart{}
	}
	return NewWishlistUsecase(
		memory.NewWishlistRepository(),
		memory.NewGuestRepository(),
		memory.NewProductRepository(seed...),
		cart,
		cache.NewMemoryCache(time.Minute, time.Minute),
		settings,
		time.Minute,
	)
}

func TestAddIsIdempotent(t *testing.T) {
	uc := newTestUsecase(defaultSettings(), nil)
	ctx := context.Background()

	for _, identity := range []domain.Identity{
		domain.AuthenticatedIdentity("user-1"),
		domain.GuestIdentity("abc1234"),
	} {
		require.NoError(t, uc.Add(ctx, identity, 42))
		require.NoError(t, uc.Add(ctx, identity, 42))
		require.NoError(t, uc.Add(ctx, identity, 7))

		ids, err := uc.Products(ctx, identity)
		require.NoError(t, err)
		assert.Equal(t, []int64{42, 7}, ids)
	}
}

func TestAddRejectsInvalidInput(t *testing.T) {
	uc := newTestUsecase(defaultSettings(), nil)
	ctx := context.Background()

	assert.Error(t, uc.Add(ctx, domain.AuthenticatedIdentity("user-1"), 0))
	assert.Error(t, uc.Add(ctx, domain.AuthenticatedIdentity("user-1"), -5))
	assert.Error(t, uc.Add(ctx, domain.Identity{}, 42))
}

func TestRemoveAbsentProductIsNoop(t *testing.T) {
	uc := newTestUsecase(defaultSettings(), nil)
	ctx := context.Background()
	identity := domain.AuthenticatedIdentity("user-1")

	require.NoError(t, uc.Add(ctx, identity, 1))
	require.NoError(t, uc.Remove(ctx, identity, 99))
	require.NoError(t, uc.Remove(ctx, identity, 0))

	ids, err := uc.Products(ctx, identity)
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, ids)
}

func TestToggleReportsAlreadyInWishlistWithoutWriting(t *testing.T) {
	uc := newTestUsecase(defaultSettings(), nil)
	ctx := context.Background()
	identity := domain.GuestIdentity("abc1234")

	first, err := uc.Toggle(ctx, identity, 42)
	require.NoError(t, err)
	assert.True(t, first.Added)

	second, err := uc.Toggle(ctx, identity, 42)
	require.NoError(t, err)
	assert.True(t, second.AlreadyInWishlist)
	assert.False(t, second.Added)
	assert.False(t, second.Removed)

	ids, err := uc.Products(ctx, identity)
	require.NoError(t, err)
	assert.Equal(t, []int64{42}, ids)
}

func TestToggleRemovesOnSecondClickWhenConfigured(t *testing.T) {
	settings := defaultSettings()
	settings.RemoveOnSecondClick = true
	uc := newTestUsecase(settings, nil)
	ctx := context.Background()
	identity := domain.AuthenticatedIdentity("user-1")

	first, err := uc.Toggle(ctx, identity, 42)
	require.NoError(t, err)
	assert.True(t, first.Added)

	second, err := uc.Toggle(ctx, identity, 42)
	require.NoError(t, err)
	assert.True(t, second.Removed)

	count, err := uc.Count(ctx, identity)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestMergeUnionsGuestListIntoUser(t *testing.T) {
	uc := newTestUsecase(defaultSettings(), nil)
	ctx := context.Background()
	user := domain.AuthenticatedIdentity("user-1")
	guest := domain.GuestIdentity("abc1234")

	require.NoError(t, uc.Add(ctx, guest, 1))
	require.NoError(t, uc.Add(ctx, guest, 2))
	require.NoError(t, uc.Add(ctx, user, 2))
	require.NoError(t, uc.Add(ctx, user, 3))

	require.NoError(t, uc.Merge(ctx, "user-1", "abc1234"))

	ids, err := uc.Products(ctx, user)
	require.NoError(t, err)
	assert.ElementsMatch(t, []int64{1, 2, 3}, ids)
	assert.Len(t, ids, 3)

	guestIDs, err := uc.Products(ctx, guest)
	require.NoError(t, err)
	assert.Empty(t, guestIDs)
}

func TestMergeDropsEmptyGuestRecord(t *testing.T) {
	uc := newTestUsecase(defaultSettings(), nil)
	ctx := context.Background()

	require.NoError(t, uc.Merge(ctx, "user-1", "abc1234"))
	require.NoError(t, uc.Merge(ctx, "user-1", ""))

	count, err := uc.Count(ctx, domain.AuthenticatedIdentity("user-1"))
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestAddToCartRemovesFromWishlist(t *testing.T) {
	uc := newTestUsecase(defaultSettings(), nil)
	ctx := context.Background()
	identity := domain.AuthenticatedIdentity("user-1")

	require.NoError(t, uc.Add(ctx, identity, 5))

	add, err := uc.AddToCart(ctx, identity, 5)
	require.NoError(t, err)
	assert.True(t, add.Added)
	assert.True(t, add.Removed)

	count, err := uc.Count(ctx, identity)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestAddToCartKeepsItemWhenConfigured(t *testing.T) {
	settings := defaultSettings()
	settings.RemoveIfAddedToCart = false
	uc := newTestUsecase(settings, nil)
	ctx := context.Background()
	identity := domain.GuestIdentity("abc1234")

	require.NoError(t, uc.Add(ctx, identity, 5))

	add, err := uc.AddToCart(ctx, identity, 5)
	require.NoError(t, err)
	assert.True(t, add.Added)
	assert.False(t, add.Removed)

	count, err := uc.Count(ctx, identity)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestAddToCartTransportFailureIsAbsorbed(t *testing.T) {
	cart := &fakeCart{err: errors.New("connection refused")}
	uc := newTestUsecase(defaultSettings(), cart)
	ctx := context.Background()
	identity := domain.AuthenticatedIdentity("user-1")

	require.NoError(t, uc.Add(ctx, identity, 5))

	add, err := uc.AddToCart(ctx, identity, 5)
	require.NoError(t, err)
	assert.False(t, add.Added)

	// Failed hand-off leaves the wishlist untouched.
	count, err := uc.Count(ctx, identity)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestAddAllToCartContinuesPastRejections(t *testing.T) {
	cart := &fakeCart{reject: map[int64]bool{6: true}}
	uc := newTestUsecase(defaultSettings(), cart)
	ctx := context.Background()
	identity := domain.AuthenticatedIdentity("user-1")

	require.NoError(t, uc.Add(ctx, identity, 5))
	require.NoError(t, uc.Add(ctx, identity, 6))
	require.NoError(t, uc.Add(ctx, identity, 7))

	result, err := uc.AddAllToCart(ctx, identity)
	require.NoError(t, err)
	assert.Equal(t, []int64{5, 7}, result.Added)
	assert.Equal(t, []int64{6}, result.Skipped)
	assert.True(t, result.Removed)
	assert.Equal(t, []int64{5, 6, 7}, cart.calls)

	// Rejected items stay listed.
	ids, err := uc.Products(ctx, identity)
	require.NoError(t, err)
	assert.Equal(t, []int64{6}, ids)
}

func TestGuestSessionDaysRoundsUp(t *testing.T) {
	settings := defaultSettings()
	settings.GuestTTL = 36 * time.Hour
	uc := newTestUsecase(settings, nil)
	ctx := context.Background()
	guest := domain.GuestIdentity("abc1234")

	require.NoError(t, uc.Add(ctx, guest, 1))
	assert.Equal(t, 2, uc.GuestSessionDays(ctx, guest))

	assert.Zero(t, uc.GuestSessionDays(ctx, domain.AuthenticatedIdentity("user-1")))
	assert.Zero(t, uc.GuestSessionDays(ctx, domain.GuestIdentity("nothing")))
}

func TestProductNameFallsBackForUnknownProducts(t *testing.T) {
	uc := newTestUsecase(defaultSettings(), nil, domain.Product{ID: 5, Name: "Walnut Desk", Slug: "walnut-desk"})
	ctx := context.Background()

	assert.Equal(t, "Walnut Desk", uc.ProductName(ctx, 5))
	assert.Equal(t, "Product #99", uc.ProductName(ctx, 99))
}

func TestItemsJoinProductSummaries(t *testing.T) {
	uc := newTestUsecase(defaultSettings(), nil,
		domain.Product{ID: 5, Name: "Walnut Desk", Slug: "walnut-desk"},
	)
	ctx := context.Background()
	identity := domain.AuthenticatedIdentity("user-1")

	require.NoError(t, uc.Add(ctx, identity, 5))
	require.NoError(t, uc.Add(ctx, identity, 99)) // no catalog entry

	items, err := uc.Items(ctx, identity)
	require.NoError(t, err)
	require.Len(t, items, 2)
	require.NotNil(t, items[0].Product)
	assert.Equal(t, "Walnut Desk", items[0].Product.Name)
	assert.Nil(t, items[1].Product)
}

func TestZeroIdentityReadsEmpty(t *testing.T) {
	uc := newTestUsecase(defaultSettings(), nil)
	ctx := context.Background()

	ids, err := uc.Products(ctx, domain.Identity{})
	require.NoError(t, err)
	assert.Empty(t, ids)

	count, err := uc.Count(ctx, domain.Identity{})
	require.NoError(t, err)
	assert.Zero(t, count)
}
