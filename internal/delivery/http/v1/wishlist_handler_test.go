package v1

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wishlist-backend/internal/delivery/http/middleware"
	"wishlist-backend/internal/domain"
	"wishlist-backend/internal/infrastructure/cache"
	"wishlist-backend/internal/repository/memory"
	"wishlist-backend/internal/usecase"
	"wishlist-backend/pkg/utils"
)

const (
	testSecret = "test-secret"
	testToken  = "abc1234"
)

type acceptAllCart struct{}

func (acceptAllCart) AddToCart(context.Context, domain.Identity, int64) (bool, error) {
	return true, nil
}
func (acceptAllCart) CartURL() string { return "http://shop.test/cart" }

func newTestHandler(settings domain.Settings) *WishlistHandler {
	uc := usecase.NewWishlistUsecase(
		memory.NewWishlistRepository(),
		memory.NewGuestRepository(),
		memory.NewProductRepository(domain.Product{ID: 5, Name: "Walnut Desk", Slug: "walnut-desk", Stock: 3, StockStatus: "in_stock"}),
		acceptAllCart{},
		cache.NewMemoryCache(time.Minute, time.Minute),
		settings,
		time.Minute,
	)
	return NewWishlistHandler(uc, testSecret, time.Minute)
}

func testSettings() domain.Settings {
	return domain.Settings{
		RemoveIfAddedToCart: true,
		RedirectToCart:      true,
		ButtonAction:        domain.ButtonActionPopup,
		ShowButtonIcon:      true,
		GuestTTL:            30 * 24 * time.Hour,
		WishlistPageURL:     "http://shop.test/wishlist",
		Texts: domain.NoticeTexts{
			AddedToWishlist:     "{product_name} has been added to your wishlist.",
			AlreadyInWishlist:   "{product_name} is already in your wishlist.",
			RemovedFromWishlist: "{product_name} has been removed from your wishlist.",
			RemovedUndo:         "{product_name} removed.",
			GuestReminder:       "Saved for {guest_session_in_days} days.",
			ViewWishlist:        "View Wishlist",
			Undo:                "Undo?",
		},
	}
}

// guestPost issues a form POST as the fixed guest session, with a nonce
// unless withNonce is false.
func guestPost(t *testing.T, h http.Handler, path string, form url.Values, withNonce bool) *httptest.ResponseRecorder {
	t.Helper()
	if withNonce {
		identity := domain.GuestIdentity(testToken)
		form.Set("nonce", generateTestNonce(identity))
	}
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(&http.Cookie{Name: domain.GuestCookieName, Value: testToken})
	rec := httptest.NewRecorder()
	middleware.Identity(h).ServeHTTP(rec, req)
	return rec
}

func guestGet(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.AddCookie(&http.Cookie{Name: domain.GuestCookieName, Value: testToken})
	rec := httptest.NewRecorder()
	middleware.Identity(h).ServeHTTP(rec, req)
	return rec
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp domain.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.True(t, resp.Success)
	data, _ := resp.Data.(map[string]interface{})
	return data
}

func generateTestNonce(identity domain.Identity) string {
	return utils.GenerateNonce(testSecret, identity.Key(), time.Minute)
}

func TestUpdateWishlistRejectsBadNonce(t *testing.T) {
	h := newTestHandler(testSettings())

	rec := guestPost(t, http.HandlerFunc(h.UpdateWishlist), "/api/v1/wishlist/update",
		url.Values{"product_id": {"5"}, "nonce": {"123.bogus"}}, false)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Oops! nonce error\n", rec.Body.String())
	assert.NotContains(t, rec.Header().Get("Content-Type"), "application/json")
}

func TestUpdateWishlistAddsProduct(t *testing.T) {
	h := newTestHandler(testSettings())

	rec := guestPost(t, http.HandlerFunc(h.UpdateWishlist), "/api/v1/wishlist/update",
		url.Values{"product_id": {"5"}}, true)

	require.Equal(t, http.StatusOK, rec.Code)
	data := decodeData(t, rec)
	assert.Equal(t, true, data["added"])
	assert.Equal(t, true, data["popup"])
	assert.Equal(t, true, data["show_icon"])
	assert.Contains(t, data["template"], "Walnut Desk has been added to your wishlist.")
	assert.Contains(t, data["loop_item"], "walnut-desk")
	assert.Nil(t, data["redirect"])
}

func TestUpdateWishlistSecondClickReportsPresence(t *testing.T) {
	h := newTestHandler(testSettings())

	guestPost(t, http.HandlerFunc(h.UpdateWishlist), "/api/v1/wishlist/update",
		url.Values{"product_id": {"5"}}, true)
	rec := guestPost(t, http.HandlerFunc(h.UpdateWishlist), "/api/v1/wishlist/update",
		url.Values{"product_id": {"5"}}, true)

	data := decodeData(t, rec)
	assert.Equal(t, true, data["already_in_wishlist"])
	assert.Nil(t, data["added"])
	assert.Nil(t, data["removed"])
}

func TestUpdateWishlistRedirectAction(t *testing.T) {
	settings := testSettings()
	settings.ButtonAction = domain.ButtonActionRedirect
	h := newTestHandler(settings)

	rec := guestPost(t, http.HandlerFunc(h.UpdateWishlist), "/api/v1/wishlist/update",
		url.Values{"product_id": {"5"}}, true)

	data := decodeData(t, rec)
	assert.Equal(t, true, data["redirect"])
	assert.Equal(t, "http://shop.test/wishlist", data["redirect_url"])
	assert.Nil(t, data["popup"])
}

func TestUpdateWishlistAbsorbsInvalidProductID(t *testing.T) {
	h := newTestHandler(testSettings())

	rec := guestPost(t, http.HandlerFunc(h.UpdateWishlist), "/api/v1/wishlist/update",
		url.Values{"product_id": {"not-a-number"}}, true)

	require.Equal(t, http.StatusOK, rec.Code)
	data := decodeData(t, rec)
	assert.Nil(t, data["added"])
	assert.Nil(t, data["removed"])
	assert.EqualValues(t, 0, data["product_id"])
}

func TestUpdateWishlistExplicitRemove(t *testing.T) {
	h := newTestHandler(testSettings())

	guestPost(t, http.HandlerFunc(h.UpdateWishlist), "/api/v1/wishlist/update",
		url.Values{"product_id": {"5"}}, true)
	rec := guestPost(t, http.HandlerFunc(h.UpdateWishlist), "/api/v1/wishlist/update",
		url.Values{"remove_product": {"5"}}, true)

	data := decodeData(t, rec)
	assert.Equal(t, true, data["removed"])
	assert.Contains(t, data["template"], "removed from your wishlist")
}

func TestAddToCartSingle(t *testing.T) {
	h := newTestHandler(testSettings())

	guestPost(t, http.HandlerFunc(h.UpdateWishlist), "/api/v1/wishlist/update",
		url.Values{"product_id": {"5"}}, true)
	rec := guestPost(t, http.HandlerFunc(h.AddToCart), "/api/v1/wishlist/cart",
		url.Values{"product_id": {"5"}}, true)

	data := decodeData(t, rec)
	assert.Equal(t, true, data["added_to_cart"])
	assert.Equal(t, true, data["removed"])
	assert.Equal(t, "http://shop.test/cart", data["cart_url"])
	assert.Contains(t, data["add_to_cart_notice"], "added to your cart")
}

func TestAddToCartAll(t *testing.T) {
	h := newTestHandler(testSettings())

	guestPost(t, http.HandlerFunc(h.UpdateWishlist), "/api/v1/wishlist/update",
		url.Values{"product_id": {"5"}}, true)
	rec := guestPost(t, http.HandlerFunc(h.AddToCart), "/api/v1/wishlist/cart",
		url.Values{"cart_all": {"1"}}, true)

	data := decodeData(t, rec)
	assert.Equal(t, true, data["added_to_cart"])
	assert.Equal(t, true, data["removed"])
	assert.Contains(t, data["add_to_cart_notice"], "1 of 1 products added")
}

func TestRemoveProductReturnsUndoNotice(t *testing.T) {
	h := newTestHandler(testSettings())

	guestPost(t, http.HandlerFunc(h.UpdateWishlist), "/api/v1/wishlist/update",
		url.Values{"product_id": {"5"}}, true)
	rec := guestPost(t, http.HandlerFunc(h.RemoveProduct), "/api/v1/wishlist/remove",
		url.Values{"product_id": {"5"}}, true)

	data := decodeData(t, rec)
	notice, _ := data["remove_notice"].(string)
	assert.Contains(t, notice, "Walnut Desk removed.")
	assert.Contains(t, notice, "Undo?")
	assert.Contains(t, notice, `data-product-id="5"`)
}

func TestGetSessionReturnsNonceAndGuestNotice(t *testing.T) {
	h := newTestHandler(testSettings())

	guestPost(t, http.HandlerFunc(h.UpdateWishlist), "/api/v1/wishlist/update",
		url.Values{"product_id": {"5"}}, true)
	rec := guestGet(t, http.HandlerFunc(h.GetSession), "/api/v1/wishlist/session")

	data := decodeData(t, rec)
	assert.NotEmpty(t, data["nonce"])
	assert.EqualValues(t, 1, data["count"])
	assert.Equal(t, false, data["authenticated"])
	assert.Equal(t, true, data["guest_notice"])
	assert.Equal(t, "Saved for 30 days.", data["guest_notice_text"])
}

func TestGetWishlist(t *testing.T) {
	h := newTestHandler(testSettings())

	guestPost(t, http.HandlerFunc(h.UpdateWishlist), "/api/v1/wishlist/update",
		url.Values{"product_id": {"5"}}, true)
	rec := guestGet(t, http.HandlerFunc(h.GetWishlist), "/api/v1/wishlist")

	data := decodeData(t, rec)
	assert.EqualValues(t, 1, data["count"])
}

func TestAddToWishlistFallbackRedirects(t *testing.T) {
	h := newTestHandler(testSettings())

	rec := guestGet(t, http.HandlerFunc(h.AddToWishlistFallback), "/add-to-wishlist?add-to-wishlist=5")
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "http://shop.test/wishlist", rec.Header().Get("Location"))

	recList := guestGet(t, http.HandlerFunc(h.GetWishlist), "/api/v1/wishlist")
	data := decodeData(t, recList)
	assert.EqualValues(t, 1, data["count"])
}

func TestIdentityMiddlewareMintsGuestCookie(t *testing.T) {
	h := newTestHandler(testSettings())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/wishlist/session", nil)
	rec := httptest.NewRecorder()
	middleware.Identity(http.HandlerFunc(h.GetSession)).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var cookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == domain.GuestCookieName {
			cookie = c
		}
	}
	require.NotNil(t, cookie)
	assert.Len(t, cookie.Value, 7)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, domain.GuestCookieMaxAge, cookie.MaxAge)
}
