package domain

import "time"

// Settings is the wishlist behavior configuration. It is loaded once at
// startup (with boolean-like values normalized to real bools) and injected
// into the components that need it; nothing reads settings ad hoc per call.
type Settings struct {
	// RemoveOnSecondClick makes an update for an already-present product
	// remove it instead of reporting "already in wishlist".
	RemoveOnSecondClick bool
	// RemoveIfAddedToCart removes a product from the wishlist after the
	// cart accepts it.
	RemoveIfAddedToCart bool
	// RedirectToCart tells the client to go to the cart page after a
	// single-product add-to-cart from the wishlist page.
	RedirectToCart bool
	// ButtonAction is what the client should do after an update:
	// none, redirect (to the wishlist page) or popup.
	ButtonAction string
	// ShowButtonIcon toggles the heart icon in rendered fragments.
	ShowButtonIcon bool
	// GuestTTL is how long a guest record lives without a write.
	GuestTTL time.Duration
	// WishlistPageURL is the public wishlist page, used for redirects.
	WishlistPageURL string

	Texts NoticeTexts
}

// NoticeTexts are the configurable, client-facing notice strings. They may
// contain {product_name}, {view_cart_url} and {guest_session_in_days}
// placeholders, substituted at render time.
type NoticeTexts struct {
	AddedToWishlist     string
	AlreadyInWishlist   string
	RemovedFromWishlist string
	RemovedUndo         string
	GuestReminder       string
	ViewWishlist        string
	Undo                string
}
