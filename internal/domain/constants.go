package domain

// Post-add button actions (what the client should do after a successful
// wishlist update).
const (
	ButtonActionNone     = "none"
	ButtonActionRedirect = "redirect"
	ButtonActionPopup    = "popup"
)

var ButtonActions = []string{
	ButtonActionNone,
	ButtonActionRedirect,
	ButtonActionPopup,
}

// GuestCookieName holds the guest session token on the client.
const GuestCookieName = "wishlist_session"

// GuestCookieMaxAge is the client-side lifetime of the guest token.
const GuestCookieMaxAge = 30 * 24 * 60 * 60 // 30 days, in seconds

// User roles
const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)
