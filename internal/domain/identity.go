package domain

// Identity is the resolved owner of a wishlist for the current request:
// either an authenticated user or an anonymous guest session. Exactly one
// identity is resolved per request and used for its whole duration.
type Identity struct {
	UserID     string `json:"userId,omitempty"`     // set when authenticated
	GuestToken string `json:"guestToken,omitempty"` // set for anonymous sessions
}

const IdentityContextKey ContextKey = "identity"

func AuthenticatedIdentity(userID string) Identity {
	return Identity{UserID: userID}
}

func GuestIdentity(token string) Identity {
	return Identity{GuestToken: token}
}

// Authenticated reports whether the identity belongs to a logged-in user.
func (i Identity) Authenticated() bool {
	return i.UserID != ""
}

// Key returns the storage/nonce key for the identity.
func (i Identity) Key() string {
	if i.Authenticated() {
		return i.UserID
	}
	return i.GuestToken
}

// Zero reports whether no identity could be resolved at all. Reads against
// a zero identity see an empty wishlist; writes require the middleware to
// mint a guest token first.
func (i Identity) Zero() bool {
	return i.UserID == "" && i.GuestToken == ""
}
