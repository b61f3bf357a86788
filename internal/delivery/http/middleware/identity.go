package middleware

import (
	"context"
	"net/http"

	"wishlist-backend/internal/domain"
	"wishlist-backend/pkg/utils"
)

const guestTokenLength = 7

// Identity resolves exactly one wishlist identity per request and stores
// it in the context: an authenticated user when a valid access token is
// present, otherwise the guest session from the cookie. First-time
// visitors get a token minted here, server-side, so no request is ever
// left without a resolvable identity.
func Identity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var identity domain.Identity

		if claims, err := utils.ExtractClaims(r); err == nil && claims.UserID != "" {
			// Guest cookies are ignored for authenticated sessions;
			// their data is merged at login, not here.
			identity = domain.AuthenticatedIdentity(claims.UserID)
		} else if cookie, err := r.Cookie(domain.GuestCookieName); err == nil && cookie.Value != "" {
			identity = domain.GuestIdentity(cookie.Value)
		} else {
			token := utils.RandomToken(guestTokenLength)
			identity = domain.GuestIdentity(token)
			http.SetCookie(w, &http.Cookie{
				Name:     domain.GuestCookieName,
				Value:    token,
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
				MaxAge:   domain.GuestCookieMaxAge,
			})
		}

		ctx := context.WithValue(r.Context(), domain.IdentityContextKey, identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// IdentityFromContext returns the identity resolved for this request.
func IdentityFromContext(ctx context.Context) domain.Identity {
	if id, ok := ctx.Value(domain.IdentityContextKey).(domain.Identity); ok {
		return id
	}
	return domain.Identity{}
}
