package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// WishlistOps counts wishlist mutations by outcome
// (added, removed, already_in_wishlist).
var WishlistOps = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "wishlist",
	Name:      "operations_total",
	Help:      "Wishlist mutations by outcome.",
}, []string{"outcome"})

// Merges counts guest-to-user wishlist merges performed at login.
var Merges = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "wishlist",
	Name:      "merges_total",
	Help:      "Guest wishlists merged into user wishlists at login.",
})

// CartAdds counts add-to-cart orchestrations by result (added, rejected, failed).
var CartAdds = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "wishlist",
	Name:      "cart_adds_total",
	Help:      "Add-to-cart attempts made from the wishlist by result.",
}, []string{"result"})
