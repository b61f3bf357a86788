package domain

import "context"

// Product is the summary needed for wishlist rendering and notices.
// Product IDs are positive integers; 0 is never a valid ID.
type Product struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	Slug        string   `json:"slug"`
	BasePrice   float64  `json:"basePrice"`
	SalePrice   *float64 `json:"salePrice,omitempty"`
	Stock       int      `json:"stock"`
	StockStatus string   `json:"stockStatus"`
	Image       string   `json:"image,omitempty"`
}

// InStock reports whether the product can still be added to a cart.
func (p *Product) InStock() bool {
	return p.Stock > 0
}

type ProductRepository interface {
	// GetSummary returns nil (no error) when the product does not exist.
	GetSummary(ctx context.Context, productID int64) (*Product, error)
	GetSummaries(ctx context.Context, productIDs []int64) ([]Product, error)
}
