package cart

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"wishlist-backend/internal/domain"
)

// Client talks to the external cart service. The wishlist backend never
// owns cart state; it only submits adds and reflects the outcome.
type Client struct {
	baseURL     string
	cartPageURL string
	http        *http.Client
}

func NewClient(baseURL, cartPageURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:     baseURL,
		cartPageURL: cartPageURL,
		http:        &http.Client{Timeout: timeout},
	}
}

type addToCartRequest struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

// AddToCart submits one product to the cart service. A 2xx reply means the
// cart accepted it; a 4xx reply is a rejection (out of stock, limits), not
// a transport failure.
func (c *Client) AddToCart(ctx context.Context, identity domain.Identity, productID int64) (bool, error) {
	if c.baseURL == "" {
		return false, fmt.Errorf("cart service not configured")
	}

	body, err := json.Marshal(addToCartRequest{ProductID: productID, Quantity: 1})
	if err != nil {
		return false, fmt.Errorf("marshal cart request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v1/cart", bytes.NewReader(body))
	if err != nil {
		return false, fmt.Errorf("build cart request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if identity.Authenticated() {
		req.Header.Set("X-User-ID", identity.UserID)
	} else {
		req.Header.Set("X-Guest-Token", identity.GuestToken)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return false, fmt.Errorf("cart request: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return true, nil
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return false, nil
	default:
		return false, fmt.Errorf("cart service returned %d", resp.StatusCode)
	}
}

func (c *Client) CartURL() string {
	return c.cartPageURL
}
