package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"wishlist-backend/internal/domain"
)

// wishlistRepository is the durable per-user store: one row per
// (user_id, product_id), so adds and removes are single atomic statements
// and concurrent requests never overwrite each other's changes.
type wishlistRepository struct {
	db *pgxpool.Pool
}

func NewWishlistRepository(db *pgxpool.Pool) domain.WishlistRepository {
	return &wishlistRepository{db: db}
}

func (r *wishlistRepository) ProductIDs(ctx context.Context, userID string) ([]int64, error) {
	rows, err := r.db.Query(ctx,
		`SELECT product_id FROM wishlist_items WHERE user_id = $1 ORDER BY added_at, product_id`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("query wishlist items: %w", err)
	}
	defer rows.Close()

	ids := make([]int64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan wishlist item: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *wishlistRepository) AddProduct(ctx context.Context, userID string, productID int64) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO wishlist_items (user_id, product_id, added_at)
		 VALUES ($1, $2, now())
		 ON CONFLICT (user_id, product_id) DO NOTHING`,
		userID, productID)
	if err != nil {
		return fmt.Errorf("insert wishlist item: %w", err)
	}
	return nil
}

func (r *wishlistRepository) AddProducts(ctx context.Context, userID string, productIDs []int64) error {
	if len(productIDs) == 0 {
		return nil
	}
	// Single transaction so a login-time merge lands atomically.
	return pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		for _, id := range productIDs {
			if _, err := tx.Exec(ctx,
				`INSERT INTO wishlist_items (user_id, product_id, added_at)
				 VALUES ($1, $2, now())
				 ON CONFLICT (user_id, product_id) DO NOTHING`,
				userID, id); err != nil {
				return fmt.Errorf("insert wishlist item %d: %w", id, err)
			}
		}
		return nil
	})
}

func (r *wishlistRepository) RemoveProduct(ctx context.Context, userID string, productID int64) error {
	// Removing an absent product is a no-op, not an error.
	_, err := r.db.Exec(ctx,
		`DELETE FROM wishlist_items WHERE user_id = $1 AND product_id = $2`,
		userID, productID)
	if err != nil {
		return fmt.Errorf("delete wishlist item: %w", err)
	}
	return nil
}

func (r *wishlistRepository) HasProduct(ctx context.Context, userID string, productID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM wishlist_items WHERE user_id = $1 AND product_id = $2)`,
		userID, productID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check wishlist item: %w", err)
	}
	return exists, nil
}

func (r *wishlistRepository) CountProducts(ctx context.Context, userID string) (int, error) {
	var count int
	err := r.db.QueryRow(ctx,
		`SELECT count(*) FROM wishlist_items WHERE user_id = $1`,
		userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count wishlist items: %w", err)
	}
	return count, nil
}
