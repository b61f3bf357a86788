package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"wishlist-backend/internal/domain"
)

type productRepository struct {
	db *pgxpool.Pool
}

func NewProductRepository(db *pgxpool.Pool) domain.ProductRepository {
	return &productRepository{db: db}
}

const productSummaryCols = `id, name, slug, base_price, sale_price, stock, COALESCE(image, '')`

func (r *productRepository) GetSummary(ctx context.Context, productID int64) (*domain.Product, error) {
	var p domain.Product
	err := r.db.QueryRow(ctx,
		`SELECT `+productSummaryCols+` FROM products WHERE id = $1 AND is_active`,
		productID).
		Scan(&p.ID, &p.Name, &p.Slug, &p.BasePrice, &p.SalePrice, &p.Stock, &p.Image)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("query product: %w", err)
	}
	syncStockStatus(&p)
	return &p, nil
}

func (r *productRepository) GetSummaries(ctx context.Context, productIDs []int64) ([]domain.Product, error) {
	if len(productIDs) == 0 {
		return []domain.Product{}, nil
	}
	rows, err := r.db.Query(ctx,
		`SELECT `+productSummaryCols+` FROM products WHERE id = ANY($1) AND is_active`,
		productIDs)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	byID := make(map[int64]domain.Product, len(productIDs))
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Slug, &p.BasePrice, &p.SalePrice, &p.Stock, &p.Image); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		syncStockStatus(&p)
		byID[p.ID] = p
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Preserve the caller's (insertion) order; drop IDs that no longer
	// resolve to an active product.
	out := make([]domain.Product, 0, len(byID))
	for _, id := range productIDs {
		if p, ok := byID[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func syncStockStatus(p *domain.Product) {
	if p.InStock() {
		p.StockStatus = "in_stock"
	} else {
		p.StockStatus = "out_of_stock"
	}
}
