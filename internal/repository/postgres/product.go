package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/haimng/Bestopia/internal/domain"
	"github.com/haimng/Bestopia/pkg/database"
	apperrors "github.com/haimng/Bestopia/pkg/errors"
)

// ProductRepository implements product persistence using PostgreSQL.
type ProductRepository struct {
	pool database.DBTX
}

// NewProductRepository creates a new PostgreSQL-backed product repository.
func NewProductRepository(pool database.DBTX) *ProductRepository {
	return &ProductRepository{pool: pool}
}

const productColumns = "id, review_id, name, description, image_url, product_page, created_at, updated_at"

// GetByID retrieves a product by id.
func (r *ProductRepository) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products WHERE id = $1`, productColumns)

	var p domain.Product
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&p.ID,
		&p.ReviewID,
		&p.Name,
		&p.Description,
		&p.ImageURL,
		&p.ProductPage,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("get product: %w", err)
	}

	return &p, nil
}

// ListByReviewID returns the products of a review in insertion order.
func (r *ProductRepository) ListByReviewID(ctx context.Context, reviewID int64) ([]domain.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products WHERE review_id = $1 ORDER BY id ASC`, productColumns)
	return r.list(ctx, query, reviewID)
}

// List returns products ordered newest-first along with the total count.
func (r *ProductRepository) List(ctx context.Context, page, perPage int) ([]domain.Product, int, error) {
	query := fmt.Sprintf(`
		SELECT %s, count(*) OVER() AS total_count
		FROM products
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`, productColumns)

	rows, err := r.pool.Query(ctx, query, pageArgs(page, perPage)...)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var (
		products   []domain.Product
		totalCount int
	)

	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(
			&p.ID,
			&p.ReviewID,
			&p.Name,
			&p.Description,
			&p.ImageURL,
			&p.ProductPage,
			&p.CreatedAt,
			&p.UpdatedAt,
			&totalCount,
		); err != nil {
			return nil, 0, fmt.Errorf("scan product row: %w", err)
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate product rows: %w", err)
	}

	if products == nil {
		products = []domain.Product{}
	}

	return products, totalCount, nil
}

func (r *ProductRepository) list(ctx context.Context, query string, args ...any) ([]domain.Product, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(
			&p.ID,
			&p.ReviewID,
			&p.Name,
			&p.Description,
			&p.ImageURL,
			&p.ProductPage,
			&p.CreatedAt,
			&p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan product row: %w", err)
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate product rows: %w", err)
	}

	if products == nil {
		products = []domain.Product{}
	}

	return products, nil
}

// Update modifies the editable fields of a product.
func (r *ProductRepository) Update(ctx context.Context, product *domain.Product) error {
	query := `
		UPDATE products
		SET name = $1, description = $2, image_url = $3, product_page = $4, updated_at = $5
		WHERE id = $6`

	tag, err := r.pool.Exec(ctx, query,
		product.Name,
		product.Description,
		product.ImageURL,
		product.ProductPage,
		product.UpdatedAt,
		product.ID,
	)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	return nil
}

// UpdateEnrichment overwrites only the fields filled in by product page
// lookups.
func (r *ProductRepository) UpdateEnrichment(ctx context.Context, id int64, imageURL, productPage string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE products SET image_url = $1, product_page = $2, updated_at = now() WHERE id = $3`,
		imageURL, productPage, id,
	)
	if err != nil {
		return fmt.Errorf("update product enrichment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	return nil
}
