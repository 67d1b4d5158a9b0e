package postgres

import (
	"context"
	"fmt"

	"github.com/haimng/Bestopia/internal/domain"
	"github.com/haimng/Bestopia/pkg/database"
)

// ProductReviewRepository implements product review persistence using
// PostgreSQL.
type ProductReviewRepository struct {
	pool database.DBTX
}

// NewProductReviewRepository creates a new PostgreSQL-backed product review
// repository.
func NewProductReviewRepository(pool database.DBTX) *ProductReviewRepository {
	return &ProductReviewRepository{pool: pool}
}

// ListByProductID returns the reviews of a product joined with the reviewer's
// display name and avatar.
func (r *ProductReviewRepository) ListByProductID(ctx context.Context, productID int64) ([]domain.ProductReview, error) {
	query := `
		SELECT pr.id, pr.product_id, pr.user_id, pr.rating, pr.review_text,
		       pr.created_at, pr.updated_at, u.display_name, u.avatar
		FROM product_reviews pr
		JOIN users u ON u.id = pr.user_id
		WHERE pr.product_id = $1
		ORDER BY pr.id ASC`

	rows, err := r.pool.Query(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("list product reviews: %w", err)
	}
	defer rows.Close()

	var reviews []domain.ProductReview
	for rows.Next() {
		var pr domain.ProductReview
		if err := rows.Scan(
			&pr.ID,
			&pr.ProductID,
			&pr.UserID,
			&pr.Rating,
			&pr.ReviewText,
			&pr.CreatedAt,
			&pr.UpdatedAt,
			&pr.DisplayName,
			&pr.Avatar,
		); err != nil {
			return nil, fmt.Errorf("scan product review row: %w", err)
		}
		reviews = append(reviews, pr)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate product review rows: %w", err)
	}

	if reviews == nil {
		reviews = []domain.ProductReview{}
	}

	return reviews, nil
}
