package postgres

import (
	"context"
	"fmt"

	"github.com/haimng/Bestopia/internal/domain"
	"github.com/haimng/Bestopia/pkg/database"
)

// ComparisonRepository implements product comparison persistence using
// PostgreSQL.
type ComparisonRepository struct {
	pool database.DBTX
}

// NewComparisonRepository creates a new PostgreSQL-backed comparison
// repository.
func NewComparisonRepository(pool database.DBTX) *ComparisonRepository {
	return &ComparisonRepository{pool: pool}
}

// Upsert inserts or replaces comparison points in one transaction. The
// (product_id, aspect) pair is the conflict key, so re-running an ingestion
// overwrites earlier points instead of duplicating them.
func (r *ComparisonRepository) Upsert(ctx context.Context, comparisons []domain.ProductComparison) error {
	if len(comparisons) == 0 {
		return nil
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO product_comparisons (product_id, aspect, comparison_point, created_at, updated_at)
		VALUES ($1, $2, $3, now(), now())
		ON CONFLICT (product_id, aspect)
		DO UPDATE SET comparison_point = EXCLUDED.comparison_point, updated_at = now()
		RETURNING id`

	for i := range comparisons {
		c := &comparisons[i]
		err := tx.QueryRow(ctx, query, c.ProductID, c.Aspect, c.ComparisonPoint).Scan(&c.ID)
		if err != nil {
			return fmt.Errorf("upsert product comparison %d: %w", i, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

// ListByReviewID returns the comparison points of every product in a review,
// grouped by product then aspect.
func (r *ComparisonRepository) ListByReviewID(ctx context.Context, reviewID int64) ([]domain.ProductComparison, error) {
	query := `
		SELECT c.id, c.product_id, c.aspect, c.comparison_point
		FROM product_comparisons c
		JOIN products p ON p.id = c.product_id
		WHERE p.review_id = $1
		ORDER BY c.product_id ASC, c.id ASC`

	rows, err := r.pool.Query(ctx, query, reviewID)
	if err != nil {
		return nil, fmt.Errorf("list product comparisons: %w", err)
	}
	defer rows.Close()

	var comparisons []domain.ProductComparison
	for rows.Next() {
		var c domain.ProductComparison
		if err := rows.Scan(&c.ID, &c.ProductID, &c.Aspect, &c.ComparisonPoint); err != nil {
			return nil, fmt.Errorf("scan product comparison row: %w", err)
		}
		comparisons = append(comparisons, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate product comparison rows: %w", err)
	}

	if comparisons == nil {
		comparisons = []domain.ProductComparison{}
	}

	return comparisons, nil
}
