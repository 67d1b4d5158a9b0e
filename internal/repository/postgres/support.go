package postgres

import (
	"context"
	"fmt"

	"github.com/haimng/Bestopia/internal/domain"
	"github.com/haimng/Bestopia/pkg/database"
)

// SupportRepository implements support request persistence using PostgreSQL.
type SupportRepository struct {
	pool database.DBTX
}

// NewSupportRepository creates a new PostgreSQL-backed support repository.
func NewSupportRepository(pool database.DBTX) *SupportRepository {
	return &SupportRepository{pool: pool}
}

// Create inserts a support request and writes back the generated id.
func (r *SupportRepository) Create(ctx context.Context, req *domain.SupportRequest) error {
	query := `
		INSERT INTO support_requests (email, message, created_at)
		VALUES ($1, $2, $3)
		RETURNING id`

	err := r.pool.QueryRow(ctx, query, req.Email, req.Message, req.CreatedAt).Scan(&req.ID)
	if err != nil {
		return fmt.Errorf("insert support request: %w", err)
	}

	return nil
}
