package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/haimng/Bestopia/internal/domain"
	"github.com/haimng/Bestopia/pkg/database"
	apperrors "github.com/haimng/Bestopia/pkg/errors"
)

// pgUniqueViolation is the SQLSTATE for unique constraint violations.
const pgUniqueViolation = "23505"

// ReviewRepository implements review persistence using PostgreSQL.
type ReviewRepository struct {
	pool database.DBTX
}

// NewReviewRepository creates a new PostgreSQL-backed review repository.
func NewReviewRepository(pool database.DBTX) *ReviewRepository {
	return &ReviewRepository{pool: pool}
}

const reviewColumns = "id, slug, title, subtitle, introduction, cover_photo, tags, created_at, updated_at"

// CreateTree inserts a review, its products, and their product reviews in one
// transaction. The review row goes first so the products' foreign keys can
// reference its generated id; ordering is sequenced here, not by the schema.
func (r *ReviewRepository) CreateTree(ctx context.Context, review *domain.Review, products []domain.Product, opinions []*domain.ProductReview) (err error) {
	if len(opinions) != len(products) {
		return fmt.Errorf("create review tree: %d opinions for %d products", len(opinions), len(products))
	}

	ctx, end := database.TraceQuery(ctx, "ReviewRepository.CreateTree", "INSERT INTO reviews, products, product_reviews")
	defer func() { end(err) }()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	reviewQuery := `
		INSERT INTO reviews (slug, title, subtitle, introduction, cover_photo, tags, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`

	err = tx.QueryRow(ctx, reviewQuery,
		review.Slug,
		review.Title,
		review.Subtitle,
		review.Introduction,
		review.CoverPhoto,
		review.Tags,
		review.CreatedAt,
		review.UpdatedAt,
	).Scan(&review.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return apperrors.AlreadyExists("review", "slug", review.Slug)
		}
		return fmt.Errorf("insert review: %w", err)
	}

	productQuery := `
		INSERT INTO products (review_id, name, description, image_url, product_page, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`

	opinionQuery := `
		INSERT INTO product_reviews (product_id, user_id, rating, review_text, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`

	for i := range products {
		products[i].ReviewID = review.ID

		err = tx.QueryRow(ctx, productQuery,
			products[i].ReviewID,
			products[i].Name,
			products[i].Description,
			products[i].ImageURL,
			products[i].ProductPage,
			products[i].CreatedAt,
			products[i].UpdatedAt,
		).Scan(&products[i].ID)
		if err != nil {
			return fmt.Errorf("insert product %d: %w", i, err)
		}

		op := opinions[i]
		if op == nil {
			continue
		}
		op.ProductID = products[i].ID

		err = tx.QueryRow(ctx, opinionQuery,
			op.ProductID,
			op.UserID,
			op.Rating,
			op.ReviewText,
			op.CreatedAt,
			op.UpdatedAt,
		).Scan(&op.ID)
		if err != nil {
			return fmt.Errorf("insert product review %d: %w", i, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

// GetByID retrieves a review by id.
func (r *ReviewRepository) GetByID(ctx context.Context, id int64) (*domain.Review, error) {
	query := fmt.Sprintf(`SELECT %s FROM reviews WHERE id = $1`, reviewColumns)
	return r.scanOne(ctx, query, id)
}

// GetBySlug retrieves a review by slug.
func (r *ReviewRepository) GetBySlug(ctx context.Context, slug string) (*domain.Review, error) {
	query := fmt.Sprintf(`SELECT %s FROM reviews WHERE slug = $1`, reviewColumns)
	ctx, end := database.TraceQuery(ctx, "ReviewRepository.GetBySlug", query)
	review, err := r.scanOne(ctx, query, slug)
	end(err)
	return review, err
}

func (r *ReviewRepository) scanOne(ctx context.Context, query string, arg any) (*domain.Review, error) {
	var rv domain.Review
	err := r.pool.QueryRow(ctx, query, arg).Scan(
		&rv.ID,
		&rv.Slug,
		&rv.Title,
		&rv.Subtitle,
		&rv.Introduction,
		&rv.CoverPhoto,
		&rv.Tags,
		&rv.CreatedAt,
		&rv.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("get review: %w", err)
	}
	return &rv, nil
}

// List returns reviews ordered newest-first along with the total count.
func (r *ReviewRepository) List(ctx context.Context, page, perPage int) ([]domain.Review, int, error) {
	query := fmt.Sprintf(`
		SELECT %s, count(*) OVER() AS total_count
		FROM reviews
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`, reviewColumns)

	ctx, end := database.TraceQuery(ctx, "ReviewRepository.List", query)
	reviews, total, err := r.listWithCount(ctx, query, pageArgs(page, perPage)...)
	end(err)
	return reviews, total, err
}

// Search returns reviews whose title, subtitle, introduction, or tags contain
// the keyword, newest first, along with the total count.
func (r *ReviewRepository) Search(ctx context.Context, keyword string, page, perPage int) ([]domain.Review, int, error) {
	query := fmt.Sprintf(`
		SELECT %s, count(*) OVER() AS total_count
		FROM reviews
		WHERE title ILIKE $1 OR subtitle ILIKE $1 OR introduction ILIKE $1 OR tags ILIKE $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`, reviewColumns)

	ctx, end := database.TraceQuery(ctx, "ReviewRepository.Search", query)
	args := append([]any{"%" + keyword + "%"}, pageArgs(page, perPage)...)
	reviews, total, err := r.listWithCount(ctx, query, args...)
	end(err)
	return reviews, total, err
}

func (r *ReviewRepository) listWithCount(ctx context.Context, query string, args ...any) ([]domain.Review, int, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()

	var (
		reviews    []domain.Review
		totalCount int
	)

	for rows.Next() {
		var rv domain.Review
		if err := rows.Scan(
			&rv.ID,
			&rv.Slug,
			&rv.Title,
			&rv.Subtitle,
			&rv.Introduction,
			&rv.CoverPhoto,
			&rv.Tags,
			&rv.CreatedAt,
			&rv.UpdatedAt,
			&totalCount,
		); err != nil {
			return nil, 0, fmt.Errorf("scan review row: %w", err)
		}
		reviews = append(reviews, rv)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate review rows: %w", err)
	}

	if reviews == nil {
		reviews = []domain.Review{}
	}

	return reviews, totalCount, nil
}

// ListByTag returns reviews whose tags field contains the given tag.
func (r *ReviewRepository) ListByTag(ctx context.Context, tag string) ([]domain.Review, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM reviews
		WHERE tags ILIKE $1
		ORDER BY created_at DESC`, reviewColumns)

	return r.list(ctx, query, "%"+tag+"%")
}

// Random returns up to limit reviews in random order.
func (r *ReviewRepository) Random(ctx context.Context, limit int) ([]domain.Review, error) {
	query := fmt.Sprintf(`SELECT %s FROM reviews ORDER BY random() LIMIT $1`, reviewColumns)
	return r.list(ctx, query, limit)
}

func (r *ReviewRepository) list(ctx context.Context, query string, args ...any) ([]domain.Review, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()

	var reviews []domain.Review
	for rows.Next() {
		var rv domain.Review
		if err := rows.Scan(
			&rv.ID,
			&rv.Slug,
			&rv.Title,
			&rv.Subtitle,
			&rv.Introduction,
			&rv.CoverPhoto,
			&rv.Tags,
			&rv.CreatedAt,
			&rv.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan review row: %w", err)
		}
		reviews = append(reviews, rv)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate review rows: %w", err)
	}

	if reviews == nil {
		reviews = []domain.Review{}
	}

	return reviews, nil
}

// Slugs returns up to limit review slugs ordered oldest-first.
func (r *ReviewRepository) Slugs(ctx context.Context, limit int) ([]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT slug FROM reviews ORDER BY created_at ASC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list review slugs: %w", err)
	}
	defer rows.Close()

	var slugs []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("scan slug row: %w", err)
		}
		slugs = append(slugs, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate slug rows: %w", err)
	}

	return slugs, nil
}

// Update modifies the editable fields of a review.
func (r *ReviewRepository) Update(ctx context.Context, review *domain.Review) error {
	query := `
		UPDATE reviews
		SET title = $1, subtitle = $2, introduction = $3, cover_photo = $4, tags = $5, updated_at = $6
		WHERE id = $7`

	tag, err := r.pool.Exec(ctx, query,
		review.Title,
		review.Subtitle,
		review.Introduction,
		review.CoverPhoto,
		review.Tags,
		review.UpdatedAt,
		review.ID,
	)
	if err != nil {
		return fmt.Errorf("update review: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	return nil
}

// UpdateCoverPhoto overwrites only the cover photo.
func (r *ReviewRepository) UpdateCoverPhoto(ctx context.Context, id int64, coverPhoto string) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE reviews SET cover_photo = $1, updated_at = now() WHERE id = $2`,
		coverPhoto, id,
	)
	if err != nil {
		return fmt.Errorf("update review cover photo: %w", err)
	}
	return nil
}

// Delete removes a review. Products and product reviews cascade at the schema
// level.
func (r *ReviewRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete review: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// pageArgs converts page/perPage into LIMIT/OFFSET arguments.
func pageArgs(page, perPage int) []any {
	limit := perPage
	if limit <= 0 {
		limit = 10
	}
	offset := 0
	if page > 1 {
		offset = (page - 1) * limit
	}
	return []any{limit, offset}
}
