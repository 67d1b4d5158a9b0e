package repository

import (
	"context"

	"github.com/haimng/Bestopia/internal/domain"
)

// ReviewRepository defines persistence operations for reviews and their
// owned product tree.
type ReviewRepository interface {
	// CreateTree inserts a review, its products, and their product reviews in
	// a single transaction. products and opinions are position-aligned; a nil
	// opinion means the product at that position has no review row. Generated
	// ids are written back into the passed structs. Any failure rolls the
	// whole tree back.
	CreateTree(ctx context.Context, review *domain.Review, products []domain.Product, opinions []*domain.ProductReview) error

	// GetByID retrieves a review by its id.
	GetByID(ctx context.Context, id int64) (*domain.Review, error)

	// GetBySlug retrieves a review by its URL slug.
	GetBySlug(ctx context.Context, slug string) (*domain.Review, error)

	// List returns reviews ordered newest-first along with the total count.
	List(ctx context.Context, page, perPage int) ([]domain.Review, int, error)

	// ListByTag returns reviews whose tags field contains the given tag.
	ListByTag(ctx context.Context, tag string) ([]domain.Review, error)

	// Random returns up to limit reviews in random order.
	Random(ctx context.Context, limit int) ([]domain.Review, error)

	// Search returns reviews matching the keyword along with the total count.
	Search(ctx context.Context, keyword string, page, perPage int) ([]domain.Review, int, error)

	// Slugs returns up to limit review slugs ordered oldest-first, for the
	// sitemap.
	Slugs(ctx context.Context, limit int) ([]string, error)

	// Update modifies the editable fields of a review.
	Update(ctx context.Context, review *domain.Review) error

	// UpdateCoverPhoto overwrites only the cover photo.
	UpdateCoverPhoto(ctx context.Context, id int64, coverPhoto string) error

	// Delete removes a review; products and product reviews cascade.
	Delete(ctx context.Context, id int64) error
}

// ProductRepository defines persistence operations for products.
type ProductRepository interface {
	// ListByReviewID returns a review's products in insertion order.
	ListByReviewID(ctx context.Context, reviewID int64) ([]domain.Product, error)

	// List returns products ordered newest-first along with the total count.
	List(ctx context.Context, page, perPage int) ([]domain.Product, int, error)

	// GetByID retrieves a product by its id.
	GetByID(ctx context.Context, id int64) (*domain.Product, error)

	// Update modifies the editable fields of a product.
	Update(ctx context.Context, product *domain.Product) error

	// UpdateEnrichment overwrites a product's image and product-page URLs with
	// crawler results.
	UpdateEnrichment(ctx context.Context, id int64, imageURL, productPage string) error
}

// ProductReviewRepository defines read operations for simulated reviewer
// opinions. Writes happen only inside ReviewRepository.CreateTree.
type ProductReviewRepository interface {
	// ListByProductID returns a product's reviews joined with the reviewer's
	// display name and avatar.
	ListByProductID(ctx context.Context, productID int64) ([]domain.ProductReview, error)
}

// ComparisonRepository defines persistence for the aspect comparison table.
type ComparisonRepository interface {
	// Upsert inserts or replaces comparison points atomically. The
	// (product_id, aspect) pair is the conflict key.
	Upsert(ctx context.Context, comparisons []domain.ProductComparison) error

	// ListByReviewID returns all comparison points for a review's products.
	ListByReviewID(ctx context.Context, reviewID int64) ([]domain.ProductComparison, error)
}

// UserRepository defines persistence operations for accounts.
type UserRepository interface {
	// Create inserts a new user; the generated id is written back.
	Create(ctx context.Context, user *domain.User) error

	// GetByEmail retrieves a user by email.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// GetByID retrieves a user by id.
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

// SupportRepository defines persistence for contact-form submissions.
type SupportRepository interface {
	// Create inserts a support request; the generated id is written back.
	Create(ctx context.Context, req *domain.SupportRequest) error
}
