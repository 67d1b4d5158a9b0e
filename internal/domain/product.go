package domain

import (
	"time"
)

// Product is one item covered by a review. It belongs to exactly one review
// and is inserted in the same transaction. ImageURL and ProductPage start as
// the author-supplied values (or empty strings) and may later be overwritten
// by the crawler enrichment.
type Product struct {
	ID          int64     `json:"id"`
	ReviewID    int64     `json:"review_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	ImageURL    string    `json:"image_url"`
	ProductPage string    `json:"product_page"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ProductReview is a single simulated-reviewer opinion attached to one product.
// Rating carries one decimal place.
type ProductReview struct {
	ID         int64     `json:"id"`
	ProductID  int64     `json:"product_id"`
	UserID     int64     `json:"user_id"`
	Rating     float64   `json:"rating"`
	ReviewText string    `json:"review_text"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	// Joined from users for display; not part of the product_reviews row.
	DisplayName string `json:"display_name,omitempty"`
	Avatar      string `json:"avatar,omitempty"`
}

// ProductDetail is a product with its reviewer opinions and comparison points,
// as rendered on the review page.
type ProductDetail struct {
	Product
	Reviews     []ProductReview     `json:"reviews"`
	Comparisons []ProductComparison `json:"comparisons,omitempty"`
}

// ProductComparison is one cell of the aspect-by-product comparison table.
// At most one row exists per (product, aspect) pair.
type ProductComparison struct {
	ID              int64  `json:"id"`
	ProductID       int64  `json:"product_id"`
	Aspect          string `json:"aspect"`
	ComparisonPoint string `json:"comparison_point"`
}
