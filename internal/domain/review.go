package domain

import (
	"strings"
	"time"
)

// Review is a published comparison page covering several products.
// CoverPhoto falls back to the first product's image when the author
// leaves it empty.
type Review struct {
	ID           int64     `json:"id"`
	Slug         string    `json:"slug"`
	Title        string    `json:"title"`
	Subtitle     string    `json:"subtitle"`
	Introduction string    `json:"introduction"`
	CoverPhoto   string    `json:"cover_photo"`
	Tags         string    `json:"tags"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ReviewDetail is a review with its products and their simulated reviewer
// opinions, as rendered on the review page.
type ReviewDetail struct {
	Review
	Products []ProductDetail `json:"products"`
}

// TagList splits the free-text comma-separated tags field, dropping empties.
func (r *Review) TagList() []string {
	if r.Tags == "" {
		return nil
	}
	var tags []string
	for _, t := range strings.Split(r.Tags, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
