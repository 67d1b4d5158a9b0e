package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/haimng/Bestopia/internal/domain"
	"github.com/haimng/Bestopia/internal/event"
	"github.com/haimng/Bestopia/internal/repository"
	"github.com/haimng/Bestopia/internal/tsv"
	apperrors "github.com/haimng/Bestopia/pkg/errors"
	"github.com/haimng/Bestopia/pkg/slug"
)

// maxEnrichedProducts bounds how many products a single ingestion will look
// up on the product store, keeping the request's tail latency bounded.
const maxEnrichedProducts = 4

// ProductFinder looks up a product by name on an external store and returns
// its image and product page URLs.
type ProductFinder interface {
	FindProduct(ctx context.Context, name string) (imageURL, productPage string, err error)
}

// IngestService builds and persists a review, its products, and their
// synthesized reviewer opinions from TSV-shaped draft content.
type IngestService struct {
	reviews  repository.ReviewRepository
	products repository.ProductRepository
	finder   ProductFinder
	picker   *ReviewerPicker
	ratings  *RatingSynthesizer
	producer *event.Producer
	cache    ReviewCache
	logger   *slog.Logger
}

// NewIngestService creates a new ingestion service. finder, producer, and
// cache may be nil; enrichment, event publishing, and cache invalidation are
// skipped when they are.
func NewIngestService(
	reviews repository.ReviewRepository,
	products repository.ProductRepository,
	finder ProductFinder,
	picker *ReviewerPicker,
	ratings *RatingSynthesizer,
	producer *event.Producer,
	cache ReviewCache,
	logger *slog.Logger,
) *IngestService {
	return &IngestService{
		reviews:  reviews,
		products: products,
		finder:   finder,
		picker:   picker,
		ratings:  ratings,
		producer: producer,
		cache:    cache,
		logger:   logger,
	}
}

// IngestReviewInput holds the parameters for ingesting a review.
type IngestReviewInput struct {
	Title             string                  `json:"title"`
	Subtitle          string                  `json:"subtitle"`
	Introduction      string                  `json:"introduction"`
	CoverPhoto        string                  `json:"cover_photo"`
	Tags              string                  `json:"tags"`
	ProductDetailsTSV string                  `json:"product_details_tsv"`
	ProductReviewsTSV string                  `json:"product_reviews_tsv"`
	Gender            domain.GenderPreference `json:"gender"`
}

// IngestReview parses the two TSV blocks, persists the review with its
// products and opinions in one transaction, and then best-effort enriches a
// bounded prefix of the products from the external store. Enrichment and
// event publishing failures are logged and never fail the ingestion.
func (s *IngestService) IngestReview(ctx context.Context, input IngestReviewInput) (*domain.ReviewDetail, error) {
	input.Title = strings.TrimSpace(input.Title)
	input.Subtitle = strings.TrimSpace(input.Subtitle)
	input.Introduction = strings.TrimSpace(input.Introduction)

	if input.Title == "" {
		return nil, apperrors.InvalidInput("title is required")
	}
	if input.Subtitle == "" {
		return nil, apperrors.InvalidInput("subtitle is required")
	}
	if input.Introduction == "" {
		return nil, apperrors.InvalidInput("introduction is required")
	}

	if input.Gender == "" {
		input.Gender = domain.GenderAll
	}
	if !input.Gender.Valid() {
		return nil, apperrors.InvalidInput("gender must be one of all, woman, man")
	}

	detailRecords := tsv.Parse(input.ProductDetailsTSV)
	if len(detailRecords) == 0 {
		return nil, apperrors.InvalidInput("product details must contain a header row and at least one data row")
	}
	for i, rec := range detailRecords {
		if rec["name"] == "" {
			return nil, apperrors.InvalidInput(fmt.Sprintf("product details row %d is missing a name", i+1))
		}
	}

	opinionRecords := tsv.Parse(input.ProductReviewsTSV)
	if len(opinionRecords) == 0 {
		return nil, apperrors.InvalidInput("product reviews must contain a header row and at least one data row")
	}

	// Rows are correlated strictly by position: a shorter opinion block
	// leaves trailing products without a review row, a longer one is
	// truncated.
	coverPhoto := strings.TrimSpace(input.CoverPhoto)
	effectiveCover := coverPhoto
	if effectiveCover == "" {
		effectiveCover = detailRecords[0]["image_url"]
	}

	now := time.Now().UTC()
	review := &domain.Review{
		Slug:         slug.Generate(input.Title),
		Title:        input.Title,
		Subtitle:     input.Subtitle,
		Introduction: input.Introduction,
		CoverPhoto:   effectiveCover,
		Tags:         strings.TrimSpace(input.Tags),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	products := make([]domain.Product, len(detailRecords))
	opinions := make([]*domain.ProductReview, len(detailRecords))
	base := ratingBase

	for i, rec := range detailRecords {
		products[i] = domain.Product{
			Name:        rec["name"],
			Description: rec["description"],
			ImageURL:    rec["image_url"],
			ProductPage: rec["product_page"],
			CreatedAt:   now,
			UpdatedAt:   now,
		}

		if i >= len(opinionRecords) {
			continue
		}

		var rating float64
		rating, base = s.ratings.Rate(i, base)
		opinions[i] = &domain.ProductReview{
			UserID:     s.picker.Pick(input.Gender),
			Rating:     rating,
			ReviewText: opinionRecords[i]["review_text"],
			CreatedAt:  now,
			UpdatedAt:  now,
		}
	}

	if err := s.reviews.CreateTree(ctx, review, products, opinions); err != nil {
		return nil, fmt.Errorf("persist review: %w", err)
	}

	s.logger.InfoContext(ctx, "review ingested",
		slog.Int64("review_id", review.ID),
		slog.String("slug", review.Slug),
		slog.Int("products", len(products)),
	)

	if s.producer != nil {
		if err := s.producer.PublishReviewCreated(ctx, review, len(products)); err != nil {
			s.logger.ErrorContext(ctx, "failed to publish review.created event",
				slog.Int64("review_id", review.ID),
				slog.String("error", err.Error()),
			)
		}
	}

	if s.cache != nil {
		if err := s.cache.Invalidate(ctx); err != nil {
			s.logger.WarnContext(ctx, "review cache invalidation failed", slog.String("error", err.Error()))
		}
	}

	s.enrichProducts(ctx, review, products, coverPhoto == "")

	detail := &domain.ReviewDetail{Review: *review}
	detail.Products = make([]domain.ProductDetail, len(products))
	for i := range products {
		detail.Products[i] = domain.ProductDetail{Product: products[i]}
		if opinions[i] != nil {
			detail.Products[i].Reviews = []domain.ProductReview{*opinions[i]}
		}
	}

	return detail, nil
}

// enrichProducts looks up a bounded prefix of the freshly inserted products
// on the external store and overwrites their image and page URLs. Runs after
// the commit; each product fails independently and nothing here is retried.
func (s *IngestService) enrichProducts(ctx context.Context, review *domain.Review, products []domain.Product, coverWasEmpty bool) {
	if s.finder == nil {
		return
	}

	for i := range products {
		if i >= maxEnrichedProducts {
			break
		}

		imageURL, productPage, err := s.finder.FindProduct(ctx, products[i].Name)
		if err != nil {
			s.logger.WarnContext(ctx, "product enrichment failed",
				slog.Int64("product_id", products[i].ID),
				slog.String("name", products[i].Name),
				slog.String("error", err.Error()),
			)
			continue
		}
		if imageURL == "" && productPage == "" {
			continue
		}

		if err := s.products.UpdateEnrichment(ctx, products[i].ID, imageURL, productPage); err != nil {
			s.logger.WarnContext(ctx, "failed to store product enrichment",
				slog.Int64("product_id", products[i].ID),
				slog.String("error", err.Error()),
			)
			continue
		}
		products[i].ImageURL = imageURL
		products[i].ProductPage = productPage

		if i == 0 && coverWasEmpty && imageURL != "" {
			if err := s.reviews.UpdateCoverPhoto(ctx, review.ID, imageURL); err != nil {
				s.logger.WarnContext(ctx, "failed to update review cover photo",
					slog.Int64("review_id", review.ID),
					slog.String("error", err.Error()),
				)
			} else {
				review.CoverPhoto = imageURL
			}
		}
	}
}
