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
	apperrors "github.com/haimng/Bestopia/pkg/errors"
)

const (
	defaultPerPage = 10
	maxPerPage     = 100

	// randomReviewCount is how many reviews the homepage shuffle shows.
	randomReviewCount = 8

	// sitemapSlugLimit caps the sitemap at the oldest thousand reviews.
	sitemapSlugLimit = 1000
)

// ReviewCache caches the random selection and the sitemap slug list. A nil
// return with a nil error is a miss.
type ReviewCache interface {
	GetRandom(ctx context.Context) ([]domain.Review, error)
	SetRandom(ctx context.Context, reviews []domain.Review) error
	GetSlugs(ctx context.Context) ([]string, error)
	SetSlugs(ctx context.Context, slugs []string) error
	Invalidate(ctx context.Context) error
}

// ReviewService implements the read and admin-edit operations on published
// reviews.
type ReviewService struct {
	reviews     repository.ReviewRepository
	products    repository.ProductRepository
	opinions    repository.ProductReviewRepository
	comparisons repository.ComparisonRepository
	cache       ReviewCache
	producer    *event.Producer
	logger      *slog.Logger
}

// NewReviewService creates a new review service. cache and producer may be
// nil.
func NewReviewService(
	reviews repository.ReviewRepository,
	products repository.ProductRepository,
	opinions repository.ProductReviewRepository,
	comparisons repository.ComparisonRepository,
	cache ReviewCache,
	producer *event.Producer,
	logger *slog.Logger,
) *ReviewService {
	return &ReviewService{
		reviews:     reviews,
		products:    products,
		opinions:    opinions,
		comparisons: comparisons,
		cache:       cache,
		producer:    producer,
		logger:      logger,
	}
}

// GetBySlug loads a review page: the review, its products, each product's
// reviewer opinions, and the comparison table cells.
func (s *ReviewService) GetBySlug(ctx context.Context, slugValue string) (*domain.ReviewDetail, error) {
	slugValue = strings.TrimSpace(slugValue)
	if slugValue == "" {
		return nil, apperrors.InvalidInput("slug is required")
	}

	review, err := s.reviews.GetBySlug(ctx, slugValue)
	if err != nil {
		return nil, err
	}

	return s.assembleDetail(ctx, review)
}

// GetByID loads a review page by id, used by the admin edit screen.
func (s *ReviewService) GetByID(ctx context.Context, id int64) (*domain.ReviewDetail, error) {
	review, err := s.reviews.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return s.assembleDetail(ctx, review)
}

func (s *ReviewService) assembleDetail(ctx context.Context, review *domain.Review) (*domain.ReviewDetail, error) {
	products, err := s.products.ListByReviewID(ctx, review.ID)
	if err != nil {
		return nil, fmt.Errorf("load products: %w", err)
	}

	comparisons, err := s.comparisons.ListByReviewID(ctx, review.ID)
	if err != nil {
		return nil, fmt.Errorf("load comparisons: %w", err)
	}
	byProduct := make(map[int64][]domain.ProductComparison)
	for _, c := range comparisons {
		byProduct[c.ProductID] = append(byProduct[c.ProductID], c)
	}

	detail := &domain.ReviewDetail{Review: *review}
	detail.Products = make([]domain.ProductDetail, len(products))
	for i, p := range products {
		opinions, err := s.opinions.ListByProductID(ctx, p.ID)
		if err != nil {
			return nil, fmt.Errorf("load product reviews: %w", err)
		}
		detail.Products[i] = domain.ProductDetail{
			Product:     p,
			Reviews:     opinions,
			Comparisons: byProduct[p.ID],
		}
	}

	return detail, nil
}

// List returns a page of reviews, newest first, with the total count.
func (s *ReviewService) List(ctx context.Context, page, perPage int) ([]domain.Review, int, error) {
	page, perPage = normalizePage(page, perPage)
	return s.reviews.List(ctx, page, perPage)
}

// Search returns reviews matching the keyword across title, subtitle,
// introduction, and tags.
func (s *ReviewService) Search(ctx context.Context, keyword string, page, perPage int) ([]domain.Review, int, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return nil, 0, apperrors.InvalidInput("search keyword is required")
	}
	page, perPage = normalizePage(page, perPage)
	return s.reviews.Search(ctx, keyword, page, perPage)
}

// ListByTag returns reviews carrying the given tag.
func (s *ReviewService) ListByTag(ctx context.Context, tag string) ([]domain.Review, error) {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return nil, apperrors.InvalidInput("tag is required")
	}
	return s.reviews.ListByTag(ctx, tag)
}

// Random returns the homepage shuffle selection, served from cache when warm.
func (s *ReviewService) Random(ctx context.Context) ([]domain.Review, error) {
	if s.cache != nil {
		cached, err := s.cache.GetRandom(ctx)
		if err != nil {
			s.logger.WarnContext(ctx, "review cache read failed", slog.String("error", err.Error()))
		} else if cached != nil {
			return cached, nil
		}
	}

	reviews, err := s.reviews.Random(ctx, randomReviewCount)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetRandom(ctx, reviews); err != nil {
			s.logger.WarnContext(ctx, "review cache write failed", slog.String("error", err.Error()))
		}
	}

	return reviews, nil
}

// SitemapSlugs returns the slugs listed in the sitemap, served from cache
// when warm.
func (s *ReviewService) SitemapSlugs(ctx context.Context) ([]string, error) {
	if s.cache != nil {
		cached, err := s.cache.GetSlugs(ctx)
		if err != nil {
			s.logger.WarnContext(ctx, "review cache read failed", slog.String("error", err.Error()))
		} else if cached != nil {
			return cached, nil
		}
	}

	slugs, err := s.reviews.Slugs(ctx, sitemapSlugLimit)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetSlugs(ctx, slugs); err != nil {
			s.logger.WarnContext(ctx, "review cache write failed", slog.String("error", err.Error()))
		}
	}

	return slugs, nil
}

// UpdateReviewInput holds the editable fields of a review.
type UpdateReviewInput struct {
	Title        string `json:"title"`
	Subtitle     string `json:"subtitle"`
	Introduction string `json:"introduction"`
	CoverPhoto   string `json:"cover_photo"`
	Tags         string `json:"tags"`
}

// Update edits a review's content fields. The slug is fixed at ingestion and
// never rewritten, so published URLs stay stable.
func (s *ReviewService) Update(ctx context.Context, id int64, input UpdateReviewInput) (*domain.Review, error) {
	input.Title = strings.TrimSpace(input.Title)
	if input.Title == "" {
		return nil, apperrors.InvalidInput("title is required")
	}

	review, err := s.reviews.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	review.Title = input.Title
	review.Subtitle = strings.TrimSpace(input.Subtitle)
	review.Introduction = strings.TrimSpace(input.Introduction)
	review.CoverPhoto = strings.TrimSpace(input.CoverPhoto)
	review.Tags = strings.TrimSpace(input.Tags)
	review.UpdatedAt = time.Now().UTC()

	if err := s.reviews.Update(ctx, review); err != nil {
		return nil, err
	}

	s.invalidateCache(ctx)

	return review, nil
}

// Delete removes a review; its products and opinions cascade away with it.
func (s *ReviewService) Delete(ctx context.Context, id int64) error {
	review, err := s.reviews.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.reviews.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "review deleted",
		slog.Int64("review_id", id),
		slog.String("slug", review.Slug),
	)

	if s.producer != nil {
		if err := s.producer.PublishReviewDeleted(ctx, review); err != nil {
			s.logger.ErrorContext(ctx, "failed to publish review.deleted event",
				slog.Int64("review_id", id),
				slog.String("error", err.Error()),
			)
		}
	}

	s.invalidateCache(ctx)

	return nil
}

func (s *ReviewService) invalidateCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.WarnContext(ctx, "review cache invalidation failed", slog.String("error", err.Error()))
	}
}

func normalizePage(page, perPage int) (int, int) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = defaultPerPage
	}
	if perPage > maxPerPage {
		perPage = maxPerPage
	}
	return page, perPage
}
