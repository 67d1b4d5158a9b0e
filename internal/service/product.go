package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/haimng/Bestopia/internal/domain"
	"github.com/haimng/Bestopia/internal/event"
	"github.com/haimng/Bestopia/internal/repository"
	apperrors "github.com/haimng/Bestopia/pkg/errors"
)

// ProductService implements the admin operations on individual products.
type ProductService struct {
	products repository.ProductRepository
	finder   ProductFinder
	producer *event.Producer
	logger   *slog.Logger
}

// NewProductService creates a new product service. finder and producer may
// be nil.
func NewProductService(
	products repository.ProductRepository,
	finder ProductFinder,
	producer *event.Producer,
	logger *slog.Logger,
) *ProductService {
	return &ProductService{
		products: products,
		finder:   finder,
		producer: producer,
		logger:   logger,
	}
}

// List returns products ordered newest-first along with the total count.
func (s *ProductService) List(ctx context.Context, page, perPage int) ([]domain.Product, int, error) {
	page, perPage = normalizePage(page, perPage)
	return s.products.List(ctx, page, perPage)
}

// GetByID retrieves a single product.
func (s *ProductService) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	return s.products.GetByID(ctx, id)
}

// UpdateProductInput holds the editable fields of a product.
type UpdateProductInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
	ProductPage string `json:"product_page"`
}

// Update edits a product's fields.
func (s *ProductService) Update(ctx context.Context, id int64, input UpdateProductInput) (*domain.Product, error) {
	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return nil, apperrors.InvalidInput("name is required")
	}

	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	product.Name = input.Name
	product.Description = strings.TrimSpace(input.Description)
	product.ImageURL = strings.TrimSpace(input.ImageURL)
	product.ProductPage = strings.TrimSpace(input.ProductPage)
	product.UpdatedAt = time.Now().UTC()

	if err := s.products.Update(ctx, product); err != nil {
		return nil, err
	}

	s.publishUpdated(ctx, product)

	return product, nil
}

// Enrich re-runs the store lookup for one product and overwrites its image
// and page URLs.
func (s *ProductService) Enrich(ctx context.Context, id int64) (*domain.Product, error) {
	if s.finder == nil {
		return nil, apperrors.Unavailable("product lookup is not configured")
	}

	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	imageURL, productPage, err := s.finder.FindProduct(ctx, product.Name)
	if err != nil {
		s.logger.WarnContext(ctx, "product enrichment failed",
			slog.Int64("product_id", id),
			slog.String("error", err.Error()),
		)
		return nil, apperrors.Unavailable("product lookup failed")
	}

	if err := s.products.UpdateEnrichment(ctx, id, imageURL, productPage); err != nil {
		return nil, err
	}
	product.ImageURL = imageURL
	product.ProductPage = productPage
	product.UpdatedAt = time.Now().UTC()

	s.publishUpdated(ctx, product)

	return product, nil
}

func (s *ProductService) publishUpdated(ctx context.Context, product *domain.Product) {
	if s.producer == nil {
		return
	}
	if err := s.producer.PublishProductUpdated(ctx, product); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish product.updated event",
			slog.Int64("product_id", product.ID),
			slog.String("error", err.Error()),
		)
	}
}
