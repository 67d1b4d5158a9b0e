package service

import (
	"context"
	"log/slog"
	"os"

	"github.com/stretchr/testify/mock"

	"github.com/haimng/Bestopia/internal/domain"
)

// --- Mock Repositories ---

type mockReviewRepository struct {
	mock.Mock
}

func (m *mockReviewRepository) CreateTree(ctx context.Context, review *domain.Review, products []domain.Product, opinions []*domain.ProductReview) error {
	args := m.Called(ctx, review, products, opinions)
	return args.Error(0)
}

func (m *mockReviewRepository) GetByID(ctx context.Context, id int64) (*domain.Review, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Review), args.Error(1)
}

func (m *mockReviewRepository) GetBySlug(ctx context.Context, slug string) (*domain.Review, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Review), args.Error(1)
}

func (m *mockReviewRepository) List(ctx context.Context, page, perPage int) ([]domain.Review, int, error) {
	args := m.Called(ctx, page, perPage)
	return args.Get(0).([]domain.Review), args.Int(1), args.Error(2)
}

func (m *mockReviewRepository) ListByTag(ctx context.Context, tag string) ([]domain.Review, error) {
	args := m.Called(ctx, tag)
	return args.Get(0).([]domain.Review), args.Error(1)
}

func (m *mockReviewRepository) Random(ctx context.Context, limit int) ([]domain.Review, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]domain.Review), args.Error(1)
}

func (m *mockReviewRepository) Search(ctx context.Context, keyword string, page, perPage int) ([]domain.Review, int, error) {
	args := m.Called(ctx, keyword, page, perPage)
	return args.Get(0).([]domain.Review), args.Int(1), args.Error(2)
}

func (m *mockReviewRepository) Slugs(ctx context.Context, limit int) ([]string, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]string), args.Error(1)
}

func (m *mockReviewRepository) Update(ctx context.Context, review *domain.Review) error {
	args := m.Called(ctx, review)
	return args.Error(0)
}

func (m *mockReviewRepository) UpdateCoverPhoto(ctx context.Context, id int64, coverPhoto string) error {
	args := m.Called(ctx, id, coverPhoto)
	return args.Error(0)
}

func (m *mockReviewRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type mockProductRepository struct {
	mock.Mock
}

func (m *mockProductRepository) ListByReviewID(ctx context.Context, reviewID int64) ([]domain.Product, error) {
	args := m.Called(ctx, reviewID)
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (m *mockProductRepository) List(ctx context.Context, page, perPage int) ([]domain.Product, int, error) {
	args := m.Called(ctx, page, perPage)
	return args.Get(0).([]domain.Product), args.Int(1), args.Error(2)
}

func (m *mockProductRepository) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *mockProductRepository) Update(ctx context.Context, product *domain.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *mockProductRepository) UpdateEnrichment(ctx context.Context, id int64, imageURL, productPage string) error {
	args := m.Called(ctx, id, imageURL, productPage)
	return args.Error(0)
}

type mockProductReviewRepository struct {
	mock.Mock
}

func (m *mockProductReviewRepository) ListByProductID(ctx context.Context, productID int64) ([]domain.ProductReview, error) {
	args := m.Called(ctx, productID)
	return args.Get(0).([]domain.ProductReview), args.Error(1)
}

type mockComparisonRepository struct {
	mock.Mock
}

func (m *mockComparisonRepository) Upsert(ctx context.Context, comparisons []domain.ProductComparison) error {
	args := m.Called(ctx, comparisons)
	return args.Error(0)
}

func (m *mockComparisonRepository) ListByReviewID(ctx context.Context, reviewID int64) ([]domain.ProductComparison, error) {
	args := m.Called(ctx, reviewID)
	return args.Get(0).([]domain.ProductComparison), args.Error(1)
}

type mockUserRepository struct {
	mock.Mock
}

func (m *mockUserRepository) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *mockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

type mockSupportRepository struct {
	mock.Mock
}

func (m *mockSupportRepository) Create(ctx context.Context, req *domain.SupportRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

// --- Mock Collaborators ---

type mockFinder struct {
	mock.Mock
}

func (m *mockFinder) FindProduct(ctx context.Context, name string) (string, string, error) {
	args := m.Called(ctx, name)
	return args.String(0), args.String(1), args.Error(2)
}

type mockGenerator struct {
	mock.Mock
}

func (m *mockGenerator) Complete(ctx context.Context, model, prompt string) (string, error) {
	args := m.Called(ctx, model, prompt)
	return args.String(0), args.Error(1)
}

type mockCache struct {
	mock.Mock
}

func (m *mockCache) GetRandom(ctx context.Context) ([]domain.Review, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Review), args.Error(1)
}

func (m *mockCache) SetRandom(ctx context.Context, reviews []domain.Review) error {
	args := m.Called(ctx, reviews)
	return args.Error(0)
}

func (m *mockCache) GetSlugs(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *mockCache) SetSlugs(ctx context.Context, slugs []string) error {
	args := m.Called(ctx, slugs)
	return args.Error(0)
}

func (m *mockCache) Invalidate(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// --- Test Helpers ---

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}
