package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haimng/Bestopia/internal/domain"
	apperrors "github.com/haimng/Bestopia/pkg/errors"
)

func TestProductService_Update(t *testing.T) {
	products := new(mockProductRepository)
	svc := NewProductService(products, nil, nil, newTestLogger())
	ctx := context.Background()

	existing := &domain.Product{ID: 101, ReviewID: 42, Name: "Mouse A"}
	products.On("GetByID", ctx, int64(101)).Return(existing, nil)
	products.On("Update", ctx, existing).Return(nil)

	updated, err := svc.Update(ctx, 101, UpdateProductInput{
		Name:        " Mouse A Pro ",
		Description: "Updated description",
	})
	require.NoError(t, err)

	assert.Equal(t, "Mouse A Pro", updated.Name)
	assert.Equal(t, "Updated description", updated.Description)
	products.AssertExpectations(t)
}

func TestProductService_Update_RequiresName(t *testing.T) {
	svc := NewProductService(new(mockProductRepository), nil, nil, newTestLogger())

	_, err := svc.Update(context.Background(), 101, UpdateProductInput{Name: "  "})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestProductService_Enrich(t *testing.T) {
	products := new(mockProductRepository)
	finder := new(mockFinder)
	svc := NewProductService(products, finder, nil, newTestLogger())
	ctx := context.Background()

	products.On("GetByID", ctx, int64(101)).Return(&domain.Product{ID: 101, Name: "Mouse A"}, nil)
	finder.On("FindProduct", ctx, "Mouse A").Return("https://img/a.jpg", "https://store/a", nil)
	products.On("UpdateEnrichment", ctx, int64(101), "https://img/a.jpg", "https://store/a").Return(nil)

	p, err := svc.Enrich(ctx, 101)
	require.NoError(t, err)

	assert.Equal(t, "https://img/a.jpg", p.ImageURL)
	assert.Equal(t, "https://store/a", p.ProductPage)
}

func TestProductService_Enrich_LookupFailure(t *testing.T) {
	products := new(mockProductRepository)
	finder := new(mockFinder)
	svc := NewProductService(products, finder, nil, newTestLogger())
	ctx := context.Background()

	products.On("GetByID", ctx, int64(101)).Return(&domain.Product{ID: 101, Name: "Mouse A"}, nil)
	finder.On("FindProduct", ctx, "Mouse A").Return("", "", errors.New("no products found"))

	_, err := svc.Enrich(ctx, 101)
	assert.ErrorIs(t, err, apperrors.ErrServiceUnavail)
}

func TestProductService_Enrich_NotConfigured(t *testing.T) {
	svc := NewProductService(new(mockProductRepository), nil, nil, newTestLogger())

	_, err := svc.Enrich(context.Background(), 101)
	assert.ErrorIs(t, err, apperrors.ErrServiceUnavail)
}
