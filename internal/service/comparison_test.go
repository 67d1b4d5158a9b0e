package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/haimng/Bestopia/internal/domain"
	apperrors "github.com/haimng/Bestopia/pkg/errors"
)

const comparisonsTSV = "aspect\tproduct1\tproduct2\tproduct3\n" +
	"Display\t6.8\" AMOLED\t6.7\" OLED\t6.5\" LCD\n" +
	"Battery\t70 days\t11 hours\t2 days"

func TestComparisonService_Save_SubstitutesProductIDsByPosition(t *testing.T) {
	comparisons := new(mockComparisonRepository)
	svc := NewComparisonService(comparisons, newTestLogger())
	ctx := context.Background()

	var saved []domain.ProductComparison
	comparisons.On("Upsert", ctx, mock.Anything).
		Run(func(args mock.Arguments) {
			saved = args.Get(1).([]domain.ProductComparison)
		}).
		Return(nil)

	count, err := svc.Save(ctx, SaveComparisonsInput{
		ProductIDs:     []int64{101, 102, 103},
		ComparisonsTSV: comparisonsTSV,
	})
	require.NoError(t, err)
	assert.Equal(t, 6, count)

	require.Len(t, saved, 6)
	assert.Equal(t, domain.ProductComparison{ProductID: 101, Aspect: "Display", ComparisonPoint: `6.8" AMOLED`}, saved[0])
	assert.Equal(t, domain.ProductComparison{ProductID: 102, Aspect: "Display", ComparisonPoint: `6.7" OLED`}, saved[1])
	assert.Equal(t, domain.ProductComparison{ProductID: 103, Aspect: "Battery", ComparisonPoint: "2 days"}, saved[5])
}

func TestComparisonService_Save_ExtraColumnsBeyondIDsDropped(t *testing.T) {
	comparisons := new(mockComparisonRepository)
	svc := NewComparisonService(comparisons, newTestLogger())
	ctx := context.Background()

	var saved []domain.ProductComparison
	comparisons.On("Upsert", ctx, mock.Anything).
		Run(func(args mock.Arguments) {
			saved = args.Get(1).([]domain.ProductComparison)
		}).
		Return(nil)

	_, err := svc.Save(ctx, SaveComparisonsInput{
		ProductIDs:     []int64{101},
		ComparisonsTSV: comparisonsTSV,
	})
	require.NoError(t, err)

	require.Len(t, saved, 2)
	for _, c := range saved {
		assert.Equal(t, int64(101), c.ProductID)
	}
}

func TestComparisonService_Save_Validation(t *testing.T) {
	svc := NewComparisonService(new(mockComparisonRepository), newTestLogger())
	ctx := context.Background()

	_, err := svc.Save(ctx, SaveComparisonsInput{ComparisonsTSV: comparisonsTSV})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	_, err = svc.Save(ctx, SaveComparisonsInput{ProductIDs: []int64{101}, ComparisonsTSV: "aspect\tproduct1"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}
