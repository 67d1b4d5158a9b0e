package service

import (
	"context"
	"log/slog"

	"github.com/haimng/Bestopia/internal/domain"
	"github.com/haimng/Bestopia/internal/repository"
	"github.com/haimng/Bestopia/internal/tsv"
	apperrors "github.com/haimng/Bestopia/pkg/errors"
)

// ComparisonService ingests the aspect-by-product comparison table for a
// review from drafted TSV.
type ComparisonService struct {
	comparisons repository.ComparisonRepository
	logger      *slog.Logger
}

// NewComparisonService creates a new comparison service.
func NewComparisonService(comparisons repository.ComparisonRepository, logger *slog.Logger) *ComparisonService {
	return &ComparisonService{
		comparisons: comparisons,
		logger:      logger,
	}
}

// SaveComparisonsInput holds a comparison TSV and the ids of the products its
// columns describe.
type SaveComparisonsInput struct {
	ProductIDs     []int64 `json:"product_ids"`
	ComparisonsTSV string  `json:"comparisons_tsv"`
}

// Save parses a TSV whose first column is the aspect and whose remaining
// columns line up positionally with ProductIDs, then upserts one comparison
// point per (product, aspect) cell. Drafted column headers are placeholders;
// only their position matters.
func (s *ComparisonService) Save(ctx context.Context, input SaveComparisonsInput) (int, error) {
	if len(input.ProductIDs) == 0 {
		return 0, apperrors.InvalidInput("product_ids is required")
	}
	rows := tsv.ParseColumns(input.ComparisonsTSV)
	if len(rows) == 0 {
		return 0, apperrors.InvalidInput("comparisons must contain a header row and at least one data row")
	}

	var comparisons []domain.ProductComparison
	for _, row := range rows {
		if len(row) == 0 || row[0] == "" {
			continue
		}
		aspect := row[0]
		for col := 1; col < len(row); col++ {
			if col-1 >= len(input.ProductIDs) {
				break
			}
			comparisons = append(comparisons, domain.ProductComparison{
				ProductID:       input.ProductIDs[col-1],
				Aspect:          aspect,
				ComparisonPoint: row[col],
			})
		}
	}

	if len(comparisons) == 0 {
		return 0, apperrors.InvalidInput("comparisons contain no data cells")
	}

	if err := s.comparisons.Upsert(ctx, comparisons); err != nil {
		return 0, err
	}

	s.logger.InfoContext(ctx, "product comparisons saved",
		slog.Int("cells", len(comparisons)),
		slog.Int("products", len(input.ProductIDs)),
	)

	return len(comparisons), nil
}
