package http

import (
	"log/slog"
	"net/http"

	"github.com/haimng/Bestopia/internal/service"
	"github.com/haimng/Bestopia/pkg/httputil"
	"github.com/haimng/Bestopia/pkg/validator"
)

// ComparisonHandler handles HTTP requests for the comparison table endpoints.
type ComparisonHandler struct {
	comparisons *service.ComparisonService
	logger      *slog.Logger
}

// NewComparisonHandler creates a new comparison HTTP handler.
func NewComparisonHandler(comparisons *service.ComparisonService, logger *slog.Logger) *ComparisonHandler {
	return &ComparisonHandler{
		comparisons: comparisons,
		logger:      logger,
	}
}

// SaveComparisonsRequest is the JSON request body for upserting comparison
// points from a positional TSV table. Header columns after the first map to
// product_ids by position.
type SaveComparisonsRequest struct {
	ProductIDs     []int64 `json:"product_ids" validate:"required,min=1,dive,gt=0"`
	ComparisonsTSV string  `json:"comparisons_tsv" validate:"required"`
}

// Save handles POST /api/v1/admin/comparisons.
func (h *ComparisonHandler) Save(w http.ResponseWriter, r *http.Request) {
	var req SaveComparisonsRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	saved, err := h.comparisons.Save(r.Context(), service.SaveComparisonsInput{
		ProductIDs:     req.ProductIDs,
		ComparisonsTSV: req.ComparisonsTSV,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]int{"saved": saved}})
}
