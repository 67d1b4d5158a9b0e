package http

import (
	"log/slog"
	"net/http"

	"github.com/haimng/Bestopia/internal/service"
	"github.com/haimng/Bestopia/pkg/httputil"
	"github.com/haimng/Bestopia/pkg/validator"
)

// DraftHandler handles HTTP requests for review drafting.
type DraftHandler struct {
	drafts *service.DraftService
	logger *slog.Logger
}

// NewDraftHandler creates a new draft HTTP handler.
func NewDraftHandler(drafts *service.DraftService, logger *slog.Logger) *DraftHandler {
	return &DraftHandler{
		drafts: drafts,
		logger: logger,
	}
}

// DraftReviewRequest is the JSON request body for drafting a review.
type DraftReviewRequest struct {
	Category string `json:"category" validate:"required,max=256"`
	Gender   string `json:"gender" validate:"omitempty,oneof=all woman man"`
}

// draftReviewResponse echoes the requested gender so the admin UI can forward
// the draft to the create-review endpoint unchanged.
type draftReviewResponse struct {
	*service.DraftReview
	Gender string `json:"gender"`
}

// Draft handles POST /api/v1/admin/drafts. Nothing is persisted; the response
// carries the TSV blocks that the create-review endpoint accepts as-is.
func (h *DraftHandler) Draft(w http.ResponseWriter, r *http.Request) {
	var req DraftReviewRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	draft, err := h.drafts.Draft(r.Context(), req.Category)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	gender := req.Gender
	if gender == "" {
		gender = "all"
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: draftReviewResponse{
		DraftReview: draft,
		Gender:      gender,
	}})
}
