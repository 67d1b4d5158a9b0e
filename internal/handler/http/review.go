package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/haimng/Bestopia/internal/domain"
	"github.com/haimng/Bestopia/internal/service"
	"github.com/haimng/Bestopia/pkg/httputil"
	"github.com/haimng/Bestopia/pkg/validator"
)

// ReviewHandler handles HTTP requests for review endpoints.
type ReviewHandler struct {
	reviews *service.ReviewService
	ingest  *service.IngestService
	logger  *slog.Logger
}

// NewReviewHandler creates a new review HTTP handler.
func NewReviewHandler(reviews *service.ReviewService, ingest *service.IngestService, logger *slog.Logger) *ReviewHandler {
	return &ReviewHandler{
		reviews: reviews,
		ingest:  ingest,
		logger:  logger,
	}
}

// --- Request DTOs ---

// CreateReviewRequest is the JSON request body for publishing a review from
// two TSV blocks.
type CreateReviewRequest struct {
	Title             string `json:"title" validate:"required,max=512"`
	Subtitle          string `json:"subtitle" validate:"max=1024"`
	Introduction      string `json:"introduction"`
	CoverPhoto        string `json:"cover_photo" validate:"omitempty,url"`
	Tags              string `json:"tags" validate:"max=512"`
	ProductDetailsTSV string `json:"product_details_tsv" validate:"required"`
	ProductReviewsTSV string `json:"product_reviews_tsv" validate:"required"`
	Gender            string `json:"gender" validate:"omitempty,oneof=all woman man"`
}

// UpdateReviewRequest is the JSON request body for editing review fields.
type UpdateReviewRequest struct {
	Title        string `json:"title" validate:"required,max=512"`
	Subtitle     string `json:"subtitle" validate:"max=1024"`
	Introduction string `json:"introduction"`
	CoverPhoto   string `json:"cover_photo" validate:"omitempty,url"`
	Tags         string `json:"tags" validate:"max=512"`
}

// --- Handlers ---

// Create handles POST /api/v1/admin/reviews.
func (h *ReviewHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateReviewRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	detail, err := h.ingest.IngestReview(r.Context(), service.IngestReviewInput{
		Title:             req.Title,
		Subtitle:          req.Subtitle,
		Introduction:      req.Introduction,
		CoverPhoto:        req.CoverPhoto,
		Tags:              req.Tags,
		ProductDetailsTSV: req.ProductDetailsTSV,
		ProductReviewsTSV: req.ProductReviewsTSV,
		Gender:            domain.GenderPreference(req.Gender),
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: detail})
}

// GetBySlug handles GET /api/v1/reviews/{slug}.
func (h *ReviewHandler) GetBySlug(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	if slug == "" {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "review slug is required"},
		})
		return
	}

	detail, err := h.reviews.GetBySlug(r.Context(), slug)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: detail})
}

// List handles GET /api/v1/reviews.
func (h *ReviewHandler) List(w http.ResponseWriter, r *http.Request) {
	page, perPage, ok := parsePaging(w, r)
	if !ok {
		return
	}

	reviews, total, err := h.reviews.List(r.Context(), page, perPage)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.NewPaginatedResponse(reviews, total, page, perPage))
}

// Search handles GET /api/v1/reviews/search?q=keyword.
func (h *ReviewHandler) Search(w http.ResponseWriter, r *http.Request) {
	page, perPage, ok := parsePaging(w, r)
	if !ok {
		return
	}

	reviews, total, err := h.reviews.Search(r.Context(), r.URL.Query().Get("q"), page, perPage)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.NewPaginatedResponse(reviews, total, page, perPage))
}

// ListByTag handles GET /api/v1/reviews/tag/{tag}.
func (h *ReviewHandler) ListByTag(w http.ResponseWriter, r *http.Request) {
	tag := chi.URLParam(r, "tag")
	if tag == "" {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "tag is required"},
		})
		return
	}

	reviews, err := h.reviews.ListByTag(r.Context(), tag)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: reviews})
}

// Random handles GET /api/v1/reviews/random.
func (h *ReviewHandler) Random(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.reviews.Random(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: reviews})
}

// Update handles PUT /api/v1/admin/reviews/{id}.
func (h *ReviewHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	var req UpdateReviewRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	review, err := h.reviews.Update(r.Context(), id, service.UpdateReviewInput{
		Title:        req.Title,
		Subtitle:     req.Subtitle,
		Introduction: req.Introduction,
		CoverPhoto:   req.CoverPhoto,
		Tags:         req.Tags,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: review})
}

// Delete handles DELETE /api/v1/admin/reviews/{id}.
func (h *ReviewHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	if err := h.reviews.Delete(r.Context(), id); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]any{"id": id, "status": "deleted"}})
}
