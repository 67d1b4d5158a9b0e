package http

import (
	"log/slog"
	"net/http"

	"github.com/haimng/Bestopia/internal/service"
	"github.com/haimng/Bestopia/pkg/httputil"
	"github.com/haimng/Bestopia/pkg/validator"
)

// SupportHandler handles HTTP requests for the public contact form.
type SupportHandler struct {
	support *service.SupportService
	logger  *slog.Logger
}

// NewSupportHandler creates a new support HTTP handler.
func NewSupportHandler(support *service.SupportService, logger *slog.Logger) *SupportHandler {
	return &SupportHandler{
		support: support,
		logger:  logger,
	}
}

// CreateSupportRequest is the JSON request body for a contact-form submission.
type CreateSupportRequest struct {
	Email   string `json:"email" validate:"required,email"`
	Message string `json:"message" validate:"required,max=10000"`
}

// Create handles POST /api/v1/support.
func (h *SupportHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateSupportRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	request, err := h.support.Create(r.Context(), service.CreateSupportRequestInput{
		Email:   req.Email,
		Message: req.Message,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: request})
}
