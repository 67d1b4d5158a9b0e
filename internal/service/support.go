package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/haimng/Bestopia/internal/domain"
	"github.com/haimng/Bestopia/internal/repository"
	apperrors "github.com/haimng/Bestopia/pkg/errors"
)

// SupportService stores contact-form submissions.
type SupportService struct {
	requests repository.SupportRepository
	logger   *slog.Logger
}

// NewSupportService creates a new support service.
func NewSupportService(requests repository.SupportRepository, logger *slog.Logger) *SupportService {
	return &SupportService{
		requests: requests,
		logger:   logger,
	}
}

// CreateSupportRequestInput holds a contact-form submission.
type CreateSupportRequestInput struct {
	Email   string `json:"email" validate:"required,email"`
	Message string `json:"message" validate:"required,max=5000"`
}

// Create stores a support request.
func (s *SupportService) Create(ctx context.Context, input CreateSupportRequestInput) (*domain.SupportRequest, error) {
	input.Message = strings.TrimSpace(input.Message)
	if input.Message == "" {
		return nil, apperrors.InvalidInput("message is required")
	}

	req := &domain.SupportRequest{
		Email:     strings.ToLower(strings.TrimSpace(input.Email)),
		Message:   input.Message,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.requests.Create(ctx, req); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "support request received", slog.Int64("id", req.ID))

	return req, nil
}
