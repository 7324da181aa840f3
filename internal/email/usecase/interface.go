package usecase

import (
	"context"

	emaildomain "coldmail-backend/internal/email/domain"
	"coldmail-backend/internal/email/dto"
)

// EmailUsecase defines the interface for email use cases
type EmailUsecase interface {
	// GenerateEmail validates req, spends one unit of the session's quota and
	// archives the generated email.
	GenerateEmail(ctx context.Context, req *emaildomain.GenerationRequest, sessionID string) (*dto.GenerateEmailResponse, error)
	ListSavedEmails(limit, offset int) []*emaildomain.GeneratedEmail
	DeleteEmail(id string) error
	GetAnalytics() *dto.AnalyticsResponse
}
