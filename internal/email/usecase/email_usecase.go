package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	emaildomain "coldmail-backend/internal/email/domain"
	"coldmail-backend/internal/email/dto"
	"coldmail-backend/internal/email/repository"
	ratelimitdomain "coldmail-backend/internal/ratelimit/domain"
	ratelimitusecase "coldmail-backend/internal/ratelimit/usecase"
	"coldmail-backend/pkg/ai"
	"coldmail-backend/pkg/metrics"
)

// emailUsecase implements EmailUsecase interface
type emailUsecase struct {
	archive  repository.EmailArchive
	limiter  ratelimitusecase.RateLimitUsecase
	composer *Composer
	metrics  *metrics.Recorder
	logger   *slog.Logger
	now      func() time.Time
}

// NewEmailUsecase creates a new EmailUsecase. rec may be nil.
func NewEmailUsecase(archive repository.EmailArchive, limiter ratelimitusecase.RateLimitUsecase, composer *Composer, rec *metrics.Recorder) EmailUsecase {
	return &emailUsecase{
		archive:  archive,
		limiter:  limiter,
		composer: composer,
		metrics:  rec,
		logger:   slog.Default(),
		now:      time.Now,
	}
}

func (u *emailUsecase) GenerateEmail(ctx context.Context, req *emaildomain.GenerationRequest, sessionID string) (*dto.GenerateEmailResponse, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	decision := u.limiter.Acquire(ctx, sessionID)
	if !decision.Allowed {
		u.metrics.RateLimited(string(decision.Window))
		return nil, ratelimitdomain.NewRateLimitError(decision)
	}

	start := time.Now()
	text, err := u.composer.Compose(ctx, req)
	u.metrics.ObserveGeneration(time.Since(start))
	if err != nil {
		provider := u.composer.generator.Provider()
		var ge *ai.GenerationError
		if errors.As(err, &ge) {
			provider = ge.Provider
		}
		u.metrics.GenerationFailed(string(provider))
		u.logger.Error("[Email] generation failed",
			"session_id", sessionID,
			"provider", provider,
			"error", err,
		)
		return nil, err
	}

	id := u.archive.Append(&emaildomain.GeneratedEmail{
		Date:      u.now().Format(emaildomain.DateLayout),
		Recipient: req.PersonName,
		Company:   req.TargetCompany,
		Subject:   req.EmailSubject,
		Content:   text,
	})
	u.metrics.EmailGenerated()
	u.logger.Info("[Email] generated",
		"id", id,
		"company", req.TargetCompany,
		"daily_count", decision.DailyCount,
		"hourly_count", decision.HourlyCount,
	)

	return &dto.GenerateEmailResponse{
		EmailText: text,
		Subject:   req.EmailSubject,
	}, nil
}

func (u *emailUsecase) ListSavedEmails(limit, offset int) []*emaildomain.GeneratedEmail {
	return u.archive.List(limit, offset)
}

func (u *emailUsecase) DeleteEmail(id string) error {
	if !u.archive.Delete(id) {
		return emaildomain.ErrEmailNotFound
	}
	return nil
}

func (u *emailUsecase) GetAnalytics() *dto.AnalyticsResponse {
	return Aggregate(u.archive.Snapshot(), u.now())
}
