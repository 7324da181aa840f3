package usecase

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"coldmail-backend/internal/ratelimit/domain"
	"coldmail-backend/internal/ratelimit/repository"
)

// rateLimitUsecase implements RateLimitUsecase. Every load-modify-save sequence
// runs under mu so concurrent requests in one process cannot lose updates.
type rateLimitUsecase struct {
	store  repository.Store
	policy domain.Policy
	logger *slog.Logger
	now    func() time.Time

	mu sync.Mutex
}

// Option customises the limiter.
type Option func(*rateLimitUsecase)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(u *rateLimitUsecase) { u.now = now }
}

// WithLogger sets the logger, slog.Default otherwise.
func WithLogger(l *slog.Logger) Option {
	return func(u *rateLimitUsecase) { u.logger = l }
}

// NewRateLimitUsecase creates a limiter over store with the given policy.
func NewRateLimitUsecase(store repository.Store, policy domain.Policy, opts ...Option) RateLimitUsecase {
	u := &rateLimitUsecase{
		store:  store,
		policy: policy,
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

func (u *rateLimitUsecase) Check(ctx context.Context, sessionID string) domain.Decision {
	u.mu.Lock()
	defer u.mu.Unlock()

	now := u.now()
	tables, ok := u.load(ctx)
	if tables.Prune(now) > 0 && ok {
		u.save(ctx, tables)
	}
	return u.policy.Decide(tables, sessionID, now)
}

func (u *rateLimitUsecase) Increment(ctx context.Context, sessionID string) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	now := u.now()
	tables, err := u.store.Load(ctx)
	if err != nil {
		return err
	}
	tables.Normalize()
	tables.Prune(now)
	tables.Daily.Increment(domain.WindowDaily.Label(now), sessionID)
	tables.Hourly.Increment(domain.WindowHourly.Label(now), sessionID)
	return u.store.Save(ctx, tables)
}

func (u *rateLimitUsecase) Acquire(ctx context.Context, sessionID string) domain.Decision {
	u.mu.Lock()
	defer u.mu.Unlock()

	now := u.now()
	tables, ok := u.load(ctx)
	tables.Prune(now)

	d := u.policy.Decide(tables, sessionID, now)
	if d.Allowed {
		d.DailyCount = tables.Daily.Increment(domain.WindowDaily.Label(now), sessionID)
		d.HourlyCount = tables.Hourly.Increment(domain.WindowHourly.Label(now), sessionID)
	} else {
		u.logger.Info("[RateLimit] request denied",
			"session_id", sessionID,
			"window", d.Window,
			"daily_count", d.DailyCount,
			"hourly_count", d.HourlyCount,
		)
	}
	if ok {
		u.save(ctx, tables)
	}
	return d
}

func (u *rateLimitUsecase) Usage(ctx context.Context, sessionID string) domain.Usage {
	u.mu.Lock()
	defer u.mu.Unlock()

	now := u.now()
	tables, _ := u.load(ctx)
	tables.Prune(now)
	return u.policy.Usage(tables, sessionID, now)
}

func (u *rateLimitUsecase) Prune(ctx context.Context) (int, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	tables, err := u.store.Load(ctx)
	if err != nil {
		return 0, err
	}
	removed := tables.Normalize().Prune(u.now())
	if removed == 0 {
		return 0, nil
	}
	return removed, u.store.Save(ctx, tables)
}

// load falls back to empty tables when the store fails. ok is false in that
// case and the caller must not save, or it would wipe the stored counters.
func (u *rateLimitUsecase) load(ctx context.Context) (tables *domain.Tables, ok bool) {
	tables, err := u.store.Load(ctx)
	if err != nil {
		u.logger.Error("[RateLimit] failed to load counters", "error", err)
		return domain.NewTables(), false
	}
	return tables.Normalize(), true
}

func (u *rateLimitUsecase) save(ctx context.Context, tables *domain.Tables) {
	if err := u.store.Save(ctx, tables); err != nil {
		u.logger.Error("[RateLimit] failed to save counters", "error", err)
	}
}
