package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"coldmail-backend/internal/ratelimit/domain"
	"coldmail-backend/internal/ratelimit/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func newClock() *fakeClock {
	return &fakeClock{t: time.Date(2025, 3, 9, 9, 0, 0, 0, time.UTC)}
}

type failingStore struct {
	loadErr error
	saves   int
}

func (s *failingStore) Load(context.Context) (*domain.Tables, error) {
	return nil, s.loadErr
}

func (s *failingStore) Save(context.Context, *domain.Tables) error {
	s.saves++
	return nil
}

func (s *failingStore) Close() error { return nil }

func TestCheckIncrement_HourlyLimit(t *testing.T) {
	ctx := context.Background()
	clock := newClock()
	rl := NewRateLimitUsecase(repository.NewMemoryStore(), domain.DefaultPolicy(), WithClock(clock.Now))

	for i := 0; i < 5; i++ {
		d := rl.Check(ctx, "s")
		require.True(t, d.Allowed, "request %d", i+1)
		require.NoError(t, rl.Increment(ctx, "s"))
	}

	d := rl.Check(ctx, "s")
	assert.False(t, d.Allowed)
	assert.Equal(t, domain.HourlyLimitMessage, d.Reason)

	// next clock hour resets the hourly bucket
	clock.Advance(time.Hour)
	assert.True(t, rl.Check(ctx, "s").Allowed)
}

func TestAcquire_DailyLimit(t *testing.T) {
	ctx := context.Background()
	clock := newClock()
	rl := NewRateLimitUsecase(repository.NewMemoryStore(), domain.DefaultPolicy(), WithClock(clock.Now))

	allowed := 0
	for hour := 0; hour < 4; hour++ {
		for i := 0; i < 5; i++ {
			if rl.Acquire(ctx, "s").Allowed {
				allowed++
			}
		}
		clock.Advance(time.Hour)
	}
	assert.Equal(t, 15, allowed)

	d := rl.Acquire(ctx, "s")
	assert.False(t, d.Allowed)
	assert.Equal(t, domain.DailyLimitMessage, d.Reason)
	assert.Equal(t, domain.WindowDaily, d.Window)

	u := rl.Usage(ctx, "s")
	assert.Equal(t, 15, u.DailyCount)
	assert.Equal(t, 0, u.DailyRemaining)
	assert.Equal(t, 5, u.HourlyRemaining)
}

func TestAcquire_SessionsAreIndependent(t *testing.T) {
	ctx := context.Background()
	rl := NewRateLimitUsecase(repository.NewMemoryStore(), domain.DefaultPolicy(), WithClock(newClock().Now))

	for i := 0; i < 5; i++ {
		require.True(t, rl.Acquire(ctx, "a").Allowed)
	}
	assert.False(t, rl.Acquire(ctx, "a").Allowed)
	assert.True(t, rl.Acquire(ctx, "b").Allowed)
}

func TestAcquire_DeniedDoesNotCount(t *testing.T) {
	ctx := context.Background()
	rl := NewRateLimitUsecase(repository.NewMemoryStore(), domain.DefaultPolicy(), WithClock(newClock().Now))

	for i := 0; i < 8; i++ {
		rl.Acquire(ctx, "s")
	}
	assert.Equal(t, 5, rl.Usage(ctx, "s").HourlyCount)
}

func TestCheck_PrunesAndPersists(t *testing.T) {
	ctx := context.Background()
	clock := newClock()
	store := repository.NewMemoryStore()

	stale := domain.NewTables()
	stale.Daily["2025-03-07"] = map[string]int{"s": 15}
	stale.Hourly["2025-03-09-07"] = map[string]int{"s": 5}
	require.NoError(t, store.Save(ctx, stale))

	rl := NewRateLimitUsecase(store, domain.DefaultPolicy(), WithClock(clock.Now))
	assert.True(t, rl.Check(ctx, "s").Allowed)

	persisted, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, persisted.Daily)
	assert.Empty(t, persisted.Hourly)
}

func TestAcquire_Concurrent(t *testing.T) {
	ctx := context.Background()
	rl := NewRateLimitUsecase(repository.NewMemoryStore(), domain.Policy{DailyLimit: 100, HourlyLimit: 20}, WithClock(newClock().Now))

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		allowed int
	)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if rl.Acquire(ctx, "s").Allowed {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 20, allowed)
	assert.Equal(t, 20, rl.Usage(ctx, "s").HourlyCount)
}

func TestLoadFailure(t *testing.T) {
	ctx := context.Background()
	store := &failingStore{loadErr: errors.New("connection refused")}
	rl := NewRateLimitUsecase(store, domain.DefaultPolicy(), WithClock(newClock().Now))

	assert.True(t, rl.Acquire(ctx, "s").Allowed)
	assert.Equal(t, 0, store.saves, "must not overwrite counters it could not read")
	assert.Error(t, rl.Increment(ctx, "s"))
}

func TestPrune(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	stale := domain.NewTables()
	stale.Daily["2025-03-01"] = map[string]int{"s": 1}
	stale.Daily["2025-03-09"] = map[string]int{"s": 1}
	require.NoError(t, store.Save(ctx, stale))

	rl := NewRateLimitUsecase(store, domain.DefaultPolicy(), WithClock(newClock().Now))
	removed, err := rl.Prune(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	removed, err = rl.Prune(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, removed)
}
