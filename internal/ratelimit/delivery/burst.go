package delivery

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// BurstGuard is a per-client-IP token bucket that sits in front of the quota
// limiter and rejects request floods before they reach the LLM.
type BurstGuard struct {
	mu      sync.Mutex
	entries map[string]*burstEntry
	rps     rate.Limit
	burst   int
	idleTTL time.Duration
	now     func() time.Time
}

type burstEntry struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

// NewBurstGuard creates a guard allowing rps sustained requests with the given burst per IP.
func NewBurstGuard(rps float64, burst int) *BurstGuard {
	if burst <= 0 {
		burst = 1
	}
	return &BurstGuard{
		entries: make(map[string]*burstEntry),
		rps:     rate.Limit(rps),
		burst:   burst,
		idleTTL: 15 * time.Minute,
		now:     time.Now,
	}
}

func (g *BurstGuard) limiter(key string) *rate.Limiter {
	now := g.now()

	g.mu.Lock()
	defer g.mu.Unlock()

	if ent, ok := g.entries[key]; ok {
		ent.lastSeen = now
		return ent.lim
	}
	lim := rate.NewLimiter(g.rps, g.burst)
	g.entries[key] = &burstEntry{lim: lim, lastSeen: now}
	return lim
}

// Cleanup forgets clients idle for longer than the idle TTL.
func (g *BurstGuard) Cleanup() {
	cutoff := g.now().Add(-g.idleTTL)

	g.mu.Lock()
	defer g.mu.Unlock()

	for k, ent := range g.entries {
		if ent.lastSeen.Before(cutoff) {
			delete(g.entries, k)
		}
	}
}

// StartJanitor runs Cleanup every interval until ctx is cancelled.
func (g *BurstGuard) StartJanitor(ctx context.Context, every time.Duration) {
	if every <= 0 {
		return
	}
	t := time.NewTicker(every)
	go func() {
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				g.Cleanup()
			}
		}
	}()
}

// Middleware rejects with 429 and a Retry-After header when the client's bucket is empty.
func (g *BurstGuard) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		lim := g.limiter(c.ClientIP())
		res := lim.ReserveN(g.now(), 1)
		if !res.OK() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"detail": "Too many requests"})
			return
		}
		if delay := res.DelayFrom(g.now()); delay > 0 {
			res.CancelAt(g.now())
			c.Header("Retry-After", strconv.Itoa(int(math.Ceil(delay.Seconds()))))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"detail": "Too many requests"})
			return
		}
		c.Next()
	}
}
