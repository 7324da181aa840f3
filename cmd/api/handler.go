package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"slices"
	"time"

	emailDelivery "coldmail-backend/internal/email/delivery"
	emailUsecasePkg "coldmail-backend/internal/email/usecase"
	rateLimitDelivery "coldmail-backend/internal/ratelimit/delivery"
	rateLimitUsecasePkg "coldmail-backend/internal/ratelimit/usecase"
	"coldmail-backend/pkg/ai"
	"coldmail-backend/pkg/config"
	"coldmail-backend/pkg/logger"
	"coldmail-backend/pkg/metrics"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	config           *config.Config
	metrics          *metrics.Recorder
	logger           *slog.Logger
	emailHandler     *emailDelivery.EmailHandler
	rateLimitHandler *rateLimitDelivery.RateLimitHandler
	settingsHandler  *SettingsHandler
	burstGuard       *rateLimitDelivery.BurstGuard
}

func NewHandler(cfg *config.Config, emailUc emailUsecasePkg.EmailUsecase, rateLimitUc rateLimitUsecasePkg.RateLimitUsecase, generator ai.TextGenerator, rec *metrics.Recorder) *Handler {
	sessions := rateLimitDelivery.NewSessionResolver(cfg.AnonymousSessionMode)

	var guard *rateLimitDelivery.BurstGuard
	if cfg.BurstRPS > 0 {
		guard = rateLimitDelivery.NewBurstGuard(cfg.BurstRPS, cfg.Burst)
	} else {
		slog.Warn("[HTTP] burst guard disabled")
	}

	return &Handler{
		config:           cfg,
		metrics:          rec,
		logger:           slog.Default(),
		emailHandler:     emailDelivery.NewEmailHandler(emailUc, sessions),
		rateLimitHandler: rateLimitDelivery.NewRateLimitHandler(rateLimitUc, sessions),
		settingsHandler:  NewSettingsHandler(cfg, generator),
		burstGuard:       guard,
	}
}

// Router builds the gin engine with middleware and every route.
func (h *Handler) Router() *gin.Engine {
	r := gin.New()
	if err := r.SetTrustedProxies(h.config.TrustedProxies); err != nil {
		h.logger.Error("[HTTP] invalid trusted proxies, ignoring forwarding headers", "error", err)
		_ = r.SetTrustedProxies(nil)
	}
	r.Use(gin.Recovery())
	r.Use(logger.Middleware(h.logger))
	if h.metrics != nil {
		r.Use(h.metrics.Middleware())
	}
	r.Use(corsMiddleware(h.config.AllowedOrigins))

	SetupRoutes(r, h)
	return r
}

// Start serves on addr until ctx is cancelled, then shuts down gracefully.
func (h *Handler) Start(ctx context.Context, addr string) error {
	gin.SetMode(gin.ReleaseMode)

	if h.burstGuard != nil {
		h.burstGuard.StartJanitor(ctx, 2*time.Minute)
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           h.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		h.logger.Info("[HTTP] server starting", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	h.logger.Info("[HTTP] shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}

// corsMiddleware allows the configured origins; "*" allows any origin.
func corsMiddleware(allowed []string) gin.HandlerFunc {
	allowAll := slices.Contains(allowed, "*")
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin != "" && (allowAll || slices.Contains(allowed, origin)) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
			c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
			c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, DELETE")
			c.Writer.Header().Add("Vary", "Origin")
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
