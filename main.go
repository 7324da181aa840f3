// Command coldmail serves the cold email generator API.
//
// Usage:
//
//	coldmail serve --config config.yaml
//	coldmail version
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	api "coldmail-backend/cmd/api"
	emailRepo "coldmail-backend/internal/email/repository"
	emailUsecase "coldmail-backend/internal/email/usecase"
	rateLimitDomain "coldmail-backend/internal/ratelimit/domain"
	rateLimitRepo "coldmail-backend/internal/ratelimit/repository"
	rateLimitScheduler "coldmail-backend/internal/ratelimit/scheduler"
	rateLimitUsecase "coldmail-backend/internal/ratelimit/usecase"
	"coldmail-backend/pkg/ai"
	"coldmail-backend/pkg/config"
	"coldmail-backend/pkg/logger"
	"coldmail-backend/pkg/metrics"

	"github.com/alecthomas/kong"
	"golang.org/x/sync/errgroup"
)

// CLI defines the command-line interface.
type CLI struct {
	Serve   ServeCmd   `cmd:"" default:"1" help:"Start the HTTP server."`
	Version VersionCmd `cmd:"" help:"Show version information."`

	Config   string `short:"c" help:"Path to config file (defaults to CONFIG_PATH or config.yaml)." type:"path"`
	LogLevel string `help:"Log level (debug, info, warn, error); overrides LOG_LEVEL."`
}

// VersionCmd shows version information.
type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	version := "dev"
	if info, ok := debug.ReadBuildInfo(); ok {
		if info.Main.Version != "(devel)" && info.Main.Version != "" {
			version = info.Main.Version
		}
	}
	fmt.Printf("coldmail version %s\n", version)
	return nil
}

// ServeCmd starts the HTTP server.
type ServeCmd struct {
	Port string `help:"Port to listen on; overrides PORT."`
}

func (c *ServeCmd) Run(cli *CLI) error {
	cfg, err := config.Load(cli.Config)
	if err != nil {
		return err
	}
	if cli.LogLevel != "" {
		cfg.LogLevel = cli.LogLevel
	}
	if c.Port != "" {
		cfg.Port = c.Port
	}
	logger.Init(cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Rate limiting
	store, err := rateLimitRepo.NewStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("rate limit store: %w", err)
	}
	limiter := rateLimitUsecase.NewRateLimitUsecase(store, rateLimitDomain.Policy{
		DailyLimit:  cfg.DailyLimit,
		HourlyLimit: cfg.HourlyLimit,
	})
	slog.Info("[RateLimit] store ready", "store", cfg.RateLimitStore, "daily", cfg.DailyLimit, "hourly", cfg.HourlyLimit)

	// Language model
	generator, err := ai.NewTextGenerator(ctx, ai.Config{
		Provider:      ai.ProviderType(cfg.AIProvider),
		Timeout:       cfg.AITimeout,
		OpenAIAPIKey:  cfg.OpenAIAPIKey,
		OpenAIBaseURL: cfg.OpenAIBaseURL,
		GeminiAPIKey:  cfg.GeminiAPIKey,
		OllamaBaseURL: cfg.OllamaBaseURL,
		OllamaModel:   cfg.OllamaModel,
	})
	if err != nil {
		store.Close()
		return fmt.Errorf("AI provider: %w", err)
	}
	slog.Info("[AI] provider initialized", "provider", generator.Provider(), "model", cfg.Model())

	rec := metrics.New()
	uc := emailUsecase.NewEmailUsecase(
		emailRepo.NewMemoryArchive(),
		limiter,
		emailUsecase.NewComposer(generator, cfg.Model()),
		rec,
	)
	handler := api.NewHandler(cfg, uc, limiter, generator, rec)

	if err := runServices(ctx, func(ctx context.Context) error {
		return handler.Start(ctx, ":"+cfg.Port)
	}, limiter, store); err != nil {
		return err
	}
	slog.Info("[HTTP] server stopped")
	return nil
}

// runServices runs the server and the prune scheduler until ctx is done.
// The store is closed only after both have returned.
func runServices(ctx context.Context, serve func(context.Context) error, limiter rateLimitUsecase.RateLimitUsecase, store rateLimitRepo.Store) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return serve(gctx)
	})
	g.Go(func() error {
		return rateLimitScheduler.NewPruneScheduler(limiter, 10*time.Minute).Run(gctx)
	})

	err := g.Wait()
	if cerr := store.Close(); cerr != nil {
		slog.Error("[RateLimit] failed to close store", "error", cerr)
		err = errors.Join(err, cerr)
	}
	return err
}
