package ai

import (
	"context"
	"fmt"
	"time"
)

// Config holds AI provider configuration
type Config struct {
	Provider ProviderType
	Timeout  time.Duration

	// OpenAI config
	OpenAIAPIKey  string
	OpenAIBaseURL string

	// Gemini config
	GeminiAPIKey  string
	GeminiBaseURL string

	// Ollama config
	OllamaBaseURL string // e.g., "http://localhost:11434"
	OllamaModel   string // e.g., "llama3", "mistral"
}

// NewTextGenerator creates a TextGenerator based on the config.
// Switch AI provider by changing config.Provider.
func NewTextGenerator(ctx context.Context, cfg Config) (TextGenerator, error) {
	switch cfg.Provider {
	case ProviderOpenAI, "":
		if cfg.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY is required for OpenAI provider")
		}
		return NewOpenAIService(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.Timeout), nil

	case ProviderGemini:
		if cfg.GeminiAPIKey == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY is required for Gemini provider")
		}
		return NewGeminiService(ctx, cfg.GeminiAPIKey, cfg.GeminiBaseURL, cfg.Timeout)

	case ProviderOllama:
		return NewOllamaService(cfg.OllamaBaseURL, cfg.OllamaModel, cfg.Timeout), nil

	case ProviderAuto:
		return newAutoGenerator(ctx, cfg)

	default:
		return nil, fmt.Errorf("unknown AI provider %q", cfg.Provider)
	}
}

// newAutoGenerator prefers OpenAI, then Gemini, with Ollama as the local fallback.
func newAutoGenerator(ctx context.Context, cfg Config) (TextGenerator, error) {
	var hosted []TextGenerator
	if cfg.OpenAIAPIKey != "" {
		hosted = append(hosted, NewOpenAIService(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.Timeout))
	}
	if cfg.GeminiAPIKey != "" {
		g, err := NewGeminiService(ctx, cfg.GeminiAPIKey, cfg.GeminiBaseURL, cfg.Timeout)
		if err != nil {
			return nil, err
		}
		hosted = append(hosted, g)
	}

	ollama := NewOllamaService(cfg.OllamaBaseURL, cfg.OllamaModel, cfg.Timeout)
	switch len(hosted) {
	case 0:
		return ollama, nil
	case 1:
		return NewFallbackService(hosted[0], ollama), nil
	default:
		return NewFallbackService(hosted[0], hosted[1]), nil
	}
}
