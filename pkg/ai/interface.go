package ai

import (
	"context"
)

// Prompt is a single-turn request: one system instruction and one user instruction.
// An empty Model selects the provider's default model.
type Prompt struct {
	System string
	User   string
	Model  string
}

// TextGenerator is the interface for text-completion providers.
// Implement this interface to add new AI providers (OpenAI, Gemini, Ollama, ...).
// Failures are returned as *GenerationError.
type TextGenerator interface {
	Generate(ctx context.Context, p Prompt) (string, error)
	Provider() ProviderType
}

// ProviderType represents the AI provider type
type ProviderType string

const (
	ProviderOpenAI ProviderType = "openai"
	ProviderGemini ProviderType = "gemini"
	ProviderOllama ProviderType = "ollama"
	ProviderAuto   ProviderType = "auto"
)

// Pinger is implemented by providers that can check connectivity cheaply.
type Pinger interface {
	Ping(ctx context.Context) error
}
